package app

import "garage-manager/internal/core"

// UserSession is returned on successful authentication.
type UserSession struct {
	UserID   int
	Username string
	Role     string
}

// UserResult is the public profile of a user.
type UserResult struct {
	UserID   int    `json:"user_id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     string `json:"role"`
	IsActive bool   `json:"is_active"`
}

// BulkPaymentResult holds the executed plan and the payments it created.
type BulkPaymentResult struct {
	Plan     core.BulkPlan  `json:"plan"`
	Payments []core.Payment `json:"payments"`
}
