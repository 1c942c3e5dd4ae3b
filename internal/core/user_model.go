package core

import (
	"time"

	"github.com/shopspring/decimal"
)

// User represents an authenticated operator of the garage application.
type User struct {
	ID           int       `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
}

type EmployeeStatus string

const (
	EmployeeActive   EmployeeStatus = "active"
	EmployeeArchived EmployeeStatus = "archived"
)

// Employee is a member of the garage staff. Salary is monthly.
type Employee struct {
	ID       int             `json:"id"`
	Name     string          `json:"name"`
	Position string          `json:"position"`
	Phone    string          `json:"phone"`
	Email    string          `json:"email"`
	Salary   decimal.Decimal `json:"salary"`
	HireDate time.Time       `json:"hire_date"`
	Status   EmployeeStatus  `json:"status"`
}
