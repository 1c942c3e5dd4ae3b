package app

import (
	"github.com/shopspring/decimal"
)

// Request types double as the JSON bodies of the web adapter. Dates are
// YYYY-MM-DD strings; amounts accept JSON numbers or strings.

// CustomerRequest is the input for creating or updating a customer.
type CustomerRequest struct {
	Name    string  `json:"name" validate:"required,max=200"`
	Phone   string  `json:"phone" validate:"required,max=50"`
	Email   *string `json:"email" validate:"omitempty,email"`
	Address *string `json:"address" validate:"omitempty,max=500"`
}

// VehicleRequest is the input for creating or updating a vehicle.
type VehicleRequest struct {
	CustomerID   int    `json:"customer_id" validate:"required,gt=0"`
	Make         string `json:"make" validate:"required,max=100"`
	Model        string `json:"model" validate:"required,max=100"`
	Year         int    `json:"year" validate:"required,gte=1900,lte=2100"`
	LicensePlate string `json:"license_plate" validate:"required,max=20"`
	Status       string `json:"status" validate:"omitempty,oneof=pending in-service completed"`
}

// ServiceRequest is the input for creating or updating a service order.
// Description may be plain text or a JSON-encoded list of service lines.
type ServiceRequest struct {
	VehicleID   int             `json:"vehicle_id" validate:"required,gt=0"`
	Type        string          `json:"type" validate:"required,max=100"`
	Description string          `json:"description" validate:"max=10000"`
	Technician  string          `json:"technician" validate:"max=200"`
	Date        string          `json:"date" validate:"required,datetime=2006-01-02"`
	Cost        decimal.Decimal `json:"cost" validate:"gte=0"`
	Status      string          `json:"status" validate:"omitempty,oneof=pending in-progress in-service completed"`
}

// PaymentRequest is the input for recording or editing a customer payment.
type PaymentRequest struct {
	ServiceID     int             `json:"service_id" validate:"required,gt=0"`
	Amount        decimal.Decimal `json:"amount" validate:"gt=0"`
	Method        string          `json:"payment_method" validate:"required,oneof=cash card transfer check"`
	PaymentDate   string          `json:"payment_date" validate:"required,datetime=2006-01-02"`
	TransactionID *string         `json:"transaction_id" validate:"omitempty,max=100"`
	Notes         *string         `json:"notes" validate:"omitempty,max=1000"`
}

// BulkPaymentRequest spreads one payment over a vehicle's outstanding services.
type BulkPaymentRequest struct {
	VehicleID     int             `json:"vehicle_id" validate:"required,gt=0"`
	Amount        decimal.Decimal `json:"amount" validate:"gt=0"`
	Method        string          `json:"payment_method" validate:"required,oneof=cash card transfer check"`
	PaymentDate   string          `json:"payment_date" validate:"required,datetime=2006-01-02"`
	TransactionID *string         `json:"transaction_id" validate:"omitempty,max=100"`
	Notes         *string         `json:"notes" validate:"omitempty,max=1000"`
}

// SupplierRequest is the input for creating or updating a supplier.
type SupplierRequest struct {
	Name    string  `json:"name" validate:"required,max=200"`
	Phone   string  `json:"phone" validate:"max=50"`
	Email   *string `json:"email" validate:"omitempty,email"`
	Address *string `json:"address" validate:"omitempty,max=500"`
}

// PurchaseInvoiceRequest is the input for creating or updating a supplier invoice.
type PurchaseInvoiceRequest struct {
	SupplierID    int             `json:"supplier_id" validate:"required,gt=0"`
	InvoiceNumber string          `json:"invoice_number" validate:"required,max=100"`
	InvoiceDate   string          `json:"invoice_date" validate:"required,datetime=2006-01-02"`
	Amount        decimal.Decimal `json:"amount" validate:"gte=0"`
	Notes         *string         `json:"notes" validate:"omitempty,max=1000"`
}

// PurchasePaymentRequest is the input for paying a supplier invoice.
type PurchasePaymentRequest struct {
	InvoiceID   int             `json:"invoice_id" validate:"required,gt=0"`
	Amount      decimal.Decimal `json:"amount" validate:"gt=0"`
	Method      string          `json:"payment_method" validate:"required,oneof=cash card transfer check"`
	PaymentDate string          `json:"payment_date" validate:"required,datetime=2006-01-02"`
	Notes       *string         `json:"notes" validate:"omitempty,max=1000"`
}

// EmployeeRequest is the input for creating or updating an employee.
type EmployeeRequest struct {
	Name     string          `json:"name" validate:"required,max=200"`
	Position string          `json:"position" validate:"required,max=100"`
	Phone    string          `json:"phone" validate:"max=50"`
	Email    string          `json:"email" validate:"omitempty,email"`
	Salary   decimal.Decimal `json:"salary" validate:"gte=0"`
	HireDate string          `json:"hire_date" validate:"required,datetime=2006-01-02"`
}

// CreateUserRequest is the input for creating an operator account.
type CreateUserRequest struct {
	Username string `json:"username" validate:"required,min=3,max=50"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=72"`
	Role     string `json:"role" validate:"required,oneof=admin staff"`
}
