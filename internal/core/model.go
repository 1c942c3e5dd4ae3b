package core

import (
	"time"

	"github.com/shopspring/decimal"
)

type VehicleStatus string

const (
	VehiclePending   VehicleStatus = "pending"
	VehicleInService VehicleStatus = "in-service"
	VehicleCompleted VehicleStatus = "completed"
)

type ServiceStatus string

const (
	ServicePending    ServiceStatus = "pending"
	ServiceInProgress ServiceStatus = "in-progress"
	ServiceCompleted  ServiceStatus = "completed"
)

// PaymentStatus is derived from cost and amount paid; see DerivePaymentStatus.
type PaymentStatus string

const (
	PaymentPending PaymentStatus = "pending"
	PaymentPartial PaymentStatus = "partial"
	PaymentPaid    PaymentStatus = "paid"
)

type PaymentMethod string

const (
	MethodCash     PaymentMethod = "cash"
	MethodCard     PaymentMethod = "card"
	MethodTransfer PaymentMethod = "transfer"
	MethodCheck    PaymentMethod = "check"
)

// Customer is the owner of one or more vehicles.
type Customer struct {
	ID        int       `json:"id"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone"`
	Email     *string   `json:"email,omitempty"`
	Address   *string   `json:"address,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Vehicle belongs to exactly one customer. LicensePlate is unique across the store.
type Vehicle struct {
	ID           int           `json:"id"`
	CustomerID   int           `json:"customer_id"`
	Make         string        `json:"make"`
	Model        string        `json:"model"`
	Year         int           `json:"year"`
	LicensePlate string        `json:"license_plate"`
	Status       VehicleStatus `json:"status"`
}

// Label renders the vehicle the way printed documents show it: "Make Model (PLATE)".
func (v Vehicle) Label() string {
	return v.Make + " " + v.Model + " (" + v.LicensePlate + ")"
}

// ServiceOrder is a unit of work performed on a vehicle.
//
// AmountPaid, RemainingAmount and PaymentStatus are derived state. They are
// only ever changed through ApplyPayment, RevertPayment, ReplacePayment,
// Reprice or RecalculateFromPayments so that RemainingAmount = Cost - AmountPaid
// always holds.
type ServiceOrder struct {
	ID              int             `json:"id"`
	VehicleID       int             `json:"vehicle_id"`
	Type            string          `json:"type"`
	Description     string          `json:"description"`
	Technician      string          `json:"technician"`
	Date            time.Time       `json:"date"`
	Cost            decimal.Decimal `json:"cost"`
	AmountPaid      decimal.Decimal `json:"amount_paid"`
	RemainingAmount decimal.Decimal `json:"remaining_amount"`
	Status          ServiceStatus   `json:"status"`
	PaymentStatus   PaymentStatus   `json:"payment_status"`
}

// Payment is money received against a single service order.
// TransactionID is expected for non-cash methods but never enforced.
type Payment struct {
	ID            int             `json:"id"`
	ServiceID     int             `json:"service_id"`
	Amount        decimal.Decimal `json:"amount"`
	Method        PaymentMethod   `json:"payment_method"`
	PaymentDate   time.Time       `json:"payment_date"`
	TransactionID *string         `json:"transaction_id,omitempty"`
	Notes         *string         `json:"notes,omitempty"`
}

// ParseVehicleStatus validates a vehicle status string.
func ParseVehicleStatus(s string) (VehicleStatus, bool) {
	switch VehicleStatus(s) {
	case VehiclePending, VehicleInService, VehicleCompleted:
		return VehicleStatus(s), true
	}
	return "", false
}

// ParseServiceStatus validates a service status string. "in-service" is
// accepted as a legacy spelling of in-progress.
func ParseServiceStatus(s string) (ServiceStatus, bool) {
	switch s {
	case "in-service":
		return ServiceInProgress, true
	case string(ServicePending), string(ServiceInProgress), string(ServiceCompleted):
		return ServiceStatus(s), true
	}
	return "", false
}

// ParsePaymentMethod validates a payment method string.
func ParsePaymentMethod(s string) (PaymentMethod, bool) {
	switch PaymentMethod(s) {
	case MethodCash, MethodCard, MethodTransfer, MethodCheck:
		return PaymentMethod(s), true
	}
	return "", false
}
