package core

import (
	"time"

	"github.com/shopspring/decimal"
)

// Supplier is a parts or service provider the garage buys from.
type Supplier struct {
	ID        int       `json:"id"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone"`
	Email     *string   `json:"email,omitempty"`
	Address   *string   `json:"address,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// PurchaseInvoice mirrors ServiceOrder on the purchasing side: Amount is the
// invoice total and PaidAmount the sum of its purchase payments. Status follows
// the same derivation rule as ServiceOrder.PaymentStatus.
type PurchaseInvoice struct {
	ID            int             `json:"id"`
	SupplierID    int             `json:"supplier_id"`
	InvoiceNumber string          `json:"invoice_number"`
	InvoiceDate   time.Time       `json:"invoice_date"`
	Amount        decimal.Decimal `json:"amount"`
	PaidAmount    decimal.Decimal `json:"paid_amount"`
	Status        PaymentStatus   `json:"status"`
	Notes         *string         `json:"notes,omitempty"`
}

// Remaining returns Amount - PaidAmount, never negative.
func (inv PurchaseInvoice) Remaining() decimal.Decimal {
	return nonNegative(inv.Amount.Sub(inv.PaidAmount))
}

// PurchasePayment is money paid to a supplier against one invoice.
type PurchasePayment struct {
	ID          int             `json:"id"`
	InvoiceID   int             `json:"invoice_id"`
	Amount      decimal.Decimal `json:"amount"`
	Method      PaymentMethod   `json:"payment_method"`
	PaymentDate time.Time       `json:"payment_date"`
	Notes       *string         `json:"notes,omitempty"`
}

// SupplierBalance rolls up all invoices of one supplier.
type SupplierBalance struct {
	Supplier       Supplier          `json:"supplier"`
	Invoices       []PurchaseInvoice `json:"invoices"`
	TotalInvoiced  decimal.Decimal   `json:"total_invoiced"`
	TotalPaid      decimal.Decimal   `json:"total_paid"`
	TotalRemaining decimal.Decimal   `json:"total_remaining"`
}
