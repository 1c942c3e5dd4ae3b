package core

import "github.com/shopspring/decimal"

// DerivePaymentStatus is the single source of truth for payment status:
//
//	paid    remaining == 0 and (paid > 0 or cost == 0)
//	partial 0 < paid < cost
//	pending paid == 0
//
// It is used for service orders (cost, amount_paid) and purchase invoices
// (amount, paid_amount) alike.
func DerivePaymentStatus(cost, paid decimal.Decimal) PaymentStatus {
	cost = nonNegative(cost)
	paid = nonNegative(paid)
	remaining := nonNegative(cost.Sub(paid))
	switch {
	case remaining.IsZero() && (paid.IsPositive() || cost.IsZero()):
		return PaymentPaid
	case paid.IsPositive():
		return PaymentPartial
	default:
		return PaymentPending
	}
}

// withAmountPaid returns s with AmountPaid set to paid and every derived
// field recomputed. Remaining is clamped at zero against rounding.
func (s ServiceOrder) withAmountPaid(paid decimal.Decimal) ServiceOrder {
	s.AmountPaid = paid
	s.RemainingAmount = nonNegative(s.Cost.Sub(paid))
	s.PaymentStatus = DerivePaymentStatus(s.Cost, paid)
	return s
}

// Normalize recomputes the derived balance fields from Cost and AmountPaid.
// New service orders pass through it before they are stored.
func (s ServiceOrder) Normalize() ServiceOrder {
	return s.withAmountPaid(nonNegative(s.AmountPaid))
}

func (inv PurchaseInvoice) withPaidAmount(paid decimal.Decimal) PurchaseInvoice {
	inv.PaidAmount = paid
	inv.Status = DerivePaymentStatus(inv.Amount, paid)
	return inv
}

// Normalize recomputes Status from Amount and PaidAmount.
func (inv PurchaseInvoice) Normalize() PurchaseInvoice {
	return inv.withPaidAmount(nonNegative(inv.PaidAmount))
}
