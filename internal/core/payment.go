package core

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// ApplyPayment records amount against s and returns the updated service order.
// The amount must be positive and no greater than the remaining balance.
func ApplyPayment(s ServiceOrder, amount decimal.Decimal) (ServiceOrder, error) {
	if !amount.IsPositive() {
		return s, fmt.Errorf("%w: payment amount %s must be greater than zero", ErrInvalidAmount, amount.StringFixed(2))
	}
	if amount.GreaterThan(s.RemainingAmount) {
		return s, fmt.Errorf("%w: payment amount %s exceeds remaining balance %s of service %d",
			ErrInvalidAmount, amount.StringFixed(2), s.RemainingAmount.StringFixed(2), s.ID)
	}
	return s.withAmountPaid(s.AmountPaid.Add(amount)), nil
}

// RevertPayment undoes a previously applied payment, as happens when the
// payment is deleted.
func RevertPayment(s ServiceOrder, amount decimal.Decimal) (ServiceOrder, error) {
	if !amount.IsPositive() {
		return s, fmt.Errorf("%w: reverted amount %s must be greater than zero", ErrInvalidAmount, amount.StringFixed(2))
	}
	if amount.GreaterThan(s.AmountPaid) {
		return s, fmt.Errorf("%w: reverted amount %s exceeds amount paid %s on service %d",
			ErrInvalidAmount, amount.StringFixed(2), s.AmountPaid.StringFixed(2), s.ID)
	}
	return s.withAmountPaid(s.AmountPaid.Sub(amount)), nil
}

// ReplacePayment swaps an edited payment's old amount for its new one.
func ReplacePayment(s ServiceOrder, oldAmount, newAmount decimal.Decimal) (ServiceOrder, error) {
	reverted, err := RevertPayment(s, oldAmount)
	if err != nil {
		return s, err
	}
	updated, err := ApplyPayment(reverted, newAmount)
	if err != nil {
		return s, err
	}
	return updated, nil
}

// Reprice changes the cost of a service order. The new cost may not drop
// below what has already been paid.
func Reprice(s ServiceOrder, cost decimal.Decimal) (ServiceOrder, error) {
	if cost.IsNegative() {
		return s, fmt.Errorf("%w: cost %s must not be negative", ErrInvalidAmount, cost.StringFixed(2))
	}
	if cost.LessThan(s.AmountPaid) {
		return s, fmt.Errorf("%w: cost %s is below amount already paid %s on service %d",
			ErrInvalidAmount, cost.StringFixed(2), s.AmountPaid.StringFixed(2), s.ID)
	}
	s.Cost = cost
	return s.withAmountPaid(s.AmountPaid), nil
}

// RecalculateFromPayments rebuilds the derived balance of s from the payments
// recorded against it. Payments for other services are ignored.
func RecalculateFromPayments(s ServiceOrder, payments []Payment) (ServiceOrder, error) {
	paid := decimal.Zero
	for _, p := range payments {
		if p.ServiceID == s.ID {
			paid = paid.Add(nonNegative(p.Amount))
		}
	}
	if paid.GreaterThan(s.Cost) {
		return s, fmt.Errorf("%w: payments %s exceed cost %s of service %d",
			ErrInvalidAmount, paid.StringFixed(2), s.Cost.StringFixed(2), s.ID)
	}
	return s.withAmountPaid(paid), nil
}

// ApplyPurchasePayment is ApplyPayment for the purchasing side.
func ApplyPurchasePayment(inv PurchaseInvoice, amount decimal.Decimal) (PurchaseInvoice, error) {
	if !amount.IsPositive() {
		return inv, fmt.Errorf("%w: payment amount %s must be greater than zero", ErrInvalidAmount, amount.StringFixed(2))
	}
	if remaining := inv.Remaining(); amount.GreaterThan(remaining) {
		return inv, fmt.Errorf("%w: payment amount %s exceeds remaining balance %s of invoice %s",
			ErrInvalidAmount, amount.StringFixed(2), remaining.StringFixed(2), inv.InvoiceNumber)
	}
	return inv.withPaidAmount(inv.PaidAmount.Add(amount)), nil
}

// RevertPurchasePayment undoes a purchase payment.
func RevertPurchasePayment(inv PurchaseInvoice, amount decimal.Decimal) (PurchaseInvoice, error) {
	if !amount.IsPositive() || amount.GreaterThan(inv.PaidAmount) {
		return inv, fmt.Errorf("%w: cannot revert %s from invoice %s with %s paid",
			ErrInvalidAmount, amount.StringFixed(2), inv.InvoiceNumber, inv.PaidAmount.StringFixed(2))
	}
	return inv.withPaidAmount(inv.PaidAmount.Sub(amount)), nil
}

// ReplacePurchasePayment swaps an edited purchase payment's amount.
func ReplacePurchasePayment(inv PurchaseInvoice, oldAmount, newAmount decimal.Decimal) (PurchaseInvoice, error) {
	reverted, err := RevertPurchasePayment(inv, oldAmount)
	if err != nil {
		return inv, err
	}
	updated, err := ApplyPurchasePayment(reverted, newAmount)
	if err != nil {
		return inv, err
	}
	return updated, nil
}

// RepriceInvoice changes an invoice total, keeping it at or above PaidAmount.
func RepriceInvoice(inv PurchaseInvoice, amount decimal.Decimal) (PurchaseInvoice, error) {
	if amount.IsNegative() || amount.LessThan(inv.PaidAmount) {
		return inv, fmt.Errorf("%w: invoice amount %s must cover amount already paid %s",
			ErrInvalidAmount, amount.StringFixed(2), inv.PaidAmount.StringFixed(2))
	}
	inv.Amount = amount
	return inv.withPaidAmount(inv.PaidAmount), nil
}
