package core

import "github.com/shopspring/decimal"

// nonNegative clamps d at zero. Negative amounts reaching the engine are
// treated as missing.
func nonNegative(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}

func sumBy[T any](items []T, amount func(T) decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(nonNegative(amount(it)))
	}
	return total
}

func serviceCost(s ServiceOrder) decimal.Decimal      { return s.Cost }
func servicePaid(s ServiceOrder) decimal.Decimal      { return s.AmountPaid }
func serviceRemaining(s ServiceOrder) decimal.Decimal { return s.RemainingAmount }
func paymentAmount(p Payment) decimal.Decimal         { return p.Amount }
