package core

import (
	"fmt"
	"time"
)

// DateLayout is the calendar-date format used on every external surface.
const DateLayout = "2006-01-02"

// DateRange is an inclusive calendar-date window. A nil bound is unbounded on
// that side; the zero DateRange matches everything.
type DateRange struct {
	From *time.Time `json:"from,omitempty"`
	To   *time.Time `json:"to,omitempty"`
}

// ParseDateRange builds a DateRange from optional YYYY-MM-DD strings.
func ParseDateRange(from, to string) (DateRange, error) {
	var r DateRange
	if from != "" {
		t, err := time.Parse(DateLayout, from)
		if err != nil {
			return r, fmt.Errorf("invalid from date %q: %w", from, err)
		}
		r.From = &t
	}
	if to != "" {
		t, err := time.Parse(DateLayout, to)
		if err != nil {
			return r, fmt.Errorf("invalid to date %q: %w", to, err)
		}
		r.To = &t
	}
	return r, nil
}

// IsUnbounded reports whether neither bound is set.
func (r DateRange) IsUnbounded() bool {
	return r.From == nil && r.To == nil
}

// Contains reports whether the calendar date of t falls inside the range.
// The upper bound is treated as the end of its day (23:59:59.999).
func (r DateRange) Contains(t time.Time) bool {
	day := calendarDate(t)
	if r.From != nil && day.Before(calendarDate(*r.From)) {
		return false
	}
	if r.To != nil && day.After(endOfDay(*r.To)) {
		return false
	}
	return true
}

func (r DateRange) String() string {
	from, to := "beginning", "today"
	if r.From != nil {
		from = r.From.Format(DateLayout)
	}
	if r.To != nil {
		to = r.To.Format(DateLayout)
	}
	return from + " to " + to
}

// calendarDate drops the time of day, keeping the date as written in t's own
// location, so that comparisons are between calendar dates.
func calendarDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func endOfDay(t time.Time) time.Time {
	return calendarDate(t).Add(24*time.Hour - time.Millisecond)
}

func filterByDate[T any](items []T, r DateRange, date func(T) time.Time) []T {
	if r.IsUnbounded() {
		return items
	}
	out := make([]T, 0, len(items))
	for _, it := range items {
		if r.Contains(date(it)) {
			out = append(out, it)
		}
	}
	return out
}

// FilterServicesByDateRange keeps the services whose Date falls in r, in
// input order. An unbounded range returns services unchanged.
func FilterServicesByDateRange(services []ServiceOrder, r DateRange) []ServiceOrder {
	return filterByDate(services, r, func(s ServiceOrder) time.Time { return s.Date })
}

// FilterPaymentsByDateRange filters payments on PaymentDate.
func FilterPaymentsByDateRange(payments []Payment, r DateRange) []Payment {
	return filterByDate(payments, r, func(p Payment) time.Time { return p.PaymentDate })
}

// FilterPurchaseInvoicesByDateRange filters invoices on InvoiceDate.
func FilterPurchaseInvoicesByDateRange(invoices []PurchaseInvoice, r DateRange) []PurchaseInvoice {
	return filterByDate(invoices, r, func(inv PurchaseInvoice) time.Time { return inv.InvoiceDate })
}

// FilterPurchasePaymentsByDateRange filters purchase payments on PaymentDate.
func FilterPurchasePaymentsByDateRange(payments []PurchasePayment, r DateRange) []PurchasePayment {
	return filterByDate(payments, r, func(p PurchasePayment) time.Time { return p.PaymentDate })
}
