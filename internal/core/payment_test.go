package core_test

import (
	"errors"
	"testing"

	"garage-manager/internal/core"

	"github.com/shopspring/decimal"
)

func TestDerivePaymentStatus(t *testing.T) {
	tests := []struct {
		name string
		cost string
		paid string
		want core.PaymentStatus
	}{
		{"Unpaid", "100", "0", core.PaymentPending},
		{"Partially paid", "100", "40", core.PaymentPartial},
		{"Fully paid", "100", "100", core.PaymentPaid},
		{"Free service", "0", "0", core.PaymentPaid},
		{"Cent short", "100.00", "99.99", core.PaymentPartial},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := core.DerivePaymentStatus(dec(tt.cost), dec(tt.paid)); got != tt.want {
				t.Errorf("DerivePaymentStatus(%s, %s) = %s, want %s", tt.cost, tt.paid, got, tt.want)
			}
		})
	}
}

func TestApplyPayment(t *testing.T) {
	base := service(1, 1, "2026-01-01", "200", "50")

	tests := []struct {
		name          string
		amount        string
		wantErr       bool
		wantPaid      string
		wantRemaining string
		wantStatus    core.PaymentStatus
	}{
		{name: "Partial payment", amount: "75", wantPaid: "125", wantRemaining: "75", wantStatus: core.PaymentPartial},
		{name: "Settles balance", amount: "150", wantPaid: "200", wantRemaining: "0", wantStatus: core.PaymentPaid},
		{name: "Zero amount", amount: "0", wantErr: true},
		{name: "Negative amount", amount: "-5", wantErr: true},
		{name: "Exceeds remaining", amount: "150.01", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := core.ApplyPayment(base, dec(tt.amount))
			if tt.wantErr {
				if !errors.Is(err, core.ErrInvalidAmount) {
					t.Fatalf("expected ErrInvalidAmount, got %v", err)
				}
				if !got.AmountPaid.Equal(base.AmountPaid) {
					t.Errorf("service mutated on error: amount paid %s", got.AmountPaid)
				}
				return
			}
			if err != nil {
				t.Fatalf("ApplyPayment: %v", err)
			}
			if !got.AmountPaid.Equal(dec(tt.wantPaid)) {
				t.Errorf("amount paid = %s, want %s", got.AmountPaid, tt.wantPaid)
			}
			if !got.RemainingAmount.Equal(dec(tt.wantRemaining)) {
				t.Errorf("remaining = %s, want %s", got.RemainingAmount, tt.wantRemaining)
			}
			if got.PaymentStatus != tt.wantStatus {
				t.Errorf("status = %s, want %s", got.PaymentStatus, tt.wantStatus)
			}
			if !got.RemainingAmount.Equal(got.Cost.Sub(got.AmountPaid)) {
				t.Errorf("remaining %s != cost %s - paid %s", got.RemainingAmount, got.Cost, got.AmountPaid)
			}
		})
	}

	if !base.AmountPaid.Equal(dec("50")) {
		t.Errorf("input service was modified: %s", base.AmountPaid)
	}
}

func TestApplyPayment_RepeatedCentsRoundTrip(t *testing.T) {
	svc := service(1, 1, "2026-01-01", "1.00", "0")
	var err error
	for i := 0; i < 10; i++ {
		svc, err = core.ApplyPayment(svc, dec("0.10"))
		if err != nil {
			t.Fatalf("payment %d: %v", i, err)
		}
	}
	if !svc.RemainingAmount.IsZero() {
		t.Errorf("expected zero remaining after ten 0.10 payments, got %s", svc.RemainingAmount)
	}
	if svc.PaymentStatus != core.PaymentPaid {
		t.Errorf("expected paid, got %s", svc.PaymentStatus)
	}
}

func TestRevertAndReplacePayment(t *testing.T) {
	svc := service(1, 1, "2026-01-01", "200", "200")

	reverted, err := core.RevertPayment(svc, dec("80"))
	if err != nil {
		t.Fatalf("RevertPayment: %v", err)
	}
	if reverted.PaymentStatus != core.PaymentPartial || !reverted.RemainingAmount.Equal(dec("80")) {
		t.Errorf("after revert: status %s remaining %s", reverted.PaymentStatus, reverted.RemainingAmount)
	}

	if _, err := core.RevertPayment(svc, dec("200.01")); !errors.Is(err, core.ErrInvalidAmount) {
		t.Errorf("expected ErrInvalidAmount reverting more than paid, got %v", err)
	}

	edited, err := core.ReplacePayment(reverted, dec("120"), dec("20"))
	if err != nil {
		t.Fatalf("ReplacePayment: %v", err)
	}
	if !edited.AmountPaid.Equal(dec("20")) || !edited.RemainingAmount.Equal(dec("180")) {
		t.Errorf("after replace: paid %s remaining %s", edited.AmountPaid, edited.RemainingAmount)
	}

	if _, err := core.ReplacePayment(reverted, dec("120"), dec("500")); !errors.Is(err, core.ErrInvalidAmount) {
		t.Errorf("expected ErrInvalidAmount for oversized replacement, got %v", err)
	}
}

func TestReprice(t *testing.T) {
	svc := service(1, 1, "2026-01-01", "100", "100")

	raised, err := core.Reprice(svc, dec("150"))
	if err != nil {
		t.Fatalf("Reprice: %v", err)
	}
	if raised.PaymentStatus != core.PaymentPartial || !raised.RemainingAmount.Equal(dec("50")) {
		t.Errorf("raised cost: status %s remaining %s", raised.PaymentStatus, raised.RemainingAmount)
	}

	if _, err := core.Reprice(svc, dec("99")); !errors.Is(err, core.ErrInvalidAmount) {
		t.Errorf("expected ErrInvalidAmount lowering cost below paid, got %v", err)
	}
}

func TestRecalculateFromPayments(t *testing.T) {
	svc := service(7, 1, "2026-01-01", "100", "0")
	payments := []core.Payment{
		{ServiceID: 7, Amount: dec("30")},
		{ServiceID: 8, Amount: dec("999")},
		{ServiceID: 7, Amount: dec("20.50")},
	}

	got, err := core.RecalculateFromPayments(svc, payments)
	if err != nil {
		t.Fatalf("RecalculateFromPayments: %v", err)
	}
	if !got.AmountPaid.Equal(dec("50.50")) || !got.RemainingAmount.Equal(dec("49.50")) {
		t.Errorf("paid %s remaining %s", got.AmountPaid, got.RemainingAmount)
	}

	payments = append(payments, core.Payment{ServiceID: 7, Amount: dec("60")})
	if _, err := core.RecalculateFromPayments(svc, payments); !errors.Is(err, core.ErrInvalidAmount) {
		t.Errorf("expected ErrInvalidAmount when payments exceed cost, got %v", err)
	}
}

func TestApplyPurchasePayment(t *testing.T) {
	inv := core.PurchaseInvoice{ID: 1, InvoiceNumber: "SUP-1", Amount: dec("500")}.Normalize()
	if inv.Status != core.PaymentPending {
		t.Fatalf("new invoice status = %s", inv.Status)
	}

	paid, err := core.ApplyPurchasePayment(inv, dec("500"))
	if err != nil {
		t.Fatalf("ApplyPurchasePayment: %v", err)
	}
	if paid.Status != core.PaymentPaid || !paid.Remaining().IsZero() {
		t.Errorf("status %s remaining %s", paid.Status, paid.Remaining())
	}

	if _, err := core.ApplyPurchasePayment(paid, decimal.NewFromInt(1)); !errors.Is(err, core.ErrInvalidAmount) {
		t.Errorf("expected ErrInvalidAmount on settled invoice, got %v", err)
	}

	back, err := core.RevertPurchasePayment(paid, dec("200"))
	if err != nil {
		t.Fatalf("RevertPurchasePayment: %v", err)
	}
	if back.Status != core.PaymentPartial || !back.Remaining().Equal(dec("200")) {
		t.Errorf("after revert: status %s remaining %s", back.Status, back.Remaining())
	}
}
