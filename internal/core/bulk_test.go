package core_test

import (
	"errors"
	"testing"

	"garage-manager/internal/core"

	"github.com/shopspring/decimal"
)

func TestVehicleTotals_ScenarioA(t *testing.T) {
	snap := garageSnapshot()

	if got := snap.TotalCostForVehicle(10); !got.Equal(dec("300")) {
		t.Errorf("TotalCostForVehicle = %s, want 300", got)
	}
	if got := snap.TotalPaidForVehicle(10); !got.Equal(dec("150")) {
		t.Errorf("TotalPaidForVehicle = %s, want 150", got)
	}
	if got := snap.TotalRemainingForVehicle(10); !got.Equal(dec("150")) {
		t.Errorf("TotalRemainingForVehicle = %s, want 150", got)
	}
	if got := snap.TotalCostForVehicle(404); !got.IsZero() {
		t.Errorf("unknown vehicle cost = %s, want 0", got)
	}
}

func TestBulkPaymentPlan_ExactSettlement_ScenarioB(t *testing.T) {
	snap := garageSnapshot()

	plan, err := snap.BulkPaymentPlan(10, dec("150"))
	if err != nil {
		t.Fatalf("BulkPaymentPlan: %v", err)
	}
	if plan.Kind != core.ExactSettlement || !plan.IsFullSettlement {
		t.Fatalf("expected exact settlement, got %s", plan.Kind)
	}
	if len(plan.Allocations) != 1 || plan.Allocations[0].ServiceID != 101 || !plan.Allocations[0].AmountToApply.Equal(dec("150")) {
		t.Fatalf("unexpected allocations: %+v", plan.Allocations)
	}

	updated, err := core.ApplyBulkPlan(snap.Services, plan)
	if err != nil {
		t.Fatalf("ApplyBulkPlan: %v", err)
	}
	for _, svc := range updated {
		if svc.ID != 101 {
			continue
		}
		if !svc.RemainingAmount.IsZero() || svc.PaymentStatus != core.PaymentPaid {
			t.Errorf("service 101 remaining %s status %s, want 0 paid", svc.RemainingAmount, svc.PaymentStatus)
		}
	}
	if !snap.Services[2].RemainingAmount.Equal(dec("150")) {
		t.Errorf("ApplyBulkPlan mutated its input")
	}
}

func TestBulkPaymentPlan_Proportional_ScenarioC(t *testing.T) {
	snap := garageSnapshot()

	plan, err := snap.BulkPaymentPlan(10, dec("75"))
	if err != nil {
		t.Fatalf("BulkPaymentPlan: %v", err)
	}
	if plan.Kind != core.ProportionalAllocation || plan.IsFullSettlement {
		t.Fatalf("expected proportional allocation, got %s", plan.Kind)
	}
	if len(plan.Allocations) != 1 || !plan.Allocations[0].AmountToApply.Equal(dec("75")) {
		t.Fatalf("unexpected allocations: %+v", plan.Allocations)
	}

	updated, err := core.ApplyBulkPlan(snap.Services, plan)
	if err != nil {
		t.Fatalf("ApplyBulkPlan: %v", err)
	}
	for _, svc := range updated {
		if svc.ID == 101 && !svc.RemainingAmount.Equal(dec("75")) {
			t.Errorf("service 101 remaining = %s, want 75", svc.RemainingAmount)
		}
	}
}

func TestBulkPaymentPlan_ProportionalSharesSumToPayment(t *testing.T) {
	snap := &core.Snapshot{
		Services: []core.ServiceOrder{
			service(1, 5, "2026-01-01", "100", "0"),
			service(2, 5, "2026-01-02", "200", "0"),
			service(3, 5, "2026-01-03", "33.33", "0"),
			service(4, 5, "2026-01-04", "50", "50"),
		},
	}
	amount := dec("100")

	plan, err := snap.BulkPaymentPlan(5, amount)
	if err != nil {
		t.Fatalf("BulkPaymentPlan: %v", err)
	}
	if !plan.TotalRemaining.Equal(dec("333.33")) {
		t.Errorf("total remaining = %s, want 333.33", plan.TotalRemaining)
	}
	if len(plan.Allocations) != 3 {
		t.Fatalf("expected 3 allocations (settled service excluded), got %d", len(plan.Allocations))
	}

	sum := decimal.Zero
	ratio := amount.Div(plan.TotalRemaining)
	oneCent := dec("0.01")
	for _, a := range plan.Allocations {
		sum = sum.Add(a.AmountToApply)
		svc, _ := snap.Service(a.ServiceID)
		want := svc.RemainingAmount.Mul(ratio)
		if a.AmountToApply.Sub(want).Abs().GreaterThan(oneCent) {
			t.Errorf("service %d got %s, want ≈ %s", a.ServiceID, a.AmountToApply, want.StringFixed(4))
		}
	}
	if !sum.Equal(amount) {
		t.Errorf("allocations sum to %s, want %s", sum, amount)
	}

	updated, err := core.ApplyBulkPlan(snap.Services, plan)
	if err != nil {
		t.Fatalf("ApplyBulkPlan: %v", err)
	}
	for _, svc := range updated[:3] {
		if svc.RemainingAmount.IsZero() {
			t.Errorf("partial bulk payment fully settled service %d", svc.ID)
		}
	}
}

func TestBulkPaymentPlan_Errors(t *testing.T) {
	snap := garageSnapshot()

	tests := []struct {
		name      string
		vehicleID int
		amount    string
		wantErr   error
	}{
		{"Fully paid vehicle", 20, "10", core.ErrNoOutstandingBalance},
		{"Unknown vehicle", 999, "10", core.ErrNoOutstandingBalance},
		{"Zero amount", 10, "0", core.ErrInvalidAmount},
		{"Negative amount", 10, "-1", core.ErrInvalidAmount},
		{"Overpayment", 10, "150.01", core.ErrInvalidAmount},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := snap.BulkPaymentPlan(tt.vehicleID, dec(tt.amount))
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestBulkPaymentPlan_ExactSettlementAcrossServices(t *testing.T) {
	snap := &core.Snapshot{
		Services: []core.ServiceOrder{
			service(1, 5, "2026-01-01", "99.99", "10"),
			service(2, 5, "2026-01-02", "0.03", "0"),
			service(3, 5, "2026-01-03", "45.50", "0.50"),
		},
	}
	total := snap.TotalRemainingForVehicle(5)

	plan, err := snap.BulkPaymentPlan(5, total)
	if err != nil {
		t.Fatalf("BulkPaymentPlan: %v", err)
	}
	updated, err := core.ApplyBulkPlan(snap.Services, plan)
	if err != nil {
		t.Fatalf("ApplyBulkPlan: %v", err)
	}
	for _, svc := range updated {
		if !svc.RemainingAmount.IsZero() || svc.PaymentStatus != core.PaymentPaid {
			t.Errorf("service %d remaining %s status %s", svc.ID, svc.RemainingAmount, svc.PaymentStatus)
		}
	}
}

func TestBulkPaymentPlan_ManySmallBalancesSumToPayment(t *testing.T) {
	snap := &core.Snapshot{}
	for i := 1; i <= 100; i++ {
		snap.Services = append(snap.Services, service(i, 7, "2026-02-01", "0.03", "0"))
	}
	snap.Services = append(snap.Services, service(101, 7, "2026-02-02", "1.00", "0"))

	tests := []struct {
		name   string
		amount string
	}{
		{"Most of the balance", "3.20"},
		{"One cent short", "3.99"},
		{"Single cent", "0.01"},
		{"Half", "2.00"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			amount := dec(tt.amount)
			plan, err := snap.BulkPaymentPlan(7, amount)
			if err != nil {
				t.Fatalf("BulkPaymentPlan: %v", err)
			}
			sum := decimal.Zero
			for _, a := range plan.Allocations {
				svc, _ := snap.Service(a.ServiceID)
				if a.AmountToApply.GreaterThan(svc.RemainingAmount) {
					t.Errorf("service %d allocated %s over remaining %s", a.ServiceID, a.AmountToApply, svc.RemainingAmount)
				}
				if !a.AmountToApply.Equal(a.AmountToApply.Round(2)) {
					t.Errorf("service %d allocation %s is not whole cents", a.ServiceID, a.AmountToApply)
				}
				sum = sum.Add(a.AmountToApply)
			}
			if !sum.Equal(amount) {
				t.Errorf("allocations sum to %s, want %s", sum, amount)
			}
			if _, err := core.ApplyBulkPlan(snap.Services, plan); err != nil {
				t.Errorf("ApplyBulkPlan: %v", err)
			}
		})
	}
}
