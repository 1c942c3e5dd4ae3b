package core

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
)

// SettlementKind names the two bulk payment allocation policies.
type SettlementKind string

const (
	// ExactSettlement pays every outstanding service in full. Chosen only when
	// the payment equals the total outstanding balance, so no rounding occurs.
	ExactSettlement SettlementKind = "exact_settlement"
	// ProportionalAllocation spreads the payment across outstanding services
	// in proportion to each one's remaining balance.
	ProportionalAllocation SettlementKind = "proportional_allocation"
)

// Allocation is the part of a bulk payment applied to one service.
type Allocation struct {
	ServiceID     int             `json:"service_id"`
	AmountToApply decimal.Decimal `json:"amount_to_apply"`
}

// BulkPlan describes how a single payment is distributed over a vehicle's
// outstanding services.
type BulkPlan struct {
	VehicleID        int             `json:"vehicle_id"`
	Kind             SettlementKind  `json:"kind"`
	PaymentAmount    decimal.Decimal `json:"payment_amount"`
	TotalRemaining   decimal.Decimal `json:"total_remaining"`
	IsFullSettlement bool            `json:"is_full_settlement"`
	Allocations      []Allocation    `json:"allocations"`
}

// OutstandingServices returns the vehicle's services that still carry a
// positive balance and are not marked paid.
func (s *Snapshot) OutstandingServices(vehicleID int) []ServiceOrder {
	out := make([]ServiceOrder, 0)
	for _, svc := range s.ServicesForVehicle(vehicleID) {
		if svc.RemainingAmount.IsPositive() && svc.PaymentStatus != PaymentPaid {
			out = append(out, svc)
		}
	}
	return out
}

// BulkPaymentPlan distributes amount over the vehicle's outstanding services.
//
// When amount equals the total outstanding balance each service receives its
// full remaining amount. Otherwise each receives remaining × amount / total,
// rounded down to the cent; the leftover cents are handed out one at a time
// by largest remainder, never past a service's remaining balance, so the
// allocations add up to amount. Services whose share is zero get no
// allocation.
func (s *Snapshot) BulkPaymentPlan(vehicleID int, amount decimal.Decimal) (BulkPlan, error) {
	outstanding := s.OutstandingServices(vehicleID)
	if len(outstanding) == 0 {
		return BulkPlan{}, fmt.Errorf("%w: vehicle %d has no unpaid services", ErrNoOutstandingBalance, vehicleID)
	}
	total := sumBy(outstanding, serviceRemaining)
	if !amount.IsPositive() {
		return BulkPlan{}, fmt.Errorf("%w: bulk payment %s must be greater than zero", ErrInvalidAmount, amount.StringFixed(2))
	}
	if amount.GreaterThan(total) {
		return BulkPlan{}, fmt.Errorf("%w: bulk payment %s exceeds total remaining %s for vehicle %d",
			ErrInvalidAmount, amount.StringFixed(2), total.StringFixed(2), vehicleID)
	}

	plan := BulkPlan{
		VehicleID:      vehicleID,
		PaymentAmount:  amount,
		TotalRemaining: total,
	}
	if amount.Equal(total) {
		plan.Kind = ExactSettlement
		plan.IsFullSettlement = true
		plan.Allocations = make([]Allocation, 0, len(outstanding))
		for _, svc := range outstanding {
			plan.Allocations = append(plan.Allocations, Allocation{ServiceID: svc.ID, AmountToApply: svc.RemainingAmount})
		}
		return plan, nil
	}

	plan.Kind = ProportionalAllocation
	plan.Allocations = proportionalShares(outstanding, amount, total)
	return plan, nil
}

func proportionalShares(outstanding []ServiceOrder, amount, total decimal.Decimal) []Allocation {
	oneCent := decimal.New(1, -2)
	shares := make([]decimal.Decimal, len(outstanding))
	fractions := make([]decimal.Decimal, len(outstanding))
	allocated := decimal.Zero
	for i, svc := range outstanding {
		exact := svc.RemainingAmount.Mul(amount).Div(total)
		shares[i] = exact.RoundFloor(2)
		fractions[i] = exact.Sub(shares[i])
		allocated = allocated.Add(shares[i])
	}

	// Remaining cents go one at a time to the largest fractional parts,
	// ties to the larger balance, then input order.
	order := make([]int, len(outstanding))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		i, j := order[a], order[b]
		if c := fractions[i].Cmp(fractions[j]); c != 0 {
			return c > 0
		}
		return outstanding[i].RemainingAmount.GreaterThan(outstanding[j].RemainingAmount)
	})
	residue := amount.Sub(allocated)
	for residue.GreaterThanOrEqual(oneCent) {
		progressed := false
		for _, i := range order {
			if residue.LessThan(oneCent) {
				break
			}
			next := shares[i].Add(oneCent)
			if next.GreaterThan(outstanding[i].RemainingAmount) {
				continue
			}
			shares[i] = next
			residue = residue.Sub(oneCent)
			progressed = true
		}
		if !progressed {
			break
		}
	}

	out := make([]Allocation, 0, len(outstanding))
	for i, svc := range outstanding {
		if shares[i].IsPositive() {
			out = append(out, Allocation{ServiceID: svc.ID, AmountToApply: shares[i]})
		}
	}
	return out
}

// ApplyBulkPlan applies every allocation of plan to services and returns the
// updated collection. The input slice is not modified.
func ApplyBulkPlan(services []ServiceOrder, plan BulkPlan) ([]ServiceOrder, error) {
	out := make([]ServiceOrder, len(services))
	copy(out, services)
	pos := make(map[int]int, len(out))
	for i, svc := range out {
		pos[svc.ID] = i
	}
	for _, a := range plan.Allocations {
		i, ok := pos[a.ServiceID]
		if !ok {
			return nil, fmt.Errorf("allocation references unknown service %d", a.ServiceID)
		}
		updated, err := ApplyPayment(out[i], a.AmountToApply)
		if err != nil {
			return nil, err
		}
		out[i] = updated
	}
	return out, nil
}
