package core

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// ── Per-vehicle ───────────────────────────────────────────────────────────────

// ServicesForVehicle returns the vehicle's services in source order.
func (s *Snapshot) ServicesForVehicle(vehicleID int) []ServiceOrder {
	s.index()
	return pick(s.Services, s.servicesByVehicle[vehicleID])
}

// TotalCostForVehicle sums Cost over the vehicle's services.
func (s *Snapshot) TotalCostForVehicle(vehicleID int) decimal.Decimal {
	return sumBy(s.ServicesForVehicle(vehicleID), serviceCost)
}

// TotalPaidForVehicle sums AmountPaid over the vehicle's services.
func (s *Snapshot) TotalPaidForVehicle(vehicleID int) decimal.Decimal {
	return sumBy(s.ServicesForVehicle(vehicleID), servicePaid)
}

// TotalRemainingForVehicle sums RemainingAmount over the vehicle's services.
func (s *Snapshot) TotalRemainingForVehicle(vehicleID int) decimal.Decimal {
	return sumBy(s.ServicesForVehicle(vehicleID), serviceRemaining)
}

// PaymentsForServices returns every payment recorded against one of services,
// in payment source order.
func (s *Snapshot) PaymentsForServices(services []ServiceOrder) []Payment {
	ids := make(map[int]struct{}, len(services))
	for _, svc := range services {
		ids[svc.ID] = struct{}{}
	}
	out := make([]Payment, 0)
	for _, p := range s.Payments {
		if _, ok := ids[p.ServiceID]; ok {
			out = append(out, p)
		}
	}
	return out
}

// ── Per-customer ──────────────────────────────────────────────────────────────

// VehiclesForCustomer returns the customer's vehicles in source order.
func (s *Snapshot) VehiclesForCustomer(customerID int) []Vehicle {
	s.index()
	return pick(s.Vehicles, s.vehiclesByCustomer[customerID])
}

// ServicesForCustomer returns the services of all the customer's vehicles,
// vehicle by vehicle.
func (s *Snapshot) ServicesForCustomer(customerID int) []ServiceOrder {
	out := make([]ServiceOrder, 0)
	for _, v := range s.VehiclesForCustomer(customerID) {
		out = append(out, s.ServicesForVehicle(v.ID)...)
	}
	return out
}

// CustomerStats holds all-time totals and totals restricted to a date range.
type CustomerStats struct {
	TotalVehicles     int             `json:"total_vehicles"`
	TotalServices     int             `json:"total_services"`
	TotalCost         decimal.Decimal `json:"total_cost"`
	TotalPaid         decimal.Decimal `json:"total_paid"`
	TotalRemaining    decimal.Decimal `json:"total_remaining"`
	FilteredServices  int             `json:"filtered_services"`
	FilteredCost      decimal.Decimal `json:"filtered_cost"`
	FilteredPaid      decimal.Decimal `json:"filtered_paid"`
	FilteredRemaining decimal.Decimal `json:"filtered_remaining"`
}

// CustomerStats computes the customer rollup over all services and over the
// services in r.
func (s *Snapshot) CustomerStats(customerID int, r DateRange) CustomerStats {
	services := s.ServicesForCustomer(customerID)
	filtered := FilterServicesByDateRange(services, r)
	return CustomerStats{
		TotalVehicles:     len(s.VehiclesForCustomer(customerID)),
		TotalServices:     len(services),
		TotalCost:         sumBy(services, serviceCost),
		TotalPaid:         sumBy(services, servicePaid),
		TotalRemaining:    sumBy(services, serviceRemaining),
		FilteredServices:  len(filtered),
		FilteredCost:      sumBy(filtered, serviceCost),
		FilteredPaid:      sumBy(filtered, servicePaid),
		FilteredRemaining: sumBy(filtered, serviceRemaining),
	}
}

// ── Revenue ───────────────────────────────────────────────────────────────────

// RevenueKind selects which service amount a revenue rollup sums.
type RevenueKind string

const (
	RevenuePaid    RevenueKind = "paid"    // AmountPaid
	RevenuePending RevenueKind = "pending" // RemainingAmount
	RevenueTotal   RevenueKind = "total"   // Cost
)

// ParseRevenueKind validates a revenue kind string.
func ParseRevenueKind(s string) (RevenueKind, error) {
	switch RevenueKind(s) {
	case RevenuePaid, RevenuePending, RevenueTotal:
		return RevenueKind(s), nil
	}
	return "", fmt.Errorf("unknown revenue kind %q (want paid, pending or total)", s)
}

func (k RevenueKind) metric() func(ServiceOrder) decimal.Decimal {
	switch k {
	case RevenuePaid:
		return servicePaid
	case RevenuePending:
		return serviceRemaining
	default:
		return serviceCost
	}
}

// CustomerRevenue is one customer's row in a revenue rollup.
type CustomerRevenue struct {
	Customer      Customer        `json:"customer"`
	Vehicles      []Vehicle       `json:"vehicles"`
	Services      []ServiceOrder  `json:"services"`
	Total         decimal.Decimal `json:"total"`
	ServicesCount int             `json:"services_count"`
}

// RevenueByCustomer sums kind over each customer's services in r. Customers
// whose sum is exactly zero are left out. Rows follow the order of customers.
func (s *Snapshot) RevenueByCustomer(customers []Customer, r DateRange, kind RevenueKind) []CustomerRevenue {
	metric := kind.metric()
	out := make([]CustomerRevenue, 0)
	for _, c := range customers {
		services := FilterServicesByDateRange(s.ServicesForCustomer(c.ID), r)
		total := sumBy(services, metric)
		if total.IsZero() {
			continue
		}
		out = append(out, CustomerRevenue{
			Customer:      c,
			Vehicles:      s.VehiclesForCustomer(c.ID),
			Services:      services,
			Total:         total,
			ServicesCount: len(services),
		})
	}
	return out
}

// RevenueIndex keys revenue rows by customer id.
func RevenueIndex(rows []CustomerRevenue) map[int]CustomerRevenue {
	m := make(map[int]CustomerRevenue, len(rows))
	for _, row := range rows {
		m[row.Customer.ID] = row
	}
	return m
}

// ── Service types ─────────────────────────────────────────────────────────────

// MostCommonServiceType returns the type occurring most often in services.
// On a tie the type seen first in services wins. ok is false for an empty input.
func MostCommonServiceType(services []ServiceOrder) (serviceType string, ok bool) {
	counts := make(map[string]int)
	order := make([]string, 0)
	for _, svc := range services {
		if _, seen := counts[svc.Type]; !seen {
			order = append(order, svc.Type)
		}
		counts[svc.Type]++
	}
	best := 0
	for _, t := range order {
		if counts[t] > best {
			serviceType, best = t, counts[t]
		}
	}
	return serviceType, best > 0
}

// ── Suppliers ─────────────────────────────────────────────────────────────────

// InvoicesForSupplier returns the supplier's purchase invoices in source order.
func (s *Snapshot) InvoicesForSupplier(supplierID int) []PurchaseInvoice {
	s.index()
	return pick(s.PurchaseInvoices, s.invoicesBySupplier[supplierID])
}

// SupplierBalance rolls up invoiced, paid and remaining amounts for a supplier.
func (s *Snapshot) SupplierBalance(supplierID int) SupplierBalance {
	sup, ok := s.Supplier(supplierID)
	if !ok {
		sup = Supplier{ID: supplierID, Name: Placeholder}
	}
	invoices := s.InvoicesForSupplier(supplierID)
	return SupplierBalance{
		Supplier:       sup,
		Invoices:       invoices,
		TotalInvoiced:  sumBy(invoices, func(inv PurchaseInvoice) decimal.Decimal { return inv.Amount }),
		TotalPaid:      sumBy(invoices, func(inv PurchaseInvoice) decimal.Decimal { return inv.PaidAmount }),
		TotalRemaining: sumBy(invoices, PurchaseInvoice.Remaining),
	}
}
