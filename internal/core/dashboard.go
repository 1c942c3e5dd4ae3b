package core

import (
	"github.com/shopspring/decimal"
)

// Dashboard is the at-a-glance summary shown on the home screen.
type Dashboard struct {
	Period                DateRange             `json:"period"`
	TotalCustomers        int                   `json:"total_customers"`
	TotalVehicles         int                   `json:"total_vehicles"`
	VehiclesByStatus      map[VehicleStatus]int `json:"vehicles_by_status"`
	ServicesInPeriod      int                   `json:"services_in_period"`
	BilledInPeriod        decimal.Decimal       `json:"billed_in_period"`
	CollectedInPeriod     decimal.Decimal       `json:"collected_in_period"`
	Outstanding           decimal.Decimal       `json:"outstanding"`
	MostCommonServiceType string                `json:"most_common_service_type,omitempty"`
	ActiveEmployees       int                   `json:"active_employees"`
	MonthlyPayroll        decimal.Decimal       `json:"monthly_payroll"`
	SupplierOutstanding   decimal.Decimal       `json:"supplier_outstanding"`
}

// Dashboard summarises the snapshot. Billed and collected amounts use
// service dates and payment dates in r respectively; Outstanding is all-time.
func (s *Snapshot) Dashboard(r DateRange) Dashboard {
	services := FilterServicesByDateRange(s.Services, r)
	d := Dashboard{
		Period:              r,
		TotalCustomers:      len(s.Customers),
		TotalVehicles:       len(s.Vehicles),
		VehiclesByStatus:    make(map[VehicleStatus]int),
		ServicesInPeriod:    len(services),
		BilledInPeriod:      sumBy(services, serviceCost),
		CollectedInPeriod:   sumBy(FilterPaymentsByDateRange(s.Payments, r), paymentAmount),
		Outstanding:         sumBy(s.Services, serviceRemaining),
		MonthlyPayroll:      decimal.Zero,
		SupplierOutstanding: sumBy(s.PurchaseInvoices, PurchaseInvoice.Remaining),
	}
	for _, v := range s.Vehicles {
		d.VehiclesByStatus[v.Status]++
	}
	if t, ok := MostCommonServiceType(services); ok {
		d.MostCommonServiceType = t
	}
	for _, e := range s.Employees {
		if e.Status == EmployeeActive {
			d.ActiveEmployees++
			d.MonthlyPayroll = d.MonthlyPayroll.Add(nonNegative(e.Salary))
		}
	}
	return d
}
