package core

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// ── Vehicle & customer reports ────────────────────────────────────────────────

// Totals summarises a set of services over all time and within a date range.
type Totals struct {
	TotalCost         decimal.Decimal `json:"total_cost"`
	TotalPaid         decimal.Decimal `json:"total_paid"`
	TotalRemaining    decimal.Decimal `json:"total_remaining"`
	FilteredCost      decimal.Decimal `json:"filtered_cost"`
	FilteredPaid      decimal.Decimal `json:"filtered_paid"`
	FilteredRemaining decimal.Decimal `json:"filtered_remaining"`
}

func totalsOf(all, filtered []ServiceOrder) Totals {
	return Totals{
		TotalCost:         sumBy(all, serviceCost),
		TotalPaid:         sumBy(all, servicePaid),
		TotalRemaining:    sumBy(all, serviceRemaining),
		FilteredCost:      sumBy(filtered, serviceCost),
		FilteredPaid:      sumBy(filtered, servicePaid),
		FilteredRemaining: sumBy(filtered, serviceRemaining),
	}
}

// VehicleReport is the printable history of one vehicle.
type VehicleReport struct {
	Vehicle          Vehicle        `json:"vehicle"`
	Customer         Customer       `json:"customer"`
	Period           DateRange      `json:"period"`
	Services         []ServiceOrder `json:"services"`
	FilteredServices []ServiceOrder `json:"filtered_services"`
	Totals           Totals         `json:"totals"`
	PaymentsInPeriod []Payment      `json:"payments_in_period"`
}

// VehicleReport builds the report for v. PaymentsInPeriod holds every payment
// of the services dated inside r, whatever the payment's own date.
func (s *Snapshot) VehicleReport(v Vehicle, r DateRange) VehicleReport {
	services := s.ServicesForVehicle(v.ID)
	filtered := FilterServicesByDateRange(services, r)
	return VehicleReport{
		Vehicle:          v,
		Customer:         s.customerOrPlaceholder(v.CustomerID),
		Period:           r,
		Services:         services,
		FilteredServices: filtered,
		Totals:           totalsOf(services, filtered),
		PaymentsInPeriod: s.PaymentsForServices(filtered),
	}
}

// CustomerReport is the printable history of one customer across vehicles.
type CustomerReport struct {
	Customer         Customer       `json:"customer"`
	Period           DateRange      `json:"period"`
	Vehicles         []Vehicle      `json:"vehicles"`
	Services         []ServiceOrder `json:"services"`
	FilteredServices []ServiceOrder `json:"filtered_services"`
	Stats            CustomerStats  `json:"stats"`
	PaymentsInPeriod []Payment      `json:"payments_in_period"`
}

func (s *Snapshot) CustomerReport(c Customer, r DateRange) CustomerReport {
	services := s.ServicesForCustomer(c.ID)
	filtered := FilterServicesByDateRange(services, r)
	return CustomerReport{
		Customer:         c,
		Period:           r,
		Vehicles:         s.VehiclesForCustomer(c.ID),
		Services:         services,
		FilteredServices: filtered,
		Stats:            s.CustomerStats(c.ID, r),
		PaymentsInPeriod: s.PaymentsForServices(filtered),
	}
}

// ── Financial reports ─────────────────────────────────────────────────────────

// FinancialKind selects the collection a financial report is built from.
type FinancialKind string

const (
	FinancialInvoices  FinancialKind = "invoices"  // service orders by date
	FinancialReceipts  FinancialKind = "receipts"  // customer payments by date
	FinancialPayments  FinancialKind = "payments"  // supplier payments by date
	FinancialSuppliers FinancialKind = "suppliers" // purchase invoices by date
)

// ParseFinancialKind validates a financial report kind.
func ParseFinancialKind(s string) (FinancialKind, error) {
	switch FinancialKind(s) {
	case FinancialInvoices, FinancialReceipts, FinancialPayments, FinancialSuppliers:
		return FinancialKind(s), nil
	}
	return "", fmt.Errorf("unknown financial report kind %q (want invoices, receipts, payments or suppliers)", s)
}

// FinancialRow is one line of a financial report. Foreign keys are resolved
// to display names; unresolvable references show Placeholder.
// RunningTotal is the cumulative Amount up to and including this row.
type FinancialRow struct {
	Date         time.Time       `json:"date"`
	Reference    string          `json:"reference"`
	Party        string          `json:"party"`
	Vehicle      string          `json:"vehicle,omitempty"`
	Description  string          `json:"description,omitempty"`
	Method       PaymentMethod   `json:"payment_method,omitempty"`
	Status       PaymentStatus   `json:"status,omitempty"`
	Amount       decimal.Decimal `json:"amount"`
	Paid         decimal.Decimal `json:"paid"`
	Remaining    decimal.Decimal `json:"remaining"`
	RunningTotal decimal.Decimal `json:"running_total"`
}

// FinancialReport is a date-filtered listing with its accumulated total.
type FinancialReport struct {
	Kind        FinancialKind   `json:"kind"`
	Period      DateRange       `json:"period"`
	Rows        []FinancialRow  `json:"rows"`
	TotalAmount decimal.Decimal `json:"total_amount"`
}

// DocumentNumber formats a record id as a printable reference, e.g. INV-000042.
func DocumentNumber(prefix string, id int) string {
	return fmt.Sprintf("%s-%06d", prefix, id)
}

// FinancialReport builds the report of the given kind over r.
func (s *Snapshot) FinancialReport(kind FinancialKind, r DateRange) FinancialReport {
	var rows []FinancialRow
	switch kind {
	case FinancialInvoices:
		rows = s.invoiceRows(r)
	case FinancialReceipts:
		rows = s.receiptRows(r)
	case FinancialPayments:
		rows = s.purchasePaymentRows(r)
	case FinancialSuppliers:
		rows = s.supplierInvoiceRows(r)
	}
	if rows == nil {
		rows = make([]FinancialRow, 0)
	}

	running := decimal.Zero
	for i := range rows {
		running = running.Add(nonNegative(rows[i].Amount))
		rows[i].RunningTotal = running
	}
	return FinancialReport{Kind: kind, Period: r, Rows: rows, TotalAmount: running}
}

func (s *Snapshot) invoiceRows(r DateRange) []FinancialRow {
	services := FilterServicesByDateRange(s.Services, r)
	rows := make([]FinancialRow, 0, len(services))
	for _, svc := range services {
		party, vehicle := s.ownerOf(svc.VehicleID)
		rows = append(rows, FinancialRow{
			Date:        svc.Date,
			Reference:   DocumentNumber("INV", svc.ID),
			Party:       party,
			Vehicle:     vehicle,
			Description: FormatMultiServiceDescription(svc),
			Status:      svc.PaymentStatus,
			Amount:      svc.Cost,
			Paid:        svc.AmountPaid,
			Remaining:   svc.RemainingAmount,
		})
	}
	return rows
}

func (s *Snapshot) receiptRows(r DateRange) []FinancialRow {
	payments := FilterPaymentsByDateRange(s.Payments, r)
	rows := make([]FinancialRow, 0, len(payments))
	for _, p := range payments {
		row := FinancialRow{
			Date:        p.PaymentDate,
			Reference:   DocumentNumber("RCT", p.ID),
			Party:       Placeholder,
			Vehicle:     Placeholder,
			Description: Placeholder,
			Method:      p.Method,
			Amount:      p.Amount,
			Paid:        p.Amount,
		}
		if svc, ok := s.Service(p.ServiceID); ok {
			row.Party, row.Vehicle = s.ownerOf(svc.VehicleID)
			row.Description = ServiceTypeLabel(svc.Type)
			row.Status = svc.PaymentStatus
			row.Remaining = svc.RemainingAmount
		}
		rows = append(rows, row)
	}
	return rows
}

func (s *Snapshot) purchasePaymentRows(r DateRange) []FinancialRow {
	payments := FilterPurchasePaymentsByDateRange(s.PurchasePayments, r)
	rows := make([]FinancialRow, 0, len(payments))
	for _, p := range payments {
		row := FinancialRow{
			Date:        p.PaymentDate,
			Reference:   DocumentNumber("PP", p.ID),
			Party:       Placeholder,
			Description: Placeholder,
			Method:      p.Method,
			Amount:      p.Amount,
			Paid:        p.Amount,
		}
		if inv, ok := s.PurchaseInvoice(p.InvoiceID); ok {
			row.Party = s.supplierName(inv.SupplierID)
			row.Description = inv.InvoiceNumber
			row.Status = inv.Status
			row.Remaining = inv.Remaining()
		}
		rows = append(rows, row)
	}
	return rows
}

func (s *Snapshot) supplierInvoiceRows(r DateRange) []FinancialRow {
	invoices := FilterPurchaseInvoicesByDateRange(s.PurchaseInvoices, r)
	rows := make([]FinancialRow, 0, len(invoices))
	for _, inv := range invoices {
		rows = append(rows, FinancialRow{
			Date:      inv.InvoiceDate,
			Reference: inv.InvoiceNumber,
			Party:     s.supplierName(inv.SupplierID),
			Status:    inv.Status,
			Amount:    inv.Amount,
			Paid:      inv.PaidAmount,
			Remaining: inv.Remaining(),
		})
	}
	return rows
}

// ownerOf resolves a vehicle id to (customer name, vehicle label).
func (s *Snapshot) ownerOf(vehicleID int) (customer, vehicle string) {
	v, ok := s.Vehicle(vehicleID)
	if !ok {
		return Placeholder, Placeholder
	}
	return s.customerOrPlaceholder(v.CustomerID).Name, v.Label()
}

// ── Revenue report ────────────────────────────────────────────────────────────

// RevenueReport wraps RevenueByCustomer with its grand total.
type RevenueReport struct {
	Kind   RevenueKind       `json:"kind"`
	Period DateRange         `json:"period"`
	Rows   []CustomerRevenue `json:"rows"`
	Total  decimal.Decimal   `json:"total"`
}

func (s *Snapshot) RevenueReport(kind RevenueKind, r DateRange) RevenueReport {
	rows := s.RevenueByCustomer(s.Customers, r, kind)
	return RevenueReport{
		Kind:   kind,
		Period: r,
		Rows:   rows,
		Total:  sumBy(rows, func(row CustomerRevenue) decimal.Decimal { return row.Total }),
	}
}
