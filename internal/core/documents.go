package core

import (
	"time"

	"github.com/shopspring/decimal"
)

// InvoiceLine is one printed line of a service invoice.
type InvoiceLine struct {
	Label       string          `json:"label"`
	Description string          `json:"description"`
	Cost        decimal.Decimal `json:"cost"`
}

// InvoiceDocument carries the numbers a printed service invoice shows.
// Subtotal is the service cost; line costs are informational.
type InvoiceDocument struct {
	Number        string          `json:"number"`
	Date          time.Time       `json:"date"`
	Customer      Customer        `json:"customer"`
	Vehicle       Vehicle         `json:"vehicle"`
	Service       ServiceOrder    `json:"service"`
	Technician    string          `json:"technician"`
	Lines         []InvoiceLine   `json:"lines"`
	Subtotal      decimal.Decimal `json:"subtotal"`
	AmountPaid    decimal.Decimal `json:"amount_paid"`
	BalanceDue    decimal.Decimal `json:"balance_due"`
	PaymentStatus PaymentStatus   `json:"payment_status"`
	Payments      []Payment       `json:"payments"`
}

// InvoiceDocument builds the invoice for svc. A multi-service order yields
// one line per entry; anything else yields a single line.
func (s *Snapshot) InvoiceDocument(svc ServiceOrder) InvoiceDocument {
	v := s.vehicleOrPlaceholder(svc.VehicleID)
	doc := InvoiceDocument{
		Number:        DocumentNumber("INV", svc.ID),
		Date:          svc.Date,
		Customer:      s.customerOrPlaceholder(v.CustomerID),
		Vehicle:       v,
		Service:       svc,
		Technician:    svc.Technician,
		Subtotal:      svc.Cost,
		AmountPaid:    svc.AmountPaid,
		BalanceDue:    svc.RemainingAmount,
		PaymentStatus: svc.PaymentStatus,
		Payments:      s.PaymentsForServices([]ServiceOrder{svc}),
	}
	switch d := ParseDescription(svc).(type) {
	case ServiceList:
		for _, l := range d {
			doc.Lines = append(doc.Lines, InvoiceLine{Label: ServiceTypeLabel(l.Type), Description: l.Description, Cost: l.Cost})
		}
	case PlainText:
		doc.Lines = []InvoiceLine{{Label: ServiceTypeLabel(svc.Type), Description: string(d), Cost: svc.Cost}}
	}
	return doc
}

// ReceiptDocument carries the numbers a printed payment receipt shows.
// BalanceAfter is the service's remaining amount in the snapshot.
type ReceiptDocument struct {
	Number             string          `json:"number"`
	Payment            Payment         `json:"payment"`
	Service            ServiceOrder    `json:"service"`
	Vehicle            Vehicle         `json:"vehicle"`
	Customer           Customer        `json:"customer"`
	ServiceDescription string          `json:"service_description"`
	ServiceCost        decimal.Decimal `json:"service_cost"`
	TotalPaid          decimal.Decimal `json:"total_paid"`
	BalanceAfter       decimal.Decimal `json:"balance_after"`
}

func (s *Snapshot) ReceiptDocument(p Payment) ReceiptDocument {
	doc := ReceiptDocument{
		Number:             DocumentNumber("RCT", p.ID),
		Payment:            p,
		ServiceDescription: Placeholder,
		Customer:           Customer{Name: Placeholder},
		Vehicle:            Vehicle{Make: Placeholder, LicensePlate: Placeholder},
	}
	svc, ok := s.Service(p.ServiceID)
	if !ok {
		return doc
	}
	v := s.vehicleOrPlaceholder(svc.VehicleID)
	doc.Service = svc
	doc.Vehicle = v
	doc.Customer = s.customerOrPlaceholder(v.CustomerID)
	doc.ServiceDescription = FormatMultiServiceDescription(svc)
	doc.ServiceCost = svc.Cost
	doc.TotalPaid = svc.AmountPaid
	doc.BalanceAfter = svc.RemainingAmount
	return doc
}
