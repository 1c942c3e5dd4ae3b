package core

// Cascading deletes over a snapshot. Each returns a new Snapshot; the
// receiver is left untouched.

// WithoutCustomer removes the customer, their vehicles, those vehicles'
// services, and the services' payments.
func (s *Snapshot) WithoutCustomer(customerID int) *Snapshot {
	vehicles := make(map[int]bool)
	for _, v := range s.Vehicles {
		if v.CustomerID == customerID {
			vehicles[v.ID] = true
		}
	}
	next := s.withoutVehicles(vehicles)
	next.Customers = filter(s.Customers, func(c Customer) bool { return c.ID != customerID })
	return next
}

// WithoutVehicle removes the vehicle, its services and their payments.
func (s *Snapshot) WithoutVehicle(vehicleID int) *Snapshot {
	return s.withoutVehicles(map[int]bool{vehicleID: true})
}

// WithoutService removes the service and its payments.
func (s *Snapshot) WithoutService(serviceID int) *Snapshot {
	next := s.clone()
	next.Services = filter(s.Services, func(svc ServiceOrder) bool { return svc.ID != serviceID })
	next.Payments = filter(s.Payments, func(p Payment) bool { return p.ServiceID != serviceID })
	return next
}

// WithoutSupplier removes the supplier, its purchase invoices and their payments.
func (s *Snapshot) WithoutSupplier(supplierID int) *Snapshot {
	invoices := make(map[int]bool)
	for _, inv := range s.PurchaseInvoices {
		if inv.SupplierID == supplierID {
			invoices[inv.ID] = true
		}
	}
	next := s.clone()
	next.Suppliers = filter(s.Suppliers, func(sup Supplier) bool { return sup.ID != supplierID })
	next.PurchaseInvoices = filter(s.PurchaseInvoices, func(inv PurchaseInvoice) bool { return !invoices[inv.ID] })
	next.PurchasePayments = filter(s.PurchasePayments, func(p PurchasePayment) bool { return !invoices[p.InvoiceID] })
	return next
}

// WithoutPurchaseInvoice removes the invoice and its payments.
func (s *Snapshot) WithoutPurchaseInvoice(invoiceID int) *Snapshot {
	next := s.clone()
	next.PurchaseInvoices = filter(s.PurchaseInvoices, func(inv PurchaseInvoice) bool { return inv.ID != invoiceID })
	next.PurchasePayments = filter(s.PurchasePayments, func(p PurchasePayment) bool { return p.InvoiceID != invoiceID })
	return next
}

func (s *Snapshot) withoutVehicles(vehicles map[int]bool) *Snapshot {
	services := make(map[int]bool)
	for _, svc := range s.Services {
		if vehicles[svc.VehicleID] {
			services[svc.ID] = true
		}
	}
	next := s.clone()
	next.Vehicles = filter(s.Vehicles, func(v Vehicle) bool { return !vehicles[v.ID] })
	next.Services = filter(s.Services, func(svc ServiceOrder) bool { return !services[svc.ID] })
	next.Payments = filter(s.Payments, func(p Payment) bool { return !services[p.ServiceID] })
	return next
}

// clone copies the collection headers into a fresh Snapshot with its own
// (not yet built) index.
func (s *Snapshot) clone() *Snapshot {
	return &Snapshot{
		Customers:        s.Customers,
		Vehicles:         s.Vehicles,
		Services:         s.Services,
		Payments:         s.Payments,
		Suppliers:        s.Suppliers,
		PurchaseInvoices: s.PurchaseInvoices,
		PurchasePayments: s.PurchasePayments,
		Employees:        s.Employees,
	}
}

func filter[T any](items []T, keep func(T) bool) []T {
	out := make([]T, 0, len(items))
	for _, it := range items {
		if keep(it) {
			out = append(out, it)
		}
	}
	return out
}
