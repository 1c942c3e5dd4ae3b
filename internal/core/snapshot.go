package core

import "sync"

// Snapshot is an immutable view of every record collection. The engine reads
// it and never mutates it; a refreshed store produces a new Snapshot.
type Snapshot struct {
	Customers        []Customer
	Vehicles         []Vehicle
	Services         []ServiceOrder
	Payments         []Payment
	Suppliers        []Supplier
	PurchaseInvoices []PurchaseInvoice
	PurchasePayments []PurchasePayment
	Employees        []Employee

	once               sync.Once
	customerByID       map[int]int
	vehicleByID        map[int]int
	serviceByID        map[int]int
	paymentByID        map[int]int
	supplierByID       map[int]int
	invoiceByID        map[int]int
	vehiclesByCustomer map[int][]int
	servicesByVehicle  map[int][]int
	paymentsByService  map[int][]int
	invoicesBySupplier map[int][]int
}

// index builds the lookup tables on first use. Slices of positions keep
// source order so lookups return records in insertion order.
func (s *Snapshot) index() {
	s.once.Do(func() {
		s.customerByID = make(map[int]int, len(s.Customers))
		for i, c := range s.Customers {
			s.customerByID[c.ID] = i
		}
		s.vehicleByID = make(map[int]int, len(s.Vehicles))
		s.vehiclesByCustomer = make(map[int][]int)
		for i, v := range s.Vehicles {
			s.vehicleByID[v.ID] = i
			s.vehiclesByCustomer[v.CustomerID] = append(s.vehiclesByCustomer[v.CustomerID], i)
		}
		s.serviceByID = make(map[int]int, len(s.Services))
		s.servicesByVehicle = make(map[int][]int)
		for i, svc := range s.Services {
			s.serviceByID[svc.ID] = i
			s.servicesByVehicle[svc.VehicleID] = append(s.servicesByVehicle[svc.VehicleID], i)
		}
		s.paymentByID = make(map[int]int, len(s.Payments))
		s.paymentsByService = make(map[int][]int)
		for i, p := range s.Payments {
			s.paymentByID[p.ID] = i
			s.paymentsByService[p.ServiceID] = append(s.paymentsByService[p.ServiceID], i)
		}
		s.supplierByID = make(map[int]int, len(s.Suppliers))
		for i, sup := range s.Suppliers {
			s.supplierByID[sup.ID] = i
		}
		s.invoiceByID = make(map[int]int, len(s.PurchaseInvoices))
		s.invoicesBySupplier = make(map[int][]int)
		for i, inv := range s.PurchaseInvoices {
			s.invoiceByID[inv.ID] = i
			s.invoicesBySupplier[inv.SupplierID] = append(s.invoicesBySupplier[inv.SupplierID], i)
		}
	})
}

func (s *Snapshot) Customer(id int) (Customer, bool) {
	s.index()
	i, ok := s.customerByID[id]
	if !ok {
		return Customer{}, false
	}
	return s.Customers[i], true
}

func (s *Snapshot) Vehicle(id int) (Vehicle, bool) {
	s.index()
	i, ok := s.vehicleByID[id]
	if !ok {
		return Vehicle{}, false
	}
	return s.Vehicles[i], true
}

func (s *Snapshot) Service(id int) (ServiceOrder, bool) {
	s.index()
	i, ok := s.serviceByID[id]
	if !ok {
		return ServiceOrder{}, false
	}
	return s.Services[i], true
}

func (s *Snapshot) Payment(id int) (Payment, bool) {
	s.index()
	i, ok := s.paymentByID[id]
	if !ok {
		return Payment{}, false
	}
	return s.Payments[i], true
}

func (s *Snapshot) Supplier(id int) (Supplier, bool) {
	s.index()
	i, ok := s.supplierByID[id]
	if !ok {
		return Supplier{}, false
	}
	return s.Suppliers[i], true
}

func (s *Snapshot) PurchaseInvoice(id int) (PurchaseInvoice, bool) {
	s.index()
	i, ok := s.invoiceByID[id]
	if !ok {
		return PurchaseInvoice{}, false
	}
	return s.PurchaseInvoices[i], true
}

// customerOrPlaceholder resolves a customer, substituting a placeholder
// record named "N/A" for dangling references.
func (s *Snapshot) customerOrPlaceholder(id int) Customer {
	if c, ok := s.Customer(id); ok {
		return c
	}
	return Customer{ID: id, Name: Placeholder}
}

func (s *Snapshot) vehicleOrPlaceholder(id int) Vehicle {
	if v, ok := s.Vehicle(id); ok {
		return v
	}
	return Vehicle{ID: id, Make: Placeholder, LicensePlate: Placeholder}
}

func (s *Snapshot) supplierName(id int) string {
	if sup, ok := s.Supplier(id); ok {
		return sup.Name
	}
	return Placeholder
}

func pick[T any](src []T, positions []int) []T {
	out := make([]T, 0, len(positions))
	for _, i := range positions {
		out = append(out, src[i])
	}
	return out
}
