package core_test

import (
	"testing"

	"garage-manager/internal/core"
)

func TestWithoutCustomer_Cascades(t *testing.T) {
	snap := garageSnapshot()

	next := snap.WithoutCustomer(1)

	if _, ok := next.Customer(1); ok {
		t.Error("customer 1 still present")
	}
	for _, v := range next.Vehicles {
		if v.CustomerID == 1 {
			t.Errorf("vehicle %d of deleted customer remains", v.ID)
		}
	}
	for _, svc := range next.Services {
		if svc.VehicleID == 10 || svc.VehicleID == 11 {
			t.Errorf("service %d of deleted vehicle remains", svc.ID)
		}
	}
	for _, p := range next.Payments {
		if p.ServiceID == 100 || p.ServiceID == 101 || p.ServiceID == 110 {
			t.Errorf("payment %d of deleted service remains", p.ID)
		}
	}

	if len(next.Customers) != 2 || len(next.Vehicles) != 1 || len(next.Services) != 1 || len(next.Payments) != 1 {
		t.Errorf("unrelated records lost: %d customers %d vehicles %d services %d payments",
			len(next.Customers), len(next.Vehicles), len(next.Services), len(next.Payments))
	}

	if len(snap.Customers) != 3 || len(snap.Services) != 4 {
		t.Error("WithoutCustomer modified the original snapshot")
	}
	if _, ok := snap.Vehicle(10); !ok {
		t.Error("original snapshot lost vehicle 10")
	}
}

func TestWithoutVehicleAndService(t *testing.T) {
	snap := garageSnapshot()

	noVehicle := snap.WithoutVehicle(10)
	if len(noVehicle.ServicesForVehicle(10)) != 0 {
		t.Error("services of deleted vehicle remain")
	}
	if len(noVehicle.Payments) != 1 || noVehicle.Payments[0].ServiceID != 200 {
		t.Errorf("unexpected payments after vehicle delete: %+v", noVehicle.Payments)
	}

	noService := snap.WithoutService(101)
	if _, ok := noService.Service(101); ok {
		t.Error("service 101 still present")
	}
	if _, ok := noService.Payment(3); ok {
		t.Error("payment 3 of deleted service remains")
	}
	if !noService.TotalRemainingForVehicle(10).IsZero() {
		t.Errorf("vehicle 10 remaining = %s, want 0", noService.TotalRemainingForVehicle(10))
	}
}

func TestWithoutSupplier(t *testing.T) {
	snap := &core.Snapshot{
		Suppliers: []core.Supplier{{ID: 1, Name: "Parts Co"}, {ID: 2, Name: "Oil Ltd"}},
		PurchaseInvoices: []core.PurchaseInvoice{
			{ID: 10, SupplierID: 1, Amount: dec("100")},
			{ID: 20, SupplierID: 2, Amount: dec("50")},
		},
		PurchasePayments: []core.PurchasePayment{
			{ID: 1, InvoiceID: 10, Amount: dec("40")},
			{ID: 2, InvoiceID: 20, Amount: dec("50")},
		},
	}

	next := snap.WithoutSupplier(1)
	if len(next.Suppliers) != 1 || len(next.PurchaseInvoices) != 1 || len(next.PurchasePayments) != 1 {
		t.Fatalf("unexpected collections: %d suppliers %d invoices %d payments",
			len(next.Suppliers), len(next.PurchaseInvoices), len(next.PurchasePayments))
	}
	if next.PurchasePayments[0].InvoiceID != 20 {
		t.Errorf("wrong purchase payment kept: %+v", next.PurchasePayments[0])
	}

	noInvoice := snap.WithoutPurchaseInvoice(20)
	if len(noInvoice.PurchasePayments) != 1 || noInvoice.PurchasePayments[0].ID != 1 {
		t.Errorf("unexpected purchase payments: %+v", noInvoice.PurchasePayments)
	}
}
