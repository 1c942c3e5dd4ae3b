package core_test

import (
	"time"

	"garage-manager/internal/core"

	"github.com/shopspring/decimal"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func day(s string) time.Time {
	t, err := time.Parse(core.DateLayout, s)
	if err != nil {
		panic(err)
	}
	return t
}

func dayPtr(s string) *time.Time {
	t := day(s)
	return &t
}

func service(id, vehicleID int, date, cost, paid string) core.ServiceOrder {
	return core.ServiceOrder{
		ID:         id,
		VehicleID:  vehicleID,
		Type:       "oilChange",
		Date:       day(date),
		Cost:       dec(cost),
		AmountPaid: dec(paid),
		Status:     core.ServiceCompleted,
	}.Normalize()
}

// garageSnapshot builds:
//
//	customer 1 (Alice): vehicle 10 with services 100 (100/100 paid) and 101 (200, 50 paid)
//	                    vehicle 11 with service 110 (80, unpaid)
//	customer 2 (Bob):   vehicle 20 with service 200 (60, fully paid)
//	customer 3 (Carol): no vehicles
func garageSnapshot() *core.Snapshot {
	return &core.Snapshot{
		Customers: []core.Customer{
			{ID: 1, Name: "Alice"},
			{ID: 2, Name: "Bob"},
			{ID: 3, Name: "Carol"},
		},
		Vehicles: []core.Vehicle{
			{ID: 10, CustomerID: 1, Make: "Toyota", Model: "Corolla", LicensePlate: "ABC-123", Status: core.VehicleInService},
			{ID: 20, CustomerID: 2, Make: "Ford", Model: "Focus", LicensePlate: "XYZ-999", Status: core.VehicleCompleted},
			{ID: 11, CustomerID: 1, Make: "Honda", Model: "Civic", LicensePlate: "DEF-456", Status: core.VehiclePending},
		},
		Services: []core.ServiceOrder{
			service(100, 10, "2026-01-05", "100", "100"),
			service(200, 20, "2026-01-20", "60", "60"),
			service(101, 10, "2026-02-10", "200", "50"),
			service(110, 11, "2026-03-01", "80", "0"),
		},
		Payments: []core.Payment{
			{ID: 1, ServiceID: 100, Amount: dec("100"), Method: core.MethodCash, PaymentDate: day("2026-01-05")},
			{ID: 2, ServiceID: 200, Amount: dec("60"), Method: core.MethodCard, PaymentDate: day("2026-01-21")},
			{ID: 3, ServiceID: 101, Amount: dec("50"), Method: core.MethodTransfer, PaymentDate: day("2026-02-15")},
		},
	}
}
