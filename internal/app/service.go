package app

import (
	"context"

	"garage-manager/internal/core"

	"github.com/shopspring/decimal"
)

// ApplicationService is the single interface the CLI and web adapters call.
// It decouples presentation from business logic. Implementations must contain
// no fmt.Println and no display logic of any kind.
type ApplicationService interface {
	// ── Customers & vehicles ──

	ListCustomers(ctx context.Context) ([]core.Customer, error)
	GetCustomer(ctx context.Context, id int) (*core.Customer, error)
	CreateCustomer(ctx context.Context, req CustomerRequest) (*core.Customer, error)
	UpdateCustomer(ctx context.Context, id int, req CustomerRequest) (*core.Customer, error)
	// DeleteCustomer removes the customer with all their vehicles, services and payments.
	DeleteCustomer(ctx context.Context, id int) error

	ListVehicles(ctx context.Context) ([]core.Vehicle, error)
	GetVehicle(ctx context.Context, id int) (*core.Vehicle, error)
	CreateVehicle(ctx context.Context, req VehicleRequest) (*core.Vehicle, error)
	UpdateVehicle(ctx context.Context, id int, req VehicleRequest) (*core.Vehicle, error)
	DeleteVehicle(ctx context.Context, id int) error

	// ── Services & payments ──

	ListServices(ctx context.Context) ([]core.ServiceOrder, error)
	GetService(ctx context.Context, id int) (*core.ServiceOrder, error)
	// CreateService stores a new service order with nothing paid.
	CreateService(ctx context.Context, req ServiceRequest) (*core.ServiceOrder, error)
	// UpdateService edits a service; a cost below the amount already paid is rejected.
	UpdateService(ctx context.Context, id int, req ServiceRequest) (*core.ServiceOrder, error)
	DeleteService(ctx context.Context, id int) error
	// RecalculateService rebuilds a service's balance from its payment rows.
	RecalculateService(ctx context.Context, id int) (*core.ServiceOrder, error)

	ListPayments(ctx context.Context) ([]core.Payment, error)
	GetPayment(ctx context.Context, id int) (*core.Payment, error)
	// CreatePayment records a payment and applies it to its service.
	CreatePayment(ctx context.Context, req PaymentRequest) (*core.Payment, error)
	UpdatePayment(ctx context.Context, id int, req PaymentRequest) (*core.Payment, error)
	DeletePayment(ctx context.Context, id int) error

	// PlanBulkPayment previews how amount would be spread over the vehicle's
	// outstanding services without recording anything.
	PlanBulkPayment(ctx context.Context, vehicleID int, amount decimal.Decimal) (*core.BulkPlan, error)
	// BulkPay records one payment per allocation of the plan for req.Amount.
	BulkPay(ctx context.Context, req BulkPaymentRequest) (*BulkPaymentResult, error)

	// ── Suppliers ──

	ListSuppliers(ctx context.Context) ([]core.Supplier, error)
	GetSupplier(ctx context.Context, id int) (*core.Supplier, error)
	CreateSupplier(ctx context.Context, req SupplierRequest) (*core.Supplier, error)
	UpdateSupplier(ctx context.Context, id int, req SupplierRequest) (*core.Supplier, error)
	DeleteSupplier(ctx context.Context, id int) error
	// SupplierBalance returns the supplier with its invoices and running totals.
	SupplierBalance(ctx context.Context, id int) (*core.SupplierBalance, error)

	ListPurchaseInvoices(ctx context.Context) ([]core.PurchaseInvoice, error)
	GetPurchaseInvoice(ctx context.Context, id int) (*core.PurchaseInvoice, error)
	CreatePurchaseInvoice(ctx context.Context, req PurchaseInvoiceRequest) (*core.PurchaseInvoice, error)
	UpdatePurchaseInvoice(ctx context.Context, id int, req PurchaseInvoiceRequest) (*core.PurchaseInvoice, error)
	DeletePurchaseInvoice(ctx context.Context, id int) error

	ListPurchasePayments(ctx context.Context) ([]core.PurchasePayment, error)
	GetPurchasePayment(ctx context.Context, id int) (*core.PurchasePayment, error)
	CreatePurchasePayment(ctx context.Context, req PurchasePaymentRequest) (*core.PurchasePayment, error)
	UpdatePurchasePayment(ctx context.Context, id int, req PurchasePaymentRequest) (*core.PurchasePayment, error)
	DeletePurchasePayment(ctx context.Context, id int) error

	// ── Employees ──

	ListEmployees(ctx context.Context) ([]core.Employee, error)
	GetEmployee(ctx context.Context, id int) (*core.Employee, error)
	CreateEmployee(ctx context.Context, req EmployeeRequest) (*core.Employee, error)
	UpdateEmployee(ctx context.Context, id int, req EmployeeRequest) (*core.Employee, error)
	ArchiveEmployee(ctx context.Context, id int) error
	DeleteEmployee(ctx context.Context, id int) error

	// ── Reports ──
	// from and to are optional YYYY-MM-DD bounds; empty means unbounded.

	VehicleReport(ctx context.Context, vehicleID int, from, to string) (*core.VehicleReport, error)
	CustomerReport(ctx context.Context, customerID int, from, to string) (*core.CustomerReport, error)
	FinancialReport(ctx context.Context, kind, from, to string) (*core.FinancialReport, error)
	RevenueReport(ctx context.Context, kind, from, to string) (*core.RevenueReport, error)
	Dashboard(ctx context.Context, from, to string) (*core.Dashboard, error)
	InvoiceDocument(ctx context.Context, serviceID int) (*core.InvoiceDocument, error)
	ReceiptDocument(ctx context.Context, paymentID int) (*core.ReceiptDocument, error)

	// ── Users ──

	// AuthenticateUser verifies credentials and returns a session on success.
	AuthenticateUser(ctx context.Context, username, password string) (*UserSession, error)
	// GetUser returns user profile by ID.
	GetUser(ctx context.Context, userID int) (*UserResult, error)
	CreateUser(ctx context.Context, req CreateUserRequest) (*UserResult, error)
}

// Store is the persistence the application service needs. *store.Store
// implements it against PostgreSQL.
type Store interface {
	LoadSnapshot(ctx context.Context) (*core.Snapshot, error)

	ListCustomers(ctx context.Context) ([]core.Customer, error)
	GetCustomer(ctx context.Context, id int) (core.Customer, error)
	CreateCustomer(ctx context.Context, c core.Customer) (core.Customer, error)
	UpdateCustomer(ctx context.Context, c core.Customer) (core.Customer, error)
	DeleteCustomer(ctx context.Context, id int) error

	ListVehicles(ctx context.Context) ([]core.Vehicle, error)
	GetVehicle(ctx context.Context, id int) (core.Vehicle, error)
	CreateVehicle(ctx context.Context, v core.Vehicle) (core.Vehicle, error)
	UpdateVehicle(ctx context.Context, v core.Vehicle) (core.Vehicle, error)
	DeleteVehicle(ctx context.Context, id int) error

	ListServices(ctx context.Context) ([]core.ServiceOrder, error)
	GetService(ctx context.Context, id int) (core.ServiceOrder, error)
	CreateService(ctx context.Context, svc core.ServiceOrder) (core.ServiceOrder, error)
	UpdateService(ctx context.Context, svc core.ServiceOrder) (core.ServiceOrder, error)
	DeleteService(ctx context.Context, id int) error
	RecalculateService(ctx context.Context, id int) (core.ServiceOrder, error)

	ListPayments(ctx context.Context) ([]core.Payment, error)
	GetPayment(ctx context.Context, id int) (core.Payment, error)
	CreatePayment(ctx context.Context, p core.Payment) (core.Payment, error)
	UpdatePayment(ctx context.Context, p core.Payment) (core.Payment, error)
	DeletePayment(ctx context.Context, id int) error
	BulkPay(ctx context.Context, vehicleID int, amount decimal.Decimal, template core.Payment) (core.BulkPlan, []core.Payment, error)

	ListSuppliers(ctx context.Context) ([]core.Supplier, error)
	GetSupplier(ctx context.Context, id int) (core.Supplier, error)
	CreateSupplier(ctx context.Context, s core.Supplier) (core.Supplier, error)
	UpdateSupplier(ctx context.Context, s core.Supplier) (core.Supplier, error)
	DeleteSupplier(ctx context.Context, id int) error

	ListPurchaseInvoices(ctx context.Context) ([]core.PurchaseInvoice, error)
	GetPurchaseInvoice(ctx context.Context, id int) (core.PurchaseInvoice, error)
	CreatePurchaseInvoice(ctx context.Context, inv core.PurchaseInvoice) (core.PurchaseInvoice, error)
	UpdatePurchaseInvoice(ctx context.Context, inv core.PurchaseInvoice) (core.PurchaseInvoice, error)
	DeletePurchaseInvoice(ctx context.Context, id int) error

	ListPurchasePayments(ctx context.Context) ([]core.PurchasePayment, error)
	GetPurchasePayment(ctx context.Context, id int) (core.PurchasePayment, error)
	CreatePurchasePayment(ctx context.Context, p core.PurchasePayment) (core.PurchasePayment, error)
	UpdatePurchasePayment(ctx context.Context, p core.PurchasePayment) (core.PurchasePayment, error)
	DeletePurchasePayment(ctx context.Context, id int) error

	ListEmployees(ctx context.Context) ([]core.Employee, error)
	GetEmployee(ctx context.Context, id int) (core.Employee, error)
	CreateEmployee(ctx context.Context, e core.Employee) (core.Employee, error)
	UpdateEmployee(ctx context.Context, e core.Employee) (core.Employee, error)
	ArchiveEmployee(ctx context.Context, id int) error
	DeleteEmployee(ctx context.Context, id int) error

	GetUser(ctx context.Context, id int) (core.User, error)
	GetUserByUsername(ctx context.Context, username string) (core.User, error)
	CreateUser(ctx context.Context, u core.User) (core.User, error)
}
