package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"garage-manager/internal/cache"
	"garage-manager/internal/core"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

type appService struct {
	store     Store
	cache     *cache.Cache
	logger    *slog.Logger
	validator *validator.Validate
}

// NewAppService constructs an appService that satisfies ApplicationService.
// A nil cache disables report caching.
func NewAppService(st Store, c *cache.Cache, logger *slog.Logger) ApplicationService {
	if logger == nil {
		logger = slog.Default()
	}
	return &appService{
		store:     st,
		cache:     c,
		logger:    logger,
		validator: newValidator(),
	}
}

// invalidate drops cached reports after a successful mutation. A cache
// failure only leaves reports stale until their TTL, so it is logged.
func (s *appService) invalidate(ctx context.Context, op string) {
	if err := s.cache.Bump(ctx); err != nil {
		s.logger.Warn("report cache invalidation failed", "op", op, "error", err)
	}
}

func parseDate(field, value string) (time.Time, error) {
	t, err := time.Parse(core.DateLayout, value)
	if err != nil {
		return time.Time{}, &ValidationError{Fields: map[string]string{field: "must be a date in YYYY-MM-DD format"}}
	}
	return t, nil
}

func invalidField(field, msg string) error {
	return &ValidationError{Fields: map[string]string{field: msg}}
}

// ── Customers ────────────────────────────────────────────────────────────────

func (s *appService) ListCustomers(ctx context.Context) ([]core.Customer, error) {
	return s.store.ListCustomers(ctx)
}

func (s *appService) GetCustomer(ctx context.Context, id int) (*core.Customer, error) {
	c, err := s.store.GetCustomer(ctx, id)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func customerFrom(req CustomerRequest) core.Customer {
	return core.Customer{Name: req.Name, Phone: req.Phone, Email: req.Email, Address: req.Address}
}

func (s *appService) CreateCustomer(ctx context.Context, req CustomerRequest) (*core.Customer, error) {
	if err := s.validate(req); err != nil {
		return nil, err
	}
	c, err := s.store.CreateCustomer(ctx, customerFrom(req))
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx, "create customer")
	return &c, nil
}

func (s *appService) UpdateCustomer(ctx context.Context, id int, req CustomerRequest) (*core.Customer, error) {
	if err := s.validate(req); err != nil {
		return nil, err
	}
	c := customerFrom(req)
	c.ID = id
	c, err := s.store.UpdateCustomer(ctx, c)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx, "update customer")
	return &c, nil
}

func (s *appService) DeleteCustomer(ctx context.Context, id int) error {
	if err := s.store.DeleteCustomer(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx, "delete customer")
	return nil
}

// ── Vehicles ─────────────────────────────────────────────────────────────────

func (s *appService) ListVehicles(ctx context.Context) ([]core.Vehicle, error) {
	return s.store.ListVehicles(ctx)
}

func (s *appService) GetVehicle(ctx context.Context, id int) (*core.Vehicle, error) {
	v, err := s.store.GetVehicle(ctx, id)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func (s *appService) vehicleFrom(req VehicleRequest) (core.Vehicle, error) {
	if err := s.validate(req); err != nil {
		return core.Vehicle{}, err
	}
	status := core.VehiclePending
	if req.Status != "" {
		st, ok := core.ParseVehicleStatus(req.Status)
		if !ok {
			return core.Vehicle{}, invalidField("status", "unknown vehicle status")
		}
		status = st
	}
	return core.Vehicle{
		CustomerID:   req.CustomerID,
		Make:         req.Make,
		Model:        req.Model,
		Year:         req.Year,
		LicensePlate: req.LicensePlate,
		Status:       status,
	}, nil
}

func (s *appService) CreateVehicle(ctx context.Context, req VehicleRequest) (*core.Vehicle, error) {
	v, err := s.vehicleFrom(req)
	if err != nil {
		return nil, err
	}
	if v, err = s.store.CreateVehicle(ctx, v); err != nil {
		return nil, err
	}
	s.invalidate(ctx, "create vehicle")
	return &v, nil
}

func (s *appService) UpdateVehicle(ctx context.Context, id int, req VehicleRequest) (*core.Vehicle, error) {
	v, err := s.vehicleFrom(req)
	if err != nil {
		return nil, err
	}
	v.ID = id
	if v, err = s.store.UpdateVehicle(ctx, v); err != nil {
		return nil, err
	}
	s.invalidate(ctx, "update vehicle")
	return &v, nil
}

func (s *appService) DeleteVehicle(ctx context.Context, id int) error {
	if err := s.store.DeleteVehicle(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx, "delete vehicle")
	return nil
}

// ── Services ─────────────────────────────────────────────────────────────────

func (s *appService) ListServices(ctx context.Context) ([]core.ServiceOrder, error) {
	return s.store.ListServices(ctx)
}

func (s *appService) GetService(ctx context.Context, id int) (*core.ServiceOrder, error) {
	svc, err := s.store.GetService(ctx, id)
	if err != nil {
		return nil, err
	}
	return &svc, nil
}

func (s *appService) serviceFrom(req ServiceRequest) (core.ServiceOrder, error) {
	if err := s.validate(req); err != nil {
		return core.ServiceOrder{}, err
	}
	date, err := parseDate("date", req.Date)
	if err != nil {
		return core.ServiceOrder{}, err
	}
	status := core.ServicePending
	if req.Status != "" {
		st, ok := core.ParseServiceStatus(req.Status)
		if !ok {
			return core.ServiceOrder{}, invalidField("status", "unknown service status")
		}
		status = st
	}
	return core.ServiceOrder{
		VehicleID:   req.VehicleID,
		Type:        req.Type,
		Description: req.Description,
		Technician:  req.Technician,
		Date:        date,
		Cost:        req.Cost.Round(2),
		Status:      status,
	}, nil
}

func (s *appService) CreateService(ctx context.Context, req ServiceRequest) (*core.ServiceOrder, error) {
	svc, err := s.serviceFrom(req)
	if err != nil {
		return nil, err
	}
	if svc, err = s.store.CreateService(ctx, svc); err != nil {
		return nil, err
	}
	s.invalidate(ctx, "create service")
	return &svc, nil
}

func (s *appService) UpdateService(ctx context.Context, id int, req ServiceRequest) (*core.ServiceOrder, error) {
	svc, err := s.serviceFrom(req)
	if err != nil {
		return nil, err
	}
	svc.ID = id
	if svc, err = s.store.UpdateService(ctx, svc); err != nil {
		return nil, err
	}
	s.invalidate(ctx, "update service")
	return &svc, nil
}

func (s *appService) DeleteService(ctx context.Context, id int) error {
	if err := s.store.DeleteService(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx, "delete service")
	return nil
}

func (s *appService) RecalculateService(ctx context.Context, id int) (*core.ServiceOrder, error) {
	svc, err := s.store.RecalculateService(ctx, id)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx, "recalculate service")
	return &svc, nil
}

// ── Payments ─────────────────────────────────────────────────────────────────

func (s *appService) ListPayments(ctx context.Context) ([]core.Payment, error) {
	return s.store.ListPayments(ctx)
}

func (s *appService) GetPayment(ctx context.Context, id int) (*core.Payment, error) {
	p, err := s.store.GetPayment(ctx, id)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *appService) paymentFrom(req PaymentRequest) (core.Payment, error) {
	if err := s.validate(req); err != nil {
		return core.Payment{}, err
	}
	date, err := parseDate("payment_date", req.PaymentDate)
	if err != nil {
		return core.Payment{}, err
	}
	method, ok := core.ParsePaymentMethod(req.Method)
	if !ok {
		return core.Payment{}, invalidField("payment_method", "unknown payment method")
	}
	return core.Payment{
		ServiceID:     req.ServiceID,
		Amount:        req.Amount.Round(2),
		Method:        method,
		PaymentDate:   date,
		TransactionID: req.TransactionID,
		Notes:         req.Notes,
	}, nil
}

func (s *appService) CreatePayment(ctx context.Context, req PaymentRequest) (*core.Payment, error) {
	p, err := s.paymentFrom(req)
	if err != nil {
		return nil, err
	}
	if p, err = s.store.CreatePayment(ctx, p); err != nil {
		return nil, err
	}
	s.invalidate(ctx, "create payment")
	return &p, nil
}

func (s *appService) UpdatePayment(ctx context.Context, id int, req PaymentRequest) (*core.Payment, error) {
	p, err := s.paymentFrom(req)
	if err != nil {
		return nil, err
	}
	p.ID = id
	if p, err = s.store.UpdatePayment(ctx, p); err != nil {
		return nil, err
	}
	s.invalidate(ctx, "update payment")
	return &p, nil
}

func (s *appService) DeletePayment(ctx context.Context, id int) error {
	if err := s.store.DeletePayment(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx, "delete payment")
	return nil
}

// PlanBulkPayment computes the plan on a fresh snapshot. The plan actually
// executed by BulkPay is recomputed under row locks and may differ if
// balances changed in between.
func (s *appService) PlanBulkPayment(ctx context.Context, vehicleID int, amount decimal.Decimal) (*core.BulkPlan, error) {
	snap, err := s.store.LoadSnapshot(ctx)
	if err != nil {
		return nil, err
	}
	if _, ok := snap.Vehicle(vehicleID); !ok {
		return nil, fmt.Errorf("vehicle %d: %w", vehicleID, ErrNotFound)
	}
	plan, err := snap.BulkPaymentPlan(vehicleID, amount.Round(2))
	if err != nil {
		return nil, fmt.Errorf("plan bulk payment for vehicle %d: %w", vehicleID, err)
	}
	return &plan, nil
}

func (s *appService) BulkPay(ctx context.Context, req BulkPaymentRequest) (*BulkPaymentResult, error) {
	if err := s.validate(req); err != nil {
		return nil, err
	}
	date, err := parseDate("payment_date", req.PaymentDate)
	if err != nil {
		return nil, err
	}
	method, ok := core.ParsePaymentMethod(req.Method)
	if !ok {
		return nil, invalidField("payment_method", "unknown payment method")
	}
	template := core.Payment{
		Method:        method,
		PaymentDate:   date,
		TransactionID: req.TransactionID,
		Notes:         req.Notes,
	}

	plan, created, err := s.store.BulkPay(ctx, req.VehicleID, req.Amount.Round(2), template)
	if err != nil {
		return nil, fmt.Errorf("bulk payment for vehicle %d: %w", req.VehicleID, err)
	}
	s.logger.Info("bulk payment recorded",
		"vehicle_id", req.VehicleID,
		"amount", req.Amount.StringFixed(2),
		"kind", plan.Kind,
		"payments", len(created),
	)
	s.invalidate(ctx, "bulk payment")
	return &BulkPaymentResult{Plan: plan, Payments: created}, nil
}

// ── Suppliers ────────────────────────────────────────────────────────────────

func (s *appService) ListSuppliers(ctx context.Context) ([]core.Supplier, error) {
	return s.store.ListSuppliers(ctx)
}

func (s *appService) GetSupplier(ctx context.Context, id int) (*core.Supplier, error) {
	sup, err := s.store.GetSupplier(ctx, id)
	if err != nil {
		return nil, err
	}
	return &sup, nil
}

func supplierFrom(req SupplierRequest) core.Supplier {
	return core.Supplier{Name: req.Name, Phone: req.Phone, Email: req.Email, Address: req.Address}
}

func (s *appService) CreateSupplier(ctx context.Context, req SupplierRequest) (*core.Supplier, error) {
	if err := s.validate(req); err != nil {
		return nil, err
	}
	sup, err := s.store.CreateSupplier(ctx, supplierFrom(req))
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx, "create supplier")
	return &sup, nil
}

func (s *appService) UpdateSupplier(ctx context.Context, id int, req SupplierRequest) (*core.Supplier, error) {
	if err := s.validate(req); err != nil {
		return nil, err
	}
	sup := supplierFrom(req)
	sup.ID = id
	sup, err := s.store.UpdateSupplier(ctx, sup)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx, "update supplier")
	return &sup, nil
}

func (s *appService) DeleteSupplier(ctx context.Context, id int) error {
	if err := s.store.DeleteSupplier(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx, "delete supplier")
	return nil
}

func (s *appService) ListPurchaseInvoices(ctx context.Context) ([]core.PurchaseInvoice, error) {
	return s.store.ListPurchaseInvoices(ctx)
}

func (s *appService) GetPurchaseInvoice(ctx context.Context, id int) (*core.PurchaseInvoice, error) {
	inv, err := s.store.GetPurchaseInvoice(ctx, id)
	if err != nil {
		return nil, err
	}
	return &inv, nil
}

func (s *appService) invoiceFrom(req PurchaseInvoiceRequest) (core.PurchaseInvoice, error) {
	if err := s.validate(req); err != nil {
		return core.PurchaseInvoice{}, err
	}
	date, err := parseDate("invoice_date", req.InvoiceDate)
	if err != nil {
		return core.PurchaseInvoice{}, err
	}
	return core.PurchaseInvoice{
		SupplierID:    req.SupplierID,
		InvoiceNumber: req.InvoiceNumber,
		InvoiceDate:   date,
		Amount:        req.Amount.Round(2),
		Notes:         req.Notes,
	}, nil
}

func (s *appService) CreatePurchaseInvoice(ctx context.Context, req PurchaseInvoiceRequest) (*core.PurchaseInvoice, error) {
	inv, err := s.invoiceFrom(req)
	if err != nil {
		return nil, err
	}
	if inv, err = s.store.CreatePurchaseInvoice(ctx, inv); err != nil {
		return nil, err
	}
	s.invalidate(ctx, "create purchase invoice")
	return &inv, nil
}

func (s *appService) UpdatePurchaseInvoice(ctx context.Context, id int, req PurchaseInvoiceRequest) (*core.PurchaseInvoice, error) {
	inv, err := s.invoiceFrom(req)
	if err != nil {
		return nil, err
	}
	inv.ID = id
	if inv, err = s.store.UpdatePurchaseInvoice(ctx, inv); err != nil {
		return nil, err
	}
	s.invalidate(ctx, "update purchase invoice")
	return &inv, nil
}

func (s *appService) DeletePurchaseInvoice(ctx context.Context, id int) error {
	if err := s.store.DeletePurchaseInvoice(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx, "delete purchase invoice")
	return nil
}

func (s *appService) ListPurchasePayments(ctx context.Context) ([]core.PurchasePayment, error) {
	return s.store.ListPurchasePayments(ctx)
}

func (s *appService) GetPurchasePayment(ctx context.Context, id int) (*core.PurchasePayment, error) {
	p, err := s.store.GetPurchasePayment(ctx, id)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *appService) purchasePaymentFrom(req PurchasePaymentRequest) (core.PurchasePayment, error) {
	if err := s.validate(req); err != nil {
		return core.PurchasePayment{}, err
	}
	date, err := parseDate("payment_date", req.PaymentDate)
	if err != nil {
		return core.PurchasePayment{}, err
	}
	method, ok := core.ParsePaymentMethod(req.Method)
	if !ok {
		return core.PurchasePayment{}, invalidField("payment_method", "unknown payment method")
	}
	return core.PurchasePayment{
		InvoiceID:   req.InvoiceID,
		Amount:      req.Amount.Round(2),
		Method:      method,
		PaymentDate: date,
		Notes:       req.Notes,
	}, nil
}

func (s *appService) CreatePurchasePayment(ctx context.Context, req PurchasePaymentRequest) (*core.PurchasePayment, error) {
	p, err := s.purchasePaymentFrom(req)
	if err != nil {
		return nil, err
	}
	if p, err = s.store.CreatePurchasePayment(ctx, p); err != nil {
		return nil, err
	}
	s.invalidate(ctx, "create purchase payment")
	return &p, nil
}

func (s *appService) UpdatePurchasePayment(ctx context.Context, id int, req PurchasePaymentRequest) (*core.PurchasePayment, error) {
	p, err := s.purchasePaymentFrom(req)
	if err != nil {
		return nil, err
	}
	p.ID = id
	if p, err = s.store.UpdatePurchasePayment(ctx, p); err != nil {
		return nil, err
	}
	s.invalidate(ctx, "update purchase payment")
	return &p, nil
}

func (s *appService) DeletePurchasePayment(ctx context.Context, id int) error {
	if err := s.store.DeletePurchasePayment(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx, "delete purchase payment")
	return nil
}

// ── Employees ────────────────────────────────────────────────────────────────

func (s *appService) ListEmployees(ctx context.Context) ([]core.Employee, error) {
	return s.store.ListEmployees(ctx)
}

func (s *appService) GetEmployee(ctx context.Context, id int) (*core.Employee, error) {
	e, err := s.store.GetEmployee(ctx, id)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (s *appService) employeeFrom(req EmployeeRequest) (core.Employee, error) {
	if err := s.validate(req); err != nil {
		return core.Employee{}, err
	}
	hired, err := parseDate("hire_date", req.HireDate)
	if err != nil {
		return core.Employee{}, err
	}
	return core.Employee{
		Name:     req.Name,
		Position: req.Position,
		Phone:    req.Phone,
		Email:    req.Email,
		Salary:   req.Salary.Round(2),
		HireDate: hired,
		Status:   core.EmployeeActive,
	}, nil
}

func (s *appService) CreateEmployee(ctx context.Context, req EmployeeRequest) (*core.Employee, error) {
	e, err := s.employeeFrom(req)
	if err != nil {
		return nil, err
	}
	if e, err = s.store.CreateEmployee(ctx, e); err != nil {
		return nil, err
	}
	s.invalidate(ctx, "create employee")
	return &e, nil
}

// UpdateEmployee edits an employee's details. The archived flag is kept as
// stored; use ArchiveEmployee to change it.
func (s *appService) UpdateEmployee(ctx context.Context, id int, req EmployeeRequest) (*core.Employee, error) {
	e, err := s.employeeFrom(req)
	if err != nil {
		return nil, err
	}
	current, err := s.store.GetEmployee(ctx, id)
	if err != nil {
		return nil, err
	}
	e.ID = id
	e.Status = current.Status
	if e, err = s.store.UpdateEmployee(ctx, e); err != nil {
		return nil, err
	}
	s.invalidate(ctx, "update employee")
	return &e, nil
}

func (s *appService) ArchiveEmployee(ctx context.Context, id int) error {
	if err := s.store.ArchiveEmployee(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx, "archive employee")
	return nil
}

func (s *appService) DeleteEmployee(ctx context.Context, id int) error {
	if err := s.store.DeleteEmployee(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx, "delete employee")
	return nil
}
