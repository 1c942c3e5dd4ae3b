package app

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"garage-manager/internal/cache"
	"garage-manager/internal/core"
	"garage-manager/internal/store"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// fakeStore implements the methods these tests reach; any other call panics
// on the nil embedded interface.
type fakeStore struct {
	Store

	snap          *core.Snapshot
	snapshotLoads int
	onLoad        func()

	customers []core.Customer
	payments  []core.Payment
	employees map[int]core.Employee
	users     map[string]core.User

	bulkTemplate core.Payment
}

func (f *fakeStore) LoadSnapshot(context.Context) (*core.Snapshot, error) {
	f.snapshotLoads++
	if f.onLoad != nil {
		f.onLoad()
	}
	return f.snap, nil
}

func (f *fakeStore) CreateCustomer(_ context.Context, c core.Customer) (core.Customer, error) {
	c.ID = len(f.customers) + 1
	f.customers = append(f.customers, c)
	return c, nil
}

func (f *fakeStore) CreatePayment(_ context.Context, p core.Payment) (core.Payment, error) {
	svc, ok := f.snap.Service(p.ServiceID)
	if !ok {
		return core.Payment{}, store.ErrInvalidReference
	}
	if _, err := core.ApplyPayment(svc, p.Amount); err != nil {
		return core.Payment{}, err
	}
	p.ID = len(f.payments) + 1
	f.payments = append(f.payments, p)
	return p, nil
}

func (f *fakeStore) BulkPay(_ context.Context, vehicleID int, amount decimal.Decimal, template core.Payment) (core.BulkPlan, []core.Payment, error) {
	f.bulkTemplate = template
	plan, err := f.snap.BulkPaymentPlan(vehicleID, amount)
	if err != nil {
		return core.BulkPlan{}, nil, err
	}
	created := make([]core.Payment, 0, len(plan.Allocations))
	for i, a := range plan.Allocations {
		p := template
		p.ID = i + 1
		p.ServiceID = a.ServiceID
		p.Amount = a.AmountToApply
		created = append(created, p)
	}
	return plan, created, nil
}

func (f *fakeStore) GetEmployee(_ context.Context, id int) (core.Employee, error) {
	e, ok := f.employees[id]
	if !ok {
		return core.Employee{}, store.ErrNotFound
	}
	return e, nil
}

func (f *fakeStore) UpdateEmployee(_ context.Context, e core.Employee) (core.Employee, error) {
	f.employees[e.ID] = e
	return e, nil
}

func (f *fakeStore) GetUserByUsername(_ context.Context, username string) (core.User, error) {
	u, ok := f.users[username]
	if !ok {
		return core.User{}, store.ErrNotFound
	}
	return u, nil
}

func (f *fakeStore) CreateUser(_ context.Context, u core.User) (core.User, error) {
	u.ID = len(f.users) + 1
	f.users[u.Username] = u
	return u, nil
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func day(s string) time.Time {
	t, err := time.Parse(core.DateLayout, s)
	if err != nil {
		panic(err)
	}
	return t
}

func testSnapshot() *core.Snapshot {
	return &core.Snapshot{
		Customers: []core.Customer{{ID: 1, Name: "Alice"}},
		Vehicles:  []core.Vehicle{{ID: 10, CustomerID: 1, Make: "Toyota", Model: "Corolla", LicensePlate: "ABC-123", Status: core.VehicleInService}},
		Services: []core.ServiceOrder{
			core.ServiceOrder{ID: 100, VehicleID: 10, Type: "oilChange", Date: day("2026-01-05"), Cost: dec("100"), AmountPaid: dec("100")}.Normalize(),
			core.ServiceOrder{ID: 101, VehicleID: 10, Type: "brakeRepair", Date: day("2026-02-10"), Cost: dec("200"), AmountPaid: dec("50")}.Normalize(),
		},
	}
}

func newTestService(t *testing.T, c *cache.Cache) (*appService, *fakeStore) {
	t.Helper()
	fs := &fakeStore{
		snap:      testSnapshot(),
		employees: map[int]core.Employee{},
		users:     map[string]core.User{},
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewAppService(fs, c, logger).(*appService), fs
}

func newRedisCache(t *testing.T) *cache.Cache {
	t.Helper()
	c, _ := newRedisCacheServer(t)
	return c
}

func newRedisCacheServer(t *testing.T) (*cache.Cache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	t.Cleanup(func() { _ = client.Close() })
	return cache.New(client, time.Minute), mr
}

func TestCreateCustomer_Validation(t *testing.T) {
	svc, fs := newTestService(t, nil)
	ctx := context.Background()

	bad := "not-an-email"
	_, err := svc.CreateCustomer(ctx, CustomerRequest{Phone: "555", Email: &bad})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrValidation)

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "name")
	assert.Contains(t, verr.Fields, "email")
	assert.Empty(t, fs.customers)

	c, err := svc.CreateCustomer(ctx, CustomerRequest{Name: "Alice", Phone: "555"})
	require.NoError(t, err)
	assert.Equal(t, 1, c.ID)
}

func TestCreatePayment(t *testing.T) {
	svc, _ := newTestService(t, nil)
	ctx := context.Background()

	tests := []struct {
		name    string
		req     PaymentRequest
		wantErr error
	}{
		{
			name:    "Zero amount rejected by validation",
			req:     PaymentRequest{ServiceID: 101, Amount: dec("0"), Method: "cash", PaymentDate: "2026-02-11"},
			wantErr: ErrValidation,
		},
		{
			name:    "Unknown method",
			req:     PaymentRequest{ServiceID: 101, Amount: dec("10"), Method: "barter", PaymentDate: "2026-02-11"},
			wantErr: ErrValidation,
		},
		{
			name:    "Bad date",
			req:     PaymentRequest{ServiceID: 101, Amount: dec("10"), Method: "cash", PaymentDate: "11/02/2026"},
			wantErr: ErrValidation,
		},
		{
			name:    "Exceeds remaining",
			req:     PaymentRequest{ServiceID: 101, Amount: dec("150.01"), Method: "cash", PaymentDate: "2026-02-11"},
			wantErr: core.ErrInvalidAmount,
		},
		{
			name: "Valid payment",
			req:  PaymentRequest{ServiceID: 101, Amount: dec("75"), Method: "card", PaymentDate: "2026-02-11"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := svc.CreatePayment(ctx, tt.req)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.True(t, p.Amount.Equal(dec("75")))
			assert.Equal(t, core.MethodCard, p.Method)
			assert.Equal(t, day("2026-02-11"), p.PaymentDate)
		})
	}
}

func TestPlanBulkPayment(t *testing.T) {
	svc, _ := newTestService(t, nil)
	ctx := context.Background()

	plan, err := svc.PlanBulkPayment(ctx, 10, dec("150"))
	require.NoError(t, err)
	assert.Equal(t, core.ExactSettlement, plan.Kind)
	require.Len(t, plan.Allocations, 1)
	assert.Equal(t, 101, plan.Allocations[0].ServiceID)

	_, err = svc.PlanBulkPayment(ctx, 404, dec("10"))
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = svc.PlanBulkPayment(ctx, 10, dec("500"))
	assert.ErrorIs(t, err, core.ErrInvalidAmount)
}

func TestBulkPay(t *testing.T) {
	svc, fs := newTestService(t, nil)
	ctx := context.Background()

	ref := "TX-9"
	res, err := svc.BulkPay(ctx, BulkPaymentRequest{
		VehicleID:     10,
		Amount:        dec("75"),
		Method:        "transfer",
		PaymentDate:   "2026-03-01",
		TransactionID: &ref,
	})
	require.NoError(t, err)
	assert.Equal(t, core.ProportionalAllocation, res.Plan.Kind)
	require.Len(t, res.Payments, 1)
	assert.True(t, res.Payments[0].Amount.Equal(dec("75")))
	assert.Equal(t, core.MethodTransfer, fs.bulkTemplate.Method)
	assert.Equal(t, &ref, fs.bulkTemplate.TransactionID)

	_, err = svc.BulkPay(ctx, BulkPaymentRequest{VehicleID: 10, Amount: dec("-1"), Method: "cash", PaymentDate: "2026-03-01"})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestReports_Validation(t *testing.T) {
	svc, _ := newTestService(t, nil)
	ctx := context.Background()

	_, err := svc.FinancialReport(ctx, "ledger", "", "")
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.RevenueReport(ctx, "gross", "", "")
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.VehicleReport(ctx, 10, "2026-13-01", "")
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.VehicleReport(ctx, 404, "", "")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = svc.ReceiptDocument(ctx, 404)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestVehicleReport_WithoutCache(t *testing.T) {
	svc, fs := newTestService(t, nil)
	ctx := context.Background()

	report, err := svc.VehicleReport(ctx, 10, "2026-02-01", "")
	require.NoError(t, err)
	assert.Equal(t, "Alice", report.Customer.Name)
	assert.Len(t, report.Services, 2)
	assert.Len(t, report.FilteredServices, 1)
	assert.True(t, report.Totals.TotalRemaining.Equal(dec("150")))

	_, err = svc.VehicleReport(ctx, 10, "2026-02-01", "")
	require.NoError(t, err)
	assert.Equal(t, 2, fs.snapshotLoads)
}

func TestReportsCachedUntilMutation(t *testing.T) {
	svc, fs := newTestService(t, newRedisCache(t))
	ctx := context.Background()

	first, err := svc.FinancialReport(ctx, "invoices", "", "")
	require.NoError(t, err)
	second, err := svc.FinancialReport(ctx, "invoices", "", "")
	require.NoError(t, err)
	assert.Equal(t, 1, fs.snapshotLoads)
	assert.True(t, first.TotalAmount.Equal(second.TotalAmount))
	assert.True(t, second.TotalAmount.Equal(dec("300")))

	_, err = svc.CreatePayment(ctx, PaymentRequest{ServiceID: 101, Amount: dec("10"), Method: "cash", PaymentDate: "2026-02-11"})
	require.NoError(t, err)

	_, err = svc.FinancialReport(ctx, "invoices", "", "")
	require.NoError(t, err)
	assert.Equal(t, 2, fs.snapshotLoads)
}

func TestReportsBuiltWhenRedisDropsMidRequest(t *testing.T) {
	c, mr := newRedisCacheServer(t)
	svc, fs := newTestService(t, c)
	ctx := context.Background()

	// Redis goes away after the key is built, so storing the report fails.
	fs.onLoad = mr.Close

	report, err := svc.FinancialReport(ctx, "invoices", "", "")
	require.NoError(t, err)
	assert.True(t, report.TotalAmount.Equal(dec("300")))
	assert.Equal(t, 1, fs.snapshotLoads)

	// With Redis down the key cannot be versioned either; reports still load.
	fs.onLoad = nil
	report, err = svc.FinancialReport(ctx, "invoices", "", "")
	require.NoError(t, err)
	assert.True(t, report.TotalAmount.Equal(dec("300")))
	assert.Equal(t, 2, fs.snapshotLoads)
}

func TestUpdateEmployee_KeepsArchivedStatus(t *testing.T) {
	svc, fs := newTestService(t, nil)
	ctx := context.Background()
	fs.employees[3] = core.Employee{ID: 3, Name: "Sam", Status: core.EmployeeArchived}

	e, err := svc.UpdateEmployee(ctx, 3, EmployeeRequest{
		Name:     "Sam Smith",
		Position: "Mechanic",
		Salary:   dec("2500.505"),
		HireDate: "2024-06-01",
	})
	require.NoError(t, err)
	assert.Equal(t, core.EmployeeArchived, e.Status)
	assert.Equal(t, "Sam Smith", e.Name)
	assert.True(t, e.Salary.Equal(dec("2500.51")))

	_, err = svc.UpdateEmployee(ctx, 99, EmployeeRequest{Name: "X", Position: "Y", HireDate: "2024-06-01"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAuthenticateUser(t *testing.T) {
	svc, fs := newTestService(t, nil)
	ctx := context.Background()

	created, err := svc.CreateUser(ctx, CreateUserRequest{
		Username: "admin",
		Email:    "admin@garage.test",
		Password: "correct-horse",
		Role:     "admin",
	})
	require.NoError(t, err)
	assert.True(t, created.IsActive)
	require.NoError(t, bcrypt.CompareHashAndPassword([]byte(fs.users["admin"].PasswordHash), []byte("correct-horse")))

	session, err := svc.AuthenticateUser(ctx, "admin", "correct-horse")
	require.NoError(t, err)
	assert.Equal(t, created.UserID, session.UserID)
	assert.Equal(t, "admin", session.Role)

	_, err = svc.AuthenticateUser(ctx, "admin", "wrong")
	assert.True(t, errors.Is(err, ErrInvalidCredentials))

	_, err = svc.AuthenticateUser(ctx, "nobody", "correct-horse")
	assert.True(t, errors.Is(err, ErrInvalidCredentials))

	_, err = svc.CreateUser(ctx, CreateUserRequest{Username: "x", Email: "x@y.z", Password: "short", Role: "owner"})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "username")
	assert.Contains(t, verr.Fields, "password")
	assert.Contains(t, verr.Fields, "role")
}
