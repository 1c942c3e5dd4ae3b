package web

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"garage-manager/internal/app"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httprate"
)

// Options configures the HTTP adapter.
type Options struct {
	AllowedOrigins string
	JWTSecret      string
	// LoginRateLimit is the number of login attempts allowed per IP per minute.
	LoginRateLimit int
	Production     bool
	Logger         *slog.Logger
}

// Handler holds the ApplicationService and the chi router.
type Handler struct {
	svc       app.ApplicationService
	router    chi.Router
	jwtSecret string
	logger    *slog.Logger
}

// NewHandler creates and wires the chi router with all routes.
func NewHandler(svc app.ApplicationService, opts Options) http.Handler {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	loginLimit := opts.LoginRateLimit
	if loginLimit <= 0 {
		loginLimit = 10
	}

	h := &Handler{
		svc:       svc,
		jwtSecret: opts.JWTSecret,
		logger:    logger,
	}

	r := chi.NewRouter()
	r.Use(RequestID)
	r.Use(Logger(logger))
	r.Use(Recoverer(logger))
	r.Use(SecureHeaders(opts.Production))
	r.Use(CORS(opts.AllowedOrigins))
	r.Use(RequestBodyLimit(1 << 20)) // 1 MB

	// ── Health & auth (public) ────────────────────────────────────────────────
	r.Get("/api/health", h.health)
	r.With(httprate.Limit(loginLimit, time.Minute,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			writeError(w, r, "too many login attempts", "RATE_LIMITED", http.StatusTooManyRequests)
		}),
	)).Post("/api/auth/login", h.login)
	r.Post("/api/auth/logout", h.logout)

	// ── Protected API routes (return 401 JSON if unauthenticated) ────────────
	r.Group(func(r chi.Router) {
		r.Use(h.RequireAuth)

		r.Get("/api/auth/me", h.me)
		r.With(RequireRole("admin")).Post("/api/users", h.createUser)

		mountResource(r, "/api/customers", resource[app.CustomerRequest]{
			list:   listOf(h.svc.ListCustomers),
			get:    getOf(h.svc.GetCustomer),
			create: createOf(h.svc.CreateCustomer),
			update: updateOf(h.svc.UpdateCustomer),
			remove: h.svc.DeleteCustomer,
		}, h)
		mountResource(r, "/api/vehicles", resource[app.VehicleRequest]{
			list:   listOf(h.svc.ListVehicles),
			get:    getOf(h.svc.GetVehicle),
			create: createOf(h.svc.CreateVehicle),
			update: updateOf(h.svc.UpdateVehicle),
			remove: h.svc.DeleteVehicle,
		}, h, func(r chi.Router) {
			r.Get("/{id}/bulk-payment/plan", h.bulkPaymentPlan)
			r.Post("/{id}/bulk-payment", h.bulkPayment)
		})
		mountResource(r, "/api/services", resource[app.ServiceRequest]{
			list:   listOf(h.svc.ListServices),
			get:    getOf(h.svc.GetService),
			create: createOf(h.svc.CreateService),
			update: updateOf(h.svc.UpdateService),
			remove: h.svc.DeleteService,
		}, h, func(r chi.Router) {
			r.Post("/{id}/recalculate", h.recalculateService)
			r.Get("/{id}/invoice", h.invoiceDocument)
		})
		mountResource(r, "/api/payments", resource[app.PaymentRequest]{
			list:   listOf(h.svc.ListPayments),
			get:    getOf(h.svc.GetPayment),
			create: createOf(h.svc.CreatePayment),
			update: updateOf(h.svc.UpdatePayment),
			remove: h.svc.DeletePayment,
		}, h, func(r chi.Router) {
			r.Get("/{id}/receipt", h.receiptDocument)
		})
		mountResource(r, "/api/suppliers", resource[app.SupplierRequest]{
			list:   listOf(h.svc.ListSuppliers),
			get:    getOf(h.svc.GetSupplier),
			create: createOf(h.svc.CreateSupplier),
			update: updateOf(h.svc.UpdateSupplier),
			remove: h.svc.DeleteSupplier,
		}, h, func(r chi.Router) {
			r.Get("/{id}/balance", h.supplierBalance)
		})
		mountResource(r, "/api/purchase-invoices", resource[app.PurchaseInvoiceRequest]{
			list:   listOf(h.svc.ListPurchaseInvoices),
			get:    getOf(h.svc.GetPurchaseInvoice),
			create: createOf(h.svc.CreatePurchaseInvoice),
			update: updateOf(h.svc.UpdatePurchaseInvoice),
			remove: h.svc.DeletePurchaseInvoice,
		}, h)
		mountResource(r, "/api/purchase-payments", resource[app.PurchasePaymentRequest]{
			list:   listOf(h.svc.ListPurchasePayments),
			get:    getOf(h.svc.GetPurchasePayment),
			create: createOf(h.svc.CreatePurchasePayment),
			update: updateOf(h.svc.UpdatePurchasePayment),
			remove: h.svc.DeletePurchasePayment,
		}, h)
		mountResource(r, "/api/employees", resource[app.EmployeeRequest]{
			list:   listOf(h.svc.ListEmployees),
			get:    getOf(h.svc.GetEmployee),
			create: createOf(h.svc.CreateEmployee),
			update: updateOf(h.svc.UpdateEmployee),
			remove: h.svc.DeleteEmployee,
		}, h, func(r chi.Router) {
			r.Post("/{id}/archive", h.archiveEmployee)
		})

		// ── Reports ───────────────────────────────────────────────────────────
		r.Get("/api/reports/vehicles/{id}", h.vehicleReport)
		r.Get("/api/reports/customers/{id}", h.customerReport)
		r.Get("/api/reports/financial/{kind}", h.financialReport)
		r.Get("/api/reports/revenue/{kind}", h.revenueReport)
		r.Get("/api/reports/dashboard", h.dashboard)
	})

	h.router = r
	return r
}

// health reports liveness only; it does not touch the database.
func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]string{"status": "ok"})
}

// ── Generic CRUD wiring ──────────────────────────────────────────────────────

// resource adapts one entity's ApplicationService methods to JSON handlers.
// Results are passed through as any so every entity shares the same handlers.
type resource[Req any] struct {
	list   func(ctx context.Context) (any, error)
	get    func(ctx context.Context, id int) (any, error)
	create func(ctx context.Context, req Req) (any, error)
	update func(ctx context.Context, id int, req Req) (any, error)
	remove func(ctx context.Context, id int) error
}

func listOf[T any](fn func(context.Context) ([]T, error)) func(context.Context) (any, error) {
	return func(ctx context.Context) (any, error) {
		items, err := fn(ctx)
		if err != nil {
			return nil, err
		}
		if items == nil {
			items = []T{}
		}
		return items, nil
	}
}

func getOf[T any](fn func(context.Context, int) (*T, error)) func(context.Context, int) (any, error) {
	return func(ctx context.Context, id int) (any, error) { return fn(ctx, id) }
}

func createOf[Req, T any](fn func(context.Context, Req) (*T, error)) func(context.Context, Req) (any, error) {
	return func(ctx context.Context, req Req) (any, error) { return fn(ctx, req) }
}

func updateOf[Req, T any](fn func(context.Context, int, Req) (*T, error)) func(context.Context, int, Req) (any, error) {
	return func(ctx context.Context, id int, req Req) (any, error) { return fn(ctx, id, req) }
}

// mountResource registers list/get/create/update/delete under path. extra
// adds entity-specific sub-routes to the same subrouter.
func mountResource[Req any](r chi.Router, path string, res resource[Req], h *Handler, extra ...func(chi.Router)) {
	r.Route(path, func(r chi.Router) {
		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			out, err := res.list(r.Context())
			if err != nil {
				h.writeAppError(w, r, err)
				return
			}
			writeJSON(w, out)
		})
		r.Post("/", func(w http.ResponseWriter, r *http.Request) {
			var req Req
			if !decodeJSON(w, r, &req) {
				return
			}
			out, err := res.create(r.Context(), req)
			if err != nil {
				h.writeAppError(w, r, err)
				return
			}
			writeCreated(w, out)
		})
		r.Get("/{id}", func(w http.ResponseWriter, r *http.Request) {
			id, ok := pathID(w, r)
			if !ok {
				return
			}
			out, err := res.get(r.Context(), id)
			if err != nil {
				h.writeAppError(w, r, err)
				return
			}
			writeJSON(w, out)
		})
		r.Put("/{id}", func(w http.ResponseWriter, r *http.Request) {
			id, ok := pathID(w, r)
			if !ok {
				return
			}
			var req Req
			if !decodeJSON(w, r, &req) {
				return
			}
			out, err := res.update(r.Context(), id, req)
			if err != nil {
				h.writeAppError(w, r, err)
				return
			}
			writeJSON(w, out)
		})
		r.Delete("/{id}", func(w http.ResponseWriter, r *http.Request) {
			id, ok := pathID(w, r)
			if !ok {
				return
			}
			if err := res.remove(r.Context(), id); err != nil {
				h.writeAppError(w, r, err)
				return
			}
			w.WriteHeader(http.StatusNoContent)
		})
		for _, fn := range extra {
			fn(r)
		}
	})
}

// pathID parses the {id} URL parameter, writing a 400 on failure.
func pathID(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || id <= 0 {
		writeError(w, r, "invalid id", "BAD_REQUEST", http.StatusBadRequest)
		return 0, false
	}
	return id, true
}

// decodeJSON decodes the request body into v and returns false + writes an appropriate
// error response on failure. Returns HTTP 413 when the body exceeds the size limit set
// by RequestBodyLimit middleware; HTTP 400 for all other decode errors.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			writeError(w, r, "request body too large", "REQUEST_TOO_LARGE", http.StatusRequestEntityTooLarge)
			return false
		}
		writeError(w, r, "invalid JSON body: "+err.Error(), "BAD_REQUEST", http.StatusBadRequest)
		return false
	}
	return true
}
