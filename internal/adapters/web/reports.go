package web

import (
	"encoding/csv"
	"net/http"
	"strconv"
	"strings"

	"garage-manager/internal/app"
	"garage-manager/internal/core"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
)

// vehicleReport handles GET /api/reports/vehicles/{id}?from=&to=.
func (h *Handler) vehicleReport(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	from, to := dateParams(r)
	report, err := h.svc.VehicleReport(r.Context(), id, from, to)
	if err != nil {
		h.writeAppError(w, r, err)
		return
	}
	writeJSON(w, report)
}

// customerReport handles GET /api/reports/customers/{id}?from=&to=.
func (h *Handler) customerReport(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	from, to := dateParams(r)
	report, err := h.svc.CustomerReport(r.Context(), id, from, to)
	if err != nil {
		h.writeAppError(w, r, err)
		return
	}
	writeJSON(w, report)
}

// financialReport handles GET /api/reports/financial/{kind}.
// When format=csv, streams CSV instead of JSON.
func (h *Handler) financialReport(w http.ResponseWriter, r *http.Request) {
	kind := chi.URLParam(r, "kind")
	from, to := dateParams(r)
	report, err := h.svc.FinancialReport(r.Context(), kind, from, to)
	if err != nil {
		h.writeAppError(w, r, err)
		return
	}
	if r.URL.Query().Get("format") == "csv" {
		writeCSVHeaders(w, "financial-"+string(report.Kind))
		if err := writeFinancialCSV(w, report); err != nil {
			h.logStreamError(r, err)
		}
		return
	}
	writeJSON(w, report)
}

// revenueReport handles GET /api/reports/revenue/{kind}.
// When format=csv, streams CSV instead of JSON.
func (h *Handler) revenueReport(w http.ResponseWriter, r *http.Request) {
	kind := chi.URLParam(r, "kind")
	from, to := dateParams(r)
	report, err := h.svc.RevenueReport(r.Context(), kind, from, to)
	if err != nil {
		h.writeAppError(w, r, err)
		return
	}
	if r.URL.Query().Get("format") == "csv" {
		writeCSVHeaders(w, "revenue-"+string(report.Kind))
		if err := writeRevenueCSV(w, report); err != nil {
			h.logStreamError(r, err)
		}
		return
	}
	writeJSON(w, report)
}

// dashboard handles GET /api/reports/dashboard?from=&to=.
func (h *Handler) dashboard(w http.ResponseWriter, r *http.Request) {
	from, to := dateParams(r)
	d, err := h.svc.Dashboard(r.Context(), from, to)
	if err != nil {
		h.writeAppError(w, r, err)
		return
	}
	writeJSON(w, d)
}

// invoiceDocument handles GET /api/services/{id}/invoice.
func (h *Handler) invoiceDocument(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	doc, err := h.svc.InvoiceDocument(r.Context(), id)
	if err != nil {
		h.writeAppError(w, r, err)
		return
	}
	writeJSON(w, doc)
}

// receiptDocument handles GET /api/payments/{id}/receipt.
func (h *Handler) receiptDocument(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	doc, err := h.svc.ReceiptDocument(r.Context(), id)
	if err != nil {
		h.writeAppError(w, r, err)
		return
	}
	writeJSON(w, doc)
}

// supplierBalance handles GET /api/suppliers/{id}/balance.
func (h *Handler) supplierBalance(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	bal, err := h.svc.SupplierBalance(r.Context(), id)
	if err != nil {
		h.writeAppError(w, r, err)
		return
	}
	writeJSON(w, bal)
}

// recalculateService handles POST /api/services/{id}/recalculate.
func (h *Handler) recalculateService(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	svc, err := h.svc.RecalculateService(r.Context(), id)
	if err != nil {
		h.writeAppError(w, r, err)
		return
	}
	writeJSON(w, svc)
}

// archiveEmployee handles POST /api/employees/{id}/archive.
func (h *Handler) archiveEmployee(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.svc.ArchiveEmployee(r.Context(), id); err != nil {
		h.writeAppError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// bulkPaymentPlan handles GET /api/vehicles/{id}/bulk-payment/plan?amount=.
func (h *Handler) bulkPaymentPlan(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	amount, err := decimal.NewFromString(r.URL.Query().Get("amount"))
	if err != nil {
		writeError(w, r, "amount must be a decimal number", "BAD_REQUEST", http.StatusBadRequest)
		return
	}
	plan, err := h.svc.PlanBulkPayment(r.Context(), id, amount)
	if err != nil {
		h.writeAppError(w, r, err)
		return
	}
	writeJSON(w, plan)
}

// bulkPayment handles POST /api/vehicles/{id}/bulk-payment.
func (h *Handler) bulkPayment(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req app.BulkPaymentRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.VehicleID = id
	result, err := h.svc.BulkPay(r.Context(), req)
	if err != nil {
		h.writeAppError(w, r, err)
		return
	}
	writeCreated(w, result)
}

func dateParams(r *http.Request) (from, to string) {
	q := r.URL.Query()
	return strings.TrimSpace(q.Get("from")), strings.TrimSpace(q.Get("to"))
}

// ── CSV export ────────────────────────────────────────────────────────────────

func writeCSVHeaders(w http.ResponseWriter, name string) {
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="`+name+`.csv"`)
}

func writeFinancialCSV(w http.ResponseWriter, report *core.FinancialReport) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"Date", "Reference", "Party", "Vehicle", "Description", "Method", "Status", "Amount", "Paid", "Remaining", "Running Total"}); err != nil {
		return err
	}
	for _, row := range report.Rows {
		if err := cw.Write([]string{
			row.Date.Format(core.DateLayout),
			csvSafe(row.Reference),
			csvSafe(row.Party),
			csvSafe(row.Vehicle),
			csvSafe(row.Description),
			string(row.Method),
			string(row.Status),
			row.Amount.StringFixed(2),
			row.Paid.StringFixed(2),
			row.Remaining.StringFixed(2),
			row.RunningTotal.StringFixed(2),
		}); err != nil {
			return err
		}
	}
	if err := cw.Write([]string{"", "", "", "", "", "", "Total", report.TotalAmount.StringFixed(2)}); err != nil {
		return err
	}
	cw.Flush()
	return cw.Error()
}

func writeRevenueCSV(w http.ResponseWriter, report *core.RevenueReport) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"Customer", "Phone", "Vehicles", "Services", "Total"}); err != nil {
		return err
	}
	for _, row := range report.Rows {
		if err := cw.Write([]string{
			csvSafe(row.Customer.Name),
			csvSafe(row.Customer.Phone),
			strconv.Itoa(len(row.Vehicles)),
			strconv.Itoa(row.ServicesCount),
			row.Total.StringFixed(2),
		}); err != nil {
			return err
		}
	}
	if err := cw.Write([]string{"Total", "", "", "", report.Total.StringFixed(2)}); err != nil {
		return err
	}
	cw.Flush()
	return cw.Error()
}

// csvSafe prevents CSV formula injection by prefixing cells that begin with a
// formula-triggering character with a single quote.
func csvSafe(s string) string {
	if len(s) == 0 {
		return s
	}
	switch s[0] {
	case '=', '+', '-', '@', '\t', '\r':
		return "'" + s
	}
	return s
}
