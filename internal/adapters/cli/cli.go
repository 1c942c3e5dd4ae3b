package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"garage-manager/internal/app"
	"garage-manager/internal/core"

	"github.com/shopspring/decimal"
)

// ErrUsage is returned for a missing or unknown subcommand or bad arguments.
var ErrUsage = errors.New("usage")

const usage = `Available commands:
  vehicle   <id> [from] [to]
  customer  <id> [from] [to]
  financial <invoices|receipts|payments|suppliers> [from] [to]
  revenue   <paid|pending|total> [from] [to]
  plan      <vehicleID> <amount>
  dashboard [from] [to]
  invoice   <serviceID>
  receipt   <paymentID>
  supplier  <id>
  create-user <username> <email> <password> <admin|staff>`

// Printer renders reports as fixed-width text. Currency prefixes every amount.
type Printer struct {
	Out      io.Writer
	Currency string
}

// Run executes a one-shot CLI command, printing its result to p.Out.
// args is os.Args[1:]; the first element is the subcommand name.
func Run(ctx context.Context, svc app.ApplicationService, p Printer, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("%w: no command given\n%s", ErrUsage, usage)
	}
	cmd, rest := args[0], args[1:]
	from, to := optional(rest, 1), optional(rest, 2)

	switch cmd {
	case "vehicle", "v":
		id, err := intArg(rest, 0, "vehicle id")
		if err != nil {
			return err
		}
		report, err := svc.VehicleReport(ctx, id, from, to)
		if err != nil {
			return err
		}
		p.vehicleReport(report)

	case "customer", "c":
		id, err := intArg(rest, 0, "customer id")
		if err != nil {
			return err
		}
		report, err := svc.CustomerReport(ctx, id, from, to)
		if err != nil {
			return err
		}
		p.customerReport(report)

	case "financial", "fin":
		kind := optional(rest, 0)
		if kind == "" {
			return fmt.Errorf("%w: financial <kind> [from] [to]", ErrUsage)
		}
		report, err := svc.FinancialReport(ctx, kind, from, to)
		if err != nil {
			return err
		}
		p.financialReport(report)

	case "revenue", "rev":
		kind := optional(rest, 0)
		if kind == "" {
			return fmt.Errorf("%w: revenue <kind> [from] [to]", ErrUsage)
		}
		report, err := svc.RevenueReport(ctx, kind, from, to)
		if err != nil {
			return err
		}
		p.revenueReport(report)

	case "plan":
		id, err := intArg(rest, 0, "vehicle id")
		if err != nil {
			return err
		}
		amount, err := decimal.NewFromString(optional(rest, 1))
		if err != nil {
			return fmt.Errorf("%w: plan <vehicleID> <amount>: amount must be a decimal number", ErrUsage)
		}
		plan, err := svc.PlanBulkPayment(ctx, id, amount)
		if err != nil {
			return err
		}
		p.bulkPlan(plan)

	case "dashboard", "dash":
		d, err := svc.Dashboard(ctx, optional(rest, 0), optional(rest, 1))
		if err != nil {
			return err
		}
		p.dashboard(d)

	case "invoice", "inv":
		id, err := intArg(rest, 0, "service id")
		if err != nil {
			return err
		}
		doc, err := svc.InvoiceDocument(ctx, id)
		if err != nil {
			return err
		}
		p.invoice(doc)

	case "receipt", "rct":
		id, err := intArg(rest, 0, "payment id")
		if err != nil {
			return err
		}
		doc, err := svc.ReceiptDocument(ctx, id)
		if err != nil {
			return err
		}
		p.receipt(doc)

	case "supplier", "sup":
		id, err := intArg(rest, 0, "supplier id")
		if err != nil {
			return err
		}
		bal, err := svc.SupplierBalance(ctx, id)
		if err != nil {
			return err
		}
		p.supplierBalance(bal)

	case "create-user":
		if len(rest) < 4 {
			return fmt.Errorf("%w: create-user <username> <email> <password> <role>", ErrUsage)
		}
		user, err := svc.CreateUser(ctx, app.CreateUserRequest{
			Username: rest[0], Email: rest[1], Password: rest[2], Role: rest[3],
		})
		if err != nil {
			return err
		}
		fmt.Fprintf(p.Out, "Created user %s (id %d, role %s)\n", user.Username, user.UserID, user.Role)

	default:
		return fmt.Errorf("%w: unknown command %q\n%s", ErrUsage, cmd, usage)
	}
	return nil
}

func optional(args []string, i int) string {
	if i < len(args) {
		return strings.TrimSpace(args[i])
	}
	return ""
}

func intArg(args []string, i int, name string) (int, error) {
	n, err := strconv.Atoi(optional(args, i))
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("%w: %s must be a positive integer", ErrUsage, name)
	}
	return n, nil
}

// ── Printing ──────────────────────────────────────────────────────────────────

const width = 78

func (p Printer) money(d decimal.Decimal) string {
	return p.Currency + d.StringFixed(2)
}

func (p Printer) rule(ch string) {
	fmt.Fprintln(p.Out, strings.Repeat(ch, width))
}

func (p Printer) title(title string, lines ...string) {
	fmt.Fprintln(p.Out)
	p.rule("=")
	fmt.Fprintf(p.Out, "  %s\n", title)
	for _, l := range lines {
		fmt.Fprintf(p.Out, "  %s\n", l)
	}
	p.rule("=")
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

func (p Printer) services(services []core.ServiceOrder) {
	fmt.Fprintf(p.Out, "  %-10s %-24s %12s %12s %12s\n", "DATE", "TYPE", "COST", "PAID", "REMAINING")
	p.rule("-")
	for _, s := range services {
		fmt.Fprintf(p.Out, "  %-10s %-24s %12s %12s %12s\n",
			s.Date.Format(core.DateLayout),
			truncate(core.ServiceTypeLabel(s.Type), 24),
			p.money(s.Cost), p.money(s.AmountPaid), p.money(s.RemainingAmount))
	}
}

func (p Printer) payments(payments []core.Payment) {
	if len(payments) == 0 {
		return
	}
	fmt.Fprintln(p.Out)
	fmt.Fprintf(p.Out, "  %-10s %-12s %-10s %12s\n", "DATE", "RECEIPT", "METHOD", "AMOUNT")
	p.rule("-")
	for _, pay := range payments {
		fmt.Fprintf(p.Out, "  %-10s %-12s %-10s %12s\n",
			pay.PaymentDate.Format(core.DateLayout),
			core.DocumentNumber("RCT", pay.ID),
			pay.Method, p.money(pay.Amount))
	}
}

func (p Printer) vehicleReport(r *core.VehicleReport) {
	p.title("VEHICLE REPORT",
		fmt.Sprintf("Vehicle  : %s", r.Vehicle.Label()),
		fmt.Sprintf("Owner    : %s", r.Customer.Name),
		fmt.Sprintf("Period   : %s", r.Period))
	p.services(r.FilteredServices)
	p.payments(r.PaymentsInPeriod)
	p.rule("=")
	fmt.Fprintf(p.Out, "  %-36s %12s %12s %12s\n", "Period totals",
		p.money(r.Totals.FilteredCost), p.money(r.Totals.FilteredPaid), p.money(r.Totals.FilteredRemaining))
	fmt.Fprintf(p.Out, "  %-36s %12s %12s %12s\n", "All-time totals",
		p.money(r.Totals.TotalCost), p.money(r.Totals.TotalPaid), p.money(r.Totals.TotalRemaining))
}

func (p Printer) customerReport(r *core.CustomerReport) {
	p.title("CUSTOMER REPORT",
		fmt.Sprintf("Customer : %s (%s)", r.Customer.Name, r.Customer.Phone),
		fmt.Sprintf("Vehicles : %d", r.Stats.TotalVehicles),
		fmt.Sprintf("Period   : %s", r.Period))
	p.services(r.FilteredServices)
	p.payments(r.PaymentsInPeriod)
	p.rule("=")
	fmt.Fprintf(p.Out, "  %-36s %12s %12s %12s\n", fmt.Sprintf("Period (%d services)", r.Stats.FilteredServices),
		p.money(r.Stats.FilteredCost), p.money(r.Stats.FilteredPaid), p.money(r.Stats.FilteredRemaining))
	fmt.Fprintf(p.Out, "  %-36s %12s %12s %12s\n", fmt.Sprintf("All time (%d services)", r.Stats.TotalServices),
		p.money(r.Stats.TotalCost), p.money(r.Stats.TotalPaid), p.money(r.Stats.TotalRemaining))
}

func (p Printer) financialReport(r *core.FinancialReport) {
	p.title("FINANCIAL REPORT: "+strings.ToUpper(string(r.Kind)), "Period   : "+r.Period.String())
	fmt.Fprintf(p.Out, "  %-10s %-10s %-24s %13s %13s\n", "DATE", "REF", "PARTY", "AMOUNT", "RUNNING")
	p.rule("-")
	for _, row := range r.Rows {
		fmt.Fprintf(p.Out, "  %-10s %-10s %-24s %13s %13s\n",
			row.Date.Format(core.DateLayout), row.Reference, truncate(row.Party, 24),
			p.money(row.Amount), p.money(row.RunningTotal))
	}
	p.rule("=")
	fmt.Fprintf(p.Out, "  %-46s %13s\n", fmt.Sprintf("Total (%d rows)", len(r.Rows)), p.money(r.TotalAmount))
}

func (p Printer) revenueReport(r *core.RevenueReport) {
	p.title("REVENUE BY CUSTOMER: "+strings.ToUpper(string(r.Kind)), "Period   : "+r.Period.String())
	fmt.Fprintf(p.Out, "  %-30s %8s %8s %14s\n", "CUSTOMER", "VEHICLES", "SERVICES", "TOTAL")
	p.rule("-")
	for _, row := range r.Rows {
		fmt.Fprintf(p.Out, "  %-30s %8d %8d %14s\n",
			truncate(row.Customer.Name, 30), len(row.Vehicles), row.ServicesCount, p.money(row.Total))
	}
	p.rule("=")
	fmt.Fprintf(p.Out, "  %-48s %14s\n", "Total", p.money(r.Total))
}

func (p Printer) bulkPlan(plan *core.BulkPlan) {
	p.title("BULK PAYMENT PLAN",
		fmt.Sprintf("Vehicle   : %d", plan.VehicleID),
		fmt.Sprintf("Payment   : %s of %s outstanding", p.money(plan.PaymentAmount), p.money(plan.TotalRemaining)),
		fmt.Sprintf("Kind      : %s", plan.Kind))
	fmt.Fprintf(p.Out, "  %-12s %14s\n", "SERVICE", "APPLY")
	p.rule("-")
	for _, a := range plan.Allocations {
		fmt.Fprintf(p.Out, "  %-12d %14s\n", a.ServiceID, p.money(a.AmountToApply))
	}
}

func (p Printer) dashboard(d *core.Dashboard) {
	p.title("DASHBOARD", "Period   : "+d.Period.String())
	rows := [][2]string{
		{"Customers", strconv.Itoa(d.TotalCustomers)},
		{"Vehicles", strconv.Itoa(d.TotalVehicles)},
		{"  pending", strconv.Itoa(d.VehiclesByStatus[core.VehiclePending])},
		{"  in service", strconv.Itoa(d.VehiclesByStatus[core.VehicleInService])},
		{"  completed", strconv.Itoa(d.VehiclesByStatus[core.VehicleCompleted])},
		{"Services in period", strconv.Itoa(d.ServicesInPeriod)},
		{"Billed in period", p.money(d.BilledInPeriod)},
		{"Collected in period", p.money(d.CollectedInPeriod)},
		{"Outstanding (all time)", p.money(d.Outstanding)},
		{"Owed to suppliers", p.money(d.SupplierOutstanding)},
		{"Active employees", strconv.Itoa(d.ActiveEmployees)},
		{"Monthly payroll", p.money(d.MonthlyPayroll)},
	}
	if d.MostCommonServiceType != "" {
		rows = append(rows, [2]string{"Most common service", core.ServiceTypeLabel(d.MostCommonServiceType)})
	}
	for _, row := range rows {
		fmt.Fprintf(p.Out, "  %-30s %20s\n", row[0], row[1])
	}
}

func (p Printer) invoice(doc *core.InvoiceDocument) {
	p.title("INVOICE "+doc.Number,
		"Date     : "+doc.Date.Format(core.DateLayout),
		"Customer : "+doc.Customer.Name,
		"Vehicle  : "+doc.Vehicle.Label())
	for _, line := range doc.Lines {
		fmt.Fprintf(p.Out, "  %-60s %14s\n", truncate(line.Label+": "+line.Description, 60), p.money(line.Cost))
	}
	p.rule("-")
	fmt.Fprintf(p.Out, "  %-60s %14s\n", "Subtotal", p.money(doc.Subtotal))
	fmt.Fprintf(p.Out, "  %-60s %14s\n", "Paid", p.money(doc.AmountPaid))
	fmt.Fprintf(p.Out, "  %-60s %14s\n", "Balance due", p.money(doc.BalanceDue))
}

func (p Printer) receipt(doc *core.ReceiptDocument) {
	p.title("RECEIPT "+doc.Number,
		"Date     : "+doc.Payment.PaymentDate.Format(core.DateLayout),
		"Customer : "+doc.Customer.Name,
		"Vehicle  : "+doc.Vehicle.Label())
	fmt.Fprintf(p.Out, "  %-40s %14s\n", truncate(doc.ServiceDescription, 40), p.money(doc.ServiceCost))
	fmt.Fprintf(p.Out, "  %-40s %14s\n", "Received ("+string(doc.Payment.Method)+")", p.money(doc.Payment.Amount))
	fmt.Fprintf(p.Out, "  %-40s %14s\n", "Total paid", p.money(doc.TotalPaid))
	fmt.Fprintf(p.Out, "  %-40s %14s\n", "Balance", p.money(doc.BalanceAfter))
}

func (p Printer) supplierBalance(b *core.SupplierBalance) {
	p.title("SUPPLIER BALANCE", "Supplier : "+b.Supplier.Name)
	fmt.Fprintf(p.Out, "  %-10s %-16s %-8s %12s %12s\n", "DATE", "INVOICE", "STATUS", "AMOUNT", "PAID")
	p.rule("-")
	for _, inv := range b.Invoices {
		fmt.Fprintf(p.Out, "  %-10s %-16s %-8s %12s %12s\n",
			inv.InvoiceDate.Format(core.DateLayout), truncate(inv.InvoiceNumber, 16), inv.Status,
			p.money(inv.Amount), p.money(inv.PaidAmount))
	}
	p.rule("=")
	fmt.Fprintf(p.Out, "  %-37s %12s %12s\n", "Total", p.money(b.TotalInvoiced), p.money(b.TotalPaid))
	fmt.Fprintf(p.Out, "  %-37s %25s\n", "Remaining", p.money(b.TotalRemaining))
}
