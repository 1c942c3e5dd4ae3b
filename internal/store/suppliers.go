package store

import (
	"context"
	"fmt"

	"garage-manager/internal/core"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// ── Suppliers ─────────────────────────────────────────────────────────────────

const supplierColumns = `id, name, phone, email, address, created_at`

func scanSupplier(row pgx.Row) (core.Supplier, error) {
	var s core.Supplier
	err := row.Scan(&s.ID, &s.Name, &s.Phone, &s.Email, &s.Address, &s.CreatedAt)
	return s, err
}

func listSuppliers(ctx context.Context, q querier) ([]core.Supplier, error) {
	rows, err := q.Query(ctx, `SELECT `+supplierColumns+` FROM suppliers ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list suppliers: %w", err)
	}
	suppliers, err := collect(rows, scanSupplier)
	if err != nil {
		return nil, fmt.Errorf("scan supplier: %w", err)
	}
	return suppliers, nil
}

func (s *Store) ListSuppliers(ctx context.Context) ([]core.Supplier, error) {
	return listSuppliers(ctx, s.pool)
}

func (s *Store) GetSupplier(ctx context.Context, id int) (core.Supplier, error) {
	sup, err := scanSupplier(s.pool.QueryRow(ctx, `SELECT `+supplierColumns+` FROM suppliers WHERE id = $1`, id))
	return sup, wrap("get supplier", id, err)
}

func (s *Store) CreateSupplier(ctx context.Context, sup core.Supplier) (core.Supplier, error) {
	out, err := scanSupplier(s.pool.QueryRow(ctx, `
		INSERT INTO suppliers (name, phone, email, address)
		VALUES ($1, $2, $3, $4)
		RETURNING `+supplierColumns,
		sup.Name, sup.Phone, sup.Email, sup.Address,
	))
	if err != nil {
		return core.Supplier{}, fmt.Errorf("create supplier %q: %w", sup.Name, classify(err))
	}
	return out, nil
}

func (s *Store) UpdateSupplier(ctx context.Context, sup core.Supplier) (core.Supplier, error) {
	out, err := scanSupplier(s.pool.QueryRow(ctx, `
		UPDATE suppliers SET name = $2, phone = $3, email = $4, address = $5
		WHERE id = $1
		RETURNING `+supplierColumns,
		sup.ID, sup.Name, sup.Phone, sup.Email, sup.Address,
	))
	return out, wrap("update supplier", sup.ID, err)
}

// DeleteSupplier removes the supplier with its invoices and their payments.
func (s *Store) DeleteSupplier(ctx context.Context, id int) error {
	return wrap("delete supplier", id, expectOne(s.pool.Exec(ctx, `DELETE FROM suppliers WHERE id = $1`, id)))
}

// ── Purchase invoices ─────────────────────────────────────────────────────────

const invoiceColumns = `id, supplier_id, invoice_number, invoice_date, amount, paid_amount, status, notes`

func scanInvoice(row pgx.Row) (core.PurchaseInvoice, error) {
	var inv core.PurchaseInvoice
	err := row.Scan(&inv.ID, &inv.SupplierID, &inv.InvoiceNumber, &inv.InvoiceDate,
		&inv.Amount, &inv.PaidAmount, &inv.Status, &inv.Notes)
	return inv, err
}

func listPurchaseInvoices(ctx context.Context, q querier) ([]core.PurchaseInvoice, error) {
	rows, err := q.Query(ctx, `SELECT `+invoiceColumns+` FROM purchase_invoices ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list purchase invoices: %w", err)
	}
	invoices, err := collect(rows, scanInvoice)
	if err != nil {
		return nil, fmt.Errorf("scan purchase invoice: %w", err)
	}
	return invoices, nil
}

func (s *Store) ListPurchaseInvoices(ctx context.Context) ([]core.PurchaseInvoice, error) {
	return listPurchaseInvoices(ctx, s.pool)
}

func (s *Store) GetPurchaseInvoice(ctx context.Context, id int) (core.PurchaseInvoice, error) {
	inv, err := scanInvoice(s.pool.QueryRow(ctx, `SELECT `+invoiceColumns+` FROM purchase_invoices WHERE id = $1`, id))
	return inv, wrap("get purchase invoice", id, err)
}

func lockInvoice(ctx context.Context, tx pgx.Tx, id int) (core.PurchaseInvoice, error) {
	inv, err := scanInvoice(tx.QueryRow(ctx, `SELECT `+invoiceColumns+` FROM purchase_invoices WHERE id = $1 FOR UPDATE`, id))
	return inv, wrap("lock purchase invoice", id, err)
}

func saveInvoiceBalance(ctx context.Context, tx pgx.Tx, inv core.PurchaseInvoice) error {
	_, err := tx.Exec(ctx, `UPDATE purchase_invoices SET amount = $2, paid_amount = $3, status = $4 WHERE id = $1`,
		inv.ID, inv.Amount, inv.PaidAmount, inv.Status)
	return wrap("update purchase invoice balance", inv.ID, err)
}

// CreatePurchaseInvoice stores a new invoice with nothing paid yet.
func (s *Store) CreatePurchaseInvoice(ctx context.Context, inv core.PurchaseInvoice) (core.PurchaseInvoice, error) {
	inv.PaidAmount = decimal.Zero
	inv = inv.Normalize()
	out, err := scanInvoice(s.pool.QueryRow(ctx, `
		INSERT INTO purchase_invoices (supplier_id, invoice_number, invoice_date, amount, paid_amount, status, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING `+invoiceColumns,
		inv.SupplierID, inv.InvoiceNumber, inv.InvoiceDate, inv.Amount, inv.PaidAmount, inv.Status, inv.Notes,
	))
	if err != nil {
		return core.PurchaseInvoice{}, fmt.Errorf("create purchase invoice %q: %w", inv.InvoiceNumber, classify(err))
	}
	return out, nil
}

// UpdatePurchaseInvoice edits invoice details and re-prices it against what
// has already been paid.
func (s *Store) UpdatePurchaseInvoice(ctx context.Context, inv core.PurchaseInvoice) (core.PurchaseInvoice, error) {
	var out core.PurchaseInvoice
	err := s.inTx(ctx, func(tx pgx.Tx) error {
		cur, err := lockInvoice(ctx, tx, inv.ID)
		if err != nil {
			return err
		}
		repriced, err := core.RepriceInvoice(cur, inv.Amount)
		if err != nil {
			return fmt.Errorf("update purchase invoice %d: %w", inv.ID, err)
		}
		out, err = scanInvoice(tx.QueryRow(ctx, `
			UPDATE purchase_invoices
			SET supplier_id = $2, invoice_number = $3, invoice_date = $4, amount = $5, paid_amount = $6, status = $7, notes = $8
			WHERE id = $1
			RETURNING `+invoiceColumns,
			inv.ID, inv.SupplierID, inv.InvoiceNumber, inv.InvoiceDate,
			repriced.Amount, repriced.PaidAmount, repriced.Status, inv.Notes,
		))
		return wrap("update purchase invoice", inv.ID, err)
	})
	return out, err
}

func (s *Store) DeletePurchaseInvoice(ctx context.Context, id int) error {
	return wrap("delete purchase invoice", id, expectOne(s.pool.Exec(ctx, `DELETE FROM purchase_invoices WHERE id = $1`, id)))
}

// ── Purchase payments ─────────────────────────────────────────────────────────

const purchasePaymentColumns = `id, invoice_id, amount, payment_method, payment_date, notes`

func scanPurchasePayment(row pgx.Row) (core.PurchasePayment, error) {
	var p core.PurchasePayment
	err := row.Scan(&p.ID, &p.InvoiceID, &p.Amount, &p.Method, &p.PaymentDate, &p.Notes)
	return p, err
}

func listPurchasePayments(ctx context.Context, q querier) ([]core.PurchasePayment, error) {
	rows, err := q.Query(ctx, `SELECT `+purchasePaymentColumns+` FROM purchase_payments ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list purchase payments: %w", err)
	}
	payments, err := collect(rows, scanPurchasePayment)
	if err != nil {
		return nil, fmt.Errorf("scan purchase payment: %w", err)
	}
	return payments, nil
}

func (s *Store) ListPurchasePayments(ctx context.Context) ([]core.PurchasePayment, error) {
	return listPurchasePayments(ctx, s.pool)
}

func (s *Store) GetPurchasePayment(ctx context.Context, id int) (core.PurchasePayment, error) {
	p, err := scanPurchasePayment(s.pool.QueryRow(ctx, `SELECT `+purchasePaymentColumns+` FROM purchase_payments WHERE id = $1`, id))
	return p, wrap("get purchase payment", id, err)
}

// CreatePurchasePayment records p and applies it to its invoice.
func (s *Store) CreatePurchasePayment(ctx context.Context, p core.PurchasePayment) (core.PurchasePayment, error) {
	var out core.PurchasePayment
	err := s.inTx(ctx, func(tx pgx.Tx) error {
		inv, err := lockInvoice(ctx, tx, p.InvoiceID)
		if err != nil {
			return err
		}
		updated, err := core.ApplyPurchasePayment(inv, p.Amount)
		if err != nil {
			return fmt.Errorf("payment for purchase invoice %d: %w", p.InvoiceID, err)
		}
		out, err = scanPurchasePayment(tx.QueryRow(ctx, `
			INSERT INTO purchase_payments (invoice_id, amount, payment_method, payment_date, notes)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING `+purchasePaymentColumns,
			p.InvoiceID, p.Amount, p.Method, p.PaymentDate, p.Notes,
		))
		if err != nil {
			return fmt.Errorf("insert purchase payment: %w", classify(err))
		}
		return saveInvoiceBalance(ctx, tx, updated)
	})
	return out, err
}

// UpdatePurchasePayment edits the amount and details of a purchase payment.
// The invoice it belongs to cannot change.
func (s *Store) UpdatePurchasePayment(ctx context.Context, p core.PurchasePayment) (core.PurchasePayment, error) {
	var out core.PurchasePayment
	err := s.inTx(ctx, func(tx pgx.Tx) error {
		old, err := scanPurchasePayment(tx.QueryRow(ctx, `SELECT `+purchasePaymentColumns+` FROM purchase_payments WHERE id = $1 FOR UPDATE`, p.ID))
		if err != nil {
			return wrap("lock purchase payment", p.ID, err)
		}
		inv, err := lockInvoice(ctx, tx, old.InvoiceID)
		if err != nil {
			return err
		}
		updated, err := core.ReplacePurchasePayment(inv, old.Amount, p.Amount)
		if err != nil {
			return fmt.Errorf("edit purchase payment %d: %w", p.ID, err)
		}
		if err := saveInvoiceBalance(ctx, tx, updated); err != nil {
			return err
		}
		out, err = scanPurchasePayment(tx.QueryRow(ctx, `
			UPDATE purchase_payments SET amount = $2, payment_method = $3, payment_date = $4, notes = $5
			WHERE id = $1
			RETURNING `+purchasePaymentColumns,
			p.ID, p.Amount, p.Method, p.PaymentDate, p.Notes,
		))
		return wrap("update purchase payment", p.ID, err)
	})
	return out, err
}

func (s *Store) DeletePurchasePayment(ctx context.Context, id int) error {
	return s.inTx(ctx, func(tx pgx.Tx) error {
		p, err := scanPurchasePayment(tx.QueryRow(ctx, `SELECT `+purchasePaymentColumns+` FROM purchase_payments WHERE id = $1 FOR UPDATE`, id))
		if err != nil {
			return wrap("lock purchase payment", id, err)
		}
		inv, err := lockInvoice(ctx, tx, p.InvoiceID)
		if err != nil {
			return err
		}
		updated, err := core.RevertPurchasePayment(inv, p.Amount)
		if err != nil {
			return fmt.Errorf("delete purchase payment %d: %w", id, err)
		}
		if _, err := tx.Exec(ctx, `DELETE FROM purchase_payments WHERE id = $1`, id); err != nil {
			return wrap("delete purchase payment", id, err)
		}
		return saveInvoiceBalance(ctx, tx, updated)
	})
}
