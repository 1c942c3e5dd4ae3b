package store

import (
	"context"
	"fmt"
	"sort"

	"garage-manager/internal/core"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

const paymentColumns = `id, service_id, amount, payment_method, payment_date, transaction_id, notes`

func scanPayment(row pgx.Row) (core.Payment, error) {
	var p core.Payment
	err := row.Scan(&p.ID, &p.ServiceID, &p.Amount, &p.Method, &p.PaymentDate, &p.TransactionID, &p.Notes)
	return p, err
}

func listPayments(ctx context.Context, q querier) ([]core.Payment, error) {
	rows, err := q.Query(ctx, `SELECT `+paymentColumns+` FROM payments ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list payments: %w", err)
	}
	payments, err := collect(rows, scanPayment)
	if err != nil {
		return nil, fmt.Errorf("scan payment: %w", err)
	}
	return payments, nil
}

func (s *Store) ListPayments(ctx context.Context) ([]core.Payment, error) {
	return listPayments(ctx, s.pool)
}

func (s *Store) GetPayment(ctx context.Context, id int) (core.Payment, error) {
	p, err := scanPayment(s.pool.QueryRow(ctx, `SELECT `+paymentColumns+` FROM payments WHERE id = $1`, id))
	return p, wrap("get payment", id, err)
}

func insertPayment(ctx context.Context, tx pgx.Tx, p core.Payment) (core.Payment, error) {
	out, err := scanPayment(tx.QueryRow(ctx, `
		INSERT INTO payments (service_id, amount, payment_method, payment_date, transaction_id, notes)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+paymentColumns,
		p.ServiceID, p.Amount, p.Method, p.PaymentDate, p.TransactionID, p.Notes,
	))
	if err != nil {
		return core.Payment{}, fmt.Errorf("insert payment for service %d: %w", p.ServiceID, classify(err))
	}
	return out, nil
}

// CreatePayment records p and applies it to its service in one transaction.
func (s *Store) CreatePayment(ctx context.Context, p core.Payment) (core.Payment, error) {
	var out core.Payment
	err := s.inTx(ctx, func(tx pgx.Tx) error {
		svc, err := lockService(ctx, tx, p.ServiceID)
		if err != nil {
			return err
		}
		updated, err := core.ApplyPayment(svc, p.Amount)
		if err != nil {
			return fmt.Errorf("payment for service %d: %w", p.ServiceID, err)
		}
		if out, err = insertPayment(ctx, tx, p); err != nil {
			return err
		}
		return saveBalance(ctx, tx, updated)
	})
	return out, err
}

// lockPayment locks the services a payment touches, in id order, before the
// payment row itself. DELETE FROM services takes the same order through its
// cascade. extra names a service the payment is about to move to.
func lockPayment(ctx context.Context, tx pgx.Tx, id int, extra ...int) (core.Payment, map[int]core.ServiceOrder, error) {
	for attempt := 0; attempt < 3; attempt++ {
		var serviceID int
		if err := tx.QueryRow(ctx, `SELECT service_id FROM payments WHERE id = $1`, id).Scan(&serviceID); err != nil {
			return core.Payment{}, nil, wrap("find payment", id, err)
		}
		ids := append([]int{serviceID}, extra...)
		sort.Ints(ids)
		locked := make(map[int]core.ServiceOrder, len(ids))
		for _, sid := range ids {
			if _, ok := locked[sid]; ok {
				continue
			}
			svc, err := lockService(ctx, tx, sid)
			if err != nil {
				return core.Payment{}, nil, err
			}
			locked[sid] = svc
		}

		p, err := scanPayment(tx.QueryRow(ctx, `SELECT `+paymentColumns+` FROM payments WHERE id = $1 FOR UPDATE`, id))
		if err != nil {
			return core.Payment{}, nil, wrap("lock payment", id, err)
		}
		// Moved by a concurrent edit between the two reads.
		if p.ServiceID == serviceID {
			return p, locked, nil
		}
	}
	return core.Payment{}, nil, fmt.Errorf("lock payment %d: service changed concurrently", id)
}

// UpdatePayment edits an existing payment. Moving a payment to another
// service reverts it on the old one and applies it to the new one.
func (s *Store) UpdatePayment(ctx context.Context, p core.Payment) (core.Payment, error) {
	var out core.Payment
	err := s.inTx(ctx, func(tx pgx.Tx) error {
		old, locked, err := lockPayment(ctx, tx, p.ID, p.ServiceID)
		if err != nil {
			return err
		}

		if old.ServiceID == p.ServiceID {
			updated, err := core.ReplacePayment(locked[p.ServiceID], old.Amount, p.Amount)
			if err != nil {
				return fmt.Errorf("edit payment %d: %w", p.ID, err)
			}
			if err := saveBalance(ctx, tx, updated); err != nil {
				return err
			}
		} else {
			if err := moveBetweenServices(ctx, tx, old, p, locked); err != nil {
				return err
			}
		}

		out, err = scanPayment(tx.QueryRow(ctx, `
			UPDATE payments
			SET service_id = $2, amount = $3, payment_method = $4, payment_date = $5, transaction_id = $6, notes = $7
			WHERE id = $1
			RETURNING `+paymentColumns,
			p.ID, p.ServiceID, p.Amount, p.Method, p.PaymentDate, p.TransactionID, p.Notes,
		))
		return wrap("update payment", p.ID, err)
	})
	return out, err
}

// moveBetweenServices reverts old on its service and applies next on the
// target. Both services must already be locked.
func moveBetweenServices(ctx context.Context, tx pgx.Tx, old, next core.Payment, locked map[int]core.ServiceOrder) error {
	from, err := core.RevertPayment(locked[old.ServiceID], old.Amount)
	if err != nil {
		return fmt.Errorf("move payment %d: %w", old.ID, err)
	}
	to, err := core.ApplyPayment(locked[next.ServiceID], next.Amount)
	if err != nil {
		return fmt.Errorf("move payment %d: %w", old.ID, err)
	}
	if err := saveBalance(ctx, tx, from); err != nil {
		return err
	}
	return saveBalance(ctx, tx, to)
}

// DeletePayment removes a payment and reverts it on its service.
func (s *Store) DeletePayment(ctx context.Context, id int) error {
	return s.inTx(ctx, func(tx pgx.Tx) error {
		p, locked, err := lockPayment(ctx, tx, id)
		if err != nil {
			return err
		}
		updated, err := core.RevertPayment(locked[p.ServiceID], p.Amount)
		if err != nil {
			return fmt.Errorf("delete payment %d: %w", id, err)
		}
		if _, err := tx.Exec(ctx, `DELETE FROM payments WHERE id = $1`, id); err != nil {
			return wrap("delete payment", id, err)
		}
		return saveBalance(ctx, tx, updated)
	})
}

// BulkPay plans amount over the vehicle's outstanding services and records
// one payment per allocation. template supplies method, date, transaction id
// and notes for every created payment. The vehicle's services stay locked
// from planning until commit, so the plan is computed on current balances.
func (s *Store) BulkPay(ctx context.Context, vehicleID int, amount decimal.Decimal, template core.Payment) (core.BulkPlan, []core.Payment, error) {
	var (
		plan    core.BulkPlan
		created []core.Payment
	)
	err := s.inTx(ctx, func(tx pgx.Tx) error {
		rows, err := tx.Query(ctx, `SELECT `+serviceColumns+` FROM services WHERE vehicle_id = $1 ORDER BY id FOR UPDATE`, vehicleID)
		if err != nil {
			return fmt.Errorf("lock services of vehicle %d: %w", vehicleID, err)
		}
		services, err := collect(rows, scanService)
		if err != nil {
			return fmt.Errorf("scan service: %w", err)
		}

		snap := &core.Snapshot{Services: services}
		plan, err = snap.BulkPaymentPlan(vehicleID, amount)
		if err != nil {
			return err
		}
		updated, err := core.ApplyBulkPlan(services, plan)
		if err != nil {
			return err
		}
		byID := make(map[int]core.ServiceOrder, len(updated))
		for _, svc := range updated {
			byID[svc.ID] = svc
		}

		created = make([]core.Payment, 0, len(plan.Allocations))
		for _, a := range plan.Allocations {
			p := template
			p.ServiceID = a.ServiceID
			p.Amount = a.AmountToApply
			inserted, err := insertPayment(ctx, tx, p)
			if err != nil {
				return err
			}
			if err := saveBalance(ctx, tx, byID[a.ServiceID]); err != nil {
				return err
			}
			created = append(created, inserted)
		}
		return nil
	})
	if err != nil {
		return core.BulkPlan{}, nil, err
	}
	return plan, created, nil
}
