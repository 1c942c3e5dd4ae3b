package store

import (
	"context"
	"fmt"

	"garage-manager/internal/core"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

const serviceColumns = `id, vehicle_id, type, description, technician, date, cost,
	amount_paid, remaining_amount, status, payment_status`

func scanService(row pgx.Row) (core.ServiceOrder, error) {
	var s core.ServiceOrder
	err := row.Scan(
		&s.ID, &s.VehicleID, &s.Type, &s.Description, &s.Technician, &s.Date, &s.Cost,
		&s.AmountPaid, &s.RemainingAmount, &s.Status, &s.PaymentStatus,
	)
	return s, err
}

func listServices(ctx context.Context, q querier) ([]core.ServiceOrder, error) {
	rows, err := q.Query(ctx, `SELECT `+serviceColumns+` FROM services ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list services: %w", err)
	}
	services, err := collect(rows, scanService)
	if err != nil {
		return nil, fmt.Errorf("scan service: %w", err)
	}
	return services, nil
}

func (s *Store) ListServices(ctx context.Context) ([]core.ServiceOrder, error) {
	return listServices(ctx, s.pool)
}

func (s *Store) GetService(ctx context.Context, id int) (core.ServiceOrder, error) {
	svc, err := scanService(s.pool.QueryRow(ctx, `SELECT `+serviceColumns+` FROM services WHERE id = $1`, id))
	return svc, wrap("get service", id, err)
}

// lockService reads a service row FOR UPDATE inside tx.
func lockService(ctx context.Context, tx pgx.Tx, id int) (core.ServiceOrder, error) {
	svc, err := scanService(tx.QueryRow(ctx, `SELECT `+serviceColumns+` FROM services WHERE id = $1 FOR UPDATE`, id))
	return svc, wrap("lock service", id, err)
}

// saveBalance writes the derived balance fields of svc.
func saveBalance(ctx context.Context, tx pgx.Tx, svc core.ServiceOrder) error {
	_, err := tx.Exec(ctx, `
		UPDATE services SET cost = $2, amount_paid = $3, remaining_amount = $4, payment_status = $5
		WHERE id = $1`,
		svc.ID, svc.Cost, svc.AmountPaid, svc.RemainingAmount, svc.PaymentStatus,
	)
	return wrap("update service balance", svc.ID, err)
}

// CreateService stores a new service order with nothing paid yet.
func (s *Store) CreateService(ctx context.Context, svc core.ServiceOrder) (core.ServiceOrder, error) {
	svc.AmountPaid = decimal.Zero
	svc = svc.Normalize()
	out, err := scanService(s.pool.QueryRow(ctx, `
		INSERT INTO services (vehicle_id, type, description, technician, date, cost,
		                      amount_paid, remaining_amount, status, payment_status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING `+serviceColumns,
		svc.VehicleID, svc.Type, svc.Description, svc.Technician, svc.Date, svc.Cost,
		svc.AmountPaid, svc.RemainingAmount, svc.Status, svc.PaymentStatus,
	))
	if err != nil {
		return core.ServiceOrder{}, fmt.Errorf("create service for vehicle %d: %w", svc.VehicleID, classify(err))
	}
	return out, nil
}

// UpdateService edits the descriptive fields of a service and re-prices it.
// AmountPaid is never taken from svc; it only changes through payments.
func (s *Store) UpdateService(ctx context.Context, svc core.ServiceOrder) (core.ServiceOrder, error) {
	var out core.ServiceOrder
	err := s.inTx(ctx, func(tx pgx.Tx) error {
		cur, err := lockService(ctx, tx, svc.ID)
		if err != nil {
			return err
		}
		repriced, err := core.Reprice(cur, svc.Cost)
		if err != nil {
			return fmt.Errorf("update service %d: %w", svc.ID, err)
		}
		repriced.VehicleID = svc.VehicleID
		repriced.Type = svc.Type
		repriced.Description = svc.Description
		repriced.Technician = svc.Technician
		repriced.Date = svc.Date
		repriced.Status = svc.Status

		out, err = scanService(tx.QueryRow(ctx, `
			UPDATE services
			SET vehicle_id = $2, type = $3, description = $4, technician = $5, date = $6, cost = $7,
			    amount_paid = $8, remaining_amount = $9, status = $10, payment_status = $11
			WHERE id = $1
			RETURNING `+serviceColumns,
			repriced.ID, repriced.VehicleID, repriced.Type, repriced.Description, repriced.Technician,
			repriced.Date, repriced.Cost, repriced.AmountPaid, repriced.RemainingAmount,
			repriced.Status, repriced.PaymentStatus,
		))
		return wrap("update service", svc.ID, err)
	})
	return out, err
}

// DeleteService removes the service and, by cascade, its payments.
func (s *Store) DeleteService(ctx context.Context, id int) error {
	return wrap("delete service", id, expectOne(s.pool.Exec(ctx, `DELETE FROM services WHERE id = $1`, id)))
}

// RecalculateService rebuilds AmountPaid from the service's stored payments.
// It repairs balances written by older clients that skipped the derivation.
func (s *Store) RecalculateService(ctx context.Context, id int) (core.ServiceOrder, error) {
	var out core.ServiceOrder
	err := s.inTx(ctx, func(tx pgx.Tx) error {
		svc, err := lockService(ctx, tx, id)
		if err != nil {
			return err
		}
		rows, err := tx.Query(ctx, `SELECT `+paymentColumns+` FROM payments WHERE service_id = $1 ORDER BY id`, id)
		if err != nil {
			return fmt.Errorf("list payments of service %d: %w", id, err)
		}
		payments, err := collect(rows, scanPayment)
		if err != nil {
			return fmt.Errorf("scan payment: %w", err)
		}
		out, err = core.RecalculateFromPayments(svc, payments)
		if err != nil {
			return fmt.Errorf("recalculate service %d: %w", id, err)
		}
		return saveBalance(ctx, tx, out)
	})
	return out, err
}
