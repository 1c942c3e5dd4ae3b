package store

import (
	"context"
	"fmt"

	"garage-manager/internal/core"

	"github.com/jackc/pgx/v5"
)

const vehicleColumns = `id, customer_id, make, model, year, license_plate, status`

func scanVehicle(row pgx.Row) (core.Vehicle, error) {
	var v core.Vehicle
	err := row.Scan(&v.ID, &v.CustomerID, &v.Make, &v.Model, &v.Year, &v.LicensePlate, &v.Status)
	return v, err
}

func listVehicles(ctx context.Context, q querier) ([]core.Vehicle, error) {
	rows, err := q.Query(ctx, `SELECT `+vehicleColumns+` FROM vehicles ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list vehicles: %w", err)
	}
	vehicles, err := collect(rows, scanVehicle)
	if err != nil {
		return nil, fmt.Errorf("scan vehicle: %w", err)
	}
	return vehicles, nil
}

func (s *Store) ListVehicles(ctx context.Context) ([]core.Vehicle, error) {
	return listVehicles(ctx, s.pool)
}

func (s *Store) GetVehicle(ctx context.Context, id int) (core.Vehicle, error) {
	v, err := scanVehicle(s.pool.QueryRow(ctx, `SELECT `+vehicleColumns+` FROM vehicles WHERE id = $1`, id))
	return v, wrap("get vehicle", id, err)
}

func (s *Store) CreateVehicle(ctx context.Context, v core.Vehicle) (core.Vehicle, error) {
	out, err := scanVehicle(s.pool.QueryRow(ctx, `
		INSERT INTO vehicles (customer_id, make, model, year, license_plate, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+vehicleColumns,
		v.CustomerID, v.Make, v.Model, v.Year, v.LicensePlate, v.Status,
	))
	if err != nil {
		return core.Vehicle{}, fmt.Errorf("create vehicle %q: %w", v.LicensePlate, classify(err))
	}
	return out, nil
}

func (s *Store) UpdateVehicle(ctx context.Context, v core.Vehicle) (core.Vehicle, error) {
	out, err := scanVehicle(s.pool.QueryRow(ctx, `
		UPDATE vehicles
		SET customer_id = $2, make = $3, model = $4, year = $5, license_plate = $6, status = $7
		WHERE id = $1
		RETURNING `+vehicleColumns,
		v.ID, v.CustomerID, v.Make, v.Model, v.Year, v.LicensePlate, v.Status,
	))
	return out, wrap("update vehicle", v.ID, err)
}

// DeleteVehicle removes the vehicle together with its services and payments.
func (s *Store) DeleteVehicle(ctx context.Context, id int) error {
	return wrap("delete vehicle", id, expectOne(s.pool.Exec(ctx, `DELETE FROM vehicles WHERE id = $1`, id)))
}
