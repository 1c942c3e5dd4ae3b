package store

import (
	"context"
	"fmt"

	"garage-manager/internal/core"

	"github.com/jackc/pgx/v5"
)

const customerColumns = `id, name, phone, email, address, created_at`

func scanCustomer(row pgx.Row) (core.Customer, error) {
	var c core.Customer
	err := row.Scan(&c.ID, &c.Name, &c.Phone, &c.Email, &c.Address, &c.CreatedAt)
	return c, err
}

func listCustomers(ctx context.Context, q querier) ([]core.Customer, error) {
	rows, err := q.Query(ctx, `SELECT `+customerColumns+` FROM customers ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list customers: %w", err)
	}
	customers, err := collect(rows, scanCustomer)
	if err != nil {
		return nil, fmt.Errorf("scan customer: %w", err)
	}
	return customers, nil
}

// ListCustomers returns every customer in insertion order.
func (s *Store) ListCustomers(ctx context.Context) ([]core.Customer, error) {
	return listCustomers(ctx, s.pool)
}

func (s *Store) GetCustomer(ctx context.Context, id int) (core.Customer, error) {
	c, err := scanCustomer(s.pool.QueryRow(ctx, `SELECT `+customerColumns+` FROM customers WHERE id = $1`, id))
	return c, wrap("get customer", id, err)
}

func (s *Store) CreateCustomer(ctx context.Context, c core.Customer) (core.Customer, error) {
	out, err := scanCustomer(s.pool.QueryRow(ctx, `
		INSERT INTO customers (name, phone, email, address)
		VALUES ($1, $2, $3, $4)
		RETURNING `+customerColumns,
		c.Name, c.Phone, c.Email, c.Address,
	))
	if err != nil {
		return core.Customer{}, fmt.Errorf("create customer %q: %w", c.Name, classify(err))
	}
	return out, nil
}

func (s *Store) UpdateCustomer(ctx context.Context, c core.Customer) (core.Customer, error) {
	out, err := scanCustomer(s.pool.QueryRow(ctx, `
		UPDATE customers SET name = $2, phone = $3, email = $4, address = $5
		WHERE id = $1
		RETURNING `+customerColumns,
		c.ID, c.Name, c.Phone, c.Email, c.Address,
	))
	return out, wrap("update customer", c.ID, err)
}

// DeleteCustomer removes the customer. Vehicles, their services and those
// services' payments go with it through ON DELETE CASCADE.
func (s *Store) DeleteCustomer(ctx context.Context, id int) error {
	return wrap("delete customer", id, expectOne(s.pool.Exec(ctx, `DELETE FROM customers WHERE id = $1`, id)))
}
