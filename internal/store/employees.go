package store

import (
	"context"
	"fmt"

	"garage-manager/internal/core"

	"github.com/jackc/pgx/v5"
)

const employeeColumns = `id, name, position, phone, email, salary, hire_date, status`

func scanEmployee(row pgx.Row) (core.Employee, error) {
	var e core.Employee
	err := row.Scan(&e.ID, &e.Name, &e.Position, &e.Phone, &e.Email, &e.Salary, &e.HireDate, &e.Status)
	return e, err
}

func listEmployees(ctx context.Context, q querier) ([]core.Employee, error) {
	rows, err := q.Query(ctx, `SELECT `+employeeColumns+` FROM employees ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list employees: %w", err)
	}
	employees, err := collect(rows, scanEmployee)
	if err != nil {
		return nil, fmt.Errorf("scan employee: %w", err)
	}
	return employees, nil
}

func (s *Store) ListEmployees(ctx context.Context) ([]core.Employee, error) {
	return listEmployees(ctx, s.pool)
}

func (s *Store) GetEmployee(ctx context.Context, id int) (core.Employee, error) {
	e, err := scanEmployee(s.pool.QueryRow(ctx, `SELECT `+employeeColumns+` FROM employees WHERE id = $1`, id))
	return e, wrap("get employee", id, err)
}

func (s *Store) CreateEmployee(ctx context.Context, e core.Employee) (core.Employee, error) {
	if e.Status == "" {
		e.Status = core.EmployeeActive
	}
	out, err := scanEmployee(s.pool.QueryRow(ctx, `
		INSERT INTO employees (name, position, phone, email, salary, hire_date, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING `+employeeColumns,
		e.Name, e.Position, e.Phone, e.Email, e.Salary, e.HireDate, e.Status,
	))
	if err != nil {
		return core.Employee{}, fmt.Errorf("create employee %q: %w", e.Name, classify(err))
	}
	return out, nil
}

func (s *Store) UpdateEmployee(ctx context.Context, e core.Employee) (core.Employee, error) {
	out, err := scanEmployee(s.pool.QueryRow(ctx, `
		UPDATE employees
		SET name = $2, position = $3, phone = $4, email = $5, salary = $6, hire_date = $7, status = $8
		WHERE id = $1
		RETURNING `+employeeColumns,
		e.ID, e.Name, e.Position, e.Phone, e.Email, e.Salary, e.HireDate, e.Status,
	))
	return out, wrap("update employee", e.ID, err)
}

// ArchiveEmployee marks an employee archived; archived staff stay in the
// table so historical technician names keep resolving.
func (s *Store) ArchiveEmployee(ctx context.Context, id int) error {
	return wrap("archive employee", id, expectOne(s.pool.Exec(ctx,
		`UPDATE employees SET status = $2 WHERE id = $1`, id, core.EmployeeArchived)))
}

func (s *Store) DeleteEmployee(ctx context.Context, id int) error {
	return wrap("delete employee", id, expectOne(s.pool.Exec(ctx, `DELETE FROM employees WHERE id = $1`, id)))
}
