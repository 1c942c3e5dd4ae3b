package store

import (
	"context"
	"fmt"

	"garage-manager/internal/core"

	"github.com/jackc/pgx/v5"
	"golang.org/x/sync/errgroup"
)

// LoadSnapshot reads every collection and returns them as one engine
// snapshot. The reads share a REPEATABLE READ transaction so the collections
// are mutually consistent; they run one after another on that connection.
// Use LoadSnapshotParallel when consistency across tables matters less than
// latency.
func (s *Store) LoadSnapshot(ctx context.Context) (*core.Snapshot, error) {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.RepeatableRead, AccessMode: pgx.ReadOnly})
	if err != nil {
		return nil, fmt.Errorf("begin snapshot: %w", err)
	}
	defer tx.Rollback(ctx)

	snap := &core.Snapshot{}
	if err := loadInto(ctx, tx, snap, nil); err != nil {
		return nil, err
	}
	return snap, nil
}

// LoadSnapshotParallel reads the collections concurrently on separate pool
// connections.
func (s *Store) LoadSnapshotParallel(ctx context.Context) (*core.Snapshot, error) {
	g, gctx := errgroup.WithContext(ctx)
	snap := &core.Snapshot{}
	if err := loadInto(gctx, s.pool, snap, g); err != nil {
		return nil, err
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return snap, nil
}

// loadInto fills snap from q. With a non-nil group each collection is loaded
// in its own goroutine; every goroutine writes a distinct field.
func loadInto(ctx context.Context, q querier, snap *core.Snapshot, g *errgroup.Group) error {
	loaders := []func() error{
		func() (err error) { snap.Customers, err = listCustomers(ctx, q); return },
		func() (err error) { snap.Vehicles, err = listVehicles(ctx, q); return },
		func() (err error) { snap.Services, err = listServices(ctx, q); return },
		func() (err error) { snap.Payments, err = listPayments(ctx, q); return },
		func() (err error) { snap.Suppliers, err = listSuppliers(ctx, q); return },
		func() (err error) { snap.PurchaseInvoices, err = listPurchaseInvoices(ctx, q); return },
		func() (err error) { snap.PurchasePayments, err = listPurchasePayments(ctx, q); return },
		func() (err error) { snap.Employees, err = listEmployees(ctx, q); return },
	}
	for _, load := range loaders {
		if g != nil {
			g.Go(load)
			continue
		}
		if err := load(); err != nil {
			return fmt.Errorf("load snapshot: %w", err)
		}
	}
	return nil
}
