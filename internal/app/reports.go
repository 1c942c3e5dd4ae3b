package app

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"garage-manager/internal/cache"
	"garage-manager/internal/core"
)

// cached serves a report from the versioned cache, building it from a fresh
// snapshot on a miss. When Redis fails the report is built directly.
func cached[T any](ctx context.Context, s *appService, build func(*core.Snapshot) (T, error), keyParts ...string) (*T, error) {
	var (
		fresh  T
		loaded bool
	)
	load := func(ctx context.Context) (T, error) {
		snap, err := s.store.LoadSnapshot(ctx)
		if err != nil {
			var zero T
			return zero, err
		}
		out, err := build(snap)
		if err == nil {
			fresh, loaded = out, true
		}
		return out, err
	}

	key, err := s.cache.Key(ctx, keyParts...)
	if err != nil {
		s.logger.Warn("report cache unavailable", "key", keyParts, "error", err)
		out, err := load(ctx)
		if err != nil {
			return nil, err
		}
		return &out, nil
	}
	out, err := cache.FetchJSON(ctx, s.cache, key, load)
	if errors.Is(err, cache.ErrUnavailable) {
		s.logger.Warn("report cache unavailable", "key", key, "error", err)
		if loaded {
			return &fresh, nil
		}
		if out, err = load(ctx); err != nil {
			return nil, err
		}
		return &out, nil
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func parseRange(from, to string) (core.DateRange, error) {
	r, err := core.ParseDateRange(from, to)
	if err != nil {
		return r, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	return r, nil
}

func (s *appService) VehicleReport(ctx context.Context, vehicleID int, from, to string) (*core.VehicleReport, error) {
	r, err := parseRange(from, to)
	if err != nil {
		return nil, err
	}
	return cached(ctx, s, func(snap *core.Snapshot) (core.VehicleReport, error) {
		v, ok := snap.Vehicle(vehicleID)
		if !ok {
			return core.VehicleReport{}, fmt.Errorf("vehicle %d: %w", vehicleID, ErrNotFound)
		}
		return snap.VehicleReport(v, r), nil
	}, "vehicle", strconv.Itoa(vehicleID), from, to)
}

func (s *appService) CustomerReport(ctx context.Context, customerID int, from, to string) (*core.CustomerReport, error) {
	r, err := parseRange(from, to)
	if err != nil {
		return nil, err
	}
	return cached(ctx, s, func(snap *core.Snapshot) (core.CustomerReport, error) {
		c, ok := snap.Customer(customerID)
		if !ok {
			return core.CustomerReport{}, fmt.Errorf("customer %d: %w", customerID, ErrNotFound)
		}
		return snap.CustomerReport(c, r), nil
	}, "customer", strconv.Itoa(customerID), from, to)
}

func (s *appService) FinancialReport(ctx context.Context, kind, from, to string) (*core.FinancialReport, error) {
	k, err := core.ParseFinancialKind(kind)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	r, err := parseRange(from, to)
	if err != nil {
		return nil, err
	}
	return cached(ctx, s, func(snap *core.Snapshot) (core.FinancialReport, error) {
		return snap.FinancialReport(k, r), nil
	}, "financial", string(k), from, to)
}

func (s *appService) RevenueReport(ctx context.Context, kind, from, to string) (*core.RevenueReport, error) {
	k, err := core.ParseRevenueKind(kind)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	r, err := parseRange(from, to)
	if err != nil {
		return nil, err
	}
	return cached(ctx, s, func(snap *core.Snapshot) (core.RevenueReport, error) {
		return snap.RevenueReport(k, r), nil
	}, "revenue", string(k), from, to)
}

func (s *appService) Dashboard(ctx context.Context, from, to string) (*core.Dashboard, error) {
	r, err := parseRange(from, to)
	if err != nil {
		return nil, err
	}
	return cached(ctx, s, func(snap *core.Snapshot) (core.Dashboard, error) {
		return snap.Dashboard(r), nil
	}, "dashboard", from, to)
}

func (s *appService) InvoiceDocument(ctx context.Context, serviceID int) (*core.InvoiceDocument, error) {
	return cached(ctx, s, func(snap *core.Snapshot) (core.InvoiceDocument, error) {
		svc, ok := snap.Service(serviceID)
		if !ok {
			return core.InvoiceDocument{}, fmt.Errorf("service %d: %w", serviceID, ErrNotFound)
		}
		return snap.InvoiceDocument(svc), nil
	}, "invoice", strconv.Itoa(serviceID))
}

func (s *appService) ReceiptDocument(ctx context.Context, paymentID int) (*core.ReceiptDocument, error) {
	return cached(ctx, s, func(snap *core.Snapshot) (core.ReceiptDocument, error) {
		p, ok := snap.Payment(paymentID)
		if !ok {
			return core.ReceiptDocument{}, fmt.Errorf("payment %d: %w", paymentID, ErrNotFound)
		}
		return snap.ReceiptDocument(p), nil
	}, "receipt", strconv.Itoa(paymentID))
}

func (s *appService) SupplierBalance(ctx context.Context, id int) (*core.SupplierBalance, error) {
	return cached(ctx, s, func(snap *core.Snapshot) (core.SupplierBalance, error) {
		if _, ok := snap.Supplier(id); !ok {
			return core.SupplierBalance{}, fmt.Errorf("supplier %d: %w", id, ErrNotFound)
		}
		return snap.SupplierBalance(id), nil
	}, "supplier", strconv.Itoa(id))
}
