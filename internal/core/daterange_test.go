package core_test

import (
	"testing"
	"time"

	"garage-manager/internal/core"
)

func TestParseDateRange(t *testing.T) {
	r, err := core.ParseDateRange("", "")
	if err != nil || !r.IsUnbounded() {
		t.Fatalf("empty bounds: %+v, %v", r, err)
	}

	r, err = core.ParseDateRange("2026-01-01", "2026-01-31")
	if err != nil {
		t.Fatalf("ParseDateRange: %v", err)
	}
	if r.String() != "2026-01-01 to 2026-01-31" {
		t.Errorf("String() = %q", r.String())
	}

	if _, err := core.ParseDateRange("01/02/2026", ""); err == nil {
		t.Error("expected error for malformed from date")
	}
	if _, err := core.ParseDateRange("", "2026-13-01"); err == nil {
		t.Error("expected error for malformed to date")
	}
}

func TestDateRange_Contains(t *testing.T) {
	r := core.DateRange{From: dayPtr("2026-01-10"), To: dayPtr("2026-01-20")}

	tests := []struct {
		name string
		at   time.Time
		want bool
	}{
		{"Before range", day("2026-01-09"), false},
		{"On from bound", day("2026-01-10"), true},
		{"Inside", day("2026-01-15"), true},
		{"On to bound", day("2026-01-20"), true},
		{"Late on to bound", time.Date(2026, 1, 20, 23, 59, 59, 0, time.UTC), true},
		{"Day after", day("2026-01-21"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := r.Contains(tt.at); got != tt.want {
				t.Errorf("Contains(%s) = %v, want %v", tt.at, got, tt.want)
			}
		})
	}

	openEnded := core.DateRange{From: dayPtr("2026-01-10")}
	if !openEnded.Contains(day("2030-01-01")) {
		t.Error("range without upper bound should contain far future dates")
	}
}

func TestFilterServicesByDateRange(t *testing.T) {
	services := garageSnapshot().Services

	all := core.FilterServicesByDateRange(services, core.DateRange{})
	if len(all) != len(services) {
		t.Fatalf("unbounded filter dropped services: %d of %d", len(all), len(services))
	}
	for i := range services {
		if all[i].ID != services[i].ID {
			t.Errorf("unbounded filter reordered services at %d", i)
		}
	}

	r := core.DateRange{From: dayPtr("2026-01-20"), To: dayPtr("2026-02-10")}
	once := core.FilterServicesByDateRange(services, r)
	if len(once) != 2 || once[0].ID != 200 || once[1].ID != 101 {
		t.Fatalf("unexpected filtered services: %+v", ids(once))
	}

	twice := core.FilterServicesByDateRange(once, r)
	if len(twice) != len(once) {
		t.Errorf("filter is not idempotent: %d then %d", len(once), len(twice))
	}
}

func TestFilterPaymentsByDateRange(t *testing.T) {
	payments := garageSnapshot().Payments

	got := core.FilterPaymentsByDateRange(payments, core.DateRange{To: dayPtr("2026-01-21")})
	if len(got) != 2 || got[0].ID != 1 || got[1].ID != 2 {
		t.Errorf("unexpected payments: %+v", got)
	}
}

func ids(services []core.ServiceOrder) []int {
	out := make([]int, 0, len(services))
	for _, s := range services {
		out = append(out, s.ID)
	}
	return out
}
