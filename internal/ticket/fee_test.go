package ticket

import (
	"testing"
	"time"
)

func TestComputeBoundaries(t *testing.T) {
	entry := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)

	cases := []struct {
		name       string
		stay       time.Duration
		increments float64
		charge     float64
	}{
		{"zero", 0, 0, 0},
		{"one minute", time.Minute, 1, 2.5},
		{"half minute", 30 * time.Second, 0, 0},
		{"exactly fifteen", 15 * time.Minute, 1, 2.5},
		{"just over fifteen", 15*time.Minute + 6*time.Millisecond, 1, 2.5},
		{"sixteen", 16 * time.Minute, 2, 5.0},
		{"thirty", 30 * time.Minute, 2, 5.0},
		{"thirty one", 31 * time.Minute, 3, 7.5},
		{"two hours", 2 * time.Hour, 8, 20.0},
		{"clock skew", -20 * time.Minute, -1, -2.5},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			fee := DefaultFees.Compute(entry, entry.Add(tc.stay))
			if fee.Increments != tc.increments {
				t.Errorf("increments = %v, want %v", fee.Increments, tc.increments)
			}
			if fee.Charge != tc.charge {
				t.Errorf("charge = %v, want %v", fee.Charge, tc.charge)
			}
		})
	}
}

func TestComputeMonotonic(t *testing.T) {
	entry := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	prev := DefaultFees.Compute(entry, entry).Charge

	for s := 0; s <= 6*60*60; s += 7 {
		fee := DefaultFees.Compute(entry, entry.Add(time.Duration(s)*time.Second))
		if fee.Charge < prev {
			t.Fatalf("charge dropped at %ds: %v < %v", s, fee.Charge, prev)
		}
		prev = fee.Charge
	}
}

func TestComputeCustomSchedule(t *testing.T) {
	hourly := FeeSchedule{IncrementMinutes: 60, Rate: 4}
	entry := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)

	fee := hourly.Compute(entry, entry.Add(61*time.Minute))
	if fee.Charge != 8 {
		t.Fatalf("charge = %v, want 8", fee.Charge)
	}
}

func TestRoundMinutes(t *testing.T) {
	if got := RoundMinutes(15.00016666); got != 15.0 {
		t.Errorf("RoundMinutes = %v, want 15", got)
	}
	if got := RoundMinutes(42.1789); got != 42.18 {
		t.Errorf("RoundMinutes = %v, want 42.18", got)
	}
}
