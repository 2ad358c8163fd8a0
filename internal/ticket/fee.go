package ticket

import (
	"math"
	"time"
)

// FeeSchedule charges a flat Rate for every started billing increment.
type FeeSchedule struct {
	IncrementMinutes float64
	Rate             float64
}

// DefaultFees is 2.5 per 15 minute block.
var DefaultFees = FeeSchedule{IncrementMinutes: 15, Rate: 2.5}

type Fee struct {
	ElapsedMinutes float64
	Increments     float64
	Charge         float64
}

// Compute bills the stay from entry to exit.
//
// increments = floor((minutes + inc - 1) / inc). With the default schedule
// that is floor((minutes + 14) / 15): 0 minutes is free, exactly 15 is one
// block, and the second block starts at 16. Elapsed time is not clamped, so a
// skewed clock yields a negative stay and a negative charge.
func (s FeeSchedule) Compute(entry, exit time.Time) Fee {
	minutes := exit.Sub(entry).Seconds() / 60
	increments := math.Floor((minutes + s.IncrementMinutes - 1) / s.IncrementMinutes)
	return Fee{
		ElapsedMinutes: minutes,
		Increments:     increments,
		Charge:         increments * s.Rate,
	}
}

// RoundMinutes rounds to two decimals for display.
func RoundMinutes(m float64) float64 {
	return math.Round(m*100) / 100
}
