package mm2k

import (
	"fmt"
	"math"
)

const (
	DefaultRounding = 2.5
	// FTRounding is the step the working 1RM snaps to after a failure test change
	FTRounding = 0.5
)

// AllowedRounding lists the plate increments an athlete can pick from
var AllowedRounding = []float64{0.5, 1, 1.25, 2, 2.5, 5}

// Round returns the multiple of step nearest to value, ties away from zero.
// A non-finite value counts as 0, and a step that is not positive falls back to DefaultRounding.
func Round(value, step float64) float64 {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		value = 0
	}
	if !(step > 0) || math.IsInf(step, 0) {
		step = DefaultRounding
	}
	rounded := math.Round(value/step) * step
	// strip float noise, so 0.1-ish steps give stable output
	rounded = math.Round(rounded*1e6) / 1e6
	if rounded == 0 {
		// avoid -0 in output
		return 0
	}
	return rounded
}

func ValidRounding(step float64) bool {
	for _, s := range AllowedRounding {
		if s == step {
			return true
		}
	}
	return false
}

func ValidateRounding(step float64) error {
	if !ValidRounding(step) {
		return fmt.Errorf("rounding %v not in %v: %w", step, AllowedRounding, ErrInvalidInput)
	}
	return nil
}

// stepOrDefault is the rounding the builder uses for an athlete
func stepOrDefault(step float64) float64 {
	if !(step > 0) || math.IsInf(step, 0) {
		return DefaultRounding
	}
	return step
}
