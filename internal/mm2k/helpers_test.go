package mm2k_test

import (
	"testing"
	"time"

	"github.com/2beens/mm2kbench/internal/mm2k"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2025, 3, 14, 18, 30, 0, 0, time.UTC)

func newTestAthlete(t *testing.T, oneRm, rounding float64) mm2k.Athlete {
	t.Helper()
	a, err := mm2k.NewAthlete(gofakeit.UUID(), gofakeit.FirstName(), oneRm, rounding, testNow)
	require.NoError(t, err)
	return a
}

func row(label string, reps mm2k.Reps, kg float64, kind mm2k.Kind) mm2k.DisplayRow {
	return mm2k.DisplayRow{Label: label, Reps: reps, TargetKg: kg, Kind: kind}
}
