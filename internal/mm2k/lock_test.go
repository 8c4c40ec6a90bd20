package mm2k_test

import (
	"testing"
	"time"

	"github.com/2beens/mm2kbench/internal/mm2k"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEngine_MarkDone_FreezesRows(t *testing.T) {
	engine := mm2k.NewEngine(nil)
	athlete := newTestAthlete(t, 100, 2.5)
	rowsBefore := engine.BuildRows(athlete, 3)

	done, err := engine.MarkDone(athlete, 3, testNow)
	require.NoError(t, err)

	log := done.LogFor(3)
	assert.True(t, log.Done)
	assert.Equal(t, testNow, *log.DoneAt)
	assert.Equal(t, rowsBefore, log.LockedRows)
	assert.Equal(t, 100.0, *log.LockedRmKg)
	assert.Equal(t, 2.5, *log.LockedRounding)
	assert.Len(t, log.Sets, len(rowsBefore))

	done.WorkingRmKg = 130
	done.Rounding = 5
	assert.Equal(t, rowsBefore, engine.BuildRows(done, 3))

	// other sessions follow the new max
	assert.NotEqual(t, engine.BuildRows(athlete, 4), engine.BuildRows(done, 4))
}

func TestEngine_MarkDone_KeepsFirstSnapshot(t *testing.T) {
	engine := mm2k.NewEngine(nil)
	athlete := newTestAthlete(t, 100, 2.5)

	done, err := engine.MarkDone(athlete, 2, testNow)
	require.NoError(t, err)
	first := done.LogFor(2)

	done.WorkingRmKg = 120
	again, err := engine.MarkDone(done, 2, testNow.Add(24*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, first, again.LogFor(2))
}

func TestEngine_MarkDone_TrimsSets(t *testing.T) {
	engine := mm2k.NewEngine(nil)
	athlete := newTestAthlete(t, 100, 2.5)
	log := athlete.Log(1)
	for i := 0; i < 10; i++ {
		log.Sets = append(log.Sets, mm2k.SetLog{ActualWeightKg: 60, ActualReps: 5})
	}

	done, err := engine.MarkDone(athlete, 1, testNow)
	require.NoError(t, err)
	assert.Len(t, done.LogFor(1).Sets, 6)
	assert.Len(t, athlete.LogFor(1).Sets, 10)
}

func TestEngine_MarkDone_Errors(t *testing.T) {
	engine := mm2k.NewEngine(nil)

	_, err := engine.MarkDone(newTestAthlete(t, 100, 2.5), 15, testNow)
	assert.ErrorIs(t, err, mm2k.ErrUnknownSession)

	_, err = engine.MarkDone(mm2k.Athlete{}, 1, testNow)
	assert.ErrorIs(t, err, mm2k.ErrInvalidInput)
}

func TestEngine_MarkNotDone(t *testing.T) {
	engine := mm2k.NewEngine(nil)
	athlete := newTestAthlete(t, 100, 2.5)

	done, err := engine.MarkDone(athlete, 1, testNow)
	require.NoError(t, err)
	done.WorkingRmKg = 110

	open, err := engine.MarkNotDone(done, 1)
	require.NoError(t, err)

	log := open.LogFor(1)
	assert.False(t, log.Done)
	assert.Nil(t, log.DoneAt)
	assert.Nil(t, log.LockedRows)
	assert.Nil(t, log.LockedRmKg)
	assert.Nil(t, log.LockedRounding)

	rows := engine.BuildRows(open, 1)
	assert.Equal(t, engine.BuildRows(mm2k.Athlete{WorkingRmKg: 110, Rounding: 2.5}, 1), rows)

	// reopening an untouched session is fine
	_, err = engine.MarkNotDone(athlete, 7)
	assert.NoError(t, err)
	_, err = engine.MarkNotDone(athlete, 70)
	assert.ErrorIs(t, err, mm2k.ErrUnknownSession)
}

func TestEngine_LogSet(t *testing.T) {
	engine := mm2k.NewEngine(nil)
	athlete := newTestAthlete(t, 100, 2.5)

	updated, err := engine.LogSet(athlete, 1, 3, mm2k.SetLog{ActualWeightKg: 75, ActualReps: 8})
	require.NoError(t, err)

	sets := updated.LogFor(1).Sets
	require.Len(t, sets, 6)
	assert.Equal(t, mm2k.SetLog{ActualWeightKg: 75, ActualReps: 8}, sets[3])
	assert.Equal(t, mm2k.SetLog{}, sets[0])
	assert.Empty(t, athlete.LogFor(1).Sets)

	_, err = engine.LogSet(athlete, 1, 6, mm2k.SetLog{})
	assert.ErrorIs(t, err, mm2k.ErrInvalidInput)
	_, err = engine.LogSet(athlete, 1, -1, mm2k.SetLog{})
	assert.ErrorIs(t, err, mm2k.ErrInvalidInput)
	_, err = engine.LogSet(athlete, 1, 0, mm2k.SetLog{ActualWeightKg: -5})
	assert.ErrorIs(t, err, mm2k.ErrInvalidInput)
	_, err = engine.LogSet(athlete, 21, 0, mm2k.SetLog{})
	assert.ErrorIs(t, err, mm2k.ErrUnknownSession)

	done, err := engine.MarkDone(updated, 1, testNow)
	require.NoError(t, err)
	_, err = engine.LogSet(done, 1, 0, mm2k.SetLog{ActualWeightKg: 50, ActualReps: 5})
	assert.ErrorIs(t, err, mm2k.ErrSessionLocked)
	assert.Equal(t, mm2k.SetLog{ActualWeightKg: 75, ActualReps: 8}, done.LogFor(1).Sets[3])
}
