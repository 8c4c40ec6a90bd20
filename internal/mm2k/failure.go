package mm2k

import (
	"fmt"
	"time"
)

const (
	FTStepKg = 2.5
	// at or above goldReps the working 1RM goes up, at or below bronzeReps it goes down
	goldReps   = 8
	bronzeReps = 3
)

// Outcome grades a failure test result, shown as a star in the progress strip
type Outcome string

const (
	OutcomeNone   Outcome = "none"
	OutcomeGold   Outcome = "gold"
	OutcomeSilver Outcome = "silver"
	OutcomeBronze Outcome = "bronze"
)

func DeltaForReps(reps int) float64 {
	switch {
	case reps >= goldReps:
		return FTStepKg
	case reps <= bronzeReps:
		return -FTStepKg
	default:
		return 0
	}
}

func OutcomeForReps(reps int) Outcome {
	switch {
	case reps >= goldReps:
		return OutcomeGold
	case reps > bronzeReps:
		return OutcomeSilver
	default:
		return OutcomeBronze
	}
}

func (e *Engine) checkFailureSession(sessionID int) error {
	s, err := e.checkSession(sessionID)
	if err != nil {
		return err
	}
	if !s.HasKind(KindFailure) {
		return fmt.Errorf("session %d: %w", sessionID, ErrNotFailureSession)
	}
	return nil
}

// RecordFailureReps stores the rep count entered for the failure test, before it is confirmed
func (e *Engine) RecordFailureReps(a Athlete, sessionID, reps int) (Athlete, error) {
	if err := e.checkFailureSession(sessionID); err != nil {
		return a, err
	}
	if reps < 0 {
		return a, fmt.Errorf("reps %d: %w", reps, ErrInvalidInput)
	}
	if a.LogFor(sessionID).FtApplied {
		return a, fmt.Errorf("session %d: reps are frozen: %w", sessionID, ErrAlreadyApplied)
	}
	if a.LogFor(sessionID).Done {
		return a, fmt.Errorf("session %d: %w", sessionID, ErrSessionLocked)
	}

	out := a.Clone()
	out.Log(sessionID).FailureReps = intPtr(reps)
	return out, nil
}

// ConfirmFailure applies the failure test delta to the working 1RM and locks
// the session with the rows it had before the change. A session that is
// already done has to be reopened first. The input athlete is returned
// untouched with an error when any precondition fails.
func (e *Engine) ConfirmFailure(a Athlete, sessionID, reps int, now time.Time) (Athlete, SessionLog, error) {
	if err := e.checkFailureSession(sessionID); err != nil {
		return a, a.LogFor(sessionID), err
	}
	if reps < 0 {
		return a, a.LogFor(sessionID), fmt.Errorf("reps %d: %w", reps, ErrInvalidInput)
	}
	if a.LogFor(sessionID).FtApplied {
		return a, a.LogFor(sessionID), fmt.Errorf("session %d: %w", sessionID, ErrAlreadyApplied)
	}
	if a.LogFor(sessionID).Done {
		return a, a.LogFor(sessionID), fmt.Errorf("session %d: %w", sessionID, ErrSessionLocked)
	}
	rm := a.RmKg()
	if rm <= 0 {
		return a, a.LogFor(sessionID), fmt.Errorf("working 1RM %v: %w", a.WorkingRmKg, ErrInvalidInput)
	}

	out := a.Clone()
	rows := e.BuildRows(out, sessionID)

	delta := DeltaForReps(reps)
	out.WorkingRmKg = Round(rm+delta, FTRounding)

	l := out.Log(sessionID)
	l.FailureReps = intPtr(reps)
	l.FtApplied = true
	l.FtDelta = floatPtr(delta)
	lock(l, rows, rm, out.RoundingStep(), now)

	return out, *l.clone(), nil
}

// UndoFailure takes the failure test delta back out. The working 1RM is
// rebuilt from the baseline and the deltas still applied elsewhere, which also
// drops any manual override. The session lock is left as it is.
func (e *Engine) UndoFailure(a Athlete, sessionID int) (Athlete, error) {
	if _, err := e.checkSession(sessionID); err != nil {
		return a, err
	}
	if !a.LogFor(sessionID).FtApplied {
		return a, fmt.Errorf("session %d: %w", sessionID, ErrNothingToUndo)
	}

	out := a.Clone()
	l := out.Log(sessionID)
	l.FtApplied = false
	l.FtDelta = nil
	out.WorkingRmKg = Round(out.OneRmKg+out.appliedDeltaSumExcept(sessionID), FTRounding)
	return out, nil
}
