package mm2k

import (
	"fmt"
	"math"
	"time"
)

// MarkDone locks a session: the rows shown right now are frozen and later
// working 1RM changes no longer move them. Marking a done session again keeps
// its first snapshot.
func (e *Engine) MarkDone(a Athlete, sessionID int, now time.Time) (Athlete, error) {
	if _, err := e.checkSession(sessionID); err != nil {
		return a, err
	}
	if l := a.LogFor(sessionID); l.Done && len(l.LockedRows) > 0 {
		return a.Clone(), nil
	}

	out := a.Clone()
	rows := e.liveRows(out, sessionID)
	if len(rows) == 0 {
		return a, fmt.Errorf("session %d has nothing to lock, 1RM %v: %w", sessionID, a.WorkingRmKg, ErrInvalidInput)
	}
	lock(out.Log(sessionID), rows, out.RmKg(), out.RoundingStep(), now)
	return out, nil
}

// MarkNotDone reopens a session, it is computed live again from then on
func (e *Engine) MarkNotDone(a Athlete, sessionID int) (Athlete, error) {
	if _, err := e.checkSession(sessionID); err != nil {
		return a, err
	}

	out := a.Clone()
	l, ok := out.Logs[sessionID]
	if !ok || l == nil {
		return out, nil
	}
	l.Done = false
	l.DoneAt = nil
	l.LockedRows = nil
	l.LockedRmKg = nil
	l.LockedRounding = nil
	return out, nil
}

// LogSet records what was actually lifted for one row of an open session
func (e *Engine) LogSet(a Athlete, sessionID, rowIndex int, set SetLog) (Athlete, error) {
	if _, err := e.checkSession(sessionID); err != nil {
		return a, err
	}
	if a.LogFor(sessionID).Done {
		return a, fmt.Errorf("session %d: %w", sessionID, ErrSessionLocked)
	}
	if !validAmount(set.ActualWeightKg) || !validAmount(set.ActualReps) {
		return a, fmt.Errorf("set %+v: %w", set, ErrInvalidInput)
	}

	rows := e.BuildRows(a, sessionID)
	if rowIndex < 0 || rowIndex >= len(rows) {
		return a, fmt.Errorf("row %d of %d: %w", rowIndex, len(rows), ErrInvalidInput)
	}

	out := a.Clone()
	l := out.Log(sessionID)
	for len(l.Sets) < len(rows) {
		l.Sets = append(l.Sets, SetLog{})
	}
	l.Sets[rowIndex] = set
	return out, nil
}

func validAmount(v float64) bool {
	return v >= 0 && !math.IsInf(v, 0)
}

func lock(l *SessionLog, rows []DisplayRow, rm, step float64, now time.Time) {
	doneAt := now.UTC()
	l.Done = true
	l.DoneAt = &doneAt
	l.LockedRows = append([]DisplayRow{}, rows...)
	l.LockedRmKg = floatPtr(rm)
	l.LockedRounding = floatPtr(step)

	// sets stay index aligned with the frozen rows
	switch {
	case len(l.Sets) > len(rows):
		l.Sets = l.Sets[:len(rows)]
	case len(l.Sets) < len(rows):
		for len(l.Sets) < len(rows) {
			l.Sets = append(l.Sets, SetLog{})
		}
	}
}
