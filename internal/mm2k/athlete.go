package mm2k

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"
)

const StartDateLayout = "2006-01-02"

type SetLog struct {
	ActualWeightKg float64 `json:"actualWeightKg"`
	ActualReps     float64 `json:"actualReps"`
}

func (s *SetLog) UnmarshalJSON(data []byte) error {
	var aux struct {
		ActualWeightKg json.RawMessage `json:"actualWeightKg"`
		ActualReps     json.RawMessage `json:"actualReps"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		// a set entry that is not an object decodes as empty
		*s = SetLog{}
		return nil
	}
	s.ActualWeightKg, _ = lenientFloat(aux.ActualWeightKg)
	s.ActualReps, _ = lenientFloat(aux.ActualReps)
	return nil
}

// SessionLog is the per session state of one athlete.
// Done implies a non empty LockedRows snapshot.
type SessionLog struct {
	Sets           []SetLog     `json:"sets"`
	FailureReps    *int         `json:"failureReps,omitempty"`
	FtApplied      bool         `json:"ftApplied"`
	FtDelta        *float64     `json:"ftDelta,omitempty"`
	Done           bool         `json:"done"`
	DoneAt         *time.Time   `json:"doneAt,omitempty"`
	LockedRows     []DisplayRow `json:"lockedRows,omitempty"`
	LockedRmKg     *float64     `json:"lockedRmKg,omitempty"`
	LockedRounding *float64     `json:"lockedRounding,omitempty"`
}

func (l *SessionLog) UnmarshalJSON(data []byte) error {
	var aux struct {
		Sets           json.RawMessage `json:"sets"`
		FailureReps    json.RawMessage `json:"failureReps"`
		FtApplied      json.RawMessage `json:"ftApplied"`
		FtDelta        json.RawMessage `json:"ftDelta"`
		Done           json.RawMessage `json:"done"`
		DoneAt         json.RawMessage `json:"doneAt"`
		LockedRows     json.RawMessage `json:"lockedRows"`
		LockedRmKg     json.RawMessage `json:"lockedRmKg"`
		LockedRounding json.RawMessage `json:"lockedRounding"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		// a log entry that is not an object decodes as the default log
		*l = SessionLog{Sets: []SetLog{}}
		return nil
	}

	*l = SessionLog{
		Sets:      []SetLog{},
		FtApplied: lenientBool(aux.FtApplied),
		Done:      lenientBool(aux.Done),
		DoneAt:    lenientTime(aux.DoneAt),
	}
	for _, rawSet := range lenientArray(aux.Sets) {
		var set SetLog
		_ = json.Unmarshal(rawSet, &set)
		l.Sets = append(l.Sets, set)
	}
	if reps, ok := lenientFloat(aux.FailureReps); ok && reps >= 0 {
		l.FailureReps = intPtr(int(reps))
	}
	if delta, ok := lenientFloat(aux.FtDelta); ok && l.FtApplied {
		l.FtDelta = floatPtr(delta)
	}
	if l.FtApplied && l.FtDelta == nil {
		l.FtDelta = floatPtr(0)
	}
	if rm, ok := lenientFloat(aux.LockedRmKg); ok {
		l.LockedRmKg = floatPtr(rm)
	}
	if step, ok := lenientFloat(aux.LockedRounding); ok {
		l.LockedRounding = floatPtr(step)
	}
	for _, rawRow := range lenientArray(aux.LockedRows) {
		var row DisplayRow
		if err := json.Unmarshal(rawRow, &row); err != nil {
			continue
		}
		l.LockedRows = append(l.LockedRows, row)
	}
	return nil
}

func (l *SessionLog) clone() *SessionLog {
	if l == nil {
		return nil
	}
	c := *l
	c.Sets = append([]SetLog{}, l.Sets...)
	if l.FailureReps != nil {
		c.FailureReps = intPtr(*l.FailureReps)
	}
	if l.FtDelta != nil {
		c.FtDelta = floatPtr(*l.FtDelta)
	}
	if l.DoneAt != nil {
		t := *l.DoneAt
		c.DoneAt = &t
	}
	if l.LockedRows != nil {
		c.LockedRows = append([]DisplayRow{}, l.LockedRows...)
	}
	if l.LockedRmKg != nil {
		c.LockedRmKg = floatPtr(*l.LockedRmKg)
	}
	if l.LockedRounding != nil {
		c.LockedRounding = floatPtr(*l.LockedRounding)
	}
	return &c
}

func (l *SessionLog) appliedDelta() float64 {
	if l == nil || !l.FtApplied || l.FtDelta == nil {
		return 0
	}
	return *l.FtDelta
}

type Athlete struct {
	ID          string              `json:"id"`
	Name        string              `json:"name"`
	StartDate   string              `json:"startDate"`
	OneRmKg     float64             `json:"oneRmKg"`
	WorkingRmKg float64             `json:"workingRmKg"`
	Rounding    float64             `json:"rounding"`
	Notes       string              `json:"notes"`
	Logs        map[int]*SessionLog `json:"logs"`
}

// NewAthlete starts an athlete on the program: working 1RM equals the
// baseline and no session has been touched yet
func NewAthlete(id, name string, oneRmKg, rounding float64, startDate time.Time) (Athlete, error) {
	name = strings.TrimSpace(name)
	if id == "" || name == "" {
		return Athlete{}, fmt.Errorf("athlete id and name required: %w", ErrInvalidInput)
	}
	if !(oneRmKg > 0) || math.IsInf(oneRmKg, 0) {
		return Athlete{}, fmt.Errorf("1RM %v: %w", oneRmKg, ErrInvalidInput)
	}
	if err := ValidateRounding(rounding); err != nil {
		return Athlete{}, err
	}
	return Athlete{
		ID:          id,
		Name:        name,
		StartDate:   startDate.Format(StartDateLayout),
		OneRmKg:     oneRmKg,
		WorkingRmKg: oneRmKg,
		Rounding:    rounding,
		Logs:        make(map[int]*SessionLog),
	}, nil
}

func (a *Athlete) UnmarshalJSON(data []byte) error {
	var aux struct {
		ID          json.RawMessage `json:"id"`
		Name        json.RawMessage `json:"name"`
		StartDate   json.RawMessage `json:"startDate"`
		OneRmKg     json.RawMessage `json:"oneRmKg"`
		WorkingRmKg json.RawMessage `json:"workingRmKg"`
		Rounding    json.RawMessage `json:"rounding"`
		Notes       json.RawMessage `json:"notes"`
		Logs        json.RawMessage `json:"logs"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return fmt.Errorf("athlete: %w", err)
	}

	*a = Athlete{
		ID:        lenientString(aux.ID),
		Name:      lenientString(aux.Name),
		StartDate: lenientString(aux.StartDate),
		Notes:     lenientString(aux.Notes),
		Logs:      make(map[int]*SessionLog),
	}
	a.OneRmKg, _ = lenientFloat(aux.OneRmKg)
	a.WorkingRmKg, _ = lenientFloat(aux.WorkingRmKg)
	a.Rounding, _ = lenientFloat(aux.Rounding)

	// logs that are not an object keyed by session id decode as empty
	var logs map[string]json.RawMessage
	_ = json.Unmarshal(aux.Logs, &logs)
	for key, raw := range logs {
		sid, err := strconv.Atoi(strings.TrimSpace(key))
		if err != nil || sid < 1 || bytes.Equal(bytes.TrimSpace(raw), jsonNull) {
			continue
		}
		var l SessionLog
		if err := json.Unmarshal(raw, &l); err != nil {
			continue
		}
		a.Logs[sid] = &l
	}
	return nil
}

// Clone deep copies the athlete, engine operations never touch their input
func (a Athlete) Clone() Athlete {
	c := a
	c.Logs = make(map[int]*SessionLog, len(a.Logs))
	for sid, l := range a.Logs {
		if l == nil {
			continue
		}
		c.Logs[sid] = l.clone()
	}
	return c
}

// Log returns the log for a session, creating the default one on first use
func (a *Athlete) Log(sessionID int) *SessionLog {
	if a.Logs == nil {
		a.Logs = make(map[int]*SessionLog)
	}
	l, ok := a.Logs[sessionID]
	if !ok || l == nil {
		l = &SessionLog{Sets: []SetLog{}}
		a.Logs[sessionID] = l
	}
	return l
}

// LogFor is the read only view of a session log, the zero log when none exists
func (a Athlete) LogFor(sessionID int) SessionLog {
	if l, ok := a.Logs[sessionID]; ok && l != nil {
		return *l.clone()
	}
	return SessionLog{Sets: []SetLog{}}
}

// RmKg is the max all prescription math works from
func (a Athlete) RmKg() float64 {
	if a.WorkingRmKg > 0 && !math.IsInf(a.WorkingRmKg, 0) {
		return a.WorkingRmKg
	}
	if a.OneRmKg > 0 && !math.IsInf(a.OneRmKg, 0) {
		return a.OneRmKg
	}
	return 0
}

func (a Athlete) RoundingStep() float64 {
	return stepOrDefault(a.Rounding)
}

// AppliedDeltaSum sums ftDelta over every session with the delta applied
func (a Athlete) AppliedDeltaSum() float64 {
	return a.appliedDeltaSumExcept(0)
}

func (a Athlete) appliedDeltaSumExcept(skipSessionID int) float64 {
	ids := make([]int, 0, len(a.Logs))
	for sid := range a.Logs {
		ids = append(ids, sid)
	}
	// fixed order keeps the float sum reproducible
	sort.Ints(ids)
	var sum float64
	for _, sid := range ids {
		if sid == skipSessionID {
			continue
		}
		sum += a.Logs[sid].appliedDelta()
	}
	return sum
}

// RecomputeWorkingRm drops any manual override and puts the working 1RM
// back to the baseline plus all applied failure test deltas
func (a *Athlete) RecomputeWorkingRm() {
	a.WorkingRmKg = Round(a.OneRmKg+a.AppliedDeltaSum(), FTRounding)
}
