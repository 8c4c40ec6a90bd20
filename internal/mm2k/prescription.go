package mm2k

import (
	"encoding/json"
	"fmt"
)

const (
	heavyWarmupThreshold = 0.85
)

type warmupStep struct {
	intensity float64
	reps      int
}

var (
	warmupScheme = []warmupStep{
		{intensity: 0.50, reps: 5},
		{intensity: 0.60, reps: 3},
		{intensity: 0.70, reps: 2},
	}
	// added only when the heaviest primary row goes above heavyWarmupThreshold
	heavyWarmup = warmupStep{intensity: 0.80, reps: 1}
)

// DisplayRow is one prescribed set as shown to the athlete
type DisplayRow struct {
	Label    string  `json:"label"`
	Reps     Reps    `json:"reps"`
	TargetKg float64 `json:"targetKg"`
	Kind     Kind    `json:"kind"`
}

func (r *DisplayRow) UnmarshalJSON(data []byte) error {
	var aux struct {
		Label    string          `json:"label"`
		Reps     Reps            `json:"reps"`
		TargetKg json.RawMessage `json:"targetKg"`
		Kind     Kind            `json:"kind"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	*r = DisplayRow{Label: aux.Label, Reps: aux.Reps, Kind: aux.Kind}
	r.TargetKg, _ = lenientFloat(aux.TargetKg)
	return nil
}

type Engine struct {
	program *Program
	warmups bool
}

type EngineOption func(*Engine)

// WithoutWarmups makes BuildRows return only the primary rows
func WithoutWarmups() EngineOption {
	return func(e *Engine) {
		e.warmups = false
	}
}

// NewEngine creates the engine over a program, nil means DefaultProgram
func NewEngine(program *Program, opts ...EngineOption) *Engine {
	if program == nil {
		program = DefaultProgram()
	}
	e := &Engine{
		program: program,
		warmups: true,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *Engine) Program() *Program {
	return e.program
}

func (e *Engine) checkSession(sessionID int) (Session, error) {
	s, ok := e.program.Session(sessionID)
	if !ok {
		return Session{}, fmt.Errorf("session %d: %w", sessionID, ErrUnknownSession)
	}
	return s, nil
}

// BuildRows gives the rows for a session. A done session always answers
// with its locked snapshot, everything else is computed from the current working 1RM.
func (e *Engine) BuildRows(a Athlete, sessionID int) []DisplayRow {
	if l, ok := a.Logs[sessionID]; ok && l != nil && l.Done && len(l.LockedRows) > 0 {
		return append([]DisplayRow{}, l.LockedRows...)
	}
	return e.liveRows(a, sessionID)
}

func (e *Engine) liveRows(a Athlete, sessionID int) []DisplayRow {
	primary := e.PrimaryRows(a, sessionID)
	if !e.warmups || len(primary) == 0 {
		return primary
	}
	return injectWarmups(a.RmKg(), a.RoundingStep(), primary)
}

// PrimaryRows gives the program blocks of a session as rows, no warm-ups, no lock lookup
func (e *Engine) PrimaryRows(a Athlete, sessionID int) []DisplayRow {
	rm := a.RmKg()
	blocks := e.program.BlocksFor(sessionID)
	if rm <= 0 || len(blocks) == 0 {
		return nil
	}

	step := a.RoundingStep()
	rows := make([]DisplayRow, 0, len(blocks))
	for i, b := range blocks {
		rows = append(rows, DisplayRow{
			Label:    blockLabel(b.Kind, i+1),
			Reps:     b.Reps,
			TargetKg: Round(rm*b.Intensity, step),
			Kind:     b.Kind,
		})
	}
	return rows
}

func blockLabel(kind Kind, n int) string {
	switch kind {
	case KindFailure:
		return "Failure Test"
	case KindNegative:
		return "Negative 1×1"
	case KindMax:
		return "Max Test 1×1"
	default:
		return fmt.Sprintf("Block %d", n)
	}
}

func injectWarmups(rm, step float64, primary []DisplayRow) []DisplayRow {
	var top float64
	for _, r := range primary {
		if r.TargetKg > top {
			top = r.TargetKg
		}
	}

	scheme := warmupScheme
	if top > heavyWarmupThreshold*rm {
		scheme = append(append([]warmupStep{}, warmupScheme...), heavyWarmup)
	}

	var warmups []DisplayRow
	for _, w := range scheme {
		kg := Round(rm*w.intensity, step)
		reps := RepsOf(w.reps)
		if kg <= 0 || containsRow(primary, kg, reps) || containsRow(warmups, kg, reps) {
			continue
		}
		warmups = append(warmups, DisplayRow{
			Label:    fmt.Sprintf("Warm-up %d", len(warmups)+1),
			Reps:     reps,
			TargetKg: kg,
			Kind:     KindWarmup,
		})
	}
	return append(warmups, primary...)
}

func containsRow(rows []DisplayRow, kg float64, reps Reps) bool {
	for _, r := range rows {
		if r.TargetKg == kg && r.Reps == reps {
			return true
		}
	}
	return false
}
