package mm2k

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

const (
	SessionsCount = 14
	ftSentinel    = "FT"
)

// Kind tags a prescribed block (and the display row built from it)
type Kind string

const (
	KindWork     Kind = "work"
	KindSingle   Kind = "single"
	KindNegative Kind = "negative"
	KindFailure  Kind = "failure"
	KindMax      Kind = "max"
	KindWarmup   Kind = "warmup"
)

func (k Kind) String() string {
	return string(k)
}

func (k Kind) IsValid() bool {
	switch k {
	case KindWork, KindSingle, KindNegative, KindFailure, KindMax, KindWarmup:
		return true
	default:
		return false
	}
}

// Reps is either a nominal rep count or the failure test marker.
// In JSON it is a plain number, or the string "FT".
type Reps struct {
	Count int
	FT    bool
}

var RepsFT = Reps{FT: true}

func RepsOf(count int) Reps {
	return Reps{Count: count}
}

func (r Reps) String() string {
	if r.FT {
		return ftSentinel
	}
	return strconv.Itoa(r.Count)
}

func (r Reps) MarshalJSON() ([]byte, error) {
	if r.FT {
		return []byte(`"` + ftSentinel + `"`), nil
	}
	return []byte(strconv.Itoa(r.Count)), nil
}

func (r *Reps) UnmarshalJSON(data []byte) error {
	raw := strings.TrimSpace(string(data))
	if raw == "null" || raw == "" {
		*r = Reps{}
		return nil
	}
	if strings.HasPrefix(raw, `"`) {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*r = parseReps(s)
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return fmt.Errorf("reps %s: %w", raw, ErrInvalidInput)
	}
	*r = Reps{Count: int(f)}
	return nil
}

func parseReps(s string) Reps {
	s = strings.TrimSpace(s)
	if strings.EqualFold(s, ftSentinel) {
		return RepsFT
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return Reps{}
	}
	return Reps{Count: n}
}

// BlockSpec is one prescribed set: a rep target at a fraction of the working 1RM
type BlockSpec struct {
	Reps      Reps    `json:"reps" yaml:"reps"`
	Intensity float64 `json:"intensity" yaml:"intensity"`
	Kind      Kind    `json:"kind" yaml:"kind"`
}

type Session struct {
	ID     int         `json:"id" yaml:"id"`
	Name   string      `json:"name" yaml:"name"`
	Blocks []BlockSpec `json:"blocks" yaml:"blocks"`
}

func (s Session) HasKind(kind Kind) bool {
	for _, b := range s.Blocks {
		if b.Kind == kind {
			return true
		}
	}
	return false
}

type Program struct {
	Name     string    `json:"name" yaml:"name"`
	Sessions []Session `json:"sessions" yaml:"sessions"`
}

func (p *Program) Session(id int) (Session, bool) {
	if id < 1 || id > len(p.Sessions) {
		return Session{}, false
	}
	return p.Sessions[id-1], true
}

// BlocksFor returns the ordered blocks of a session, nil for an unknown id
func (p *Program) BlocksFor(id int) []BlockSpec {
	s, ok := p.Session(id)
	if !ok {
		return nil
	}
	return s.Blocks
}

func (p *Program) IsFailureSession(id int) bool {
	s, ok := p.Session(id)
	return ok && s.HasKind(KindFailure)
}

// FailureSessions returns ids of all sessions carrying a failure test, ascending
func (p *Program) FailureSessions() []int {
	var ids []int
	for _, s := range p.Sessions {
		if s.HasKind(KindFailure) {
			ids = append(ids, s.ID)
		}
	}
	return ids
}

func (p *Program) Validate() error {
	if len(p.Sessions) != SessionsCount {
		return fmt.Errorf("program has %d sessions, want %d: %w", len(p.Sessions), SessionsCount, ErrInvalidInput)
	}
	for i, s := range p.Sessions {
		if s.ID != i+1 {
			return fmt.Errorf("session at position %d has id %d: %w", i+1, s.ID, ErrInvalidInput)
		}
		if len(s.Blocks) == 0 {
			return fmt.Errorf("session %d has no blocks: %w", s.ID, ErrInvalidInput)
		}
		counts := make(map[Kind]int)
		for _, b := range s.Blocks {
			if !b.Kind.IsValid() || b.Kind == KindWarmup {
				return fmt.Errorf("session %d: block kind %q: %w", s.ID, b.Kind, ErrInvalidInput)
			}
			if !(b.Intensity > 0 && b.Intensity <= 2) {
				return fmt.Errorf("session %d: intensity %v: %w", s.ID, b.Intensity, ErrInvalidInput)
			}
			if b.Reps.FT != (b.Kind == KindFailure) {
				return fmt.Errorf("session %d: FT reps only allowed on failure blocks: %w", s.ID, ErrInvalidInput)
			}
			if !b.Reps.FT && b.Reps.Count <= 0 {
				return fmt.Errorf("session %d: reps %d: %w", s.ID, b.Reps.Count, ErrInvalidInput)
			}
			counts[b.Kind]++
		}
		for _, k := range []Kind{KindFailure, KindNegative, KindMax} {
			if counts[k] > 1 {
				return fmt.Errorf("session %d has %d %s blocks: %w", s.ID, counts[k], k, ErrInvalidInput)
			}
		}
	}
	return nil
}

func work(reps int, intensity float64) BlockSpec {
	kind := KindWork
	if reps == 1 {
		kind = KindSingle
	}
	return BlockSpec{Reps: RepsOf(reps), Intensity: intensity, Kind: kind}
}

func failureTest(intensity float64) BlockSpec {
	return BlockSpec{Reps: RepsFT, Intensity: intensity, Kind: KindFailure}
}

func negative(intensity float64) BlockSpec {
	return BlockSpec{Reps: RepsOf(1), Intensity: intensity, Kind: KindNegative}
}

func maxTest(intensity float64) BlockSpec {
	return BlockSpec{Reps: RepsOf(1), Intensity: intensity, Kind: KindMax}
}

// DefaultProgram is the canonical 14 session table: three blocks per session,
// failure tests on 5, 7, 9, 11 and 13 (at the second block's load),
// eccentric singles on 6 and 8, and the max test on 14.
func DefaultProgram() *Program {
	return &Program{
		Name: "mm2k",
		Sessions: []Session{
			{ID: 1, Name: "Workout 1", Blocks: []BlockSpec{work(8, 0.76), work(6, 0.80), work(5, 0.83)}},
			{ID: 2, Name: "Workout 2", Blocks: []BlockSpec{work(8, 0.80), work(5, 0.85), work(3, 0.90)}},
			{ID: 3, Name: "Workout 3", Blocks: []BlockSpec{work(8, 0.83), work(6, 0.88), work(5, 0.91)}},
			{ID: 4, Name: "Workout 4 (heavy)", Blocks: []BlockSpec{work(5, 0.90), work(3, 0.95), work(1, 1.00)}},
			{ID: 5, Name: "Workout 5 (Failure Test)", Blocks: []BlockSpec{work(6, 0.87), work(5, 0.93), failureTest(0.93)}},
			{ID: 6, Name: "Workout 6 (negative)", Blocks: []BlockSpec{work(3, 0.83), work(2, 0.90), negative(1.10)}},
			{ID: 7, Name: "Workout 7 (Failure Test)", Blocks: []BlockSpec{work(6, 0.90), work(5, 0.95), failureTest(0.95)}},
			{ID: 8, Name: "Workout 8 (negative)", Blocks: []BlockSpec{work(6, 0.95), work(3, 1.00), negative(1.10)}},
			{ID: 9, Name: "Workout 9 (Failure Test)", Blocks: []BlockSpec{work(6, 0.91), work(5, 0.96), failureTest(0.96)}},
			{ID: 10, Name: "Workout 10 (heavy)", Blocks: []BlockSpec{work(3, 0.98), work(2, 1.03), work(1, 1.06)}},
			{ID: 11, Name: "Workout 11 (Failure Test)", Blocks: []BlockSpec{work(5, 0.93), work(3, 0.98), failureTest(0.98)}},
			{ID: 12, Name: "Workout 12 (heavy)", Blocks: []BlockSpec{work(3, 0.99), work(2, 1.04), work(1, 1.07)}},
			{ID: 13, Name: "Workout 13 (Failure Test)", Blocks: []BlockSpec{work(5, 0.95), work(3, 1.00), failureTest(1.00)}},
			{ID: 14, Name: "Workout 14 (max test)", Blocks: []BlockSpec{work(3, 1.05), work(2, 1.10), maxTest(1.15)}},
		},
	}
}
