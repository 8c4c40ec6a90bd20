package mm2k

import "math"

// projectionFactor is the expected gain over the baseline 1RM by the end of the program
const projectionFactor = 1.15

type Projection struct {
	Base      float64 `json:"base"`
	Delta     float64 `json:"delta"`
	Min       float64 `json:"min"`
	Max       float64 `json:"max"`
	Remaining int     `json:"remaining"`
}

// Project forecasts the 1RM after the last session. Entered but not yet
// confirmed failure test reps count as if confirmed, each unresolved failure
// test widens the range by one step either way.
func (e *Engine) Project(a Athlete) Projection {
	base := Round(a.OneRmKg*projectionFactor, FTRounding)

	var (
		delta     float64
		remaining int
	)
	for _, sid := range e.program.FailureSessions() {
		l, ok := a.Logs[sid]
		switch {
		case ok && l != nil && l.FtApplied:
			delta += l.appliedDelta()
		case ok && l != nil && l.FailureReps != nil:
			delta += DeltaForReps(*l.FailureReps)
		default:
			remaining++
		}
	}

	spread := FTStepKg * float64(remaining)
	return Projection{
		Base:      base,
		Delta:     trimFloat(delta),
		Min:       trimFloat(base + delta - spread),
		Max:       trimFloat(base + delta + spread),
		Remaining: remaining,
	}
}

type SessionStar struct {
	SessionID int     `json:"sessionId"`
	Outcome   Outcome `json:"outcome"`
	Reps      *int    `json:"reps,omitempty"`
	Applied   bool    `json:"applied"`
}

type Progress struct {
	Done  int           `json:"done"`
	Total int           `json:"total"`
	Stars []SessionStar `json:"stars"`
}

// Progress counts completed sessions and grades every failure test entered so far
func (e *Engine) Progress(a Athlete) Progress {
	p := Progress{
		Total: len(e.program.Sessions),
		Stars: []SessionStar{},
	}
	for _, s := range e.program.Sessions {
		l := a.LogFor(s.ID)
		if l.Done {
			p.Done++
		}
		if !s.HasKind(KindFailure) {
			continue
		}
		star := SessionStar{
			SessionID: s.ID,
			Outcome:   OutcomeNone,
			Applied:   l.FtApplied,
		}
		if l.FailureReps != nil {
			star.Reps = intPtr(*l.FailureReps)
			star.Outcome = OutcomeForReps(*l.FailureReps)
		}
		p.Stars = append(p.Stars, star)
	}
	return p
}

func trimFloat(v float64) float64 {
	v = math.Round(v*1e6) / 1e6
	if v == 0 {
		return 0
	}
	return v
}
