package profiles

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/2beens/mm2kbench/internal/mm2k"
	"github.com/2beens/mm2kbench/internal/telemetry/tracing"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

type SyncAction string

const (
	SyncPulled SyncAction = "pulled"
	SyncPushed SyncAction = "pushed"
	SyncNoop   SyncAction = "noop"
)

var ErrUnknownPatchOp = errors.New("unknown patch op")

type profileRepo interface {
	Load(ctx context.Context, key string) (Profile, error)
	Save(ctx context.Context, key string, p Profile, savedAt time.Time) (Profile, error)
	History(ctx context.Context, key string) ([]Revision, error)
	Snapshot(ctx context.Context, key string, rev int) (Profile, error)
	Delete(ctx context.Context, key string) error
	List(ctx context.Context) ([]Summary, error)
	Prune(ctx context.Context, keep int) (int, error)
}

type NewAthleteParams struct {
	Name      string  `json:"name"`
	OneRmKg   float64 `json:"oneRmKg"`
	Rounding  float64 `json:"rounding"`
	StartDate string  `json:"startDate"`
	Notes     string  `json:"notes"`
}

// AthleteUpdate carries the fields to change, nil fields are left alone
type AthleteUpdate struct {
	Name      *string  `json:"name"`
	OneRmKg   *float64 `json:"oneRmKg"`
	Rounding  *float64 `json:"rounding"`
	Notes     *string  `json:"notes"`
	StartDate *string  `json:"startDate"`
}

type SessionView struct {
	SessionID int               `json:"sessionId"`
	Name      string            `json:"name"`
	Rows      []mm2k.DisplayRow `json:"rows"`
	Log       mm2k.SessionLog   `json:"log"`
	Locked    bool              `json:"locked"`
	Failure   bool              `json:"failure"`
	RmKg      float64           `json:"rmKg"`
}

type FailureResult struct {
	Athlete mm2k.Athlete    `json:"athlete"`
	Log     mm2k.SessionLog `json:"log"`
	Outcome mm2k.Outcome    `json:"outcome"`
	Delta   float64         `json:"delta"`
}

type ProjectionView struct {
	Projection mm2k.Projection `json:"projection"`
	Progress   mm2k.Progress   `json:"progress"`
}

type SyncResult struct {
	Action  SyncAction `json:"action"`
	Profile Profile    `json:"profile"`
}

// PatchOp is one admin edit on a stored profile
type PatchOp struct {
	Op    string   `json:"op"`
	ID    string   `json:"id"`
	Name  string   `json:"name"`
	Value *float64 `json:"value"`
}

const (
	PatchRenameUser   = "renameUser"
	PatchSetWorkingRm = "setWorkingRm"
	PatchResetLogs    = "resetLogs"
	PatchRemoveUser   = "removeUser"
)

// Service runs engine operations against stored profiles. Every mutation is
// one load, apply and save cycle under the profile key lock.
type Service struct {
	repo   profileRepo
	engine *mm2k.Engine
	locks  *keyedMutex

	NowFunc   func() time.Time
	NewIDFunc func() string
}

func NewService(repo profileRepo, engine *mm2k.Engine) *Service {
	if engine == nil {
		engine = mm2k.NewEngine(nil)
	}
	return &Service{
		repo:   repo,
		engine: engine,
		locks:  newKeyedMutex(),
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
		NewIDFunc: func() string {
			return uuid.NewString()
		},
	}
}

func (s *Service) Program() *mm2k.Program {
	return s.engine.Program()
}

func (s *Service) Get(ctx context.Context, key string) (Profile, error) {
	return s.repo.Load(ctx, key)
}

// Put replaces the whole stored document, last write wins
func (s *Service) Put(ctx context.Context, key string, p Profile) (Profile, error) {
	if err := ValidateKey(key); err != nil {
		return Profile{}, err
	}
	unlock := s.locks.Lock(key)
	defer unlock()
	return s.repo.Save(ctx, key, p, s.NowFunc())
}

func (s *Service) History(ctx context.Context, key string) ([]Revision, error) {
	return s.repo.History(ctx, key)
}

func (s *Service) Snapshot(ctx context.Context, key string, rev int) (Profile, error) {
	return s.repo.Snapshot(ctx, key, rev)
}

// Sync reconciles a client copy with the stored one by revision counter
func (s *Service) Sync(ctx context.Context, key string, local Profile) (_ SyncResult, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "profilesService.sync")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	if err := ValidateKey(key); err != nil {
		return SyncResult{}, err
	}
	unlock := s.locks.Lock(key)
	defer unlock()

	remote, err := s.repo.Load(ctx, key)
	if err != nil && !errors.Is(err, ErrProfileNotFound) {
		return SyncResult{}, err
	}
	remoteRev := remote.ProfileMeta.Rev
	localRev := local.ProfileMeta.Rev
	span.SetAttributes(attribute.Int("sync.local_rev", localRev), attribute.Int("sync.remote_rev", remoteRev))

	switch {
	case remoteRev > localRev:
		return SyncResult{Action: SyncPulled, Profile: remote}, nil
	case localRev > remoteRev:
		saved, err := s.repo.Save(ctx, key, local, s.NowFunc())
		if err != nil {
			return SyncResult{}, err
		}
		log.Debugf("profiles: %s sync pushed local rev %d over %d", key, localRev, remoteRev)
		return SyncResult{Action: SyncPushed, Profile: saved}, nil
	default:
		return SyncResult{Action: SyncNoop, Profile: remote}, nil
	}
}

func (s *Service) mutate(ctx context.Context, key string, createMissing bool, apply func(p *Profile) error) (Profile, error) {
	if err := ValidateKey(key); err != nil {
		return Profile{}, err
	}
	unlock := s.locks.Lock(key)
	defer unlock()

	p, err := s.repo.Load(ctx, key)
	if errors.Is(err, ErrProfileNotFound) && createMissing {
		p, err = Profile{Users: []mm2k.Athlete{}}, nil
	}
	if err != nil {
		return Profile{}, err
	}

	if err := apply(&p); err != nil {
		return Profile{}, err
	}
	return s.repo.Save(ctx, key, p, s.NowFunc())
}

func (s *Service) mutateAthlete(ctx context.Context, key, athleteID string, apply func(a mm2k.Athlete) (mm2k.Athlete, error)) (mm2k.Athlete, error) {
	var updated mm2k.Athlete
	_, err := s.mutate(ctx, key, false, func(p *Profile) error {
		a, err := p.Athlete(athleteID)
		if err != nil {
			return err
		}
		if updated, err = apply(a); err != nil {
			return err
		}
		return p.replaceAthlete(updated)
	})
	if err != nil {
		return mm2k.Athlete{}, err
	}
	return updated, nil
}

func (s *Service) loadAthlete(ctx context.Context, key, athleteID string) (mm2k.Athlete, error) {
	p, err := s.repo.Load(ctx, key)
	if err != nil {
		return mm2k.Athlete{}, err
	}
	return p.Athlete(athleteID)
}

func (s *Service) AddAthlete(ctx context.Context, key string, params NewAthleteParams) (_ mm2k.Athlete, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "profilesService.addAthlete")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	now := s.NowFunc()
	startDate := now
	if params.StartDate != "" {
		startDate, err = time.Parse(mm2k.StartDateLayout, params.StartDate)
		if err != nil {
			return mm2k.Athlete{}, fmt.Errorf("start date %q: %w", params.StartDate, mm2k.ErrInvalidInput)
		}
	}
	rounding := params.Rounding
	if rounding == 0 {
		rounding = mm2k.DefaultRounding
	}

	a, err := mm2k.NewAthlete(s.NewIDFunc(), params.Name, params.OneRmKg, rounding, startDate)
	if err != nil {
		return mm2k.Athlete{}, err
	}
	a.Notes = params.Notes

	if _, err := s.mutate(ctx, key, true, func(p *Profile) error {
		p.Users = append(p.Users, a)
		return nil
	}); err != nil {
		return mm2k.Athlete{}, err
	}
	log.Debugf("profiles: %s added athlete %s", key, a.ID)
	return a, nil
}

// UpdateAthlete edits the athlete settings. A new baseline 1RM rebuilds the
// working 1RM from it and the applied failure test deltas.
func (s *Service) UpdateAthlete(ctx context.Context, key, athleteID string, upd AthleteUpdate) (mm2k.Athlete, error) {
	return s.mutateAthlete(ctx, key, athleteID, func(a mm2k.Athlete) (mm2k.Athlete, error) {
		out := a.Clone()
		if upd.Name != nil {
			name := strings.TrimSpace(*upd.Name)
			if name == "" {
				return a, fmt.Errorf("empty name: %w", mm2k.ErrInvalidInput)
			}
			out.Name = name
		}
		if upd.Rounding != nil {
			if err := mm2k.ValidateRounding(*upd.Rounding); err != nil {
				return a, err
			}
			out.Rounding = *upd.Rounding
		}
		if upd.Notes != nil {
			out.Notes = *upd.Notes
		}
		if upd.StartDate != nil {
			if _, err := time.Parse(mm2k.StartDateLayout, *upd.StartDate); err != nil {
				return a, fmt.Errorf("start date %q: %w", *upd.StartDate, mm2k.ErrInvalidInput)
			}
			out.StartDate = *upd.StartDate
		}
		if upd.OneRmKg != nil {
			if !(*upd.OneRmKg > 0) || math.IsInf(*upd.OneRmKg, 0) {
				return a, fmt.Errorf("1RM %v: %w", *upd.OneRmKg, mm2k.ErrInvalidInput)
			}
			out.OneRmKg = *upd.OneRmKg
			out.RecomputeWorkingRm()
		}
		return out, nil
	})
}

func (s *Service) SessionView(ctx context.Context, key, athleteID string, sessionID int) (SessionView, error) {
	a, err := s.loadAthlete(ctx, key, athleteID)
	if err != nil {
		return SessionView{}, err
	}
	program := s.engine.Program()
	session, ok := program.Session(sessionID)
	if !ok {
		return SessionView{}, fmt.Errorf("session %d: %w", sessionID, mm2k.ErrUnknownSession)
	}

	l := a.LogFor(sessionID)
	return SessionView{
		SessionID: sessionID,
		Name:      session.Name,
		Rows:      s.engine.BuildRows(a, sessionID),
		Log:       l,
		Locked:    l.Done,
		Failure:   program.IsFailureSession(sessionID),
		RmKg:      a.RmKg(),
	}, nil
}

func (s *Service) LogSet(ctx context.Context, key, athleteID string, sessionID, rowIndex int, set mm2k.SetLog) (mm2k.Athlete, error) {
	return s.mutateAthlete(ctx, key, athleteID, func(a mm2k.Athlete) (mm2k.Athlete, error) {
		return s.engine.LogSet(a, sessionID, rowIndex, set)
	})
}

func (s *Service) RecordFailureReps(ctx context.Context, key, athleteID string, sessionID, reps int) (mm2k.Athlete, error) {
	return s.mutateAthlete(ctx, key, athleteID, func(a mm2k.Athlete) (mm2k.Athlete, error) {
		return s.engine.RecordFailureReps(a, sessionID, reps)
	})
}

// ConfirmFailure applies the failure test. Without reps the count recorded
// earlier for the session is used.
func (s *Service) ConfirmFailure(ctx context.Context, key, athleteID string, sessionID int, reps *int) (_ FailureResult, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "profilesService.confirmFailure")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("session.id", sessionID))

	var result FailureResult
	_, err = s.mutateAthlete(ctx, key, athleteID, func(a mm2k.Athlete) (mm2k.Athlete, error) {
		n := reps
		if n == nil {
			n = a.LogFor(sessionID).FailureReps
		}
		if n == nil {
			return a, fmt.Errorf("session %d has no failure reps: %w", sessionID, mm2k.ErrInvalidInput)
		}
		out, l, err := s.engine.ConfirmFailure(a, sessionID, *n, s.NowFunc())
		if err != nil {
			return a, err
		}
		result = FailureResult{
			Athlete: out,
			Log:     l,
			Outcome: mm2k.OutcomeForReps(*n),
			Delta:   mm2k.DeltaForReps(*n),
		}
		return out, nil
	})
	if err != nil {
		return FailureResult{}, err
	}
	return result, nil
}

func (s *Service) UndoFailure(ctx context.Context, key, athleteID string, sessionID int) (mm2k.Athlete, error) {
	return s.mutateAthlete(ctx, key, athleteID, func(a mm2k.Athlete) (mm2k.Athlete, error) {
		return s.engine.UndoFailure(a, sessionID)
	})
}

func (s *Service) MarkDone(ctx context.Context, key, athleteID string, sessionID int) (mm2k.Athlete, error) {
	return s.mutateAthlete(ctx, key, athleteID, func(a mm2k.Athlete) (mm2k.Athlete, error) {
		return s.engine.MarkDone(a, sessionID, s.NowFunc())
	})
}

func (s *Service) MarkNotDone(ctx context.Context, key, athleteID string, sessionID int) (mm2k.Athlete, error) {
	return s.mutateAthlete(ctx, key, athleteID, func(a mm2k.Athlete) (mm2k.Athlete, error) {
		return s.engine.MarkNotDone(a, sessionID)
	})
}

func (s *Service) Projection(ctx context.Context, key, athleteID string) (ProjectionView, error) {
	a, err := s.loadAthlete(ctx, key, athleteID)
	if err != nil {
		return ProjectionView{}, err
	}
	return ProjectionView{
		Projection: s.engine.Project(a),
		Progress:   s.engine.Progress(a),
	}, nil
}

func (s *Service) List(ctx context.Context) ([]Summary, error) {
	return s.repo.List(ctx)
}

func (s *Service) Delete(ctx context.Context, key string) error {
	if err := ValidateKey(key); err != nil {
		return err
	}
	unlock := s.locks.Lock(key)
	defer unlock()
	return s.repo.Delete(ctx, key)
}

// Patch applies an admin edit. Each op stores a new revision.
func (s *Service) Patch(ctx context.Context, key string, op PatchOp) (_ Profile, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "profilesService.patch")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("patch.op", op.Op))

	if strings.TrimSpace(op.ID) == "" {
		return Profile{}, fmt.Errorf("patch %s without id: %w", op.Op, mm2k.ErrInvalidInput)
	}

	return s.mutate(ctx, key, false, func(p *Profile) error {
		switch op.Op {
		case PatchRenameUser:
			name := strings.TrimSpace(op.Name)
			if name == "" {
				return fmt.Errorf("empty name: %w", mm2k.ErrInvalidInput)
			}
			a, err := p.Athlete(op.ID)
			if err != nil {
				return err
			}
			a.Name = name
			return p.replaceAthlete(a)
		case PatchSetWorkingRm:
			if op.Value == nil || !(*op.Value > 0) || math.IsInf(*op.Value, 0) {
				return fmt.Errorf("working 1RM %v: %w", op.Value, mm2k.ErrInvalidInput)
			}
			a, err := p.Athlete(op.ID)
			if err != nil {
				return err
			}
			a.WorkingRmKg = *op.Value
			return p.replaceAthlete(a)
		case PatchResetLogs:
			a, err := p.Athlete(op.ID)
			if err != nil {
				return err
			}
			a.Logs = map[int]*mm2k.SessionLog{}
			return p.replaceAthlete(a)
		case PatchRemoveUser:
			return p.removeAthlete(op.ID)
		default:
			return fmt.Errorf("%q: %w", op.Op, ErrUnknownPatchOp)
		}
	})
}

// PruneHistory trims every profile history down to keep snapshots
func (s *Service) PruneHistory(ctx context.Context, keep int) (int, error) {
	return s.repo.Prune(ctx, keep)
}
