package profiles

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/2beens/mm2kbench/internal/mm2k"
	"github.com/2beens/mm2kbench/internal/quotes"
	"github.com/2beens/mm2kbench/internal/telemetry/metrics"
	"github.com/2beens/mm2kbench/internal/telemetry/tracing"
	"github.com/2beens/mm2kbench/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

//go:generate mockgen -source=$GOFILE -destination=handler_mocks_test.go -package=profiles_test

type profilesService interface {
	Program() *mm2k.Program
	Get(ctx context.Context, key string) (Profile, error)
	Put(ctx context.Context, key string, p Profile) (Profile, error)
	Sync(ctx context.Context, key string, local Profile) (SyncResult, error)
	History(ctx context.Context, key string) ([]Revision, error)
	Snapshot(ctx context.Context, key string, rev int) (Profile, error)
	AddAthlete(ctx context.Context, key string, params NewAthleteParams) (mm2k.Athlete, error)
	UpdateAthlete(ctx context.Context, key, athleteID string, upd AthleteUpdate) (mm2k.Athlete, error)
	SessionView(ctx context.Context, key, athleteID string, sessionID int) (SessionView, error)
	LogSet(ctx context.Context, key, athleteID string, sessionID, rowIndex int, set mm2k.SetLog) (mm2k.Athlete, error)
	RecordFailureReps(ctx context.Context, key, athleteID string, sessionID, reps int) (mm2k.Athlete, error)
	ConfirmFailure(ctx context.Context, key, athleteID string, sessionID int, reps *int) (FailureResult, error)
	UndoFailure(ctx context.Context, key, athleteID string, sessionID int) (mm2k.Athlete, error)
	MarkDone(ctx context.Context, key, athleteID string, sessionID int) (mm2k.Athlete, error)
	MarkNotDone(ctx context.Context, key, athleteID string, sessionID int) (mm2k.Athlete, error)
	Projection(ctx context.Context, key, athleteID string) (ProjectionView, error)
	List(ctx context.Context) ([]Summary, error)
	Delete(ctx context.Context, key string) error
	Patch(ctx context.Context, key string, op PatchOp) (Profile, error)
}

type quoteSource interface {
	RandomQuote(genre string) *quotes.Quote
}

type ProgramResponse struct {
	Name          string         `json:"name"`
	SessionsCount int            `json:"sessionsCount"`
	Sessions      []mm2k.Session `json:"sessions"`
}

type HistoryResponse struct {
	Key       string     `json:"key"`
	Revisions []Revision `json:"revisions"`
}

type FailureResponse struct {
	FailureResult
	Quote *quotes.Quote `json:"quote,omitempty"`
}

type DoneResponse struct {
	Athlete mm2k.Athlete  `json:"athlete"`
	Quote   *quotes.Quote `json:"quote,omitempty"`
}

type AdminListResponse struct {
	Profiles []Summary `json:"profiles"`
	Total    int       `json:"total"`
}

type ShareLinkResponse struct {
	Link string `json:"link"`
}

type Handler struct {
	service       profilesService
	quotes        quoteSource
	metrics       *metrics.Manager
	publicBaseURL string
}

func NewHandler(
	service profilesService,
	quotes quoteSource,
	metrics *metrics.Manager,
	publicBaseURL string,
) *Handler {
	return &Handler{
		service:       service,
		quotes:        quotes,
		metrics:       metrics,
		publicBaseURL: strings.TrimRight(publicBaseURL, "/"),
	}
}

// SetupRoutes registers the public profile routes on the /api subrouter
func (handler *Handler) SetupRoutes(r *mux.Router) {
	r.HandleFunc("/program", handler.HandleProgram).Methods("GET")

	pr := r.PathPrefix("/profiles/{key}").Subrouter()
	pr.HandleFunc("", handler.HandleGet).Methods("GET")
	pr.HandleFunc("", handler.HandlePut).Methods("PUT")
	pr.HandleFunc("/sync", handler.HandleSync).Methods("POST")
	pr.HandleFunc("/history", handler.HandleHistory).Methods("GET")
	pr.HandleFunc("/history/{rev}", handler.HandleSnapshot).Methods("GET")
	pr.HandleFunc("/athletes", handler.HandleAddAthlete).Methods("POST")
	pr.HandleFunc("/athletes/{id}", handler.HandleUpdateAthlete).Methods("PATCH")
	pr.HandleFunc("/athletes/{id}/projection", handler.HandleProjection).Methods("GET")
	pr.HandleFunc("/athletes/{id}/sessions/{sid}", handler.HandleSessionView).Methods("GET")
	pr.HandleFunc("/athletes/{id}/sessions/{sid}/sets/{idx}", handler.HandleLogSet).Methods("PUT")
	pr.HandleFunc("/athletes/{id}/sessions/{sid}/failure-reps", handler.HandleFailureReps).Methods("PUT")
	pr.HandleFunc("/athletes/{id}/sessions/{sid}/failure", handler.HandleConfirmFailure).Methods("POST")
	pr.HandleFunc("/athletes/{id}/sessions/{sid}/failure", handler.HandleUndoFailure).Methods("DELETE")
	pr.HandleFunc("/athletes/{id}/sessions/{sid}/done", handler.HandleMarkDone).Methods("POST")
	pr.HandleFunc("/athletes/{id}/sessions/{sid}/done", handler.HandleMarkNotDone).Methods("DELETE")
}

// SetupAdminRoutes registers the admin routes on the /api/admin subrouter
func (handler *Handler) SetupAdminRoutes(r *mux.Router) {
	r.HandleFunc("/profiles", handler.HandleAdminList).Methods("GET")
	r.HandleFunc("/profiles/{key}", handler.HandleGet).Methods("GET")
	r.HandleFunc("/profiles/{key}", handler.HandleAdminDelete).Methods("DELETE")
	r.HandleFunc("/profiles/{key}", handler.HandleAdminPatch).Methods("PATCH")
	r.HandleFunc("/sharelink", handler.HandleShareLink).Methods("GET")
}

// statusForErr maps domain errors to the response status
func statusForErr(err error) int {
	switch {
	case errors.Is(err, mm2k.ErrSessionLocked):
		return http.StatusLocked
	case errors.Is(err, mm2k.ErrAlreadyApplied),
		errors.Is(err, mm2k.ErrNothingToUndo):
		return http.StatusConflict
	case errors.Is(err, ErrProfileNotFound),
		errors.Is(err, ErrRevisionNotFound),
		errors.Is(err, ErrAthleteNotFound),
		errors.Is(err, mm2k.ErrUnknownSession):
		return http.StatusNotFound
	case errors.Is(err, mm2k.ErrInvalidInput),
		errors.Is(err, mm2k.ErrNotFailureSession),
		errors.Is(err, ErrInvalidKey),
		errors.Is(err, ErrUnknownPatchOp):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func writeErr(w http.ResponseWriter, op string, err error) {
	status := statusForErr(err)
	if status == http.StatusInternalServerError {
		log.Errorf("%s: %s", op, err)
		pkg.WriteJSONError(w, "internal server error", status)
		return
	}
	log.Debugf("%s: %s", op, err)
	pkg.WriteJSONError(w, err.Error(), status)
}

func decodeJSON(r *http.Request, v interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return fmt.Errorf("decode body: %s: %w", err, mm2k.ErrInvalidInput)
	}
	return nil
}

func pathInt(r *http.Request, name string) (int, error) {
	v, err := strconv.Atoi(mux.Vars(r)[name])
	if err != nil {
		return 0, fmt.Errorf("%s %q: %w", name, mux.Vars(r)[name], mm2k.ErrInvalidInput)
	}
	return v, nil
}

type athleteRoute struct {
	key       string
	athleteID string
	sessionID int
}

func parseAthleteRoute(r *http.Request, withSession bool) (athleteRoute, error) {
	vars := mux.Vars(r)
	route := athleteRoute{
		key:       vars["key"],
		athleteID: vars["id"],
	}
	if !withSession {
		return route, nil
	}
	sid, err := pathInt(r, "sid")
	if err != nil {
		return route, err
	}
	route.sessionID = sid
	return route, nil
}

func (handler *Handler) HandleProgram(w http.ResponseWriter, r *http.Request) {
	program := handler.service.Program()
	pkg.WriteJSON(w, ProgramResponse{
		Name:          program.Name,
		SessionsCount: len(program.Sessions),
		Sessions:      program.Sessions,
	}, http.StatusOK)
}

func (handler *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.profiles.get")
	defer span.End()

	key := mux.Vars(r)["key"]
	p, err := handler.service.Get(ctx, key)
	if err != nil {
		writeErr(w, "get profile "+key, err)
		return
	}
	pkg.WriteJSON(w, p, http.StatusOK)
}

func (handler *Handler) HandlePut(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.profiles.put")
	defer span.End()

	key := mux.Vars(r)["key"]
	var p Profile
	if err := decodeJSON(r, &p); err != nil {
		writeErr(w, "put profile "+key, err)
		return
	}

	saved, err := handler.service.Put(ctx, key, p)
	if err != nil {
		writeErr(w, "put profile "+key, err)
		return
	}
	handler.metrics.CounterProfileSaves.Inc()

	log.Debugf("profile %s saved, rev %d", key, saved.ProfileMeta.Rev)
	pkg.WriteJSON(w, saved.ProfileMeta, http.StatusOK)
}

func (handler *Handler) HandleSync(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.profiles.sync")
	defer span.End()

	key := mux.Vars(r)["key"]
	var local Profile
	if err := decodeJSON(r, &local); err != nil {
		writeErr(w, "sync profile "+key, err)
		return
	}

	res, err := handler.service.Sync(ctx, key, local)
	if err != nil {
		writeErr(w, "sync profile "+key, err)
		return
	}
	if res.Action == SyncPushed {
		handler.metrics.CounterProfileSaves.Inc()
	}
	pkg.WriteJSON(w, res, http.StatusOK)
}

func (handler *Handler) HandleHistory(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.profiles.history")
	defer span.End()

	key := mux.Vars(r)["key"]
	revisions, err := handler.service.History(ctx, key)
	if err != nil {
		writeErr(w, "profile history "+key, err)
		return
	}
	pkg.WriteJSON(w, HistoryResponse{Key: key, Revisions: revisions}, http.StatusOK)
}

func (handler *Handler) HandleSnapshot(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.profiles.snapshot")
	defer span.End()

	key := mux.Vars(r)["key"]
	rev, err := pathInt(r, "rev")
	if err != nil {
		writeErr(w, "profile snapshot "+key, err)
		return
	}

	p, err := handler.service.Snapshot(ctx, key, rev)
	if err != nil {
		writeErr(w, "profile snapshot "+key, err)
		return
	}
	pkg.WriteJSON(w, p, http.StatusOK)
}

func (handler *Handler) HandleAddAthlete(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.profiles.addAthlete")
	defer span.End()

	key := mux.Vars(r)["key"]
	var params NewAthleteParams
	if err := decodeJSON(r, &params); err != nil {
		writeErr(w, "add athlete", err)
		return
	}

	a, err := handler.service.AddAthlete(ctx, key, params)
	if err != nil {
		writeErr(w, "add athlete", err)
		return
	}
	handler.metrics.CounterProfileSaves.Inc()

	log.Debugf("new athlete added to %s: %s [%s]", key, a.ID, a.Name)
	pkg.WriteJSON(w, a, http.StatusCreated)
}

func (handler *Handler) HandleUpdateAthlete(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.profiles.updateAthlete")
	defer span.End()

	route, _ := parseAthleteRoute(r, false)
	var upd AthleteUpdate
	if err := decodeJSON(r, &upd); err != nil {
		writeErr(w, "update athlete", err)
		return
	}

	a, err := handler.service.UpdateAthlete(ctx, route.key, route.athleteID, upd)
	if err != nil {
		writeErr(w, "update athlete "+route.athleteID, err)
		return
	}
	handler.metrics.CounterProfileSaves.Inc()
	pkg.WriteJSON(w, a, http.StatusOK)
}

func (handler *Handler) HandleSessionView(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.profiles.session")
	defer span.End()

	route, err := parseAthleteRoute(r, true)
	if err != nil {
		writeErr(w, "session view", err)
		return
	}

	view, err := handler.service.SessionView(ctx, route.key, route.athleteID, route.sessionID)
	if err != nil {
		writeErr(w, "session view", err)
		return
	}
	pkg.WriteJSON(w, view, http.StatusOK)
}

func (handler *Handler) HandleLogSet(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.profiles.logSet")
	defer span.End()

	route, err := parseAthleteRoute(r, true)
	if err != nil {
		writeErr(w, "log set", err)
		return
	}
	idx, err := pathInt(r, "idx")
	if err != nil {
		writeErr(w, "log set", err)
		return
	}
	var set mm2k.SetLog
	if err := decodeJSON(r, &set); err != nil {
		writeErr(w, "log set", err)
		return
	}

	a, err := handler.service.LogSet(ctx, route.key, route.athleteID, route.sessionID, idx, set)
	if err != nil {
		writeErr(w, "log set", err)
		return
	}
	handler.metrics.CounterProfileSaves.Inc()
	pkg.WriteJSON(w, a, http.StatusOK)
}

type failureRepsRequest struct {
	Reps *int `json:"reps"`
}

func (handler *Handler) HandleFailureReps(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.profiles.failureReps")
	defer span.End()

	route, err := parseAthleteRoute(r, true)
	if err != nil {
		writeErr(w, "failure reps", err)
		return
	}
	var req failureRepsRequest
	if err := decodeJSON(r, &req); err != nil {
		writeErr(w, "failure reps", err)
		return
	}
	if req.Reps == nil {
		writeErr(w, "failure reps", fmt.Errorf("reps missing: %w", mm2k.ErrInvalidInput))
		return
	}

	a, err := handler.service.RecordFailureReps(ctx, route.key, route.athleteID, route.sessionID, *req.Reps)
	if err != nil {
		writeErr(w, "failure reps", err)
		return
	}
	handler.metrics.CounterProfileSaves.Inc()
	pkg.WriteJSON(w, a, http.StatusOK)
}

func (handler *Handler) HandleConfirmFailure(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.profiles.confirmFailure")
	defer span.End()

	route, err := parseAthleteRoute(r, true)
	if err != nil {
		writeErr(w, "confirm failure", err)
		return
	}
	// body is optional, without reps the recorded count is used
	var req failureRepsRequest
	if r.ContentLength != 0 {
		if err := decodeJSON(r, &req); err != nil {
			writeErr(w, "confirm failure", err)
			return
		}
	}

	res, err := handler.service.ConfirmFailure(ctx, route.key, route.athleteID, route.sessionID, req.Reps)
	if err != nil {
		writeErr(w, "confirm failure", err)
		return
	}
	handler.metrics.CounterProfileSaves.Inc()
	handler.metrics.CounterFailureTests.WithLabelValues(string(res.Outcome)).Inc()

	log.Debugf("failure test confirmed %s/%s session %d: %s [%v]", route.key, route.athleteID, route.sessionID, res.Outcome, res.Delta)
	pkg.WriteJSON(w, FailureResponse{
		FailureResult: res,
		Quote:         handler.quotes.RandomQuote(quotes.GenreForOutcome(string(res.Outcome))),
	}, http.StatusOK)
}

func (handler *Handler) HandleUndoFailure(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.profiles.undoFailure")
	defer span.End()

	route, err := parseAthleteRoute(r, true)
	if err != nil {
		writeErr(w, "undo failure", err)
		return
	}

	a, err := handler.service.UndoFailure(ctx, route.key, route.athleteID, route.sessionID)
	if err != nil {
		writeErr(w, "undo failure", err)
		return
	}
	handler.metrics.CounterProfileSaves.Inc()
	handler.metrics.CounterFailureTestUndos.Inc()
	pkg.WriteJSON(w, a, http.StatusOK)
}

func (handler *Handler) HandleMarkDone(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.profiles.markDone")
	defer span.End()

	route, err := parseAthleteRoute(r, true)
	if err != nil {
		writeErr(w, "mark done", err)
		return
	}

	a, err := handler.service.MarkDone(ctx, route.key, route.athleteID, route.sessionID)
	if err != nil {
		writeErr(w, "mark done", err)
		return
	}
	handler.metrics.CounterProfileSaves.Inc()
	handler.metrics.CounterSessionsLocked.Inc()
	pkg.WriteJSON(w, DoneResponse{
		Athlete: a,
		Quote:   handler.quotes.RandomQuote(quotes.GenrePassDone),
	}, http.StatusOK)
}

func (handler *Handler) HandleMarkNotDone(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.profiles.markNotDone")
	defer span.End()

	route, err := parseAthleteRoute(r, true)
	if err != nil {
		writeErr(w, "mark not done", err)
		return
	}

	a, err := handler.service.MarkNotDone(ctx, route.key, route.athleteID, route.sessionID)
	if err != nil {
		writeErr(w, "mark not done", err)
		return
	}
	handler.metrics.CounterProfileSaves.Inc()
	pkg.WriteJSON(w, a, http.StatusOK)
}

func (handler *Handler) HandleProjection(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.profiles.projection")
	defer span.End()

	route, _ := parseAthleteRoute(r, false)
	view, err := handler.service.Projection(ctx, route.key, route.athleteID)
	if err != nil {
		writeErr(w, "projection", err)
		return
	}
	pkg.WriteJSON(w, view, http.StatusOK)
}

func (handler *Handler) HandleAdminList(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.admin.profiles")
	defer span.End()

	summaries, err := handler.service.List(ctx)
	if err != nil {
		writeErr(w, "admin list profiles", err)
		return
	}
	pkg.WriteJSON(w, AdminListResponse{Profiles: summaries, Total: len(summaries)}, http.StatusOK)
}

func (handler *Handler) HandleAdminDelete(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.admin.deleteProfile")
	defer span.End()

	key := mux.Vars(r)["key"]
	if err := handler.service.Delete(ctx, key); err != nil {
		writeErr(w, "admin delete profile "+key, err)
		return
	}

	log.Infof("admin: profile %s deleted", key)
	pkg.WriteJSON(w, map[string]interface{}{"ok": true, "deleted": key}, http.StatusOK)
}

func (handler *Handler) HandleAdminPatch(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.admin.patchProfile")
	defer span.End()

	key := mux.Vars(r)["key"]
	var op PatchOp
	if err := decodeJSON(r, &op); err != nil {
		writeErr(w, "admin patch profile "+key, err)
		return
	}

	p, err := handler.service.Patch(ctx, key, op)
	if err != nil {
		writeErr(w, "admin patch profile "+key, err)
		return
	}
	handler.metrics.CounterProfileSaves.Inc()

	log.Infof("admin: profile %s patched [%s %s], rev %d", key, op.Op, op.ID, p.ProfileMeta.Rev)
	pkg.WriteJSON(w, p, http.StatusOK)
}

func (handler *Handler) HandleShareLink(w http.ResponseWriter, r *http.Request) {
	key := r.URL.Query().Get("key")
	if key == "" {
		pkg.WriteJSONError(w, "missing key", http.StatusBadRequest)
		return
	}

	base := handler.publicBaseURL
	if base == "" {
		proto := r.Header.Get("X-Forwarded-Proto")
		if proto == "" {
			proto = "https"
		}
		base = fmt.Sprintf("%s://%s", proto, r.Host)
	}
	pkg.WriteJSON(w, ShareLinkResponse{
		Link: fmt.Sprintf("%s?k=%s", base, url.QueryEscape(key)),
	}, http.StatusOK)
}
