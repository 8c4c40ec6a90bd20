package auth

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/2beens/mm2kbench/internal/telemetry/metrics"
	"github.com/2beens/mm2kbench/internal/telemetry/tracing"
	"github.com/2beens/mm2kbench/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=auth_test

type adminAuthenticator interface {
	Login(ctx context.Context, code string) (string, error)
	Logout(ctx context.Context, token string) (bool, error)
	TTL() time.Duration
}

type loginRequest struct {
	Code   string `json:"code"`
	Logout bool   `json:"logout"`
}

type Handler struct {
	authService adminAuthenticator
	metrics     *metrics.Manager
}

func NewHandler(authService adminAuthenticator, metrics *metrics.Manager) *Handler {
	return &Handler{
		authService: authService,
		metrics:     metrics,
	}
}

// SetupRoutes registers the login route on the /api/admin subrouter
func (handler *Handler) SetupRoutes(r *mux.Router) {
	r.HandleFunc("/login", handler.HandleLogin).Methods("POST", "OPTIONS").Name("admin-login")
}

// HandleLogin takes {code} to log in and {logout: true} to log out
func (handler *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.admin.login")
	defer span.End()

	if r.Method == http.MethodOptions {
		w.Header().Add("Allow", "POST, OPTIONS")
		w.WriteHeader(http.StatusOK)
		return
	}

	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkg.WriteJSONError(w, "bad request", http.StatusBadRequest)
		return
	}

	if req.Logout {
		if token := TokenFromRequest(r); token != "" {
			if _, err := handler.authService.Logout(ctx, token); err != nil {
				log.Errorf("admin logout: %s", err)
			}
		}
		ClearAdminCookie(w, r)
		handler.metrics.CounterAdminLogins.WithLabelValues("logout").Inc()
		w.WriteHeader(http.StatusNoContent)
		return
	}

	token, err := handler.authService.Login(ctx, req.Code)
	if errors.Is(err, ErrWrongCode) {
		reqIp, _ := pkg.ReadUserIP(r)
		log.Warnf("admin login with a wrong code from %s", reqIp)
		handler.metrics.CounterAdminLogins.WithLabelValues("bad_code").Inc()
		pkg.WriteJSONError(w, "Bad code", http.StatusUnauthorized)
		return
	}
	if err != nil {
		log.Errorf("admin login: %s", err)
		pkg.WriteJSONError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	SetAdminCookie(w, r, token, handler.authService.TTL())
	handler.metrics.CounterAdminLogins.WithLabelValues("ok").Inc()
	w.WriteHeader(http.StatusNoContent)
}
