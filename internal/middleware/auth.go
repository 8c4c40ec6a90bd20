package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/2beens/mm2kbench/internal/auth"
	"github.com/2beens/mm2kbench/internal/telemetry/tracing"
	"github.com/2beens/mm2kbench/pkg"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/codes"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=middleware_test

type loginChecker interface {
	IsAdmin(ctx context.Context, token string) (bool, error)
}

type AuthMiddlewareHandler struct {
	loginChecker    loginChecker
	protectedPrefix string
	allowedPaths    map[string]bool
}

// NewAuthMiddlewareHandler guards everything under protectedPrefix with the admin cookie
func NewAuthMiddlewareHandler(
	protectedPrefix string,
	loginChecker loginChecker,
) *AuthMiddlewareHandler {
	return &AuthMiddlewareHandler{
		loginChecker:    loginChecker,
		protectedPrefix: protectedPrefix,
		allowedPaths: map[string]bool{
			protectedPrefix + "/login": true,
		},
	}
}

func (h *AuthMiddlewareHandler) isProtected(path string) bool {
	if h.allowedPaths[path] {
		return false
	}
	return path == h.protectedPrefix || strings.HasPrefix(path, h.protectedPrefix+"/")
}

func (h *AuthMiddlewareHandler) AuthCheck() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, span := tracing.GlobalTracer.Start(r.Context(), "middleware.auth")
			defer span.End()

			if r.Method == http.MethodOptions || !h.isProtected(r.URL.Path) {
				span.SetStatus(codes.Ok, "ok")
				next.ServeHTTP(w, r)
				return
			}

			authToken := auth.TokenFromRequest(r)
			if authToken == "" {
				log.Tracef("[missing cookie] [auth middleware] unauthorized => %s", r.URL.Path)
				pkg.WriteJSONError(w, "Unauthorized", http.StatusUnauthorized)
				span.SetStatus(codes.Error, "missing-auth-cookie")
				return
			}

			isAdmin, err := h.loginChecker.IsAdmin(ctx, authToken)
			if err != nil {
				log.Errorf("[failed login check] => %s: %s", r.URL.Path, err)
				pkg.WriteJSONError(w, "Unauthorized", http.StatusUnauthorized)
				span.SetStatus(codes.Error, "check-admin-err")
				span.RecordError(err)
				return
			}
			if !isAdmin {
				log.Tracef("[invalid token] [auth middleware] unauthorized => %s", r.URL.Path)
				pkg.WriteJSONError(w, "Unauthorized", http.StatusUnauthorized)
				span.SetStatus(codes.Error, "not-admin")
				return
			}

			span.SetStatus(codes.Ok, "ok")
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
