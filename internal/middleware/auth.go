package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/2beens/portfolio/internal/auth"
	"github.com/2beens/portfolio/internal/telemetry/metrics"
	"github.com/2beens/portfolio/internal/telemetry/tracing"
	"github.com/2beens/portfolio/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=middleware_test

type tokenVerifier interface {
	Verify(ctx context.Context, token string) (*auth.Claims, error)
}

type AuthMiddlewareHandler struct {
	verifier       tokenVerifier
	metricsManager *metrics.Manager
	// route names reachable without a token, everything else is admin only
	publicRoutes map[string]bool
}

func NewAuthMiddlewareHandler(
	verifier tokenVerifier,
	metricsManager *metrics.Manager,
	publicRoutes ...string,
) *AuthMiddlewareHandler {
	public := make(map[string]bool, len(publicRoutes))
	for _, name := range publicRoutes {
		public[name] = true
	}
	return &AuthMiddlewareHandler{
		verifier:       verifier,
		metricsManager: metricsManager,
		publicRoutes:   public,
	}
}

func (h *AuthMiddlewareHandler) routeIsPublic(r *http.Request) bool {
	route := mux.CurrentRoute(r)
	if route == nil {
		return false
	}
	return h.publicRoutes[route.GetName()]
}

func (h *AuthMiddlewareHandler) AuthCheck() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, span := tracing.GlobalTracer.Start(r.Context(), "middleware.auth")
			defer span.End()

			if r.Method == http.MethodOptions {
				w.Header().Add("Allow", "GET, POST, PUT, DELETE, OPTIONS")
				w.WriteHeader(http.StatusOK)
				span.SetStatus(codes.Ok, "options-ok")
				return
			}

			if h.routeIsPublic(r) {
				span.SetStatus(codes.Ok, "public")
				next.ServeHTTP(w, r)
				return
			}

			var (
				claims *auth.Claims
				err    error
			)
			if token := BearerToken(r); token == "" {
				err = auth.ErrUnauthenticated
			} else {
				claims, err = h.verifier.Verify(ctx, token)
			}

			if err != nil {
				reason := auth.Reason(err)
				log.WithField("trace_id", traceID(ctx)).
					Debugf("[%s] [auth middleware] unauthorized => %s %s: %s", reason, r.Method, r.URL.Path, err)
				if h.metricsManager != nil {
					h.metricsManager.CounterAuthRejections.WithLabelValues(reason).Inc()
				}
				span.SetAttributes(attribute.String("auth.reject_reason", reason))
				span.SetStatus(codes.Error, reason)

				if errors.Is(err, auth.ErrAuthUnavailable) {
					// token state unknown, not a 401
					log.Errorf("[auth middleware] %s %s: %s", r.Method, r.URL.Path, err)
					pkg.WriteJSONError(w, "service unavailable", http.StatusServiceUnavailable)
					return
				}

				w.Header().Set("WWW-Authenticate", "Bearer")
				pkg.WriteJSONError(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			span.SetStatus(codes.Ok, "ok")
			next.ServeHTTP(w, r.WithContext(auth.ContextWithClaims(r.Context(), claims)))
		})
	}
}

func traceID(ctx context.Context) string {
	sc := trace.SpanContextFromContext(ctx)
	if !sc.HasTraceID() {
		return ""
	}
	return sc.TraceID().String()
}

// BearerToken extracts the token from an "Authorization: Bearer <token>" header.
func BearerToken(r *http.Request) string {
	header := strings.TrimSpace(r.Header.Get("Authorization"))
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}
