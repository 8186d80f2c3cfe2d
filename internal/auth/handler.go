package auth

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/2beens/portfolio/internal/telemetry/metrics"
	"github.com/2beens/portfolio/internal/telemetry/tracing"
	"github.com/2beens/portfolio/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/codes"
)

const maxLoginBodySize = 1 << 16

type tokenIssuer interface {
	Login(ctx context.Context, creds Credentials) (Token, error)
}

type Handler struct {
	issuer         tokenIssuer
	revocations    RevocationList
	metricsManager *metrics.Manager
	now            func() time.Time
}

type loginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

type sessionResponse struct {
	Subject   string    `json:"subject"`
	Email     string    `json:"email"`
	ExpiresAt time.Time `json:"expires_at"`
}

func NewHandler(
	issuer tokenIssuer,
	revocations RevocationList,
	metricsManager *metrics.Manager,
) *Handler {
	return &Handler{
		issuer:         issuer,
		revocations:    revocations,
		metricsManager: metricsManager,
		now:            time.Now,
	}
}

// SetupRoutes registers the admin session routes. loginLimiter, when set,
// wraps only the login route.
func (handler *Handler) SetupRoutes(router *mux.Router, loginLimiter mux.MiddlewareFunc) {
	var login http.Handler = http.HandlerFunc(handler.handleLogin)
	if loginLimiter != nil {
		login = loginLimiter(login)
	}

	router.Handle("/login", login).Methods("POST", "OPTIONS").Name("admin-login")
	router.HandleFunc("/logout", handler.handleLogout).Methods("POST", "OPTIONS").Name("admin-logout")
	router.HandleFunc("/session", handler.handleSession).Methods("GET", "OPTIONS").Name("admin-session")
}

// PublicRoutes are the route names reachable without a token.
func PublicRoutes() []string {
	return []string{"admin-login"}
}

func (handler *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "authHandler.login")
	defer span.End()

	var creds Credentials
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxLoginBodySize)).Decode(&creds); err != nil {
		log.Debugf("login, unmarshal json params: %s", err)
		span.SetStatus(codes.Error, "bad-request")
		pkg.WriteJSONError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	token, err := handler.issuer.Login(ctx, creds)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			log.Tracef("failed login attempt from %s", userIP(r))
			handler.countLogin("rejected")
			span.SetStatus(codes.Error, "invalid-credentials")
			pkg.WriteJSONError(w, "invalid credentials", http.StatusUnauthorized)
			return
		}
		log.Errorf("login failed, issue token: %s", err)
		handler.countLogin("error")
		span.SetStatus(codes.Error, "issue-token")
		span.RecordError(err)
		pkg.WriteJSONError(w, "login failed", http.StatusInternalServerError)
		return
	}

	log.Trace("new login success")
	handler.countLogin("success")
	span.SetStatus(codes.Ok, "ok")
	pkg.WriteJSONOK(w, loginResponse{
		Token:     token.Value,
		ExpiresAt: token.ExpiresAt,
	})
}

func (handler *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "authHandler.logout")
	defer span.End()

	claims := ClaimsFromContext(ctx)
	if claims == nil {
		span.SetStatus(codes.Error, "no-claims")
		pkg.WriteJSONError(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	if handler.revocations != nil {
		ttl := claims.ExpiresAt.Sub(handler.now())
		if err := handler.revocations.Revoke(ctx, claims.ID, ttl); err != nil {
			log.Errorf("logout, revoke token %s: %s", claims.ID, err)
			span.SetStatus(codes.Error, "revoke")
			span.RecordError(err)
			pkg.WriteJSONError(w, "logout failed", http.StatusInternalServerError)
			return
		}
	}

	log.Debugf("logout for token [%s] success", claims.ID)
	span.SetStatus(codes.Ok, "ok")
	pkg.WriteJSONMessage(w, "logged out", http.StatusOK)
}

func (handler *Handler) handleSession(w http.ResponseWriter, r *http.Request) {
	claims := ClaimsFromContext(r.Context())
	if claims == nil {
		pkg.WriteJSONError(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	pkg.WriteJSONOK(w, sessionResponse{
		Subject:   claims.Subject,
		Email:     claims.Email,
		ExpiresAt: claims.ExpiresAt.Time,
	})
}

func (handler *Handler) countLogin(result string) {
	if handler.metricsManager != nil {
		handler.metricsManager.CounterLogins.WithLabelValues(result).Inc()
	}
}

func userIP(r *http.Request) string {
	ip, err := pkg.ReadUserIP(r)
	if err != nil {
		return "unknown"
	}
	return ip
}
