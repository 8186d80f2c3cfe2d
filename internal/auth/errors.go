package auth

import "errors"

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnauthenticated    = errors.New("unauthenticated")
	ErrInvalidToken       = errors.New("invalid token")
	ErrTokenExpired       = errors.New("token expired")
	ErrTokenRevoked       = errors.New("token revoked")
	// ErrAuthUnavailable means the token could not be checked, not that it is bad
	ErrAuthUnavailable = errors.New("auth check unavailable")
)

// Reason maps an auth error to a short label used in logs and metrics.
func Reason(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrUnauthenticated):
		return "missing"
	case errors.Is(err, ErrTokenExpired):
		return "expired"
	case errors.Is(err, ErrTokenRevoked):
		return "revoked"
	case errors.Is(err, ErrAuthUnavailable):
		return "unavailable"
	case errors.Is(err, ErrInvalidToken):
		return "invalid"
	case errors.Is(err, ErrInvalidCredentials):
		return "credentials"
	default:
		return "unknown"
	}
}
