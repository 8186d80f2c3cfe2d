package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/2beens/portfolio/internal/telemetry/tracing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/codes"
)

const (
	Subject    = "admin"
	DefaultTTL = 7 * 24 * time.Hour
)

type Claims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

type Token struct {
	Value     string
	ExpiresAt time.Time
}

type Issuer struct {
	admin  *Admin
	secret []byte
	issuer string
	ttl    time.Duration

	// injectable for tests
	now   func() time.Time
	newID func() string
}

func NewIssuer(admin *Admin, secret []byte, issuer string, ttl time.Duration) *Issuer {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Issuer{
		admin:  admin,
		secret: secret,
		issuer: issuer,
		ttl:    ttl,
		now:    time.Now,
		newID:  uuid.NewString,
	}
}

func (i *Issuer) Login(ctx context.Context, creds Credentials) (Token, error) {
	_, span := tracing.GlobalTracer.Start(ctx, "auth.issuer.login")
	defer span.End()

	if !i.admin.Matches(creds) {
		span.SetStatus(codes.Error, "invalid-credentials")
		return Token{}, ErrInvalidCredentials
	}

	token, err := i.issue(i.now())
	if err != nil {
		span.SetStatus(codes.Error, "sign-token")
		span.RecordError(err)
		return Token{}, err
	}

	span.SetStatus(codes.Ok, "ok")
	return token, nil
}

func (i *Issuer) issue(issuedAt time.Time) (Token, error) {
	expiresAt := issuedAt.Add(i.ttl)
	claims := Claims{
		Email: i.admin.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        i.newID(),
			Issuer:    i.issuer,
			Subject:   Subject,
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
	if err != nil {
		return Token{}, fmt.Errorf("sign token: %w", err)
	}

	return Token{
		Value:     signed,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}

type Verifier struct {
	secret      []byte
	issuer      string
	revocations RevocationList
	now         func() time.Time
}

// NewVerifier creates a token verifier. revocations may be nil, in which case
// tokens are valid until they expire.
func NewVerifier(secret []byte, issuer string, revocations RevocationList) *Verifier {
	return &Verifier{
		secret:      secret,
		issuer:      issuer,
		revocations: revocations,
		now:         time.Now,
	}
}

func (v *Verifier) Verify(ctx context.Context, token string) (*Claims, error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "auth.verifier.verify")
	defer span.End()

	if token == "" {
		span.SetStatus(codes.Error, "missing-token")
		return nil, ErrUnauthenticated
	}

	claims := &Claims{}
	_, err := jwt.ParseWithClaims(
		token,
		claims,
		func(*jwt.Token) (any, error) { return v.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(v.issuer),
		jwt.WithSubject(Subject),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
		jwt.WithTimeFunc(v.now),
		jwt.WithStrictDecoding(),
	)
	if err != nil {
		span.RecordError(err)
		if errors.Is(err, jwt.ErrTokenExpired) {
			span.SetStatus(codes.Error, "expired")
			return nil, ErrTokenExpired
		}
		span.SetStatus(codes.Error, "invalid")
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	if claims.ID == "" {
		span.SetStatus(codes.Error, "missing-jti")
		return nil, fmt.Errorf("%w: missing token id", ErrInvalidToken)
	}

	if v.revocations != nil {
		revoked, err := v.revocations.IsRevoked(ctx, claims.ID)
		if err != nil {
			span.SetStatus(codes.Error, "revocation-check")
			span.RecordError(err)
			return nil, fmt.Errorf("%w: check revocation: %w", ErrAuthUnavailable, err)
		}
		if revoked {
			span.SetStatus(codes.Error, "revoked")
			return nil, ErrTokenRevoked
		}
	}

	span.SetStatus(codes.Ok, "ok")
	return claims, nil
}
