package auth

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const (
	testSecret = "test-secret-which-is-at-least-32-bytes-long"
	testIssuer = "portfolio-test"
)

func newTestAdmin(t *testing.T, email, password string) *Admin {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return &Admin{
		Email:        email,
		PasswordHash: string(hash),
	}
}

const base64URLAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789-_"

// flipLastChar swaps the last character of a token for its neighbour in the
// base64url alphabet. For an HS256 signature only the padding bits change.
func flipLastChar(token string) string {
	return replaceLastChar(token, 1)
}

// replaceLastChar xors the alphabet index of the last character with mask.
func replaceLastChar(token string, mask int) string {
	last := token[len(token)-1]
	idx := strings.IndexByte(base64URLAlphabet, last)
	return token[:len(token)-1] + string(base64URLAlphabet[idx^mask])
}

type revocationListFake struct {
	mutex   sync.Mutex
	revoked map[string]time.Duration
	err     error
}

func newRevocationListFake() *revocationListFake {
	return &revocationListFake{
		revoked: map[string]time.Duration{},
	}
}

func (f *revocationListFake) Revoke(_ context.Context, tokenID string, ttl time.Duration) error {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	if f.err != nil {
		return f.err
	}
	f.revoked[tokenID] = ttl
	return nil
}

func (f *revocationListFake) IsRevoked(_ context.Context, tokenID string) (bool, error) {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	if f.err != nil {
		return false, f.err
	}
	_, ok := f.revoked[tokenID]
	return ok, nil
}
