package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/go-redis/redismock/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisRevocationList(t *testing.T) {
	db, mock := redismock.NewClientMock()
	revocations := NewRedisRevocationList(db)
	ctx := context.Background()

	mock.ExpectExists(revokedKeyPrefix + "jti-1").SetVal(0)
	revoked, err := revocations.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.False(t, revoked)

	mock.ExpectSet(revokedKeyPrefix+"jti-1", 1, time.Hour).SetVal("OK")
	require.NoError(t, revocations.Revoke(ctx, "jti-1", time.Hour))

	mock.ExpectExists(revokedKeyPrefix + "jti-1").SetVal(1)
	revoked, err = revocations.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.True(t, revoked)

	// expired tokens are not stored
	require.NoError(t, revocations.Revoke(ctx, "jti-2", -time.Second))

	mock.ExpectExists(revokedKeyPrefix + "jti-3").SetErr(errors.New("connection refused"))
	revoked, err = revocations.IsRevoked(ctx, "jti-3")
	require.Error(t, err)
	assert.False(t, revoked)

	mock.ExpectSet(revokedKeyPrefix+"jti-3", 1, time.Minute).SetErr(errors.New("connection refused"))
	err = revocations.Revoke(ctx, "jti-3", time.Minute)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "revoke token jti-3")

	assert.NoError(t, mock.ExpectationsWereMet())
}
