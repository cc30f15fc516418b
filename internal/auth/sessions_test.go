package auth

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRedisStore(t *testing.T) (*RedisSessionStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewRedisSessionStore(client), mr
}

func testSession(ttl time.Duration) Session {
	now := time.Now().UTC()
	return Session{
		ID:        "sid-1",
		UserID:    "u1",
		Email:     "owner@example.com",
		Provider:  ProviderLocal,
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}
}

func TestRedisSessionRoundTrip(t *testing.T) {
	store, mr := newRedisStore(t)

	session := testSession(time.Hour)
	require.NoError(t, store.Create(context.Background(), session))

	// Stored under the expected key with a TTL.
	require.True(t, mr.Exists("session:sid-1"))
	assert.Greater(t, mr.TTL("session:sid-1"), time.Duration(0))

	got, err := store.Get(context.Background(), "sid-1")
	require.NoError(t, err)
	assert.Equal(t, "u1", got.UserID)
	assert.Equal(t, "owner@example.com", got.Email)
}

func TestRedisSessionExpiry(t *testing.T) {
	store, mr := newRedisStore(t)

	require.NoError(t, store.Create(context.Background(), testSession(time.Minute)))
	mr.FastForward(2 * time.Minute)

	_, err := store.Get(context.Background(), "sid-1")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestRedisSessionRejectsAlreadyExpired(t *testing.T) {
	store, _ := newRedisStore(t)
	assert.Error(t, store.Create(context.Background(), testSession(-time.Minute)))
}

func TestRedisSessionDelete(t *testing.T) {
	store, _ := newRedisStore(t)

	require.NoError(t, store.Create(context.Background(), testSession(time.Hour)))
	require.NoError(t, store.Delete(context.Background(), "sid-1"))

	_, err := store.Get(context.Background(), "sid-1")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestRedisSessionGetMissing(t *testing.T) {
	store, _ := newRedisStore(t)
	_, err := store.Get(context.Background(), "ghost")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestInMemorySessionExpiry(t *testing.T) {
	store := NewInMemorySessionStore()

	session := testSession(-time.Minute)
	require.NoError(t, store.Create(context.Background(), session))

	_, err := store.Get(context.Background(), session.ID)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}
