package services

import (
	"context"
	"testing"

	"github.com/Rakhulsr/go-storefront/app/events"
	"github.com/Rakhulsr/go-storefront/app/logging"
	"github.com/Rakhulsr/go-storefront/app/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSession(bus *events.Bus) (*Session, *storage.Memory, *storage.Memory) {
	local, session := storage.NewMemory(), storage.NewMemory()
	return NewSession(local, session, bus, logging.Discard()), local, session
}

func TestSession_LocalTokenWinsOverSessionToken(t *testing.T) {
	s, local, session := newTestSession(nil)
	ctx := context.Background()
	require.NoError(t, session.SetItem(ctx, AuthTokenKey, "from-session"))
	require.NoError(t, local.SetItem(ctx, AuthTokenKey, "from-local"))

	token, err := s.Token(ctx)

	require.NoError(t, err)
	assert.Equal(t, "from-local", token)
}

func TestSession_FallsBackToSessionStorage(t *testing.T) {
	s, _, session := newTestSession(nil)
	ctx := context.Background()
	require.NoError(t, session.SetItem(ctx, AuthTokenKey, "from-session"))

	token, err := s.Token(ctx)

	require.NoError(t, err)
	assert.Equal(t, "from-session", token)
	assert.True(t, s.Authenticated(ctx))
}

func TestSession_LoginRememberChoosesStorage(t *testing.T) {
	s, local, session := newTestSession(nil)
	ctx := context.Background()

	require.NoError(t, s.Login(ctx, "short", false))
	_, inLocal, _ := local.GetItem(ctx, AuthTokenKey)
	assert.False(t, inLocal)

	require.NoError(t, s.Login(ctx, "long", true))
	v, inLocal, _ := local.GetItem(ctx, AuthTokenKey)
	_, inSession, _ := session.GetItem(ctx, AuthTokenKey)
	assert.True(t, inLocal)
	assert.Equal(t, "long", v)
	assert.False(t, inSession)
}

func TestSession_LoginRejectsEmptyToken(t *testing.T) {
	s, _, _ := newTestSession(nil)

	assert.ErrorIs(t, s.Login(context.Background(), "", true), ErrUnauthenticated)
}

func TestSession_LogoutClearsBothAndPublishes(t *testing.T) {
	bus, ended := countingBus(events.SessionEnded)
	s, _, session := newTestSession(bus)
	ctx := context.Background()
	require.NoError(t, s.Login(ctx, "tok", true))
	require.NoError(t, session.SetItem(ctx, AuthTokenKey, "stale"))

	require.NoError(t, s.Logout(ctx))

	assert.False(t, s.Authenticated(ctx))
	assert.Equal(t, 1, *ended)
}

func TestSession_StorageErrorIsNotAuthenticated(t *testing.T) {
	local := newFlakyStorage()
	local.failGet = true
	s := NewSession(local, storage.NewMemory(), nil, logging.Discard())

	_, err := s.Token(context.Background())

	assert.ErrorIs(t, err, errStorageDown)
	assert.False(t, s.Authenticated(context.Background()))
}
