package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Rakhulsr/go-storefront/app/events"
	"github.com/Rakhulsr/go-storefront/app/storage"
)

const AuthTokenKey = "authToken"

// TokenSource yields the bearer token for remote calls, or "" when the shopper
// is not logged in.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// Session tracks the shopper's auth token across a persistent ("remember me")
// storage and a per-session storage. The persistent one is always consulted
// first.
type Session struct {
	local   storage.Storage
	session storage.Storage
	bus     *events.Bus
	logger  *slog.Logger
}

func NewSession(local, session storage.Storage, bus *events.Bus, logger *slog.Logger) *Session {
	if logger == nil {
		logger = slog.Default()
	}
	return &Session{local: local, session: session, bus: bus, logger: logger}
}

func (s *Session) Token(ctx context.Context) (string, error) {
	for _, store := range []storage.Storage{s.local, s.session} {
		token, found, err := store.GetItem(ctx, AuthTokenKey)
		if err != nil {
			return "", fmt.Errorf("failed to read auth token: %w", err)
		}
		if found && token != "" {
			return token, nil
		}
	}
	return "", nil
}

func (s *Session) Authenticated(ctx context.Context) bool {
	token, err := s.Token(ctx)
	if err != nil {
		s.logger.Error("Session.Authenticated: token lookup failed", "err", err)
		return false
	}
	return token != ""
}

// Login stores token in persistent storage when remember is set, otherwise in
// session storage. The other location is cleared so only one copy exists.
func (s *Session) Login(ctx context.Context, token string, remember bool) error {
	if token == "" {
		return ErrUnauthenticated
	}

	target, other := s.session, s.local
	if remember {
		target, other = s.local, s.session
	}

	if err := target.SetItem(ctx, AuthTokenKey, token); err != nil {
		return fmt.Errorf("failed to store auth token: %w", err)
	}
	if err := other.RemoveItem(ctx, AuthTokenKey); err != nil {
		s.logger.Warn("Session.Login: failed to clear stale token copy", "err", err)
	}

	if s.bus != nil {
		s.bus.Publish(events.CartChanged)
	}
	return nil
}

// Logout drops the token from both storages and tells badges to forget their
// cached counts.
func (s *Session) Logout(ctx context.Context) error {
	errLocal := s.local.RemoveItem(ctx, AuthTokenKey)
	errSession := s.session.RemoveItem(ctx, AuthTokenKey)

	if s.bus != nil {
		s.bus.Publish(events.SessionEnded)
	}

	if err := errors.Join(errLocal, errSession); err != nil {
		return fmt.Errorf("failed to clear auth token: %w", err)
	}
	return nil
}
