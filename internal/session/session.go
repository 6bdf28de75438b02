package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Skotchmaster/online_pharmacy/pkg/tokens"
)

var ErrNoSession = errors.New("session: not found")

// Backend stores session id -> user id with expiry.
type Backend interface {
	Save(ctx context.Context, sessionID, userID string, ttl time.Duration) error
	Load(ctx context.Context, sessionID string) (string, error)
	Delete(ctx context.Context, sessionID string) error
	Close() error
}

type Manager struct {
	Backend Backend
	Secret  []byte
	TTL     time.Duration
}

func NewManager(backend Backend, secret []byte, ttl time.Duration) *Manager {
	return &Manager{Backend: backend, Secret: secret, TTL: ttl}
}

func (m *Manager) Create(ctx context.Context, userID string) (string, time.Time, error) {
	sid := uuid.NewString()
	exp := time.Now().Add(m.TTL)

	token, err := tokens.SignSession(sid, userID, exp, m.Secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("session: sign: %w", err)
	}
	if err := m.Backend.Save(ctx, sid, userID, m.TTL); err != nil {
		return "", time.Time{}, fmt.Errorf("session: save: %w", err)
	}
	return token, exp, nil
}

// Resolve returns the user id bound to token, or ErrNoSession when the token
// is forged, expired or was revoked.
func (m *Manager) Resolve(ctx context.Context, token string) (string, error) {
	if token == "" {
		return "", ErrNoSession
	}
	claims, err := tokens.SessionClaimsFromToken(token, m.Secret)
	if err != nil {
		return "", ErrNoSession
	}

	userID, err := m.Backend.Load(ctx, claims.ID)
	if err != nil {
		return "", err
	}
	if userID != claims.Subject {
		return "", ErrNoSession
	}
	return userID, nil
}

func (m *Manager) Destroy(ctx context.Context, token string) error {
	claims, err := tokens.SessionClaimsFromToken(token, m.Secret)
	if err != nil {
		return nil
	}
	return m.Backend.Delete(ctx, claims.ID)
}

func (m *Manager) Close() error {
	return m.Backend.Close()
}
