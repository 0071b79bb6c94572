// Package session holds authenticated operator sessions.
//
// A Manager is built once at startup with a Store and the backend login
// call. Sessions are addressed by a random id; browsers carry only that id in
// a signed cookie, the CLI keeps the whole session in a local file.
package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/prefeitura-rio/app-pessoas/internal/logging"
	"github.com/prefeitura-rio/app-pessoas/internal/models"
	"github.com/prefeitura-rio/app-pessoas/internal/observability"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// Session is one authenticated operator
type Session struct {
	ID        string      `json:"id"`
	Token     string      `json:"token"`
	User      models.User `json:"user"`
	CreatedAt time.Time   `json:"createdAt"`
	ExpiresAt time.Time   `json:"expiresAt"`
}

// Expired reports whether the session is past its expiry at now
func (s *Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && !now.Before(s.ExpiresAt)
}

// Store persists sessions by id
type Store interface {
	Save(ctx context.Context, s *Session, ttl time.Duration) error
	// Load returns models.ErrSessionNotFound for unknown ids and may return
	// models.ErrSessionExpired for sessions it already dropped
	Load(ctx context.Context, id string) (*Session, error)
	// Delete reports whether the id existed
	Delete(ctx context.Context, id string) (bool, error)
}

// Authenticator exchanges credentials for a backend token
type Authenticator interface {
	Login(ctx context.Context, creds models.LoginRequest) (*models.LoginResponse, error)
}

// Manager creates, looks up and disposes sessions
type Manager struct {
	store  Store
	auth   Authenticator
	ttl    time.Duration
	logger *logging.SafeLogger
	now    func() time.Time

	invalidations singleflight.Group

	mu        sync.RWMutex
	onDispose []func(id string)
}

// NewManager creates a Manager; ttl <= 0 means sessions never expire
func NewManager(store Store, auth Authenticator, ttl time.Duration, logger *logging.SafeLogger) *Manager {
	if logger == nil {
		logger = logging.Logger
	}
	return &Manager{
		store:  store,
		auth:   auth,
		ttl:    ttl,
		logger: logger.Named("session"),
		now:    time.Now,
	}
}

// OnDispose registers fn to run with the session id after logout or invalidation
func (m *Manager) OnDispose(fn func(id string)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onDispose = append(m.onDispose, fn)
}

// Login authenticates against the backend and persists a new session
func (m *Manager) Login(ctx context.Context, creds models.LoginRequest) (*Session, error) {
	creds.Email = strings.TrimSpace(creds.Email)
	if creds.Email == "" || creds.Password == "" {
		return nil, models.ErrMissingCredentials
	}

	resp, err := m.auth.Login(ctx, creds)
	if err != nil {
		observability.SessionEvents.WithLabelValues("login_failed").Inc()
		m.logger.Warn("login failed", zap.String("email", observability.MaskEmail(creds.Email)), zap.Error(err))
		return nil, err
	}

	now := m.now()
	s := &Session{
		ID:        uuid.NewString(),
		Token:     resp.AccessToken,
		User:      resp.User,
		CreatedAt: now,
	}
	if m.ttl > 0 {
		s.ExpiresAt = now.Add(m.ttl)
	}

	if err := m.store.Save(ctx, s, m.ttl); err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}

	observability.SessionEvents.WithLabelValues("login").Inc()
	m.logger.Info("session created", zap.String("session_id", s.ID), zap.String("user_id", s.User.ID))
	return s, nil
}

// Get returns the live session for id. Expired sessions are removed and
// reported as models.ErrSessionExpired. Dispose hooks run for expired and
// unknown ids alike, since a store may drop a session on its own.
func (m *Manager) Get(ctx context.Context, id string) (*Session, error) {
	if id == "" {
		return nil, models.ErrNotAuthenticated
	}
	s, err := m.store.Load(ctx, id)
	switch {
	case errors.Is(err, models.ErrSessionNotFound):
		m.dispose(id)
		return nil, err
	case errors.Is(err, models.ErrSessionExpired):
		m.expired(id)
		return nil, err
	case err != nil:
		return nil, err
	}
	if s.Expired(m.now()) {
		if _, err := m.store.Delete(ctx, id); err != nil {
			m.logger.Warn("failed to delete expired session", zap.String("session_id", id), zap.Error(err))
		}
		m.expired(id)
		return nil, models.ErrSessionExpired
	}
	return s, nil
}

func (m *Manager) expired(id string) {
	m.dispose(id)
	observability.SessionEvents.WithLabelValues("expired").Inc()
	m.logger.Debug("session expired", zap.String("session_id", id))
}

// Logout disposes the session. Unknown ids are not an error.
func (m *Manager) Logout(ctx context.Context, id string) error {
	if _, err := m.store.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	m.dispose(id)
	observability.SessionEvents.WithLabelValues("logout").Inc()
	m.logger.Info("session closed", zap.String("session_id", id))
	return nil
}

// Invalidate drops a session the backend rejected. When several requests of
// the same session fail at once, only one caller gets true and should handle
// the redirect to login.
func (m *Manager) Invalidate(ctx context.Context, id string) bool {
	if id == "" {
		return false
	}

	var ran bool
	v, err, _ := m.invalidations.Do(id, func() (interface{}, error) {
		ran = true
		existed, err := m.store.Delete(ctx, id)
		if err != nil {
			return false, err
		}
		if existed {
			m.dispose(id)
			observability.SessionEvents.WithLabelValues("invalidated").Inc()
			m.logger.Info("session invalidated by backend", zap.String("session_id", id))
		}
		return existed, nil
	})
	if err != nil {
		m.logger.Error("failed to invalidate session", zap.String("session_id", id), zap.Error(err))
		return false
	}
	return ran && v.(bool)
}

func (m *Manager) dispose(id string) {
	m.mu.RLock()
	hooks := append([]func(string){}, m.onDispose...)
	m.mu.RUnlock()

	for _, fn := range hooks {
		fn(id)
	}
}

type sessionKey struct{}

// WithSession stores s in ctx
func WithSession(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, sessionKey{}, s)
}

// FromContext returns the session stored by WithSession
func FromContext(ctx context.Context) (*Session, bool) {
	s, ok := ctx.Value(sessionKey{}).(*Session)
	return s, ok && s != nil
}
