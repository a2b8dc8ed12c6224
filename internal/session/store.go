// Package session holds the authenticated identity of one browser client and
// mirrors it to durable client storage.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"go.uber.org/zap"

	"github.com/eureka-quiz/web/internal/models"
	"github.com/eureka-quiz/web/internal/notify"
)

// LogoutMessage is shown after an explicit logout.
const LogoutMessage = "Logout Successful!"

// Store is the Session Store of one client. At most one session is active.
type Store struct {
	clientID string
	storage  Storage
	notes    *notify.Queue
	logger   *zap.Logger

	mu      sync.RWMutex
	current *models.Session
}

// NewStore creates an empty store. Call Restore once before use.
func NewStore(clientID string, storage Storage, notes *notify.Queue, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{clientID: clientID, storage: storage, notes: notes, logger: logger}
}

// Restore re-establishes the durable session verbatim. Absent or malformed
// records yield no session and no error. A session already set by Login wins.
func (s *Store) Restore(ctx context.Context) *models.Session {
	raw, err := s.storage.Get(ctx, s.clientID, UserKey)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			s.logger.Warn("restore session", zap.String("client_id", s.clientID), zap.Error(err))
		}
		return nil
	}
	var sess models.Session
	if err := json.Unmarshal(raw, &sess); err != nil || sess.Username == "" {
		s.logger.Debug("discarding malformed session record", zap.String("client_id", s.clientID))
		return nil
	}
	s.mu.Lock()
	if s.current == nil {
		s.current = &sess
	}
	s.mu.Unlock()
	return s.Current()
}

// Login replaces any prior session entirely and mirrors it to durable storage.
// The in-memory session is set even when the durable write fails.
func (s *Store) Login(ctx context.Context, sess models.Session) error {
	cp := sess
	s.mu.Lock()
	s.current = &cp
	s.mu.Unlock()

	raw, err := json.Marshal(cp)
	if err != nil {
		return err
	}
	if err := s.storage.Set(ctx, s.clientID, UserKey, raw); err != nil {
		s.logger.Error("persist session", zap.String("client_id", s.clientID), zap.Error(err))
		return err
	}
	return nil
}

// Logout clears both copies and emits the logout confirmation.
func (s *Store) Logout(ctx context.Context) error {
	err := s.clear(ctx)
	s.notes.Success(LogoutMessage)
	return err
}

// Clear drops the session without a confirmation. It is the subscriber of
// the backend's unauthenticated signal.
func (s *Store) Clear(ctx context.Context) {
	if err := s.clear(ctx); err != nil {
		s.logger.Error("clear session", zap.String("client_id", s.clientID), zap.Error(err))
	}
}

func (s *Store) clear(ctx context.Context) error {
	s.mu.Lock()
	s.current = nil
	s.mu.Unlock()
	return s.storage.Delete(ctx, s.clientID, UserKey)
}

// Current returns a copy of the active session, or nil.
func (s *Store) Current() *models.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return nil
	}
	cp := *s.current
	return &cp
}

// IsAuthenticated reports whether a session is present. Role is not checked.
func (s *Store) IsAuthenticated() bool {
	return s.Current() != nil
}

// Token returns the bearer token of the active session, or "".
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return ""
	}
	return s.current.AccessToken
}
