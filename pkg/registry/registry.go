package registry

import (
	"log/slog"
	"sync"
	"time"

	"github.com/lecternlabs/lectern/internal/logging"
	"github.com/lecternlabs/lectern/pkg/domain"
)

// session is one live broadcast channel: the page currently shown and the
// responses collected since the page was last set.
type session struct {
	page       string
	responses  map[string]string
	lastUpdate time.Time
}

// Registry is the single source of truth for all session state. Every
// operation is atomic with respect to every other operation; operations on
// the same session are linearized by lock acquisition order.
//
// Safe for concurrent use.
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]*session

	limits domain.Limits
	logger *slog.Logger
}

// Option configures the Registry.
type Option func(*Registry)

// WithLimits overrides the identifier and payload bounds.
func WithLimits(limits domain.Limits) Option {
	return func(r *Registry) {
		r.limits = limits.Normalized()
	}
}

// WithLogger configures a logger for session lifecycle events.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Registry) {
		r.logger = logger
	}
}

// New creates an empty registry.
func New(opts ...Option) *Registry {
	r := &Registry{
		sessions: make(map[string]*session),
		limits:   domain.DefaultLimits,
		logger:   logging.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Page returns the content most recently published for the session. Reading
// a page does not refresh the session's idle clock.
func (r *Registry) Page(sessionID string) (string, error) {
	if err := r.limits.ValidateSessionID(sessionID); err != nil {
		return "", err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.sessions[sessionID]
	if !ok {
		return "", domain.ErrSessionNotFound
	}
	return s.page, nil
}

// SetPage publishes content under the session, creating the session if it
// does not exist yet. Setting a page starts a new round: every response
// recorded for the previous page is discarded in the same critical section,
// so stale answers can never leak into the new tally.
func (r *Registry) SetPage(sessionID, content string) error {
	if err := r.limits.ValidateSessionID(sessionID); err != nil {
		return err
	}
	if err := r.limits.ValidatePage(content); err != nil {
		return err
	}

	r.mu.Lock()
	s, existed := r.sessions[sessionID]
	if !existed {
		s = &session{}
		r.sessions[sessionID] = s
	}
	s.page = content
	s.responses = make(map[string]string)
	s.lastUpdate = time.Now()
	r.mu.Unlock()

	if !existed {
		r.logger.Debug("session created", "session_id", sessionID)
	}
	return nil
}

// ResetResponses discards the responses recorded for the session, leaving
// the page content and the idle clock untouched. Resetting a session that
// does not exist is a no-op, not an error.
func (r *Registry) ResetResponses(sessionID string) error {
	if err := r.limits.ValidateSessionID(sessionID); err != nil {
		return err
	}

	r.mu.Lock()
	if s, ok := r.sessions[sessionID]; ok {
		s.responses = make(map[string]string)
	}
	r.mu.Unlock()
	return nil
}

// Respond records a participant's response for the current round. A later
// response from the same user replaces the earlier one (last write wins).
// Responding never creates a session: publishing a page is what brings one
// into existence.
func (r *Registry) Respond(sessionID, userID, body string) error {
	if err := r.limits.ValidateSessionID(sessionID); err != nil {
		return err
	}
	if err := r.limits.ValidateUserID(userID); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sessions[sessionID]
	if !ok {
		return domain.ErrSessionNotFound
	}
	s.responses[userID] = body
	s.lastUpdate = time.Now()
	return nil
}

// Responses returns the responses recorded for the session, keyed by user
// ID. The result is a snapshot; callers may mutate it freely.
func (r *Registry) Responses(sessionID string) (map[string]string, error) {
	if err := r.limits.ValidateSessionID(sessionID); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.sessions[sessionID]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}

	// Copy on read so callers can't mutate registry state through the map.
	snapshot := make(map[string]string, len(s.responses))
	for user, body := range s.responses {
		snapshot[user] = body
	}
	return snapshot, nil
}

// Count returns the number of live sessions.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// ExpireOlderThan removes every session whose last update lies more than ttl
// before now, and reports how many were removed. A session updated exactly
// ttl ago survives. The scan is linear in the number of live sessions and
// runs entirely in memory, so the lock is never held across I/O.
func (r *Registry) ExpireOlderThan(now time.Time, ttl time.Duration) int {
	r.mu.Lock()
	removed := 0
	for id, s := range r.sessions {
		if now.After(s.lastUpdate.Add(ttl)) {
			delete(r.sessions, id)
			removed++
		}
	}
	r.mu.Unlock()

	if removed > 0 {
		r.logger.Debug("sessions expired", "removed", removed)
	}
	return removed
}
