package registry

import (
	"context"
	"log/slog"
	"time"

	"github.com/lecternlabs/lectern/internal/logging"
)

const (
	// DefaultSweepInterval is how often the sweeper scans for idle sessions.
	DefaultSweepInterval = time.Hour

	// DefaultSessionTTL is how long a session may stay idle before a sweep
	// removes it.
	DefaultSessionTTL = 24 * time.Hour
)

// Sweeper periodically removes sessions that have been idle longer than the
// configured TTL. It is the only piece of the system that deletes state, so
// everything else can treat the registry as append-only.
type Sweeper struct {
	registry *Registry
	interval time.Duration
	ttl      time.Duration
	logger   *slog.Logger
	onSweep  func(removed int)
}

// SweepOption configures the Sweeper.
type SweepOption func(*Sweeper)

// WithInterval sets how often the sweeper runs. Non-positive values are
// ignored.
func WithInterval(d time.Duration) SweepOption {
	return func(s *Sweeper) {
		if d > 0 {
			s.interval = d
		}
	}
}

// WithTTL sets how long a session may stay idle before removal. Non-positive
// values are ignored.
func WithTTL(d time.Duration) SweepOption {
	return func(s *Sweeper) {
		if d > 0 {
			s.ttl = d
		}
	}
}

// WithSweepLogger configures a logger for sweep results.
func WithSweepLogger(logger *slog.Logger) SweepOption {
	return func(s *Sweeper) {
		s.logger = logger
	}
}

// WithOnSweep registers a hook invoked after every sweep with the number of
// sessions removed, including zero.
func WithOnSweep(fn func(removed int)) SweepOption {
	return func(s *Sweeper) {
		s.onSweep = fn
	}
}

// NewSweeper creates a sweeper for the given registry.
func NewSweeper(registry *Registry, opts ...SweepOption) *Sweeper {
	s := &Sweeper{
		registry: registry,
		interval: DefaultSweepInterval,
		ttl:      DefaultSessionTTL,
		logger:   logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run sweeps at the configured interval until ctx is canceled. It always
// returns ctx.Err().
func (s *Sweeper) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			s.Sweep(time.Now())
		}
	}
}

// Sweep runs a single expiry pass against the given clock reading and
// reports how many sessions were removed.
func (s *Sweeper) Sweep(now time.Time) int {
	removed := s.registry.ExpireOlderThan(now, s.ttl)
	if s.onSweep != nil {
		s.onSweep(removed)
	}
	if removed > 0 {
		s.logger.Info("expired idle sessions", "removed", removed, "ttl", s.ttl)
	}
	return removed
}
