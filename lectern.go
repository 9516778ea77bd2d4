package lectern

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	httpAdapter "github.com/lecternlabs/lectern/internal/adapters/http"
	"github.com/lecternlabs/lectern/internal/logging"
	"github.com/lecternlabs/lectern/internal/metrics"
	"github.com/lecternlabs/lectern/pkg/domain"
	"github.com/lecternlabs/lectern/pkg/registry"
)

// Service is the high-level entry point for the Lectern library. It wires
// the session registry, the TTL sweeper, the Prometheus collectors and the
// HTTP handler into one unit.
type Service struct {
	registry *registry.Registry
	sweeper  *registry.Sweeper
	metrics  *metrics.Metrics
	handler  http.Handler

	logger        *slog.Logger
	limits        domain.Limits
	ttl           time.Duration
	sweepInterval time.Duration
	noMetrics     bool
}

// Option defines a functional option for configuring the Service.
type Option func(*Service)

// WithLogger sets a custom structured logger for the service.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithLimits overrides the identifier and page size bounds.
func WithLimits(limits domain.Limits) Option {
	return func(s *Service) {
		s.limits = limits.Normalized()
	}
}

// WithSessionTTL sets how long a session may stay idle before the sweeper
// removes it.
func WithSessionTTL(ttl time.Duration) Option {
	return func(s *Service) {
		if ttl > 0 {
			s.ttl = ttl
		}
	}
}

// WithSweepInterval sets how often the sweeper scans for idle sessions.
func WithSweepInterval(interval time.Duration) Option {
	return func(s *Service) {
		if interval > 0 {
			s.sweepInterval = interval
		}
	}
}

// WithoutMetrics disables Prometheus instrumentation and the /metrics route.
func WithoutMetrics() Option {
	return func(s *Service) {
		s.noMetrics = true
	}
}

// New assembles a Service. It is ready to serve as soon as its Handler is
// mounted; the sweeper only runs once RunSweeper is started.
func New(opts ...Option) *Service {
	s := &Service{
		limits:        domain.DefaultLimits,
		ttl:           registry.DefaultSessionTTL,
		sweepInterval: registry.DefaultSweepInterval,
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.logger == nil {
		s.logger = logging.NewNop()
	}

	s.registry = registry.New(
		registry.WithLimits(s.limits),
		registry.WithLogger(s.logger),
	)

	sweepOpts := []registry.SweepOption{
		registry.WithInterval(s.sweepInterval),
		registry.WithTTL(s.ttl),
		registry.WithSweepLogger(s.logger),
	}

	if !s.noMetrics {
		s.metrics = metrics.New(func() float64 {
			return float64(s.registry.Count())
		})
		sweepOpts = append(sweepOpts, registry.WithOnSweep(func(removed int) {
			s.metrics.SessionsExpired.Add(float64(removed))
		}))
	}

	s.sweeper = registry.NewSweeper(s.registry, sweepOpts...)

	httpOpts := []httpAdapter.Option{
		httpAdapter.WithLogger(s.logger),
		httpAdapter.WithLimits(s.limits),
	}
	if s.metrics != nil {
		httpOpts = append(httpOpts, httpAdapter.WithMetrics(s.metrics))
	}
	s.handler = httpAdapter.NewHandler(s.registry, httpOpts...)

	return s
}

// Handler returns the HTTP handler with the full route table mounted.
func (s *Service) Handler() http.Handler {
	return s.handler
}

// Registry exposes the underlying session registry for embedders that want
// to drive sessions programmatically.
func (s *Service) Registry() *registry.Registry {
	return s.registry
}

// RunSweeper blocks, expiring idle sessions on the configured interval until
// ctx is canceled.
func (s *Service) RunSweeper(ctx context.Context) error {
	return s.sweeper.Run(ctx)
}

// Sweep runs one expiry pass against the given clock reading and reports how
// many sessions were removed.
func (s *Service) Sweep(now time.Time) int {
	return s.sweeper.Sweep(now)
}
