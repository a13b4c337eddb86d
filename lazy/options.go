package lazy

import (
	"time"

	"go.uber.org/zap"
)

// Observer receives load and lookup outcomes, e.g. for metrics.
// Implementations must be safe for concurrent use.
type Observer interface {
	// ObserveLoad is called after every load attempt. err is nil on success.
	ObserveLoad(table string, d time.Duration, records int, err error)
	ObserveLookup(table string, hit bool)
}

type nopObserver struct{}

func (nopObserver) ObserveLoad(string, time.Duration, int, error) {}
func (nopObserver) ObserveLookup(string, bool)                    {}

func orNopObserver(o Observer) Observer {
	if o == nil {
		return nopObserver{}
	}
	return o
}

type settings struct {
	log *zap.SugaredLogger
	obs Observer
}

// Option configures a Cache, and the stores built on it.
type Option func(*settings)

// WithLogger sets the logger; nil means silent.
func WithLogger(l *zap.SugaredLogger) Option {
	return func(s *settings) { s.log = l }
}

// WithObserver sets the load and lookup observer.
func WithObserver(o Observer) Option {
	return func(s *settings) { s.obs = o }
}

// Logger returns the logger configured by opts, or a no-op logger.
func Logger(opts ...Option) *zap.SugaredLogger {
	s := settings{}
	for _, opt := range opts {
		opt(&s)
	}
	if s.log == nil {
		return zap.NewNop().Sugar()
	}
	return s.log
}
