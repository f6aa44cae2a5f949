package virtual

import (
	"go.uber.org/zap"

	"github.com/grindlemire/go-virtual/internal/debug"
)

const (
	// DefaultAheadMargin is the prerender distance in the direction of travel.
	DefaultAheadMargin = 500
	// DefaultBehindMargin is the prerender distance behind the direction of
	// travel, and on both sides when the direction is unknown.
	DefaultBehindMargin = 100
	// DefaultInitialCount is how many leading items are materialized when
	// nothing is known to intersect the window yet.
	DefaultInitialCount = 30

	// maxPasses bounds how many times a pass repeats because of
	// notifications that arrived while it was running.
	maxPasses = 4
)

// settings holds the engine configuration assembled from Options.
type settings struct {
	ahead        int
	behind       int
	initialCount int
	maxHidden    int
	logger       *zap.Logger
}

func defaultSettings() settings {
	return settings{
		ahead:        DefaultAheadMargin,
		behind:       DefaultBehindMargin,
		initialCount: DefaultInitialCount,
	}
}

// Option configures an Engine.
type Option func(*settings)

// WithMargins sets the prerender margins. ahead applies in the direction of
// scrolling, behind applies opposite to it and on both sides when idle.
func WithMargins(ahead, behind int) Option {
	return func(s *settings) {
		s.ahead = max(ahead, 0)
		s.behind = max(behind, 0)
	}
}

// WithInitialCount sets how many leading items are materialized when no
// item is known to intersect the window.
func WithInitialCount(n int) Option {
	return func(s *settings) {
		s.initialCount = max(n, 0)
	}
}

// WithMaxHidden caps how many no-longer-visible elements stay mounted in
// hidden state. Zero keeps every one of them.
func WithMaxHidden(n int) Option {
	return func(s *settings) {
		s.maxHidden = max(n, 0)
	}
}

// WithLogger sets the logger used for warnings and pass tracing.
// Without it the engine logs to the VLIST_DEBUG file, if any.
func WithLogger(l *zap.Logger) Option {
	return func(s *settings) {
		s.logger = l
	}
}

func buildSettings(opts []Option) settings {
	s := defaultSettings()
	for _, opt := range opts {
		opt(&s)
	}
	if s.logger == nil {
		s.logger = debug.Logger()
	}
	return s
}
