// Package settings carries the knobs that size an exploration run: how many
// examples to draw, how hard to shrink a counterexample, and whether draws
// replay a fixed seed.
package settings

import (
	"fmt"
	"sync"
)

const (
	// DefaultMaxExamples is the number of records drawn per view when no
	// override is given.
	DefaultMaxExamples = 100
	// DefaultMaxShrinks bounds the shrink search for a counterexample.
	DefaultMaxShrinks = 1000
)

// Settings hold the exploration budget for a single run. A nil Seed means
// every run draws fresh randomness; a set Seed replays the same sequence.
type Settings struct {
	MaxExamples int
	MaxShrinks  int
	Seed        *int64
}

// Option mutates settings during construction or override.
type Option func(*Settings)

// WithMaxExamples sets how many records are drawn per view.
func WithMaxExamples(n int) Option {
	return func(s *Settings) {
		s.MaxExamples = n
	}
}

// WithMaxShrinks caps the shrink attempts spent on a counterexample.
func WithMaxShrinks(n int) Option {
	return func(s *Settings) {
		s.MaxShrinks = n
	}
}

// WithSeed pins the random sequence so a run can be replayed.
func WithSeed(seed int64) Option {
	return func(s *Settings) {
		s.Seed = &seed
	}
}

// WithoutSeed clears a pinned seed.
func WithoutSeed() Option {
	return func(s *Settings) {
		s.Seed = nil
	}
}

// New builds settings from the package defaults plus the given options.
func New(options ...Option) Settings {
	s := Settings{
		MaxExamples: DefaultMaxExamples,
		MaxShrinks:  DefaultMaxShrinks,
	}
	return s.Override(options...)
}

// Override returns a copy with the given options applied. The receiver is
// not modified; a pinned seed is copied, never shared.
func (s Settings) Override(options ...Option) Settings {
	out := s
	if s.Seed != nil {
		seed := *s.Seed
		out.Seed = &seed
	}
	for _, opt := range options {
		if opt != nil {
			opt(&out)
		}
	}
	return out
}

// Validate rejects budgets an engine cannot honour.
func (s Settings) Validate() error {
	if s.MaxExamples <= 0 {
		return fmt.Errorf("settings: max examples must be positive, got %d", s.MaxExamples)
	}
	if s.MaxShrinks < 0 {
		return fmt.Errorf("settings: max shrinks must not be negative, got %d", s.MaxShrinks)
	}
	return nil
}

var (
	defaultMu sync.RWMutex
	defaults  = Settings{
		MaxExamples: DefaultMaxExamples,
		MaxShrinks:  DefaultMaxShrinks,
	}
)

// Default returns a copy of the process-wide settings new runners start from.
func Default() Settings {
	defaultMu.RLock()
	defer defaultMu.RUnlock()
	return defaults.Override()
}

// SetDefault adjusts the process-wide defaults and returns the result.
func SetDefault(options ...Option) Settings {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	defaults = defaults.Override(options...)
	return defaults.Override()
}
