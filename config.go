package multiregex

import (
	"fmt"
	"log/slog"

	"github.com/coregx/multiregex/dfa"
	"github.com/coregx/multiregex/dfa/multi"
	"github.com/coregx/multiregex/syntax"
)

// Config controls how a pattern set is compiled.
//
// Example:
//
//	cfg := multiregex.DefaultConfig().WithStateLimit(4096)
//	a, err := multiregex.Build(cfg, patterns)
type Config struct {
	// StateLimit bounds the number of combined states. Sets of raw states
	// discovered past the limit become pending states that are scanned
	// state by state. Zero or a negative value means twice the total number
	// of per-pattern DFA states.
	// Default: 0
	StateLimit int

	// DFA configures the per-pattern subset construction.
	// Default: dfa.DefaultConfig()
	DFA dfa.Config

	// Prefilter enables literal prefilters for the confirmation phase.
	// Default: true
	Prefilter bool

	// Resolver resolves <name> references. Nil means a fresh library that
	// sees only the patterns added to the same builder.
	Resolver syntax.Resolver

	// Logger receives build diagnostics. Nil discards them.
	Logger *slog.Logger
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		DFA:       dfa.DefaultConfig(),
		Prefilter: true,
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.StateLimit > multi.MaxStateLimit {
		return fmt.Errorf("%w: StateLimit must be <= %d", ErrInvalidConfig, multi.MaxStateLimit)
	}
	if err := c.DFA.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return nil
}

// WithStateLimit returns a new config with the specified combined state limit.
func (c Config) WithStateLimit(limit int) Config {
	c.StateLimit = limit
	return c
}

// WithDFA returns a new config with the specified subset construction config.
func (c Config) WithDFA(cfg dfa.Config) Config {
	c.DFA = cfg
	return c
}

// WithPrefilter returns a new config with prefilters enabled or disabled.
func (c Config) WithPrefilter(enabled bool) Config {
	c.Prefilter = enabled
	return c
}

// WithResolver returns a new config with the specified name resolver.
func (c Config) WithResolver(r syntax.Resolver) Config {
	c.Resolver = r
	return c
}

// WithLogger returns a new config with the specified logger.
func (c Config) WithLogger(l *slog.Logger) Config {
	c.Logger = l
	return c
}

func (c *Config) logger() *slog.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return slog.New(slog.DiscardHandler)
}
