package dfa

// Config configures per-pattern DFA construction.
type Config struct {
	// MaxStates is the maximum number of states subset construction may
	// create for one pattern before giving up.
	//
	// Default: 100,000 states
	MaxStates int

	// Minimize enables partition-refinement minimization after dead-state
	// pruning.
	//
	// Default: true
	Minimize bool
}

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() Config {
	return Config{
		MaxStates: 100_000,
		Minimize:  true,
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.MaxStates <= 0 {
		return &Error{
			Kind:    InvalidConfig,
			Message: "MaxStates must be > 0",
		}
	}
	return nil
}

// WithMaxStates returns a new config with the specified max states
func (c Config) WithMaxStates(maxStates int) Config {
	c.MaxStates = maxStates
	return c
}

// WithMinimize returns a new config with minimization enabled/disabled
func (c Config) WithMinimize(enabled bool) Config {
	c.Minimize = enabled
	return c
}
