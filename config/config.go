// Package config holds search-time tuning parameters (§4.3, §4.2.5):
// the restart probability, state and determinization cap settings, and
// the driver's progress-reporting interval. A TOML file
// overrides any subset of these; anything it omits falls back to
// DefaultConfig.
package config

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

// Config controls driver and compiler tuning. Every field has a coded
// default (DefaultConfig) so a caller never has to supply a config file
// at all.
type Config struct {
	// Restart is the discount factor the driver's restart rule applies
	// when considering a jump back to the trie root (§4.3.3.5). Zero
	// disables the rule.
	// Default: 1e-6
	Restart float64 `toml:"restart"`

	// MaxDFAStates is a state-count cap for determinization. It is
	// loaded and range-checked by Validate, but the pattern compiler
	// does not read it: no cap is applied to determinization.
	// Default: 100000
	MaxDFAStates int `toml:"max_dfa_states"`

	// DeterminizationLimit is a cap on subset-construction steps per
	// compiled pattern. It is loaded and range-checked by Validate, but
	// the pattern compiler does not read it: no step limit is applied.
	// Default: 1000000
	DeterminizationLimit int `toml:"determinization_limit"`

	// ProgressInterval is how many popped search-queue entries elapse
	// between "# <n>" progress markers (§6).
	// Default: 100000
	ProgressInterval int `toml:"progress_interval"`
}

// DefaultConfig returns the coded defaults used when no file is loaded
// or a loaded file omits a field.
func DefaultConfig() Config {
	return Config{
		Restart:              1e-6,
		MaxDFAStates:         100_000,
		DeterminizationLimit: 1_000_000,
		ProgressInterval:     100_000,
	}
}

// Validate checks that every field is within a sane range, the way
// meta.Config.Validate does for the teacher's engine tuning knobs.
//
// Valid ranges:
//   - Restart: 0 to 1 (inclusive; 0 disables the restart rule entirely)
//   - MaxDFAStates: 1 to 10,000,000
//   - DeterminizationLimit: 1,000 to 100,000,000
//   - ProgressInterval: 1 to 100,000,000
func (c Config) Validate() error {
	if c.Restart < 0 || c.Restart > 1 {
		return &ConfigError{Field: "Restart", Message: "must be between 0 and 1"}
	}
	if c.MaxDFAStates < 1 || c.MaxDFAStates > 10_000_000 {
		return &ConfigError{Field: "MaxDFAStates", Message: "must be between 1 and 10,000,000"}
	}
	if c.DeterminizationLimit < 1_000 || c.DeterminizationLimit > 100_000_000 {
		return &ConfigError{Field: "DeterminizationLimit", Message: "must be between 1,000 and 100,000,000"}
	}
	if c.ProgressInterval < 1 || c.ProgressInterval > 100_000_000 {
		return &ConfigError{Field: "ProgressInterval", Message: "must be between 1 and 100,000,000"}
	}
	return nil
}

// ConfigError names the offending field and why it failed Validate.
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return "nutrimatic: invalid config: " + e.Field + ": " + e.Message
}

// Load reads a TOML file at path over DefaultConfig — any field the
// file doesn't set keeps its coded default — and validates the result.
func Load(path string) (Config, error) {
	c := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := toml.Unmarshal(data, &c); err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}
