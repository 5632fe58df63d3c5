package config

import (
	"fmt"
	"strings"

	"github.com/caarlos0/env/v11"
)

// EnvPrefix is prepended to every variable name read by [parseEnv].
const EnvPrefix = "TESTRENAME_"

// parseEnv populates cfg from TESTRENAME_* environment variables using the
// `env` struct tags on [Config]. Unset variables leave fields at their zero
// value so the later merge keeps the defaults.
func parseEnv(cfg *Config) error {
	if err := env.ParseWithOptions(cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return fmt.Errorf("error getting env configs: %w", err)
	}
	return nil
}

// UnmarshalText lets env and flag parse a ColorMode case-insensitively.
func (m *ColorMode) UnmarshalText(text []byte) error {
	v := ColorMode(strings.ToLower(strings.TrimSpace(string(text))))
	switch v {
	case ColorAuto, ColorAlways, ColorNever:
		*m = v
		return nil
	}
	return fmt.Errorf("%w: color %q (use 'auto', 'always' or 'never')", ErrInvalidConfig, string(text))
}
