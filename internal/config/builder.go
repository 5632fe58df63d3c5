package config

import (
	"errors"
	"fmt"

	"dario.cat/mergo"
)

// Load builds the runtime Config: defaults, then TESTRENAME_* environment
// variables, then CLI flags, each layer overriding the non-zero fields of the
// previous one. The merged result is validated before it is returned.
//
// A --help request is returned as [flag.ErrHelp] unchanged.
func Load(args []string) (*Config, error) {
	return newConfigBuilder().
		withDefaults().
		withEnv().
		withFlags(args).
		build()
}

type configBuilder struct {
	configs []*Config
	err     error

	flagCfg  *Config
	explicit explicitFlags
}

func newConfigBuilder() *configBuilder {
	return &configBuilder{
		configs: make([]*Config, 0, 3),
	}
}

func (b *configBuilder) build() (*Config, error) {
	if b.err != nil {
		return nil, b.err
	}

	cfg := new(Config)
	for _, layer := range b.configs {
		if err := mergo.Merge(cfg, layer, mergo.WithOverride); err != nil {
			return nil, fmt.Errorf("error merging configs: %w", err)
		}
	}
	if b.flagCfg != nil {
		applyExplicitZeros(cfg, b.flagCfg, b.explicit)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (b *configBuilder) withDefaults() *configBuilder {
	defaults := DefaultConfig()
	b.configs = append(b.configs, &defaults)
	return b
}

func (b *configBuilder) withEnv() *configBuilder {
	envCfg := &Config{}
	if err := parseEnv(envCfg); err != nil {
		b.err = errors.Join(b.err, err)
		return b
	}

	b.configs = append(b.configs, envCfg)
	return b
}

func (b *configBuilder) withFlags(args []string) *configBuilder {
	if b.err != nil {
		return b
	}
	flagCfg, set, err := parseFlags(args)
	if err != nil {
		b.err = err
		return b
	}

	b.configs = append(b.configs, flagCfg)
	b.flagCfg = flagCfg
	b.explicit = set
	return b
}
