package config

import (
	"context"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/rotisserie/eris"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "DRAWDOWN_"

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New())
//  2. file (YAML) if DRAWDOWN_CONFIG is set
//  3. env (prefix DRAWDOWN_)
func Load(_ context.Context) (*Config, error) {
	return LoadFile(os.Getenv(EnvPrefix + "CONFIG"))
}

// LoadFile is Load with an explicit YAML path; an empty path skips the file layer.
func LoadFile(path string) (*Config, error) {
	k := koanf.New(".")

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, eris.Wrapf(ErrLoadConfig, "read %s: %v", path, err)
		}
	}

	// DRAWDOWN_QUEUE_SIZE -> queue_size; underscores are kept to match the tags.
	envProvider := env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.TrimPrefix(strings.ToLower(s), strings.ToLower(EnvPrefix))
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, eris.Wrapf(ErrLoadConfig, "env: %v", err)
	}

	cfg := New()
	if err := k.UnmarshalWithConf("", cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, eris.Wrapf(ErrLoadConfig, "unmarshal: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
