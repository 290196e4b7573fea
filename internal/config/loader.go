package config

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const envPrefix = "SHEETBOARD_"

// EnvConfigFile names the variable holding the optional YAML file path.
const EnvConfigFile = envPrefix + "CONFIG"

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New(ctx))
//  2. file (YAML) if SHEETBOARD_CONFIG is set
//  3. env (prefix SHEETBOARD_)
func Load(ctx context.Context) (*Config, error) {
	k := koanf.New(".")

	if path := os.Getenv(EnvConfigFile); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrLoadConfig, path, err)
		}
	}

	// SHEETBOARD_SPREADSHEET_ID -> spreadsheet_id; keys stay flat.
	envProvider := env.Provider(envPrefix, ".", func(s string) string {
		return strings.TrimPrefix(strings.ToLower(s), strings.ToLower(envPrefix))
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: env: %v", ErrLoadConfig, err)
	}

	cfg := New(ctx)
	if err := k.UnmarshalWithConf("", cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoadConfig, err)
	}
	// Decoding merges into the default slice; replace it outright.
	if modes := listValue(k.Get("modes")); modes != nil {
		cfg.Modes = modes
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// listValue accepts a YAML list or a comma separated env value.
func listValue(v any) []string {
	var items []string
	switch t := v.(type) {
	case nil:
		return nil
	case string:
		items = strings.Split(t, ",")
	case []string:
		items = t
	case []any:
		for _, e := range t {
			items = append(items, fmt.Sprint(e))
		}
	default:
		items = []string{fmt.Sprint(t)}
	}
	out := make([]string, 0, len(items))
	for _, s := range items {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
