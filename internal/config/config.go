// Package config loads .jsxlint configuration files, .env files and
// JSXLINT_* environment overrides.
package config

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/termfx/jsxlint/core"
	"github.com/termfx/jsxlint/linter"
	"github.com/termfx/jsxlint/rules"
)

// ErrConfig wraps every configuration failure.
var ErrConfig = errors.New("configuration error")

// EnvPrefix prefixes environment overrides: JSXLINT_EXTENDS, JSXLINT_CACHE_DSN, ...
const EnvPrefix = "JSXLINT"

// FileNames are searched, in order, when no config path is given.
var FileNames = []string{".jsxlint.yaml", ".jsxlint.yml", ".jsxlint.json", ".jsxlint.toml"}

// DefaultDSN is the cache database used when caching is enabled without a DSN.
const DefaultDSN = ".jsxlint/cache.db"

// CacheConfig controls the result cache and run history.
type CacheConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	DSN     string `mapstructure:"dsn"`
	Keep    int    `mapstructure:"keep"` // runs kept in history
}

// Config is the decoded configuration.
type Config struct {
	Extends     string         `mapstructure:"extends"`
	Rules       map[string]any `mapstructure:"rules"`
	Include     []string       `mapstructure:"include"`
	Exclude     []string       `mapstructure:"exclude"`
	Cache       CacheConfig    `mapstructure:"cache"`
	Workers     int            `mapstructure:"workers"`
	MaxWarnings int            `mapstructure:"maxWarnings"`
	Format      string         `mapstructure:"format"`
	LogLevel    string         `mapstructure:"logLevel"`

	// Path is the file the configuration was read from, if any.
	Path string `mapstructure:"-"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("extends", rules.PresetRecommended)
	v.SetDefault("rules", map[string]any{})
	v.SetDefault("include", []string{})
	v.SetDefault("exclude", []string{})
	v.SetDefault("cache.enabled", false)
	v.SetDefault("cache.dsn", DefaultDSN)
	v.SetDefault("cache.keep", 50)
	v.SetDefault("workers", 0)
	v.SetDefault("maxWarnings", -1)
	v.SetDefault("format", "text")
	v.SetDefault("logLevel", "warn")
}

// Discover returns the first config file found in dir, or "".
func Discover(dir string) string {
	for _, name := range FileNames {
		path := filepath.Join(dir, name)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path
		}
	}
	return ""
}

// Load reads the configuration. path overrides discovery in dir; a .env file
// in dir is loaded first without overriding variables already set.
func Load(path, dir string) (*Config, error) {
	if err := godotenv.Load(filepath.Join(dir, ".env")); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: .env: %v", ErrConfig, err)
	}

	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if path == "" {
		path = Discover(dir)
	}
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrConfig, path, err)
		}
	}

	var cfg Config
	err := v.Unmarshal(&cfg, func(dc *mapstructure.DecoderConfig) {
		dc.ErrorUnused = true
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfig, err)
	}
	cfg.Path = path
	if cfg.Cache.DSN == "" {
		cfg.Cache.DSN = DefaultDSN
	}
	return &cfg, nil
}

// Entries resolves the preset and the rules section into linter entries.
// extends may be "recommended", "strict" or "none".
func (c *Config) Entries() (map[string]linter.Entry, error) {
	entries := map[string]linter.Entry{}
	if c.Extends != "" && c.Extends != "none" {
		preset, err := linter.PresetEntries(c.Extends)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrConfig, err)
		}
		entries = preset
	}

	for id, raw := range c.Rules {
		entry, err := ParseRuleEntry(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: rules.%s: %v", ErrConfig, id, err)
		}
		if rule, ok := rules.Lookup(id); ok {
			id = rule.Meta().ID
		}
		entries[id] = entry
	}
	return entries, nil
}

// Linter validates every rule and its options and returns the run config.
func (c *Config) Linter() (linter.Config, error) {
	entries, err := c.Entries()
	if err != nil {
		return linter.Config{}, err
	}
	lc, err := linter.Configure(entries)
	if err != nil {
		return linter.Config{}, fmt.Errorf("%w: %v", ErrConfig, err)
	}
	return lc, nil
}

// ParseRuleEntry accepts "warn", 2, ["error"] or ["error", {options}].
func ParseRuleEntry(raw any) (linter.Entry, error) {
	switch v := raw.(type) {
	case []any:
		if len(v) == 0 || len(v) > 2 {
			return linter.Entry{}, fmt.Errorf("expected [severity] or [severity, options]")
		}
		sev, err := parseSeverity(v[0])
		if err != nil {
			return linter.Entry{}, err
		}
		entry := linter.Entry{Severity: sev}
		if len(v) == 2 {
			opts, ok := toStringMap(v[1])
			if !ok {
				return linter.Entry{}, fmt.Errorf("options must be a map, got %T", v[1])
			}
			entry.Options = opts
		}
		return entry, nil
	default:
		sev, err := parseSeverity(raw)
		if err != nil {
			return linter.Entry{}, err
		}
		return linter.Entry{Severity: sev}, nil
	}
}

func parseSeverity(raw any) (core.Severity, error) {
	switch v := raw.(type) {
	case string:
		return core.ParseSeverity(v)
	case int, int64, float64:
		return core.ParseSeverity(fmt.Sprint(v))
	}
	return core.SeverityOff, fmt.Errorf("invalid severity %v", raw)
}

// toStringMap normalizes the map shapes YAML, JSON and TOML decoders produce.
func toStringMap(raw any) (map[string]any, bool) {
	switch m := raw.(type) {
	case map[string]any:
		return m, true
	case map[any]any:
		out := make(map[string]any, len(m))
		for k, v := range m {
			out[fmt.Sprint(k)] = v
		}
		return out, true
	}
	return nil, false
}

// Hash identifies the effective rule configuration, so cached results are
// discarded when rules or options change.
func (c *Config) Hash() string {
	entries, err := c.Entries()
	if err != nil {
		return ""
	}
	data, _ := json.Marshal(entries)
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// Scopes builds one file scope per target path.
func (c *Config) Scopes(paths []string) []core.FileScope {
	scopes := make([]core.FileScope, 0, len(paths))
	for _, p := range paths {
		scopes = append(scopes, core.FileScope{Path: p, Include: c.Include, Exclude: c.Exclude})
	}
	return scopes
}
