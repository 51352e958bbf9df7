// Package config loads uuidgen settings from a TOML file, a .env file and
// UUIDGEN_* environment variables, in increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// EnvPrefix prefixes every environment variable read by Load.
const EnvPrefix = "UUIDGEN_"

// Config holds the generation settings.
type Config struct {
	Version        int     `toml:"version"`              // 1 or 4
	Count          int     `toml:"count"`                // UUIDs per run
	Format         string  `toml:"format"`               // see render.Formats
	TimestampRatio float64 `toml:"timestamp_ratio"`      // v1 tick advance probability
	State          string  `toml:"state,omitempty"`      // statestore URL, may use ${VAR}
	StateName      string  `toml:"state_name,omitempty"` // row name for SQL stores
}

// Default returns the settings used when nothing is configured.
func Default() Config {
	return Config{
		Version:        4,
		Count:          1,
		Format:         "hex",
		TimestampRatio: 0.25,
		StateName:      "default",
	}
}

// Load is Read followed by Validate.
func Load(path string, envFiles ...string) (*Config, error) {
	cfg, err := Read(path, envFiles...)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Read builds a Config from the defaults, the TOML file at path (skipped
// when path is empty), the given .env files (empty names are skipped and
// missing files ignored) and the process environment. Values are not
// range-checked, so callers that layer further overrides validate last.
func Read(path string, envFiles ...string) (*Config, error) {
	for _, f := range envFiles {
		if f == "" {
			continue
		}
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("config: load %s: %w", f, err)
		}
	}

	cfg := Default()
	if path != "" {
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			return nil, fmt.Errorf("config: parse %s: %w", path, err)
		}
	}
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	cfg.State = os.ExpandEnv(cfg.State)
	return &cfg, nil
}

func (c *Config) applyEnv() error {
	if v, ok := lookup("VERSION"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("config: %sVERSION: %w", EnvPrefix, err)
		}
		c.Version = n
	}
	if v, ok := lookup("COUNT"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("config: %sCOUNT: %w", EnvPrefix, err)
		}
		c.Count = n
	}
	if v, ok := lookup("TIMESTAMP_RATIO"); ok {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("config: %sTIMESTAMP_RATIO: %w", EnvPrefix, err)
		}
		c.TimestampRatio = f
	}
	if v, ok := lookup("FORMAT"); ok {
		c.Format = v
	}
	if v, ok := lookup("STATE"); ok {
		c.State = v
	}
	if v, ok := lookup("STATE_NAME"); ok {
		c.StateName = v
	}
	return nil
}

func lookup(key string) (string, bool) {
	v, ok := os.LookupEnv(EnvPrefix + key)
	return strings.TrimSpace(v), ok && strings.TrimSpace(v) != ""
}

// Validate checks value ranges. Format names are checked by the renderer.
func (c *Config) Validate() error {
	if c.Version != 1 && c.Version != 4 {
		return fmt.Errorf("config: version must be 1 or 4, got %d", c.Version)
	}
	if c.Count < 1 {
		return fmt.Errorf("config: count must be positive, got %d", c.Count)
	}
	if c.TimestampRatio < 0 || c.TimestampRatio > 1 {
		return fmt.Errorf("config: timestamp_ratio must be within [0, 1], got %v", c.TimestampRatio)
	}
	if c.Format == "" {
		return fmt.Errorf("config: format must not be empty")
	}
	return nil
}
