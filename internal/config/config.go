package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Config is the top-level configuration loaded from file/env.
type Config struct {
	DBPath    string `yaml:"db_path" toml:"db_path"`
	BackupDir string `yaml:"backup_dir" toml:"backup_dir"`
	BackupExt string `yaml:"backup_ext" toml:"backup_ext"`
	Addr      string `yaml:"addr" toml:"addr"`
	ListLimit int    `yaml:"list_limit" toml:"list_limit"`
	Log       Log    `yaml:"log" toml:"log"`
}

// Log configures the process logger.
type Log struct {
	Level  string `yaml:"level" toml:"level"`   // debug|info|warn|error
	Format string `yaml:"format" toml:"format"` // text|json
}

// Defaults matching the container layout the service ships in.
const (
	DefaultDBPath    = "/data/app.db"
	DefaultBackupDir = "/backup"
	DefaultBackupExt = ".db"
	DefaultAddr      = "0.0.0.0:8080"
	DefaultListLimit = 50
)

var (
	validLevels  = []string{"debug", "info", "warn", "error"}
	validFormats = []string{"text", "json"}
)

// Default returns built-in defaults.
func Default() Config {
	return Config{
		DBPath:    DefaultDBPath,
		BackupDir: DefaultBackupDir,
		BackupExt: DefaultBackupExt,
		Addr:      DefaultAddr,
		ListLimit: DefaultListLimit,
		Log: Log{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load reads configuration from a YAML or TOML file (by extension) on top of
// the defaults. If path is empty, returns defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	b, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(b))
		dec.KnownFields(true) // Reject unknown fields
		if err := dec.Decode(&cfg); err != nil {
			return Config{}, fmt.Errorf("parse %s: %w", path, err)
		}
	case ".toml":
		md, err := toml.Decode(string(b), &cfg)
		if err != nil {
			return Config{}, fmt.Errorf("parse %s: %w", path, err)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return Config{}, fmt.Errorf("parse %s: unknown keys %v", path, undecoded)
		}
	default:
		return Config{}, fmt.Errorf("unsupported config format %q (use .yaml, .yml or .toml)", ext)
	}

	return cfg, nil
}

// Validate checks that the configuration can start a service.
func (c Config) Validate() error {
	if c.DBPath == "" {
		return fmt.Errorf("db_path is required")
	}
	if c.Addr == "" {
		return fmt.Errorf("addr is required")
	}
	if c.BackupExt == "" {
		return fmt.Errorf("backup_ext is required")
	}
	if c.ListLimit <= 0 {
		return fmt.Errorf("list_limit must be positive, got %d", c.ListLimit)
	}
	if !oneOf(c.Log.Level, validLevels) {
		return fmt.Errorf("invalid log level %q: must be one of %v", c.Log.Level, validLevels)
	}
	if !oneOf(c.Log.Format, validFormats) {
		return fmt.Errorf("invalid log format %q: must be one of %v", c.Log.Format, validFormats)
	}
	return nil
}

func oneOf(v string, allowed []string) bool {
	for _, a := range allowed {
		if a == v {
			return true
		}
	}
	return false
}
