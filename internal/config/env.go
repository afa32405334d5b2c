package config

import (
	"os"
	"strconv"
)

// Environment variables recognised by FromEnv.
const (
	EnvDBPath    = "DB_PATH"
	EnvBackupDir = "BACKUP_DIR"
	EnvAddr      = "EVENTLOG_ADDR"
	EnvListLimit = "EVENTLOG_LIST_LIMIT"
	EnvLogLevel  = "EVENTLOG_LOG_LEVEL"
	EnvLogFormat = "EVENTLOG_LOG_FORMAT"
)

// FromEnv overlays environment variables onto cfg. Unset or empty
// variables leave the current value alone.
func FromEnv(cfg *Config) {
	FromLookup(cfg, os.Getenv)
}

// FromLookup overlays variables read through getenv onto cfg.
func FromLookup(cfg *Config, getenv func(string) string) {
	if v := getenv(EnvDBPath); v != "" {
		cfg.DBPath = v
	}
	if v := getenv(EnvBackupDir); v != "" {
		cfg.BackupDir = v
	}
	if v := getenv(EnvAddr); v != "" {
		cfg.Addr = v
	}
	if v := getenv(EnvListLimit); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.ListLimit = n
		}
	}
	if v := getenv(EnvLogLevel); v != "" {
		cfg.Log.Level = v
	}
	if v := getenv(EnvLogFormat); v != "" {
		cfg.Log.Format = v
	}
}
