package config

import (
	"os"
	"strconv"
	"strings"
)

// Environment variable names.
const (
	EnvTasksFile     = "DAILYTASKS_FILE"
	EnvLogDir        = "DAILYTASKS_LOG_DIR"
	EnvLogLevel      = "DAILYTASKS_LOG_LEVEL"
	EnvLogFormat     = "DAILYTASKS_LOG_FORMAT"
	EnvLogTimestamps = "DAILYTASKS_LOG_TIMESTAMPS"
	EnvLogCaller     = "DAILYTASKS_LOG_CALLER"
	EnvListHeight    = "DAILYTASKS_LIST_HEIGHT"
)

// loadFromEnv overrides config from environment variables.
// If sources is non-nil, it tracks the source of each value.
func loadFromEnv(cfg *Config, sources map[string]ConfigSource) {
	set := func(field string) {
		if sources != nil {
			sources[field] = SourceEnv
		}
	}

	if v := os.Getenv(EnvTasksFile); v != "" {
		cfg.TasksFile = v
		set("tasks_file")
	}
	if v := os.Getenv(EnvLogDir); v != "" {
		cfg.LogDir = v
		set("log_dir")
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		cfg.LogLevel = v
		set("log_level")
	}
	if v := os.Getenv(EnvLogFormat); v != "" {
		cfg.LogFormat = v
		set("log_format")
	}
	if v := os.Getenv(EnvLogTimestamps); v != "" {
		cfg.LogTimestamps = boolFromString(v)
		set("log_timestamps")
	}
	if v := os.Getenv(EnvLogCaller); v != "" {
		cfg.LogCaller = boolFromString(v)
		set("log_caller")
	}
	if v := os.Getenv(EnvListHeight); v != "" {
		if i, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			cfg.ListHeight = i
			set("list_height")
		}
	}
}

func boolFromString(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	return s == "1" || s == "true" || s == "yes" || s == "on"
}
