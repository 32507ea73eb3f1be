package config

import (
	"fmt"
	"strings"

	"github.com/nibzard/dailytasks/internal/taskfile"
)

// ConfigSource represents where a configuration value came from.
type ConfigSource string

const (
	SourceDefault  ConfigSource = "default"
	SourceUserFile ConfigSource = "user file"
	SourceProjFile ConfigSource = "project file"
	SourceEnv      ConfigSource = "environment"
	SourceFlag     ConfigSource = "flag"
)

// ConfigWithSources holds configuration along with source information for each field.
type ConfigWithSources struct {
	Config  *Config
	Sources map[string]ConfigSource
	Files   []string // config files that were read, in load order
}

// Default values.
const (
	DefaultTasksFile  = taskfile.DefaultName
	DefaultLogDir     = "~/.dailytasks/logs"
	DefaultLogLevel   = "info"
	DefaultLogFormat  = "logfmt"
	DefaultListHeight = 10
)

// Config holds the full configuration for dailytasks.
type Config struct {
	// Paths
	TasksFile string `toml:"tasks_file"`
	LogDir    string `toml:"log_dir"`

	// Logging configuration
	LogLevel      string `toml:"log_level"`
	LogFormat     string `toml:"log_format"`
	LogTimestamps bool   `toml:"log_timestamps"`
	LogCaller     bool   `toml:"log_caller"`

	// Interface
	ListHeight int `toml:"list_height"` // visible rows before the list scrolls

	// Working directory (computed)
	ProjectRoot string `toml:"-"`
}

// configFields returns the list of configurable field names for source tracking.
func configFields() []string {
	return []string{
		"tasks_file",
		"log_dir",
		"log_level",
		"log_format",
		"log_timestamps",
		"log_caller",
		"list_height",
	}
}

// Fields returns the configurable field names in display order.
func Fields() []string {
	return configFields()
}

// Value returns the string form of a configurable field.
func (c *Config) Value(field string) string {
	switch field {
	case "tasks_file":
		return c.TasksFile
	case "log_dir":
		return c.LogDir
	case "log_level":
		return c.LogLevel
	case "log_format":
		return c.LogFormat
	case "log_timestamps":
		return fmt.Sprintf("%t", c.LogTimestamps)
	case "log_caller":
		return fmt.Sprintf("%t", c.LogCaller)
	case "list_height":
		return fmt.Sprintf("%d", c.ListHeight)
	}
	return ""
}

var (
	validLogLevels  = []string{"debug", "info", "warn", "warning", "error"}
	validLogFormats = []string{"text", "logfmt", "json"}
)

// Validate checks values that cannot be corrected silently.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.TasksFile) == "" {
		return fmt.Errorf("tasks_file is empty")
	}
	if !contains(validLogLevels, strings.ToLower(c.LogLevel)) {
		return fmt.Errorf("invalid log_level %q (want one of %s)", c.LogLevel, strings.Join(validLogLevels, ", "))
	}
	if !contains(validLogFormats, strings.ToLower(c.LogFormat)) {
		return fmt.Errorf("invalid log_format %q (want one of %s)", c.LogFormat, strings.Join(validLogFormats, ", "))
	}
	if c.ListHeight < 1 {
		return fmt.Errorf("list_height must be at least 1, got %d", c.ListHeight)
	}
	return nil
}

func contains(values []string, v string) bool {
	for _, candidate := range values {
		if candidate == v {
			return true
		}
	}
	return false
}
