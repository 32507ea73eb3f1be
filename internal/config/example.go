package config

// ExampleConfig returns an example configuration showing all available options.
func ExampleConfig() string {
	return `# dailytasks configuration file
# Values can be overridden by environment variables or CLI flags

# Task file, one task per line (relative to the working directory)
tasks_file = "tasks.txt"

# Log directory (supports ~ expansion and %VAR% on Windows)
log_dir = "~/.dailytasks/logs"

# Log level: debug, info, warn, error
log_level = "info"

# Log format: text, logfmt, json
log_format = "logfmt"

# Include timestamps and caller location in log lines
log_timestamps = true
log_caller = false

# Visible task rows before the list scrolls
list_height = 10
`
}
