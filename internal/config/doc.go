// Package config handles configuration loading and defaults.
//
// Configuration is loaded from multiple sources in priority order:
// 1. Built-in defaults
// 2. User config file (~/.dailytasks/dailytasks.toml or OS-specific config directory)
// 3. Project config file (dailytasks.toml or .dailytasks.toml in the working directory)
// 4. Environment variables (DAILYTASKS_*)
// 5. CLI flags
//
// Each level overrides the previous one, so CLI flags take precedence.
//
// User-level config locations:
// - ~/.dailytasks/dailytasks.toml (preferred)
// - Windows: %APPDATA%\dailytasks\dailytasks.toml
// - macOS: ~/Library/Application Support/dailytasks/dailytasks.toml
// - Linux/BSD: $XDG_CONFIG_HOME/dailytasks/dailytasks.toml or ~/.config/dailytasks/dailytasks.toml
//
// Project-level config locations (overrides user config):
// - ./dailytasks.toml (preferred)
// - ./.dailytasks.toml
package config
