// Package config provides configuration loading, merging, and path management
// for cmdshelf.
//
// # Configuration Loading
//
// The Load function searches for and merges configuration from multiple
// sources in priority order:
//
//  1. Global config (~/.config/cmdshelf/ - XDG compatible)
//  2. Project config (cmdshelf.json/cmdshelf.jsonc and .cmdshelf/cmdshelf.json)
//  3. CMDSHELF_CONFIG file
//  4. CMDSHELF_CONFIG_CONTENT inline JSON
//  5. Environment variables
//
// More specific configurations override more general ones; environment
// variables have the highest precedence.
//
// # Supported Formats
//
// The package supports both JSON and JSONC (JSON with Comments) formats:
//   - cmdshelf.json - Standard JSON configuration
//   - cmdshelf.jsonc - JSON with comments, processed using tidwall/jsonc
//
// # Variable Interpolation
//
// Configuration files support two types of variable interpolation:
//   - {env:VAR_NAME} - Expands to environment variable values
//   - {file:path} - Expands to file contents (properly escaped for JSON)
//
// File paths in {file:path} placeholders support absolute paths, paths
// relative to the config file directory, and home directory expansion (~/).
//
// # Path Management
//
// The package provides XDG Base Directory Specification compliant path
// management through the Paths type:
//   - Data: ~/.local/share/cmdshelf (XDG_DATA_HOME)
//   - Config: ~/.config/cmdshelf (XDG_CONFIG_HOME)
//   - Cache: ~/.cache/cmdshelf (XDG_CACHE_HOME)
//   - State: ~/.local/state/cmdshelf (XDG_STATE_HOME)
//
// On Windows, these paths are adapted to use APPDATA as appropriate.
//
// # Environment Variable Overrides
//
//   - CMDSHELF_DATA - Override the data directory
//   - CMDSHELF_LOG_LEVEL - Override the log level
//   - CMDSHELF_PORT - Override the server port
//   - CMDSHELF_SHELL - Override the local terminal shell
//   - CMDSHELF_CONFIG - Path to a specific config file
//   - CMDSHELF_CONFIG_CONTENT - Inline JSON configuration
//
// # Usage Example
//
//	config, err := config.Load(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	paths := config.GetPaths()
//	if err := paths.EnsurePaths(); err != nil {
//	    log.Fatal(err)
//	}
package config
