package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/tidwall/jsonc"

	"github.com/cmdshelf/cmdshelf/pkg/types"
)

// Load loads configuration from multiple sources (priority order):
// 1. Global config (~/.config/cmdshelf/)
// 2. Project config (.cmdshelf/)
// 3. CMDSHELF_CONFIG file
// 4. CMDSHELF_CONFIG_CONTENT inline JSON
// 5. Environment variables
func Load(directory string) (*types.Config, error) {
	config := &types.Config{}

	// Track loaded files to avoid duplicates
	loaded := make(map[string]bool)

	loadOnce := func(path string, baseDir string) {
		absPath, err := filepath.Abs(path)
		if err != nil {
			return
		}
		if loaded[absPath] {
			return
		}
		if loadConfigFile(path, config, baseDir) == nil {
			loaded[absPath] = true
		}
	}

	// 1. XDG global config (~/.config/cmdshelf/)
	globalPath := GetPaths().Config
	loadOnce(filepath.Join(globalPath, "cmdshelf.json"), globalPath)
	loadOnce(filepath.Join(globalPath, "cmdshelf.jsonc"), globalPath)

	// 2. Project config
	if directory != "" {
		projectConfigDir := filepath.Join(directory, ".cmdshelf")
		loadOnce(filepath.Join(directory, "cmdshelf.json"), directory)
		loadOnce(filepath.Join(directory, "cmdshelf.jsonc"), directory)
		loadOnce(filepath.Join(projectConfigDir, "cmdshelf.json"), projectConfigDir)
		loadOnce(filepath.Join(projectConfigDir, "cmdshelf.jsonc"), projectConfigDir)
	}

	// 3. CMDSHELF_CONFIG file override
	if configPath := os.Getenv("CMDSHELF_CONFIG"); configPath != "" {
		configDir := filepath.Dir(configPath)
		loadOnce(configPath, configDir)
	}

	// 4. CMDSHELF_CONFIG_CONTENT inline JSON
	if configContent := os.Getenv("CMDSHELF_CONFIG_CONTENT"); configContent != "" {
		var inlineConfig types.Config
		if err := json.Unmarshal([]byte(configContent), &inlineConfig); err == nil {
			mergeConfig(config, &inlineConfig)
		}
	}

	// 5. Environment variables (highest priority)
	applyEnvOverrides(config)

	return config, nil
}

// loadConfigFile loads a single config file with interpolation support.
func loadConfigFile(path string, config *types.Config, baseDir string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err // File doesn't exist, skip
	}

	// Strip JSONC comments using tidwall/jsonc
	data = jsonc.ToJSON(data)

	// Apply interpolation
	data = interpolate(data, baseDir)

	var fileConfig types.Config
	if err := json.Unmarshal(data, &fileConfig); err != nil {
		return err
	}

	mergeConfig(config, &fileConfig)
	return nil
}

// interpolate processes {env:VAR} and {file:path} placeholders.
func interpolate(data []byte, baseDir string) []byte {
	str := string(data)

	// Handle {env:VAR_NAME} placeholders
	envPattern := regexp.MustCompile(`\{env:([^}]+)\}`)
	str = envPattern.ReplaceAllStringFunc(str, func(match string) string {
		varName := envPattern.FindStringSubmatch(match)[1]
		return os.Getenv(varName)
	})

	// Handle {file:path} placeholders
	filePattern := regexp.MustCompile(`\{file:([^}]+)\}`)
	str = filePattern.ReplaceAllStringFunc(str, func(match string) string {
		filePath := filePattern.FindStringSubmatch(match)[1]

		// Resolve path
		if strings.HasPrefix(filePath, "~/") {
			home := os.Getenv("HOME")
			filePath = filepath.Join(home, filePath[2:])
		} else if !filepath.IsAbs(filePath) {
			filePath = filepath.Join(baseDir, filePath)
		}

		content, err := os.ReadFile(filePath)
		if err != nil {
			return match // Keep original if file not found
		}

		// Escape for JSON string
		escaped := strings.ReplaceAll(string(content), "\\", "\\\\")
		escaped = strings.ReplaceAll(escaped, "\"", "\\\"")
		escaped = strings.ReplaceAll(escaped, "\n", "\\n")
		escaped = strings.ReplaceAll(escaped, "\r", "\\r")
		escaped = strings.ReplaceAll(escaped, "\t", "\\t")

		return escaped
	})

	return []byte(str)
}

// mergeConfig merges source config into target.
func mergeConfig(target, source *types.Config) {
	if source.Schema != "" {
		target.Schema = source.Schema
	}
	if source.Data != "" {
		target.Data = source.Data
	}

	if source.Log != nil {
		if target.Log == nil {
			target.Log = &types.LogConfig{}
		}
		if source.Log.Level != "" {
			target.Log.Level = source.Log.Level
		}
		if source.Log.Pretty {
			target.Log.Pretty = true
		}
	}

	if source.Server != nil {
		if target.Server == nil {
			target.Server = &types.ServerConfig{}
		}
		if source.Server.Port != 0 {
			target.Server.Port = source.Server.Port
		}
		if source.Server.Hostname != "" {
			target.Server.Hostname = source.Server.Hostname
		}
	}

	if source.Terminal != nil {
		if target.Terminal == nil {
			target.Terminal = &types.TerminalConfig{}
		}
		if source.Terminal.Name != "" {
			target.Terminal.Name = source.Terminal.Name
		}
		if source.Terminal.Shell != "" {
			target.Terminal.Shell = source.Terminal.Shell
		}
		if source.Terminal.Mode != "" {
			target.Terminal.Mode = source.Terminal.Mode
		}
	}

	if source.Clipboard != nil {
		if target.Clipboard == nil {
			target.Clipboard = &types.ClipboardConfig{}
		}
		if source.Clipboard.Mode != "" {
			target.Clipboard.Mode = source.Clipboard.Mode
		}
	}
}

// applyEnvOverrides applies environment variable overrides.
func applyEnvOverrides(config *types.Config) {
	if data := os.Getenv("CMDSHELF_DATA"); data != "" {
		config.Data = data
	}

	if level := os.Getenv("CMDSHELF_LOG_LEVEL"); level != "" {
		if config.Log == nil {
			config.Log = &types.LogConfig{}
		}
		config.Log.Level = level
	}

	if port := os.Getenv("CMDSHELF_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			if config.Server == nil {
				config.Server = &types.ServerConfig{}
			}
			config.Server.Port = p
		}
	}

	if shell := os.Getenv("CMDSHELF_SHELL"); shell != "" {
		if config.Terminal == nil {
			config.Terminal = &types.TerminalConfig{}
		}
		config.Terminal.Shell = shell
	}
}

// Save saves the configuration to a file.
func Save(config *types.Config, path string) error {
	// Ensure directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// DataDir resolves the data directory: the config override when set,
// otherwise the XDG default.
func DataDir(config *types.Config) string {
	if config != nil && config.Data != "" {
		return config.Data
	}
	return GetPaths().Data
}

// StorageDir resolves the storage directory under the data directory.
func StorageDir(config *types.Config) string {
	return filepath.Join(DataDir(config), "storage")
}
