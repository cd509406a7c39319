package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Load loads the client configuration. Values missing from a file keep their
// defaults.
// Search order: customPath -> ~/.netpong/config.yaml -> ./configs/netpong.yaml -> embedded default
func Load(customPath string) (ClientConfig, error) {
	cfg := DefaultConfig()

	// Try custom path first
	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return cfg, fmt.Errorf("failed to read config %s: %w", customPath, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse config %s: %w", customPath, err)
		}
		return cfg, cfg.Validate()
	}

	// Try user config directory
	if userCfgPath := UserConfigPath(); userCfgPath != "" {
		if loaded, ok := tryFile(userCfgPath); ok {
			return loaded, loaded.Validate()
		}
	}

	// Try local configs directory
	if loaded, ok := tryFile(filepath.Join("configs", "netpong.yaml")); ok {
		return loaded, loaded.Validate()
	}

	// Use embedded default YAML
	embedded := DefaultConfig()
	if err := yaml.Unmarshal(defaultYAML, &embedded); err != nil {
		return DefaultConfig(), nil // Fallback to hardcoded if embed fails
	}
	return embedded, nil
}

// tryFile reads and parses path on top of the defaults. Unreadable or
// unparsable files are skipped.
func tryFile(path string) (ClientConfig, bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		return ClientConfig{}, false
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return ClientConfig{}, false
	}
	return cfg, true
}

// UserConfigPath returns the path to the user config file, or empty if home
// is unavailable.
func UserConfigPath() string {
	dir := UserDir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "config.yaml")
}

// UserDir returns ~/.netpong, or empty if home is unavailable.
func UserDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".netpong")
}

// Marshal renders cfg as YAML.
func Marshal(cfg ClientConfig) ([]byte, error) {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to encode config: %w", err)
	}
	return data, nil
}
