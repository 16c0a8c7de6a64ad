package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Load reads configuration from the given path, or searches the standard
// locations when path is empty. Defaults are applied first, then the file
// contents are merged over them.
func Load(path string) (*Config, error) {
	resolved, err := findConfigFile(path)
	if err != nil {
		return nil, err
	}

	cfg := DefaultConfig()

	v := viper.New()
	v.SetConfigFile(resolved)
	v.SetConfigType("yaml")

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read config %s: %w", resolved, err)
	}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", resolved, err)
	}

	return cfg, nil
}

func findConfigFile(path string) (string, error) {
	if path != "" {
		if _, err := os.Stat(path); err != nil {
			return "", fmt.Errorf("config file not found: %s", path)
		}
		return path, nil
	}

	var search []string
	if cwd, err := os.Getwd(); err == nil {
		search = append(search, filepath.Join(cwd, "config.yml"))
	}
	if home, err := os.UserHomeDir(); err == nil {
		search = append(search, filepath.Join(home, ".config", "hedwig", "config.yml"))
	}
	search = append(search, "/etc/hedwig/config.yml")

	for _, candidate := range search {
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}
	}

	return "", fmt.Errorf("no config.yml found; searched %v", search)
}
