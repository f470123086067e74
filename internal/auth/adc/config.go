package adc

import (
	"os"
	"path/filepath"
	"strings"
)

// ReadConfig reads a value from the active gcloud configuration.
// Only "project" from [core] and "account" from [core] are understood.
// Returns empty string if config not found or key doesn't exist.
func ReadConfig(key string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}

	configName := readActiveConfig(home)
	configPath := filepath.Join(home, ".config/gcloud/configurations", "config_"+configName)

	data, err := os.ReadFile(configPath) // #nosec G304 -- Reading well-known gcloud config file
	if err != nil {
		return ""
	}
	return parseINIValue(string(data), key)
}

// readActiveConfig returns "default" if active_config doesn't exist.
func readActiveConfig(homeDir string) string {
	data, err := os.ReadFile(filepath.Join(homeDir, ".config/gcloud/active_config")) // #nosec G304 -- Reading well-known gcloud config file
	if err != nil {
		return "default"
	}
	if name := strings.TrimSpace(string(data)); name != "" {
		return name
	}
	return "default"
}

func parseINIValue(content, key string) string {
	if key != "project" && key != "account" {
		return ""
	}

	var section string
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]") {
			section = strings.Trim(line, "[]")
			continue
		}
		if section != "core" {
			continue
		}
		name, value, found := strings.Cut(line, "=")
		if found && strings.TrimSpace(name) == key {
			return strings.TrimSpace(value)
		}
	}
	return ""
}
