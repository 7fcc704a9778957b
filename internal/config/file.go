package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"
)

// FileNames lists the project config file names searched by Find, in
// order of preference.
var FileNames = []string{
	".dc-scaffold.yml",
	".dc-scaffold.yaml",
	".dc-scaffold.json",
}

// Find returns the path of the first config file from FileNames that
// exists in dir, or an empty string if there is none.
func Find(dir string) string {
	for _, name := range FileNames {
		path := filepath.Join(dir, name)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path
		}
	}
	return ""
}

// LoadFile reads a config file. The format is chosen by extension:
// .yml/.yaml are YAML, .json is JSON with optional comments (JSONC).
//
// Only the fields present in the file are set; the result is meant to be
// merged over Default() with Config.Merge.
func LoadFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yml", ".yaml":
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	case ".json":
		// Strip // and /* */ comments and trailing commas first.
		if err := json.Unmarshal(jsonc.ToJSON(data), &cfg); err != nil {
			return Config{}, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	default:
		return Config{}, fmt.Errorf("unsupported config file extension %q (valid: .yml, .yaml, .json)", ext)
	}

	return cfg, nil
}
