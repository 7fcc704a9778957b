package compose

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"
)

// FileNames lists the compose file names docker-compose looks for, in its
// order of preference.
var FileNames = []string{
	"compose.yaml",
	"compose.yml",
	"docker-compose.yaml",
	"docker-compose.yml",
}

// File is the subset of a compose file dc-scaffold cares about.
type File struct {
	// Name overrides the project name compose derives from the directory.
	Name string `yaml:"name"`

	// Services maps service keys to their definitions.
	Services map[string]Service `yaml:"services"`
}

// Service is the subset of a compose service definition dc-scaffold
// cares about.
type Service struct {
	// Image is the image the service runs, if it is not built.
	Image string `yaml:"image"`

	// Build is either a context path string or a mapping with a
	// "context" key.
	Build interface{} `yaml:"build"`

	// ContainerName replaces compose's generated container name.
	ContainerName string `yaml:"container_name"`
}

// BuildContext returns the build context path of s, or "" when the
// service is not built locally.
func (s Service) BuildContext() string {
	switch v := s.Build.(type) {
	case string:
		return v
	case map[string]interface{}:
		if ctx, ok := v["context"].(string); ok {
			return ctx
		}
		return "."
	default:
		return ""
	}
}

// ServiceNames returns the service keys in sorted order.
func (f *File) ServiceNames() []string {
	names := make([]string, 0, len(f.Services))
	for name := range f.Services {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Find returns the path of the compose file in dir, trying FileNames in
// order.
func Find(dir string) (string, error) {
	for _, name := range FileNames {
		path := filepath.Join(dir, name)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path, nil
		}
	}
	return "", fmt.Errorf("no compose file found in %s (searched %v)", dir, FileNames)
}

// Load reads and decodes a compose file.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read compose file: %w", err)
	}

	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return &f, nil
}
