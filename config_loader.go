package linterkit

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-json"
	"github.com/goccy/go-yaml"
)

// DecodeFunc converts the contents of a configuration file into JSON that
// DecodeConfig understands
type DecodeFunc func(data []byte) ([]byte, error)

// ConfigLoader handles loading and merging linter configuration files
type ConfigLoader struct {
	projectDir string
	homeDir    string
	formats    map[string]DecodeFunc
}

// NewConfigLoader creates a loader rooted at the working directory
func NewConfigLoader() (*ConfigLoader, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get home directory: %w", err)
	}

	projectDir, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to get working directory: %w", err)
	}

	return NewConfigLoaderWithDirs(projectDir, homeDir), nil
}

// NewConfigLoaderWithDirs creates a loader for explicit project and home
// directories
func NewConfigLoaderWithDirs(projectDir, homeDir string) *ConfigLoader {
	return &ConfigLoader{
		projectDir: projectDir,
		homeDir:    homeDir,
		formats: map[string]DecodeFunc{
			".json": func(data []byte) ([]byte, error) { return data, nil },
			".yaml": yaml.YAMLToJSON,
			".yml":  yaml.YAMLToJSON,
		},
	}
}

// RegisterFormat adds a decoder for files with the given extension
func (cl *ConfigLoader) RegisterFormat(ext string, decode DecodeFunc) {
	cl.formats[strings.ToLower(ext)] = decode
}

// LoadConfig loads and merges configuration from the standard locations
func (cl *ConfigLoader) LoadConfig() (*Config, error) {
	return cl.LoadConfigWithPaths(cl.GetConfigPaths())
}

// LoadConfigWithPaths loads configuration from specific paths. Later files
// replace linters of the same name from earlier ones.
func (cl *ConfigLoader) LoadConfigWithPaths(paths []string) (*Config, error) {
	config := NewConfig()

	for _, path := range paths {
		if err := cl.loadAndMergeConfig(config, path); err != nil {
			return nil, err
		}
	}

	return config, nil
}

// LoadFile loads a single file, failing if it does not exist
func (cl *ConfigLoader) LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	config, err := cl.decodeFile(path, data)
	if err != nil {
		return nil, err
	}
	return config, nil
}

// loadAndMergeConfig loads a single config file and merges it
func (cl *ConfigLoader) loadAndMergeConfig(config *Config, path string) error {
	// Missing files are skipped
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}

	fileConfig, err := cl.LoadFile(path)
	if err != nil {
		return err
	}

	config.Merge(fileConfig)
	return nil
}

func (cl *ConfigLoader) decodeFile(path string, data []byte) (*Config, error) {
	ext := strings.ToLower(filepath.Ext(path))
	decode, ok := cl.formats[ext]
	if !ok {
		return nil, fmt.Errorf("unsupported config file format %q for %s", ext, path)
	}

	jsonData, err := decode(data)
	if err != nil {
		return nil, fmt.Errorf("failed to decode config file %s: %w", path, err)
	}

	config, err := DecodeConfig(jsonData)
	if err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return config, nil
}

// DecodeConfig validates JSON configuration against the schema and decodes
// it. The document may be a single linter, an array of linters or an object
// with a "linters" array.
func DecodeConfig(data []byte) (*Config, error) {
	if err := ValidateSchema(data); err != nil {
		return nil, err
	}

	trimmed := bytes.TrimSpace(data)
	config := NewConfig()

	if len(trimmed) > 0 && trimmed[0] == '[' {
		if err := json.Unmarshal(trimmed, &config.Linters); err != nil {
			return nil, err
		}
		return config, nil
	}

	var keys map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &keys); err != nil {
		return nil, err
	}
	if _, hasName := keys["name"]; !hasName {
		if _, hasLinters := keys["linters"]; hasLinters {
			if err := json.Unmarshal(trimmed, config); err != nil {
				return nil, err
			}
			return config, nil
		}
	}

	var linter LinterConfig
	if err := json.Unmarshal(trimmed, &linter); err != nil {
		return nil, err
	}
	config.Linters = append(config.Linters, linter)
	return config, nil
}

// GetConfigPaths returns the paths searched by LoadConfig, lowest
// precedence first
func (cl *ConfigLoader) GetConfigPaths() []string {
	return []string{
		filepath.Join(cl.homeDir, ".config", "linterkit", "linters.json"),
		filepath.Join(cl.projectDir, ".linterkit", "linters.json"),
		filepath.Join(cl.projectDir, ".linterkit", "linters.local.json"),
	}
}

// ConfigExists checks if any configuration files exist
func (cl *ConfigLoader) ConfigExists() bool {
	for _, path := range cl.GetConfigPaths() {
		if _, err := os.Stat(path); err == nil {
			return true
		}
	}
	return false
}
