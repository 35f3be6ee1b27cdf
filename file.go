// File: scopeconf/file.go
package scopeconf

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"dario.cat/mergo"
	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// FileOptions configures file source loading.
type FileOptions struct {
	// Format forces a specific file format ("toml", "json", "yaml").
	// Empty or "auto" detects by extension, then by content.
	Format string

	// MaxFileSize rejects files larger than this many bytes (0 = no limit).
	MaxFileSize int64
}

// LoadFile reads a configuration file and returns it as a Source named after
// the file's base name. TOML, JSON, and YAML are supported; nested tables
// are flattened into dot-notation field names. A missing file yields
// ErrConfigNotFound.
func LoadFile(path string) (Source, error) {
	return LoadFileWithOptions(path, FileOptions{})
}

// LoadFileWithOptions is LoadFile with explicit format and size options.
func LoadFileWithOptions(path string, opts FileOptions) (Source, error) {
	data, err := loadFileMap(path, opts)
	if err != nil {
		return nil, err
	}
	return NewMapSource(filepath.Base(path), data), nil
}

// LoadFiles reads several configuration files and deep-merges them into a
// single Source named "files"; later files override earlier ones. All files
// must exist.
func LoadFiles(paths ...string) (Source, error) {
	merged := make(map[string]any)

	for _, path := range paths {
		data, err := loadFileMap(path, FileOptions{})
		if err != nil {
			return nil, fmt.Errorf("loading %q: %w", path, err)
		}
		if err := mergo.Merge(&merged, data, mergo.WithOverride); err != nil {
			return nil, fmt.Errorf("merging %q: %w", path, err)
		}
	}

	return NewMapSource("files", merged), nil
}

// loadFileMap reads and parses one file into a nested map.
func loadFileMap(path string, opts FileOptions) (map[string]any, error) {
	fileInfo, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrConfigNotFound
		}
		return nil, fmt.Errorf("failed to stat config file '%s': %w", path, err)
	}
	if opts.MaxFileSize > 0 && fileInfo.Size() > opts.MaxFileSize {
		return nil, fmt.Errorf("config file '%s' exceeds maximum size %d bytes", path, opts.MaxFileSize)
	}

	fileData, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file '%s': %w", path, err)
	}

	format := opts.Format
	if format == "" || format == "auto" {
		format = detectFileFormat(path)
		if format == "" {
			format = detectFormatFromContent(fileData)
		}
	}

	fileConfig := make(map[string]any)
	switch format {
	case "toml":
		if err := toml.Unmarshal(fileData, &fileConfig); err != nil {
			return nil, fmt.Errorf("failed to parse TOML config file '%s': %w", path, err)
		}
	case "json":
		decoder := json.NewDecoder(bytes.NewReader(fileData))
		decoder.UseNumber() // Preserve number precision
		if err := decoder.Decode(&fileConfig); err != nil {
			return nil, fmt.Errorf("failed to parse JSON config file '%s': %w", path, err)
		}
	case "yaml":
		if err := yaml.Unmarshal(fileData, &fileConfig); err != nil {
			return nil, fmt.Errorf("failed to parse YAML config file '%s': %w", path, err)
		}
	default:
		return nil, fmt.Errorf("unable to determine config format for file '%s'", path)
	}

	return fileConfig, nil
}

// detectFileFormat determines format from file extension.
func detectFileFormat(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml", ".tml":
		return "toml"
	case ".json":
		return "json"
	case ".yaml", ".yml":
		return "yaml"
	default:
		return ""
	}
}

// detectFormatFromContent attempts to detect format by parsing.
func detectFormatFromContent(data []byte) string {
	// JSON is strictest, YAML is a superset of JSON, TOML last.
	var jsonTest any
	if err := json.Unmarshal(data, &jsonTest); err == nil {
		return "json"
	}

	var tomlTest map[string]any
	if err := toml.Unmarshal(data, &tomlTest); err == nil {
		return "toml"
	}

	var yamlTest any
	if err := yaml.Unmarshal(data, &yamlTest); err == nil {
		return "yaml"
	}

	return ""
}
