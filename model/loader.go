package model

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// RegistryFormat is the serialization of a registry file.
type RegistryFormat string

const (
	RegistryFormatJSON RegistryFormat = "json"
	RegistryFormatYAML RegistryFormat = "yaml"
)

// ParseRegistry decodes a registry snapshot. YAML is converted through a generic
// document so both formats share the json field names.
func ParseRegistry(data []byte, format RegistryFormat) (*Registry, error) {
	registry := &Registry{}

	switch format {
	case RegistryFormatJSON:
		if err := json.Unmarshal(data, registry); err != nil {
			return nil, fmt.Errorf("decode json registry: %w", err)
		}
	case RegistryFormatYAML:
		var document interface{}
		if err := yaml.Unmarshal(data, &document); err != nil {
			return nil, fmt.Errorf("decode yaml registry: %w", err)
		}
		converted, err := json.Marshal(document)
		if err != nil {
			return nil, fmt.Errorf("convert yaml registry: %w", err)
		}
		if err := json.Unmarshal(converted, registry); err != nil {
			return nil, fmt.Errorf("decode converted registry: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported registry format %q", format)
	}

	return registry, nil
}

// ReadRegistryFile loads a registry from disk, choosing the format by extension.
func ReadRegistryFile(path string) (*Registry, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("read registry file: %w", err)
	}

	format := RegistryFormatJSON
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		format = RegistryFormatYAML
	}

	return ParseRegistry(data, format)
}
