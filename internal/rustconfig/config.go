// Package rustconfig loads and validates the ts2rs.config.json file
// (spec §6.2), mirroring tsgonest's internal/config Discover/Load pair
// and validation pass.
package rustconfig

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-json-experiment/json"
)

// TypeMapping overrides render_type for struct_ref(N) (spec §6.2,
// custom_type_mappings). RustType alone is shorthand for
// {rust_type: "..."}; FieldAnnotations are prepended to the attribute
// block of every field whose type is the mapped name.
type TypeMapping struct {
	RustType        string   `json:"rust_type"`
	FieldAnnotations []string `json:"field_annotations,omitempty"`
}

// Config is the full recognized option set of spec §6.2.
type Config struct {
	EntryFile  string `json:"entry_file"`
	TypeNames  []string `json:"type_names,omitempty"`
	OutputPath string `json:"output_path,omitempty"`

	CustomTypeMappings    map[string]TypeMapping `json:"custom_type_mappings,omitempty"`
	CustomHeader          string                 `json:"custom_header,omitempty"`
	CustomFooter          string                 `json:"custom_footer,omitempty"`
	CustomTypeAnnotations []string               `json:"custom_type_annotations,omitempty"`

	Strict bool `json:"strict,omitempty"`
}

// UnmarshalJSON accepts custom_type_mappings entries given either as a
// bare string (shorthand for {rust_type: "..."}) or as a full
// {rust_type, field_annotations} object, matching the two forms spec
// §6.2 allows.
func (m *TypeMapping) UnmarshalJSON(data []byte) error {
	var asString string
	if err := json.Unmarshal(data, &asString); err == nil {
		m.RustType = asString
		m.FieldAnnotations = nil
		return nil
	}
	type alias TypeMapping
	var full alias
	if err := json.Unmarshal(data, &full); err != nil {
		return err
	}
	*m = TypeMapping(full)
	return nil
}

// Discover searches dir for a ts2rs.config.json file, returning its
// path or "" if none exists.
func Discover(dir string) string {
	candidate := filepath.Join(dir, "ts2rs.config.json")
	if _, err := os.Stat(candidate); err == nil {
		return candidate
	}
	return ""
}

// Load reads and validates a ts2rs.config.json file at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %q: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %q: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config in %q: %w", path, err)
	}

	return &cfg, nil
}

// Validate checks the config for logical errors not already caught by
// JSON decoding.
func (c *Config) Validate() error {
	if c.EntryFile == "" {
		return fmt.Errorf("entry_file is required")
	}
	for name, mapping := range c.CustomTypeMappings {
		if mapping.RustType == "" {
			return fmt.Errorf("custom_type_mappings[%q].rust_type must not be empty", name)
		}
	}
	return nil
}
