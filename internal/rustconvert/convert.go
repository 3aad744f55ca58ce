// Package rustconvert is the Convert façade (spec §4.4): it wires the
// Host Query API, the Resolver, and the Emitter together into the one
// call a CLI or library caller makes.
package rustconvert

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/ts2rs/ts2rs/internal/hostquery"
	"github.com/ts2rs/ts2rs/internal/resolver"
	"github.com/ts2rs/ts2rs/internal/rustconfig"
	"github.com/ts2rs/ts2rs/internal/rustemit"
)

// Options is the full recognized option set of spec §6.2, already
// resolved from a rustconfig.Config or set directly by a caller.
type Options struct {
	EntryFile  string   `json:"entry_file"`
	TypeNames  []string `json:"type_names,omitempty"`
	OutputPath string   `json:"output_path,omitempty"`

	CustomTypeMappings    map[string]rustconfig.TypeMapping `json:"custom_type_mappings,omitempty"`
	CustomHeader          string                             `json:"custom_header,omitempty"`
	CustomFooter          string                             `json:"custom_footer,omitempty"`
	CustomTypeAnnotations []string                           `json:"custom_type_annotations,omitempty"`

	Strict bool `json:"strict,omitempty"`
}

// FromConfig builds Options from a loaded rustconfig.Config.
func FromConfig(cfg *rustconfig.Config) Options {
	return Options{
		EntryFile:             cfg.EntryFile,
		TypeNames:             cfg.TypeNames,
		OutputPath:            cfg.OutputPath,
		CustomTypeMappings:    cfg.CustomTypeMappings,
		CustomHeader:          cfg.CustomHeader,
		CustomFooter:          cfg.CustomFooter,
		CustomTypeAnnotations: cfg.CustomTypeAnnotations,
		Strict:                cfg.Strict,
	}
}

// Result is the façade's return value (spec §6.3).
type Result struct {
	Text         string
	EmittedNames []string
	Warnings     []string
}

// Convert validates the entry module exists, drives the Resolver to
// collect every reachable type, renders the result with the Emitter,
// and (if OutputPath is set) writes the text to disk, creating parent
// directories as needed.
func Convert(host *hostquery.Host, opts Options) (*Result, error) {
	if opts.EntryFile == "" {
		return nil, fmt.Errorf("entry_file is required")
	}

	r := resolver.New(host, resolver.Options{
		TypeNames: opts.TypeNames,
		Strict:    opts.Strict,
	})

	collected, err := r.Resolve(opts.EntryFile)
	if err != nil {
		return nil, err
	}

	text, emitWarnings := rustemit.Emit(collected, rustemit.Options{
		CustomTypeMappings:    opts.CustomTypeMappings,
		CustomHeader:          opts.CustomHeader,
		CustomFooter:          opts.CustomFooter,
		CustomTypeAnnotations: opts.CustomTypeAnnotations,
	})

	warnings := append(r.Warnings(), emitWarnings...)

	names := make([]string, len(collected))
	for i, ct := range collected {
		names[i] = ct.Name
	}

	if opts.OutputPath != "" {
		if dir := filepath.Dir(opts.OutputPath); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("creating output directory %s: %w", dir, err)
			}
		}
		if err := os.WriteFile(opts.OutputPath, []byte(text), 0o644); err != nil {
			return nil, fmt.Errorf("writing output to %s: %w", opts.OutputPath, err)
		}
	}

	return &Result{Text: text, EmittedNames: names, Warnings: warnings}, nil
}
