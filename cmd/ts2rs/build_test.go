package main

import (
	"flag"
	"os"
	"path/filepath"
	"testing"
)

func TestParseConvertArgs_Defaults(t *testing.T) {
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	f := parseConvertArgs(fs, nil)

	if f.TsconfigPath != "tsconfig.json" {
		t.Errorf("TsconfigPath = %q, want %q", f.TsconfigPath, "tsconfig.json")
	}
	if f.Entry != "" || f.Out != "" || f.ConfigPath != "" {
		t.Error("string flags should default to empty")
	}
	if f.Strict || f.Check || f.DumpIR {
		t.Error("boolean flags should default to false")
	}
}

func TestParseConvertArgs_AllFlags(t *testing.T) {
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	args := []string{
		"--config", "ts2rs.config.json",
		"--project", "tsconfig.build.json",
		"--entry", "src/api/types.ts",
		"--out", "src/generated/types.rs",
		"--strict",
		"--check",
	}
	f := parseConvertArgs(fs, args)

	if f.ConfigPath != "ts2rs.config.json" {
		t.Errorf("ConfigPath = %q", f.ConfigPath)
	}
	if f.TsconfigPath != "tsconfig.build.json" {
		t.Errorf("TsconfigPath = %q", f.TsconfigPath)
	}
	if f.Entry != "src/api/types.ts" {
		t.Errorf("Entry = %q", f.Entry)
	}
	if f.Out != "src/generated/types.rs" {
		t.Errorf("Out = %q", f.Out)
	}
	if !f.Strict {
		t.Error("Strict should be true")
	}
	if !f.Check {
		t.Error("Check should be true")
	}
}

func TestParseConvertArgs_ProjectShortFlag(t *testing.T) {
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	f := parseConvertArgs(fs, []string{"-p", "tsconfig.app.json"})
	if f.TsconfigPath != "tsconfig.app.json" {
		t.Errorf("TsconfigPath = %q, want %q", f.TsconfigPath, "tsconfig.app.json")
	}
}

func TestLoadOptions_EntryFromFlag(t *testing.T) {
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	f := parseConvertArgs(fs, []string{"--entry", "index.ts"})

	opts, err := loadOptions(t.TempDir(), f)
	if err != nil {
		t.Fatalf("loadOptions: %v", err)
	}
	if opts.EntryFile != "index.ts" {
		t.Errorf("EntryFile = %q, want %q", opts.EntryFile, "index.ts")
	}
}

func TestLoadOptions_MissingEntry(t *testing.T) {
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	f := parseConvertArgs(fs, nil)

	if _, err := loadOptions(t.TempDir(), f); err == nil {
		t.Fatal("expected error when no entry file is configured")
	}
}

func TestLoadOptions_DiscoversConfig(t *testing.T) {
	dir := t.TempDir()
	configJSON := `{"entry_file": "index.ts", "output_path": "out.rs"}`
	if err := os.WriteFile(filepath.Join(dir, "ts2rs.config.json"), []byte(configJSON), 0644); err != nil {
		t.Fatal(err)
	}

	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	f := parseConvertArgs(fs, nil)

	opts, err := loadOptions(dir, f)
	if err != nil {
		t.Fatalf("loadOptions: %v", err)
	}
	if opts.EntryFile != "index.ts" {
		t.Errorf("EntryFile = %q, want %q", opts.EntryFile, "index.ts")
	}
	if opts.OutputPath != "out.rs" {
		t.Errorf("OutputPath = %q, want %q", opts.OutputPath, "out.rs")
	}
}

func TestLoadOptions_FlagOverridesConfig(t *testing.T) {
	dir := t.TempDir()
	configJSON := `{"entry_file": "index.ts", "output_path": "out.rs"}`
	if err := os.WriteFile(filepath.Join(dir, "ts2rs.config.json"), []byte(configJSON), 0644); err != nil {
		t.Fatal(err)
	}

	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	f := parseConvertArgs(fs, []string{"--out", "other.rs"})

	opts, err := loadOptions(dir, f)
	if err != nil {
		t.Fatalf("loadOptions: %v", err)
	}
	if opts.OutputPath != "other.rs" {
		t.Errorf("OutputPath = %q, want %q (CLI flag should win)", opts.OutputPath, "other.rs")
	}
}
