package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ts2rs/ts2rs/internal/rustconfig"
	"github.com/ts2rs/ts2rs/internal/rustconvert"
	"github.com/ts2rs/ts2rs/internal/tsprogram"
)

// convertFlags holds the parsed flags shared by the convert and watch
// subcommands.
type convertFlags struct {
	ConfigPath   string
	TsconfigPath string
	Entry        string
	Out          string
	Strict       bool
	Check        bool
	DumpIR       bool
}

func parseConvertArgs(fs *flag.FlagSet, args []string) *convertFlags {
	f := &convertFlags{TsconfigPath: "tsconfig.json"}
	fs.StringVar(&f.ConfigPath, "config", "", "Path to ts2rs.config.json")
	fs.StringVar(&f.TsconfigPath, "project", "tsconfig.json", "Path to tsconfig.json")
	fs.StringVar(&f.TsconfigPath, "p", "tsconfig.json", "Path to tsconfig.json (shorthand)")
	fs.StringVar(&f.Entry, "entry", "", "Entry module (overrides config entry_file)")
	fs.StringVar(&f.Out, "out", "", "Output path for the rendered Rust file")
	fs.BoolVar(&f.Strict, "strict", false, "Disallow json_value fallback; fail instead")
	fs.BoolVar(&f.Check, "check", false, "Render to a buffer and diff against --out without writing")
	fs.BoolVar(&f.DumpIR, "dump-ir", false, "Dump the collected IR as JSON to stdout instead of Rust")
	fs.Parse(args)
	return f
}

// loadOptions merges a discovered/loaded ts2rs.config.json with any
// CLI overrides into a single rustconvert.Options, mirroring
// tsgonest's config-then-CLI-override layering.
func loadOptions(cwd string, f *convertFlags) (rustconvert.Options, error) {
	var opts rustconvert.Options

	configPath := f.ConfigPath
	if configPath == "" {
		configPath = rustconfig.Discover(cwd)
	}
	if configPath != "" {
		cfg, err := rustconfig.Load(configPath)
		if err != nil {
			return opts, err
		}
		opts = rustconvert.FromConfig(cfg)
		fmt.Fprintf(os.Stderr, "loaded config from %s\n", filepath.Base(configPath))
	}

	if f.Entry != "" {
		opts.EntryFile = f.Entry
	}
	if f.Out != "" {
		opts.OutputPath = f.Out
	}
	if f.Strict {
		opts.Strict = true
	}
	if opts.EntryFile == "" {
		return opts, fmt.Errorf("no entry module: pass --entry or set entry_file in ts2rs.config.json")
	}
	return opts, nil
}

// runConvert implements the convert/build subcommand: load config,
// open the TypeScript program, run the Convert façade, write or print
// the result.
func runConvert(args []string) int {
	fs := flag.NewFlagSet("convert", flag.ExitOnError)
	f := parseConvertArgs(fs, args)

	cwd, err := os.Getwd()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: could not get working directory: %v\n", err)
		return 1
	}

	opts, err := loadOptions(cwd, f)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}

	host, diags, err := tsprogram.Open(cwd, f.TsconfigPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}
	if len(diags) > 0 {
		for _, d := range diags {
			fmt.Fprintln(os.Stderr, d.String())
		}
		return 1
	}
	defer host.Release()

	if f.DumpIR {
		return runDumpIR(host, opts)
	}

	if f.Check {
		return runCheck(cwd, host, opts)
	}

	result, err := rustconvert.Convert(host, opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}
	for _, w := range result.Warnings {
		fmt.Fprintf(os.Stderr, "warning: %s\n", w)
	}
	if opts.OutputPath == "" {
		fmt.Println(result.Text)
	} else {
		fmt.Fprintf(os.Stderr, "wrote %d type(s) to %s\n", len(result.EmittedNames), opts.OutputPath)
		saveConvertCache(cwd, opts)
	}
	return 0
}

// saveConvertCache records the entry file's content hash under this
// option set's cache path right after a successful write, so the next
// --check (or convert, once a staleness check is added there too)
// against unchanged input can skip the resolve+emit pass. Failures
// are non-fatal: a missing or unwritable cache just means the next
// run pays for a full re-render.
func saveConvertCache(cwd string, opts rustconvert.Options) {
	entryPath := opts.EntryFile
	if !filepath.IsAbs(entryPath) {
		entryPath = filepath.Join(cwd, entryPath)
	}
	entryContent, err := os.ReadFile(entryPath)
	if err != nil {
		return
	}
	cachePath := rustconvert.CachePath(opts.OutputPath, opts.EntryFile)
	inputHash := rustconvert.HashInput(entryContent, opts)
	rustconvert.Save(cachePath, rustconvert.New(inputHash, opts.OutputPath))
}
