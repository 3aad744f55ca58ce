package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-json-experiment/json"

	"github.com/ts2rs/ts2rs/internal/hostquery"
	"github.com/ts2rs/ts2rs/internal/resolver"
	"github.com/ts2rs/ts2rs/internal/rustconvert"
)

// runDumpIR resolves opts.EntryFile to the collected IR and prints it
// as indented JSON to stdout, bypassing the emitter entirely. This is
// the debugging analogue of tsgonest's --dump-metadata: same idea
// (expose the intermediate representation before codegen), applied to
// the closed-tag ir.CollectedType/ir.ResolvedType model instead of
// tsgonest's open metadata.Metadata registry.
func runDumpIR(host *hostquery.Host, opts rustconvert.Options) int {
	r := resolver.New(host, resolver.Options{
		TypeNames: opts.TypeNames,
		Strict:    opts.Strict,
	})
	collected, err := r.Resolve(opts.EntryFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}
	for _, w := range r.Warnings() {
		fmt.Fprintf(os.Stderr, "warning: %s\n", w)
	}

	data, err := json.Marshal(collected, json.Deterministic(true))
	if err != nil {
		fmt.Fprintf(os.Stderr, "error encoding IR as JSON: %v\n", err)
		return 1
	}
	os.Stdout.Write(data)
	fmt.Println()
	return 0
}

// runCheck renders opts without writing anything, then compares the
// result against the current contents of opts.OutputPath. It exits
// non-zero when the file is missing or stale, the same contract a
// "does generated output match source" CI gate needs. A cache hit
// (same entry file content and option set as the last successful
// check or convert) skips the resolve+emit pass entirely.
func runCheck(cwd string, host *hostquery.Host, opts rustconvert.Options) int {
	if opts.OutputPath == "" {
		fmt.Fprintln(os.Stderr, "error: --check requires --out (or output_path in ts2rs.config.json)")
		return 1
	}

	entryPath := opts.EntryFile
	if !filepath.IsAbs(entryPath) {
		entryPath = filepath.Join(cwd, entryPath)
	}
	entryContent, err := os.ReadFile(entryPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: could not read entry file %s: %v\n", entryPath, err)
		return 1
	}

	cachePath := rustconvert.CachePath(opts.OutputPath, opts.EntryFile)
	inputHash := rustconvert.HashInput(entryContent, opts)
	if rustconvert.Load(cachePath).IsValid(inputHash) {
		fmt.Fprintf(os.Stderr, "%s is up to date (cached)\n", opts.OutputPath)
		return 0
	}

	renderOpts := opts
	renderOpts.OutputPath = ""
	result, err := rustconvert.Convert(host, renderOpts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}

	existing, err := os.ReadFile(opts.OutputPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s does not exist or is unreadable; run without --check to generate it\n", opts.OutputPath)
		return 1
	}

	if string(existing) != result.Text {
		rustconvert.Delete(cachePath)
		fmt.Fprintf(os.Stderr, "%s is stale: regenerate with ts2rs convert\n", opts.OutputPath)
		return 1
	}

	if err := rustconvert.Save(cachePath, rustconvert.New(inputHash, opts.OutputPath)); err != nil {
		fmt.Fprintf(os.Stderr, "warning: could not write cache: %v\n", err)
	}

	fmt.Fprintf(os.Stderr, "%s is up to date (%d type(s))\n", opts.OutputPath, len(result.EmittedNames))
	return 0
}
