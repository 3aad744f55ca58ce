package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/ts2rs/ts2rs/internal/rustconvert"
	"github.com/ts2rs/ts2rs/internal/rustwatch"
	"github.com/ts2rs/ts2rs/internal/tsprogram"
)

// runWatch implements the watch subcommand: convert once, then
// re-convert whenever a file the conversion actually depends on
// changes, until interrupted. Adapted from tsgonest's dev.go watch
// loop, stripped of the node child-process supervision (ts2rs has no
// runtime process to restart — only the conversion itself repeats).
func runWatch(args []string) int {
	fs := flag.NewFlagSet("watch", flag.ExitOnError)
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

	// convertOnce runs a full resolve+emit pass and reports back the
	// absolute paths of every module the pass touched — the entry file
	// plus every transitively-imported module — so the caller can keep
	// the watcher pointed at exactly what the conversion depends on,
	// not at a directory.
	convertOnce := func() []string {
		host, diags, err := tsprogram.Open(cwd, f.TsconfigPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			return nil
		}
		defer host.Release()
		if len(diags) > 0 {
			for _, d := range diags {
				fmt.Fprintln(os.Stderr, d.String())
			}
			return nil
		}

		result, err := rustconvert.Convert(host, opts)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			return absModulePaths(cwd, host.LoadedModules())
		}
		for _, w := range result.Warnings {
			fmt.Fprintf(os.Stderr, "warning: %s\n", w)
		}
		if opts.OutputPath == "" {
			fmt.Println(result.Text)
		} else {
			fmt.Fprintf(os.Stderr, "wrote %d type(s) to %s\n", len(result.EmittedNames), opts.OutputPath)
		}
		return absModulePaths(cwd, host.LoadedModules())
	}

	var w *rustwatch.Watcher
	rebuild := func(events []rustwatch.Event) {
		fmt.Fprintf(os.Stderr, "\ndetected %d change(s), converting...\n", len(events))
		if files := convertOnce(); files != nil {
			w.SetFiles(files)
		}
	}

	fmt.Fprintln(os.Stderr, "converting...")
	files := convertOnce()
	if len(files) == 0 {
		// Nothing resolved (fatal diagnostics on the very first pass) —
		// fall back to the entry file alone so the watcher still has
		// something to watch and can recover once it's fixed.
		files = []string{filepath.Join(cwd, opts.EntryFile)}
	}

	w = rustwatch.New(files, 100*time.Millisecond, rebuild)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)
	go func() {
		<-sigCh
		fmt.Fprintln(os.Stderr, "\nshutting down...")
		w.Stop()
	}()

	fmt.Fprintln(os.Stderr, "watching for changes...")
	w.Watch()

	return 0
}

// absModulePaths resolves hostquery's module keys to absolute paths.
// Imported modules are already absolute (resolved via the program's
// module resolver), but the entry module is recorded under whatever
// string the caller passed to Resolve — typically a path relative to
// cwd — so it needs joining here too.
func absModulePaths(cwd string, modules []string) []string {
	abs := make([]string, len(modules))
	for i, m := range modules {
		if filepath.IsAbs(m) {
			abs[i] = m
		} else {
			abs[i] = filepath.Join(cwd, m)
		}
	}
	return abs
}
