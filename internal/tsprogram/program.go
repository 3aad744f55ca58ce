// Package tsprogram builds a real, on-disk TypeScript program (driven
// by a tsconfig.json) and wraps it in a hostquery.Host — the
// production counterpart to internal/testts's in-memory overlay,
// grounded on tsgonest's internal/compiler/host.go and program.go.
package tsprogram

import (
	"context"
	"fmt"

	"github.com/microsoft/typescript-go/shim/ast"
	"github.com/microsoft/typescript-go/shim/bundled"
	shimcompiler "github.com/microsoft/typescript-go/shim/compiler"
	"github.com/microsoft/typescript-go/shim/core"
	"github.com/microsoft/typescript-go/shim/tsoptions"
	"github.com/microsoft/typescript-go/shim/tspath"
	"github.com/microsoft/typescript-go/shim/vfs"
	"github.com/microsoft/typescript-go/shim/vfs/cachedvfs"
	"github.com/microsoft/typescript-go/shim/vfs/osvfs"

	"github.com/ts2rs/ts2rs/internal/hostquery"
)

// Diagnostic is a single tsconfig-parse or program-construction
// problem, reported with the originating file when tsgo attaches one.
type Diagnostic struct {
	FilePath string
	Message  string
}

func (d Diagnostic) String() string {
	if d.FilePath != "" {
		return fmt.Sprintf("%s: %s", d.FilePath, d.Message)
	}
	return d.Message
}

// DefaultFS returns the OS filesystem with bundled TypeScript lib
// files overlaid, cached for repeated stats during a single build.
func DefaultFS() vfs.FS {
	return bundled.WrapFS(cachedvfs.From(osvfs.FS()))
}

// Open parses tsconfigPath, constructs a single-threaded TypeScript
// program rooted at cwd, binds its source files, and wraps its type
// checker in a hostquery.Host. The caller must call Release when done.
func Open(cwd, tsconfigPath string) (*hostquery.Host, []Diagnostic, error) {
	fs := DefaultFS()
	host := shimcompiler.NewCompilerHost(cwd, fs, bundled.LibPath(), nil, nil)

	resolved := tspath.ResolvePath(cwd, tsconfigPath)
	if !fs.FileExists(resolved) {
		return nil, nil, fmt.Errorf("could not find tsconfig at %s", resolved)
	}

	parsedConfig, tsDiags := tsoptions.GetParsedCommandLineOfConfigFile(tsconfigPath, &core.CompilerOptions{}, nil, host, nil)
	if len(tsDiags) > 0 {
		return nil, convertDiagnostics(tsDiags), nil
	}
	if parsedConfig != nil && len(parsedConfig.Errors) > 0 {
		return nil, convertDiagnostics(parsedConfig.Errors), nil
	}

	program := shimcompiler.NewProgram(shimcompiler.ProgramOptions{
		Config:                      parsedConfig,
		SingleThreaded:              core.TSTrue,
		Host:                        host,
		UseSourceOfProjectReference: true,
	})
	if program == nil {
		return nil, nil, fmt.Errorf("failed to create program from %s", resolved)
	}

	if programDiags := program.GetProgramDiagnostics(); len(programDiags) > 0 {
		return nil, convertDiagnostics(programDiags), nil
	}
	program.BindSourceFiles()

	checker, release := shimcompiler.Program_GetTypeChecker(program, context.Background())
	if checker == nil {
		return nil, nil, fmt.Errorf("failed to get type checker for %s", resolved)
	}

	return hostquery.New(program, checker, release), nil, nil
}

func convertDiagnostics(tsdiags []*ast.Diagnostic) []Diagnostic {
	diags := make([]Diagnostic, len(tsdiags))
	for i, d := range tsdiags {
		var filePath string
		if d.File() != nil {
			filePath = d.File().FileName()
		}
		diags[i] = Diagnostic{FilePath: filePath, Message: d.String()}
	}
	return diags
}
