// Package testts builds an in-memory TypeScript project and wraps it
// in a hostquery.Host for tests across this module's packages — the
// Resolver, the Emitter, and the façade all need a live Host Query API
// over inline source, not fixture files on disk. Grounded directly on
// tsgonest's internal/testutil (the overlay virtual filesystem) and
// internal/analyzer/testutil_test.go (the program-bootstrap sequence),
// generalized here into an exported, reusable helper instead of a
// package-private test fixture, since multiple packages need it.
package testts

import (
	"context"
	"io/fs"
	"strings"
	"testing"
	"time"

	"github.com/microsoft/typescript-go/shim/bundled"
	shimcompiler "github.com/microsoft/typescript-go/shim/compiler"
	"github.com/microsoft/typescript-go/shim/core"
	"github.com/microsoft/typescript-go/shim/tsoptions"
	"github.com/microsoft/typescript-go/shim/tspath"
	"github.com/microsoft/typescript-go/shim/vfs"
	"github.com/microsoft/typescript-go/shim/vfs/osvfs"

	"github.com/ts2rs/ts2rs/internal/hostquery"
)

// overlayFS wraps the bundled OS filesystem (for the TypeScript lib
// files) with a fixed set of in-memory virtual files, which always
// take precedence.
type overlayFS struct {
	base    vfs.FS
	virtual map[string]string
}

var _ vfs.FS = (*overlayFS)(nil)

func (o *overlayFS) UseCaseSensitiveFileNames() bool { return o.base.UseCaseSensitiveFileNames() }

func (o *overlayFS) FileExists(path string) bool {
	if _, ok := o.virtual[path]; ok {
		return true
	}
	return o.base.FileExists(path)
}

func (o *overlayFS) ReadFile(path string) (string, bool) {
	if src, ok := o.virtual[path]; ok {
		return src, true
	}
	return o.base.ReadFile(path)
}

func (o *overlayFS) DirectoryExists(path string) bool {
	prefix := dirPrefix(path)
	for p := range o.virtual {
		if strings.HasPrefix(p, prefix) {
			return true
		}
	}
	return o.base.DirectoryExists(path)
}

func (o *overlayFS) GetAccessibleEntries(path string) vfs.Entries {
	result := o.base.GetAccessibleEntries(path)
	prefix := dirPrefix(path)
	for p := range o.virtual {
		rest, found := strings.CutPrefix(p, prefix)
		if !found {
			continue
		}
		if dir, _, ok := strings.Cut(rest, "/"); ok {
			result.Directories = append(result.Directories, dir)
		} else {
			result.Files = append(result.Files, rest)
		}
	}
	return result
}

func dirPrefix(path string) string {
	p := tspath.NormalizePath(path)
	if !strings.HasSuffix(p, "/") {
		p += "/"
	}
	return p
}

type virtualFileInfo struct {
	name string
	size int64
}

var (
	_ fs.FileInfo = (*virtualFileInfo)(nil)
	_ fs.DirEntry = (*virtualFileInfo)(nil)
)

func (fi *virtualFileInfo) IsDir() bool                { return false }
func (fi *virtualFileInfo) ModTime() time.Time         { return time.Time{} }
func (fi *virtualFileInfo) Mode() fs.FileMode          { return 0 }
func (fi *virtualFileInfo) Name() string               { return fi.name }
func (fi *virtualFileInfo) Size() int64                { return fi.size }
func (fi *virtualFileInfo) Sys() any                   { return nil }
func (fi *virtualFileInfo) Info() (fs.FileInfo, error) { return fi, nil }
func (fi *virtualFileInfo) Type() fs.FileMode          { return 0 }

func (o *overlayFS) Stat(path string) vfs.FileInfo {
	if src, ok := o.virtual[path]; ok {
		return &virtualFileInfo{name: path, size: int64(len(src))}
	}
	return o.base.Stat(path)
}

func (o *overlayFS) WalkDir(root string, walkFn vfs.WalkDirFunc) error {
	return o.base.WalkDir(root, walkFn)
}

func (o *overlayFS) Realpath(path string) string {
	if _, ok := o.virtual[path]; ok {
		return path
	}
	return o.base.Realpath(path)
}

func (o *overlayFS) WriteFile(path string, data string, bom bool) error {
	if _, ok := o.virtual[path]; ok {
		panic("testts: cannot write to a virtual file")
	}
	return o.base.WriteFile(path, data, bom)
}

func (o *overlayFS) Remove(path string) error {
	if _, ok := o.virtual[path]; ok {
		panic("testts: cannot remove a virtual file")
	}
	return o.base.Remove(path)
}

func (o *overlayFS) Chtimes(path string, aTime, mTime time.Time) error {
	if _, ok := o.virtual[path]; ok {
		panic("testts: cannot chtimes a virtual file")
	}
	return o.base.Chtimes(path, aTime, mTime)
}

// rootDir is a fixed virtual project root; tests never touch disk.
const rootDir = "/virtual/project"

// Env bundles a live Host Query API handle for an in-memory
// TypeScript project together with the raw program, for the rare test
// that needs to reach past the Host Query API's narrow surface.
type Env struct {
	Host    *hostquery.Host
	Program *shimcompiler.Program
}

// New builds a TypeScript program from files (relative name → source
// text, e.g. {"index.ts": "...", "shapes.ts": "..."}) and wraps it in
// a hostquery.Host. Fails the test on any program-construction error.
// The caller must call Release when done with the returned Host.
func New(t *testing.T, files map[string]string) *Env {
	t.Helper()

	virtual := make(map[string]string, len(files)+1)
	for name, content := range files {
		virtual[tspath.ResolvePath(rootDir, name)] = content
	}
	// The config parse below reads tsconfig.json from rootDir; supply a
	// strict one (so `T | null` stays a union) when files has none.
	configPath := tspath.ResolvePath(rootDir, "tsconfig.json")
	if _, ok := virtual[configPath]; !ok {
		virtual[configPath] = `{"compilerOptions": {"strict": true}}`
	}
	fs := &overlayFS{base: bundled.WrapFS(osvfs.FS()), virtual: virtual}
	host := shimcompiler.NewCompilerHost(rootDir, fs, bundled.LibPath(), nil, nil)

	configParseResult, diags := tsoptions.GetParsedCommandLineOfConfigFile(
		"tsconfig.json", &core.CompilerOptions{}, nil, host, nil,
	)
	if len(diags) > 0 {
		t.Fatalf("testts: tsconfig parse errors: %v", diags[0].String())
	}

	program := shimcompiler.NewProgram(shimcompiler.ProgramOptions{
		Config:                      configParseResult,
		SingleThreaded:              core.TSTrue,
		Host:                        host,
		UseSourceOfProjectReference: true,
	})
	if program == nil {
		t.Fatal("testts: failed to create program")
	}
	program.BindSourceFiles()

	checker, release := shimcompiler.Program_GetTypeChecker(program, context.Background())
	if checker == nil {
		t.Fatal("testts: failed to get type checker")
	}

	return &Env{
		Host:    hostquery.New(program, checker, release),
		Program: program,
	}
}
