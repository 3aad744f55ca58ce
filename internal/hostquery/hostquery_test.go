package hostquery_test

import (
	"sort"
	"testing"

	"github.com/ts2rs/ts2rs/internal/testts"
)

// LoadedModules is watch mode's dependency list (cmd/ts2rs/watch.go):
// after the lookups a resolve pass makes for Box and for its field
// type Shape, it must contain the entry module plus the imported
// module the Shape search reached, and nothing else.
func TestHost_LoadedModules(t *testing.T) {
	env := testts.New(t, map[string]string{
		"index.ts": `
			import { Shape } from "./shapes";
			export interface Box { shape: Shape; }
		`,
		"shapes.ts": `export interface Shape { kind: string; }`,
		"unused.ts":  `export interface Unused { n: number; }`,
	})
	defer env.Host.Release()

	if _, err := env.Host.FindDeclaration("index.ts", "Box"); err != nil {
		t.Fatalf("FindDeclaration: %v", err)
	}
	if _, err := env.Host.FindDeclaration("index.ts", "Shape"); err != nil {
		t.Fatalf("FindDeclaration: %v", err)
	}

	modules := env.Host.LoadedModules()
	var names []string
	for _, m := range modules {
		names = append(names, shortName(m))
	}
	sort.Strings(names)

	want := []string{"index.ts", "shapes.ts"}
	if len(names) != len(want) {
		t.Fatalf("LoadedModules = %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("LoadedModules[%d] = %q, want %q", i, names[i], want[i])
		}
	}
}

// shortName strips the virtual project root so assertions don't depend
// on testts's internal rootDir constant.
func shortName(path string) string {
	for i := len(path) - 1; i >= 0; i-- {
		if path[i] == '/' {
			return path[i+1:]
		}
	}
	return path
}
