package rustconvert

import (
	"os"
	"path/filepath"
	"testing"
)

func TestCachePath(t *testing.T) {
	if got := CachePath("dist/types.rs", "src/index.ts"); got != "dist/types.rs.ts2rs-cache" {
		t.Errorf("CachePath = %q", got)
	}
	if got := CachePath("", "src/index.ts"); got != "src/index.ts.ts2rs-cache" {
		t.Errorf("CachePath fallback = %q", got)
	}
}

func TestCacheRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cache.json")

	c := New("abc123", filepath.Join(dir, "types.rs"))
	if err := Save(path, c); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := os.WriteFile(c.OutputPath, []byte("// output"), 0o644); err != nil {
		t.Fatal(err)
	}

	loaded := Load(path)
	if loaded == nil {
		t.Fatal("Load returned nil")
	}
	if !loaded.IsValid("abc123") {
		t.Fatal("expected cache to be valid")
	}
	if loaded.IsValid("different-hash") {
		t.Fatal("expected cache to be invalid for a different input hash")
	}
}

func TestCacheInvalidWhenOutputMissing(t *testing.T) {
	dir := t.TempDir()
	c := New("abc123", filepath.Join(dir, "types.rs"))
	if c.IsValid("abc123") {
		t.Fatal("expected cache to be invalid when the output file was never written")
	}
}

func TestHashInputIsDeterministic(t *testing.T) {
	opts := Options{EntryFile: "index.ts", TypeNames: []string{"A", "B"}}
	h1 := HashInput([]byte("export interface A {}"), opts)
	h2 := HashInput([]byte("export interface A {}"), opts)
	if h1 != h2 {
		t.Fatalf("HashInput not deterministic: %q != %q", h1, h2)
	}
	h3 := HashInput([]byte("export interface A { x: string }"), opts)
	if h1 == h3 {
		t.Fatal("expected different content to hash differently")
	}
}
