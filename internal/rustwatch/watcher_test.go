package rustwatch

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestWatcher_BuildSnapshot(t *testing.T) {
	dir := t.TempDir()
	foo := filepath.Join(dir, "foo.ts")
	os.WriteFile(foo, []byte("export const x = 1;"), 0644)
	os.WriteFile(filepath.Join(dir, "bar.ts"), []byte("export const y = 2;"), 0644)

	w := New([]string{foo}, 100*time.Millisecond, nil)
	snap := w.buildSnapshot()

	if len(snap) != 1 {
		t.Fatalf("expected 1 file in snapshot, got %d", len(snap))
	}
	if _, ok := snap[foo]; !ok {
		t.Fatalf("expected %s in snapshot", foo)
	}
}

func TestWatcher_BuildSnapshot_SkipsMissingFiles(t *testing.T) {
	dir := t.TempDir()
	present := filepath.Join(dir, "present.ts")
	os.WriteFile(present, []byte("export const x = 1;"), 0644)
	missing := filepath.Join(dir, "missing.ts")

	w := New([]string{present, missing}, 100*time.Millisecond, nil)
	snap := w.buildSnapshot()

	if len(snap) != 1 {
		t.Fatalf("expected 1 file in snapshot, got %d", len(snap))
	}
	if _, ok := snap[missing]; ok {
		t.Fatalf("did not expect %s in snapshot", missing)
	}
}

func TestWatcher_SetFiles(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.ts")
	b := filepath.Join(dir, "b.ts")
	os.WriteFile(a, []byte("export const a = 1;"), 0644)
	os.WriteFile(b, []byte("export const b = 2;"), 0644)

	w := New([]string{a}, 100*time.Millisecond, nil)
	if snap := w.buildSnapshot(); len(snap) != 1 {
		t.Fatalf("expected 1 file before SetFiles, got %d", len(snap))
	}

	w.SetFiles([]string{a, b})
	snap := w.buildSnapshot()
	if len(snap) != 2 {
		t.Fatalf("expected 2 files after SetFiles, got %d", len(snap))
	}
}

func TestWatcher_Diff_Create(t *testing.T) {
	w := &Watcher{}
	old := map[string]fileInfo{}
	new := map[string]fileInfo{
		"/a.ts": {modTime: time.Now(), size: 10},
	}
	events := w.diff(old, new)
	if len(events) != 1 || events[0].Op != "create" {
		t.Errorf("expected 1 create event, got %v", events)
	}
}

func TestWatcher_Diff_Write(t *testing.T) {
	w := &Watcher{}
	now := time.Now()
	old := map[string]fileInfo{"/a.ts": {modTime: now, size: 10}}
	new := map[string]fileInfo{"/a.ts": {modTime: now.Add(time.Second), size: 15}}
	events := w.diff(old, new)
	if len(events) != 1 || events[0].Op != "write" {
		t.Errorf("expected 1 write event, got %v", events)
	}
}

func TestWatcher_Diff_Remove(t *testing.T) {
	w := &Watcher{}
	old := map[string]fileInfo{"/a.ts": {modTime: time.Now(), size: 10}}
	new := map[string]fileInfo{}
	events := w.diff(old, new)
	if len(events) != 1 || events[0].Op != "remove" {
		t.Errorf("expected 1 remove event, got %v", events)
	}
}

func TestWatcher_Diff_MultipleEvents(t *testing.T) {
	w := &Watcher{}
	now := time.Now()
	old := map[string]fileInfo{
		"/a.ts": {modTime: now, size: 10},
		"/b.ts": {modTime: now, size: 20},
	}
	new := map[string]fileInfo{
		"/a.ts": {modTime: now.Add(time.Second), size: 15}, // modified
		"/c.ts": {modTime: now, size: 30},                  // created
		// /b.ts removed
	}
	events := w.diff(old, new)
	if len(events) != 3 {
		t.Fatalf("expected 3 events, got %d: %v", len(events), events)
	}

	ops := make(map[string]bool)
	for _, e := range events {
		ops[e.Op] = true
	}
	if !ops["write"] || !ops["create"] || !ops["remove"] {
		t.Errorf("expected write, create, and remove events, got %v", events)
	}
}
