package rustconvert

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-json-experiment/json"
)

// SchemaVersion is bumped when the cache format changes. A mismatch
// forces a full re-render, the same "binary upgrade invalidates the
// cache" guarantee tsgonest's post-processing cache gives.
const SchemaVersion = 1

// Cache records what was true the last time Convert actually rendered,
// so a repeated call with an identical entry file and option set can
// skip resolving and emitting entirely. Conservative by design: any
// mismatch forces a full re-render rather than attempting partial
// invalidation, since a single changed type can affect any emitted
// struct/union/alias that references it and nothing here tracks that
// dependency graph.
type Cache struct {
	V          int    `json:"v"`
	InputHash  string `json:"inputHash"`
	OutputPath string `json:"outputPath,omitempty"`
}

// CachePath returns the cache file's location, a sibling of
// outputPath (or, if outputPath is empty, a sibling of entryFile).
func CachePath(outputPath, entryFile string) string {
	if outputPath != "" {
		return outputPath + ".ts2rs-cache"
	}
	return entryFile + ".ts2rs-cache"
}

// Load reads and parses a cache file from disk. Returns nil on any
// error — callers should treat nil as a cache miss.
func Load(path string) *Cache {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil
	}
	var c Cache
	if err := json.Unmarshal(data, &c); err != nil {
		return nil
	}
	return &c
}

// Save writes the cache to disk atomically (write to temp, rename).
func Save(path string, c *Cache) error {
	data, err := json.Marshal(c, json.Deterministic(true))
	if err != nil {
		return fmt.Errorf("marshaling cache: %w", err)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating cache directory %s: %w", dir, err)
		}
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("writing cache temp file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("renaming cache file: %w", err)
	}
	return nil
}

// Delete removes the cache file from disk. Errors are ignored.
func Delete(path string) {
	os.Remove(path)
}

// IsValid reports whether c can be trusted to skip a re-render: the
// schema version and input hash must match, and (if set) the prior
// output file must still exist.
func (c *Cache) IsValid(currentInputHash string) bool {
	if c == nil {
		return false
	}
	if c.V != SchemaVersion {
		return false
	}
	if c.InputHash != currentInputHash {
		return false
	}
	if c.OutputPath != "" {
		if _, err := os.Stat(c.OutputPath); err != nil {
			return false
		}
	}
	return true
}

// HashInput computes a stable digest of the entry file's content plus
// the resolved option set, the cache key spec §5's "fresh Resolver per
// run" model otherwise gives no other handle on.
func HashInput(entryFileContent []byte, opts Options) string {
	h := sha256.New()
	h.Write(entryFileContent)
	optsJSON, _ := json.Marshal(opts, json.Deterministic(true))
	h.Write(optsJSON)
	return hex.EncodeToString(h.Sum(nil))
}

// New creates a Cache at the current schema version.
func New(inputHash, outputPath string) *Cache {
	return &Cache{V: SchemaVersion, InputHash: inputHash, OutputPath: outputPath}
}
