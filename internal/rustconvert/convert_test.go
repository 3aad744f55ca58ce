package rustconvert

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ts2rs/ts2rs/internal/testts"
)

func TestConvert_WritesOutputAndReturnsNames(t *testing.T) {
	env := testts.New(t, map[string]string{"index.ts": `
		export interface Greeting {
			message: string;
			loud?: boolean;
		}
	`})
	defer env.Host.Release()

	dir := t.TempDir()
	out := filepath.Join(dir, "generated", "types.rs")

	result, err := Convert(env.Host, Options{
		EntryFile:  "index.ts",
		OutputPath: out,
	})
	if err != nil {
		t.Fatalf("Convert: %v", err)
	}
	if len(result.EmittedNames) != 1 || result.EmittedNames[0] != "Greeting" {
		t.Fatalf("EmittedNames = %v", result.EmittedNames)
	}
	if !strings.Contains(result.Text, "pub struct Greeting") {
		t.Fatalf("text missing struct decl:\n%s", result.Text)
	}

	written, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("reading output: %v", err)
	}
	if string(written) != result.Text {
		t.Fatal("written file does not match returned text")
	}
}

func TestConvert_MissingEntryFile(t *testing.T) {
	if _, err := Convert(nil, Options{}); err == nil {
		t.Fatal("expected an error for a missing entry_file")
	}
}
