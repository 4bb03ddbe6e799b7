package story

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
)

func TestPickDeterministic(t *testing.T) {
	ps := DefaultPromptSet()
	first := ps.Pick("run-abc-123")
	for i := 0; i < 10; i++ {
		if got := ps.Pick("run-abc-123"); got != first {
			t.Fatalf("same seed picked different prompts: %q vs %q", first, got)
		}
	}
}

func TestPickReturnsKnownPrompt(t *testing.T) {
	ps := DefaultPromptSet()
	seeds := []string{"a", "b", "c", "run-1", "run-2", ""}
	for _, seed := range seeds {
		got := ps.Pick(seed)
		found := false
		for _, p := range defaultPrompts {
			if p == got {
				found = true
				break
			}
		}
		if !found {
			t.Fatalf("seed %q picked unknown prompt %q", seed, got)
		}
	}
}

func TestPickLargeHashesStayInRange(t *testing.T) {
	// Seeds with hash values above math.MaxInt32 must still index the list;
	// a signed conversion of the hash would make the modulus negative on
	// 32-bit platforms.
	ps := DefaultPromptSet()
	for i := 0; i < 1000; i++ {
		got := ps.Pick(fmt.Sprintf("run-%d", i))
		if got == "" {
			t.Fatalf("seed run-%d picked empty prompt", i)
		}
	}
}

func TestLoadPromptSet(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "prompts.yaml")
	content := "prompts:\n  - \"Tell a story about a lighthouse.\"\n  - \"  \"\n  - \"Tell a story about a snail.\"\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	ps, err := LoadPromptSet(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if ps.Len() != 2 {
		t.Fatalf("prompt count: want=2 got=%d", ps.Len())
	}
}

func TestLoadPromptSetEmpty(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "prompts.yaml")
	if err := os.WriteFile(path, []byte("prompts: []\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadPromptSet(path); err == nil {
		t.Fatal("expected error for empty prompt list")
	}
}

func TestLoadPromptSetMissingFile(t *testing.T) {
	if _, err := LoadPromptSet(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}
