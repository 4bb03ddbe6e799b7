package story

import (
	"fmt"
	"hash/fnv"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// SystemPrompt frames every generation call; the user prompt varies per run.
const SystemPrompt = "You are a calming storyteller who writes short bedtime stories."

var defaultPrompts = []string{
	"Write a gentle bedtime story about curiosity and exploration for children aged 5-7.",
	"Tell a short bedtime tale featuring a brave cat who learns about kindness.",
	"Create a calm bedtime story about a quiet night sky and the constellations coming alive.",
}

// PromptSet is the fixed list of story prompts for a process. One prompt is
// picked per pipeline run.
type PromptSet struct {
	prompts []string
}

func DefaultPromptSet() *PromptSet {
	return &PromptSet{prompts: defaultPrompts}
}

// LoadPromptSet reads a YAML file of the form `prompts: [...]` so deployments
// can swap the prompt list without a rebuild.
func LoadPromptSet(path string) (*PromptSet, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read prompts file %q: %w", path, err)
	}
	var doc struct {
		Prompts []string `yaml:"prompts"`
	}
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("parse prompts file %q: %w", path, err)
	}
	cleaned := make([]string, 0, len(doc.Prompts))
	for _, p := range doc.Prompts {
		if s := strings.TrimSpace(p); s != "" {
			cleaned = append(cleaned, s)
		}
	}
	if len(cleaned) == 0 {
		return nil, fmt.Errorf("prompts file %q contains no prompts", path)
	}
	return &PromptSet{prompts: cleaned}, nil
}

// Pick selects a prompt deterministically from the seed, so a retried run
// with the same run ID regenerates the same kind of story.
func (ps *PromptSet) Pick(seed string) string {
	h := fnv.New32a()
	_, _ = h.Write([]byte(seed))
	// Modulus in uint32: converting the hash to int first can go negative
	// on 32-bit platforms and index out of range.
	return ps.prompts[h.Sum32()%uint32(len(ps.prompts))]
}

func (ps *PromptSet) Len() int {
	return len(ps.prompts)
}
