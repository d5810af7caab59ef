// Package personality holds the agent's persona as loadable data: traits and
// prompt material for the LLM, plus the canned template pools the dispatcher
// and scheduler draw from. Nothing in here is code-level behavior; swapping
// the YAML swaps the voice.
package personality

import (
	_ "embed"
	"fmt"
	"math/rand"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed persona.yaml
var defaultPersonaYAML []byte

// Persona is the full personality table.
type Persona struct {
	Name      string   `yaml:"name"`
	Role      string   `yaml:"role"`
	Account   string   `yaml:"account"`
	Traits    []string `yaml:"traits"`
	Interests []string `yaml:"interests"`
	Expertise []string `yaml:"expertise"`

	Greetings     []string `yaml:"greetings"`
	GmTemplates   []string `yaml:"gm_templates"`
	FallbackLines []string `yaml:"fallback_lines"`

	// Canned auto-reply templates keyed by mention keyword category. The
	// "default" key must exist.
	ReplyTemplates map[string]string `yaml:"reply_templates"`

	// Category probe order for auto-replies; categories listed here map to
	// the comma-separated keywords that trigger them.
	ReplyCategories []ReplyCategory `yaml:"reply_categories"`

	Guidelines []string `yaml:"guidelines"`
}

// ReplyCategory binds keywords in a mention's text to a reply template.
type ReplyCategory struct {
	Name     string   `yaml:"name"`
	Keywords []string `yaml:"keywords"`
}

// Default returns the embedded fox persona.
func Default() (*Persona, error) {
	return parse(defaultPersonaYAML)
}

// Load reads a persona table from disk, falling back to the embedded default
// when path is empty.
func Load(path string) (*Persona, error) {
	if path == "" {
		return Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading persona file: %w", err)
	}
	return parse(data)
}

func parse(data []byte) (*Persona, error) {
	var p Persona
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parsing persona: %w", err)
	}
	if p.Name == "" {
		return nil, fmt.Errorf("persona missing name")
	}
	if _, ok := p.ReplyTemplates["default"]; !ok {
		return nil, fmt.Errorf("persona missing default reply template")
	}
	return &p, nil
}

// SystemPrompt renders the persona into the LLM system message.
func (p *Persona) SystemPrompt() string {
	var b strings.Builder
	fmt.Fprintf(&b, "You are %s, %s.\n\n", p.Name, p.Role)
	fmt.Fprintf(&b, "PERSONALITY TRAITS: %s\n\n", strings.Join(p.Traits, ", "))
	fmt.Fprintf(&b, "INTERESTS: %s\n\n", strings.Join(p.Interests, ", "))
	fmt.Fprintf(&b, "EXPERTISE: %s\n\n", strings.Join(p.Expertise, ", "))
	b.WriteString("RESPONSE GUIDELINES:\n")
	for _, g := range p.Guidelines {
		fmt.Fprintf(&b, "- %s\n", g)
	}
	return b.String()
}

// Greeting picks a canned greeting.
func (p *Persona) Greeting(rng *rand.Rand) string {
	return pick(rng, p.Greetings)
}

// GmTweet picks a canned GM tweet template.
func (p *Persona) GmTweet(rng *rand.Rand) string {
	return pick(rng, p.GmTemplates)
}

// FallbackLine picks a canned chat response for when no LLM is configured.
func (p *Persona) FallbackLine(rng *rand.Rand) string {
	return pick(rng, p.FallbackLines)
}

// ReplyFor selects the canned reply for a mention by scanning its text for
// the first matching keyword category.
func (p *Persona) ReplyFor(mentionText string) string {
	lower := strings.ToLower(mentionText)
	for _, cat := range p.ReplyCategories {
		for _, kw := range cat.Keywords {
			if strings.Contains(lower, kw) {
				if tpl, ok := p.ReplyTemplates[cat.Name]; ok {
					return tpl
				}
			}
		}
	}
	return p.ReplyTemplates["default"]
}

func pick(rng *rand.Rand, pool []string) string {
	if len(pool) == 0 {
		return ""
	}
	return pool[rng.Intn(len(pool))]
}
