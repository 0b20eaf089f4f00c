// Package normalize canonicalizes bookmaker-provided team and player names.
// Different books spell the same outcome slightly differently ("LA Clippers
// FC", "la clippers"); arbitrage analysis can only align outcomes across
// books once both sides map to the same canonical form.
package normalize

import (
	"regexp"
	"strings"
	"sync"
)

var (
	suffixRe     = regexp.MustCompile(`(?i)\b(f\.c\.|fc|club)\b`)
	whitespaceRe = regexp.MustCompile(`\s+`)
)

// Normalizer maps raw bookmaker names to canonical forms. Explicit overrides
// win; everything else goes through deterministic cleanup (suffix stripping,
// whitespace squashing, title casing). Safe for concurrent use.
type Normalizer struct {
	mu        sync.RWMutex
	overrides map[string]string
}

// New creates a Normalizer with the given overrides. Override keys are
// matched case-insensitively against the raw input.
func New(overrides map[string]string) *Normalizer {
	m := make(map[string]string, len(overrides))
	for raw, canonical := range overrides {
		m[strings.ToLower(raw)] = canonical
	}
	return &Normalizer{overrides: m}
}

// Canonicalize returns the canonical form of a raw name.
func (n *Normalizer) Canonicalize(raw string) string {
	key := strings.ToLower(strings.TrimSpace(raw))

	n.mu.RLock()
	canonical, ok := n.overrides[key]
	n.mu.RUnlock()
	if ok {
		return canonical
	}

	cleaned := suffixRe.ReplaceAllString(key, "")
	cleaned = whitespaceRe.ReplaceAllString(strings.TrimSpace(cleaned), " ")
	return titleCase(cleaned)
}

// Update merges additional overrides into the normalizer.
func (n *Normalizer) Update(overrides map[string]string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	for raw, canonical := range overrides {
		n.overrides[strings.ToLower(raw)] = canonical
	}
}

func titleCase(s string) string {
	words := strings.Split(s, " ")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
