package pokeapi

import "strings"

// Normalizer maps user-facing display names to the canonical lookup
// keys the reference API expects. It is a pure, case-insensitive
// mapping: names in the override table collapse to their canonical
// form key, everything else is lowercased verbatim.
type Normalizer struct {
	overrides map[string]string
}

// NewNormalizer builds a Normalizer from a display-name override table.
// Keys are matched case-insensitively. A nil table is valid and yields
// lowercase-only normalization.
func NewNormalizer(overrides map[string]string) *Normalizer {
	table := make(map[string]string, len(overrides))
	for from, to := range overrides {
		table[strings.ToLower(from)] = strings.ToLower(to)
	}
	return &Normalizer{overrides: table}
}

// Normalize returns the canonical lookup key for a display name.
//
// Postcondition: Normalize(Normalize(x)) == Normalize(x). The override
// table only maps base names to suffixed form keys, so an already
// canonical key passes through the lowercase branch unchanged.
func (n *Normalizer) Normalize(displayName string) string {
	key := strings.ToLower(strings.TrimSpace(displayName))
	if canonical, ok := n.overrides[key]; ok {
		return canonical
	}
	return key
}
