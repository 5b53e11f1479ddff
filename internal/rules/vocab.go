package rules

import "strings"

// Present reports whether the term occurs in the source. lower must be the
// pre-lowercased form of content so repeated checks don't re-lowercase.
func (t Term) Present(content, lower string) bool {
	if t.CaseSensitive {
		return strings.Contains(content, t.Value)
	}
	return strings.Contains(lower, t.Value)
}

// MatchesVocabulary evaluates a vocabulary rule against the whole source:
// every required term must be present and no forbidden term may appear.
// A rule with no required terms is unconditional on the presence side.
func (r *CompiledRule) MatchesVocabulary(content, lower string) bool {
	for _, t := range r.Requires {
		if !t.Present(content, lower) {
			return false
		}
	}
	for _, t := range r.Forbids {
		if t.Present(content, lower) {
			return false
		}
	}
	return true
}
