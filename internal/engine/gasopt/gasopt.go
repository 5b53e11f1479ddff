// Package gasopt proposes gas optimizations for contract source. It is a
// suggestion engine, not a security pass: nothing here affects findings
// or the security score.
package gasopt

import "regexp"

// Suggestion is one concrete optimization opportunity with an estimated
// saving. Before and After show the shape of the rewrite, not a patch.
type Suggestion struct {
	Category    string `json:"category"`
	Description string `json:"description"`
	Impact      string `json:"impact"`
	Before      string `json:"before,omitempty"`
	After       string `json:"after,omitempty"`
	GasSaving   string `json:"gas_saving"`
}

// Storage write inside a loop body: a `for .. in` header followed by an
// indexed or plain assignment before the block closes.
var loopStorageWrite = regexp.MustCompile(`for[^\n]*in[^\n]*\{[\s\S]*?\w+(\[[^\]\n]+\])?\s*=[^=]`)

var nestedMap = regexp.MustCompile(`map<\s*address\s*,\s*map<`)

// Analyze scans the source text for known gas-inefficient shapes.
// Suggestions are emitted in a fixed check order so output is stable.
func Analyze(source []byte) []Suggestion {
	text := string(source)
	var suggestions []Suggestion

	if loopStorageWrite.MatchString(text) {
		suggestions = append(suggestions, Suggestion{
			Category:    "Storage Access",
			Description: "Storage written inside a loop body",
			Impact:      "high",
			Before:      "for item in items { total = total + item; }",
			After:       "let mut sum = 0; for item in items { sum = sum + item; } total = sum;",
			GasSaving:   "~5000 gas per loop iteration",
		})
	}

	if nestedMap.MatchString(text) {
		suggestions = append(suggestions, Suggestion{
			Category:    "Data Layout",
			Description: "Nested address-keyed maps force two storage lookups per access",
			Impact:      "medium",
			Before:      "map<address, map<u64, u64>>",
			After:       "map<(address, u64), u64>",
			GasSaving:   "~2100 gas per access",
		})
	}

	return suggestions
}
