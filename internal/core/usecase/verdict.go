package usecase

import "strings"

// classifierPrompt forces a one-word verdict so the gate call can cap
// output at a single token.
const classifierPrompt = "You decide whether a question needs passages from the SSA Blue Book " +
	"(the Social Security disability medical listings) to answer well. " +
	"Reply with exactly one word: yes or no."

// ParseVerdict interprets the classifier's reply. Only an unambiguous "no"
// skips retrieval; anything else, including malformed output, retrieves.
// Failing open costs one extra lookup, failing closed costs an answer.
func ParseVerdict(reply string) bool {
	return strings.ToLower(strings.TrimSpace(reply)) != "no"
}
