package usecase

import (
	"fmt"
	"strings"

	"github.com/jakehanson/ssa-disability-app/internal/core/domain"
)

// NoEvidenceSentinel stands in for the evidence block when retrieval ran
// but found nothing usable. The answer model sees it and is expected to
// say so rather than invent listings.
const NoEvidenceSentinel = "No relevant SSA Blue Book passages were retrieved."

// FormatEvidenceBlock renders retrieved matches into the context block fed
// to the answer model. Rank follows retrieval order, 1-based.
func FormatEvidenceBlock(matches []domain.EvidenceMatch) string {
	if len(matches) == 0 {
		return NoEvidenceSentinel
	}

	entries := make([]string, 0, len(matches))
	for i, m := range matches {
		var b strings.Builder
		fmt.Fprintf(&b, "Context %d | Section: %s | Score: %.3f\n%s", i+1, m.Section, m.Score, m.Text)
		if m.Source != "" {
			fmt.Fprintf(&b, "\nSource: %s", m.Source)
		}
		entries = append(entries, b.String())
	}
	return strings.Join(entries, "\n\n")
}

// buildAugmentedQuestion wraps the user's question with the evidence block.
// The original question text is carried verbatim so nothing the user wrote
// is lost or paraphrased.
func buildAugmentedQuestion(question, evidenceBlock string) string {
	return "Use the following SSA Blue Book passages to answer the question. " +
		"If the passages do not cover the question, say so.\n\n" +
		evidenceBlock +
		"\n\nQuestion: " + question
}
