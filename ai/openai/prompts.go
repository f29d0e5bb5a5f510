package openai

import (
	"fmt"
	"strings"
)

const scoringSystemPrompt = `You grade how well candidate answers address a user's question.
Reply with ONLY a JSON array of numbers, one per candidate, each between 0.0 and 1.0.
1.0 means the candidate fully answers the question, 0.0 means it is unrelated.
Do not explain. Do not add keys. Example reply for three candidates: [0.9, 0.2, 0.55]`

// buildScoringPrompt lays out the question and numbered candidates for the
// grading model.
func buildScoringPrompt(query string, answers []string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "QUESTION: %s\n\nCANDIDATES:\n", query)
	for i, answer := range answers {
		fmt.Fprintf(&b, "%d. %s\n", i+1, answer)
	}
	fmt.Fprintf(&b, "\nReturn a JSON array of %d scores.", len(answers))
	return b.String()
}

// extractJSONArray trims prose and markdown fencing that chat models wrap
// around JSON output, keeping just the outermost array literal.
func extractJSONArray(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")

	start := strings.IndexByte(s, '[')
	end := strings.LastIndexByte(s, ']')
	if start >= 0 && end > start {
		return s[start : end+1]
	}
	return strings.TrimSpace(s)
}
