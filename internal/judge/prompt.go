package judge

import (
	"fmt"
	"strings"
)

const systemPrompt = "You are a content similarity expert. You answer with a JSON array of numbers and nothing else."

// BuildPrompt asks for one 0.0-1.0 similarity score per existing title,
// with calibration anchors and an explicit length requirement
func BuildPrompt(candidateTitle string, titles []string) string {
	var b strings.Builder

	b.WriteString("Compare the proposed content idea with existing article titles to determine semantic similarity.\n\n")
	fmt.Fprintf(&b, "PROPOSED IDEA: %q\n\n", candidateTitle)

	b.WriteString("EXISTING TITLES:\n")
	for i, t := range titles {
		fmt.Fprintf(&b, "%d. %q\n", i+1, t)
	}

	b.WriteString(`
For each existing title, rate how similar it is to the proposed idea on a scale of 0.0 to 1.0, where:
- 1.0 = Essentially the same topic (duplicate content)
- 0.8-0.9 = Very similar topic with slight variation
- 0.6-0.7 = Related topic but different angle
- 0.4-0.5 = Somewhat related
- 0.0-0.3 = Different topics

Consider semantic meaning, not just word matching. For example:
- "How to install X" vs "Integrating X guide" = high similarity (~0.85)
- "React file upload" vs "File handling in React" = high similarity (~0.8)
- "Best practices for X" vs "X tutorial" = medium similarity (~0.6)

`)
	fmt.Fprintf(&b, "CRITICAL: Respond with ONLY a valid JSON array of exactly %d numbers, no explanations:\n", len(titles))
	b.WriteString(exampleArray(len(titles)))

	return b.String()
}

func exampleArray(n int) string {
	samples := []string{"0.85", "0.23", "0.91", "0.45"}
	if n < len(samples) {
		samples = samples[:max(n, 1)]
	}
	return "[" + strings.Join(samples, ", ") + "]"
}
