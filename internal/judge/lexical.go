package judge

import "strings"

// LexicalOverlap is the fallback title score: shared lowercase
// whitespace-separated tokens over the larger token-set size
func LexicalOverlap(a, b string) float64 {
	setA := tokenSet(a)
	setB := tokenSet(b)

	larger := max(len(setA), len(setB))
	if larger == 0 {
		return 0
	}

	shared := 0
	for tok := range setA {
		if _, ok := setB[tok]; ok {
			shared++
		}
	}
	return float64(shared) / float64(larger)
}

// Lexical scores every title against the candidate with LexicalOverlap
func Lexical(candidateTitle string, titles []string) []float64 {
	scores := make([]float64, len(titles))
	for i, t := range titles {
		scores[i] = LexicalOverlap(candidateTitle, t)
	}
	return scores
}

func tokenSet(s string) map[string]struct{} {
	fields := strings.Fields(strings.ToLower(s))
	set := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		set[f] = struct{}{}
	}
	return set
}
