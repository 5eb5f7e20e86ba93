package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"

	"github.com/fatih/color"

	"github.com/ppiankov/novelty/internal/model"
	"github.com/ppiankov/novelty/internal/verify"
)

var (
	green  = color.New(color.FgGreen, color.Bold).SprintFunc()
	red    = color.New(color.FgRed, color.Bold).SprintFunc()
	yellow = color.New(color.FgYellow).SprintFunc()
	cyan   = color.New(color.FgCyan, color.Bold).SprintFunc()
	gray   = color.New(color.FgHiBlack).SprintFunc()
)

func renderJSON(w io.Writer, outcomes []verify.Outcome) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(outcomes); err != nil {
		return fmt.Errorf("encode outcomes: %w", err)
	}
	return nil
}

// renderOutcomes prints one block per outcome and a summary line
func renderOutcomes(w io.Writer, outcomes []verify.Outcome, pairs int) {
	unique := 0
	for _, o := range outcomes {
		v := o.Verdict
		if v.IsUnique {
			unique++
		}

		fmt.Fprintf(w, "%s %s\n", verdictLabel(v), cyan(o.Candidate.Title))
		fmt.Fprintf(w, "  max similarity: %.3f  confidence: %s  checked: %d\n",
			v.MaxSimilarity, confidenceLabel(v.Confidence), v.EntriesChecked)
		if v.MostSimilarEntry != "" {
			fmt.Fprintf(w, "  most similar:   %s\n", v.MostSimilarEntry)
		}
		if v.Degraded {
			fmt.Fprintf(w, "  %s %s\n", yellow("degraded:"), v.Reason)
		}
		if o.Stats.HeuristicBatches > 0 || o.Stats.FailedEmbeds > 0 {
			fmt.Fprintf(w, "  %s\n", gray(fmt.Sprintf("lexical batches: %d  skipped embedding batches: %d",
				o.Stats.HeuristicBatches, o.Stats.FailedEmbeds)))
		}
		for _, p := range topPairs(o.Pairs, pairs) {
			fmt.Fprintf(w, "    %.3f  (title %.2f, content %.2f)  %s\n",
				p.CombinedScore, p.TitleScore, p.ContentScore, p.Entry.Title)
		}
		fmt.Fprintln(w)
	}

	fmt.Fprintf(w, "%d of %d unique\n", unique, len(outcomes))
}

func verdictLabel(v model.UniquenessVerdict) string {
	if v.IsUnique {
		return green("✓ UNIQUE   ")
	}
	return red("✗ DUPLICATE")
}

func confidenceLabel(c model.Confidence) string {
	switch c {
	case model.ConfidenceHigh:
		return green(string(c))
	case model.ConfidenceMedium:
		return yellow(string(c))
	default:
		return red(string(c))
	}
}

// topPairs returns the n highest-scoring pairs, ties in catalog order
func topPairs(pairs []model.SimilarityPair, n int) []model.SimilarityPair {
	if n <= 0 || len(pairs) == 0 {
		return nil
	}
	sorted := make([]model.SimilarityPair, len(pairs))
	copy(sorted, pairs)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].CombinedScore > sorted[j].CombinedScore
	})
	return sorted[:min(n, len(sorted))]
}
