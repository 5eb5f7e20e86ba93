package similarity

import "github.com/ppiankov/novelty/internal/model"

// DefaultHighConfidenceBelow is the score under which a verdict is high confidence
const DefaultHighConfidenceBelow = 0.45

// Classifier thresholds a maximum similarity into a verdict
type Classifier struct {
	Threshold           float64 // Scores below this are unique
	HighConfidenceBelow float64 // Scores below min(this, Threshold) are high confidence
}

// Classify returns the verdict for the best score over checked entries.
// Tiers: high when score < min(HighConfidenceBelow, Threshold), medium when
// below Threshold otherwise, low for everything else.
func (c Classifier) Classify(score float64, mostSimilar string, checked int) model.UniquenessVerdict {
	return model.UniquenessVerdict{
		IsUnique:         score < c.Threshold,
		MaxSimilarity:    score,
		MostSimilarEntry: mostSimilar,
		Confidence:       c.Tier(score),
		EntriesChecked:   checked,
	}
}

// Tier maps a score to exactly one confidence tier
func (c Classifier) Tier(score float64) model.Confidence {
	high := min(c.HighConfidenceBelow, c.Threshold)
	switch {
	case score < high:
		return model.ConfidenceHigh
	case score < c.Threshold:
		return model.ConfidenceMedium
	default:
		return model.ConfidenceLow
	}
}

// FromBest classifies a folded running best
func (c Classifier) FromBest(b Best) model.UniquenessVerdict {
	return c.Classify(b.Score, b.Entry, b.Checked)
}

// Empty is the verdict for a catalog with nothing to compete with
func Empty() model.UniquenessVerdict {
	return model.UniquenessVerdict{
		IsUnique:       true,
		MaxSimilarity:  0,
		Confidence:     model.ConfidenceHigh,
		EntriesChecked: 0,
	}
}

// Failed is the degraded verdict used when no comparison could be made.
// It is always unique with low confidence so a reviewer spot-checks it.
func Failed(score float64, reason string) model.UniquenessVerdict {
	return model.UniquenessVerdict{
		IsUnique:         true,
		MaxSimilarity:    score,
		MostSimilarEntry: model.VerificationFailed,
		Confidence:       model.ConfidenceLow,
		EntriesChecked:   0,
		Degraded:         true,
		Reason:           reason,
	}
}
