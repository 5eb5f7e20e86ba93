package model

// Confidence is the coarse reliability label on a verdict
type Confidence string

const (
	ConfidenceHigh   Confidence = "high"   // Far below the decision threshold
	ConfidenceMedium Confidence = "medium" // Unique, but close to the threshold
	ConfidenceLow    Confidence = "low"    // Not unique, or verification degraded
)

// VerificationFailed is recorded as the most similar entry when no comparison could be made
const VerificationFailed = "verification_failed"

// SimilarityPair records both signals for one (candidate, entry) comparison
type SimilarityPair struct {
	Candidate     CandidateIdea `json:"candidate"`
	Entry         CatalogEntry  `json:"entry"`
	TitleScore    float64       `json:"title_score"`    // Judge score, clamped to [0,1]
	ContentScore  float64       `json:"content_score"`  // Cosine similarity, clamped to [0,1]
	CombinedScore float64       `json:"combined_score"` // Weighted blend of the two
}

// UniquenessVerdict is the decision returned for one candidate
type UniquenessVerdict struct {
	IsUnique         bool       `json:"is_unique"`
	MaxSimilarity    float64    `json:"max_similarity"`
	MostSimilarEntry string     `json:"most_similar_entry"`
	Confidence       Confidence `json:"confidence"`
	EntriesChecked   int        `json:"entries_checked"`

	// Degraded is set when the verdict comes from the failure fallback
	Degraded bool   `json:"degraded,omitempty"`
	Reason   string `json:"reason,omitempty"`
}
