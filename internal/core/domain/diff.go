package domain

// DiffSampleSize is the number of added or removed lines kept as samples.
const DiffSampleSize = 10

// DiffResult is the outcome of comparing two texts line by line.
type DiffResult struct {
	// SimilarityRatio is in [0, 1], computed over the full texts.
	SimilarityRatio float64 `json:"similarity_ratio"`

	AddedLines   int `json:"added_lines"`
	RemovedLines int `json:"removed_lines"`

	// SampleAdded holds the first DiffSampleSize added lines.
	SampleAdded []string `json:"sample_added"`

	// SampleRemoved holds the first DiffSampleSize removed lines.
	SampleRemoved []string `json:"sample_removed"`

	// UnifiedDiff is the unified diff, empty when comparing raw text.
	UnifiedDiff string `json:"unified_diff,omitempty"`

	// Identical is true when no line was added or removed.
	Identical bool `json:"identical"`

	// Verdict classifies the difference, see DiffVerdict.
	Verdict DiffVerdict `json:"verdict"`
}

// DiffVerdict is a coarse classification of how far two texts diverge.
type DiffVerdict string

// Available verdicts.
const (
	DiffIdentical   DiffVerdict = "identical"
	DiffMinor       DiffVerdict = "minor_changes"
	DiffSignificant DiffVerdict = "significant_changes"
	DiffMajor       DiffVerdict = "major_differences"
)

// ClassifyDiff derives the verdict from change counts and similarity.
func ClassifyDiff(added, removed int, ratio float64) DiffVerdict {
	switch {
	case added == 0 && removed == 0:
		return DiffIdentical
	case ratio > 0.9:
		return DiffMinor
	case ratio > 0.7:
		return DiffSignificant
	default:
		return DiffMajor
	}
}

// Description returns a human-readable summary of the verdict.
func (v DiffVerdict) Description() string {
	switch v {
	case DiffIdentical:
		return "The documents are identical"
	case DiffMinor:
		return "The documents are very similar, with only minor changes"
	case DiffSignificant:
		return "The documents have some significant changes"
	case DiffMajor:
		return "The documents have major differences"
	default:
		return unknownDescription
	}
}
