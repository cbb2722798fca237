package extract

// Confidence tuning constants. The values come straight from the heuristics
// the scoring was calibrated against; they are knobs, not law.
const (
	managedConfidenceBase = 85
	managedWordBonus      = 5
	managedWordThreshold  = 500
	managedWordThreshold2 = 1000
	managedPageBonus      = 3
	confidenceCap         = 95
	localConfidenceFloor  = 60
	localWordDivisor      = 10
)

// ManagedConfidence estimates extraction quality for the cloud/managed
// backend path: base 85, bonuses for substantial word counts and multi-page
// documents, capped at 95. Non-decreasing in both inputs.
func ManagedConfidence(wordCount, pageCount int) int {
	conf := managedConfidenceBase
	if wordCount > managedWordThreshold {
		conf += managedWordBonus
	}
	if wordCount > managedWordThreshold2 {
		conf += managedWordBonus
	}
	if pageCount > 1 {
		conf += managedPageBonus
	}
	if conf > confidenceCap {
		conf = confidenceCap
	}
	return conf
}

// LocalConfidence estimates extraction quality for the multi-backend local
// path: word_count/10 clamped to [60, 95].
func LocalConfidence(wordCount int) int {
	conf := wordCount / localWordDivisor
	if conf < localConfidenceFloor {
		conf = localConfidenceFloor
	}
	if conf > confidenceCap {
		conf = confidenceCap
	}
	return conf
}

// ScoreWeights are the quality-score coefficients used to rank competing
// backend results. Configurable tuning parameters, defaulting to the
// calibration score = chars + 2*words.
type ScoreWeights struct {
	Char int
	Word int
}

// DefaultScoreWeights returns the calibrated defaults.
func DefaultScoreWeights() ScoreWeights {
	return ScoreWeights{Char: 1, Word: 2}
}

func (w ScoreWeights) score(charCount, wordCount int) int {
	return w.Char*charCount + w.Word*wordCount
}
