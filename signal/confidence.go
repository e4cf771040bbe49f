package signal

// Confidence is a 0-100 companion score to the quality grade, derived from
// the same four checks (each worth 25 points).
type Confidence struct {
	Confidence int   `json:"confidence"`
	Quality    Grade `json:"quality"`
}

// ConfidenceFor converts a Quality into its confidence score.
func ConfidenceFor(q Quality) Confidence {
	return Confidence{
		Confidence: q.CheckScore() * 25,
		Quality:    q.Grade,
	}
}
