package entity

// TranscriptSegment is one timed span of speech as produced by the
// speech model. Only Start and Text are consumed downstream; End is
// carried through for completeness.
type TranscriptSegment struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Text  string  `json:"text"`
}
