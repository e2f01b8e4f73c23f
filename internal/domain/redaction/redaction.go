package redaction

// Area is a rectangle on a page that should be redacted.
type Area struct {
	Page   int     `json:"page"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Analysis is the result of scanning a document for sensitive content.
type Analysis struct {
	RedactionsFound  int                `json:"redactions_found"`
	SensitiveTerms   []string           `json:"sensitive_terms"`
	ConfidenceScores map[string]float64 `json:"confidence_scores"`
	RedactionAreas   []Area             `json:"redaction_areas"`
}

// AnalyzeResult is returned by an uploaded-file analysis.
type AnalyzeResult struct {
	Analysis *Analysis `json:"redaction_analysis,omitempty"`
	Message  string    `json:"message,omitempty"`
}

// RedactResult acknowledges creation of a redacted copy.
type RedactResult struct {
	DocumentID  string `json:"document_id"`
	RedactedURL string `json:"redacted_url,omitempty"`
	Message     string `json:"message"`
}
