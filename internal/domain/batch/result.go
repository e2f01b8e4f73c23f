package batch

import "github.com/kailas-cloud/lexsearch/internal/domain/document"

// ItemStatus is the processing outcome of a single document in a job.
type ItemStatus string

// Item status values.
const (
	ItemSuccess ItemStatus = "success"
	ItemError   ItemStatus = "error"
	ItemSkipped ItemStatus = "skipped"
)

// Result is the outcome of classifying one document.
type Result struct {
	DocumentID     string          `json:"document_id"`
	DocumentPath   string          `json:"document_path"`
	Status         ItemStatus      `json:"status"`
	Classification *Classification `json:"classification_result,omitempty"`
	Error          string          `json:"error,omitempty"`
	Indexed        bool            `json:"indexed"`
	IndexError     string          `json:"index_error,omitempty"`
	IndexID        string          `json:"index_id,omitempty"`
	ProcessedAt    string          `json:"processed_at"`
}

// OK reports whether the document was classified.
func (r Result) OK() bool { return r.Status == ItemSuccess }

// Classification is the classifier output for one document.
type Classification struct {
	DocumentType  string              `json:"document_type"`
	LegalCategory string              `json:"legal_category,omitempty"`
	Subject       string              `json:"subject,omitempty"`
	Summary       string              `json:"summary,omitempty"`
	Confidence    float64             `json:"confidence"`
	Success       bool                `json:"success"`
	Error         string              `json:"error,omitempty"`
	FilingDate    string              `json:"filing_date,omitempty"`
	EventDate     string              `json:"event_date,omitempty"`
	HearingDate   string              `json:"hearing_date,omitempty"`
	DecisionDate  string              `json:"decision_date,omitempty"`
	ServedDate    string              `json:"served_date,omitempty"`
	LegalTags     []string            `json:"legal_tags,omitempty"`
	CaseNumber    string              `json:"case_number,omitempty"`
	CaseName      string              `json:"case_name,omitempty"`
	Court         *document.CourtInfo `json:"court,omitempty"`
	Judge         *document.Judge     `json:"judge,omitempty"`
	Parties       []document.Party    `json:"parties,omitempty"`
	Attorneys     []document.Attorney `json:"attorneys,omitempty"`
}

// Summary tallies item outcomes.
type Summary struct {
	Success int
	Error   int
	Skipped int
}

// Summarize counts results by status.
func Summarize(results []Result) Summary {
	var s Summary
	for _, r := range results {
		switch r.Status {
		case ItemSuccess:
			s.Success++
		case ItemError:
			s.Error++
		case ItemSkipped:
			s.Skipped++
		}
	}
	return s
}
