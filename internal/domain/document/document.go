package document

// Document is the canonical legal document record produced by search normalization.
// Metadata is always populated, even when the source used the legacy flat layout.
type Document struct {
	ID          string     `json:"id"`
	Score       float64    `json:"score,omitempty"`
	FileName    string     `json:"file_name"`
	FilePath    string     `json:"file_path"`
	FileURL     string     `json:"file_url,omitempty"`
	S3URI       string     `json:"s3_uri,omitempty"`
	Text        string     `json:"text"`
	DocType     string     `json:"doc_type"`
	Category    string     `json:"category,omitempty"`
	Hash        string     `json:"hash,omitempty"`
	CreatedAt   string     `json:"created_at"`
	UpdatedAt   string     `json:"updated_at,omitempty"`
	Size        int64      `json:"size,omitempty"`
	ContentType string     `json:"content_type,omitempty"`
	Metadata    Metadata   `json:"metadata"`
	Highlight   *Highlight `json:"highlight,omitempty"`

	// Legacy fields.
	Title   string `json:"title,omitempty"`
	Content string `json:"content,omitempty"`
}

// Highlight holds matched fragments flattened across all highlighted fields.
type Highlight struct {
	Text []string `json:"text,omitempty"`
}

// Metadata is the legal metadata attached to a document.
type Metadata struct {
	DocumentName string `json:"document_name"`
	Subject      string `json:"subject"`
	Summary      string `json:"summary,omitempty"`
	DocumentType string `json:"document_type,omitempty"`

	Case      *CaseInfo  `json:"case,omitempty"`
	Court     *CourtInfo `json:"court,omitempty"`
	Parties   []Party    `json:"parties,omitempty"`
	Attorneys []Attorney `json:"attorneys,omitempty"`
	Judge     *Judge     `json:"judge,omitempty"`

	FilingDate   string `json:"filing_date,omitempty"`
	EventDate    string `json:"event_date,omitempty"`
	HearingDate  string `json:"hearing_date,omitempty"`
	DecisionDate string `json:"decision_date,omitempty"`
	ServedDate   string `json:"served_date,omitempty"`
	Timestamp    string `json:"timestamp,omitempty"`
	Status       string `json:"status,omitempty"`

	Language  string `json:"language,omitempty"`
	Pages     int    `json:"pages,omitempty"`
	PageCount int    `json:"page_count,omitempty"`
	WordCount int    `json:"word_count,omitempty"`

	LegalTags   []string    `json:"legal_tags,omitempty"`
	Charges     []Charge    `json:"charges,omitempty"`
	Authorities []Authority `json:"authorities,omitempty"`

	ProcessedAt              string  `json:"processed_at"`
	Confidence               float64 `json:"confidence,omitempty"`
	AIClassified             bool    `json:"ai_classified"`
	ClassificationConfidence float64 `json:"classification_confidence,omitempty"`

	SensitiveTerms   []string `json:"sensitive_terms,omitempty"`
	HasRedactions    bool     `json:"has_redactions,omitempty"`
	RedactionScore   float64  `json:"redaction_score,omitempty"`
	ExtractionMethod string   `json:"extraction_method,omitempty"`
	FileType         string   `json:"file_type,omitempty"`

	// Legacy flat case fields, populated only when Case is absent.
	CaseName   string `json:"case_name,omitempty"`
	CaseNumber string `json:"case_number,omitempty"`
	Author     string `json:"author,omitempty"`
}

// DateField names a legal date carried in Metadata.
type DateField string

// Legal date fields, in the order the date-range samples scan them.
const (
	FilingDate   DateField = "filing_date"
	EventDate    DateField = "event_date"
	HearingDate  DateField = "hearing_date"
	DecisionDate DateField = "decision_date"
	ServedDate   DateField = "served_date"
)

// DateFields lists all legal date fields.
var DateFields = []DateField{FilingDate, EventDate, HearingDate, DecisionDate, ServedDate}

// Path returns the backend field path, e.g. "metadata.filing_date".
func (f DateField) Path() string { return "metadata." + string(f) }

// Date returns the value of a legal date field, or "" when unset.
func (m *Metadata) Date(f DateField) string {
	switch f {
	case FilingDate:
		return m.FilingDate
	case EventDate:
		return m.EventDate
	case HearingDate:
		return m.HearingDate
	case DecisionDate:
		return m.DecisionDate
	case ServedDate:
		return m.ServedDate
	default:
		return ""
	}
}

// PageTotal returns pages, falling back to the legacy page_count.
func (m *Metadata) PageTotal() int {
	if m.Pages > 0 {
		return m.Pages
	}
	return m.PageCount
}
