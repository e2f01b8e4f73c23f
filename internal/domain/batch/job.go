package batch

import "fmt"

// Status is the lifecycle state of a batch classification job.
type Status string

// Job states. Completed, failed and cancelled are terminal.
const (
	StatusQueued    Status = "queued"
	StatusRunning   Status = "running"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
	StatusCancelled Status = "cancelled"
)

var transitions = map[Status][]Status{
	StatusQueued:  {StatusRunning, StatusCompleted, StatusFailed, StatusCancelled},
	StatusRunning: {StatusCompleted, StatusFailed, StatusCancelled},
}

// IsValid reports whether s is a known state.
func (s Status) IsValid() bool {
	switch s {
	case StatusQueued, StatusRunning, StatusCompleted, StatusFailed, StatusCancelled:
		return true
	}
	return false
}

// IsTerminal reports whether the job can no longer change state.
func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusFailed || s == StatusCancelled
}

// CanTransition reports whether a job may move from s to next.
// Staying in the same state is always allowed.
func (s Status) CanTransition(next Status) bool {
	if s == next {
		return true
	}
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Progress is a snapshot of job counters.
type Progress struct {
	TotalDocuments    int     `json:"total_documents"`
	ProcessedCount    int     `json:"processed_count"`
	SuccessCount      int     `json:"success_count"`
	ErrorCount        int     `json:"error_count"`
	SkippedCount      int     `json:"skipped_count"`
	IndexedCount      int     `json:"indexed_count"`
	IndexErrorCount   int     `json:"index_error_count"`
	PercentComplete   float64 `json:"percent_complete"`
	EstimatedDuration string  `json:"estimated_duration,omitempty"`
}

// Job is the server-side state of a batch job as last observed.
type Job struct {
	ID          string         `json:"id"`
	Type        string         `json:"type"`
	Status      Status         `json:"status"`
	Progress    Progress       `json:"progress"`
	Results     []Result       `json:"results,omitempty"`
	Error       string         `json:"error,omitempty"`
	CreatedAt   string         `json:"created_at"`
	UpdatedAt   string         `json:"updated_at"`
	CompletedAt string         `json:"completed_at,omitempty"`
	Options     map[string]any `json:"options,omitempty"`
}

// Started acknowledges a newly created job.
type Started struct {
	JobID          string `json:"job_id"`
	Status         Status `json:"status"`
	TotalDocuments int    `json:"total_documents"`
	CreatedAt      string `json:"created_at"`
}

// Results is the final outcome of a job.
type Results struct {
	JobID       string   `json:"job_id"`
	Status      Status   `json:"status"`
	Progress    Progress `json:"progress"`
	Results     []Result `json:"results"`
	CompletedAt string   `json:"completed_at"`
}

// Cancelled acknowledges a cancellation.
type Cancelled struct {
	JobID  string `json:"job_id"`
	Status Status `json:"status"`
}

// DocumentInput is one document submitted for classification.
type DocumentInput struct {
	DocumentID   string `json:"document_id"`
	DocumentPath string `json:"document_path,omitempty"`
	Text         string `json:"text,omitempty"`
}

// ClassifyRequest starts a batch classification job.
type ClassifyRequest struct {
	Documents []DocumentInput `json:"documents"`
	Options   map[string]any  `json:"options"`
}

// Source identifies a document to classify.
type Source struct {
	ID   string
	Path string
	Text string
}

// NewClassifyRequest builds a classification request. Options may be nil.
func NewClassifyRequest(docs []Source, options map[string]any) (ClassifyRequest, error) {
	if len(docs) == 0 {
		return ClassifyRequest{}, fmt.Errorf("at least one document is required")
	}
	req := ClassifyRequest{
		Documents: make([]DocumentInput, 0, len(docs)),
		Options:   options,
	}
	if req.Options == nil {
		req.Options = map[string]any{}
	}
	for i, d := range docs {
		if d.ID == "" {
			return ClassifyRequest{}, fmt.Errorf("document %d: id is required", i)
		}
		req.Documents = append(req.Documents, DocumentInput{
			DocumentID:   d.ID,
			DocumentPath: d.Path,
			Text:         d.Text,
		})
	}
	return req, nil
}
