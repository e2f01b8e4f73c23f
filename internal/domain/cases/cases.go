package cases

import (
	"fmt"
	"strings"
	"time"

	"github.com/kailas-cloud/lexsearch/internal/domain"
)

// MaxNameLength bounds case names.
const MaxNameLength = 255

// Case is a user's folder of documents.
type Case struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Name      string    `json:"case_name"`
	DocIDs    []string  `json:"case_docs"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Document links a search document to a case.
type Document struct {
	ID         string    `json:"id"`
	CaseID     string    `json:"case_id"`
	DocumentID string    `json:"document_ids"`
	Notes      string    `json:"notes,omitempty"`
	AddedAt    time.Time `json:"added_at"`
	CaseName   string    `json:"case_name,omitempty"`
}

// NormalizeName trims a case name and rejects empty or oversized names.
func NormalizeName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", domain.ErrInvalidCaseName
	}
	if len(name) > MaxNameLength {
		return "", fmt.Errorf("%w: name too long (max %d)", domain.ErrInvalidParams, MaxNameLength)
	}
	return name, nil
}
