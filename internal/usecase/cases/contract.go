package cases

import (
	"context"
	"time"

	domcases "github.com/kailas-cloud/lexsearch/internal/domain/cases"
)

// Repository defines the storage contract for cases and their document links.
type Repository interface {
	Create(ctx context.Context, c *domcases.Case) error
	Get(ctx context.Context, userID, id string) (domcases.Case, error)
	List(ctx context.Context, userID string) ([]domcases.Case, error)
	Rename(ctx context.Context, userID, id, name string, at time.Time) (domcases.Case, error)
	Delete(ctx context.Context, userID, id string) error

	FindDocument(ctx context.Context, caseID, documentID string) (domcases.Document, error)
	AddDocument(ctx context.Context, d *domcases.Document) (domcases.Document, error)
	Documents(ctx context.Context, caseID string) ([]domcases.Document, error)
	RemoveDocument(ctx context.Context, caseID, documentID string, at time.Time) error
	UpdateNotes(ctx context.Context, caseID, documentID, notes string) (domcases.Document, error)
}
