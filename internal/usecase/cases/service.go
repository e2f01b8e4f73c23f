package cases

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/kailas-cloud/lexsearch/internal/domain"
	domcases "github.com/kailas-cloud/lexsearch/internal/domain/cases"
)

// Service manages a user's cases. Every operation is scoped to userID.
type Service struct {
	repo  Repository
	now   func() time.Time
	newID func() string
}

// New creates a case service.
func New(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now, newID: uuid.NewString}
}

// Create stores a new empty case.
func (s *Service) Create(ctx context.Context, userID, name string) (domcases.Case, error) {
	name, err := domcases.NormalizeName(name)
	if err != nil {
		return domcases.Case{}, err
	}
	if strings.TrimSpace(userID) == "" {
		return domcases.Case{}, domain.ErrUnauthenticated
	}

	now := s.now().UTC()
	c := domcases.Case{
		ID:        s.newID(),
		UserID:    userID,
		Name:      name,
		DocIDs:    []string{},
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.Create(ctx, &c); err != nil {
		return domcases.Case{}, fmt.Errorf("create case: %w", err)
	}
	return c, nil
}

// Get returns one of the user's cases.
func (s *Service) Get(ctx context.Context, userID, id string) (domcases.Case, error) {
	c, err := s.repo.Get(ctx, userID, id)
	if err != nil {
		return domcases.Case{}, fmt.Errorf("get case: %w", err)
	}
	return c, nil
}

// List returns the user's cases, newest first.
func (s *Service) List(ctx context.Context, userID string) ([]domcases.Case, error) {
	list, err := s.repo.List(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list cases: %w", err)
	}
	return list, nil
}

// Rename changes a case's name.
func (s *Service) Rename(ctx context.Context, userID, id, name string) (domcases.Case, error) {
	name, err := domcases.NormalizeName(name)
	if err != nil {
		return domcases.Case{}, err
	}
	c, err := s.repo.Rename(ctx, userID, id, name, s.now().UTC())
	if err != nil {
		return domcases.Case{}, fmt.Errorf("rename case: %w", err)
	}
	return c, nil
}

// Delete removes a case together with its document links.
func (s *Service) Delete(ctx context.Context, userID, id string) error {
	if err := s.repo.Delete(ctx, userID, id); err != nil {
		return fmt.Errorf("delete case: %w", err)
	}
	return nil
}

// AddDocument links a document to a case. Adding an already linked
// document returns the existing link.
func (s *Service) AddDocument(ctx context.Context, userID, caseID, documentID, notes string) (domcases.Document, error) {
	if strings.TrimSpace(documentID) == "" {
		return domcases.Document{}, fmt.Errorf("%w: document id is required", domain.ErrInvalidParams)
	}
	c, err := s.Get(ctx, userID, caseID)
	if err != nil {
		return domcases.Document{}, err
	}

	existing, err := s.repo.FindDocument(ctx, c.ID, documentID)
	switch {
	case err == nil:
		return existing, nil
	case !errors.Is(err, domain.ErrNotFound):
		return domcases.Document{}, fmt.Errorf("find case document: %w", err)
	}

	d := domcases.Document{
		ID:         s.newID(),
		CaseID:     c.ID,
		DocumentID: documentID,
		Notes:      notes,
		AddedAt:    s.now().UTC(),
		CaseName:   c.Name,
	}
	out, err := s.repo.AddDocument(ctx, &d)
	if err != nil {
		return domcases.Document{}, fmt.Errorf("add case document: %w", err)
	}
	return out, nil
}

// Documents lists the documents linked to a case.
func (s *Service) Documents(ctx context.Context, userID, caseID string) ([]domcases.Document, error) {
	if _, err := s.Get(ctx, userID, caseID); err != nil {
		return nil, err
	}
	docs, err := s.repo.Documents(ctx, caseID)
	if err != nil {
		return nil, fmt.Errorf("list case documents: %w", err)
	}
	return docs, nil
}

// RemoveDocument unlinks a document from a case.
func (s *Service) RemoveDocument(ctx context.Context, userID, caseID, documentID string) error {
	if _, err := s.Get(ctx, userID, caseID); err != nil {
		return err
	}
	if err := s.repo.RemoveDocument(ctx, caseID, documentID, s.now().UTC()); err != nil {
		return fmt.Errorf("remove case document: %w", err)
	}
	return nil
}

// UpdateNotes replaces the notes on a case document.
func (s *Service) UpdateNotes(ctx context.Context, userID, caseID, documentID, notes string) (domcases.Document, error) {
	if _, err := s.Get(ctx, userID, caseID); err != nil {
		return domcases.Document{}, err
	}
	d, err := s.repo.UpdateNotes(ctx, caseID, documentID, notes)
	if err != nil {
		return domcases.Document{}, fmt.Errorf("update notes: %w", err)
	}
	return d, nil
}
