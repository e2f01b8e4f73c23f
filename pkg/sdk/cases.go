package lexsearch

import "context"

// CaseService manages one user's saved cases.
type CaseService struct {
	userID string
	svc    caseUseCase
	obs    *observer
}

// Create saves a new case. Names are trimmed and must not be empty.
func (s *CaseService) Create(ctx context.Context, name string) (Case, error) {
	return call(s.obs, "case_create", func() (Case, error) {
		if s.svc == nil {
			return Case{}, errNoCases
		}
		return s.svc.Create(ctx, s.userID, name)
	})
}

// Get returns one case.
func (s *CaseService) Get(ctx context.Context, id string) (Case, error) {
	return call(s.obs, "case_get", func() (Case, error) {
		if s.svc == nil {
			return Case{}, errNoCases
		}
		return s.svc.Get(ctx, s.userID, id)
	})
}

// List returns the user's cases, newest first.
func (s *CaseService) List(ctx context.Context) ([]Case, error) {
	return call(s.obs, "case_list", func() ([]Case, error) {
		if s.svc == nil {
			return nil, errNoCases
		}
		return s.svc.List(ctx, s.userID)
	})
}

// Rename changes a case's name.
func (s *CaseService) Rename(ctx context.Context, id, name string) (Case, error) {
	return call(s.obs, "case_rename", func() (Case, error) {
		if s.svc == nil {
			return Case{}, errNoCases
		}
		return s.svc.Rename(ctx, s.userID, id, name)
	})
}

// Delete removes a case and its document links.
func (s *CaseService) Delete(ctx context.Context, id string) error {
	_, err := call(s.obs, "case_delete", func() (struct{}, error) {
		if s.svc == nil {
			return struct{}{}, errNoCases
		}
		return struct{}{}, s.svc.Delete(ctx, s.userID, id)
	})
	return err
}

// AddDocument links a document to a case with optional notes.
func (s *CaseService) AddDocument(ctx context.Context, caseID, documentID, notes string) (CaseDocument, error) {
	return call(s.obs, "case_add_document", func() (CaseDocument, error) {
		if s.svc == nil {
			return CaseDocument{}, errNoCases
		}
		return s.svc.AddDocument(ctx, s.userID, caseID, documentID, notes)
	})
}

// Documents lists the documents linked to a case.
func (s *CaseService) Documents(ctx context.Context, caseID string) ([]CaseDocument, error) {
	return call(s.obs, "case_documents", func() ([]CaseDocument, error) {
		if s.svc == nil {
			return nil, errNoCases
		}
		return s.svc.Documents(ctx, s.userID, caseID)
	})
}

// RemoveDocument unlinks a document from a case.
func (s *CaseService) RemoveDocument(ctx context.Context, caseID, documentID string) error {
	_, err := call(s.obs, "case_remove_document", func() (struct{}, error) {
		if s.svc == nil {
			return struct{}{}, errNoCases
		}
		return struct{}{}, s.svc.RemoveDocument(ctx, s.userID, caseID, documentID)
	})
	return err
}

// UpdateNotes replaces the notes on a case document.
func (s *CaseService) UpdateNotes(ctx context.Context, caseID, documentID, notes string) (CaseDocument, error) {
	return call(s.obs, "case_update_notes", func() (CaseDocument, error) {
		if s.svc == nil {
			return CaseDocument{}, errNoCases
		}
		return s.svc.UpdateNotes(ctx, s.userID, caseID, documentID, notes)
	})
}
