package lexsearch

import "context"

// CatalogService reads facet values and corpus statistics. Results are cached
// in-process; see WithCatalogCache.
type CatalogService struct {
	svc catalogUseCase
	obs *observer
}

// DocumentTypes returns the document count per type.
func (s *CatalogService) DocumentTypes(ctx context.Context) (map[string]int, error) {
	return call(s.obs, "catalog_document_types", func() (map[string]int, error) {
		return s.svc.DocumentTypes(ctx)
	})
}

// LegalTags returns every legal tag in the corpus.
func (s *CatalogService) LegalTags(ctx context.Context) ([]string, error) {
	return call(s.obs, "catalog_legal_tags", func() ([]string, error) {
		return s.svc.LegalTags(ctx)
	})
}

// FieldValues returns values of a metadata field matching search, at most
// limit of them (default 20).
func (s *CatalogService) FieldValues(ctx context.Context, field, search string, limit int) ([]string, error) {
	return call(s.obs, "catalog_field_values", func() ([]string, error) {
		return s.svc.FieldValues(ctx, field, search, limit)
	})
}

// FieldOptions returns the filter choices per field.
func (s *CatalogService) FieldOptions(ctx context.Context) (FieldOptions, error) {
	return call(s.obs, "catalog_field_options", func() (FieldOptions, error) {
		return s.svc.FieldOptions(ctx)
	})
}

// Stats returns corpus-wide document statistics.
func (s *CatalogService) Stats(ctx context.Context) (CatalogStats, error) {
	return call(s.obs, "catalog_stats", func() (CatalogStats, error) {
		return s.svc.DocumentStats(ctx)
	})
}

// MetadataFields lists the metadata fields the backend knows.
func (s *CatalogService) MetadataFields(ctx context.Context) ([]MetadataField, error) {
	return call(s.obs, "catalog_metadata_fields", func() ([]MetadataField, error) {
		return s.svc.MetadataFields(ctx)
	})
}

// Invalidate drops every cached catalog entry.
func (s *CatalogService) Invalidate() { s.svc.Invalidate() }
