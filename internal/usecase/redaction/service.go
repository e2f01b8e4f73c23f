package redaction

import (
	"context"
	"io"

	"go.uber.org/zap"

	"github.com/kailas-cloud/lexsearch/internal/domain"
	domredaction "github.com/kailas-cloud/lexsearch/internal/domain/redaction"
	"github.com/kailas-cloud/lexsearch/internal/transport/backend"
)

const (
	opAnalyze = "analyze redactions"
	opRedact  = "create redacted document"
	opLookup  = "get redaction analysis"
)

// Service scans documents for sensitive content and produces redacted copies.
type Service struct {
	backend Backend
	logger  *zap.Logger
}

// New creates a redaction service.
func New(b Backend, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{backend: b, logger: logger.With(zap.String("component", "redaction"))}
}

// Analyze uploads a file and returns its redaction analysis without indexing it.
func (s *Service) Analyze(ctx context.Context, filename string, r io.Reader) (domredaction.AnalyzeResult, error) {
	body, err := s.backend.Upload(ctx, opAnalyze, "/api/v1/analyze-redactions", "file", filename, r)
	if err != nil {
		return domredaction.AnalyzeResult{}, backend.ClassifyError(err, opAnalyze)
	}
	out, err := backend.DecodeStrict[domredaction.AnalyzeResult](body, "Redaction analysis")
	if err != nil {
		return domredaction.AnalyzeResult{}, backend.ClassifyError(err, opAnalyze)
	}
	return out, nil
}

type redactRequest struct {
	DocumentID      string `json:"document_id"`
	ApplyRedactions bool   `json:"apply_redactions"`
}

// Redact asks the backend for a redacted copy of a stored document.
func (s *Service) Redact(ctx context.Context, documentID string, apply bool) (domredaction.RedactResult, error) {
	if err := domain.CheckPathID("document", documentID); err != nil {
		return domredaction.RedactResult{}, err
	}
	body, err := s.backend.Post(ctx, opRedact, "/api/v1/redact-document", redactRequest{DocumentID: documentID, ApplyRedactions: apply})
	if err != nil {
		return domredaction.RedactResult{}, backend.ClassifyError(err, opRedact)
	}
	out, err := backend.DecodeStrict[domredaction.RedactResult](body, "Document redaction")
	if err != nil {
		return domredaction.RedactResult{}, backend.ClassifyError(err, opRedact)
	}
	return out, nil
}

// Analysis returns the stored redaction analysis of a document, or nil when
// there is none or it cannot be fetched.
func (s *Service) Analysis(ctx context.Context, documentID string) *domredaction.Analysis {
	if err := domain.CheckPathID("document", documentID); err != nil {
		return nil
	}
	body, err := s.backend.Get(ctx, opLookup, "/api/v1/documents/"+documentID+"/redactions", nil)
	if err != nil {
		s.logger.Debug("no redaction analysis", zap.String("document_id", documentID), zap.Error(err))
		return nil
	}
	out, err := backend.DecodeStrict[domredaction.AnalyzeResult](body, "Redaction lookup")
	if err != nil {
		return nil
	}
	return out.Analysis
}
