package lexsearch

import (
	"github.com/kailas-cloud/lexsearch/internal/domain"
	batchuc "github.com/kailas-cloud/lexsearch/internal/usecase/batch"
	sessionuc "github.com/kailas-cloud/lexsearch/internal/usecase/session"
)

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrNotFound             = domain.ErrNotFound
	ErrInvalidParams        = domain.ErrInvalidParams
	ErrInvalidResponse      = domain.ErrInvalidResponse
	ErrInvalidResponseShape = domain.ErrInvalidResponseShape
	ErrInvalidCaseName      = domain.ErrInvalidCaseName
	ErrNoDocumentURL        = domain.ErrNoDocumentURL
	ErrUnauthenticated      = domain.ErrUnauthenticated
	ErrNotConfigured        = domain.ErrNotConfigured
	ErrPollLimit            = batchuc.ErrPollLimit
	ErrSessionClosed        = sessionuc.ErrClosed
)
