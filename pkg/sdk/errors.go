package typeahead

import "github.com/kailas-cloud/typeahead/internal/domain"

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrValidation         = domain.ErrValidation
	ErrInvalidTerm        = domain.ErrInvalidTerm
	ErrNodeNotFound       = domain.ErrNodeNotFound
	ErrBackend            = domain.ErrBackend
	ErrBackendUnavailable = domain.ErrBackendUnavailable
)
