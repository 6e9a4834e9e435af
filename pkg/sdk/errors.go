package researcher

import "github.com/kailas-cloud/researcher/internal/domain"

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrEmptyQuestion   = domain.ErrEmptyQuestion
	ErrMalformedOutput = domain.ErrMalformedOutput
	ErrModelProvider   = domain.ErrModelProvider
	ErrSearchProvider  = domain.ErrSearchProvider
)
