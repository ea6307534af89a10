package chi

import (
	"github.com/kailas-cloud/typeahead/internal/domain/content"
)

// ErrorResponseCode is the machine-readable error code returned to clients.
type ErrorResponseCode string

const (
	ErrorResponseCodeBadRequest         ErrorResponseCode = "bad_request"
	ErrorResponseCodeValidationFailed   ErrorResponseCode = "validation_failed"
	ErrorResponseCodeUnauthorized       ErrorResponseCode = "unauthorized"
	ErrorResponseCodeNodeNotFound       ErrorResponseCode = "node_not_found"
	ErrorResponseCodeBackendError       ErrorResponseCode = "backend_error"
	ErrorResponseCodeBackendUnavailable ErrorResponseCode = "backend_unavailable"
	ErrorResponseCodeInternalError      ErrorResponseCode = "internal_error"
)

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Code    ErrorResponseCode `json:"code"`
	Message string            `json:"message"`
}

// SuggestParams are the query parameters of GET /v1/suggest.
type SuggestParams struct {
	Term                  *string `form:"term" json:"term,omitempty"`
	ContextNodeIdentifier string  `form:"contextNodeIdentifier" json:"contextNodeIdentifier"`
	DimensionCombination  *string `form:"dimensionCombination" json:"dimensionCombination,omitempty"`
}

// SuggestRequest is the body of POST /v1/suggest. Term stays untyped so that
// non-string terms reach the domain validation.
type SuggestRequest struct {
	Term                  any                `json:"term"`
	ContextNodeIdentifier string             `json:"contextNodeIdentifier" validate:"required,max=255"`
	DimensionCombination  content.Dimensions `json:"dimensionCombination"`
}

// NodeRequest is the body of PUT /v1/nodes/{identifier}.
type NodeRequest struct {
	Path       string             `json:"path" validate:"required,startswith=/"`
	SiteName   string             `json:"siteName" validate:"required"`
	Workspace  string             `json:"workspace" validate:"omitempty,max=255"`
	Hidden     bool               `json:"hidden"`
	NodeType   string             `json:"nodeType" validate:"required"`
	SuperTypes []string           `json:"superTypes" validate:"omitempty,dive,required"`
	Properties map[string]any     `json:"properties"`
	Dimensions content.Dimensions `json:"dimensions"`
}

// NodeResponse is returned after a node has been indexed.
type NodeResponse struct {
	ID       string         `json:"id"`
	Document map[string]any `json:"document"`
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}
