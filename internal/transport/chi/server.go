package chi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/typeahead/internal/domain"
	"github.com/kailas-cloud/typeahead/internal/domain/content"
	healthuc "github.com/kailas-cloud/typeahead/internal/usecase/health"
	indexinguc "github.com/kailas-cloud/typeahead/internal/usecase/indexing"
	suggestuc "github.com/kailas-cloud/typeahead/internal/usecase/suggest"
)

// maxBodyBytes caps request bodies of the suggest and indexing endpoints.
const maxBodyBytes = 1 << 20

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Server implements ServerInterface.
type Server struct {
	suggest       *suggestuc.Service
	indexing      *indexinguc.Service
	health        *healthuc.Service
	logger        *zap.Logger
	validate      *validator.Validate
	searchTimeout time.Duration
	errorHandlers []errorHandler
}

var _ ServerInterface = (*Server)(nil)

// NewServer creates an HTTP API server.
func NewServer(
	suggest *suggestuc.Service,
	indexing *indexinguc.Service,
	health *healthuc.Service,
	logger *zap.Logger,
) *Server {
	s := &Server{
		suggest:  suggest,
		indexing: indexing,
		health:   health,
		logger:   logger,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrValidation, http.StatusBadRequest, ErrorResponseCodeValidationFailed),
		sentinelHandler(domain.ErrNodeNotFound, http.StatusNotFound, ErrorResponseCodeNodeNotFound),
		sentinelHandler(domain.ErrBackendUnavailable,
			http.StatusServiceUnavailable, ErrorResponseCodeBackendUnavailable),
		sentinelHandler(domain.ErrBackend, http.StatusBadGateway, ErrorResponseCodeBackendError),
	}
	return s
}

// WithSearchTimeout bounds every suggest request. Zero disables the bound.
func (s *Server) WithSearchTimeout(d time.Duration) *Server {
	s.searchTimeout = d
	return s
}

// SuggestQuery handles GET /v1/suggest.
func (s *Server) SuggestQuery(w http.ResponseWriter, r *http.Request, params SuggestParams) {
	dims, err := content.ParseDimensions(derefString(params.DimensionCombination))
	if err != nil {
		writeError(w, http.StatusBadRequest, ErrorResponseCodeValidationFailed,
			"dimensionCombination must be a JSON object of string lists")
		return
	}

	// query strings only carry strings; a missing term is the empty term
	s.runSuggest(w, r, derefString(params.Term), params.ContextNodeIdentifier, dims)
}

// SuggestBody handles POST /v1/suggest.
func (s *Server) SuggestBody(w http.ResponseWriter, r *http.Request) {
	var req SuggestRequest
	if !s.decodeBody(w, r, &req) {
		return
	}
	s.runSuggest(w, r, req.Term, req.ContextNodeIdentifier, req.DimensionCombination)
}

func (s *Server) runSuggest(
	w http.ResponseWriter, r *http.Request, term any, identifier string, dims content.Dimensions,
) {
	ctx := r.Context()
	if s.searchTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.searchTimeout)
		defer cancel()
	}

	res, err := s.suggest.Suggest(ctx, term, identifier, dims)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// IndexNode handles PUT /v1/nodes/{identifier}.
func (s *Server) IndexNode(w http.ResponseWriter, r *http.Request, identifier string) {
	var req NodeRequest
	if !s.decodeBody(w, r, &req) {
		return
	}

	node, err := content.NewNode(
		identifier, req.Path, req.SiteName, req.Workspace, req.Hidden,
		req.NodeType, req.SuperTypes, req.Properties, req.Dimensions,
	)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	doc, err := s.indexing.Index(r.Context(), &node)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, NodeResponse{
		ID:       indexinguc.DocumentID(&node),
		Document: doc,
	})
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, HealthResponse{
		Status: string(report.Status),
		Checks: checks,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

// decodeBody decodes and validates a JSON body, writing a 400 on failure.
func (s *Server) decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, ErrorResponseCodeBadRequest, "Invalid request body: "+err.Error())
		return false
	}
	if err := s.validate.Struct(dst); err != nil {
		writeError(w, http.StatusBadRequest, ErrorResponseCodeValidationFailed, validationMessage(err))
		return false
	}
	return true
}

// validationMessage renders validator errors as "field: rule" pairs.
func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		if fe.Param() != "" {
			parts = append(parts, fmt.Sprintf("%s: %s=%s", fe.Field(), fe.Tag(), fe.Param()))
			continue
		}
		parts = append(parts, fmt.Sprintf("%s: %s", fe.Field(), fe.Tag()))
	}
	return strings.Join(parts, "; ")
}

func derefString(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code ErrorResponseCode, message string) {
	writeJSON(w, status, ErrorResponse{
		Code:    code,
		Message: message,
	})
}

// safeDomainMessage returns a client-safe message. Validation errors are caused by
// the client and are returned verbatim; everything else collapses to its sentinel.
func safeDomainMessage(err error) string {
	if errors.Is(err, domain.ErrValidation) {
		return err.Error()
	}
	sentinels := []error{
		domain.ErrNodeNotFound,
		domain.ErrBackendUnavailable,
		domain.ErrBackend,
		domain.ErrNotFound,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code ErrorResponseCode) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	s.logger.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, ErrorResponseCodeInternalError, "internal error")
}
