// Package suggest answers search-as-you-type queries from cached, term-independent request templates.
package suggest

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/kailas-cloud/typeahead/internal/domain"
	"github.com/kailas-cloud/typeahead/internal/domain/content"
	domsuggest "github.com/kailas-cloud/typeahead/internal/domain/suggest"
	"github.com/kailas-cloud/typeahead/internal/logger"
	"github.com/kailas-cloud/typeahead/internal/metrics"
)

// Service builds, caches and dispatches suggest requests.
type Service struct {
	nodes     NodeResolver
	templates TemplateCache
	searcher  Searcher
	settings  domain.SuggestSettings
}

// New creates a suggest service.
func New(nodes NodeResolver, templates TemplateCache, searcher Searcher, settings domain.SuggestSettings) *Service {
	return &Service{nodes: nodes, templates: templates, searcher: searcher, settings: settings}
}

// Suggest validates the raw term and answers the query. Validation and node
// resolution failures are returned as errors; backend failures are reported
// inside the result.
func (s *Service) Suggest(
	ctx context.Context, term any, contextNodeIdentifier string, dims content.Dimensions,
) (domsuggest.Result, error) {
	q, err := domsuggest.NewQuery(term, contextNodeIdentifier, dims)
	if err != nil {
		return domsuggest.Result{}, err
	}
	return s.Query(ctx, &q)
}

// Query answers an already validated query.
func (s *Service) Query(ctx context.Context, q *domsuggest.Query) (domsuggest.Result, error) {
	tpl, err := s.Template(ctx, q)
	if err != nil {
		return domsuggest.Result{}, err
	}

	body := Substitute(tpl, q.FullTerm(), q.FirstWordTerm())

	resp, err := s.dispatch(ctx, body)
	if err != nil {
		logger.FromContext(ctx).Warn("suggest query failed",
			zap.String("scope", q.ScopeKey()),
			zap.Error(err),
		)
		metrics.SuggestResultsTotal.WithLabelValues("backend_error").Inc()
		return domsuggest.Failed("Could not execute query: " + err.Error()), nil
	}
	metrics.SuggestResultsTotal.WithLabelValues("ok").Inc()
	return resp, nil
}

func (s *Service) dispatch(ctx context.Context, body []byte) (domsuggest.Result, error) {
	if s.searcher == nil {
		return domsuggest.Result{}, domain.ErrBackendUnavailable
	}
	raw, err := s.searcher.Search(ctx, body)
	if err != nil {
		return domsuggest.Result{}, err //nolint:wrapcheck // message is surfaced verbatim
	}
	completions, suggestions, err := extract(raw)
	if err != nil {
		return domsuggest.Result{}, err
	}
	return domsuggest.Result{Completions: completions, Suggestions: suggestions}, nil
}

// Template returns the cached template of the query scope, building and storing
// it on a miss. Resolution failures are not cached.
func (s *Service) Template(ctx context.Context, q *domsuggest.Query) (string, error) {
	key := q.ScopeKey()
	if tpl, ok := s.templates.Get(ctx, key); ok {
		return tpl, nil
	}

	node, err := s.nodes.Get(ctx, q.ContextNodeIdentifier(), q.Dimensions())
	if err != nil {
		return "", fmt.Errorf("resolve context node: %w", err)
	}
	tpl, err := BuildTemplate(&node, s.settings)
	if err != nil {
		return "", err
	}
	s.templates.Set(ctx, key, tpl)
	logger.FromContext(ctx).Debug("suggest template built", zap.String("scope", key))
	return tpl, nil
}
