package elasticsearch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/tidwall/gjson"
	"go.uber.org/zap"

	"github.com/kailas-cloud/typeahead/internal/domain"
	"github.com/kailas-cloud/typeahead/internal/metrics"
)

const errAlreadyExists = "resource_already_exists_exception"

// fieldMapping is a single entry of the index mapping.
type fieldMapping struct {
	Type     string           `json:"type"`
	Contexts []contextMapping `json:"contexts,omitempty"`
}

type contextMapping struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

type dynamicTemplate map[string]struct {
	MatchMappingType string       `json:"match_mapping_type"`
	Mapping          fieldMapping `json:"mapping"`
}

type indexBody struct {
	Mappings struct {
		DynamicTemplates []dynamicTemplate       `json:"dynamic_templates"`
		Properties       map[string]fieldMapping `json:"properties"`
	} `json:"mappings"`
}

// Mapping returns the index definition the suggest queries rely on: keyword scope
// fields, a keyword completion field for the prefix filter and the terms
// aggregation, and a completion suggester scoped by the suggestion context.
// Copied string properties are mapped as text.
func Mapping() ([]byte, error) {
	var body indexBody
	keyword := fieldMapping{Type: "keyword"}
	body.Mappings.Properties = map[string]fieldMapping{
		domain.FieldPath:              keyword,
		domain.FieldParentPath:        keyword,
		domain.FieldWorkspace:         keyword,
		domain.FieldHidden:            {Type: "boolean"},
		domain.FieldNodeType:          keyword,
		domain.FieldCompletion:        keyword,
		domain.FieldSuggestionContext: keyword,
		domain.FieldDimensionsHash:    keyword,
		domain.FieldSuggestion: {
			Type:     "completion",
			Contexts: []contextMapping{{Name: domain.SuggestionContextName, Type: "category"}},
		},
	}
	body.Mappings.DynamicTemplates = []dynamicTemplate{{
		"strings_as_text": {MatchMappingType: "string", Mapping: fieldMapping{Type: "text"}},
	}}

	data, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal mapping: %w", err)
	}
	return data, nil
}

// EnsureIndex creates the index with Mapping unless it already exists. An existing
// index is left untouched.
func (c *Client) EnsureIndex(ctx context.Context) error {
	start := time.Now()
	res, err := c.es.Indices.Exists([]string{c.index}, c.es.Indices.Exists.WithContext(ctx))
	if err != nil {
		metrics.SearchRequestsTotal.WithLabelValues("index_exists", "error").Inc()
		return fmt.Errorf("index exists request: %w: %w", domain.ErrBackendUnavailable, err)
	}
	_, _ = io.Copy(io.Discard, res.Body)
	_ = res.Body.Close()
	metrics.SearchRequestDuration.WithLabelValues("index_exists").Observe(time.Since(start).Seconds())

	switch res.StatusCode {
	case http.StatusOK:
		metrics.SearchRequestsTotal.WithLabelValues("index_exists", "success").Inc()
		c.logger.Debug("search index exists", zap.String("index", c.index))
		return nil
	case http.StatusNotFound:
		metrics.SearchRequestsTotal.WithLabelValues("index_exists", "success").Inc()
	default:
		metrics.SearchRequestsTotal.WithLabelValues("index_exists", "error").Inc()
		return domain.NewBackendError(res.StatusCode, "index exists check failed")
	}

	mapping, err := Mapping()
	if err != nil {
		return err
	}
	start = time.Now()
	res, err = c.es.Indices.Create(
		c.index,
		c.es.Indices.Create.WithContext(ctx),
		c.es.Indices.Create.WithBody(bytes.NewReader(mapping)),
	)
	if err != nil {
		metrics.SearchRequestsTotal.WithLabelValues("create_index", "error").Inc()
		return fmt.Errorf("create index request: %w: %w", domain.ErrBackendUnavailable, err)
	}
	defer func() { _ = res.Body.Close() }()
	data, err := io.ReadAll(res.Body)
	metrics.SearchRequestDuration.WithLabelValues("create_index").Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.SearchRequestsTotal.WithLabelValues("create_index", "error").Inc()
		return fmt.Errorf("read create index response: %w: %w", domain.ErrBackend, err)
	}

	if res.IsError() {
		// another instance won the race
		if gjson.GetBytes(data, "error.type").String() == errAlreadyExists {
			metrics.SearchRequestsTotal.WithLabelValues("create_index", "success").Inc()
			return nil
		}
		metrics.SearchRequestsTotal.WithLabelValues("create_index", "error").Inc()
		return domain.NewBackendError(res.StatusCode, errorReason(data))
	}

	metrics.SearchRequestsTotal.WithLabelValues("create_index", "success").Inc()
	c.logger.Info("search index created", zap.String("index", c.index))
	return nil
}
