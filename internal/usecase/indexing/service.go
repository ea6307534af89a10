// Package indexing derives completion text, suggestion entries and search documents from content nodes.
package indexing

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/kailas-cloud/typeahead/internal/domain"
	"github.com/kailas-cloud/typeahead/internal/domain/content"
	"github.com/kailas-cloud/typeahead/internal/domain/suggestion"
	"go.uber.org/zap"
)

// Document is the search backend representation of a node.
type Document map[string]any

// Service builds and writes index documents.
type Service struct {
	tokenizer Tokenizer
	nodes     NodeWriter
	indexer   DocumentIndexer
	templates TemplateInvalidator
	settings  domain.IndexSettings
	logger    *zap.Logger
}

// New creates a Service. nodes and indexer can be nil when only the pure
// builders are used.
func New(
	tokenizer Tokenizer,
	nodes NodeWriter,
	indexer DocumentIndexer,
	settings domain.IndexSettings,
	logger *zap.Logger,
) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		tokenizer: tokenizer,
		nodes:     nodes,
		indexer:   indexer,
		settings:  settings,
		logger:    logger,
	}
}

// WithTemplates makes Index drop the cached query template of every re-indexed node.
func (s *Service) WithTemplates(templates TemplateInvalidator) *Service {
	s.templates = templates
	return s
}

// CompletionText returns the tokenized text of the named string properties,
// joined by single spaces. Nodes excluded from the index and nodes without a
// language yield "".
func (s *Service) CompletionText(node *content.Node, properties []string) string {
	if node.IsExcludedFromIndex() {
		return ""
	}
	return strings.Join(s.tokens(node, properties), " ")
}

// SuggestionEntries returns the weighted suggestion entries of the named string
// properties. Hidden nodes and nodes excluded from the index yield none.
func (s *Service) SuggestionEntries(node *content.Node, properties []string, weight int) []suggestion.Entry {
	if node.IsHidden() || node.IsExcludedFromIndex() {
		return []suggestion.Entry{}
	}
	return suggestion.NewEntries(s.tokens(node, properties), weight, suggestion.ForIndex(node))
}

func (s *Service) tokens(node *content.Node, properties []string) []string {
	lang := node.Language()
	if lang == "" {
		return nil
	}
	text := extractText(node, properties)
	if text == "" {
		return nil
	}
	return s.tokenizer.Tokenize(text, lang, 0)
}

// extractText joins the plain text of the string properties in the given order.
func extractText(node *content.Node, properties []string) string {
	parts := make([]string, 0, len(properties))
	for _, name := range properties {
		v, ok := node.Property(name)
		if !ok {
			continue
		}
		str, ok := v.(string)
		if !ok {
			continue
		}
		parts = append(parts, stripMarkup(str))
	}
	return strings.Join(parts, " ")
}

// Document assembles the search document of node with the configured properties.
func (s *Service) Document(node *content.Node) Document {
	doc := Document{}
	for name, v := range node.Properties() {
		if str, ok := v.(string); ok {
			doc[name] = str
		}
	}
	doc[domain.FieldPath] = node.Path()
	doc[domain.FieldParentPath] = node.ParentPaths()
	doc[domain.FieldWorkspace] = node.Workspace()
	doc[domain.FieldHidden] = node.IsHidden()
	doc[domain.FieldNodeType] = node.NodeType()
	doc[domain.FieldDimensionsHash] = node.Dimensions().Digest()
	doc[domain.FieldCompletion] = s.CompletionText(node, s.settings.CompletionProperties)
	doc[domain.FieldSuggestion] = s.SuggestionEntries(node, s.settings.SuggestionProperties, s.settings.SuggestionWeight)
	doc[domain.FieldSuggestionContext] = suggestion.ForIndex(node).Identifier()
	return doc
}

// DocumentID identifies the search document of node.
func DocumentID(node *content.Node) string {
	return content.ScopeKey(node.Identifier(), node.Dimensions())
}

// Index stores node in the content repository and writes its document to the search backend.
func (s *Service) Index(ctx context.Context, node *content.Node) (Document, error) {
	if s.nodes == nil || s.indexer == nil {
		return nil, domain.ErrBackendUnavailable
	}
	doc := s.Document(node)
	body, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("marshal document: %w", err)
	}

	if err := s.nodes.Put(ctx, node); err != nil {
		return nil, fmt.Errorf("store node: %w", err)
	}
	id := DocumentID(node)
	if err := s.indexer.Index(ctx, id, body); err != nil {
		return nil, fmt.Errorf("index document %s: %w", id, err)
	}
	if s.templates != nil {
		// the document id doubles as the template scope key
		s.templates.Invalidate(ctx, id)
	}

	s.logger.Debug("node indexed",
		zap.String("id", id),
		zap.String("path", node.Path()),
		zap.Int("completion_len", len(doc[domain.FieldCompletion].(string))),
	)
	return doc, nil
}
