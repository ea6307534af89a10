package indexing

import (
	"context"

	"github.com/kailas-cloud/typeahead/internal/domain/content"
)

// Tokenizer splits plain text into filtered tokens.
type Tokenizer interface {
	Tokenize(text, lang string, minWordLength int) []string
}

// NodeWriter persists content nodes for later template resolution.
type NodeWriter interface {
	Put(ctx context.Context, node *content.Node) error
}

// DocumentIndexer writes documents to the search backend.
type DocumentIndexer interface {
	Index(ctx context.Context, id string, body []byte) error
}

// TemplateInvalidator drops the cached query template of a scope key.
type TemplateInvalidator interface {
	Invalidate(ctx context.Context, key string)
}
