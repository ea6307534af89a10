package suggest

import (
	"context"

	"github.com/kailas-cloud/typeahead/internal/domain/content"
)

// NodeResolver resolves the node scoping a query.
type NodeResolver interface {
	Get(ctx context.Context, identifier string, dims content.Dimensions) (content.Node, error)
}

// TemplateCache stores serialized query templates by scope key.
type TemplateCache interface {
	Get(ctx context.Context, key string) (string, bool)
	Set(ctx context.Context, key, tpl string)
}

// Searcher dispatches a request body to the search backend and returns the raw response.
type Searcher interface {
	Search(ctx context.Context, body []byte) ([]byte, error)
}
