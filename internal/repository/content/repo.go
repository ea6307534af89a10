// Package content stores content nodes as RedisJSON documents keyed by identifier and dimension digest.
package content

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/kailas-cloud/typeahead/internal/db"
	"github.com/kailas-cloud/typeahead/internal/domain"
	domcontent "github.com/kailas-cloud/typeahead/internal/domain/content"
)

// store is the consumer interface for nodes (ISP).
type store interface {
	JSONSet(ctx context.Context, key, path string, data []byte) error
	JSONGet(ctx context.Context, key string, paths ...string) ([]byte, error)
}

// Repo implements the node resolver of the suggest use case and the node writer of indexing.
type Repo struct {
	store  store
	prefix string
}

// New creates a node repository. An empty prefix uses domain.KeyPrefix.
func New(s store, prefix string) *Repo {
	if prefix == "" {
		prefix = domain.KeyPrefix
	}
	return &Repo{store: s, prefix: prefix}
}

// Put stores node under its identifier and dimension combination.
func (r *Repo) Put(ctx context.Context, node *domcontent.Node) error {
	key := r.key(node.Identifier(), node.Dimensions())
	data, err := json.Marshal(toDTO(node))
	if err != nil {
		return fmt.Errorf("marshal node: %w", err)
	}
	if err := r.store.JSONSet(ctx, key, "$", data); err != nil {
		return fmt.Errorf("json.set %s: %w", key, err)
	}
	return nil
}

// Get resolves the node variant for identifier and dims.
func (r *Repo) Get(ctx context.Context, identifier string, dims domcontent.Dimensions) (domcontent.Node, error) {
	key := r.key(identifier, dims)
	raw, err := r.store.JSONGet(ctx, key, "$")
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return domcontent.Node{}, fmt.Errorf("%s: %w", identifier, domain.ErrNodeNotFound)
		}
		return domcontent.Node{}, fmt.Errorf("json.get %s: %w", key, err)
	}
	return parseJSONGetResult(identifier, raw)
}

func (r *Repo) key(identifier string, dims domcontent.Dimensions) string {
	return r.prefix + "node:" + domcontent.ScopeKey(identifier, dims)
}

// parseJSONGetResult decodes the `$` path reply, which wraps the document in an array.
func parseJSONGetResult(identifier string, raw []byte) (domcontent.Node, error) {
	var arr []nodeDTO
	if err := json.Unmarshal(raw, &arr); err != nil {
		return domcontent.Node{}, fmt.Errorf("unmarshal node %s: %w", identifier, err)
	}
	if len(arr) == 0 {
		return domcontent.Node{}, fmt.Errorf("%s: %w", identifier, domain.ErrNodeNotFound)
	}
	n, err := arr[0].toDomain()
	if err != nil {
		return domcontent.Node{}, fmt.Errorf("stored node %s: %w", identifier, err)
	}
	return n, nil
}
