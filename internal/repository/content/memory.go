package content

import (
	"context"
	"fmt"

	"github.com/patrickmn/go-cache"

	"github.com/kailas-cloud/typeahead/internal/domain"
	domcontent "github.com/kailas-cloud/typeahead/internal/domain/content"
)

// Memory keeps nodes in process. It serves single-replica deployments without a database.
type Memory struct {
	nodes *cache.Cache
}

// NewMemory creates an empty in-process node repository.
func NewMemory() *Memory {
	return &Memory{nodes: cache.New(cache.NoExpiration, 0)}
}

// Put stores node under its identifier and dimension combination.
func (m *Memory) Put(_ context.Context, node *domcontent.Node) error {
	m.nodes.Set(domcontent.ScopeKey(node.Identifier(), node.Dimensions()), *node, cache.NoExpiration)
	return nil
}

// Get resolves the node variant for identifier and dims.
func (m *Memory) Get(_ context.Context, identifier string, dims domcontent.Dimensions) (domcontent.Node, error) {
	v, ok := m.nodes.Get(domcontent.ScopeKey(identifier, dims))
	if !ok {
		return domcontent.Node{}, fmt.Errorf("%s: %w", identifier, domain.ErrNodeNotFound)
	}
	return v.(domcontent.Node), nil
}

// Len returns the number of stored node variants.
func (m *Memory) Len() int { return m.nodes.ItemCount() }
