package typeahead

import (
	"context"
	"sync"
)

// memBackend keeps indexed documents and answers searches with a canned response.
type memBackend struct {
	mu       sync.Mutex
	docs     map[string][]byte
	bodies   [][]byte
	response []byte
	err      error
	health   error
}

func newMemBackend() *memBackend {
	return &memBackend{
		docs: make(map[string][]byte),
		response: []byte(`{
			"aggregations": {"autocomplete": {"buckets": [{"key": "produkte"}, {"key": "produktion"}]}},
			"suggest": {"suggestions": [{"options": [{"_source": {"neos_path": "/sites/acme/produkte"}}]}]}
		}`),
	}
}

func (m *memBackend) Search(_ context.Context, body []byte) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.bodies = append(m.bodies, body)
	if m.err != nil {
		return nil, m.err
	}
	return m.response, nil
}

func (m *memBackend) Index(_ context.Context, id string, body []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.docs[id] = body
	return nil
}

func (m *memBackend) HealthCheck(_ context.Context) error { return m.health }
