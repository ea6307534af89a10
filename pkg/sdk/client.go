package typeahead

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/typeahead/internal/db"
	dbRedis "github.com/kailas-cloud/typeahead/internal/db/redis"
	"github.com/kailas-cloud/typeahead/internal/domain"
	"github.com/kailas-cloud/typeahead/internal/domain/content"
	domsuggest "github.com/kailas-cloud/typeahead/internal/domain/suggest"
	contentrepo "github.com/kailas-cloud/typeahead/internal/repository/content"
	"github.com/kailas-cloud/typeahead/internal/repository/stopword"
	"github.com/kailas-cloud/typeahead/internal/repository/tplcache"
	esTransport "github.com/kailas-cloud/typeahead/internal/transport/elasticsearch"
	healthuc "github.com/kailas-cloud/typeahead/internal/usecase/health"
	indexinguc "github.com/kailas-cloud/typeahead/internal/usecase/indexing"
	suggestuc "github.com/kailas-cloud/typeahead/internal/usecase/suggest"
	tokenizeuc "github.com/kailas-cloud/typeahead/internal/usecase/tokenize"
	"github.com/kailas-cloud/typeahead/resources"
)

const (
	defaultReadinessTimeout = 10 * time.Second
	defaultIndex            = "typeahead"
	templateCleanup         = 10 * time.Minute
)

// Backend is the search backend: an Elasticsearch-compatible index.
type Backend interface {
	Search(ctx context.Context, body []byte) ([]byte, error)
	Index(ctx context.Context, id string, body []byte) error
	HealthCheck(ctx context.Context) error
}

// Internal interfaces, swapped in tests.
type suggestUseCase interface {
	Suggest(ctx context.Context, term any, identifier string, dims content.Dimensions) (domsuggest.Result, error)
}

type indexUseCase interface {
	Index(ctx context.Context, node *content.Node) (indexinguc.Document, error)
}

type tokenizeUseCase interface {
	Tokenize(text, lang string, minWordLength int) []string
}

type nodeStore interface {
	suggestuc.NodeResolver
	indexinguc.NodeWriter
}

// Client is the typeahead SDK entry point.
type Client struct {
	store         db.Store
	suggestSvc    suggestUseCase
	indexSvc      indexUseCase
	tokenizer     tokenizeUseCase
	healthSvc     healthUseCase
	minWordLength int
	obs           *observer
}

// New creates a typeahead Client. The provided context bounds the initial
// Redis readiness check.
func New(ctx context.Context, opts ...Option) (*Client, error) {
	cfg := &clientConfig{
		esIndex: defaultIndex,
		suggest: domain.DefaultSuggestSettings(),
		index:   domain.DefaultIndexSettings(),
	}
	for _, o := range opts {
		o.apply(cfg)
	}

	backend, err := createBackend(ctx, cfg)
	if err != nil {
		return nil, err
	}

	var store db.Store
	if len(cfg.redisAddrs) > 0 {
		s, err := dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.redisAddrs,
			Password: cfg.redisPassword,
		})
		if err != nil {
			return nil, fmt.Errorf("typeahead: create redis store: %w", err)
		}
		if err := s.WaitForReady(ctx, defaultReadinessTimeout); err != nil {
			s.Close()
			return nil, fmt.Errorf("typeahead: database not ready: %w", err)
		}
		store = s
	}

	obs, err := newObserver(cfg.logger, cfg.metricsReg)
	if err != nil {
		if store != nil {
			store.Close()
		}
		return nil, err
	}
	return wireClient(backend, store, cfg, obs), nil
}

// createBackend connects to Elasticsearch and provisions the index mapping.
// A caller-provided backend is used as is.
func createBackend(ctx context.Context, cfg *clientConfig) (Backend, error) {
	if cfg.backend != nil {
		return cfg.backend, nil
	}
	if len(cfg.esAddrs) == 0 {
		return nil, errors.New("typeahead: search backend required (use WithElasticsearch or WithBackend)")
	}
	c, err := esTransport.NewClient(&esTransport.Config{
		Addrs:    cfg.esAddrs,
		Username: cfg.esUsername,
		Password: cfg.esPassword,
		Index:    cfg.esIndex,
	})
	if err != nil {
		return nil, fmt.Errorf("typeahead: create search backend: %w", err)
	}
	if err := c.EnsureIndex(ctx); err != nil {
		return nil, fmt.Errorf("typeahead: ensure search index: %w", err)
	}
	return c, nil
}

// wireClient assembles the use cases. store may be nil.
func wireClient(backend Backend, store db.Store, cfg *clientConfig, obs *observer) *Client {
	logger := zap.NewNop()
	if cfg.logger != nil {
		logger = zap.New(newSlogCore(cfg.logger.Handler()))
	}

	// Pass nil interfaces, not typed nil pointers.
	var (
		nodes  nodeStore
		shared db.KVStore
		pinger healthuc.DBPinger
	)
	if store != nil {
		nodes = contentrepo.New(store, cfg.keyPrefix)
		pinger = store
		if cfg.sharedTemplates {
			shared = store
		}
	} else {
		nodes = contentrepo.NewMemory()
	}

	language := cfg.languageStopWords
	if language == nil {
		language = resources.StopWords()
	}
	tokenizer := tokenizeuc.New(stopword.New(language, cfg.customerStopWords, logger), cfg.minWordLength, logger)

	templates := tplcache.New(shared, tplcache.Config{
		TTL:             cfg.templateTTL,
		CleanupInterval: templateCleanup,
		KeyPrefix:       cfg.keyPrefix,
	}, nil, logger)

	return &Client{
		store:         store,
		suggestSvc:    suggestuc.New(nodes, templates, backend, cfg.suggest),
		indexSvc:      indexinguc.New(tokenizer, nodes, backend, cfg.index, logger).WithTemplates(templates),
		tokenizer:     tokenizer,
		healthSvc:     healthuc.New(backend, pinger),
		minWordLength: cfg.minWordLength,
		obs:           obs,
	}
}

// Close releases all resources.
func (c *Client) Close() {
	if c.store != nil {
		c.store.Close()
	}
}

// Suggest answers a keystroke. term must be a string; contextNodeIdentifier and
// dims select the node whose site and workspace scope the query. Backend
// failures are reported in Result.Errors, not as an error.
func (c *Client) Suggest(
	ctx context.Context, term any, contextNodeIdentifier string, dims Dimensions,
) (res Result, err error) {
	start := time.Now()
	defer func() { c.obs.observe("suggest", start, err) }()

	r, err := c.suggestSvc.Suggest(ctx, term, contextNodeIdentifier, content.Dimensions(dims))
	if err != nil {
		return Result{}, fmt.Errorf("suggest: %w", err)
	}
	return resultFromDomain(r), nil
}

// Index writes node to the content store and its document to the search backend.
func (c *Client) Index(ctx context.Context, node Node) (res IndexResult, err error) {
	start := time.Now()
	defer func() { c.obs.observe("index", start, err) }()

	n, err := node.toDomain()
	if err != nil {
		return IndexResult{}, fmt.Errorf("index: %w", err)
	}
	doc, err := c.indexSvc.Index(ctx, &n)
	if err != nil {
		return IndexResult{}, fmt.Errorf("index: %w", err)
	}
	return IndexResult{ID: indexinguc.DocumentID(&n), Document: doc}, nil
}

// Tokenize runs the indexing tokenizer over text. Unsupported languages yield
// an empty slice.
func (c *Client) Tokenize(text, lang string) []string {
	return c.tokenizer.Tokenize(text, lang, c.minWordLength)
}
