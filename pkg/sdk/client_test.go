package typeahead

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"testing"
	"testing/fstest"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/kailas-cloud/typeahead/internal/domain"
)

func newTestClient(t *testing.T, opts ...Option) (*Client, *memBackend) {
	t.Helper()
	backend := newMemBackend()
	c, err := New(context.Background(), append([]Option{WithBackend(backend)}, opts...)...)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	t.Cleanup(c.Close)
	return c, backend
}

func productsNode() Node {
	return Node{
		Identifier: "p1",
		Path:       "/sites/acme/produkte",
		SiteName:   "acme",
		NodeType:   "Acme:Page",
		Properties: map[string]any{"title": "Die Produkte und Preise"},
		Dimensions: Dimensions{"language": {"de"}},
	}
}

func TestNew_NoBackend(t *testing.T) {
	_, err := New(context.Background())
	if err == nil {
		t.Fatal("expected error when no backend is configured")
	}
}

// fakeElasticsearch answers index existence checks and creations for index "pages".
func fakeElasticsearch(t *testing.T, exists bool) (*httptest.Server, *[]string) {
	t.Helper()
	var requests []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests = append(requests, r.Method+" "+r.URL.Path)
		w.Header().Set("X-Elastic-Product", "Elasticsearch")
		w.Header().Set("Content-Type", "application/json")
		switch {
		case r.Method == http.MethodHead && !exists:
			w.WriteHeader(http.StatusNotFound)
		case r.Method == http.MethodPut:
			_, _ = w.Write([]byte(`{"acknowledged":true,"index":"pages"}`))
		}
	}))
	t.Cleanup(server.Close)
	return server, &requests
}

func TestNew_Elasticsearch(t *testing.T) {
	server, requests := fakeElasticsearch(t, true)

	c, err := New(context.Background(), WithElasticsearch(server.URL), WithIndex("pages"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer c.Close()
	if c.store != nil {
		t.Error("no store expected without WithRedis")
	}
	if !reflect.DeepEqual(*requests, []string{"HEAD /pages"}) {
		t.Errorf("requests = %v", *requests)
	}
}

func TestNew_ElasticsearchCreatesIndex(t *testing.T) {
	server, requests := fakeElasticsearch(t, false)

	c, err := New(context.Background(), WithElasticsearch(server.URL), WithIndex("pages"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer c.Close()
	if !reflect.DeepEqual(*requests, []string{"HEAD /pages", "PUT /pages"}) {
		t.Errorf("requests = %v", *requests)
	}
}

func TestNew_ElasticsearchUnreachable(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := New(ctx, WithElasticsearch("http://127.0.0.1:1")); err == nil {
		t.Fatal("expected error when the index cannot be provisioned")
	}
}

func TestIndexThenSuggest(t *testing.T) {
	c, backend := newTestClient(t)
	ctx := context.Background()

	res, err := c.Index(ctx, productsNode())
	if err != nil {
		t.Fatalf("index: %v", err)
	}
	if res.Document[domain.FieldCompletion] != "Produkte Preise" {
		t.Errorf("completion: got %q", res.Document[domain.FieldCompletion])
	}
	if _, ok := backend.docs[res.ID]; !ok {
		t.Errorf("document %s not written to the backend", res.ID)
	}

	got, err := c.Suggest(ctx, "Prod", "p1", Dimensions{"language": {"de"}})
	if err != nil {
		t.Fatalf("suggest: %v", err)
	}
	if got.Failed() {
		t.Fatalf("unexpected errors: %v", got.Errors)
	}
	if !reflect.DeepEqual(got.Completions, []string{"produkte", "produktion"}) {
		t.Errorf("completions: got %v", got.Completions)
	}
	if len(got.Suggestions) != 1 || got.Suggestions[0]["neos_path"] != "/sites/acme/produkte" {
		t.Errorf("suggestions: got %v", got.Suggestions)
	}

	if len(backend.bodies) != 1 {
		t.Fatalf("searches: got %d, want 1", len(backend.bodies))
	}
	if !json.Valid(backend.bodies[0]) {
		t.Fatalf("search body is not JSON: %s", backend.bodies[0])
	}
	if !bytes.Contains(backend.bodies[0], []byte(`"prod"`)) {
		t.Errorf("lowercased term missing from body: %s", backend.bodies[0])
	}
}

func TestSuggest_NonStringTerm(t *testing.T) {
	c, backend := newTestClient(t)

	_, err := c.Suggest(context.Background(), 42, "p1", nil)
	if !errors.Is(err, ErrInvalidTerm) {
		t.Fatalf("got %v, want ErrInvalidTerm", err)
	}
	if !errors.Is(err, ErrValidation) {
		t.Error("ErrInvalidTerm must be a validation error")
	}
	if len(backend.bodies) != 0 {
		t.Error("backend called for an invalid term")
	}
}

func TestSuggest_UnknownNode(t *testing.T) {
	c, _ := newTestClient(t)

	_, err := c.Suggest(context.Background(), "prod", "missing", Dimensions{"language": {"de"}})
	if !errors.Is(err, ErrNodeNotFound) {
		t.Fatalf("got %v, want ErrNodeNotFound", err)
	}
}

func TestSuggest_DimensionsSelectVariant(t *testing.T) {
	c, _ := newTestClient(t)
	ctx := context.Background()
	if _, err := c.Index(ctx, productsNode()); err != nil {
		t.Fatal(err)
	}

	_, err := c.Suggest(ctx, "prod", "p1", Dimensions{"language": {"en"}})
	if !errors.Is(err, ErrNodeNotFound) {
		t.Errorf("en variant was never indexed: got %v", err)
	}
}

func TestSuggest_BackendFailure(t *testing.T) {
	c, backend := newTestClient(t)
	ctx := context.Background()
	if _, err := c.Index(ctx, productsNode()); err != nil {
		t.Fatal(err)
	}
	backend.err = domain.NewBackendError(503, "unavailable")

	got, err := c.Suggest(ctx, "prod", "p1", Dimensions{"language": {"de"}})
	if err != nil {
		t.Fatalf("backend failures must not surface as errors: %v", err)
	}
	if !got.Failed() || len(got.Completions) != 0 || len(got.Suggestions) != 0 {
		t.Errorf("got %+v", got)
	}
}

func TestIndex_InvalidNode(t *testing.T) {
	c, backend := newTestClient(t)

	_, err := c.Index(context.Background(), Node{Identifier: "x", Path: "relative"})
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("got %v, want ErrValidation", err)
	}
	if len(backend.docs) != 0 {
		t.Error("invalid node written to the backend")
	}
}

func TestIndex_BackendError(t *testing.T) {
	c, backend := newTestClient(t)
	backend.err = domain.NewBackendError(400, "mapper_parsing_exception")

	_, err := c.Index(context.Background(), productsNode())
	if !errors.Is(err, ErrBackend) {
		t.Fatalf("got %v, want ErrBackend", err)
	}
}

func TestTokenize_BundledStopWords(t *testing.T) {
	c, _ := newTestClient(t)

	got := c.Tokenize("Die Produkte und Preise 2024", "de")
	want := []string{"Produkte", "Preise"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
	if got := c.Tokenize("Produkte", "xx"); len(got) != 0 {
		t.Errorf("unsupported language: got %v", got)
	}
}

func TestWithLogger_ReceivesTokenizerWarnings(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelWarn}))
	c, _ := newTestClient(t, WithLogger(logger))

	c.Tokenize("Produkte", "xx")

	out := buf.String()
	if !strings.Contains(out, "tokenization unsupported for language") || !strings.Contains(out, "language=xx") {
		t.Errorf("warning not forwarded to the slog logger: %q", out)
	}
	if strings.Contains(out, "level=DEBUG") {
		t.Errorf("debug entries must respect the handler level: %q", out)
	}
}

func TestIndex_RefreshesCachedTemplate(t *testing.T) {
	c, backend := newTestClient(t)
	ctx := context.Background()
	dims := Dimensions{"language": {"de"}}

	if _, err := c.Index(ctx, productsNode()); err != nil {
		t.Fatal(err)
	}
	if _, err := c.Suggest(ctx, "prod", "p1", dims); err != nil {
		t.Fatal(err)
	}

	moved := productsNode()
	moved.Path = "/sites/acme/angebot"
	if _, err := c.Index(ctx, moved); err != nil {
		t.Fatal(err)
	}
	if _, err := c.Suggest(ctx, "prod", "p1", dims); err != nil {
		t.Fatal(err)
	}

	if len(backend.bodies) != 2 {
		t.Fatalf("searches: got %d, want 2", len(backend.bodies))
	}
	if !bytes.Contains(backend.bodies[1], []byte(`"/sites/acme/angebot"`)) {
		t.Errorf("re-indexed node still served from the old template: %s", backend.bodies[1])
	}
}

func TestTokenize_CustomStopWords(t *testing.T) {
	c, _ := newTestClient(t,
		WithStopWords(
			fstest.MapFS{"de.txt": {Data: []byte("produkte\n")}},
			fstest.MapFS{"acme/global.txt": {Data: []byte("preise\n")}},
		),
		WithMinWordLength(2),
	)

	got := c.Tokenize("Die Produkte und Preise", "de")
	want := []string{"Die", "und"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestHealth(t *testing.T) {
	c, backend := newTestClient(t)

	if h := c.Health(context.Background()); h.Status != "ok" {
		t.Errorf("status: got %q, want ok", h.Status)
	}

	backend.health = errors.New("down")
	h := c.Health(context.Background())
	if h.Status != "error" || h.Checks["search_backend"] != "error" {
		t.Errorf("got %+v", h)
	}
	if _, ok := h.Checks["database"]; ok {
		t.Error("no database check expected without WithRedis")
	}
}

func TestClientOptions(t *testing.T) {
	cfg := &clientConfig{suggest: domain.DefaultSuggestSettings(), index: domain.DefaultIndexSettings()}
	for _, o := range []Option{
		WithAutocomplete(false, 0),
		WithSuggestions(true, 5, "neos_path", "title"),
		WithIndexedProperties([]string{"title"}, nil, 3),
		WithTemplateTTL(time.Minute),
		WithRedis("localhost:6379", "secret"),
		WithSharedTemplates(),
		WithKeyPrefix("acme:"),
		WithBasicAuth("elastic", "changeme"),
	} {
		o.apply(cfg)
	}

	if cfg.suggest.AutocompleteEnabled || cfg.suggest.AutocompleteSize != 10 {
		t.Errorf("autocomplete: got %v/%d", cfg.suggest.AutocompleteEnabled, cfg.suggest.AutocompleteSize)
	}
	if cfg.suggest.SuggestionsSize != 5 || len(cfg.suggest.SourceFields) != 2 {
		t.Errorf("suggestions: got %+v", cfg.suggest)
	}
	if !reflect.DeepEqual(cfg.index.CompletionProperties, []string{"title"}) ||
		!reflect.DeepEqual(cfg.index.SuggestionProperties, domain.DefaultIndexSettings().SuggestionProperties) ||
		cfg.index.SuggestionWeight != 3 {
		t.Errorf("index: got %+v", cfg.index)
	}
	if cfg.templateTTL != time.Minute || !cfg.sharedTemplates || cfg.keyPrefix != "acme:" {
		t.Errorf("cache: got %v/%v/%q", cfg.templateTTL, cfg.sharedTemplates, cfg.keyPrefix)
	}
	if cfg.redisPassword != "secret" || cfg.esUsername != "elastic" {
		t.Error("credentials not applied")
	}
}

func TestObserver_Metrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	c, _ := newTestClient(t, WithPrometheus(reg), WithLogger(slog.New(slog.DiscardHandler)))
	ctx := context.Background()

	if _, err := c.Index(ctx, productsNode()); err != nil {
		t.Fatal(err)
	}
	_, _ = c.Suggest(ctx, 1, "p1", nil)

	ops := c.obs.metrics.operations
	if got := testutil.ToFloat64(ops.WithLabelValues("index", "ok")); got != 1 {
		t.Errorf("index ok: got %v, want 1", got)
	}
	if got := testutil.ToFloat64(ops.WithLabelValues("suggest", "error")); got != 1 {
		t.Errorf("suggest error: got %v, want 1", got)
	}
}

func TestRegisterOrReuse(t *testing.T) {
	reg := prometheus.NewRegistry()
	first, err := newSDKMetrics(reg)
	if err != nil {
		t.Fatal(err)
	}
	second, err := newSDKMetrics(reg)
	if err != nil {
		t.Fatalf("second registration: %v", err)
	}
	if first.operations != second.operations {
		t.Error("existing collector not reused")
	}
}

func TestObserver_Nil(t *testing.T) {
	var o *observer
	o.observe("noop", time.Now(), nil)
}
