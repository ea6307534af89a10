package typeahead

import (
	"io/fs"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/kailas-cloud/typeahead/internal/domain"
)

// Option configures the Client.
type Option interface {
	apply(*clientConfig)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*clientConfig)

func (f optionFunc) apply(c *clientConfig) { f(c) }

type clientConfig struct {
	esAddrs    []string
	esUsername string
	esPassword string
	esIndex    string
	backend    Backend

	redisAddrs      []string
	redisPassword   string
	sharedTemplates bool
	keyPrefix       string

	templateTTL       time.Duration
	languageStopWords fs.FS
	customerStopWords fs.FS
	minWordLength     int

	suggest domain.SuggestSettings
	index   domain.IndexSettings

	logger     *slog.Logger
	metricsReg prometheus.Registerer
}

// WithElasticsearch sets the search backend addresses.
func WithElasticsearch(addrs ...string) Option {
	return optionFunc(func(c *clientConfig) {
		c.esAddrs = addrs
	})
}

// WithBasicAuth sets the search backend credentials.
func WithBasicAuth(username, password string) Option {
	return optionFunc(func(c *clientConfig) {
		c.esUsername = username
		c.esPassword = password
	})
}

// WithIndex sets the search backend index. Default: "typeahead".
func WithIndex(index string) Option {
	return optionFunc(func(c *clientConfig) {
		c.esIndex = index
	})
}

// WithBackend replaces the Elasticsearch client by a custom backend.
func WithBackend(b Backend) Option {
	return optionFunc(func(c *clientConfig) {
		c.backend = b
	})
}

// WithRedis stores nodes in Redis (RedisJSON required) instead of process memory.
func WithRedis(addr, password string) Option {
	return optionFunc(func(c *clientConfig) {
		c.redisAddrs = []string{addr}
		c.redisPassword = password
	})
}

// WithSharedTemplates also stores query templates in Redis so replicas share them.
// Has no effect without WithRedis.
func WithSharedTemplates() Option {
	return optionFunc(func(c *clientConfig) {
		c.sharedTemplates = true
	})
}

// WithKeyPrefix namespaces every Redis key. Default: "typeahead:".
func WithKeyPrefix(prefix string) Option {
	return optionFunc(func(c *clientConfig) {
		c.keyPrefix = prefix
	})
}

// WithTemplateTTL expires cached query templates. Default: never.
func WithTemplateTTL(ttl time.Duration) Option {
	return optionFunc(func(c *clientConfig) {
		c.templateTTL = ttl
	})
}

// WithStopWords replaces the bundled stop-word lists. language holds <lang>.txt
// files; every file below customer is merged into all languages. customer may be nil.
func WithStopWords(language, customer fs.FS) Option {
	return optionFunc(func(c *clientConfig) {
		c.languageStopWords = language
		c.customerStopWords = customer
	})
}

// WithMinWordLength sets the minimum token length in characters. Default: 3.
func WithMinWordLength(n int) Option {
	return optionFunc(func(c *clientConfig) {
		c.minWordLength = n
	})
}

// WithAutocomplete configures the terms aggregation. size <= 0 keeps the default of 10.
func WithAutocomplete(enabled bool, size int) Option {
	return optionFunc(func(c *clientConfig) {
		c.suggest.AutocompleteEnabled = enabled
		if size > 0 {
			c.suggest.AutocompleteSize = size
		}
	})
}

// WithSuggestions configures the completion suggester. size <= 0 keeps the default
// of 10; empty sourceFields keep the node path only.
func WithSuggestions(enabled bool, size int, sourceFields ...string) Option {
	return optionFunc(func(c *clientConfig) {
		c.suggest.SuggestionsEnabled = enabled
		if size > 0 {
			c.suggest.SuggestionsSize = size
		}
		if len(sourceFields) > 0 {
			c.suggest.SourceFields = sourceFields
		}
	})
}

// WithIndexedProperties selects the node properties feeding the completion field
// and the suggestion entries.
func WithIndexedProperties(completion, suggestion []string, weight int) Option {
	return optionFunc(func(c *clientConfig) {
		if len(completion) > 0 {
			c.index.CompletionProperties = completion
		}
		if len(suggestion) > 0 {
			c.index.SuggestionProperties = suggestion
		}
		if weight > 0 {
			c.index.SuggestionWeight = weight
		}
	})
}

// WithLogger enables structured logging for SDK operations and for the
// tokenizer and stop-word warnings. Pass nil to disable (default).
func WithLogger(l *slog.Logger) Option {
	return optionFunc(func(c *clientConfig) {
		c.logger = l
	})
}

// WithPrometheus registers SDK metrics (operation counts and durations)
// on the given registerer. Pass nil to disable (default).
func WithPrometheus(reg prometheus.Registerer) Option {
	return optionFunc(func(c *clientConfig) {
		c.metricsReg = reg
	})
}
