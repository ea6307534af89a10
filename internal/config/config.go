package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/kailas-cloud/typeahead/internal/domain"
	"github.com/kailas-cloud/typeahead/internal/domain/token"
)

// Config holds the typeahead service configuration.
type Config struct {
	HTTP            HTTPConfig          `yaml:"http"`
	Auth            AuthConfig          `yaml:"auth"`
	Logging         LoggingConfig       `yaml:"logging"`
	Elasticsearch   ElasticsearchConfig `yaml:"elasticsearch"`
	Database        DatabaseConfig      `yaml:"database"`
	Storage         StorageConfig       `yaml:"storage"`
	SearchAsYouType SearchAsYouType     `yaml:"search_as_you_type"`
	Tokenizer       TokenizerConfig     `yaml:"tokenizer"`
	Indexing        IndexingConfig      `yaml:"indexing"`
	TemplateCache   TemplateCacheConfig `yaml:"template_cache"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
	File  string `yaml:"file"`  // optional rotated log file in addition to stderr
}

// AuthConfig holds API authentication settings.
type AuthConfig struct {
	APIKeys []string `yaml:"api_keys"`
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port            int `yaml:"port"`
	ReadTimeoutSec  int `yaml:"read_timeout_sec"`
	WriteTimeoutSec int `yaml:"write_timeout_sec"`
	ShutdownSec     int `yaml:"shutdown_timeout_sec"`
}

// ElasticsearchConfig holds search backend settings.
type ElasticsearchConfig struct {
	Addrs           []string `yaml:"addrs"`
	Username        string   `yaml:"username"`
	Password        string   `yaml:"password"`
	Index           string   `yaml:"index"`
	SearchTimeoutMs int      `yaml:"search_timeout_ms"`
}

// DatabaseConfig holds the Redis connection used for content nodes and shared templates.
type DatabaseConfig struct {
	Enabled          bool     `yaml:"enabled"`
	Addrs            []string `yaml:"addrs"`
	Password         string   `yaml:"password"`
	ReadinessTimeout int      `yaml:"readiness_timeout_sec"`
}

// StorageConfig holds storage settings.
type StorageConfig struct {
	KeyPrefix string `yaml:"key_prefix"`
}

// SearchAsYouType controls the autocomplete aggregation and the completion suggester.
type SearchAsYouType struct {
	Autocomplete AutocompleteConfig `yaml:"autocomplete"`
	Suggestions  SuggestionsConfig  `yaml:"suggestions"`
}

// AutocompleteConfig holds the terms aggregation settings.
type AutocompleteConfig struct {
	Enabled *bool `yaml:"enabled"` // default: true
	Size    int   `yaml:"size"`
}

// SuggestionsConfig holds the completion suggester settings.
type SuggestionsConfig struct {
	Enabled      *bool    `yaml:"enabled"` // default: true
	Size         int      `yaml:"size"`
	SourceFields []string `yaml:"source_fields"`
}

// TokenizerConfig holds tokenization settings.
type TokenizerConfig struct {
	MinWordLength   int             `yaml:"min_word_length"`
	StopWordFolders StopWordFolders `yaml:"stop_word_folders"`
}

// StopWordFolders locates the stop-word lists.
type StopWordFolders struct {
	LanguageFolder         string `yaml:"language_folder"`          // contains <lang>.txt
	CustomerSpecificFolder string `yaml:"customer_specific_folder"` // optional, walked recursively
}

// IndexingConfig controls which node properties feed the completion and suggestion fields.
type IndexingConfig struct {
	CompletionProperties []string `yaml:"completion_properties"`
	SuggestionProperties []string `yaml:"suggestion_properties"`
	SuggestionWeight     int      `yaml:"suggestion_weight"`
}

// TemplateCacheConfig controls query template expiry.
type TemplateCacheConfig struct {
	TTLSec             int  `yaml:"ttl_sec"` // 0 = never expire
	CleanupIntervalSec int  `yaml:"cleanup_interval_sec"`
	Shared             bool `yaml:"shared"` // also store templates in Redis
}

// Load reads configuration from a YAML file by environment name (local, prod).
func Load(env string) (Config, error) {
	return LoadFile(findConfigPath(env))
}

// LoadFile reads configuration from the YAML file at configPath.
func LoadFile(configPath string) (Config, error) {
	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}

	// Substitute env variables of the form ${VAR}
	data = expandEnvVars(data)

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// MustLoad loads configuration or panics.
func MustLoad(env string) Config {
	cfg, err := Load(env)
	if err != nil {
		panic(err)
	}
	return cfg
}

// GetEnv returns the current environment from the ENV variable, defaulting to "local".
func GetEnv() string {
	if env := os.Getenv("ENV"); env != "" {
		return env
	}
	return "local"
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.HTTP.ReadTimeoutSec <= 0 {
		c.HTTP.ReadTimeoutSec = 10
	}
	if c.HTTP.WriteTimeoutSec <= 0 {
		c.HTTP.WriteTimeoutSec = 10
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if c.Elasticsearch.Index == "" {
		c.Elasticsearch.Index = "typeahead"
	}
	if c.Elasticsearch.SearchTimeoutMs <= 0 {
		c.Elasticsearch.SearchTimeoutMs = 2000
	}
	if c.Database.ReadinessTimeout <= 0 {
		c.Database.ReadinessTimeout = 10
	}
	if c.Storage.KeyPrefix == "" {
		c.Storage.KeyPrefix = domain.KeyPrefix
	}
	if c.SearchAsYouType.Autocomplete.Enabled == nil {
		c.SearchAsYouType.Autocomplete.Enabled = ptr(true)
	}
	if c.SearchAsYouType.Autocomplete.Size <= 0 {
		c.SearchAsYouType.Autocomplete.Size = 10
	}
	if c.SearchAsYouType.Suggestions.Enabled == nil {
		c.SearchAsYouType.Suggestions.Enabled = ptr(true)
	}
	if c.SearchAsYouType.Suggestions.Size <= 0 {
		c.SearchAsYouType.Suggestions.Size = 10
	}
	if len(c.SearchAsYouType.Suggestions.SourceFields) == 0 {
		c.SearchAsYouType.Suggestions.SourceFields = []string{domain.FieldPath}
	}
	if c.Tokenizer.MinWordLength <= 0 {
		c.Tokenizer.MinWordLength = token.DefaultMinWordLength
	}
	if c.Tokenizer.StopWordFolders.LanguageFolder == "" {
		c.Tokenizer.StopWordFolders.LanguageFolder = "resources/stopwords"
	}
	defaults := domain.DefaultIndexSettings()
	if len(c.Indexing.CompletionProperties) == 0 {
		c.Indexing.CompletionProperties = defaults.CompletionProperties
	}
	if len(c.Indexing.SuggestionProperties) == 0 {
		c.Indexing.SuggestionProperties = defaults.SuggestionProperties
	}
	if c.Indexing.SuggestionWeight <= 0 {
		c.Indexing.SuggestionWeight = defaults.SuggestionWeight
	}
	if c.TemplateCache.CleanupIntervalSec <= 0 {
		c.TemplateCache.CleanupIntervalSec = 600
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	if len(c.Elasticsearch.Addrs) == 0 {
		return fmt.Errorf("elasticsearch.addrs is required")
	}
	if c.Database.Enabled && len(c.Database.Addrs) == 0 {
		return fmt.Errorf("database.addrs is required when database.enabled is true")
	}
	if c.TemplateCache.Shared && !c.Database.Enabled {
		return fmt.Errorf("template_cache.shared requires database.enabled")
	}
	if c.TemplateCache.TTLSec < 0 {
		return fmt.Errorf("template_cache.ttl_sec must not be negative, got %d", c.TemplateCache.TTLSec)
	}
	return nil
}

// SuggestSettings returns the query template settings.
func (c *Config) SuggestSettings() domain.SuggestSettings {
	sayt := c.SearchAsYouType
	return domain.SuggestSettings{
		AutocompleteEnabled: sayt.Autocomplete.Enabled == nil || *sayt.Autocomplete.Enabled,
		AutocompleteSize:    sayt.Autocomplete.Size,
		SuggestionsEnabled:  sayt.Suggestions.Enabled == nil || *sayt.Suggestions.Enabled,
		SuggestionsSize:     sayt.Suggestions.Size,
		SourceFields:        sayt.Suggestions.SourceFields,
	}
}

// IndexSettings returns the indexing settings.
func (c *Config) IndexSettings() domain.IndexSettings {
	return domain.IndexSettings{
		CompletionProperties: c.Indexing.CompletionProperties,
		SuggestionProperties: c.Indexing.SuggestionProperties,
		SuggestionWeight:     c.Indexing.SuggestionWeight,
	}
}

func ptr[T any](v T) *T { return &v }

// findConfigPath locates the config file.
func findConfigPath(env string) string {
	filename := fmt.Sprintf("%s.yaml", env)

	// 1. Check ./config/
	if path := filepath.Join("config", filename); fileExists(path) {
		return path
	}

	// 2. Check relative to the source file
	_, b, _, _ := runtime.Caller(0)
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(b))) // internal/config -> project root
	if path := filepath.Join(projectRoot, "config", filename); fileExists(path) {
		return path
	}

	// 3. Fallback to ./config/
	return filepath.Join("config", filename)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// expandEnvVars replaces ${VAR} and ${VAR:-default} with environment variable values.
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1]) // strip ${ and }
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}
