package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/kailas-cloud/typeahead/internal/config"
	"github.com/kailas-cloud/typeahead/internal/db"
	dbRedis "github.com/kailas-cloud/typeahead/internal/db/redis"
	logpkg "github.com/kailas-cloud/typeahead/internal/logger"
	"github.com/kailas-cloud/typeahead/internal/metrics"
	contentrepo "github.com/kailas-cloud/typeahead/internal/repository/content"
	"github.com/kailas-cloud/typeahead/internal/repository/stopword"
	"github.com/kailas-cloud/typeahead/internal/repository/tplcache"
	chiTransport "github.com/kailas-cloud/typeahead/internal/transport/chi"
	esTransport "github.com/kailas-cloud/typeahead/internal/transport/elasticsearch"
	healthuc "github.com/kailas-cloud/typeahead/internal/usecase/health"
	indexinguc "github.com/kailas-cloud/typeahead/internal/usecase/indexing"
	suggestuc "github.com/kailas-cloud/typeahead/internal/usecase/suggest"
	tokenizeuc "github.com/kailas-cloud/typeahead/internal/usecase/tokenize"
	"github.com/kailas-cloud/typeahead/internal/version"
	"github.com/kailas-cloud/typeahead/resources"
)

const indexSetupTimeout = 30 * time.Second

// nodeStore is what both the suggest and the indexing use cases need from the content repository.
type nodeStore interface {
	suggestuc.NodeResolver
	indexinguc.NodeWriter
}

func main() {
	// Load configuration based on ENV
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level, cfg.Logging.File)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting typeahead API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.Strings("elasticsearch_addrs", cfg.Elasticsearch.Addrs),
		zap.Bool("database_enabled", cfg.Database.Enabled),
	)

	// Register suggest pipeline metrics explicitly (no init())
	metrics.RegisterSuggestMetrics()

	backend, err := esTransport.NewClient(&esTransport.Config{
		Addrs:    cfg.Elasticsearch.Addrs,
		Username: cfg.Elasticsearch.Username,
		Password: cfg.Elasticsearch.Password,
		Index:    cfg.Elasticsearch.Index,
		Logger:   logger,
	})
	if err != nil {
		logger.Fatal("Failed to create search backend client", zap.Error(err))
	}
	ensureCtx, cancelEnsure := context.WithTimeout(context.Background(), indexSetupTimeout)
	if err := backend.EnsureIndex(ensureCtx); err != nil {
		cancelEnsure()
		logger.Fatal("Failed to provision search index",
			zap.String("index", cfg.Elasticsearch.Index), zap.Error(err))
	}
	cancelEnsure()

	// Pass nil interfaces (not typed nil pointers) when no database is configured.
	var (
		pinger healthuc.DBPinger
		shared db.KVStore
		nodes  nodeStore
	)
	if cfg.Database.Enabled {
		store, err := dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.Database.Addrs,
			Password: cfg.Database.Password,
		})
		if err != nil {
			logger.Fatal("Failed to create database store", zap.Error(err))
		}
		defer store.Close()

		readiness := time.Duration(cfg.Database.ReadinessTimeout) * time.Second
		if err := store.WaitForReady(context.Background(), readiness); err != nil {
			logger.Fatal("Database not ready", zap.Error(err))
		}
		logger.Info("Connected to database")

		pinger = store
		nodes = contentrepo.New(store, cfg.Storage.KeyPrefix)
		if cfg.TemplateCache.Shared {
			shared = store
		}
	} else {
		logger.Warn("Database disabled, content nodes are kept in process memory")
		nodes = contentrepo.NewMemory()
	}

	stopWords := stopword.New(
		languageFS(cfg.Tokenizer.StopWordFolders.LanguageFolder, logger),
		optionalDirFS(cfg.Tokenizer.StopWordFolders.CustomerSpecificFolder, logger),
		logger,
	)
	tokenizer := tokenizeuc.New(stopWords, cfg.Tokenizer.MinWordLength, logger)

	templates := tplcache.New(shared, tplcache.Config{
		TTL:             time.Duration(cfg.TemplateCache.TTLSec) * time.Second,
		CleanupInterval: time.Duration(cfg.TemplateCache.CleanupIntervalSec) * time.Second,
		KeyPrefix:       cfg.Storage.KeyPrefix,
	}, metrics.TemplateCacheTotal, logger)

	// Create use case services
	suggestSvc := suggestuc.New(nodes, templates, backend, cfg.SuggestSettings())
	indexSvc := indexinguc.New(tokenizer, nodes, backend, cfg.IndexSettings(), logger).WithTemplates(templates)
	healthSvc := healthuc.New(backend, pinger)

	// Create chi server
	server := chiTransport.NewServer(suggestSvc, indexSvc, healthSvc, logger).
		WithSearchTimeout(time.Duration(cfg.Elasticsearch.SearchTimeoutMs) * time.Millisecond)

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Use(chiTransport.BearerAuthMiddleware(cfg.Auth.APIKeys))
	r.Use(metrics.Middleware())
	chiTransport.HandlerWithOptions(server, chiTransport.ChiServerOptions{
		BaseRouter: r,
		ErrorHandlerFunc: func(w http.ResponseWriter, _ *http.Request, err error) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusBadRequest)
			_ = json.NewEncoder(w).Encode(chiTransport.ErrorResponse{
				Code:    chiTransport.ErrorResponseCodeBadRequest,
				Message: err.Error(),
			})
		},
	})

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}

// languageFS falls back to the bundled lists when dir is missing.
func languageFS(dir string, logger *zap.Logger) fs.FS {
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		logger.Warn("Stop-word folder not found, using bundled lists", zap.String("dir", dir))
		return resources.StopWords()
	}
	return os.DirFS(dir)
}

// optionalDirFS returns nil when dir is unset or missing.
func optionalDirFS(dir string, logger *zap.Logger) fs.FS {
	if dir == "" {
		return nil
	}
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		logger.Warn("Customer stop-word folder not found, skipping", zap.String("dir", dir))
		return nil
	}
	return os.DirFS(dir)
}
