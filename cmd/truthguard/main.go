package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/truthguard/truthguard/internal/config"
	dbRedis "github.com/truthguard/truthguard/internal/db/redis"
	"github.com/truthguard/truthguard/internal/extract"
	logpkg "github.com/truthguard/truthguard/internal/logger"
	"github.com/truthguard/truthguard/internal/metrics"
	"github.com/truthguard/truthguard/internal/queue"
	claimrepo "github.com/truthguard/truthguard/internal/repository/claim"
	"github.com/truthguard/truthguard/internal/repository/embcache"
	knowledgerepo "github.com/truthguard/truthguard/internal/repository/knowledge"
	"github.com/truthguard/truthguard/internal/storage"
	"github.com/truthguard/truthguard/internal/transport/analyzer"
	chiTransport "github.com/truthguard/truthguard/internal/transport/chi"
	openaiTransport "github.com/truthguard/truthguard/internal/transport/openai"
	claimsuc "github.com/truthguard/truthguard/internal/usecase/claims"
	healthuc "github.com/truthguard/truthguard/internal/usecase/health"
	knowledgeuc "github.com/truthguard/truthguard/internal/usecase/knowledge"
	pipelineuc "github.com/truthguard/truthguard/internal/usecase/pipeline"
	"github.com/truthguard/truthguard/internal/version"
)

func main() {
	// Load configuration based on ENV
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting truthguard API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.Strings("db_addrs", cfg.Database.Addrs),
		zap.String("analyzer_url", cfg.Analyzer.URL),
	)

	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    cfg.Database.Addrs,
		Username: cfg.Database.Username,
		Password: cfg.Database.Password,
		DB:       cfg.Database.DB,
	})
	if err != nil {
		logger.Fatal("Failed to create database store", zap.Error(err))
	}
	defer store.Close()

	ctx := context.Background()
	if err := store.WaitForReady(ctx, time.Duration(cfg.Database.ReadinessTimeout)*time.Second); err != nil {
		logger.Fatal("Database not ready", zap.Error(err))
	}
	logger.Info("Connected to database")

	// Register metrics explicitly (no init())
	metrics.RegisterEmbeddingMetrics()
	metrics.RegisterPipelineMetrics()

	// Repositories
	claimRepo := claimrepo.New(store, store, cfg.Storage.KeyPrefix)
	if err := claimRepo.EnsureIndex(ctx); err != nil {
		logger.Fatal("Failed to create claim index", zap.Error(err))
	}

	articleRepo := knowledgerepo.New(store, store, cfg.Storage.KeyPrefix, knowledgerepo.IndexParams{
		Dimensions:  cfg.Embedding.Dimensions,
		M:           cfg.Knowledge.HNSWM,
		EFConstruct: cfg.Knowledge.HNSWEFConstruct,
	})
	if err := articleRepo.EnsureIndex(ctx); err != nil {
		logger.Fatal("Failed to create article index", zap.Error(err))
	}

	// File storage for uploaded claim media
	files, err := storage.NewDiskStore(cfg.Storage.FilesDir, cfg.Storage.PublicBaseURL)
	if err != nil {
		logger.Fatal("Failed to create file store", zap.Error(err))
	}

	// Embedder. A missing API key means the knowledge base runs in
	// permanent no-op mode; pass a nil interface, not a typed nil.
	var embedder knowledgeuc.Embedder
	var embedderHealth *openaiTransport.Embedder
	openaiCfg := &openaiTransport.Config{
		APIKey:     cfg.Embedding.APIKey,
		BaseURL:    cfg.Embedding.BaseURL,
		Model:      cfg.Embedding.Model,
		Dimensions: cfg.Embedding.Dimensions,
	}
	if cfg.Embedding.APIKey != "" {
		embedderHealth = openaiTransport.NewEmbedder(openaiCfg)
		embedder = embcache.New(embedderHealth, store, cfg.Storage.KeyPrefix, metrics.EmbeddingCacheTotal, logger)
		logger.Info("Embedder created",
			zap.String("model", cfg.Embedding.Model),
			zap.Int("dimensions", cfg.Embedding.Dimensions),
		)
	} else {
		logger.Warn("No embedding API key, knowledge base disabled")
	}

	knowledgeSvc := knowledgeuc.New(embedder, articleRepo, cfg.Knowledge.MatchThreshold, cfg.Knowledge.TopK)

	// Media content extraction
	var transcriber extract.Transcriber
	if cfg.Extract.Simulated || cfg.Embedding.APIKey == "" {
		transcriber = extract.NewSimulatedTranscriber()
	} else {
		transcriber = openaiTransport.NewTranscriber(openaiCfg, "")
	}
	var recognizer extract.Recognizer
	if cfg.Embedding.APIKey != "" {
		recognizer = openaiTransport.NewRecognizer(openaiCfg, "")
	}
	extractor := extract.New(recognizer, transcriber, extract.NewFFmpeg(cfg.Extract.FFmpegPath), extract.Config{
		OCRFetchTimeout:   time.Duration(cfg.Extract.OCRFetchTimeoutSec) * time.Second,
		VideoFetchTimeout: time.Duration(cfg.Extract.VideoFetchTimeoutSec) * time.Second,
		MinConfidence:     cfg.Extract.MinConfidence,
		TmpDir:            cfg.Extract.TmpDir,
	})

	// External analyzer
	analyzerClient := analyzer.New(cfg.Analyzer.URL, time.Duration(cfg.Analyzer.TimeoutSec)*time.Second)

	// Pipeline + worker pool
	pipelineSvc := pipelineuc.New(claimRepo, analyzerClient, extractor, knowledgeSvc, files)

	pool := queue.New(cfg.Pipeline.Workers, cfg.Pipeline.QueueSize, logger)
	workerCtx, cancelWorkers := context.WithCancel(ctx)
	defer cancelWorkers()
	pool.Start(workerCtx)

	claimsSvc := claimsuc.New(claimRepo, files, pool, pipelineSvc, knowledgeSvc)

	// Health service
	healthSvc := healthuc.New(store)
	if embedderHealth != nil {
		healthSvc.Register("embedding", embedderHealth.HealthCheck)
	}

	server := chiTransport.NewServer(claimsSvc, knowledgeSvc, healthSvc, files, files.Root(), logger)

	var verifier chiTransport.TokenVerifier
	if len(cfg.Auth.Tokens) > 0 {
		verifier = chiTransport.StaticTokenVerifier(cfg.Auth.Tokens)
	} else {
		logger.Warn("No auth tokens configured, API is open")
	}

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Use(chiTransport.BearerAuthMiddleware(verifier))
	r.Use(metrics.Middleware())
	server.Mount(r)

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

	// Let in-flight claims reach a terminal status before exiting.
	pool.Stop()

	logger.Info("Server stopped gracefully")
}

// jsonRecoverer is a recovery middleware that returns JSON instead of a plain text stacktrace.
func jsonRecoverer(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rvr := recover(); rvr != nil {
					logger.Error("panic recovered",
						zap.Any("panic", rvr),
						zap.Stack("stacktrace"),
					)
					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					_ = json.NewEncoder(w).Encode(map[string]string{
						"code":    "internal_error",
						"message": "internal error",
					})
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// wideEventMiddleware emits a canonical log line per request and propagates X-Request-ID.
func wideEventMiddleware(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			// chi.middleware.RequestID already placed request_id in context
			requestID := chiMiddleware.GetReqID(r.Context())

			if requestID != "" {
				w.Header().Set("X-Request-ID", requestID)
			}

			// Per-request logger with request_id
			reqLogger := logger.With(zap.String("request_id", requestID))
			ctx := logpkg.ContextWithLogger(r.Context(), reqLogger)

			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			// Canonical log line, one per request
			reqLogger.Info("http_request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("latency", time.Since(start)),
				zap.String("ip", r.RemoteAddr),
				zap.Int64("content_length", r.ContentLength),
				zap.String("user_agent", r.UserAgent()),
				zap.Int("response_bytes", ww.BytesWritten()),
			)
		})
	}
}
