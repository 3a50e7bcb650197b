package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/budgetwise/budgetwise/internal/advice"
	"github.com/budgetwise/budgetwise/internal/api/handlers"
	"github.com/budgetwise/budgetwise/internal/api/middleware"
	"github.com/budgetwise/budgetwise/internal/auth"
	"github.com/budgetwise/budgetwise/internal/bigquery"
	"github.com/budgetwise/budgetwise/internal/config"
	"github.com/budgetwise/budgetwise/internal/gcs"
	"github.com/budgetwise/budgetwise/internal/jobs/inmemory"
	"github.com/budgetwise/budgetwise/internal/logger"
	"github.com/budgetwise/budgetwise/internal/pipeline"
	"github.com/budgetwise/budgetwise/internal/worker"
)

func main() {
	configPath := flag.String("config", "", "Path to YAML config file (optional)")
	flag.Parse()

	log := logger.New()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	if cfg.Bucket == "" {
		log.Warn().Msg("No GCS bucket configured - statement uploads will fail")
	}

	ctx := context.Background()

	repo, err := bigquery.NewRepository(ctx, cfg.ProjectID, cfg.Dataset)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create BigQuery repository")
	}
	defer repo.Close()

	storage, err := gcs.NewClient(ctx, cfg.Bucket)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create storage client")
	}
	defer storage.Close()

	extractor, err := pipeline.NewGeminiExtractor(ctx, cfg.Model)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create Gemini extractor")
	}

	advisor, err := advice.NewGeminiAdvisor(ctx, cfg.Model)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create Gemini advisor")
	}

	authService := auth.NewService(repo)

	// In-process job queue; swap for Cloud Tasks or Pub/Sub when the
	// service grows beyond a single instance.
	jobStore := inmemory.NewStore()
	jobQueue := inmemory.NewQueue(100, 5, jobStore)

	processorCfg := pipeline.ProcessorConfig{
		ChunkSize:     cfg.ChunkSize,
		ChunkOverlap:  cfg.ChunkOverlap,
		OracleTimeout: cfg.OracleTimeout(),
	}
	w := worker.New(extractor, storage, repo, processorCfg, logger.Component(log, "worker"))

	workerCtx, cancelWorker := context.WithCancel(ctx)
	defer cancelWorker()

	go func() {
		log.Info().Msg("Starting statement worker")
		if err := jobQueue.Start(workerCtx, w.Handle); err != nil {
			log.Error().Err(err).Msg("Statement worker stopped with error")
		}
	}()

	authHandler := handlers.NewAuthHandler(authService, log)
	statementsHandler := handlers.NewStatementsHandler(repo, storage, jobQueue, cfg.StatementYear, log)
	transactionsHandler := handlers.NewTransactionsHandler(repo, log)
	adviceHandler := handlers.NewAdviceHandler(repo, advisor, log)
	jobsHandler := handlers.NewJobsHandler(jobStore, log)

	requireAuth := middleware.RequireAuth(authService)

	mux := http.NewServeMux()

	mux.HandleFunc("/api/auth/register", postOnly(authHandler.Register))
	mux.HandleFunc("/api/auth/login", postOnly(authHandler.Login))
	mux.HandleFunc("/api/auth/logout", postOnly(authHandler.Logout))

	mux.Handle("/api/statements", requireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost:
			statementsHandler.Upload(w, r)
		case http.MethodGet:
			statementsHandler.List(w, r)
		default:
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})))

	mux.Handle("/api/transactions", requireAuth(getOnly(transactionsHandler.List)))
	mux.Handle("/api/transactions/summary", requireAuth(getOnly(transactionsHandler.Summary)))
	mux.Handle("/api/advice", requireAuth(getOnly(adviceHandler.Get)))

	mux.Handle("/api/jobs", requireAuth(getOnly(jobsHandler.List)))
	mux.Handle("/api/jobs/", requireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
			return
		}
		jobID := strings.TrimPrefix(r.URL.Path, "/api/jobs/")
		if jobID == "" {
			middleware.WriteError(w, http.StatusBadRequest, "Job ID is required")
			return
		}
		jobsHandler.Get(w, r, jobID)
	})))

	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		middleware.WriteJSON(w, http.StatusOK, map[string]string{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	// RequestID sits outside Logger so request logs carry the ID.
	handler := middleware.Recovery(log)(
		middleware.RequestID(
			middleware.Logger(log)(
				middleware.CORS(mux),
			),
		),
	)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler,
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("port", cfg.Port).Msg("Starting API server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	cancelWorker()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	if err := jobQueue.Stop(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Error stopping job queue")
	}

	log.Info().Msg("Server exited")
}

func postOnly(h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
			return
		}
		h(w, r)
	}
}

func getOnly(h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
			return
		}
		h(w, r)
	}
}
