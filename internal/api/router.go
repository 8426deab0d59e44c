package api

import (
	"encoding/json"
	"net/http"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jmalda/garden/internal/api/handlers"
	mw "github.com/jmalda/garden/internal/api/middleware"
	"github.com/jmalda/garden/internal/config"
	"github.com/jmalda/garden/internal/domain"
	"github.com/jmalda/garden/internal/embedding"
	"github.com/jmalda/garden/internal/media"
	"github.com/jmalda/garden/internal/service"
	"github.com/jmalda/garden/internal/store"
	"go.uber.org/zap"
)

// App holds the router plus process-level metrics.
type App struct {
	Router       *chi.Mux
	startTime    time.Time
	requestCount atomic.Int64
	errorCount   atomic.Int64
}

func NewApp(db *pgxpool.Pool, images domain.ImageStore, logger *zap.Logger) *App {
	// Stores
	accountStore := store.NewAccountStore(db)
	modelStore := store.NewModelStore(db)
	connStore := store.NewConnectionStore(db)
	systemStore := store.NewSystemStore(db)
	questionStore := store.NewQuestionStore(db)

	// External clients via provider factory
	embeddingProvider := config.EmbeddingProvider()
	embeddingClient, err := embedding.NewClient(embeddingProvider, config.EmbeddingAPIKey(), config.EmbeddingModel())
	if err != nil {
		logger.Warn("embedding client initialization failed", zap.String("provider", embeddingProvider), zap.Error(err))
	} else {
		logger.Info("embedding client initialized", zap.String("provider", embeddingProvider))
	}

	// Services
	reconciler := service.NewConnectionReconciler(connStore, logger)
	modelSvc := service.NewModelService(modelStore, questionStore, reconciler, embeddingClient, logger)
	connSvc := service.NewConnectionService(connStore, logger)
	systemSvc := service.NewSystemService(systemStore, modelStore, logger)
	questionSvc := service.NewQuestionService(questionStore, logger)
	graphSvc := service.NewGraphService(modelStore, systemStore, connStore, logger)

	// Handlers
	accountHandler := handlers.NewAccountHandler(accountStore)
	modelHandler := handlers.NewModelHandler(modelSvc, connSvc)
	connHandler := handlers.NewConnectionHandler(connSvc)
	systemHandler := handlers.NewSystemHandler(systemSvc)
	questionHandler := handlers.NewQuestionHandler(questionSvc)
	graphHandler := handlers.NewGraphHandler(graphSvc)
	mediaHandler := handlers.NewMediaHandler(images)

	r := chi.NewRouter()

	app := &App{
		Router:    r,
		startTime: time.Now(),
	}

	metricsCollector := mw.NewMetricsCollector(&app.requestCount, &app.errorCount)

	// Global middleware (order matters)
	r.Use(mw.RequestID)
	r.Use(middleware.RealIP)
	r.Use(metricsCollector.Middleware)
	r.Use(mw.Logging(logger))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(config.RequestTimeout()))
	r.Use(mw.RateLimit(config.RateLimitRPS(), config.RateLimitBurst()))

	// Health (no auth)
	r.Get("/health", healthHandler(db))

	// Metrics (no auth)
	r.Get("/metrics", app.metricsHandler())

	// Account creation (no auth, bootstrap endpoint)
	r.Post("/v1/accounts", accountHandler.Create)

	// Authenticated routes
	r.Route("/v1", func(r chi.Router) {
		r.Use(mw.APIKeyAuth(accountStore))

		// Mental models
		r.Route("/models", func(r chi.Router) {
			r.Get("/", modelHandler.List)
			r.Post("/", modelHandler.Create)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", modelHandler.GetByID)
				r.Patch("/", modelHandler.Update)
				r.Delete("/", modelHandler.Delete)
				r.Get("/form", modelHandler.GetForm)
				r.Put("/form", modelHandler.SaveForm)
				r.Get("/connections", modelHandler.Connections)
				r.Get("/similar", modelHandler.Similar)
			})
		})

		// Connections
		r.Route("/connections", func(r chi.Router) {
			r.Get("/", connHandler.List)
			r.Post("/", connHandler.Create)
			r.Route("/{id}", func(r chi.Router) {
				r.Patch("/", connHandler.Update)
				r.Delete("/", connHandler.Delete)
			})
		})

		// Systems
		r.Route("/systems", func(r chi.Router) {
			r.Get("/", systemHandler.List)
			r.Post("/", systemHandler.Create)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", systemHandler.GetByID)
				r.Patch("/", systemHandler.Update)
				r.Delete("/", systemHandler.Delete)
				r.Get("/models", systemHandler.Relations)
				r.Post("/models", systemHandler.Relate)
				r.Delete("/models/{modelID}", systemHandler.Unrelate)
			})
		})

		// Questions
		r.Route("/questions", func(r chi.Router) {
			r.Get("/", questionHandler.List)
			r.Post("/", questionHandler.Create)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", questionHandler.GetByID)
				r.Patch("/", questionHandler.Update)
				r.Delete("/", questionHandler.Delete)
			})
		})

		// Graph view
		r.Get("/graph", graphHandler.View)

		// Media
		r.Post("/media", mediaHandler.Upload)
	})

	return app
}

func healthHandler(db *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if err := db.Ping(r.Context()); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			_ = json.NewEncoder(w).Encode(map[string]string{"status": "error", "error": err.Error()})
			return
		}

		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	}
}

func (app *App) metricsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var memStats runtime.MemStats
		runtime.ReadMemStats(&memStats)

		uptime := time.Since(app.startTime)

		response := map[string]any{
			"uptime_seconds": uptime.Seconds(),
			"uptime_human":   uptime.Round(time.Second).String(),
			"request_count":  app.requestCount.Load(),
			"error_count":    app.errorCount.Load(),
			"goroutines":     runtime.NumGoroutine(),
			"memory": map[string]any{
				"alloc_mb":       float64(memStats.Alloc) / 1024 / 1024,
				"total_alloc_mb": float64(memStats.TotalAlloc) / 1024 / 1024,
				"sys_mb":         float64(memStats.Sys) / 1024 / 1024,
				"num_gc":         memStats.NumGC,
			},
			"go_version": runtime.Version(),
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(response)
	}
}

// Ensure stores and clients satisfy interfaces at compile time.
var (
	_ domain.AccountStore    = (*store.AccountStore)(nil)
	_ domain.ModelStore      = (*store.ModelStore)(nil)
	_ domain.ConnectionStore = (*store.ConnectionStore)(nil)
	_ domain.SystemStore     = (*store.SystemStore)(nil)
	_ domain.QuestionStore   = (*store.QuestionStore)(nil)
	_ domain.EmbeddingClient = (*embedding.OpenAIClient)(nil)
	_ domain.EmbeddingClient = (*embedding.MockClient)(nil)
	_ domain.ImageStore      = (*media.Store)(nil)
)
