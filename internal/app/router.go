package app

import (
	"net/http"
	"os"

	"dayTracker/internal/config"
	"dayTracker/internal/handlers"
	"dayTracker/internal/health"
	"dayTracker/internal/logger"
	"dayTracker/internal/middleware"
	"dayTracker/internal/service"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

func NewRouter(cfg *config.Config, storage *Storage) *chi.Mux {
	categoryService := service.NewCategoryService(storage.Categories)
	taskService := service.NewTaskService(storage.Tasks, storage.Categories)
	habitService := service.NewHabitService(storage.Habits)

	categoryHandler := handlers.NewCategoryHandler(categoryService)
	taskHandler := handlers.NewTaskHandler(taskService, cfg.Server.BasePath)
	habitHandler := handlers.NewHabitHandler(habitService)
	healthHandler := handlers.NewHealthHandler(storage, health.NewInfo(cfg.App.Version, cfg.App.Environment))

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.Server.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"Location", "X-Request-ID", "X-RateLimit-Limit", "X-RateLimit-Remaining", "X-RateLimit-Reset"},
		AllowCredentials: false,
		MaxAge:           300,
	}))
	r.Use(middleware.Logging)
	r.Use(middleware.Metrics)
	r.Use(middleware.RateLimit(cfg.Server.RateLimit))
	if cfg.Server.RequestTimeout > 0 {
		r.Use(chimw.Timeout(cfg.Server.RequestTimeout))
	}

	r.NotFound(handlers.NotFound)
	r.MethodNotAllowed(handlers.MethodNotAllowed)

	r.Handle("/metrics", promhttp.Handler())

	api := func(r chi.Router) {
		r.Route("/categories", func(r chi.Router) {
			r.Get("/", categoryHandler.List)           // GET /categories
			r.Post("/", categoryHandler.Create)        // POST /categories
			r.Put("/reorder", categoryHandler.Reorder) // PUT /categories/reorder

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", categoryHandler.Get)       // GET /categories/{id}
				r.Put("/", categoryHandler.Update)    // PUT /categories/{id}
				r.Delete("/", categoryHandler.Delete) // DELETE /categories/{id}
			})
		})

		r.Route("/tasks", func(r chi.Router) {
			r.Get("/", taskHandler.List)    // GET /tasks
			r.Post("/", taskHandler.Create) // POST /tasks

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", taskHandler.Get)            // GET /tasks/{id}
				r.Put("/", taskHandler.Update)         // PUT /tasks/{id}
				r.Patch("/toggle", taskHandler.Toggle) // PATCH /tasks/{id}/toggle
				r.Delete("/", taskHandler.Delete)      // DELETE /tasks/{id}
			})
		})

		r.Route("/habits", func(r chi.Router) {
			r.Get("/", habitHandler.List)           // GET /habits
			r.Post("/", habitHandler.Create)        // POST /habits
			r.Put("/reorder", habitHandler.Reorder) // PUT /habits/reorder

			r.Route("/{id}", func(r chi.Router) {
				r.Put("/", habitHandler.Update)             // PUT /habits/{id}
				r.Delete("/", habitHandler.Delete)          // DELETE /habits/{id}
				r.Put("/entries", habitHandler.UpsertEntry) // PUT /habits/{id}/entries
			})
		})

		r.Get("/health", healthHandler.Health)    // GET /health
		r.Get("/health/ping", healthHandler.Ping) // GET /health/ping
	}

	if cfg.Server.BasePath == "" || cfg.Server.BasePath == "/" {
		r.Group(api)
	} else {
		r.Route(cfg.Server.BasePath, api)
	}

	if dir := cfg.Server.StaticDir; dir != "" {
		if info, err := os.Stat(dir); err != nil || !info.IsDir() {
			logger.Warn("App: Static directory not found, not serving files", zap.String("dir", dir))
		} else {
			r.Handle("/*", http.FileServer(http.Dir(dir)))
		}
	}

	return r
}
