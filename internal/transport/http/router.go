package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"quiz-platform/internal/app"
)

// RouterConfig collects what the router needs beyond the quiz service.
type RouterConfig struct {
	Log            *slog.Logger
	Feed           *app.StatsFeed
	Admin          *AdminAuth
	AllowedOrigins []string
	// StaticDir, when set, is served at / for the browser frontend.
	StaticDir string
	// Ready reports readiness for /readyz; nil means always ready.
	Ready func() bool
}

// NewRouter wires the quiz API. Routes live under /api to match the frontend's base URL.
func NewRouter(service *app.QuizService, cfg RouterConfig) http.Handler {
	log := cfg.Log
	if log == nil {
		log = slog.Default()
	}
	origins := cfg.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	quizzes := NewQuizHandler(service, log)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(log))
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		MaxAge:         300,
	}))

	r.Get("/health", quizzes.Health)
	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		if cfg.Ready != nil && !cfg.Ready() {
			writeError(w, http.StatusServiceUnavailable, "NOT_READY", "Server is draining")
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
	})

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", quizzes.Health)
		r.Get("/stats", quizzes.Stats)
		r.Get("/participants/{address}/quiz/{quizID}", quizzes.GetAttempt)

		r.Route("/quizzes", func(r chi.Router) {
			r.Get("/", quizzes.List)
			r.Get("/{quizID}", quizzes.Get)
			r.Post("/{quizID}/play", quizzes.Play)

			r.Group(func(r chi.Router) {
				r.Use(cfg.Admin.Middleware)
				r.Post("/", quizzes.Create)
				r.Patch("/{quizID}/status", quizzes.ToggleStatus)
			})
		})

		r.With(cfg.Admin.Middleware).Post("/rewards/distribute", quizzes.DistributeReward)

		if cfg.Feed != nil {
			r.Get("/ws/stats", NewStatsStreamHandler(cfg.Feed, log).ServeWS)
		}
	})

	if cfg.StaticDir != "" {
		r.Handle("/*", http.FileServer(http.Dir(cfg.StaticDir)))
	}
	return r
}
