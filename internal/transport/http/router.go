package http

import (
	"net/http"
	"time"

	"classroom-quiz-service/internal/app"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// RouterOptions controls the outer HTTP surface.
type RouterOptions struct {
	CORSOrigins    []string
	StaticDir      string
	RequestTimeout time.Duration
}

// NewRouter mounts the REST API under /api, the status stream at /ws/status,
// a health check and, when configured, the static front end at /.
func NewRouter(service *app.QuizService, opts RouterOptions) http.Handler {
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = 30 * time.Second
	}
	origins := opts.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Logger, middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
		ExposedHeaders: []string{"Content-Length"},
		MaxAge:         300,
	}))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})

	h := NewHandler(service)
	r.Route("/api", func(api chi.Router) {
		api.Use(middleware.Timeout(opts.RequestTimeout))

		api.Post("/signin", h.SignIn)
		api.Post("/start-session", h.StartSession)
		api.Get("/session-status", h.SessionStatus)
		api.Get("/questions", h.Questions)
		api.Post("/submit", h.Submit)
		api.Get("/results", h.Results)
		api.Get("/check-submitted", h.CheckSubmitted)

		api.Route("/teacher", func(tr chi.Router) {
			tr.Get("/results", h.TeacherResults)
			tr.Get("/open-questions", h.OpenQuestions)
			tr.Post("/mark-open-answer", h.MarkOpenAnswer)
			tr.Get("/sessions", h.Sessions)
		})
	})

	r.Get("/ws/status", NewWSHandler(service).ServeWS)

	if opts.StaticDir != "" {
		r.Handle("/*", http.FileServer(http.Dir(opts.StaticDir)))
	}
	return r
}
