package httpapi

import (
	stdhttp "net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"voxresumo/internal/http/handlers"
	"voxresumo/internal/middleware"
)

// Options carries the middleware knobs the router needs beyond the App.
type Options struct {
	RateLimitPerMin int
	DefaultLocale   string
	CountryLookup   middleware.CountryLookup
	AllowedOrigins  []string
}

func NewRouter(app *handlers.App, opts Options) stdhttp.Handler {
	if opts.RateLimitPerMin <= 0 {
		opts.RateLimitPerMin = 30
	}
	if opts.DefaultLocale == "" {
		opts.DefaultLocale = "pt"
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.CORS(opts.AllowedOrigins))
	r.Use(middleware.Logger(app.Logger))
	r.Use(middleware.RateLimit(opts.RateLimitPerMin, time.Minute))
	r.Use(middleware.I18N(opts.DefaultLocale, opts.CountryLookup))
	r.Use(middleware.Session(app.SessionSecret))

	r.Get("/v1/healthz", app.Health)

	r.Route("/v1/session", func(r chi.Router) {
		r.Post("/", app.SessionCreate)
		r.Post("/login", app.SessionLogin)
		r.With(middleware.RequireSession(app.SessionSecret)).Post("/logout", app.SessionLogout)
	})

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireSession(app.SessionSecret))

		r.Get("/v1/me", app.Me)
		r.Get("/v1/usage/today", app.UsageToday)
		r.Post("/v1/plan", app.PlanUpdate)

		r.Post("/v1/transcriptions", app.TranscriptionsCreate)

		r.Route("/v1/projects", func(r chi.Router) {
			r.Get("/", app.ProjectsList)
			r.Get("/{project_id}", app.ProjectsGet)
			r.Get("/{project_id}/export", app.ProjectsExport)
			r.Delete("/{project_id}", app.ProjectsDelete)
		})
	})

	return r
}
