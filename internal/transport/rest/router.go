package rest

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/heartmarshall/vibevocab/internal/config"
	"github.com/heartmarshall/vibevocab/internal/transport/middleware"
)

// tokenValidator resolves bearer tokens for the session middleware.
type tokenValidator interface {
	ValidateToken(ctx context.Context, token string) (uuid.UUID, error)
}

// Deps bundles everything the router needs.
type Deps struct {
	Logger      *slog.Logger
	CORS        config.CORSConfig
	RateLimit   config.RateLimitConfig
	RateLimiter *middleware.RateLimiter
	Tokens      tokenValidator

	Health   *HealthHandler
	Session  *SessionHandler
	Lookup   *LookupHandler
	Notebook *NotebookHandler
	Import   *ImportHandler
	Study    *StudyHandler
}

// NewRouter wires the HTTP API. Probes sit outside the middleware stack so they stay
// cheap and unlimited.
func NewRouter(d Deps) http.Handler {
	r := chi.NewRouter()

	r.Get("/live", d.Health.Live)
	r.Get("/ready", d.Health.Ready)
	r.Get("/health", d.Health.Health)

	r.Route("/api", func(api chi.Router) {
		api.Use(
			middleware.RequestID(),
			middleware.Logger(d.Logger),
			middleware.Recovery(d.Logger),
			middleware.CORS(d.CORS),
		)

		limited := func(name string, perMinute int) middleware.Middleware {
			if d.RateLimiter == nil {
				return nil
			}
			return d.RateLimiter.Limit(name, perMinute)
		}
		lookupLimit := middleware.Chain(limited("lookup", d.RateLimit.LookupPerMinute))
		importLimit := middleware.Chain(limited("import", d.RateLimit.ImportPerMinute))

		api.Post("/sessions", d.Session.Create)
		api.Get("/languages", d.Lookup.Languages)
		api.With(lookupLimit).Post("/lookup", d.Lookup.Lookup)

		api.Group(func(s chi.Router) {
			s.Use(middleware.Auth(d.Tokens))

			s.Route("/notebook", func(nb chi.Router) {
				nb.Get("/", d.Notebook.List)
				nb.Get("/tags", d.Notebook.Tags)
				nb.Post("/tags", d.Notebook.AddTag)
				nb.Get("/entries/{word}", d.Notebook.Get)
				nb.Put("/entries/{word}", d.Notebook.Save)
				nb.Delete("/entries/{word}", d.Notebook.Delete)
				nb.Put("/entries/{word}/tags", d.Notebook.SetTags)
				nb.With(lookupLimit).Post("/entries/{word}/refresh", d.Notebook.Refresh)
			})

			s.Route("/import", func(im chi.Router) {
				im.With(importLimit).Post("/", d.Import.Import)
				im.Post("/confirm", d.Import.Confirm)
				im.With(importLimit).Post("/scan", d.Import.Scan)
			})

			s.Post("/study/flashcards", d.Study.Flashcards)
			s.With(lookupLimit).Post("/study/story", d.Study.Story)
		})
	})

	return r
}
