package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/phrazzld/revlog/internal/api/middleware"
)

// RouterDeps bundles the core services the HTTP shell consumes.
type RouterDeps struct {
	Scheduler Scheduler
	Commands  DeckCommands
	DeckView  DeckReader
	ModelView ModelReader
	Logger    *slog.Logger
}

// NewRouter wires all handlers into a chi router.
func NewRouter(deps RouterDeps) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(middleware.TraceMiddleware)

	reviewHandler := NewReviewHandler(deps.Scheduler, deps.DeckView, deps.Logger)
	cardHandler := NewCardHandler(deps.Commands, deps.DeckView, deps.Logger)
	modelHandler := NewModelHandler(deps.Commands, deps.ModelView, deps.Logger)
	systemHandler := NewSystemHandler(deps.Commands, deps.DeckView, deps.Logger)

	r.Route("/api", func(r chi.Router) {
		r.Get("/review/next", reviewHandler.GetNextCard)

		r.Route("/cards", func(r chi.Router) {
			r.Get("/", cardHandler.ListCards)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", cardHandler.GetCard)
				r.Put("/", cardHandler.UpsertCard)
				r.Put("/model", cardHandler.SetCardModel)
				r.Post("/score", reviewHandler.ScoreCard)
			})
		})

		r.Route("/models", func(r chi.Router) {
			r.Get("/", modelHandler.ListModels)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", modelHandler.GetModel)
				r.Put("/name", modelHandler.NameModel)
				r.Put("/templates", modelHandler.EditTemplates)
				r.Post("/fields", modelHandler.AddField)
			})
		})
	})

	r.Route("/system", func(r chi.Router) {
		r.Get("/cards/{id}", systemHandler.GetCard)
		r.Post("/decks", systemHandler.CreateDeck)
	})

	return r
}
