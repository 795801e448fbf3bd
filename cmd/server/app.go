package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/phrazzld/revlog/internal/api"
	"github.com/phrazzld/revlog/internal/config"
	"github.com/phrazzld/revlog/internal/deck"
	"github.com/phrazzld/revlog/internal/deckview"
	"github.com/phrazzld/revlog/internal/eventstore"
)

// application holds the shared application dependencies. The event store
// is explicitly constructed here and passed by reference to every
// component that needs it; nothing in the system reaches for a hidden
// global.
type application struct {
	config *config.Config
	logger *slog.Logger

	eventStore *eventstore.Store
	decks      *deck.Decks
	deckView   *deckview.DeckViewModel
	modelView  *deckview.ModelViewModel
}

// newApplication creates an application instance with all dependencies
// initialized. Subscription order matters: projections subscribe before
// the scheduling service so that by the time a command returns, every read
// model has folded the commands' events.
func newApplication(cfg *config.Config, logger *slog.Logger) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
	}

	app.eventStore = eventstore.New(logger)

	var err error
	app.deckView, err = deckview.NewDeckViewModel(app.eventStore, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create deck view: %w", err)
	}

	app.modelView, err = deckview.NewModelViewModel(app.eventStore, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create model view: %w", err)
	}

	app.decks, err = deck.New(app.eventStore, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create decks service: %w", err)
	}

	logger.Info("Application initialized successfully")
	return app, nil
}

// Run starts the HTTP server, handling lifecycle and cleanup.
func (app *application) Run(ctx context.Context) error {
	router := app.setupRouter()

	if err := app.startHTTPServer(ctx, router); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// setupRouter wires the core services into the HTTP shell.
func (app *application) setupRouter() http.Handler {
	return api.NewRouter(api.RouterDeps{
		Scheduler: app.decks,
		Commands:  app.decks,
		DeckView:  app.deckView,
		ModelView: app.modelView,
		Logger:    app.logger,
	})
}
