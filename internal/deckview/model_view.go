package deckview

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/phrazzld/revlog/internal/domain"
	"github.com/phrazzld/revlog/internal/events"
	"github.com/phrazzld/revlog/internal/eventstore"
)

// ErrModelNotFound is returned by queries for a model id the projection
// does not know.
var ErrModelNotFound = errors.New("model not found")

// ModelViewModel is the card-model read model, folding the model-schema
// mutation events into a mapping from model id to Model.
type ModelViewModel struct {
	logger *slog.Logger

	mu     sync.RWMutex
	models map[uuid.UUID]domain.Model
}

// NewModelViewModel creates the projection and catches up on the log's
// history before returning.
func NewModelViewModel(log EventLog, logger *slog.Logger) (*ModelViewModel, error) {
	if logger == nil {
		logger = slog.Default()
	}

	v := &ModelViewModel{
		logger: logger.With(slog.String("component", "model_view")),
		models: map[uuid.UUID]domain.Model{},
	}

	if err := log.Subscribe(eventstore.ListenerFunc(v.HandleEvent)); err != nil {
		return nil, fmt.Errorf("subscribe to event log: %w", err)
	}

	return v, nil
}

// HandleEvent folds a single event into the projection. The first
// model-schema event for an id implicitly creates the model.
func (v *ModelViewModel) HandleEvent(streamID uuid.UUID, event events.Event) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	switch e := event.(type) {
	case events.ModelNamed:
		model := v.models[streamID]
		model.ID = streamID
		model.Name = e.Name
		v.models[streamID] = model

	case events.ModelTemplatesChanged:
		model := v.models[streamID]
		model.ID = streamID
		model.Question = e.Question
		model.Answer = e.Answer
		v.models[streamID] = model

	case events.ModelFieldAdded:
		model := v.models[streamID]
		model.ID = streamID
		model.Fields = append(model.Fields, e.Field)
		v.models[streamID] = model
	}

	return nil
}

// ModelFor returns the projected state of a single model.
func (v *ModelViewModel) ModelFor(id uuid.UUID) (domain.Model, error) {
	v.mu.RLock()
	defer v.mu.RUnlock()

	model, ok := v.models[id]
	if !ok {
		return domain.Model{}, fmt.Errorf("%w: %s", ErrModelNotFound, id)
	}
	return model, nil
}

// Models returns every known model, ordered by id for stable output.
func (v *ModelViewModel) Models() []domain.Model {
	v.mu.RLock()
	defer v.mu.RUnlock()

	models := make([]domain.Model, 0, len(v.models))
	for _, model := range v.models {
		models = append(models, model)
	}
	sort.Slice(models, func(i, j int) bool {
		return models[i].ID.String() < models[j].ID.String()
	})
	return models
}
