package deckview

import (
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/phrazzld/revlog/internal/domain"
	"github.com/phrazzld/revlog/internal/events"
	"github.com/phrazzld/revlog/internal/eventstore"
)

var (
	// ErrUnknownCard is returned when a CardReviewed event targets a card
	// the projection has never seen. It signals a projection-consistency
	// bug: reviews can only follow an edit that created the card.
	ErrUnknownCard = errors.New("unknown card")

	// ErrCardNotFound is returned by queries for a card id the projection
	// does not know.
	ErrCardNotFound = errors.New("card not found")

	// ErrNoCardDue is returned by NextCardDue when no card is due at or
	// before the requested day.
	ErrNoCardDue = errors.New("no card due")
)

// EventLog is the slice of the event store the projection depends on.
type EventLog interface {
	Subscribe(listener eventstore.Listener) error
}

// DeckViewModel is the card read model. It maintains a mapping from card
// id to projected Card state, rebuilt by folding the event log.
type DeckViewModel struct {
	logger *slog.Logger

	mu    sync.RWMutex
	cards map[uuid.UUID]domain.Card
}

// NewDeckViewModel creates the projection and catches up on the log's
// history before returning.
func NewDeckViewModel(log EventLog, logger *slog.Logger) (*DeckViewModel, error) {
	if logger == nil {
		logger = slog.Default()
	}

	v := &DeckViewModel{
		logger: logger.With(slog.String("component", "deck_view")),
		cards:  map[uuid.UUID]domain.Card{},
	}

	if err := log.Subscribe(eventstore.ListenerFunc(v.HandleEvent)); err != nil {
		return nil, fmt.Errorf("subscribe to event log: %w", err)
	}

	return v, nil
}

// HandleEvent folds a single event into the projection.
//
// Editing an existing card replaces its field values but preserves its
// review metadata (review count and due date); review history survives
// rewording a card.
func (v *DeckViewModel) HandleEvent(streamID uuid.UUID, event events.Event) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	switch e := event.(type) {
	case events.CardReviewed:
		card, ok := v.cards[streamID]
		if !ok {
			return fmt.Errorf("%w: %s reviewed before first edit", ErrUnknownCard, streamID)
		}
		card.ReviewCount++
		card.DueDate = e.NextDueDate
		v.cards[streamID] = card

	case events.CardEdited:
		card := v.cards[streamID]
		card.ID = streamID
		card.Fields = maps.Clone(e.CardFields)
		card.Question = e.CardFields["question"]
		card.Answer = e.CardFields["answer"]
		v.cards[streamID] = card

	case events.CardModelChanged:
		card := v.cards[streamID]
		card.ID = streamID
		card.ModelID = e.ModelID
		v.cards[streamID] = card
	}

	return nil
}

// NextCardDue returns the card with the smallest due date, provided that
// due date is at or before the given day. Ties on the due date are broken
// by card id so the result is deterministic.
func (v *DeckViewModel) NextCardDue(day int) (domain.Card, error) {
	v.mu.RLock()
	defer v.mu.RUnlock()

	var (
		best  domain.Card
		found bool
	)
	for _, card := range v.cards {
		if !found || card.DueDate < best.DueDate ||
			(card.DueDate == best.DueDate && card.ID.String() < best.ID.String()) {
			best = card
			found = true
		}
	}

	if !found || best.DueDate > day {
		return domain.Card{}, ErrNoCardDue
	}
	return best, nil
}

// CardFor returns the projected state of a single card.
func (v *DeckViewModel) CardFor(id uuid.UUID) (domain.Card, error) {
	v.mu.RLock()
	defer v.mu.RUnlock()

	card, ok := v.cards[id]
	if !ok {
		return domain.Card{}, fmt.Errorf("%w: %s", ErrCardNotFound, id)
	}
	return card, nil
}

// Cards returns every known card, ordered by id for stable output.
func (v *DeckViewModel) Cards() []domain.Card {
	v.mu.RLock()
	defer v.mu.RUnlock()

	cards := make([]domain.Card, 0, len(v.cards))
	for _, card := range v.cards {
		cards = append(cards, card)
	}
	sort.Slice(cards, func(i, j int) bool {
		return cards[i].ID.String() < cards[j].ID.String()
	})
	return cards
}

// EnqueueCard inserts or overwrites a card directly, bypassing the fold
// pipeline. Administrative escape hatch for seeding and tests only.
func (v *DeckViewModel) EnqueueCard(card domain.Card) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.cards[card.ID] = card
}
