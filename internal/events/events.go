package events

import (
	"github.com/google/uuid"

	"github.com/phrazzld/revlog/internal/domain"
)

// Event is implemented by every record in the event catalog.
// The isEvent marker seals the interface to this package.
type Event interface {
	// Kind returns a stable name for the event type, used for logging
	// and wire representations.
	Kind() string

	isEvent()
}

// CardReviewed records the outcome of reviewing a card: the score given,
// the spacing interval (in days) that was applied, and the resulting
// absolute due day for the next review.
type CardReviewed struct {
	Score       domain.Score `json:"score"`
	NextDueDate int          `json:"next_due_date"`
	Interval    int          `json:"interval"`
}

// CardEdited records a full replacement of a card's field values. The map
// is keyed by field name (e.g. "question", "answer"). The first CardEdited
// on a stream implicitly creates the card.
type CardEdited struct {
	CardFields map[string]string `json:"card_fields"`
}

// CardModelChanged reassigns which model a card belongs to.
type CardModelChanged struct {
	ModelID uuid.UUID `json:"model_id"`
}

// ModelNamed records a model being given a display name.
type ModelNamed struct {
	Name string `json:"name"`
}

// ModelTemplatesChanged records a full replacement of a model's question
// and answer templates.
type ModelTemplatesChanged struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// ModelFieldAdded records a new named field in a model's schema.
type ModelFieldAdded struct {
	Field string `json:"field"`
}

func (CardReviewed) Kind() string          { return "card_reviewed" }
func (CardEdited) Kind() string            { return "card_edited" }
func (CardModelChanged) Kind() string      { return "card_model_changed" }
func (ModelNamed) Kind() string            { return "model_named" }
func (ModelTemplatesChanged) Kind() string { return "model_templates_changed" }
func (ModelFieldAdded) Kind() string       { return "model_field_added" }

func (CardReviewed) isEvent()          {}
func (CardEdited) isEvent()            {}
func (CardModelChanged) isEvent()      {}
func (ModelNamed) isEvent()            {}
func (ModelTemplatesChanged) isEvent() {}
func (ModelFieldAdded) isEvent()       {}
