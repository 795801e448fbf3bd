package domain

import (
	"github.com/google/uuid"
)

// Card is the projected state of a single flashcard, derived entirely by
// folding the card's event stream.
//
// DueDate is an absolute day counter, not a wall-clock time: day 0 is the
// moment the deck was created, and a card with DueDate 0 has never been
// scheduled. ReviewCount and DueDate both default to zero for a card that
// has been edited but never reviewed.
type Card struct {
	ID          uuid.UUID         `json:"id"`
	Question    string            `json:"question"`
	Answer      string            `json:"answer"`
	ModelID     uuid.UUID         `json:"model_id,omitempty"`
	Fields      map[string]string `json:"fields,omitempty"`
	ReviewCount int               `json:"review_count"`
	DueDate     int               `json:"due_date"`
}
