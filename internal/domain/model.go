package domain

import (
	"github.com/google/uuid"
)

// Model describes the schema a card conforms to: the set of named fields a
// card can carry, and the templates used to render its question and answer
// sides.
type Model struct {
	ID       uuid.UUID `json:"id"`
	Name     string    `json:"name"`
	Question string    `json:"question_template"`
	Answer   string    `json:"answer_template"`
	Fields   []string  `json:"fields"`
}
