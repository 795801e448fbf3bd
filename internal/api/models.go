package api

import (
	"github.com/google/uuid"

	"github.com/phrazzld/revlog/internal/domain"
)

// CardResponse represents the response data for a card.
type CardResponse struct {
	ID          string            `json:"id"`
	Question    string            `json:"question"`
	Answer      string            `json:"answer"`
	ModelID     string            `json:"model_id,omitempty"`
	Fields      map[string]string `json:"fields,omitempty"`
	ReviewCount int               `json:"review_count"`
	DueDate     int               `json:"due_date"`
}

// ModelResponse represents the response data for a card model.
type ModelResponse struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Question string   `json:"question_template"`
	Answer   string   `json:"answer_template"`
	Fields   []string `json:"fields"`
}

// ScoreCardRequest is the body of POST /api/cards/{id}/score.
type ScoreCardRequest struct {
	Score string `json:"score" validate:"required,oneof=good poor fail"`
}

// EditCardRequest is the body of PUT /api/cards/{id}.
type EditCardRequest struct {
	Fields map[string]string `json:"fields" validate:"required,min=1"`
}

// SetCardModelRequest is the body of PUT /api/cards/{id}/model.
type SetCardModelRequest struct {
	ModelID string `json:"model_id" validate:"required,uuid"`
}

// NameModelRequest is the body of PUT /api/models/{id}/name.
type NameModelRequest struct {
	Name string `json:"name" validate:"required"`
}

// EditTemplatesRequest is the body of PUT /api/models/{id}/templates.
type EditTemplatesRequest struct {
	Question string `json:"question" validate:"required"`
	Answer   string `json:"answer"   validate:"required"`
}

// AddFieldRequest is the body of POST /api/models/{id}/fields.
type AddFieldRequest struct {
	Field string `json:"field" validate:"required"`
}

// BulkDeckRequest is the body of POST /system/decks: a raw model
// definition plus a list of cards, fanned into the equivalent Decks
// commands. Used by system tests to seed a deck in one call.
type BulkDeckRequest struct {
	Model BulkModel  `json:"model" validate:"required"`
	Cards []BulkCard `json:"cards" validate:"dive"`
}

// BulkModel describes the model part of a bulk deck payload.
type BulkModel struct {
	ID               string   `json:"id" validate:"required,uuid"`
	Name             string   `json:"name"`
	Fields           []string `json:"fields" validate:"required,min=1"`
	QuestionTemplate string   `json:"question_template" validate:"required"`
	AnswerTemplate   string   `json:"answer_template"   validate:"required"`
}

// BulkCard describes one card of a bulk deck payload.
type BulkCard struct {
	ID     string            `json:"id" validate:"required,uuid"`
	Fields map[string]string `json:"fields" validate:"required,min=1"`
}

// cardToResponse converts a projected card to its wire shape.
func cardToResponse(card domain.Card) CardResponse {
	resp := CardResponse{
		ID:          card.ID.String(),
		Question:    card.Question,
		Answer:      card.Answer,
		Fields:      card.Fields,
		ReviewCount: card.ReviewCount,
		DueDate:     card.DueDate,
	}
	if card.ModelID != uuid.Nil {
		resp.ModelID = card.ModelID.String()
	}
	return resp
}

// modelToResponse converts a projected model to its wire shape.
func modelToResponse(model domain.Model) ModelResponse {
	return ModelResponse{
		ID:       model.ID.String(),
		Name:     model.Name,
		Question: model.Question,
		Answer:   model.Answer,
		Fields:   model.Fields,
	}
}
