package api

import (
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/phrazzld/revlog/internal/api/shared"
	"github.com/phrazzld/revlog/internal/platform/logger"
)

// DeckCommands is the full set of write commands the system-test API fans
// a bulk payload into.
type DeckCommands interface {
	CardEditor
	ModelEditor
}

// SystemHandler implements the debug/system-test API: raw projected card
// state and bulk deck creation. Not part of the user-facing surface.
type SystemHandler struct {
	commands DeckCommands
	deckView DeckReader
	logger   *slog.Logger
}

// NewSystemHandler creates a new SystemHandler.
func NewSystemHandler(commands DeckCommands, deckView DeckReader, log *slog.Logger) *SystemHandler {
	if log == nil {
		log = slog.Default()
	}
	return &SystemHandler{
		commands: commands,
		deckView: deckView,
		logger:   log.With(slog.String("component", "system_handler")),
	}
}

// GetCard handles GET /system/cards/{id}.
// It exposes the card's full projected state as a flat JSON object with
// one field per Card attribute.
func (h *SystemHandler) GetCard(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	cardID, ok := parseIDParam(w, r, log)
	if !ok {
		return
	}

	card, err := h.deckView.CardFor(cardID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, map[string]interface{}{
		"id":           card.ID.String(),
		"question":     card.Question,
		"answer":       card.Answer,
		"review_count": card.ReviewCount,
		"due_date":     card.DueDate,
	})
}

// CreateDeck handles POST /system/decks.
// It accepts a raw model definition plus a list of cards and fans each
// part into the equivalent Decks commands.
func (h *SystemHandler) CreateDeck(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	var req BulkDeckRequest
	if err := shared.DecodeAndValidate(r, &req); err != nil {
		log.Warn("invalid bulk deck request", slog.String("error", err.Error()))
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid deck payload")
		return
	}

	modelID, err := uuid.Parse(req.Model.ID)
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid model ID format")
		return
	}

	if req.Model.Name != "" {
		if err := h.commands.NameModel(modelID, req.Model.Name); err != nil {
			shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
			return
		}
	}
	for _, field := range req.Model.Fields {
		if err := h.commands.AddModelField(modelID, field); err != nil {
			shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
			return
		}
	}
	if err := h.commands.EditModelTemplates(modelID, req.Model.QuestionTemplate, req.Model.AnswerTemplate); err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	for _, bulkCard := range req.Cards {
		cardID, err := uuid.Parse(bulkCard.ID)
		if err != nil {
			shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid card ID format")
			return
		}
		if err := h.commands.AddOrEditCard(cardID, bulkCard.Fields); err != nil {
			shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
			return
		}
		if err := h.commands.SetModelForCard(cardID, modelID); err != nil {
			shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
			return
		}
	}

	log.Info("bulk deck created",
		slog.String("model_id", modelID.String()),
		slog.Int("card_count", len(req.Cards)))
	w.WriteHeader(http.StatusCreated)
}
