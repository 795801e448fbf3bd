package api

import (
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/phrazzld/revlog/internal/api/shared"
	"github.com/phrazzld/revlog/internal/platform/logger"
)

// CardEditor is the slice of the Decks command API the card handler
// depends on.
type CardEditor interface {
	AddOrEditCard(cardID uuid.UUID, fields map[string]string) error
	SetModelForCard(cardID, modelID uuid.UUID) error
}

// CardHandler handles card management HTTP requests.
type CardHandler struct {
	editor   CardEditor
	deckView DeckReader
	logger   *slog.Logger
}

// NewCardHandler creates a new CardHandler.
func NewCardHandler(editor CardEditor, deckView DeckReader, log *slog.Logger) *CardHandler {
	if log == nil {
		log = slog.Default()
	}
	return &CardHandler{
		editor:   editor,
		deckView: deckView,
		logger:   log.With(slog.String("component", "card_handler")),
	}
}

// UpsertCard handles PUT /api/cards/{id}.
// The first edit for an id creates the card; later edits fully replace its
// field values.
func (h *CardHandler) UpsertCard(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	cardID, ok := parseIDParam(w, r, log)
	if !ok {
		return
	}

	var req EditCardRequest
	if err := shared.DecodeAndValidate(r, &req); err != nil {
		log.Warn("invalid edit request",
			slog.String("error", err.Error()),
			slog.String("card_id", cardID.String()))
		shared.RespondWithError(w, r, http.StatusBadRequest, "Fields are required")
		return
	}

	if err := h.editor.AddOrEditCard(cardID, req.Fields); err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	log.Debug("card edited", slog.String("card_id", cardID.String()))
	w.WriteHeader(http.StatusNoContent)
}

// SetCardModel handles PUT /api/cards/{id}/model.
func (h *CardHandler) SetCardModel(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	cardID, ok := parseIDParam(w, r, log)
	if !ok {
		return
	}

	var req SetCardModelRequest
	if err := shared.DecodeAndValidate(r, &req); err != nil {
		log.Warn("invalid model assignment request",
			slog.String("error", err.Error()),
			slog.String("card_id", cardID.String()))
		shared.RespondWithError(w, r, http.StatusBadRequest, "A valid model_id is required")
		return
	}

	modelID, err := uuid.Parse(req.ModelID)
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid model ID format")
		return
	}

	if err := h.editor.SetModelForCard(cardID, modelID); err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	log.Debug("card model changed",
		slog.String("card_id", cardID.String()),
		slog.String("model_id", modelID.String()))
	w.WriteHeader(http.StatusNoContent)
}

// GetCard handles GET /api/cards/{id}.
func (h *CardHandler) GetCard(w http.ResponseWriter, r *http.Request) {
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

	shared.RespondWithJSON(w, r, http.StatusOK, cardToResponse(card))
}

// ListCards handles GET /api/cards.
func (h *CardHandler) ListCards(w http.ResponseWriter, r *http.Request) {
	cards := h.deckView.Cards()

	responses := make([]CardResponse, 0, len(cards))
	for _, card := range cards {
		responses = append(responses, cardToResponse(card))
	}
	shared.RespondWithJSON(w, r, http.StatusOK, responses)
}
