package api

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/phrazzld/revlog/internal/api/shared"
	"github.com/phrazzld/revlog/internal/deckview"
	"github.com/phrazzld/revlog/internal/domain"
	"github.com/phrazzld/revlog/internal/platform/logger"
)

// Scheduler is the slice of the Decks command API the review handler
// depends on. *deck.Decks satisfies it.
type Scheduler interface {
	ScoreCard(cardID uuid.UUID, score domain.Score) error
}

// DeckReader is the read API of the card projection the handlers depend
// on. *deckview.DeckViewModel satisfies it.
type DeckReader interface {
	NextCardDue(day int) (domain.Card, error)
	CardFor(id uuid.UUID) (domain.Card, error)
	Cards() []domain.Card
}

// ReviewHandler handles review-session HTTP requests.
type ReviewHandler struct {
	scheduler Scheduler
	deckView  DeckReader
	logger    *slog.Logger
}

// NewReviewHandler creates a new ReviewHandler.
func NewReviewHandler(scheduler Scheduler, deckView DeckReader, log *slog.Logger) *ReviewHandler {
	if log == nil {
		log = slog.Default()
	}
	return &ReviewHandler{
		scheduler: scheduler,
		deckView:  deckView,
		logger:    log.With(slog.String("component", "review_handler")),
	}
}

// GetNextCard handles GET /api/review/next?upto=N.
// It returns the card with the earliest due date at or before day N, or
// 204 when nothing is due.
func (h *ReviewHandler) GetNextCard(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	day := 0
	if raw := r.URL.Query().Get("upto"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			log.Warn("invalid upto parameter", slog.String("upto", raw))
			shared.RespondWithError(w, r, http.StatusBadRequest, "upto must be a non-negative integer")
			return
		}
		day = parsed
	}

	card, err := h.deckView.NextCardDue(day)
	if errors.Is(err, deckview.ErrNoCardDue) {
		log.Debug("no cards due for review", slog.Int("upto", day))
		w.WriteHeader(http.StatusNoContent)
		return
	}
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError,
			"Failed to get next review card", err)
		return
	}

	log.Debug("next review card retrieved",
		slog.Int("upto", day),
		slog.String("card_id", card.ID.String()))
	shared.RespondWithJSON(w, r, http.StatusOK, cardToResponse(card))
}

// ScoreCard handles POST /api/cards/{id}/score.
// It records a review outcome for the card; a concurrent review of the
// same card yields 409.
func (h *ReviewHandler) ScoreCard(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	cardID, ok := parseIDParam(w, r, log)
	if !ok {
		return
	}

	var req ScoreCardRequest
	if err := shared.DecodeAndValidate(r, &req); err != nil {
		log.Warn("invalid score request",
			slog.String("error", err.Error()),
			slog.String("card_id", cardID.String()))
		shared.RespondWithError(w, r, http.StatusBadRequest, "Score must be one of: good, poor, fail")
		return
	}

	if err := h.scheduler.ScoreCard(cardID, domain.Score(req.Score)); err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	log.Debug("card scored",
		slog.String("card_id", cardID.String()),
		slog.String("score", req.Score))
	w.WriteHeader(http.StatusNoContent)
}

// parseIDParam extracts and parses the {id} URL parameter, writing a 400
// response itself when the parameter is missing or malformed.
func parseIDParam(w http.ResponseWriter, r *http.Request, log *slog.Logger) (uuid.UUID, bool) {
	raw := chi.URLParam(r, "id")
	if raw == "" {
		log.Warn("id not found in URL path")
		shared.RespondWithError(w, r, http.StatusBadRequest, "ID is required")
		return uuid.Nil, false
	}

	id, err := uuid.Parse(raw)
	if err != nil {
		log.Warn("invalid id format", slog.String("id", raw))
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid ID format")
		return uuid.Nil, false
	}
	return id, true
}
