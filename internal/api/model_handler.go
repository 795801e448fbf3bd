package api

import (
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/phrazzld/revlog/internal/api/shared"
	"github.com/phrazzld/revlog/internal/domain"
	"github.com/phrazzld/revlog/internal/platform/logger"
)

// ModelEditor is the slice of the Decks command API the model handler
// depends on.
type ModelEditor interface {
	NameModel(modelID uuid.UUID, name string) error
	EditModelTemplates(modelID uuid.UUID, question, answer string) error
	AddModelField(modelID uuid.UUID, field string) error
}

// ModelReader is the read API of the model projection.
// *deckview.ModelViewModel satisfies it.
type ModelReader interface {
	ModelFor(id uuid.UUID) (domain.Model, error)
	Models() []domain.Model
}

// ModelHandler handles card-model HTTP requests.
type ModelHandler struct {
	editor    ModelEditor
	modelView ModelReader
	logger    *slog.Logger
}

// NewModelHandler creates a new ModelHandler.
func NewModelHandler(editor ModelEditor, modelView ModelReader, log *slog.Logger) *ModelHandler {
	if log == nil {
		log = slog.Default()
	}
	return &ModelHandler{
		editor:    editor,
		modelView: modelView,
		logger:    log.With(slog.String("component", "model_handler")),
	}
}

// NameModel handles PUT /api/models/{id}/name.
func (h *ModelHandler) NameModel(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	modelID, ok := parseIDParam(w, r, log)
	if !ok {
		return
	}

	var req NameModelRequest
	if err := shared.DecodeAndValidate(r, &req); err != nil {
		log.Warn("invalid name request",
			slog.String("error", err.Error()),
			slog.String("model_id", modelID.String()))
		shared.RespondWithError(w, r, http.StatusBadRequest, "A name is required")
		return
	}

	if err := h.editor.NameModel(modelID, req.Name); err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	log.Debug("model named",
		slog.String("model_id", modelID.String()),
		slog.String("name", req.Name))
	w.WriteHeader(http.StatusNoContent)
}

// EditTemplates handles PUT /api/models/{id}/templates.
func (h *ModelHandler) EditTemplates(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	modelID, ok := parseIDParam(w, r, log)
	if !ok {
		return
	}

	var req EditTemplatesRequest
	if err := shared.DecodeAndValidate(r, &req); err != nil {
		log.Warn("invalid templates request",
			slog.String("error", err.Error()),
			slog.String("model_id", modelID.String()))
		shared.RespondWithError(w, r, http.StatusBadRequest, "Question and answer templates are required")
		return
	}

	if err := h.editor.EditModelTemplates(modelID, req.Question, req.Answer); err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	log.Debug("model templates changed", slog.String("model_id", modelID.String()))
	w.WriteHeader(http.StatusNoContent)
}

// AddField handles POST /api/models/{id}/fields.
func (h *ModelHandler) AddField(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	modelID, ok := parseIDParam(w, r, log)
	if !ok {
		return
	}

	var req AddFieldRequest
	if err := shared.DecodeAndValidate(r, &req); err != nil {
		log.Warn("invalid field request",
			slog.String("error", err.Error()),
			slog.String("model_id", modelID.String()))
		shared.RespondWithError(w, r, http.StatusBadRequest, "A field name is required")
		return
	}

	if err := h.editor.AddModelField(modelID, req.Field); err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	log.Debug("model field added",
		slog.String("model_id", modelID.String()),
		slog.String("field", req.Field))
	w.WriteHeader(http.StatusNoContent)
}

// GetModel handles GET /api/models/{id}.
func (h *ModelHandler) GetModel(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	modelID, ok := parseIDParam(w, r, log)
	if !ok {
		return
	}

	model, err := h.modelView.ModelFor(modelID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, modelToResponse(model))
}

// ListModels handles GET /api/models.
func (h *ModelHandler) ListModels(w http.ResponseWriter, r *http.Request) {
	models := h.modelView.Models()

	responses := make([]ModelResponse, 0, len(models))
	for _, model := range models {
		responses = append(responses, modelToResponse(model))
	}
	shared.RespondWithJSON(w, r, http.StatusOK, responses)
}
