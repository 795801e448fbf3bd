package api_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phrazzld/revlog/internal/api"
	"github.com/phrazzld/revlog/internal/deck"
	"github.com/phrazzld/revlog/internal/deckview"
	"github.com/phrazzld/revlog/internal/eventstore"
)

// newTestServer wires a real event store, service, and projections behind
// the router, mirroring production wiring.
func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store := eventstore.New(logger)

	deckView, err := deckview.NewDeckViewModel(store, logger)
	require.NoError(t, err)
	modelView, err := deckview.NewModelViewModel(store, logger)
	require.NoError(t, err)
	decks, err := deck.New(store, logger)
	require.NoError(t, err)

	server := httptest.NewServer(api.NewRouter(api.RouterDeps{
		Scheduler: decks,
		Commands:  decks,
		DeckView:  deckView,
		ModelView: modelView,
		Logger:    logger,
	}))
	t.Cleanup(server.Close)
	return server
}

func doJSON(t *testing.T, method, url string, body interface{}) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequest(method, url, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, v interface{}) {
	t.Helper()
	defer func() { _ = resp.Body.Close() }()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(v))
}

func TestCardLifecycleOverHTTP(t *testing.T) {
	t.Parallel()
	server := newTestServer(t)
	cardID := uuid.New()

	// Create the card.
	resp := doJSON(t, http.MethodPut, server.URL+"/api/cards/"+cardID.String(), map[string]interface{}{
		"fields": map[string]string{"question": "capital of France?", "answer": "Paris"},
	})
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	// Read it back.
	resp = doJSON(t, http.MethodGet, server.URL+"/api/cards/"+cardID.String(), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var card struct {
		ID          string `json:"id"`
		Question    string `json:"question"`
		Answer      string `json:"answer"`
		ReviewCount int    `json:"review_count"`
		DueDate     int    `json:"due_date"`
	}
	decodeBody(t, resp, &card)
	assert.Equal(t, cardID.String(), card.ID)
	assert.Equal(t, "capital of France?", card.Question)
	assert.Equal(t, "Paris", card.Answer)
	assert.Equal(t, 0, card.ReviewCount)
	assert.Equal(t, 0, card.DueDate)

	// Score it.
	resp = doJSON(t, http.MethodPost, server.URL+"/api/cards/"+cardID.String()+"/score",
		map[string]string{"score": "good"})
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = doJSON(t, http.MethodGet, server.URL+"/api/cards/"+cardID.String(), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decodeBody(t, resp, &card)
	assert.Equal(t, 1, card.ReviewCount)
	assert.Equal(t, 1, card.DueDate)
}

func TestReviewNextCard(t *testing.T) {
	t.Parallel()
	server := newTestServer(t)
	cardID := uuid.New()

	resp := doJSON(t, http.MethodPut, server.URL+"/api/cards/"+cardID.String(), map[string]interface{}{
		"fields": map[string]string{"question": "q", "answer": "a"},
	})
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	// A freshly created card is due at day 0.
	resp = doJSON(t, http.MethodGet, server.URL+"/api/review/next?upto=0", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var card struct {
		ID string `json:"id"`
	}
	decodeBody(t, resp, &card)
	assert.Equal(t, cardID.String(), card.ID)

	// After a good review the card is due at day 1, not day 0.
	resp = doJSON(t, http.MethodPost, server.URL+"/api/cards/"+cardID.String()+"/score",
		map[string]string{"score": "good"})
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = doJSON(t, http.MethodGet, server.URL+"/api/review/next?upto=0", nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = doJSON(t, http.MethodGet, server.URL+"/api/review/next?upto=1", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	_ = resp.Body.Close()
}

func TestScoreCardValidation(t *testing.T) {
	t.Parallel()
	server := newTestServer(t)
	cardID := uuid.New()

	resp := doJSON(t, http.MethodPost, server.URL+"/api/cards/"+cardID.String()+"/score",
		map[string]string{"score": "excellent"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	_ = resp.Body.Close()

	resp = doJSON(t, http.MethodPost, server.URL+"/api/cards/not-a-uuid/score",
		map[string]string{"score": "good"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	_ = resp.Body.Close()
}

func TestGetUnknownCardReturns404(t *testing.T) {
	t.Parallel()
	server := newTestServer(t)

	resp := doJSON(t, http.MethodGet, server.URL+"/api/cards/"+uuid.NewString(), nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	_ = resp.Body.Close()
}

func TestModelEndpoints(t *testing.T) {
	t.Parallel()
	server := newTestServer(t)
	modelID := uuid.New()

	resp := doJSON(t, http.MethodPut, server.URL+"/api/models/"+modelID.String()+"/name",
		map[string]string{"name": "vocabulary"})
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = doJSON(t, http.MethodPost, server.URL+"/api/models/"+modelID.String()+"/fields",
		map[string]string{"field": "word"})
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = doJSON(t, http.MethodPut, server.URL+"/api/models/"+modelID.String()+"/templates",
		map[string]string{"question": "{{word}}?", "answer": "{{meaning}}"})
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = doJSON(t, http.MethodGet, server.URL+"/api/models/"+modelID.String(), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var model struct {
		Name     string   `json:"name"`
		Question string   `json:"question_template"`
		Answer   string   `json:"answer_template"`
		Fields   []string `json:"fields"`
	}
	decodeBody(t, resp, &model)
	assert.Equal(t, "vocabulary", model.Name)
	assert.Equal(t, "{{word}}?", model.Question)
	assert.Equal(t, []string{"word"}, model.Fields)
}

func TestSystemBulkDeckCreation(t *testing.T) {
	t.Parallel()
	server := newTestServer(t)

	modelID := uuid.New()
	cardOne := uuid.New()
	cardTwo := uuid.New()

	resp := doJSON(t, http.MethodPost, server.URL+"/system/decks", map[string]interface{}{
		"model": map[string]interface{}{
			"id":                modelID.String(),
			"name":              "capitals",
			"fields":            []string{"question", "answer"},
			"question_template": "{{question}}",
			"answer_template":   "{{answer}}",
		},
		"cards": []map[string]interface{}{
			{"id": cardOne.String(), "fields": map[string]string{"question": "q1", "answer": "a1"}},
			{"id": cardTwo.String(), "fields": map[string]string{"question": "q2", "answer": "a2"}},
		},
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	_ = resp.Body.Close()

	// The debug endpoint exposes the full projected state as a flat object.
	resp = doJSON(t, http.MethodGet, server.URL+"/system/cards/"+cardOne.String(), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var flat map[string]interface{}
	decodeBody(t, resp, &flat)
	assert.Equal(t, cardOne.String(), flat["id"])
	assert.Equal(t, "q1", flat["question"])
	assert.Equal(t, "a1", flat["answer"])
	assert.Equal(t, float64(0), flat["review_count"])
	assert.Equal(t, float64(0), flat["due_date"])

	// Cards were assigned to the bulk model.
	resp = doJSON(t, http.MethodGet, server.URL+"/api/cards/"+cardTwo.String(), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var card struct {
		ModelID string `json:"model_id"`
	}
	decodeBody(t, resp, &card)
	assert.Equal(t, modelID.String(), card.ModelID)

	// And the model itself is queryable.
	resp = doJSON(t, http.MethodGet, server.URL+"/api/models/"+modelID.String(), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	_ = resp.Body.Close()
}

func TestListCards(t *testing.T) {
	t.Parallel()
	server := newTestServer(t)

	for i := 0; i < 3; i++ {
		resp := doJSON(t, http.MethodPut, server.URL+"/api/cards/"+uuid.NewString(), map[string]interface{}{
			"fields": map[string]string{"question": fmt.Sprintf("q%d", i), "answer": "a"},
		})
		require.Equal(t, http.StatusNoContent, resp.StatusCode)
	}

	resp := doJSON(t, http.MethodGet, server.URL+"/api/cards", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var cards []map[string]interface{}
	decodeBody(t, resp, &cards)
	assert.Len(t, cards, 3)
}
