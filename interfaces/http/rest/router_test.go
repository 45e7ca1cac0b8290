package rest

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"mindmap-backend/internal/ai"
	"mindmap-backend/internal/layout"
	"mindmap-backend/internal/session"
	"mindmap-backend/internal/store"
)

func newTestServer(t *testing.T) http.Handler {
	t.Helper()

	logger := zap.NewNop()
	provider := ai.NewMockProvider()
	manager := session.NewManager(func(sc session.Config) *session.Session {
		displayCfg := layout.DefaultDisplayConfig()
		displayCfg.MapType = sc.MapType
		displayCfg.ObsidianStyle = sc.ObsidianStyle
		displayCfg.ArrowsEnabled = sc.ArrowsEnabled

		st := store.New(logger)
		lc := layout.NewController(layout.NewHeadlessEngine(), displayCfg, logger)
		return session.New(st, lc, provider, nil, sc, logger)
	})

	return NewRouter(manager, nil, logger, nil).Setup()
}

func doJSON(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func generateMap(t *testing.T, h http.Handler) {
	t.Helper()

	rec := doJSON(t, h, http.MethodPost, "/api/v1/maps", map[string]any{
		"source": map[string]any{
			"type": "transcript",
			"text": "Photosynthesis converts light into chemical energy.",
		},
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
}

func TestRouter_HealthCheck(t *testing.T) {
	h := newTestServer(t)

	rec := doJSON(t, h, http.MethodGet, "/health", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"healthy"}`, rec.Body.String())
}

func TestRouter_GetMapBeforeGenerate(t *testing.T) {
	h := newTestServer(t)

	rec := doJSON(t, h, http.MethodGet, "/api/v1/map", nil)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRouter_GenerateAndGetMap(t *testing.T) {
	h := newTestServer(t)
	generateMap(t, h)

	rec := doJSON(t, h, http.MethodGet, "/api/v1/map", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Busy bool `json:"busy"`
		Data struct {
			Nodes []struct {
				ID    string `json:"id"`
				Group string `json:"group"`
			} `json:"nodes"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.False(t, body.Busy)
	assert.Len(t, body.Data.Nodes, 3)
}

func TestRouter_GenerateRejectsInvalidBody(t *testing.T) {
	h := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/maps", bytes.NewBufferString("{not json"))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRouter_ElaborateNode(t *testing.T) {
	h := newTestServer(t)
	generateMap(t, h)

	rec := doJSON(t, h, http.MethodPost, "/api/v1/nodes/main_1/elaborate", nil)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var body struct {
		Nodes []json.RawMessage `json:"nodes"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Len(t, body.Nodes, 2)
}

func TestRouter_ElaborateUnknownNode(t *testing.T) {
	h := newTestServer(t)
	generateMap(t, h)

	rec := doJSON(t, h, http.MethodPost, "/api/v1/nodes/no_such_node/elaborate", nil)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRouter_ChatRoundTrip(t *testing.T) {
	h := newTestServer(t)
	generateMap(t, h)

	rec := doJSON(t, h, http.MethodPost, "/api/v1/chat", map[string]any{"query": "What is this map about?"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = doJSON(t, h, http.MethodGet, "/api/v1/chat/history", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var history []struct {
		Role string `json:"role"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &history))
	assert.Len(t, history, 2)
}

func TestRouter_ExampleMapAndFlashcards(t *testing.T) {
	h := newTestServer(t)

	rec := doJSON(t, h, http.MethodPost, "/api/v1/maps/example", nil)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = doJSON(t, h, http.MethodGet, "/api/v1/export/flashcards", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/csv")
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "flashcards.csv")
	assert.NotEmpty(t, rec.Body.String())
}

func TestRouter_ConvertedTextDownload(t *testing.T) {
	h := newTestServer(t)
	generateMap(t, h)

	rec := doJSON(t, h, http.MethodGet, "/api/v1/export/converted-text", nil)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/plain")
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "converted_text_")
	assert.Equal(t, "Photosynthesis converts light into chemical energy.", rec.Body.String())
}

func TestRouter_ConvertedTextWithoutTranscript(t *testing.T) {
	h := newTestServer(t)

	rec := doJSON(t, h, http.MethodPost, "/api/v1/maps/example", nil)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(t, h, http.MethodGet, "/api/v1/export/converted-text", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRouter_ExportRequiresObsidianStyle(t *testing.T) {
	h := newTestServer(t)
	generateMap(t, h) // standard map, not obsidian-styled

	rec := doJSON(t, h, http.MethodGet, "/api/v1/export/flashcards", nil)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRouter_LayoutConfigRoundTrip(t *testing.T) {
	h := newTestServer(t)
	generateMap(t, h)

	rec := doJSON(t, h, http.MethodGet, "/api/v1/layout/config", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var cfg layout.DisplayConfig
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &cfg))
	cfg.LinkDistance = 200

	rec = doJSON(t, h, http.MethodPut, "/api/v1/layout/config", cfg)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, h, http.MethodGet, "/api/v1/layout/config", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &cfg))
	assert.Equal(t, float64(200), cfg.LinkDistance)
}

func TestRouter_ConnectRequiresTwoNodes(t *testing.T) {
	h := newTestServer(t)
	generateMap(t, h)

	rec := doJSON(t, h, http.MethodPost, "/api/v1/connections", map[string]any{"node_ids": []string{"main_1"}})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
