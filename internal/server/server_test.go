package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/gridwire/pkg/cache"
	"github.com/matzehuels/gridwire/pkg/config"
	"github.com/matzehuels/gridwire/pkg/observability"
	"github.com/matzehuels/gridwire/pkg/pipeline"
	"github.com/matzehuels/gridwire/pkg/poster"
)

// =============================================================================
// Test Helpers
// =============================================================================

const gearSheet = `{
  "title": "gears",
  "connections": [
    {"id": "gear", "color": "#336699", "from": [{"row": 0, "col": 0}], "to": [{"row": 1, "col": 1}, {"row": 2, "col": 0}]},
    {"id": "belt", "from": [{"row": 1, "col": 0}], "to": [{"row": 1, "col": 1}]}
  ]
}`

const gearSheetYAML = `
connections:
  - id: gear
    from: [{row: 0, col: 0}]
    to: [{row: 1, col: 1}]
`

func newTestServer(t *testing.T, c cache.Cache) *Server {
	t.Helper()
	logger := log.New(&strings.Builder{})
	if c == nil {
		c = cache.NewNullCache()
	}
	cfg := config.Default()
	return New(pipeline.NewRunner(c, nil, logger), cfg, logger)
}

func do(t *testing.T, s *Server, method, target, contentType, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	rec := httptest.NewRecorder()
	s.Routes().ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

// =============================================================================
// Health
// =============================================================================

func TestHealth(t *testing.T) {
	s := newTestServer(t, nil)
	rec := do(t, s, http.MethodGet, "/healthz", "", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))

	var resp HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.NotEmpty(t, resp.Version)
}

// =============================================================================
// Layout
// =============================================================================

func TestLayout(t *testing.T) {
	s := newTestServer(t, nil)
	rec := do(t, s, http.MethodPost, "/v1/layout", "application/json", gearSheet)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.Equal(t, "miss", rec.Header().Get("X-Cache"))

	doc, err := poster.Unmarshal(rec.Body.Bytes())
	require.NoError(t, err)
	assert.Equal(t, "gears", doc.Title)
	assert.Equal(t, 3, doc.Rows)
	assert.Equal(t, 2, doc.Cols)
	assert.Len(t, doc.Wires, 3)
}

func TestLayoutYAML(t *testing.T) {
	s := newTestServer(t, nil)

	for _, tt := range []struct {
		name, target, contentType string
	}{
		{"content type", "/v1/layout", "application/yaml"},
		{"query", "/v1/layout?sheet=yml", ""},
	} {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, s, http.MethodPost, tt.target, tt.contentType, gearSheetYAML)
			require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

			doc, err := poster.Unmarshal(rec.Body.Bytes())
			require.NoError(t, err)
			assert.Len(t, doc.Wires, 1)
		})
	}
}

func TestLayoutCaches(t *testing.T) {
	fc, err := cache.NewFileCache(t.TempDir())
	require.NoError(t, err)
	s := newTestServer(t, fc)

	first := do(t, s, http.MethodPost, "/v1/layout", "", gearSheet)
	require.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, "miss", first.Header().Get("X-Cache"))

	second := do(t, s, http.MethodPost, "/v1/layout", "", gearSheet)
	require.Equal(t, http.StatusOK, second.Code)
	assert.Equal(t, "hit", second.Header().Get("X-Cache"))
	assert.JSONEq(t, first.Body.String(), second.Body.String())

	refreshed := do(t, s, http.MethodPost, "/v1/layout?refresh=true", "", gearSheet)
	assert.Equal(t, "miss", refreshed.Header().Get("X-Cache"))
}

func TestLayoutErrors(t *testing.T) {
	tests := []struct {
		name        string
		target      string
		contentType string
		body        string
		status      int
		code        string
	}{
		{"malformed json", "/v1/layout", "application/json", `{"connections": [`, http.StatusBadRequest, "INVALID_INPUT"},
		{"empty sheet", "/v1/layout", "", `{"connections": []}`, http.StatusBadRequest, "INVALID_INPUT"},
		{"arrival in first row", "/v1/layout", "", `{"connections": [{"id": "up", "from": [{"row": 1, "col": 0}], "to": [{"row": 0, "col": 0}]}]}`, http.StatusBadRequest, "ILLEGAL_ARRIVAL"},
		{"unsupported content type", "/v1/layout", "image/png", gearSheet, http.StatusBadRequest, "INVALID_FORMAT"},
		{"unknown sheet format", "/v1/layout?sheet=xml", "", gearSheet, http.StatusBadRequest, "INVALID_FORMAT"},
		{"bad refresh flag", "/v1/layout?refresh=maybe", "", gearSheet, http.StatusBadRequest, "INVALID_INPUT"},
	}

	s := newTestServer(t, nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, s, http.MethodPost, tt.target, tt.contentType, tt.body)
			assert.Equal(t, tt.status, rec.Code)
			resp := decodeError(t, rec)
			assert.Equal(t, tt.code, resp.Code)
			assert.NotEmpty(t, resp.Error)
		})
	}
}

func TestBodyLimit(t *testing.T) {
	s := newTestServer(t, nil)
	s.cfg.Server.MaxBodyBytes = 16

	rec := do(t, s, http.MethodPost, "/v1/layout", "", gearSheet)
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}

func TestMethodNotAllowed(t *testing.T) {
	s := newTestServer(t, nil)
	rec := do(t, s, http.MethodGet, "/v1/layout", "", "")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

// =============================================================================
// Render
// =============================================================================

func TestRender(t *testing.T) {
	tests := []struct {
		name        string
		target      string
		contentType string
		contains    string
	}{
		{"default svg", "/v1/render", "image/svg+xml", "<svg"},
		{"json", "/v1/render?format=json", "application/json", `"wires"`},
		{"dot", "/v1/render?format=dot", "text/vnd.graphviz; charset=utf-8", "digraph"},
		{"dot with channels", "/v1/render?format=dot&channels=true", "text/vnd.graphviz; charset=utf-8", "ch_"},
	}

	s := newTestServer(t, nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, s, http.MethodPost, tt.target, "", gearSheet)
			require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
			assert.Equal(t, tt.contentType, rec.Header().Get("Content-Type"))
			assert.NotEmpty(t, rec.Header().Get("X-Run-ID"))
			assert.Contains(t, rec.Body.String(), tt.contains)
		})
	}
}

func TestEveryFormatHasContentType(t *testing.T) {
	for format := range pipeline.ValidFormats {
		assert.NotEmpty(t, contentTypes[format], "format %q", format)
	}
	assert.Equal(t, "image/png", contentTypes[pipeline.FormatTopologyPNG])
}

func TestRenderRejectsUnknownFormat(t *testing.T) {
	s := newTestServer(t, nil)
	rec := do(t, s, http.MethodPost, "/v1/render?format=gif", "", gearSheet)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "INVALID_FORMAT", decodeError(t, rec).Code)
}

// =============================================================================
// Channels
// =============================================================================

func TestChannels(t *testing.T) {
	s := newTestServer(t, nil)
	rec := do(t, s, http.MethodPost, "/v1/channels", "", gearSheet)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp ChannelsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 3, resp.Rows)
	assert.Equal(t, 1, resp.Capacities.Left)
	assert.Equal(t, 1, resp.Capacities.Gap)

	keys := make(map[string][]string, len(resp.Channels))
	for _, ch := range resp.Channels {
		keys[ch.Key] = ch.IDs
	}
	assert.Equal(t, []string{"gear"}, keys["trunk"])
	assert.Equal(t, []string{"belt"}, keys["gap(1,0)"])
	assert.Equal(t, []string{"belt", "gear"}, keys["to[1]"])
}

// =============================================================================
// Hooks
// =============================================================================

type recordingHooks struct {
	observability.NoopServerHooks
	mu       sync.Mutex
	statuses []int
}

func (h *recordingHooks) OnResponse(_ context.Context, _, _ string, status int, _ time.Duration) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.statuses = append(h.statuses, status)
}

func TestServerHooks(t *testing.T) {
	hooks := &recordingHooks{}
	observability.SetServerHooks(hooks)
	t.Cleanup(observability.Reset)

	s := newTestServer(t, nil)
	do(t, s, http.MethodGet, "/healthz", "", "")
	do(t, s, http.MethodPost, "/v1/render?format=gif", "", gearSheet)

	hooks.mu.Lock()
	defer hooks.mu.Unlock()
	assert.Equal(t, []int{http.StatusOK, http.StatusBadRequest}, hooks.statuses)
}

func TestListenAndServeStopsOnCancel(t *testing.T) {
	s := newTestServer(t, nil)
	s.cfg.Server.Port = 0
	s.cfg.Server.ShutdownTimeout = time.Second

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.ListenAndServe(ctx) }()

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("ListenAndServe did not return after cancel")
	}
}
