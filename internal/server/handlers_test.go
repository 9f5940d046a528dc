package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pallas-ai/pallas/internal/common"
	"github.com/pallas-ai/pallas/internal/interfaces"
	"github.com/pallas-ai/pallas/internal/models"
)

// stubPipeline returns a canned context and records the options it was
// called with.
type stubPipeline struct {
	agg      *models.AggregatedContext
	lastOpts interfaces.AnswerOptions
}

func (p *stubPipeline) Answer(_ context.Context, rawQuery string, opts interfaces.AnswerOptions) *models.AggregatedContext {
	p.lastOpts = opts
	agg := p.agg
	if agg == nil {
		agg = &models.AggregatedContext{RequestID: "test-req", Query: rawQuery}
	}
	return agg
}

type stubNarrative struct {
	text string
}

func (n *stubNarrative) GenerateNarrative(context.Context, *models.AggregatedContext) (string, error) {
	return n.text, nil
}

func newTestServer(p interfaces.Pipeline, narrative interfaces.NarrativeClient) *Server {
	cfg := common.NewDefaultConfig()
	return NewServer(cfg, p, narrative, common.NewSilentLogger())
}

func postAIResponse(t *testing.T, srv *Server, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/ai-response", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	return rec
}

func TestHandleAIResponse_ReturnsContextAndNarrative(t *testing.T) {
	pipeline := &stubPipeline{}
	srv := newTestServer(pipeline, &stubNarrative{text: "markets are calm"})

	rec := postAIResponse(t, srv, AIResponseRequest{Query: "What is the RSI for ETH?"})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp AIResponseResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotNil(t, resp.Context)
	assert.Equal(t, "What is the RSI for ETH?", resp.Context.Query)
	assert.Equal(t, "markets are calm", resp.Narrative)
}

func TestHandleAIResponse_PassesOptionFlags(t *testing.T) {
	pipeline := &stubPipeline{}
	srv := newTestServer(pipeline, nil)

	rec := postAIResponse(t, srv, AIResponseRequest{
		Query:            "market overview",
		EnableBellwether: true,
		EnableMacro:      true,
	})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, pipeline.lastOpts.EnableBellwether)
	assert.True(t, pipeline.lastOpts.EnableMacro)
}

func TestHandleAIResponse_EmptyQueryRejected(t *testing.T) {
	srv := newTestServer(&stubPipeline{}, nil)

	rec := postAIResponse(t, srv, AIResponseRequest{Query: "   "})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var body ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, "query is required", body.Error)
}

func TestHandleAIResponse_InvalidJSONRejected(t *testing.T) {
	srv := newTestServer(&stubPipeline{}, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/ai-response", bytes.NewReader([]byte("{not json")))
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleAIResponse_MethodNotAllowed(t *testing.T) {
	srv := newTestServer(&stubPipeline{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/ai-response", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestHandleHealth(t *testing.T) {
	srv := newTestServer(&stubPipeline{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
}

func TestHandleVersion(t *testing.T) {
	srv := newTestServer(&stubPipeline{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/version", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.NotEmpty(t, body["version"])
}

func TestCORSPreflight(t *testing.T) {
	srv := newTestServer(&stubPipeline{}, nil)

	req := httptest.NewRequest(http.MethodOptions, "/api/ai-response", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}
