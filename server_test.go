package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubPipeline struct {
	result   *RankResult
	err      error
	requests []RankRequest
}

func (p *stubPipeline) Run(ctx context.Context, req RankRequest) (*RankResult, error) {
	p.requests = append(p.requests, req)
	return p.result, p.err
}

func (p *stubPipeline) MaxArticles() int { return 10 }

func newTestRouter(t *testing.T, pipeline Pipeline) http.Handler {
	t.Helper()
	renderer, err := NewRenderer()
	require.NoError(t, err)
	return newRouter(pipeline, renderer)
}

func get(handler http.Handler, target string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestIndexShowsForm(t *testing.T) {
	pipeline := &stubPipeline{}
	rec := get(newTestRouter(t, pipeline), "/")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, rec.Body.String(), `name="preference"`)
	assert.Contains(t, rec.Body.String(), `<option value="10">10</option>`)
	assert.Empty(t, pipeline.requests, "no ranking without a preference")
}

func TestIndexRanksArticles(t *testing.T) {
	pipeline := &stubPipeline{result: sampleResult()}
	rec := get(newTestRouter(t, pipeline), "/?preference=space+missions&count=2")

	assert.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, pipeline.requests, 1)
	assert.Equal(t, RankRequest{Preference: "space missions", Count: 2}, pipeline.requests[0])

	body := rec.Body.String()
	assert.Contains(t, body, "Top 2 Articles:")
	assert.Contains(t, body, `<a href="https://example.com/moon">Moon water found</a>`)
	assert.Contains(t, body, "Rank: 9")
	assert.Contains(t, body, "Rank: unranked")
}

func TestIndexErrors(t *testing.T) {
	tests := []struct {
		name       string
		target     string
		err        error
		wantStatus int
		wantBody   string
		wantRuns   int
	}{
		{
			name:       "count not a number",
			target:     "/?preference=tech&count=many",
			wantStatus: http.StatusBadRequest,
			wantBody:   "count must be a whole number",
			wantRuns:   0,
		},
		{
			name:       "invalid request",
			target:     "/?preference=tech&count=50",
			err:        fmt.Errorf("%w: count must be between 1 and 10, got 50", ErrInvalidRequest),
			wantStatus: http.StatusBadRequest,
			wantBody:   "count must be between 1 and 10",
			wantRuns:   1,
		},
		{
			name:       "pipeline failure",
			target:     "/?preference=tech&count=3",
			err:        errors.New("upstream down"),
			wantStatus: http.StatusBadGateway,
			wantBody:   "Ranking failed: upstream down",
			wantRuns:   1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pipeline := &stubPipeline{err: tt.err}
			rec := get(newTestRouter(t, pipeline), tt.target)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Contains(t, rec.Body.String(), `class="error"`)
			assert.Contains(t, rec.Body.String(), tt.wantBody)
			assert.Len(t, pipeline.requests, tt.wantRuns)
		})
	}
}

func TestHealth(t *testing.T) {
	rec := get(newTestRouter(t, &stubPipeline{}), "/health")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
}

func TestIndexRejectsPost(t *testing.T) {
	handler := newTestRouter(t, &stubPipeline{})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", nil))

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
