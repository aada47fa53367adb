package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/uberswe/LoopiaBrandFinder/internal/available"
	"github.com/uberswe/LoopiaBrandFinder/internal/lexicon"
	"github.com/uberswe/LoopiaBrandFinder/internal/search"
	"github.com/uberswe/LoopiaBrandFinder/pkg/domain"
)

type stubSearcher struct {
	got    domain.Request
	result *domain.RunResult
	err    error
}

func (s *stubSearcher) Run(_ context.Context, req domain.Request) (*domain.RunResult, error) {
	s.got = req
	return s.result, s.err
}

func (s *stubSearcher) Generate(req domain.Request) ([]domain.ScoredCandidate, error) {
	s.got = req
	if s.err != nil {
		return nil, s.err
	}
	if s.result == nil {
		return nil, nil
	}
	return s.result.Picks, nil
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestHealth(t *testing.T) {
	w := do(t, New(&stubSearcher{}), http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestSearchReturnsResult(t *testing.T) {
	stub := &stubSearcher{result: &domain.RunResult{
		Picks: []domain.ScoredCandidate{{
			Candidate: domain.Candidate{Name: "ecoleaf"},
			Domain:    "ecoleaf.com",
			Score:     27.3,
		}},
		Summary: domain.Summary{Target: 1, StopReason: search.StopTargetReached},
	}}

	w := do(t, New(stub), http.MethodPost, "/v1/search",
		`{"keywords":"eco, green","industry":"sustainability","count":1,"controls":{"show_any_available":true}}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	var res domain.RunResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	require.Len(t, res.Picks, 1)
	assert.Equal(t, "ecoleaf.com", res.Picks[0].Domain)
	assert.Equal(t, search.StopTargetReached, res.Summary.StopReason)

	assert.Equal(t, "eco, green", stub.got.Keywords)
	assert.Equal(t, domain.IndustrySustainability, stub.got.Industry)
	assert.True(t, stub.got.Controls.ShowAnyAvailable)
}

func TestSearchErrors(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		err    error
		status int
		code   string
	}{
		{"malformed json", `{"keywords":`, nil, http.StatusBadRequest, "invalid_json"},
		{"unknown field", `{"keyword":"eco"}`, nil, http.StatusBadRequest, "invalid_json"},
		{"invalid request", `{"keywords":"eco"}`, fmt.Errorf("%w: vibe", domain.ErrInvalidRequest), http.StatusBadRequest, "invalid_request"},
		{"canceled", `{"keywords":"eco"}`, fmt.Errorf("%w: %w", search.ErrCanceled, context.Canceled), http.StatusServiceUnavailable, "canceled"},
		{"unexpected", `{"keywords":"eco"}`, errors.New("boom"), http.StatusInternalServerError, "search_failed"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, New(&stubSearcher{err: tt.err}), http.MethodPost, "/v1/search", tt.body)
			assert.Equal(t, tt.status, w.Code)

			var body errorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, tt.code, body.Error)
			assert.NotEmpty(t, body.RequestID)
		})
	}
}

func TestSearchWrongMethod(t *testing.T) {
	w := do(t, New(&stubSearcher{}), http.MethodGet, "/v1/search", "")
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}

func TestGenerateWithEngine(t *testing.T) {
	engine := search.NewEngine(lexicon.Default(), available.NewService(available.NewStaticProvider(), nil), search.DefaultOptions())

	w := do(t, New(engine), http.MethodPost, "/v1/generate",
		`{"keywords":"eco","industry":"sustainability","vibe":"minimal","count":4}`)
	require.Equal(t, http.StatusOK, w.Code)

	var res generateResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	require.NotEmpty(t, res.Candidates)
	assert.LessOrEqual(t, len(res.Candidates), 4)
	for _, c := range res.Candidates {
		assert.Contains(t, c.Name, "eco")
		assert.NotEmpty(t, c.QualityBand)
	}
}

func TestGenerateEmptyPool(t *testing.T) {
	w := do(t, New(&stubSearcher{}), http.MethodPost, "/v1/generate", `{"keywords":"eco"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"candidates":[]}`, w.Body.String())
}
