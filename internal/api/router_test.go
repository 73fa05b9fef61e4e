package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MikeSquared-Agency/Endorse/internal/config"
	"github.com/MikeSquared-Agency/Endorse/internal/metrics"
	"github.com/MikeSquared-Agency/Endorse/internal/session"
	"github.com/MikeSquared-Agency/Endorse/internal/store"
)

type mockHermes struct {
	connected bool
}

func (m *mockHermes) Publish(_ string, _ interface{}) error            { return nil }
func (m *mockHermes) Subscribe(_ string, _ func(string, []byte)) error { return nil }
func (m *mockHermes) Connected() bool                                  { return m.connected }
func (m *mockHermes) Close()                                           {}

func setupTestRouter(t *testing.T) (http.Handler, *session.Service) {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	cfg := &config.Config{
		Server:   config.ServerConfig{AdminToken: "test-token"},
		Ranking:  config.RankingConfig{TierThreshold: 0.6, RecomputeDebounceMs: 10, RunLogSize: 10},
		Criteria: config.DefaultCriteria(),
	}
	svc := session.New(store.NewMemoryStore(), &mockHermes{}, metrics.New(prometheus.NewRegistry()), cfg, logger)
	require.NoError(t, svc.EnsureCriteria(context.Background()))
	return NewRouter(svc, cfg.Server, logger), svc
}

func do(t *testing.T, router http.Handler, method, path, body string, headers ...string) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = bytes.NewBufferString(body)
	}
	req := httptest.NewRequest(method, path, r)
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.NewDecoder(w.Body).Decode(v), w.Body.String())
}

// seedSample posts the five-candidate fashion campaign.
func seedSample(t *testing.T, router http.Handler) []store.Influencer {
	t.Helper()
	bodies := []string{
		`{"name":"Sarah Fashion","category":"fashion","attributes":{"C1":2100000,"C2":5.2,"C3":9,"C4":15000000,"C5":8}}`,
		`{"name":"Maya Style","category":"fashion","attributes":{"C1":1800000,"C2":4.8,"C3":8,"C4":12000000,"C5":7}}`,
		`{"name":"Rina Boutique","category":"fashion","attributes":{"C1":1500000,"C2":4.5,"C3":9,"C4":10000000,"C5":6}}`,
		`{"name":"Lisa Trend","category":"fashion","attributes":{"C1":1200000,"C2":4.1,"C3":7,"C4":8000000,"C5":5}}`,
		`{"name":"Nina Fashion","category":"fashion","attributes":{"C1":980000,"C2":3.9,"C3":6,"C4":7000000,"C5":4}}`,
	}
	out := make([]store.Influencer, 0, len(bodies))
	for _, b := range bodies {
		w := do(t, router, "POST", "/api/v1/influencers", b)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		var inf store.Influencer
		decodeBody(t, w, &inf)
		out = append(out, inf)
	}
	return out
}

func TestCreateInfluencer(t *testing.T) {
	router, _ := setupTestRouter(t)

	w := do(t, router, "POST", "/api/v1/influencers", `{"name":"Sarah Fashion","category":"fashion","attributes":{"C1":2100000}}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var inf store.Influencer
	decodeBody(t, w, &inf)
	assert.NotEmpty(t, inf.ID)
	assert.Equal(t, "Sarah Fashion", inf.Name)
	assert.Equal(t, 2100000.0, inf.Attributes["C1"])
}

func TestCreateInfluencerValidation(t *testing.T) {
	router, _ := setupTestRouter(t)

	tests := []struct {
		name string
		body string
	}{
		{"missing name", `{"attributes":{"C1":1}}`},
		{"negative attribute", `{"name":"A","attributes":{"C1":-1}}`},
		{"bad id", `{"id":"nope","name":"A"}`},
		{"malformed", `{"name":`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, router, "POST", "/api/v1/influencers", tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
		})
	}
}

func TestCreateInfluencerDuplicateID(t *testing.T) {
	router, _ := setupTestRouter(t)

	body := `{"id":"6f1c1f4e-8a8e-4c39-9e0e-2a4f5b6c7d8e","name":"A"}`
	require.Equal(t, http.StatusCreated, do(t, router, "POST", "/api/v1/influencers", body).Code)
	assert.Equal(t, http.StatusConflict, do(t, router, "POST", "/api/v1/influencers", body).Code)
}

func TestInfluencerLifecycle(t *testing.T) {
	router, _ := setupTestRouter(t)
	infs := seedSample(t, router)
	path := "/api/v1/influencers/" + infs[1].ID.String()

	w := do(t, router, "GET", path, "")
	require.Equal(t, http.StatusOK, w.Code)
	var got store.Influencer
	decodeBody(t, w, &got)
	assert.Equal(t, "Maya Style", got.Name)

	w = do(t, router, "PUT", path, `{"name":"Maya Style","category":"beauty","attributes":{"C1":1900000,"C2":4.8,"C3":8,"C4":12000000,"C5":7}}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	decodeBody(t, w, &got)
	assert.Equal(t, "beauty", got.Category)
	assert.Equal(t, 1900000.0, got.Attributes["C1"])

	w = do(t, router, "GET", "/api/v1/influencers?category=beauty", "")
	require.Equal(t, http.StatusOK, w.Code)
	var list []store.Influencer
	decodeBody(t, w, &list)
	require.Len(t, list, 1)
	assert.Equal(t, infs[1].ID, list[0].ID)

	w = do(t, router, "GET", "/api/v1/influencers?limit=2&offset=1", "")
	require.Equal(t, http.StatusOK, w.Code)
	decodeBody(t, w, &list)
	require.Len(t, list, 2)
	assert.Equal(t, "Maya Style", list[0].Name)

	assert.Equal(t, http.StatusNoContent, do(t, router, "DELETE", path, "").Code)
	assert.Equal(t, http.StatusNotFound, do(t, router, "GET", path, "").Code)
	assert.Equal(t, http.StatusNotFound, do(t, router, "DELETE", path, "").Code)
	assert.Equal(t, http.StatusNotFound, do(t, router, "PUT", path, `{"name":"Ghost"}`).Code)
}

func TestInfluencerBadParams(t *testing.T) {
	router, _ := setupTestRouter(t)

	assert.Equal(t, http.StatusBadRequest, do(t, router, "GET", "/api/v1/influencers/not-a-uuid", "").Code)
	assert.Equal(t, http.StatusBadRequest, do(t, router, "GET", "/api/v1/influencers?limit=-1", "").Code)
	assert.Equal(t, http.StatusBadRequest, do(t, router, "GET", "/api/v1/influencers?offset=x", "").Code)

	w := do(t, router, "GET", "/api/v1/influencers", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())
}

func TestRankingSampleCampaign(t *testing.T) {
	router, svc := setupTestRouter(t)
	infs := seedSample(t, router)

	w := do(t, router, "GET", "/api/v1/ranking/latest", "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(t, router, "POST", "/api/v1/ranking", `{"include_normalized":true}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	body := w.Body.Bytes()
	var resp RankingResponse
	require.NoError(t, json.Unmarshal(body, &resp))
	require.Len(t, resp.Candidates, 5)
	assert.Equal(t, infs[0].ID.String(), resp.Candidates[0].ID)
	assert.InDelta(t, 0.92, resp.Candidates[0].Score, 1e-9)
	assert.Equal(t, "highly_recommended", string(resp.Candidates[0].Tier))
	assert.Equal(t, "fairly_recommended", string(resp.Candidates[4].Tier))
	assert.Equal(t, 0.6, resp.TierThreshold)
	assert.Equal(t, svc.Generation(), resp.Generation)

	var raw struct {
		Normalized struct {
			Criteria []string `json:"criteria"`
			Rows     []struct {
				CandidateID string             `json:"candidate_id"`
				Values      map[string]float64 `json:"values"`
			} `json:"rows"`
		} `json:"normalized"`
	}
	require.NoError(t, json.Unmarshal(body, &raw))
	assert.Equal(t, []string{"C1", "C2", "C3", "C4", "C5"}, raw.Normalized.Criteria)
	require.Len(t, raw.Normalized.Rows, 5)
	assert.Equal(t, infs[0].ID.String(), raw.Normalized.Rows[0].CandidateID)
	assert.InDelta(t, 1.0, raw.Normalized.Rows[0].Values["C1"], 1e-12)

	w = do(t, router, "GET", "/api/v1/ranking/latest", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "false", w.Header().Get("X-Ranking-Stale"))
	assert.NotContains(t, w.Body.String(), `"normalized"`)

	w = do(t, router, "GET", "/api/v1/runs", "")
	require.Equal(t, http.StatusOK, w.Code)
	var runs []store.Run
	decodeBody(t, w, &runs)
	require.NotEmpty(t, runs)
	assert.Equal(t, "Sarah Fashion", runs[0].TopCandidate)
}

func TestRankingEmptySession(t *testing.T) {
	router, _ := setupTestRouter(t)

	w := do(t, router, "POST", "/api/v1/ranking", "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var resp RankingResponse
	decodeBody(t, w, &resp)
	assert.Empty(t, resp.Candidates)
	assert.Len(t, resp.Criteria, 5)
}

func TestRankingThresholdOverride(t *testing.T) {
	router, _ := setupTestRouter(t)
	seedSample(t, router)

	w := do(t, router, "POST", "/api/v1/ranking", `{"tier_threshold":0.7}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var resp RankingResponse
	decodeBody(t, w, &resp)
	assert.Equal(t, "not_recommended", string(resp.Candidates[4].Tier))

	w = do(t, router, "POST", "/api/v1/ranking", `{"tier_threshold":1.5}`)
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	var er errorResponse
	decodeBody(t, w, &er)
	assert.Equal(t, "configuration_error", er.Kind)
}

func TestRankingErrors(t *testing.T) {
	t.Run("invalid weights", func(t *testing.T) {
		router, _ := setupTestRouter(t)
		seedSample(t, router)

		w := do(t, router, "PATCH", "/api/v1/criteria/C1", `{"weight":0.07}`)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		var view struct {
			Validation struct {
				Valid bool    `json:"valid"`
				Sum   float64 `json:"sum"`
			} `json:"validation"`
			Message string `json:"message"`
		}
		decodeBody(t, w, &view)
		assert.False(t, view.Validation.Valid)
		assert.Contains(t, view.Message, "87.0%")

		w = do(t, router, "POST", "/api/v1/ranking", "")
		require.Equal(t, http.StatusUnprocessableEntity, w.Code)
		var er errorResponse
		decodeBody(t, w, &er)
		assert.Equal(t, "invalid_configuration", er.Kind)
		require.NotNil(t, er.Sum)
		assert.InDelta(t, 0.87, *er.Sum, 1e-9)
	})

	t.Run("cost attribute zero", func(t *testing.T) {
		router, _ := setupTestRouter(t)
		w := do(t, router, "POST", "/api/v1/influencers", `{"name":"Free","attributes":{"C1":1,"C2":1,"C3":1,"C4":0,"C5":1}}`)
		require.Equal(t, http.StatusCreated, w.Code)

		w = do(t, router, "POST", "/api/v1/ranking", "")
		require.Equal(t, http.StatusUnprocessableEntity, w.Code)
		var er errorResponse
		decodeBody(t, w, &er)
		assert.Equal(t, "domain_error", er.Kind)
		assert.Equal(t, "C4", er.Criterion)
		assert.Nil(t, er.Sum)
	})

	t.Run("missing attribute", func(t *testing.T) {
		router, _ := setupTestRouter(t)
		w := do(t, router, "POST", "/api/v1/influencers", `{"name":"Partial","attributes":{"C1":1}}`)
		require.Equal(t, http.StatusCreated, w.Code)

		w = do(t, router, "POST", "/api/v1/ranking", "")
		require.Equal(t, http.StatusUnprocessableEntity, w.Code)
		var er errorResponse
		decodeBody(t, w, &er)
		assert.Equal(t, "schema_mismatch", er.Kind)
	})
}

func TestCriteriaManagement(t *testing.T) {
	router, _ := setupTestRouter(t)

	w := do(t, router, "GET", "/api/v1/criteria", "")
	require.Equal(t, http.StatusOK, w.Code)
	var view struct {
		Criteria   []store.Criterion `json:"criteria"`
		Validation struct {
			Valid bool `json:"valid"`
		} `json:"validation"`
	}
	decodeBody(t, w, &view)
	require.Len(t, view.Criteria, 5)
	assert.True(t, view.Validation.Valid)

	w = do(t, router, "PUT", "/api/v1/criteria", `{"criteria":[{"id":"reach","direction":"benefit","weight":0.6},{"id":"fee","direction":"cost","weight":0.2}]}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	decodeBody(t, w, &view)
	require.Len(t, view.Criteria, 2)
	assert.Equal(t, "reach", view.Criteria[0].Name)
	assert.False(t, view.Validation.Valid)

	w = do(t, router, "POST", "/api/v1/criteria/normalize", "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	decodeBody(t, w, &view)
	assert.True(t, view.Validation.Valid)
	assert.InDelta(t, 0.75, view.Criteria[0].Weight, 1e-12)

	w = do(t, router, "POST", "/api/v1/criteria/reset", "")
	require.Equal(t, http.StatusOK, w.Code)
	decodeBody(t, w, &view)
	assert.Len(t, view.Criteria, 5)
}

func TestCriteriaValidation(t *testing.T) {
	router, _ := setupTestRouter(t)

	w := do(t, router, "PUT", "/api/v1/criteria", `{"criteria":[{"id":"reach","direction":"up","weight":1}]}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, router, "PUT", "/api/v1/criteria", `{"criteria":[]}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, router, "PUT", "/api/v1/criteria", `{"criteria":[{"id":"a","direction":"cost","weight":0.5},{"id":"a","direction":"cost","weight":0.5}]}`)
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	var er errorResponse
	decodeBody(t, w, &er)
	assert.Equal(t, "schema_mismatch", er.Kind)

	w = do(t, router, "PATCH", "/api/v1/criteria/C1", `{}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, router, "PATCH", "/api/v1/criteria/C1", `{"weight":1.5}`)
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	decodeBody(t, w, &er)
	assert.Equal(t, "configuration_error", er.Kind)

	w = do(t, router, "PATCH", "/api/v1/criteria/C9", `{"weight":0.1}`)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestNormalizeAllZeroWeights(t *testing.T) {
	router, _ := setupTestRouter(t)

	w := do(t, router, "PUT", "/api/v1/criteria", `{"criteria":[{"id":"a","direction":"benefit","weight":0},{"id":"b","direction":"cost","weight":0}]}`)
	require.Equal(t, http.StatusOK, w.Code)

	w = do(t, router, "POST", "/api/v1/criteria/normalize", "")
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	var er errorResponse
	decodeBody(t, w, &er)
	assert.Equal(t, "configuration_error", er.Kind)
}

func TestExportCSV(t *testing.T) {
	router, _ := setupTestRouter(t)
	seedSample(t, router)

	w := do(t, router, "GET", "/api/v1/export?kind=ranking&format=csv", "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "text/csv; charset=utf-8", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), `attachment; filename="endorse-ranking-`)
	assert.NotEmpty(t, w.Header().Get("X-Export-ID"))

	lines := strings.Split(strings.TrimSpace(w.Body.String()), "\n")
	require.Len(t, lines, 6)
	assert.True(t, strings.HasPrefix(lines[0], "rank,id,name,score,tier"))
	assert.Contains(t, lines[1], "Sarah Fashion")

	w = do(t, router, "GET", "/api/v1/exports", "")
	require.Equal(t, http.StatusOK, w.Code)
	var records []store.ExportRecord
	decodeBody(t, w, &records)
	require.Len(t, records, 1)
	assert.Equal(t, "csv", records[0].Format)
	assert.Equal(t, []string{"ranking"}, records[0].Kinds)
}

func TestExportJSONDefaultsAndCombinedKinds(t *testing.T) {
	router, _ := setupTestRouter(t)
	seedSample(t, router)

	w := do(t, router, "GET", "/api/v1/export?kind=summary,ranking", "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	var doc map[string]json.RawMessage
	decodeBody(t, w, &doc)
	assert.Contains(t, doc, "ranking")
	assert.Contains(t, doc, "summary")
	assert.NotContains(t, doc, "criteria")
}

func TestExportUnsupported(t *testing.T) {
	router, _ := setupTestRouter(t)

	w := do(t, router, "GET", "/api/v1/export?kind=analysis&format=csv", "")
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "available for this selection")

	assert.Equal(t, http.StatusBadRequest, do(t, router, "GET", "/api/v1/export?format=csv", "").Code)
	assert.Equal(t, http.StatusBadRequest, do(t, router, "GET", "/api/v1/export?kind=ranking&format=pdf", "").Code)
}

func TestExportFormats(t *testing.T) {
	router, _ := setupTestRouter(t)

	w := do(t, router, "GET", "/api/v1/export/formats?kind=ranking&kind=criteria", "")
	require.Equal(t, http.StatusOK, w.Code)
	var resp FormatsResponse
	decodeBody(t, w, &resp)
	assert.Equal(t, []string{"csv", "json"}, formatNames(resp))
}

func formatNames(resp FormatsResponse) []string {
	out := make([]string, len(resp.Formats))
	for i, f := range resp.Formats {
		out[i] = string(f)
	}
	return out
}

func TestStatsEndpoint(t *testing.T) {
	router, _ := setupTestRouter(t)
	seedSample(t, router)
	require.Equal(t, http.StatusOK, do(t, router, "POST", "/api/v1/ranking", "").Code)

	w := do(t, router, "GET", "/api/v1/stats", "")
	require.Equal(t, http.StatusOK, w.Code)
	var stats session.Stats
	decodeBody(t, w, &stats)
	assert.Equal(t, 5, stats.Influencers)
	assert.True(t, stats.WeightsValid)
	assert.Equal(t, "Sarah Fashion", stats.TopCandidate)
	require.Len(t, stats.Criteria, 5)
	assert.Equal(t, 2100000.0, stats.Criteria[0].Max)
}

func TestAdminRoutesRequireToken(t *testing.T) {
	router, svc := setupTestRouter(t)
	seedSample(t, router)
	require.Equal(t, http.StatusOK, do(t, router, "POST", "/api/v1/ranking", "").Code)

	assert.Equal(t, http.StatusUnauthorized, do(t, router, "DELETE", "/api/v1/runs", "").Code)

	w := do(t, router, "DELETE", "/api/v1/runs", "", "Authorization", "Bearer test-token")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"cleared":1}`, w.Body.String())
	assert.Empty(t, svc.Runs())

	before := svc.Generation()
	w = do(t, router, "POST", "/api/v1/admin/recompute", "", "Authorization", "Bearer test-token")
	require.Equal(t, http.StatusAccepted, w.Code)
	assert.Equal(t, before+1, svc.Generation())
}

func TestHealthEndpoint(t *testing.T) {
	tests := []struct {
		name   string
		hermes *mockHermes
		want   string
	}{
		{"disabled", nil, "disabled"},
		{"connected", &mockHermes{connected: true}, "connected"},
		{"disconnected", &mockHermes{}, "disconnected"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var router http.Handler
			if tt.hermes == nil {
				router = NewMetricsRouter(prometheus.NewRegistry(), nil)
			} else {
				router = NewMetricsRouter(prometheus.NewRegistry(), tt.hermes)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest("GET", "/health", nil))
			require.Equal(t, http.StatusOK, w.Code)
			var body map[string]string
			decodeBody(t, w, &body)
			assert.Equal(t, "ok", body["status"])
			assert.Equal(t, tt.want, body["events"])
		})
	}
}

func TestMetricsEndpoint(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics.New(reg).Rankings.WithLabelValues("ok").Inc()

	w := httptest.NewRecorder()
	NewMetricsRouter(reg, nil).ServeHTTP(w, httptest.NewRequest("GET", "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "endorse_rankings_total")
}
