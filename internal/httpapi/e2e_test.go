// internal/httpapi/e2e_test.go
package httpapi_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sort"
	"testing"
	"time"

	"sbdc-assessment/internal/common/cache"
	"sbdc-assessment/internal/common/config"
	"sbdc-assessment/internal/common/logger"
	"sbdc-assessment/internal/httpapi"
	"sbdc-assessment/pkg/questionnaire"

	br "sbdc-assessment/internal/services/reporting/build-report"
	rp "sbdc-assessment/internal/services/reporting/render-pdf"
	cs "sbdc-assessment/internal/services/scoring/calculate-scores"
	gr "sbdc-assessment/internal/services/scoring/generate-recommendations"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestFullE2E drives the frontend flow over a real listener with the Redis
// render cache enabled: fetch questions, answer them, assess, export twice.
func TestFullE2E(t *testing.T) {
	log := logger.NewTestLogger(t)
	mr := miniredis.RunT(t)

	cfg := &config.Config{
		Server: config.ServerConfig{AllowedOrigins: []string{"*"}, MaxBodyBytes: "1M"},
		Recommendations: config.RecommendationsConfig{
			MaxCategories:   3,
			DefaultCatalyst: "default",
		},
		Cache: config.CacheConfig{
			Enabled: true,
			TTL:     60000,
			Prefix:  "e2e:",
			Redis:   config.RedisConfig{Address: mr.Addr()},
		},
	}

	redisClient := cache.NewRedis(cfg.Cache.Redis)
	defer redisClient.Close()

	store, err := questionnaire.Default()
	require.NoError(t, err)

	scorer, err := cs.NewHandler(&cs.Config{Store: store}, log)
	require.NoError(t, err)
	recommender, err := gr.NewHandler(gr.NewConfig(cfg, store), log)
	require.NoError(t, err)
	formatter, err := br.NewHandler(br.LoadConfig(store), log)
	require.NoError(t, err)

	renderCfg := rp.LoadConfig()
	renderCfg.Cache = cache.NewRenderCacheFromConfig(cfg.Cache, redisClient)
	fixed := time.Date(2026, time.October, 19, 12, 0, 0, 0, time.UTC)
	renderCfg.Clock = func() time.Time { return fixed }
	renderer, err := rp.NewHandler(renderCfg, log)
	require.NoError(t, err)

	server, err := httpapi.New(cfg.Server, httpapi.Services{
		Store:       store,
		Scorer:      scorer,
		Recommender: recommender,
		Formatter:   formatter,
		Renderer:    renderer,
		Ready:       redisClient.Ping,
	}, nil, log)
	require.NoError(t, err)

	ts := httptest.NewServer(server.Handler())
	defer ts.Close()
	client := ts.Client()

	// 1. readiness reflects the cache backend
	resp, err := client.Get(ts.URL + "/ready")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	// 2. questions, answered the way the frontend does: one list item per question
	resp, err = client.Get(ts.URL + "/questions")
	require.NoError(t, err)
	var doc questionnaire.QuestionsDocument
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&doc))
	resp.Body.Close()

	type answer struct {
		QuestionID string  `json:"question_id"`
		Score      int     `json:"score"`
		Notes      *string `json:"notes"`
	}
	var answers []answer
	names := make([]string, 0, len(doc.Assessment))
	for name := range doc.Assessment {
		names = append(names, name)
	}
	sort.Strings(names)
	for i, name := range names {
		for _, q := range doc.Assessment[name] {
			// one level per category: 1, 2, 3, 4, 5
			answers = append(answers, answer{QuestionID: q.ID, Score: i%5 + 1})
		}
	}

	// 3. assess
	body, err := json.Marshal(map[string]interface{}{"catalyst": "growth", "answers": answers})
	require.NoError(t, err)
	resp, err = client.Post(ts.URL+"/assess", "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	report, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(report))

	var shaped map[string]interface{}
	require.NoError(t, json.Unmarshal(report, &shaped))
	assert.Len(t, shaped["priority_categories"], len(names))
	assert.NotEmpty(t, shaped["recommendations"])

	// 4. export the assessment response as-is, twice
	exportPDF := func() []byte {
		resp, err := client.Post(ts.URL+"/export-pdf", "application/json", bytes.NewReader(report))
		require.NoError(t, err)
		defer resp.Body.Close()
		pdf, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		require.Equal(t, http.StatusOK, resp.StatusCode, string(pdf))
		assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
		return pdf
	}

	first := exportPDF()
	assert.True(t, bytes.HasPrefix(first, []byte("%PDF")))
	assert.Len(t, mr.Keys(), 1)

	second := exportPDF()
	assert.Equal(t, first, second)
	assert.Len(t, mr.Keys(), 1)

	// 5. losing the cache backend makes the service unready but exports still work
	mr.Close()
	resp, err = client.Get(ts.URL + "/ready")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)

	third := exportPDF()
	assert.True(t, bytes.HasPrefix(third, []byte("%PDF")))
}
