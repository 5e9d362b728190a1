// internal/services/scoring/generate-recommendations/handler_test.go
package generaterecommendations

import (
	"context"
	"testing"

	"sbdc-assessment/internal/common/config"
	"sbdc-assessment/internal/common/errors"
	"sbdc-assessment/internal/common/logger"
	"sbdc-assessment/internal/models"
	"sbdc-assessment/pkg/questionnaire"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Test Helper Functions
// ==========================

func createTestStore(t *testing.T, tone questionnaire.ToneMatrix) *questionnaire.Store {
	t.Helper()
	scale := map[string]string{"1": "No", "5": "Yes"}
	def := &questionnaire.Definition{
		Tiers: questionnaire.TierBands{
			{Label: "low", Min: 0, Max: 50},
			{Label: "high", Min: 50, Max: 100},
		},
		Categories: []questionnaire.Category{
			{Name: "Finance", Weight: 1, Questions: []questionnaire.Question{{ID: "q1", ScoringScale: scale}}},
			{Name: "Marketing", Weight: 1, Questions: []questionnaire.Question{{ID: "q2", ScoringScale: scale}}},
			{Name: "Operations", Weight: 1, Questions: []questionnaire.Question{{ID: "q3", ScoringScale: scale}}},
		},
	}
	store, err := questionnaire.New(def, tone)
	require.NoError(t, err)
	return store
}

func createTestTone() questionnaire.ToneMatrix {
	return questionnaire.ToneMatrix{
		"default": {
			"Finance":    {"low": "Fix **cash flow** now.", "default": "Keep reviewing finance."},
			"Marketing":  {"default": "Market {{category}} at {{score}} ({{tier}}) for {{catalyst}}."},
			"Operations": {"high": "Operations are fine."},
		},
		"growth": {
			"Finance":    {"low": "Growth needs **capital** planning."},
			"Operations": {"default": "Standardize before scaling."},
		},
	}
}

func createTestReport() models.AssessmentReport {
	return models.AssessmentReport{
		OverallScore:       52,
		OverallTier:        "high",
		PriorityCategories: []string{"Finance", "Marketing", "Operations"},
		CategoryOrder:      []string{"Finance", "Marketing", "Operations"},
		CategoryScores: map[string]models.CategoryScore{
			"Finance":    {NormalizedScore: 30, Tier: "low", QuestionsAnswered: 1, TotalQuestions: 1},
			"Marketing":  {NormalizedScore: 46.6, Tier: "low", QuestionsAnswered: 1, TotalQuestions: 1},
			"Operations": {NormalizedScore: 80, Tier: "high", QuestionsAnswered: 1, TotalQuestions: 1},
		},
	}
}

func createTestHandler(t *testing.T, cfg *Config) *Handler {
	t.Helper()
	if cfg.Store == nil {
		cfg.Store = createTestStore(t, createTestTone())
	}
	h, err := NewHandler(cfg, logger.NewTestLogger(t))
	require.NoError(t, err)
	return h
}

// ==========================
// Core Functionality Tests
// ==========================

func TestHandler_Execute_FallbackOrder(t *testing.T) {
	tests := []struct {
		name     string
		catalyst string
		want     []string
	}{
		{
			name:     "default catalyst",
			catalyst: "default",
			want: []string{
				"Fix **cash flow** now.",
				"Market Marketing at 47 (low) for default.",
				"Operations are fine.",
			},
		},
		{
			name:     "catalyst specific entries win, others fall back",
			catalyst: "growth",
			want: []string{
				"Growth needs **capital** planning.",
				"Market Marketing at 47 (low) for growth.",
				// (default, Operations, high) beats (growth, Operations, default).
				"Operations are fine.",
			},
		},
		{
			name:     "empty catalyst uses configured default",
			catalyst: "  ",
			want: []string{
				"Fix **cash flow** now.",
				"Market Marketing at 47 (low) for default.",
				"Operations are fine.",
			},
		},
		{
			name:     "unknown catalyst falls back to defaults",
			catalyst: "succession",
			want: []string{
				"Fix **cash flow** now.",
				"Market Marketing at 47 (low) for succession.",
				"Operations are fine.",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := createTestHandler(t, &Config{})

			output, err := handler.Execute(context.Background(), &Input{Report: createTestReport(), Catalyst: tt.catalyst})
			require.NoError(t, err)

			var got []string
			for _, item := range output.Recommendations.Items {
				got = append(got, item.Text)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestHandler_Execute_TierDefaultFallback(t *testing.T) {
	handler := createTestHandler(t, &Config{})
	report := createTestReport()
	report.CategoryScores["Operations"] = models.CategoryScore{NormalizedScore: 20, Tier: "low"}

	output, err := handler.Execute(context.Background(), &Input{Report: report, Catalyst: "growth"})
	require.NoError(t, err)
	assert.Equal(t, "Standardize before scaling.", output.Recommendations.Items[2].Text)
}

func TestHandler_Execute_MissingFallbackIsConfigurationError(t *testing.T) {
	handler := createTestHandler(t, &Config{})
	report := createTestReport()
	report.CategoryScores["Operations"] = models.CategoryScore{NormalizedScore: 20, Tier: "low"}

	output, err := handler.Execute(context.Background(), &Input{Report: report, Catalyst: "default"})
	require.Error(t, err)
	assert.Nil(t, output)
	assert.True(t, errors.HasCode(err, errors.ErrCodeConfiguration))
	assert.Contains(t, err.Error(), `category "Operations", tier "low"`)
}

func TestHandler_Execute_UnknownPriorityCategory(t *testing.T) {
	handler := createTestHandler(t, &Config{})
	report := createTestReport()
	report.PriorityCategories = append(report.PriorityCategories, "Ghost")

	_, err := handler.Execute(context.Background(), &Input{Report: report})
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrCodeValidation))
}

func TestHandler_Execute_MaxCategories(t *testing.T) {
	handler := createTestHandler(t, &Config{MaxCategories: 2})

	output, err := handler.Execute(context.Background(), &Input{Report: createTestReport()})
	require.NoError(t, err)
	require.Len(t, output.Recommendations.Items, 2)
	assert.Equal(t, "Finance", output.Recommendations.Items[0].Category)
	assert.Equal(t, "Marketing", output.Recommendations.Items[1].Category)
}

func TestHandler_Execute_Markdown(t *testing.T) {
	handler := createTestHandler(t, &Config{MaxCategories: 2})

	output, err := handler.Execute(context.Background(), &Input{Report: createTestReport(), Catalyst: "default"})
	require.NoError(t, err)

	want := "### Finance (low)\n" +
		"**Score:** 30/100\n" +
		"Fix **cash flow** now.\n" +
		"\n" +
		"### Marketing (low)\n" +
		"**Score:** 47/100\n" +
		"Market Marketing at 47 (low) for default."
	assert.Equal(t, want, output.Recommendations.Markdown)
}

func TestHandler_Execute_IsDeterministic(t *testing.T) {
	handler := createTestHandler(t, &Config{})
	input := &Input{Report: createTestReport(), Catalyst: "growth"}

	first, err := handler.Execute(context.Background(), input)
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		again, err := handler.Execute(context.Background(), input)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestHandler_Substitute_LeavesUnknownPlaceholders(t *testing.T) {
	handler := createTestHandler(t, &Config{})
	got := handler.substitute("{{ Category }} and {{unknown}}", map[string]string{"category": "Finance"})
	assert.Equal(t, "Finance and {{unknown}}", got)
}

func TestNewConfig_FromAppConfig(t *testing.T) {
	store := createTestStore(t, createTestTone())
	appCfg := &config.Config{Recommendations: config.RecommendationsConfig{MaxCategories: 3, DefaultCatalyst: "growth"}}

	cfg := NewConfig(appCfg, store)
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 3, cfg.MaxCategories)
	assert.Equal(t, "growth", cfg.DefaultCatalyst)

	_, err := NewHandler(&Config{Store: store, MaxCategories: -1}, logger.NewNoOpLogger())
	assert.Error(t, err)
	_, err = NewHandler(&Config{}, logger.NewNoOpLogger())
	assert.Error(t, err)
}
