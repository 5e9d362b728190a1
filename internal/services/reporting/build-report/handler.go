package buildreport

import (
	"context"
	"math"
	"sort"

	"sbdc-assessment/internal/common/errors"
	"sbdc-assessment/internal/common/logger"
	"sbdc-assessment/internal/models"
	"sbdc-assessment/internal/services"
)

const TaskType = "build-report"

type Handler struct {
	config *Config
	logger logger.Logger
}

func NewHandler(config *Config, log logger.Logger) (*Handler, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &Handler{
		config: config,
		logger: log.WithFields(map[string]interface{}{"taskType": TaskType}),
	}, nil
}

// ToTransportShape assembles the response body for a scored assessment.
func (h *Handler) ToTransportShape(report models.AssessmentReport, recs models.Recommendations) (*models.TransportReport, error) {
	out, err := h.Execute(context.Background(), &Input{Report: report, Recommendations: recs})
	if err != nil {
		return nil, err
	}
	return &out.Response, nil
}

func (h *Handler) Execute(ctx context.Context, input *Input) (_ *Output, err error) {
	_, _, finish := services.Track(ctx, TaskType)
	defer func() { finish(err) }()

	report := input.Report
	resp := models.TransportReport{
		OverallScore:       h.round(report.OverallScore),
		OverallTier:        report.OverallTier,
		PriorityCategories: append([]string{}, report.PriorityCategories...),
		CategoryDetails:    make(map[string]models.CategoryDetail, len(report.CategoryScores)),
		Recommendations:    input.Recommendations.Markdown,
		TierDistribution:   make(map[string]int),
	}

	for _, label := range h.config.Store.TierLabels() {
		resp.TierDistribution[label] = 0
	}

	for _, name := range categoryNames(report) {
		cs := report.CategoryScores[name]
		resp.CategoryDetails[name] = models.CategoryDetail{
			Score:             h.round(cs.NormalizedScore),
			Tier:              cs.Tier,
			QuestionsAnswered: cs.QuestionsAnswered,
			TotalQuestions:    cs.TotalQuestions,
		}
		if _, known := resp.TierDistribution[cs.Tier]; !known {
			return nil, errors.NewConfigurationError("category " + name + " has unconfigured tier " + cs.Tier)
		}
		resp.TierDistribution[cs.Tier]++
	}

	h.logger.Debug("report assembled", map[string]interface{}{
		"categories": len(resp.CategoryDetails),
		"overall":    resp.OverallScore,
	})
	return &Output{Response: resp}, nil
}

// categoryNames lists scored categories in configuration order, followed by
// any not named in CategoryOrder sorted by name.
func categoryNames(report models.AssessmentReport) []string {
	names := make([]string, 0, len(report.CategoryScores))
	seen := make(map[string]bool, len(report.CategoryScores))
	for _, name := range report.CategoryOrder {
		if _, ok := report.CategoryScores[name]; ok && !seen[name] {
			names = append(names, name)
			seen[name] = true
		}
	}
	var rest []string
	for name := range report.CategoryScores {
		if !seen[name] {
			rest = append(rest, name)
		}
	}
	sort.Strings(rest)
	return append(names, rest...)
}

func (h *Handler) round(v float64) float64 {
	p := math.Pow(10, float64(h.config.Precision))
	return math.Round(v*p) / p
}
