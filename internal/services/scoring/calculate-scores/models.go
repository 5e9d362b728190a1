// internal/services/scoring/calculate-scores/models.go
package calculatescores

import "sbdc-assessment/internal/models"

type Input struct {
	Catalyst string         `json:"catalyst"`
	Answers  models.Answers `json:"answers"`
}

type Output struct {
	Report models.AssessmentReport `json:"report"`
	// IgnoredQuestions lists answered ids that are not in the questionnaire.
	IgnoredQuestions []string `json:"ignoredQuestions,omitempty"`
}
