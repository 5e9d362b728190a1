// internal/services/scoring/generate-recommendations/models.go
package generaterecommendations

import "sbdc-assessment/internal/models"

type Input struct {
	Report   models.AssessmentReport `json:"report"`
	Catalyst string                  `json:"catalyst"`
}

type Output struct {
	Recommendations models.Recommendations `json:"recommendations"`
}

// FallbackLevel names which tone matrix key matched.
type FallbackLevel string

const (
	LevelExact           FallbackLevel = "exact"
	LevelDefaultCatalyst FallbackLevel = "default_catalyst"
	LevelDefaultTier     FallbackLevel = "default_tier"
	LevelDefaultBoth     FallbackLevel = "default_both"
)
