// internal/services/scoring/generate-recommendations/config.go
package generaterecommendations

import (
	"fmt"

	"sbdc-assessment/internal/common/config"
	"sbdc-assessment/pkg/questionnaire"
)

type Config struct {
	Store *questionnaire.Store
	// MaxCategories limits output to the N highest-priority categories; 0 means all.
	MaxCategories int
	// DefaultCatalyst is used when a request names no catalyst.
	DefaultCatalyst string
}

// NewConfig builds the handler config from the application config.
func NewConfig(appConfig *config.Config, store *questionnaire.Store) *Config {
	return &Config{
		Store:           store,
		MaxCategories:   appConfig.Recommendations.MaxCategories,
		DefaultCatalyst: appConfig.Recommendations.DefaultCatalyst,
	}
}

func (c *Config) Validate() error {
	if c == nil || c.Store == nil {
		return fmt.Errorf("generate-recommendations: questionnaire store is required")
	}
	if c.MaxCategories < 0 {
		return fmt.Errorf("generate-recommendations: max categories must be >= 0")
	}
	if c.DefaultCatalyst == "" {
		c.DefaultCatalyst = questionnaire.DefaultKey
	}
	return nil
}
