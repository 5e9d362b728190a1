// internal/services/scoring/calculate-scores/config.go
package calculatescores

import (
	"fmt"

	"sbdc-assessment/pkg/questionnaire"
)

type Config struct {
	Store *questionnaire.Store
}

func (c *Config) Validate() error {
	if c == nil || c.Store == nil {
		return fmt.Errorf("calculate-scores: questionnaire store is required")
	}
	return nil
}
