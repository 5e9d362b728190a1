// internal/services/reporting/build-report/config.go
package buildreport

import (
	"fmt"

	"sbdc-assessment/pkg/questionnaire"
)

type Config struct {
	Store *questionnaire.Store
	// Precision is the number of decimals kept on scores.
	Precision int
}

func LoadConfig(store *questionnaire.Store) *Config {
	return &Config{
		Store:     store,
		Precision: 1,
	}
}

func (c *Config) Validate() error {
	if c == nil || c.Store == nil {
		return fmt.Errorf("build-report: questionnaire store is required")
	}
	if c.Precision < 0 || c.Precision > 6 {
		return fmt.Errorf("build-report: precision must be between 0 and 6")
	}
	return nil
}
