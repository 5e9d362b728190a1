// internal/services/reporting/build-report/models.go
package buildreport

import "sbdc-assessment/internal/models"

type Input struct {
	Report          models.AssessmentReport `json:"report"`
	Recommendations models.Recommendations  `json:"recommendations"`
}

type Output struct {
	Response models.TransportReport `json:"response"`
}
