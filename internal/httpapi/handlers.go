// internal/httpapi/handlers.go
package httpapi

import (
	"encoding/json"
	"io"
	"net/http"

	"sbdc-assessment/internal/common/errors"
	"sbdc-assessment/internal/common/validation"
	"sbdc-assessment/internal/models"
	renderpdf "sbdc-assessment/internal/services/reporting/render-pdf"

	"github.com/labstack/echo/v4"
)

type healthResponse struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, healthResponse{Status: "ok", Message: healthMessage})
}

func (s *Server) handleReady(c echo.Context) error {
	if s.svc.Ready != nil {
		if err := s.svc.Ready(c.Request().Context()); err != nil {
			return c.JSON(http.StatusServiceUnavailable, healthResponse{Status: "not ready", Error: err.Error()})
		}
	}
	return c.JSON(http.StatusOK, healthResponse{Status: "ready"})
}

func (s *Server) handleQuestions(c echo.Context) error {
	return c.JSON(http.StatusOK, s.svc.Store.QuestionsDocument())
}

func (s *Server) handleToneOptions(c echo.Context) error {
	return c.JSON(http.StatusOK, s.svc.Store.ToneMatrix())
}

func (s *Server) handleAssess(c echo.Context) error {
	body, err := s.readValidated(c, s.assessSchema)
	if err != nil {
		return err
	}

	var req models.AssessmentResponse
	if err := json.Unmarshal(body, &req); err != nil {
		return errors.NewValidationError(err.Error())
	}

	ctx := c.Request().Context()
	report, err := s.svc.Scorer.CalculateScores(ctx, req)
	if err != nil {
		return err
	}
	recs, err := s.svc.Recommender.GenerateRecommendations(ctx, *report, req.Catalyst)
	if err != nil {
		return err
	}
	resp, err := s.svc.Formatter.ToTransportShape(*report, *recs)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, resp)
}

func (s *Server) handleExportPDF(c echo.Context) error {
	body, err := s.readValidated(c, s.exportSchema)
	if err != nil {
		return err
	}

	out, err := s.svc.Renderer.Execute(c.Request().Context(), &renderpdf.Input{Payload: body})
	if err != nil {
		return err
	}
	c.Response().Header().Set(echo.HeaderContentDisposition, "attachment; filename="+out.Filename)
	return c.Blob(http.StatusOK, "application/pdf", out.PDF)
}

// readValidated reads the body, rejects malformed JSON as INVALID_PAYLOAD
// and schema violations as VALIDATION_ERROR.
func (s *Server) readValidated(c echo.Context, schema *validation.Validator) ([]byte, error) {
	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return nil, errors.NewInvalidPayloadError(err)
	}

	var doc interface{}
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, errors.NewInvalidPayloadError(err)
	}

	result, err := schema.Validate(doc)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}
	if !result.Valid {
		return nil, errors.NewValidationError(result.Summary())
	}
	return body, nil
}
