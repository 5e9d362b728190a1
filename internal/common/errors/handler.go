// internal/common/errors/handler.go
package errors

import (
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

// ErrorHandler converts errors returned by route handlers into HTTP responses.
type ErrorHandler struct {
	logger         Logger
	routeOverrides map[string]map[ErrorCode]int
}

type Logger interface {
	Warn(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
}

// ErrorResponse is the JSON body written for failed requests.
type ErrorResponse struct {
	Detail string    `json:"detail"`
	Code   ErrorCode `json:"code"`
}

func NewErrorHandler(logger Logger) *ErrorHandler {
	return &ErrorHandler{
		logger:         logger,
		routeOverrides: make(map[string]map[ErrorCode]int),
	}
}

// OverrideStatus makes errors with the given code on the given route path
// produce status instead of the default mapping.
func (h *ErrorHandler) OverrideStatus(path string, code ErrorCode, status int) *ErrorHandler {
	if h.routeOverrides[path] == nil {
		h.routeOverrides[path] = make(map[ErrorCode]int)
	}
	h.routeOverrides[path][code] = status
	return h
}

// Handle satisfies echo.HTTPErrorHandler.
func (h *ErrorHandler) Handle(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	status, body := h.resolve(err, c.Path())
	h.logError(c, err, status, body)

	if c.Request().Method == http.MethodHead {
		_ = c.NoContent(status)
		return
	}
	_ = c.JSON(status, body)
}

func (h *ErrorHandler) resolve(err error, path string) (int, ErrorResponse) {
	if he, ok := err.(*echo.HTTPError); ok {
		return he.Code, ErrorResponse{
			Detail: fmt.Sprint(he.Message),
			Code:   codeForStatus(he.Code),
		}
	}

	stdErr := h.normalizeError(err)
	status := GetHTTPStatus(stdErr.Code)
	if overrides, ok := h.routeOverrides[path]; ok {
		if s, ok := overrides[stdErr.Code]; ok {
			status = s
		}
	}

	detail := stdErr.Message
	if stdErr.Details != "" {
		detail = stdErr.Message + ": " + stdErr.Details
	}
	return status, ErrorResponse{Detail: detail, Code: stdErr.Code}
}

// normalizeError ensures we always have a StandardError
func (h *ErrorHandler) normalizeError(err error) *StandardError {
	if stdErr, ok := AsStandardError(err); ok {
		return stdErr
	}
	return &StandardError{
		Code:      ErrCodeInternal,
		Message:   "Unexpected error",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

func (h *ErrorHandler) logError(c echo.Context, err error, status int, body ErrorResponse) {
	if h.logger == nil {
		return
	}
	fields := map[string]interface{}{
		"method":        c.Request().Method,
		"path":          c.Request().URL.Path,
		"status":        status,
		"errorCode":     string(body.Code),
		"errorCategory": GetErrorCategory(body.Code),
		"error":         err.Error(),
		"requestId":     c.Response().Header().Get(echo.HeaderXRequestID),
	}
	if status >= http.StatusInternalServerError {
		h.logger.Error("request failed", fields)
		return
	}
	h.logger.Warn("request rejected", fields)
}

func codeForStatus(status int) ErrorCode {
	switch {
	case status == http.StatusBadRequest:
		return ErrCodeInvalidPayload
	case status == http.StatusNotFound:
		return "NOT_FOUND"
	case status == http.StatusMethodNotAllowed:
		return "METHOD_NOT_ALLOWED"
	case status >= http.StatusInternalServerError:
		return ErrCodeInternal
	default:
		return "HTTP_ERROR"
	}
}
