// internal/services/track_test.go
package services

import (
	"context"
	"fmt"
	"testing"

	"sbdc-assessment/internal/common/errors"
	"sbdc-assessment/internal/common/metrics"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func value(t *testing.T, m prometheus.Metric) float64 {
	t.Helper()
	var out dto.Metric
	require.NoError(t, m.Write(&out))
	if out.Counter != nil {
		return out.GetCounter().GetValue()
	}
	return out.GetGauge().GetValue()
}

func installRecorder(t *testing.T) *tracetest.SpanRecorder {
	t.Helper()
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	t.Cleanup(func() {
		otel.SetTracerProvider(prev)
		_ = tp.Shutdown(context.Background())
	})
	return recorder
}

func TestTrack_Success(t *testing.T) {
	recorder := installRecorder(t)
	const task = "track-success"

	_, _, finish := Track(context.Background(), task)
	assert.Equal(t, 1.0, value(t, metrics.ServiceCallsActive.WithLabelValues(task)))
	finish(nil)

	assert.Equal(t, 0.0, value(t, metrics.ServiceCallsActive.WithLabelValues(task)))
	assert.Equal(t, 1.0, value(t, metrics.ServiceCallsCompleted.WithLabelValues(task)))

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, task, spans[0].Name())
	assert.Equal(t, codes.Ok, spans[0].Status().Code)
}

func TestTrack_Failure(t *testing.T) {
	recorder := installRecorder(t)
	const task = "track-failure"

	_, _, finish := Track(context.Background(), task)
	finish(errors.NewValidationError("fin_1: value 9 outside scale [1, 5]"))

	assert.Equal(t, 1.0, value(t, metrics.ServiceCallsFailed.WithLabelValues(task, "VALIDATION_ERROR")))
	assert.Equal(t, 0.0, value(t, metrics.ServiceCallsCompleted.WithLabelValues(task)))

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, codes.Error, spans[0].Status().Code)
	assert.Equal(t, "VALIDATION_ERROR", spans[0].Status().Description)
}

func TestErrorCode(t *testing.T) {
	assert.Equal(t, "RENDER_ERROR", ErrorCode(errors.NewRenderError(fmt.Errorf("boom"))))
	assert.Equal(t, "CONFIGURATION_ERROR", ErrorCode(fmt.Errorf("wrapped: %w", errors.NewConfigurationError("x"))))
	assert.Equal(t, "INTERNAL_ERROR", ErrorCode(fmt.Errorf("plain")))
}
