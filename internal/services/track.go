// Package services holds the assessment pipeline. Each subpackage is one
// task (calculate-scores, generate-recommendations, build-report, render-pdf)
// with its own Handler; this file carries the instrumentation they share.
package services

import (
	"context"
	"time"

	"sbdc-assessment/internal/common/errors"
	"sbdc-assessment/internal/common/metrics"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "sbdc-assessment/services"

// Track starts a span and the call metrics for one task execution.
// The returned finish func must be called exactly once with the task's error.
func Track(ctx context.Context, taskType string) (context.Context, trace.Span, func(error)) {
	start := time.Now()
	metrics.ServiceCallsActive.WithLabelValues(taskType).Inc()

	ctx, span := otel.Tracer(tracerName).Start(ctx, taskType)

	finish := func(err error) {
		defer span.End()
		metrics.ServiceCallsActive.WithLabelValues(taskType).Dec()

		if err != nil {
			code := ErrorCode(err)
			metrics.ServiceCallsFailed.WithLabelValues(taskType, code).Inc()
			span.RecordError(err)
			span.SetStatus(codes.Error, code)
			return
		}
		metrics.ServiceCallsCompleted.WithLabelValues(taskType).Inc()
		metrics.ServiceCallDuration.WithLabelValues(taskType).Observe(time.Since(start).Seconds())
		span.SetStatus(codes.Ok, "")
	}
	return ctx, span, finish
}

// ErrorCode extracts the StandardError code, or INTERNAL_ERROR.
func ErrorCode(err error) string {
	if stdErr, ok := errors.AsStandardError(err); ok {
		return string(stdErr.Code)
	}
	return string(errors.ErrCodeInternal)
}
