package otel

import (
	"errors"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// RecordError marks span as failed. The innermost error of the
// "failed ... with error=%w" chain is attached as the cause.
func RecordError(err error, span trace.Span) {
	if err == nil {
		return
	}
	cause := err
	for next := errors.Unwrap(cause); next != nil; next = errors.Unwrap(cause) {
		cause = next
	}
	span.SetStatus(codes.Error, err.Error())
	span.RecordError(
		err,
		trace.WithAttributes(
			attribute.String("error.cause", cause.Error()),
			attribute.String("error.type", fmt.Sprintf("%T", cause)),
		),
	)
}
