package otel

import (
	"go.opentelemetry.io/otel"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/Alturino/bagstore/internal/common/constants"
)

var Tracer = otel.Tracer(
	constants.APP_SHOP_SERVICE+"/order",
	trace.WithInstrumentationAttributes(semconv.ServiceName(constants.APP_SHOP_SERVICE)),
)
