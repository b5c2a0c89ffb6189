package competitors

import "go.opentelemetry.io/otel"

var tracer = otel.Tracer("services.competitors")
