package reviews

import "go.opentelemetry.io/otel"

var tracer = otel.Tracer("services.reviews")
