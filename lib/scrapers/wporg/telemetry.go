package wporg

import (
	"github.com/Summix-io/wp-plugin-review/lib/restyutil"

	"go.opentelemetry.io/otel"
)

var tracer = otel.Tracer("lib.scrapers.wporg")
var restyInstrumentOutput restyutil.InstrumentOutput

func SetRestyInstrumentOutput(out restyutil.InstrumentOutput) {
	restyInstrumentOutput = out
}

// indirection so SetRestyInstrumentOutput can be called after clients
// have already been constructed
type lazyInstrumentOutput struct{}

func (lazyInstrumentOutput) Write(id string, contents string) {
	if restyInstrumentOutput != nil {
		restyInstrumentOutput.Write(id, contents)
	}
}
