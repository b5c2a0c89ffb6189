package main

import (
	"context"
	"os"

	"github.com/Summix-io/wp-plugin-review/cmd/wpreview/commands"
	"github.com/Summix-io/wp-plugin-review/lib/telemetry"
	"github.com/Summix-io/wp-plugin-review/lib/util/serviceutil"
)

func main() {
	ctx := serviceutil.SignalContext()
	telemetry.InitSlog(true)

	tel, err := telemetry.SetupFromEnv(ctx, "wpreview")
	if err != nil && !os.IsNotExist(err) {
		serviceutil.Fatal("failed to setup telemetry", err)
	}
	defer tel.Shutdown(context.Background())
	telemetry.InstrumentPerfStats(ctx)

	commands.ExecuteContext(ctx)
}
