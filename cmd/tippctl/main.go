package main

import (
	"log/slog"
	"tippassist-backend/cmd/tippctl/commands"
	"tippassist-backend/lib/osutil"
	"tippassist-backend/lib/telemetry"
)

func main() {
	ctx := osutil.SignalContext()

	telemetry.InitSlog(false)
	err := telemetry.SetupFromEnv(ctx, "tippctl")
	if err != nil {
		slog.Debug("telemetry disabled", "err", err)
	} else {
		telemetry.InstrumentPerfStats(ctx)
		defer telemetry.Shutdown(ctx)
	}

	commands.ExecuteContext(ctx)
}
