package main

import (
	"context"
	"fmt"
	"os"

	"gradebook/cmd/gradebook/commands"
	"gradebook/lib/telemetry"
	"gradebook/lib/util/serviceutil"
)

func main() {
	ctx := serviceutil.SignalContext()

	t, err := telemetry.SetupFromEnv(ctx, "gradebook")
	if err != nil {
		serviceutil.Fatal("failed to setup telemetry", err)
	}

	err = commands.ExecuteContext(ctx)
	shutdownErr := t.Shutdown(context.Background())
	if shutdownErr != nil {
		fmt.Fprintln(os.Stderr, "telemetry shutdown:", shutdownErr)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
