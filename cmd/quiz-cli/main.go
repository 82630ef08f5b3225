package main

import (
	"context"
	"log/slog"
	"os"

	"quizsolver-backend/cmd/quiz-cli/commands"
	"quizsolver-backend/lib/telemetry"
)

func main() {
	ctx := context.Background()
	telemetry.InitSlog(true)

	t, err := telemetry.SetupFromEnv(ctx, "quiz-cli")
	if err != nil {
		slog.Error("setup telemetry", "err", err.Error())
		os.Exit(1)
	}
	defer t.Shutdown(context.Background())

	commands.ExecuteContext(ctx)
}
