package main

import (
	"log/slog"
	"os"

	"recruit_client/internal/agent"
)

func main() {
	if err := agent.Run(); err != nil {
		slog.Error("draft agent stopped", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
