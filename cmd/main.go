package main

import (
	"context"
	"errors"
	"os"

	"github.com/desertthunder/p2c/internal/shared"
	"github.com/joho/godotenv"
)

func main() {
	logger := shared.NewLogger(nil)

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		logger.Warn("failed to load .env file", "error", err)
	}

	runner := NewRunner(RunnerOpts{Logger: logger})
	app := newApp(runner)

	if err := app.Run(context.Background(), os.Args); err != nil {
		if errors.Is(err, shared.ErrCancelled) {
			os.Exit(0)
		}
		logger.Fatalf("application error: %v", err)
	}
}
