package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/ChangLabSNU/Hedwig/internal/cli"
)

func main() {
	// Optional .env for API keys in development setups.
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(),
		os.Interrupt, syscall.SIGTERM)
	defer stop()

	root := cli.NewRootCommand()
	err := root.ExecuteContext(ctx)
	os.Exit(cli.Code(err))
}
