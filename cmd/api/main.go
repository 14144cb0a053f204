package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/lcolonia21/BizGuide-Final-System/internal/di"
)

func main() {
	envFile := flag.String("env-file", os.Getenv("APP_ENV_FILE"), "optional dotenv file loaded before configuration")
	flag.Parse()

	a, err := di.InitializeApp(di.EnvFile(*envFile))
	if err != nil {
		slog.Error("bootstrap failed", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err = a.Run(ctx)
	stop()
	if err != nil {
		a.Logger.Error("api exited with error", "error", err)
		os.Exit(1)
	}
}
