package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"todoTracker/internal/app"
	"todoTracker/internal/config"
	"todoTracker/internal/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "конфигурация: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	application, err := app.New(cfg).Init(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "инициализация: %v\n", err)
		os.Exit(1)
	}

	if err := application.Run(ctx); err != nil {
		logger.Error("App: Сервер остановлен с ошибкой", err)
		os.Exit(1)
	}
}
