package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"todoTracker/internal/board"
	"todoTracker/internal/client"
	"todoTracker/internal/logger"
	"todoTracker/internal/timer"
	"todoTracker/internal/tui"

	tea "github.com/charmbracelet/bubbletea"
	flag "github.com/spf13/pflag"
	"go.uber.org/zap"
)

func main() {
	apiURL := flag.String("api", "http://localhost:8080", "адрес сервиса задач")
	focus := flag.Int("focus", timer.DefaultFocusMinutes, "длительность фокуса в минутах (1-180)")
	breakMin := flag.Int("break", timer.DefaultBreakMinutes, "длительность перерыва в минутах (1-60)")
	noBreak := flag.Bool("no-break", false, "не делать перерыв после фокуса")
	logPath := flag.String("log", "", "файл для логов; без него логи отключены")
	flag.Parse()

	if *logPath != "" {
		if err := logger.InitFile(*logPath); err != nil {
			fmt.Fprintf(os.Stderr, "логгер: %v\n", err)
			os.Exit(1)
		}
		defer logger.Sync()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ctrl := board.NewController(client.New(*apiURL))
	timerCfg := timer.Config{
		FocusMinutes: *focus,
		BreakMinutes: *breakMin,
		IncludeBreak: !*noBreak,
	}

	model := tui.New(ctx, ctrl, timerCfg, timer.NewRunner())
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))

	logger.Info("Board: Запуск", zap.String("api", *apiURL))
	if _, err := program.Run(); err != nil && ctx.Err() == nil {
		logger.Error("Board: Интерфейс завершился с ошибкой", err)
		fmt.Fprintf(os.Stderr, "board: %v\n", err)
		os.Exit(1)
	}
}
