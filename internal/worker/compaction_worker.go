package worker

import (
	"context"
	"fmt"
	"time"
	"todoTracker/internal/logger"
	"todoTracker/internal/models/task"

	"go.uber.org/zap"
)

type TaskLister interface {
	List(ctx context.Context) ([]*task.Task, error)
	Reorder(ctx context.Context, ids []int64) error
}

// CompactionWorker периодически переписывает sortOrder в 1..N по текущему
// порядку отображения: дубли после параллельных созданий и дыры после удалений исчезают
type CompactionWorker struct {
	repo     TaskLister
	interval time.Duration
}

func NewCompactionWorker(repo TaskLister, interval *time.Duration) *CompactionWorker {
	var intervalToSet time.Duration
	if interval == nil || *interval <= 0 {
		intervalToSet = time.Hour
	} else {
		intervalToSet = *interval
	}

	return &CompactionWorker{
		repo:     repo,
		interval: intervalToSet,
	}
}

func (w *CompactionWorker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			logger.Info("Worker: Фоновое уплотнение порядка задач", zap.Time("started_at", time.Now()))
			if _, err := w.Check(ctx); err != nil {
				logger.Warn("Worker: Уплотнение не выполнено", zap.Error(err))
			}
		case <-ctx.Done():
			logger.Info("Worker: Фоновое уплотнение останавливается")
			return
		}
	}
}

// Check возвращает true, если порядок был переписан
func (w *CompactionWorker) Check(ctx context.Context) (bool, error) {
	start := time.Now()

	tasks, err := w.repo.List(ctx)
	if err != nil {
		return false, fmt.Errorf("получение задач: %w", err)
	}

	if isCompact(tasks) {
		logger.Debug("Worker: Порядок уже плотный", zap.Int("checked", len(tasks)))
		return false, nil
	}

	ids := make([]int64, 0, len(tasks))
	for _, t := range tasks {
		ids = append(ids, t.ID)
	}

	if err := w.repo.Reorder(ctx, ids); err != nil {
		return false, fmt.Errorf("уплотнение порядка: %w", err)
	}

	logger.Info(
		"Worker: Завершение уплотнения",
		zap.Duration("ms", time.Since(start)),
		zap.Int("checked", len(tasks)),
	)
	return true, nil
}

func isCompact(tasks []*task.Task) bool {
	for i, t := range tasks {
		if t.SortOrder != i+1 {
			return false
		}
	}
	return true
}
