package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"todoTracker/internal/logger"
	"todoTracker/internal/migrations"
	"todoTracker/internal/models/task"
	repo "todoTracker/internal/repository"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

const slowQuery = time.Millisecond * 100

const taskColumns = `id,
				title,
				description,
				status,
				priority,
				due_date,
				sort_order,
				created_at,
				updated_at`

type PoolConfig struct {
	MaxConns    int32
	MinConns    int32
	IdleTimeout time.Duration
}

type Storage struct {
	pool    *pgxpool.Pool
	connStr string
}

func New(ctx context.Context, connString string, poolCfg PoolConfig) (*Storage, error) {
	config, err := pgxpool.ParseConfig(connString)
	if err != nil {
		logger.Error("Repository: Ошибка загрузки конфига", err)
		return nil, fmt.Errorf("загрузка конфига: %w", err)
	}

	config.MaxConns = 10
	config.MinConns = 2
	config.MaxConnIdleTime = time.Minute * 5
	if poolCfg.MaxConns > 0 {
		config.MaxConns = poolCfg.MaxConns
	}
	if poolCfg.MinConns > 0 {
		config.MinConns = poolCfg.MinConns
	}
	if poolCfg.IdleTimeout > 0 {
		config.MaxConnIdleTime = poolCfg.IdleTimeout
	}

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		logger.Error("Repository: Ошибка создания пула", err)
		return nil, fmt.Errorf("создание пула: %w", err)
	}

	err = pool.Ping(ctx)
	if err != nil {
		pool.Close()
		logger.Error("Repository: Неудачная проверка ping", err)
		return nil, fmt.Errorf("проверка соединения ping: %w", err)
	}

	logger.Info("Repository: Успешное создание подключения к PostgreSQL")
	return &Storage{pool: pool, connStr: connString}, nil
}

func (s *Storage) Close() {
	s.pool.Close()
	logger.Info("Repository: Закрытие всех соединений PostgreSQL")
}

func (s *Storage) HealthCheck(ctx context.Context) error {
	err := s.pool.Ping(ctx)
	if err != nil {
		logger.Error("Repository: Неудачная проверка ping", err)
		return fmt.Errorf("проверка соединения ping: %w", err)
	}
	return nil
}

func scanTask(row pgx.Row) (*task.Task, error) {
	t := &task.Task{}
	err := row.Scan(
		&t.ID,
		&t.Title,
		&t.Description,
		&t.Status,
		&t.Priority,
		&t.DueDate,
		&t.SortOrder,
		&t.CreatedAt,
		&t.UpdatedAt,
	)
	return t, err
}

func warnIfSlow(start time.Time, operation string) {
	if time.Since(start) > slowQuery {
		logger.Warn("Repository: Медленный запрос",
			zap.String("operation", operation),
			zap.Duration("ms", time.Since(start)))
	}
}

func (s *Storage) List(ctx context.Context) ([]*task.Task, error) {
	start := time.Now()

	query := `SELECT ` + taskColumns + `
				FROM tasks
				ORDER BY sort_order ASC, created_at DESC`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		logger.Error("Repository: Не удалось получить задачи", err, zap.Duration("ms", time.Since(start)))
		return nil, fmt.Errorf("получение задач: %w", err)
	}
	defer rows.Close()

	tasks := []*task.Task{}
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			logger.Error("Repository: Ошибка сканирования задачи", err)
			return nil, fmt.Errorf("сканирование задачи: %w", err)
		}
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		logger.Error("Repository: Ошибка итерации по строкам", err)
		return nil, fmt.Errorf("итерация по строкам: %w", err)
	}

	warnIfSlow(start, "list")
	return tasks, nil
}

func (s *Storage) GetByID(ctx context.Context, id int64) (*task.Task, error) {
	start := time.Now()

	query := `SELECT ` + taskColumns + `
				FROM tasks
				WHERE id = $1`

	t, err := scanTask(s.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repo.ErrNotFound
		}
		logger.Error("Repository: Не удалось получить задачу", err, zap.Int64("task_id", id))
		return nil, fmt.Errorf("получение задачи: %w", err)
	}

	warnIfSlow(start, "get_by_id")
	return t, nil
}

// чтение максимума не изолировано от параллельного Create: два запроса могут получить одинаковый sort_order
func (s *Storage) MaxSortOrder(ctx context.Context) (int, error) {
	var max int
	err := s.pool.QueryRow(ctx, `SELECT COALESCE(MAX(sort_order), 0) FROM tasks`).Scan(&max)
	if err != nil {
		logger.Error("Repository: Не удалось получить максимальный sort_order", err)
		return 0, fmt.Errorf("получение sort_order: %w", err)
	}
	return max, nil
}

func (s *Storage) Create(ctx context.Context, taskToCreate *task.Task) error {
	start := time.Now()

	query := `INSERT INTO tasks
				(title, description, status, priority, due_date, sort_order)
				VALUES ($1, $2, $3, $4, $5, $6)
				RETURNING id, created_at, updated_at`

	err := s.pool.QueryRow(ctx, query,
		taskToCreate.Title,
		taskToCreate.Description,
		taskToCreate.Status,
		taskToCreate.Priority,
		taskToCreate.DueDate,
		taskToCreate.SortOrder,
	).Scan(&taskToCreate.ID, &taskToCreate.CreatedAt, &taskToCreate.UpdatedAt)

	if err != nil {
		logger.Error("Repository: Не удалось добавить задачу", err, zap.Duration("ms", time.Since(start)))
		return fmt.Errorf("добавление задачи: %w", err)
	}

	warnIfSlow(start, "create")
	return nil
}

func (s *Storage) Update(ctx context.Context, taskToUpdate *task.Task) error {
	start := time.Now()

	query := `UPDATE tasks
			SET title = $1,
				description = $2,
				status = $3,
				priority = $4,
				due_date = $5,
				updated_at = NOW()
			WHERE id = $6
			RETURNING sort_order, created_at, updated_at`

	// sort_order меняет только Reorder; здесь возвращается текущее значение
	err := s.pool.QueryRow(ctx, query,
		taskToUpdate.Title,
		taskToUpdate.Description,
		taskToUpdate.Status,
		taskToUpdate.Priority,
		taskToUpdate.DueDate,
		taskToUpdate.ID,
	).Scan(&taskToUpdate.SortOrder, &taskToUpdate.CreatedAt, &taskToUpdate.UpdatedAt)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return repo.ErrNotFound
		}
		logger.Error("Repository: Не удалось обновить задачу", err, zap.Int64("task_id", taskToUpdate.ID))
		return fmt.Errorf("обновление задачи: %w", err)
	}

	warnIfSlow(start, "update")
	return nil
}

// удаление без надгробия: строка исчезает полностью
func (s *Storage) Delete(ctx context.Context, id int64) error {
	start := time.Now()

	tag, err := s.pool.Exec(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	if err != nil {
		logger.Error("Repository: Удаление задачи", err, zap.Duration("ms", time.Since(start)))
		return fmt.Errorf("удаление задачи: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return repo.ErrNotFound
	}

	warnIfSlow(start, "delete")
	return nil
}

// все обновления в одной транзакции: неизвестный id откатывает весь пакет
func (s *Storage) Reorder(ctx context.Context, ids []int64) (err error) {
	start := time.Now()

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		logger.Error("Repository: Не удалось начать транзакцию", err)
		return fmt.Errorf("начало транзакции: %w", err)
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
				logger.Error("Repository: Ошибка отката транзакции", rbErr)
			}
		}
	}()

	query := `UPDATE tasks
			SET sort_order = $1,
				updated_at = NOW()
			WHERE id = $2`

	for ind, id := range ids {
		tag, execErr := tx.Exec(ctx, query, ind+1, id)
		if execErr != nil {
			logger.Error("Repository: Ошибка изменения порядка", execErr, zap.Int64("task_id", id))
			return fmt.Errorf("изменение порядка: %w", execErr)
		}
		if tag.RowsAffected() == 0 {
			logger.Warn("Repository: Задача для изменения порядка не найдена", zap.Int64("task_id", id))
			return fmt.Errorf("изменение порядка, задача %d: %w", id, repo.ErrNotFound)
		}
	}

	if err = tx.Commit(ctx); err != nil {
		logger.Error("Repository: Не удалось зафиксировать транзакцию", err)
		return fmt.Errorf("фиксация транзакции: %w", err)
	}

	warnIfSlow(start, "reorder")
	return nil
}

func (s *Storage) newMigrator() (*migrate.Migrate, error) {
	source, err := iofs.New(migrations.FS, ".")
	if err != nil {
		return nil, fmt.Errorf("источник миграций: %w", err)
	}

	m, err := migrate.NewWithSourceInstance("iofs", source, migrateURL(s.connStr))
	if err != nil {
		return nil, fmt.Errorf("инициализация миграций: %w", err)
	}
	return m, nil
}

// драйвер pgx/v5 для migrate регистрируется под схемой pgx5
func migrateURL(connString string) string {
	for _, prefix := range []string{"postgres://", "postgresql://"} {
		if strings.HasPrefix(connString, prefix) {
			return "pgx5://" + strings.TrimPrefix(connString, prefix)
		}
	}
	return connString
}

func (s *Storage) Migrate(ctx context.Context) error {
	logger.Info("Repository: Применение миграций")

	m, err := s.newMigrator()
	if err != nil {
		logger.Error("Repository: Не удалось подготовить миграции", err)
		return err
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		logger.Error("Repository: Не удалось применить миграции", err)
		return fmt.Errorf("применение миграций: %w", err)
	}

	logger.Info("Repository: Миграции применены")
	return nil
}

func (s *Storage) Down(ctx context.Context) error {
	logger.Info("Repository: Откат миграций")

	m, err := s.newMigrator()
	if err != nil {
		logger.Error("Repository: Не удалось подготовить миграции", err)
		return err
	}
	defer m.Close()

	if err := m.Down(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		logger.Error("Repository: Не удалось откатить миграции", err)
		return fmt.Errorf("откат миграций: %w", err)
	}

	logger.Info("Repository: Миграции откачены")
	return nil
}
