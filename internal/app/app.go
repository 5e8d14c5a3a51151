package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"todoTracker/internal/config"
	"todoTracker/internal/handlers"
	"todoTracker/internal/logger"
	"todoTracker/internal/middleware"
	"todoTracker/internal/repository/task/cache"
	"todoTracker/internal/repository/task/inmemory"
	"todoTracker/internal/repository/task/postgres"
	"todoTracker/internal/service"
	"todoTracker/internal/worker"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type App struct {
	config     *config.Config
	server     *http.Server
	router     *chi.Mux
	handler    http.Handler
	repository service.TaskRepository // интерфейс!
	service    handlers.Service
	worker     *worker.CompactionWorker
	shutdowns  []func() // функции для graceful shutdown
}

func New(cfg *config.Config) *App {
	return &App{
		config:    cfg,
		shutdowns: make([]func(), 0),
	}
}

func (a *App) Init(ctx context.Context) (*App, error) {
	if err := logger.Init(a.config.Logging.Development); err != nil {
		return nil, fmt.Errorf("инициализация логгера: %w", err)
	}

	a.shutdowns = append(a.shutdowns, func() {
		logger.Info("Завершение работы логгирования...")
		logger.Sync()
	})

	if err := a.initRepository(ctx); err != nil {
		a.Shutdown()
		return nil, err
	}

	if err := a.initCache(ctx); err != nil {
		a.Shutdown()
		return nil, err
	}

	a.service = service.NewTaskService(a.repository)
	a.initRouter()

	if a.config.Worker.CompactionEnabled {
		interval := a.config.Worker.CompactionInterval
		a.worker = worker.NewCompactionWorker(a.repository, &interval)
	}

	a.server = &http.Server{
		Addr:         a.config.GetServerAddr(),
		Handler:      a.handler,
		ReadTimeout:  a.config.Server.ReadTimeout,
		WriteTimeout: a.config.Server.WriteTimeout,
	}

	logger.Info("App: Приложение инициализировано",
		zap.String("repository", a.config.Repository.Type),
		zap.Bool("cache", a.config.Cache.RedisURL != ""),
		zap.Bool("compaction", a.worker != nil))
	return a, nil
}

func (a *App) initRepository(ctx context.Context) error {
	switch a.config.Repository.Type {
	case config.RepositoryPostgres:
		storage, err := postgres.New(ctx, a.config.Database.URL, postgres.PoolConfig{
			MaxConns:    a.config.Database.MaxConnections,
			MinConns:    a.config.Database.MinConnections,
			IdleTimeout: a.config.Database.IdleTimeout,
		})
		if err != nil {
			return fmt.Errorf("подключение к postgres: %w", err)
		}
		a.shutdowns = append(a.shutdowns, func() {
			logger.Info("Закрытие пула соединений...")
			storage.Close()
		})

		if a.config.Database.Migrate {
			if err := storage.Migrate(ctx); err != nil {
				return fmt.Errorf("миграции: %w", err)
			}
		}
		a.repository = storage

	case config.RepositoryInMemory:
		a.repository = inmemory.NewTaskStorage()

	default:
		return fmt.Errorf("неизвестный тип хранилища %q", a.config.Repository.Type)
	}

	logger.Info("App: Хранилище готово", zap.String("type", a.config.Repository.Type))
	return nil
}

// кэш списка включается только при заданном redis_url
func (a *App) initCache(ctx context.Context) error {
	if a.config.Cache.RedisURL == "" {
		return nil
	}

	opts, err := redis.ParseURL(a.config.Cache.RedisURL)
	if err != nil {
		return fmt.Errorf("разбор redis_url: %w", err)
	}
	client := redis.NewClient(opts)
	a.shutdowns = append(a.shutdowns, func() {
		logger.Info("Закрытие соединения с redis...")
		if err := client.Close(); err != nil {
			logger.Warn("App: Ошибка закрытия redis", zap.Error(err))
		}
	})

	// недоступный redis не мешает старту: кэш деградирует до прямых запросов
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Warn("App: Redis недоступен", zap.Error(err))
	}

	a.repository = cache.New(a.repository, client, a.config.Cache.TTL)
	return nil
}

func (a *App) initRouter() {
	a.router = chi.NewRouter()

	a.router.Use(middleware.RequestID)
	a.router.Use(middleware.Logging)
	a.router.Use(cors.Handler(cors.Options{
		AllowedOrigins: a.config.HTTP.CORSOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID"},
		MaxAge:         300,
	}))
	a.router.Use(middleware.Timeout(a.config.HTTP.RequestTimeout))
	a.router.Use(middleware.RateLimit(a.config.HTTP.RateLimit))

	handlers.NewTaskHandler(a.service).Routes(a.router)

	a.handler = otelhttp.NewHandler(a.router, "todo-api")
}

// Handler отдаёт собранную цепочку middleware + роутер
func (a *App) Handler() http.Handler {
	return a.handler
}

// Run блокируется до отмены ctx или ошибки сервера, затем мягко останавливает всё
func (a *App) Run(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("App: Сервер запущен", zap.String("addr", a.server.Addr))
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http сервер: %w", err)
		}
		return nil
	})

	if a.worker != nil {
		g.Go(func() error {
			a.worker.Start(gctx)
			return nil
		})
	}

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("App: Остановка сервера")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.config.Server.ShutdownTimeout)
		defer cancel()
		if err := a.server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("остановка сервера: %w", err)
		}
		return nil
	})

	err := g.Wait()
	a.Shutdown()
	return err
}

// Shutdown вызывает функции остановки в обратном порядке регистрации
func (a *App) Shutdown() {
	for i := len(a.shutdowns) - 1; i >= 0; i-- {
		a.shutdowns[i]()
	}
	a.shutdowns = a.shutdowns[:0]
}
