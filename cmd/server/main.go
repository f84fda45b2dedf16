package main

import (
	"context"
	"log"
	"time"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	apiHandler "github.com/taskforge/backend/api/handler"
	"github.com/taskforge/backend/internal/config"
	"github.com/taskforge/backend/internal/infrastructure/monitor"
	pgInfra "github.com/taskforge/backend/internal/infrastructure/postgres"
	redisInfra "github.com/taskforge/backend/internal/infrastructure/redis"
	"github.com/taskforge/backend/internal/infrastructure/spool"
	"github.com/taskforge/backend/internal/middleware"
	"github.com/taskforge/backend/internal/router"
	"github.com/taskforge/backend/internal/services"
	"github.com/taskforge/backend/internal/services/lifecycle"
	"github.com/taskforge/backend/pkg/httpcontext"
	"github.com/taskforge/backend/pkg/logger"
	"github.com/taskforge/backend/repository"
	"github.com/taskforge/backend/repository/memory"
	"github.com/taskforge/backend/repository/postgres"
	redisRepo "github.com/taskforge/backend/repository/redis"
	projectUC "github.com/taskforge/backend/usecase/project"
	reportUC "github.com/taskforge/backend/usecase/report"
	tagUC "github.com/taskforge/backend/usecase/tag"
	taskUC "github.com/taskforge/backend/usecase/task"
	userUC "github.com/taskforge/backend/usecase/user"
)

type repos struct {
	projects repository.ProjectRepository
	tasks    repository.TaskRepository
	tags     repository.TagRepository
	users    repository.UserRepository
	history  repository.HistoryRepository
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	zapLogger, err := logger.New(logger.Config{
		Level:    cfg.Logger.Level,
		Encoding: cfg.Logger.Encoding,
	})
	if err != nil {
		log.Fatalf("logger error: %v", err)
	}
	defer zapLogger.Sync()

	appCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	manager := lifecycle.New(cfg.Context.ShutdownTimeout, zapLogger)
	manager.Listen(cancel)

	var (
		store            repos
		statsCache       reportUC.StatsCache
		statsInvalidator taskUC.StatsInvalidator
		mon              *monitor.Monitor
		spoolStore       *spool.Store
		spoolHealth      services.ConnectionHealth
	)

	switch cfg.Store.Driver {
	case "memory":
		zapLogger.Info("using in-memory store")
		mem := memory.NewStore()
		store = repos{
			projects: mem.Projects(),
			tasks:    mem.Tasks(),
			tags:     mem.Tags(),
			users:    mem.Users(),
			history:  mem.History(),
		}

	default:
		if err := pgInfra.RunMigrations(cfg, zapLogger); err != nil {
			zapLogger.Fatal("migrations failed", zap.Error(err))
		}

		pool, err := pgInfra.NewPool(appCtx, cfg.Database, zapLogger)
		if err != nil {
			zapLogger.Fatal("postgres connection failed", zap.Error(err))
		}
		manager.Register("postgres", func(ctx context.Context) error {
			pool.Close()
			return nil
		})

		redisClient, err := redisInfra.NewClient(cfg.Redis)
		if err != nil {
			zapLogger.Warn("redis unavailable, statistics will be uncached", zap.Error(err))
		} else {
			manager.Register("redis", func(ctx context.Context) error {
				return redisClient.Close()
			})
			sc := redisRepo.NewStatsCache(redisClient, cfg.Redis.StatsTTL)
			statsCache = sc
			statsInvalidator = sc
		}

		spoolStore, err = spool.Open(cfg.Spool.Path, "history")
		if err != nil {
			zapLogger.Fatal("failed to open history spool", zap.Error(err))
		}
		manager.Register("spool", func(ctx context.Context) error {
			return spoolStore.Close()
		})

		mon = monitor.New(pool, redisClient, spoolStore, 10*time.Second, zapLogger)
		mon.Start()
		manager.Register("monitor", func(ctx context.Context) error {
			mon.Stop()
			return nil
		})
		spoolHealth = mon

		store = repos{
			projects: postgres.NewProjectRepository(pool),
			tasks:    postgres.NewTaskRepository(pool),
			tags:     postgres.NewTagRepository(pool),
			users:    postgres.NewUserRepository(pool),
			history:  postgres.NewHistoryRepository(pool),
		}
	}

	spooler := services.NewHistorySpooler(
		spoolStore,
		spoolHealth,
		store.history,
		zapLogger,
		services.SpoolerConfig{
			Interval:   cfg.Spool.DrainInterval,
			BatchSize:  50,
			MaxRetries: cfg.Spool.MaxRetry,
		},
	)
	spooler.Start()
	manager.Register("history_spooler", func(ctx context.Context) error {
		spooler.Stop(ctx)
		return nil
	})

	sweeper := services.NewRetentionSweeper(
		store.history,
		spoolStore,
		zapLogger,
		services.RetentionConfig{
			Schedule:       cfg.History.SweepSchedule,
			RetentionDays:  cfg.History.RetentionDays,
			SpoolRetention: time.Duration(cfg.Spool.RetentionHours) * time.Hour,
		},
	)
	sweeper.Start()
	manager.Register("retention_sweeper", func(ctx context.Context) error {
		sweeper.Stop(ctx)
		return nil
	})

	taskUseCase := taskUC.New(
		store.tasks, store.projects, store.users, store.tags,
		spooler, statsInvalidator,
		taskUC.Config{MaxHierarchyDepth: cfg.Rules.MaxHierarchyDepth},
		zapLogger,
	)
	projectUseCase := projectUC.New(store.projects, store.users, store.tasks, zapLogger)
	tagUseCase := tagUC.New(store.tags, zapLogger)
	userUseCase := userUC.New(store.users, zapLogger)
	reportUseCase := reportUC.New(store.tasks, store.projects, store.users, store.tags,
		store.history, statsCache, zapLogger)

	ctxAdapter := httpcontext.NewAdapter(cfg.Context.RequestTimeout)

	handlers := router.Handlers{
		Project: apiHandler.NewProjectHandler(projectUseCase, ctxAdapter, zapLogger),
		Task:    apiHandler.NewTaskHandler(taskUseCase, ctxAdapter, zapLogger),
		Tag:     apiHandler.NewTagHandler(tagUseCase, ctxAdapter, zapLogger),
		User:    apiHandler.NewUserHandler(userUseCase, projectUseCase, ctxAdapter, zapLogger),
		Report:  apiHandler.NewReportHandler(reportUseCase, ctxAdapter, zapLogger),
		Health:  apiHandler.NewHealthHandler(mon, ctxAdapter, zapLogger),
	}

	requireActor := middleware.RequireActor(zapLogger)
	r := router.New(handlers, requireActor)

	server := &fasthttp.Server{
		Handler:      r.Handler,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
		Name:         cfg.AppName,
	}

	go func() {
		zapLogger.Info("server started", zap.String("address", cfg.Address()))
		if err := server.ListenAndServe(cfg.Address()); err != nil {
			zapLogger.Fatal("server crashed", zap.Error(err))
		}
	}()

	manager.Register("http_server", func(ctx context.Context) error {
		return server.Shutdown()
	})

	<-appCtx.Done()

	if err := manager.Shutdown(context.Background()); err != nil {
		zapLogger.Error("graceful shutdown error", zap.Error(err))
	}
}
