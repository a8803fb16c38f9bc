// Package main - точка входа для FinEdu backend.
//
// Архитектура следует принципам Clean Architecture и DDD:
// - Domain: чистая бизнес-логика без внешних зависимостей
// - Application: оркестрация use cases (Commands/Queries)
// - Infrastructure: PostgreSQL, Redis, метрики
// - Interface: HTTP REST API
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/finedu-app/finedu-backend/config"
	"github.com/finedu-app/finedu-backend/internal/application/command"
	"github.com/finedu-app/finedu-backend/internal/application/query"
	"github.com/finedu-app/finedu-backend/internal/infrastructure/auth"
	"github.com/finedu-app/finedu-backend/internal/infrastructure/metrics"
	"github.com/finedu-app/finedu-backend/internal/infrastructure/persistence/postgres"
	"github.com/finedu-app/finedu-backend/internal/infrastructure/persistence/redis"
	httpserver "github.com/finedu-app/finedu-backend/internal/interface/http"
	"github.com/finedu-app/finedu-backend/pkg/logger"
	"github.com/finedu-app/finedu-backend/pkg/retry"
)

// ══════════════════════════════════════════════════════════════════════════════
// MAIN
// ══════════════════════════════════════════════════════════════════════════════

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "fatal error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	// ─────────────────────────────────────────────────────────────────────────
	// 1. ЗАГРУЗКА КОНФИГУРАЦИИ
	// ─────────────────────────────────────────────────────────────────────────
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 2. НАСТРОЙКА ЛОГИРОВАНИЯ
	// ─────────────────────────────────────────────────────────────────────────
	log := logger.New(logger.Options{
		Output:    os.Stdout,
		Level:     logger.ParseLevel(cfg.Observability.LogLevel),
		AddCaller: cfg.App.Debug,
	})
	log.Info("starting FinEdu backend",
		logger.String("env", string(cfg.App.Environment)),
		logger.String("version", cfg.App.Version),
		logger.Bool("debug", cfg.App.Debug),
	)

	// ─────────────────────────────────────────────────────────────────────────
	// 3. ПОДКЛЮЧЕНИЕ К БАЗЕ ДАННЫХ (PostgreSQL)
	// ─────────────────────────────────────────────────────────────────────────
	log.Info("connecting to database...")

	startup := retry.StartupRetrier()

	var dbConn *postgres.Connection
	err = startup.Do(ctx, func(ctx context.Context) error {
		conn, err := connectDatabase(ctx, cfg.Database)
		if err != nil {
			log.Warn("database connection attempt failed", logger.Err(err))
			return retry.Retryable(err)
		}
		dbConn = conn
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer func() {
		log.Info("closing database connection...")
		dbConn.Close()
	}()
	log.Info("database connection established")

	// ─────────────────────────────────────────────────────────────────────────
	// 4. ЗАПУСК МИГРАЦИЙ
	// ─────────────────────────────────────────────────────────────────────────
	if cfg.Database.AutoMigrate {
		log.Info("running database migrations...")
		migrator := postgres.NewMigrator(dbConn)
		if err := migrator.Migrate(ctx); err != nil {
			return fmt.Errorf("failed to run migrations: %w", err)
		}
		log.Info("migrations completed")
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 5. ПОДКЛЮЧЕНИЕ К REDIS
	// ─────────────────────────────────────────────────────────────────────────
	log.Info("connecting to Redis...")

	redisCfg := redis.DefaultConfig()
	redisCfg.Host = cfg.Redis.Host
	redisCfg.Port = cfg.Redis.Port
	redisCfg.Password = cfg.Redis.Password
	redisCfg.DB = cfg.Redis.DB
	redisCfg.PoolSize = cfg.Redis.PoolSize
	redisCfg.MinIdleConns = cfg.Redis.MinIdleConns
	redisCfg.DialTimeout = cfg.Redis.DialTimeout
	redisCfg.ReadTimeout = cfg.Redis.ReadTimeout
	redisCfg.WriteTimeout = cfg.Redis.WriteTimeout

	var redisCache *redis.Cache
	err = startup.Do(ctx, func(ctx context.Context) error {
		cache, err := redis.NewCache(redisCfg)
		if err != nil {
			log.Warn("Redis connection attempt failed", logger.Err(err))
			return retry.Retryable(err)
		}
		redisCache = cache
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to connect to Redis: %w", err)
	}
	defer func() {
		log.Info("closing Redis connection...")
		_ = redisCache.Close()
	}()
	log.Info("Redis connection established")

	// ─────────────────────────────────────────────────────────────────────────
	// 6. ИНИЦИАЛИЗАЦИЯ РЕПОЗИТОРИЕВ
	// ─────────────────────────────────────────────────────────────────────────
	log.Info("initializing repositories...")

	userRepo := postgres.NewUserRepository(dbConn)
	avatarRepo := postgres.NewAvatarRepository(dbConn)
	taskRepo := postgres.NewTaskRepository(dbConn)
	lessonRepo := postgres.NewLessonRepository(dbConn)
	gameRepo := postgres.NewGameRepository(dbConn)

	sessionStore := redis.NewSessionStore(redisCache)
	leaderboard := redis.NewGuardedLeaderboard(redis.NewLeaderboardCache(redisCache), log)
	rateLimiter := redis.NewRateLimiter(redisCache, cfg.HTTP.RateLimitPerMinute)

	// ─────────────────────────────────────────────────────────────────────────
	// 7. ИНИЦИАЛИЗАЦИЯ АУТЕНТИФИКАЦИИ И МЕТРИК
	// ─────────────────────────────────────────────────────────────────────────
	hasher := auth.NewBcryptHasher(cfg.Auth.BcryptCost)
	tokens := auth.NewRandomTokenGenerator()

	var m *metrics.Metrics
	if cfg.HTTP.EnableMetrics {
		m = metrics.New()
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 8. ИНИЦИАЛИЗАЦИЯ APPLICATION LAYER (Commands, Queries)
	// ─────────────────────────────────────────────────────────────────────────
	log.Info("initializing application layer...")

	registerCmd := command.NewRegisterUserHandler(userRepo, avatarRepo, sessionStore, hasher, tokens, cfg.Auth.SessionTTL, log)
	loginCmd := command.NewLoginUserHandler(userRepo, avatarRepo, sessionStore, leaderboard, hasher, tokens, cfg.Auth.SessionTTL, log)
	logoutCmd := command.NewLogoutUserHandler(sessionStore)
	createTaskCmd := command.NewCreateTaskHandler(taskRepo, log)
	updateTaskCmd := command.NewUpdateTaskHandler(taskRepo, log)
	deleteTaskCmd := command.NewDeleteTaskHandler(taskRepo, log)
	completeTaskCmd := command.NewCompleteTaskHandler(taskRepo, avatarRepo, leaderboard, log)
	completeLessonCmd := command.NewCompleteLessonHandler(lessonRepo, avatarRepo, leaderboard, log)
	completeGameCmd := command.NewCompleteGameHandler(gameRepo, avatarRepo, leaderboard, log)
	usePotionCmd := command.NewUseHealthPotionHandler(avatarRepo, log)
	grantItemCmd := command.NewGrantItemHandler(avatarRepo, log)
	resetAvatarCmd := command.NewResetAvatarHandler(avatarRepo, leaderboard, log)

	avatarStatsQuery := query.NewGetAvatarStatsHandler(avatarRepo, leaderboard, log)
	achievementsQuery := query.NewGetAchievementsHandler(avatarRepo)
	leaderboardQuery := query.NewGetLeaderboardHandler(avatarRepo, leaderboard, log)
	userTasksQuery := query.NewGetUserTasksHandler(taskRepo)
	contentQuery := query.NewListContentHandler(lessonRepo, gameRepo)

	// ─────────────────────────────────────────────────────────────────────────
	// 9. СОЗДАНИЕ HTTP SERVER
	// ─────────────────────────────────────────────────────────────────────────
	log.Info("initializing HTTP server...")

	httpConfig := httpserver.DefaultConfig()
	httpConfig.Host = cfg.HTTP.Host
	httpConfig.Port = cfg.HTTP.Port
	httpConfig.ReadTimeout = cfg.HTTP.ReadTimeout
	httpConfig.WriteTimeout = cfg.HTTP.WriteTimeout
	httpConfig.IdleTimeout = cfg.HTTP.IdleTimeout
	httpConfig.EnableCORS = cfg.HTTP.EnableCORS
	httpConfig.AllowedOrigins = cfg.HTTP.AllowedOrigins
	httpConfig.EnableMetrics = cfg.HTTP.EnableMetrics
	httpConfig.EnablePprof = cfg.HTTP.EnablePprof
	httpConfig.RateLimitPerMinute = cfg.HTTP.RateLimitPerMinute

	httpDeps := httpserver.Dependencies{
		RegisterUserHandler:    registerCmd,
		LoginUserHandler:       loginCmd,
		LogoutUserHandler:      logoutCmd,
		CreateTaskHandler:      createTaskCmd,
		UpdateTaskHandler:      updateTaskCmd,
		DeleteTaskHandler:      deleteTaskCmd,
		CompleteTaskHandler:    completeTaskCmd,
		CompleteLessonHandler:  completeLessonCmd,
		CompleteGameHandler:    completeGameCmd,
		UseHealthPotionHandler: usePotionCmd,
		GrantItemHandler:       grantItemCmd,
		ResetAvatarHandler:     resetAvatarCmd,

		GetAvatarStatsHandler:  avatarStatsQuery,
		GetAchievementsHandler: achievementsQuery,
		GetLeaderboardHandler:  leaderboardQuery,
		GetUserTasksHandler:    userTasksQuery,
		ListContentHandler:     contentQuery,

		Sessions:    sessionStore,
		Features:    cfg.Features,
		Metrics:     m,
		RateLimiter: rateLimiter,
		Logger:      log,
		Database:    dbConn,
		Cache:       redisCache,
	}

	httpServer := httpserver.NewServer(httpConfig, httpDeps)

	// ─────────────────────────────────────────────────────────────────────────
	// 10. ЗАПУСК И GRACEFUL SHUTDOWN
	// ─────────────────────────────────────────────────────────────────────────
	errCh := make(chan error, 1)

	go func() {
		log.Info("starting HTTP server", logger.String("address", httpServer.Address()))
		if err := httpServer.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http server error: %w", err)
		}
	}()

	log.Info("FinEdu backend is running", logger.String("address", httpServer.Address()))

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)

	select {
	case sig := <-sigCh:
		log.Info("received shutdown signal", logger.String("signal", sig.String()))
	case err := <-errCh:
		log.Error("service error", logger.Err(err))
		return err
	case <-ctx.Done():
		log.Info("context cancelled")
	}

	log.Info("starting graceful shutdown...", logger.Duration("timeout", cfg.App.ShutdownTimeout))

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.App.ShutdownTimeout)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("failed to stop HTTP server gracefully", logger.Err(err))
		return err
	}

	log.Info("shutdown completed successfully")
	return nil
}

// connectDatabase opens the pgx pool from either DATABASE_URL or the
// individual DB_* settings.
func connectDatabase(ctx context.Context, cfg config.DatabaseConfig) (*postgres.Connection, error) {
	if cfg.URL != "" {
		return postgres.NewConnectionFromURL(ctx, cfg.URL)
	}

	pgCfg := postgres.DefaultConfig()
	pgCfg.Host = cfg.Host
	pgCfg.Port = cfg.Port
	pgCfg.Database = cfg.Name
	pgCfg.User = cfg.User
	pgCfg.Password = cfg.Password
	pgCfg.SSLMode = cfg.SSLMode
	pgCfg.MaxConns = int32(cfg.MaxConns)
	pgCfg.MinConns = int32(cfg.MinConns)
	pgCfg.MaxConnLifetime = cfg.ConnMaxLifetime
	pgCfg.MaxConnIdleTime = cfg.ConnMaxIdleTime
	pgCfg.ConnectTimeout = cfg.ConnectTimeout

	return postgres.NewConnection(ctx, pgCfg)
}
