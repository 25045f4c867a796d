package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"

	authpg "notedeck/internal/auth/adapters/postgres"
	authredis "notedeck/internal/auth/adapters/redis"
	authservices "notedeck/internal/auth/adapters/services"
	authapp "notedeck/internal/auth/app"
	"notedeck/internal/config"
	notespg "notedeck/internal/notes/adapters/postgres"
	notesapp "notedeck/internal/notes/app"
	"notedeck/internal/notes/ports/repositories"
	httpServer "notedeck/internal/server/http"
	"notedeck/pkg/db/postgres"
	"notedeck/pkg/db/redis"
	"notedeck/pkg/logger"
	"notedeck/pkg/shutdown"
)

// Константы для переменных окружения.
const (
	EnvLoggerMode  = "NOTEDECK_LOGGER_MODE"
	EnvLoggerLevel = "NOTEDECK_LOGGER_LEVEL"
)

// Константы для сообщений об ошибках.
const (
	ErrInitLogger           = "failed to initialize logger"
	ErrSyncLogger           = "failed to sync logger"
	ErrLoadConfig           = "failed to load configuration"
	ErrInitLoggerWithConfig = "failed to initialize logger with configuration settings"
	ErrRunMigrations        = "failed to run database migrations"
	ErrConnectPostgres      = "failed to connect to PostgreSQL"
	ErrConnectRedis         = "failed to connect to Redis"
	ErrStartHTTPServer      = "failed to start HTTP server"
)

// Константы для игнорируемых ошибок.
const (
	ErrSyncStderr = "sync /dev/stderr: invalid argument"
	ErrSyncStdout = "sync /dev/stdout: invalid argument"
)

// Константы для сообщений сервиса.
const (
	LogServiceStarted      = "notedeck service started"
	LogServiceShutdownDone = "notedeck service shutdown complete"
	LogRunningMigrations   = "running database migrations"
	LogInitPostgres        = "initializing PostgreSQL connection"
	LogInitRedis           = "initializing Redis connection"
	LogInitServices        = "initializing services"
	LogInitHTTPServer      = "initializing HTTP server"
	LogStartingHTTP        = "starting HTTP server"
	LogStoppingHTTP        = "stopping HTTP server"
	LogSearchStrategy      = "search strategy selected"
)

const migrationsPath = "migrations"

func main() {
	env := logger.Development
	if strings.ToLower(os.Getenv(EnvLoggerMode)) == "production" {
		env = logger.Production
	}

	log, err := logger.NewLogger(env, os.Getenv(EnvLoggerLevel))
	if err != nil {
		panic(ErrInitLogger + ": " + err.Error())
	}

	logger.SetGlobalLogger(log)

	ctx := logger.NewRequestIDContext(context.Background(), "")

	var exitCode int

	func() {
		defer func() {
			if err := log.Sync(); err != nil {
				errMsg := err.Error()
				if strings.Contains(errMsg, ErrSyncStderr) || strings.Contains(errMsg, ErrSyncStdout) {
					return
				}
				if _, writeErr := fmt.Fprintf(os.Stderr, "%s: %v\n", ErrSyncLogger, err); writeErr != nil {
					panic(writeErr)
				}
			}
		}()

		cfg, err := config.Load(ctx)
		if err != nil {
			log.Error(ctx, ErrLoadConfig, zap.Error(err))
			exitCode = 1
			return
		}

		finalLogger, err := logger.NewLogger(cfg.Logging.GetEnvironment(), cfg.Logging.Level)
		if err != nil {
			log.Error(ctx, ErrInitLoggerWithConfig, zap.Error(err))
			exitCode = 1
			return
		}
		logger.SetGlobalLogger(finalLogger)
		log = finalLogger

		log.Info(ctx, LogServiceStarted,
			zap.String("environment", string(env)),
			zap.String("log_level", cfg.Logging.Level),
			zap.String("startup_time", time.Now().Format(time.RFC3339)))

		log.Info(ctx, LogRunningMigrations)
		if err := postgres.MigrateDSN(ctx, cfg.Postgres.GetConnectionURL(), migrationsPath); err != nil {
			log.Error(ctx, ErrRunMigrations, zap.Error(err))
			exitCode = 1
			return
		}

		log.Info(ctx, LogInitPostgres)
		database, err := postgres.New(ctx, cfg.Postgres.GetDSN(), cfg.Postgres.MinConn, cfg.Postgres.MaxConn)
		if err != nil {
			log.Error(ctx, ErrConnectPostgres, zap.Error(err))
			exitCode = 1
			return
		}

		log.Info(ctx, LogInitRedis)
		redisClient, err := redis.NewClient(ctx, &redis.Config{
			Addr:     cfg.Redis.GetAddressString(),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			PoolSize: cfg.Redis.PoolSize,
			Timeout:  cfg.Redis.GetTimeout(),
		})
		if err != nil {
			log.Error(ctx, ErrConnectRedis, zap.Error(err))
			exitCode = 1
			return
		}

		log.Info(ctx, LogInitServices)
		serviceFactory := authservices.NewServiceFactory(
			cfg.JWT.SecretKey,
			cfg.JWT.GetAccessTokenTTL(),
			cfg.JWT.GetRefreshTokenTTL(),
			cfg.JWT.BCryptCost,
		)

		userRepo := authpg.NewUserRepository(database.Pool())
		revocations := authredis.NewRevocationList(redisClient)
		authUseCase := authapp.NewAuthUseCase(
			userRepo,
			revocations,
			serviceFactory.PasswordService(),
			serviceFactory.TokenService(),
		)

		noteRepo := notespg.NewNoteRepository(database.Pool())
		tagRepo := notespg.NewTagRepository(database.Pool())

		substring := notespg.NewSubstringStrategy(database.Pool())
		var primary repositories.SearchStrategy = substring
		if cfg.Search.Ranked && notespg.ProbeFullText(ctx, database.Pool()) {
			primary = notespg.NewFullTextStrategy(database.Pool())
		}
		searchEngine := notesapp.NewSearchEngine(primary, substring)
		log.Info(ctx, LogSearchStrategy, zap.String("strategy", searchEngine.Primary()))

		noteUseCase := notesapp.NewNoteUseCase(noteRepo, searchEngine)
		tagUseCase := notesapp.NewTagUseCase(tagRepo)

		log.Info(ctx, LogInitHTTPServer)
		app := fiber.New(fiber.Config{
			ReadTimeout:  cfg.HTTP.GetReadTimeout(),
			WriteTimeout: cfg.HTTP.GetWriteTimeout(),
			ErrorHandler: httpServer.ErrorHandler,
		})

		httpServer.SetupRouter(app, authUseCase, noteUseCase, tagUseCase)

		log.Info(ctx, LogStartingHTTP, zap.String("address", cfg.HTTP.GetAddress()))
		go func() {
			if err := app.Listen(cfg.HTTP.GetAddress()); err != nil {
				log.Error(ctx, ErrStartHTTPServer, zap.Error(err))
			}
		}()

		shutdown.Wait(ctx, cfg.Shutdown.GetTimeout(),
			// Остановка HTTP сервера.
			func(ctx context.Context) error {
				log.Info(ctx, LogStoppingHTTP)
				return app.Shutdown()
			},
			// Закрытие пула PostgreSQL.
			func(ctx context.Context) error {
				log.Info(ctx, "Closing PostgreSQL pool")
				database.Close(ctx)
				return nil
			},
			// Закрытие Redis соединения.
			func(ctx context.Context) error {
				log.Info(ctx, "Closing Redis connection")
				return redisClient.Close()
			},
		)

		log.Info(ctx, LogServiceShutdownDone)
	}()

	if exitCode != 0 {
		os.Exit(exitCode)
	}
}
