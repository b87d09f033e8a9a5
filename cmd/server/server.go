package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	gormlogger "gorm.io/gorm/logger"

	"clipvive/services/intake-api/internal/config"
	"clipvive/services/intake-api/internal/domain/job"
	"clipvive/services/intake-api/internal/domain/retention"
	"clipvive/services/intake-api/internal/domain/user"
	"clipvive/services/intake-api/internal/infrastructure/auth"
	"clipvive/services/intake-api/internal/infrastructure/database"
	"clipvive/services/intake-api/internal/infrastructure/logger"
	jobrepo "clipvive/services/intake-api/internal/infrastructure/repository/job"
	userrepo "clipvive/services/intake-api/internal/infrastructure/repository/user"
	"clipvive/services/intake-api/internal/infrastructure/storage"
	"clipvive/services/intake-api/internal/interfaces/httpserver"
	"clipvive/services/intake-api/internal/interfaces/httpserver/handlers"
)

// Application bundles the long-lived processes: the HTTP server handling the
// intake path and the retention sweeper reclaiming disk in the background.
type Application struct {
	httpServer *httpserver.HttpServer
	sweeper    *retention.Sweeper
	log        zerolog.Logger
}

func NewApplication(httpServer *httpserver.HttpServer, sweeper *retention.Sweeper, log zerolog.Logger) *Application {
	return &Application{
		httpServer: httpServer,
		sweeper:    sweeper,
		log:        log,
	}
}

func (a *Application) Start(ctx context.Context) error {
	go a.sweeper.Run(ctx)
	return a.httpServer.Run(ctx)
}

func main() {
	loadEnvFiles()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log := logger.New(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.Connect(database.Config{
		DSN:             cfg.DatabaseURL,
		MaxIdleConns:    cfg.DBMaxIdleConns,
		MaxOpenConns:    cfg.DBMaxOpenConns,
		ConnMaxLifetime: cfg.DBConnLifetime,
		LogLevel:        gormlogger.Warn,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("connect database")
	}

	if err := database.AutoMigrate(ctx, db, log); err != nil {
		log.Fatal().Err(err).Msg("migrate database")
	}

	localStorage, err := storage.NewLocalStorage(cfg.StoragePath, log)
	if err != nil {
		log.Fatal().Err(err).Msg("initialize local storage")
	}

	remoteStorage, err := storage.NewS3Storage(ctx, cfg, localStorage, log)
	if err != nil {
		log.Fatal().Err(err).Msg("initialize remote storage")
	}

	userRepository := userrepo.NewRepository(db)
	jobRepository := jobrepo.NewRepository(db)

	userService := user.NewService(cfg.PlanQuotas(), userRepository, log)
	jobService := job.NewService(job.Config{
		RemoveLocalAfterUpload: cfg.RemoveLocalAfterUpload,
	}, jobRepository, userService, localStorage, remoteStorage, log)

	sweeper := retention.NewSweeper(retention.Config{
		Retention: cfg.RetentionPeriod(),
		Interval:  cfg.SweepInterval,
	}, jobRepository, userService, localStorage, log)

	tokens := auth.NewManager(cfg, log)
	provider := handlers.NewProvider(jobService, userService, tokens, log)
	httpServer := httpserver.New(cfg, log, provider, tokens)

	app := NewApplication(httpServer, sweeper, log)
	if err := app.Start(ctx); err != nil {
		log.Fatal().Err(err).Msg("application stopped with error")
	}

	log.Info().Msg("application exited cleanly")
}

func loadEnvFiles() {
	paths := []string{".env", "../.env"}
	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			if err := godotenv.Overload(path); err != nil {
				fmt.Fprintf(os.Stderr, "warning: failed to load %s: %v\n", path, err)
			}
		}
	}
}
