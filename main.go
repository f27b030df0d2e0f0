package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"qwirkle-server/config"
	"qwirkle-server/handlers"
	"qwirkle-server/middleware"
	"qwirkle-server/services"
	"qwirkle-server/utils"
	"qwirkle-server/workers"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}
	utils.SetupLogger(cfg.LogLevel, cfg.Env == "development")

	gormLevel := logger.Warn
	if cfg.LogLevel == "debug" {
		gormLevel = logger.Info
	}
	db, err := utils.OpenDatabase(cfg.DBDriver, cfg.DatabaseURL, gormLevel)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	if err := utils.Migrate(db); err != nil {
		log.Fatal().Err(err).Msg("failed to migrate database")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	gameService := services.NewGameService(db)
	authService := services.NewAuthService(db, cfg.JWTSecret, cfg.TokenTTL)

	seeded, err := gameService.SeedTiles(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to seed tiles")
	}
	log.Info().Int("inserted", seeded).Msg("tile catalog ready")

	janitor, err := gameService.StartLobbyJanitor(cfg.LobbyTTL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to start lobby janitor")
	}
	defer func() { _ = janitor.Shutdown() }()

	if cfg.Archive.Enabled() {
		store, err := utils.NewObjectStore(ctx, cfg.Archive)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to initialize archive store")
		}
		archiveService := services.NewArchiveService(db, store)
		workers.NewArchiveWorker(archiveService, cfg.Archive.Interval).Start(ctx)
	} else {
		log.Info().Msg("ARCHIVE_BUCKET not set, finished games will not be archived")
	}

	app := fiber.New(fiber.Config{
		AppName:      "qwirkle-server",
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	})
	app.Use(recover.New())
	app.Use(requestid.New(requestid.Config{Generator: uuid.NewString}))
	app.Use(middleware.RequestLogger())
	app.Use(cors.New(cors.Config{
		AllowOrigins:  strings.Join(cfg.AllowedOrigins, ","),
		AllowMethods:  "GET,POST,DELETE,OPTIONS",
		AllowHeaders:  "Origin, Content-Type, Accept, Authorization, X-Auth-Token, X-Request-ID",
		ExposeHeaders: "Content-Length, Content-Type, X-Request-ID",
		MaxAge:        86400,
	}))

	handlers.SetupRoutes(app, gameService, authService)

	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Error().Err(err).Msg("server error")
			stop()
		}
	}()

	log.Info().Str("port", cfg.Port).Str("db", cfg.DBDriver).Strs("origins", cfg.AllowedOrigins).Msg("server running")

	<-ctx.Done()
	log.Info().Msg("shutting down server")
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		log.Error().Err(err).Msg("shutdown error")
	}
}
