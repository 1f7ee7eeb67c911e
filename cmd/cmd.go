package cmd

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"tindog-backend/internal/config"
	"tindog-backend/internal/events"
	"tindog-backend/internal/gemini"
	"tindog-backend/internal/handlers"
	"tindog-backend/internal/repository"
	"tindog-backend/internal/services"
	"tindog-backend/internal/storage"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const fanOutDurable = "message-fanout"

func Run() {
	configPath := flag.String("config", "config.yaml", "path to the YAML config file")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// Setup logger
	setupLogger(cfg.Log.Level)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Connect to database
	db, err := pgxpool.New(ctx, cfg.Database.DSN())
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer db.Close()

	// Test database connection
	if err := db.Ping(ctx); err != nil {
		log.Fatal().Err(err).Msg("Failed to ping database")
	}
	log.Info().Msg("Database connection established")

	if err := repository.Migrate(ctx, db); err != nil {
		log.Fatal().Err(err).Msg("Failed to migrate database")
	}

	// Initialize repositories
	dogRepo := repository.NewDogRepository(db)
	chatRepo := repository.NewChatRepository(db)
	messageRepo := repository.NewMessageRepository(db)

	// Initialize external clients
	objects, err := storage.NewS3Storage(ctx, storage.Options{
		Region:        cfg.AWS.Region,
		Bucket:        cfg.Storage.Bucket,
		AccessKey:     cfg.AWS.AccessKey,
		SecretKey:     cfg.AWS.SecretKey,
		Endpoint:      cfg.AWS.Endpoint,
		PublicBaseURL: cfg.Storage.PublicBaseURL,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create object storage")
	}
	model, err := gemini.NewClient(ctx, gemini.Options{
		APIKey:     cfg.Gemini.APIKey,
		Model:      cfg.Gemini.Model,
		BaseURL:    cfg.Gemini.BaseURL,
		APIVersion: cfg.Gemini.APIVersion,
		Timeout:    cfg.Gemini.Timeout,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create Gemini client")
	}

	// Initialize services
	authService := services.NewAuthService(cfg.JWT.Secret)
	dogService := services.NewDogService(dogRepo)
	matchService := services.NewMatchService(dogRepo, chatRepo, model, cfg.Storage.PublicBaseURL, cfg.Storage.Bucket)
	photoService := services.NewPhotoService(objects, model)

	// Event bus: NATS JetStream when configured, otherwise in-process
	var messageService *services.MessageService
	if cfg.NATS.URL != "" {
		bus, err := events.NewNATSBus(ctx, cfg.NATS.URL, cfg.NATS.Stream)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to event bus")
		}
		defer bus.Close()

		messageService = services.NewMessageService(chatRepo, messageRepo, bus)
		consumer, err := bus.SubscribeMessageCreated(ctx, fanOutDurable, messageService.FanOut)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to subscribe to message events")
		}
		defer consumer.Stop()
		log.Info().Str("url", cfg.NATS.URL).Str("stream", cfg.NATS.Stream).Msg("Using NATS event bus")
	} else {
		bus := events.NewLocalBus()
		messageService = services.NewMessageService(chatRepo, messageRepo, bus)
		bus.SubscribeMessageCreated(messageService.FanOut)
		log.Info().Msg("Using in-process event bus")
	}

	// Setup router
	router := handlers.NewRouter(handlers.Handlers{
		Dogs:   handlers.NewDogHandler(dogService),
		Match:  handlers.NewMatchHandler(matchService),
		Photos: handlers.NewPhotoHandler(photoService),
		Chats:  handlers.NewChatHandler(messageService),
	}, authService)

	// Create HTTP server
	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler: router,
		// classification and match generation wait on the model
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.Gemini.Timeout + 15*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Info().
			Str("host", cfg.Server.Host).
			Int("port", cfg.Server.Port).
			Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed to start")
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	<-ctx.Done()

	log.Info().Msg("Shutting down server...")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}

// setupLogger configures the global zerolog logger
func setupLogger(level string) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	zerolog.SetGlobalLevel(parseLevel(level))
}

// parseLevel falls back to info for empty or unknown levels
func parseLevel(level string) zerolog.Level {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil || lvl == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return lvl
}
