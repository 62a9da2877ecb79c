package main

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/rupify/backend/internal/config"
	"github.com/rupify/backend/pkg/alerts"
	v1 "github.com/rupify/backend/pkg/controllers/v1"
	"github.com/rupify/backend/pkg/db"
	"github.com/rupify/backend/pkg/ledger"
	"github.com/rupify/backend/pkg/notify"
	"github.com/rupify/backend/pkg/router"
)

func main() {
	// A .env file is optional
	_ = godotenv.Load()

	// gin uses debug as the default mode, we use release for
	// security reasons
	ginMode, ok := os.LookupEnv("GIN_MODE")
	if !ok {
		gin.SetMode("release")
	} else {
		gin.SetMode(ginMode)
	}

	// Log format can be explicitly set.
	// If it is not set, it defaults to human readable for development
	// and JSON for release
	logFormat, ok := os.LookupEnv("LOG_FORMAT")
	output := io.Writer(os.Stdout)
	if (!ok && gin.IsDebugging()) || (ok && logFormat == "human") {
		output = zerolog.ConsoleWriter{Out: os.Stdout}
	}

	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if gin.IsDebugging() {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	log.Logger = log.Output(output).With().Timestamp().Logger()

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatal().Msg(err.Error())
	}

	// Create the directory for the SQLite database
	if !db.IsPostgres(cfg.DatabaseURL) {
		path, _, _ := strings.Cut(cfg.DatabaseURL, "?")
		err := os.MkdirAll(filepath.Dir(path), os.ModePerm)
		if err != nil {
			log.Fatal().Msg(err.Error())
		}
	}

	conn, err := db.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Msg(err.Error())
	}
	store := db.NewStore(conn)

	notifier, closeNotifier, err := newNotifier(cfg)
	if err != nil {
		log.Fatal().Msg(err.Error())
	}
	defer closeNotifier()

	scheduler := alerts.NewScheduler(store, notifier,
		alerts.WithConcurrency(cfg.AlertConcurrency),
		alerts.WithTimeout(cfg.AlertTimeout),
		alerts.WithLocale(cfg.AlertLocale),
	)

	r, teardown, err := router.Config(cfg)
	defer teardown()
	if err != nil {
		log.Fatal().Msg(err.Error())
	}

	co := v1.Controller{
		Service: ledger.NewService(store),
		Alerts:  scheduler,
	}
	router.AttachRoutes(r.Group("/"), co, store, cfg)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go runAlerts(ctx, scheduler, cfg.AlertInterval)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("address", srv.Addr).Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Msg(err.Error())
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	log.Info().Str("signal", sig.String()).Msg("Shutting down")

	// Stop running alert passes before the database goes away
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server shutdown")
	}

	sqlDB, err := conn.DB()
	if err == nil {
		sqlDB.Close()
	}

	log.Info().Msg("Shutdown complete")
}

// newNotifier creates the notifier selected in the configuration. The
// returned function releases its resources.
func newNotifier(cfg *config.Config) (notify.Notifier, func(), error) {
	switch cfg.Notifier {
	case config.NotifierEmail:
		log.Info().Str("api", cfg.EmailAPIURL).Msg("Sending budget alerts by email")
		return notify.NewEmail(cfg.EmailAPIKey, cfg.EmailFrom,
			notify.WithBaseURL(cfg.EmailAPIURL),
			notify.WithRateLimit(cfg.EmailRateLimit),
		), func() {}, nil

	case config.NotifierAMQP:
		publisher, err := notify.NewAMQP(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			return nil, func() {}, err
		}

		log.Info().Str("exchange", cfg.AMQPExchange).Str("queue", cfg.AMQPQueue).Msg("Publishing budget alerts to AMQP")
		return publisher, func() {
			if err := publisher.Close(); err != nil {
				log.Error().Err(err).Msg("Closing AMQP connection")
			}
		}, nil

	default:
		log.Info().Msg("Budget alerts are only logged")
		return notify.Log{}, func() {}, nil
	}
}

// runAlerts runs the budget alert pass on startup and then on every interval
// until the context is canceled.
func runAlerts(ctx context.Context, scheduler *alerts.Scheduler, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	log.Info().Dur("interval", interval).Msg("Budget alerts scheduled")

	for {
		if _, err := scheduler.Run(ctx); err != nil {
			log.Error().Err(err).Msg("Budget alert pass failed")
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
