package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/cors"
	"github.com/rs/zerolog"

	"lessonbook/internal/availability"
	"lessonbook/internal/booking"
	"lessonbook/internal/config"
	"lessonbook/internal/events"
	"lessonbook/internal/metrics"
	"lessonbook/internal/notify"
	"lessonbook/internal/reminder"
	"lessonbook/internal/selection"
	"lessonbook/internal/server"
	"lessonbook/internal/store"
)

func main() {
	_ = godotenv.Load()

	output := zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
	logger := zerolog.New(output).With().Timestamp().Logger()

	cfg, err := config.Load(os.Getenv("LESSONBOOK_CONFIG_PATH"))
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load config")
	}
	if cfg.Auth.JWTSecret == "" {
		logger.Fatal().Msg("set auth.jwt_secret in config")
	}

	db, err := store.New(cfg.Database.Path)
	if err != nil {
		logger.Fatal().Err(err).Msg("open db error")
	}
	defer db.Close()

	var rdb *redis.Client
	var selections selection.Store
	if cfg.Redis.Address != "" {
		rdb = redis.NewClient(&redis.Options{Addr: cfg.Redis.Address, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
		selections = selection.NewRedisStore(rdb, cfg.SelectionTTL())
	} else {
		mem := selection.NewMemoryStore(cfg.SelectionTTL())
		selections = mem
		go sweepSelections(mem, &logger)
	}

	sender := notify.NewEmailSender(notify.EmailSenderConfig{
		BaseURL:       cfg.Email.BaseURL,
		APIKey:        cfg.Email.APIKey,
		From:          cfg.Email.From,
		AdminEmail:    cfg.Email.AdminEmail,
		ActionBaseURL: cfg.Server.PublicURL,
		Rate:          cfg.Email.Rate,
		Burst:         cfg.Email.Burst,
	}, logger)

	notifier := notify.Fanout{sender}
	if cfg.Telegram.Enabled {
		alerter, err := notify.NewTelegramAlerter(cfg.Telegram.BotToken, cfg.Telegram.ChatID)
		if err != nil {
			logger.Fatal().Err(err).Msg("create telegram alerter error")
		}
		notifier = append(notifier, alerter)
	}

	bus := events.NewBus()
	for _, eventType := range []string{events.TypeBookingCreated, events.TypeBookingConfirmed, events.TypeBookingCancelled} {
		bus.Subscribe(eventType, func(e events.Event) {
			logger.Info().Str("event", e.Type).Str("booking_id", e.BookingID).Msg("booking event")
		})
	}

	engine := availability.NewEngine(cfg.BusinessHours(), cfg.Booking.HorizonDays)
	svc := booking.NewService(db, engine, notifier, bus, logger)
	srv := server.New(svc, selections, sender, db, []byte(cfg.Auth.JWTSecret), cfg.Auth.AdminAPIKey, logger)

	handler := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost},
		AllowedHeaders: []string{"Authorization", "Content-Type", "x-api-key"},
	}).Handler(srv.Router())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go store.NewBackup(cfg.Database.Path, cfg.Database.Backup, logger).Run(ctx)

	if cfg.Booking.Reminders.Enabled {
		schedCfg := reminder.DefaultSchedulerConfig()
		schedCfg.Hour = cfg.Booking.Reminders.Hour
		reminders := reminder.NewService(db, sender, logger)
		go reminder.NewScheduler(schedCfg, reminders).Start(ctx)
	}

	go startHealthServer(ctx, cfg.Monitoring.HealthCheckPort, db, rdb, &logger)

	if cfg.Monitoring.PrometheusEnabled {
		metrics.Register()
		go startMetricsServer(ctx, cfg.Monitoring.PrometheusPort, &logger)
	}

	httpSrv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		<-ctx.Done()
		ctxShutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = httpSrv.Shutdown(ctxShutdown)
	}()

	logger.Info().Int("port", cfg.Server.Port).Msg("booking service started")
	if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatal().Err(err).Msg("http server error")
	}
}

// sweepSelections drops expired in-memory selections periodically. Redis
// handles expiry itself via TTLs.
func sweepSelections(mem *selection.MemoryStore, logger *zerolog.Logger) {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()
	for range ticker.C {
		if removed := mem.Cleanup(); removed > 0 {
			logger.Debug().Int("removed", removed).Msg("expired selections swept")
		}
	}
}

func startHealthServer(ctx context.Context, port int, db *store.DB, rdb *redis.Client, logger *zerolog.Logger) {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	mux.HandleFunc("/readyz", func(w http.ResponseWriter, _ *http.Request) {
		ctxPing, cancel := context.WithTimeout(ctx, time.Second)
		defer cancel()
		if err := db.PingContext(ctxPing); err != nil {
			http.Error(w, "db not ready", http.StatusServiceUnavailable)
			return
		}
		if rdb != nil {
			if err := rdb.Ping(ctxPing).Err(); err != nil {
				http.Error(w, "redis not ready", http.StatusServiceUnavailable)
				return
			}
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	srv := &http.Server{Addr: fmt.Sprintf(":%d", port), Handler: mux}
	go func() {
		<-ctx.Done()
		ctxShutdown, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctxShutdown)
	}()
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error().Err(err).Msg("health server error")
	}
}

func startMetricsServer(ctx context.Context, port int, logger *zerolog.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{Addr: fmt.Sprintf(":%d", port), Handler: mux}
	go func() {
		<-ctx.Done()
		ctxShutdown, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctxShutdown)
	}()
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error().Err(err).Msg("metrics server error")
	}
}
