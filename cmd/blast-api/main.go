package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang-chat-blast/internal/adapters/cache"
	"golang-chat-blast/internal/adapters/history"
	historyfile "golang-chat-blast/internal/adapters/history/file"
	historypg "golang-chat-blast/internal/adapters/history/postgres"
	"golang-chat-blast/internal/adapters/platform/httpgw"
	"golang-chat-blast/internal/adapters/queue/rabbitmq"
	"golang-chat-blast/internal/app"
	cfg "golang-chat-blast/internal/config"
	"golang-chat-blast/internal/middleware"
	"golang-chat-blast/internal/policy"
	"golang-chat-blast/internal/ports"
	"golang-chat-blast/internal/session"
	"golang-chat-blast/internal/transport"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/redis/go-redis/v9"
)

func main() {
	log := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{AddSource: true}))
	if err := run(log); err != nil {
		log.Error("application failed", "error", err)
		os.Exit(1)
	}
}

func run(log *slog.Logger) error {
	conf := cfg.FromEnv()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// ── Session ──────────────────────────────────────────────────────────────
	gateway := httpgw.New(conf.PlatformURL)
	sess := session.NewManager(gateway, conf.Identity, log)

	go func() {
		if err := sess.Run(ctx); err != nil && ctx.Err() == nil {
			log.Error("session lifecycle stream failed", "err", err)
		}
	}()

	// ── History backends ─────────────────────────────────────────────────────
	recorders := []ports.HistoryRecorder{historyfile.New(conf.HistoryDir)}

	if conf.DatabaseURL != "" {
		pg, err := historypg.New(conf.DatabaseURL)
		if err != nil {
			return errors.New("failed to connect to postgres: " + err.Error())
		}
		defer pg.Close()
		recorders = append(recorders, pg)
	}

	if conf.AMQPURL != "" {
		publisher, err := rabbitmq.NewPublisher(conf.AMQPURL)
		if err != nil {
			return errors.New("failed to connect to rabbitmq: " + err.Error())
		}
		defer publisher.Close()
		recorders = append(recorders, publisher)
	}

	var sentCache ports.SentCache
	if conf.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: conf.RedisAddr})
		defer rdb.Close()
		sentCache = cache.NewRedisSentCache(rdb, conf.RedisTTL)
	}

	// ── Dispatch pipeline ────────────────────────────────────────────────────
	dispatcher := app.NewDispatcher(
		sess,
		policy.NewQuota(conf.DailyLimit),
		policy.NewPacer(),
		history.NewMulti(recorders...),
		sentCache,
		log,
	)

	fiberApp := fiber.New(fiber.Config{
		AppName:               "blast-api",
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		// No write timeout: a /send response is only written after the whole
		// batch has been paced through, which can take minutes.
		IdleTimeout:  120 * time.Second,
		ServerHeader: "",
		BodyLimit:    1 * 1024 * 1024, // 1MB
	})

	fiberApp.Use(recover.New(recover.Config{
		EnableStackTrace: true,
	}))

	fiberApp.Use(logger.New(logger.Config{
		Format:     "[${time}] ${status} - ${method} ${path} ${latency}\n",
		TimeFormat: "2006-01-02 15:04:05",
	}))

	fiberApp.Use(middleware.RequestID())
	fiberApp.Use(middleware.SecurityHeaders())
	fiberApp.Use(middleware.CORS(conf.AllowedOrigins))

	// 100 requests per minute per IP; /send itself serializes internally.
	rateLimiter := middleware.NewRateLimiter(100, 1*time.Minute)
	fiberApp.Use(rateLimiter.Middleware())

	handler := transport.NewHandler(dispatcher, sess, log)
	handler.Register(fiberApp)

	errChan := make(chan error, 1)
	go func() {
		log.Info("blast-api started", "addr", conf.HTTPAddr, "identity", conf.Identity)
		if err := fiberApp.Listen(conf.HTTPAddr); err != nil {
			errChan <- err
		}
	}()

	select {
	case <-ctx.Done():
		log.Info("shutdown signal received")
	case err := <-errChan:
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := fiberApp.ShutdownWithContext(shutdownCtx); err != nil {
		return errors.New("failed to shutdown gracefully: " + err.Error())
	}

	log.Info("blast-api stopped gracefully")
	return nil
}
