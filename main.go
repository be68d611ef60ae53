package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"tourdesk/auth"
	"tourdesk/config"
	"tourdesk/db"
	"tourdesk/inquiries"
	"tourdesk/logx"
	"tourdesk/mq"
	"tourdesk/packages"
	"tourdesk/pagecontent"
	"tourdesk/ratelim"
	"tourdesk/routes"
	"tourdesk/settings"
	"tourdesk/upload"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("loading config failed", "error", err)
		os.Exit(1)
	}
	log := logx.New(cfg.Log.Level, cfg.Log.Format)
	slog.SetDefault(log)

	ctx := context.Background()

	if err := db.Connect(ctx, cfg.Mongo.URI, cfg.Mongo.Database, cfg.Mongo.Timeout); err != nil {
		log.Error("mongo unavailable", "error", err)
		os.Exit(1)
	}
	if err := db.EnsureIndexes(ctx); err != nil {
		log.Error("creating indexes failed", "error", err)
		os.Exit(1)
	}

	pageStore := pagecontent.NewMongoStore(db.PageContentCollection)
	if err := pagecontent.Migrate(ctx, pageStore, log); err != nil {
		log.Error("page content migration failed", "error", err)
		os.Exit(1)
	}

	adminStore := auth.NewMongoAdminStore(db.AdminsCollection)
	if err := auth.EnsureAdmin(ctx, adminStore, cfg.Auth.AdminEmail, cfg.Auth.AdminPassword, log); err != nil {
		log.Error("bootstrapping admin failed", "error", err)
		os.Exit(1)
	}

	// events go to redis when configured, otherwise only to the log
	var publisher mq.Publisher = mq.LogPublisher{Log: log}
	var rdb *redis.Client
	if cfg.Redis.URL != "" {
		rdb, err = mq.Connect(ctx, cfg.Redis.URL)
		if err != nil {
			log.Error("redis unavailable", "error", err)
			os.Exit(1)
		}
		publisher = mq.NewRedisPublisher(rdb, cfg.Redis.Channel)
	}

	var uploadHandler *upload.Handler
	uploader, err := upload.NewS3Uploader(cfg.Storage)
	switch {
	case errors.Is(err, upload.ErrNotConfigured):
		log.Warn("storage bucket not set; uploads disabled")
	case err != nil:
		log.Error("storage setup failed", "error", err)
		os.Exit(1)
	default:
		uploadHandler = upload.NewHandler(uploader, cfg.Storage.MaxUpload, log)
	}

	health := &routes.Health{Mongo: db.Ping}
	if rdb != nil {
		health.Redis = func(ctx context.Context) error { return rdb.Ping(ctx).Err() }
	}

	secret := []byte(cfg.Auth.JWTSecret)
	deps := routes.Deps{
		Packages: packages.NewHandler(
			packages.NewService(packages.NewMongoStore(db.PackagesCollection), publisher, log),
			log, cfg.Site.PublicURL),
		Inquiries:   inquiries.NewHandler(inquiries.NewMongoStore(db.InquiriesCollection), publisher, log),
		PageContent: pagecontent.NewHandler(pageStore, log),
		Settings:    settings.NewHandler(settings.NewMongoStore(db.SettingsCollection), log),
		Upload:      uploadHandler,
		Auth:        auth.NewService(adminStore, secret, cfg.Auth.TokenTTL, log),
		Health:      health,
		Secret:      secret,
		RateLimiter: ratelim.NewRateLimiter(cfg.RateLimit.PerMinute, cfg.RateLimit.Burst),
		Log:         log,
	}

	// CORS → security headers → request id → logging → recover → authorization → router
	handler := routes.Chain(deps, routes.New(deps), cfg.CORS.AllowedOrigins)

	server := &http.Server{
		Addr:              cfg.Server.Address(),
		Handler:           handler,
		ReadTimeout:       cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
		ReadHeaderTimeout: 2 * time.Second,
		ErrorLog:          slog.NewLogLogger(log.Handler(), slog.LevelWarn),
	}

	server.RegisterOnShutdown(func() {
		log.Info("closing connections")
		if rdb != nil {
			_ = rdb.Close()
		}
	})

	go func() {
		log.Info("server listening", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("ListenAndServe error", "error", err)
			os.Exit(1)
		}
	}()

	// wait for interrupt or SIGTERM
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	log.Info("shutdown signal received; shutting down gracefully")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
	}
	if err := db.Disconnect(shutdownCtx); err != nil {
		log.Warn("mongo disconnect failed", "error", err)
	}

	log.Info("server stopped cleanly")
}
