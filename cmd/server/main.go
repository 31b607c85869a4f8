package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/iudanet/jobboard/internal/cache"
	"github.com/iudanet/jobboard/internal/config"
	"github.com/iudanet/jobboard/internal/mailer"
	"github.com/iudanet/jobboard/internal/server"
	"github.com/iudanet/jobboard/internal/server/auth"
	"github.com/iudanet/jobboard/internal/server/handlers"
	"github.com/iudanet/jobboard/internal/server/middleware"
	"github.com/iudanet/jobboard/internal/server/storage/sqlstore"
	"github.com/iudanet/jobboard/internal/stats"
)

var (
	// Version information set via ldflags during build
	Version   = "dev"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// Parse flags
	showVersion := flag.Bool("version", false, "Show version information")
	envFile := flag.String("env-file", ".env", "Path to .env file (optional)")
	flag.Parse()

	// Show version and exit if requested
	if *showVersion {
		printVersion()
		os.Exit(0)
	}

	cfg, err := config.Load(*envFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}

	logger := newLogger(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("server stopped with error", slog.Any("error", err))
		os.Exit(1)
	}
}

func printVersion() {
	fmt.Printf("JobBoard Server\n")
	fmt.Printf("Version:    %s\n", Version)
	fmt.Printf("Build Date: %s\n", BuildDate)
	fmt.Printf("Git Commit: %s\n", GitCommit)
}

// newLogger JSON в production, текст в остальных окружениях
func newLogger(cfg *config.Config) *slog.Logger {
	opts := &slog.HandlerOptions{Level: cfg.LogLevel}
	if cfg.IsProduction() {
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, opts))
}

func run(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	// Storage
	dialect, err := sqlstore.DialectByName(cfg.DBDriver)
	if err != nil {
		return err
	}

	store, err := sqlstore.New(ctx, dialect, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to open storage: %w", err)
	}
	defer store.Close()

	logger.Info("storage ready", slog.String("driver", cfg.DBDriver))

	// Mail
	sender, closeMail, err := newMailSender(cfg, logger)
	if err != nil {
		return err
	}
	defer closeMail()

	// Tokens
	tokens, err := auth.NewService(auth.Config{
		Access:  auth.KeyConfig{Secret: []byte(cfg.AccessTokenSecret), TTL: cfg.AccessTokenTTL},
		Refresh: auth.KeyConfig{Secret: []byte(cfg.RefreshTokenSecret), TTL: cfg.RefreshTokenTTL},
		Email:   auth.KeyConfig{Secret: []byte(cfg.EmailTokenSecret), TTL: cfg.EmailTokenTTL},
	})
	if err != nil {
		return fmt.Errorf("failed to create token service: %w", err)
	}

	// Redis опционален: без него статистика считается на запрос, а лимит держится в памяти
	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		redisClient, err = cache.NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			return err
		}
		defer redisClient.Close()
		logger.Info("redis connected")
	}

	var statsCache stats.Cache
	var authLimiter middleware.Limiter
	if redisClient != nil {
		statsCache = stats.NewRedisCache(redisClient, cfg.StatsCacheTTL)
		authLimiter = middleware.NewRedisLimiter(redisClient, cfg.AuthRateLimit, cfg.AuthRateWindow, "jobboard:auth", logger)
	} else {
		memLimiter := middleware.NewRateLimiter(cfg.AuthRateLimit, cfg.AuthRateWindow, logger)
		defer memLimiter.Stop()
		authLimiter = memLimiter
	}

	statsService := stats.NewService(stats.NewAggregator(store), statsCache, logger)
	if statsCache != nil {
		refresher := stats.NewRefresher(statsService, cfg.StatsRefreshSpec, logger)
		if err := refresher.Start(ctx); err != nil {
			return err
		}
		defer refresher.Stop()
	}

	router := server.NewRouter(server.RouterConfig{
		Logger: logger,
		Jobs:   handlers.NewJobsHandler(logger, store, statsService, cfg.MaxPageSize),
		Auth: handlers.NewAuthHandler(logger, store, tokens, sender, handlers.AuthConfig{
			ClientURL:     cfg.ClientURL,
			SecureCookies: cfg.IsProduction(),
		}),
		Users:       handlers.NewUsersHandler(logger, store),
		Health:      handlers.NewHealthHandler(logger, store, Version),
		Tokens:      tokens,
		AuthLimiter: authLimiter,
		ClientURL:   cfg.ClientURL,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", slog.String("addr", srv.Addr), slog.String("version", Version))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shutdown server: %w", err)
	}

	logger.Info("server stopped")
	return nil
}

// newMailSender SMTP, если задан SMTP_HOST, иначе письма складываются в bbolt outbox
func newMailSender(cfg *config.Config, logger *slog.Logger) (mailer.Sender, func(), error) {
	if cfg.SMTPHost != "" {
		sender, err := mailer.NewSMTPSender(mailer.SMTPConfig{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			Username: cfg.SMTPUsername,
			Password: cfg.SMTPPassword,
			From:     cfg.MailFrom,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create smtp sender: %w", err)
		}
		logger.Info("mail via smtp", slog.String("host", cfg.SMTPHost))
		return sender, func() {}, nil
	}

	outbox, err := mailer.NewOutbox(cfg.MailOutboxPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open mail outbox: %w", err)
	}
	logger.Warn("SMTP_HOST is not set, verification mail goes to outbox", slog.String("path", cfg.MailOutboxPath))

	return outbox, func() {
		if err := outbox.Close(); err != nil {
			logger.Error("failed to close mail outbox", slog.Any("error", err))
		}
	}, nil
}
