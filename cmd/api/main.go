package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/rs/zerolog"

	"github.com/njprem/Todo_APP_BackEnd/internal/config"
	"github.com/njprem/Todo_APP_BackEnd/internal/logging"
	"github.com/njprem/Todo_APP_BackEnd/internal/repository/database"
	"github.com/njprem/Todo_APP_BackEnd/internal/service"
	transport "github.com/njprem/Todo_APP_BackEnd/internal/transport/http"
	"github.com/njprem/Todo_APP_BackEnd/internal/transport/mail"
	"github.com/njprem/Todo_APP_BackEnd/internal/util"
)

func main() {
	if err := run(); err != nil {
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		stderrLogger := zerolog.New(os.Stderr)
		stderrLogger.Error().Err(err).Msg("load config")
		return err
	}

	logger, closeLogs, err := logging.New(logging.Options{
		Level:        cfg.LogLevel,
		Format:       cfg.LogFormat,
		LogstashAddr: cfg.LogstashTCPAddr,
	})
	if err != nil {
		stderrLogger := zerolog.New(os.Stderr)
		stderrLogger.Error().Err(err).Msg("init logger")
		return err
	}
	defer closeLogs()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.New(ctx, cfg.DatabaseDriver, cfg.DatabaseURL)
	if err != nil {
		logger.Error().Err(err).Str("driver", cfg.DatabaseDriver).Msg("open database")
		return err
	}
	store := database.NewStore(db)
	defer store.Close()

	if err := database.Migrate(ctx, db, logger); err != nil {
		logger.Error().Err(err).Msg("migrate database")
		return err
	}

	hasher, err := util.NewPasswordHasher(cfg.PasswordHashAlgorithm)
	if err != nil {
		logger.Error().Err(err).Msg("init password hasher")
		return err
	}

	mailer := mail.NewOTPMailer(cfg.Mail, logger)
	if !mailer.Configured() {
		logger.Warn().Msg("smtp relay not configured, otp messages will be written to the log")
	}

	repos := store.Repositories()
	authService := service.NewAuthService(store, repos.Users, hasher, mailer, service.AuthServiceConfig{
		MailSendTimeout: cfg.MailSendTimeout,
		Logger:          logger,
	})
	taskService := service.NewTaskService(repos.Tasks, cfg.TaskDefaultOwnerID)

	e, err := transport.NewRouter(transport.RouterConfig{
		AllowOrigins: cfg.AllowOrigins,
		Logger:       logger,
		Health:       store,
	})
	if err != nil {
		logger.Error().Err(err).Msg("init router")
		return err
	}
	transport.RegisterPages(e)
	transport.RegisterAuth(e, authService)
	transport.RegisterTasks(e, taskService)
	transport.RegisterSwagger(e, filepath.Join("docs", "swagger.yaml"), logger)

	serverErr := make(chan error, 1)
	go func() {
		logger.Info().
			Str("port", cfg.Port).
			Str("driver", cfg.DatabaseDriver).
			Str("password_hash", hasher.Algorithm()).
			Bool("smtp_relay", mailer.Configured()).
			Msg("starting server")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		if err != nil {
			logger.Error().Err(err).Msg("server stopped")
			return err
		}
	case <-ctx.Done():
		logger.Info().Msg("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownGracePeriod)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown failed")
	}
	if err := authService.Wait(shutdownCtx); err != nil {
		logger.Warn().Err(err).Msg("pending otp notifications abandoned")
	}
	logger.Info().Msg("server stopped")
	return nil
}
