package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"syscall"
	"time"

	"github.com/Rakhulsr/catalog-api/app/configs"
	"github.com/Rakhulsr/catalog-api/app/models/migrations"
	"github.com/Rakhulsr/catalog-api/app/routes"
	"github.com/Rakhulsr/catalog-api/app/services"
	"github.com/getsentry/sentry-go"
	"github.com/oklog/run"
	"github.com/rs/zerolog"
)

const shutdownGrace = 20 * time.Second

func newNotifier(env configs.ENV, log zerolog.Logger) services.ContactNotifier {
	var sender services.EmailSender
	switch {
	case env.MailgunDomain != "" && env.MailgunAPIKey != "":
		sender = services.NewMailgunSender(env.MailgunDomain, env.MailgunAPIKey, env.EmailFrom)
		log.Info().Str("transport", "mailgun").Msg("contact notifications enabled")
	case env.EmailHost != "":
		sender = services.NewMailer(services.Config{
			Host:     env.EmailHost,
			Port:     env.EmailPort,
			Username: env.EmailUsername,
			Password: env.EmailPassword,
			From:     env.EmailFrom,
		})
		log.Info().Str("transport", "smtp").Msg("contact notifications enabled")
	default:
		sender = services.NewLogSender(log)
		log.Warn().Msg("no mail transport configured, contact notifications are only logged")
	}
	return services.NewEmailContactNotifier(sender, env.ContactEmail)
}

// Serve runs the HTTP server until SIGINT/SIGTERM, then drains in-flight
// requests and background tasks.
func Serve(ctx context.Context, env configs.ENV, log zerolog.Logger) error {
	if err := env.Validate(); err != nil {
		return err
	}
	if err := configs.InitSentry(env); err != nil {
		log.Warn().Err(err).Msg("sentry init failed, errors will only be logged")
	}
	defer sentry.Flush(2 * time.Second)

	db, err := configs.OpenConnection(env, configs.NamedLogger(log, "db"))
	if err != nil {
		return err
	}
	if sqlDB, err := db.DB(); err == nil {
		defer sqlDB.Close()
	}
	if env.DBDriver == "sqlite" {
		// dev convenience, other drivers use the migrate command
		if err := migrations.AutoMigrate(db); err != nil {
			return err
		}
	}

	storage, err := services.NewLocalImageStorage(env.UploadDir, env.UploadURLPrefix, env.ImageMaxWidth)
	if err != nil {
		return err
	}
	dispatcher := services.NewDispatcher(configs.NamedLogger(log, "background"), 30*time.Second)

	handler := routes.NewRouter(db, routes.Options{
		Env:        env,
		Log:        log,
		Storage:    storage,
		Files:      storage.Handler(),
		Notifier:   newNotifier(env, configs.NamedLogger(log, "mailer")),
		Dispatcher: dispatcher,
	})

	server := &http.Server{
		Addr:              env.Port,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       2 * time.Minute,
		WriteTimeout:      2 * time.Minute,
		IdleTimeout:       2 * time.Minute,
	}

	var g run.Group
	g.Add(func() error {
		log.Info().Str("addr", server.Addr).Str("env", env.AppEnv).Msg("server starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	}, func(error) {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("http shutdown")
		}
		if err := dispatcher.Wait(shutdownCtx); err != nil {
			log.Warn().Err(err).Msg("background tasks still running at shutdown")
		}
	})
	g.Add(run.SignalHandler(ctx, os.Interrupt, syscall.SIGTERM))

	err = g.Run()
	var sigErr run.SignalError
	if errors.As(err, &sigErr) {
		log.Info().Str("signal", sigErr.Signal.String()).Msg("shutting down")
		return nil
	}
	return err
}
