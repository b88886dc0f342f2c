package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/arthurnavah/account-api/internal/config"
	"github.com/arthurnavah/account-api/internal/handler"
	"github.com/arthurnavah/account-api/internal/repository"
	"github.com/arthurnavah/account-api/internal/usecase"
	"github.com/arthurnavah/account-api/shared/auth"
	"github.com/arthurnavah/account-api/shared/mailer"
	"github.com/arthurnavah/account-api/shared/security"
)

func main() {
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load configuration")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client, err := mongo.Connect(options.Client().ApplyURI(cfg.MongoDBURI))
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to MongoDB")
	}
	defer func() {
		if err := client.Disconnect(context.Background()); err != nil {
			logger.Error().Err(err).Msg("failed to disconnect from MongoDB")
		}
	}()

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, nil); err != nil {
		logger.Fatal().Err(err).Msg("failed to ping MongoDB")
	}

	db := client.Database(cfg.MongoDBDatabase)
	userRepo := repository.NewUserMongoRepository(ctx, &logger, db)

	hasher := security.NewHasher(security.HasherParams{
		TimeCost:   cfg.HashTimeCost,
		MemoryCost: cfg.HashMemoryCost,
	})
	jwtAuth := auth.NewJWTAuthenticator(cfg.JWTIssuer, cfg.JWTIssuer)
	mail := mailer.NewMailer(mailer.Config{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		Username: cfg.SMTPUsername,
		Password: cfg.SMTPPassword,
		From:     cfg.SMTPFrom,
	})

	authUsecase := usecase.NewAuthUsecase(userRepo, hasher, jwtAuth, cfg)
	passwordResetUsecase := usecase.NewPasswordResetUsecase(userRepo, hasher, mail, cfg)

	h := handler.NewHandler(&logger, authUsecase, passwordResetUsecase, jwtAuth, cfg)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:           h.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info().Int("port", cfg.ServerPort).Msg("server listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("server failed")
		}
	}()

	<-ctx.Done()
	logger.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown failed")
	}
}
