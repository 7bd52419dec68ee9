package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/vasapolrittideah/backoffice-api/internal/config"
	"github.com/vasapolrittideah/backoffice-api/internal/handler"
	"github.com/vasapolrittideah/backoffice-api/internal/repository"
	"github.com/vasapolrittideah/backoffice-api/internal/usecase"
	"github.com/vasapolrittideah/backoffice-api/shared/auth"
	"github.com/vasapolrittideah/backoffice-api/shared/mailer"
	"github.com/vasapolrittideah/backoffice-api/shared/nvi"
	"github.com/vasapolrittideah/backoffice-api/shared/validation"
)

func main() {
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	if err := godotenv.Load(); err != nil {
		logger.Warn().Msg("no .env file found, relying on environment variables")
	}

	cfg := config.Load(&logger)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to MongoDB")
	}
	defer func() {
		if err := client.Disconnect(context.Background()); err != nil {
			logger.Error().Err(err).Msg("failed to disconnect from MongoDB")
		}
	}()

	if err := client.Ping(ctx, nil); err != nil {
		logger.Fatal().Err(err).Msg("failed to ping MongoDB")
	}

	db := client.Database(cfg.MongoDatabase)

	userRepo := repository.NewUserMongoRepository(ctx, &logger, db)
	companyRepo := repository.NewCompanyMongoRepository(db)
	teamRepo := repository.NewTeamMongoRepository(db)
	transactionRepo := repository.NewTransactionMongoRepository(ctx, &logger, db)
	roleRepo := repository.NewRoleMongoRepository(ctx, &logger, db)
	permRepo := repository.NewPermissionMongoRepository(ctx, &logger, db)

	if err := permRepo.EnsurePermissions(ctx, usecase.AllPermissions); err != nil {
		logger.Fatal().Err(err).Msg("failed to seed permission catalog")
	}

	validator, err := validation.New()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize validator")
	}

	jwtAuth := auth.NewJWTAuthenticator(cfg.Token.Issuer, cfg.Token.Issuer)
	smtpMailer := mailer.NewMailer(&logger)
	nviClient := nvi.NewClient(cfg.NVI.Endpoint)

	accessUsecase := usecase.NewAccessUsecase(userRepo, roleRepo, permRepo)
	authUsecase := usecase.NewAuthUsecase(
		userRepo, companyRepo, teamRepo, accessUsecase, jwtAuth, smtpMailer, cfg, &logger,
	)
	userUsecase := usecase.NewUserUsecase(userRepo, companyRepo, teamRepo)
	companyUsecase := usecase.NewCompanyUsecase(companyRepo, teamRepo, userRepo, transactionRepo)
	teamUsecase := usecase.NewTeamUsecase(teamRepo, companyRepo)
	transactionUsecase := usecase.NewTransactionUsecase(transactionRepo, userRepo, companyRepo, teamRepo)

	router := handler.NewRouter(handler.RouterDeps{
		Config:      cfg,
		Logger:      &logger,
		JWTAuth:     jwtAuth,
		NVIVerifier: nviClient,
		Auth:        handler.NewAuthHandler(authUsecase, userUsecase, validator, &logger),
		User:        handler.NewUserHandler(userUsecase, validator, &logger),
		Company:     handler.NewCompanyHandler(companyUsecase, validator, &logger),
		Team:        handler.NewTeamHandler(teamUsecase, transactionUsecase, validator, &logger),
		Transaction: handler.NewTransactionHandler(transactionUsecase, validator, &logger),
		Access:      handler.NewAccessHandler(accessUsecase, validator, &logger),
	})

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  time.Minute,
	}

	go func() {
		logger.Info().Str("addr", cfg.HTTPAddr).Msg("starting HTTP server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down HTTP server")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown failed")
	}
}
