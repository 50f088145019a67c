package main

import (
	"fmt"
	"io"

	"github.com/gin-gonic/gin"

	"naulify_agent/internal/config"
	"naulify_agent/internal/controllers"
	"naulify_agent/internal/identity"
	"naulify_agent/internal/logger"
	"naulify_agent/internal/middleware"
	"naulify_agent/internal/models"
	"naulify_agent/internal/repository"
	"naulify_agent/internal/routes"
	"naulify_agent/internal/session"
	"naulify_agent/internal/store"
)

// app is the wired server. close releases the database connection, if any.
type app struct {
	router   *gin.Engine
	sessions *session.Manager
	close    func() error
}

func openBackend(cfg *config.Config) (store.Backend, func() error, error) {
	if cfg.Store.Backend != config.BackendPostgres {
		return store.NewMemory(), func() error { return nil }, nil
	}
	db, err := config.OpenDB(cfg.Database, logger.GormLogger())
	if err != nil {
		return nil, nil, err
	}
	if err := config.Migrate(db); err != nil {
		return nil, nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, nil, fmt.Errorf("database handle: %w", err)
	}
	return store.NewGorm(db), sqlDB.Close, nil
}

func buildApp(cfg *config.Config, accessLog io.Writer) (*app, error) {
	backend, closeBackend, err := openBackend(cfg)
	if err != nil {
		return nil, err
	}

	provider, err := identity.NewProvider(
		store.Open[identity.Account](backend, store.CollectionAccounts),
		identity.LogMailer{},
		identity.Config{
			BcryptCost:         cfg.Auth.BcryptCost,
			VerificationSecret: cfg.Auth.VerificationSecret,
			VerifyLinkBase:     cfg.Auth.VerifyLinkBase,
			Federated: identity.FederatedConfig{
				Secret:       cfg.Federated.Secret,
				PublicKeyPEM: cfg.Federated.PublicKeyPEM,
				Issuer:       cfg.Federated.Issuer,
				Audience:     cfg.Federated.Audience,
			},
		},
	)
	if err != nil {
		closeBackend()
		return nil, err
	}

	profiles := repository.NewProfileRepository(
		store.Open[models.User](backend, store.CollectionUsers),
		store.Open[models.Vehicle](backend, store.CollectionVehicles),
	)
	routeRepo := repository.NewRouteRepository(
		store.Open[models.Route](backend, store.CollectionRoutes),
		store.Open[models.FareCollection](backend, store.CollectionFareCollections),
	)

	sessions := session.NewManager(session.Dependencies{
		Identity: provider,
		Profiles: profiles,
		Routes:   routeRepo,
	}, cfg.Auth.SessionIdle)
	tokens := middleware.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.SessionTTL)

	api := controllers.NewAPI(controllers.Deps{
		Tokens:         tokens,
		Sessions:       sessions,
		Confirmer:      provider,
		Profiles:       profiles,
		Routes:         routeRepo,
		QR:             cfg.QR,
		ReportLocation: cfg.Reports.Location,
	})
	router := routes.SetupRouter(api, routes.Options{
		Tokens:      tokens,
		Sessions:    sessions,
		CORSOrigins: cfg.CORS.Origins,
		AccessLog:   accessLog,
	})

	return &app{router: router, sessions: sessions, close: closeBackend}, nil
}
