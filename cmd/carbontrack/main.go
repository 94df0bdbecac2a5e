package main

import (
	"context"
	"errors"
	"net/http"

	"go.uber.org/zap"

	adapthttp "carbontrack/internal/adapter/http"
	"carbontrack/internal/adapter/postgres"
	"carbontrack/internal/app"
	"carbontrack/internal/config"
	"carbontrack/internal/domain"

	"github.com/coreos/go-oidc/v3/oidc"
	"golang.org/x/oauth2"
)

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer func() { _ = logger.Sync() }()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("config", zap.Error(err))
	}

	db, err := postgres.Open(cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("db open", zap.Error(err))
	}
	defer func() { _ = db.Close() }()

	sessionRepo := postgres.NewSessionRepo(db)
	factors := domain.DefaultFactors()

	authSvc := app.NewAuthService(db, sessionRepo, cfg.SessionTTL)
	footprintSvc := app.NewFootprintService(factors, db)
	reportSvc := app.NewReportService(db)

	oidcCfg, err := buildOIDC(context.Background(), cfg.OIDC)
	if err != nil {
		logger.Fatal("oidc setup", zap.Error(err))
	}

	h := adapthttp.New(footprintSvc, reportSvc, authSvc, cfg.WebDir, oidcCfg, logger).Handler()
	logger.Info("listening", zap.String("addr", cfg.Addr))
	if err := http.ListenAndServe(cfg.Addr, h); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal("serve", zap.Error(err))
	}
}

func buildOIDC(ctx context.Context, cfg config.OIDCConfig) (adapthttp.OIDCConfig, error) {
	if !cfg.Enabled {
		return adapthttp.OIDCConfig{}, nil
	}

	provider, err := oidc.NewProvider(ctx, cfg.Issuer)
	if err != nil {
		return adapthttp.OIDCConfig{}, err
	}

	return adapthttp.OIDCConfig{
		Enabled:  true,
		Provider: provider,
		OAuth2Config: oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Endpoint:     provider.Endpoint(),
			Scopes:       []string{oidc.ScopeOpenID, "profile", "email"},
		},
	}, nil
}
