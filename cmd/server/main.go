package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"time"

	"go.uber.org/zap"

	"github.com/dbautista/palomitas/internal/config"
	"github.com/dbautista/palomitas/internal/repository/mongodb"
	"github.com/dbautista/palomitas/internal/repository/sheets"
	"github.com/dbautista/palomitas/internal/scheduler"
	"github.com/dbautista/palomitas/internal/server/handlers"
	"github.com/dbautista/palomitas/internal/server/router"
	authsvc "github.com/dbautista/palomitas/internal/service/auth"
	inventorysvc "github.com/dbautista/palomitas/internal/service/inventory"
	profilesvc "github.com/dbautista/palomitas/internal/service/profiles"
	recipesvc "github.com/dbautista/palomitas/internal/service/recipes"
	reportingsvc "github.com/dbautista/palomitas/internal/service/reporting"
	salesvc "github.com/dbautista/palomitas/internal/service/sales"
	settingsvc "github.com/dbautista/palomitas/internal/service/settings"
	"github.com/dbautista/palomitas/pkg/clients/alerts"
	"github.com/dbautista/palomitas/pkg/logger"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		panic(err)
	}

	baseLogger := logger.Must(logger.New())
	defer func() { _ = baseLogger.Sync() }()

	zap.ReplaceGlobals(baseLogger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	repo, err := mongodb.NewRepository(ctx, cfg.MongoDB.URI, cfg.MongoDB.DBName, baseLogger.Named("repo.mongodb"))
	if err != nil {
		baseLogger.Fatal("failed to init mongodb repository", zap.Error(err))
	}
	defer func() {
		if err := repo.Close(context.Background()); err != nil {
			baseLogger.Error("failed to close mongodb connection", zap.Error(err))
		}
	}()

	var notifier alerts.Notifier = alerts.Nop{}
	if cfg.Alerts.WebhookURL != "" {
		notifier = alerts.NewWebhookClient(cfg.Alerts.WebhookURL)
		baseLogger.Info("low stock webhook enabled")
	} else {
		baseLogger.Warn("no low stock webhook configured, alerts disabled")
	}

	inventoryStore := inventorysvc.NewService(repo, notifier, baseLogger.Named("svc.inventory"))
	salesStore := salesvc.NewService(repo, inventoryStore, cfg.Stock.RawMaterialMatch, cfg.Stock.UnitConsumption, baseLogger.Named("svc.sales"))
	recipeStore := recipesvc.NewService(repo, baseLogger.Named("svc.recipes"))
	settingsStore := settingsvc.NewService(repo, baseLogger.Named("svc.settings"))

	for name, start := range map[string]func(context.Context) error{
		"inventory": inventoryStore.Start,
		"sales":     salesStore.Start,
		"recipes":   recipeStore.Start,
		"settings":  settingsStore.Start,
	} {
		if err := start(ctx); err != nil {
			baseLogger.Fatal("failed to start store", zap.String("store", name), zap.Error(err))
		}
	}

	profileSvc := profilesvc.NewService(repo, baseLogger.Named("svc.profiles"))
	sessionSvc := authsvc.NewService(repo, cfg.Auth.SessionTTL, baseLogger.Named("svc.auth"))

	var exporter reportingsvc.Exporter
	if cfg.Sheets.CredentialsPath != "" {
		sheetsExporter, err := sheets.NewExporter(ctx, cfg.Sheets, baseLogger.Named("repo.sheets"))
		if err != nil {
			baseLogger.Fatal("failed to init sheets exporter", zap.Error(err))
		}
		exporter = sheetsExporter
		baseLogger.Info("spreadsheet export enabled")
	} else {
		baseLogger.Warn("no sheets credentials configured, spreadsheet export disabled")
	}

	reportingSvc := reportingsvc.NewService(salesStore, inventoryStore, settingsStore, repo, exporter, baseLogger.Named("svc.reporting"))

	engine := router.New(router.Handlers{
		Auth:      handlers.NewAuthHandler(sessionSvc, baseLogger.Named("handlers.auth")),
		Inventory: handlers.NewInventoryHandler(inventoryStore, baseLogger.Named("handlers.inventory")),
		Sales:     handlers.NewSalesHandler(salesStore, baseLogger.Named("handlers.sales")),
		Recipes:   handlers.NewRecipesHandler(recipeStore, baseLogger.Named("handlers.recipes")),
		Profiles:  handlers.NewProfilesHandler(profileSvc, baseLogger.Named("handlers.profiles")),
		Settings:  handlers.NewSettingsHandler(settingsStore, baseLogger.Named("handlers.settings")),
		Reports:   handlers.NewReportsHandler(reportingSvc, baseLogger.Named("handlers.reports")),
	}, sessionSvc, baseLogger.Named("router"))

	sched := scheduler.NewScheduler(cfg.Reporting, reportingSvc, inventoryStore, notifier, baseLogger.Named("scheduler"))
	sched.Start()
	defer sched.Stop()

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		baseLogger.Info("server starting", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			baseLogger.Fatal("http server crashed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	baseLogger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		baseLogger.Error("graceful shutdown failed", zap.Error(err))
	}
}
