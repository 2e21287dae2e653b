package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"bracelet-customizer/internal/cache"
	"bracelet-customizer/internal/catalog"
	"bracelet-customizer/internal/config"
	"bracelet-customizer/internal/db"
	"bracelet-customizer/internal/httpserver"
	"bracelet-customizer/internal/logger"
	cartrepo "bracelet-customizer/internal/repository/cart"
	categoryrepo "bracelet-customizer/internal/repository/category"
	draftrepo "bracelet-customizer/internal/repository/draft"
	orderrepo "bracelet-customizer/internal/repository/order"
	productrepo "bracelet-customizer/internal/repository/product"
	settingsrepo "bracelet-customizer/internal/repository/settings"
	cartsvc "bracelet-customizer/internal/service/cart"
	categorysvc "bracelet-customizer/internal/service/category"
	draftsvc "bracelet-customizer/internal/service/draft"
	ordersvc "bracelet-customizer/internal/service/order"
	"bracelet-customizer/internal/settings"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		l := logger.New(logger.Options{ServiceName: "api"})
		l.Fatal().Err(err).Msg("load config")
	}
	log := logger.New(logger.Options{ServiceName: "api", Level: cfg.LogLevel, Format: cfg.LogFormat})

	ctx := context.Background()
	dbpool, err := db.Connect(ctx, cfg.DBConnString, log)
	if err != nil {
		log.Fatal().Err(err).Msg("connect to db")
	}
	defer dbpool.Close()

	defaults, err := settings.ValidatedDefaults(cfg.Store.CustomizationDefaults(), cfg.Store.Currency)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid store defaults")
	}

	productRepo := productrepo.NewPostgres(dbpool, log)
	settingsProvider := settings.NewProvider(settingsrepo.NewPostgres(dbpool), defaults, log)
	settingsProvider.OnDebugLogging(logger.DebugSwitch(logger.ParseLevel(cfg.LogLevel)))
	if err := settingsProvider.Sync(ctx); err != nil {
		log.Warn().Err(err).Msg("store settings unavailable, using defaults")
	}

	var live catalog.Source = catalog.NewLive(productRepo, log)
	if cfg.RedisAddr != "" {
		rdb, err := cache.Connect(ctx, cache.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword, DB: cfg.RedisDB}, log)
		if err != nil {
			log.Warn().Err(err).Msg("redis unavailable, catalog cache disabled")
		} else {
			defer rdb.Close()
			live = catalog.NewCachedSource(live, rdb, cfg.CatalogCacheTTL, log)
		}
	}
	catalogPolicy := catalog.NewFallbackPolicy(live, catalog.NewStatic(cfg.AssetBaseURL), log)

	draftRepo := draftrepo.NewPostgres(dbpool)
	cartService := cartsvc.New(cartrepo.NewPostgres(dbpool), productRepo, draftRepo, settingsProvider, log)
	orderService := ordersvc.New(cartService, orderrepo.NewPostgres(dbpool), log)

	srv, err := httpserver.New(cfg.HTTPAddr, log, dbpool, httpserver.Deps{
		Catalog:     catalogPolicy,
		CategorySvc: categorysvc.New(categoryrepo.NewPostgres(dbpool)),
		SettingsSvc: settingsProvider,
		DraftSvc:    draftsvc.New(draftRepo, productRepo, log),
		CartSvc:     cartService,
		OrderSvc:    orderService,
	}, httpserver.Options{CORSOrigins: cfg.CORSOrigins})
	if err != nil {
		log.Fatal().Err(err).Msg("init server")
	}

	serverErr := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-stopCh:
		log.Info().Str("signal", sig.String()).Msg("shutting down")
	case err := <-serverErr:
		log.Error().Err(err).Msg("server error")
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	} else {
		log.Info().Msg("server stopped")
	}
}
