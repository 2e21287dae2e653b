package main

import (
	"context"

	"bracelet-customizer/internal/config"
	"bracelet-customizer/internal/db"
	"bracelet-customizer/internal/logger"
	categoryrepo "bracelet-customizer/internal/repository/category"
	productrepo "bracelet-customizer/internal/repository/product"
	settingsrepo "bracelet-customizer/internal/repository/settings"
	"bracelet-customizer/internal/seed"
	"bracelet-customizer/internal/settings"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		l := logger.New(logger.Options{ServiceName: "seed"})
		l.Fatal().Err(err).Msg("load config")
	}
	log := logger.New(logger.Options{ServiceName: "seed", Level: cfg.LogLevel, Format: cfg.LogFormat})

	ctx := context.Background()
	pool, err := db.Connect(ctx, cfg.DBConnString, log)
	if err != nil {
		log.Fatal().Err(err).Msg("connect db")
	}
	defer pool.Close()

	deps := seed.Deps{
		Products:   productrepo.NewPostgres(pool, log),
		Categories: categoryrepo.NewPostgres(pool),
		Settings:   settingsrepo.NewPostgres(pool),
		Log:        log,
	}
	defaults, err := settings.ValidatedDefaults(cfg.Store.CustomizationDefaults(), cfg.Store.Currency)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid store defaults")
	}
	if err := seed.Apply(ctx, deps, cfg.AssetBaseURL, defaults); err != nil {
		log.Fatal().Err(err).Msg("seed apply")
	}
}
