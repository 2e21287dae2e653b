package main

import (
	"context"

	"bracelet-customizer/internal/config"
	"bracelet-customizer/internal/db"
	"bracelet-customizer/internal/logger"
	"bracelet-customizer/internal/migrate"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		l := logger.New(logger.Options{ServiceName: "migrate"})
		l.Fatal().Err(err).Msg("load config")
	}
	log := logger.New(logger.Options{ServiceName: "migrate", Level: cfg.LogLevel, Format: cfg.LogFormat})

	ctx := context.Background()
	pool, err := db.Connect(ctx, cfg.DBConnString, log)
	if err != nil {
		log.Fatal().Err(err).Msg("connect db")
	}
	defer pool.Close()

	if err := migrate.Apply(ctx, pool, log); err != nil {
		log.Fatal().Err(err).Msg("apply migrations")
	}
}
