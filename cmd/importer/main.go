package main

import (
	"context"
	"flag"
	"os"
	"time"

	"bracelet-customizer/internal/cache"
	"bracelet-customizer/internal/catalog"
	"bracelet-customizer/internal/config"
	"bracelet-customizer/internal/db"
	"bracelet-customizer/internal/importer"
	"bracelet-customizer/internal/logger"
	categoryrepo "bracelet-customizer/internal/repository/category"
	"bracelet-customizer/internal/repository/product"
	categorysvc "bracelet-customizer/internal/service/category"
)

func main() {
	var filePath string
	flag.StringVar(&filePath, "file", "", "Path to bracelet/charm product CSV")
	flag.Parse()

	if filePath == "" {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		l := logger.New(logger.Options{ServiceName: "importer"})
		l.Fatal().Err(err).Msg("load config")
	}
	log := logger.New(logger.Options{ServiceName: "importer", Level: cfg.LogLevel, Format: cfg.LogFormat})
	ctx := context.Background()

	pool, err := db.Connect(ctx, cfg.DBConnString, log)
	if err != nil {
		log.Fatal().Err(err).Msg("connect db")
	}
	defer pool.Close()

	f, err := os.Open(filePath)
	if err != nil {
		log.Fatal().Err(err).Str("file", filePath).Msg("open file")
	}
	defer f.Close()

	products := product.NewPostgres(pool, log)
	categories := categorysvc.New(categoryrepo.NewPostgres(pool))
	imp := importer.NewCSVImporter(f, products, categories, cfg.Store.Currency, log)

	start := time.Now()
	count, err := imp.Run(ctx)
	if err != nil {
		log.Fatal().Err(err).Int("imported", count).Msg("import failed")
	}
	log.Info().Int("products", count).Dur("took", time.Since(start).Truncate(time.Millisecond)).Msg("import complete")

	if cfg.RedisAddr == "" {
		return
	}
	rdb, err := cache.Connect(ctx, cache.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword, DB: cfg.RedisDB}, log)
	if err != nil {
		log.Warn().Err(err).Msg("redis unavailable, catalog cache not invalidated")
		return
	}
	defer rdb.Close()
	cached := catalog.NewCachedSource(catalog.NewLive(products, log), rdb, cfg.CatalogCacheTTL, log)
	if err := cached.Invalidate(ctx); err != nil {
		log.Warn().Err(err).Msg("catalog cache invalidation failed")
	}
}
