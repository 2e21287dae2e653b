// Package cache opens the redis connection used for catalog caching.
package cache

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// Options locates the redis server. Addr is either host:port or a redis:// URL.
type Options struct {
	Addr     string
	Password string
	DB       int
}

// Connect builds a client with pool timeouts and verifies connectivity.
func Connect(ctx context.Context, opts Options, log zerolog.Logger) (*redis.Client, error) {
	ropts, err := clientOptions(opts)
	if err != nil {
		return nil, err
	}
	client := redis.NewClient(ropts)

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	log.Info().Str("addr", ropts.Addr).Int("db", ropts.DB).Msg("redis connection established")
	return client, nil
}

func clientOptions(opts Options) (*redis.Options, error) {
	addr := strings.TrimSpace(opts.Addr)
	if addr == "" {
		return nil, errors.New("redis address is required")
	}
	var ropts *redis.Options
	if strings.Contains(addr, "://") {
		parsed, err := redis.ParseURL(addr)
		if err != nil {
			return nil, fmt.Errorf("parsing redis url: %w", err)
		}
		ropts = parsed
	} else {
		ropts = &redis.Options{Addr: addr, Password: opts.Password, DB: opts.DB}
	}
	ropts.DialTimeout = 3 * time.Second
	ropts.ReadTimeout = time.Second
	ropts.WriteTimeout = time.Second
	ropts.PoolTimeout = 2 * time.Second
	return ropts, nil
}
