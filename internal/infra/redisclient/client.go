// Package redisclient provides the shared redis connection used by the rate
// limiter and the OAuth state store.
package redisclient

import (
	"context"
	"log/slog"

	"blogauth/config"
	"blogauth/internal/domain/lifecycle"
	"blogauth/internal/errors"

	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
)

type Params struct {
	fx.In

	Lc     fx.Lifecycle
	Config *config.Config
	Logger *slog.Logger
}

// New returns a client for redis.url, or nil when redis is not configured.
// Components treat a nil client as "use the in-process backend".
func New(params Params) (*redis.Client, error) {
	if params.Config.Redis == nil || params.Config.Redis.URL == "" {
		return nil, nil
	}

	opts, err := redis.ParseURL(params.Config.Redis.URL)
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse redis URL")
	}

	client := redis.NewClient(opts)

	params.Lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			pingCtx, cancel := context.WithTimeout(ctx, lifecycle.DefaultTimeout)
			defer cancel()

			if err := client.Ping(pingCtx).Err(); err != nil {
				return errors.Wrap(err, "failed to ping redis")
			}
			params.Logger.Info("Connected to redis", slog.String("addr", opts.Addr))

			return nil
		},
		OnStop: func(ctx context.Context) error {
			return client.Close()
		},
	})

	return client, nil
}

// Key joins the configured prefix with parts.
func Key(cfg *config.Config, parts ...string) string {
	prefix := ""
	if cfg.Redis != nil {
		prefix = cfg.Redis.KeyPrefix
	}

	key := prefix
	for i, part := range parts {
		if i > 0 {
			key += ":"
		}
		key += part
	}

	return key
}
