package main

import (
	"context"
	"log/slog"
	"os"

	"blogauth/config"
	"blogauth/internal/delivery"
	"blogauth/internal/delivery/api"
	"blogauth/internal/delivery/api/middleware"
	"blogauth/internal/delivery/api/router/handler"
	"blogauth/internal/infra/auth"
	logs "blogauth/internal/infra/log"
	"blogauth/internal/infra/metrics"
	"blogauth/internal/infra/oauth"
	"blogauth/internal/infra/persistence"
	"blogauth/internal/infra/pubsub"
	"blogauth/internal/infra/ratelimit"
	"blogauth/internal/infra/redisclient"
	"blogauth/internal/usecase/impl"

	"go.uber.org/fx"
)

type startServerParams struct {
	fx.In
	fx.Lifecycle
	fx.Shutdowner

	Deliveries []delivery.Delivery `group:"deliveries"`
}

func main() {
	fx.New(
		injectInfra(),
		injectRepo(),
		injectService(),
		injectUsecase(),
		injectDelivery(),
		injectMiddleware(),
		injectHandler(),
		fx.Invoke(
			startServer,
		),
	).Run()
}

func injectInfra() fx.Option {
	return fx.Provide(
		config.New,
		logs.New,
		context.Background,
		redisclient.New,
		metrics.New,
		metrics.AsAuthMetrics,
	)
}

func injectRepo() fx.Option {
	return fx.Options(
		fx.Provide(
			persistence.New,
		),
	)
}

func injectService() fx.Option {
	return fx.Options(
		fx.Provide(
			auth.NewBcryptHasher,
			auth.NewTokenIssuer,
			auth.NewJWTSessionSigner,
			ratelimit.New,
			oauth.NewRegistry,
			oauth.NewStateStore,
			pubsub.NewEventPublisher,
		),
	)
}

func injectUsecase() fx.Option {
	return fx.Options(
		fx.Provide(
			impl.NewIdentityService,
			impl.NewSessionService,
			impl.NewRateLimitService,
			impl.NewOAuthLoginService,
		),
	)
}

func injectMiddleware() fx.Option {
	return fx.Options(
		fx.Provide(
			middleware.NewSessionCookies,
			middleware.NewOAuthStateCookie,
			middleware.NewSessionMiddleware,
			middleware.NewAccessPolicy,
			middleware.NewAccessMiddleware,
			middleware.NewRateLimitMiddleware,
		),
	)
}

func injectHandler() fx.Option {
	return fx.Options(
		fx.Provide(
			handler.NewAuthHandler,
			handler.NewOAuthHandler,
		),
	)
}

func injectDelivery() fx.Option {
	return fx.Options(
		fx.Provide(
			fx.Annotate(
				api.NewServer,
				fx.ResultTags(`group:"deliveries"`),
			),
		),
	)
}

func startServer(ctx context.Context, params startServerParams) {
	for _, delivery := range params.Deliveries {
		go func() {
			if err := delivery.Serve(ctx); err != nil {
				slog.Error("Failed to start server", slog.Any("error", err))

				// Trigger graceful shutdown to execute all OnStop hooks
				if shutdownErr := params.Shutdown(); shutdownErr != nil {
					slog.Error("Failed to shutdown gracefully", slog.Any("error", shutdownErr))
					os.Exit(1)
				}
			}
		}()
	}
}
