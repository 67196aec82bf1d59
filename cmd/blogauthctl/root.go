package main

import (
	"context"
	"strings"
	"time"

	"blogauth/config"
	"blogauth/internal/domain/entity"
	"blogauth/internal/domain/service"
	"blogauth/internal/errors"
	"blogauth/internal/infra/auth"
	logs "blogauth/internal/infra/log"
	"blogauth/internal/infra/metrics"
	"blogauth/internal/infra/persistence"
	"blogauth/internal/infra/pubsub"
	"blogauth/internal/usecase"
	"blogauth/internal/usecase/impl"

	"github.com/spf13/cobra"
	"go.uber.org/fx"
)

const defaultTimeout = 30 * time.Second

// identityOpener connects to the credential store and returns the identity
// use case together with a function that releases it.
type identityOpener func(ctx context.Context) (usecase.IdentityUsecase, func(context.Context) error, error)

// NewRootCmd creates the root command for the blogauth admin CLI.
func NewRootCmd(open identityOpener) *cobra.Command {
	var timeout time.Duration

	cmd := &cobra.Command{
		Use:          "blogauthctl",
		Short:        "Administer blogauth accounts",
		SilenceUsage: true,
	}

	cmd.PersistentFlags().DurationVar(&timeout, "timeout", defaultTimeout, "timeout for store operations (e.g., 30s, 1m)")

	cmd.AddCommand(&cobra.Command{
		Use:   "promote-admin <email>",
		Short: "Give the account with email the ADMIN role",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSetRole(cmd, open, timeout, args[0], entity.RoleAdmin)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "set-role <email> <READER|AUTHOR|ADMIN>",
		Short: "Change the role of the account with email",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			role, ok := entity.ParseRole(args[1])
			if !ok {
				return errors.Errorf("unknown role %q, want one of READER, AUTHOR, ADMIN", args[1])
			}

			return runSetRole(cmd, open, timeout, args[0], role)
		},
	})

	return cmd
}

func runSetRole(cmd *cobra.Command, open identityOpener, timeout time.Duration, email string, role entity.Role) error {
	if strings.TrimSpace(email) == "" {
		return errors.New("email is required")
	}

	// cmd.Context() carries SIGINT/SIGTERM cancellation
	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()

	identity, closeFn, err := open(ctx)
	if err != nil {
		return errors.Wrap(err, "failed to open credential store")
	}
	defer func() {
		if closeErr := closeFn(context.WithoutCancel(ctx)); closeErr != nil {
			cmd.PrintErrln("close credential store:", closeErr)
		}
	}()

	user, err := identity.SetRole(ctx, email, role)
	if err != nil {
		return err
	}

	cmd.Printf("%s (%s) is now %s\n", user.Email, user.ID, user.Role)

	return nil
}

// openIdentity builds the identity use case from the service configuration
// with the same providers the API server uses.
func openIdentity(ctx context.Context) (usecase.IdentityUsecase, func(context.Context) error, error) {
	var identity usecase.IdentityUsecase

	app := fx.New(
		fx.NopLogger,
		fx.Provide(
			config.New,
			logs.New,
			func() context.Context { return ctx },
			persistence.New,
			auth.NewBcryptHasher,
			auth.NewTokenIssuer,
			pubsub.NewEventPublisher,
			func() service.AuthMetrics { return metrics.Noop{} },
			impl.NewIdentityService,
		),
		fx.Populate(&identity),
	)
	if err := app.Err(); err != nil {
		return nil, nil, errors.WithStack(err)
	}

	if err := app.Start(ctx); err != nil {
		return nil, nil, errors.WithStack(err)
	}

	return identity, app.Stop, nil
}
