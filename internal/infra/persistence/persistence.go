// Package persistence selects the credential store backend.
package persistence

import (
	"log/slog"

	"blogauth/config"
	"blogauth/internal/domain/constants"
	"blogauth/internal/domain/repository"
	"blogauth/internal/infra/metrics"
	"blogauth/internal/infra/persistence/memory"
	"blogauth/internal/infra/persistence/postgres"

	"go.uber.org/fx"
)

type Params struct {
	fx.In
	fx.Lifecycle

	Config  *config.Config
	Logger  *slog.Logger
	Metrics *metrics.Metrics `optional:"true"`
}

// Repositories is the credential store as seen by the use cases.
type Repositories struct {
	fx.Out

	TxManager              repository.TransactionManager
	UserRepo               repository.UserRepository
	LinkedAccountRepo      repository.LinkedAccountRepository
	VerificationTokenRepo  repository.VerificationTokenRepository
	PasswordResetTokenRepo repository.PasswordResetTokenRepository
}

// New builds the repositories for storage.driver.
func New(params Params) (Repositories, error) {
	if params.Config.Storage.Driver == constants.StorageDriverMemory {
		params.Logger.Warn("Using the in-memory credential store, data is lost on restart")

		store := memory.NewStore()

		return Repositories{
			TxManager:              store.TransactionManager(),
			UserRepo:               store.UserRepo(),
			LinkedAccountRepo:      store.LinkedAccountRepo(),
			VerificationTokenRepo:  store.VerificationTokenRepo(),
			PasswordResetTokenRepo: store.PasswordResetTokenRepo(),
		}, nil
	}

	db, err := postgres.New(postgres.Params{
		Lifecycle: params.Lifecycle,
		Config:    params.Config,
		Logger:    params.Logger,
		Metrics:   params.Metrics,
	})
	if err != nil {
		return Repositories{}, err
	}

	return Repositories{
		TxManager:              postgres.NewTransactionManager(db),
		UserRepo:               postgres.NewUserRepository(db),
		LinkedAccountRepo:      postgres.NewLinkedAccountRepository(db),
		VerificationTokenRepo:  postgres.NewVerificationTokenRepository(db),
		PasswordResetTokenRepo: postgres.NewPasswordResetTokenRepository(db),
	}, nil
}
