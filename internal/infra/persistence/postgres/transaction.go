package postgres

import (
	"context"

	domainerrors "blogauth/internal/domain/errors"
	"blogauth/internal/domain/repository"
	"blogauth/internal/errors"

	"gorm.io/gorm"
)

// gormTransactionManager implements the domain's TransactionManager interface using GORM.
type gormTransactionManager struct {
	db *gorm.DB
}

// gormRepositoryFactory holds one GORM transaction and hands out
// repositories bound to it.
type gormRepositoryFactory struct {
	tx *gorm.DB // In GORM, a transaction object *gorm.Tx is also a *gorm.DB
}

func (f *gormRepositoryFactory) UserRepo() repository.UserRepository {
	return NewUserRepository(f.tx)
}

func (f *gormRepositoryFactory) LinkedAccountRepo() repository.LinkedAccountRepository {
	return NewLinkedAccountRepository(f.tx)
}

func (f *gormRepositoryFactory) VerificationTokenRepo() repository.VerificationTokenRepository {
	return NewVerificationTokenRepository(f.tx)
}

func (f *gormRepositoryFactory) PasswordResetTokenRepo() repository.PasswordResetTokenRepository {
	return NewPasswordResetTokenRepository(f.tx)
}

// NewTransactionManager is the constructor for gormTransactionManager.
func NewTransactionManager(db *gorm.DB) repository.TransactionManager {
	return &gormTransactionManager{db: db}
}

// Execute runs the given function within a single database transaction.
func (tm *gormTransactionManager) Execute(ctx context.Context, fn func(repoFactory repository.RepositoryFactory) error) error {
	tx := tm.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return domainerrors.NewDatabaseExecuteError(tx.Error, "failed to begin transaction")
	}

	// Roll back on panic, then re-panic so the recover middleware sees it.
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			panic(r)
		}
	}()

	if err := fn(&gormRepositoryFactory{tx: tx}); err != nil {
		if rbErr := tx.Rollback().Error; rbErr != nil {
			return errors.Wrapf(err, "transaction rollback failed: %v", rbErr)
		}

		return err
	}

	if err := tx.Commit().Error; err != nil {
		return domainerrors.NewDatabaseExecuteError(err, "failed to commit transaction")
	}

	return nil
}
