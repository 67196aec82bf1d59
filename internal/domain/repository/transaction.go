package repository

import "context"

// TransactionManager lets the use case layer run a unit of work atomically
// without knowing which store backs it.
type TransactionManager interface {
	// Execute runs fn within one transaction. A non-nil error from fn, or a
	// panic, rolls everything back. Otherwise the work is committed.
	Execute(ctx context.Context, fn func(txRepoFactory RepositoryFactory) error) error
}

// RepositoryFactory hands out repositories bound to one transaction.
type RepositoryFactory interface {
	UserRepo() UserRepository
	LinkedAccountRepo() LinkedAccountRepository
	VerificationTokenRepo() VerificationTokenRepository
	PasswordResetTokenRepo() PasswordResetTokenRepository
}
