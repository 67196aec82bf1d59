package memory

import (
	"context"
	"sort"

	"blogauth/internal/domain/entity"
	"blogauth/internal/domain/repository"
	"blogauth/internal/errors"

	"github.com/google/uuid"
)

type userRepository struct {
	v view
}

func (r userRepository) FindByID(_ context.Context, id uuid.UUID) (*entity.User, error) {
	var found *entity.User
	err := r.v.do(func(d *data) error {
		u, ok := d.users[id]
		if !ok {
			return repository.ErrUserNotFound
		}
		found = copyUser(u)

		return nil
	})

	return found, err
}

func (r userRepository) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	return r.findByEmail(ctx, email, false)
}

func (r userRepository) FindByEmailWithAccounts(ctx context.Context, email string) (*entity.User, error) {
	return r.findByEmail(ctx, email, true)
}

func (r userRepository) findByEmail(_ context.Context, email string, withAccounts bool) (*entity.User, error) {
	var found *entity.User
	err := r.v.do(func(d *data) error {
		id, ok := d.usersByEmail[email]
		if !ok {
			return repository.ErrUserNotFound
		}
		found = copyUser(d.users[id])
		if withAccounts {
			found.LinkedAccounts = accountsOf(d, id)
		}

		return nil
	})

	return found, err
}

func (r userRepository) Create(_ context.Context, user *entity.User) error {
	return r.v.do(func(d *data) error {
		if _, taken := d.usersByEmail[user.Email]; taken {
			return errors.Wrap(repository.ErrUserAlreadyExists, user.Email)
		}

		now := r.v.store.now()
		if user.ID == uuid.Nil {
			user.ID = uuid.New()
		}
		if user.Role == "" {
			user.Role = entity.RoleReader
		}
		user.CreatedAt = now
		user.UpdatedAt = now

		d.users[user.ID] = copyUser(user)
		d.usersByEmail[user.Email] = user.ID

		return nil
	})
}

func (r userRepository) Update(_ context.Context, user *entity.User) error {
	return r.v.do(func(d *data) error {
		existing, ok := d.users[user.ID]
		if !ok {
			return repository.ErrUserNotFound
		}
		if user.Email != existing.Email {
			if _, taken := d.usersByEmail[user.Email]; taken {
				return errors.Wrap(repository.ErrUserAlreadyExists, user.Email)
			}
			delete(d.usersByEmail, existing.Email)
			d.usersByEmail[user.Email] = user.ID
		}

		user.CreatedAt = existing.CreatedAt
		user.UpdatedAt = r.v.store.now()
		d.users[user.ID] = copyUser(user)

		return nil
	})
}

func (r userRepository) UpdateRole(_ context.Context, id uuid.UUID, role entity.Role) error {
	return r.v.do(func(d *data) error {
		existing, ok := d.users[id]
		if !ok {
			return repository.ErrUserNotFound
		}
		existing.Role = role
		existing.UpdatedAt = r.v.store.now()

		return nil
	})
}

type linkedAccountRepository struct {
	v view
}

func (r linkedAccountRepository) FindByProviderAccount(_ context.Context, provider, providerAccountID string) (*entity.LinkedAccount, error) {
	var found *entity.LinkedAccount
	err := r.v.do(func(d *data) error {
		id, ok := d.accountsByProvKey[providerKey(provider, providerAccountID)]
		if !ok {
			return repository.ErrLinkedAccountNotFound
		}
		found = copyAccount(d.accounts[id])

		return nil
	})

	return found, err
}

func (r linkedAccountRepository) FindByUserID(_ context.Context, userID uuid.UUID) ([]*entity.LinkedAccount, error) {
	var accounts []*entity.LinkedAccount
	err := r.v.do(func(d *data) error {
		accounts = accountsOf(d, userID)

		return nil
	})

	return accounts, err
}

func (r linkedAccountRepository) Create(_ context.Context, account *entity.LinkedAccount) error {
	return r.v.do(func(d *data) error {
		key := providerKey(account.Provider, account.ProviderAccountID)
		if _, taken := d.accountsByProvKey[key]; taken {
			return errors.Wrapf(repository.ErrLinkedAccountExists, "%s/%s", account.Provider, account.ProviderAccountID)
		}
		if _, ok := d.users[account.UserID]; !ok {
			return errors.Wrap(repository.ErrUserNotFound, "invalid user reference")
		}

		now := r.v.store.now()
		if account.ID == uuid.Nil {
			account.ID = uuid.New()
		}
		account.CreatedAt = now
		account.UpdatedAt = now

		d.accounts[account.ID] = copyAccount(account)
		d.accountsByProvKey[key] = account.ID

		return nil
	})
}

func (r linkedAccountRepository) UpdateTokens(_ context.Context, id uuid.UUID, tokens entity.OAuthTokens) error {
	return r.v.do(func(d *data) error {
		existing, ok := d.accounts[id]
		if !ok {
			return repository.ErrLinkedAccountNotFound
		}
		existing.Tokens = tokens
		existing.UpdatedAt = r.v.store.now()
		d.accounts[id] = copyAccount(existing)

		return nil
	})
}

// accountsOf returns copies of a user's accounts, oldest first.
func accountsOf(d *data, userID uuid.UUID) []*entity.LinkedAccount {
	accounts := make([]*entity.LinkedAccount, 0)
	for _, a := range d.accounts {
		if a.UserID == userID {
			accounts = append(accounts, copyAccount(a))
		}
	}
	sort.SliceStable(accounts, func(i, j int) bool {
		if accounts[i].CreatedAt.Equal(accounts[j].CreatedAt) {
			return accounts[i].Provider < accounts[j].Provider
		}

		return accounts[i].CreatedAt.Before(accounts[j].CreatedAt)
	})

	return accounts
}

type verificationTokenRepository struct {
	v view
}

func (r verificationTokenRepository) Create(_ context.Context, token *entity.VerificationToken) error {
	return r.v.do(func(d *data) error {
		cp := *token
		d.verificationTokens[token.Token] = &cp

		return nil
	})
}

func (r verificationTokenRepository) FindByToken(_ context.Context, token string) (*entity.VerificationToken, error) {
	var found *entity.VerificationToken
	err := r.v.do(func(d *data) error {
		t, ok := d.verificationTokens[token]
		if !ok {
			return repository.ErrTokenNotFound
		}
		cp := *t
		found = &cp

		return nil
	})

	return found, err
}

func (r verificationTokenRepository) Delete(_ context.Context, identifier uuid.UUID, token string) error {
	return r.v.do(func(d *data) error {
		t, ok := d.verificationTokens[token]
		if !ok || t.Identifier != identifier {
			return repository.ErrTokenNotFound
		}
		delete(d.verificationTokens, token)

		return nil
	})
}

type passwordResetTokenRepository struct {
	v view
}

func (r passwordResetTokenRepository) Create(_ context.Context, token *entity.PasswordResetToken) error {
	return r.v.do(func(d *data) error {
		if _, ok := d.users[token.UserID]; !ok {
			return errors.Wrap(repository.ErrUserNotFound, "invalid user reference")
		}
		if token.ID == uuid.Nil {
			token.ID = uuid.New()
		}
		token.CreatedAt = r.v.store.now()

		cp := *token
		d.resetTokens[token.Token] = &cp

		return nil
	})
}

func (r passwordResetTokenRepository) FindByToken(_ context.Context, token string) (*entity.PasswordResetToken, error) {
	var found *entity.PasswordResetToken
	err := r.v.do(func(d *data) error {
		t, ok := d.resetTokens[token]
		if !ok {
			return repository.ErrTokenNotFound
		}
		cp := *t
		found = &cp

		return nil
	})

	return found, err
}

func (r passwordResetTokenRepository) DeleteByToken(_ context.Context, token string) error {
	return r.v.do(func(d *data) error {
		if _, ok := d.resetTokens[token]; !ok {
			return repository.ErrTokenNotFound
		}
		delete(d.resetTokens, token)

		return nil
	})
}

func (r passwordResetTokenRepository) DeleteByUserID(_ context.Context, userID uuid.UUID) (int64, error) {
	var deleted int64
	err := r.v.do(func(d *data) error {
		for token, t := range d.resetTokens {
			if t.UserID == userID {
				delete(d.resetTokens, token)
				deleted++
			}
		}

		return nil
	})

	return deleted, err
}
