// Package memory is an in-process credential store. It backs local
// development with storage.driver=memory and the use case tests.
package memory

import (
	"context"
	"sync"
	"time"

	"blogauth/internal/domain/entity"
	"blogauth/internal/domain/repository"

	"github.com/google/uuid"
)

type data struct {
	users        map[uuid.UUID]*entity.User
	usersByEmail map[string]uuid.UUID

	accounts          map[uuid.UUID]*entity.LinkedAccount
	accountsByProvKey map[string]uuid.UUID

	verificationTokens map[string]*entity.VerificationToken
	resetTokens        map[string]*entity.PasswordResetToken
}

func newData() *data {
	return &data{
		users:              make(map[uuid.UUID]*entity.User),
		usersByEmail:       make(map[string]uuid.UUID),
		accounts:           make(map[uuid.UUID]*entity.LinkedAccount),
		accountsByProvKey:  make(map[string]uuid.UUID),
		verificationTokens: make(map[string]*entity.VerificationToken),
		resetTokens:        make(map[string]*entity.PasswordResetToken),
	}
}

// clone copies every row so a transaction can be discarded wholesale.
func (d *data) clone() *data {
	c := newData()
	for id, u := range d.users {
		c.users[id] = copyUser(u)
	}
	for email, id := range d.usersByEmail {
		c.usersByEmail[email] = id
	}
	for id, a := range d.accounts {
		c.accounts[id] = copyAccount(a)
	}
	for key, id := range d.accountsByProvKey {
		c.accountsByProvKey[key] = id
	}
	for token, t := range d.verificationTokens {
		cp := *t
		c.verificationTokens[token] = &cp
	}
	for token, t := range d.resetTokens {
		cp := *t
		c.resetTokens[token] = &cp
	}

	return c
}

// Store holds all credential data behind one mutex. Transactions hold the
// mutex for their whole duration and work on a copy that replaces the live
// data only on success.
//
// Repositories obtained from Store directly must not be used inside
// Execute; use the factory passed to fn.
type Store struct {
	mu   sync.Mutex
	data *data
	now  func() time.Time
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{data: newData(), now: time.Now}
}

// view routes repository calls either to a transaction's working copy or to
// the live data under the store lock.
type view struct {
	store *Store
	tx    *data
}

func (v view) do(fn func(d *data) error) error {
	if v.tx != nil {
		return fn(v.tx)
	}

	v.store.mu.Lock()
	defer v.store.mu.Unlock()

	return fn(v.store.data)
}

// TransactionManager returns the store's transaction manager.
func (s *Store) TransactionManager() repository.TransactionManager {
	return txManager{store: s}
}

func (s *Store) UserRepo() repository.UserRepository {
	return userRepository{view{store: s}}
}

func (s *Store) LinkedAccountRepo() repository.LinkedAccountRepository {
	return linkedAccountRepository{view{store: s}}
}

func (s *Store) VerificationTokenRepo() repository.VerificationTokenRepository {
	return verificationTokenRepository{view{store: s}}
}

func (s *Store) PasswordResetTokenRepo() repository.PasswordResetTokenRepository {
	return passwordResetTokenRepository{view{store: s}}
}

type txManager struct {
	store *Store
}

func (tm txManager) Execute(ctx context.Context, fn func(repoFactory repository.RepositoryFactory) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	tm.store.mu.Lock()
	defer tm.store.mu.Unlock()

	// A panic in fn leaves the live data untouched.
	work := tm.store.data.clone()
	if err := fn(txFactory{view{store: tm.store, tx: work}}); err != nil {
		return err
	}
	tm.store.data = work

	return nil
}

type txFactory struct {
	v view
}

func (f txFactory) UserRepo() repository.UserRepository {
	return userRepository{f.v}
}

func (f txFactory) LinkedAccountRepo() repository.LinkedAccountRepository {
	return linkedAccountRepository{f.v}
}

func (f txFactory) VerificationTokenRepo() repository.VerificationTokenRepository {
	return verificationTokenRepository{f.v}
}

func (f txFactory) PasswordResetTokenRepo() repository.PasswordResetTokenRepository {
	return passwordResetTokenRepository{f.v}
}

func copyUser(u *entity.User) *entity.User {
	cp := *u
	if u.PasswordHash != nil {
		hash := *u.PasswordHash
		cp.PasswordHash = &hash
	}
	if u.AvatarURL != nil {
		avatar := *u.AvatarURL
		cp.AvatarURL = &avatar
	}
	if u.Bio != nil {
		bio := *u.Bio
		cp.Bio = &bio
	}
	if u.EmailVerifiedAt != nil {
		verifiedAt := *u.EmailVerifiedAt
		cp.EmailVerifiedAt = &verifiedAt
	}
	cp.LinkedAccounts = nil

	return &cp
}

func copyAccount(a *entity.LinkedAccount) *entity.LinkedAccount {
	cp := *a
	if a.Tokens.ExpiresAt != nil {
		expiresAt := *a.Tokens.ExpiresAt
		cp.Tokens.ExpiresAt = &expiresAt
	}

	return &cp
}

func providerKey(provider, providerAccountID string) string {
	return provider + "\x00" + providerAccountID
}

// Stats counts rows per table.
type Stats struct {
	Users              int
	LinkedAccounts     int
	VerificationTokens int
	ResetTokens        int
}

// Stats returns current row counts.
func (s *Store) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()

	return Stats{
		Users:              len(s.data.users),
		LinkedAccounts:     len(s.data.accounts),
		VerificationTokens: len(s.data.verificationTokens),
		ResetTokens:        len(s.data.resetTokens),
	}
}
