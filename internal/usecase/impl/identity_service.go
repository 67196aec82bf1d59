// Package impl contains the implementation of the application's business logic.
package impl

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"blogauth/config"
	deliverycontext "blogauth/internal/delivery/context"
	"blogauth/internal/domain/entity"
	domainerrors "blogauth/internal/domain/errors"
	"blogauth/internal/domain/repository"
	"blogauth/internal/domain/service"
	"blogauth/internal/errors"
	"blogauth/internal/usecase"

	"github.com/google/uuid"
	"go.uber.org/fx"
)

// dummyPassword is hashed once and checked against when a sign-in names an
// unknown email, so a miss costs the same as a wrong password.
const dummyPassword = "blogauth-timing-equalizer"

// identityService implements the IdentityUsecase interface.
type identityService struct {
	txManager        repository.TransactionManager
	userRepo         repository.UserRepository
	verificationRepo repository.VerificationTokenRepository
	resetRepo        repository.PasswordResetTokenRepository
	hasher           service.PasswordHasher
	tokenIssuer      service.TokenIssuer
	publisher        service.EventPublisher
	metrics          service.AuthMetrics
	verificationTTL  time.Duration
	resetTTL         time.Duration
	mergeByEmail     bool
	logger           *slog.Logger
	now              func() time.Time
	dummyHashOnce    sync.Once
	dummyHash        string
}

// IdentityServiceParams holds dependencies for IdentityService, injected by Fx.
type IdentityServiceParams struct {
	fx.In

	TxManager        repository.TransactionManager
	UserRepo         repository.UserRepository
	VerificationRepo repository.VerificationTokenRepository
	ResetRepo        repository.PasswordResetTokenRepository
	Hasher           service.PasswordHasher
	TokenIssuer      service.TokenIssuer
	Publisher        service.EventPublisher
	Metrics          service.AuthMetrics
	Config           *config.Config
	Logger           *slog.Logger
}

// NewIdentityService is the constructor for identityService.
func NewIdentityService(params IdentityServiceParams) usecase.IdentityUsecase {
	return &identityService{
		txManager:        params.TxManager,
		userRepo:         params.UserRepo,
		verificationRepo: params.VerificationRepo,
		resetRepo:        params.ResetRepo,
		hasher:           params.Hasher,
		tokenIssuer:      params.TokenIssuer,
		publisher:        params.Publisher,
		metrics:          params.Metrics,
		verificationTTL:  params.Config.Auth.VerificationTokenTTL,
		resetTTL:         params.Config.Auth.ResetTokenTTL,
		mergeByEmail:     params.Config.Auth.MergeByEmailEnabled(),
		logger:           params.Logger,
		now:              time.Now,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *identityService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// AuthenticateWithPassword runs the credential checks in a fixed order and
// reports the first one that fails.
func (srv *identityService) AuthenticateWithPassword(ctx context.Context, email, password string) (*usecase.UserSummary, error) {
	email = entity.NormalizeEmail(email)

	user, err := srv.userRepo.FindByEmailWithAccounts(ctx, email)
	if errors.Is(err, repository.ErrUserNotFound) {
		srv.equalizeTiming(password)

		return nil, srv.signinFailure(ctx, email, domainerrors.FailureUserNotFound)
	}
	if err != nil {
		return nil, storeFailure(err, "failed to find user")
	}

	switch {
	case !user.HasPassword() && len(user.LinkedAccounts) > 0:
		return nil, srv.signinFailure(ctx, email, domainerrors.FailureOAuthOnlyAccount)
	case !user.HasPassword():
		return nil, srv.signinFailure(ctx, email, domainerrors.FailureNoPasswordSet)
	case !srv.hasher.Check(password, *user.PasswordHash):
		return nil, srv.signinFailure(ctx, email, domainerrors.FailureInvalidCredentials)
	case !user.IsEmailVerified():
		return nil, srv.signinFailure(ctx, email, domainerrors.FailureEmailNotVerified)
	}

	srv.metrics.RecordAuthAttempt("password", "success")
	srv.log(ctx).Info("Password sign-in succeeded", slog.Any("user_id", user.ID))

	return usecase.NewUserSummary(user), nil
}

func (srv *identityService) signinFailure(ctx context.Context, email string, failure domainerrors.Failure) error {
	srv.metrics.RecordAuthAttempt("password", failure.String())
	srv.log(ctx).Info("Password sign-in rejected", slog.String("email", email), slog.String("failure", failure.String()))

	return domainerrors.NewAuthError(failure, nil)
}

func (srv *identityService) equalizeTiming(password string) {
	srv.dummyHashOnce.Do(func() {
		hash, err := srv.hasher.Hash(dummyPassword)
		if err == nil {
			srv.dummyHash = hash
		}
	})
	if srv.dummyHash != "" {
		srv.hasher.Check(password, srv.dummyHash)
	}
}

// ResolveOAuthIdentity maps a provider account onto a user in one transaction.
// An existing link always wins. Otherwise the user is found by email, or
// created verified, and the link is added.
func (srv *identityService) ResolveOAuthIdentity(ctx context.Context, result *service.OAuthResult) (*usecase.OAuthIdentityOutput, error) {
	profile := result.Profile
	email := entity.NormalizeEmail(profile.Email)
	if profile.Provider == "" || profile.ProviderAccountID == "" || email == "" {
		return nil, domainerrors.NewAuthError(domainerrors.FailureOAuthExchange,
			errors.New("provider profile is missing provider, account id or email"))
	}

	srv.log(ctx).Info("Resolving OAuth identity", slog.String("provider", profile.Provider), slog.String("email", email))

	var output usecase.OAuthIdentityOutput
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		userRepo := repoFactory.UserRepo()
		accountRepo := repoFactory.LinkedAccountRepo()

		account, err := accountRepo.FindByProviderAccount(ctx, profile.Provider, profile.ProviderAccountID)
		if err != nil && !errors.Is(err, repository.ErrLinkedAccountNotFound) {
			return errors.Wrap(err, "failed to find linked account")
		}

		var user *entity.User
		switch {
		case account != nil:
			user, err = userRepo.FindByID(ctx, account.UserID)
			if err != nil {
				return errors.Wrap(err, "failed to find linked user")
			}
		default:
			user, err = userRepo.FindByEmail(ctx, email)
			switch {
			case errors.Is(err, repository.ErrUserNotFound):
				user = srv.newOAuthUser(email, profile)
				if err := userRepo.Create(ctx, user); err != nil {
					return errors.Wrap(err, "failed to create user")
				}
				output.UserCreated = true
			case err != nil:
				return errors.Wrap(err, "failed to find user")
			case !srv.mergeByEmail:
				return domainerrors.NewAuthError(domainerrors.FailureAccountNotLinked, nil)
			case !profile.EmailVerified:
				// The provider has not proven the address, so it cannot claim
				// an existing account.
				return domainerrors.NewAuthError(domainerrors.FailureAccountNotLinked,
					errors.Errorf("%s reports %s as unverified", profile.Provider, email))
			}
		}

		if !output.UserCreated && applyProfile(user, profile, srv.now()) {
			if err := userRepo.Update(ctx, user); err != nil {
				return errors.Wrap(err, "failed to update user profile")
			}
		}

		if account != nil {
			if err := accountRepo.UpdateTokens(ctx, account.ID, result.Tokens); err != nil {
				return errors.Wrap(err, "failed to refresh provider tokens")
			}
		} else {
			link := &entity.LinkedAccount{
				UserID:            user.ID,
				Type:              result.AccountType,
				Provider:          profile.Provider,
				ProviderAccountID: profile.ProviderAccountID,
				Tokens:            result.Tokens,
			}
			if err := accountRepo.Create(ctx, link); err != nil {
				return errors.Wrap(err, "failed to link provider account")
			}
			output.LinkCreated = true
		}

		output.UserID = user.ID
		output.Role = user.Role

		return nil
	})
	if err != nil {
		srv.metrics.RecordAuthAttempt(profile.Provider, domainerrors.FailureOf(err).String())
		srv.log(ctx).Warn("Failed to resolve OAuth identity", slog.String("provider", profile.Provider), slog.Any("error", err))

		return nil, storeFailure(err, "failed to resolve oauth identity")
	}

	srv.metrics.RecordAuthAttempt(profile.Provider, "success")
	srv.log(ctx).Info("OAuth identity resolved",
		slog.Any("user_id", output.UserID),
		slog.Bool("user_created", output.UserCreated),
		slog.Bool("link_created", output.LinkCreated),
	)

	return &output, nil
}

func (srv *identityService) newOAuthUser(email string, profile service.OAuthProfile) *entity.User {
	verifiedAt := srv.now()

	return &entity.User{
		Email:           email,
		Name:            profile.Name,
		Role:            entity.RoleReader,
		AvatarURL:       entity.StringPtr(profile.AvatarURL),
		EmailVerifiedAt: &verifiedAt,
	}
}

// applyProfile copies the non-empty provider name and avatar onto user and
// marks the email verified. It reports whether anything changed.
func applyProfile(user *entity.User, profile service.OAuthProfile, now time.Time) bool {
	changed := user.MarkEmailVerified(now)
	if profile.Name != "" && profile.Name != user.Name {
		user.Name = profile.Name
		changed = true
	}
	if profile.AvatarURL != "" && profile.AvatarURL != entity.StringValue(user.AvatarURL) {
		user.AvatarURL = entity.StringPtr(profile.AvatarURL)
		changed = true
	}

	return changed
}

// CreateAccount registers an unverified password user and issues its
// verification token.
func (srv *identityService) CreateAccount(ctx context.Context, input usecase.SignupInput) (*usecase.SignupOutput, error) {
	email := entity.NormalizeEmail(input.Email)
	name := strings.TrimSpace(input.Name)
	srv.log(ctx).Info("Starting signup", slog.String("email", email))

	// Hash before the transaction so the slow part holds no locks.
	passwordHash, err := srv.hasher.Hash(input.Password)
	if err != nil {
		return nil, errors.Wrap(err, "failed to hash password")
	}

	token, expiresAt, err := srv.tokenIssuer.IssueWithExpiry(srv.verificationTTL)
	if err != nil {
		return nil, errors.Wrap(err, "failed to issue verification token")
	}

	var created *entity.User
	err = srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		userRepo := repoFactory.UserRepo()

		existing, err := userRepo.FindByEmailWithAccounts(ctx, email)
		if err == nil {
			return conflictFor(existing)
		}
		if !errors.Is(err, repository.ErrUserNotFound) {
			return errors.Wrap(err, "failed to find user")
		}

		user := &entity.User{
			Email:        email,
			Name:         name,
			PasswordHash: &passwordHash,
			Role:         entity.RoleReader,
		}
		if err := userRepo.Create(ctx, user); err != nil {
			// A concurrent signup for the same email lost the race.
			if errors.Is(err, repository.ErrUserAlreadyExists) {
				return conflictFor(&entity.User{Email: email})
			}

			return errors.Wrap(err, "failed to create user")
		}

		verification := &entity.VerificationToken{
			Identifier: user.ID,
			Token:      token,
			ExpiresAt:  expiresAt,
		}
		if err := repoFactory.VerificationTokenRepo().Create(ctx, verification); err != nil {
			return errors.Wrap(err, "failed to store verification token")
		}

		created = user

		return nil
	})
	if err != nil {
		srv.log(ctx).Info("Signup rejected", slog.String("email", email), slog.String("failure", domainerrors.FailureOf(err).String()))

		return nil, storeFailure(err, "failed to execute signup transaction")
	}

	srv.log(ctx).Info("Signup completed", slog.Any("user_id", created.ID))
	srv.publish(ctx, &service.AuthMailEvent{
		Type:      service.MailVerificationRequested,
		UserID:    created.ID.String(),
		Email:     created.Email,
		Name:      created.Name,
		Token:     token,
		ExpiresAt: expiresAt,
	})

	return &usecase.SignupOutput{
		User:                usecase.NewUserSummary(created),
		VerificationToken:   token,
		VerificationExpires: expiresAt,
	}, nil
}

// conflictFor builds the signup conflict, naming the linked providers when
// the existing account came from OAuth.
func conflictFor(existing *entity.User) error {
	if len(existing.LinkedAccounts) == 0 {
		return domainerrors.NewAuthError(domainerrors.FailureEmailTaken, nil)
	}

	providers := strings.Join(existing.Providers(), ", ")

	return domainerrors.NewAuthError(domainerrors.FailureEmailTakenByOAuth, nil).WithPublicMessage(
		"An account with this email already exists and is connected to " + providers +
			". Please sign in with your connected account.",
	)
}

// ConsumeVerificationToken marks the token owner's email verified.
func (srv *identityService) ConsumeVerificationToken(ctx context.Context, token string) (uuid.UUID, error) {
	if err := srv.discardIfExpired(ctx, srv.lookupVerification, token); err != nil {
		return uuid.Nil, err
	}

	var userID uuid.UUID
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		tokenRepo := repoFactory.VerificationTokenRepo()

		record, err := tokenRepo.FindByToken(ctx, token)
		if errors.Is(err, repository.ErrTokenNotFound) {
			return domainerrors.NewAuthError(domainerrors.FailureInvalidToken, nil)
		}
		if err != nil {
			return errors.Wrap(err, "failed to find verification token")
		}

		// Deleting claims the token. A redemption that committed first
		// leaves no row behind.
		if err := tokenRepo.Delete(ctx, record.Identifier, record.Token); err != nil {
			if errors.Is(err, repository.ErrTokenNotFound) {
				return domainerrors.NewAuthError(domainerrors.FailureInvalidToken, nil)
			}

			return errors.Wrap(err, "failed to delete verification token")
		}

		userRepo := repoFactory.UserRepo()
		user, err := userRepo.FindByID(ctx, record.Identifier)
		if errors.Is(err, repository.ErrUserNotFound) {
			return domainerrors.NewAuthError(domainerrors.FailureInvalidToken, err)
		}
		if err != nil {
			return errors.Wrap(err, "failed to find token owner")
		}

		if user.MarkEmailVerified(srv.now()) {
			if err := userRepo.Update(ctx, user); err != nil {
				return errors.Wrap(err, "failed to mark email verified")
			}
		}

		userID = user.ID

		return nil
	})
	if err != nil {
		srv.log(ctx).Info("Email verification rejected", slog.String("failure", domainerrors.FailureOf(err).String()))

		return uuid.Nil, storeFailure(err, "failed to consume verification token")
	}

	srv.log(ctx).Info("Email verified", slog.Any("user_id", userID))

	return userID, nil
}

// RequestPasswordReset replaces any outstanding reset token of a password
// user. Unknown emails and OAuth-only users are ignored silently.
func (srv *identityService) RequestPasswordReset(ctx context.Context, email string) error {
	email = entity.NormalizeEmail(email)

	token, expiresAt, err := srv.tokenIssuer.IssueWithExpiry(srv.resetTTL)
	if err != nil {
		return errors.Wrap(err, "failed to issue reset token")
	}

	var target *entity.User
	err = srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		user, err := repoFactory.UserRepo().FindByEmail(ctx, email)
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil
		}
		if err != nil {
			return errors.Wrap(err, "failed to find user")
		}
		if !user.HasPassword() {
			return nil
		}

		resetRepo := repoFactory.PasswordResetTokenRepo()
		removed, err := resetRepo.DeleteByUserID(ctx, user.ID)
		if err != nil {
			return errors.Wrap(err, "failed to delete previous reset tokens")
		}
		if removed > 0 {
			srv.log(ctx).Debug("Replaced outstanding reset tokens", slog.Any("user_id", user.ID), slog.Int64("count", removed))
		}

		record := &entity.PasswordResetToken{
			Token:     token,
			UserID:    user.ID,
			ExpiresAt: expiresAt,
		}
		if err := resetRepo.Create(ctx, record); err != nil {
			return errors.Wrap(err, "failed to store reset token")
		}
		target = user

		return nil
	})
	if err != nil {
		return storeFailure(err, "failed to execute password reset request")
	}

	if target == nil {
		srv.log(ctx).Info("Password reset requested for unknown or passwordless account", slog.String("email", email))

		return nil
	}

	srv.log(ctx).Info("Password reset token issued", slog.Any("user_id", target.ID))
	srv.publish(ctx, &service.AuthMailEvent{
		Type:      service.MailPasswordResetRequested,
		UserID:    target.ID.String(),
		Email:     target.Email,
		Name:      target.Name,
		Token:     token,
		ExpiresAt: expiresAt,
	})

	return nil
}

// ResetPassword stores a new password for the owner of a live reset token
// and burns the token.
func (srv *identityService) ResetPassword(ctx context.Context, input usecase.ResetPasswordInput) error {
	if err := srv.discardIfExpired(ctx, srv.lookupReset, input.Token); err != nil {
		return err
	}

	passwordHash, err := srv.hasher.Hash(input.NewPassword)
	if err != nil {
		return errors.Wrap(err, "failed to hash password")
	}

	var userID uuid.UUID
	err = srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		resetRepo := repoFactory.PasswordResetTokenRepo()

		record, err := resetRepo.FindByToken(ctx, input.Token)
		if errors.Is(err, repository.ErrTokenNotFound) {
			return domainerrors.NewAuthError(domainerrors.FailureInvalidToken, nil)
		}
		if err != nil {
			return errors.Wrap(err, "failed to find reset token")
		}

		// Only one of two concurrent resets gets to delete the row.
		if err := resetRepo.DeleteByToken(ctx, record.Token); err != nil {
			if errors.Is(err, repository.ErrTokenNotFound) {
				return domainerrors.NewAuthError(domainerrors.FailureInvalidToken, nil)
			}

			return errors.Wrap(err, "failed to delete reset token")
		}

		userRepo := repoFactory.UserRepo()
		user, err := userRepo.FindByID(ctx, record.UserID)
		if errors.Is(err, repository.ErrUserNotFound) {
			return domainerrors.NewAuthError(domainerrors.FailureInvalidToken, err)
		}
		if err != nil {
			return errors.Wrap(err, "failed to find token owner")
		}

		user.PasswordHash = &passwordHash
		user.MarkEmailVerified(srv.now())
		if err := userRepo.Update(ctx, user); err != nil {
			return errors.Wrap(err, "failed to update password")
		}

		userID = user.ID

		return nil
	})
	if err != nil {
		srv.log(ctx).Info("Password reset rejected", slog.String("failure", domainerrors.FailureOf(err).String()))

		return storeFailure(err, "failed to execute password reset")
	}

	srv.log(ctx).Info("Password reset completed", slog.Any("user_id", userID))

	return nil
}

// tokenLookup reports a token's expiry and a func that deletes it.
type tokenLookup func(ctx context.Context, token string) (expiresAt time.Time, remove func() error, err error)

func (srv *identityService) lookupVerification(ctx context.Context, token string) (time.Time, func() error, error) {
	record, err := srv.verificationRepo.FindByToken(ctx, token)
	if err != nil {
		return time.Time{}, nil, err
	}

	return record.ExpiresAt, func() error {
		return srv.verificationRepo.Delete(ctx, record.Identifier, record.Token)
	}, nil
}

func (srv *identityService) lookupReset(ctx context.Context, token string) (time.Time, func() error, error) {
	record, err := srv.resetRepo.FindByToken(ctx, token)
	if err != nil {
		return time.Time{}, nil, err
	}

	return record.ExpiresAt, func() error {
		return srv.resetRepo.DeleteByToken(ctx, record.Token)
	}, nil
}

// discardIfExpired rejects missing tokens and deletes expired ones. The
// delete runs outside any transaction so it survives the failure.
func (srv *identityService) discardIfExpired(ctx context.Context, lookup tokenLookup, token string) error {
	if token == "" {
		return domainerrors.NewAuthError(domainerrors.FailureInvalidToken, nil)
	}

	expiresAt, remove, err := lookup(ctx, token)
	if errors.Is(err, repository.ErrTokenNotFound) {
		return domainerrors.NewAuthError(domainerrors.FailureInvalidToken, nil)
	}
	if err != nil {
		return storeFailure(err, "failed to find token")
	}

	if srv.now().Before(expiresAt) {
		return nil
	}

	if err := remove(); err != nil && !errors.Is(err, repository.ErrTokenNotFound) {
		srv.log(ctx).Warn("Failed to delete expired token", slog.Any("error", err))
	}

	return domainerrors.NewAuthError(domainerrors.FailureExpiredToken, nil)
}

// SetRole changes the role of an existing user.
func (srv *identityService) SetRole(ctx context.Context, email string, role entity.Role) (*usecase.UserSummary, error) {
	if !role.IsValid() {
		return nil, domainerrors.NewValidationError([]domainerrors.FieldError{
			{Field: "role", Message: "must be one of READER, AUTHOR, ADMIN"},
		})
	}
	email = entity.NormalizeEmail(email)

	var updated *entity.User
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		userRepo := repoFactory.UserRepo()

		user, err := userRepo.FindByEmail(ctx, email)
		if err != nil {
			return errors.Wrap(err, "failed to find user")
		}
		if err := userRepo.UpdateRole(ctx, user.ID, role); err != nil {
			return errors.Wrap(err, "failed to update role")
		}
		user.Role = role
		updated = user

		return nil
	})
	if errors.Is(err, repository.ErrUserNotFound) {
		return nil, errors.Wrap(domainerrors.ErrNotFound, "user not found")
	}
	if err != nil {
		return nil, storeFailure(err, "failed to set role")
	}

	srv.log(ctx).Info("User role changed", slog.Any("user_id", updated.ID), slog.String("role", role.String()))

	return usecase.NewUserSummary(updated), nil
}

// GetUser loads a user summary by id.
func (srv *identityService) GetUser(ctx context.Context, id uuid.UUID) (*usecase.UserSummary, error) {
	user, err := srv.userRepo.FindByID(ctx, id)
	if errors.Is(err, repository.ErrUserNotFound) {
		return nil, errors.Wrap(domainerrors.ErrNotFound, "user not found")
	}
	if err != nil {
		return nil, storeFailure(err, "failed to find user")
	}

	return usecase.NewUserSummary(user), nil
}

// publish sends a mail event after the owning transaction committed.
// Failures are logged and never reach the caller.
func (srv *identityService) publish(ctx context.Context, event *service.AuthMailEvent) {
	event.RequestID = deliverycontext.GetRequestIDFromContext(ctx)

	if err := srv.publisher.PublishAuthMailEvent(ctx, event); err != nil {
		srv.log(ctx).Error("Failed to publish auth mail event",
			slog.String("type", string(event.Type)),
			slog.String("user_id", event.UserID),
			slog.Any("error", err),
		)
	}
}

// storeFailure keeps AuthErrors and domain AppErrors as they are and
// reports everything else as an unavailable store.
func storeFailure(err error, message string) error {
	if _, ok := errors.Find[*domainerrors.AuthError](err); ok {
		return err
	}
	if _, ok := errors.Find[*domainerrors.BaseError](err); ok {
		return err
	}

	return domainerrors.NewAuthError(domainerrors.FailureStoreUnavailable, errors.Wrap(err, message))
}
