package usecase

import "context"

// OAuthBeginOutput is where to send the browser, plus the state it must
// bring back to the callback.
type OAuthBeginOutput struct {
	ConsentURL string
	State      string
}

// OAuthLoginOutput is the result of a completed provider callback.
type OAuthLoginOutput struct {
	Session     *Session
	CallbackURL string
	UserCreated bool
}

// OAuthLoginUsecase drives the authorization-code sign-in.
type OAuthLoginUsecase interface {
	// Providers lists the configured provider names.
	Providers() []string

	// Begin stores callbackURL under a new state and returns the consent URL.
	Begin(ctx context.Context, provider, callbackURL string) (*OAuthBeginOutput, error)

	// Complete redeems state, exchanges code and signs the user in.
	Complete(ctx context.Context, provider, code, state string) (*OAuthLoginOutput, error)
}
