package oauth

import (
	"context"

	"blogauth/config"
	"blogauth/internal/domain/entity"
	"blogauth/internal/domain/service"
	"blogauth/internal/errors"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/idtoken"
)

var defaultGoogleScopes = []string{"openid", "email", "profile"}

// idTokenValidator matches idtoken.Validate.
type idTokenValidator func(ctx context.Context, idToken, audience string) (*idtoken.Payload, error)

// GoogleProvider runs the OpenID Connect code flow against Google. The
// profile is read from the verified id_token instead of a userinfo call.
type GoogleProvider struct {
	oauthConfig *oauth2.Config
	validate    idTokenValidator
}

// NewGoogleProvider creates a Google provider from its client config.
func NewGoogleProvider(cfg *config.OAuthProviderConfig) *GoogleProvider {
	scopes := cfg.Scopes
	if len(scopes) == 0 {
		scopes = defaultGoogleScopes
	}

	return &GoogleProvider{
		oauthConfig: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Scopes:       scopes,
			Endpoint:     google.Endpoint,
		},
		validate: idtoken.Validate,
	}
}

func (p *GoogleProvider) Name() string {
	return entity.ProviderGoogle
}

func (p *GoogleProvider) AuthCodeURL(state string) string {
	return p.oauthConfig.AuthCodeURL(state)
}

func (p *GoogleProvider) Exchange(ctx context.Context, code string) (*service.OAuthResult, error) {
	token, err := p.oauthConfig.Exchange(ctx, code)
	if err != nil {
		return nil, errors.Wrap(err, "google code exchange failed")
	}

	rawIDToken, _ := token.Extra("id_token").(string)
	if rawIDToken == "" {
		return nil, errors.New("google token response has no id_token")
	}

	payload, err := p.validate(ctx, rawIDToken, p.oauthConfig.ClientID)
	if err != nil {
		return nil, errors.Wrap(err, "google id_token validation failed")
	}

	email := claimString(payload.Claims, "email")
	if email == "" {
		return nil, errors.New("google id_token has no email claim")
	}
	verified, _ := payload.Claims["email_verified"].(bool)

	tokens := tokensFrom(token)
	tokens.IDToken = rawIDToken

	return &service.OAuthResult{
		Profile: service.OAuthProfile{
			Provider:          entity.ProviderGoogle,
			ProviderAccountID: payload.Subject,
			Email:             email,
			EmailVerified:     verified,
			Name:              claimString(payload.Claims, "name"),
			AvatarURL:         claimString(payload.Claims, "picture"),
		},
		AccountType: "oidc",
		Tokens:      tokens,
	}, nil
}

func claimString(claims map[string]any, key string) string {
	value, _ := claims[key].(string)

	return value
}
