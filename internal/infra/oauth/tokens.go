package oauth

import (
	"blogauth/internal/domain/entity"

	"golang.org/x/oauth2"
)

func tokensFrom(token *oauth2.Token) entity.OAuthTokens {
	tokens := entity.OAuthTokens{
		AccessToken:  token.AccessToken,
		RefreshToken: token.RefreshToken,
		TokenType:    token.TokenType,
	}
	if scope, ok := token.Extra("scope").(string); ok {
		tokens.Scope = scope
	}
	if !token.Expiry.IsZero() {
		expiry := token.Expiry
		tokens.ExpiresAt = &expiry
	}

	return tokens
}
