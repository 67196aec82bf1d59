package auth

import (
	"encoding/base64"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenIssuer_IssueIsURLSafeAndRandom(t *testing.T) {
	issuer := NewTokenIssuer()
	seen := make(map[string]struct{})

	for range 200 {
		token, err := issuer.Issue()
		require.NoError(t, err)

		assert.Equal(t, url.QueryEscape(token), token, "token must not need escaping")

		raw, err := base64.RawURLEncoding.DecodeString(token)
		require.NoError(t, err)
		assert.Len(t, raw, tokenBytes)

		_, dup := seen[token]
		require.False(t, dup)
		seen[token] = struct{}{}
	}
}

func TestTokenIssuer_IssueWithExpiry(t *testing.T) {
	fixed := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	issuer := &randomTokenIssuer{now: func() time.Time { return fixed }}

	token, expiresAt, err := issuer.IssueWithExpiry(24 * time.Hour)
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, fixed.Add(24*time.Hour), expiresAt)
}
