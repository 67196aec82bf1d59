package auth

import (
	"crypto/rand"
	"encoding/base64"
	"time"

	"blogauth/internal/domain/service"
	"blogauth/internal/errors"
)

// tokenBytes is the amount of randomness per token (256 bits).
const tokenBytes = 32

type randomTokenIssuer struct {
	now func() time.Time
}

// NewTokenIssuer returns a TokenIssuer backed by crypto/rand.
func NewTokenIssuer() service.TokenIssuer {
	return &randomTokenIssuer{now: time.Now}
}

// Issue returns 32 random bytes encoded as unpadded base64url.
func (i *randomTokenIssuer) Issue() (string, error) {
	buf := make([]byte, tokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", errors.Wrap(err, "read random bytes")
	}

	return base64.RawURLEncoding.EncodeToString(buf), nil
}

func (i *randomTokenIssuer) IssueWithExpiry(ttl time.Duration) (string, time.Time, error) {
	token, err := i.Issue()
	if err != nil {
		return "", time.Time{}, err
	}

	return token, i.now().Add(ttl), nil
}
