package auth

import (
	"crypto/rand"
	"log/slog"
	"time"

	"blogauth/config"
	"blogauth/internal/domain/entity"
	"blogauth/internal/domain/service"
	"blogauth/internal/errors"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/fx"
)

// sessionJWTClaims is the wire form of service.SessionClaims.
type sessionJWTClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// jwtSessionSigner seals session claims as HS256 JWTs.
type jwtSessionSigner struct {
	secret []byte
	issuer string
	now    func() time.Time
}

// SessionSignerParams holds dependencies for the session signer, injected by Fx.
type SessionSignerParams struct {
	fx.In

	Config *config.Config
	Logger *slog.Logger
}

// NewJWTSessionSigner builds the signer from session.secret. Without a secret
// (allowed only outside production by config validation) an ephemeral key is
// generated, which invalidates every session on restart.
func NewJWTSessionSigner(params SessionSignerParams) (service.SessionSigner, error) {
	secret := []byte(params.Config.Session.Secret)
	if len(secret) == 0 {
		secret = make([]byte, 32)
		if _, err := rand.Read(secret); err != nil {
			return nil, errors.Wrap(err, "generate ephemeral session secret")
		}
		params.Logger.Warn("session.secret is empty, using an ephemeral signing key")
	}

	return newJWTSessionSigner(secret, params.Config.Session.Issuer, time.Now), nil
}

func newJWTSessionSigner(secret []byte, issuer string, now func() time.Time) *jwtSessionSigner {
	return &jwtSessionSigner{secret: secret, issuer: issuer, now: now}
}

func (s *jwtSessionSigner) Sign(claims service.SessionClaims) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, sessionJWTClaims{
		Role: claims.Role.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   claims.UserID.String(),
			Issuer:    s.issuer,
			IssuedAt:  jwt.NewNumericDate(claims.IssuedAt),
			ExpiresAt: jwt.NewNumericDate(claims.ExpiresAt),
		},
	})

	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", errors.Wrap(err, "sign session")
	}

	return signed, nil
}

func (s *jwtSessionSigner) Parse(raw string) (*service.SessionClaims, error) {
	parsed := &sessionJWTClaims{}
	_, err := jwt.ParseWithClaims(raw, parsed, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}

		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
		jwt.WithIssuer(s.issuer),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return nil, errors.Wrap(service.ErrSessionInvalid, err.Error())
	}

	userID, err := uuid.Parse(parsed.Subject)
	if err != nil {
		return nil, errors.Wrap(service.ErrSessionInvalid, "subject is not a user id")
	}

	role := entity.Role(parsed.Role)
	if !role.IsValid() {
		return nil, errors.Wrap(service.ErrSessionInvalid, "unknown role claim")
	}

	if parsed.IssuedAt == nil {
		return nil, errors.Wrap(service.ErrSessionInvalid, "missing iat")
	}

	return &service.SessionClaims{
		UserID:    userID,
		Role:      role,
		IssuedAt:  parsed.IssuedAt.Time,
		ExpiresAt: parsed.ExpiresAt.Time,
	}, nil
}
