package postgres

import (
	"bytes"
	"context"
	"database/sql"
	"io"
	"log/slog"
	"testing"
	"time"

	"blogauth/config"
	deliverycontext "blogauth/internal/delivery/context"
	"blogauth/internal/domain/entity"
	"blogauth/internal/infra/persistence/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestUserMapping_RoundTrip(t *testing.T) {
	verifiedAt := time.Now().UTC()
	user := &entity.User{
		ID:              uuid.New(),
		Email:           "writer@example.com",
		Name:            "Writer",
		PasswordHash:    entity.StringPtr("$2a$12$hash"),
		Role:            entity.RoleAuthor,
		AvatarURL:       entity.StringPtr("https://img.example/w.png"),
		EmailVerifiedAt: &verifiedAt,
	}

	back := toUserDomain(fromUserDomain(user))
	assert.Equal(t, user, back)
}

func TestUserMapping_DefaultsRole(t *testing.T) {
	userM := fromUserDomain(&entity.User{Email: "x@example.com"})
	assert.Equal(t, "READER", userM.Role)
}

func TestUserMapping_LinkedAccounts(t *testing.T) {
	expiresAt := time.Now()
	userM := &model.UserModel{
		ID:    uuid.New(),
		Email: "octo@example.com",
		Role:  "READER",
		LinkedAccounts: []model.LinkedAccountModel{
			{Provider: "github", ProviderAccountID: "1", AccessToken: entity.StringPtr("tok"), ExpiresAt: &expiresAt},
			{Provider: "google", ProviderAccountID: "2"},
		},
	}

	user := toUserDomain(userM)
	require.Len(t, user.LinkedAccounts, 2)
	assert.Equal(t, []string{"github", "google"}, user.Providers())
	assert.Equal(t, "tok", user.LinkedAccounts[0].Tokens.AccessToken)
	assert.Empty(t, user.LinkedAccounts[1].Tokens.AccessToken)
}

func TestLinkedAccountMapping_EmptyTokensBecomeNull(t *testing.T) {
	accountM := fromLinkedAccountDomain(&entity.LinkedAccount{Provider: "github", ProviderAccountID: "1"})
	assert.Nil(t, accountM.AccessToken)
	assert.Nil(t, accountM.RefreshToken)
	assert.Nil(t, accountM.IDToken)
}

func TestGormSlogLogger_ParamsFilter(t *testing.T) {
	l := newGormSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)), &config.Config{}).(*gormSlogLogger)

	sql, params := l.ParamsFilter(context.Background(), "SELECT * FROM password_reset_tokens WHERE token = $1", "secret")
	assert.Equal(t, "SELECT * FROM password_reset_tokens WHERE token = $1", sql)
	assert.Nil(t, params)
}

func TestGormSlogLogger_Trace(t *testing.T) {
	query := func() (string, int64) { return "SELECT 1", 1 }

	tests := []struct {
		name    string
		elapsed time.Duration
		err     error
		want    string
	}{
		{name: "not found is silent", elapsed: time.Millisecond, err: gorm.ErrRecordNotFound},
		{name: "fast query is silent at warn", elapsed: time.Millisecond},
		{name: "failed query", elapsed: time.Millisecond, err: gorm.ErrInvalidTransaction, want: "Credential store query failed"},
		{name: "slow query", elapsed: time.Second, want: "Credential store slow query"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			l := newGormSlogLogger(slog.New(slog.NewTextHandler(&buf, nil)), &config.Config{})

			l.Trace(context.Background(), time.Now().Add(-tt.elapsed), query, tt.err)

			if tt.want == "" {
				assert.Empty(t, buf.String())

				return
			}
			assert.Contains(t, buf.String(), tt.want)
		})
	}
}

func TestGormSlogLogger_UsesRequestLogger(t *testing.T) {
	var base, scoped bytes.Buffer
	l := newGormSlogLogger(slog.New(slog.NewTextHandler(&base, nil)), &config.Config{})
	reqLogger := slog.New(slog.NewTextHandler(&scoped, nil)).With(slog.String("request_id", "req-1"))
	ctx := deliverycontext.WithLogger(context.Background(), reqLogger)

	l.Trace(ctx, time.Now(), func() (string, int64) { return "UPDATE users", 0 }, gorm.ErrInvalidTransaction)

	assert.Empty(t, base.String())
	assert.Contains(t, scoped.String(), "request_id=req-1")
}

func TestPoolMonitor_Report(t *testing.T) {
	var buf bytes.Buffer
	m := &poolMonitor{logger: slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelWarn}))}

	m.report(context.Background(), sql.DBStats{WaitCount: 3}, sql.DBStats{WaitCount: 3})
	assert.Empty(t, buf.String())

	m.report(context.Background(),
		sql.DBStats{WaitCount: 3, WaitDuration: time.Millisecond},
		sql.DBStats{WaitCount: 5, WaitDuration: 201 * time.Millisecond, InUse: 10, MaxOpenConnections: 10},
	)
	assert.Contains(t, buf.String(), "Credential store pool saturated")
	assert.Contains(t, buf.String(), "waits=2")
	assert.Contains(t, buf.String(), "avg_wait=100ms")
}
