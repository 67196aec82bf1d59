package oauth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"log/slog"
	"strings"
	"sync"
	"time"

	"blogauth/config"
	"blogauth/internal/domain/service"
	"blogauth/internal/errors"
	"blogauth/internal/infra/redisclient"

	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
)

// ErrInvalidState is returned for unknown, expired, reused or mismatched states.
var ErrInvalidState = errors.New("invalid oauth state")

type StateStoreParams struct {
	fx.In

	Config *config.Config
	Logger *slog.Logger
	Redis  *redis.Client `optional:"true"`
}

// NewStateStore returns the redis-backed store when a redis client is
// available so that any replica can finish a flow started on another one.
func NewStateStore(params StateStoreParams) service.OAuthStateStore {
	if params.Redis != nil {
		params.Logger.Info("OAuth state store backed by redis")

		return NewRedisStateStore(params.Redis, redisclient.Key(params.Config, "oauthstate"))
	}

	return NewMemoryStateStore()
}

type stateEntry struct {
	provider    string
	callbackURL string
	expiresAt   time.Time
}

// MemoryStateStore keeps states in process memory.
type MemoryStateStore struct {
	mu     sync.Mutex
	states map[string]stateEntry
	now    func() time.Time
}

func NewMemoryStateStore() *MemoryStateStore {
	return &MemoryStateStore{
		states: make(map[string]stateEntry),
		now:    time.Now,
	}
}

func (s *MemoryStateStore) Create(_ context.Context, provider, callbackURL string) (string, error) {
	state, err := generateState()
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	s.cleanupExpired(now)
	s.states[state] = stateEntry{
		provider:    provider,
		callbackURL: callbackURL,
		expiresAt:   now.Add(service.OAuthStateTTL),
	}

	return state, nil
}

func (s *MemoryStateStore) Consume(_ context.Context, provider, state string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.states[state]
	if !ok {
		return "", ErrInvalidState
	}
	// single use, even when the check below fails
	delete(s.states, state)

	if entry.provider != provider || !s.now().Before(entry.expiresAt) {
		return "", ErrInvalidState
	}

	return entry.callbackURL, nil
}

// cleanupExpired must be called with mu held.
func (s *MemoryStateStore) cleanupExpired(now time.Time) {
	for state, entry := range s.states {
		if !now.Before(entry.expiresAt) {
			delete(s.states, state)
		}
	}
}

// RedisStateStore stores "<provider>\n<callbackURL>" under the state key
// with a TTL and redeems it with GETDEL.
type RedisStateStore struct {
	client *redis.Client
	prefix string
}

func NewRedisStateStore(client *redis.Client, prefix string) *RedisStateStore {
	return &RedisStateStore{client: client, prefix: prefix}
}

func (s *RedisStateStore) Create(ctx context.Context, provider, callbackURL string) (string, error) {
	state, err := generateState()
	if err != nil {
		return "", err
	}

	if err := s.client.Set(ctx, s.key(state), provider+"\n"+callbackURL, service.OAuthStateTTL).Err(); err != nil {
		return "", errors.Wrap(err, "failed to store oauth state")
	}

	return state, nil
}

func (s *RedisStateStore) Consume(ctx context.Context, provider, state string) (string, error) {
	value, err := s.client.GetDel(ctx, s.key(state)).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrInvalidState
	}
	if err != nil {
		return "", errors.Wrap(err, "failed to load oauth state")
	}

	storedProvider, callbackURL, ok := strings.Cut(value, "\n")
	if !ok || storedProvider != provider {
		return "", ErrInvalidState
	}

	return callbackURL, nil
}

func (s *RedisStateStore) key(state string) string {
	return s.prefix + ":" + state
}

// generateState returns a 256-bit random hex string.
func generateState() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", errors.Wrap(err, "failed to generate oauth state")
	}

	return hex.EncodeToString(buf), nil
}
