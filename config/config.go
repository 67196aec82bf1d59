package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
	"unicode"

	"blogauth/internal/domain/constants"

	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/pkg/errors"
	"github.com/slighter12/go-lib/database/postgres"
)

const (
	defaultPath               = "."
	defaultMaxRequestBodySize = "100KB"
	defaultSessionCookieName  = "blogauth.session-token"
	defaultSessionMaxAge      = 30 * 24 * time.Hour
	defaultSessionUpdateAge   = 24 * time.Hour
	defaultBcryptCost         = 12
	maxBcryptCost             = 31
	defaultVerificationTTL    = 24 * time.Hour
	defaultResetTTL           = time.Hour
	defaultLimiterCleanup     = time.Minute
	defaultMetricsPath        = "/metrics"
	defaultSMTPTimeout        = 10 * time.Second
)

type Config struct {
	Env struct {
		Env         string `json:"env" yaml:"env"`
		ServiceName string `json:"serviceName" yaml:"serviceName"`
		Debug       bool   `json:"debug" yaml:"debug"`
		Log         Log    `json:"log" yaml:"log"`
	} `json:"env" yaml:"env"`

	HTTP struct {
		Port               int    `json:"port" yaml:"port"`
		MaxRequestBodySize string `json:"maxRequestBodySize" yaml:"maxRequestBodySize"`
		// PublicURL is the externally visible origin, used to build links in mails.
		PublicURL string `json:"publicUrl" yaml:"publicUrl"`
		Timeouts  struct {
			ReadTimeout       time.Duration `json:"readTimeout" yaml:"readTimeout"`
			ReadHeaderTimeout time.Duration `json:"readHeaderTimeout" yaml:"readHeaderTimeout"`
			WriteTimeout      time.Duration `json:"writeTimeout" yaml:"writeTimeout"`
			IdleTimeout       time.Duration `json:"idleTimeout" yaml:"idleTimeout"`
		} `json:"timeouts" yaml:"timeouts"`
	} `json:"http" yaml:"http"`

	Storage StorageConfig `json:"storage" yaml:"storage"`

	Postgres *postgres.DBConn `json:"postgres" yaml:"postgres" mapstructure:"postgres"`

	Session SessionConfig `json:"session" yaml:"session"`

	Auth AuthConfig `json:"auth" yaml:"auth"`

	RateLimit RateLimitConfig `json:"rateLimit" yaml:"rateLimit"`

	// Redis backs the distributed rate limiter when rateLimit.backend is "redis"
	Redis *RedisConfig `json:"redis" yaml:"redis"`

	OAuth OAuthConfig `json:"oauth" yaml:"oauth"`

	Access AccessConfig `json:"access" yaml:"access"`

	// PubSub configuration for auth mail events
	PubSub *PubSubConfig `json:"pubsub" yaml:"pubsub"`

	Mail MailConfig `json:"mail" yaml:"mail"`

	Metrics MetricsConfig `json:"metrics" yaml:"metrics"`
}

type Log struct {
	Pretty bool   `json:"pretty" yaml:"pretty"`
	Level  string `json:"level" yaml:"level"`
}

// StorageConfig selects the Credential Store implementation
type StorageConfig struct {
	// Driver is "postgres" or "memory". memory keeps everything in-process.
	Driver string `json:"driver" yaml:"driver"`
}

// SessionConfig controls the signed session cookie
type SessionConfig struct {
	Secret     string        `json:"secret" yaml:"secret"`
	Issuer     string        `json:"issuer" yaml:"issuer"`
	CookieName string        `json:"cookieName" yaml:"cookieName"`
	MaxAge     time.Duration `json:"maxAge" yaml:"maxAge"`
	UpdateAge  time.Duration `json:"updateAge" yaml:"updateAge"`
}

// AuthConfig defines authentication-related configuration
type AuthConfig struct {
	BcryptCost           int           `json:"bcryptCost" yaml:"bcryptCost"`
	VerificationTokenTTL time.Duration `json:"verificationTokenTTL" yaml:"verificationTokenTTL"`
	ResetTokenTTL        time.Duration `json:"resetTokenTTL" yaml:"resetTokenTTL"`

	// MergeByEmail links a new provider account to an existing user with the
	// same email. When false such callbacks are refused.
	MergeByEmail *bool `json:"mergeByEmail" yaml:"mergeByEmail"`
}

// MergeByEmailEnabled reports the effective mergeByEmail policy.
func (c AuthConfig) MergeByEmailEnabled() bool {
	return c.MergeByEmail == nil || *c.MergeByEmail
}

// RateLimitPolicy is one action's attempt budget
type RateLimitPolicy struct {
	MaxAttempts int           `json:"maxAttempts" yaml:"maxAttempts"`
	Window      time.Duration `json:"window" yaml:"window"`
}

// RateLimitConfig defines the limiter backend and per-action budgets
type RateLimitConfig struct {
	// Backend is "memory" or "redis"
	Backend string `json:"backend" yaml:"backend"`
	// FailOpen allows requests when the backend errors. Default is to deny.
	FailOpen        bool                       `json:"failOpen" yaml:"failOpen"`
	CleanupInterval time.Duration              `json:"cleanupInterval" yaml:"cleanupInterval"`
	Policies        map[string]RateLimitPolicy `json:"policies" yaml:"policies"`
}

// Policy returns the budget for action.
func (c RateLimitConfig) Policy(action string) RateLimitPolicy {
	return c.Policies[action]
}

// RedisConfig holds connection settings for redis
type RedisConfig struct {
	URL       string `json:"url" yaml:"url"`
	KeyPrefix string `json:"keyPrefix" yaml:"keyPrefix"`
}

// OAuthProviderConfig is one authorization-code client
type OAuthProviderConfig struct {
	ClientID     string   `json:"clientId" yaml:"clientId"`
	ClientSecret string   `json:"clientSecret" yaml:"clientSecret"`
	RedirectURL  string   `json:"redirectUrl" yaml:"redirectUrl"`
	Scopes       []string `json:"scopes" yaml:"scopes"`
}

// Enabled reports whether the provider has client credentials.
func (c *OAuthProviderConfig) Enabled() bool {
	return c != nil && c.ClientID != "" && c.ClientSecret != ""
}

type OAuthConfig struct {
	GitHub *OAuthProviderConfig `json:"github" yaml:"github"`
	Google *OAuthProviderConfig `json:"google" yaml:"google"`
}

// AccessConfig overrides the route layout used by the access policy
type AccessConfig struct {
	SigninPath           string   `json:"signinPath" yaml:"signinPath"`
	Landing              string   `json:"landing" yaml:"landing"`
	AuthenticatedLanding string   `json:"authenticatedLanding" yaml:"authenticatedLanding"`
	AuthEntryPrefixes    []string `json:"authEntryPrefixes" yaml:"authEntryPrefixes"`
	ProtectedPrefixes    []string `json:"protectedPrefixes" yaml:"protectedPrefixes"`
	AdminPrefixes        []string `json:"adminPrefixes" yaml:"adminPrefixes"`
	AuthorPrefixes       []string `json:"authorPrefixes" yaml:"authorPrefixes"`
}

// PubSubConfig defines Pub/Sub configuration for event publishing
type PubSubConfig struct {
	// Provider type: "local" for local HTTP or "google" for Google Pub/Sub
	Provider string `json:"provider" yaml:"provider"`

	// Google Cloud project ID (for google provider)
	ProjectID string `json:"projectId" yaml:"projectId"`

	// Pub/Sub topic ID (for google provider)
	TopicID string `json:"topicId" yaml:"topicId"`

	// Local HTTP endpoint for development (for local provider)
	LocalEndpoint string `json:"localEndpoint" yaml:"localEndpoint"`

	// Audience expected in push OIDC tokens received by the mail worker
	PushAudience string `json:"pushAudience" yaml:"pushAudience"`
}

// MailConfig configures the mail worker's outgoing mail
type MailConfig struct {
	// Provider is "log" or "smtp"
	Provider string `json:"provider" yaml:"provider"`
	From     string `json:"from" yaml:"from"`
	// BaseURL prefixes the links put into mails. Defaults to http.publicUrl.
	BaseURL string     `json:"baseUrl" yaml:"baseUrl"`
	SMTP    SMTPConfig `json:"smtp" yaml:"smtp"`
}

type SMTPConfig struct {
	Host     string `json:"host" yaml:"host"`
	Port     int    `json:"port" yaml:"port"`
	Username string `json:"username" yaml:"username"`
	Password string `json:"password" yaml:"password"`
	// Timeout bounds dialing and each SMTP command.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`
}

type MetricsConfig struct {
	Enabled bool   `json:"enabled" yaml:"enabled"`
	Path    string `json:"path" yaml:"path"`
}

// IsProduction reports whether the service runs in production.
func (c *Config) IsProduction() bool {
	return c.Env.Env == constants.EnvProduction
}

// LoadWithEnv reads <currEnv>.yaml from the first search path that has it,
// overlays environment variables and decodes the result into T.
func LoadWithEnv[T any](currEnv string, configPath ...string) (*T, error) {
	cfg := new(T)
	koanfInstance := koanf.New(".")

	searchPaths := []string{defaultPath}
	if len(configPath) != 0 {
		pwd, err := os.Getwd()
		if err != nil {
			return nil, errors.Wrap(err, "os.Getwd")
		}
		for _, path := range configPath {
			searchPaths = append(searchPaths, filepath.Join(pwd, path))
		}
	}

	var configFile string
	for _, path := range searchPaths {
		candidate := filepath.Join(path, currEnv+".yaml")
		if _, err := os.Stat(candidate); err == nil {
			configFile = candidate

			break
		}
	}

	if configFile == "" {
		return nil, errors.Errorf("config file %s.yaml not found in any search path", currEnv)
	}

	if err := koanfInstance.Load(file.Provider(configFile), yaml.Parser()); err != nil {
		return nil, errors.Wrapf(err, "read %s config failed", currEnv)
	}

	existingConfigMap := koanfInstance.Raw()

	// SESSION_SECRET -> session.secret, RATELIMIT_FAILOPEN -> rateLimit.failOpen
	if err := koanfInstance.Load(env.Provider(".", env.Opt{
		TransformFunc: func(k, v string) (string, any) {
			return canonicalizeEnvKey(k, existingConfigMap), v
		},
	}), nil); err != nil {
		return nil, errors.Wrap(err, "load env variables failed")
	}

	if err := koanfInstance.UnmarshalWithConf("", cfg, koanf.UnmarshalConf{
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           cfg,
			WeaklyTypedInput: true,
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToTimeDurationHookFunc(),
				mapstructure.StringToSliceHookFunc(","),
			),
			MatchName: func(mapKey, fieldName string) bool {
				return strings.EqualFold(mapKey, fieldName)
			},
		},
	}); err != nil {
		return nil, errors.Wrapf(err, "unmarshal %s config failed", currEnv)
	}

	return cfg, nil
}

func New() (*Config, error) {
	cfg, err := LoadWithEnv[Config]("config", "config", "../config", "../../config")
	if err != nil {
		return nil, err
	}

	cfg.applyDefaults()

	if cfg.Postgres != nil {
		// POSTGRES_REPLICAS_0_HOST, POSTGRES_REPLICAS_0_PORT, ...
		cfg.Postgres.Replicas = buildReplicasFromEnv()
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) applyDefaults() {
	if strings.TrimSpace(c.HTTP.MaxRequestBodySize) == "" {
		c.HTTP.MaxRequestBodySize = defaultMaxRequestBodySize
	}
	if c.Env.ServiceName == "" {
		c.Env.ServiceName = "blogauth"
	}
	if c.Storage.Driver == "" {
		c.Storage.Driver = constants.StorageDriverPostgres
	}

	if c.Session.CookieName == "" {
		c.Session.CookieName = defaultSessionCookieName
	}
	if c.Session.MaxAge <= 0 {
		c.Session.MaxAge = defaultSessionMaxAge
	}
	if c.Session.UpdateAge <= 0 {
		c.Session.UpdateAge = defaultSessionUpdateAge
	}
	if c.Session.Issuer == "" {
		c.Session.Issuer = c.Env.ServiceName
	}

	if c.Auth.BcryptCost == 0 {
		c.Auth.BcryptCost = defaultBcryptCost
	}
	if c.Auth.VerificationTokenTTL <= 0 {
		c.Auth.VerificationTokenTTL = defaultVerificationTTL
	}
	if c.Auth.ResetTokenTTL <= 0 {
		c.Auth.ResetTokenTTL = defaultResetTTL
	}

	if c.RateLimit.Backend == "" {
		c.RateLimit.Backend = constants.RateLimitBackendMemory
	}
	if c.RateLimit.CleanupInterval <= 0 {
		c.RateLimit.CleanupInterval = defaultLimiterCleanup
	}
	if c.RateLimit.Policies == nil {
		c.RateLimit.Policies = make(map[string]RateLimitPolicy)
	}
	for action, policy := range DefaultRateLimitPolicies() {
		if existing, ok := c.RateLimit.Policies[action]; !ok || existing.MaxAttempts <= 0 || existing.Window <= 0 {
			c.RateLimit.Policies[action] = policy
		}
	}

	if c.Mail.Provider == "" {
		c.Mail.Provider = constants.MailProviderLog
	}
	if c.Mail.SMTP.Timeout <= 0 {
		c.Mail.SMTP.Timeout = defaultSMTPTimeout
	}
	if c.Mail.BaseURL == "" {
		c.Mail.BaseURL = c.HTTP.PublicURL
	}
	if c.Metrics.Path == "" {
		c.Metrics.Path = defaultMetricsPath
	}
}

// DefaultRateLimitPolicies returns the built-in attempt budgets.
func DefaultRateLimitPolicies() map[string]RateLimitPolicy {
	return map[string]RateLimitPolicy{
		constants.ActionSignup:         {MaxAttempts: 3, Window: 15 * time.Minute},
		constants.ActionForgotPassword: {MaxAttempts: 3, Window: time.Hour},
		constants.ActionResetPassword:  {MaxAttempts: 5, Window: 15 * time.Minute},
		constants.ActionSignin:         {MaxAttempts: 5, Window: 15 * time.Minute},
	}
}

// Validate rejects configurations the service cannot run safely with.
func (c *Config) Validate() error {
	if c.Session.Secret == "" && c.Env.Env != constants.EnvDevelop && c.Env.Env != constants.EnvTest {
		return errors.New("session.secret is required outside develop and test")
	}
	if c.IsProduction() && len(c.Session.Secret) < 32 {
		return errors.New("session.secret must be at least 32 bytes in production")
	}

	if c.Env.Env != constants.EnvTest && (c.Auth.BcryptCost < defaultBcryptCost || c.Auth.BcryptCost > maxBcryptCost) {
		return errors.Errorf("auth.bcryptCost must be between %d and %d", defaultBcryptCost, maxBcryptCost)
	}

	switch c.Storage.Driver {
	case constants.StorageDriverPostgres:
		if c.Postgres == nil {
			return errors.New("postgres configuration is required for the postgres storage driver")
		}
	case constants.StorageDriverMemory:
	default:
		return errors.Errorf("unknown storage driver: %s", c.Storage.Driver)
	}

	switch c.RateLimit.Backend {
	case constants.RateLimitBackendMemory:
	case constants.RateLimitBackendRedis:
		if c.Redis == nil || c.Redis.URL == "" {
			return errors.New("redis.url is required for the redis rate limit backend")
		}
	default:
		return errors.Errorf("unknown rate limit backend: %s", c.RateLimit.Backend)
	}

	return nil
}

func canonicalizeEnvKey(rawKey string, existing map[string]any) string {
	segments := strings.Split(strings.ToLower(rawKey), "_")
	canonical := make([]string, 0, len(segments))
	current := existing

	for _, segment := range segments {
		if segment == "" {
			continue
		}

		if matched, next, ok := findExistingSegment(current, segment); ok {
			canonical = append(canonical, matched)
			current = next
		} else {
			canonical = append(canonical, segment)
			current = nil
		}
	}

	return strings.Join(canonical, ".")
}

func findExistingSegment(current map[string]any, segment string) (matched string, next map[string]any, ok bool) {
	if len(current) == 0 {
		return "", nil, false
	}

	needle := normalizeToken(segment)
	for key, value := range current {
		if normalizeToken(key) != needle {
			continue
		}

		child, _ := value.(map[string]any)

		return key, child, true
	}

	return "", nil, false
}

// normalizeToken drops everything except letters and digits, lower-cased,
// so "forgot-password" and "FORGOTPASSWORD" compare equal.
func normalizeToken(s string) string {
	var normalized strings.Builder
	normalized.Grow(len(s))

	for _, r := range s {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			continue
		}
		normalized.WriteRune(unicode.ToLower(r))
	}

	return normalized.String()
}

// buildReplicasFromEnv reads POSTGRES_REPLICAS_{index}_{HOST,PORT,USERNAME,PASSWORD}
// until the first index without host or port.
func buildReplicasFromEnv() []postgres.ConnectionConfig {
	var replicas []postgres.ConnectionConfig

	for i := 0; ; i++ {
		prefix := "POSTGRES_REPLICAS_" + strconv.Itoa(i) + "_"

		host := os.Getenv(prefix + "HOST")
		port := os.Getenv(prefix + "PORT")
		if host == "" || port == "" {
			break
		}

		replicas = append(replicas, postgres.ConnectionConfig{
			Host:     host,
			Port:     port,
			UserName: os.Getenv(prefix + "USERNAME"),
			Password: os.Getenv(prefix + "PASSWORD"),
		})
	}

	return replicas
}
