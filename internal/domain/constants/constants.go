// Package constants holds string values shared between configuration and code.
package constants

// Environments
const (
	EnvDevelop    = "develop"
	EnvTest       = "test"
	EnvProduction = "production"
)

// PubSub providers
const (
	PubSubProviderLocal  = "local"
	PubSubProviderGoogle = "google"
)

// Storage drivers
const (
	StorageDriverPostgres = "postgres"
	StorageDriverMemory   = "memory"
)

// Rate limiter backends
const (
	RateLimitBackendMemory = "memory"
	RateLimitBackendRedis  = "redis"
)

// Mail providers
const (
	MailProviderLog  = "log"
	MailProviderSMTP = "smtp"
)

// Rate limited actions. They prefix limiter keys as "<action>:<ip>".
const (
	ActionSignup         = "signup"
	ActionSignin         = "signin"
	ActionForgotPassword = "forgot-password"
	ActionResetPassword  = "reset-password"
)
