// Package oauth implements the external identity providers and the state
// store used by the authorization-code flow.
package oauth

import (
	"log/slog"
	"sort"

	"blogauth/config"
	"blogauth/internal/domain/service"
)

// Registry holds the providers that have client credentials configured.
type Registry struct {
	providers map[string]service.OAuthProvider
}

// NewRegistry registers every enabled provider from config.
func NewRegistry(cfg *config.Config, logger *slog.Logger) service.OAuthProviderRegistry {
	registry := NewStaticRegistry()

	if cfg.OAuth.GitHub.Enabled() {
		registry.register(NewGitHubProvider(cfg.OAuth.GitHub))
	}
	if cfg.OAuth.Google.Enabled() {
		registry.register(NewGoogleProvider(cfg.OAuth.Google))
	}

	logger.Info("OAuth providers configured", slog.Any("providers", registry.Names()))

	return registry
}

// NewStaticRegistry builds a registry from already constructed providers.
func NewStaticRegistry(providers ...service.OAuthProvider) *Registry {
	registry := &Registry{providers: make(map[string]service.OAuthProvider)}
	for _, provider := range providers {
		registry.register(provider)
	}

	return registry
}

func (r *Registry) register(provider service.OAuthProvider) {
	r.providers[provider.Name()] = provider
}

func (r *Registry) Provider(name string) (service.OAuthProvider, bool) {
	provider, ok := r.providers[name]

	return provider, ok
}

func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.providers))
	for name := range r.providers {
		names = append(names, name)
	}
	sort.Strings(names)

	return names
}
