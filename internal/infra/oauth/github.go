package oauth

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	"blogauth/config"
	"blogauth/internal/domain/entity"
	"blogauth/internal/domain/service"
	"blogauth/internal/errors"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/github"
)

const githubAPIBaseURL = "https://api.github.com"

var defaultGitHubScopes = []string{"read:user", "user:email"}

// GitHubProvider runs the authorization-code flow against GitHub and reads
// the profile from the REST API.
type GitHubProvider struct {
	oauthConfig *oauth2.Config
	apiBaseURL  string
}

// NewGitHubProvider creates a GitHub provider from its client config.
func NewGitHubProvider(cfg *config.OAuthProviderConfig) *GitHubProvider {
	scopes := cfg.Scopes
	if len(scopes) == 0 {
		scopes = defaultGitHubScopes
	}

	return &GitHubProvider{
		oauthConfig: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Scopes:       scopes,
			Endpoint:     github.Endpoint,
		},
		apiBaseURL: githubAPIBaseURL,
	}
}

func (p *GitHubProvider) Name() string {
	return entity.ProviderGitHub
}

func (p *GitHubProvider) AuthCodeURL(state string) string {
	return p.oauthConfig.AuthCodeURL(state)
}

type githubUser struct {
	ID        int64   `json:"id"`
	Login     string  `json:"login"`
	Name      *string `json:"name"`
	Email     *string `json:"email"`
	AvatarURL string  `json:"avatar_url"`
}

type githubEmail struct {
	Email    string `json:"email"`
	Primary  bool   `json:"primary"`
	Verified bool   `json:"verified"`
}

func (p *GitHubProvider) Exchange(ctx context.Context, code string) (*service.OAuthResult, error) {
	token, err := p.oauthConfig.Exchange(ctx, code)
	if err != nil {
		return nil, errors.Wrap(err, "github code exchange failed")
	}

	client := p.oauthConfig.Client(ctx, token)

	var user githubUser
	if err := p.getJSON(ctx, client, "/user", &user); err != nil {
		return nil, err
	}

	var emails []githubEmail
	if err := p.getJSON(ctx, client, "/user/emails", &emails); err != nil {
		return nil, err
	}

	email, verified := pickGitHubEmail(emails, user.Email)
	if email == "" {
		return nil, errors.New("github account has no usable email address")
	}

	name := user.Login
	if user.Name != nil && *user.Name != "" {
		name = *user.Name
	}

	return &service.OAuthResult{
		Profile: service.OAuthProfile{
			Provider:          entity.ProviderGitHub,
			ProviderAccountID: strconv.FormatInt(user.ID, 10),
			Email:             email,
			EmailVerified:     verified,
			Name:              name,
			AvatarURL:         user.AvatarURL,
		},
		AccountType: "oauth",
		Tokens:      tokensFrom(token),
	}, nil
}

// pickGitHubEmail prefers the primary verified address, then any verified
// address, then the public profile email.
func pickGitHubEmail(emails []githubEmail, profileEmail *string) (string, bool) {
	for _, e := range emails {
		if e.Primary && e.Verified {
			return e.Email, true
		}
	}
	for _, e := range emails {
		if e.Verified {
			return e.Email, true
		}
	}
	if profileEmail != nil && *profileEmail != "" {
		return *profileEmail, false
	}

	return "", false
}

func (p *GitHubProvider) getJSON(ctx context.Context, client *http.Client, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.apiBaseURL+path, nil)
	if err != nil {
		return errors.Wrapf(err, "failed to create github request %s", path)
	}
	req.Header.Set("Accept", "application/vnd.github+json")

	resp, err := client.Do(req)
	if err != nil {
		return errors.Wrapf(err, "github request %s failed", path)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))

		return errors.Errorf("github request %s failed with status %d: %s", path, resp.StatusCode, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return errors.Wrapf(err, "failed to decode github response %s", path)
	}

	return nil
}
