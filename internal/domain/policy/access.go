// Package policy decides, per request, whether a caller may reach a path.
// Decide is a pure function of the request and the session claims; it never
// touches storage.
package policy

import (
	"net/http"
	"net/url"
	"strings"

	"blogauth/internal/domain/entity"
	"blogauth/internal/domain/service"
)

// Outcome is the kind of Decision.
type Outcome int

const (
	OutcomeAllow Outcome = iota
	OutcomeRedirect
	OutcomeDeny
)

// Decision is the result of Decide.
type Decision struct {
	Outcome  Outcome
	Location string // set for OutcomeRedirect
	Status   int    // set for OutcomeDeny
}

func Allow() Decision {
	return Decision{Outcome: OutcomeAllow}
}

func RedirectTo(location string) Decision {
	return Decision{Outcome: OutcomeRedirect, Location: location}
}

func Deny(status int) Decision {
	return Decision{Outcome: OutcomeDeny, Status: status}
}

// Request is the part of an HTTP request the policy looks at.
type Request struct {
	Method      string
	Path        string
	CallbackURL string // the callbackUrl query parameter, if any
	Origin      string // Origin header
	Host        string // Host header
}

// Rules configures which paths fall under which rule.
type Rules struct {
	SigninPath           string
	Landing              string
	AuthenticatedLanding string
	APIPrefix            string
	AuthEntryPrefixes    []string
	ProtectedPrefixes    []string
	AdminPrefixes        []string
	AuthorPrefixes       []string
}

// DefaultRules returns the blog's route layout.
func DefaultRules() Rules {
	return Rules{
		SigninPath:           "/auth/signin",
		Landing:              "/",
		AuthenticatedLanding: "/dashboard",
		APIPrefix:            "/api/",
		AuthEntryPrefixes:    []string{"/auth/signin", "/auth/signup", "/auth/forgot-password"},
		ProtectedPrefixes:    []string{"/dashboard", "/admin"},
		AdminPrefixes:        []string{"/admin"},
		AuthorPrefixes:       []string{"/dashboard"},
	}
}

// Policy evaluates Rules.
type Policy struct {
	rules Rules
}

// New builds a Policy. Empty fields fall back to DefaultRules.
func New(rules Rules) *Policy {
	defaults := DefaultRules()
	if rules.SigninPath == "" {
		rules.SigninPath = defaults.SigninPath
	}
	if rules.Landing == "" {
		rules.Landing = defaults.Landing
	}
	if rules.AuthenticatedLanding == "" {
		rules.AuthenticatedLanding = defaults.AuthenticatedLanding
	}
	if rules.APIPrefix == "" {
		rules.APIPrefix = defaults.APIPrefix
	}
	if rules.AuthEntryPrefixes == nil {
		rules.AuthEntryPrefixes = defaults.AuthEntryPrefixes
	}
	if rules.ProtectedPrefixes == nil {
		rules.ProtectedPrefixes = defaults.ProtectedPrefixes
	}
	if rules.AdminPrefixes == nil {
		rules.AdminPrefixes = defaults.AdminPrefixes
	}
	if rules.AuthorPrefixes == nil {
		rules.AuthorPrefixes = defaults.AuthorPrefixes
	}

	return &Policy{rules: rules}
}

// Rules returns the effective rules.
func (p *Policy) Rules() Rules {
	return p.rules
}

// Decide applies the rules in order. A nil session means unauthenticated.
func (p *Policy) Decide(req Request, sess *service.SessionClaims) Decision {
	if isStateChanging(req.Method) && strings.HasPrefix(req.Path, p.rules.APIPrefix) {
		if !sameOrigin(req.Origin, req.Host) {
			return Deny(http.StatusForbidden)
		}
	}

	loggedIn := sess != nil

	if loggedIn && matchesAny(req.Path, p.rules.AuthEntryPrefixes) {
		return RedirectTo(SanitizeRedirect(req.CallbackURL, p.rules.Landing))
	}

	if !loggedIn && matchesAny(req.Path, p.rules.ProtectedPrefixes) {
		return RedirectTo(p.SigninURL(req.Path))
	}

	if matchesAny(req.Path, p.rules.AdminPrefixes) {
		if !loggedIn {
			return RedirectTo(p.SigninURL(req.Path))
		}
		if sess.Role != entity.RoleAdmin {
			return RedirectTo(p.rules.AuthenticatedLanding)
		}
	}

	if matchesAny(req.Path, p.rules.AuthorPrefixes) {
		if !loggedIn {
			return RedirectTo(p.SigninURL(req.Path))
		}
		if !sess.Role.AtLeast(entity.RoleAuthor) {
			return RedirectTo(p.rules.Landing)
		}
	}

	return Allow()
}

// SigninURL returns the sign-in page with callbackUrl set to path.
func (p *Policy) SigninURL(path string) string {
	query := url.Values{}
	query.Set("callbackUrl", path)

	return p.rules.SigninPath + "?" + query.Encode()
}

// SanitizeRedirect returns target when it is a same-origin relative path and
// fallback otherwise. Absolute and protocol-relative URLs are rejected.
func SanitizeRedirect(target, fallback string) string {
	if target == "" || !strings.HasPrefix(target, "/") {
		return fallback
	}
	if strings.HasPrefix(target, "//") || strings.HasPrefix(target, `/\`) {
		return fallback
	}
	if strings.ContainsAny(target, "\r\n\t") {
		return fallback
	}

	return target
}

func isStateChanging(method string) bool {
	return method != http.MethodGet && method != http.MethodHead
}

func sameOrigin(origin, host string) bool {
	if origin == "" || host == "" {
		return false
	}
	parsed, err := url.Parse(origin)
	if err != nil || parsed.Host == "" {
		return false
	}

	return strings.EqualFold(parsed.Host, host)
}

// matchesAny reports whether path equals a prefix or lies beneath it.
func matchesAny(path string, prefixes []string) bool {
	for _, prefix := range prefixes {
		if path == prefix || strings.HasPrefix(path, strings.TrimSuffix(prefix, "/")+"/") {
			return true
		}
	}

	return false
}
