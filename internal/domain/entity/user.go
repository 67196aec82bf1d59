// Package entity contains the core business objects of the project,
// each representing a unique, identifiable concept within the domain.
package entity

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// User is the canonical identity for a person on the blog.
type User struct {
	ID              uuid.UUID  // The Global Unique Identifier (GUID) for the user.
	Email           string     // Unique, always stored normalized (see NormalizeEmail).
	Name            string     // Display name.
	PasswordHash    *string    // Nil for OAuth-only users.
	Role            Role       // Capability level, READER by default.
	AvatarURL       *string    // Optional avatar reference, usually from an OAuth profile.
	Bio             *string    // Optional free-form biography.
	EmailVerifiedAt *time.Time // Nil means the address has not been proven yet.
	CreatedAt       time.Time  // Timestamp of when this user account was created.
	UpdatedAt       time.Time  // Timestamp of the last modification to this user's data.

	LinkedAccounts []*LinkedAccount // Populated only by lookups that include accounts.
}

// HasPassword reports whether the user can sign in with credentials.
func (u *User) HasPassword() bool {
	return u.PasswordHash != nil && *u.PasswordHash != ""
}

// IsEmailVerified reports whether the email address has been proven.
func (u *User) IsEmailVerified() bool {
	return u.EmailVerifiedAt != nil
}

// MarkEmailVerified sets the verification timestamp unless it is already set.
// It returns true when the user changed.
func (u *User) MarkEmailVerified(now time.Time) bool {
	if u.EmailVerifiedAt != nil {
		return false
	}
	verifiedAt := now
	u.EmailVerifiedAt = &verifiedAt

	return true
}

// Providers returns the provider names of the user's linked accounts in link order.
func (u *User) Providers() []string {
	providers := make([]string, 0, len(u.LinkedAccounts))
	for _, account := range u.LinkedAccounts {
		providers = append(providers, account.Provider)
	}

	return providers
}

// NormalizeEmail lower-cases and trims an address so lookups are case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// StringPtr returns nil for an empty string, otherwise a pointer to s.
func StringPtr(s string) *string {
	if s == "" {
		return nil
	}

	return &s
}

// StringValue dereferences s, returning "" for nil.
func StringValue(s *string) string {
	if s == nil {
		return ""
	}

	return *s
}
