package entity

import "strings"

// Role is a capability level. Roles are ordered READER < AUTHOR < ADMIN and a
// higher role satisfies every check for a lower one.
type Role string

const (
	// RoleReader is the default role for every new account.
	RoleReader Role = "READER"
	// RoleAuthor may use the dashboard.
	RoleAuthor Role = "AUTHOR"
	// RoleAdmin may use everything, including the admin area.
	RoleAdmin Role = "ADMIN"
)

var roleRanks = map[Role]int{
	RoleReader: 0,
	RoleAuthor: 1,
	RoleAdmin:  2,
}

// String returns the string representation of the Role.
func (r Role) String() string {
	return string(r)
}

// IsValid checks if the Role is a known value.
func (r Role) IsValid() bool {
	_, ok := roleRanks[r]

	return ok
}

// Rank returns the position of r in the hierarchy, or -1 for unknown roles.
func (r Role) Rank() int {
	rank, ok := roleRanks[r]
	if !ok {
		return -1
	}

	return rank
}

// AtLeast reports whether r satisfies a check for required.
func (r Role) AtLeast(required Role) bool {
	if !r.IsValid() || !required.IsValid() {
		return false
	}

	return r.Rank() >= required.Rank()
}

// ParseRole converts user input such as "admin" into a Role.
func ParseRole(s string) (Role, bool) {
	role := Role(strings.ToUpper(strings.TrimSpace(s)))

	return role, role.IsValid()
}

// AllRoles lists the roles from lowest to highest.
func AllRoles() []Role {
	return []Role{RoleReader, RoleAuthor, RoleAdmin}
}
