// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec

// # User Roles

// UserRole represents the authorization level granted to an account.
type UserRole string

const (
	// Full access, including user management and the catalogue.
	RoleAdmin UserRole = "admin"

	// May edit or delete any review or comment.
	RoleModerator UserRole = "moderator"

	// Default role for every account created through signup.
	RoleUser UserRole = "user"
)

// Roles lists every assignable role, lowest first.
var Roles = []UserRole{RoleUser, RoleModerator, RoleAdmin}

// # Role Hierarchy

// AtLeast reports whether r meets or exceeds target. Unknown roles rank below user.
func (r UserRole) AtLeast(target UserRole) bool {
	return r.level() >= target.level() && r.level() > 0
}

// Valid reports whether r is one of [Roles].
func (r UserRole) Valid() bool { return r.level() > 0 }

func (r UserRole) String() string { return string(r) }

func (r UserRole) level() int {
	switch r {
	case RoleAdmin:
		return 30
	case RoleModerator:
		return 20
	case RoleUser:
		return 10
	default:
		return 0
	}
}

// ParseRole converts s into a [UserRole]. The second result is false for unknown values.
func ParseRole(s string) (UserRole, bool) {
	r := UserRole(s)
	return r, r.Valid()
}
