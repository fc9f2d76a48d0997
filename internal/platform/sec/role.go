// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec

// # User Roles

// UserRole represents the authorization level granted to an account.
type UserRole string

const (
	// May delete movies and everything a trusted member can do.
	RoleAdmin UserRole = "admin"

	// May create and update movies.
	RoleTrustedMember UserRole = "trusted_member"

	// May rate movies.
	RoleMember UserRole = "member"
)

// # Role Hierarchy

// AtLeast checks if the current role meets or exceeds the required target role.
func (r UserRole) AtLeast(target UserRole) bool {
	return r.level() >= target.level()
}

// level maps a role to a numeric hierarchy level for comparison logic.
func (r UserRole) level() int {
	switch r {
	case RoleAdmin:
		return 30
	case RoleTrustedMember:
		return 20
	case RoleMember:
		return 10
	default:
		return 0
	}
}
