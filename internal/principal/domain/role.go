package domain

import "errors"

// Role is an ordered capability level within a tenant. Higher ranks hold
// every capability of the ranks below them.
type Role string

const (
	RoleEmployee Role = "employee"
	RoleManager  Role = "manager"
	RoleHR       Role = "hr"
	RoleAdmin    Role = "admin"
)

var ErrInvalidRole = errors.New("invalid_role")

var roleRanks = map[Role]int{
	RoleEmployee: 0,
	RoleManager:  1,
	RoleHR:       2,
	RoleAdmin:    3,
}

// ParseRole validates and normalizes a role string.
func ParseRole(s string) (Role, error) {
	r := Role(s)
	if !r.Valid() {
		return "", ErrInvalidRole
	}
	return r, nil
}

func (r Role) Valid() bool {
	_, ok := roleRanks[r]
	return ok
}

func (r Role) Rank() int {
	return roleRanks[r]
}

// AtLeast reports whether r holds the capabilities of other.
func (r Role) AtLeast(other Role) bool {
	return r.Valid() && other.Valid() && r.Rank() >= other.Rank()
}

// CanReview reports whether the role may approve or reject leave requests.
func (r Role) CanReview() bool { return r.AtLeast(RoleManager) }

// CanAdministerRoles reports whether the role may change roles and manage
// designations.
func (r Role) CanAdministerRoles() bool { return r.AtLeast(RoleHR) }

func (r Role) String() string { return string(r) }
