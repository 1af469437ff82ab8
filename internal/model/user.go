package model

import "fmt"

// Role account role
type Role string

const (
	RolePrincipal Role = "Principal"
	RoleTeacher   Role = "Teacher"
	RoleStudent   Role = "Student"
)

// Capability sets used by route guards. There is no hierarchy: a Principal
// does not pass a Teacher-only check.
var (
	AllRoles      = []Role{RolePrincipal, RoleTeacher, RoleStudent}
	PrincipalOnly = []Role{RolePrincipal}
	TeacherOnly   = []Role{RoleTeacher}
	StudentOnly   = []Role{RoleStudent}
	Staff         = []Role{RolePrincipal, RoleTeacher}
)

// ParseRole accepts exactly one of the three role names
func ParseRole(s string) (Role, error) {
	for _, r := range AllRoles {
		if string(r) == s {
			return r, nil
		}
	}
	return "", fmt.Errorf("unknown role %q", s)
}

// User an account. Email is unique and compared as stored.
type User struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	Password  string `json:"-"` // hex HMAC-SHA-256 digest
	Salt      string `json:"-"`
	Name      string `json:"name"`
	SessionID string `json:"-"` // empty when no session was ever issued
	Role      Role   `json:"role"`
	BaseModel
}

// HasRole reports whether the user's role is in roles
func (u *User) HasRole(roles ...Role) bool {
	for _, r := range roles {
		if u.Role == r {
			return true
		}
	}
	return false
}
