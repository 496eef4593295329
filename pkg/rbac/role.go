package rbac

import "strings"

// Role is one of a closed, ordered set. The zero value is RoleUnknown,
// which ranks below every defined role.
type Role int

const (
	RoleUnknown    Role = 0
	RoleSubscriber Role = 1
	RoleAuthor     Role = 2
	RoleEditor     Role = 3
	RoleAdmin      Role = 4
)

var roleNames = map[Role]string{
	RoleSubscriber: "subscriber",
	RoleAuthor:     "author",
	RoleEditor:     "editor",
	RoleAdmin:      "admin",
}

// String returns the role's canonical name, or "unknown".
func (r Role) String() string {
	if name, ok := roleNames[r]; ok {
		return name
	}
	return "unknown"
}

// IsValid reports whether the role is one of the defined set.
func (r Role) IsValid() bool {
	_, ok := roleNames[r]
	return ok
}

// AtLeast reports whether the role ranks at or above min. Comparison is by
// rank only.
func (r Role) AtLeast(min Role) bool {
	return r >= min
}

// ParseRole maps a stored role name to its Role, case-insensitively.
// Unrecognized names map to RoleUnknown.
func ParseRole(name string) Role {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "subscriber":
		return RoleSubscriber
	case "author":
		return RoleAuthor
	case "editor":
		return RoleEditor
	case "admin":
		return RoleAdmin
	default:
		return RoleUnknown
	}
}

// Roles returns the defined roles in ascending rank order.
func Roles() []Role {
	return []Role{RoleSubscriber, RoleAuthor, RoleEditor, RoleAdmin}
}
