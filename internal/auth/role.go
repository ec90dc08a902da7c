package auth

import "strings"

// Role is a named permission group. Unknown names from a token are
// dropped rather than rejected, so a foreign identity provider cannot
// break login by adding roles this service does not know.
type Role string

const (
	RoleAdmin            Role = "admin"
	RoleMitarbeiter      Role = "mitarbeiter"
	RoleAbteilungsleiter Role = "abteilungsleiter"
	RoleKunde            Role = "kunde"
)

var validRoles = map[string]Role{
	"admin":            RoleAdmin,
	"mitarbeiter":      RoleMitarbeiter,
	"abteilungsleiter": RoleAbteilungsleiter,
	"kunde":            RoleKunde,
}

// ParseRole maps a role name to a Role, case-insensitively.
func ParseRole(name string) (Role, bool) {
	role, ok := validRoles[strings.ToLower(name)]
	return role, ok
}

// NormalizeRoles maps the given names to known roles, dropping anything
// unknown.
func NormalizeRoles(names []string) []Role {
	roles := make([]Role, 0, len(names))
	for _, name := range names {
		if role, ok := ParseRole(name); ok {
			roles = append(roles, role)
		}
	}
	return roles
}

// HasRole reports whether roles contains want.
func HasRole(roles []string, want Role) bool {
	for _, name := range roles {
		if role, ok := ParseRole(name); ok && role == want {
			return true
		}
	}
	return false
}

// RoleNames converts roles back to their string names for JWT claims.
func RoleNames(roles []Role) []string {
	names := make([]string, len(roles))
	for i, role := range roles {
		names[i] = string(role)
	}
	return names
}
