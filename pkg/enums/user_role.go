package enums

import "fmt"

// UserRole separates storefront administrators from regular customers.
type UserRole string

const (
	UserRoleAdmin UserRole = "admin"
	UserRoleUser  UserRole = "user"
)

var validUserRoles = []UserRole{
	UserRoleAdmin,
	UserRoleUser,
}

var userRoleLabels = map[UserRole]string{
	UserRoleAdmin: "Администратор",
	UserRoleUser:  "Пользователь",
}

// String implements fmt.Stringer.
func (u UserRole) String() string {
	return string(u)
}

// IsValid reports whether the value is a known UserRole.
func (u UserRole) IsValid() bool {
	for _, candidate := range validUserRoles {
		if candidate == u {
			return true
		}
	}
	return false
}

// Label returns the human-readable name for the role.
func (u UserRole) Label() (string, error) {
	label, ok := userRoleLabels[u]
	if !ok {
		return "", fmt.Errorf("unknown user role %q", u)
	}
	return label, nil
}

// ParseUserRole converts raw input into a UserRole.
func ParseUserRole(value string) (UserRole, error) {
	for _, candidate := range validUserRoles {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid user role %q", value)
}
