package auth

// UserRole is a permission class a user account belongs to
type UserRole string

const (
	// RoleUser is the base role every account starts with
	RoleUser UserRole = "user"
	// RoleAdmin can manage protected resources
	RoleAdmin UserRole = "admin"
	// RoleSuperUser is the unrestricted operator role
	RoleSuperUser UserRole = "super-user"
)

// IsValid checks if the role is one of the predefined valid roles
func (r UserRole) IsValid() bool {
	switch r {
	case RoleUser, RoleAdmin, RoleSuperUser:
		return true
	default:
		return false
	}
}

// GetAllRoles returns all predefined roles
func GetAllRoles() []UserRole {
	return []UserRole{
		RoleUser,
		RoleAdmin,
		RoleSuperUser,
	}
}

// ParseRole safely parses a string into a UserRole type
func ParseRole(roleStr string) (UserRole, bool) {
	role := UserRole(roleStr)
	return role, role.IsValid()
}

// Authorize decides whether the resolved identity may run an operation that
// declared the given role requirement. An empty requirement means identity
// alone suffices; otherwise any overlap between the identity's roles and the
// requirement allows.
//
// A nil identity means the gate ran before resolution, which is a programming
// error rather than an auth outcome, and is reported as such.
func Authorize(identity Identity, required ...UserRole) error {
	if identity == nil {
		return ErrMissingIdentity
	}

	if len(required) == 0 {
		return nil
	}

	for _, role := range identity.Roles() {
		for _, want := range required {
			if role == want {
				return nil
			}
		}
	}

	return NewForbiddenError(identity.FullName(), required)
}
