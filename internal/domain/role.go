package domain

// Role defines invitation authority and access scope for a user
type Role string

const (
	RoleSuperAdmin Role = "SUPER_ADMIN"
	RoleStoreAdmin Role = "STORE_ADMIN"
	RoleDirector   Role = "DIRECTOR"
	RoleManager    Role = "MANAGER"
	RoleReceiver   Role = "RECEIVER"
	RolePicker     Role = "PICKER"
	RolePacker     Role = "PACKER"
	RoleShipper    Role = "SHIPPER"
	RoleUser       Role = "USER"
)

// roleHierarchy maps each role to the set of roles it may invite.
// Roles absent from a set cannot be invited by that role.
var roleHierarchy = map[Role][]Role{
	RoleSuperAdmin: {RoleStoreAdmin},
	RoleStoreAdmin: {RoleDirector},
	RoleDirector:   {RoleManager},
	RoleManager:    {RoleReceiver, RolePicker, RolePacker, RoleShipper},
	RoleReceiver:   {},
	RolePicker:     {},
	RolePacker:     {},
	RoleShipper:    {},
	RoleUser:       {},
}

// IsValid reports whether r is one of the known roles.
func (r Role) IsValid() bool {
	_, ok := roleHierarchy[r]
	return ok
}

// CanInvite reports whether acting may create invitations for target.
func CanInvite(acting, target Role) bool {
	for _, allowed := range roleHierarchy[acting] {
		if allowed == target {
			return true
		}
	}
	return false
}

// InvitableRoles returns the roles the acting role may invite.
func InvitableRoles(acting Role) []Role {
	return roleHierarchy[acting]
}

// StoreScoped reports whether the role operates within a single store.
// Store-scoped actors may only act on their own store.
func (r Role) StoreScoped() bool {
	return r != RoleSuperAdmin
}
