package domain

// Actor is the authenticated identity an operation runs on behalf of. It is
// always passed explicitly; nothing in the core reads it from request state.
type Actor struct {
	ID   string
	Role UserRole
}

func (a Actor) Authenticated() bool { return a.ID != "" && a.Role.Valid() }

func (a Actor) IsSuperAdmin() bool { return a.Role == RoleSuperAdmin }

// CanManage reports whether the actor administers resources owned by
// managerID: the owning manager or any super-admin.
func (a Actor) CanManage(managerID string) bool {
	if a.IsSuperAdmin() {
		return true
	}
	return a.Role == RoleManager && a.ID != "" && a.ID == managerID
}
