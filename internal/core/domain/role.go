package domain

import (
	"fmt"
	"strings"
)

// Role is the capability class assigned to an account. The zero value is not
// a valid role.
type Role uint8

const (
	RoleUnknown Role = iota
	RoleSystemAdmin
	RoleStoreOwner
	RoleNormalUser
)

var roleNames = map[Role]string{
	RoleSystemAdmin: "SYSTEM_ADMIN",
	RoleStoreOwner:  "STORE_OWNER",
	RoleNormalUser:  "NORMAL_USER",
}

// Roles lists every valid role.
func Roles() []Role {
	return []Role{RoleSystemAdmin, RoleStoreOwner, RoleNormalUser}
}

func (r Role) String() string {
	if name, ok := roleNames[r]; ok {
		return name
	}
	return "UNKNOWN"
}

// Valid reports whether r is one of the three account roles.
func (r Role) Valid() bool {
	_, ok := roleNames[r]
	return ok
}

// ParseRole maps a wire name such as "STORE_OWNER" to its Role.
func ParseRole(s string) (Role, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	for role, name := range roleNames {
		if name == s {
			return role, nil
		}
	}
	return RoleUnknown, fmt.Errorf("unknown role %q", s)
}

func (r Role) MarshalText() ([]byte, error) {
	if !r.Valid() {
		return nil, fmt.Errorf("marshal role: invalid value %d", r)
	}
	return []byte(r.String()), nil
}

func (r *Role) UnmarshalText(b []byte) error {
	parsed, err := ParseRole(string(b))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

// Operation names a protected use case. Every operation must appear in the
// capability table below for at least one role.
type Operation string

const (
	OpViewProfile      Operation = "profile:view"
	OpUpdateProfile    Operation = "profile:update"
	OpSubmitRating     Operation = "rating:submit"
	OpViewOwnRating    Operation = "rating:view_own"
	OpListOwnedStores  Operation = "store:list_owned"
	OpViewStoreRatings Operation = "store:view_ratings"
	OpCreateStore      Operation = "store:create"
	OpListUsers        Operation = "user:list"
	OpCreateUser       Operation = "user:create"
	OpUpdateUser       Operation = "user:update"
	OpViewDashboard    Operation = "dashboard:view"
)

// capabilities is the single allow-list consulted by Authorize. Roles are
// disjoint sets, not a ladder: an admin cannot rate a store.
var capabilities = map[Role]map[Operation]struct{}{
	RoleSystemAdmin: opSet(
		OpViewProfile, OpUpdateProfile,
		OpListUsers, OpCreateUser, OpUpdateUser,
		OpCreateStore, OpViewDashboard,
	),
	RoleStoreOwner: opSet(
		OpViewProfile, OpUpdateProfile,
		OpListOwnedStores, OpViewStoreRatings,
	),
	RoleNormalUser: opSet(
		OpViewProfile, OpUpdateProfile,
		OpSubmitRating, OpViewOwnRating,
	),
}

func opSet(ops ...Operation) map[Operation]struct{} {
	set := make(map[Operation]struct{}, len(ops))
	for _, op := range ops {
		set[op] = struct{}{}
	}
	return set
}

// Can reports whether the role's capability set includes op.
func (r Role) Can(op Operation) bool {
	_, ok := capabilities[r][op]
	return ok
}

// Identity is the verified subject of a session token.
type Identity struct {
	UserID string
	Email  string
	Role   Role
}

// Authorize gates a protected operation. A nil identity means no valid
// session was presented.
func Authorize(id *Identity, op Operation) error {
	if id == nil {
		return ErrUnauthorized
	}
	if !id.Role.Can(op) {
		return ErrForbidden
	}
	return nil
}
