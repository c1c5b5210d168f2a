package models

// RoleType defines the user role type
type RoleType string

const (
	RoleStudent   RoleType = "student"
	RoleLecturer  RoleType = "lecturer"
	RoleRegistrar RoleType = "registrar"
)

// Roles lists every role a user can register with
var Roles = []RoleType{RoleStudent, RoleLecturer, RoleRegistrar}

// Valid reports whether r is one of the known roles
func (r RoleType) Valid() bool {
	switch r {
	case RoleStudent, RoleLecturer, RoleRegistrar:
		return true
	}
	return false
}

func (r RoleType) String() string {
	return string(r)
}
