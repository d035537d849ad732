package domain

// Role enumerates caller roles carried in access tokens.
type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

// Valid reports whether the role is one of the known values.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleUser
}

// Identity is the verified caller principal attached to a request after
// token verification. It is ephemeral and never persisted by the gateway.
type Identity struct {
	SubjectID string
	Role      Role
}

// IsAdmin reports whether the identity carries the admin role.
func (i Identity) IsAdmin() bool {
	return i.Role == RoleAdmin
}

// Owns reports whether the identity's subject id matches the given id.
func (i Identity) Owns(subjectID string) bool {
	return i.SubjectID == subjectID
}
