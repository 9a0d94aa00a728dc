package model

// Role distinguishes the two marketplace parties.
type Role string

const (
	RoleCustomer Role = "customer"
	RoleSupplier Role = "supplier"
)

// Valid reports whether the role is known.
func (r Role) Valid() bool {
	return r == RoleCustomer || r == RoleSupplier
}

// Actor is the authenticated party performing an operation. Identity is
// established by the external identity collaborator; the core trusts it.
type Actor struct {
	ID   int64
	Role Role
}
