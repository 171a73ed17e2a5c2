package domain

import "time"

type Role string

const (
	RoleUser   Role = "user"
	RoleSeller Role = "seller"
	RoleAdmin  Role = "admin"
)

func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleSeller, RoleAdmin:
		return true
	}
	return false
}

// Capability is a single permission resolved from a role at the
// access-control boundary. Handlers check capabilities, never raw role
// strings.
type Capability string

const (
	CapManageOwnProducts Capability = "manage_own_products"
	CapManageAllProducts Capability = "manage_all_products"
	CapManageOrders      Capability = "manage_orders"
	CapManageUsers       Capability = "manage_users"
)

// Capabilities resolves a role into its permission set once per request.
func Capabilities(r Role) map[Capability]bool {
	switch r {
	case RoleSeller:
		return map[Capability]bool{
			CapManageOwnProducts: true,
		}
	case RoleAdmin:
		return map[Capability]bool{
			CapManageOwnProducts: true,
			CapManageAllProducts: true,
			CapManageOrders:      true,
			CapManageUsers:       true,
		}
	default:
		return map[Capability]bool{}
	}
}

type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Role         Role
	CreatedAt    time.Time
}

func NewUser(id, name, email, passwordHash string) User {
	return User{
		ID:           id,
		Name:         name,
		Email:        email,
		PasswordHash: passwordHash,
		Role:         RoleUser,
		CreatedAt:    time.Now().UTC(),
	}
}
