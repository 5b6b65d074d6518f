package auth

import (
	"time"

	"github.com/google/uuid"
)

// Role values for users.
const (
	RoleAdmin = "admin"
	RoleSales = "sales"
)

// User represents a row in the users table.
type User struct {
	ID           uuid.UUID
	Name         string
	Role         string // "admin" or "sales"
	ApiKeyPrefix string
	ApiKeyHash   string
	CreatedAt    time.Time
	RevokedAt    *time.Time
}

// Identity is stored in the request context after authentication.
type Identity struct {
	UserID   uuid.UUID
	UserName string
	Role     string
}

// IsAdmin reports whether the identity carries the admin role.
func (i *Identity) IsAdmin() bool {
	return i.Role == RoleAdmin
}
