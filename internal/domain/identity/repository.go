package identity

import (
	"context"

	"github.com/google/uuid"
	"github.com/lms/backend/internal/domain/shared"
)

// UserRepository defines the persistence interface for users
type UserRepository interface {
	shared.TenantRepository[User]

	// FindByEmail retrieves a user by email within a tenant
	FindByEmail(ctx context.Context, tenantID uuid.UUID, email string) (*User, error)

	// ExistsByEmail checks whether an email is already taken within a tenant
	ExistsByEmail(ctx context.Context, tenantID uuid.UUID, email string) (bool, error)
}
