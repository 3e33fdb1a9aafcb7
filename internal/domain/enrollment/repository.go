package enrollment

import (
	"context"

	"github.com/google/uuid"
	"github.com/lms/backend/internal/domain/catalog"
	"github.com/lms/backend/internal/domain/shared"
)

// MembershipRepository owns the membership ledger.
//
// Writes go through Create and TransitionFrom only. TransitionFrom is a
// compare-and-swap keyed on (membership ID, expected previous status):
// when another request has already moved the record, the call fails with
// shared.ErrConcurrencyConflict and the caller must re-read and re-decide
// rather than overwrite. That conditional write is what serializes
// concurrent activation attempts.
type MembershipRepository interface {
	// FindByID finds a membership by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Membership, error)

	// FindByIDForTenant finds a membership by ID within a tenant
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Membership, error)

	// FindForEntity finds the membership for the composite key
	// (tenant, user, entity type, entity). Returns shared.ErrNotFound
	// when the user has never interacted with the entity.
	FindForEntity(ctx context.Context, tenantID, userID uuid.UUID, entityType catalog.EntityType, entityID uuid.UUID) (*Membership, error)

	// FindCollisions returns any other membership records for the same
	// (user, entity) in PENDING or ACTIVE status, excluding the given
	// membership ID
	FindCollisions(ctx context.Context, tenantID, userID uuid.UUID, entityType catalog.EntityType, entityID, excludeID uuid.UUID) ([]Membership, error)

	// FindAllForEntity lists memberships of an entity (member roster)
	FindAllForEntity(ctx context.Context, tenantID uuid.UUID, entityType catalog.EntityType, entityID uuid.UUID, filter shared.Filter) ([]Membership, error)

	// CountForEntity counts memberships of an entity
	CountForEntity(ctx context.Context, tenantID uuid.UUID, entityType catalog.EntityType, entityID uuid.UUID, filter shared.Filter) (int64, error)

	// FindAllForUser lists a user's memberships across entities
	FindAllForUser(ctx context.Context, tenantID, userID uuid.UUID, filter shared.Filter) ([]Membership, error)

	// Create inserts a membership that has just left the NONE status.
	// The unique index on the composite key turns a concurrent first
	// insert into shared.ErrConcurrencyConflict.
	Create(ctx context.Context, membership *Membership) error

	// TransitionFrom persists the membership's current state with a
	// conditional update requiring the stored status to still equal
	// expected. Returns shared.ErrConcurrencyConflict when the
	// condition does not hold.
	TransitionFrom(ctx context.Context, membership *Membership, expected MembershipStatus) error
}

// InvoiceRepository owns the invoice ledger. The ledger is append-mostly:
// invoices are created once per payment session and only their status may
// change afterwards.
type InvoiceRepository interface {
	// FindByID finds an invoice by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Invoice, error)

	// FindByIDForTenant finds an invoice by ID within a tenant
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Invoice, error)

	// FindBySessionID finds the invoice bound to a membership session
	FindBySessionID(ctx context.Context, sessionID uuid.UUID) (*Invoice, error)

	// FindAllForMembership lists the invoices of a membership
	FindAllForMembership(ctx context.Context, tenantID, membershipID uuid.UUID, filter shared.Filter) ([]Invoice, error)

	// Create inserts a new PENDING invoice. The unique index on the
	// session ID rejects a second invoice for the same session.
	Create(ctx context.Context, invoice *Invoice) error

	// MarkStatus settles an invoice conditionally: the update applies
	// only while the stored status is still PENDING, which makes webhook
	// replays no-ops. Returns shared.ErrConcurrencyConflict when the
	// invoice has already settled.
	MarkStatus(ctx context.Context, id uuid.UUID, status InvoiceStatus) error
}
