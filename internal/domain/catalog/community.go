package catalog

import (
	"github.com/google/uuid"
	"github.com/lms/backend/internal/domain/shared"
)

// Community is a purchasable member community in the catalog.
// Unlike courses, communities may require manual approval of joiners:
// when AutoAcceptMembers is false, a free activation must carry a
// joining reason for the moderators to review.
type Community struct {
	shared.TenantAggregateRoot
	Name              string `gorm:"type:varchar(200);not null"`
	Slug              string `gorm:"type:varchar(120);not null;uniqueIndex:idx_communities_tenant_slug,priority:2"`
	Description       string `gorm:"type:text"`
	Enabled           bool   `gorm:"not null;default:true"`
	AutoAcceptMembers bool   `gorm:"not null;default:false"`
}

// NewCommunity creates a new enabled community
func NewCommunity(tenantID uuid.UUID, name, slug string) (*Community, error) {
	if name == "" || len(name) > 200 {
		return nil, shared.NewDomainError("INVALID_NAME", "Name must be between 1 and 200 characters")
	}
	if !slugPattern.MatchString(slug) {
		return nil, shared.NewDomainError("INVALID_SLUG", "Slug must be lowercase alphanumeric with dashes")
	}

	return &Community{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Name:                name,
		Slug:                slug,
		Enabled:             true,
	}, nil
}

// SetDescription updates the community description
func (c *Community) SetDescription(description string) {
	c.Description = description
}

// SetAutoAcceptMembers toggles automatic acceptance of new members
func (c *Community) SetAutoAcceptMembers(autoAccept bool) {
	c.AutoAcceptMembers = autoAccept
}

// Disable withdraws the community from new enrollments
func (c *Community) Disable() {
	c.Enabled = false
}

// Enable makes the community available for enrollment again
func (c *Community) Enable() {
	c.Enabled = true
}

// RequiresJoiningReason reports whether a free activation must supply a
// joining reason
func (c *Community) RequiresJoiningReason() bool {
	return !c.AutoAcceptMembers
}

// Product returns the processor-facing view of the community
func (c *Community) Product() Product {
	return Product{ID: c.ID, Title: c.Name, Type: EntityTypeCommunity}
}

// TableName returns the table name for GORM
func (Community) TableName() string {
	return "communities"
}
