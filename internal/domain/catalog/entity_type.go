package catalog

import "github.com/google/uuid"

// EntityType identifies the kind of purchasable entity a plan or membership
// refers to.
type EntityType string

const (
	EntityTypeCourse    EntityType = "COURSE"
	EntityTypeCommunity EntityType = "COMMUNITY"
)

// IsValid returns true if the entity type is valid
func (t EntityType) IsValid() bool {
	switch t {
	case EntityTypeCourse, EntityTypeCommunity:
		return true
	}
	return false
}

// String returns the string representation of EntityType
func (t EntityType) String() string {
	return string(t)
}

// Product is the purchasable-entity view handed to the payment processor
// when a checkout session is created.
type Product struct {
	ID    uuid.UUID
	Title string
	Type  EntityType
}
