package catalog

import (
	"regexp"

	"github.com/google/uuid"
	"github.com/lms/backend/internal/domain/shared"
)

// CoursePrivacy controls course discoverability
type CoursePrivacy string

const (
	CoursePrivacyPublic   CoursePrivacy = "PUBLIC"
	CoursePrivacyUnlisted CoursePrivacy = "UNLISTED"
)

// IsValid returns true if the privacy value is valid
func (p CoursePrivacy) IsValid() bool {
	switch p {
	case CoursePrivacyPublic, CoursePrivacyUnlisted:
		return true
	}
	return false
}

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

// Course is a purchasable course in the catalog
type Course struct {
	shared.TenantAggregateRoot
	Title       string        `gorm:"type:varchar(200);not null"`
	Slug        string        `gorm:"type:varchar(120);not null;uniqueIndex:idx_courses_tenant_slug,priority:2"`
	Description string        `gorm:"type:text"`
	Privacy     CoursePrivacy `gorm:"type:varchar(20);not null;default:'PUBLIC'"`
	Published   bool          `gorm:"not null;default:false"`
}

// NewCourse creates a new unpublished course
func NewCourse(tenantID uuid.UUID, title, slug string) (*Course, error) {
	if title == "" || len(title) > 200 {
		return nil, shared.NewDomainError("INVALID_TITLE", "Title must be between 1 and 200 characters")
	}
	if !slugPattern.MatchString(slug) {
		return nil, shared.NewDomainError("INVALID_SLUG", "Slug must be lowercase alphanumeric with dashes")
	}

	return &Course{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Title:               title,
		Slug:                slug,
		Privacy:             CoursePrivacyPublic,
	}, nil
}

// SetDescription updates the course description
func (c *Course) SetDescription(description string) {
	c.Description = description
}

// SetPrivacy updates the course privacy setting
func (c *Course) SetPrivacy(privacy CoursePrivacy) error {
	if !privacy.IsValid() {
		return shared.NewDomainError("INVALID_PRIVACY", "Unknown privacy setting")
	}
	c.Privacy = privacy
	return nil
}

// Publish makes the course available for enrollment
func (c *Course) Publish() {
	c.Published = true
}

// Unpublish withdraws the course from enrollment
func (c *Course) Unpublish() {
	c.Published = false
}

// Product returns the processor-facing view of the course
func (c *Course) Product() Product {
	return Product{ID: c.ID, Title: c.Title, Type: EntityTypeCourse}
}

// TableName returns the table name for GORM
func (Course) TableName() string {
	return "courses"
}
