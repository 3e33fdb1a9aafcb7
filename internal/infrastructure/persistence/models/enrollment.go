package models

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/lms/backend/internal/domain/catalog"
	"github.com/lms/backend/internal/domain/enrollment"
	"github.com/lms/backend/internal/domain/shared"
)

// MembershipModel is the persistence model for the Membership aggregate root.
// The unique composite index is what turns a concurrent first insert for the
// same (tenant, user, entity) into a constraint violation instead of a
// duplicate row.
type MembershipModel struct {
	BaseModel
	Version            int                         `gorm:"not null;default:1"`
	TenantID           uuid.UUID                   `gorm:"type:uuid;not null;uniqueIndex:idx_memberships_identity,priority:1"`
	UserID             uuid.UUID                   `gorm:"type:uuid;not null;uniqueIndex:idx_memberships_identity,priority:2"`
	EntityType         catalog.EntityType          `gorm:"type:varchar(20);not null;uniqueIndex:idx_memberships_identity,priority:3"`
	EntityID           uuid.UUID                   `gorm:"type:uuid;not null;uniqueIndex:idx_memberships_identity,priority:4"`
	Status             enrollment.MembershipStatus `gorm:"type:varchar(20);not null;index"`
	PaymentPlanID      uuid.UUID                   `gorm:"type:uuid;not null"`
	SessionID          *uuid.UUID                  `gorm:"type:uuid;index"`
	SubscriptionID     *string                     `gorm:"type:varchar(200)"`
	SubscriptionMethod string                      `gorm:"type:varchar(50)"`
	JoiningReason      string                      `gorm:"type:varchar(500)"`
}

// TableName returns the table name for GORM
func (MembershipModel) TableName() string {
	return "memberships"
}

// ToDomain converts the persistence model to a domain Membership
func (m *MembershipModel) ToDomain() *enrollment.Membership {
	membership := &enrollment.Membership{
		TenantAggregateRoot: shared.TenantAggregateRoot{
			BaseAggregateRoot: shared.BaseAggregateRoot{
				BaseEntity: shared.BaseEntity{
					ID:        m.ID,
					CreatedAt: m.CreatedAt,
					UpdatedAt: m.UpdatedAt,
				},
				Version: m.Version,
			},
			TenantID: m.TenantID,
		},
		UserID:             m.UserID,
		EntityType:         m.EntityType,
		EntityID:           m.EntityID,
		Status:             m.Status,
		PaymentPlanID:      m.PaymentPlanID,
		SessionID:          m.SessionID,
		SubscriptionID:     m.SubscriptionID,
		SubscriptionMethod: m.SubscriptionMethod,
		JoiningReason:      m.JoiningReason,
	}
	return membership
}

// FromDomain populates the persistence model from a domain Membership
func (m *MembershipModel) FromDomain(membership *enrollment.Membership) {
	m.ID = membership.ID
	m.CreatedAt = membership.CreatedAt
	m.UpdatedAt = membership.UpdatedAt
	m.Version = membership.Version
	m.TenantID = membership.TenantID
	m.UserID = membership.UserID
	m.EntityType = membership.EntityType
	m.EntityID = membership.EntityID
	m.Status = membership.Status
	m.PaymentPlanID = membership.PaymentPlanID
	m.SessionID = membership.SessionID
	m.SubscriptionID = membership.SubscriptionID
	m.SubscriptionMethod = membership.SubscriptionMethod
	m.JoiningReason = membership.JoiningReason
}

// MembershipModelFromDomain creates a persistence model from a domain Membership
func MembershipModelFromDomain(membership *enrollment.Membership) *MembershipModel {
	m := &MembershipModel{}
	m.FromDomain(membership)
	return m
}

// InvoiceModel is the persistence model for the Invoice aggregate root.
// The unique index on the membership session ID rejects a second invoice
// for the same payment session.
type InvoiceModel struct {
	TenantAggregateModel
	MembershipID             uuid.UUID                `gorm:"type:uuid;not null;index"`
	MembershipSessionID      uuid.UUID                `gorm:"type:uuid;not null;uniqueIndex:idx_invoices_session"`
	Amount                   decimal.Decimal          `gorm:"type:decimal(18,4);not null"`
	CurrencyISOCode          string                   `gorm:"type:varchar(3);not null"`
	Status                   enrollment.InvoiceStatus `gorm:"type:varchar(20);not null;index"`
	PaymentProcessor         string                   `gorm:"type:varchar(50);not null"`
	PaymentProcessorEntityID string                   `gorm:"type:varchar(200)"`
}

// TableName returns the table name for GORM
func (InvoiceModel) TableName() string {
	return "invoices"
}

// ToDomain converts the persistence model to a domain Invoice
func (m *InvoiceModel) ToDomain() *enrollment.Invoice {
	invoice := &enrollment.Invoice{
		MembershipID:             m.MembershipID,
		MembershipSessionID:      m.MembershipSessionID,
		Amount:                   m.Amount,
		CurrencyISOCode:          m.CurrencyISOCode,
		Status:                   m.Status,
		PaymentProcessor:         m.PaymentProcessor,
		PaymentProcessorEntityID: m.PaymentProcessorEntityID,
	}
	m.PopulateTenantAggregateRoot(&invoice.TenantAggregateRoot)
	return invoice
}

// FromDomain populates the persistence model from a domain Invoice
func (m *InvoiceModel) FromDomain(invoice *enrollment.Invoice) {
	m.FromDomainTenantAggregateRoot(invoice.TenantAggregateRoot)
	m.MembershipID = invoice.MembershipID
	m.MembershipSessionID = invoice.MembershipSessionID
	m.Amount = invoice.Amount
	m.CurrencyISOCode = invoice.CurrencyISOCode
	m.Status = invoice.Status
	m.PaymentProcessor = invoice.PaymentProcessor
	m.PaymentProcessorEntityID = invoice.PaymentProcessorEntityID
}

// InvoiceModelFromDomain creates a persistence model from a domain Invoice
func InvoiceModelFromDomain(invoice *enrollment.Invoice) *InvoiceModel {
	m := &InvoiceModel{}
	m.FromDomain(invoice)
	return m
}
