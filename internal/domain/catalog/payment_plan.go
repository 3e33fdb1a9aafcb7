package catalog

import (
	"strings"

	"github.com/google/uuid"
	"github.com/lms/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// PaymentPlanType represents the pricing model of a payment plan
type PaymentPlanType string

const (
	PaymentPlanTypeFree         PaymentPlanType = "FREE"
	PaymentPlanTypeOneTime      PaymentPlanType = "ONE_TIME"
	PaymentPlanTypeSubscription PaymentPlanType = "SUBSCRIPTION"
	PaymentPlanTypeEMI          PaymentPlanType = "EMI"
)

// IsValid returns true if the plan type is valid
func (t PaymentPlanType) IsValid() bool {
	switch t {
	case PaymentPlanTypeFree, PaymentPlanTypeOneTime, PaymentPlanTypeSubscription, PaymentPlanTypeEMI:
		return true
	}
	return false
}

// String returns the string representation of PaymentPlanType
func (t PaymentPlanType) String() string {
	return string(t)
}

// RequiresProcessor returns true if activating this plan type needs a
// configured payment processor
func (t PaymentPlanType) RequiresProcessor() bool {
	return t != PaymentPlanTypeFree
}

// IsRecurring returns true for plan types that carry a processor-side
// subscription once active
func (t PaymentPlanType) IsRecurring() bool {
	return t == PaymentPlanTypeSubscription || t == PaymentPlanTypeEMI
}

// PaymentPlan describes how a purchasable entity can be paid for.
// The enrollment core only reads plans; mutation happens through the
// catalog services.
type PaymentPlan struct {
	shared.TenantAggregateRoot
	Name                      string          `gorm:"type:varchar(200);not null"`
	EntityType                EntityType      `gorm:"type:varchar(20);not null;index:idx_payment_plans_entity,priority:1"`
	EntityID                  uuid.UUID       `gorm:"type:uuid;not null;index:idx_payment_plans_entity,priority:2"`
	Type                      PaymentPlanType `gorm:"type:varchar(20);not null"`
	OneTimeAmount             decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	SubscriptionMonthlyAmount decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	SubscriptionYearlyAmount  decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	EMIAmount                 decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	EMIInstallments           int             `gorm:"not null;default:0"`
	Currency                  string          `gorm:"type:varchar(3);not null"`
	Archived                  bool            `gorm:"not null;default:false"`
}

// TableName returns the table name for GORM
func (PaymentPlan) TableName() string {
	return "payment_plans"
}

// NewPaymentPlan creates a new payment plan for a purchasable entity
func NewPaymentPlan(tenantID uuid.UUID, entityType EntityType, entityID uuid.UUID, name string, planType PaymentPlanType, currency string) (*PaymentPlan, error) {
	if name == "" {
		return nil, shared.NewDomainError("INVALID_PLAN_NAME", "Plan name cannot be empty")
	}
	if !entityType.IsValid() {
		return nil, shared.NewDomainError("INVALID_ENTITY_TYPE", "Unknown entity type")
	}
	if entityID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_ENTITY", "Entity ID cannot be empty")
	}
	if !planType.IsValid() {
		return nil, shared.NewDomainError("INVALID_PLAN_TYPE", "Unknown payment plan type")
	}
	if err := validateCurrency(currency); err != nil {
		return nil, err
	}

	return &PaymentPlan{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Name:                name,
		EntityType:          entityType,
		EntityID:            entityID,
		Type:                planType,
		Currency:            strings.ToUpper(currency),
	}, nil
}

// SetOneTimeAmount sets the one-time purchase price
func (p *PaymentPlan) SetOneTimeAmount(amount decimal.Decimal) error {
	if amount.IsNegative() {
		return shared.NewDomainError("INVALID_AMOUNT", "Amount cannot be negative")
	}
	p.OneTimeAmount = amount
	return nil
}

// SetSubscriptionAmounts sets the recurring subscription prices
func (p *PaymentPlan) SetSubscriptionAmounts(monthly, yearly decimal.Decimal) error {
	if monthly.IsNegative() || yearly.IsNegative() {
		return shared.NewDomainError("INVALID_AMOUNT", "Amount cannot be negative")
	}
	p.SubscriptionMonthlyAmount = monthly
	p.SubscriptionYearlyAmount = yearly
	return nil
}

// SetEMI sets the installment amount and count
func (p *PaymentPlan) SetEMI(amount decimal.Decimal, installments int) error {
	if amount.IsNegative() {
		return shared.NewDomainError("INVALID_AMOUNT", "Amount cannot be negative")
	}
	if installments <= 0 {
		return shared.NewDomainError("INVALID_INSTALLMENTS", "Installment count must be positive")
	}
	p.EMIAmount = amount
	p.EMIInstallments = installments
	return nil
}

// Archive marks the plan as no longer selectable for new activations
func (p *PaymentPlan) Archive() {
	p.Archived = true
}

// Amount derives the charge amount for a new payment session.
// Priority order: one-time, subscription monthly, subscription yearly,
// EMI installment; the first non-zero field wins, zero otherwise.
func (p *PaymentPlan) Amount() decimal.Decimal {
	for _, amount := range []decimal.Decimal{
		p.OneTimeAmount,
		p.SubscriptionMonthlyAmount,
		p.SubscriptionYearlyAmount,
		p.EMIAmount,
	} {
		if !amount.IsZero() {
			return amount
		}
	}
	return decimal.Zero
}

// IsFree returns true if no payment is required for this plan
func (p *PaymentPlan) IsFree() bool {
	return p.Type == PaymentPlanTypeFree
}

// BelongsTo reports whether the plan is attached to the given entity
func (p *PaymentPlan) BelongsTo(entityType EntityType, entityID uuid.UUID) bool {
	return p.EntityType == entityType && p.EntityID == entityID
}

func validateCurrency(currency string) error {
	if len(currency) != 3 {
		return shared.NewDomainError("INVALID_CURRENCY", "Currency must be a 3-letter ISO code")
	}
	for _, r := range currency {
		if (r < 'a' || r > 'z') && (r < 'A' || r > 'Z') {
			return shared.NewDomainError("INVALID_CURRENCY", "Currency must be a 3-letter ISO code")
		}
	}
	return nil
}
