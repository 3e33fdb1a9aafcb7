package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/lms/backend/internal/domain/enrollment"
	"github.com/lms/backend/internal/domain/shared"
	"github.com/lms/backend/internal/infrastructure/persistence/models"
)

// GormInvoiceRepository implements enrollment.InvoiceRepository using GORM.
// The ledger is append-mostly: rows are inserted once per payment session
// and only their status column changes afterwards.
type GormInvoiceRepository struct {
	db *gorm.DB
}

// NewGormInvoiceRepository creates a new GormInvoiceRepository
func NewGormInvoiceRepository(db *gorm.DB) *GormInvoiceRepository {
	return &GormInvoiceRepository{db: db}
}

// FindByID finds an invoice by ID
func (r *GormInvoiceRepository) FindByID(ctx context.Context, id uuid.UUID) (*enrollment.Invoice, error) {
	var model models.InvoiceModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByIDForTenant finds an invoice by ID within a tenant
func (r *GormInvoiceRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*enrollment.Invoice, error) {
	var model models.InvoiceModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindBySessionID finds the invoice bound to a membership payment session
func (r *GormInvoiceRepository) FindBySessionID(ctx context.Context, sessionID uuid.UUID) (*enrollment.Invoice, error) {
	var model models.InvoiceModel
	if err := r.db.WithContext(ctx).
		Where("membership_session_id = ?", sessionID).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAllForMembership lists the invoices of a membership
func (r *GormInvoiceRepository) FindAllForMembership(ctx context.Context, tenantID, membershipID uuid.UUID, filter shared.Filter) ([]enrollment.Invoice, error) {
	var invoiceModels []models.InvoiceModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND membership_id = ?", tenantID, membershipID).
		Order(sortClause(filter.OrderBy, filter.OrderDir, CommonSortFields)).
		Offset((filter.Page - 1) * filter.PageSize).
		Limit(filter.PageSize).
		Find(&invoiceModels).Error; err != nil {
		return nil, err
	}

	invoices := make([]enrollment.Invoice, len(invoiceModels))
	for i := range invoiceModels {
		invoices[i] = *invoiceModels[i].ToDomain()
	}
	return invoices, nil
}

// Create inserts a new PENDING invoice. The invoice must carry the session
// the membership currently holds; a session the membership has since moved
// off (an expiry sweep or a racing caller re-initiated) is rejected. The
// unique index on the session ID rejects a second invoice for the same
// session.
func (r *GormInvoiceRepository) Create(ctx context.Context, invoice *enrollment.Invoice) error {
	model := models.InvoiceModelFromDomain(invoice)
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var membership models.MembershipModel
		if err := tx.Select("session_id").
			First(&membership, "id = ?", model.MembershipID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return shared.ErrNotFound
			}
			return err
		}
		if membership.SessionID == nil || *membership.SessionID != model.MembershipSessionID {
			return shared.NewDomainError("INVALID_SESSION",
				"Invoice session does not match the membership's current payment session")
		}

		if err := tx.Create(model).Error; err != nil {
			if isUniqueViolation(err) {
				return shared.ErrConcurrencyConflict
			}
			return err
		}
		return nil
	})
}

// MarkStatus settles an invoice with an UPDATE guarded on the stored status
// still being PENDING. A replayed webhook finds zero matching rows and gets
// a concurrency conflict, which callers treat as "already settled".
func (r *GormInvoiceRepository) MarkStatus(ctx context.Context, id uuid.UUID, status enrollment.InvoiceStatus) error {
	if !status.IsValid() {
		return shared.NewDomainError("INVALID_STATUS", "Invalid invoice status")
	}

	result := r.db.WithContext(ctx).
		Model(&models.InvoiceModel{}).
		Where("id = ? AND status = ?", id, enrollment.InvoiceStatusPending).
		Updates(map[string]interface{}{
			"status":     status,
			"version":    gorm.Expr("version + 1"),
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		// Distinguish a settled invoice from a missing one
		var count int64
		if err := r.db.WithContext(ctx).
			Model(&models.InvoiceModel{}).
			Where("id = ?", id).
			Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return shared.ErrNotFound
		}
		return shared.ErrConcurrencyConflict
	}
	return nil
}

// Ensure GormInvoiceRepository implements InvoiceRepository
var _ enrollment.InvoiceRepository = (*GormInvoiceRepository)(nil)
