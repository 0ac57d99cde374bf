package repositories

import (
	"context"

	"rentdesk/internal/database"
	"rentdesk/internal/logger"
	. "rentdesk/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type InquiryRepository interface {
	Create(ctx context.Context, tx *gorm.DB, inquiry *Inquiry) error
	ListBySeeker(ctx context.Context, seekerID uuid.UUID) ([]*Inquiry, error)
	ListByLandlord(ctx context.Context, landlordID uuid.UUID) ([]*Inquiry, error)
	ListTenantsByLandlord(ctx context.Context, landlordID uuid.UUID) ([]*TenantSummary, error)
}

type inquiryRepository struct {
	db  database.DB
	log logger.Logger
}

func NewInquiryRepository(db database.DB) InquiryRepository {
	return &inquiryRepository{
		db:  db,
		log: logger.New("inquiryRepository"),
	}
}

func (r *inquiryRepository) Create(ctx context.Context, tx *gorm.DB, inquiry *Inquiry) error {
	if err := tx.WithContext(ctx).Create(inquiry).Error; err != nil {
		return r.log.Function("Create").
			Err("failed to create inquiry", err, "propertyID", inquiry.PropertyID)
	}

	return nil
}

func (r *inquiryRepository) ListBySeeker(
	ctx context.Context,
	seekerID uuid.UUID,
) ([]*Inquiry, error) {
	var inquiries []*Inquiry
	if err := r.db.SQLWithContext(ctx).
		Preload("Property").
		Where("seeker_id = ?", seekerID).
		Order("created_at DESC").
		Find(&inquiries).Error; err != nil {
		return nil, r.log.Function("ListBySeeker").
			Err("failed to list inquiries by seeker", err, "seekerID", seekerID)
	}

	return inquiries, nil
}

func (r *inquiryRepository) ListByLandlord(
	ctx context.Context,
	landlordID uuid.UUID,
) ([]*Inquiry, error) {
	var inquiries []*Inquiry
	if err := r.db.SQLWithContext(ctx).
		Preload("Property").
		Preload("Seeker").
		Joins("JOIN properties ON properties.id = inquiries.property_id").
		Where("properties.posted_by = ?", landlordID).
		Order("inquiries.created_at DESC").
		Find(&inquiries).Error; err != nil {
		return nil, r.log.Function("ListByLandlord").
			Err("failed to list inquiries by landlord", err, "landlordID", landlordID)
	}

	return inquiries, nil
}

// ListTenantsByLandlord derives the landlord's tenants from inquiries
// against the landlord's properties. There is no stored lease entity.
func (r *inquiryRepository) ListTenantsByLandlord(
	ctx context.Context,
	landlordID uuid.UUID,
) ([]*TenantSummary, error) {
	var tenants []*TenantSummary
	if err := r.db.SQLWithContext(ctx).
		Model(&Inquiry{}).
		Select(`DISTINCT ON (inquiries.seeker_id, inquiries.property_id)
			inquiries.seeker_id AS user_id,
			users.name,
			users.phone,
			users.email,
			inquiries.property_id,
			properties.title AS property_title,
			inquiries.created_at AS inquired_at`).
		Joins("JOIN properties ON properties.id = inquiries.property_id").
		Joins("JOIN users ON users.id = inquiries.seeker_id").
		Where("properties.posted_by = ?", landlordID).
		Order("inquiries.seeker_id, inquiries.property_id, inquiries.created_at DESC").
		Scan(&tenants).Error; err != nil {
		return nil, r.log.Function("ListTenantsByLandlord").
			Err("failed to derive tenants for landlord", err, "landlordID", landlordID)
	}

	return tenants, nil
}
