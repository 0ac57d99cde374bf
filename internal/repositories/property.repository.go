package repositories

import (
	"context"
	"time"

	"rentdesk/internal/database"
	"rentdesk/internal/logger"
	. "rentdesk/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	PROPERTY_CACHE_EXPIRY = 1 * time.Hour
	PROPERTY_CACHE_PREFIX = "property:"
)

// PropertyFilter narrows public property listings. Zero values mean "no
// filter on that field".
type PropertyFilter struct {
	City         string
	PropertyType string
	Status       PropertyStatus
	MinPrice     *decimal.Decimal
	MaxPrice     *decimal.Decimal
	MinBedrooms  int
}

type PropertyRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*Property, error)
	List(ctx context.Context, filter PropertyFilter) ([]*Property, error)
	ListByLandlord(ctx context.Context, landlordID uuid.UUID) ([]*Property, error)
	Create(ctx context.Context, tx *gorm.DB, property *Property) error
	Update(ctx context.Context, tx *gorm.DB, property *Property) error
	Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error
}

type propertyRepository struct {
	db  database.DB
	log logger.Logger
}

func NewPropertyRepository(db database.DB) PropertyRepository {
	return &propertyRepository{
		db:  db,
		log: logger.New("propertyRepository"),
	}
}

func (r *propertyRepository) GetByID(ctx context.Context, id uuid.UUID) (*Property, error) {
	log := r.log.Function("GetByID")

	var property Property
	cacheKey := PROPERTY_CACHE_PREFIX + id.String()
	found, err := database.NewCacheBuilder(r.db.Cache.Property, cacheKey).
		WithContext(ctx).
		Get(&property)
	if err == nil && found {
		return &property, nil
	}

	if err := r.db.SQLWithContext(ctx).First(&property, "id = ?", id).Error; err != nil {
		return nil, log.Err("failed to get property by id", err, "id", id)
	}

	if err := r.addToCache(ctx, &property); err != nil {
		log.Warn("failed to add property to cache", "propertyID", id, "error", err)
	}

	return &property, nil
}

func (r *propertyRepository) List(ctx context.Context, filter PropertyFilter) ([]*Property, error) {
	log := r.log.Function("List")

	query := r.db.SQLWithContext(ctx).Model(&Property{})

	if filter.City != "" {
		query = query.Where("address ->> 'city' = ?", filter.City)
	}
	if filter.PropertyType != "" {
		query = query.Where("property_type = ?", filter.PropertyType)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.MinPrice != nil {
		query = query.Where("price >= ?", filter.MinPrice)
	}
	if filter.MaxPrice != nil {
		query = query.Where("price <= ?", filter.MaxPrice)
	}
	if filter.MinBedrooms > 0 {
		query = query.Where("bedrooms >= ?", filter.MinBedrooms)
	}

	var properties []*Property
	if err := query.Order("created_at DESC").Find(&properties).Error; err != nil {
		return nil, log.Err("failed to list properties", err)
	}

	return properties, nil
}

func (r *propertyRepository) ListByLandlord(
	ctx context.Context,
	landlordID uuid.UUID,
) ([]*Property, error) {
	log := r.log.Function("ListByLandlord")

	var properties []*Property
	if err := r.db.SQLWithContext(ctx).
		Where("posted_by = ?", landlordID).
		Order("created_at DESC").
		Find(&properties).Error; err != nil {
		return nil, log.Err("failed to list properties by landlord", err, "landlordID", landlordID)
	}

	return properties, nil
}

func (r *propertyRepository) Create(ctx context.Context, tx *gorm.DB, property *Property) error {
	log := r.log.Function("Create")

	if err := tx.WithContext(ctx).Create(property).Error; err != nil {
		return log.Err("failed to create property", err, "title", property.Title)
	}

	return nil
}

func (r *propertyRepository) Update(ctx context.Context, tx *gorm.DB, property *Property) error {
	log := r.log.Function("Update")

	if err := tx.WithContext(ctx).Save(property).Error; err != nil {
		return log.Err("failed to update property", err, "propertyID", property.ID)
	}

	if err := r.clearCache(ctx, property.ID); err != nil {
		log.Warn("failed to clear property cache after update", "propertyID", property.ID, "error", err)
	}

	return nil
}

func (r *propertyRepository) Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
	log := r.log.Function("Delete")

	result := tx.WithContext(ctx).Delete(&Property{}, "id = ?", id)
	if result.Error != nil {
		return log.Err("failed to delete property", result.Error, "propertyID", id)
	}
	if result.RowsAffected == 0 {
		return log.Err("property not found for delete", gorm.ErrRecordNotFound, "propertyID", id)
	}

	if err := r.clearCache(ctx, id); err != nil {
		log.Warn("failed to clear property cache after delete", "propertyID", id, "error", err)
	}

	return nil
}

func (r *propertyRepository) addToCache(ctx context.Context, property *Property) error {
	cacheKey := PROPERTY_CACHE_PREFIX + property.ID.String()
	return database.NewCacheBuilder(r.db.Cache.Property, cacheKey).
		WithStruct(property).
		WithTTL(PROPERTY_CACHE_EXPIRY).
		WithContext(ctx).
		Set()
}

func (r *propertyRepository) clearCache(ctx context.Context, id uuid.UUID) error {
	cacheKey := PROPERTY_CACHE_PREFIX + id.String()
	return database.NewCacheBuilder(r.db.Cache.Property, cacheKey).WithContext(ctx).Delete()
}
