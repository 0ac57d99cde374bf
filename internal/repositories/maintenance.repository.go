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

// FilterAll is the sentinel meaning "no filter on this field". It is a
// value clients send, not a stored status or priority.
const FilterAll = "All"

type MaintenanceFilters struct {
	Status   string
	Priority string
	Property string
}

type MaintenanceSort struct {
	Field     string
	Direction string
}

// sortColumns whitelists client-supplied sort fields to real columns.
var sortColumns = map[string]string{
	"createdAt":     "created_at",
	"updatedAt":     "updated_at",
	"status":        "status",
	"priority":      "priority",
	"scheduledDate": "scheduled_date",
	"estimatedCost": "estimated_cost",
}

type MaintenanceStats struct {
	Total          int64           `json:"total"`
	Pending        int64           `json:"pending"`
	InProgress     int64           `json:"inProgress"`
	OnHold         int64           `json:"onHold"`
	Completed      int64           `json:"completed"`
	Cancelled      int64           `json:"cancelled"`
	HighPriority   int64           `json:"highPriority"`
	TotalEstimated decimal.Decimal `json:"totalEstimatedCost"`
	CompletionRate int             `json:"completionRate"`
}

type MaintenanceRepository interface {
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*MaintenanceRequest, error)
	Create(ctx context.Context, tx *gorm.DB, request *MaintenanceRequest) error
	Update(ctx context.Context, tx *gorm.DB, request *MaintenanceRequest) error
	Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error
	ListByLandlord(ctx context.Context, landlordID uuid.UUID, filters MaintenanceFilters, sort MaintenanceSort) ([]*MaintenanceRequest, error)
	ListByTenant(ctx context.Context, tenantID uuid.UUID, filters MaintenanceFilters, sort MaintenanceSort) ([]*MaintenanceRequest, error)
	ListByProperty(ctx context.Context, propertyID uuid.UUID) ([]*MaintenanceRequest, error)
	ListStaleEmergencies(ctx context.Context, tx *gorm.DB, olderThan time.Time) ([]*MaintenanceRequest, error)
	Stats(ctx context.Context, landlordID uuid.UUID) (*MaintenanceStats, error)
}

type maintenanceRepository struct {
	db  database.DB
	log logger.Logger
}

func NewMaintenanceRepository(db database.DB) MaintenanceRepository {
	return &maintenanceRepository{
		db:  db,
		log: logger.New("maintenanceRepository"),
	}
}

func (r *maintenanceRepository) GetByID(
	ctx context.Context,
	tx *gorm.DB,
	id uuid.UUID,
) (*MaintenanceRequest, error) {
	var request MaintenanceRequest
	if err := tx.WithContext(ctx).First(&request, "id = ?", id).Error; err != nil {
		return nil, r.log.Function("GetByID").
			Err("failed to get maintenance request", err, "requestID", id)
	}

	return &request, nil
}

func (r *maintenanceRepository) Create(
	ctx context.Context,
	tx *gorm.DB,
	request *MaintenanceRequest,
) error {
	if err := tx.WithContext(ctx).Create(request).Error; err != nil {
		return r.log.Function("Create").
			Err("failed to create maintenance request", err, "propertyID", request.PropertyID)
	}

	return nil
}

func (r *maintenanceRepository) Update(
	ctx context.Context,
	tx *gorm.DB,
	request *MaintenanceRequest,
) error {
	if err := tx.WithContext(ctx).Save(request).Error; err != nil {
		return r.log.Function("Update").
			Err("failed to update maintenance request", err, "requestID", request.ID)
	}

	return nil
}

func (r *maintenanceRepository) Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
	log := r.log.Function("Delete")

	result := tx.WithContext(ctx).Delete(&MaintenanceRequest{}, "id = ?", id)
	if result.Error != nil {
		return log.Err("failed to delete maintenance request", result.Error, "requestID", id)
	}
	if result.RowsAffected == 0 {
		return log.Err("maintenance request not found for delete", gorm.ErrRecordNotFound, "requestID", id)
	}

	return nil
}

func (r *maintenanceRepository) ListByLandlord(
	ctx context.Context,
	landlordID uuid.UUID,
	filters MaintenanceFilters,
	sort MaintenanceSort,
) ([]*MaintenanceRequest, error) {
	query := r.db.SQLWithContext(ctx).Where("landlord_id = ?", landlordID)
	query = applyFilters(query, filters)

	var requests []*MaintenanceRequest
	if err := query.Order(orderClause(sort)).Find(&requests).Error; err != nil {
		return nil, r.log.Function("ListByLandlord").
			Err("failed to list maintenance requests", err, "landlordID", landlordID)
	}

	return requests, nil
}

func (r *maintenanceRepository) ListByTenant(
	ctx context.Context,
	tenantID uuid.UUID,
	filters MaintenanceFilters,
	sort MaintenanceSort,
) ([]*MaintenanceRequest, error) {
	query := r.db.SQLWithContext(ctx).Where("tenant_id = ?", tenantID)
	query = applyFilters(query, filters)

	var requests []*MaintenanceRequest
	if err := query.Order(orderClause(sort)).Find(&requests).Error; err != nil {
		return nil, r.log.Function("ListByTenant").
			Err("failed to list maintenance requests", err, "tenantID", tenantID)
	}

	return requests, nil
}

func (r *maintenanceRepository) ListByProperty(
	ctx context.Context,
	propertyID uuid.UUID,
) ([]*MaintenanceRequest, error) {
	var requests []*MaintenanceRequest
	if err := r.db.SQLWithContext(ctx).
		Where("property_id = ?", propertyID).
		Order("created_at DESC").
		Find(&requests).Error; err != nil {
		return nil, r.log.Function("ListByProperty").
			Err("failed to list maintenance requests", err, "propertyID", propertyID)
	}

	return requests, nil
}

func (r *maintenanceRepository) ListStaleEmergencies(
	ctx context.Context,
	tx *gorm.DB,
	olderThan time.Time,
) ([]*MaintenanceRequest, error) {
	var requests []*MaintenanceRequest
	if err := tx.WithContext(ctx).
		Where("is_emergency = ?", true).
		Where("status = ?", StatusPending).
		Where("priority <> ?", PriorityHigh).
		Where("created_at < ?", olderThan).
		Find(&requests).Error; err != nil {
		return nil, r.log.Function("ListStaleEmergencies").
			Err("failed to list stale emergency requests", err)
	}

	return requests, nil
}

func (r *maintenanceRepository) Stats(
	ctx context.Context,
	landlordID uuid.UUID,
) (*MaintenanceStats, error) {
	log := r.log.Function("Stats")

	type statusCount struct {
		Status MaintenanceStatus
		Count  int64
	}

	var counts []statusCount
	if err := r.db.SQLWithContext(ctx).
		Model(&MaintenanceRequest{}).
		Select("status, COUNT(*) AS count").
		Where("landlord_id = ?", landlordID).
		Group("status").
		Scan(&counts).Error; err != nil {
		return nil, log.Err("failed to count requests by status", err, "landlordID", landlordID)
	}

	stats := &MaintenanceStats{TotalEstimated: decimal.Zero}
	for _, c := range counts {
		stats.Total += c.Count
		switch c.Status {
		case StatusPending:
			stats.Pending = c.Count
		case StatusInProgress:
			stats.InProgress = c.Count
		case StatusOnHold:
			stats.OnHold = c.Count
		case StatusCompleted:
			stats.Completed = c.Count
		case StatusCancelled:
			stats.Cancelled = c.Count
		}
	}

	if err := r.db.SQLWithContext(ctx).
		Model(&MaintenanceRequest{}).
		Where("landlord_id = ? AND priority = ?", landlordID, PriorityHigh).
		Count(&stats.HighPriority).Error; err != nil {
		return nil, log.Err("failed to count high priority requests", err, "landlordID", landlordID)
	}

	var totalEstimated decimal.NullDecimal
	if err := r.db.SQLWithContext(ctx).
		Model(&MaintenanceRequest{}).
		Select("SUM(estimated_cost)").
		Where("landlord_id = ?", landlordID).
		Scan(&totalEstimated).Error; err != nil {
		return nil, log.Err("failed to sum estimated cost", err, "landlordID", landlordID)
	}
	if totalEstimated.Valid {
		stats.TotalEstimated = totalEstimated.Decimal
	}

	return stats, nil
}

func applyFilters(query *gorm.DB, filters MaintenanceFilters) *gorm.DB {
	if filters.Status != "" && filters.Status != FilterAll {
		query = query.Where("status = ?", filters.Status)
	}
	if filters.Priority != "" && filters.Priority != FilterAll {
		query = query.Where("priority = ?", filters.Priority)
	}
	if filters.Property != "" && filters.Property != FilterAll {
		query = query.Where("property_id = ?", filters.Property)
	}
	return query
}

func orderClause(sort MaintenanceSort) string {
	column, ok := sortColumns[sort.Field]
	if !ok {
		column = "created_at"
	}

	direction := "DESC"
	if sort.Direction == "asc" {
		direction = "ASC"
	}

	return column + " " + direction
}
