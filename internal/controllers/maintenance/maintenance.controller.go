package maintenanceController

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"rentdesk/internal/controllers"
	"rentdesk/internal/controllers/ownership"
	"rentdesk/internal/database"
	"rentdesk/internal/events"
	"rentdesk/internal/logger"
	. "rentdesk/internal/models"
	"rentdesk/internal/repositories"
	"rentdesk/internal/services"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// MaintenanceController owns the request lifecycle: creation, field
// updates, the status machine with derived progress, assignment,
// comments, and the append-only history trail.
type MaintenanceController struct {
	maintenanceRepo repositories.MaintenanceRepository
	propertyRepo    repositories.PropertyRepository
	userRepo        repositories.UserRepository
	transaction     *services.TransactionService
	eventBus        *events.EventBus
	db              database.DB
	now             func() time.Time
	log             logger.Logger
}

type MaintenanceControllerInterface interface {
	Create(ctx context.Context, tenantID uuid.UUID, req CreateRequest) (*MaintenanceRequest, error)
	Get(ctx context.Context, callerID uuid.UUID, id uuid.UUID) (*MaintenanceRequest, error)
	UpdateFields(ctx context.Context, callerID uuid.UUID, id uuid.UUID, req UpdateRequest) (*MaintenanceRequest, error)
	SetStatus(ctx context.Context, callerID uuid.UUID, id uuid.UUID, status string) (*MaintenanceRequest, error)
	Assign(ctx context.Context, callerID uuid.UUID, id uuid.UUID, req AssignRequest) (*MaintenanceRequest, error)
	AddComment(ctx context.Context, callerID uuid.UUID, id uuid.UUID, req CommentRequest) (*MaintenanceRequest, error)
	AddAttachments(ctx context.Context, callerID uuid.UUID, id uuid.UUID, req AttachmentRequest) (*MaintenanceRequest, error)
	Delete(ctx context.Context, callerID uuid.UUID, id uuid.UUID) error
	ListForLandlord(ctx context.Context, landlordID uuid.UUID, filters repositories.MaintenanceFilters, sort repositories.MaintenanceSort) ([]*MaintenanceRequest, error)
	ListForTenant(ctx context.Context, tenantID uuid.UUID, filters repositories.MaintenanceFilters, sort repositories.MaintenanceSort) ([]*MaintenanceRequest, error)
	ListForProperty(ctx context.Context, callerID uuid.UUID, propertyID uuid.UUID) ([]*MaintenanceRequest, error)
	Stats(ctx context.Context, landlordID uuid.UUID) (*repositories.MaintenanceStats, error)
}

type CreateRequest struct {
	PropertyID    uuid.UUID       `json:"property"`
	Title         string          `json:"title"`
	Description   string          `json:"description"`
	Priority      string          `json:"priority"`
	Category      string          `json:"category"`
	IsEmergency   bool            `json:"isEmergency"`
	IsUrgent      bool            `json:"isUrgent"`
	EstimatedCost decimal.Decimal `json:"estimatedCost"`
	ScheduledDate *time.Time      `json:"scheduledDate"`
	Attachments   []Attachment    `json:"attachments"`
}

// UpdateRequest covers the bulk-editable fields. History and comments
// have no fields here on purpose: they only change through their own
// operations, so any such keys in a request body fall away silently.
type UpdateRequest struct {
	Title             *string          `json:"title,omitempty"`
	Description       *string          `json:"description,omitempty"`
	Status            *string          `json:"status,omitempty"`
	Priority          *string          `json:"priority,omitempty"`
	Category          *string          `json:"category,omitempty"`
	EstimatedCost     *decimal.Decimal `json:"estimatedCost,omitempty"`
	ActualCost        *decimal.Decimal `json:"actualCost,omitempty"`
	IsEmergency       *bool            `json:"isEmergency,omitempty"`
	IsUrgent          *bool            `json:"isUrgent,omitempty"`
	ScheduledDate     *time.Time       `json:"scheduledDate,omitempty"`
	AssignedTo        *string          `json:"assignedTo,omitempty"`
	AssignedToContact *ProviderContact `json:"assignedToContact,omitempty"`
}

type AssignRequest struct {
	AssignedTo    string          `json:"assignedTo"`
	Contact       ProviderContact `json:"contact"`
	ScheduledDate *time.Time      `json:"scheduledDate"`
}

type CommentRequest struct {
	Text        string       `json:"text"`
	Attachments []Attachment `json:"attachments"`
}

type AttachmentRequest struct {
	Attachments []Attachment `json:"attachments"`
}

func New(
	repos repositories.Repository,
	services services.Service,
	eventBus *events.EventBus,
	db database.DB,
) MaintenanceControllerInterface {
	return &MaintenanceController{
		maintenanceRepo: repos.Maintenance,
		propertyRepo:    repos.Property,
		userRepo:        repos.User,
		transaction:     services.Transaction,
		eventBus:        eventBus,
		db:              db,
		now:             time.Now,
		log:             logger.New("maintenanceController"),
	}
}

func (mc *MaintenanceController) Create(
	ctx context.Context,
	tenantID uuid.UUID,
	req CreateRequest,
) (*MaintenanceRequest, error) {
	log := mc.log.Function("Create")

	if req.PropertyID == uuid.Nil {
		return nil, log.ErrorWithType(controllers.ErrValidation, "property id is required")
	}
	if strings.TrimSpace(req.Title) == "" {
		return nil, log.ErrorWithType(controllers.ErrValidation, "title is required")
	}
	if strings.TrimSpace(req.Description) == "" {
		return nil, log.ErrorWithType(controllers.ErrValidation, "description is required")
	}
	if req.EstimatedCost.IsNegative() {
		return nil, log.ErrorWithType(controllers.ErrValidation, "estimated cost cannot be negative")
	}

	priority := PriorityMedium
	if req.Priority != "" {
		priority = MaintenancePriority(req.Priority)
		if !priority.Valid() {
			return nil, log.ErrorWithType(controllers.ErrValidation, "unknown priority")
		}
	} else if req.IsEmergency {
		priority = PriorityHigh
	}

	category := CategoryGeneral
	if req.Category != "" {
		category = MaintenanceCategory(req.Category)
		if !category.Valid() {
			return nil, log.ErrorWithType(controllers.ErrValidation, "unknown category")
		}
	}

	property, err := mc.propertyRepo.GetByID(ctx, req.PropertyID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, log.ErrorWithType(controllers.ErrNotFound, "property not found")
		}
		return nil, log.Err("failed to get property", err, "propertyID", req.PropertyID)
	}

	tenant, err := mc.userRepo.GetByID(ctx, tenantID)
	if err != nil {
		return nil, log.Err("failed to get tenant", err, "tenantID", tenantID)
	}

	now := mc.now()
	request := &MaintenanceRequest{
		Title:         strings.TrimSpace(req.Title),
		Description:   strings.TrimSpace(req.Description),
		PropertyID:    property.ID,
		PropertyName:  property.Title,
		TenantID:      tenant.ID,
		TenantName:    tenant.Name,
		LandlordID:    property.PostedBy,
		Status:        StatusPending,
		Progress:      0,
		Priority:      priority,
		Category:      category,
		EstimatedCost: req.EstimatedCost,
		IsEmergency:   req.IsEmergency,
		IsUrgent:      req.IsUrgent,
		ScheduledDate: req.ScheduledDate,
		Attachments:   datatypes.NewJSONSlice(req.Attachments),
	}
	request.AppendHistory(HistoryCreated, "Maintenance request created", nil, now)

	err = mc.transaction.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
		return mc.maintenanceRepo.Create(ctx, tx, request)
	})
	if err != nil {
		return nil, log.Err("failed to create maintenance request", err, "propertyID", property.ID)
	}

	log.Info(
		"Maintenance request created",
		"requestID", request.ID,
		"propertyID", property.ID,
		"emergency", request.IsEmergency,
	)

	mc.publish(events.MAINTENANCE_CREATED, request, map[string]any{
		"priority":  request.Priority,
		"emergency": request.IsEmergency,
	})

	return request, nil
}

func (mc *MaintenanceController) Get(
	ctx context.Context,
	callerID uuid.UUID,
	id uuid.UUID,
) (*MaintenanceRequest, error) {
	log := mc.log.Function("Get")

	request, err := mc.getForParty(ctx, callerID, id, log)
	if err != nil {
		return nil, err
	}

	return request, nil
}

func (mc *MaintenanceController) UpdateFields(
	ctx context.Context,
	callerID uuid.UUID,
	id uuid.UUID,
	req UpdateRequest,
) (*MaintenanceRequest, error) {
	log := mc.log.Function("UpdateFields")

	request, err := mc.getForParty(ctx, callerID, id, log)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		if strings.TrimSpace(*req.Title) == "" {
			return nil, log.ErrorWithType(controllers.ErrValidation, "title cannot be empty")
		}
		request.Title = strings.TrimSpace(*req.Title)
	}
	if req.Description != nil {
		request.Description = *req.Description
	}
	if req.Priority != nil {
		priority := MaintenancePriority(*req.Priority)
		if !priority.Valid() {
			return nil, log.ErrorWithType(controllers.ErrValidation, "unknown priority")
		}
		request.Priority = priority
	}
	if req.Category != nil {
		category := MaintenanceCategory(*req.Category)
		if !category.Valid() {
			return nil, log.ErrorWithType(controllers.ErrValidation, "unknown category")
		}
		request.Category = category
	}
	if req.EstimatedCost != nil {
		if req.EstimatedCost.IsNegative() {
			return nil, log.ErrorWithType(controllers.ErrValidation, "estimated cost cannot be negative")
		}
		request.EstimatedCost = *req.EstimatedCost
	}
	if req.ActualCost != nil {
		if req.ActualCost.IsNegative() {
			return nil, log.ErrorWithType(controllers.ErrValidation, "actual cost cannot be negative")
		}
		request.ActualCost = *req.ActualCost
	}
	if req.IsEmergency != nil {
		request.IsEmergency = *req.IsEmergency
	}
	if req.IsUrgent != nil {
		request.IsUrgent = *req.IsUrgent
	}
	if req.ScheduledDate != nil {
		request.ScheduledDate = req.ScheduledDate
	}
	if req.AssignedTo != nil {
		assignee := strings.TrimSpace(*req.AssignedTo)
		if request.AssignedTo == nil || *request.AssignedTo != assignee {
			request.AssignedTo = &assignee
			request.AppendHistory(
				HistoryAssignment,
				fmt.Sprintf("Assigned to %s", assignee),
				map[string]any{"assignedTo": assignee},
				mc.now(),
			)
		}
	}
	if req.AssignedToContact != nil {
		request.AssignedToContact = datatypes.NewJSONType(*req.AssignedToContact)
	}

	// A status arriving through a bulk update still runs the full
	// status machine, but unlike SetStatus it only records history
	// when the value actually changes.
	if req.Status != nil {
		newStatus := MaintenanceStatus(*req.Status)
		if !newStatus.Valid() {
			return nil, log.ErrorWithType(controllers.ErrValidation, "unknown status")
		}
		if newStatus != request.Status {
			mc.applyStatusChange(request, newStatus)
		}
	}

	err = mc.transaction.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
		return mc.maintenanceRepo.Update(ctx, tx, request)
	})
	if err != nil {
		return nil, log.Err("failed to update maintenance request", err, "requestID", id)
	}

	log.Info("Maintenance request updated", "requestID", id)

	mc.publish(events.MAINTENANCE_UPDATED, request, nil)

	return request, nil
}

func (mc *MaintenanceController) SetStatus(
	ctx context.Context,
	callerID uuid.UUID,
	id uuid.UUID,
	status string,
) (*MaintenanceRequest, error) {
	log := mc.log.Function("SetStatus")

	newStatus := MaintenanceStatus(status)
	if !newStatus.Valid() {
		return nil, log.ErrorWithType(controllers.ErrValidation, "unknown status")
	}

	request, err := mc.getForParty(ctx, callerID, id, log)
	if err != nil {
		return nil, err
	}

	mc.applyStatusChange(request, newStatus)

	err = mc.transaction.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
		return mc.maintenanceRepo.Update(ctx, tx, request)
	})
	if err != nil {
		return nil, log.Err("failed to update maintenance request status", err, "requestID", id)
	}

	log.Info("Maintenance request status updated", "requestID", id, "status", newStatus)

	mc.publish(events.MAINTENANCE_STATUS, request, map[string]any{
		"status":   request.Status,
		"progress": request.Progress,
	})

	return request, nil
}

func (mc *MaintenanceController) Assign(
	ctx context.Context,
	callerID uuid.UUID,
	id uuid.UUID,
	req AssignRequest,
) (*MaintenanceRequest, error) {
	log := mc.log.Function("Assign")

	if strings.TrimSpace(req.AssignedTo) == "" {
		return nil, log.ErrorWithType(controllers.ErrValidation, "assignee name is required")
	}

	request, err := mc.getRequest(ctx, id, log)
	if err != nil {
		return nil, err
	}

	// Only the landlord assigns providers.
	if err := ownership.RequireOwner(&callerID, request.LandlordID, "maintenance request"); err != nil {
		return nil, err
	}

	assignee := strings.TrimSpace(req.AssignedTo)
	request.AssignedTo = &assignee
	request.AssignedToContact = datatypes.NewJSONType(req.Contact)
	if req.ScheduledDate != nil {
		request.ScheduledDate = req.ScheduledDate
	}

	// Every assignment gets a history entry, re-assignment to the same
	// provider included.
	request.AppendHistory(
		HistoryAssignment,
		fmt.Sprintf("Assigned to %s", assignee),
		map[string]any{"assignedTo": assignee},
		mc.now(),
	)

	err = mc.transaction.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
		return mc.maintenanceRepo.Update(ctx, tx, request)
	})
	if err != nil {
		return nil, log.Err("failed to assign maintenance request", err, "requestID", id)
	}

	log.Info("Maintenance request assigned", "requestID", id, "assignedTo", assignee)

	mc.publish(events.MAINTENANCE_ASSIGNED, request, map[string]any{"assignedTo": assignee})

	return request, nil
}

func (mc *MaintenanceController) AddComment(
	ctx context.Context,
	callerID uuid.UUID,
	id uuid.UUID,
	req CommentRequest,
) (*MaintenanceRequest, error) {
	log := mc.log.Function("AddComment")

	if strings.TrimSpace(req.Text) == "" {
		return nil, log.ErrorWithType(controllers.ErrValidation, "comment text is required")
	}

	request, err := mc.getForParty(ctx, callerID, id, log)
	if err != nil {
		return nil, err
	}

	author, err := mc.userRepo.GetByID(ctx, callerID)
	if err != nil {
		return nil, log.Err("failed to get comment author", err, "userID", callerID)
	}

	now := mc.now()
	authorID := author.ID
	request.AppendComment(Comment{
		Author:      author.Name,
		AuthorID:    &authorID,
		Text:        strings.TrimSpace(req.Text),
		Timestamp:   now,
		Attachments: req.Attachments,
	})
	request.AppendHistory(
		HistoryComment,
		fmt.Sprintf("Comment added by %s", author.Name),
		nil,
		now,
	)

	err = mc.transaction.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
		return mc.maintenanceRepo.Update(ctx, tx, request)
	})
	if err != nil {
		return nil, log.Err("failed to add comment", err, "requestID", id)
	}

	log.Info("Comment added", "requestID", id, "author", author.Name)

	mc.publish(events.MAINTENANCE_COMMENT, request, map[string]any{"author": author.Name})

	return request, nil
}

func (mc *MaintenanceController) AddAttachments(
	ctx context.Context,
	callerID uuid.UUID,
	id uuid.UUID,
	req AttachmentRequest,
) (*MaintenanceRequest, error) {
	log := mc.log.Function("AddAttachments")

	if len(req.Attachments) == 0 {
		return nil, log.ErrorWithType(controllers.ErrValidation, "at least one attachment is required")
	}
	for _, attachment := range req.Attachments {
		if attachment.Name == "" || attachment.URL == "" {
			return nil, log.ErrorWithType(controllers.ErrValidation, "attachment name and url are required")
		}
	}

	request, err := mc.getForParty(ctx, callerID, id, log)
	if err != nil {
		return nil, err
	}

	now := mc.now()
	request.Attachments = append(request.Attachments, req.Attachments...)
	request.AppendHistory(
		HistoryUpdate,
		fmt.Sprintf("%d attachment(s) added", len(req.Attachments)),
		map[string]any{"count": len(req.Attachments)},
		now,
	)

	err = mc.transaction.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
		return mc.maintenanceRepo.Update(ctx, tx, request)
	})
	if err != nil {
		return nil, log.Err("failed to add attachments", err, "requestID", id)
	}

	log.Info("Attachments added", "requestID", id, "count", len(req.Attachments))

	mc.publish(events.MAINTENANCE_UPDATED, request, map[string]any{"attachments": len(req.Attachments)})

	return request, nil
}

func (mc *MaintenanceController) Delete(ctx context.Context, callerID uuid.UUID, id uuid.UUID) error {
	log := mc.log.Function("Delete")

	if _, err := mc.getForParty(ctx, callerID, id, log); err != nil {
		return err
	}

	err := mc.transaction.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
		return mc.maintenanceRepo.Delete(ctx, tx, id)
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return log.ErrorWithType(controllers.ErrNotFound, "maintenance request not found")
		}
		return log.Err("failed to delete maintenance request", err, "requestID", id)
	}

	log.Info("Maintenance request deleted", "requestID", id)

	return nil
}

func (mc *MaintenanceController) ListForLandlord(
	ctx context.Context,
	landlordID uuid.UUID,
	filters repositories.MaintenanceFilters,
	sort repositories.MaintenanceSort,
) ([]*MaintenanceRequest, error) {
	log := mc.log.Function("ListForLandlord")

	if err := validateFilters(filters); err != nil {
		return nil, log.ErrorWithType(controllers.ErrValidation, err.Error())
	}

	requests, err := mc.maintenanceRepo.ListByLandlord(ctx, landlordID, filters, sort)
	if err != nil {
		return nil, log.Err("failed to list maintenance requests", err, "landlordID", landlordID)
	}

	return requests, nil
}

func (mc *MaintenanceController) ListForTenant(
	ctx context.Context,
	tenantID uuid.UUID,
	filters repositories.MaintenanceFilters,
	sort repositories.MaintenanceSort,
) ([]*MaintenanceRequest, error) {
	log := mc.log.Function("ListForTenant")

	if err := validateFilters(filters); err != nil {
		return nil, log.ErrorWithType(controllers.ErrValidation, err.Error())
	}

	requests, err := mc.maintenanceRepo.ListByTenant(ctx, tenantID, filters, sort)
	if err != nil {
		return nil, log.Err("failed to list maintenance requests", err, "tenantID", tenantID)
	}

	return requests, nil
}

func (mc *MaintenanceController) ListForProperty(
	ctx context.Context,
	callerID uuid.UUID,
	propertyID uuid.UUID,
) ([]*MaintenanceRequest, error) {
	log := mc.log.Function("ListForProperty")

	property, err := mc.propertyRepo.GetByID(ctx, propertyID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, log.ErrorWithType(controllers.ErrNotFound, "property not found")
		}
		return nil, log.Err("failed to get property", err, "propertyID", propertyID)
	}

	if err := ownership.RequireOwner(&callerID, property.PostedBy, "property"); err != nil {
		return nil, err
	}

	requests, err := mc.maintenanceRepo.ListByProperty(ctx, propertyID)
	if err != nil {
		return nil, log.Err("failed to list maintenance requests", err, "propertyID", propertyID)
	}

	return requests, nil
}

func (mc *MaintenanceController) Stats(
	ctx context.Context,
	landlordID uuid.UUID,
) (*repositories.MaintenanceStats, error) {
	log := mc.log.Function("Stats")

	stats, err := mc.maintenanceRepo.Stats(ctx, landlordID)
	if err != nil {
		return nil, log.Err("failed to compute maintenance stats", err, "landlordID", landlordID)
	}

	stats.CompletionRate = completionRate(stats.Completed, stats.Total)

	return stats, nil
}

// applyStatusChange runs the status machine and records history. The
// entry is written even when the status does not actually change, so
// the trail shows every time someone pressed the button.
func (mc *MaintenanceController) applyStatusChange(
	request *MaintenanceRequest,
	newStatus MaintenanceStatus,
) {
	now := mc.now()
	previous := request.Status

	request.ApplyStatus(newStatus, now)
	request.AppendHistory(
		HistoryStatus,
		fmt.Sprintf("Status changed from %s to %s", previous, newStatus),
		map[string]any{"from": previous, "to": newStatus},
		now,
	)
}

func (mc *MaintenanceController) getRequest(
	ctx context.Context,
	id uuid.UUID,
	log logger.Logger,
) (*MaintenanceRequest, error) {
	request, err := mc.maintenanceRepo.GetByID(ctx, mc.db.SQL, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, log.ErrorWithType(controllers.ErrNotFound, "maintenance request not found")
		}
		return nil, log.Err("failed to get maintenance request", err, "requestID", id)
	}

	return request, nil
}

// getForParty loads the request and allows only the landlord or the
// tenant on it.
func (mc *MaintenanceController) getForParty(
	ctx context.Context,
	callerID uuid.UUID,
	id uuid.UUID,
	log logger.Logger,
) (*MaintenanceRequest, error) {
	request, err := mc.getRequest(ctx, id, log)
	if err != nil {
		return nil, err
	}

	if err := ownership.RequireParty(&callerID, "maintenance request", request.LandlordID, request.TenantID); err != nil {
		return nil, err
	}

	return request, nil
}

func (mc *MaintenanceController) publish(
	eventType events.MessageType,
	request *MaintenanceRequest,
	data map[string]any,
) {
	if mc.eventBus == nil {
		return
	}

	if data == nil {
		data = map[string]any{}
	}
	data["propertyId"] = request.PropertyID.String()
	data["landlordId"] = request.LandlordID.String()
	data["tenantId"] = request.TenantID.String()

	if err := mc.eventBus.PublishMaintenanceEvent(eventType, request.ID, nil, data); err != nil {
		mc.log.Warn("failed to publish maintenance event", "requestID", request.ID, "error", err)
	}
}

func validateFilters(filters repositories.MaintenanceFilters) error {
	if filters.Status != "" && filters.Status != repositories.FilterAll {
		if !MaintenanceStatus(filters.Status).Valid() {
			return fmt.Errorf("unknown status filter %q", filters.Status)
		}
	}
	if filters.Priority != "" && filters.Priority != repositories.FilterAll {
		if !MaintenancePriority(filters.Priority).Valid() {
			return fmt.Errorf("unknown priority filter %q", filters.Priority)
		}
	}
	if filters.Property != "" && filters.Property != repositories.FilterAll {
		if _, err := uuid.Parse(filters.Property); err != nil {
			return fmt.Errorf("property filter is not a valid id")
		}
	}
	return nil
}

func completionRate(completed, total int64) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(completed) / float64(total) * 100))
}
