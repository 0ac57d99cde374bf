package inquiryController

import (
	"context"
	"errors"
	"strings"

	"rentdesk/internal/controllers"
	"rentdesk/internal/database"
	"rentdesk/internal/logger"
	. "rentdesk/internal/models"
	"rentdesk/internal/repositories"
	"rentdesk/internal/services"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type InquiryController struct {
	inquiryRepo  repositories.InquiryRepository
	propertyRepo repositories.PropertyRepository
	transaction  *services.TransactionService
	db           database.DB
	log          logger.Logger
}

type InquiryControllerInterface interface {
	Create(ctx context.Context, seekerID uuid.UUID, req CreateInquiryRequest) (*Inquiry, error)
	ListMine(ctx context.Context, seekerID uuid.UUID) ([]*Inquiry, error)
	ListReceived(ctx context.Context, landlordID uuid.UUID) ([]*Inquiry, error)
	ListTenants(ctx context.Context, landlordID uuid.UUID) ([]*TenantSummary, error)
}

type CreateInquiryRequest struct {
	PropertyID  uuid.UUID `json:"property"`
	Message     string    `json:"message"`
	ContactTime string    `json:"contactTime"`
}

func New(
	repos repositories.Repository,
	services services.Service,
	db database.DB,
) InquiryControllerInterface {
	return &InquiryController{
		inquiryRepo:  repos.Inquiry,
		propertyRepo: repos.Property,
		transaction:  services.Transaction,
		db:           db,
		log:          logger.New("inquiryController"),
	}
}

func (ic *InquiryController) Create(
	ctx context.Context,
	seekerID uuid.UUID,
	req CreateInquiryRequest,
) (*Inquiry, error) {
	log := ic.log.Function("Create")

	if req.PropertyID == uuid.Nil {
		return nil, log.ErrorWithType(controllers.ErrValidation, "property id is required")
	}
	if strings.TrimSpace(req.Message) == "" {
		return nil, log.ErrorWithType(controllers.ErrValidation, "message is required")
	}

	property, err := ic.propertyRepo.GetByID(ctx, req.PropertyID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, log.ErrorWithType(controllers.ErrNotFound, "property not found")
		}
		return nil, log.Err("failed to get property", err, "propertyID", req.PropertyID)
	}

	if property.PostedBy == seekerID {
		return nil, log.ErrorWithType(controllers.ErrValidation, "cannot inquire about your own property")
	}

	inquiry := &Inquiry{
		PropertyID:  req.PropertyID,
		SeekerID:    seekerID,
		Message:     strings.TrimSpace(req.Message),
		ContactTime: req.ContactTime,
	}

	err = ic.transaction.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
		return ic.inquiryRepo.Create(ctx, tx, inquiry)
	})
	if err != nil {
		return nil, log.Err("failed to create inquiry", err, "propertyID", req.PropertyID)
	}

	log.Info("Inquiry created", "inquiryID", inquiry.ID, "propertyID", req.PropertyID)

	return inquiry, nil
}

func (ic *InquiryController) ListMine(ctx context.Context, seekerID uuid.UUID) ([]*Inquiry, error) {
	log := ic.log.Function("ListMine")

	inquiries, err := ic.inquiryRepo.ListBySeeker(ctx, seekerID)
	if err != nil {
		return nil, log.Err("failed to list inquiries", err, "seekerID", seekerID)
	}

	return inquiries, nil
}

func (ic *InquiryController) ListReceived(
	ctx context.Context,
	landlordID uuid.UUID,
) ([]*Inquiry, error) {
	log := ic.log.Function("ListReceived")

	inquiries, err := ic.inquiryRepo.ListByLandlord(ctx, landlordID)
	if err != nil {
		return nil, log.Err("failed to list received inquiries", err, "landlordID", landlordID)
	}

	return inquiries, nil
}

func (ic *InquiryController) ListTenants(
	ctx context.Context,
	landlordID uuid.UUID,
) ([]*TenantSummary, error) {
	log := ic.log.Function("ListTenants")

	tenants, err := ic.inquiryRepo.ListTenantsByLandlord(ctx, landlordID)
	if err != nil {
		return nil, log.Err("failed to list tenants", err, "landlordID", landlordID)
	}

	return tenants, nil
}
