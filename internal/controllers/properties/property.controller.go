package propertyController

import (
	"context"
	"errors"
	"strings"

	"rentdesk/internal/controllers"
	"rentdesk/internal/controllers/ownership"
	"rentdesk/internal/database"
	"rentdesk/internal/logger"
	. "rentdesk/internal/models"
	"rentdesk/internal/repositories"
	"rentdesk/internal/services"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type PropertyController struct {
	propertyRepo repositories.PropertyRepository
	transaction  *services.TransactionService
	db           database.DB
	log          logger.Logger
}

type PropertyControllerInterface interface {
	Get(ctx context.Context, id uuid.UUID) (*Property, error)
	List(ctx context.Context, filter repositories.PropertyFilter) ([]*Property, error)
	ListMine(ctx context.Context, landlordID uuid.UUID) ([]*Property, error)
	Create(ctx context.Context, callerID uuid.UUID, req PropertyRequest) (*Property, error)
	Update(ctx context.Context, callerID uuid.UUID, id uuid.UUID, req PropertyRequest) (*Property, error)
	SetStatus(ctx context.Context, callerID uuid.UUID, id uuid.UUID, status string) (*Property, error)
	Delete(ctx context.Context, callerID uuid.UUID, id uuid.UUID) error
}

// PropertyRequest is shared by create and update. PostedBy never appears
// here: it is always taken from the authenticated caller.
type PropertyRequest struct {
	Title        string           `json:"title"`
	Description  string           `json:"description"`
	Address      Address          `json:"address"`
	Location     GeoPoint         `json:"location"`
	Price        decimal.Decimal  `json:"price"`
	PropertyType string           `json:"propertyType"`
	Bedrooms     int              `json:"bedrooms"`
	Bathrooms    int              `json:"bathrooms"`
	Area         float64          `json:"area"`
	Images       []string         `json:"images"`
	Amenities    []string         `json:"amenities"`
	Contact      PropertyContact  `json:"contact"`
	Policies     PropertyPolicies `json:"policies"`
}

func New(
	repos repositories.Repository,
	services services.Service,
	db database.DB,
) PropertyControllerInterface {
	return &PropertyController{
		propertyRepo: repos.Property,
		transaction:  services.Transaction,
		db:           db,
		log:          logger.New("propertyController"),
	}
}

func (pc *PropertyController) Get(ctx context.Context, id uuid.UUID) (*Property, error) {
	log := pc.log.Function("Get")

	property, err := pc.propertyRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, log.ErrorWithType(controllers.ErrNotFound, "property not found")
		}
		return nil, log.Err("failed to get property", err, "propertyID", id)
	}

	return property, nil
}

func (pc *PropertyController) List(
	ctx context.Context,
	filter repositories.PropertyFilter,
) ([]*Property, error) {
	log := pc.log.Function("List")

	if filter.Status != "" && !filter.Status.Valid() {
		return nil, log.ErrorWithType(controllers.ErrValidation, "unknown property status filter")
	}

	properties, err := pc.propertyRepo.List(ctx, filter)
	if err != nil {
		return nil, log.Err("failed to list properties", err)
	}

	return properties, nil
}

func (pc *PropertyController) ListMine(
	ctx context.Context,
	landlordID uuid.UUID,
) ([]*Property, error) {
	log := pc.log.Function("ListMine")

	properties, err := pc.propertyRepo.ListByLandlord(ctx, landlordID)
	if err != nil {
		return nil, log.Err("failed to list landlord properties", err, "landlordID", landlordID)
	}

	return properties, nil
}

func (pc *PropertyController) Create(
	ctx context.Context,
	callerID uuid.UUID,
	req PropertyRequest,
) (*Property, error) {
	log := pc.log.Function("Create")

	if strings.TrimSpace(req.Title) == "" {
		return nil, log.ErrorWithType(controllers.ErrValidation, "title is required")
	}
	if req.Price.IsNegative() {
		return nil, log.ErrorWithType(controllers.ErrValidation, "price cannot be negative")
	}

	property := &Property{
		Title:        strings.TrimSpace(req.Title),
		Description:  req.Description,
		Address:      datatypes.NewJSONType(req.Address),
		Location:     datatypes.NewJSONType(req.Location),
		Price:        req.Price,
		PropertyType: req.PropertyType,
		Bedrooms:     req.Bedrooms,
		Bathrooms:    req.Bathrooms,
		Area:         req.Area,
		Images:       datatypes.NewJSONSlice(req.Images),
		Amenities:    datatypes.NewJSONSlice(req.Amenities),
		Contact:      datatypes.NewJSONType(req.Contact),
		Policies:     datatypes.NewJSONType(req.Policies),
		PostedBy:     callerID,
	}

	err := pc.transaction.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
		return pc.propertyRepo.Create(ctx, tx, property)
	})
	if err != nil {
		return nil, log.Err("failed to create property", err, "callerID", callerID)
	}

	log.Info("Property created", "propertyID", property.ID, "landlordID", callerID)

	return property, nil
}

func (pc *PropertyController) Update(
	ctx context.Context,
	callerID uuid.UUID,
	id uuid.UUID,
	req PropertyRequest,
) (*Property, error) {
	log := pc.log.Function("Update")

	property, err := pc.getOwned(ctx, callerID, id, log)
	if err != nil {
		return nil, err
	}

	if strings.TrimSpace(req.Title) == "" {
		return nil, log.ErrorWithType(controllers.ErrValidation, "title is required")
	}
	if req.Price.IsNegative() {
		return nil, log.ErrorWithType(controllers.ErrValidation, "price cannot be negative")
	}

	property.Title = strings.TrimSpace(req.Title)
	property.Description = req.Description
	property.Address = datatypes.NewJSONType(req.Address)
	property.Location = datatypes.NewJSONType(req.Location)
	property.Price = req.Price
	property.PropertyType = req.PropertyType
	property.Bedrooms = req.Bedrooms
	property.Bathrooms = req.Bathrooms
	property.Area = req.Area
	property.Images = datatypes.NewJSONSlice(req.Images)
	property.Amenities = datatypes.NewJSONSlice(req.Amenities)
	property.Contact = datatypes.NewJSONType(req.Contact)
	property.Policies = datatypes.NewJSONType(req.Policies)

	err = pc.transaction.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
		return pc.propertyRepo.Update(ctx, tx, property)
	})
	if err != nil {
		return nil, log.Err("failed to update property", err, "propertyID", id)
	}

	log.Info("Property updated", "propertyID", id)

	return property, nil
}

func (pc *PropertyController) SetStatus(
	ctx context.Context,
	callerID uuid.UUID,
	id uuid.UUID,
	status string,
) (*Property, error) {
	log := pc.log.Function("SetStatus")

	newStatus := PropertyStatus(status)
	if !newStatus.Valid() {
		return nil, log.ErrorWithType(controllers.ErrValidation, "unknown property status")
	}

	property, err := pc.getOwned(ctx, callerID, id, log)
	if err != nil {
		return nil, err
	}

	property.Status = newStatus

	err = pc.transaction.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
		return pc.propertyRepo.Update(ctx, tx, property)
	})
	if err != nil {
		return nil, log.Err("failed to update property status", err, "propertyID", id)
	}

	log.Info("Property status updated", "propertyID", id, "status", newStatus)

	return property, nil
}

func (pc *PropertyController) Delete(ctx context.Context, callerID uuid.UUID, id uuid.UUID) error {
	log := pc.log.Function("Delete")

	if _, err := pc.getOwned(ctx, callerID, id, log); err != nil {
		return err
	}

	err := pc.transaction.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
		return pc.propertyRepo.Delete(ctx, tx, id)
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return log.ErrorWithType(controllers.ErrNotFound, "property not found")
		}
		return log.Err("failed to delete property", err, "propertyID", id)
	}

	log.Info("Property deleted", "propertyID", id)

	return nil
}

// getOwned loads the property and enforces ownership. NotFound comes
// before the ownership check so non-owners still get a 404 for ids that
// never existed.
func (pc *PropertyController) getOwned(
	ctx context.Context,
	callerID uuid.UUID,
	id uuid.UUID,
	log logger.Logger,
) (*Property, error) {
	property, err := pc.propertyRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, log.ErrorWithType(controllers.ErrNotFound, "property not found")
		}
		return nil, log.Err("failed to get property", err, "propertyID", id)
	}

	if err := ownership.RequireOwner(&callerID, property.PostedBy, "property"); err != nil {
		return nil, err
	}

	return property, nil
}
