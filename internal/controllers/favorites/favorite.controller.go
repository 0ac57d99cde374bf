package favoriteController

import (
	"context"
	"errors"

	"rentdesk/internal/controllers"
	"rentdesk/internal/database"
	"rentdesk/internal/logger"
	. "rentdesk/internal/models"
	"rentdesk/internal/repositories"
	"rentdesk/internal/services"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type FavoriteController struct {
	favoriteRepo repositories.FavoriteRepository
	propertyRepo repositories.PropertyRepository
	transaction  *services.TransactionService
	db           database.DB
	log          logger.Logger
}

type FavoriteControllerInterface interface {
	List(ctx context.Context, seekerID uuid.UUID) ([]*Property, error)
	Add(ctx context.Context, seekerID uuid.UUID, propertyID uuid.UUID) ([]string, error)
	Remove(ctx context.Context, seekerID uuid.UUID, propertyID uuid.UUID) ([]string, error)
	Check(ctx context.Context, seekerID uuid.UUID, propertyID uuid.UUID) (bool, error)
}

func New(
	repos repositories.Repository,
	services services.Service,
	db database.DB,
) FavoriteControllerInterface {
	return &FavoriteController{
		favoriteRepo: repos.Favorite,
		propertyRepo: repos.Property,
		transaction:  services.Transaction,
		db:           db,
		log:          logger.New("favoriteController"),
	}
}

// List resolves the seeker's favorite ids into properties. Ids whose
// property has since been deleted are skipped rather than failing the
// whole request.
func (fc *FavoriteController) List(ctx context.Context, seekerID uuid.UUID) ([]*Property, error) {
	log := fc.log.Function("List")

	favorite, err := fc.favoriteRepo.GetBySeeker(ctx, seekerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return []*Property{}, nil
		}
		return nil, log.Err("failed to get favorites", err, "seekerID", seekerID)
	}

	properties := make([]*Property, 0, len(favorite.Properties))
	for _, raw := range favorite.Properties {
		propertyID, err := uuid.Parse(raw)
		if err != nil {
			log.Warn("skipping malformed favorite id", "seekerID", seekerID, "value", raw)
			continue
		}

		property, err := fc.propertyRepo.GetByID(ctx, propertyID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				continue
			}
			return nil, log.Err("failed to resolve favorite property", err, "propertyID", propertyID)
		}

		properties = append(properties, property)
	}

	return properties, nil
}

func (fc *FavoriteController) Add(
	ctx context.Context,
	seekerID uuid.UUID,
	propertyID uuid.UUID,
) ([]string, error) {
	log := fc.log.Function("Add")

	if _, err := fc.propertyRepo.GetByID(ctx, propertyID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, log.ErrorWithType(controllers.ErrNotFound, "property not found")
		}
		return nil, log.Err("failed to get property", err, "propertyID", propertyID)
	}

	favorite, err := fc.favoriteRepo.GetBySeeker(ctx, seekerID)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, log.Err("failed to get favorites", err, "seekerID", seekerID)
		}

		// First favorite for this seeker creates the record.
		favorite = &Favorite{Seeker: seekerID}
		favorite.Add(propertyID)

		err = fc.transaction.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
			return fc.favoriteRepo.Create(ctx, tx, favorite)
		})
		if err != nil {
			return nil, log.Err("failed to create favorites record", err, "seekerID", seekerID)
		}

		log.Info("Favorite added", "seekerID", seekerID, "propertyID", propertyID)
		return favorite.Properties, nil
	}

	if favorite.Has(propertyID) {
		return nil, log.ErrorWithType(controllers.ErrConflict, "property is already a favorite")
	}

	favorite.Add(propertyID)

	err = fc.transaction.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
		return fc.favoriteRepo.Update(ctx, tx, favorite)
	})
	if err != nil {
		return nil, log.Err("failed to update favorites", err, "seekerID", seekerID)
	}

	log.Info("Favorite added", "seekerID", seekerID, "propertyID", propertyID)
	return favorite.Properties, nil
}

// Remove is idempotent for a property that is not in the set, but a
// seeker with no favorites record at all gets NotFound.
func (fc *FavoriteController) Remove(
	ctx context.Context,
	seekerID uuid.UUID,
	propertyID uuid.UUID,
) ([]string, error) {
	log := fc.log.Function("Remove")

	favorite, err := fc.favoriteRepo.GetBySeeker(ctx, seekerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, log.ErrorWithType(controllers.ErrNotFound, "no favorites recorded for user")
		}
		return nil, log.Err("failed to get favorites", err, "seekerID", seekerID)
	}

	if !favorite.Has(propertyID) {
		return favorite.Properties, nil
	}

	favorite.Remove(propertyID)

	err = fc.transaction.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
		return fc.favoriteRepo.Update(ctx, tx, favorite)
	})
	if err != nil {
		return nil, log.Err("failed to update favorites", err, "seekerID", seekerID)
	}

	log.Info("Favorite removed", "seekerID", seekerID, "propertyID", propertyID)
	return favorite.Properties, nil
}

func (fc *FavoriteController) Check(
	ctx context.Context,
	seekerID uuid.UUID,
	propertyID uuid.UUID,
) (bool, error) {
	log := fc.log.Function("Check")

	favorite, err := fc.favoriteRepo.GetBySeeker(ctx, seekerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, log.Err("failed to get favorites", err, "seekerID", seekerID)
	}

	return favorite.Has(propertyID), nil
}
