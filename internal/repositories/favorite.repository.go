package repositories

import (
	"context"

	"rentdesk/internal/database"
	"rentdesk/internal/logger"
	. "rentdesk/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type FavoriteRepository interface {
	GetBySeeker(ctx context.Context, seekerID uuid.UUID) (*Favorite, error)
	Create(ctx context.Context, tx *gorm.DB, favorite *Favorite) error
	Update(ctx context.Context, tx *gorm.DB, favorite *Favorite) error
}

type favoriteRepository struct {
	db  database.DB
	log logger.Logger
}

func NewFavoriteRepository(db database.DB) FavoriteRepository {
	return &favoriteRepository{
		db:  db,
		log: logger.New("favoriteRepository"),
	}
}

func (r *favoriteRepository) GetBySeeker(
	ctx context.Context,
	seekerID uuid.UUID,
) (*Favorite, error) {
	var favorite Favorite
	if err := r.db.SQLWithContext(ctx).First(&favorite, "seeker = ?", seekerID).Error; err != nil {
		return nil, r.log.Function("GetBySeeker").
			Err("failed to get favorite record", err, "seekerID", seekerID)
	}

	return &favorite, nil
}

func (r *favoriteRepository) Create(ctx context.Context, tx *gorm.DB, favorite *Favorite) error {
	if err := tx.WithContext(ctx).Create(favorite).Error; err != nil {
		return r.log.Function("Create").
			Err("failed to create favorite record", err, "seekerID", favorite.Seeker)
	}

	return nil
}

func (r *favoriteRepository) Update(ctx context.Context, tx *gorm.DB, favorite *Favorite) error {
	if err := tx.WithContext(ctx).Save(favorite).Error; err != nil {
		return r.log.Function("Update").
			Err("failed to update favorite record", err, "seekerID", favorite.Seeker)
	}

	return nil
}
