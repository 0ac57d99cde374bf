package repositories

import (
	"rentdesk/internal/database"
)

type Repository struct {
	User        UserRepository
	Property    PropertyRepository
	Favorite    FavoriteRepository
	Inquiry     InquiryRepository
	Maintenance MaintenanceRepository
}

func New(db database.DB) Repository {
	return Repository{
		User:        NewUserRepository(db),     // cache-first reads
		Property:    NewPropertyRepository(db), // cache-first reads
		Favorite:    NewFavoriteRepository(db),
		Inquiry:     NewInquiryRepository(db),
		Maintenance: NewMaintenanceRepository(db),
	}
}
