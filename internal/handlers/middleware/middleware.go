// Package middleware holds the request middleware shared across handler
// groups, mainly authentication and trace ids.
package middleware

import (
	"rentdesk/config"
	"rentdesk/internal/database"
	"rentdesk/internal/events"
	"rentdesk/internal/repositories"

	logger "github.com/Bparsons0904/goLogger"
)

type Middleware struct {
	DB       database.DB
	userRepo repositories.UserRepository
	Config   config.Config
	log      logger.Logger
	eventBus *events.EventBus
}

func New(
	db database.DB,
	eventBus *events.EventBus,
	cfg config.Config,
	repos repositories.Repository,
) Middleware {
	return Middleware{
		DB:       db,
		userRepo: repos.User,
		Config:   cfg,
		log:      logger.New("middleware"),
		eventBus: eventBus,
	}
}
