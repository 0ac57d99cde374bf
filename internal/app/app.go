package app

import (
	"context"

	"rentdesk/config"
	"rentdesk/internal/database"
	"rentdesk/internal/events"
	"rentdesk/internal/handlers/middleware"
	"rentdesk/internal/jobs"
	"rentdesk/internal/logger"
	"rentdesk/internal/repositories"
	"rentdesk/internal/services"
	"rentdesk/internal/websockets"

	authController "rentdesk/internal/controllers/auth"
	favoriteController "rentdesk/internal/controllers/favorites"
	inquiryController "rentdesk/internal/controllers/inquiries"
	maintenanceController "rentdesk/internal/controllers/maintenance"
	propertyController "rentdesk/internal/controllers/properties"
	userController "rentdesk/internal/controllers/users"
)

type App struct {
	Database   database.DB
	Middleware middleware.Middleware
	Websocket  *websockets.Manager
	EventBus   *events.EventBus
	Config     config.Config

	// Services
	Services services.Service

	// Repositories
	Repos repositories.Repository

	// Controllers
	AuthController        authController.AuthControllerInterface
	UserController        userController.UserControllerInterface
	PropertyController    propertyController.PropertyControllerInterface
	FavoriteController    favoriteController.FavoriteControllerInterface
	InquiryController     inquiryController.InquiryControllerInterface
	MaintenanceController maintenanceController.MaintenanceControllerInterface
}

func New() (*App, error) {
	log := logger.New("app").Function("New")

	config, err := config.InitConfig()
	if err != nil {
		return &App{}, log.Err("failed to initialize config", err)
	}

	db, err := database.New(config)
	if err != nil {
		return &App{}, log.Err("failed to create database", err)
	}

	if err := db.MigrateModels(); err != nil {
		return &App{}, log.Err("failed to migrate schema", err)
	}
	if err := db.CreateIndexes(); err != nil {
		return &App{}, log.Err("failed to create indexes", err)
	}

	eventBus := events.New(db.Cache.Events, config)

	repos := repositories.New(db)

	allServices, err := services.New(db, config)
	if err != nil {
		return &App{}, log.Err("failed to create services", err)
	}

	websocket, err := websockets.New(db, eventBus, allServices.Token, config)
	if err != nil {
		return &App{}, log.Err("failed to create websocket manager", err)
	}

	middleware := middleware.New(db, eventBus, config, repos)

	authController := authController.New(repos, allServices, db)
	userController := userController.New(repos, allServices, db)
	propertyController := propertyController.New(repos, allServices, db)
	favoriteController := favoriteController.New(repos, allServices, db)
	inquiryController := inquiryController.New(repos, allServices, db)
	maintenanceController := maintenanceController.New(repos, allServices, eventBus, db)

	if config.SchedulerEnabled {
		// Escalation sweep runs at 2:00 AM UTC daily.
		escalationJob := jobs.NewEmergencyEscalationJob(
			repos.Maintenance,
			allServices.Transaction,
			eventBus,
			db,
			services.Daily,
		)
		if err := allServices.Scheduler.AddJob(escalationJob); err != nil {
			return &App{}, log.Err("failed to register emergency escalation job", err)
		}
		log.Info("Registered emergency escalation job with scheduler")
	}

	app := &App{
		Database:              db,
		Config:                config,
		Middleware:            middleware,
		Websocket:             websocket,
		EventBus:              eventBus,
		Services:              allServices,
		Repos:                 repos,
		AuthController:        authController,
		UserController:        userController,
		PropertyController:    propertyController,
		FavoriteController:    favoriteController,
		InquiryController:     inquiryController,
		MaintenanceController: maintenanceController,
	}

	if err := app.validate(); err != nil {
		return &App{}, log.Err("failed to validate app", err)
	}

	return app, nil
}

func (a *App) validate() error {
	log := logger.New("app").Function("validate")
	if a.Database.SQL == nil {
		return log.ErrMsg("database is nil")
	}

	if a.Config == (config.Config{}) {
		return log.ErrMsg("config is nil")
	}

	nilChecks := []any{
		a.Websocket,
		a.EventBus,
		a.Services.Transaction,
		a.Services.Token,
		a.Services.Credential,
		a.Services.Scheduler,
		a.Repos.User,
		a.Repos.Property,
		a.Repos.Favorite,
		a.Repos.Inquiry,
		a.Repos.Maintenance,
		a.AuthController,
		a.UserController,
		a.PropertyController,
		a.FavoriteController,
		a.InquiryController,
		a.MaintenanceController,
	}

	for _, check := range nilChecks {
		if check == nil {
			return log.ErrMsg("nil check failed")
		}
	}

	return nil
}

func (a *App) Close() (err error) {
	if a.EventBus != nil {
		if closeErr := a.EventBus.Close(); closeErr != nil {
			err = closeErr
		}
	}

	if a.Services.Scheduler != nil {
		if closeErr := a.Services.Scheduler.Stop(context.Background()); closeErr != nil {
			err = closeErr
		}
	}

	if dbErr := a.Database.Close(); dbErr != nil {
		err = dbErr
	}

	return err
}

// StartScheduler begins scheduled job execution. Separated from New so
// the server comes up listening before background work starts.
func (a *App) StartScheduler(ctx context.Context) error {
	if !a.Config.SchedulerEnabled {
		return nil
	}
	return a.Services.Scheduler.Start(ctx)
}
