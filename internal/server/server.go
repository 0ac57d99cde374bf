package server

import (
	"fmt"
	"time"

	"rentdesk/internal/app"
	"rentdesk/internal/handlers"
	"rentdesk/internal/logger"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberLogs "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/helmet/v2"
)

type AppServer struct {
	FiberApp *fiber.App
	log      logger.Logger
}

func New(application *app.App) (*AppServer, error) {
	log := logger.New("server").Function("New")

	dev := application.Config.Environment == "development"
	fiberApp := fiber.New(fiberConfig(application, dev))

	registerMiddleware(fiberApp, application)

	if err := handlers.Router(fiberApp, application); err != nil {
		return nil, log.Err("failed to register routes", err)
	}

	log.Info("Server initialized", "development", dev)
	return &AppServer{FiberApp: fiberApp, log: log}, nil
}

func fiberConfig(application *app.App, dev bool) fiber.Config {
	return fiber.Config{
		ServerHeader:             fmt.Sprintf("RentDesk/%s", application.Config.GeneralVersion),
		AppName:                  "rentdesk_server",
		BodyLimit:                10 * 1024 * 1024,
		ReadBufferSize:           16384,
		WriteBufferSize:          16384,
		EnableSplittingOnParsers: true,
		EnableTrustedProxyCheck:  true,
		ReadTimeout:              30 * time.Second,
		WriteTimeout:             30 * time.Second,
		IdleTimeout:              120 * time.Second,
		DisableStartupMessage:    !dev,
		EnablePrintRoutes:        dev,
	}
}

func registerMiddleware(fiberApp *fiber.App, application *app.App) {
	fiberApp.Use(cors.New(cors.Config{
		AllowOrigins:     application.Config.CorsAllowOrigins,
		AllowMethods:     "GET, POST, PUT, PATCH, DELETE, OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, X-Response-Type, Upgrade, Connection, X-Client-Type",
		AllowCredentials: true,
		MaxAge:           300,
		ExposeHeaders:    "Upgrade, X-Auth-Token",
	}))

	fiberApp.Use(fiberLogs.New())
	fiberApp.Use(compress.New())

	fiberApp.Use(helmet.New(helmet.Config{
		XSSProtection:             "1; mode=block",
		ContentTypeNosniff:        "nosniff",
		XFrameOptions:             "DENY",
		ReferrerPolicy:            "strict-origin-when-cross-origin",
		CrossOriginEmbedderPolicy: "require-corp",
		CrossOriginOpenerPolicy:   "same-origin",
		CrossOriginResourcePolicy: "same-origin",
		OriginAgentCluster:        "?1",
		XDNSPrefetchControl:       "off",
		XDownloadOptions:          "noopen",
		XPermittedCrossDomain:     "none",
	}))
}

func (s *AppServer) Listen(port int) error {
	log := s.log.Function("Listen")
	if port <= 0 {
		return log.Error("invalid listen port", "port", port)
	}

	log.Info("Starting server", "port", port)
	return s.FiberApp.Listen(fmt.Sprintf(":%d", port))
}
