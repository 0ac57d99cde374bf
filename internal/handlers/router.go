package handlers

import (
	"rentdesk/internal/app"
	"rentdesk/internal/handlers/middleware"
	"rentdesk/internal/logger"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

type Handler struct {
	middleware middleware.Middleware
	log        logger.Logger
	router     fiber.Router
}

func Router(router fiber.Router, application *app.App) error {
	mountWebsocket(router, application)

	api := router.Group("/api")
	HealthHandler(api, application.Config)

	NewAuthHandler(*application, api).Register()
	NewUserHandler(*application, api).Register()
	NewPropertyHandler(*application, api).Register()
	NewFavoriteHandler(*application, api).Register()
	NewInquiryHandler(*application, api).Register()
	NewMaintenanceHandler(*application, api).Register()

	return nil
}

// mountWebsocket upgrades /ws connections and hands them to the websocket
// manager. Non-upgrade requests to the path are rejected outright.
func mountWebsocket(router fiber.Router, application *app.App) {
	router.Use("/ws", func(c *fiber.Ctx) error {
		if !websocket.IsWebSocketUpgrade(c) {
			return fiber.ErrUpgradeRequired
		}
		c.Locals("allowed", true)
		return c.Next()
	})
	router.Get("/ws", websocket.New(func(c *websocket.Conn) {
		application.Websocket.HandleWebSocket(c)
	}))
}
