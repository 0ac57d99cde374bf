package handlers

import (
	"rentdesk/internal/app"
	userController "rentdesk/internal/controllers/users"
	"rentdesk/internal/handlers/middleware"
	"rentdesk/internal/logger"
	"rentdesk/internal/services"

	"github.com/gofiber/fiber/v2"
)

type UserHandler struct {
	Handler
	controller   userController.UserControllerInterface
	tokenService *services.TokenService
}

func NewUserHandler(app app.App, router fiber.Router) *UserHandler {
	log := logger.New("handlers").File("user_handler")
	return &UserHandler{
		controller:   app.UserController,
		tokenService: app.Services.Token,
		Handler: Handler{
			log:        log,
			router:     router,
			middleware: app.Middleware,
		},
	}
}

func (h *UserHandler) Register() {
	users := h.router.Group("/users", h.middleware.RequireAuth(h.tokenService))

	users.Get("/me", h.getProfile)
	users.Patch("/me", h.updateProfile)
}

func (h *UserHandler) getProfile(c *fiber.Ctx) error {
	user := middleware.GetUser(c)
	if user == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Authentication required",
		})
	}

	profile, err := h.controller.GetProfile(c.UserContext(), user.ID)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{"user": profile})
}

func (h *UserHandler) updateProfile(c *fiber.Ctx) error {
	user := middleware.GetUser(c)
	if user == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Authentication required",
		})
	}

	var req userController.UpdateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	profile, err := h.controller.UpdateProfile(c.UserContext(), user.ID, req)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{"user": profile})
}
