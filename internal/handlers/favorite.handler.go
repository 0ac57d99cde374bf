package handlers

import (
	"rentdesk/internal/app"
	favoriteController "rentdesk/internal/controllers/favorites"
	"rentdesk/internal/handlers/middleware"
	"rentdesk/internal/logger"
	"rentdesk/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type FavoriteHandler struct {
	Handler
	controller   favoriteController.FavoriteControllerInterface
	tokenService *services.TokenService
}

func NewFavoriteHandler(app app.App, router fiber.Router) *FavoriteHandler {
	log := logger.New("handlers").File("favorite_handler")
	return &FavoriteHandler{
		controller:   app.FavoriteController,
		tokenService: app.Services.Token,
		Handler: Handler{
			log:        log,
			router:     router,
			middleware: app.Middleware,
		},
	}
}

func (h *FavoriteHandler) Register() {
	favorites := h.router.Group("/favorites", h.middleware.RequireAuth(h.tokenService))

	favorites.Get("/", h.list)
	favorites.Post("/:propertyId", h.add)
	favorites.Delete("/:propertyId", h.remove)
	favorites.Get("/:propertyId/check", h.check)
}

func (h *FavoriteHandler) list(c *fiber.Ctx) error {
	user := middleware.GetUser(c)
	if user == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Authentication required",
		})
	}

	properties, err := h.controller.List(c.UserContext(), user.ID)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{"favorites": properties})
}

func (h *FavoriteHandler) add(c *fiber.Ctx) error {
	user := middleware.GetUser(c)
	if user == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Authentication required",
		})
	}

	propertyID, err := uuid.Parse(c.Params("propertyId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid property id",
		})
	}

	favorites, err := h.controller.Add(c.UserContext(), user.ID, propertyID)
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"favorites": favorites})
}

func (h *FavoriteHandler) remove(c *fiber.Ctx) error {
	user := middleware.GetUser(c)
	if user == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Authentication required",
		})
	}

	propertyID, err := uuid.Parse(c.Params("propertyId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid property id",
		})
	}

	favorites, err := h.controller.Remove(c.UserContext(), user.ID, propertyID)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{"favorites": favorites})
}

func (h *FavoriteHandler) check(c *fiber.Ctx) error {
	user := middleware.GetUser(c)
	if user == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Authentication required",
		})
	}

	propertyID, err := uuid.Parse(c.Params("propertyId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid property id",
		})
	}

	favorited, err := h.controller.Check(c.UserContext(), user.ID, propertyID)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{"favorited": favorited})
}
