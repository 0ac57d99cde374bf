package handlers

import (
	"rentdesk/internal/app"
	maintenanceController "rentdesk/internal/controllers/maintenance"
	"rentdesk/internal/handlers/middleware"
	"rentdesk/internal/logger"
	"rentdesk/internal/repositories"
	"rentdesk/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type MaintenanceHandler struct {
	Handler
	controller   maintenanceController.MaintenanceControllerInterface
	tokenService *services.TokenService
}

func NewMaintenanceHandler(app app.App, router fiber.Router) *MaintenanceHandler {
	log := logger.New("handlers").File("maintenance_handler")
	return &MaintenanceHandler{
		controller:   app.MaintenanceController,
		tokenService: app.Services.Token,
		Handler: Handler{
			log:        log,
			router:     router,
			middleware: app.Middleware,
		},
	}
}

func (h *MaintenanceHandler) Register() {
	maintenance := h.router.Group("/maintenance", h.middleware.RequireAuth(h.tokenService))

	maintenance.Post("/", h.create)
	maintenance.Get("/mine", h.listMine)

	landlord := maintenance.Group("/", h.middleware.RequireLandlord())
	landlord.Get("/received", h.listReceived)
	landlord.Get("/stats", h.stats)
	landlord.Get("/property/:propertyId", h.listForProperty)

	maintenance.Get("/:id", h.get)
	maintenance.Patch("/:id", h.update)
	maintenance.Patch("/:id/status", h.setStatus)
	maintenance.Post("/:id/assign", h.assign)
	maintenance.Post("/:id/comments", h.addComment)
	maintenance.Post("/:id/attachments", h.addAttachments)
	maintenance.Delete("/:id", h.delete)
}

func parseFilters(c *fiber.Ctx) (repositories.MaintenanceFilters, repositories.MaintenanceSort) {
	filters := repositories.MaintenanceFilters{
		Status:   c.Query("status"),
		Priority: c.Query("priority"),
		Property: c.Query("property"),
	}
	sort := repositories.MaintenanceSort{
		Field:     c.Query("sortBy"),
		Direction: c.Query("sortDir"),
	}
	return filters, sort
}

func (h *MaintenanceHandler) requestID(c *fiber.Ctx) (uuid.UUID, error) {
	return uuid.Parse(c.Params("id"))
}

func (h *MaintenanceHandler) create(c *fiber.Ctx) error {
	user := middleware.GetUser(c)
	if user == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Authentication required",
		})
	}

	var req maintenanceController.CreateRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	request, err := h.controller.Create(c.UserContext(), user.ID, req)
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"request": request})
}

func (h *MaintenanceHandler) get(c *fiber.Ctx) error {
	user := middleware.GetUser(c)
	if user == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Authentication required",
		})
	}

	id, err := h.requestID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request id",
		})
	}

	request, err := h.controller.Get(c.UserContext(), user.ID, id)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{"request": request})
}

func (h *MaintenanceHandler) listMine(c *fiber.Ctx) error {
	user := middleware.GetUser(c)
	if user == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Authentication required",
		})
	}

	filters, sort := parseFilters(c)

	requests, err := h.controller.ListForTenant(c.UserContext(), user.ID, filters, sort)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{"requests": requests})
}

func (h *MaintenanceHandler) listReceived(c *fiber.Ctx) error {
	user := middleware.GetUser(c)
	if user == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Authentication required",
		})
	}

	filters, sort := parseFilters(c)

	requests, err := h.controller.ListForLandlord(c.UserContext(), user.ID, filters, sort)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{"requests": requests})
}

func (h *MaintenanceHandler) listForProperty(c *fiber.Ctx) error {
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

	requests, err := h.controller.ListForProperty(c.UserContext(), user.ID, propertyID)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{"requests": requests})
}

func (h *MaintenanceHandler) stats(c *fiber.Ctx) error {
	user := middleware.GetUser(c)
	if user == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Authentication required",
		})
	}

	stats, err := h.controller.Stats(c.UserContext(), user.ID)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{"stats": stats})
}

func (h *MaintenanceHandler) update(c *fiber.Ctx) error {
	user := middleware.GetUser(c)
	if user == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Authentication required",
		})
	}

	id, err := h.requestID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request id",
		})
	}

	var req maintenanceController.UpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	request, err := h.controller.UpdateFields(c.UserContext(), user.ID, id, req)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{"request": request})
}

func (h *MaintenanceHandler) setStatus(c *fiber.Ctx) error {
	user := middleware.GetUser(c)
	if user == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Authentication required",
		})
	}

	id, err := h.requestID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request id",
		})
	}

	var req struct {
		Status string `json:"status"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	request, err := h.controller.SetStatus(c.UserContext(), user.ID, id, req.Status)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{"request": request})
}

func (h *MaintenanceHandler) assign(c *fiber.Ctx) error {
	user := middleware.GetUser(c)
	if user == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Authentication required",
		})
	}

	id, err := h.requestID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request id",
		})
	}

	var req maintenanceController.AssignRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	request, err := h.controller.Assign(c.UserContext(), user.ID, id, req)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{"request": request})
}

func (h *MaintenanceHandler) addComment(c *fiber.Ctx) error {
	user := middleware.GetUser(c)
	if user == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Authentication required",
		})
	}

	id, err := h.requestID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request id",
		})
	}

	var req maintenanceController.CommentRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	request, err := h.controller.AddComment(c.UserContext(), user.ID, id, req)
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"request": request})
}

func (h *MaintenanceHandler) addAttachments(c *fiber.Ctx) error {
	user := middleware.GetUser(c)
	if user == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Authentication required",
		})
	}

	id, err := h.requestID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request id",
		})
	}

	var req maintenanceController.AttachmentRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	request, err := h.controller.AddAttachments(c.UserContext(), user.ID, id, req)
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"request": request})
}

func (h *MaintenanceHandler) delete(c *fiber.Ctx) error {
	user := middleware.GetUser(c)
	if user == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Authentication required",
		})
	}

	id, err := h.requestID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request id",
		})
	}

	if err := h.controller.Delete(c.UserContext(), user.ID, id); err != nil {
		return respondError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}
