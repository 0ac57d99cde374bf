package handlers

import (
	"rentdesk/internal/app"
	inquiryController "rentdesk/internal/controllers/inquiries"
	"rentdesk/internal/handlers/middleware"
	"rentdesk/internal/logger"
	"rentdesk/internal/services"

	"github.com/gofiber/fiber/v2"
)

type InquiryHandler struct {
	Handler
	controller   inquiryController.InquiryControllerInterface
	tokenService *services.TokenService
}

func NewInquiryHandler(app app.App, router fiber.Router) *InquiryHandler {
	log := logger.New("handlers").File("inquiry_handler")
	return &InquiryHandler{
		controller:   app.InquiryController,
		tokenService: app.Services.Token,
		Handler: Handler{
			log:        log,
			router:     router,
			middleware: app.Middleware,
		},
	}
}

func (h *InquiryHandler) Register() {
	inquiries := h.router.Group("/inquiries", h.middleware.RequireAuth(h.tokenService))

	inquiries.Post("/", h.create)
	inquiries.Get("/mine", h.listMine)

	landlord := inquiries.Group("/", h.middleware.RequireLandlord())
	landlord.Get("/received", h.listReceived)

	// The tenants view is derived from inquiries, so it lives here.
	tenants := h.router.Group("/tenants",
		h.middleware.RequireAuth(h.tokenService),
		h.middleware.RequireLandlord(),
	)
	tenants.Get("/", h.listTenants)
}

func (h *InquiryHandler) create(c *fiber.Ctx) error {
	user := middleware.GetUser(c)
	if user == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Authentication required",
		})
	}

	var req inquiryController.CreateInquiryRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	inquiry, err := h.controller.Create(c.UserContext(), user.ID, req)
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"inquiry": inquiry})
}

func (h *InquiryHandler) listMine(c *fiber.Ctx) error {
	user := middleware.GetUser(c)
	if user == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Authentication required",
		})
	}

	inquiries, err := h.controller.ListMine(c.UserContext(), user.ID)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{"inquiries": inquiries})
}

func (h *InquiryHandler) listReceived(c *fiber.Ctx) error {
	user := middleware.GetUser(c)
	if user == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Authentication required",
		})
	}

	inquiries, err := h.controller.ListReceived(c.UserContext(), user.ID)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{"inquiries": inquiries})
}

func (h *InquiryHandler) listTenants(c *fiber.Ctx) error {
	user := middleware.GetUser(c)
	if user == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Authentication required",
		})
	}

	tenants, err := h.controller.ListTenants(c.UserContext(), user.ID)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{"tenants": tenants})
}
