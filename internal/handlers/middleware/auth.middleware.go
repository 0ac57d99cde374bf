package middleware

import (
	"context"
	"strings"

	"rentdesk/internal/models"
	"rentdesk/internal/services"

	logger "github.com/Bparsons0904/goLogger"

	"github.com/gofiber/fiber/v2"
)

type authContextKey string

const (
	userContextKey authContextKey = "user"
	userLocalKey   string         = "User"
)

func unauthorized(c *fiber.Ctx, reason string) error {
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": reason})
}

// bearerToken pulls the token out of the Authorization header, or returns ""
// when the header is absent or malformed.
func bearerToken(c *fiber.Ctx) string {
	parts := strings.SplitN(c.Get("Authorization"), " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}
	return parts[1]
}

// RequireAuth validates the bearer token and loads the user it names. The
// user is stored on the request for handlers and on the Go context for
// controllers.
func (m *Middleware) RequireAuth(tokenService *services.TokenService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		log := logger.New("middleware").TraceFromContext(c.Context()).Function("RequireAuth")

		token := bearerToken(c)
		if token == "" {
			log.Info("missing or malformed authorization header")
			return unauthorized(c, "Bearer token required")
		}

		claims, err := tokenService.Verify(token)
		if err != nil {
			log.Info("token verification failed", "error", err.Error())
			return unauthorized(c, "Invalid token")
		}

		user, err := m.userRepo.GetByID(c.Context(), claims.UserID)
		if err != nil {
			log.Info("token names an unknown user", "userID", claims.UserID)
			return unauthorized(c, "User not found")
		}

		c.Locals(userLocalKey, user)
		c.SetUserContext(context.WithValue(c.UserContext(), userContextKey, user))

		return c.Next()
	}
}

// RequireLandlord restricts a route to landlord accounts. Must run after
// RequireAuth.
func (m *Middleware) RequireLandlord() fiber.Handler {
	return func(c *fiber.Ctx) error {
		user := GetUser(c)
		if user == nil {
			return unauthorized(c, "Authentication required")
		}

		if !user.IsLandlord() {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "Landlord account required",
			})
		}

		return c.Next()
	}
}

// GetUser returns the authenticated user set by RequireAuth, or nil.
func GetUser(c *fiber.Ctx) *models.User {
	user, _ := c.Locals(userLocalKey).(*models.User)
	return user
}
