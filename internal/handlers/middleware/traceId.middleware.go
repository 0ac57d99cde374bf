package middleware

import (
	logger "github.com/Bparsons0904/goLogger"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const (
	TraceIDHeader   = "X-Trace-ID"
	traceIDLocalKey = "traceID"
)

// TraceID tags every request with a trace id, honoring one supplied by the
// caller so traces can span the client and the API.
func (m *Middleware) TraceID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		traceID := c.Get(TraceIDHeader)
		if traceID == "" {
			traceID = uuid.NewString()
		}

		c.Set(TraceIDHeader, traceID)
		c.Locals(traceIDLocalKey, traceID)
		c.SetUserContext(logger.ContextWithTraceID(c.Context(), traceID))

		return c.Next()
	}
}

// TraceIDFrom returns the trace id assigned to the request, or "" when the
// TraceID middleware did not run.
func TraceIDFrom(c *fiber.Ctx) string {
	traceID, _ := c.Locals(traceIDLocalKey).(string)
	return traceID
}
