package websockets

import (
	"time"

	"rentdesk/internal/events"
)

const authHandshakeTimeout = 10 * time.Second

// startAuthTimeout disconnects clients that never authenticate.
func (c *Client) startAuthTimeout() {
	log := c.Manager.log.Function("startAuthTimeout")

	go func() {
		time.Sleep(authHandshakeTimeout)
		if c.Status != statusUnauthenticated {
			return
		}

		log.Warn("Client failed to authenticate in time, disconnecting",
			"clientID", c.ID, "timeout", authHandshakeTimeout)

		select {
		case c.send <- systemMessage(events.AUTH_FAILURE, "authentication_timeout",
			map[string]any{"reason": "Authentication timeout"}):
			// Give the write pump a moment to flush before closing.
			time.Sleep(100 * time.Millisecond)
		default:
		}

		if err := c.Connection.Close(); err != nil {
			log.Er("failed to close connection after auth timeout", err, "clientID", c.ID)
		}
	}()
}

// handleAuthResponse verifies the bearer token the client sent and, on
// success, binds the connection to the user in the token.
func (c *Client) handleAuthResponse(message Message) {
	log := c.Manager.log.Function("handleAuthResponse")

	if c.Status != statusUnauthenticated {
		log.Warn("Auth response from already authenticated client", "clientID", c.ID)
		return
	}

	token, ok := message.Data["token"].(string)
	if !ok || token == "" {
		log.Warn("Missing token in auth response", "clientID", c.ID)
		c.sendAuthFailure("Invalid token format")
		return
	}

	claims, err := c.Manager.tokens.Verify(token)
	if err != nil {
		log.Warn("Token verification failed", "clientID", c.ID, "error", err)
		c.sendAuthFailure("Invalid token")
		return
	}

	c.UserID = claims.UserID
	c.Status = statusAuthenticated

	log.Info("Client authenticated", "clientID", c.ID, "userID", c.UserID)

	c.send <- systemMessage(events.AUTH_SUCCESS, "authenticated",
		map[string]any{"userId": c.UserID.String()})
}

func (c *Client) sendAuthFailure(reason string) {
	c.Manager.log.Function("sendAuthFailure").
		Info("Authentication failed, closing connection", "clientID", c.ID, "reason", reason)

	c.send <- systemMessage(events.AUTH_FAILURE, "authentication_failed",
		map[string]any{"reason": reason})

	go func() {
		time.Sleep(100 * time.Millisecond)
		_ = c.Connection.Close()
	}()
}
