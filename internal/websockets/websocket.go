package websockets

import (
	"time"

	"rentdesk/config"
	"rentdesk/internal/database"
	"rentdesk/internal/events"
	"rentdesk/internal/logger"
	"rentdesk/internal/services"

	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
)

const (
	pingInterval   = 30 * time.Second
	pongTimeout    = 60 * time.Second
	writeTimeout   = 10 * time.Second
	maxMessageSize = 1 << 20
	sendBuffer     = 64
)

type Message struct {
	ID        string         `json:"id"`
	Type      string         `json:"type"`
	Channel   string         `json:"channel,omitempty"`
	Action    string         `json:"action,omitempty"`
	UserID    string         `json:"userId,omitempty"`
	Data      map[string]any `json:"data,omitempty"`
	Timestamp time.Time      `json:"timestamp"`
}

// systemMessage builds a control-plane message on the "system" channel.
func systemMessage(msgType events.MessageType, action string, data map[string]any) Message {
	return Message{
		ID:        uuid.NewString(),
		Type:      string(msgType),
		Channel:   "system",
		Action:    action,
		Data:      data,
		Timestamp: time.Now(),
	}
}

type Client struct {
	ID         string
	UserID     uuid.UUID
	Connection *websocket.Conn
	Manager    *Manager
	Status     int
	send       chan Message
}

// Manager runs the live maintenance feed. Clients connect, authenticate
// with their bearer token, and then receive maintenance events for
// requests they are a party to.
type Manager struct {
	hub      *Hub
	db       database.DB
	config   config.Config
	tokens   *services.TokenService
	log      logger.Logger
	eventBus *events.EventBus
}

func New(
	db database.DB,
	eventBus *events.EventBus,
	tokens *services.TokenService,
	cfg config.Config,
) (*Manager, error) {
	manager := &Manager{
		hub: &Hub{
			broadcast:  make(chan Message),
			register:   make(chan *Client),
			unregister: make(chan *Client),
			clients:    make(map[string]*Client),
		},
		db:       db,
		config:   cfg,
		tokens:   tokens,
		log:      logger.New("websockets"),
		eventBus: eventBus,
	}

	go manager.hub.run(manager)
	go manager.subscribeToMaintenanceEvents()

	return manager, nil
}

func (m *Manager) HandleWebSocket(c *websocket.Conn) {
	log := m.log.Function("HandleWebSocket")

	client := &Client{
		ID:         uuid.NewString(),
		UserID:     uuid.Nil,
		Connection: c,
		Manager:    m,
		Status:     statusUnauthenticated,
		send:       make(chan Message, sendBuffer),
	}

	// Prompt for credentials before the client enters the hub.
	if err := c.WriteJSON(systemMessage(events.AUTH_REQUEST, "authenticate", nil)); err != nil {
		log.Er("failed to send auth request", err)
		_ = c.Close()
		return
	}

	m.hub.register <- client
	client.startAuthTimeout()

	defer func() {
		log.Info("Client disconnected", "clientID", client.ID)
		m.hub.unregister <- client
		_ = c.Close()
	}()

	go client.readPump()
	client.writePump()
}

func (m *Manager) BroadcastMessage(message Message) {
	select {
	case m.hub.broadcast <- message:
	default:
		m.log.Function("BroadcastMessage").
			Warn("Broadcast channel full, dropping message", "messageID", message.ID)
	}
}

func (c *Client) readPump() {
	log := c.Manager.log.Function("readPump")
	defer func() {
		c.Manager.hub.unregister <- c
		_ = c.Connection.Close()
	}()

	c.Connection.SetReadLimit(maxMessageSize)
	_ = c.Connection.SetReadDeadline(time.Now().Add(pongTimeout))
	c.Connection.SetPongHandler(func(string) error {
		return c.Connection.SetReadDeadline(time.Now().Add(pongTimeout))
	})

	for {
		var message Message
		if err := c.Connection.ReadJSON(&message); err != nil {
			if websocket.IsUnexpectedCloseError(
				err,
				websocket.CloseGoingAway,
				websocket.CloseAbnormalClosure,
			) {
				log.Er("unexpected close", err, "clientID", c.ID)
			}
			return
		}

		message.ID = uuid.NewString()
		message.Timestamp = time.Now()
		c.routeMessage(message)
	}
}

func (c *Client) routeMessage(message Message) {
	log := c.Manager.log.Function("routeMessage")

	if message.Type == string(events.AUTH_RESPONSE) {
		c.handleAuthResponse(message)
		return
	}

	if c.Status == statusUnauthenticated {
		log.Warn("Dropping message from unauthenticated client",
			"clientID", c.ID, "messageType", message.Type)
		c.send <- systemMessage(events.AUTH_FAILURE, "authentication_required",
			map[string]any{"reason": "Authentication required"})
		return
	}

	switch message.Type {
	case string(events.PING):
		c.send <- systemMessage(events.PONG, "", nil)
	default:
		log.Warn("Unknown message type", "type", message.Type, "clientID", c.ID)
	}
}

func (c *Client) writePump() {
	log := c.Manager.log.Function("writePump")

	ticker := time.NewTicker(pingInterval)
	defer func() {
		ticker.Stop()
		_ = c.Connection.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			_ = c.Connection.SetWriteDeadline(time.Now().Add(writeTimeout))
			if !ok {
				_ = c.Connection.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.Connection.WriteJSON(message); err != nil {
				log.Er("write failed", err, "clientID", c.ID)
				return
			}

		case <-ticker.C:
			_ = c.Connection.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := c.Connection.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// subscribeToMaintenanceEvents fans maintenance lifecycle events out to
// the landlord and tenant connections named in the event payload.
func (m *Manager) subscribeToMaintenanceEvents() {
	log := m.log.Function("subscribeToMaintenanceEvents")

	err := m.eventBus.Subscribe(events.MAINTENANCE_CHANNEL, func(event events.Event) error {
		message := Message{
			ID:        uuid.NewString(),
			Type:      string(event.Type),
			Channel:   events.MAINTENANCE_CHANNEL.String(),
			Data:      event.Data,
			Timestamp: time.Now(),
		}

		recipients := 0
		for _, key := range []string{"landlordId", "tenantId"} {
			raw, ok := event.Data[key].(string)
			if !ok {
				continue
			}
			userID, err := uuid.Parse(raw)
			if err != nil {
				log.Warn("Invalid user id in maintenance event", "key", key, "value", raw)
				continue
			}
			m.SendMessageToUser(userID, message)
			recipients++
		}

		if recipients == 0 {
			// Escalation sweeps carry no party ids, everyone sees those.
			m.BroadcastMessage(message)
		}

		return nil
	})
	if err != nil {
		log.Er("failed to subscribe to maintenance events", err)
	}
}
