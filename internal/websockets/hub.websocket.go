package websockets

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

const (
	statusUnauthenticated = iota
	statusAuthenticated
	statusClosed
)

const slowClientGrace = 5 * time.Second

type Hub struct {
	broadcast  chan Message
	register   chan *Client
	unregister chan *Client
	clients    map[string]*Client
	mutex      sync.RWMutex
}

func (h *Hub) run(m *Manager) {
	for {
		select {
		case client := <-h.register:
			m.registerClient(client)

		case client := <-h.unregister:
			// The send channel may already be closed if the client was
			// unregistered from two paths at once.
			func() {
				defer func() { _ = recover() }()
				close(client.send)
			}()
			m.unregisterClient(client)

		case message := <-h.broadcast:
			h.fanOut(message, m, nil)
		}
	}
}

func (m *Manager) registerClient(client *Client) {
	m.hub.mutex.Lock()
	m.hub.clients[client.ID] = client
	m.hub.mutex.Unlock()

	m.log.Function("registerClient").Info("Client registered", "clientID", client.ID)
}

func (m *Manager) unregisterClient(client *Client) {
	m.hub.mutex.Lock()
	delete(m.hub.clients, client.ID)
	m.hub.mutex.Unlock()

	m.log.Function("unregisterClient").
		Info("Client unregistered", "clientID", client.ID, "userID", client.UserID)
}

// fanOut queues message on every authenticated client, optionally filtered
// to a single user. Slow clients get a bounded grace period before being
// disconnected so one stalled connection cannot block the rest.
func (h *Hub) fanOut(message Message, m *Manager, onlyUser *uuid.UUID) {
	log := m.log.Function("fanOut")

	h.mutex.RLock()
	defer h.mutex.RUnlock()

	sent := 0
	for _, client := range h.clients {
		if client.Status != statusAuthenticated {
			continue
		}
		if onlyUser != nil && client.UserID != *onlyUser {
			continue
		}

		select {
		case client.send <- message:
			sent++
		default:
			go func(c *Client) {
				select {
				case c.send <- message:
				case <-time.After(slowClientGrace):
					log.Warn("Client too slow, disconnecting", "clientID", c.ID)
					m.hub.unregister <- c
				}
			}(client)
		}
	}

	if sent > 0 {
		log.Debug("Message delivered", "messageID", message.ID, "recipients", sent)
	}
}

// SendMessageToUser delivers a message to every authenticated connection
// belonging to the user.
func (m *Manager) SendMessageToUser(userID uuid.UUID, message Message) {
	m.hub.fanOut(message, m, &userID)
}
