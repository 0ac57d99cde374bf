// Package events is a thin pub/sub layer over Valkey. Events published here
// reach every API instance, which lets websocket clients connected to one
// instance see changes made through another.
package events

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"rentdesk/config"
	"rentdesk/internal/logger"

	"github.com/google/uuid"
	"github.com/valkey-io/valkey-go"
)

type Channel string

func (c Channel) String() string {
	return string(c)
}

const (
	BROADCAST_CHANNEL   Channel = "broadcast"
	MAINTENANCE_CHANNEL Channel = "maintenance"
)

type MessageType string

const (
	PING          MessageType = "ping"
	PONG          MessageType = "pong"
	MESSAGE       MessageType = "message"
	ERROR         MessageType = "error"
	AUTH_REQUEST  MessageType = "auth_request"
	AUTH_RESPONSE MessageType = "auth_response"
	AUTH_SUCCESS  MessageType = "auth_success"
	AUTH_FAILURE  MessageType = "auth_failure"

	MAINTENANCE_CREATED   MessageType = "maintenance_created"
	MAINTENANCE_UPDATED   MessageType = "maintenance_updated"
	MAINTENANCE_STATUS    MessageType = "maintenance_status"
	MAINTENANCE_ASSIGNED  MessageType = "maintenance_assigned"
	MAINTENANCE_COMMENT   MessageType = "maintenance_comment"
	MAINTENANCE_ESCALATED MessageType = "maintenance_escalated"
)

type Event struct {
	ID        string         `json:"id"`
	Type      MessageType    `json:"type"`
	Channel   Channel        `json:"channel"`
	UserID    *uuid.UUID     `json:"userId,omitempty"`
	Data      map[string]any `json:"data"`
	Timestamp time.Time      `json:"timestamp"`
}

type EventHandler func(event Event) error

// EventBus fans events out to local handlers and across instances through
// Valkey pub/sub. One Valkey subscription is held per channel regardless of
// how many local handlers are registered.
type EventBus struct {
	client    valkey.Client
	log       logger.Logger
	config    config.Config
	handlers  map[Channel][]EventHandler
	listening map[Channel]bool
	mu        sync.RWMutex
	ctx       context.Context
	cancel    context.CancelFunc
}

func New(client valkey.Client, cfg config.Config) *EventBus {
	ctx, cancel := context.WithCancel(context.Background())

	return &EventBus{
		client:    client,
		log:       logger.New("EventBus"),
		config:    cfg,
		handlers:  make(map[Channel][]EventHandler),
		listening: make(map[Channel]bool),
		ctx:       ctx,
		cancel:    cancel,
	}
}

// Publish fills in missing event metadata, pushes the event to Valkey, and
// dispatches to local handlers directly so they do not depend on the pub/sub
// round trip.
func (eb *EventBus) Publish(channel Channel, event Event) error {
	log := eb.log.Function("Publish")

	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	if event.Channel == "" {
		event.Channel = channel
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return log.Err("failed to encode event", err, "eventID", event.ID)
	}

	ctx, cancel := context.WithTimeout(eb.ctx, 5*time.Second)
	defer cancel()

	cmd := eb.client.B().Publish().Channel(channel.String()).Message(string(payload)).Build()
	if err := eb.client.Do(ctx, cmd).Error(); err != nil {
		return log.Err("failed to publish event", err, "channel", channel, "eventID", event.ID)
	}

	log.Debug("Event published", "channel", channel, "eventID", event.ID, "eventType", event.Type)
	eb.dispatch(channel, event)

	return nil
}

// PublishMaintenanceEvent pushes a maintenance lifecycle event addressed to
// the landlord and tenant on the request, so connected clients for either
// party can refresh their views.
func (eb *EventBus) PublishMaintenanceEvent(
	eventType MessageType,
	requestID uuid.UUID,
	userID *uuid.UUID,
	data map[string]any,
) error {
	if data == nil {
		data = map[string]any{}
	}
	data["requestId"] = requestID.String()

	return eb.Publish(MAINTENANCE_CHANNEL, Event{
		Type:   eventType,
		UserID: userID,
		Data:   data,
	})
}

// Subscribe registers a handler and starts the Valkey listener for the
// channel on first registration.
func (eb *EventBus) Subscribe(channel Channel, handler EventHandler) error {
	eb.mu.Lock()
	eb.handlers[channel] = append(eb.handlers[channel], handler)
	first := !eb.listening[channel]
	eb.listening[channel] = true
	eb.mu.Unlock()

	if first {
		go eb.listen(channel)
	}

	eb.log.Function("Subscribe").Info("Handler subscribed", "channel", channel)
	return nil
}

func (eb *EventBus) dispatch(channel Channel, event Event) {
	log := eb.log.Function("dispatch")

	eb.mu.RLock()
	handlers := eb.handlers[channel]
	eb.mu.RUnlock()

	for _, handler := range handlers {
		go func(h EventHandler) {
			if err := h(event); err != nil {
				log.Er("event handler failed", err, "channel", channel, "eventID", event.ID)
			}
		}(handler)
	}
}

func (eb *EventBus) listen(channel Channel) {
	log := eb.log.Function("listen")
	log.Info("Listening on channel", "channel", channel)

	err := eb.client.Receive(
		eb.ctx,
		eb.client.B().Subscribe().Channel(channel.String()).Build(),
		func(msg valkey.PubSubMessage) {
			var event Event
			if err := json.Unmarshal([]byte(msg.Message), &event); err != nil {
				log.Er("failed to decode event", err, "channel", channel)
				return
			}
			eb.dispatch(channel, event)
		},
	)
	if err != nil && eb.ctx.Err() == nil {
		log.Er("channel listener stopped", err, "channel", channel)
	}
}

func (eb *EventBus) Close() error {
	eb.cancel()
	eb.log.Info("EventBus closed")
	return nil
}
