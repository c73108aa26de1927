package event

import (
	"time"

	"github.com/google/uuid"
)

type Type string

const (
	TypeProjectCreated Type = "project_created"
	TypeProjectUpdated Type = "project_updated"
	TypeProjectDeleted Type = "project_deleted"
)

// Channel is a domain-scoped notification channel. All event types within a
// domain share one subscription.
type Channel string

const (
	ChannelProject Channel = "project"
)

var typeToChannel = map[Type]Channel{
	TypeProjectCreated: ChannelProject,
	TypeProjectUpdated: ChannelProject,
	TypeProjectDeleted: ChannelProject,
}

// ChannelFor returns the domain channel for a given event type.
func ChannelFor(t Type) Channel { return typeToChannel[t] }

// Event carries identifiers only, not full state.
// Subscribers fetch fresh state from the API.
type Event struct {
	Type      Type      `json:"type"`
	EntityID  uuid.UUID `json:"entity_id"`
	Timestamp time.Time `json:"timestamp"`
}

func New(eventType Type, entityID uuid.UUID) Event {
	return Event{
		Type:      eventType,
		EntityID:  entityID,
		Timestamp: time.Now().UTC(),
	}
}
