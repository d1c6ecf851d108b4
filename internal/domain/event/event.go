package event

import (
	"time"

	"github.com/google/uuid"
)

type Type string

const (
	TypePassCompleted       Type = "pass_completed"
	TypeRunStarted          Type = "run_started"
	TypeRunStopped          Type = "run_stopped"
	TypeAvailabilityUpdated Type = "availability_updated"
	TypeOperatorChanged     Type = "operator_changed"
)

// Channel is a domain-scoped Postgres NOTIFY channel.
// All event types within a domain share one LISTEN connection.
type Channel string

const (
	ChannelDistribution Channel = "distribution"
	ChannelRoster       Channel = "roster"
)

var typeToChannel = map[Type]Channel{
	TypePassCompleted:       ChannelDistribution,
	TypeRunStarted:          ChannelDistribution,
	TypeRunStopped:          ChannelDistribution,
	TypeAvailabilityUpdated: ChannelRoster,
	TypeOperatorChanged:     ChannelRoster,
}

// Channels lists every channel, in subscription order.
var Channels = []Channel{ChannelDistribution, ChannelRoster}

// ChannelFor returns the domain channel for a given event type.
func ChannelFor(t Type) Channel { return typeToChannel[t] }

// Event carries identifiers only, not full state.
// Subscribers fetch fresh state through the status query.
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
