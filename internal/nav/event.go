package nav

import (
	"github.com/google/uuid"

	"github.com/talgya/hexpath/internal/hexgrid"
)

// EventKind labels a service notification.
type EventKind string

const (
	EventGraphRebuilt     EventKind = "graph_rebuilt"
	EventCacheInvalidated EventKind = "cache_invalidated"
	EventRequestQueued    EventKind = "request_queued"
)

// Event is an identity-only signal emitted by the service: which operation
// fired and which hex or endpoint pair triggered it.
type Event struct {
	ID    uuid.UUID          `json:"id"`
	Kind  EventKind          `json:"kind"`
	Hexes []hexgrid.HexCoord `json:"hexes,omitempty"`
}
