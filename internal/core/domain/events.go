package domain

// EventType identifies a real-time event published to dashboard clients.
type EventType string

const (
	EventDatasetReloaded EventType = "DATASET_RELOADED"
)

// Event is the payload broadcast over the websocket hub.
type Event struct {
	Type    EventType   `json:"type"`
	Payload interface{} `json:"payload,omitempty"`
}
