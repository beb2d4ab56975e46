package core

import (
	"maps"
	"time"

	"github.com/google/uuid"
)

// Topic suffixes appended to an agent name when publishing outcomes.
const (
	TopicSuccess = "success"
	TopicError   = "error"
)

// Event is one entry of the Bus log. After publication it should be treated
// as immutable. Timestamp is assigned by the bus and is the authoritative
// ordering key; slice position may interleave under concurrent publishers.
type Event struct {
	ID        string         `json:"id"`
	Topic     string         `json:"topic"`
	Message   map[string]any `json:"message"`
	Timestamp time.Time      `json:"timestamp"`
}

// NewEvent creates an event for topic with a fresh id and UTC timestamp. The
// message map is copied.
func NewEvent(topic string, message map[string]any) Event {
	return Event{
		ID:        NewID(),
		Topic:     topic,
		Message:   maps.Clone(message),
		Timestamp: time.Now().UTC(),
	}
}

// SuccessTopic returns "<agentName>.success".
func SuccessTopic(agentName string) string { return agentName + "." + TopicSuccess }

// ErrorTopic returns "<agentName>.error".
func ErrorTopic(agentName string) string { return agentName + "." + TopicError }

// NewID generates a new unique identifier for events and invocations.
func NewID() string { return uuid.NewString() }
