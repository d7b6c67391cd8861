package realtime

import (
	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const (
	// EventMessage carries a chat payload. It is also the name given to
	// unnamed SSE events.
	EventMessage = "message"
	// EventStats carries a runtime statistics payload.
	EventStats = "stats"
)

// Event is one named event received from the stream.
type Event struct {
	Name string
	ID   string
	Data string
}

// Envelope is the websocket framing of an Event.
type Envelope struct {
	Event string              `json:"event"`
	ID    string              `json:"id,omitempty"`
	Data  jsoniter.RawMessage `json:"data,omitempty"`
}

// toEvent converts the envelope to an Event. An unnamed envelope is a
// message event, as on the SSE transport.
func (e Envelope) toEvent() Event {
	name := e.Event
	if name == "" {
		name = EventMessage
	}
	return Event{Name: name, ID: e.ID, Data: string(e.Data)}
}
