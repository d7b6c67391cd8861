package realtime

// ConnectionState represents the current state of the event stream.
type ConnectionState int

const (
	// StateConnecting means the transport is establishing or re-establishing
	// the stream.
	StateConnecting ConnectionState = iota

	// StateOpen means events are flowing.
	StateOpen

	// StateClosed means the stream is gone and the transport will not retry,
	// or the subscription was closed by the caller.
	StateClosed
)

// String returns the string representation of a ConnectionState.
func (s ConnectionState) String() string {
	switch s {
	case StateConnecting:
		return "connecting"
	case StateOpen:
		return "open"
	case StateClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// StateEvent represents a state change event.
type StateEvent struct {
	OldState ConnectionState
	NewState ConnectionState
	Error    error // Optional error that caused the state change
}
