package internal

import (
	"bufio"
	"io"
	"strconv"
	"strings"
	"time"
)

// SSEEvent is a single Server-Sent Event parsed from an SSE stream.
type SSEEvent struct {
	// Type is the "event:" field, empty when the server sent none.
	Type string
	// ID is the last event ID in effect when the event was dispatched.
	ID string
	// Data is the payload; multiple "data:" lines are joined with "\n".
	Data string
}

// SSEScanner reads Server-Sent Events from an io.Reader.
//
// Events are delimited by blank lines. Comment lines (starting with ":")
// and unknown fields are ignored. The "id" and "retry" fields are kept
// across events, as the reconnecting client needs them.
type SSEScanner struct {
	reader      *bufio.Reader
	current     SSEEvent
	lastEventID string
	retry       time.Duration
	err         error
}

// NewSSEScanner creates a scanner that reads SSE events from reader.
func NewSSEScanner(reader io.Reader) *SSEScanner {
	return &SSEScanner{
		reader: bufio.NewReaderSize(reader, 64*1024),
	}
}

// Next advances to the next event. It returns false at EOF or on error;
// Err tells them apart. A partial event left at the end of the stream is
// dropped.
func (s *SSEScanner) Next() bool {
	s.current = SSEEvent{}
	if s.err != nil {
		return false
	}

	var dataLines []string
	var eventType string
	hasData := false

	emit := func() {
		s.current = SSEEvent{
			Type: eventType,
			ID:   s.lastEventID,
			Data: strings.Join(dataLines, "\n"),
		}
	}

	for {
		line, err := s.reader.ReadString('\n')
		if err != nil {
			// An event not terminated by a blank line is discarded.
			s.err = err
			return false
		}

		line = strings.TrimRight(line, "\r\n")

		// Blank line ends the event.
		if line == "" {
			if hasData {
				emit()
				return true
			}
			eventType = ""
			continue
		}

		if strings.HasPrefix(line, ":") {
			continue
		}

		field, value, hasColon := strings.Cut(line, ":")
		if !hasColon {
			field = line
			value = ""
		} else {
			value = strings.TrimPrefix(value, " ")
		}

		switch field {
		case "data":
			dataLines = append(dataLines, value)
			hasData = true
		case "event":
			eventType = value
		case "id":
			if !strings.ContainsRune(value, 0) {
				s.lastEventID = value
			}
		case "retry":
			if ms, err := strconv.ParseUint(value, 10, 32); err == nil {
				s.retry = time.Duration(ms) * time.Millisecond
			}
		}
	}
}

// Event returns the most recently parsed event.
func (s *SSEScanner) Event() SSEEvent {
	return s.current
}

// LastEventID returns the last "id" field seen.
func (s *SSEScanner) LastEventID() string {
	return s.lastEventID
}

// Retry returns the last "retry" field seen, or 0.
func (s *SSEScanner) Retry() time.Duration {
	return s.retry
}

// Err returns the first error encountered. It is nil after a clean EOF.
func (s *SSEScanner) Err() error {
	if s.err == io.EOF {
		return nil
	}
	return s.err
}
