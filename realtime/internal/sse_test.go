package internal

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func TestSSEScannerBasic(t *testing.T) {
	input := "event: stats\ndata: {\"timestamp\":1}\n\nevent: message\ndata: {}\n\n"
	scanner := NewSSEScanner(strings.NewReader(input))

	if !scanner.Next() {
		t.Fatal("expected first event")
	}
	ev := scanner.Event()
	if ev.Type != "stats" || ev.Data != `{"timestamp":1}` {
		t.Fatalf("first event = %+v", ev)
	}

	if !scanner.Next() {
		t.Fatal("expected second event")
	}
	if scanner.Event().Type != "message" {
		t.Fatalf("second event = %+v", scanner.Event())
	}

	if scanner.Next() {
		t.Error("expected no more events")
	}
	if err := scanner.Err(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestSSEScannerMultipleDataLines(t *testing.T) {
	input := "data: line one\ndata:line two\ndata:  indented\n\n"
	scanner := NewSSEScanner(strings.NewReader(input))
	if !scanner.Next() {
		t.Fatal("expected event")
	}
	ev := scanner.Event()
	if ev.Type != "" {
		t.Errorf("Type = %q, want empty", ev.Type)
	}
	if ev.Data != "line one\nline two\n indented" {
		t.Errorf("Data = %q", ev.Data)
	}
}

func TestSSEScannerCommentsAndBlankBlocks(t *testing.T) {
	input := ": hello\n\nevent: ignored\n\n\r\ndata: x\r\n\r\n"
	scanner := NewSSEScanner(strings.NewReader(input))
	if !scanner.Next() {
		t.Fatal("expected event")
	}
	// The event type of a block without data does not leak into the next one.
	if ev := scanner.Event(); ev.Type != "" || ev.Data != "x" {
		t.Fatalf("event = %+v", ev)
	}
	if scanner.Next() {
		t.Fatal("expected end of stream")
	}
}

func TestSSEScannerIDAndRetry(t *testing.T) {
	input := "retry: 1500\nid: 41\ndata: a\n\ndata: b\n\nid: 42\nretry: soon\ndata: c\n\n"
	scanner := NewSSEScanner(strings.NewReader(input))

	var ids []string
	for scanner.Next() {
		ids = append(ids, scanner.Event().ID)
	}
	if strings.Join(ids, ",") != "41,41,42" {
		t.Fatalf("ids = %v", ids)
	}
	if scanner.LastEventID() != "42" {
		t.Fatalf("LastEventID = %q", scanner.LastEventID())
	}
	if scanner.Retry() != 1500*time.Millisecond {
		t.Fatalf("Retry = %v", scanner.Retry())
	}
}

func TestSSEScannerDropsUnterminatedEvent(t *testing.T) {
	scanner := NewSSEScanner(strings.NewReader("data: first\n\nevent: stats\ndata: tail\n"))
	if !scanner.Next() || scanner.Event().Data != "first" {
		t.Fatalf("event = %+v", scanner.Event())
	}
	if scanner.Next() {
		t.Fatalf("unterminated event dispatched: %+v", scanner.Event())
	}
	if scanner.Err() != nil {
		t.Fatalf("Err = %v", scanner.Err())
	}
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("connection reset") }

func TestSSEScannerReadError(t *testing.T) {
	scanner := NewSSEScanner(failingReader{})
	if scanner.Next() {
		t.Fatal("expected no event")
	}
	if scanner.Err() == nil || scanner.Err().Error() != "connection reset" {
		t.Fatalf("Err = %v", scanner.Err())
	}
}
