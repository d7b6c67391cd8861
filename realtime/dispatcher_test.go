package realtime

import "testing"

func TestDispatcherMessage(t *testing.T) {
	var got ChatRecord
	var raw ChatMessage
	var errCalled bool
	var d Dispatcher
	d.SetOnMessage(func(m ChatMessage, rec ChatRecord) { raw, got = m, rec })
	d.SetOnError(func(err error) { errCalled = true; _ = err })

	d.Dispatch(Event{Name: EventMessage, Data: `{"nick":"alice","message":"hi & bye"}`})

	if raw.Nick != "alice" || raw.Message != "hi & bye" {
		t.Fatalf("unexpected raw message: %+v", raw)
	}
	if got.NickHTML != "alice" || got.MessageHTML != "hi &amp; bye" || got.Style != StyleFor("alice") {
		t.Fatalf("unexpected record: %+v", got)
	}
	if errCalled {
		t.Fatalf("unexpected error callback")
	}
}

func TestDispatcherStats(t *testing.T) {
	var got StatsSample
	var d Dispatcher
	d.SetOnStats(func(s StatsSample) { got = s })

	d.Dispatch(Event{Name: EventStats, Data: validStats})
	if got.Timestamp != 1000 || got.HeapInuse != 4096 {
		t.Fatalf("unexpected sample: %+v", got)
	}
}

func TestDispatcherError(t *testing.T) {
	var errs []error
	var d Dispatcher
	d.SetOnError(func(err error) { errs = append(errs, err) })
	d.SetOnStats(func(StatsSample) { t.Fatal("stats callback on malformed payload") })

	d.Dispatch(Event{Name: EventStats, Data: `{`})
	if len(errs) != 1 {
		t.Fatalf("expected one error callback, got %d", len(errs))
	}
	if !IsPayloadError(errs[0]) {
		t.Fatalf("expected payload error, got %v", errs[0])
	}
}

func TestDispatcherIgnoresUnknownEvents(t *testing.T) {
	var d Dispatcher
	d.SetOnError(func(err error) { t.Fatalf("unexpected error: %v", err) })
	d.SetOnMessage(func(ChatMessage, ChatRecord) { t.Fatal("unexpected message") })
	d.SetOnStats(func(StatsSample) { t.Fatal("unexpected stats") })

	d.Dispatch(Event{Name: "system", Data: `{"message":"bye"}`})
	d.Dispatch(Event{Name: "presence", Data: `garbage`})
}
