package realtime

// Sink receives everything the client wants displayed. Implementations own
// layout, chart capacity and eviction; the client only produces correctly
// stamped points and escaped text.
//
// Open calls InitSeries, and the capability notice when no transport exists,
// on the caller's goroutine before it returns. Every later call comes from
// the subscription goroutine. Calls never overlap.
type Sink interface {
	AppendConnectivityNotice(level Style, text string)
	AppendChatRow(style Style, nickHTML, messageHTML string)
	PushSeries(group Group, points []SeriesPoint)
	InitSeries(group Group, seed []SeriesPoint)
}

// NopSink discards everything.
type NopSink struct{}

func (NopSink) AppendConnectivityNotice(Style, string) {}
func (NopSink) AppendChatRow(Style, string, string)    {}
func (NopSink) PushSeries(Group, []SeriesPoint)        {}
func (NopSink) InitSeries(Group, []SeriesPoint)        {}
