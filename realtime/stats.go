package realtime

import (
	"strings"
)

// StatsSample is one decoded stats event.
type StatsSample struct {
	Timestamp  int64
	HeapInuse  float64
	StackInuse float64
	Mallocs    float64
	Frees      float64
	Connected  float64
	Inbound    float64
	Outbound   float64
}

// statsPayload mirrors the wire object. Pointers tell absent and null
// apart from zero.
type statsPayload struct {
	Timestamp  *int64   `json:"timestamp"`
	HeapInuse  *float64 `json:"HeapInuse"`
	StackInuse *float64 `json:"StackInuse"`
	Mallocs    *float64 `json:"Mallocs"`
	Frees      *float64 `json:"Frees"`
	Connected  *float64 `json:"Connected"`
	Inbound    *float64 `json:"Inbound"`
	Outbound   *float64 `json:"Outbound"`
}

func (p *statsPayload) missing() []string {
	var names []string
	if p.Timestamp == nil {
		names = append(names, "timestamp")
	}
	check := []struct {
		name string
		v    *float64
	}{
		{"HeapInuse", p.HeapInuse},
		{"StackInuse", p.StackInuse},
		{"Mallocs", p.Mallocs},
		{"Frees", p.Frees},
		{"Connected", p.Connected},
		{"Inbound", p.Inbound},
		{"Outbound", p.Outbound},
	}
	for _, c := range check {
		if c.v == nil {
			names = append(names, c.name)
		}
	}
	return names
}

// DecodeStats parses a stats payload. Every field must be present and
// non-null; zero is a valid value.
func DecodeStats(data string) (StatsSample, error) {
	var p statsPayload
	if err := json.UnmarshalFromString(data, &p); err != nil {
		return StatsSample{}, WrapError(ErrorMalformedPayload, "failed to parse stats event", err)
	}
	if missing := p.missing(); len(missing) > 0 {
		return StatsSample{}, NewError(ErrorIncompletePayload, "stats event missing "+strings.Join(missing, ", "))
	}
	return StatsSample{
		Timestamp:  *p.Timestamp,
		HeapInuse:  *p.HeapInuse,
		StackInuse: *p.StackInuse,
		Mallocs:    *p.Mallocs,
		Frees:      *p.Frees,
		Connected:  *p.Connected,
		Inbound:    *p.Inbound,
		Outbound:   *p.Outbound,
	}, nil
}

// Points returns the points of group g, all stamped with the sample time.
func (s StatsSample) Points(g Group) []SeriesPoint {
	t := s.Timestamp
	switch g {
	case GroupHeap:
		return []SeriesPoint{{t, s.HeapInuse}, {t, s.StackInuse}}
	case GroupMallocs:
		return []SeriesPoint{{t, s.Mallocs}, {t, s.Frees}}
	case GroupMessages:
		return []SeriesPoint{{t, s.Connected}, {t, s.Inbound}, {t, s.Outbound}}
	default:
		return nil
	}
}

// Groups returns the points of every chart group.
func (s StatsSample) Groups() map[Group][]SeriesPoint {
	out := make(map[Group][]SeriesPoint, len(Groups))
	for _, g := range Groups {
		out[g] = s.Points(g)
	}
	return out
}
