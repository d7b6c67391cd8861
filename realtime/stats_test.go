package realtime

import (
	"strings"
	"testing"
)

func TestDecodeStats(t *testing.T) {
	s, err := DecodeStats(validStats)
	if err != nil {
		t.Fatalf("DecodeStats: %v", err)
	}
	want := StatsSample{Timestamp: 1000, HeapInuse: 4096, StackInuse: 512, Mallocs: 10, Frees: 8, Connected: 3, Inbound: 1, Outbound: 2}
	if s != want {
		t.Fatalf("sample = %+v, want %+v", s, want)
	}

	groups := s.Groups()
	counts := map[Group]int{GroupHeap: 2, GroupMallocs: 2, GroupMessages: 3}
	total := 0
	for g, n := range counts {
		points := groups[g]
		if len(points) != n || len(points) != g.SeriesCount() {
			t.Fatalf("group %s: %d points, want %d", g, len(points), n)
		}
		for _, p := range points {
			if p.Time != s.Timestamp {
				t.Fatalf("group %s: time %d, want %d", g, p.Time, s.Timestamp)
			}
		}
		total += len(points)
	}
	if total != 7 {
		t.Fatalf("total points %d, want 7", total)
	}

	heap := s.Points(GroupHeap)
	if heap[0].Value != 4096 || heap[1].Value != 512 {
		t.Fatalf("heap points = %+v", heap)
	}
	msgs := s.Points(GroupMessages)
	if msgs[0].Value != 3 || msgs[1].Value != 1 || msgs[2].Value != 2 {
		t.Fatalf("messages points = %+v", msgs)
	}
}

func TestDecodeStatsZeroValues(t *testing.T) {
	s, err := DecodeStats(`{"timestamp":5,"HeapInuse":0,"StackInuse":0,"Mallocs":0,"Frees":0,"Connected":0,"Inbound":0,"Outbound":0}`)
	if err != nil {
		t.Fatalf("zero values rejected: %v", err)
	}
	if s.Timestamp != 5 {
		t.Fatalf("timestamp = %d", s.Timestamp)
	}
}

func TestDecodeStatsMissingField(t *testing.T) {
	fields := []string{"timestamp", "HeapInuse", "StackInuse", "Mallocs", "Frees", "Connected", "Inbound", "Outbound"}
	for _, drop := range fields {
		for _, mode := range []string{"absent", "null"} {
			var parts []string
			for _, f := range fields {
				switch {
				case f != drop:
					parts = append(parts, `"`+f+`":1`)
				case mode == "null":
					parts = append(parts, `"`+f+`":null`)
				}
			}
			payload := "{" + strings.Join(parts, ",") + "}"
			_, err := DecodeStats(payload)
			if CodeOf(err) != ErrorIncompletePayload {
				t.Errorf("%s %s: err = %v, want incomplete payload", drop, mode, err)
				continue
			}
			if !strings.Contains(err.Error(), drop) {
				t.Errorf("%s %s: error %q does not name the field", drop, mode, err)
			}
		}
	}
}

func TestDecodeStatsMalformed(t *testing.T) {
	for _, payload := range []string{`{`, `not json`, `[1,2,3]`, `{"timestamp":"soon"}`, `{"timestamp":1} trailing`} {
		if _, err := DecodeStats(payload); CodeOf(err) != ErrorMalformedPayload {
			t.Errorf("DecodeStats(%q) err = %v, want malformed payload", payload, err)
		}
	}
}
