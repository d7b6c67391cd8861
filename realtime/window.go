package realtime

import (
	"fmt"
	"sync"
)

// SeriesPoint is one chart sample.
type SeriesPoint struct {
	Time  int64   `json:"time"`
	Value float64 `json:"y"`
}

// Group names a chart fed by one stats event.
type Group string

const (
	GroupHeap     Group = "heap"     // HeapInuse, StackInuse
	GroupMallocs  Group = "mallocs"  // Mallocs, Frees
	GroupMessages Group = "messages" // Connected, Inbound, Outbound
)

// Groups lists the chart groups in display order.
var Groups = []Group{GroupHeap, GroupMallocs, GroupMessages}

// SeriesCount returns how many series a group carries, or 0 for an
// unknown group.
func (g Group) SeriesCount() int {
	switch g {
	case GroupHeap, GroupMallocs:
		return 2
	case GroupMessages:
		return 3
	default:
		return 0
	}
}

// Seed returns windowSize zero points ending two seconds before timestamp,
// used to give a chart its full width before live data arrives.
func Seed(windowSize int, timestamp int64) []SeriesPoint {
	if windowSize <= 0 {
		return nil
	}
	points := make([]SeriesPoint, windowSize)
	for i := range points {
		// The extra -1 is kept from the dashboard this client replaces so
		// seeded charts line up with its timeline.
		points[i] = SeriesPoint{Time: timestamp - int64(windowSize) + int64(i) - 1}
	}
	return points
}

// Window is a fixed-capacity ring of points per series. Pushing into a full
// window evicts the oldest point of every series. Safe for concurrent use.
type Window struct {
	mu       sync.RWMutex
	capacity int
	series   [][]SeriesPoint
	start    int // index of the oldest point
	n        int
}

// NewWindow allocates a window with seriesCount series of capacity points.
func NewWindow(capacity, seriesCount int) *Window {
	if capacity <= 0 {
		capacity = DefaultWindowSize
	}
	w := &Window{capacity: capacity, series: make([][]SeriesPoint, seriesCount)}
	for i := range w.series {
		w.series[i] = make([]SeriesPoint, capacity)
	}
	return w
}

// Capacity returns the number of points kept per series.
func (w *Window) Capacity() int { return w.capacity }

// SeriesCount returns the number of series.
func (w *Window) SeriesCount() int { return len(w.series) }

// Len returns the number of points currently held per series.
func (w *Window) Len() int {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.n
}

// Fill resets the window so every series holds seed.
func (w *Window) Fill(seed []SeriesPoint) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.start, w.n = 0, 0
	for _, p := range seed {
		points := make([]SeriesPoint, len(w.series))
		for i := range points {
			points[i] = p
		}
		w.pushLocked(points)
	}
}

// Push appends one point per series. The number of points must match the
// series count; nothing is stored otherwise.
func (w *Window) Push(points []SeriesPoint) error {
	if len(points) != len(w.series) {
		return fmt.Errorf("window: got %d points for %d series", len(points), len(w.series))
	}
	w.mu.Lock()
	w.pushLocked(points)
	w.mu.Unlock()
	return nil
}

func (w *Window) pushLocked(points []SeriesPoint) {
	var idx int
	if w.n < w.capacity {
		idx = (w.start + w.n) % w.capacity
		w.n++
	} else {
		idx = w.start
		w.start = (w.start + 1) % w.capacity
	}
	for i, p := range points {
		w.series[i][idx] = p
	}
}

// Series returns a copy of series i, oldest first.
func (w *Window) Series(i int) []SeriesPoint {
	w.mu.RLock()
	defer w.mu.RUnlock()
	if i < 0 || i >= len(w.series) {
		return nil
	}
	out := make([]SeriesPoint, w.n)
	for j := range out {
		out[j] = w.series[i][(w.start+j)%w.capacity]
	}
	return out
}

// Values returns the values of series i, oldest first.
func (w *Window) Values(i int) []float64 {
	points := w.Series(i)
	out := make([]float64, len(points))
	for j, p := range points {
		out[j] = p.Value
	}
	return out
}

// Latest returns the newest point of every series.
func (w *Window) Latest() ([]SeriesPoint, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	if w.n == 0 {
		return nil, false
	}
	idx := (w.start + w.n - 1) % w.capacity
	out := make([]SeriesPoint, len(w.series))
	for i := range w.series {
		out[i] = w.series[i][idx]
	}
	return out, true
}

// Board is the state a Client works against: the connection state and one
// window per chart group.
type Board struct {
	mu      sync.RWMutex
	state   ConnectionState
	size    int
	windows map[Group]*Window
}

// NewBoard creates a board whose windows hold windowSize points.
func NewBoard(windowSize int) *Board {
	if windowSize <= 0 {
		windowSize = DefaultWindowSize
	}
	b := &Board{state: StateClosed, size: windowSize, windows: make(map[Group]*Window, len(Groups))}
	for _, g := range Groups {
		b.windows[g] = NewWindow(windowSize, g.SeriesCount())
	}
	return b
}

// WindowSize returns the per-series capacity of the board's windows.
func (b *Board) WindowSize() int { return b.size }

// Window returns the window of group g, or nil for an unknown group.
func (b *Board) Window(g Group) *Window { return b.windows[g] }

// State returns the current connection state.
func (b *Board) State() ConnectionState {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.state
}

// setState stores s and returns the previous state.
func (b *Board) setState(s ConnectionState) ConnectionState {
	b.mu.Lock()
	defer b.mu.Unlock()
	old := b.state
	b.state = s
	return old
}
