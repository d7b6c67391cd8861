// Package tui renders the realtime stream in a terminal: a chat log on the
// left and one braille chart per stats group on the right.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	styles "github.com/charmbracelet/lipgloss"
	plot "github.com/chriskim06/drawille-go"
	"github.com/dustin/go-humanize"

	"github.com/vovakirdan/realtime-sdk/realtime"
)

const (
	maxRows       = 500
	defaultWidth  = 100
	defaultHeight = 30
)

var (
	borderColor = styles.AdaptiveColor{Light: "#555", Dark: "#555"}
	paneStyle   = styles.NewStyle().
			BorderStyle(styles.NormalBorder()).
			BorderForeground(borderColor)
	titleStyle = styles.NewStyle().Bold(true)
	nickStyle  = styles.NewStyle().Bold(true)

	rowStyles = map[realtime.Style]styles.Style{
		realtime.StyleActive:  styles.NewStyle().Foreground(styles.AdaptiveColor{Light: "0", Dark: "15"}),
		realtime.StyleSuccess: styles.NewStyle().Foreground(styles.AdaptiveColor{Light: "2", Dark: "10"}),
		realtime.StyleInfo:    styles.NewStyle().Foreground(styles.AdaptiveColor{Light: "4", Dark: "12"}),
		realtime.StyleWarning: styles.NewStyle().Foreground(styles.AdaptiveColor{Light: "3", Dark: "11"}),
		realtime.StyleDanger:  styles.NewStyle().Foreground(styles.AdaptiveColor{Light: "1", Dark: "9"}),
	}

	seriesLabels = map[realtime.Group][]string{
		realtime.GroupHeap:     {"heap", "stack"},
		realtime.GroupMallocs:  {"mallocs", "frees"},
		realtime.GroupMessages: {"connected", "in", "out"},
	}
)

type row struct {
	style   realtime.Style
	notice  bool
	nick    string
	message string
}

// Model is the bubbletea model of the dashboard. It keeps its own windows:
// chart capacity and eviction belong to the display, not the client.
type Model struct {
	room    string
	windows map[realtime.Group]*realtime.Window
	rows    []row
	help    help.Model
	width   int
	height  int
}

// NewModel creates a dashboard for room whose charts span windowSize points.
func NewModel(room string, windowSize int) *Model {
	m := &Model{
		room:    room,
		windows: make(map[realtime.Group]*realtime.Window, len(realtime.Groups)),
		help:    help.New(),
		width:   defaultWidth,
		height:  defaultHeight,
	}
	for _, g := range realtime.Groups {
		m.windows[g] = realtime.NewWindow(windowSize, g.SeriesCount())
	}
	return m
}

func (m *Model) Init() tea.Cmd { return nil }

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, keys.Clear):
			m.rows = m.rows[:0]
		}
	case noticeMsg:
		m.appendRow(row{style: msg.level, notice: true, message: msg.text})
	case chatMsg:
		m.appendRow(row{
			style:   msg.style,
			nick:    realtime.PlainText(msg.nickHTML),
			message: realtime.PlainText(msg.messageHTML),
		})
	case seriesMsg:
		w := m.windows[msg.group]
		if w == nil {
			return m, nil
		}
		if msg.init {
			w.Fill(msg.points)
		} else {
			_ = w.Push(msg.points)
		}
	}
	return m, nil
}

func (m *Model) appendRow(r row) {
	m.rows = append(m.rows, r)
	if len(m.rows) > maxRows {
		m.rows = append(m.rows[:0], m.rows[len(m.rows)-maxRows:]...)
	}
}

func (m *Model) View() string {
	leftW := m.width * 2 / 5
	rightW := m.width - leftW - 4
	bodyH := m.height - 4
	if leftW < 20 || rightW < 20 || bodyH < 9 {
		return "terminal too small\n"
	}

	left := paneStyle.Width(leftW).Height(bodyH).Render(m.chatView(leftW, bodyH))

	chartH := bodyH/len(realtime.Groups) - 2
	var charts []string
	for _, g := range realtime.Groups {
		charts = append(charts, titleStyle.Render(m.chartTitle(g)), m.chartView(g, rightW, chartH))
	}
	right := paneStyle.Width(rightW).Height(bodyH).Render(styles.JoinVertical(styles.Left, charts...))

	header := titleStyle.Render("room " + m.room)
	view := styles.JoinHorizontal(styles.Top, left, right)
	return styles.JoinVertical(styles.Left, header, view, m.help.View(keys))
}

func (m *Model) chatView(width, height int) string {
	start := 0
	if len(m.rows) > height {
		start = len(m.rows) - height
	}
	lines := make([]string, 0, height)
	for _, r := range m.rows[start:] {
		st := rowStyles[r.style]
		var line string
		if r.notice {
			line = st.Italic(true).Render(r.message)
		} else {
			line = nickStyle.Inherit(st).Render(r.nick) + " " + st.Render(r.message)
		}
		lines = append(lines, styles.NewStyle().MaxWidth(width).Render(line))
	}
	return strings.Join(lines, "\n")
}

func (m *Model) chartTitle(g realtime.Group) string {
	latest, ok := m.windows[g].Latest()
	if !ok {
		return string(g)
	}
	labels := seriesLabels[g]
	parts := make([]string, len(latest))
	for i, p := range latest {
		parts[i] = labels[i] + " " + formatValue(g, p.Value)
	}
	return fmt.Sprintf("%s  %s", g, strings.Join(parts, "  "))
}

func (m *Model) chartView(g realtime.Group, width, height int) string {
	w := m.windows[g]
	if w.Len() == 0 || height <= 0 {
		return ""
	}
	canvas := plot.NewCanvas(width, height)
	canvas.NumDataPoints = w.Capacity()
	canvas.ShowAxis = false
	canvas.LineColors = seriesColors(w.SeriesCount())
	data := make([][]float64, w.SeriesCount())
	for i := range data {
		data[i] = w.Values(i)
	}
	canvas.Fill(data)
	return canvas.String()
}

func seriesColors(n int) []plot.Color {
	var palette []plot.Color
	if styles.DefaultRenderer().HasDarkBackground() {
		palette = []plot.Color{plot.Red, plot.LightGray, plot.DimGray}
	} else {
		palette = []plot.Color{plot.Red, plot.Black, plot.DimGray}
	}
	out := make([]plot.Color, n)
	for i := range out {
		out[i] = palette[i%len(palette)]
	}
	return out
}

func formatValue(g realtime.Group, v float64) string {
	if v < 0 {
		return fmt.Sprintf("%.0f", v)
	}
	if g == realtime.GroupHeap {
		return humanize.Bytes(uint64(v))
	}
	return humanize.Comma(int64(v))
}
