package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/realtime-sdk/realtime"
)

type noticeMsg struct {
	level realtime.Style
	text  string
}

type chatMsg struct {
	style       realtime.Style
	nickHTML    string
	messageHTML string
}

type seriesMsg struct {
	group  realtime.Group
	points []realtime.SeriesPoint
	init   bool
}

// Sink forwards client output into a running bubbletea program.
type Sink struct {
	send func(tea.Msg)
}

// NewSink returns a sink posting to send, usually (*tea.Program).Send.
func NewSink(send func(tea.Msg)) *Sink {
	return &Sink{send: send}
}

func (s *Sink) AppendConnectivityNotice(level realtime.Style, text string) {
	s.send(noticeMsg{level: level, text: text})
}

func (s *Sink) AppendChatRow(style realtime.Style, nickHTML, messageHTML string) {
	s.send(chatMsg{style: style, nickHTML: nickHTML, messageHTML: messageHTML})
}

func (s *Sink) PushSeries(group realtime.Group, points []realtime.SeriesPoint) {
	s.send(seriesMsg{group: group, points: points})
}

func (s *Sink) InitSeries(group realtime.Group, seed []realtime.SeriesPoint) {
	s.send(seriesMsg{group: group, points: seed, init: true})
}
