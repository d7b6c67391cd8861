package realtime

import (
	"html"
	"strings"
	"unicode"
	"unicode/utf16"
)

// Style is a display class. Chat rows get one from the sender nick;
// connectivity notices use it as their severity.
type Style int

const (
	StyleActive Style = iota
	StyleSuccess
	StyleInfo
	StyleWarning
	StyleDanger
)

// styleCount is the number of buckets a nick can fall into.
const styleCount = 5

// String returns the class name of the style.
func (s Style) String() string {
	switch s {
	case StyleActive:
		return "active"
	case StyleSuccess:
		return "success"
	case StyleInfo:
		return "info"
	case StyleWarning:
		return "warning"
	case StyleDanger:
		return "danger"
	default:
		return "unknown"
	}
}

var htmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#39;",
	"/", "&#x2F;",
)

// EscapeHTML replaces & < > " ' and / with their entities in a single pass.
func EscapeHTML(s string) string {
	return htmlEscaper.Replace(s)
}

// PlainText turns an escaped chat field back into text for a terminal.
// Control characters are dropped so a payload cannot emit escape sequences.
func PlainText(escaped string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, html.UnescapeString(escaped))
}

// HashCode computes acc = acc*31 + c over the UTF-16 code units of s with
// 32-bit signed wraparound and returns the absolute value. The result is
// stable across processes and platforms.
func HashCode(s string) int64 {
	var acc int32
	for _, c := range utf16.Encode([]rune(s)) {
		acc = (acc << 5) - acc + int32(c)
	}
	h := int64(acc)
	if h < 0 {
		h = -h
	}
	return h
}

// StyleFor returns the style bucket of a raw, unescaped nick.
func StyleFor(nick string) Style {
	return Style(HashCode(nick) % styleCount)
}
