package realtime

import "strings"

// ChatMessage is a chat payload as received, unescaped and untrusted.
type ChatMessage struct {
	Nick    string `json:"nick"`
	Message string `json:"message"`
}

// ChatRecord is a chat message ready for display: both text fields are
// HTML-escaped and Style is derived from the raw nick.
type ChatRecord struct {
	Style       Style
	NickHTML    string
	MessageHTML string
}

type chatPayload struct {
	Nick    *string `json:"nick"`
	Message *string `json:"message"`
}

// DecodeMessage parses and sanitizes a chat payload.
func DecodeMessage(data string) (ChatMessage, ChatRecord, error) {
	var p chatPayload
	if err := json.UnmarshalFromString(data, &p); err != nil {
		return ChatMessage{}, ChatRecord{}, WrapError(ErrorMalformedPayload, "failed to parse message event", err)
	}
	var missing []string
	if p.Nick == nil {
		missing = append(missing, "nick")
	}
	if p.Message == nil {
		missing = append(missing, "message")
	}
	if len(missing) > 0 {
		return ChatMessage{}, ChatRecord{}, NewError(ErrorIncompletePayload, "message event missing "+strings.Join(missing, ", "))
	}
	msg := ChatMessage{Nick: *p.Nick, Message: *p.Message}
	return msg, msg.Sanitize(), nil
}

// Sanitize escapes the message for display and assigns its style.
func (m ChatMessage) Sanitize() ChatRecord {
	return ChatRecord{
		Style:       StyleFor(m.Nick),
		NickHTML:    EscapeHTML(m.Nick),
		MessageHTML: EscapeHTML(m.Message),
	}
}
