package server

import (
	"time"

	"github.com/hkuds/warelay/internal/relay"
)

// envelope is the bridge's webhook wire format. Fields may arrive at the
// top level or nested under message; the nested values win when present.
type envelope struct {
	From      string `json:"from"`
	FromMe    bool   `json:"fromMe"`
	Timestamp int64  `json:"timestamp"` // seconds
	ID        string `json:"id"`
	Text      string `json:"text"`
	Message   *struct {
		ID        string `json:"id"`
		Text      string `json:"text"`
		Timestamp int64  `json:"timestamp"`
	} `json:"message"`
}

func (e *envelope) toEvent() relay.InboundEvent {
	ev := relay.InboundEvent{
		Sender:    e.From,
		FromMe:    e.FromMe,
		MessageID: e.ID,
		Text:      e.Text,
	}

	ts := e.Timestamp
	if e.Message != nil {
		if e.Message.ID != "" {
			ev.MessageID = e.Message.ID
		}
		if e.Message.Text != "" {
			ev.Text = e.Message.Text
		}
		if e.Message.Timestamp != 0 {
			ts = e.Message.Timestamp
		}
	}
	if ts != 0 {
		ev.Timestamp = time.Unix(ts, 0)
	}

	return ev
}
