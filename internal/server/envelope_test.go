package server

import (
	"encoding/json"
	"testing"
	"time"
)

func TestEnvelope_NestedFieldsWin(t *testing.T) {
	raw := `{"from":"a@s.whatsapp.net","fromMe":false,"timestamp":100,"id":"outer","text":"outer text","message":{"id":"inner","text":"inner text","timestamp":200}}`
	var env envelope
	if err := json.Unmarshal([]byte(raw), &env); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	ev := env.toEvent()
	if ev.MessageID != "inner" {
		t.Errorf("MessageID = %q, want inner", ev.MessageID)
	}
	if ev.Text != "inner text" {
		t.Errorf("Text = %q, want inner text", ev.Text)
	}
	if !ev.Timestamp.Equal(time.Unix(200, 0)) {
		t.Errorf("Timestamp = %v, want %v", ev.Timestamp, time.Unix(200, 0))
	}
}

func TestEnvelope_TopLevelFallback(t *testing.T) {
	raw := `{"from":"a@s.whatsapp.net","timestamp":100,"id":"outer","text":"hello"}`
	var env envelope
	if err := json.Unmarshal([]byte(raw), &env); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	ev := env.toEvent()
	if ev.MessageID != "outer" || ev.Text != "hello" {
		t.Errorf("event = %+v", ev)
	}
	if !ev.Timestamp.Equal(time.Unix(100, 0)) {
		t.Errorf("Timestamp = %v", ev.Timestamp)
	}
}

func TestEnvelope_MissingTimestamp(t *testing.T) {
	raw := `{"from":"a@s.whatsapp.net","message":{"id":"m1","text":"hi"}}`
	var env envelope
	if err := json.Unmarshal([]byte(raw), &env); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	ev := env.toEvent()
	if !ev.Timestamp.IsZero() {
		t.Errorf("Timestamp = %v, want zero", ev.Timestamp)
	}
}
