// Package relay implements the admission and reply pipeline of the
// webhook-driven chat relay: gate the inbound event, classify the voice
// intent, build completion context from the conversation window, and deliver
// the reply over voice or text.
package relay

import "time"

// InboundEvent represents one webhook delivery from the chat bridge.
// It is constructed once per HTTP call and never mutated.
type InboundEvent struct {
	// Sender is the chat identifier the message came from.
	Sender string
	// FromMe is set when the event is an echo of a message the bot sent.
	FromMe bool
	// Timestamp is when the message was sent. Zero when the bridge did not
	// supply one.
	Timestamp time.Time
	// MessageID is the bridge's message identifier. Optional.
	MessageID string
	// Text is the message body. Empty for non-text events.
	Text string
}

// Status is the tag reported back to the webhook caller.
type Status string

const (
	StatusSuccess          Status = "success"
	StatusError            Status = "error"
	StatusIgnored          Status = "ignored"
	StatusIgnoredSelf      Status = "ignored_self"
	StatusIgnoredOld       Status = "ignored_old"
	StatusIgnoredNoText    Status = "ignored_no_text"
	StatusIgnoredDuplicate Status = "ignored_duplicate"
)

// Channel identifies the delivery channel actually used for a reply.
type Channel string

const (
	ChannelNone  Channel = "none"
	ChannelText  Channel = "text"
	ChannelVoice Channel = "voice"
)
