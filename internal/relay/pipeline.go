package relay

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/hkuds/warelay/internal/metrics"
	"github.com/hkuds/warelay/internal/providers"
	"github.com/hkuds/warelay/internal/voice"
)

// maxSpeechChars bounds the text handed to the synthesizer.
const maxSpeechChars = 1500

// Gateway is the chat delivery side consumed by the pipeline.
type Gateway interface {
	// SendText delivers a plain-text message to the recipient.
	SendText(ctx context.Context, recipient, text string) error
	// SendVoice delivers an audio artifact as a push-to-talk voice note.
	SendVoice(ctx context.Context, recipient string, artifact voice.Artifact) error
}

// Outcome is the result of handling one inbound event. It is always benign
// from the webhook caller's perspective; the HTTP layer answers 200 for
// every status tag.
type Outcome struct {
	Status  Status
	Channel Channel
	Reply   string
}

// Pipeline runs an admitted event through classification, completion and
// delivery. It exclusively owns the gate and the conversation window.
type Pipeline struct {
	gate       *Gate
	window     *Window
	classifier Classifier
	provider   providers.Provider
	synth      voice.Synthesizer
	gateway    Gateway

	recipient    string
	systemPrompt string

	log     zerolog.Logger
	metrics *metrics.Metrics
}

// PipelineConfig contains the collaborators for a Pipeline.
type PipelineConfig struct {
	Recipient    string
	SystemPrompt string
	Classifier   Classifier
	Provider     providers.Provider
	Synthesizer  voice.Synthesizer
	Gateway      Gateway
	Log          zerolog.Logger
	Metrics      *metrics.Metrics
}

// NewPipeline creates a Pipeline with a fresh gate and conversation window.
// The gate's epoch is captured here, so messages queued before startup are
// rejected as stale.
func NewPipeline(cfg PipelineConfig) (*Pipeline, error) {
	if cfg.Recipient == "" {
		return nil, fmt.Errorf("recipient is required")
	}
	if cfg.Provider == nil {
		return nil, fmt.Errorf("provider is required")
	}
	if cfg.Gateway == nil {
		return nil, fmt.Errorf("gateway is required")
	}
	if cfg.Synthesizer == nil {
		return nil, fmt.Errorf("synthesizer is required")
	}
	if cfg.Metrics == nil {
		return nil, fmt.Errorf("metrics is required")
	}
	classifier := cfg.Classifier
	if classifier == nil {
		classifier = NewKeywordClassifier()
	}

	return &Pipeline{
		gate:         NewGate(cfg.Recipient),
		window:       NewWindow(),
		classifier:   classifier,
		provider:     cfg.Provider,
		synth:        cfg.Synthesizer,
		gateway:      cfg.Gateway,
		recipient:    cfg.Recipient,
		systemPrompt: cfg.SystemPrompt,
		log:          cfg.Log,
		metrics:      cfg.Metrics,
	}, nil
}

// Handle processes one inbound event end to end and returns the outcome.
// It never returns an error; every failure class maps to a status tag.
func (p *Pipeline) Handle(ctx context.Context, ev InboundEvent) Outcome {
	decision := p.gate.Admit(ev)
	if !decision.Proceed {
		p.log.Debug().
			Str("sender", ev.Sender).
			Str("message_id", ev.MessageID).
			Str("reason", string(decision.Reason)).
			Msg("event rejected")
		p.metrics.WebhookEvents.WithLabelValues(string(decision.Reason)).Inc()
		return Outcome{Status: decision.Reason, Channel: ChannelNone}
	}

	cls := p.classifier.Classify(decision.Text)
	p.window.Append(RoleUser, cls.Cleaned)

	start := time.Now()
	reply, err := p.provider.Chat(ctx, p.buildMessages())
	p.metrics.CompletionDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		// Providers are normally wrapped so completion failures surface as
		// the apology string; this path covers an unwrapped provider.
		p.log.Error().Err(err).Msg("completion failed")
		reply = providers.ApologyReply
	}

	p.window.Append(RoleAssistant, reply)

	channel, err := p.deliver(ctx, cls.WantsVoice, reply)
	status := StatusSuccess
	if err != nil {
		p.log.Error().Err(err).Msg("all delivery attempts failed")
		status = StatusError
	}

	p.log.Info().
		Str("status", string(status)).
		Str("channel", string(channel)).
		Bool("wants_voice", cls.WantsVoice).
		Msg("event handled")
	p.metrics.WebhookEvents.WithLabelValues(string(status)).Inc()

	return Outcome{Status: status, Channel: channel, Reply: reply}
}

// deliveryAttempt is one strategy in the ordered delivery chain.
type deliveryAttempt struct {
	channel Channel
	send    func(context.Context) error
}

// deliver tries the delivery strategies in order; first success wins.
// A voice request degrades to text when synthesis or the voice upload fails.
func (p *Pipeline) deliver(ctx context.Context, wantsVoice bool, reply string) (Channel, error) {
	var attempts []deliveryAttempt
	if wantsVoice {
		attempts = append(attempts, deliveryAttempt{
			channel: ChannelVoice,
			send: func(ctx context.Context) error {
				return p.sendVoice(ctx, reply)
			},
		})
	}
	attempts = append(attempts, deliveryAttempt{
		channel: ChannelText,
		send: func(ctx context.Context) error {
			return p.gateway.SendText(ctx, p.recipient, reply)
		},
	})

	var lastErr error
	for _, att := range attempts {
		if err := att.send(ctx); err != nil {
			lastErr = err
			p.log.Warn().Err(err).Str("channel", string(att.channel)).Msg("delivery attempt failed")
			if att.channel == ChannelVoice {
				p.metrics.VoiceFallbacks.Inc()
			}
			continue
		}
		p.metrics.Deliveries.WithLabelValues(string(att.channel)).Inc()
		return att.channel, nil
	}
	return ChannelNone, lastErr
}

func (p *Pipeline) sendVoice(ctx context.Context, reply string) error {
	art, err := p.synth.Synthesize(ctx, truncateRunes(reply, maxSpeechChars))
	if err != nil {
		return fmt.Errorf("synthesize: %w", err)
	}
	defer art.Discard()

	return p.gateway.SendVoice(ctx, p.recipient, art)
}

// buildMessages assembles the completion request: optional system prompt
// followed by the window snapshot, whose newest turn is the cleaned text.
func (p *Pipeline) buildMessages() []providers.Message {
	turns := p.window.Snapshot()
	messages := make([]providers.Message, 0, len(turns)+1)
	if p.systemPrompt != "" {
		messages = append(messages, providers.Message{Role: providers.RoleSystem, Content: p.systemPrompt})
	}
	for _, turn := range turns {
		messages = append(messages, providers.Message{Role: turn.Role, Content: turn.Text})
	}
	return messages
}

func truncateRunes(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
