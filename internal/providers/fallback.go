package providers

import (
	"context"

	"github.com/rs/zerolog"
)

// ApologyReply is substituted when the wrapped provider fails, so the
// pipeline always has a human-readable reply to deliver.
const ApologyReply = "Sorry, I couldn't come up with a reply just now. Please try again in a moment."

// FallbackProvider wraps a Provider and converts failures into a fixed
// apology string instead of an error.
type FallbackProvider struct {
	inner Provider
	log   zerolog.Logger
}

// NewFallbackProvider wraps the given provider.
func NewFallbackProvider(inner Provider, log zerolog.Logger) *FallbackProvider {
	return &FallbackProvider{inner: inner, log: log}
}

// Name returns the wrapped provider's name.
func (p *FallbackProvider) Name() string {
	return p.inner.Name()
}

// Chat delegates to the wrapped provider. On failure or an empty reply it
// logs the cause and returns the apology string with a nil error.
func (p *FallbackProvider) Chat(ctx context.Context, messages []Message) (string, error) {
	reply, err := p.inner.Chat(ctx, messages)
	if err != nil {
		p.log.Error().Err(err).Str("provider", p.inner.Name()).Msg("completion failed, substituting apology")
		return ApologyReply, nil
	}
	if reply == "" {
		p.log.Warn().Str("provider", p.inner.Name()).Msg("empty completion, substituting apology")
		return ApologyReply, nil
	}
	return reply, nil
}
