// Package voice turns reply text into playable audio artifacts for
// voice-note delivery.
package voice

import (
	"context"
	"fmt"
	"os"
)

// Backend identifies which synthesis engine to use.
type Backend string

const (
	BackendOpenAI Backend = "openai"
	BackendLocal  Backend = "local"
)

// Artifact is a transient audio file produced by a synthesizer.
type Artifact struct {
	Path string
	MIME string
}

// Discard removes the artifact file. Best effort.
func (a Artifact) Discard() {
	if a.Path != "" {
		_ = os.Remove(a.Path)
	}
}

// Synthesizer produces an audio artifact from text.
type Synthesizer interface {
	// Synthesize renders text to an audio file and returns its handle.
	// An empty or missing output is an error, never a zero-byte artifact.
	Synthesize(ctx context.Context, text string) (Artifact, error)
}

// Config selects and configures a synthesis backend.
type Config struct {
	Backend     Backend
	ArtifactDir string

	// openai backend
	APIKey  string
	APIBase string
	Voice   string

	// local backend
	BinPath string
}

// NewSynthesizer creates a Synthesizer for the configured backend.
func NewSynthesizer(cfg Config) (Synthesizer, error) {
	if cfg.ArtifactDir == "" {
		return nil, fmt.Errorf("artifact directory is required")
	}
	if err := os.MkdirAll(cfg.ArtifactDir, 0700); err != nil {
		return nil, fmt.Errorf("create artifact directory: %w", err)
	}

	switch cfg.Backend {
	case BackendOpenAI:
		if cfg.APIKey == "" {
			return nil, fmt.Errorf("API key required for voice backend %q", cfg.Backend)
		}
		return newOpenAISynthesizer(cfg), nil
	case BackendLocal:
		if cfg.BinPath == "" {
			return nil, fmt.Errorf("binary path required for voice backend %q", cfg.Backend)
		}
		return newLocalSynthesizer(cfg), nil
	default:
		return nil, fmt.Errorf("unknown voice backend: %q", cfg.Backend)
	}
}

// verifyArtifact rejects missing or empty output files.
func verifyArtifact(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("synthesis produced no output: %w", err)
	}
	if info.Size() == 0 {
		_ = os.Remove(path)
		return fmt.Errorf("synthesis produced an empty file")
	}
	return nil
}
