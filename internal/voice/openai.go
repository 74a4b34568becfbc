package voice

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	openai "github.com/sashabaranov/go-openai"
)

// httpTimeout applies to each synthesis call.
const httpTimeout = 30 * time.Second

// openAISynthesizer renders speech via the OpenAI audio/speech endpoint.
// Output is Opus-in-Ogg, the format WhatsApp voice notes use.
type openAISynthesizer struct {
	client *openai.Client
	voice  string
	dir    string
}

func newOpenAISynthesizer(cfg Config) *openAISynthesizer {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.APIBase != "" {
		clientCfg.BaseURL = strings.TrimSuffix(cfg.APIBase, "/")
	}
	clientCfg.HTTPClient = &http.Client{Timeout: httpTimeout}

	voiceName := cfg.Voice
	if voiceName == "" {
		voiceName = string(openai.VoiceAlloy)
	}

	return &openAISynthesizer{
		client: openai.NewClientWithConfig(clientCfg),
		voice:  voiceName,
		dir:    cfg.ArtifactDir,
	}
}

// Synthesize renders text to an Ogg/Opus file in the artifact directory.
func (s *openAISynthesizer) Synthesize(ctx context.Context, text string) (Artifact, error) {
	resp, err := s.client.CreateSpeech(ctx, openai.CreateSpeechRequest{
		Model:          openai.TTSModel1,
		Input:          text,
		Voice:          openai.SpeechVoice(s.voice),
		ResponseFormat: openai.SpeechResponseFormatOpus,
	})
	if err != nil {
		return Artifact{}, fmt.Errorf("speech request failed: %w", err)
	}
	defer resp.Close()

	path := filepath.Join(s.dir, uuid.New().String()+".ogg")
	out, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return Artifact{}, fmt.Errorf("create artifact file: %w", err)
	}
	if _, err := io.Copy(out, resp); err != nil {
		out.Close()
		_ = os.Remove(path)
		return Artifact{}, fmt.Errorf("write artifact file: %w", err)
	}
	if err := out.Close(); err != nil {
		_ = os.Remove(path)
		return Artifact{}, fmt.Errorf("close artifact file: %w", err)
	}

	if err := verifyArtifact(path); err != nil {
		return Artifact{}, err
	}

	return Artifact{Path: path, MIME: "audio/ogg; codecs=opus"}, nil
}
