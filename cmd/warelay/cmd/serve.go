package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/hkuds/warelay/internal/channels"
	"github.com/hkuds/warelay/internal/config"
	"github.com/hkuds/warelay/internal/logger"
	"github.com/hkuds/warelay/internal/metrics"
	"github.com/hkuds/warelay/internal/providers"
	"github.com/hkuds/warelay/internal/relay"
	"github.com/hkuds/warelay/internal/server"
	"github.com/hkuds/warelay/internal/voice"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the webhook relay",
	Long:  "Start the HTTP server that receives bridge webhooks and relays messages between the chat and the completion engine.",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	log := logger.New(logger.Config{
		Level:  cfg.Log.Level,
		Pretty: cfg.Log.Pretty,
	})

	m := metrics.New()

	provider := providers.NewFallbackProvider(
		providers.NewOpenAIProvider(providers.OpenAIOptions{
			APIKey:      cfg.Completion.APIKey,
			APIBase:     cfg.Completion.APIBase,
			Model:       cfg.Completion.Model,
			MaxTokens:   cfg.Completion.MaxTokens,
			Temperature: cfg.Completion.Temperature,
		}),
		log,
	)

	synth, err := voice.NewSynthesizer(voice.Config{
		Backend:     voice.Backend(cfg.Speech.Backend),
		ArtifactDir: cfg.Speech.ArtifactDir,
		APIKey:      cfg.Completion.APIKey,
		APIBase:     cfg.Completion.APIBase,
		Voice:       cfg.Speech.Voice,
		BinPath:     cfg.Speech.LocalBin,
	})
	if err != nil {
		return fmt.Errorf("failed to create synthesizer: %w", err)
	}

	gateway := channels.NewBridgeClient(cfg.Bridge.URL)

	pipeline, err := relay.NewPipeline(relay.PipelineConfig{
		Recipient:    cfg.TargetRecipient,
		SystemPrompt: cfg.SystemPrompt,
		Provider:     provider,
		Synthesizer:  synth,
		Gateway:      gateway,
		Log:          log,
		Metrics:      m,
	})
	if err != nil {
		return fmt.Errorf("failed to create pipeline: %w", err)
	}

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           server.New(pipeline, m, log, Version),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().
			Str("addr", cfg.HTTPAddr).
			Str("recipient", cfg.TargetRecipient).
			Str("model", cfg.Completion.Model).
			Str("tts_backend", cfg.Speech.Backend).
			Msg("webhook relay listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case sig := <-sigCh:
		log.Info().Str("signal", sig.String()).Msg("shutting down")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown failed: %w", err)
	}

	return nil
}
