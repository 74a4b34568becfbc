package config

// Config represents the root configuration for warelay.
type Config struct {
	// HTTPAddr is the listen address for the webhook server.
	HTTPAddr string

	// TargetRecipient is the single chat identifier the relay serves.
	// Events from any other sender are ignored.
	TargetRecipient string

	// SystemPrompt is prepended to every completion request. Optional.
	SystemPrompt string

	Completion CompletionConfig
	Speech     SpeechConfig
	Bridge     BridgeConfig
	Log        LogConfig
}

// CompletionConfig holds completion engine settings.
type CompletionConfig struct {
	APIKey      string
	APIBase     string // OpenAI-compatible base URL, e.g. https://api.openai.com/v1
	Model       string
	MaxTokens   int
	Temperature float64
}

// SpeechConfig holds speech synthesis settings.
type SpeechConfig struct {
	// Backend selects the synthesizer: "openai" or "local".
	Backend string
	// Voice is the voice identifier for the openai backend.
	Voice string
	// LocalBin is the path to the synthesis binary for the local backend.
	LocalBin string
	// ArtifactDir is where transient audio files are written.
	ArtifactDir string
}

// BridgeConfig holds the chat delivery gateway settings.
type BridgeConfig struct {
	// URL is the base URL of the WhatsApp bridge REST API.
	URL string
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string
	Pretty bool
}
