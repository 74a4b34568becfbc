// Package channels implements the chat delivery gateway: an HTTP client for
// a whatsmeow-style WhatsApp bridge REST API.
package channels

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/hkuds/warelay/internal/voice"
)

// httpTimeout applies to each bridge call. No retries; delivery is
// fire-and-forget beyond awaiting completion or failure.
const httpTimeout = 30 * time.Second

// BridgeClient sends messages through the WhatsApp bridge.
type BridgeClient struct {
	baseURL string
	client  *http.Client
}

// Option configures a BridgeClient.
type Option func(*BridgeClient)

// WithHTTPClient sets a custom HTTP client (useful for testing).
func WithHTTPClient(client *http.Client) Option {
	return func(c *BridgeClient) {
		c.client = client
	}
}

// NewBridgeClient creates a client for the bridge at baseURL.
func NewBridgeClient(baseURL string, opts ...Option) *BridgeClient {
	c := &BridgeClient{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		client:  &http.Client{Timeout: httpTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// textRequest is the wire format for plain-text sends.
type textRequest struct {
	To   string `json:"to"`
	Text string `json:"text"`
}

// SendText delivers a plain-text message to the recipient.
func (c *BridgeClient) SendText(ctx context.Context, recipient, text string) error {
	body, err := json.Marshal(textRequest{To: recipient, Text: text})
	if err != nil {
		return fmt.Errorf("marshal text request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/send/text", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	return c.do(req)
}

// SendVoice delivers an audio artifact as a push-to-talk voice note.
func (c *BridgeClient) SendVoice(ctx context.Context, recipient string, art voice.Artifact) error {
	file, err := os.Open(art.Path)
	if err != nil {
		return fmt.Errorf("open artifact: %w", err)
	}
	defer file.Close()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	if err := writer.WriteField("to", recipient); err != nil {
		return fmt.Errorf("write recipient field: %w", err)
	}
	// The bridge tags ptt uploads as voice notes rather than file attachments.
	if err := writer.WriteField("ptt", "true"); err != nil {
		return fmt.Errorf("write ptt field: %w", err)
	}
	if err := writer.WriteField("mime_type", art.MIME); err != nil {
		return fmt.Errorf("write mime field: %w", err)
	}

	part, err := writer.CreateFormFile("file", filepath.Base(art.Path))
	if err != nil {
		return fmt.Errorf("create form file: %w", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return fmt.Errorf("write audio data: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("close multipart writer: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/send/voice", &buf)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	return c.do(req)
}

func (c *BridgeClient) do(req *http.Request) error {
	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("bridge request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("bridge returned status %d: %s", resp.StatusCode, body)
	}
	return nil
}
