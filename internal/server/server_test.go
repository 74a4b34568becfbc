package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/hkuds/warelay/internal/metrics"
	"github.com/hkuds/warelay/internal/providers"
	"github.com/hkuds/warelay/internal/relay"
	"github.com/hkuds/warelay/internal/voice"
)

const target = "15551234567@s.whatsapp.net"

type stubProvider struct {
	reply string
}

func (s *stubProvider) Name() string { return "stub" }

func (s *stubProvider) Chat(ctx context.Context, messages []providers.Message) (string, error) {
	return s.reply, nil
}

type stubSynth struct{}

func (s *stubSynth) Synthesize(ctx context.Context, text string) (voice.Artifact, error) {
	return voice.Artifact{}, fmt.Errorf("no tts in tests")
}

type recordingGateway struct {
	sentText []string
}

func (g *recordingGateway) SendText(ctx context.Context, recipient, text string) error {
	g.sentText = append(g.sentText, text)
	return nil
}

func (g *recordingGateway) SendVoice(ctx context.Context, recipient string, art voice.Artifact) error {
	return fmt.Errorf("no voice in tests")
}

func newTestServer(t *testing.T) (*Server, *recordingGateway) {
	t.Helper()
	gw := &recordingGateway{}
	m := metrics.New()
	pipeline, err := relay.NewPipeline(relay.PipelineConfig{
		Recipient:   target,
		Provider:    &stubProvider{reply: "osmosis is diffusion of water"},
		Synthesizer: &stubSynth{},
		Gateway:     gw,
		Log:         zerolog.Nop(),
		Metrics:     m,
	})
	if err != nil {
		t.Fatalf("NewPipeline: %v", err)
	}
	return New(pipeline, m, zerolog.Nop(), "test"), gw
}

func postWebhook(t *testing.T, s *Server, body string) statusResponse {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader(body))
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status code = %d, want 200", rec.Code)
	}
	var resp statusResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
	return resp
}

func eventBody(id, text string) string {
	return fmt.Sprintf(`{"from":%q,"fromMe":false,"timestamp":%d,"message":{"text":%q,"id":%q}}`,
		target, time.Now().Add(time.Minute).Unix(), text, id)
}

func TestWebhook_Success(t *testing.T) {
	s, gw := newTestServer(t)

	resp := postWebhook(t, s, eventBody("m1", "explain osmosis"))
	if resp.Status != relay.StatusSuccess {
		t.Errorf("status = %q, want success", resp.Status)
	}
	if len(gw.sentText) != 1 || gw.sentText[0] != "osmosis is diffusion of water" {
		t.Errorf("sentText = %v", gw.sentText)
	}
}

func TestWebhook_WrongSender(t *testing.T) {
	s, gw := newTestServer(t)

	body := fmt.Sprintf(`{"from":"stranger@s.whatsapp.net","fromMe":false,"timestamp":%d,"message":{"text":"hi","id":"m1"}}`,
		time.Now().Add(time.Minute).Unix())
	resp := postWebhook(t, s, body)
	if resp.Status != relay.StatusIgnored {
		t.Errorf("status = %q, want ignored", resp.Status)
	}
	if len(gw.sentText) != 0 {
		t.Errorf("sentText = %v, want none", gw.sentText)
	}
}

func TestWebhook_SelfEcho(t *testing.T) {
	s, _ := newTestServer(t)

	body := fmt.Sprintf(`{"from":%q,"fromMe":true,"timestamp":%d,"message":{"text":"hi","id":"m1"}}`,
		target, time.Now().Add(time.Minute).Unix())
	resp := postWebhook(t, s, body)
	if resp.Status != relay.StatusIgnoredSelf {
		t.Errorf("status = %q, want ignored_self", resp.Status)
	}
}

func TestWebhook_Stale(t *testing.T) {
	s, _ := newTestServer(t)

	body := fmt.Sprintf(`{"from":%q,"fromMe":false,"timestamp":1,"message":{"text":"hi","id":"m1"}}`, target)
	resp := postWebhook(t, s, body)
	if resp.Status != relay.StatusIgnoredOld {
		t.Errorf("status = %q, want ignored_old", resp.Status)
	}
}

func TestWebhook_NoText(t *testing.T) {
	s, _ := newTestServer(t)

	body := fmt.Sprintf(`{"from":%q,"fromMe":false,"timestamp":%d,"message":{"id":"m1"}}`,
		target, time.Now().Add(time.Minute).Unix())
	resp := postWebhook(t, s, body)
	if resp.Status != relay.StatusIgnoredNoText {
		t.Errorf("status = %q, want ignored_no_text", resp.Status)
	}
}

func TestWebhook_Duplicate(t *testing.T) {
	s, gw := newTestServer(t)

	first := postWebhook(t, s, eventBody("m1", "explain osmosis"))
	if first.Status != relay.StatusSuccess {
		t.Fatalf("first status = %q", first.Status)
	}
	second := postWebhook(t, s, eventBody("m1", "explain osmosis"))
	if second.Status != relay.StatusIgnoredDuplicate {
		t.Errorf("second status = %q, want ignored_duplicate", second.Status)
	}
	if len(gw.sentText) != 1 {
		t.Errorf("sentText = %v, want exactly one delivery", gw.sentText)
	}
}

func TestWebhook_MalformedBody(t *testing.T) {
	s, _ := newTestServer(t)

	resp := postWebhook(t, s, `{"from": nonsense`)
	if resp.Status != relay.StatusIgnoredNoText {
		t.Errorf("status = %q, want ignored_no_text", resp.Status)
	}
}

func TestWebhook_Identity(t *testing.T) {
	s, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/webhook", nil)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status code = %d", rec.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["service"] != "warelay" {
		t.Errorf("service = %q", body["service"])
	}
	if body["version"] != "test" {
		t.Errorf("version = %q", body["version"])
	}
}

func TestHealthz(t *testing.T) {
	s, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("status code = %d, want 200", rec.Code)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	s, _ := newTestServer(t)

	postWebhook(t, s, eventBody("m1", "explain osmosis"))

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status code = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "warelay_webhook_events_total") {
		t.Error("metrics output missing webhook events counter")
	}
}
