package voice

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

func TestNewSynthesizer_UnknownBackend(t *testing.T) {
	_, err := NewSynthesizer(Config{Backend: "festival", ArtifactDir: t.TempDir()})
	if err == nil {
		t.Fatal("expected error for unknown backend")
	}
	if !strings.Contains(err.Error(), "unknown voice backend") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestNewSynthesizer_OpenAIRequiresKey(t *testing.T) {
	_, err := NewSynthesizer(Config{Backend: BackendOpenAI, ArtifactDir: t.TempDir()})
	if err == nil {
		t.Fatal("expected error for missing API key")
	}
}

func TestNewSynthesizer_LocalRequiresBinary(t *testing.T) {
	_, err := NewSynthesizer(Config{Backend: BackendLocal, ArtifactDir: t.TempDir()})
	if err == nil {
		t.Fatal("expected error for missing binary path")
	}
}

func TestOpenAISynthesize_WritesArtifact(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/audio/speech" {
			t.Errorf("path = %q, want /audio/speech", r.URL.Path)
		}
		w.Header().Set("Content-Type", "audio/ogg")
		_, _ = w.Write([]byte("OggS fake audio bytes"))
	}))
	defer ts.Close()

	dir := t.TempDir()
	s, err := NewSynthesizer(Config{
		Backend:     BackendOpenAI,
		ArtifactDir: dir,
		APIKey:      "test-key",
		APIBase:     ts.URL,
	})
	if err != nil {
		t.Fatalf("NewSynthesizer: %v", err)
	}

	art, err := s.Synthesize(context.Background(), "hello world")
	if err != nil {
		t.Fatalf("Synthesize: %v", err)
	}
	defer art.Discard()

	if art.MIME != "audio/ogg; codecs=opus" {
		t.Errorf("MIME = %q", art.MIME)
	}
	data, err := os.ReadFile(art.Path)
	if err != nil {
		t.Fatalf("read artifact: %v", err)
	}
	if string(data) != "OggS fake audio bytes" {
		t.Errorf("artifact content = %q", data)
	}
}

func TestOpenAISynthesize_EmptyResponse(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer ts.Close()

	s, err := NewSynthesizer(Config{
		Backend:     BackendOpenAI,
		ArtifactDir: t.TempDir(),
		APIKey:      "test-key",
		APIBase:     ts.URL,
	})
	if err != nil {
		t.Fatalf("NewSynthesizer: %v", err)
	}

	if _, err := s.Synthesize(context.Background(), "hello"); err == nil {
		t.Fatal("expected error for empty synthesis output")
	}
}

// fakeBin writes a shell script that copies its input text into the target
// file, mimicking an espeak-style `-w <file> <text>` interface.
func fakeBin(t *testing.T, body string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell script fixture requires a POSIX shell")
	}
	path := filepath.Join(t.TempDir(), "fakespeak")
	script := "#!/bin/sh\n" + body + "\n"
	if err := os.WriteFile(path, []byte(script), 0700); err != nil {
		t.Fatalf("write fake binary: %v", err)
	}
	return path
}

func TestLocalSynthesize_WritesArtifact(t *testing.T) {
	bin := fakeBin(t, `printf '%s' "$3" > "$2"`)

	s, err := NewSynthesizer(Config{
		Backend:     BackendLocal,
		ArtifactDir: t.TempDir(),
		BinPath:     bin,
	})
	if err != nil {
		t.Fatalf("NewSynthesizer: %v", err)
	}

	art, err := s.Synthesize(context.Background(), "spoken reply")
	if err != nil {
		t.Fatalf("Synthesize: %v", err)
	}
	defer art.Discard()

	if art.MIME != "audio/wav" {
		t.Errorf("MIME = %q, want audio/wav", art.MIME)
	}
	data, err := os.ReadFile(art.Path)
	if err != nil {
		t.Fatalf("read artifact: %v", err)
	}
	if string(data) != "spoken reply" {
		t.Errorf("artifact content = %q", data)
	}
}

func TestLocalSynthesize_BinaryFailure(t *testing.T) {
	bin := fakeBin(t, `exit 1`)

	s, err := NewSynthesizer(Config{
		Backend:     BackendLocal,
		ArtifactDir: t.TempDir(),
		BinPath:     bin,
	})
	if err != nil {
		t.Fatalf("NewSynthesizer: %v", err)
	}

	if _, err := s.Synthesize(context.Background(), "hello"); err == nil {
		t.Fatal("expected error when binary exits non-zero")
	}
}

func TestLocalSynthesize_EmptyOutput(t *testing.T) {
	bin := fakeBin(t, `: > "$2"`)

	s, err := NewSynthesizer(Config{
		Backend:     BackendLocal,
		ArtifactDir: t.TempDir(),
		BinPath:     bin,
	})
	if err != nil {
		t.Fatalf("NewSynthesizer: %v", err)
	}

	if _, err := s.Synthesize(context.Background(), "hello"); err == nil {
		t.Fatal("expected error for empty output file")
	}
}
