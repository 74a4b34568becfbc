package voice

import (
	"context"
	"fmt"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

// execTimeout bounds a single synthesis run of the local binary.
const execTimeout = 30 * time.Second

// localSynthesizer shells out to an espeak-ng style binary that accepts
// `-w <file> <text>` and writes a wav.
type localSynthesizer struct {
	bin string
	dir string
}

func newLocalSynthesizer(cfg Config) *localSynthesizer {
	return &localSynthesizer{bin: cfg.BinPath, dir: cfg.ArtifactDir}
}

// Synthesize runs the local binary and returns the resulting wav file.
func (s *localSynthesizer) Synthesize(ctx context.Context, text string) (Artifact, error) {
	ctx, cancel := context.WithTimeout(ctx, execTimeout)
	defer cancel()

	path := filepath.Join(s.dir, uuid.New().String()+".wav")
	cmd := exec.CommandContext(ctx, s.bin, "-w", path, text)
	if out, err := cmd.CombinedOutput(); err != nil {
		return Artifact{}, fmt.Errorf("synthesis binary failed: %w: %s", err, out)
	}

	if err := verifyArtifact(path); err != nil {
		return Artifact{}, err
	}

	return Artifact{Path: path, MIME: "audio/wav"}, nil
}
