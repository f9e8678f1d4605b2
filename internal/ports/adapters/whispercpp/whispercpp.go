package whispercpp

import (
	"context"
	"fmt"
	"os/exec"
	"path/filepath"

	"github.com/forPelevin/hlshorts/internal/ports/adapters/transcriptfile"
	"github.com/forPelevin/hlshorts/internal/types"
)

type Adapter struct {
	bin      string
	model    string
	language string
}

func New(binPath, modelPath, language string) *Adapter {
	if language == "" {
		language = "auto"
	}
	return &Adapter{bin: binPath, model: modelPath, language: language}
}

func (a *Adapter) Transcribe(ctx context.Context, wavPath, cacheDir string) (types.Transcript, error) {
	outPrefix := filepath.Join(cacheDir, "whisper")
	cmd := exec.CommandContext(ctx, a.bin, a.args(wavPath, outPrefix)...)
	b, err := cmd.CombinedOutput()
	if err != nil {
		return types.Transcript{}, fmt.Errorf("whisper.cpp failed: %w\n%s", err, string(b))
	}

	tr, err := transcriptfile.Load(outPrefix + ".json")
	if err != nil {
		return types.Transcript{}, fmt.Errorf("whisper.cpp output: %w", err)
	}
	return tr, nil
}

func (a *Adapter) args(wavPath, outPrefix string) []string {
	return []string{
		"-m", a.model,
		"-f", wavPath,
		"-l", a.language,
		"-oj",
		"-of", outPrefix,
	}
}
