package ports

import (
	"context"
	"time"

	"github.com/forPelevin/hlshorts/internal/types"
)

type VideoTool interface {
	ExtractAudioMono16k(ctx context.Context, inMP4, outWav string) error
	CutClip(ctx context.Context, inMP4 string, start, end time.Duration, outMP4 string) error
	BurnSubtitles(ctx context.Context, inMP4, subtitles, outMP4 string) error
	Concat(ctx context.Context, clips []string, outMP4 string) error
	MediaDuration(ctx context.Context, inMP4 string) (time.Duration, error)
}

type ASR interface {
	Transcribe(ctx context.Context, wavPath, cacheDir string) (types.Transcript, error)
}
