package ffmpeg

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

type Adapter struct {
	ffmpeg  string
	ffprobe string
}

func New(ffmpegPath, ffprobePath string) *Adapter {
	if ffmpegPath == "" {
		ffmpegPath = "ffmpeg"
	}
	if ffprobePath == "" {
		ffprobePath = "ffprobe"
	}
	return &Adapter{ffmpeg: ffmpegPath, ffprobe: ffprobePath}
}

func (a *Adapter) ExtractAudioMono16k(ctx context.Context, inMP4, outWav string) error {
	return a.run(ctx, "extract audio",
		"-y",
		"-i", inMP4,
		"-vn",
		"-ac", "1",
		"-ar", "16000",
		"-f", "wav",
		outWav,
	)
}

// CutClip copies the [start, end] range without re-encoding.
func (a *Adapter) CutClip(ctx context.Context, inMP4 string, start, end time.Duration, outMP4 string) error {
	return a.run(ctx, "cut clip", cutArgs(inMP4, start, end, outMP4)...)
}

// BurnSubtitles re-encodes inMP4 with the subtitle file rendered into the picture.
func (a *Adapter) BurnSubtitles(ctx context.Context, inMP4, subtitles, outMP4 string) error {
	return a.run(ctx, "burn subtitles", burnArgs(inMP4, subtitles, outMP4)...)
}

// Concat joins clips that share codecs into a single file using the concat demuxer.
func (a *Adapter) Concat(ctx context.Context, clips []string, outMP4 string) error {
	if len(clips) == 0 {
		return fmt.Errorf("ffmpeg concat: no clips")
	}
	list := strings.TrimSuffix(outMP4, filepath.Ext(outMP4)) + ".txt"
	if err := os.WriteFile(list, []byte(concatList(clips)), 0o644); err != nil {
		return fmt.Errorf("ffmpeg concat list: %w", err)
	}
	return a.run(ctx, "concat",
		"-y",
		"-f", "concat",
		"-safe", "0",
		"-i", list,
		"-c", "copy",
		outMP4,
	)
}

func (a *Adapter) MediaDuration(ctx context.Context, inMP4 string) (time.Duration, error) {
	cmd := exec.CommandContext(ctx, a.ffprobe,
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		inMP4,
	)
	b, err := cmd.CombinedOutput()
	if err != nil {
		return 0, fmt.Errorf("ffprobe duration: %w\n%s", err, string(b))
	}
	s := strings.TrimSpace(string(b))
	sec, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("parse duration %q: %w", s, err)
	}
	return time.Duration(sec * float64(time.Second)), nil
}

func (a *Adapter) run(ctx context.Context, step string, args ...string) error {
	cmd := exec.CommandContext(ctx, a.ffmpeg, args...)
	b, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("ffmpeg %s: %w\n%s", step, err, string(b))
	}
	return nil
}

func cutArgs(inMP4 string, start, end time.Duration, outMP4 string) []string {
	return []string{
		"-y",
		"-ss", fmtSeconds(start),
		"-to", fmtSeconds(end),
		"-i", inMP4,
		"-c", "copy",
		outMP4,
	}
}

func burnArgs(inMP4, subtitles, outMP4 string) []string {
	return []string{
		"-y",
		"-i", inMP4,
		"-vf", "subtitles=" + escapeFilterPath(subtitles),
		"-c:v", "libx264",
		"-preset", "veryfast",
		"-crf", "18",
		"-c:a", "aac",
		"-b:a", "192k",
		outMP4,
	}
}

func concatList(clips []string) string {
	var b strings.Builder
	for _, c := range clips {
		abs, err := filepath.Abs(c)
		if err != nil {
			abs = c
		}
		b.WriteString("file '")
		b.WriteString(strings.ReplaceAll(filepath.ToSlash(abs), "'", `'\''`))
		b.WriteString("'\n")
	}
	return b.String()
}

func fmtSeconds(d time.Duration) string {
	sec := float64(d) / float64(time.Second)
	return strconv.FormatFloat(sec, 'f', 3, 64)
}

func escapeFilterPath(p string) string {
	p = strings.ReplaceAll(p, "\\", "\\\\")
	p = strings.ReplaceAll(p, ":", "\\:")
	p = strings.ReplaceAll(p, "'", "\\'")
	return p
}
