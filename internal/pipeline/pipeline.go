package pipeline

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"github.com/forPelevin/hlshorts/internal/domain/subtitles"
	"github.com/forPelevin/hlshorts/internal/ports"
	"github.com/forPelevin/hlshorts/internal/ports/adapters/ffmpeg"
	"github.com/forPelevin/hlshorts/internal/ports/adapters/whispercpp"
	"github.com/forPelevin/hlshorts/internal/store"
	"github.com/forPelevin/hlshorts/internal/types"
	"github.com/forPelevin/hlshorts/internal/usecase"
)

const (
	summaryFile   = "summary.json"
	lockFile      = ".lock"
	lockRetryWait = 250 * time.Millisecond
)

type Config struct {
	InputMP4      string
	OutDir        string
	Highlighter   usecase.Highlighter
	CaptionFormat subtitles.Format
	BurnSubtitles bool
	Compilation   bool
	Logf          func(format string, args ...any)

	// CacheDir is the base directory for local artifacts (audio, transcripts, etc.).
	// If empty, defaults to ".cache".
	CacheDir string

	// HistoryDB is the run history database. Empty disables recording.
	HistoryDB string

	FFmpegPath  string
	FFprobePath string

	WhisperBin      string
	WhisperModel    string
	WhisperLanguage string

	// Deps replaces the ffmpeg and whisper.cpp adapters when set.
	Deps *usecase.Deps
}

func (c Config) Validate() error {
	if c.InputMP4 == "" {
		return errors.New("input is empty")
	}
	if _, err := os.Stat(c.InputMP4); err != nil {
		return fmt.Errorf("stat input: %w", err)
	}
	if c.Highlighter.Params.TopK <= 0 {
		return fmt.Errorf("clips must be > 0")
	}
	if err := c.Highlighter.Params.Validate(); err != nil {
		return err
	}
	if _, err := subtitles.ParseFormat(string(c.CaptionFormat)); err != nil {
		return err
	}
	if c.Deps == nil && c.WhisperModel == "" {
		return fmt.Errorf("whisper model path is required")
	}
	return nil
}

// Outcome describes a finished run.
type Outcome struct {
	RunDir  string
	Summary types.Summary
}

func Run(ctx context.Context, cfg Config) (Outcome, error) {
	logf := cfg.Logf
	if logf == nil {
		logf = func(string, ...any) {}
	}

	deps := usecase.Deps{
		Video: ffmpeg.New(cfg.FFmpegPath, cfg.FFprobePath),
		ASR:   whispercpp.New(cfg.WhisperBin, cfg.WhisperModel, cfg.WhisperLanguage),
	}
	if cfg.Deps != nil {
		deps = *cfg.Deps
	}
	uc := usecase.New(deps)

	jobID := hash(cfg.InputMP4)
	baseCache := cfg.CacheDir
	if baseCache == "" {
		baseCache = ".cache"
	}
	cacheDir := filepath.Join(baseCache, "runs", jobID)
	logf("preparing workspace")
	if err := os.MkdirAll(cacheDir, 0o755); err != nil {
		return Outcome{}, err
	}
	logf("cache: %s", cacheDir)

	lock := flock.New(filepath.Join(cacheDir, lockFile))
	locked, err := lock.TryLockContext(ctx, lockRetryWait)
	if err != nil {
		return Outcome{}, fmt.Errorf("acquire cache lock: %w", err)
	}
	if !locked {
		return Outcome{}, fmt.Errorf("acquire cache lock: %s is busy", cacheDir)
	}
	defer func() { _ = lock.Unlock() }()

	outDir := cfg.OutDir
	if outDir == "" {
		outDir = "out"
	}
	runOutDir := buildRunOutDir(outDir, cfg.InputMP4, time.Now().UTC())
	clipsDir := filepath.Join(runOutDir, "clips")
	subtitlesDir := filepath.Join(runOutDir, "subtitles")
	for _, d := range []string{clipsDir, subtitlesDir} {
		if err := os.MkdirAll(d, 0o755); err != nil {
			return Outcome{}, err
		}
	}
	logf("output run dir: %s", runOutDir)

	res, err := uc.Run(ctx, usecase.Input{
		InputMP4:      cfg.InputMP4,
		Highlighter:   cfg.Highlighter,
		CaptionFormat: cfg.CaptionFormat,
		BurnSubtitles: cfg.BurnSubtitles,
		Compilation:   cfg.Compilation,
		CacheDir:      cacheDir,
		OutDir:        runOutDir,
		Logf:          logf,
	})
	if err != nil {
		return Outcome{}, err
	}

	summary := res.Summary
	summary.RunID = uuid.NewString()
	if err := WriteSummary(filepath.Join(runOutDir, summaryFile), summary); err != nil {
		return Outcome{}, err
	}
	logf("summary written (%d clips): %s", len(summary.Clips), filepath.Join(runOutDir, summaryFile))

	if cfg.HistoryDB != "" {
		if err := record(ctx, cfg.HistoryDB, runOutDir, res.Plan.Candidates, summary); err != nil {
			logf("history not recorded: %v", err)
		}
	}
	return Outcome{RunDir: runOutDir, Summary: summary}, nil
}

// WriteSummary marshals s as indented JSON to path.
func WriteSummary(path string, s types.Summary) error {
	b, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal summary: %w", err)
	}
	return os.WriteFile(path, append(b, '\n'), 0o644)
}

func record(ctx context.Context, dbPath, runOutDir string, candidates int, s types.Summary) error {
	st, err := store.Open(ctx, dbPath)
	if err != nil {
		return err
	}
	defer st.Close()

	run := &store.Run{
		ID:          s.RunID,
		Input:       s.Input,
		OutDir:      runOutDir,
		Candidates:  candidates,
		Compilation: s.Compilation,
	}
	for i, c := range s.Clips {
		run.Clips = append(run.Clips, store.Clip{
			Position: i + 1,
			Start:    c.Start,
			End:      c.End,
			Score:    c.Score,
			Title:    c.Title,
			Hashtags: c.Hashtags,
			File:     c.File,
		})
	}
	return st.RecordRun(ctx, run)
}

func buildRunOutDir(outRoot, inputMP4 string, now time.Time) string {
	name := strings.TrimSuffix(filepath.Base(inputMP4), filepath.Ext(inputMP4))
	name = normalizePathSegment(name)
	if name == "" {
		name = "input"
	}
	ts := now.UTC().Format("20060102-150405Z")
	runSeed := fmt.Sprintf("%s|%d", inputMP4, now.UTC().UnixNano())
	suffix := hash(runSeed)[:6]
	return filepath.Join(outRoot, fmt.Sprintf("%s-%s-%s", name, ts, suffix))
}

func normalizePathSegment(s string) string {
	var b strings.Builder
	prevDash := false
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		switch {
		case unicode.IsLetter(r), unicode.IsDigit(r):
			b.WriteRune(r)
			prevDash = false
		default:
			if !prevDash {
				b.WriteByte('-')
				prevDash = true
			}
		}
	}
	return strings.Trim(b.String(), "-")
}

func hash(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])[:12]
}

// ensure adapters implement ports
var _ ports.VideoTool = (*ffmpeg.Adapter)(nil)
var _ ports.ASR = (*whispercpp.Adapter)(nil)
