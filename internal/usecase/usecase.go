package usecase

import (
	"context"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"time"

	"github.com/forPelevin/hlshorts/internal/domain/highlights"
	"github.com/forPelevin/hlshorts/internal/domain/subtitles"
	"github.com/forPelevin/hlshorts/internal/ports"
	"github.com/forPelevin/hlshorts/internal/types"
)

const compilationFile = "compilation.mp4"

type Deps struct {
	Video ports.VideoTool
	ASR   ports.ASR
}

type Usecase struct{ d Deps }

func New(d Deps) Usecase { return Usecase{d: d} }

// Highlighter bundles the pure selection settings shared by Run and Analyze.
type Highlighter struct {
	Params  highlights.Params
	Scorer  highlights.Scorer
	Labeler highlights.Labeler
}

// DefaultHighlighter uses the built-in parameters and vocabulary.
func DefaultHighlighter() Highlighter {
	return Highlighter{
		Params:  highlights.DefaultParams(),
		Scorer:  highlights.DefaultScorer(),
		Labeler: highlights.NewLabeler(highlights.DefaultVocabulary()),
	}
}

type Input struct {
	InputMP4 string
	Highlighter

	CaptionFormat subtitles.Format
	BurnSubtitles bool
	Compilation   bool

	CacheDir string
	OutDir   string
	Logf     func(format string, args ...any)
}

// Clip is a selected window with everything needed to render and label it.
type Clip struct {
	ID       string
	Window   types.Window
	Captions []types.Caption
	Label    types.Label
}

// Plan is the result of running selection over a transcript.
type Plan struct {
	Candidates int
	Clips      []Clip
}

type Result struct {
	Plan    Plan
	Summary types.Summary
}

// Analyze selects, projects and labels windows for tr without touching media.
func (h Highlighter) Analyze(tr types.Transcript) (Plan, error) {
	res, err := highlights.Pick(tr.Segments, h.Params, h.Scorer)
	if err != nil {
		return Plan{}, err
	}
	plan := Plan{Candidates: res.Candidates}
	for i, w := range res.Windows {
		caps := subtitles.Project(w.Start, w.End, tr.Segments)
		plan.Clips = append(plan.Clips, Clip{
			ID:       clipID(i),
			Window:   w,
			Captions: caps,
			Label:    h.Labeler.Label(w.Text),
		})
	}
	return plan, nil
}

func (u Usecase) Run(ctx context.Context, in Input) (Result, error) {
	logf := in.Logf
	if logf == nil {
		logf = func(string, ...any) {}
	}
	format := in.CaptionFormat
	if format == "" {
		format = subtitles.FormatSRT
	}

	if d, err := u.d.Video.MediaDuration(ctx, in.InputMP4); err != nil {
		logf("reading duration failed, continuing: %v", err)
	} else {
		logf("input duration: %s", d.Round(time.Second))
	}

	wav := filepath.Join(in.CacheDir, "audio.wav")
	logf("extracting audio")
	if err := u.d.Video.ExtractAudioMono16k(ctx, in.InputMP4, wav); err != nil {
		return Result{}, err
	}

	logf("transcribing")
	tr, err := u.d.ASR.Transcribe(ctx, wav, in.CacheDir)
	if err != nil {
		return Result{}, err
	}
	logf("transcript: %d segments", len(tr.Segments))

	plan, err := in.Highlighter.Analyze(tr)
	if err != nil {
		return Result{}, fmt.Errorf("select highlights: %w", err)
	}
	logf("selected %d of %d candidates", len(plan.Clips), plan.Candidates)

	summary := types.Summary{Input: in.InputMP4, Clips: []types.SummaryClip{}}
	var finals []string
	for _, c := range plan.Clips {
		sc, final, err := u.renderClip(ctx, in, format, c, logf)
		if err != nil {
			return Result{}, fmt.Errorf("clip %s: %w", c.ID, err)
		}
		summary.Clips = append(summary.Clips, sc)
		finals = append(finals, final)
	}

	if in.Compilation && len(finals) > 0 {
		out := filepath.Join(in.OutDir, compilationFile)
		logf("joining %d clips", len(finals))
		if err := u.d.Video.Concat(ctx, finals, out); err != nil {
			return Result{}, fmt.Errorf("compilation: %w", err)
		}
		summary.Compilation = compilationFile
	}

	return Result{Plan: plan, Summary: summary}, nil
}

func (u Usecase) renderClip(ctx context.Context, in Input, format subtitles.Format, c Clip, logf func(string, ...any)) (types.SummaryClip, string, error) {
	clipRel := filepath.Join("clips", c.ID+".mp4")
	final := filepath.Join(in.OutDir, clipRel)
	start, end := seconds(c.Window.Start), seconds(c.Window.End)

	subsRel, err := WriteCaptions(filepath.Join(in.OutDir, "subtitles"), c.ID, format, c.Captions)
	if err != nil {
		return types.SummaryClip{}, "", err
	}
	subsRel = filepath.Join("subtitles", subsRel)

	logf("clip %s: %.1fs-%.1fs score=%.2f", c.ID, c.Window.Start, c.Window.End, c.Window.Score)
	if in.BurnSubtitles && len(c.Captions) > 0 {
		raw := filepath.Join(in.OutDir, "clips", c.ID+"_raw.mp4")
		if err := u.d.Video.CutClip(ctx, in.InputMP4, start, end, raw); err != nil {
			return types.SummaryClip{}, "", err
		}
		if err := u.d.Video.BurnSubtitles(ctx, raw, filepath.Join(in.OutDir, subsRel), final); err != nil {
			return types.SummaryClip{}, "", err
		}
		_ = os.Remove(raw)
	} else if err := u.d.Video.CutClip(ctx, in.InputMP4, start, end, final); err != nil {
		return types.SummaryClip{}, "", err
	}

	sc := c.SummaryClip()
	sc.File = filepath.ToSlash(clipRel)
	sc.Subtitles = filepath.ToSlash(subsRel)
	return sc, final, nil
}

// SummaryClip converts c into its summary record without file references.
func (c Clip) SummaryClip() types.SummaryClip {
	return types.SummaryClip{
		ID:       c.ID,
		Start:    c.Window.Start,
		End:      c.Window.End,
		Score:    c.Window.Score,
		Title:    c.Label.Title,
		Hashtags: c.Label.Hashtags,
		Text:     c.Window.Text,
	}
}

// Summary lists every clip of p in timeline order.
func (p Plan) Summary(input string) types.Summary {
	s := types.Summary{Input: input, Clips: make([]types.SummaryClip, 0, len(p.Clips))}
	for _, c := range p.Clips {
		s.Clips = append(s.Clips, c.SummaryClip())
	}
	return s
}

// WriteCaptions renders caps in format to dir/<id><ext> and returns the file name.
func WriteCaptions(dir, id string, format subtitles.Format, caps []types.Caption) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	name := id + format.Ext()
	if err := writeFile(filepath.Join(dir, name), []byte(subtitles.Render(format, caps))); err != nil {
		return "", err
	}
	return name, nil
}

func clipID(i int) string { return fmt.Sprintf("%03d", i+1) }

func seconds(s float64) time.Duration {
	return time.Duration(math.Round(s * float64(time.Second)))
}

func writeFile(path string, b []byte) error {
	return os.WriteFile(path, b, 0o644)
}
