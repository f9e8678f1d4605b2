package usecase

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/forPelevin/hlshorts/internal/domain/highlights"
	"github.com/forPelevin/hlshorts/internal/domain/subtitles"
	"github.com/forPelevin/hlshorts/internal/types"
)

func TestRun_BurnSubtitlesToggle(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name          string
		burnSubtitles bool
	}{
		{name: "disabled", burnSubtitles: false},
		{name: "enabled", burnSubtitles: true},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			tmp := t.TempDir()
			outDir := filepath.Join(tmp, "out")
			video := &fakeVideoTool{}
			uc := New(Deps{Video: video, ASR: fakeASR{tr: testTranscript()}})

			res, err := uc.Run(context.Background(), Input{
				InputMP4:      filepath.Join(tmp, "in.mp4"),
				Highlighter:   testHighlighter(1),
				BurnSubtitles: tc.burnSubtitles,
				CacheDir:      filepath.Join(tmp, "cache"),
				OutDir:        outDir,
			})
			if err != nil {
				t.Fatalf("run: %v", err)
			}
			if len(video.cuts) != 1 {
				t.Fatalf("expected 1 cut clip, got %d", len(video.cuts))
			}
			if len(res.Summary.Clips) != 1 {
				t.Fatalf("expected 1 clip in summary, got %d", len(res.Summary.Clips))
			}

			clip := res.Summary.Clips[0]
			if clip.File != "clips/001.mp4" || clip.Subtitles != "subtitles/001.srt" {
				t.Fatalf("unexpected clip paths: %+v", clip)
			}
			b, err := os.ReadFile(filepath.Join(outDir, "subtitles", "001.srt"))
			if err != nil {
				t.Fatalf("read subtitles: %v", err)
			}
			if !strings.Contains(string(b), "00:00:00,000 --> ") {
				t.Fatalf("expected srt cues, got %q", b)
			}

			if tc.burnSubtitles {
				if len(video.burns) != 1 {
					t.Fatalf("expected subtitles to be burned once, got %d", len(video.burns))
				}
				if !strings.HasSuffix(video.cuts[0], "001_raw.mp4") {
					t.Fatalf("expected raw intermediate cut, got %s", video.cuts[0])
				}
				return
			}
			if len(video.burns) != 0 {
				t.Fatalf("expected no burn calls, got %v", video.burns)
			}
			if !strings.HasSuffix(video.cuts[0], filepath.Join("clips", "001.mp4")) {
				t.Fatalf("expected final cut path, got %s", video.cuts[0])
			}
		})
	}
}

func TestRun_SortsClipsByTimeline(t *testing.T) {
	t.Parallel()

	tmp := t.TempDir()
	video := &fakeVideoTool{}
	uc := New(Deps{Video: video, ASR: fakeASR{tr: testTranscript()}})

	res, err := uc.Run(context.Background(), Input{
		InputMP4:      filepath.Join(tmp, "in.mp4"),
		Highlighter:   testHighlighter(2),
		CaptionFormat: subtitles.FormatASS,
		CacheDir:      filepath.Join(tmp, "cache"),
		OutDir:        filepath.Join(tmp, "out"),
	})
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	clips := res.Summary.Clips
	if len(clips) != 2 {
		t.Fatalf("expected 2 clips in summary, got %d", len(clips))
	}
	if clips[0].Start > clips[1].Start {
		t.Fatalf("expected clips sorted by start time, got %.2f then %.2f", clips[0].Start, clips[1].Start)
	}
	if clips[0].ID != "001" || clips[1].ID != "002" {
		t.Fatalf("expected sequential ids for sorted clips, got %s and %s", clips[0].ID, clips[1].ID)
	}
	if clips[1].Subtitles != "subtitles/002.ass" {
		t.Fatalf("expected ass subtitles, got %q", clips[1].Subtitles)
	}
	if video.starts[0] > video.starts[1] {
		t.Fatalf("expected cut order to follow timeline, got %s then %s", video.starts[0], video.starts[1])
	}
	if clips[1].Title == "" || len(clips[1].Hashtags) == 0 {
		t.Fatalf("expected labels, got %+v", clips[1])
	}
}

func TestRun_Compilation(t *testing.T) {
	t.Parallel()

	tmp := t.TempDir()
	video := &fakeVideoTool{}
	uc := New(Deps{Video: video, ASR: fakeASR{tr: testTranscript()}})
	res, err := uc.Run(context.Background(), Input{
		InputMP4:    filepath.Join(tmp, "in.mp4"),
		Highlighter: testHighlighter(2),
		Compilation: true,
		CacheDir:    filepath.Join(tmp, "cache"),
		OutDir:      filepath.Join(tmp, "out"),
	})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if res.Summary.Compilation != compilationFile {
		t.Fatalf("expected compilation in summary, got %q", res.Summary.Compilation)
	}
	if len(video.concat) != 2 {
		t.Fatalf("expected both clips joined, got %v", video.concat)
	}
}

func TestRun_NoHighlights(t *testing.T) {
	t.Parallel()

	tmp := t.TempDir()
	video := &fakeVideoTool{}
	uc := New(Deps{Video: video, ASR: fakeASR{}})
	res, err := uc.Run(context.Background(), Input{
		InputMP4:    filepath.Join(tmp, "in.mp4"),
		Highlighter: testHighlighter(3),
		Compilation: true,
		CacheDir:    filepath.Join(tmp, "cache"),
		OutDir:      filepath.Join(tmp, "out"),
	})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(res.Summary.Clips) != 0 || res.Summary.Compilation != "" || len(video.cuts) != 0 {
		t.Fatalf("expected empty run, got %+v", res.Summary)
	}
}

func TestRun_PropagatesErrors(t *testing.T) {
	t.Parallel()

	tmp := t.TempDir()
	boom := errors.New("boom")
	uc := New(Deps{Video: &fakeVideoTool{cutErr: boom}, ASR: fakeASR{tr: testTranscript()}})
	_, err := uc.Run(context.Background(), Input{
		InputMP4:    filepath.Join(tmp, "in.mp4"),
		Highlighter: testHighlighter(1),
		CacheDir:    filepath.Join(tmp, "cache"),
		OutDir:      filepath.Join(tmp, "out"),
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected cut error, got %v", err)
	}

	bad := types.Transcript{Segments: []types.Segment{{Start: 5, End: 1, Text: "backwards"}}}
	uc = New(Deps{Video: &fakeVideoTool{}, ASR: fakeASR{tr: bad}})
	_, err = uc.Run(context.Background(), Input{
		InputMP4:    filepath.Join(tmp, "in.mp4"),
		Highlighter: testHighlighter(1),
		CacheDir:    filepath.Join(tmp, "cache"),
		OutDir:      filepath.Join(tmp, "out"),
	})
	if !errors.Is(err, highlights.ErrInvalidSegment) {
		t.Fatalf("expected ErrInvalidSegment, got %v", err)
	}
}

func TestAnalyze_ProjectsCaptions(t *testing.T) {
	plan, err := testHighlighter(2).Analyze(testTranscript())
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if len(plan.Clips) != 2 || plan.Candidates == 0 {
		t.Fatalf("unexpected plan: %+v", plan)
	}
	for _, c := range plan.Clips {
		if len(c.Captions) == 0 {
			t.Fatalf("clip %s has no captions", c.ID)
		}
		for _, cue := range c.Captions {
			if cue.Start < 0 || cue.End > c.Window.Duration()+1e-9 {
				t.Fatalf("caption %+v outside clip %s", cue, c.ID)
			}
		}
	}

	s := plan.Summary("talk.json")
	if s.Input != "talk.json" || len(s.Clips) != 2 || s.Clips[0].ID != "001" || s.Clips[0].File != "" {
		t.Fatalf("unexpected summary: %+v", s)
	}
}

type fakeVideoTool struct {
	cuts   []string
	starts []time.Duration
	burns  []string
	concat []string
	cutErr error
}

func (f *fakeVideoTool) ExtractAudioMono16k(_ context.Context, _, _ string) error {
	return nil
}

func (f *fakeVideoTool) CutClip(_ context.Context, _ string, start, _ time.Duration, out string) error {
	if f.cutErr != nil {
		return f.cutErr
	}
	f.cuts = append(f.cuts, out)
	f.starts = append(f.starts, start)
	return nil
}

func (f *fakeVideoTool) BurnSubtitles(_ context.Context, _, subs, _ string) error {
	f.burns = append(f.burns, subs)
	return nil
}

func (f *fakeVideoTool) Concat(_ context.Context, clips []string, _ string) error {
	f.concat = append(f.concat, clips...)
	return nil
}

func (f *fakeVideoTool) MediaDuration(_ context.Context, _ string) (time.Duration, error) {
	return 3 * time.Minute, nil
}

type fakeASR struct {
	tr types.Transcript
}

func (f fakeASR) Transcribe(_ context.Context, _, _ string) (types.Transcript, error) {
	return f.tr, nil
}

func testHighlighter(clips int) Highlighter {
	h := DefaultHighlighter()
	h.Params = highlights.Params{TargetLen: 20, MinLen: 10, MaxLen: 30, TopK: clips, MinGap: 1}
	return h
}

// testTranscript is 12 ten-second segments; the hot ones sit at 20s and 90s.
func testTranscript() types.Transcript {
	var segs []types.Segment
	for i := 0; i < 12; i++ {
		text := fmt.Sprintf("we talked about item %d for a while", i)
		switch i {
		case 2:
			text = "wow this secret hack is insane!"
		case 9:
			text = "the best amazing trick ever!"
		}
		segs = append(segs, types.Segment{Start: float64(i * 10), End: float64(i*10 + 10), Text: text})
	}
	return types.Transcript{Segments: segs}
}
