package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/forPelevin/hlshorts/internal/store"
	"github.com/forPelevin/hlshorts/internal/types"
)

// testEnv writes a config whose state paths live under a temp dir.
func testEnv(t *testing.T) (cfgPath, dir string) {
	t.Helper()
	dir = t.TempDir()
	cfgPath = filepath.Join(dir, "hlshorts.toml")
	body := fmt.Sprintf(`
[paths]
out_dir = %q
cache_dir = %q
log_dir = %q
history_db = %q

[highlights]
clips = 2
target_len = 20.0
min_len = 10.0
min_gap = 1.0
`, filepath.Join(dir, "out"), filepath.Join(dir, "cache"), filepath.Join(dir, "logs"), filepath.Join(dir, "history.db"))
	if err := os.WriteFile(cfgPath, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return cfgPath, dir
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("HLSHORTS_LOG_LEVEL", "")
	root := newRootCommand()
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func writeTranscript(t *testing.T, dir string) string {
	t.Helper()
	var segs []types.Segment
	for i := 0; i < 12; i++ {
		text := "and so then it was there"
		switch i {
		case 2:
			text = "wow this secret pizza hack is insane!"
		case 8:
			text = "the best pizza trick ever, amazing!"
		}
		segs = append(segs, types.Segment{Start: float64(i * 10), End: float64(i*10 + 10), Text: text})
	}
	b, err := json.Marshal(types.Transcript{Segments: segs})
	if err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(dir, "talk.json")
	if err := os.WriteFile(path, b, 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestAnalyze_JSONAndCaptions(t *testing.T) {
	cfgPath, dir := testEnv(t)
	transcript := writeTranscript(t, dir)
	captions := filepath.Join(dir, "captions")

	out, err := execute(t, "analyze", transcript, "--config", cfgPath, "--json", "--captions-dir", captions, "--caption-format", "ass")
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	var s types.Summary
	if err := json.Unmarshal([]byte(out), &s); err != nil {
		t.Fatalf("decode output: %v\n%s", err, out)
	}
	if len(s.Clips) != 2 {
		t.Fatalf("expected 2 clips, got %+v", s.Clips)
	}
	if s.Clips[0].Start > s.Clips[1].Start || s.Clips[0].End+1 > s.Clips[1].Start {
		t.Fatalf("clips overlap or are out of order: %+v", s.Clips)
	}
	for _, c := range s.Clips {
		if !strings.Contains(strings.ToLower(c.Title), "pizza") {
			t.Fatalf("expected pizza in title, got %q", c.Title)
		}
		if !strings.HasSuffix(c.Subtitles, c.ID+".ass") {
			t.Fatalf("unexpected subtitles path %q", c.Subtitles)
		}
		if _, err := os.Stat(filepath.Join(captions, c.ID+".ass")); err != nil {
			t.Fatalf("caption file missing: %v", err)
		}
	}
}

func TestAnalyze_FlagValidation(t *testing.T) {
	cfgPath, dir := testEnv(t)
	transcript := writeTranscript(t, dir)

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"zero clips", []string{"--clips", "0"}, "config: clips must be > 0"},
		{"min above max", []string{"--min", "50", "--max", "30"}, "degenerate parameters"},
		{"bad format", []string{"--caption-format", "vtt"}, "unsupported caption format"},
		{"no args", nil, "accepts 1 arg(s), received 0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := []string{"analyze", "--config", cfgPath}
			if tt.args != nil {
				args = append(args, transcript)
				args = append(args, tt.args...)
			}
			_, err := execute(t, args...)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("expected error containing %q, got %v", tt.want, err)
			}
		})
	}
}

func TestRun_ValidationErrors(t *testing.T) {
	cfgPath, dir := testEnv(t)
	if _, err := execute(t, "run", filepath.Join(dir, "missing.mp4"), "--config", cfgPath); err == nil || !strings.Contains(err.Error(), "config: stat input:") {
		t.Fatalf("expected stat error, got %v", err)
	}
	if _, err := execute(t, "run", "in.mp4", "--config", cfgPath, "--burn", "--no-burn"); err == nil {
		t.Fatalf("expected mutually exclusive flag error")
	}
}

func TestHistory(t *testing.T) {
	cfgPath, dir := testEnv(t)

	out, err := execute(t, "history", "--config", cfgPath)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if !strings.Contains(out, "[]") && !strings.Contains(out, "null") {
		t.Fatalf("expected empty json list for non-terminal output, got %q", out)
	}

	st, err := store.Open(context.Background(), filepath.Join(dir, "history.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	run := &store.Run{Input: "talk.mp4", Clips: []store.Clip{{Position: 1, Start: 5, End: 45, Score: 3, Title: "Pizza", Hashtags: []string{"#pizza"}}}}
	if err := st.RecordRun(context.Background(), run); err != nil {
		t.Fatalf("record: %v", err)
	}
	_ = st.Close()

	out, err = execute(t, "history", "--config", cfgPath, "--json")
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if !strings.Contains(out, run.ID) {
		t.Fatalf("expected run id in output: %s", out)
	}

	out, err = execute(t, "history", "--config", cfgPath, "--run", run.ID, "--json")
	if err != nil {
		t.Fatalf("history --run: %v", err)
	}
	if !strings.Contains(out, "#pizza") {
		t.Fatalf("expected clip hashtags in output: %s", out)
	}
}

func TestConfigInit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "conf", "hlshorts.toml")
	out, err := execute(t, "config", "init", path)
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	if !strings.Contains(out, path) {
		t.Fatalf("unexpected output %q", out)
	}
	if _, err := execute(t, "config", "init", path); err == nil || !strings.Contains(err.Error(), "already exists") {
		t.Fatalf("expected overwrite refusal, got %v", err)
	}
	if _, err := execute(t, "config", "init", path, "--force"); err != nil {
		t.Fatalf("config init --force: %v", err)
	}
}

func TestTables(t *testing.T) {
	s := types.Summary{Clips: []types.SummaryClip{{ID: "001", Start: 65, End: 105, Score: 7.5, Title: "Secret Hack", Hashtags: []string{"#secret", "#hack"}, File: "clips/001.mp4"}}}
	got := summaryTable(s)
	for _, want := range []string{"001", "1:05", "1:45", "7.50", "Secret Hack", "#secret #hack", "clips/001.mp4"} {
		if !strings.Contains(got, want) {
			t.Fatalf("summary table missing %q:\n%s", want, got)
		}
	}
	if got := truncate("abcdef", 4); got != "abc…" {
		t.Fatalf("truncate = %q", got)
	}
}

func TestHistoryTables(t *testing.T) {
	runs := runsTable([]store.Run{{ID: "run-1", Input: "talk.mp4", OutDir: "out/talk", Candidates: 9, ClipCount: 3}})
	for _, want := range []string{"run-1", "talk.mp4", "out/talk", "Clips", "Candidates"} {
		if !strings.Contains(runs, want) {
			t.Fatalf("runs table missing %q:\n%s", want, runs)
		}
	}
	row := ""
	for _, line := range strings.Split(runs, "\n") {
		if strings.Contains(line, "run-1") {
			row = line
		}
	}
	if !strings.Contains(row, " 3 ") || !strings.Contains(row, " 9 ") {
		t.Fatalf("runs row missing counts: %q", row)
	}

	clips := clipsTable([]store.Clip{{Position: 1, Start: 5, End: 45, Score: 2.25, Title: "Big Win", Hashtags: []string{"#big", "#win"}, File: "clips/001.mp4"}})
	for _, want := range []string{"0:05", "0:45", "2.25", "Big Win", "#big #win", "clips/001.mp4"} {
		if !strings.Contains(clips, want) {
			t.Fatalf("clips table missing %q:\n%s", want, clips)
		}
	}
}
