package subtitles

import (
	"strings"
	"testing"
	"time"

	"github.com/forPelevin/hlshorts/internal/types"
)

func TestRenderSRT(t *testing.T) {
	caps := []types.Caption{
		{Index: 1, Start: 0, End: 2.5, Text: "Hello there"},
		{Index: 2, Start: 61.234, End: 3725.1, Text: "General Kenobi"},
	}
	want := "1\n00:00:00,000 --> 00:00:02,500\nHello there\n\n" +
		"2\n00:01:01,234 --> 01:02:05,100\nGeneral Kenobi\n\n"
	if got := RenderSRT(caps); got != want {
		t.Fatalf("RenderSRT mismatch:\n%q\nwant\n%q", got, want)
	}
}

func TestRenderSRT_Empty(t *testing.T) {
	if got := RenderSRT(nil); got != "" {
		t.Fatalf("expected empty output, got %q", got)
	}
}

func TestRenderASS_EventsAndWrapping(t *testing.T) {
	long := strings.Repeat("word ", 20)
	caps := []types.Caption{
		{Index: 1, Start: 0, End: 1.5, Text: "short {tag}"},
		{Index: 2, Start: 1.5, End: 6, Text: long},
	}
	ass := RenderASS(caps)
	if strings.Count(ass, "Dialogue:") != 2 {
		t.Fatalf("expected two dialogue events, got:\n%s", ass)
	}
	if !strings.Contains(ass, "0:00:00.00,0:00:01.50") {
		t.Fatalf("expected clip-local times, got:\n%s", ass)
	}
	if strings.Contains(ass, "{tag}") {
		t.Fatalf("expected override braces to be sanitized")
	}
	if !strings.Contains(ass, `\N`) {
		t.Fatalf("expected long cue to be wrapped")
	}
}

func TestAssTime_Format(t *testing.T) {
	got := assTime(61*time.Second + 234*time.Millisecond)
	if got != "0:01:01.23" {
		t.Fatalf("unexpected assTime: %s", got)
	}
}

func TestParseFormat(t *testing.T) {
	tests := map[string]Format{"": FormatSRT, "SRT": FormatSRT, " ass ": FormatASS}
	for in, want := range tests {
		got, err := ParseFormat(in)
		if err != nil || got != want {
			t.Fatalf("ParseFormat(%q) = %q, %v; want %q", in, got, err, want)
		}
	}
	if _, err := ParseFormat("vtt"); err == nil {
		t.Fatalf("expected error for unsupported format")
	}
}
