package subtitles

import (
	"strings"

	"github.com/forPelevin/hlshorts/internal/types"
)

// Project re-times the segments overlapping [start, end] onto the clip's
// local timeline. Cue times are clamped into the window and made relative
// to start; indices are 1-based. Segment order is preserved.
func Project(start, end float64, segs []types.Segment) []types.Caption {
	var out []types.Caption
	for _, s := range segs {
		if s.End < start || s.Start > end {
			continue
		}
		relStart := max(0, s.Start-start)
		relEnd := max(0, min(s.End, end)-start)
		out = append(out, types.Caption{
			Index: len(out) + 1,
			Start: relStart,
			End:   relEnd,
			Text:  strings.TrimSpace(s.Text),
		})
	}
	return out
}

// PlainText joins the caption texts with single spaces.
func PlainText(caps []types.Caption) string {
	parts := make([]string, 0, len(caps))
	for _, c := range caps {
		if c.Text != "" {
			parts = append(parts, c.Text)
		}
	}
	return strings.Join(parts, " ")
}
