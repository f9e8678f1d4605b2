package subtitles

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/forPelevin/hlshorts/internal/types"
)

// RenderSRT serializes captions as SubRip blocks.
func RenderSRT(caps []types.Caption) string {
	var b strings.Builder
	for _, c := range caps {
		fmt.Fprintf(&b, "%d\n%s --> %s\n%s\n\n", c.Index, srtTime(dur(c.Start)), srtTime(dur(c.End)), strings.TrimSpace(c.Text))
	}
	return b.String()
}

func srtTime(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	hs := int(d / time.Hour)
	d -= time.Duration(hs) * time.Hour
	ms := int(d / time.Minute)
	d -= time.Duration(ms) * time.Minute
	s := int(d / time.Second)
	d -= time.Duration(s) * time.Second
	return fmt.Sprintf("%02d:%02d:%02d,%03d", hs, ms, s, int(d/time.Millisecond))
}

func dur(sec float64) time.Duration { return time.Duration(math.Round(sec * float64(time.Second))) }
