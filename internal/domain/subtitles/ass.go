package subtitles

import (
	"fmt"
	"strings"
	"time"

	"github.com/forPelevin/hlshorts/internal/types"
)

const (
	lineCharBudget = 42
	lineWordBudget = 9
)

// RenderASS serializes captions as a styled ASS script for burn-in. Long
// cues are wrapped into lines of at most lineCharBudget characters.
func RenderASS(caps []types.Caption) string {
	var b strings.Builder
	b.WriteString(assHeader())
	b.WriteString("\n[Events]\n")
	b.WriteString("Format: Layer, Start, End, Style, Name, MarginL, MarginR, MarginV, Effect, Text\n")
	for _, c := range caps {
		text := sanitizeASS(c.Text)
		if text == "" {
			continue
		}
		b.WriteString("Dialogue: 0,")
		b.WriteString(assTime(dur(c.Start)))
		b.WriteString(",")
		b.WriteString(assTime(dur(c.End)))
		b.WriteString(",Shorts,,0,0,0,,")
		b.WriteString(strings.Join(wrapWords(strings.Fields(text)), `\N`))
		b.WriteString("\n")
	}
	return b.String()
}

func wrapWords(words []string) []string {
	var (
		out    []string
		cur    []string
		curLen int
	)
	for _, w := range words {
		wl := len([]rune(w))
		nextLen := curLen
		if curLen > 0 {
			nextLen++
		}
		nextLen += wl
		if len(cur) > 0 && (len(cur) >= lineWordBudget || nextLen > lineCharBudget) {
			out = append(out, strings.Join(cur, " "))
			cur = nil
			curLen = 0
		}
		cur = append(cur, w)
		if curLen > 0 {
			curLen++
		}
		curLen += wl
	}
	if len(cur) > 0 {
		out = append(out, strings.Join(cur, " "))
	}
	return out
}

func assHeader() string {
	return strings.TrimSpace(`
[Script Info]
ScriptType: v4.00+
PlayResX: 1080
PlayResY: 1920
ScaledBorderAndShadow: yes

[V4+ Styles]
Format: Name, Fontname, Fontsize, PrimaryColour, SecondaryColour, OutlineColour, BackColour, Bold, Italic, Underline, StrikeOut, ScaleX, ScaleY, Spacing, Angle, BorderStyle, Outline, Shadow, Alignment, MarginL, MarginR, MarginV, Encoding
Style: Shorts, Inter, 72, &H00FFFFFF, &H00FFD200, &H00000000, &H64000000, 1,0,0,0,100,100,0,0,1,5,2,2, 60,60,220,1
`)
}

func assTime(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	hs := int(d / time.Hour)
	d -= time.Duration(hs) * time.Hour
	ms := int(d / time.Minute)
	d -= time.Duration(ms) * time.Minute
	s := int(d / time.Second)
	d -= time.Duration(s) * time.Second
	cs := int(d / (10 * time.Millisecond))
	return fmt.Sprintf("%d:%02d:%02d.%02d", hs, ms, s, cs)
}

func sanitizeASS(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, "{", "(")
	s = strings.ReplaceAll(s, "}", ")")
	s = strings.ReplaceAll(s, "\n", " ")
	return strings.TrimSpace(s)
}
