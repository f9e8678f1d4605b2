package subtitles

import (
	"fmt"
	"strings"

	"github.com/forPelevin/hlshorts/internal/types"
)

type Format string

const (
	FormatSRT Format = "srt"
	FormatASS Format = "ass"
)

func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "", FormatSRT:
		return FormatSRT, nil
	case FormatASS:
		return FormatASS, nil
	default:
		return "", fmt.Errorf("unsupported caption format %q (want srt or ass)", s)
	}
}

// Ext returns the file extension for f, including the dot.
func (f Format) Ext() string { return "." + string(f) }

func Render(f Format, caps []types.Caption) string {
	if f == FormatASS {
		return RenderASS(caps)
	}
	return RenderSRT(caps)
}
