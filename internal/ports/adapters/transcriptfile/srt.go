package transcriptfile

import (
	"bufio"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/forPelevin/hlshorts/internal/types"
)

var reSRTTiming = regexp.MustCompile(`^(\d{1,2}):(\d{2}):(\d{2})[,.](\d{1,3})\s*-->\s*(\d{1,2}):(\d{2}):(\d{2})[,.](\d{1,3})`)

// ParseSRT reads SubRip blocks: an optional sequence number, a timing line
// and one or more text lines, separated by blank lines.
func ParseSRT(src string) (types.Transcript, error) {
	var (
		tr      types.Transcript
		cur     *types.Segment
		lines   []string
		lineNum int
	)
	flush := func() {
		if cur != nil {
			cur.Text = strings.Join(lines, " ")
			tr.Segments = append(tr.Segments, *cur)
		}
		cur = nil
		lines = nil
	}

	sc := bufio.NewScanner(strings.NewReader(strings.TrimPrefix(src, "\ufeff")))
	for sc.Scan() {
		lineNum++
		line := strings.TrimSpace(sc.Text())
		switch {
		case line == "":
			flush()
		case strings.Contains(line, "-->"):
			flush()
			m := reSRTTiming.FindStringSubmatch(line)
			if m == nil {
				return types.Transcript{}, fmt.Errorf("srt line %d: invalid timing %q", lineNum, line)
			}
			cur = &types.Segment{Start: srtSeconds(m[1:5]), End: srtSeconds(m[5:9])}
		case cur == nil:
			// sequence number or stray text before the first cue
		default:
			lines = append(lines, line)
		}
	}
	if err := sc.Err(); err != nil {
		return types.Transcript{}, err
	}
	flush()
	return tr, nil
}

func srtSeconds(parts []string) float64 {
	h, _ := strconv.Atoi(parts[0])
	m, _ := strconv.Atoi(parts[1])
	s, _ := strconv.Atoi(parts[2])
	frac := parts[3]
	for len(frac) < 3 {
		frac += "0"
	}
	ms, _ := strconv.Atoi(frac)
	return float64((h*3600+m*60+s)*1000+ms) / 1000
}
