package highlights

import (
	"strings"

	"github.com/forPelevin/hlshorts/internal/types"
)

// BuildCandidates creates one candidate window per starting segment.
// Strategy:
//   - Grow the window over following segments until it reaches TargetLen.
//   - Never absorb a segment that would push the window past MaxLen.
//   - Keep only windows of at least MinLen.
//
// Windows from neighbouring start indices overlap; the selector resolves that.
func BuildCandidates(segs []types.Segment, p Params) ([]types.Candidate, error) {
	if err := validateWindow(p.TargetLen, p.MinLen, p.MaxLen); err != nil {
		return nil, err
	}
	if err := ValidateSegments(segs); err != nil {
		return nil, err
	}
	if len(segs) == 0 {
		return nil, nil
	}

	var out []types.Candidate
	for i := 0; i < len(segs); i++ {
		start := segs[i].Start
		end := segs[i].End
		if end-start > p.MaxLen {
			continue
		}

		parts := appendText(nil, segs[i].Text)
		for j := i + 1; j < len(segs); j++ {
			win := end - start
			if win >= p.TargetLen || win >= p.MaxLen {
				break
			}
			next := segs[j].End
			if next < end {
				next = end
			}
			if next-start > p.MaxLen {
				break
			}
			end = next
			parts = appendText(parts, segs[j].Text)
		}

		if end-start < p.MinLen {
			continue
		}
		out = append(out, types.Candidate{
			Start: start,
			End:   end,
			Text:  strings.Join(parts, " "),
		})
	}
	return out, nil
}

func appendText(parts []string, text string) []string {
	if t := strings.TrimSpace(text); t != "" {
		return append(parts, t)
	}
	return parts
}
