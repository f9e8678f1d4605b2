package highlights

import (
	"runtime"
	"sort"
	"sync"

	"github.com/forPelevin/hlshorts/internal/types"
)

// Select scores the candidates and greedily keeps the best ones that stay at
// least minGap seconds away from every window already kept. Equal scores keep
// the candidates' original order. The result is sorted by start time and may
// hold fewer than topK windows.
func Select(cands []types.Candidate, topK int, minGap float64, scorer Scorer) ([]types.Window, error) {
	if err := validateSelection(topK, minGap); err != nil {
		return nil, err
	}
	if topK == 0 || len(cands) == 0 {
		return nil, nil
	}

	best := ScoreCandidates(cands, scorer)
	sort.SliceStable(best, func(i, j int) bool { return best[i].Score > best[j].Score })

	out := make([]types.Window, 0, min(topK, len(best)))
	for _, c := range best {
		if len(out) >= topK {
			break
		}
		if !isDistinct(out, c.Start, c.End, minGap) {
			continue
		}
		out = append(out, types.Window{Start: c.Start, End: c.End, Text: c.Text, Score: c.Score})
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Start < out[j].Start })
	return out, nil
}

// ScoreCandidates returns a copy of cands with every unscored candidate
// scored. Work is spread across GOMAXPROCS workers; order is preserved.
func ScoreCandidates(cands []types.Candidate, scorer Scorer) []types.Candidate {
	out := make([]types.Candidate, len(cands))
	copy(out, cands)

	workers := runtime.GOMAXPROCS(0)
	if workers > len(out) {
		workers = len(out)
	}
	if workers <= 1 {
		scoreRange(out, scorer)
		return out
	}

	chunk := (len(out) + workers - 1) / workers
	var wg sync.WaitGroup
	for lo := 0; lo < len(out); lo += chunk {
		hi := min(lo+chunk, len(out))
		wg.Add(1)
		go func(part []types.Candidate) {
			defer wg.Done()
			scoreRange(part, scorer)
		}(out[lo:hi])
	}
	wg.Wait()
	return out
}

func scoreRange(cands []types.Candidate, scorer Scorer) {
	for i := range cands {
		if cands[i].Scored {
			continue
		}
		cands[i].Score = scorer.Score(cands[i].Text)
		cands[i].Scored = true
	}
}

// isDistinct reports whether [st, en] padded by minGap on both sides stays
// clear of every existing window.
func isDistinct(existing []types.Window, st, en, minGap float64) bool {
	for _, e := range existing {
		if en+minGap < e.Start || st-minGap > e.End {
			continue
		}
		return false
	}
	return true
}
