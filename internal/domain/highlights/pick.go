package highlights

import "github.com/forPelevin/hlshorts/internal/types"

// Result is the outcome of running the builder and the selector together.
type Result struct {
	Candidates int
	Windows    []types.Window
}

// Pick validates p, builds candidates from segs and selects p.TopK windows.
func Pick(segs []types.Segment, p Params, scorer Scorer) (Result, error) {
	if err := p.Validate(); err != nil {
		return Result{}, err
	}
	cands, err := BuildCandidates(segs, p)
	if err != nil {
		return Result{}, err
	}
	windows, err := Select(cands, p.TopK, p.MinGap, scorer)
	if err != nil {
		return Result{}, err
	}
	return Result{Candidates: len(cands), Windows: windows}, nil
}
