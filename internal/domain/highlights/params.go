package highlights

import (
	"errors"
	"fmt"
	"math"

	"github.com/forPelevin/hlshorts/internal/types"
)

var (
	// ErrInvalidSegment marks transcript segments that cannot be placed on a
	// timeline (start after end, non-finite or negative timestamps).
	ErrInvalidSegment = errors.New("invalid segment")
	// ErrDegenerateParameters marks caller parameters that cannot produce a
	// meaningful selection.
	ErrDegenerateParameters = errors.New("degenerate parameters")
)

// Params controls candidate construction and selection. All durations are seconds.
type Params struct {
	TargetLen float64
	MinLen    float64
	MaxLen    float64
	TopK      int
	MinGap    float64
}

// DefaultParams mirrors the CLI defaults: 40s target, 20s minimum and a
// maximum 20s past the target.
func DefaultParams() Params {
	return Params{
		TargetLen: 40,
		MinLen:    20,
		MaxLen:    60,
		TopK:      3,
		MinGap:    3,
	}
}

func (p Params) Validate() error {
	if err := validateWindow(p.TargetLen, p.MinLen, p.MaxLen); err != nil {
		return err
	}
	return validateSelection(p.TopK, p.MinGap)
}

func validateWindow(targetLen, minLen, maxLen float64) error {
	if !isFinite(targetLen) || !isFinite(minLen) || !isFinite(maxLen) {
		return fmt.Errorf("%w: window lengths must be finite", ErrDegenerateParameters)
	}
	if targetLen <= 0 {
		return fmt.Errorf("%w: target_len must be > 0, got %g", ErrDegenerateParameters, targetLen)
	}
	if minLen < 0 {
		return fmt.Errorf("%w: min_len must be >= 0, got %g", ErrDegenerateParameters, minLen)
	}
	if maxLen <= 0 {
		return fmt.Errorf("%w: max_len must be > 0, got %g", ErrDegenerateParameters, maxLen)
	}
	if minLen > maxLen {
		return fmt.Errorf("%w: min_len (%g) must be <= max_len (%g)", ErrDegenerateParameters, minLen, maxLen)
	}
	return nil
}

func validateSelection(topK int, minGap float64) error {
	if topK < 0 {
		return fmt.Errorf("%w: top_k must be >= 0, got %d", ErrDegenerateParameters, topK)
	}
	if !isFinite(minGap) || minGap < 0 {
		return fmt.Errorf("%w: min_gap must be a finite value >= 0, got %g", ErrDegenerateParameters, minGap)
	}
	return nil
}

func isFinite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }

// ValidateSegments rejects segments that would corrupt window arithmetic.
// Ordering is owned by the transcription step and is not re-checked here.
func ValidateSegments(segs []types.Segment) error {
	for i, s := range segs {
		if !isFinite(s.Start) || !isFinite(s.End) {
			return fmt.Errorf("%w: segment %d has non-finite timestamps", ErrInvalidSegment, i)
		}
		if s.Start < 0 {
			return fmt.Errorf("%w: segment %d starts before zero (%g)", ErrInvalidSegment, i, s.Start)
		}
		if s.Start > s.End {
			return fmt.Errorf("%w: segment %d starts after it ends (%g > %g)", ErrInvalidSegment, i, s.Start, s.End)
		}
	}
	return nil
}
