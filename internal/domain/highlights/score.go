package highlights

import "strings"

// Weights are the linear coefficients of the interest score.
type Weights struct {
	Power   float64
	Exclaim float64
	Unique  float64
	Word    float64
	WordCap int
}

func DefaultWeights() Weights {
	return Weights{Power: 6, Exclaim: 2, Unique: 0.4, Word: 0.08, WordCap: 60}
}

// Scorer rates how engaging a window's text is. It is a pure function of
// the text, the vocabulary and the weights, and is safe for concurrent use.
type Scorer struct {
	Vocab   Vocabulary
	Weights Weights
}

func NewScorer(v Vocabulary, w Weights) Scorer {
	return Scorer{Vocab: v, Weights: w}
}

// DefaultScorer uses the built-in vocabulary and weights.
func DefaultScorer() Scorer {
	return NewScorer(DefaultVocabulary(), DefaultWeights())
}

// Breakdown exposes the terms that make up a score.
type Breakdown struct {
	PowerHits int
	Exclaims  int
	Unique    int
	Words     int
}

func (s Scorer) Analyze(text string) Breakdown {
	words := Tokenize(text)
	b := Breakdown{
		Words:    len(words),
		Exclaims: countExclaims(text),
	}
	uniq := make(map[string]struct{}, len(words))
	for _, w := range words {
		if s.Vocab.IsPower(w) {
			b.PowerHits++
		}
		if !s.Vocab.IsStop(w) {
			uniq[w] = struct{}{}
		}
	}
	b.Unique = len(uniq)
	return b
}

// Score returns a non-negative interest score for text.
func (s Scorer) Score(text string) float64 {
	return s.Weights.apply(s.Analyze(text))
}

func (w Weights) apply(b Breakdown) float64 {
	words := b.Words
	if w.WordCap >= 0 && words > w.WordCap {
		words = w.WordCap
	}
	score := float64(b.PowerHits)*w.Power +
		float64(b.Exclaims)*w.Exclaim +
		float64(b.Unique)*w.Unique +
		float64(words)*w.Word
	if score < 0 {
		return 0
	}
	return score
}

func countExclaims(text string) int {
	return strings.Count(text, "!") + strings.Count(text, "…") + strings.Count(text, "?")
}
