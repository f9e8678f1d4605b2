package highlights

import (
	"strings"
	"sync"
	"unicode"
)

// Vocabulary holds the word sets used by the scorer and the labeler.
// Values returned by DefaultVocabulary are shared; use With to derive a
// modified copy.
type Vocabulary struct {
	power map[string]struct{}
	stop  map[string]struct{}
}

var powerWords = []string{
	"amazing", "incredible", "surprising", "shocking", "wow", "unbelievable",
	"insane", "funny", "joke", "laugh", "emotional", "tear", "tip", "hack",
	"secret", "change", "best", "mistake", "fail", "win", "winning", "reveal",
	"revealed",
}

// English function words (NLTK list, apostrophe forms omitted since the
// tokenizer drops clitics such as "n't" and "'s").
var stopWords = []string{
	"i", "me", "my", "myself", "we", "our", "ours", "ourselves", "you", "your",
	"yours", "yourself", "yourselves", "he", "him", "his", "himself", "she",
	"her", "hers", "herself", "it", "its", "itself", "they", "them", "their",
	"theirs", "themselves", "what", "which", "who", "whom", "this", "that",
	"these", "those", "am", "is", "are", "was", "were", "be", "been", "being",
	"have", "has", "had", "having", "do", "does", "did", "doing", "a", "an",
	"the", "and", "but", "if", "or", "because", "as", "until", "while", "of",
	"at", "by", "for", "with", "about", "against", "between", "into", "through",
	"during", "before", "after", "above", "below", "to", "from", "up", "down",
	"in", "out", "on", "off", "over", "under", "again", "further", "then",
	"once", "here", "there", "when", "where", "why", "how", "all", "any",
	"both", "each", "few", "more", "most", "other", "some", "such", "no", "nor",
	"not", "only", "own", "same", "so", "than", "too", "very", "s", "t", "can",
	"will", "just", "don", "should", "now", "d", "ll", "m", "o", "re", "ve",
	"y", "ain", "aren", "couldn", "didn", "doesn", "hadn", "hasn", "haven",
	"isn", "ma", "mightn", "mustn", "needn", "shan", "shouldn", "wasn",
	"weren", "won", "wouldn",
}

var defaultVocabulary = sync.OnceValue(func() Vocabulary {
	return NewVocabulary(powerWords, stopWords)
})

// DefaultVocabulary returns the built-in power word and stop word sets.
func DefaultVocabulary() Vocabulary { return defaultVocabulary() }

func NewVocabulary(power, stop []string) Vocabulary {
	return Vocabulary{power: toSet(nil, power), stop: toSet(nil, stop)}
}

// With returns a copy of v extended with extra power and stop words.
func (v Vocabulary) With(extraPower, extraStop []string) Vocabulary {
	return Vocabulary{
		power: toSet(v.power, extraPower),
		stop:  toSet(v.stop, extraStop),
	}
}

func (v Vocabulary) IsPower(word string) bool {
	_, ok := v.power[word]
	return ok
}

func (v Vocabulary) IsStop(word string) bool {
	_, ok := v.stop[word]
	return ok
}

// Keywords returns the tokens of text that are not stop words, in order.
func (v Vocabulary) Keywords(text string) []string {
	words := Tokenize(text)
	out := words[:0]
	for _, w := range words {
		if !v.IsStop(w) {
			out = append(out, w)
		}
	}
	return out
}

func toSet(base map[string]struct{}, words []string) map[string]struct{} {
	out := make(map[string]struct{}, len(base)+len(words))
	for w := range base {
		out[w] = struct{}{}
	}
	for _, w := range words {
		w = strings.ToLower(strings.TrimSpace(w))
		if w == "" {
			continue
		}
		out[w] = struct{}{}
	}
	return out
}

// Tokenize splits text on whitespace, trims surrounding punctuation and
// lower-cases what is left. Contractions keep their head ("don't" -> "do",
// "it's" -> "it"). Tokens that still hold anything but letters, such as
// "42nd" or "well-known", are dropped.
func Tokenize(text string) []string {
	fields := strings.Fields(text)
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		w := strings.TrimFunc(f, func(r rune) bool { return !unicode.IsLetter(r) && !unicode.IsDigit(r) })
		w = stripClitic(w)
		if w == "" || strings.IndexFunc(w, func(r rune) bool { return !unicode.IsLetter(r) }) >= 0 {
			continue
		}
		out = append(out, strings.ToLower(w))
	}
	return out
}

// stripClitic cuts w at its first apostrophe. A negation clitic takes the
// preceding "n" with it.
func stripClitic(w string) string {
	i := strings.IndexAny(w, "'’")
	if i < 0 {
		return w
	}
	rest := strings.ToLower(strings.TrimLeft(w[i:], "'’"))
	head := w[:i]
	if rest == "t" && len(head) > 1 && (head[len(head)-1] == 'n' || head[len(head)-1] == 'N') {
		head = head[:len(head)-1]
	}
	return head
}
