package highlights

import (
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/forPelevin/hlshorts/internal/types"
)

const (
	DefaultFallbackTitle   = "Short Clip"
	DefaultFallbackHashtag = "#shorts"

	titleWords = 4
	tagWords   = 3
)

// Labeler derives a title and hashtags from the most frequent keywords.
type Labeler struct {
	Vocab           Vocabulary
	FallbackTitle   string
	FallbackHashtag string
}

func NewLabeler(v Vocabulary) Labeler {
	return Labeler{Vocab: v, FallbackTitle: DefaultFallbackTitle, FallbackHashtag: DefaultFallbackHashtag}
}

func (l Labeler) Label(text string) types.Label {
	top := TopKeywords(l.Vocab.Keywords(text), titleWords)
	if len(top) == 0 {
		title, tag := l.FallbackTitle, l.FallbackHashtag
		if strings.TrimSpace(title) == "" {
			title = DefaultFallbackTitle
		}
		if strings.TrimSpace(strings.TrimPrefix(tag, "#")) == "" {
			tag = DefaultFallbackHashtag
		}
		return types.Label{Title: title, Hashtags: []string{tag}}
	}

	caser := cases.Title(language.Und)
	titled := make([]string, len(top))
	for i, w := range top {
		titled[i] = caser.String(w)
	}

	tags := make([]string, 0, tagWords)
	for _, w := range top[:min(tagWords, len(top))] {
		tags = append(tags, "#"+w)
	}
	return types.Label{Title: strings.Join(titled, " "), Hashtags: tags}
}

// TopKeywords returns up to n distinct words ordered by descending frequency.
// Words with equal counts keep the order in which they first appeared.
func TopKeywords(words []string, n int) []string {
	if n <= 0 || len(words) == 0 {
		return nil
	}
	counts := make(map[string]int, len(words))
	order := make([]string, 0, len(words))
	for _, w := range words {
		if _, seen := counts[w]; !seen {
			order = append(order, w)
		}
		counts[w]++
	}
	sort.SliceStable(order, func(i, j int) bool { return counts[order[i]] > counts[order[j]] })
	if len(order) > n {
		order = order[:n]
	}
	return order
}
