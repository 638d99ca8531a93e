package reference

import (
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/alkime/carepost/internal/catalog"
	"github.com/alkime/carepost/internal/content"
	"github.com/alkime/carepost/pkg/collections"
)

// Selection limits.
const (
	recentWindow       = 50
	maxReferences      = 3
	minServiceMentions = 3
	minTopicMentions   = 2
	shortBodyRunes     = 1200
)

// Scored is a candidate reference post with its relevance score.
type Scored struct {
	Article catalog.SourceArticle
	Score   int
}

// ScorePost rates a post against topic keywords: +3 per keyword in the
// title, +1 per keyword in the body, -5 for short bodies. Matching ignores
// case.
func ScorePost(title, body string, keywords []string) int {
	t := strings.ToLower(title)
	b := strings.ToLower(body)

	score := 0
	for _, kw := range keywords {
		k := strings.ToLower(strings.TrimSpace(kw))
		if k == "" {
			continue
		}
		if strings.Contains(t, k) {
			score += 3
		}
		if strings.Contains(b, k) {
			score += 1
		}
	}

	if utf8.RuneCountInString(body) < shortBodyRunes {
		score -= 5
	}

	return score
}

// SelectReferences keeps recent posts that are clearly about service and
// topicName and returns the best scored ones.
func SelectReferences(posts []catalog.SourceArticle, service, topicName string, keywords []string) []Scored {
	recent := collections.Last(posts, recentWindow)

	relevant := collections.Filter(recent, func(a catalog.SourceArticle) bool {
		return strings.Contains(a.Title, service) &&
			content.CountOccurrences(a.Body, service) >= minServiceMentions &&
			content.CountOccurrences(a.Body, topicName) >= minTopicMentions
	})

	scored := collections.Apply(relevant, func(a catalog.SourceArticle) Scored {
		return Scored{Article: a, Score: ScorePost(a.Title, a.Body, keywords)}
	})
	slices.SortStableFunc(scored, func(a, b Scored) int { return b.Score - a.Score })

	if len(scored) > maxReferences {
		scored = scored[:maxReferences]
	}

	return scored
}
