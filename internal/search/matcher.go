// Package search implements site search: the matcher that scans static
// pages and blog posts for a query, and the interactive panel state machine
// that drives it from keystrokes.
package search

import (
	"fmt"
	"sort"
	"strings"

	"github.com/FReptar0/EvoSystems/internal/i18n"
	"github.com/FReptar0/EvoSystems/internal/model"
)

// DefaultLimit caps the number of results returned for a query.
const DefaultLimit = 8

// Ranking selects how matches are ordered before the cap is applied.
type Ranking string

const (
	// RankPoolOrder keeps static pages first, then blog posts, each in
	// source order.
	RankPoolOrder Ranking = "pool"
	// RankScored weights title matches over description, tag and body
	// matches. Pool order breaks ties.
	RankScored Ranking = "scored"
)

// ParseRanking maps a config value to a Ranking.
func ParseRanking(s string) (Ranking, error) {
	switch Ranking(strings.ToLower(strings.TrimSpace(s))) {
	case "", RankPoolOrder:
		return RankPoolOrder, nil
	case RankScored:
		return RankScored, nil
	}
	return "", fmt.Errorf("unknown search ranking %q", s)
}

// field weights for RankScored
const (
	scoreTitle       = 8
	scoreDescription = 4
	scoreTags        = 2
	scoreBody        = 1
)

// PostSource is the slice of the content store the matcher reads.
type PostSource interface {
	Posts() []*model.BlogPost
	CategoryName(key string, l i18n.Locale) string
}

// Options tune a Matcher.
type Options struct {
	Limit   int
	Ranking Ranking
}

// Matcher answers search queries over static pages and blog posts. It holds
// read-only references and is safe for concurrent use.
type Matcher struct {
	translations i18n.Resolver
	posts        PostSource
	limit        int
	ranking      Ranking
}

// NewMatcher builds a matcher. A zero limit means DefaultLimit.
func NewMatcher(translations i18n.Resolver, posts PostSource, opts Options) *Matcher {
	limit := opts.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}
	ranking := opts.Ranking
	if ranking == "" {
		ranking = RankPoolOrder
	}
	return &Matcher{
		translations: translations,
		posts:        posts,
		limit:        limit,
		ranking:      ranking,
	}
}

// Limit returns the result cap.
func (m *Matcher) Limit() int {
	return m.limit
}

type candidate struct {
	result model.SearchResult
	score  int
}

// Search returns up to Limit results whose fields contain query as a
// case-insensitive substring. A blank query returns nil. Result URLs carry
// the locale prefix.
func (m *Matcher) Search(query string, l i18n.Locale) []model.SearchResult {
	if strings.TrimSpace(query) == "" {
		return nil
	}
	q := strings.ToLower(query)
	t := m.translations.Translations(string(l))

	var matches []candidate
	for _, page := range staticPages(t) {
		score := 0
		if containsFold(page.Title, q) {
			score += scoreTitle
		}
		if containsFold(page.Description, q) {
			score += scoreDescription
		}
		if score > 0 {
			matches = append(matches, candidate{result: page, score: score})
		}
	}

	for _, p := range m.posts.Posts() {
		score := 0
		if containsFold(p.Title.Get(l), q) {
			score += scoreTitle
		}
		if containsFold(p.Excerpt.Get(l), q) {
			score += scoreDescription
		}
		if containsFold(p.Content.Get(l), q) {
			score += scoreBody
		}
		if containsFold(strings.Join(p.Tags, " "), q) {
			score += scoreTags
		}
		if score == 0 {
			continue
		}
		res := model.SearchResult{
			Type:        model.TypeBlog,
			Title:       p.Title.Get(l),
			Description: p.Excerpt.Get(l),
			URL:         p.URL(),
		}
		if len(p.Categories) > 0 {
			res.Category = m.posts.CategoryName(p.Categories[0], l)
		}
		matches = append(matches, candidate{result: res, score: score})
	}

	if m.ranking == RankScored {
		sort.SliceStable(matches, func(i, j int) bool {
			return matches[i].score > matches[j].score
		})
	}
	if len(matches) > m.limit {
		matches = matches[:m.limit]
	}

	out := make([]model.SearchResult, len(matches))
	for i, c := range matches {
		out[i] = c.result
		out[i].URL = i18n.LocalizePath(c.result.URL, l)
	}
	return out
}

func containsFold(s, lowerQuery string) bool {
	return strings.Contains(strings.ToLower(s), lowerQuery)
}
