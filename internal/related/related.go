// Package related picks the posts and cities shown under "related" headings.
package related

import (
	"fmt"
	"strings"

	"github.com/FReptar0/EvoSystems/internal/model"
)

const (
	// DefaultLimit is the number of related posts shown under an article.
	DefaultLimit = 3
	// DefaultCityLimit is the number of other cities listed on a city page.
	DefaultCityLimit = 6
)

// Strategy decides the order of qualifying posts before the limit applies.
type Strategy string

const (
	// PoolOrder keeps the order of the pool for every qualifying post.
	PoolOrder Strategy = "pool"
	// ExplicitFirst lists posts named in RelatedPosts (in pool order) ahead
	// of posts that only share a category.
	ExplicitFirst Strategy = "explicit-first"
)

// ParseStrategy maps a config value to a Strategy.
func ParseStrategy(s string) (Strategy, error) {
	switch Strategy(strings.ToLower(strings.TrimSpace(s))) {
	case "", PoolOrder:
		return PoolOrder, nil
	case ExplicitFirst:
		return ExplicitFirst, nil
	}
	return "", fmt.Errorf("unknown related strategy %q", s)
}

// Resolver selects related posts with a fixed strategy and limit.
type Resolver struct {
	Strategy Strategy
	Limit    int
}

// To returns posts from pool related to post: those whose id appears in
// post.RelatedPosts or that share at least one category with it. The post
// itself is never included and at most r.Limit posts are returned
// (DefaultLimit when unset).
func (r Resolver) To(post *model.BlogPost, pool []*model.BlogPost) []*model.BlogPost {
	limit := r.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}

	explicit := make(map[string]bool, len(post.RelatedPosts))
	for _, id := range post.RelatedPosts {
		explicit[id] = true
	}
	cats := make(map[string]bool, len(post.Categories))
	for _, c := range post.Categories {
		cats[c] = true
	}

	var primary, secondary []*model.BlogPost
	for _, c := range pool {
		if c == nil || c.ID == post.ID {
			continue
		}
		isNamed := explicit[c.ID]
		if !isNamed && !sharesCategory(c, cats) {
			continue
		}
		if isNamed || r.Strategy != ExplicitFirst {
			primary = append(primary, c)
		} else {
			secondary = append(secondary, c)
		}
	}

	out := append(primary, secondary...)
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

// To is Resolver.To with the pool-order strategy.
func To(post *model.BlogPost, pool []*model.BlogPost, limit int) []*model.BlogPost {
	return Resolver{Strategy: PoolOrder, Limit: limit}.To(post, pool)
}

func sharesCategory(p *model.BlogPost, cats map[string]bool) bool {
	for _, c := range p.Categories {
		if cats[c] {
			return true
		}
	}
	return false
}

// Cities lists up to limit cities other than city, in pool order.
func Cities(city *model.City, pool []*model.City, limit int) []*model.City {
	if limit <= 0 {
		limit = DefaultCityLimit
	}
	var out []*model.City
	for _, c := range pool {
		if c.ID == city.ID {
			continue
		}
		out = append(out, c)
		if len(out) == limit {
			break
		}
	}
	return out
}
