package content

import (
	"sort"
	"strings"

	"github.com/FReptar0/EvoSystems/internal/i18n"
	"github.com/FReptar0/EvoSystems/internal/model"
)

// Posts returns every blog post in data-file order.
func (s *Store) Posts() []*model.BlogPost {
	return s.posts
}

// PostBySlug finds a post by its URL slug.
func (s *Store) PostBySlug(slug string) (*model.BlogPost, error) {
	for _, p := range s.posts {
		if p.Slug == slug {
			return p, nil
		}
	}
	return nil, ErrNotFound
}

// PostByID finds a post by id.
func (s *Store) PostByID(id string) (*model.BlogPost, error) {
	for _, p := range s.posts {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, ErrNotFound
}

// FeaturedPost returns the first post flagged as featured, or nil.
func (s *Store) FeaturedPost() *model.BlogPost {
	for _, p := range s.posts {
		if p.Featured {
			return p
		}
	}
	return nil
}

// FilterPosts is the blog index filter: term matches title, excerpt or any
// tag (case-insensitive) in locale l, and category, when set, must be one of
// the post's categories. Both conditions must hold.
func (s *Store) FilterPosts(term, category string, l i18n.Locale) []*model.BlogPost {
	term = strings.ToLower(strings.TrimSpace(term))
	var out []*model.BlogPost
	for _, p := range s.posts {
		if category != "" && !p.HasCategory(category) {
			continue
		}
		if term != "" && !postMatchesTerm(p, term, l) {
			continue
		}
		out = append(out, p)
	}
	return out
}

func postMatchesTerm(p *model.BlogPost, term string, l i18n.Locale) bool {
	if strings.Contains(strings.ToLower(p.Title.Get(l)), term) ||
		strings.Contains(strings.ToLower(p.Excerpt.Get(l)), term) {
		return true
	}
	for _, tag := range p.Tags {
		if strings.Contains(strings.ToLower(tag), term) {
			return true
		}
	}
	return false
}

// Categories returns the category table in data-file order.
func (s *Store) Categories() []Category {
	return s.categories
}

// CategoryName is the display name of key in l. Unknown keys are returned
// as-is.
func (s *Store) CategoryName(key string, l i18n.Locale) string {
	if name, ok := s.catIndex[key]; ok {
		if v := name.Get(l); v != "" {
			return v
		}
	}
	return key
}

// Cities returns every city in data-file order.
func (s *Store) Cities() []*model.City {
	return s.cities
}

// CityBySlug finds a city by its URL slug.
func (s *Store) CityBySlug(slug string) (*model.City, error) {
	for _, c := range s.cities {
		if c.Slug == slug {
			return c, nil
		}
	}
	return nil, ErrNotFound
}

// CityByID finds a city by id.
func (s *Store) CityByID(id string) (*model.City, error) {
	for _, c := range s.cities {
		if c.ID == id {
			return c, nil
		}
	}
	return nil, ErrNotFound
}

// MajorCities orders cities by population, largest first, and keeps the
// first limit (all when limit <= 0). The store order is untouched.
func (s *Store) MajorCities(limit int) []*model.City {
	out := append([]*model.City(nil), s.cities...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Population > out[j].Population
	})
	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	return out
}

// CitiesByIndustry lists cities whose industries or economic sectors
// include industry.
func (s *Store) CitiesByIndustry(industry string) []*model.City {
	var out []*model.City
	for _, c := range s.cities {
		if contains(c.Services.Industries, industry) || contains(c.EconomicSectors, industry) {
			out = append(out, c)
		}
	}
	return out
}

// CitiesForService lists cities that promote service.
func (s *Store) CitiesForService(service string) []*model.City {
	var out []*model.City
	for _, c := range s.cities {
		if contains(c.Services.Priority, service) {
			out = append(out, c)
		}
	}
	return out
}

// FAQ returns the FAQ categories.
func (s *Store) FAQ() []model.FAQCategory {
	return s.faq
}

// Pages returns every markdown page across locales.
func (s *Store) Pages() []*model.Page {
	return s.pages
}

// PageBySlug returns the page for slug in l, or its default-locale version.
func (s *Store) PageBySlug(slug string, l i18n.Locale) (*model.Page, error) {
	var fallback *model.Page
	for _, p := range s.pages {
		if p.Slug != slug {
			continue
		}
		if p.Locale == l {
			return p, nil
		}
		if p.Locale == i18n.Default {
			fallback = p
		}
	}
	if fallback != nil {
		return fallback, nil
	}
	return nil, ErrNotFound
}

// PageSlugs lists distinct page slugs in load order.
func (s *Store) PageSlugs() []string {
	seen := make(map[string]bool)
	var out []string
	for _, p := range s.pages {
		if !seen[p.Slug] {
			seen[p.Slug] = true
			out = append(out, p.Slug)
		}
	}
	return out
}

func contains(list []string, v string) bool {
	for _, x := range list {
		if x == v {
			return true
		}
	}
	return false
}
