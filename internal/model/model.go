package model

import (
	"html/template"
	"time"

	"github.com/FReptar0/EvoSystems/internal/i18n"
)

// ContentType tags what kind of item a search result points at.
type ContentType string

const (
	TypePage    ContentType = "page"
	TypeBlog    ContentType = "blog"
	TypeService ContentType = "service"
)

// ContentItem is any unit surfaced by search: a static page, a service
// description or a blog post. URL is unprefixed; callers localize it.
type ContentItem struct {
	Type        ContentType
	URL         string
	Title       i18n.Text
	Description i18n.Text
}

// SearchResult is a ContentItem projected onto one locale.
type SearchResult struct {
	Type        ContentType `json:"type"`
	Title       string      `json:"title"`
	Description string      `json:"description"`
	URL         string      `json:"url"`
	Category    string      `json:"category,omitempty"`
}

// Author of a blog post.
type Author struct {
	Name   string    `yaml:"name" json:"name" validate:"required"`
	Avatar string    `yaml:"avatar" json:"avatar,omitempty"`
	Bio    i18n.Text `yaml:"bio" json:"bio,omitempty"`
}

// Image is a post's hero image.
type Image struct {
	Src    string    `yaml:"src" json:"src"`
	Alt    i18n.Text `yaml:"alt" json:"alt"`
	Width  int       `yaml:"width" json:"width"`
	Height int       `yaml:"height" json:"height"`
}

// SEO holds per-locale meta tags.
type SEO struct {
	MetaTitle       i18n.Text `yaml:"metaTitle" json:"metaTitle"`
	MetaDescription i18n.Text `yaml:"metaDescription" json:"metaDescription"`
	Keywords        []string  `yaml:"keywords" json:"keywords,omitempty"`
}

// BlogPost is a localized article. Categories reference keys of the
// category table; RelatedPosts lists ids of explicitly related posts.
type BlogPost struct {
	ID           string    `yaml:"id" json:"id" validate:"required"`
	Slug         string    `yaml:"slug" json:"slug" validate:"required"`
	Title        i18n.Text `yaml:"title" json:"title" validate:"required"`
	Excerpt      i18n.Text `yaml:"excerpt" json:"excerpt" validate:"required"`
	Content      i18n.Text `yaml:"content" json:"content" validate:"required"`
	Author       Author    `yaml:"author" json:"author"`
	PublishedAt  time.Time `yaml:"publishedAt" json:"publishedAt" validate:"required"`
	UpdatedAt    time.Time `yaml:"updatedAt" json:"updatedAt"`
	Featured     bool      `yaml:"featured" json:"featured"`
	Categories   []string  `yaml:"categories" json:"categories" validate:"required,min=1"`
	Tags         []string  `yaml:"tags" json:"tags"`
	SEO          SEO       `yaml:"seo" json:"seo"`
	ReadingTime  int       `yaml:"readingTime" json:"readingTime"`
	Image        Image     `yaml:"image" json:"image"`
	Cities       []string  `yaml:"cities" json:"cities,omitempty"`
	RelatedPosts []string  `yaml:"relatedPosts" json:"relatedPosts,omitempty"`
}

// URL is the unprefixed path of the post page.
func (p *BlogPost) URL() string {
	return "/blog/" + p.Slug
}

// HasCategory reports whether the post is filed under key.
func (p *BlogPost) HasCategory(key string) bool {
	for _, c := range p.Categories {
		if c == key {
			return true
		}
	}
	return false
}

// Coordinates is a latitude/longitude pair.
type Coordinates struct {
	Lat float64 `yaml:"lat" json:"lat" validate:"min=-90,max=90"`
	Lng float64 `yaml:"lng" json:"lng" validate:"min=-180,max=180"`
}

// CitySEO holds the landing page meta for one locale.
type CitySEO struct {
	Title       string   `yaml:"title" json:"title"`
	Description string   `yaml:"description" json:"description"`
	Keywords    []string `yaml:"keywords" json:"keywords"`
}

// CityServices lists the services promoted in a city and its industries.
type CityServices struct {
	Priority   []string `yaml:"priority" json:"priority"`
	Industries []string `yaml:"industries" json:"industries"`
}

// City is a local landing page target.
type City struct {
	ID              string                  `yaml:"id" json:"id" validate:"required"`
	Slug            string                  `yaml:"slug" json:"slug" validate:"required"`
	Name            i18n.Text               `yaml:"name" json:"name" validate:"required"`
	State           i18n.Text               `yaml:"state" json:"state" validate:"required"`
	Population      int64                   `yaml:"population" json:"population" validate:"gte=0"`
	Coordinates     Coordinates             `yaml:"coordinates" json:"coordinates"`
	Timezone        string                  `yaml:"timezone" json:"timezone"`
	EconomicSectors []string                `yaml:"economicSectors" json:"economicSectors"`
	SEO             map[i18n.Locale]CitySEO `yaml:"seo" json:"seo"`
	Services        CityServices            `yaml:"services" json:"services"`
}

// URL is the unprefixed path of the city landing page.
func (c *City) URL() string {
	return "/ciudades/" + c.Slug
}

// SEOFor returns the meta for l, falling back to the default locale.
func (c *City) SEOFor(l i18n.Locale) CitySEO {
	if s, ok := c.SEO[l]; ok && s.Title != "" {
		return s
	}
	return c.SEO[i18n.Default]
}

// FAQQuestion is a single question/answer pair.
type FAQQuestion struct {
	ID       string    `yaml:"id"`
	Question i18n.Text `yaml:"question"`
	Answer   i18n.Text `yaml:"answer"`
}

// FAQCategory groups questions.
type FAQCategory struct {
	ID        string        `yaml:"id"`
	Name      i18n.Text     `yaml:"name"`
	Questions []FAQQuestion `yaml:"questions"`
}

// Page is a markdown page (privacy policy, terms) for a single locale.
type Page struct {
	Slug        string
	Locale      i18n.Locale
	Title       string
	Description string
	Date        time.Time
	Layout      string
	SourcePath  string
	ContentHTML template.HTML
	Frontmatter map[string]interface{}
}

// URL is the unprefixed path of the page.
func (p *Page) URL() string {
	return "/" + p.Slug
}
