package server

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/FReptar0/EvoSystems/internal/analytics"
	"github.com/FReptar0/EvoSystems/internal/contact"
	"github.com/FReptar0/EvoSystems/internal/content"
	"github.com/FReptar0/EvoSystems/internal/i18n"
	"github.com/FReptar0/EvoSystems/internal/logger"
	"github.com/FReptar0/EvoSystems/internal/model"
	"github.com/FReptar0/EvoSystems/internal/related"
)

const clientIDHeader = "X-Client-ID"

var validate = validator.New()

// requestLocale reads ?locale= (exact code), then Accept-Language, then the
// default.
func requestLocale(c *gin.Context) i18n.Locale {
	if q := c.Query("locale"); q != "" {
		return i18n.Parse(q)
	}
	if h := c.GetHeader("Accept-Language"); h != "" {
		return i18n.FromAcceptLanguage(h)
	}
	return i18n.Default
}

func (s *Server) health(c *gin.Context) {
	snap := s.current()
	c.JSON(http.StatusOK, gin.H{
		"status": "healthy",
		"posts":  len(snap.Store.Posts()),
		"cities": len(snap.Store.Cities()),
	})
}

// SearchResponse is the body of GET /api/v1/search.
type SearchResponse struct {
	Query   string               `json:"query"`
	Locale  i18n.Locale          `json:"locale"`
	Results []model.SearchResult `json:"results"`
}

func (s *Server) search(c *gin.Context) {
	q := c.Query("q")
	l := requestLocale(c)

	results := s.current().Matcher.Search(q, l)
	if results == nil {
		results = []model.SearchResult{}
	}
	if strings.TrimSpace(q) != "" {
		if s.metrics != nil {
			s.metrics.ObserveSearch(l.String(), len(results))
		}
		s.track(c.GetHeader(clientIDHeader), analytics.Search(q, l.String(), len(results)))
	}
	c.JSON(http.StatusOK, SearchResponse{Query: q, Locale: l, Results: results})
}

// PostSummary is a blog post projected onto one locale.
type PostSummary struct {
	ID          string    `json:"id"`
	Slug        string    `json:"slug"`
	Title       string    `json:"title"`
	Excerpt     string    `json:"excerpt"`
	URL         string    `json:"url"`
	Categories  []string  `json:"categories"`
	Tags        []string  `json:"tags"`
	PublishedAt time.Time `json:"publishedAt"`
	ReadingTime string    `json:"readingTime,omitempty"`
	Featured    bool      `json:"featured"`
}

func summarizePosts(store *content.Store, posts []*model.BlogPost, l i18n.Locale) []PostSummary {
	out := make([]PostSummary, 0, len(posts))
	for _, p := range posts {
		cats := make([]string, len(p.Categories))
		for i, key := range p.Categories {
			cats[i] = store.CategoryName(key, l)
		}
		sum := PostSummary{
			ID:          p.ID,
			Slug:        p.Slug,
			Title:       p.Title.Get(l),
			Excerpt:     p.Excerpt.Get(l),
			URL:         i18n.LocalizePath(p.URL(), l),
			Categories:  cats,
			Tags:        p.Tags,
			PublishedAt: p.PublishedAt,
			Featured:    p.Featured,
		}
		if p.ReadingTime > 0 {
			sum.ReadingTime = i18n.ReadingTime(p.ReadingTime, l)
		}
		out = append(out, sum)
	}
	return out
}

func (s *Server) blogIndex(c *gin.Context) {
	l := requestLocale(c)
	store := s.current().Store
	posts := store.FilterPosts(c.Query("q"), c.Query("category"), l)
	c.JSON(http.StatusOK, gin.H{
		"locale": l,
		"posts":  summarizePosts(store, posts, l),
	})
}

func (s *Server) relatedPosts(c *gin.Context) {
	l := requestLocale(c)
	store := s.current().Store

	post, err := store.PostBySlug(c.Param("slug"))
	if errors.Is(err, content.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "post not found"})
		return
	}
	if err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"post":    post.Slug,
		"related": summarizePosts(store, s.opts.Related.To(post, store.Posts()), l),
	})
}

// NamedKey pairs a service or industry key with its display name.
type NamedKey struct {
	Key  string `json:"key"`
	Name string `json:"name"`
}

// CitySummary is a city projected onto one locale.
type CitySummary struct {
	ID    string `json:"id"`
	Slug  string `json:"slug"`
	Name  string `json:"name"`
	State string `json:"state"`
	URL   string `json:"url"`
}

// CityResponse is the body of GET /api/v1/cities/:slug.
type CityResponse struct {
	CitySummary
	Population      int64             `json:"population"`
	PopulationLabel string            `json:"populationLabel"`
	Coordinates     model.Coordinates `json:"coordinates"`
	Timezone        string            `json:"timezone,omitempty"`
	SEO             model.CitySEO     `json:"seo"`
	Services        []NamedKey        `json:"services"`
	Industries      []NamedKey        `json:"industries"`
	Related         []CitySummary     `json:"related"`
}

func summarizeCity(c *model.City, l i18n.Locale) CitySummary {
	return CitySummary{
		ID:    c.ID,
		Slug:  c.Slug,
		Name:  c.Name.Get(l),
		State: c.State.Get(l),
		URL:   i18n.LocalizePath(c.URL(), l),
	}
}

func named(keys []string, t *i18n.Translations) []NamedKey {
	out := make([]NamedKey, len(keys))
	for i, k := range keys {
		out[i] = NamedKey{Key: k, Name: t.IndustryName(k)}
	}
	return out
}

func (s *Server) city(c *gin.Context) {
	l := requestLocale(c)
	store := s.current().Store

	city, err := store.CityBySlug(c.Param("slug"))
	if errors.Is(err, content.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "city not found"})
		return
	}
	if err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	t := s.catalog.For(l)
	others := related.Cities(city, store.Cities(), s.opts.CityLimit)
	resp := CityResponse{
		CitySummary:     summarizeCity(city, l),
		Population:      city.Population,
		PopulationLabel: i18n.FormatNumber(city.Population, l),
		Coordinates:     city.Coordinates,
		Timezone:        city.Timezone,
		SEO:             city.SEOFor(l),
		Services:        named(city.Services.Priority, t),
		Industries:      named(city.Services.Industries, t),
		Related:         make([]CitySummary, 0, len(others)),
	}
	for _, o := range others {
		resp.Related = append(resp.Related, summarizeCity(o, l))
	}
	c.JSON(http.StatusOK, resp)
}

// EventsRequest is the body of POST /api/v1/events.
type EventsRequest struct {
	ClientID string            `json:"client_id"`
	Events   []analytics.Event `json:"events" validate:"required,min=1,max=25,dive"`
}

func (s *Server) events(c *gin.Context) {
	var req EventsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if err := validate.Struct(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid events", "details": err.Error()})
		return
	}
	var unknown []string
	for _, e := range req.Events {
		if !analytics.IsKnown(e.Name) {
			unknown = append(unknown, e.Name)
		}
	}
	if len(unknown) > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown events", "events": unknown})
		return
	}

	accepted := 0
	if s.tracker != nil {
		for _, e := range req.Events {
			if s.tracker.TrackFor(req.ClientID, e) {
				accepted++
			}
		}
	}
	c.JSON(http.StatusAccepted, gin.H{"accepted": accepted})
}

func (s *Server) contact(c *gin.Context) {
	var form contact.Form
	if err := c.ShouldBind(&form); err != nil {
		s.countContact("invalid")
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if err := form.Validate(); err != nil {
		s.countContact("invalid")
		var verr *contact.ValidationError
		if errors.As(err, &verr) {
			c.JSON(http.StatusBadRequest, gin.H{"error": contact.ErrInvalidForm.Error(), "fields": verr.Fields})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	l := i18n.Parse(form.Locale)
	links := contact.BuildLinks(form, s.opts.WhatsAppPhone, s.opts.ContactEmail, s.catalog.For(l), l, s.now().Hour())
	s.countContact("ok")
	s.track(c.GetHeader(clientIDHeader), analytics.FormSubmit("contact", form.Service))
	s.log.Info("Contact form accepted",
		logger.String("service", form.Service),
		logger.String("locale", l.String()),
	)

	// plain HTML form posts are sent straight to the chosen channel
	if c.ContentType() != binding.MIMEJSON {
		source := i18n.LocalizePath("/contact", l)
		target, click := links.WhatsApp, analytics.WhatsAppClick(form.Service, source)
		if form.Channel == "email" {
			target, click = links.Mailto, analytics.EmailClick(source)
		}
		s.track(c.GetHeader(clientIDHeader), click)
		c.Redirect(http.StatusSeeOther, target)
		return
	}
	c.JSON(http.StatusOK, gin.H{"links": links})
}

func (s *Server) countContact(outcome string) {
	if s.metrics != nil {
		s.metrics.ContactSubmissions.WithLabelValues(outcome).Inc()
	}
}
