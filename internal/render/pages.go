package render

import (
	"errors"
	"html/template"
	"path/filepath"
	"strings"
	"time"

	"github.com/FReptar0/EvoSystems/internal/content"
	"github.com/FReptar0/EvoSystems/internal/i18n"
	"github.com/FReptar0/EvoSystems/internal/logger"
	"github.com/FReptar0/EvoSystems/internal/model"
	"github.com/FReptar0/EvoSystems/internal/related"
)

// NotFoundFile is the name of the 404 page inside each locale's tree.
const NotFoundFile = "404.html"

const (
	homeLatestPosts   = 3
	homeCities        = 4
	defaultPageLayout = "page.html"
)

// HomeView is the data of the home page.
type HomeView struct {
	Featured *model.BlogPost
	Latest   []*model.BlogPost
	Cities   []*model.City
}

// ContactView is the data of the contact page.
type ContactView struct {
	WhatsAppPhone string
	Email         string
	Endpoint      string
}

// BlogIndexView is the data of the blog index.
type BlogIndexView struct {
	Featured   *model.BlogPost
	Posts      []*model.BlogPost
	Categories []content.Category
}

// PostView is the data of a blog article.
type PostView struct {
	Post    *model.BlogPost
	Body    template.HTML
	Related []*model.BlogPost
}

// CityView is the data of a city landing page.
type CityView struct {
	City   *model.City
	SEO    model.CitySEO
	Others []*model.City
	Posts  []*model.BlogPost
}

func (r *run) renderHome(l i18n.Locale) error {
	t := r.catalog.For(l)
	page := r.newPage(l, "/", t.SEO.Title, t.SEO.Description)

	latest := r.store.Posts()
	if len(latest) > homeLatestPosts {
		latest = latest[:homeLatestPosts]
	}
	page.Data = HomeView{
		Featured: r.store.FeaturedPost(),
		Latest:   latest,
		Cities:   r.store.MajorCities(homeCities),
	}
	return r.writePage("home.html", page, time.Time{})
}

func (r *run) renderServices(l i18n.Locale) error {
	t := r.catalog.For(l)
	return r.writePage("services.html", r.newPage(l, "/services", t.Services.Title, t.Services.Subtitle), time.Time{})
}

func (r *run) renderSolutions(l i18n.Locale) error {
	t := r.catalog.For(l)
	return r.writePage("solutions.html", r.newPage(l, "/solutions", t.Solutions.Title, t.Solutions.Subtitle), time.Time{})
}

func (r *run) renderAbout(l i18n.Locale) error {
	t := r.catalog.For(l)
	return r.writePage("about.html", r.newPage(l, "/about", t.About.Title, t.About.Description), time.Time{})
}

func (r *run) renderContact(l i18n.Locale) error {
	t := r.catalog.For(l)
	page := r.newPage(l, "/contact", t.Contact.Title, t.Contact.Subtitle)
	page.Data = ContactView{
		WhatsAppPhone: r.opts.WhatsAppPhone,
		Email:         r.opts.ContactEmail,
		Endpoint:      "/api/v1/contact",
	}
	return r.writePage("contact.html", page, time.Time{})
}

func (r *run) renderFAQ(l i18n.Locale) error {
	t := r.catalog.For(l)
	page := r.newPage(l, "/faq", t.FAQ.Title, t.FAQ.Subtitle)
	page.Data = r.store.FAQ()
	return r.writePage("faq.html", page, time.Time{})
}

func (r *run) renderBlog(l i18n.Locale) error {
	t := r.catalog.For(l)
	index := r.newPage(l, "/blog", t.Blog.Title, t.Blog.Subtitle)
	index.Data = BlogIndexView{
		Featured:   r.store.FeaturedPost(),
		Posts:      r.store.Posts(),
		Categories: r.store.Categories(),
	}
	if err := r.writePage("blog.html", index, time.Time{}); err != nil {
		return err
	}

	md := r.store.Markdown()
	for _, p := range r.store.Posts() {
		body, err := md.RenderString(p.Content.Get(l))
		if err != nil {
			return err
		}
		title := p.SEO.MetaTitle.Get(l)
		if title == "" {
			title = p.Title.Get(l)
		}
		description := p.SEO.MetaDescription.Get(l)
		if description == "" {
			description = p.Excerpt.Get(l)
		}

		page := r.newPage(l, p.URL(), title, description)
		page.Breadcrumbs = Breadcrumbs(p.URL(), p.Title.Get(l), t, l)
		if len(p.SEO.Keywords) > 0 {
			page.Keywords = strings.Join(p.SEO.Keywords, ", ")
		}
		page.Data = PostView{
			Post:    p,
			Body:    body,
			Related: r.opts.Related.To(p, r.store.Posts()),
		}

		lastMod := p.UpdatedAt
		if lastMod.IsZero() {
			lastMod = p.PublishedAt
		}
		if err := r.writePage("post.html", page, lastMod); err != nil {
			return err
		}
	}
	return nil
}

func (r *run) renderCities(l i18n.Locale) error {
	t := r.catalog.For(l)
	index := r.newPage(l, "/ciudades", t.Cities.Title, t.Cities.Subtitle)
	index.Data = r.store.MajorCities(0)
	if err := r.writePage("cities.html", index, time.Time{}); err != nil {
		return err
	}

	for _, c := range r.store.Cities() {
		seo := c.SEOFor(l)
		title := seo.Title
		if title == "" {
			title = c.Name.Get(l)
		}
		page := r.newPage(l, c.URL(), title, seo.Description)
		page.Breadcrumbs = Breadcrumbs(c.URL(), c.Name.Get(l), t, l)
		if len(seo.Keywords) > 0 {
			page.Keywords = strings.Join(seo.Keywords, ", ")
		}
		page.Data = CityView{
			City:   c,
			SEO:    seo,
			Others: related.Cities(c, r.store.Cities(), r.opts.CityLimit),
			Posts:  postsForCity(r.store.Posts(), c.ID),
		}
		if err := r.writePage("city.html", page, time.Time{}); err != nil {
			return err
		}
	}
	return nil
}

func postsForCity(posts []*model.BlogPost, cityID string) []*model.BlogPost {
	var out []*model.BlogPost
	for _, p := range posts {
		for _, id := range p.Cities {
			if id == cityID {
				out = append(out, p)
				break
			}
		}
	}
	return out
}

// renderPages writes every markdown page in l. A page missing in l is
// rendered from its default-locale version. The frontmatter layout wins when
// it names a known layout.
func (r *run) renderPages(l i18n.Locale) error {
	for _, slug := range r.store.PageSlugs() {
		p, err := r.store.PageBySlug(slug, l)
		if errors.Is(err, content.ErrNotFound) {
			continue
		}
		if err != nil {
			return err
		}

		layout := defaultPageLayout
		if p.Layout != "" {
			if _, ok := r.templates[p.Layout]; ok {
				layout = p.Layout
			} else {
				r.log.Warn("Frontmatter layout not found, using default",
					logger.String("page", p.SourcePath),
					logger.String("layout", p.Layout),
					logger.String("default", layout),
				)
			}
		}

		page := r.newPage(l, p.URL(), p.Title, p.Description)
		page.Data = p
		if err := r.writePage(layout, page, p.Date); err != nil {
			return err
		}
	}
	return nil
}

// renderNotFound writes 404.html at the root of each locale's tree. It is
// not listed in the sitemap.
func (r *run) renderNotFound(l i18n.Locale) error {
	t := r.catalog.For(l)
	page := r.newPage(l, "/404", t.NotFound.Title, t.NotFound.Body)
	page.Breadcrumbs = nil
	page.Alternates = nil
	dir := i18n.LocalizePath("/", l)
	return r.execute("404.html", page, filepath.Join(r.opts.OutputDir, filepath.FromSlash(dir), NotFoundFile))
}
