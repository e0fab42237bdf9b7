package render

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FReptar0/EvoSystems/internal/content"
	"github.com/FReptar0/EvoSystems/internal/i18n"
	"github.com/FReptar0/EvoSystems/internal/logger"
	"github.com/FReptar0/EvoSystems/internal/metrics"
	"github.com/FReptar0/EvoSystems/internal/model"
	"github.com/FReptar0/EvoSystems/internal/related"
)

func testPost(id, slug, title string, cats []string, relatedIDs ...string) *model.BlogPost {
	return &model.BlogPost{
		ID:           id,
		Slug:         slug,
		Title:        i18n.Text{i18n.Spanish: title, i18n.English: title + " EN"},
		Excerpt:      i18n.Text{i18n.Spanish: "Resumen de " + title},
		Content:      i18n.Text{i18n.Spanish: "## Contexto\n\nTexto de " + title},
		Author:       model.Author{Name: "Equipo EvoSystems"},
		PublishedAt:  time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC),
		Categories:   cats,
		ReadingTime:  4,
		RelatedPosts: relatedIDs,
	}
}

func testStore(t *testing.T) *content.Store {
	t.Helper()
	posts := []*model.BlogPost{
		testPost("p1", "guia-erp", "Guía ERP", []string{"erp"}, "p3"),
		testPost("p2", "sitios-rapidos", "Sitios rápidos", []string{"web"}),
		testPost("p3", "tiendas-odoo", "Tiendas con Odoo", []string{"web", "erp"}),
	}
	posts[1].Featured = true
	posts[2].Cities = []string{"qro"}

	cities := []*model.City{
		{
			ID:         "qro",
			Slug:       "queretaro",
			Name:       i18n.Text{i18n.Spanish: "Querétaro", i18n.English: "Queretaro"},
			State:      i18n.Text{i18n.Spanish: "Querétaro"},
			Population: 1200000,
			SEO: map[i18n.Locale]model.CitySEO{
				i18n.Spanish: {Title: "Software en Querétaro", Description: "Desarrollo en Querétaro"},
			},
			Services: model.CityServices{Priority: []string{"erp-systems"}, Industries: []string{"aerospace"}},
		},
		{
			ID:         "cdmx",
			Slug:       "cdmx",
			Name:       i18n.Text{i18n.Spanish: "Ciudad de México", i18n.English: "Mexico City"},
			State:      i18n.Text{i18n.Spanish: "CDMX"},
			Population: 9200000,
		},
	}
	categories := []content.Category{
		{Key: "erp", Name: i18n.Text{i18n.Spanish: "Sistemas ERP", i18n.English: "ERP Systems"}},
		{Key: "web", Name: i18n.Text{i18n.Spanish: "Desarrollo Web"}},
	}
	faq := []model.FAQCategory{{
		ID:   "general",
		Name: i18n.Text{i18n.Spanish: "General"},
		Questions: []model.FAQQuestion{{
			ID:       "q1",
			Question: i18n.Text{i18n.Spanish: "¿Cuánto cuesta?"},
			Answer:   i18n.Text{i18n.Spanish: "Depende del alcance."},
		}},
	}}
	pages := []*model.Page{{
		Slug:        "privacy",
		Locale:      i18n.Spanish,
		Title:       "Privacidad",
		Description: "Aviso de privacidad",
		Layout:      "missing.html",
		ContentHTML: "<p>Tus datos están seguros.</p>",
	}}

	s, err := content.New(posts, categories, cities, faq, pages)
	require.NoError(t, err)
	return s
}

func newBuilder(t *testing.T, opts Options, m *metrics.Metrics) (*Builder, string) {
	t.Helper()
	catalog, err := i18n.LoadCatalog()
	require.NoError(t, err)

	out := filepath.Join(t.TempDir(), "public")
	opts.OutputDir = out
	if opts.SiteTitle == "" {
		opts.SiteTitle = "EvoSystems"
	}
	if opts.BaseURL == "" {
		opts.BaseURL = "https://evosystems.dev"
	}
	b, err := New(testStore(t), catalog, opts, logger.NewNop(), m)
	require.NoError(t, err)
	return b, out
}

func readOutput(t *testing.T, out, rel string) string {
	t.Helper()
	raw, err := os.ReadFile(filepath.Join(out, filepath.FromSlash(rel)))
	require.NoError(t, err, rel)
	return string(raw)
}

func TestBuild_WritesEveryPageInEveryLocale(t *testing.T) {
	b, out := newBuilder(t, Options{Related: related.Resolver{Limit: 3}}, nil)

	res, err := b.Build()
	require.NoError(t, err)

	// home, services, solutions, about, contact, faq, blog, 3 posts,
	// cities, 2 cities, 1 page, 404
	assert.Equal(t, 2*15, res.Pages)

	for _, rel := range []string{
		"index.html",
		"services/index.html",
		"solutions/index.html",
		"about/index.html",
		"contact/index.html",
		"faq/index.html",
		"blog/index.html",
		"blog/guia-erp/index.html",
		"ciudades/index.html",
		"ciudades/queretaro/index.html",
		"privacy/index.html",
		"404.html",
	} {
		assert.FileExists(t, filepath.Join(out, rel))
		assert.FileExists(t, filepath.Join(out, "en", rel))
	}
	assert.FileExists(t, filepath.Join(out, "sitemap.xml"))
	assert.FileExists(t, filepath.Join(out, "robots.txt"))
}

func TestBuild_PostPage(t *testing.T) {
	b, out := newBuilder(t, Options{Related: related.Resolver{Limit: 3}}, nil)
	_, err := b.Build()
	require.NoError(t, err)

	es := readOutput(t, out, "blog/guia-erp/index.html")
	assert.Contains(t, es, "<title>Guía ERP | EvoSystems</title>")
	assert.Contains(t, es, `<h2 id="contexto">Contexto</h2>`)
	assert.Contains(t, es, "5 de marzo de 2024")
	assert.Contains(t, es, "4 minutos")
	assert.Contains(t, es, "Artículos relacionados")
	assert.Contains(t, es, `href="/blog/tiendas-odoo"`)
	assert.NotContains(t, es, `href="/blog/sitios-rapidos"`)
	assert.Contains(t, es, `hreflang="en-US" href="https://evosystems.dev/en/blog/guia-erp"`)
	assert.Contains(t, es, `hreflang="x-default" href="https://evosystems.dev/blog/guia-erp"`)

	en := readOutput(t, out, "en/blog/guia-erp/index.html")
	assert.Contains(t, en, `<html lang="en-US">`)
	assert.Contains(t, en, "Guía ERP EN")
	assert.Contains(t, en, "March 5, 2024")
	assert.Contains(t, en, `href="/en/blog/tiendas-odoo"`)
	// the excerpt has no English value
	assert.Contains(t, en, "Resumen de Tiendas con Odoo")
}

func TestBuild_BreadcrumbsAndLanguageSwitch(t *testing.T) {
	b, out := newBuilder(t, Options{}, nil)
	_, err := b.Build()
	require.NoError(t, err)

	html := readOutput(t, out, "en/ciudades/queretaro/index.html")
	assert.Contains(t, html, `<a href="/en">Home</a>`)
	assert.Contains(t, html, `<a href="/en/ciudades">Cities</a>`)
	assert.Contains(t, html, `<span aria-current="page">Queretaro</span>`)
	assert.Contains(t, html, `href="/ciudades/queretaro">es</a>`)
	// English SEO falls back to Spanish
	assert.Contains(t, html, "<h1>Software en Querétaro</h1>")
	assert.Contains(t, html, "Mexico City")
	assert.Contains(t, html, `href="/en/blog/tiendas-odoo"`)

	home := readOutput(t, out, "index.html")
	assert.NotContains(t, home, `class="breadcrumbs"`)
}

func TestBuild_MarkdownPageFallsBack(t *testing.T) {
	b, out := newBuilder(t, Options{}, nil)
	_, err := b.Build()
	require.NoError(t, err)

	en := readOutput(t, out, "en/privacy/index.html")
	assert.Contains(t, en, "<p>Tus datos están seguros.</p>")
	assert.Contains(t, en, "Privacy Policy")
}

func TestBuild_NotFoundPage(t *testing.T) {
	b, out := newBuilder(t, Options{}, nil)
	_, err := b.Build()
	require.NoError(t, err)

	assert.Contains(t, readOutput(t, out, "404.html"), "Página no encontrada")
	assert.NotContains(t, readOutput(t, out, "sitemap.xml"), "404")
}

func TestBuild_Sitemap(t *testing.T) {
	b, out := newBuilder(t, Options{}, nil)
	_, err := b.Build()
	require.NoError(t, err)

	sitemap := readOutput(t, out, "sitemap.xml")
	assert.True(t, strings.HasPrefix(sitemap, "<?xml"))
	assert.Contains(t, sitemap, "<loc>https://evosystems.dev/</loc>")
	assert.Contains(t, sitemap, "<loc>https://evosystems.dev/en/blog/guia-erp</loc>")
	assert.Contains(t, sitemap, "<lastmod>2024-03-05</lastmod>")
	assert.Contains(t, sitemap, `hreflang="es-MX"`)

	robots := readOutput(t, out, "robots.txt")
	assert.Contains(t, robots, "Sitemap: https://evosystems.dev/sitemap.xml")
}

func TestBuild_CopiesStaticAndCleansOutput(t *testing.T) {
	static := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(static, "css"), os.ModePerm))
	require.NoError(t, os.WriteFile(filepath.Join(static, "css", "site.css"), []byte("body{}"), 0o644))

	b, out := newBuilder(t, Options{StaticDir: static}, nil)
	require.NoError(t, os.MkdirAll(out, os.ModePerm))
	require.NoError(t, os.WriteFile(filepath.Join(out, "stale.html"), []byte("old"), 0o644))

	_, err := b.Build()
	require.NoError(t, err)

	assert.Equal(t, "body{}", readOutput(t, out, "css/site.css"))
	assert.NoFileExists(t, filepath.Join(out, "stale.html"))
}

func TestBuild_RecordsMetrics(t *testing.T) {
	m := metrics.New(prometheus.NewRegistry())
	b, _ := newBuilder(t, Options{}, m)

	_, err := b.Build()
	require.NoError(t, err)

	assert.Equal(t, float64(30), testutil.ToFloat64(m.PagesRendered))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.BuildsTotal.WithLabelValues("ok")))
}

func TestNew_RequiresOutputDir(t *testing.T) {
	catalog, err := i18n.LoadCatalog()
	require.NoError(t, err)

	_, err = New(testStore(t), catalog, Options{}, logger.NewNop(), nil)
	assert.Error(t, err)
}

func TestParseLayouts(t *testing.T) {
	fsys := fstest.MapFS{
		"base.html":             {Data: []byte(`<html>{{template "nav" .}}{{template "content" .}}</html>`)},
		"partials/nav.html":     {Data: []byte(`{{define "nav"}}<nav></nav>{{end}}`)},
		"home.html":             {Data: []byte(`{{define "content"}}home{{end}}`)},
		"sections/landing.html": {Data: []byte(`{{define "content"}}landing{{end}}`)},
	}

	layouts, err := parseLayouts(fsys, nil)
	require.NoError(t, err)
	require.Contains(t, layouts, "home.html")
	require.Contains(t, layouts, "landing.html")
	assert.NotContains(t, layouts, "nav.html")

	var sb strings.Builder
	require.NoError(t, layouts["landing.html"].ExecuteTemplate(&sb, baseLayout, nil))
	assert.Equal(t, "<html><nav></nav>landing</html>", sb.String())
}

func TestParseLayouts_MissingBase(t *testing.T) {
	_, err := parseLayouts(fstest.MapFS{
		"home.html": {Data: []byte(`{{define "content"}}home{{end}}`)},
	}, nil)
	assert.Error(t, err)
}

func TestBreadcrumbs(t *testing.T) {
	catalog, err := i18n.LoadCatalog()
	require.NoError(t, err)
	es := catalog.For(i18n.Spanish)

	assert.Nil(t, Breadcrumbs("/", "Inicio", es, i18n.Spanish))

	crumbs := Breadcrumbs("/blog/guia-erp", "Guía ERP", es, i18n.Spanish)
	assert.Equal(t, []model.Breadcrumb{
		{Label: "Inicio", Href: "/"},
		{Label: "Blog", Href: "/blog"},
		{Label: "Guía ERP", Href: "/blog/guia-erp", IsCurrentPage: true},
	}, crumbs)

	crumbs = Breadcrumbs("/services", "Nuestros Servicios", catalog.For(i18n.English), i18n.English)
	require.Len(t, crumbs, 2)
	assert.Equal(t, "Services", crumbs[1].Label)
	assert.Equal(t, "/en/services", crumbs[1].Href)

	crumbs = Breadcrumbs("/aviso-legal/anexo", "", es, i18n.Spanish)
	assert.Equal(t, "Aviso legal", crumbs[1].Label)
	assert.Equal(t, "Anexo", crumbs[2].Label)
}
