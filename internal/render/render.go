// Package render builds the static site: every page in every locale, the
// sitemap, the 404 pages and a copy of the static assets.
package render

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/FReptar0/EvoSystems/internal/content"
	"github.com/FReptar0/EvoSystems/internal/i18n"
	"github.com/FReptar0/EvoSystems/internal/logger"
	"github.com/FReptar0/EvoSystems/internal/metrics"
	"github.com/FReptar0/EvoSystems/internal/model"
	"github.com/FReptar0/EvoSystems/internal/related"
)

// Options configure a Builder.
type Options struct {
	SiteTitle string
	BaseURL   string
	OutputDir string
	// StaticDir is copied verbatim into OutputDir. Empty or missing skips the copy.
	StaticDir string
	// Layouts replaces the embedded layouts when non-nil.
	Layouts fs.FS

	Related   related.Resolver
	CityLimit int

	WhatsAppPhone string
	ContactEmail  string
}

// Result summarizes a finished build.
type Result struct {
	Pages    int
	Duration time.Duration
}

// Builder renders a content snapshot. A Builder is bound to one store; build
// a new one when content is reloaded.
type Builder struct {
	opts      Options
	store     *content.Store
	catalog   *i18n.Catalog
	log       logger.Logger
	metrics   *metrics.Metrics
	templates map[string]*template.Template
}

// New parses the layouts and returns a Builder. m may be nil.
func New(store *content.Store, catalog *i18n.Catalog, opts Options, log logger.Logger, m *metrics.Metrics) (*Builder, error) {
	if opts.OutputDir == "" {
		return nil, errors.New("render: output directory is required")
	}
	b := &Builder{
		opts:    opts,
		store:   store,
		catalog: catalog,
		log:     log,
		metrics: m,
	}
	layouts := opts.Layouts
	if layouts == nil {
		layouts = defaultLayouts()
	}
	templates, err := parseLayouts(layouts, b.funcs())
	if err != nil {
		return nil, err
	}
	b.templates = templates
	log.Debug("Layouts parsed", logger.Int("layouts", len(templates)))
	return b, nil
}

// run carries the state of one Build call.
type run struct {
	*Builder
	written int
	urls    []sitemapURL
}

// Build cleans the output directory and writes the whole site.
func (b *Builder) Build() (Result, error) {
	start := time.Now()
	r := &run{Builder: b}
	err := r.build()
	res := Result{Pages: r.written, Duration: time.Since(start)}
	if b.metrics != nil {
		b.metrics.ObserveBuild(res.Duration.Seconds(), res.Pages, err)
	}
	if err != nil {
		return res, err
	}
	b.log.Info("Site built",
		logger.String("output", b.opts.OutputDir),
		logger.Int("pages", res.Pages),
		logger.Duration("duration", res.Duration),
	)
	return res, nil
}

func (r *run) build() error {
	if err := r.prepareOutput(); err != nil {
		return err
	}
	if err := r.copyStatic(); err != nil {
		return err
	}

	for _, l := range i18n.Supported {
		steps := []func(i18n.Locale) error{
			r.renderHome,
			r.renderServices,
			r.renderSolutions,
			r.renderAbout,
			r.renderContact,
			r.renderFAQ,
			r.renderBlog,
			r.renderCities,
			r.renderPages,
			r.renderNotFound,
		}
		for _, step := range steps {
			if err := step(l); err != nil {
				return err
			}
		}
		r.log.Debug("Locale rendered", logger.String("locale", l.String()))
	}

	if err := r.writeSitemap(); err != nil {
		return err
	}
	return r.writeRobots()
}

func (r *run) prepareOutput() error {
	out := filepath.Clean(r.opts.OutputDir)
	if out == "." || out == string(filepath.Separator) {
		return fmt.Errorf("refusing to clean output directory %q", r.opts.OutputDir)
	}
	r.log.Debug("Cleaning output directory", logger.String("dir", out))
	if err := os.RemoveAll(out); err != nil {
		return fmt.Errorf("remove output directory %s: %w", out, err)
	}
	if err := os.MkdirAll(out, os.ModePerm); err != nil {
		return fmt.Errorf("create output directory %s: %w", out, err)
	}
	return nil
}

func (r *run) copyStatic() error {
	dir := r.opts.StaticDir
	if dir == "" {
		return nil
	}
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		r.log.Debug("Static directory not found, skipping copy", logger.String("dir", dir))
		return nil
	}
	if err := copyDirContents(dir, r.opts.OutputDir, r.log); err != nil {
		return fmt.Errorf("copy static assets: %w", err)
	}
	return nil
}

// newPage fills the fields shared by every page of locale l at the
// unprefixed path.
func (r *run) newPage(l i18n.Locale, path, title, description string) *model.PageData {
	t := r.catalog.For(l)
	return &model.PageData{
		SiteTitle:   r.opts.SiteTitle,
		BaseURL:     r.opts.BaseURL,
		Locale:      l,
		Path:        path,
		URL:         i18n.LocalizePath(path, l),
		Title:       title,
		Description: description,
		Keywords:    t.SEO.Keywords,
		Alternates:  i18n.HreflangURLs(r.opts.BaseURL, path),
		Breadcrumbs: Breadcrumbs(path, title, t, l),
		T:           t,
	}
}

// writePage renders layout into <output><URL>/index.html and records the
// URL for the sitemap.
func (r *run) writePage(layout string, page *model.PageData, lastMod time.Time) error {
	target := filepath.Join(r.opts.OutputDir, filepath.FromSlash(page.URL), "index.html")
	if err := r.execute(layout, page, target); err != nil {
		return err
	}
	r.urls = append(r.urls, sitemapURL{Path: page.Path, URL: page.URL, LastMod: lastMod})
	return nil
}

func (r *run) execute(layout string, page *model.PageData, target string) error {
	tmpl, ok := r.templates[layout]
	if !ok {
		return fmt.Errorf("layout %s not found", layout)
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, baseLayout, page); err != nil {
		return fmt.Errorf("execute layout %s for %s: %w", layout, page.URL, err)
	}
	if err := os.MkdirAll(filepath.Dir(target), os.ModePerm); err != nil {
		return fmt.Errorf("create directory for %s: %w", target, err)
	}
	if err := os.WriteFile(target, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", target, err)
	}
	r.written++
	r.log.Debug("Page written", logger.String("path", target), logger.String("layout", layout))
	return nil
}
