package cmd

import (
	"fmt"
	"io/fs"
	"os"

	"github.com/FReptar0/EvoSystems/internal/config"
	"github.com/FReptar0/EvoSystems/internal/content"
	"github.com/FReptar0/EvoSystems/internal/i18n"
	"github.com/FReptar0/EvoSystems/internal/metrics"
	"github.com/FReptar0/EvoSystems/internal/related"
	"github.com/FReptar0/EvoSystems/internal/render"
	"github.com/FReptar0/EvoSystems/internal/search"
	"github.com/FReptar0/EvoSystems/internal/server"
)

func loadContent(cfg *config.Config) (*content.Store, error) {
	store, err := content.Load(content.Options{
		DataDir:  cfg.Site.DataDir,
		PagesDir: cfg.Site.PagesDir(),
	}, log)
	if err != nil {
		return nil, fmt.Errorf("load content: %w", err)
	}
	return store, nil
}

func relatedResolver(cfg *config.Config) related.Resolver {
	return related.Resolver{Strategy: cfg.RelatedStrategy(), Limit: cfg.Related.Limit}
}

func newMatcher(cfg *config.Config, catalog *i18n.Catalog, store *content.Store) *search.Matcher {
	return search.NewMatcher(catalog, store, search.Options{
		Limit:   cfg.Search.Limit,
		Ranking: cfg.SearchRanking(),
	})
}

// layoutsFS is nil, meaning the embedded layouts, unless site.layoutsDir is set.
func layoutsFS(cfg *config.Config) (fs.FS, error) {
	dir := cfg.Site.LayoutsDir
	if dir == "" {
		return nil, nil
	}
	if _, err := os.Stat(dir); err != nil {
		return nil, fmt.Errorf("layouts directory %q: %w", dir, err)
	}
	return os.DirFS(dir), nil
}

// buildSite loads the content and renders the whole site once.
func buildSite(cfg *config.Config, catalog *i18n.Catalog, m *metrics.Metrics) (*content.Store, render.Result, error) {
	store, err := loadContent(cfg)
	if err != nil {
		if m != nil {
			m.ObserveBuild(0, 0, err)
		}
		return nil, render.Result{}, err
	}

	layouts, err := layoutsFS(cfg)
	if err != nil {
		return nil, render.Result{}, err
	}
	builder, err := render.New(store, catalog, render.Options{
		SiteTitle:     cfg.Site.Title,
		BaseURL:       cfg.Site.BaseURL,
		OutputDir:     cfg.Site.OutputDir,
		StaticDir:     cfg.Site.StaticDir,
		Layouts:       layouts,
		Related:       relatedResolver(cfg),
		CityLimit:     cfg.Related.CityLimit,
		WhatsAppPhone: cfg.Contact.WhatsAppPhone,
		ContactEmail:  cfg.Contact.Email,
	}, log, m)
	if err != nil {
		return nil, render.Result{}, err
	}

	res, err := builder.Build()
	if err != nil {
		return nil, res, fmt.Errorf("build site: %w", err)
	}
	return store, res, nil
}

// rebuild renders the site and returns the snapshot the server answers from.
func rebuild(cfg *config.Config, catalog *i18n.Catalog, m *metrics.Metrics) (*server.Snapshot, error) {
	store, _, err := buildSite(cfg, catalog, m)
	if err != nil {
		return nil, err
	}
	return &server.Snapshot{Store: store, Matcher: newMatcher(cfg, catalog, store)}, nil
}
