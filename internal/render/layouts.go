package render

import (
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"path"
	"strings"
	"time"

	"github.com/FReptar0/EvoSystems/internal/i18n"
	"github.com/FReptar0/EvoSystems/internal/model"
)

const (
	baseLayout  = "base.html"
	partialsDir = "partials"
)

//go:embed layouts
var embedded embed.FS

func defaultLayouts() fs.FS {
	sub, err := fs.Sub(embedded, "layouts")
	if err != nil {
		panic(err)
	}
	return sub
}

// parseLayouts parses base.html together with every partial, then clones
// that set once per page layout so each page can define its own "content"
// block. The result is keyed by the page layout's file name.
func parseLayouts(fsys fs.FS, funcs template.FuncMap) (map[string]*template.Template, error) {
	var basePath string
	var partials, pages []string

	err := fs.WalkDir(fsys, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(strings.ToLower(d.Name()), ".html") {
			return nil
		}
		switch {
		case p == baseLayout:
			basePath = p
		case strings.HasPrefix(p, partialsDir+"/"):
			partials = append(partials, p)
		default:
			pages = append(pages, p)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("find layouts: %w", err)
	}
	if basePath == "" {
		return nil, fmt.Errorf("%s not found in layouts", baseLayout)
	}

	base, err := template.New(baseLayout).Funcs(funcs).ParseFS(fsys, append([]string{basePath}, partials...)...)
	if err != nil {
		return nil, fmt.Errorf("parse %s and partials: %w", baseLayout, err)
	}

	out := make(map[string]*template.Template, len(pages))
	for _, p := range pages {
		clone, err := base.Clone()
		if err != nil {
			return nil, fmt.Errorf("clone base layout: %w", err)
		}
		if _, err := clone.ParseFS(fsys, p); err != nil {
			return nil, fmt.Errorf("parse layout %s: %w", p, err)
		}
		out[path.Base(p)] = clone
	}
	return out, nil
}

func (b *Builder) funcs() template.FuncMap {
	return template.FuncMap{
		"localize": i18n.LocalizePath,
		"opposite": i18n.Opposite,
		"text": func(t i18n.Text, l i18n.Locale) string {
			return t.Get(l)
		},
		"formatDate":   i18n.FormatDate,
		"formatNumber": i18n.FormatNumber,
		"readingTime":  i18n.ReadingTime,
		"truncate":     i18n.TruncateText,
		"categoryName": b.store.CategoryName,
		"join":         strings.Join,
		"pageTitle":    pageTitle,
		"card": func(p *model.BlogPost, l i18n.Locale) postCard {
			return postCard{Post: p, Locale: l}
		},
		"year": func() int {
			return time.Now().Year()
		},
	}
}

// postCard is the argument of the "post-card" partial.
type postCard struct {
	Post   *model.BlogPost
	Locale i18n.Locale
}

// pageTitle is the <title> of a page: the page title followed by the site
// title, except on the home page which carries the full SEO title.
func pageTitle(p *model.PageData) string {
	switch {
	case p.Title == "":
		return p.SiteTitle
	case p.Path == "/":
		return p.Title
	}
	return p.Title + " | " + p.SiteTitle
}
