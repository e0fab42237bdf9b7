package content

import (
	"bytes"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/frontmatter"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/FReptar0/EvoSystems/internal/i18n"
	"github.com/FReptar0/EvoSystems/internal/logger"
	"github.com/FReptar0/EvoSystems/internal/model"
)

var dateFormats = []string{"2006-01-02T15:04:05Z07:00", "2006-01-02T15:04:05", "2006-01-02 15:04:05", "2006-01-02"}

// loadPages walks dir for markdown pages named <slug>.<locale>.md. A file
// without a locale suffix belongs to the default locale.
func loadPages(dir string, md *Markdown, log logger.Logger) ([]*model.Page, error) {
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		log.Debug("Pages directory not found, skipping", logger.String("dir", dir))
		return nil, nil
	}

	var pages []*model.Page
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return fmt.Errorf("access %s: %w", path, walkErr)
		}
		if d.IsDir() || !strings.HasSuffix(strings.ToLower(d.Name()), ".md") {
			return nil
		}

		raw, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read page %s: %w", path, err)
		}
		page, err := parsePage(dir, path, raw, md, log)
		if err != nil {
			return err
		}
		pages = append(pages, page)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk pages: %w", err)
	}
	return pages, nil
}

func parsePage(root, path string, raw []byte, md *Markdown, log logger.Logger) (*model.Page, error) {
	var fm map[string]interface{}
	body, err := frontmatter.Parse(bytes.NewReader(raw), &fm)
	if err != nil {
		log.Warn("No frontmatter, treating as plain markdown",
			logger.String("path", path), logger.Error(err))
		body = raw
		fm = make(map[string]interface{})
	}
	if fm == nil {
		fm = make(map[string]interface{})
	}

	html, err := md.Render(body)
	if err != nil {
		return nil, fmt.Errorf("render page %s: %w", path, err)
	}

	rel, _ := filepath.Rel(root, path)
	rel = filepath.ToSlash(strings.TrimSuffix(rel, filepath.Ext(rel)))
	slug, locale := splitLocaleSuffix(rel)

	page := &model.Page{
		Slug:        slug,
		Locale:      locale,
		SourcePath:  path,
		ContentHTML: html,
		Frontmatter: fm,
	}

	if title, ok := fm["title"].(string); ok && title != "" {
		page.Title = title
	} else {
		base := filepath.Base(slug)
		page.Title = cases.Title(language.Spanish).String(strings.NewReplacer("-", " ", "_", " ").Replace(base))
	}
	if desc, ok := fm["description"].(string); ok {
		page.Description = desc
	}
	if layout, ok := fm["layout"].(string); ok {
		page.Layout = layout
	}
	page.Date = frontmatterDate(fm["date"], path, log)
	return page, nil
}

// splitLocaleSuffix turns "privacy.en" into ("privacy", en).
func splitLocaleSuffix(name string) (string, i18n.Locale) {
	if i := strings.LastIndex(name, "."); i > 0 {
		if l := i18n.Locale(name[i+1:]); l.IsSupported() {
			return name[:i], l
		}
	}
	return name, i18n.Default
}

func frontmatterDate(v interface{}, path string, log logger.Logger) time.Time {
	switch d := v.(type) {
	case time.Time:
		return d
	case string:
		for _, layout := range dateFormats {
			if t, err := time.Parse(layout, d); err == nil {
				return t
			}
		}
		log.Warn("Could not parse page date, use YYYY-MM-DD or RFC3339",
			logger.String("path", path), logger.String("date", d))
	}
	return time.Time{}
}
