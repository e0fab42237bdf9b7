// Package content owns the site's static data: blog posts, categories,
// cities, FAQ entries and markdown pages. A Store is loaded once and never
// mutated; every accessor hands out read-only references.
package content

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v2"

	"github.com/FReptar0/EvoSystems/internal/i18n"
	"github.com/FReptar0/EvoSystems/internal/logger"
	"github.com/FReptar0/EvoSystems/internal/model"
)

// ErrNotFound is returned when a slug or id has no matching record.
var ErrNotFound = errors.New("content not found")

const (
	blogFile   = "blog-posts"
	citiesFile = "cities"
	faqFile    = "faq"
)

// Options locates the data on disk.
type Options struct {
	DataDir  string
	PagesDir string
}

// Category is a blog category key with its display names.
type Category struct {
	Key  string
	Name i18n.Text
}

// Store is the immutable content snapshot.
type Store struct {
	posts      []*model.BlogPost
	categories []Category
	catIndex   map[string]i18n.Text
	cities     []*model.City
	faq        []model.FAQCategory
	pages      []*model.Page
	md         *Markdown
}

type blogDocument struct {
	Categories yaml.MapSlice     `yaml:"categories"`
	Posts      []*model.BlogPost `yaml:"posts"`
}

type citiesDocument struct {
	Cities []*model.City `yaml:"cities"`
}

type faqDocument struct {
	Categories []model.FAQCategory `yaml:"categories"`
}

// Load reads every data file and markdown page. The blog and cities files
// are required; FAQ and pages are optional.
func Load(opts Options, log logger.Logger) (*Store, error) {
	var blog blogDocument
	if err := readDataFile(opts.DataDir, blogFile, &blog, true); err != nil {
		return nil, err
	}
	var cities citiesDocument
	if err := readDataFile(opts.DataDir, citiesFile, &cities, true); err != nil {
		return nil, err
	}
	var faq faqDocument
	if err := readDataFile(opts.DataDir, faqFile, &faq, false); err != nil {
		return nil, err
	}

	categories, err := decodeCategories(blog.Categories)
	if err != nil {
		return nil, err
	}

	md := NewMarkdown()
	pages, err := loadPages(opts.PagesDir, md, log)
	if err != nil {
		return nil, err
	}

	s, err := New(blog.Posts, categories, cities.Cities, faq.Categories, pages)
	if err != nil {
		return nil, err
	}
	s.md = md
	s.reportIncomplete(log)

	log.Info("Content loaded",
		logger.Int("posts", len(s.posts)),
		logger.Int("categories", len(s.categories)),
		logger.Int("cities", len(s.cities)),
		logger.Int("faq_categories", len(s.faq)),
		logger.Int("pages", len(s.pages)),
	)
	return s, nil
}

// New assembles a Store from already decoded records and validates them.
// Slices are copied so later changes by the caller cannot leak in.
func New(posts []*model.BlogPost, categories []Category, cities []*model.City,
	faq []model.FAQCategory, pages []*model.Page) (*Store, error) {
	s := &Store{
		posts:      append([]*model.BlogPost(nil), posts...),
		categories: append([]Category(nil), categories...),
		catIndex:   make(map[string]i18n.Text, len(categories)),
		cities:     append([]*model.City(nil), cities...),
		faq:        append([]model.FAQCategory(nil), faq...),
		pages:      append([]*model.Page(nil), pages...),
		md:         NewMarkdown(),
	}
	for _, c := range categories {
		s.catIndex[c.Key] = c.Name
	}
	if err := s.validate(); err != nil {
		return nil, err
	}
	return s, nil
}

func readDataFile(dir, name string, out interface{}, required bool) error {
	for _, ext := range []string{".yaml", ".yml", ".json"} {
		path := filepath.Join(dir, name+ext)
		raw, err := os.ReadFile(path)
		if os.IsNotExist(err) {
			continue
		}
		if err != nil {
			return fmt.Errorf("read %s: %w", path, err)
		}
		// JSON is a subset of YAML, so one decoder serves both.
		if err := yaml.Unmarshal(raw, out); err != nil {
			return fmt.Errorf("decode %s: %w", path, err)
		}
		return nil
	}
	if required {
		return fmt.Errorf("data file %s not found in %s", name, dir)
	}
	return nil
}

func decodeCategories(raw yaml.MapSlice) ([]Category, error) {
	out := make([]Category, 0, len(raw))
	for _, item := range raw {
		key, ok := item.Key.(string)
		if !ok {
			return nil, fmt.Errorf("category key %v is not a string", item.Key)
		}
		encoded, err := yaml.Marshal(item.Value)
		if err != nil {
			return nil, fmt.Errorf("category %s: %w", key, err)
		}
		var name i18n.Text
		if err := yaml.Unmarshal(encoded, &name); err != nil {
			return nil, fmt.Errorf("category %s: %w", key, err)
		}
		out = append(out, Category{Key: key, Name: name})
	}
	return out, nil
}

var validate = validator.New()

func (s *Store) validate() error {
	ids := make(map[string]bool, len(s.posts))
	slugs := make(map[string]bool, len(s.posts))
	for i, p := range s.posts {
		if p == nil {
			return fmt.Errorf("blog post #%d is empty", i+1)
		}
		if err := validate.Struct(p); err != nil {
			return fmt.Errorf("blog post %q: %w", p.ID, err)
		}
		if ids[p.ID] {
			return fmt.Errorf("blog post id %q is duplicated", p.ID)
		}
		if slugs[p.Slug] {
			return fmt.Errorf("blog post slug %q is duplicated", p.Slug)
		}
		ids[p.ID] = true
		slugs[p.Slug] = true
	}

	citySlugs := make(map[string]bool, len(s.cities))
	for i, c := range s.cities {
		if c == nil {
			return fmt.Errorf("city #%d is empty", i+1)
		}
		if err := validate.Struct(c); err != nil {
			return fmt.Errorf("city %q: %w", c.ID, err)
		}
		if citySlugs[c.Slug] {
			return fmt.Errorf("city slug %q is duplicated", c.Slug)
		}
		citySlugs[c.Slug] = true
	}
	return nil
}

// reportIncomplete logs records that miss a locale. Rendering falls back to
// the default locale, so this is a warning rather than a load failure.
func (s *Store) reportIncomplete(log logger.Logger) {
	check := func(kind, id, field string, t i18n.Text) {
		if missing := t.Missing(); len(missing) > 0 {
			locales := make([]string, len(missing))
			for i, l := range missing {
				locales[i] = string(l)
			}
			log.Warn("Localized field incomplete",
				logger.String("kind", kind),
				logger.String("id", id),
				logger.String("field", field),
				logger.Strings("missing", locales),
			)
		}
	}
	for _, p := range s.posts {
		check("post", p.ID, "title", p.Title)
		check("post", p.ID, "excerpt", p.Excerpt)
		check("post", p.ID, "content", p.Content)
		for _, c := range p.Categories {
			if _, ok := s.catIndex[c]; !ok {
				log.Warn("Post references unknown category",
					logger.String("id", p.ID), logger.String("category", c))
			}
		}
	}
	for _, c := range s.categories {
		check("category", c.Key, "name", c.Name)
	}
	for _, c := range s.cities {
		check("city", c.ID, "name", c.Name)
		check("city", c.ID, "state", c.State)
	}
}

// Markdown returns the renderer used for post bodies.
func (s *Store) Markdown() *Markdown {
	return s.md
}
