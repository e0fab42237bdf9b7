package i18n

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v2"
)

//go:embed translations.yaml
var defaultTranslations []byte

// Translations is the full string table for one locale.
type Translations struct {
	Common struct {
		ReadMore  string `yaml:"readMore"`
		ContactUs string `yaml:"contactUs"`
		LearnMore string `yaml:"learnMore"`
		Back      string `yaml:"back"`
		Close     string `yaml:"close"`
	} `yaml:"common"`

	Navigation struct {
		Home      string `yaml:"home"`
		Services  string `yaml:"services"`
		Solutions string `yaml:"solutions"`
		About     string `yaml:"about"`
		Contact   string `yaml:"contact"`
		FAQ       string `yaml:"faq"`
		Blog      string `yaml:"blog"`
		Cities    string `yaml:"cities"`
		Privacy   string `yaml:"privacy"`
		Terms     string `yaml:"terms"`
	} `yaml:"navigation"`

	SEO struct {
		Title       string `yaml:"title"`
		Description string `yaml:"description"`
		Keywords    string `yaml:"keywords"`
	} `yaml:"seo"`

	Home struct {
		Title        string `yaml:"title"`
		Highlight    string `yaml:"highlight"`
		Subtitle     string `yaml:"subtitle"`
		CTAPrimary   string `yaml:"ctaPrimary"`
		CTASecondary string `yaml:"ctaSecondary"`
	} `yaml:"home"`

	Services struct {
		Title    string        `yaml:"title"`
		Subtitle string        `yaml:"subtitle"`
		Items    []ServiceInfo `yaml:"items"`
	} `yaml:"services"`

	Solutions struct {
		Title    string         `yaml:"title"`
		Subtitle string         `yaml:"subtitle"`
		Items    []SolutionInfo `yaml:"items"`
	} `yaml:"solutions"`

	About struct {
		Title       string `yaml:"title"`
		Description string `yaml:"description"`
	} `yaml:"about"`

	Contact struct {
		Title          string `yaml:"title"`
		Subtitle       string `yaml:"subtitle"`
		Name           string `yaml:"name"`
		Email          string `yaml:"email"`
		Company        string `yaml:"company"`
		Phone          string `yaml:"phone"`
		Service        string `yaml:"service"`
		Message        string `yaml:"message"`
		WhatsAppButton string `yaml:"whatsappButton"`
		EmailButton    string `yaml:"emailButton"`
		Intro          string `yaml:"intro"`
		NamePart       string `yaml:"namePart"`
		CompanyPart    string `yaml:"companyPart"`
	} `yaml:"contact"`

	Blog struct {
		Title        string `yaml:"title"`
		Subtitle     string `yaml:"subtitle"`
		ReadMore     string `yaml:"readMore"`
		BackToBlog   string `yaml:"backToBlog"`
		RelatedPosts string `yaml:"relatedPosts"`
		Categories   string `yaml:"categories"`
		PublishedOn  string `yaml:"publishedOn"`
		Author       string `yaml:"author"`
		NoPosts      string `yaml:"noPosts"`
	} `yaml:"blog"`

	Cities struct {
		Title            string `yaml:"title"`
		Subtitle         string `yaml:"subtitle"`
		OtherCities      string `yaml:"otherCities"`
		ViewServices     string `yaml:"viewServices"`
		PriorityServices string `yaml:"priorityServices"`
		Industries       string `yaml:"industries"`
		Population       string `yaml:"population"`
	} `yaml:"cities"`

	FAQ struct {
		Title    string `yaml:"title"`
		Subtitle string `yaml:"subtitle"`
	} `yaml:"faq"`

	Search struct {
		Label         string            `yaml:"label"`
		Placeholder   string            `yaml:"placeholder"`
		ResultsLabel  string            `yaml:"resultsLabel"`
		NoResults     string            `yaml:"noResults"`
		NoResultsHint string            `yaml:"noResultsHint"`
		HintTitle     string            `yaml:"hintTitle"`
		HintBody      string            `yaml:"hintBody"`
		Shortcut      string            `yaml:"shortcut"`
		Pages         map[string]string `yaml:"pages"`
	} `yaml:"search"`

	NotFound struct {
		Title string `yaml:"title"`
		Body  string `yaml:"body"`
	} `yaml:"notFound"`

	// RouteLabels names path segments for breadcrumbs.
	RouteLabels map[string]string `yaml:"routeLabels"`
	// Industries names industry and service keys used by city pages.
	Industries map[string]string `yaml:"industries"`
}

// ServiceInfo describes one of the consultancy's services.
type ServiceInfo struct {
	Key         string   `yaml:"key"`
	Title       string   `yaml:"title"`
	Subtitle    string   `yaml:"subtitle"`
	Description string   `yaml:"description"`
	Features    []string `yaml:"features"`
	Button      string   `yaml:"button"`
}

// SolutionInfo describes an industry solution.
type SolutionInfo struct {
	ID          string `yaml:"id"`
	Title       string `yaml:"title"`
	Subtitle    string `yaml:"subtitle"`
	Description string `yaml:"description"`
}

// IndustryName returns the display name for an industry or service key, or
// the key itself when the table has no entry.
func (t *Translations) IndustryName(key string) string {
	if v, ok := t.Industries[key]; ok && v != "" {
		return v
	}
	return key
}

// Resolver hands out the translation record for a locale code.
type Resolver interface {
	Translations(code string) *Translations
}

// Catalog is the immutable set of translation records, one per locale. It is
// built once at startup and shared by reference.
type Catalog struct {
	records map[Locale]*Translations
}

// LoadCatalog parses the embedded translation table.
func LoadCatalog() (*Catalog, error) {
	return ParseCatalog(defaultTranslations)
}

// ParseCatalog parses a YAML document keyed by locale code. The default
// locale must be present.
func ParseCatalog(data []byte) (*Catalog, error) {
	raw := make(map[Locale]*Translations)
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse translations: %w", err)
	}
	if raw[Default] == nil {
		return nil, fmt.Errorf("translations: default locale %q missing", Default)
	}
	c := &Catalog{records: make(map[Locale]*Translations, len(Supported))}
	for _, l := range Supported {
		if t, ok := raw[l]; ok && t != nil {
			c.records[l] = t
		}
	}
	return c, nil
}

// Translations returns the record for code, or the default-locale record
// when code is unsupported or has no table.
func (c *Catalog) Translations(code string) *Translations {
	return c.For(Parse(code))
}

// For is Translations for an already parsed locale.
func (c *Catalog) For(l Locale) *Translations {
	if t, ok := c.records[l]; ok {
		return t
	}
	return c.records[Default]
}
