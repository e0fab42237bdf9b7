// Package i18n holds the closed set of site locales, localized text values,
// the translation catalog and the locale-aware formatting helpers.
package i18n

import "golang.org/x/text/language"

// Locale is one of the supported site languages.
type Locale string

const (
	Spanish Locale = "es"
	English Locale = "en"

	// Default is served when a request names no locale or an unsupported one.
	Default = Spanish
)

// Supported lists every locale in display order. The default comes first.
var Supported = []Locale{Spanish, English}

// IsSupported reports whether l is in the closed locale set.
func (l Locale) IsSupported() bool {
	for _, s := range Supported {
		if s == l {
			return true
		}
	}
	return false
}

// Tag returns the regional language tag used for formatting and hreflang.
func (l Locale) Tag() language.Tag {
	if l == English {
		return language.AmericanEnglish
	}
	return language.MustParse("es-MX")
}

func (l Locale) String() string { return string(l) }

// Parse resolves a locale code against the closed set. Only an exact "es"
// or "en" matches; anything else, regional variants included, resolves to
// Default. Parse never fails.
func Parse(code string) Locale {
	if l := Locale(code); l.IsSupported() {
		return l
	}
	return Default
}

var headerMatcher = language.NewMatcher([]language.Tag{language.Spanish, language.English})

// FromAcceptLanguage picks the site locale for an Accept-Language header.
// Regions and quality weights are honored; a header naming no supported
// language gives Default.
func FromAcceptLanguage(header string) Locale {
	tags, _, err := language.ParseAcceptLanguage(header)
	if err != nil || len(tags) == 0 {
		return Default
	}
	_, idx, conf := headerMatcher.Match(tags...)
	if conf == language.No {
		return Default
	}
	return Supported[idx]
}

// Opposite returns the other site locale, used by the language switcher.
func Opposite(l Locale) Locale {
	if l == Spanish {
		return English
	}
	return Spanish
}

// Text maps each locale to its variant of a string.
type Text map[Locale]string

// Get returns the value for l, falling back to the default locale when l is
// absent or empty.
func (t Text) Get(l Locale) string {
	if v := t[l]; v != "" {
		return v
	}
	return t[Default]
}

// Missing lists the supported locales that have no value. A complete record
// returns nil.
func (t Text) Missing() []Locale {
	var missing []Locale
	for _, l := range Supported {
		if t[l] == "" {
			missing = append(missing, l)
		}
	}
	return missing
}
