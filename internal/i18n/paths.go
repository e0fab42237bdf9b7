package i18n

import "strings"

// LocalizePath prefixes path with the locale segment. The default locale is
// served without a prefix.
func LocalizePath(path string, l Locale) string {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	if l == Default || !l.IsSupported() {
		return path
	}
	if path == "/" {
		return "/" + string(l)
	}
	return "/" + string(l) + path
}

// DetectLocale splits a request path into its locale and the unprefixed path.
// Paths without a known locale prefix belong to the default locale.
func DetectLocale(path string) (Locale, string) {
	trimmed := strings.TrimPrefix(path, "/")
	seg, rest, _ := strings.Cut(trimmed, "/")
	l := Locale(seg)
	if l == Default || !l.IsSupported() {
		if !strings.HasPrefix(path, "/") {
			path = "/" + path
		}
		return Default, path
	}
	return l, "/" + rest
}

// Alternate is one hreflang link for a page.
type Alternate struct {
	Hreflang string
	Href     string
}

// HreflangURLs lists the absolute URL of path in every supported locale.
func HreflangURLs(baseURL, path string) []Alternate {
	base := strings.TrimSuffix(baseURL, "/")
	out := make([]Alternate, 0, len(Supported))
	for _, l := range Supported {
		out = append(out, Alternate{
			Hreflang: l.Tag().String(),
			Href:     base + LocalizePath(path, l),
		})
	}
	return out
}
