package render

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/FReptar0/EvoSystems/internal/i18n"
	"github.com/FReptar0/EvoSystems/internal/model"
)

// Breadcrumbs builds the trail for an unprefixed path. Known segments use
// the localized route labels; an unknown last segment uses current, and any
// other segment is humanized from its slug. The home page has no trail.
func Breadcrumbs(path, current string, t *i18n.Translations, l i18n.Locale) []model.Breadcrumb {
	var segments []string
	for _, s := range strings.Split(path, "/") {
		if s != "" {
			segments = append(segments, s)
		}
	}
	if len(segments) == 0 {
		return nil
	}

	crumbs := []model.Breadcrumb{{Label: t.Navigation.Home, Href: i18n.LocalizePath("/", l)}}
	var href string
	for i, seg := range segments {
		href += "/" + seg
		last := i == len(segments)-1

		label, ok := t.RouteLabels[seg]
		switch {
		case ok && label != "":
		case last && current != "":
			label = current
		default:
			label = humanize(seg)
		}
		crumbs = append(crumbs, model.Breadcrumb{
			Label:         label,
			Href:          i18n.LocalizePath(href, l),
			IsCurrentPage: last,
		})
	}
	return crumbs
}

// humanize turns "aviso-legal" into "Aviso legal".
func humanize(slug string) string {
	s := strings.ReplaceAll(slug, "-", " ")
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
