package search

import (
	"github.com/FReptar0/EvoSystems/internal/i18n"
	"github.com/FReptar0/EvoSystems/internal/model"
)

// staticPages lists the site pages and service entries that search covers,
// built from the translation record of the requested locale. URLs are
// unprefixed.
func staticPages(t *i18n.Translations) []model.SearchResult {
	pages := []model.SearchResult{
		{Type: model.TypePage, Title: t.Navigation.Home, Description: t.SEO.Description, URL: "/"},
		{Type: model.TypePage, Title: t.Navigation.Services, Description: t.Search.Pages["services"], URL: "/services"},
		{Type: model.TypePage, Title: t.Navigation.Solutions, Description: t.Search.Pages["solutions"], URL: "/solutions"},
		{Type: model.TypePage, Title: t.Navigation.About, Description: t.Search.Pages["about"], URL: "/about"},
		{Type: model.TypePage, Title: t.Navigation.Contact, Description: t.Search.Pages["contact"], URL: "/contact"},
		{Type: model.TypePage, Title: t.Navigation.FAQ, Description: t.Search.Pages["faq"], URL: "/faq"},
	}
	for _, s := range t.Services.Items {
		pages = append(pages, model.SearchResult{
			Type:        model.TypeService,
			Title:       s.Title,
			Description: s.Description,
			URL:         "/services#" + s.Key,
		})
	}
	return pages
}
