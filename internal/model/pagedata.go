package model

import "github.com/FReptar0/EvoSystems/internal/i18n"

// Breadcrumb is one step of the trail shown above a page.
type Breadcrumb struct {
	Label         string
	Href          string
	IsCurrentPage bool
}

// PageData is what every layout receives.
type PageData struct {
	SiteTitle   string
	BaseURL     string
	Locale      i18n.Locale
	Path        string // unprefixed path, e.g. "/blog/erp"
	URL         string // localized path, e.g. "/en/blog/erp"
	Title       string
	Description string
	Keywords    string
	Alternates  []i18n.Alternate
	Breadcrumbs []Breadcrumb
	T           *i18n.Translations
	// Data carries the page-specific view model.
	Data any
}
