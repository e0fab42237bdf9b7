// Package analytics emits named events with flat parameters to a
// third-party collector. Emission is fire-and-forget: nothing is
// acknowledged, retried or persisted.
package analytics

// Event names. Browser beacons posted to the events endpoint may use any of
// them; the server itself emits page views, searches and contact conversions.
const (
	EventPageView          = "page_view"
	EventSearch            = "search"
	EventWhatsAppClick     = "whatsapp_click"
	EventEmailClick        = "email_click"
	EventFormSubmit        = "form_submit"
	EventServiceClick      = "service_click"
	EventCTAClick          = "cta_click"
	EventExternalLinkClick = "external_link_click"
	EventPageEngagement    = "page_engagement"
	EventScroll            = "scroll"
	EventTimeOnPage        = "time_on_page"
	EventFAQInteraction    = "faq_interaction"
	EventNavigationClick   = "navigation_click"
)

var knownEvents = map[string]bool{
	EventPageView: true, EventSearch: true, EventWhatsAppClick: true,
	EventEmailClick: true, EventFormSubmit: true, EventServiceClick: true,
	EventCTAClick: true, EventExternalLinkClick: true, EventPageEngagement: true,
	EventScroll: true, EventTimeOnPage: true, EventFAQInteraction: true,
	EventNavigationClick: true,
}

// IsKnown reports whether name is one of the site's event names.
func IsKnown(name string) bool {
	return knownEvents[name]
}

// Params are the flat event parameters.
type Params map[string]any

// Event is one analytics emission.
type Event struct {
	Name   string `json:"name" validate:"required,max=40"`
	Params Params `json:"params,omitempty"`
}

func withLabel(category, label string, value int) Params {
	return Params{
		"event_category": category,
		"event_label":    label,
		"value":          value,
	}
}

// PageView is sent for every HTML page served.
func PageView(path, locale string) Event {
	return Event{Name: EventPageView, Params: Params{"page_path": path, "language": locale}}
}

// Search records a query and how many results it produced.
func Search(query, locale string, results int) Event {
	return Event{Name: EventSearch, Params: Params{
		"search_term": query,
		"language":    locale,
		"results":     results,
	}}
}

// WhatsAppClick is a conversion: the visitor opened a WhatsApp chat.
func WhatsAppClick(service, source string) Event {
	label := service
	if label == "" {
		label = "general"
	}
	p := withLabel("conversion", label, 1)
	p["service_type"] = service
	p["source_page"] = source
	return Event{Name: EventWhatsAppClick, Params: p}
}

// EmailClick is a conversion: the visitor opened a mailto link.
func EmailClick(source string) Event {
	p := withLabel("conversion", "email_contact", 1)
	p["source_page"] = source
	return Event{Name: EventEmailClick, Params: p}
}

// FormSubmit is a conversion: a contact form was sent.
func FormSubmit(formType, service string) Event {
	p := withLabel("conversion", formType, 3)
	p["service_type"] = service
	return Event{Name: EventFormSubmit, Params: p}
}
