package render

import (
	"encoding/xml"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/FReptar0/EvoSystems/internal/i18n"
)

const (
	sitemapFile  = "sitemap.xml"
	sitemapNS    = "http://www.sitemaps.org/schemas/sitemap/0.9"
	sitemapXHTML = "http://www.w3.org/1999/xhtml"
)

// sitemapURL is a page recorded during the build.
type sitemapURL struct {
	Path    string
	URL     string
	LastMod time.Time
}

type urlSet struct {
	XMLName xml.Name     `xml:"urlset"`
	XMLNS   string       `xml:"xmlns,attr"`
	XHTML   string       `xml:"xmlns:xhtml,attr"`
	URLs    []urlElement `xml:"url"`
}

type urlElement struct {
	Loc        string         `xml:"loc"`
	LastMod    string         `xml:"lastmod,omitempty"`
	ChangeFreq string         `xml:"changefreq"`
	Priority   string         `xml:"priority"`
	Links      []xhtmlElement `xml:"xhtml:link"`
}

type xhtmlElement struct {
	Rel      string `xml:"rel,attr"`
	Hreflang string `xml:"hreflang,attr"`
	Href     string `xml:"href,attr"`
}

// priority ranks the home page first, section indexes next, then details.
func priority(path string) (string, string) {
	switch depth := strings.Count(strings.Trim(path, "/"), "/"); {
	case path == "/":
		return "1.0", "weekly"
	case depth == 0:
		return "0.8", "weekly"
	default:
		return "0.6", "monthly"
	}
}

func (r *run) writeSitemap() error {
	base := strings.TrimSuffix(r.opts.BaseURL, "/")
	set := urlSet{XMLNS: sitemapNS, XHTML: sitemapXHTML}
	for _, u := range r.urls {
		prio, freq := priority(u.Path)
		el := urlElement{
			Loc:        base + u.URL,
			ChangeFreq: freq,
			Priority:   prio,
		}
		if !u.LastMod.IsZero() {
			el.LastMod = u.LastMod.Format("2006-01-02")
		}
		for _, alt := range i18n.HreflangURLs(base, u.Path) {
			el.Links = append(el.Links, xhtmlElement{Rel: "alternate", Hreflang: alt.Hreflang, Href: alt.Href})
		}
		set.URLs = append(set.URLs, el)
	}

	out, err := xml.MarshalIndent(set, "", "  ")
	if err != nil {
		return fmt.Errorf("encode sitemap: %w", err)
	}
	target := filepath.Join(r.opts.OutputDir, sitemapFile)
	if err := os.WriteFile(target, append([]byte(xml.Header), out...), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", target, err)
	}
	return nil
}

func (r *run) writeRobots() error {
	body := "User-agent: *\nAllow: /\n"
	if r.opts.BaseURL != "" {
		body += "\nSitemap: " + strings.TrimSuffix(r.opts.BaseURL, "/") + "/" + sitemapFile + "\n"
	}
	target := filepath.Join(r.opts.OutputDir, "robots.txt")
	if err := os.WriteFile(target, []byte(body), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", target, err)
	}
	return nil
}
