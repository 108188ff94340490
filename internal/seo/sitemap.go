// Package seo builds the crawler-facing documents of the blog: robots.txt and
// the XML sitemap.
package seo

import (
	"encoding/xml"
	"strconv"
	"strings"
	"time"
)

// XMLNamespace is the sitemap XML namespace.
const XMLNamespace = "http://www.sitemaps.org/schemas/sitemap/0.9"

// ChangeFreq represents the change frequency of a URL.
type ChangeFreq string

// Change frequencies used by the blog.
const (
	ChangeFreqDaily   ChangeFreq = "daily"
	ChangeFreqWeekly  ChangeFreq = "weekly"
	ChangeFreqMonthly ChangeFreq = "monthly"
)

// SitemapURL represents a single URL entry in the sitemap.
type SitemapURL struct {
	Loc        string     `xml:"loc"`
	LastMod    string     `xml:"lastmod,omitempty"`
	ChangeFreq ChangeFreq `xml:"changefreq,omitempty"`
	Priority   string     `xml:"priority,omitempty"`
}

// Sitemap represents the complete sitemap document.
type Sitemap struct {
	XMLName xml.Name     `xml:"urlset"`
	XMLNS   string       `xml:"xmlns,attr"`
	URLs    []SitemapURL `xml:"url"`
}

// SitemapPost contains data needed to add a post to the sitemap.
type SitemapPost struct {
	ID        int64
	UpdatedAt time.Time
}

// SitemapBuilder accumulates sitemap entries.
type SitemapBuilder struct {
	siteURL string
	urls    []SitemapURL
}

// NewSitemapBuilder creates a new sitemap builder. siteURL is the absolute
// base every location is joined to.
func NewSitemapBuilder(siteURL string) *SitemapBuilder {
	return &SitemapBuilder{
		siteURL: strings.TrimSuffix(siteURL, "/"),
		urls:    make([]SitemapURL, 0),
	}
}

// AddHomepage adds the post listing to the sitemap.
func (b *SitemapBuilder) AddHomepage() {
	b.urls = append(b.urls, SitemapURL{
		Loc:        b.siteURL + "/",
		ChangeFreq: ChangeFreqDaily,
		Priority:   "1.0",
	})
}

// AddStatic adds a page whose content rarely changes, such as /about.
func (b *SitemapBuilder) AddStatic(path string) {
	b.urls = append(b.urls, SitemapURL{
		Loc:        b.siteURL + path,
		ChangeFreq: ChangeFreqMonthly,
		Priority:   "0.3",
	})
}

// AddPost adds a post page to the sitemap.
func (b *SitemapBuilder) AddPost(post SitemapPost) {
	url := SitemapURL{
		Loc:        b.siteURL + "/post/" + strconv.FormatInt(post.ID, 10),
		ChangeFreq: ChangeFreqWeekly,
		Priority:   "0.8",
	}
	if !post.UpdatedAt.IsZero() {
		url.LastMod = post.UpdatedAt.UTC().Format(time.RFC3339)
	}
	b.urls = append(b.urls, url)
}

// Len returns the number of entries added so far.
func (b *SitemapBuilder) Len() int {
	return len(b.urls)
}

// Build generates the sitemap XML.
func (b *SitemapBuilder) Build() ([]byte, error) {
	sitemap := Sitemap{
		XMLNS: XMLNamespace,
		URLs:  b.urls,
	}

	output := []byte(xml.Header)
	xmlBytes, err := xml.MarshalIndent(sitemap, "", "  ")
	if err != nil {
		return nil, err
	}

	return append(output, xmlBytes...), nil
}
