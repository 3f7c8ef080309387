package services

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"tedblog/internal/logging"
	"tedblog/internal/models"
)

// fallbackSiteURL is used for the empty feeds written when no site URL is
// configured.
const fallbackSiteURL = "http://localhost"

const sitemapTimeFormat = "2006-01-02T15:04:05.000Z"

var xmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&apos;",
)

func escapeXML(s string) string {
	return xmlEscaper.Replace(s)
}

// Site describes the blog for feed output.
type Site struct {
	URL         string
	Name        string
	Description string
}

// NormalizeSiteURL drops a single trailing slash.
func NormalizeSiteURL(raw string) string {
	return strings.TrimSuffix(raw, "/")
}

// JoinURL appends path to siteURL, adding the leading slash if missing.
func JoinURL(siteURL, path string) string {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return siteURL + path
}

// PostURL is the public address of a post.
func PostURL(siteURL, slug string) string {
	return JoinURL(siteURL, "/blog/"+slug)
}

// Feeds holds the generated SEO documents.
type Feeds struct {
	Robots  string
	Sitemap string
	RSS     string
}

type FeedGenerator struct {
	site Site
	now  func() time.Time
}

func NewFeedGenerator(site Site) *FeedGenerator {
	site.URL = NormalizeSiteURL(site.URL)
	return &FeedGenerator{site: site, now: time.Now}
}

// HasSiteURL reports whether a public site URL is configured.
func (g *FeedGenerator) HasSiteURL() bool {
	return g.site.URL != ""
}

// Build renders all three documents with posts in feed order. Without a
// site URL the robots file carries no Sitemap line and both feeds are empty.
func (g *FeedGenerator) Build(posts []models.PostWithRelations) Feeds {
	posts = FeedOrder(posts)
	if !g.HasSiteURL() {
		return Feeds{
			Robots:  "User-agent: *\nAllow: /\n",
			Sitemap: g.sitemap(fallbackSiteURL, nil),
			RSS:     g.rss(fallbackSiteURL, nil),
		}
	}
	return Feeds{
		Robots:  g.Robots(),
		Sitemap: g.Sitemap(posts),
		RSS:     g.RSS(posts),
	}
}

// FeedOrder returns a copy of posts sorted by publish time, newest first,
// with drafts ahead of every published post (Postgres' DESC puts NULLs
// first). Ties keep id order.
func FeedOrder(posts []models.PostWithRelations) []models.PostWithRelations {
	out := make([]models.PostWithRelations, len(posts))
	copy(out, posts)
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i].PublishedAt, out[j].PublishedAt
		switch {
		case a == nil && b == nil:
			return out[i].ID < out[j].ID
		case a == nil:
			return true
		case b == nil:
			return false
		case !a.Equal(*b):
			return a.After(*b)
		default:
			return out[i].ID < out[j].ID
		}
	})
	return out
}

func (g *FeedGenerator) Robots() string {
	if !g.HasSiteURL() {
		return "User-agent: *\nAllow: /\n"
	}
	return strings.Join([]string{
		"User-agent: *",
		"Allow: /",
		"Sitemap: " + JoinURL(g.site.URL, "/sitemap.xml"),
		"",
	}, "\n")
}

func (g *FeedGenerator) RSS(posts []models.PostWithRelations) string {
	return g.rss(g.siteURL(), posts)
}

func (g *FeedGenerator) Sitemap(posts []models.PostWithRelations) string {
	return g.sitemap(g.siteURL(), posts)
}

func (g *FeedGenerator) siteURL() string {
	if g.site.URL == "" {
		return fallbackSiteURL
	}
	return g.site.URL
}

func (g *FeedGenerator) rss(siteURL string, posts []models.PostWithRelations) string {
	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="UTF-8"?>`)
	b.WriteString(`<rss version="2.0"><channel>`)
	b.WriteString("<title>" + escapeXML(g.site.Name) + "</title>")
	b.WriteString("<link>" + escapeXML(siteURL) + "</link>")
	b.WriteString("<description>" + escapeXML(g.site.Description) + "</description>")
	b.WriteString("<language>en</language>")
	b.WriteString("<lastBuildDate>" + g.now().UTC().Format(http.TimeFormat) + "</lastBuildDate>")

	for _, p := range posts {
		link := escapeXML(PostURL(siteURL, p.Slug))
		pub := p.UpdatedAt
		if p.PublishedAt != nil {
			pub = *p.PublishedAt
		}

		b.WriteString("<item>")
		b.WriteString("<title>" + escapeXML(p.Title) + "</title>")
		b.WriteString("<link>" + link + "</link>")
		b.WriteString(`<guid isPermaLink="true">` + link + "</guid>")
		b.WriteString("<pubDate>" + pub.UTC().Format(http.TimeFormat) + "</pubDate>")
		if p.Excerpt != nil {
			if desc := strings.TrimSpace(*p.Excerpt); desc != "" {
				b.WriteString("<description>" + escapeXML(desc) + "</description>")
			}
		}
		b.WriteString("</item>")
	}

	b.WriteString("</channel></rss>")
	return b.String()
}

func (g *FeedGenerator) sitemap(siteURL string, posts []models.PostWithRelations) string {
	now := g.now()

	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="UTF-8"?>`)
	b.WriteString(`<urlset xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">`)

	writeURL := func(loc string, lastmod time.Time) {
		fmt.Fprintf(&b, "<url><loc>%s</loc><lastmod>%s</lastmod></url>",
			escapeXML(loc), lastmod.UTC().Format(sitemapTimeFormat))
	}
	for _, path := range []string{"/", "/blog", "/about"} {
		writeURL(JoinURL(siteURL, path), now)
	}
	for _, p := range posts {
		writeURL(PostURL(siteURL, p.Slug), p.UpdatedAt)
	}

	b.WriteString("</urlset>")
	return b.String()
}

// WriteFiles writes robots.txt, sitemap.xml and rss.xml into dir.
func WriteFiles(dir string, feeds Feeds) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create %s: %w", dir, err)
	}
	files := []struct {
		name string
		body string
	}{
		{"robots.txt", feeds.Robots},
		{"sitemap.xml", feeds.Sitemap},
		{"rss.xml", feeds.RSS},
	}
	for _, f := range files {
		path := filepath.Join(dir, f.name)
		if err := os.WriteFile(path, []byte(f.body), 0o644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		logging.Info().Str("path", path).Int("bytes", len(f.body)).Msg("Feed file written")
	}
	return nil
}
