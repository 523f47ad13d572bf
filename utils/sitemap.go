package utils

import (
	"encoding/xml"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Spencer17x/vue-next-zh/config"
	"github.com/pkg/errors"
)

type Sitemap struct {
	XMLName xml.Name `xml:"urlset"`
	Xmlns   string   `xml:"xmlns,attr"`
	Urls    []Url    `xml:"url"`
}

type Url struct {
	Loc        string `xml:"loc"`
	LastMod    string `xml:"lastmod,omitempty"`
	ChangeFreq string `xml:"changefreq,omitempty"`
	Priority   string `xml:"priority,omitempty"`
}

// GenerateSitemaps writes sitemap.xml into outDir.
func GenerateSitemaps(outDir, origin string, cfg *config.SiteConfig, lastMod time.Time) error {
	xmlOutput, err := GenerateSitemapContent(origin, cfg, lastMod)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(outDir, os.ModePerm); err != nil {
		return errors.WithStack(err)
	}
	err = os.WriteFile(filepath.Join(outDir, "sitemap.xml"), []byte(xml.Header+xmlOutput+"\n"), 0644)
	return errors.WithStack(err)
}

// GenerateSitemapContent lists every internal page the config links to,
// once each, in document order. A zero lastMod leaves lastmod out.
func GenerateSitemapContent(origin string, cfg *config.SiteConfig, lastMod time.Time) (string, error) {
	if cfg == nil {
		return "", errors.New("no site config to build a sitemap from")
	}
	base, err := url.Parse(origin)
	if err != nil || base.Scheme == "" || base.Host == "" {
		return "", errors.Errorf("sitemap origin must be an absolute URL, got %q", origin)
	}
	prefix := strings.TrimSuffix(base.Scheme+"://"+base.Host+base.Path, "/") + strings.TrimSuffix(cfg.BasePath, "/")

	sitemap := Sitemap{
		Xmlns: "http://www.sitemaps.org/schemas/sitemap/0.9",
	}

	var mod string
	if !lastMod.IsZero() {
		mod = lastMod.Format("2006-01-02")
	}

	seen := make(map[string]bool)
	for _, ref := range config.Links(cfg) {
		if config.IsExternal(ref.Link) {
			continue
		}
		u, err := url.Parse(ref.Link)
		if err != nil || u.Path == "" {
			continue
		}
		loc := prefix + u.Path
		if seen[loc] {
			continue
		}
		seen[loc] = true
		sitemap.Urls = append(sitemap.Urls, Url{Loc: loc, LastMod: mod})
	}

	xmlOutput, err := xml.MarshalIndent(sitemap, "", "  ")
	if err != nil {
		return "", errors.WithStack(err)
	}

	return string(xmlOutput), nil
}
