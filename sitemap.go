package website

import (
	"encoding/xml"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

type sitemapURLSet struct {
	XMLName xml.Name     `xml:"urlset"`
	XMLNS   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

type sitemapURL struct {
	Loc     string `xml:"loc"`
	LastMod string `xml:"lastmod,omitempty"`
}

// buildSitemap lists the home page, every published post and every docs
// page. Posts use lastUpdated when set, otherwise their publication date.
func (a *App) buildSitemap(posts []Post, docs []Doc) sitemapURLSet {
	base := a.Config.URL
	urls := []sitemapURL{
		{Loc: BuildURL(base)},
		{Loc: BuildURL(base, "blog")},
	}
	for _, p := range posts {
		mod := p.Date
		if p.LastUpdated != nil {
			mod = *p.LastUpdated
		}
		urls = append(urls, sitemapURL{
			Loc:     BuildURL(base, "blog", p.Slug),
			LastMod: mod.Format(time.DateOnly),
		})
	}
	for _, d := range docs {
		if d.Slug == "" {
			continue
		}
		u := sitemapURL{Loc: BuildURL(base, d.Slug)}
		if d.LastUpdated != nil {
			u.LastMod = d.LastUpdated.Format(time.DateOnly)
		}
		urls = append(urls, u)
	}
	return sitemapURLSet{
		XMLNS: "http://www.sitemaps.org/schemas/sitemap/0.9",
		URLs:  urls,
	}
}

func (a *App) renderSitemap(c echo.Context, posts []Post, docs []Doc) error {
	c.Response().Header().Set(echo.HeaderContentType, "application/xml; charset=utf-8")
	c.Response().WriteHeader(http.StatusOK)
	c.Response().Write([]byte(xml.Header))
	return xml.NewEncoder(c.Response()).Encode(a.buildSitemap(posts, docs))
}
