// Package content validates the frontmatter of the site's two collections,
// blog posts and documentation pages. Validation is pure: the raw record is
// only read, and the result is either a complete typed value or a
// *ValidationError listing every invalid field. Unknown top-level keys are
// ignored.
package content

import (
	"time"

	"github.com/unentropy/website/authors"
)

// BlogPost is a validated blog frontmatter record.
type BlogPost struct {
	Title       string            `json:"title"`
	Date        time.Time         `json:"date"`
	Authors     authors.Reference `json:"-"`
	Excerpt     string            `json:"excerpt,omitempty"`
	Tags        []string          `json:"tags,omitempty"`
	Cover       *Cover            `json:"cover,omitempty"`
	Featured    bool              `json:"featured,omitempty"`
	Draft       bool              `json:"draft,omitempty"`
	LastUpdated *time.Time        `json:"lastUpdated,omitempty"`
	Metrics     *Metrics          `json:"metrics,omitempty"`
}

// Cover is either a single image (Image set) or a light/dark pair (Dark and
// Light set). Exactly one shape is populated.
type Cover struct {
	Alt   string `json:"alt"`
	Image *Image `json:"image,omitempty"`
	Dark  *Image `json:"dark,omitempty"`
	Light *Image `json:"light,omitempty"`
}

// Themed reports whether c carries separate dark and light images.
func (c Cover) Themed() bool {
	return c.Dark != nil && c.Light != nil
}

// Image is a cover image. A bare path only sets Src; an image reference
// resolved by the asset pipeline also carries dimensions and format.
type Image struct {
	Src    string `json:"src"`
	Width  int    `json:"width,omitempty"`
	Height int    `json:"height,omitempty"`
	Format string `json:"format,omitempty"`
}

// IsAsset reports whether i is a resolved image reference rather than a path.
func (i Image) IsAsset() bool {
	return i.Width > 0 || i.Height > 0 || i.Format != ""
}

// Metrics holds optional reading statistics.
type Metrics struct {
	ReadingTime float64 `json:"readingTime,omitempty"`
	Words       float64 `json:"words,omitempty"`
}

// ValidateBlogPost validates raw against the blog schema.
func ValidateBlogPost(raw map[string]any) (BlogPost, error) {
	c := &collector{}
	var p BlogPost

	p.Title = requiredString(c, raw, "title", "title")
	p.Date = requiredDate(c, raw, "date", "date")
	p.Authors = parseAuthors(c, "authors", raw["authors"])
	p.Excerpt = optionalString(c, raw, "excerpt", "excerpt")
	p.Tags = optionalStrings(c, raw, "tags", "tags")
	p.Cover = parseCover(c, raw["cover"])
	p.Featured, _ = optionalBool(c, raw, "featured", "featured")
	p.Draft, _ = optionalBool(c, raw, "draft", "draft")
	p.LastUpdated = optionalDate(c, raw, "lastUpdated", "lastUpdated")
	p.Metrics = parseMetrics(c, raw["metrics"])

	if err := c.err(); err != nil {
		return BlogPost{}, err
	}
	return p, nil
}

var (
	singleCoverKeys = []string{"alt", "image"}
	themedCoverKeys = []string{"alt", "dark", "light"}
)

func parseCover(c *collector, v any) *Cover {
	if v == nil {
		return nil
	}
	obj, ok := asObject(v)
	if !ok {
		c.add("cover", expected("object", v))
		return nil
	}
	cover := &Cover{}
	switch {
	case hasExactKeys(obj, singleCoverKeys):
		cover.Image = parseImage(c, "cover.image", obj["image"])
	case hasExactKeys(obj, themedCoverKeys):
		cover.Dark = parseImage(c, "cover.dark", obj["dark"])
		cover.Light = parseImage(c, "cover.light", obj["light"])
	default:
		c.add("cover", "no matching variant")
		return nil
	}
	alt, ok := obj["alt"].(string)
	if !ok {
		c.add("cover.alt", expected("string", obj["alt"]))
	}
	cover.Alt = alt
	return cover
}

func hasExactKeys(obj map[string]any, keys []string) bool {
	if len(obj) != len(keys) {
		return false
	}
	for _, k := range keys {
		if _, ok := obj[k]; !ok {
			return false
		}
	}
	return true
}

// parseImage accepts a path string, an Image value, or an image reference
// object with a src key.
func parseImage(c *collector, path string, v any) *Image {
	switch img := v.(type) {
	case string:
		return &Image{Src: img}
	case Image:
		return &img
	case *Image:
		if img != nil {
			cp := *img
			return &cp
		}
	}
	obj, ok := asObject(v)
	if !ok {
		c.add(path, expected("image reference or string", v))
		return nil
	}
	src, ok := obj["src"].(string)
	if !ok || src == "" {
		c.add(join(path, "src"), "required")
		return nil
	}
	img := &Image{Src: src}
	img.Width = dimension(c, path, obj, "width")
	img.Height = dimension(c, path, obj, "height")
	if raw, present := obj["format"]; present {
		f, ok := raw.(string)
		if !ok {
			c.add(join(path, "format"), expected("string", raw))
		}
		img.Format = f
	}
	return img
}

func dimension(c *collector, path string, obj map[string]any, key string) int {
	raw, ok := obj[key]
	if !ok {
		return 0
	}
	n, ok := asInt(raw)
	if !ok || n < 0 {
		c.add(join(path, key), expected("non-negative integer", raw))
		return 0
	}
	return n
}

func parseMetrics(c *collector, v any) *Metrics {
	if v == nil {
		return nil
	}
	obj, ok := asObject(v)
	if !ok {
		c.add("metrics", expected("object", v))
		return nil
	}
	return &Metrics{
		ReadingTime: optionalNumber(c, obj, "readingTime", "metrics.readingTime"),
		Words:       optionalNumber(c, obj, "words", "metrics.words"),
	}
}
