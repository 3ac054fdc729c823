package content

// Record returns p in raw frontmatter form. ValidateBlogPost(p.Record())
// yields a value equal to p.
func (p BlogPost) Record() map[string]any {
	m := map[string]any{
		"title": p.Title,
		"date":  p.Date,
	}
	if v, ok := authorsValue(p.Authors); ok {
		m["authors"] = v
	}
	if p.Excerpt != "" {
		m["excerpt"] = p.Excerpt
	}
	if p.Tags != nil {
		tags := make([]any, len(p.Tags))
		for i, t := range p.Tags {
			tags[i] = t
		}
		m["tags"] = tags
	}
	if p.Cover != nil {
		m["cover"] = p.Cover.record()
	}
	if p.Featured {
		m["featured"] = true
	}
	if p.Draft {
		m["draft"] = true
	}
	if p.LastUpdated != nil {
		m["lastUpdated"] = *p.LastUpdated
	}
	if p.Metrics != nil {
		metrics := map[string]any{}
		if p.Metrics.ReadingTime != 0 {
			metrics["readingTime"] = p.Metrics.ReadingTime
		}
		if p.Metrics.Words != 0 {
			metrics["words"] = p.Metrics.Words
		}
		m["metrics"] = metrics
	}
	return m
}

func (c Cover) record() map[string]any {
	m := map[string]any{"alt": c.Alt}
	if c.Image != nil {
		m["image"] = c.Image.value()
	}
	if c.Dark != nil {
		m["dark"] = c.Dark.value()
	}
	if c.Light != nil {
		m["light"] = c.Light.value()
	}
	return m
}

func (i Image) value() any {
	if !i.IsAsset() {
		return i.Src
	}
	m := map[string]any{"src": i.Src}
	if i.Width > 0 {
		m["width"] = i.Width
	}
	if i.Height > 0 {
		m["height"] = i.Height
	}
	if i.Format != "" {
		m["format"] = i.Format
	}
	return m
}
