package website

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

// writeFiles creates files under root, keyed by slash-separated relative path.
func writeFiles(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for rel, body := range files {
		p := filepath.Join(root, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(p, []byte(body), 0o644); err != nil {
			t.Fatal(err)
		}
	}
}

func writePNG(t *testing.T, path string, w, h int) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	img.Set(0, 0, color.RGBA{R: 255, A: 255})
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatal(err)
	}
}

// sampleContent is a small site with valid and invalid files in both collections.
var sampleContent = map[string]string{
	"blog/hello.md": `---
title: Hello
date: 2024-01-01
authors: mat
tags: [intro, go]
---
Welcome to the blog. This is the first post.
`,
	"blog/Second Post/index.mdx": `---
title: Second
date: 2024-03-05
lastUpdated: 2024-04-01
authors:
  - mat
  - name: Guest Writer
    url: https://example.com
  - ghost
tags: [go]
excerpt: Custom excerpt
cover:
  alt: A chart
  image: ./chart.png
---
import Chart from "../../components/Chart.astro"

Body text.
`,
	"blog/draft.md": `---
title: Draft
date: 2024-05-01
draft: true
---
Not ready.
`,
	"blog/_partial.md": "not a post",
	"blog/notes.txt":   "ignored",
	"blog/broken.md": `---
title: ""
date: yesterday
cover:
  alt: x
  image: a.png
  dark: b.png
---
`,
	"docs/index.md": `---
title: Unentropy
template: splash
---
`,
	"docs/guides/Getting Started.md": `---
title: Getting Started
sidebar:
  order: 1
---
Install it.
`,
	"docs/bad.md": `---
description: no title
---
`,
}
