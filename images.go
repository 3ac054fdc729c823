package website

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/unentropy/website/content"
)

// ReadImageSize reads the header of the image at path and returns its
// dimensions and format. The Src of the result is left empty.
func ReadImageSize(path string) (content.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return content.Image{}, err
	}
	defer f.Close()

	if strings.EqualFold(filepath.Ext(path), ".svg") {
		w, h := svgSize(f)
		return content.Image{Width: w, Height: h, Format: "svg"}, nil
	}

	cfg, format, err := image.DecodeConfig(f)
	if err != nil {
		return content.Image{}, fmt.Errorf("decode image %s: %w", path, err)
	}
	if format == "jpeg" {
		format = "jpg"
	}
	return content.Image{Width: cfg.Width, Height: cfg.Height, Format: format}, nil
}

// svgSize reads width and height from the root element. Missing or
// non-pixel values fall back to the viewBox, then zero.
func svgSize(r io.Reader) (int, int) {
	data, err := io.ReadAll(io.LimitReader(r, 64<<10))
	if err != nil {
		return 0, 0
	}
	dec := xml.NewDecoder(bytes.NewReader(data))
	for {
		tok, err := dec.Token()
		if err != nil {
			return 0, 0
		}
		se, ok := tok.(xml.StartElement)
		if !ok || se.Name.Local != "svg" {
			continue
		}
		var w, h int
		var viewBox string
		for _, a := range se.Attr {
			switch a.Name.Local {
			case "width":
				w = pixels(a.Value)
			case "height":
				h = pixels(a.Value)
			case "viewBox":
				viewBox = a.Value
			}
		}
		if (w == 0 || h == 0) && viewBox != "" {
			fields := strings.Fields(strings.ReplaceAll(viewBox, ",", " "))
			if len(fields) == 4 {
				w, h = pixels(fields[2]), pixels(fields[3])
			}
		}
		return w, h
	}
}

func pixels(s string) int {
	s = strings.TrimSuffix(strings.TrimSpace(s), "px")
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f < 0 {
		return 0
	}
	return int(f + 0.5)
}
