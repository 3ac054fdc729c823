// Package markdown reduces Markdown and MDX source to plain text for reading
// statistics and summaries.
package markdown

import (
	"math"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// WordsPerMinute is the reading speed used by ReadingTime.
const WordsPerMinute = 200

var (
	reBold             = regexp.MustCompile(`\*\*(.+?)\*\*`)
	reBoldUnderscore   = regexp.MustCompile(`__(.+?)__`)
	reItalic           = regexp.MustCompile(`\*([^*]+)\*`)
	reItalicUnderscore = regexp.MustCompile(`\b_([^_]+)_\b`)
	reStrike           = regexp.MustCompile(`~~(.+?)~~`)
	reInlineCode       = regexp.MustCompile("`([^`]+)`")
	reImg              = regexp.MustCompile(`!\[(.*?)\]\((.*?)\)(\{[^}]*\})?`)
	reLink             = regexp.MustCompile(`\[(.*?)\]\((.*?)\)(\^)?`)
	reTag              = regexp.MustCompile(`</?[A-Za-z][^>]*>`)
	reHeading          = regexp.MustCompile(`^#{1,6}\s+`)
	reOrderedList      = regexp.MustCompile(`^\d+\.\s`)
	reUnorderedList    = regexp.MustCompile(`^[-*+]\s`)
)

// PlainText strips Markdown syntax from md and returns one line per block.
// Fenced code is kept verbatim; MDX import and export statements are dropped.
func PlainText(md string) string {
	var out []string
	var para []string
	inCode := false

	flushPara := func() {
		if len(para) > 0 {
			out = append(out, strings.Join(para, " "))
			para = nil
		}
	}

	for _, raw := range strings.Split(md, "\n") {
		line := strings.TrimRight(raw, "\r")
		trimmed := strings.TrimSpace(line)

		if strings.HasPrefix(trimmed, "```") || strings.HasPrefix(trimmed, "~~~") {
			flushPara()
			inCode = !inCode
			continue
		}
		if inCode {
			if trimmed != "" {
				out = append(out, trimmed)
			}
			continue
		}

		switch {
		case trimmed == "":
			flushPara()
		case strings.HasPrefix(trimmed, "import ") || strings.HasPrefix(trimmed, "export "):
			flushPara()
		case isRule(trimmed):
			flushPara()
		case reHeading.MatchString(trimmed):
			flushPara()
			out = append(out, FormatInline(reHeading.ReplaceAllString(trimmed, "")))
		case strings.HasPrefix(trimmed, "|"):
			flushPara()
			if !isTableSeparator(trimmed) {
				out = append(out, strings.Join(parseTableCells(trimmed), " "))
			}
		case reUnorderedList.MatchString(trimmed):
			flushPara()
			out = append(out, FormatInline(trimmed[2:]))
		case reOrderedList.MatchString(trimmed):
			flushPara()
			out = append(out, FormatInline(reOrderedList.ReplaceAllString(trimmed, "")))
		case strings.HasPrefix(trimmed, ">"):
			para = append(para, FormatInline(strings.TrimSpace(strings.TrimLeft(trimmed, ">"))))
		default:
			para = append(para, FormatInline(trimmed))
		}
	}
	flushPara()

	kept := out[:0]
	for _, l := range out {
		if l = strings.TrimSpace(l); l != "" {
			kept = append(kept, l)
		}
	}
	return strings.Join(kept, "\n")
}

// FormatInline removes inline Markdown markers from s, keeping link and
// image text.
func FormatInline(s string) string {
	s = reTag.ReplaceAllString(s, "")
	s = reImg.ReplaceAllString(s, "$1")
	s = reLink.ReplaceAllString(s, "$1")
	s = reInlineCode.ReplaceAllString(s, "$1")
	s = reBold.ReplaceAllString(s, "$1")
	s = reBoldUnderscore.ReplaceAllString(s, "$1")
	s = reItalic.ReplaceAllString(s, "$1")
	s = reItalicUnderscore.ReplaceAllString(s, "$1")
	s = reStrike.ReplaceAllString(s, "$1")
	return strings.TrimSpace(s)
}

// WordCount counts whitespace separated words in the plain text of md.
func WordCount(md string) int {
	n := 0
	for _, f := range strings.Fields(PlainText(md)) {
		if strings.IndexFunc(f, func(r rune) bool { return unicode.IsLetter(r) || unicode.IsDigit(r) }) >= 0 {
			n++
		}
	}
	return n
}

// ReadingTime returns whole minutes needed to read words, rounded up.
// Any non-empty text takes at least one minute.
func ReadingTime(words int) int {
	if words <= 0 {
		return 0
	}
	return int(math.Ceil(float64(words) / WordsPerMinute))
}

// Summary returns the first prose paragraph of md as plain text, cut at a
// word boundary so it is at most max runes long (plus an ellipsis).
func Summary(md string, max int) string {
	for _, line := range strings.Split(PlainText(md), "\n") {
		if line == "" {
			continue
		}
		if utf8.RuneCountInString(line) <= max {
			return line
		}
		runes := []rune(line)
		cut := string(runes[:max])
		if !unicode.IsSpace(runes[max]) {
			if i := strings.LastIndexByte(cut, ' '); i > 0 {
				cut = cut[:i]
			}
		}
		return strings.TrimRight(cut, " ,;:.") + "…"
	}
	return ""
}

func isRule(line string) bool {
	if len(line) < 3 {
		return false
	}
	c := line[0]
	if c != '-' && c != '*' && c != '_' {
		return false
	}
	return strings.Trim(line, string(c)+" ") == ""
}

func parseTableCells(line string) []string {
	line = strings.Trim(line, "|")
	parts := strings.Split(line, "|")
	cells := parts[:0]
	for _, p := range parts {
		if p = FormatInline(strings.TrimSpace(p)); p != "" {
			cells = append(cells, p)
		}
	}
	return cells
}

func isTableSeparator(line string) bool {
	line = strings.Trim(line, "|")
	for _, cell := range strings.Split(line, "|") {
		cell = strings.TrimSpace(cell)
		cleaned := strings.ReplaceAll(strings.ReplaceAll(cell, "-", ""), ":", "")
		if cleaned != "" {
			return false
		}
	}
	return true
}
