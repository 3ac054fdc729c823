// Package frontmatter splits Markdown documents into their YAML metadata
// block and body.
package frontmatter

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

const delimiter = "---"

// ErrUnterminated is returned when an opening delimiter has no closing one.
var ErrUnterminated = errors.New("frontmatter: missing closing delimiter")

// Parse returns the decoded metadata block of src and the remaining body.
// A document without a leading "---" line has an empty record and its whole
// content as body.
func Parse(src []byte) (map[string]any, string, error) {
	text := strings.TrimPrefix(string(src), "\ufeff")
	text = strings.ReplaceAll(text, "\r\n", "\n")

	first, rest, found := strings.Cut(text, "\n")
	if strings.TrimRight(first, " \t") != delimiter {
		return map[string]any{}, text, nil
	}
	if !found {
		return nil, "", ErrUnterminated
	}

	var block []string
	lines := strings.Split(rest, "\n")
	closed := -1
	for i, line := range lines {
		trimmed := strings.TrimRight(line, " \t")
		if trimmed == delimiter || trimmed == "..." {
			closed = i
			break
		}
		block = append(block, line)
	}
	if closed < 0 {
		return nil, "", ErrUnterminated
	}

	record := map[string]any{}
	if err := yaml.Unmarshal([]byte(strings.Join(block, "\n")), &record); err != nil {
		return nil, "", fmt.Errorf("frontmatter: %w", err)
	}
	if record == nil {
		record = map[string]any{}
	}
	body := strings.Join(lines[closed+1:], "\n")
	return record, strings.TrimLeft(body, "\n"), nil
}

// Format renders record as a metadata block followed by body.
func Format(record map[string]any, body string) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(delimiter + "\n")
	if len(record) > 0 {
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(record); err != nil {
			return nil, fmt.Errorf("frontmatter: %w", err)
		}
		if err := enc.Close(); err != nil {
			return nil, fmt.Errorf("frontmatter: %w", err)
		}
	}
	buf.WriteString(delimiter + "\n")
	if body != "" {
		buf.WriteString("\n")
		buf.WriteString(body)
	}
	return buf.Bytes(), nil
}
