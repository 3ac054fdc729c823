package logging

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestInitWriterJSON(t *testing.T) {
	var buf bytes.Buffer
	InitWriter(Config{Level: "warn", Format: "json"}, &buf)
	t.Cleanup(func() { zerolog.SetGlobalLevel(zerolog.InfoLevel) })

	log := WithFile("blog", "blog/hello.md")
	log.Info().Msg("dropped")
	log.Warn().Msg("kept")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("got %d lines, want 1: %q", len(lines), buf.String())
	}
	var entry map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &entry); err != nil {
		t.Fatalf("not JSON: %v", err)
	}
	if entry["message"] != "kept" || entry["collection"] != "blog" || entry["file"] != "blog/hello.md" {
		t.Errorf("entry = %v", entry)
	}
}

func TestInitWriterConsole(t *testing.T) {
	var buf bytes.Buffer
	InitWriter(Config{Level: "bogus", Format: "console"}, &buf)

	log := WithComponent("loader")
	log.Info().Msg("ready")
	out := buf.String()
	if !strings.Contains(out, "ready") || !strings.Contains(out, "component=") {
		t.Errorf("console output = %q", out)
	}
	if zerolog.GlobalLevel() != zerolog.InfoLevel {
		t.Errorf("invalid level should fall back to info, got %v", zerolog.GlobalLevel())
	}
}
