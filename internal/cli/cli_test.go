package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/pexnet/sift-highlight/internal/model"
)

func TestSanitizeFilename(t *testing.T) {
	tests := map[string]string{
		"article-1":           "article-1",
		"feed/2024:01 story?": "feed_2024_01-story_",
		"  ..  ":              "article",
		"":                    "article",
		"../../etc/passwd":    "_.._etc_passwd",
	}

	for in, want := range tests {
		if got := sanitizeFilename(in); got != want {
			t.Errorf("sanitizeFilename(%q) = %q, want %q", in, got, want)
		}
	}

	if got := sanitizeFilename(strings.Repeat("x", 300)); len(got) != 100 {
		t.Errorf("expected names to be capped at 100 bytes, got %d", len(got))
	}
}

func TestWriteDefaultConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	if err := writeDefaultConfig(path); err != nil {
		t.Fatalf("writeDefaultConfig failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var cfg model.Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		t.Fatalf("generated config is not valid YAML: %v", err)
	}
	if cfg.Highlight.MarkClass != model.DefaultMarkClass {
		t.Errorf("expected mark class %q, got %q", model.DefaultMarkClass, cfg.Highlight.MarkClass)
	}
	if cfg.Cache.MemoryTTL != model.DefaultConfig().Cache.MemoryTTL {
		t.Errorf("expected memory ttl to round trip, got %v", cfg.Cache.MemoryTTL)
	}

	if err := writeDefaultConfig(path); err == nil {
		t.Error("expected an error when the config file already exists")
	}
}
