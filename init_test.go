package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/chemodun/X4-LuaLSAddonPrep/internal/config"
)

// TestInitCreatesFile verifies that init writes a configuration that loads
// back to the defaults.
func TestInitCreatesFile(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "x4luals.toml")

	var stdout, stderr bytes.Buffer
	if err := run([]string{"init", path}, &stdout, &stderr); err != nil {
		t.Fatalf("init: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("file not created: %v", err)
	}
	if !strings.HasPrefix(string(data), configHeader) {
		t.Error("header missing from created file")
	}
	if !strings.Contains(stderr.String(), path) {
		t.Errorf("expected path in message, got %q", stderr.String())
	}

	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("loading written config: %v", err)
	}
	def := config.Default()
	if cfg.CorpusPath != def.CorpusPath || cfg.OutputFiles != def.OutputFiles || cfg.FetchTimeout != def.FetchTimeout {
		t.Errorf("written config differs from defaults: %+v", cfg)
	}
}

// TestInitDryRun verifies that --dry-run prints the configuration and does
// not create the file.
func TestInitDryRun(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "x4luals.toml")

	var stdout, stderr bytes.Buffer
	if err := run([]string{"init", "--dry-run", path}, &stdout, &stderr); err != nil {
		t.Fatalf("init: %v", err)
	}

	if _, err := os.Stat(path); err == nil {
		t.Error("--dry-run should not create the file")
	}
	out := stdout.String()
	if !strings.Contains(out, `corpus_path = "ui"`) {
		t.Errorf("dry-run output missing corpus_path:\n%s", out)
	}
}

// TestInitRefusesOverwrite verifies that an existing file is kept unless
// --force is given.
func TestInitRefusesOverwrite(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "x4luals.toml")
	if err := os.WriteFile(path, []byte("corpus_path = \"mine\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	var stdout, stderr bytes.Buffer
	err := run([]string{"init", path}, &stdout, &stderr)
	if err == nil || !strings.Contains(err.Error(), "already exists") {
		t.Fatalf("expected already exists error, got %v", err)
	}
	data, _ := os.ReadFile(path)
	if string(data) != "corpus_path = \"mine\"\n" {
		t.Error("existing file was modified")
	}

	if err := run([]string{"init", "--force", path}, &stdout, &stderr); err != nil {
		t.Fatalf("init --force: %v", err)
	}
	data, _ = os.ReadFile(path)
	if !strings.HasPrefix(string(data), configHeader) {
		t.Error("--force should overwrite the file")
	}
}

func TestGenerateConfig(t *testing.T) {
	t.Parallel()

	content, err := generateConfig()
	if err != nil {
		t.Fatalf("generateConfig: %v", err)
	}
	for _, key := range []string{"wiki_url", "fragment_dir", "output_dir", "[output_files]", "single_string_functions"} {
		if !strings.Contains(content, key) {
			t.Errorf("missing %s in:\n%s", key, content)
		}
	}
}
