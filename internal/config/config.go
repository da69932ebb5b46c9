// Package config loads the generator settings from a TOML file, with
// environment overrides.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// DefaultFile is the configuration file looked up when none is given.
const DefaultFile = "x4luals.toml"

// DefaultWikiURL is the reference page listing the scripting functions.
const DefaultWikiURL = "https://wiki.egosoft.com:1337/X%20Rebirth%20Wiki/Modding%20support/UI%20Modding%20support/Lua%20function%20overview/"

// Environment overrides.
const (
	EnvCorpusPath = "X4LUALS_CORPUS_PATH"
	EnvWikiURL    = "X4LUALS_WIKI_URL"
	EnvOutputDir  = "X4LUALS_OUTPUT_DIR"
)

// Config holds every setting of a run. Relative paths are resolved against
// the directory of the configuration file.
type Config struct {
	WikiURL               string            `toml:"wiki_url"`
	CorpusPath            string            `toml:"corpus_path"`
	WikiHTMLPath          string            `toml:"wiki_html_path"`
	FragmentDir           string            `toml:"fragment_dir"`
	OutputDir             string            `toml:"output_dir"`
	OutputFiles           OutputFiles       `toml:"output_files"`
	FragmentFiles         map[string]string `toml:"fragment_files"`
	Exclude               []string          `toml:"exclude"`
	SingleStringFunctions []string          `toml:"single_string_functions"`
	FetchTimeout          time.Duration     `toml:"fetch_timeout"`

	// Path is the file the settings were read from; empty when defaults
	// were used.
	Path string `toml:"-"`
	base string
}

// OutputFiles names the generated declaration files.
type OutputFiles struct {
	Lua           string `toml:"lua"`
	FFI           string `toml:"ffi"`
	FFITypes      string `toml:"ffi_types"`
	Helper        string `toml:"helper"`
	Undocumented  string `toml:"undocumented"`
	ExposedPrefix string `toml:"exposed_prefix"`
}

// Default returns the built-in settings.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

// Load reads path. A missing file yields the defaults, resolved against the
// directory path would live in. Environment overrides are applied last,
// after loading a .env file from the working directory when present.
func Load(path string) (*Config, error) {
	cfg := &Config{base: filepath.Dir(path)}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if _, err := toml.Decode(string(data), cfg); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", path, err)
		}
		cfg.Path = path
	case errors.Is(err, fs.ErrNotExist):
	default:
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	applyDefaults(cfg)
	_ = godotenv.Load()
	applyEnv(cfg)
	return cfg, nil
}

func applyDefaults(cfg *Config) {
	if strings.TrimSpace(cfg.WikiURL) == "" {
		cfg.WikiURL = DefaultWikiURL
	}
	if strings.TrimSpace(cfg.CorpusPath) == "" {
		cfg.CorpusPath = "ui"
	}
	if strings.TrimSpace(cfg.WikiHTMLPath) == "" {
		cfg.WikiHTMLPath = "Lua function overview - X Community Wiki.html"
	}
	if strings.TrimSpace(cfg.FragmentDir) == "" {
		cfg.FragmentDir = "hjson"
	}
	if strings.TrimSpace(cfg.OutputDir) == "" {
		cfg.OutputDir = "library"
	}
	o := &cfg.OutputFiles
	o.Lua = orDefault(o.Lua, "X4LuaAPI.lua")
	o.FFI = orDefault(o.FFI, "X4FFIAPI.lua")
	o.FFITypes = orDefault(o.FFITypes, "X4FFITypes.lua")
	o.Helper = orDefault(o.Helper, "X4HelperAPI.lua")
	o.Undocumented = orDefault(o.Undocumented, "X4UndocumentedAPI.lua")
	o.ExposedPrefix = orDefault(o.ExposedPrefix, "X4GloballyExposed_")
	if cfg.FragmentFiles == nil {
		cfg.FragmentFiles = map[string]string{}
	}
	if cfg.SingleStringFunctions == nil {
		cfg.SingleStringFunctions = []string{"DebugError", "Logf", "ErrorLog", "DebugLog"}
	}
	if cfg.FetchTimeout <= 0 {
		cfg.FetchTimeout = 10 * time.Second
	}
}

func applyEnv(cfg *Config) {
	if v := strings.TrimSpace(os.Getenv(EnvCorpusPath)); v != "" {
		cfg.CorpusPath = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvWikiURL)); v != "" {
		cfg.WikiURL = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvOutputDir)); v != "" {
		cfg.OutputDir = v
	}
}

// Resolve makes p absolute relative to the configuration directory.
func (c *Config) Resolve(p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(c.base, p)
}

// Output returns the resolved path of a generated file.
func (c *Config) Output(name string) string {
	return filepath.Join(c.Resolve(c.OutputDir), name)
}

// Encode renders cfg as TOML.
func Encode(cfg *Config) ([]byte, error) {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func orDefault(s, fallback string) string {
	if strings.TrimSpace(s) == "" {
		return fallback
	}
	return s
}
