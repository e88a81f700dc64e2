package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rupor-github/gencfg"
)

func TestLoadConfiguration_NoFile(t *testing.T) {
	cfg, err := LoadConfiguration("")
	if err != nil {
		t.Fatalf("LoadConfiguration() with empty path error = %v", err)
	}
	if cfg == nil {
		t.Fatal("LoadConfiguration() returned nil config")
	}
	if cfg.Version != 1 {
		t.Errorf("Default config version = %d, want 1", cfg.Version)
	}
}

func TestConfig_DefaultValues(t *testing.T) {
	cfg, err := LoadConfiguration("")
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}

	s := cfg.Server
	if !strings.HasSuffix(s.Listen, ":8080") {
		t.Errorf("Listen = %q, want port 8080", s.Listen)
	}
	if s.FontsDirectory != "fonts" {
		t.Errorf("FontsDirectory = %q, want fonts", s.FontsDirectory)
	}
	if s.CSSCacheAge != 2678400 {
		t.Errorf("CSSCacheAge = %d, want 2678400", s.CSSCacheAge)
	}
	if s.GlobTimeout != 2*time.Second {
		t.Errorf("GlobTimeout = %v, want 2s", s.GlobTimeout)
	}
	if s.ServeFiles {
		t.Error("ServeFiles should be off by default")
	}
	if len(cfg.Fonts) != 0 {
		t.Errorf("Fonts = %v, want empty", cfg.Fonts)
	}
	if cfg.Logging.ConsoleLogger.Level != "normal" {
		t.Errorf("Console level = %q, want normal", cfg.Logging.ConsoleLogger.Level)
	}
	if cfg.Logging.FileLogger.Level != "none" {
		t.Errorf("File level = %q, want none", cfg.Logging.FileLogger.Level)
	}
}

func TestLoadConfiguration_WithFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	configContent := `version: 1
server:
  listen: ":9000"
  root_url: "https://example.com/"
  site_root: ` + tmpDir + `
  fonts_directory: static/fonts
  css_http_cache_age: 0
  glob_timeout: 500ms
  serve_files: true
fonts:
  Open Sans:
    directory: OpenSans
    forbidLocal: true
    styles:
      400: opensans-regular.*
      700i:
        files: [opensans-bolditalic.woff2]
logging:
  console:
    level: debug
  file:
    level: none
reporting:
  destination: ` + filepath.Join(tmpDir, "report.zip") + `
`
	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	cfg, err := LoadConfiguration(configPath)
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}

	if cfg.Server.Listen != ":9000" {
		t.Errorf("Listen = %q, want :9000", cfg.Server.Listen)
	}
	if cfg.Server.RootURL != "https://example.com/" {
		t.Errorf("RootURL = %q", cfg.Server.RootURL)
	}
	if cfg.Server.FontsDirectory != "static/fonts" {
		t.Errorf("FontsDirectory = %q", cfg.Server.FontsDirectory)
	}
	if cfg.Server.CSSCacheAge != 0 {
		t.Errorf("CSSCacheAge = %d, want 0", cfg.Server.CSSCacheAge)
	}
	if cfg.Server.GlobTimeout != 500*time.Millisecond {
		t.Errorf("GlobTimeout = %v, want 500ms", cfg.Server.GlobTimeout)
	}
	if !cfg.Server.ServeFiles {
		t.Error("Expected ServeFiles to be true")
	}
	if _, ok := cfg.Fonts["Open Sans"]; !ok {
		t.Errorf("Fonts = %v, want Open Sans family", cfg.Fonts)
	}
	// defaults survive for keys not present in the file
	if cfg.Server.ShutdownTimeout != 10*time.Second {
		t.Errorf("ShutdownTimeout = %v, want 10s", cfg.Server.ShutdownTimeout)
	}
}

func TestLoadConfiguration_NonExistentFile(t *testing.T) {
	if _, err := LoadConfiguration("/nonexistent/config.yaml"); err == nil {
		t.Error("Expected error for nonexistent file")
	}
}

func TestLoadConfiguration_Rejected(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"invalid yaml", "version: 1\nserver:\n  listen: x\n  invalid indent\n"},
		{"unknown field", "version: 1\nunknown_field: value\n"},
		{"unknown server field", "version: 1\nserver:\n  port: 80\n"},
		{"wrong version", "version: 2\n"},
		{"negative cache age", "version: 1\nserver:\n  css_http_cache_age: -1\n"},
		{"zero glob timeout", "version: 1\nserver:\n  glob_timeout: 0s\n"},
		{"bad duration", "version: 1\nserver:\n  glob_timeout: soon\n"},
		{"empty fonts directory", "version: 1\nserver:\n  fonts_directory: \"\"\n"},
		{"bad console level", "version: 1\nlogging:\n  console:\n    level: loud\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			configPath := filepath.Join(t.TempDir(), "config.yaml")
			if err := os.WriteFile(configPath, []byte(tt.content), 0644); err != nil {
				t.Fatalf("Failed to write config file: %v", err)
			}
			if _, err := LoadConfiguration(configPath); err == nil {
				t.Error("Expected error, got none")
			}
		})
	}
}

func TestLoadConfiguration_WithOptions(t *testing.T) {
	option := func(opts *gencfg.ProcessingOptions) {}

	cfg, err := LoadConfiguration("", option)
	if err != nil {
		t.Fatalf("LoadConfiguration() with options error = %v", err)
	}
	if cfg == nil {
		t.Fatal("LoadConfiguration() returned nil config")
	}
}

func TestPrepare(t *testing.T) {
	data, err := Prepare()
	if err != nil {
		t.Fatalf("Prepare() error = %v", err)
	}
	if len(data) == 0 {
		t.Fatal("Prepare() returned empty data")
	}
	if _, err = unmarshalConfig(data, &Config{}, true); err != nil {
		t.Errorf("Prepared config is not valid: %v", err)
	}
}

func TestDump(t *testing.T) {
	cfg := &Config{
		Version: 1,
		Server: ServerConfig{
			Listen:          ":8080",
			SiteRoot:        "public",
			FontsDirectory:  "fonts",
			GlobTimeout:     3 * time.Second,
			ShutdownTimeout: time.Second,
		},
		Fonts: map[string]any{
			"Roboto": map[string]any{"styles": map[string]any{"400": "roboto.*"}},
		},
	}

	data, err := Dump(cfg)
	if err != nil {
		t.Fatalf("Dump() error = %v", err)
	}
	if !strings.Contains(string(data), "glob_timeout: 3s") {
		t.Errorf("Dump() has no readable duration:\n%s", data)
	}

	cfg2, err := unmarshalConfig(data, &Config{}, false)
	if err != nil {
		t.Fatalf("Dumped config cannot be loaded: %v", err)
	}
	if cfg2.Version != cfg.Version {
		t.Errorf("Version mismatch after dump/load: got %d, want %d", cfg2.Version, cfg.Version)
	}
	if cfg2.Server.GlobTimeout != cfg.Server.GlobTimeout {
		t.Errorf("GlobTimeout mismatch after dump/load: got %v, want %v", cfg2.Server.GlobTimeout, cfg.Server.GlobTimeout)
	}
	if _, ok := cfg2.Fonts["Roboto"]; !ok {
		t.Errorf("Fonts lost after dump/load: %v", cfg2.Fonts)
	}
}
