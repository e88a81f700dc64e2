package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"maps"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"go.uber.org/zap"
	yaml "gopkg.in/yaml.v3"

	"wfr/webfont"
)

// LoadFontsFile reads fonts catalog settings (family name to family settings)
// from YAML or TOML file, format is selected by extension.
func LoadFontsFile(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("unable to read fonts file: %w", err)
	}

	fonts := make(map[string]any)
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		if err := dec.Decode(&fonts); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("unable to decode fonts file '%s': %w", path, err)
		}
	case ".toml":
		if err := toml.Unmarshal(data, &fonts); err != nil {
			return nil, fmt.Errorf("unable to decode fonts file '%s': %w", path, err)
		}
	default:
		return nil, fmt.Errorf("unsupported fonts file format '%s': %s", ext, path)
	}
	return fonts, nil
}

// FontSettings returns fonts catalog settings: inline families overridden by
// families from fonts file, if one is configured.
func (cfg *Config) FontSettings() (map[string]any, error) {
	fonts := make(map[string]any, len(cfg.Fonts))
	maps.Copy(fonts, cfg.Fonts)
	if cfg.FontsFile == "" {
		return fonts, nil
	}
	loaded, err := LoadFontsFile(cfg.FontsFile)
	if err != nil {
		return nil, err
	}
	maps.Copy(fonts, loaded)
	return fonts, nil
}

// Catalog builds fonts catalog from configuration. Settings problems are
// returned as *webfont.SettingsError.
func (cfg *Config) Catalog(log *zap.Logger) (*webfont.Catalog, error) {
	fonts, err := cfg.FontSettings()
	if err != nil {
		return nil, &webfont.SettingsError{Msg: err.Error()}
	}
	return webfont.FromSettings(fonts, cfg.Server.RootURL,
		webfont.WithLogger(log),
		webfont.WithSiteRoot(cfg.Server.SiteRoot),
		webfont.WithFontsDirectory(cfg.Server.FontsDirectory),
		webfont.WithGlobTimeout(cfg.Server.GlobTimeout),
	)
}
