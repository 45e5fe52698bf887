// Package config loads the service configuration file. The storefront
// template name and its color palette live here as explicit
// configuration passed into the handlers, not as ambient option
// storage.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Palette holds the colors a storefront template renders hints with.
type Palette struct {
	Background string `yaml:"background"`
	Text       string `yaml:"text"`
	Accent     string `yaml:"accent"`
}

type Config struct {
	Addr     string             `yaml:"addr"`
	CartURL  string             `yaml:"cart_url"`
	Template string             `yaml:"template"`
	Palettes map[string]Palette `yaml:"palettes"`
}

// Default returns the built-in configuration: six storefront
// templates, classic active.
func Default() *Config {
	return &Config{
		Addr:     ":8080",
		CartURL:  "/cart",
		Template: "classic",
		Palettes: map[string]Palette{
			"classic": {Background: "#ffffff", Text: "#1f2933", Accent: "#d64541"},
			"modern":  {Background: "#f7f7f9", Text: "#111827", Accent: "#2563eb"},
			"minimal": {Background: "#ffffff", Text: "#000000", Accent: "#000000"},
			"bold":    {Background: "#111111", Text: "#fafafa", Accent: "#f59e0b"},
			"festive": {Background: "#fff7ed", Text: "#7c2d12", Accent: "#16a34a"},
			"dark":    {Background: "#0f172a", Text: "#e2e8f0", Accent: "#38bdf8"},
		},
	}
}

// Load reads the config from path, falling back to Default when the
// file does not exist. Values missing from the file keep defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	if cfg.Addr == "" {
		cfg.Addr = ":8080"
	}
	if cfg.CartURL == "" {
		cfg.CartURL = "/cart"
	}
	if cfg.Template == "" {
		cfg.Template = "classic"
	}
	return cfg, nil
}

// ActivePalette returns the palette of the configured template,
// falling back to classic for unknown names.
func (c *Config) ActivePalette() Palette {
	if p, ok := c.Palettes[c.Template]; ok {
		return p
	}
	return Default().Palettes["classic"]
}
