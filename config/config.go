package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/MrSiJo/plugtrack/core/blend"
	"github.com/MrSiJo/plugtrack/core/hints"
	coremetrics "github.com/MrSiJo/plugtrack/core/metrics"
	"github.com/MrSiJo/plugtrack/core/reminder"
	inframetrics "github.com/MrSiJo/plugtrack/infra/metrics"
	"github.com/MrSiJo/plugtrack/infra/notify"
	infrastore "github.com/MrSiJo/plugtrack/infra/store"
)

// ServerConfig holds the API listener settings.
type ServerConfig struct {
	Addr string `json:"addr"`
}

func (c *ServerConfig) SetDefaults() {
	if c.Addr == "" {
		c.Addr = ":8080"
	}
}

type Config struct {
	Server   ServerConfig        `json:"server"`
	Store    infrastore.Config   `json:"store"`
	Engine   coremetrics.Config  `json:"engine"`
	Hints    hints.Config        `json:"hints"`
	Reminder reminder.Config     `json:"reminder"`
	Blend    blend.Config        `json:"blend"`
	Metrics  inframetrics.Config `json:"metrics"`
	Notify   notify.Config       `json:"notify"`
}

// Default returns a configuration with every section at its defaults,
// backed by the in-memory store.
func Default() *Config {
	var cfg Config
	cfg.applyDefaults()
	return &cfg
}

func (c *Config) applyDefaults() {
	c.Server.SetDefaults()
	c.Store.SetDefaults()
	c.Engine.SetDefaults()
	c.Hints.SetDefaults()
	c.Reminder.SetDefaults()
	c.Blend.SetDefaults()
	c.Metrics.SetDefaults()
	c.Notify.SetDefaults()
}

// Validate checks every section.
func (c *Config) Validate() error {
	if err := c.Store.Validate(); err != nil {
		return err
	}
	if err := c.Engine.Validate(); err != nil {
		return err
	}
	if err := c.Hints.Validate(); err != nil {
		return err
	}
	if err := c.Reminder.Validate(); err != nil {
		return err
	}
	if err := c.Blend.Validate(); err != nil {
		return err
	}
	if err := c.Metrics.Validate(); err != nil {
		return err
	}
	return c.Notify.Validate()
}

func Load(path string) (*Config, error) {
	k := koanf.New(".")
	ext := strings.ToLower(filepath.Ext(path))
	var parser koanf.Parser
	switch ext {
	case ".yaml", ".yml":
		parser = yaml.Parser()
	case ".json":
		parser = json.Parser()
	default:
		return nil, fmt.Errorf("unsupported config format: %s", ext)
	}
	if err := k.Load(file.Provider(path), parser); err != nil {
		return nil, err
	}
	// Optional environment overrides
	if err := k.Load(env.Provider("PT_", "__", func(s string) string {
		s = strings.TrimPrefix(strings.ToLower(s), "pt_")
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, err
	}
	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
