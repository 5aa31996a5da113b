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

	"github.com/skyops/nightplan/core/model"
	"github.com/skyops/nightplan/core/planner"
	"github.com/skyops/nightplan/infra/mqtt"
)

// Config is the top-level service configuration.
type Config struct {
	Site        model.Location             `json:"site"`
	Constraints model.ObservingConstraints `json:"constraints"`
	Mode        model.PlanMode             `json:"mode"`
	Planner     planner.Config             `json:"planner"`
	Catalog     CatalogConfig              `json:"catalog"`
	Metrics     MetricsConfig              `json:"metrics"`
	MQTT        MQTTConfig                 `json:"mqtt"`
}

// CatalogConfig locates the target catalog.
type CatalogConfig struct {
	Path string `json:"path"`
}

// Validate checks mandatory fields.
func (c CatalogConfig) Validate() error {
	if c.Path == "" {
		return fmt.Errorf("catalog path is required")
	}
	return nil
}

// MQTTConfig wraps the broker settings with an enable switch; planning can
// run standalone without an execution engine listening.
type MQTTConfig struct {
	Enabled bool `json:"enabled"`
	mqtt.Config
}

// Load reads the configuration file and applies NP_-prefixed environment
// overrides.
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
	if err := k.Load(env.Provider("NP_", "__", func(s string) string {
		s = strings.TrimPrefix(strings.ToLower(s), "np_")
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, err
	}
	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return nil, err
	}
	cfg.Planner.SetDefaults()
	cfg.Metrics.SetDefaults()
	if cfg.Mode == "" {
		cfg.Mode = model.ModeBalanced
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the loaded configuration.
func (c Config) Validate() error {
	if err := c.Site.Validate(); err != nil {
		return fmt.Errorf("site: %w", err)
	}
	if err := c.Constraints.Validate(); err != nil {
		return fmt.Errorf("constraints: %w", err)
	}
	if !c.Mode.Valid() {
		return fmt.Errorf("unknown mode %q", c.Mode)
	}
	if err := c.Planner.Validate(); err != nil {
		return fmt.Errorf("planner: %w", err)
	}
	if err := c.Catalog.Validate(); err != nil {
		return fmt.Errorf("catalog: %w", err)
	}
	if c.MQTT.Enabled {
		if err := c.MQTT.Config.Validate(); err != nil {
			return fmt.Errorf("mqtt: %w", err)
		}
	}
	return nil
}
