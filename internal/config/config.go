package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds the settings of an interface host.
type Config struct {
	Inventory InventoryConfig `yaml:"inventory" json:"inventory"`
	GUI       GUIConfig       `yaml:"gui" json:"gui"`
	Input     InputConfig     `yaml:"input" json:"input"`
	Scheduler SchedulerConfig `yaml:"scheduler" json:"scheduler"`
	Logging   LoggingConfig   `yaml:"logging" json:"logging"`
	Items     []ItemConfig    `yaml:"items" json:"items" jsonschema:"description=Item types known to the host"`
	Demo      DemoConfig      `yaml:"demo" json:"demo"`
}

// InventoryConfig holds inventory defaults
type InventoryConfig struct {
	DefaultMaxStack int `yaml:"default_max_stack" json:"default_max_stack" jsonschema:"minimum=1,description=Capacity of slots without an explicit limit"`
}

// GUIConfig holds container settings
type GUIConfig struct {
	MaxLinkDepth int `yaml:"max_link_depth" json:"max_link_depth" jsonschema:"minimum=1,maximum=1024,description=Links followed before a chain is treated as cyclic"`
}

// InputConfig holds click decoding settings
type InputConfig struct {
	DoubleClickMs int `yaml:"double_click_ms" json:"double_click_ms" jsonschema:"minimum=50,maximum=2000"`
}

// SchedulerConfig holds redraw tick settings
type SchedulerConfig struct {
	TickRate int `yaml:"tick_rate" json:"tick_rate" jsonschema:"minimum=1,maximum=200,description=Redraw ticks per second"`
}

// LoggingConfig holds logger settings
type LoggingConfig struct {
	Level string `yaml:"level" json:"level" jsonschema:"enum=trace,enum=debug,enum=info,enum=warn,enum=error"`
	JSON  bool   `yaml:"json" json:"json"`
}

// ItemConfig declares an item type
type ItemConfig struct {
	ID       string `yaml:"id" json:"id" jsonschema:"required,minLength=1"`
	MaxStack int    `yaml:"max_stack" json:"max_stack,omitempty" jsonschema:"minimum=0,description=0 means the default of 64"`
}

// DemoConfig describes the scripted chest demo
type DemoConfig struct {
	Viewer    string       `yaml:"viewer" json:"viewer"`
	ChestRows int          `yaml:"chest_rows" json:"chest_rows" jsonschema:"minimum=1,maximum=6"`
	Chest     []SlotConfig `yaml:"chest" json:"chest"`
	Player    []SlotConfig `yaml:"player" json:"player"`
	Script    []StepConfig `yaml:"script" json:"script"`
}

// SlotConfig fills one inventory slot
type SlotConfig struct {
	Slot  int    `yaml:"slot" json:"slot" jsonschema:"minimum=0"`
	Item  string `yaml:"item" json:"item" jsonschema:"required"`
	Count int    `yaml:"count" json:"count" jsonschema:"minimum=1"`
}

// StepConfig is one scripted gesture on the demo window
type StepConfig struct {
	Gesture string `yaml:"gesture" json:"gesture" jsonschema:"required,enum=pick-up-all,enum=pick-up-half,enum=pick-up-one,enum=place-all,enum=place-one,enum=place-some,enum=swap-with-held,enum=shift-move-out,enum=drag-distribute-even,enum=drag-distribute-one-each,enum=collect-to-held,enum=move-to-external-container,enum=hotbar-quick-swap"`
	Slot    int    `yaml:"slot" json:"slot"`
	Amount  int    `yaml:"amount,omitempty" json:"amount,omitempty"`
	Hotbar  int    `yaml:"hotbar,omitempty" json:"hotbar,omitempty"`
	Slots   []int  `yaml:"slots,omitempty" json:"slots,omitempty" jsonschema:"description=Drag targets"`
}

// Default returns the built-in configuration.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// Load reads configuration from a YAML file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes YAML configuration and fills in defaults.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Inventory.DefaultMaxStack == 0 {
		c.Inventory.DefaultMaxStack = 64
	}
	if c.GUI.MaxLinkDepth == 0 {
		c.GUI.MaxLinkDepth = 64
	}
	if c.Input.DoubleClickMs == 0 {
		c.Input.DoubleClickMs = 300
	}
	if c.Scheduler.TickRate == 0 {
		c.Scheduler.TickRate = 20
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Demo.Viewer == "" {
		c.Demo.Viewer = "player"
	}
	if c.Demo.ChestRows == 0 {
		c.Demo.ChestRows = 3
	}

	// Clamp to reasonable values
	c.Inventory.DefaultMaxStack = max(c.Inventory.DefaultMaxStack, 1)
	c.GUI.MaxLinkDepth = clamp(c.GUI.MaxLinkDepth, 1, 1024)
	c.Input.DoubleClickMs = clamp(c.Input.DoubleClickMs, 50, 2000)
	c.Scheduler.TickRate = clamp(c.Scheduler.TickRate, 1, 200)
	c.Demo.ChestRows = clamp(c.Demo.ChestRows, 1, 6)
}

func clamp(v, lo, hi int) int {
	return min(max(v, lo), hi)
}

// Validate checks settings that have no sensible default.
func (c *Config) Validate() error {
	var errs []error
	seen := make(map[string]bool)
	for i, it := range c.Items {
		switch {
		case it.ID == "":
			errs = append(errs, fmt.Errorf("items[%d]: id required", i))
		case seen[it.ID]:
			errs = append(errs, fmt.Errorf("items[%d]: duplicate id %q", i, it.ID))
		case it.MaxStack < 0:
			errs = append(errs, fmt.Errorf("items[%d]: negative max_stack", i))
		}
		seen[it.ID] = true
	}
	for name, slots := range map[string][]SlotConfig{"chest": c.Demo.Chest, "player": c.Demo.Player} {
		for i, s := range slots {
			if s.Slot < 0 || s.Count < 1 {
				errs = append(errs, fmt.Errorf("demo.%s[%d]: invalid slot %d or count %d", name, i, s.Slot, s.Count))
			}
		}
	}
	return errors.Join(errs...)
}
