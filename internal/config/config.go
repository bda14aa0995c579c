package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"gopkg.in/yaml.v3"

	"github.com/DeusData/unminify/internal/rule"
)

// FileName is the config file looked up in the input root.
const FileName = ".unminify.yaml"

// Config holds user-overridable run settings.
// Loaded from .unminify.yaml in the input root.
type Config struct {
	// Workers is the worker pool size. Default: one per CPU.
	Workers *int `yaml:"workers"`

	// Rules selects and orders rules by id. Default: the full catalog.
	Rules []string `yaml:"rules"`

	// Exclude are extra glob patterns skipped during discovery.
	Exclude []string `yaml:"exclude"`

	// ModuleMapping maps module ids to readable names for every file.
	ModuleMapping map[string]string `yaml:"module_mapping"`

	// ModuleMeta is passed to every rule unchanged.
	ModuleMeta map[string]any `yaml:"module_meta"`

	// Cache enables the run cache that skips unchanged inputs.
	// Default: false.
	Cache *bool `yaml:"cache"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{}
}

// Load reads .unminify.yaml from the given directory.
// Returns default config if the file doesn't exist.
func Load(dir string) *Config {
	return LoadFile(filepath.Join(dir, FileName))
}

// LoadFile reads a config file. A missing or invalid file yields defaults.
func LoadFile(path string) *Config {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg // file not found or unreadable, use defaults
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return DefaultConfig() // invalid YAML, use defaults
	}

	return cfg
}

// EffectiveWorkers returns the configured worker count,
// or runtime.NumCPU() if not set or not positive.
func (c *Config) EffectiveWorkers() int {
	if c.Workers != nil && *c.Workers > 0 {
		return *c.Workers
	}
	return runtime.NumCPU()
}

// EffectiveCache returns the configured cache setting, or false if not set.
func (c *Config) EffectiveCache() bool {
	if c.Cache != nil {
		return *c.Cache
	}
	return false
}

// Context builds the rule context shared by every file of a run.
func (c *Config) Context() *rule.Context {
	return &rule.Context{
		ModuleMeta:    c.ModuleMeta,
		ModuleMapping: c.ModuleMapping,
	}
}

// LoadMapping reads a module id → name mapping from a YAML or JSON file.
// Entries are added to the config's mapping, replacing ids already present.
func (c *Config) LoadMapping(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read mapping: %w", err)
	}
	var m map[string]string
	if err := yaml.Unmarshal(data, &m); err != nil {
		return fmt.Errorf("parse mapping %s: %w", path, err)
	}
	if c.ModuleMapping == nil {
		c.ModuleMapping = make(map[string]string, len(m))
	}
	for id, name := range m {
		c.ModuleMapping[id] = name
	}
	return nil
}
