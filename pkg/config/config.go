// Package config holds the engine's tunables: traversal bounds, emphasis
// factors, optimizer ceilings and cache sizing. Values come from defaults,
// optionally a YAML file, then environment overrides, in that order.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Environment distinguishes development conveniences (hot reload, debug
// logging) from production behavior.
type Environment string

const (
	Development Environment = "development"
	Production  Environment = "production"
)

// Config is the complete engine configuration.
type Config struct {
	Environment Environment `yaml:"environment"`
	LogLevel    string      `yaml:"log_level"`

	Ego       EgoConfig       `yaml:"ego"`
	Builder   BuilderConfig   `yaml:"builder"`
	Optimizer OptimizerConfig `yaml:"optimizer"`
	Cache     CacheConfig     `yaml:"cache"`
}

// EgoConfig bounds ego-network traversal and emphasis.
type EgoConfig struct {
	MaxDistance        int     `yaml:"max_distance"`
	EmphasisMultiplier float64 `yaml:"emphasis_multiplier"`

	// Layout hint constants.
	RadialRadiusStep    float64 `yaml:"radial_radius_step"`
	ForceEdgeBaseLength float64 `yaml:"force_edge_base_length"`
}

// BuilderConfig controls graph construction and densification.
type BuilderConfig struct {
	// DensityThreshold is the links-per-node ratio below which synthetic
	// densification edges are added.
	DensityThreshold    float64 `yaml:"density_threshold"`
	MaxSyntheticPerNode int     `yaml:"max_synthetic_per_node"`
}

// OptimizerConfig sets the pruning ceilings.
type OptimizerConfig struct {
	MaxNodes int `yaml:"max_nodes"`
	MaxLinks int `yaml:"max_links"`
}

// CacheConfig sizes the two cache instances.
type CacheConfig struct {
	FullGraphTTL      time.Duration `yaml:"full_graph_ttl"`
	FullGraphMaxItems int           `yaml:"full_graph_max_items"`
	EgoQueryTTL       time.Duration `yaml:"ego_query_ttl"`
	EgoQueryMaxItems  int           `yaml:"ego_query_max_items"`
	SweepInterval     time.Duration `yaml:"sweep_interval"`
}

// Default returns the engine defaults.
func Default() Config {
	return Config{
		Environment: Development,
		LogLevel:    "info",
		Ego: EgoConfig{
			MaxDistance:         3,
			EmphasisMultiplier:  2.0,
			RadialRadiusStep:    120,
			ForceEdgeBaseLength: 60,
		},
		Builder: BuilderConfig{
			DensityThreshold:    2.0,
			MaxSyntheticPerNode: 3,
		},
		Optimizer: OptimizerConfig{
			MaxNodes: 500,
			MaxLinks: 1000,
		},
		Cache: CacheConfig{
			FullGraphTTL:      5 * time.Minute,
			FullGraphMaxItems: 16,
			EgoQueryTTL:       time.Minute,
			EgoQueryMaxItems:  256,
			SweepInterval:     time.Minute,
		},
	}
}

// Load builds the configuration from defaults, an optional YAML file and
// environment overrides.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return cfg, fmt.Errorf("failed to read config file: %w", err)
			}
		} else if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	applyEnvOverrides(&cfg)

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// applyEnvOverrides applies GRAPH_ENGINE_* environment variables.
func applyEnvOverrides(cfg *Config) {
	if env := os.Getenv("GRAPH_ENGINE_ENV"); env != "" {
		cfg.Environment = Environment(env)
	}
	if level := os.Getenv("GRAPH_ENGINE_LOG_LEVEL"); level != "" {
		cfg.LogLevel = level
	}
	if v, ok := envInt("GRAPH_ENGINE_MAX_DISTANCE"); ok {
		cfg.Ego.MaxDistance = v
	}
	if v, ok := envInt("GRAPH_ENGINE_MAX_NODES"); ok {
		cfg.Optimizer.MaxNodes = v
	}
	if v, ok := envInt("GRAPH_ENGINE_MAX_LINKS"); ok {
		cfg.Optimizer.MaxLinks = v
	}
	if v, ok := envDuration("GRAPH_ENGINE_FULL_GRAPH_TTL"); ok {
		cfg.Cache.FullGraphTTL = v
	}
	if v, ok := envDuration("GRAPH_ENGINE_EGO_QUERY_TTL"); ok {
		cfg.Cache.EgoQueryTTL = v
	}
}

func envInt(key string) (int, bool) {
	raw := os.Getenv(key)
	if raw == "" {
		return 0, false
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return v, true
}

func envDuration(key string) (time.Duration, bool) {
	raw := os.Getenv(key)
	if raw == "" {
		return 0, false
	}
	v, err := time.ParseDuration(raw)
	if err != nil {
		return 0, false
	}
	return v, true
}

// Validate checks configuration invariants.
func (c *Config) Validate() error {
	if c.Ego.MaxDistance < 0 {
		return fmt.Errorf("ego.max_distance must be non-negative, got %d", c.Ego.MaxDistance)
	}
	if c.Ego.EmphasisMultiplier <= 0 {
		return fmt.Errorf("ego.emphasis_multiplier must be positive, got %g", c.Ego.EmphasisMultiplier)
	}
	if c.Builder.DensityThreshold < 0 {
		return fmt.Errorf("builder.density_threshold must be non-negative, got %g", c.Builder.DensityThreshold)
	}
	if c.Builder.MaxSyntheticPerNode < 0 {
		return fmt.Errorf("builder.max_synthetic_per_node must be non-negative, got %d", c.Builder.MaxSyntheticPerNode)
	}
	if c.Optimizer.MaxNodes <= 0 {
		return fmt.Errorf("optimizer.max_nodes must be positive, got %d", c.Optimizer.MaxNodes)
	}
	if c.Optimizer.MaxLinks <= 0 {
		return fmt.Errorf("optimizer.max_links must be positive, got %d", c.Optimizer.MaxLinks)
	}
	if c.Cache.FullGraphTTL <= 0 || c.Cache.EgoQueryTTL <= 0 {
		return fmt.Errorf("cache TTLs must be positive")
	}
	return nil
}
