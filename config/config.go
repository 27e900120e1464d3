// Package config provides configuration loading and management for depgraph.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/c360studio/depgraph/export"
	"github.com/c360studio/depgraph/pipeline"
)

// Config represents the complete depgraph configuration
type Config struct {
	Engine   EngineConfig   `yaml:"engine"`
	Pipeline PipelineConfig `yaml:"pipeline"`
	Watch    WatchConfig    `yaml:"watch"`
	Publish  PublishConfig  `yaml:"publish"`
	Metrics  MetricsConfig  `yaml:"metrics"`
}

// EngineConfig configures the annotation engine connection
type EngineConfig struct {
	// Provider is the engine protocol to speak (e.g., "corenlp", "udpipe")
	Provider string `yaml:"provider"`
	// BaseURL is the engine server URL (empty = provider default)
	BaseURL string `yaml:"base_url"`
	// Language is the annotation language or model hint (empty = server default)
	Language string `yaml:"language"`
	// Timeout is the maximum time to wait for one annotation request
	Timeout time.Duration `yaml:"timeout"`
	// MaxAttempts bounds retries of transient engine failures
	MaxAttempts int `yaml:"max_attempts"`
}

// PipelineConfig configures the extraction driver
type PipelineConfig struct {
	// MaxSentenceLength is the upper bound on sentence length in tokens
	MaxSentenceLength int `yaml:"max_sentence_length"`
	// Workers is the number of lines processed concurrently
	Workers int `yaml:"workers"`
	// Format is the output format: jsonl, conllx, or dot
	Format string `yaml:"format"`
}

// WatchConfig configures corpus directory watching
type WatchConfig struct {
	// Debounce is how long to wait for more changes before processing
	Debounce time.Duration `yaml:"debounce"`
	// Extensions lists file extensions to watch
	Extensions []string `yaml:"extensions"`
	// ExcludeDirs lists directory names to skip
	ExcludeDirs []string `yaml:"exclude_dirs"`
}

// PublishConfig configures the NATS graph sink
type PublishConfig struct {
	// URL is the NATS server URL (empty = publishing disabled)
	URL string `yaml:"url"`
}

// MetricsConfig configures the Prometheus endpoint
type MetricsConfig struct {
	// Addr is the listen address for /metrics (empty = disabled)
	Addr string `yaml:"addr"`
}

// DefaultConfig returns a Config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Engine: EngineConfig{
			Provider:    "corenlp",
			BaseURL:     "", // Provider default
			Language:    "",
			Timeout:     60 * time.Second,
			MaxAttempts: 3,
		},
		Pipeline: PipelineConfig{
			MaxSentenceLength: pipeline.DefaultMaxSentenceLength,
			Workers:           1,
			Format:            string(export.FormatJSONL),
		},
		Watch: WatchConfig{
			Debounce:    500 * time.Millisecond,
			Extensions:  []string{".txt", ".md"},
			ExcludeDirs: []string{".git", "node_modules", "vendor"},
		},
		Publish: PublishConfig{
			URL: "",
		},
		Metrics: MetricsConfig{
			Addr: "",
		},
	}
}

// Validate checks that the configuration is valid
func (c *Config) Validate() error {
	if c.Engine.Provider == "" {
		return fmt.Errorf("engine.provider is required")
	}
	if c.Engine.Timeout < 0 {
		return fmt.Errorf("engine.timeout must not be negative")
	}
	if c.Engine.MaxAttempts < 1 {
		return fmt.Errorf("engine.max_attempts must be at least 1")
	}
	if c.Pipeline.MaxSentenceLength < pipeline.MinSentenceLength {
		return fmt.Errorf("pipeline.max_sentence_length must be at least %d", pipeline.MinSentenceLength)
	}
	if c.Pipeline.Workers < 1 {
		return fmt.Errorf("pipeline.workers must be at least 1")
	}
	if _, err := export.ParseFormat(c.Pipeline.Format); err != nil {
		return fmt.Errorf("pipeline.format: %w", err)
	}
	return nil
}

// LoadFromFile loads configuration from a YAML file
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return config, nil
}

// SaveToFile saves configuration to a YAML file
func (c *Config) SaveToFile(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Merge merges another config into this one (other takes precedence for non-zero values)
func (c *Config) Merge(other *Config) {
	if other == nil {
		return
	}

	// Engine
	if other.Engine.Provider != "" {
		c.Engine.Provider = other.Engine.Provider
	}
	if other.Engine.BaseURL != "" {
		c.Engine.BaseURL = other.Engine.BaseURL
	}
	if other.Engine.Language != "" {
		c.Engine.Language = other.Engine.Language
	}
	if other.Engine.Timeout != 0 {
		c.Engine.Timeout = other.Engine.Timeout
	}
	if other.Engine.MaxAttempts != 0 {
		c.Engine.MaxAttempts = other.Engine.MaxAttempts
	}

	// Pipeline
	if other.Pipeline.MaxSentenceLength != 0 {
		c.Pipeline.MaxSentenceLength = other.Pipeline.MaxSentenceLength
	}
	if other.Pipeline.Workers != 0 {
		c.Pipeline.Workers = other.Pipeline.Workers
	}
	if other.Pipeline.Format != "" {
		c.Pipeline.Format = other.Pipeline.Format
	}

	// Watch
	if other.Watch.Debounce != 0 {
		c.Watch.Debounce = other.Watch.Debounce
	}
	if len(other.Watch.Extensions) > 0 {
		c.Watch.Extensions = other.Watch.Extensions
	}
	if len(other.Watch.ExcludeDirs) > 0 {
		c.Watch.ExcludeDirs = other.Watch.ExcludeDirs
	}

	// Publish
	if other.Publish.URL != "" {
		c.Publish.URL = other.Publish.URL
	}

	// Metrics
	if other.Metrics.Addr != "" {
		c.Metrics.Addr = other.Metrics.Addr
	}
}
