package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Engine.Provider != "corenlp" {
		t.Errorf("expected default provider corenlp, got %s", cfg.Engine.Provider)
	}
	if cfg.Engine.Timeout != 60*time.Second {
		t.Errorf("expected default timeout 60s, got %v", cfg.Engine.Timeout)
	}
	if cfg.Engine.MaxAttempts != 3 {
		t.Errorf("expected default max attempts 3, got %d", cfg.Engine.MaxAttempts)
	}
	if cfg.Pipeline.MaxSentenceLength != 50 {
		t.Errorf("expected default max sentence length 50, got %d", cfg.Pipeline.MaxSentenceLength)
	}
	if cfg.Pipeline.Format != "jsonl" {
		t.Errorf("expected default format jsonl, got %s", cfg.Pipeline.Format)
	}
	if cfg.Publish.URL != "" {
		t.Errorf("expected publishing disabled by default, got %s", cfg.Publish.URL)
	}
	if cfg.Metrics.Addr != "" {
		t.Errorf("expected metrics disabled by default, got %s", cfg.Metrics.Addr)
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr bool
	}{
		{
			name:    "valid default config",
			modify:  func(c *Config) {},
			wantErr: false,
		},
		{
			name:    "missing provider",
			modify:  func(c *Config) { c.Engine.Provider = "" },
			wantErr: true,
		},
		{
			name:    "negative timeout",
			modify:  func(c *Config) { c.Engine.Timeout = -time.Second },
			wantErr: true,
		},
		{
			name:    "zero max attempts",
			modify:  func(c *Config) { c.Engine.MaxAttempts = 0 },
			wantErr: true,
		},
		{
			name:    "max sentence length below minimum",
			modify:  func(c *Config) { c.Pipeline.MaxSentenceLength = 3 },
			wantErr: true,
		},
		{
			name:    "zero workers",
			modify:  func(c *Config) { c.Pipeline.Workers = 0 },
			wantErr: true,
		},
		{
			name:    "unknown format",
			modify:  func(c *Config) { c.Pipeline.Format = "xml" },
			wantErr: true,
		},
		{
			name:    "udpipe provider accepted",
			modify:  func(c *Config) { c.Engine.Provider = "udpipe" },
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestLoadFromFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	content := `
engine:
  provider: "udpipe"
  base_url: "http://parse-server:8001"
  language: "english"
  timeout: 2m
pipeline:
  max_sentence_length: 80
  workers: 4
  format: "conllx"
publish:
  url: "nats://graph-bus:4222"
metrics:
  addr: ":9102"
`
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg, err := LoadFromFile(configPath)
	if err != nil {
		t.Fatalf("LoadFromFile() error = %v", err)
	}

	if cfg.Engine.Provider != "udpipe" {
		t.Errorf("expected provider udpipe, got %s", cfg.Engine.Provider)
	}
	if cfg.Engine.BaseURL != "http://parse-server:8001" {
		t.Errorf("expected base URL http://parse-server:8001, got %s", cfg.Engine.BaseURL)
	}
	if cfg.Engine.Language != "english" {
		t.Errorf("expected language english, got %s", cfg.Engine.Language)
	}
	if cfg.Engine.Timeout != 2*time.Minute {
		t.Errorf("expected timeout 2m, got %v", cfg.Engine.Timeout)
	}
	if cfg.Pipeline.MaxSentenceLength != 80 {
		t.Errorf("expected max sentence length 80, got %d", cfg.Pipeline.MaxSentenceLength)
	}
	if cfg.Pipeline.Workers != 4 {
		t.Errorf("expected 4 workers, got %d", cfg.Pipeline.Workers)
	}
	if cfg.Pipeline.Format != "conllx" {
		t.Errorf("expected format conllx, got %s", cfg.Pipeline.Format)
	}
	if cfg.Publish.URL != "nats://graph-bus:4222" {
		t.Errorf("expected publish URL nats://graph-bus:4222, got %s", cfg.Publish.URL)
	}
	if cfg.Metrics.Addr != ":9102" {
		t.Errorf("expected metrics addr :9102, got %s", cfg.Metrics.Addr)
	}

	// Unset sections keep their defaults.
	if cfg.Engine.MaxAttempts != 3 {
		t.Errorf("expected default max attempts 3, got %d", cfg.Engine.MaxAttempts)
	}
	if cfg.Watch.Debounce != 500*time.Millisecond {
		t.Errorf("expected default debounce, got %v", cfg.Watch.Debounce)
	}
}

func TestConfigMerge(t *testing.T) {
	base := DefaultConfig()
	override := &Config{
		Engine: EngineConfig{
			Provider: "udpipe",
		},
		Pipeline: PipelineConfig{
			Workers: 8,
		},
	}

	base.Merge(override)

	if base.Engine.Provider != "udpipe" {
		t.Errorf("expected provider udpipe, got %s", base.Engine.Provider)
	}
	// Timeout should remain from base since override didn't set it
	if base.Engine.Timeout != 60*time.Second {
		t.Errorf("expected timeout to remain default, got %v", base.Engine.Timeout)
	}
	if base.Pipeline.Workers != 8 {
		t.Errorf("expected 8 workers, got %d", base.Pipeline.Workers)
	}
	if base.Pipeline.Format != "jsonl" {
		t.Errorf("expected format to remain default, got %s", base.Pipeline.Format)
	}
}

func TestConfigSaveToFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "subdir", "config.yaml")

	cfg := DefaultConfig()
	cfg.Engine.Provider = "udpipe"

	if err := cfg.SaveToFile(configPath); err != nil {
		t.Fatalf("SaveToFile() error = %v", err)
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		t.Error("config file was not created")
	}

	loaded, err := LoadFromFile(configPath)
	if err != nil {
		t.Fatalf("failed to load saved config: %v", err)
	}
	if loaded.Engine.Provider != "udpipe" {
		t.Errorf("expected provider udpipe, got %s", loaded.Engine.Provider)
	}
}
