package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	wp "github.com/ukkiwisurfer/Framework.Embedded-sub001"
)

// Config drives the poolctl workload runner.
type Config struct {
	Pool            PoolConfig     `yaml:"pool"`
	Workload        WorkloadConfig `yaml:"workload"`
	ShutdownTimeout time.Duration  `yaml:"shutdown_timeout"`
}

type PoolConfig struct {
	MaxThreads int  `yaml:"max_threads"`
	PinWorkers bool `yaml:"pin_workers"`
}

type WorkloadConfig struct {
	Kind      string        `yaml:"kind"` // led, bus, flush
	Items     int           `yaml:"items"`
	Duration  time.Duration `yaml:"duration"`
	FailEvery int           `yaml:"fail_every"` // 0 disables injected panics
}

var workloadKinds = map[string]bool{
	"led":   true,
	"bus":   true,
	"flush": true,
}

// Default returns a config with every default applied.
func Default() *Config {
	cfg := &Config{}
	setDefaults(cfg)
	return cfg
}

// Load reads a YAML file, expanding environment variables. An empty path
// yields Default().
func Load(path string) (*Config, error) {
	if path == "" {
		return Default(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	data = []byte(os.ExpandEnv(string(data)))

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}

	setDefaults(&cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	if c.Pool.MaxThreads < 0 {
		return fmt.Errorf("config: pool.max_threads must not be negative, got %d", c.Pool.MaxThreads)
	}
	if c.Workload.Items < 0 {
		return fmt.Errorf("config: workload.items must not be negative, got %d", c.Workload.Items)
	}
	if c.Workload.FailEvery < 0 {
		return fmt.Errorf("config: workload.fail_every must not be negative, got %d", c.Workload.FailEvery)
	}
	if c.ShutdownTimeout < 0 {
		return fmt.Errorf("config: shutdown_timeout must not be negative, got %v", c.ShutdownTimeout)
	}
	if !workloadKinds[c.Workload.Kind] {
		return fmt.Errorf("config: unknown workload.kind %q", c.Workload.Kind)
	}
	return nil
}

func setDefaults(cfg *Config) {
	if cfg.Pool.MaxThreads == 0 {
		cfg.Pool.MaxThreads = wp.DefaultMaxThreads
	}
	if cfg.Workload.Kind == "" {
		cfg.Workload.Kind = "led"
	}
	if cfg.Workload.Items == 0 {
		cfg.Workload.Items = 100
	}
	if cfg.Workload.Duration == 0 {
		cfg.Workload.Duration = time.Millisecond
	}
	if cfg.ShutdownTimeout == 0 {
		cfg.ShutdownTimeout = 5 * time.Second
	}
}
