package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/tha23rd/recaf-mcp-sub000/internal/logging"
)

// Config holds the full runtime configuration for the analysis server.
type Config struct {
	Name    string `yaml:"name"`
	Version string `yaml:"version"`

	BindHost       string `yaml:"bind_host"`
	BindPort       int    `yaml:"bind_port"`
	ResponseFormat string `yaml:"response_format"` // "json" or "text"

	Cache          CacheConfig          `yaml:"cache"`
	ScriptExecution ScriptExecutionConfig `yaml:"script_execution"`
	Decompiler     string               `yaml:"decompiler"`
	Execution      ExecutionConfig      `yaml:"execution"`
	Search         SearchConfig         `yaml:"search"`
	Logging        LoggingConfig        `yaml:"logging"`
	CoreLimits     CoreLimits           `yaml:"core_limits"`
}

// CacheConfig configures the four typed caches in internal/cache.
type CacheConfig struct {
	Enabled    bool `yaml:"enabled"`
	TTLSeconds int  `yaml:"ttl_seconds"`
	MaxEntries int  `yaml:"max_entries"`
}

// ScriptExecutionConfig gates the out-of-process scripting capability.
type ScriptExecutionConfig struct {
	Enabled        bool   `yaml:"enabled"`
	DefaultTimeout string `yaml:"default_timeout"`
}

// SearchConfig configures the parallel search traversal worker pool.
type SearchConfig struct {
	WorkerPoolSize int `yaml:"worker_pool_size"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Name:    "recaf-mcp-sub000",
		Version: "0.1.0",

		BindHost:       "127.0.0.1",
		BindPort:       8765,
		ResponseFormat: "json",

		Cache: CacheConfig{
			Enabled:    true,
			TTLSeconds: 120,
			MaxEntries: 1000,
		},

		ScriptExecution: ScriptExecutionConfig{
			Enabled:        false,
			DefaultTimeout: "10s",
		},

		Decompiler: "vineflower",

		Execution: ExecutionConfig{
			DefaultTimeout: "10s",
		},

		Search: SearchConfig{
			WorkerPoolSize: 0, // 0 means runtime.GOMAXPROCS(0)
		},

		Logging: LoggingConfig{
			Level:      "info",
			Format:     "text",
			DebugMode:  false,
			Categories: nil,
		},

		CoreLimits: CoreLimits{
			MaxConcurrentOperations: 64,
			MaxSearchResults:        10000,
			MaxCallgraphDepth:       64,
		},
	}
}

// Load loads configuration from a YAML file, falling back to defaults if the
// file does not exist, then applies environment variable overrides.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	logging.BootDebug("loading config from: %s", path)

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			logging.Boot("config file not found, using defaults: %s", path)
			cfg.applyEnvOverrides()
			return cfg, nil
		}
		logging.BootError("failed to read config file %s: %v", path, err)
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		logging.BootError("failed to parse config file %s: %v", path, err)
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.applyEnvOverrides()
	logging.Boot("config loaded: bind=%s:%d format=%s", cfg.BindHost, cfg.BindPort, cfg.ResponseFormat)

	return cfg, nil
}

// Save writes the configuration to a YAML file.
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides, taking priority
// over whatever was loaded from the file.
func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("RECAF_BIND_HOST"); v != "" {
		c.BindHost = v
	}
	if v := os.Getenv("RECAF_BIND_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.BindPort = port
		}
	}
	if v := os.Getenv("RECAF_RESPONSE_FORMAT"); v != "" {
		c.ResponseFormat = v
	}
	if v := os.Getenv("RECAF_CACHE_ENABLED"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.Cache.Enabled = b
		}
	}
	if v := os.Getenv("RECAF_CACHE_TTL_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Cache.TTLSeconds = n
		}
	}
	if v := os.Getenv("RECAF_CACHE_MAX_ENTRIES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Cache.MaxEntries = n
		}
	}
	if v := os.Getenv("RECAF_SCRIPT_EXECUTION_ENABLED"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.ScriptExecution.Enabled = b
		}
	}
	if v := os.Getenv("RECAF_DECOMPILER"); v != "" {
		c.Decompiler = v
	}
}

// GetCacheTTL returns the configured cache TTL as a duration.
func (c *Config) GetCacheTTL() time.Duration {
	if c.Cache.TTLSeconds <= 0 {
		return 120 * time.Second
	}
	return time.Duration(c.Cache.TTLSeconds) * time.Second
}

// GetScriptExecutionTimeout returns the script execution timeout as a duration.
func (c *Config) GetScriptExecutionTimeout() time.Duration {
	d, err := time.ParseDuration(c.ScriptExecution.DefaultTimeout)
	if err != nil {
		return 10 * time.Second
	}
	return d
}

// GetExecutionTimeout returns the default capability-call timeout as a duration.
func (c *Config) GetExecutionTimeout() time.Duration {
	d, err := time.ParseDuration(c.Execution.DefaultTimeout)
	if err != nil {
		return 10 * time.Second
	}
	return d
}

// ValidResponseFormats lists the supported response encodings.
var ValidResponseFormats = []string{"json", "text"}

// ValidDecompilers lists the decompiler backends the capability layer may select.
var ValidDecompilers = []string{"vineflower", "cfr", "procyon"}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.BindPort < 1 || c.BindPort > 65535 {
		return fmt.Errorf("bind_port out of range: %d", c.BindPort)
	}

	validFormat := false
	for _, f := range ValidResponseFormats {
		if c.ResponseFormat == f {
			validFormat = true
			break
		}
	}
	if !validFormat {
		return fmt.Errorf("invalid response_format: %s (valid: %v)", c.ResponseFormat, ValidResponseFormats)
	}

	validDecompiler := false
	for _, d := range ValidDecompilers {
		if c.Decompiler == d {
			validDecompiler = true
			break
		}
	}
	if !validDecompiler {
		return fmt.Errorf("invalid decompiler: %s (valid: %v)", c.Decompiler, ValidDecompilers)
	}

	if err := c.ValidateCoreLimits(); err != nil {
		return err
	}

	return nil
}
