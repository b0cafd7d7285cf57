package config

// LoggingConfig configures the internal/logging package.
type LoggingConfig struct {
	Level      string          `yaml:"level"`      // debug, info, warn, error
	Format     string          `yaml:"format"`      // json, text
	DebugMode  bool            `yaml:"debug_mode"`  // master toggle, false = no logging
	Categories map[string]bool `yaml:"categories"`  // per-category toggles
}

// IsCategoryEnabled returns whether logging is enabled for a category.
func (c *LoggingConfig) IsCategoryEnabled(category string) bool {
	if !c.DebugMode {
		return false
	}
	if c.Categories == nil {
		return true
	}
	enabled, exists := c.Categories[category]
	if !exists {
		return true
	}
	return enabled
}
