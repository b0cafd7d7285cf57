package config

// ExecutionConfig configures timeouts for external capability calls
// (decompile, assemble, compile, generate-phantom).
type ExecutionConfig struct {
	DefaultTimeout string `yaml:"default_timeout"`
}
