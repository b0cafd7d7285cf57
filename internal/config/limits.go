package config

import "fmt"

// CoreLimits enforces system-wide resource constraints shared by the search,
// call-graph, and dispatch layers.
type CoreLimits struct {
	MaxConcurrentOperations int `yaml:"max_concurrent_operations"` // dispatcher in-flight cap
	MaxSearchResults        int `yaml:"max_search_results"`        // search result hard cap before pagination
	MaxCallgraphDepth       int `yaml:"max_callgraph_depth"`       // BFS path-finding depth bound
}

// ValidateCoreLimits checks that core limits are within acceptable ranges.
func (c *Config) ValidateCoreLimits() error {
	if c.CoreLimits.MaxConcurrentOperations < 1 {
		return fmt.Errorf("max_concurrent_operations must be >= 1")
	}
	if c.CoreLimits.MaxSearchResults < 1 {
		return fmt.Errorf("max_search_results must be >= 1")
	}
	if c.CoreLimits.MaxCallgraphDepth < 1 {
		return fmt.Errorf("max_callgraph_depth must be >= 1")
	}
	return nil
}
