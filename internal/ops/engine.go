// Package ops wires every core component into one root Engine and
// registers the concrete operations the dispatcher (C12) exposes, rather
// than holding any package-level global state — a single struct instance
// owns the workspace, caches, and derived-index services for its process
// lifetime.
package ops

import (
	"runtime"
	"sync"
	"time"

	"github.com/tha23rd/recaf-mcp-sub000/internal/analysis"
	"github.com/tha23rd/recaf-mcp-sub000/internal/cache"
	"github.com/tha23rd/recaf-mcp-sub000/internal/callgraph"
	"github.com/tha23rd/recaf-mcp-sub000/internal/capability"
	"github.com/tha23rd/recaf-mcp-sub000/internal/concurrency"
	"github.com/tha23rd/recaf-mcp-sub000/internal/config"
	"github.com/tha23rd/recaf-mcp-sub000/internal/inherit"
	"github.com/tha23rd/recaf-mcp-sub000/internal/mapping"
	"github.com/tha23rd/recaf-mcp-sub000/internal/resolver"
	"github.com/tha23rd/recaf-mcp-sub000/internal/workspace"
)

// Adapters bundles the optional external-capability implementations
// (C11). Any field left nil causes operations in that category to report
// apierr.Unsupported rather than panic.
type Adapters struct {
	Decompiler       capability.Decompiler
	Assembler        capability.Assembler
	Compiler         capability.Compiler
	PhantomGenerator capability.PhantomGenerator
}

// Engine is the root object binding one workspace to every derived
// service (search pool, caches, mapping engine, call-graph, inheritance
// index) and the external capability adapters, supplying the Handler
// closures that internal/dispatch operations invoke.
type Engine struct {
	w    *workspace.Workspace
	cfg  *config.Config
	pool *concurrency.Pool

	decompileCache *cache.Typed[cache.DecompileKey, string]
	analysisCache  *cache.Typed[cache.AnalysisKey, analysis.ClassAnalysis]
	inventoryCache *cache.Typed[cache.InventoryKey, resolver.Inventory]

	mapping   *mapping.Engine
	callgraph *callgraph.Graph
	inherit   *inherit.Index
	adapters  Adapters

	commentsMu sync.RWMutex
	comments   map[commentKey]string
}

// commentKey identifies one user-authored comment attached to a class or
// member, keyed the same way the mapping tables key a member: owner plus
// optional member name/desc (empty for a class-level comment).
type commentKey struct {
	Owner string
	Name  string
	Desc  string
}

// NewEngine constructs the root engine over an already-opened workspace,
// sizing the worker pool from cfg.Search.WorkerPoolSize (0 meaning
// runtime.GOMAXPROCS(0), per SPEC_FULL.md §5) and configuring every cache
// from cfg.Cache.
func NewEngine(w *workspace.Workspace, cfg *config.Config, adapters Adapters) *Engine {
	poolSize := cfg.Search.WorkerPoolSize
	if poolSize <= 0 {
		poolSize = runtime.GOMAXPROCS(0)
	}

	cacheCfg := cache.Config{
		Enabled:    cfg.Cache.Enabled,
		TTL:        time.Duration(cfg.Cache.TTLSeconds) * time.Second,
		MaxEntries: cfg.Cache.MaxEntries,
	}

	pool := concurrency.NewPool(poolSize)
	return &Engine{
		w:    w,
		cfg:  cfg,
		pool: pool,

		decompileCache: cache.NewTyped[cache.DecompileKey, string]("decompile", cacheCfg),
		analysisCache:  cache.NewTyped[cache.AnalysisKey, analysis.ClassAnalysis]("analysis", cacheCfg),
		inventoryCache: cache.NewTyped[cache.InventoryKey, resolver.Inventory]("inventory", cacheCfg),

		mapping:   mapping.NewEngine(w),
		callgraph: callgraph.New(w, pool),
		inherit:   inherit.New(w),
		adapters:  adapters,

		comments: make(map[commentKey]string),
	}
}

// Workspace returns the engine's bound workspace.
func (e *Engine) Workspace() *workspace.Workspace { return e.w }
