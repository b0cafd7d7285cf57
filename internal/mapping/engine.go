package mapping

import (
	"context"
	"fmt"
	"sync"

	"github.com/tha23rd/recaf-mcp-sub000/internal/apierr"
	"github.com/tha23rd/recaf-mcp-sub000/internal/bytecode"
	"github.com/tha23rd/recaf-mcp-sub000/internal/logging"
	"github.com/tha23rd/recaf-mcp-sub000/internal/workspace"
)

// TransformResult is what an external transformer emits for one pipeline
// step: classes to update or insert, names to remove, and an optional
// mapping addendum to fold in once every transformer has run.
type TransformResult struct {
	Updated  []bytecode.Class
	Removed  []string
	Addendum Mappings
}

// Transformer is a named external transform step. Run receives the primary
// resource's current classes (reflecting any prior step in the same batch)
// and must not mutate the slice it is given.
type Transformer struct {
	Name string
	Run  func(ctx context.Context, classes []bytecode.Class) (TransformResult, error)
}

// Engine is the mapping & transform engine (C10) bound to one workspace.
// It owns the single-generation undo buffer and the append-only aggregate
// mapping accumulator for that workspace's lifetime.
type Engine struct {
	w *workspace.Workspace

	mu   sync.Mutex
	undo map[string]bytecode.Class // nil when no undo snapshot is available

	aggMu     sync.Mutex
	aggregate Mappings
}

// NewEngine creates a mapping engine over w with an empty undo buffer and
// an empty aggregate accumulator.
func NewEngine(w *workspace.Workspace) *Engine {
	return &Engine{w: w, aggregate: New()}
}

// ApplyToPrimaryResource is the sole write path for intermediate mappings:
// it rewrites every class in the primary bundle, substituting names per
// mappings, replaces bundle entries atomically per class, then calls the
// workspace mutation hook exactly once for the whole batch. A variable
// rename aimed at a primary method with no local-variable table fails the
// whole batch with not-found before anything is rewritten.
func (e *Engine) ApplyToPrimaryResource(mappings Mappings) error {
	primary := e.w.Primary()
	if primary == nil {
		return apierr.NoWorkspace()
	}
	for vk := range mappings.VariableRename {
		c, ok := primary.Bundle.Class(vk.Owner)
		if !ok {
			continue
		}
		if meth, ok := c.MethodByNameDesc(vk.MethodName, vk.MethodDesc); ok && !meth.HasDebugInfo() {
			return apierr.NotFound(fmt.Sprintf("local-variable table absent for %s.%s%s", vk.Owner, vk.MethodName, vk.MethodDesc), nil)
		}
	}
	applyMappingsLocked(primary, mappings)
	e.w.Bump()
	e.recordAggregate(mappings)
	logging.MappingDebug("applied mapping batch: %d class, %d field, %d method, %d variable renames",
		len(mappings.ClassRename), len(mappings.FieldRename), len(mappings.MethodRename), len(mappings.VariableRename))
	return nil
}

// applyMappingsLocked rewrites every class in the primary resource's
// bundle in place, without bumping the workspace revision; callers bump
// once after the full batch (mappings plus any transform updates) lands.
func applyMappingsLocked(primary *workspace.Resource, mappings Mappings) {
	if mappings.IsEmpty() {
		return
	}
	classes := primary.Bundle.Classes()
	for _, c := range classes {
		nc := rewriteClass(c, mappings)
		if nc.InternalName != c.InternalName {
			primary.Bundle.RemoveClass(c.InternalName)
		}
		primary.Bundle.PutClass(nc)
	}
}

// Transform runs an ordered batch of external transformers over the
// primary resource. Before applying anything it snapshots every primary
// class's bytecode into the undo buffer (discarding any previous
// snapshot — at most one generation is kept). Each transformer's updates
// and removals are applied in turn, its mapping addendum is folded into
// the running batch, and the combined addendum is applied once all
// transformers have run, followed by exactly one mutation-hook call.
func (e *Engine) Transform(ctx context.Context, transformers ...Transformer) error {
	primary := e.w.Primary()
	if primary == nil {
		return apierr.NoWorkspace()
	}

	classes := primary.Bundle.Classes()
	snapshot := make(map[string]bytecode.Class, len(classes))
	for _, c := range classes {
		snapshot[c.InternalName] = c
	}
	e.mu.Lock()
	e.undo = snapshot
	e.mu.Unlock()

	addendum := New()
	current := classes
	for _, tr := range transformers {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		result, err := tr.Run(ctx, current)
		if err != nil {
			return fmt.Errorf("transformer %q failed: %w", tr.Name, err)
		}
		for _, uc := range result.Updated {
			primary.Bundle.PutClass(uc)
		}
		for _, name := range result.Removed {
			primary.Bundle.RemoveClass(name)
		}
		addendum = Merge(addendum, result.Addendum)
		current = primary.Bundle.Classes()
		logging.MappingDebug("transformer %q applied: %d updated, %d removed", tr.Name, len(result.Updated), len(result.Removed))
	}

	applyMappingsLocked(primary, addendum)
	e.w.Bump()
	e.recordAggregate(addendum)
	return nil
}

// Undo restores bytecode from the undo buffer for every snapshotted
// internal name, clears the buffer, and calls the mutation hook. Only one
// undo generation is ever retained; a second Undo without an intervening
// Transform fails since the buffer was already cleared.
func (e *Engine) Undo() *apierr.Error {
	e.mu.Lock()
	snapshot := e.undo
	e.undo = nil
	e.mu.Unlock()

	if snapshot == nil {
		return apierr.State("no undo snapshot is available")
	}

	primary := e.w.Primary()
	if primary == nil {
		return apierr.NoWorkspace()
	}
	for name, c := range snapshot {
		primary.Bundle.PutClass(c)
		_ = name
	}
	e.w.Bump()
	logging.MappingDebug("restored %d class(es) from undo buffer", len(snapshot))
	return nil
}

// HasUndo reports whether an undo snapshot is currently available.
func (e *Engine) HasUndo() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.undo != nil
}

// recordAggregate folds mappings into the append-only aggregate
// accumulator; it is never cleared for the lifetime of the workspace.
func (e *Engine) recordAggregate(mappings Mappings) {
	if mappings.IsEmpty() {
		return
	}
	e.aggMu.Lock()
	defer e.aggMu.Unlock()
	e.aggregate = Merge(e.aggregate, mappings)
}

// Aggregate returns a snapshot copy of every intermediate mapping applied
// across this workspace's lifetime, for export and history operations.
func (e *Engine) Aggregate() Mappings {
	e.aggMu.Lock()
	defer e.aggMu.Unlock()
	return Merge(New(), e.aggregate)
}
