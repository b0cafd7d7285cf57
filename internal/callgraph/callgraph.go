// Package callgraph implements the call-graph service (C8): a per-workspace
// directed graph of method vertices, lazily built from C5 analyses that
// Build computes itself with analysis.Analyze (the analysis cache is not
// consulted), supporting callers/callees adjacency and shortest-path queries.
package callgraph

import (
	"context"
	"sync"

	"github.com/tha23rd/recaf-mcp-sub000/internal/analysis"
	"github.com/tha23rd/recaf-mcp-sub000/internal/apierr"
	"github.com/tha23rd/recaf-mcp-sub000/internal/concurrency"
	"github.com/tha23rd/recaf-mcp-sub000/internal/logging"
	"github.com/tha23rd/recaf-mcp-sub000/internal/workspace"
)

const (
	defaultMaxDepth = 20
	capMaxDepth     = 100
)

// Vertex identifies one method in the graph.
type Vertex struct {
	Owner string
	Name  string
	Desc  string
}

// Graph is a per-workspace directed call graph: vertices = methods, edges =
// "definitely invokes", derived only from direct method references
// (invokedynamic call sites contribute no edges).
type Graph struct {
	w    *workspace.Workspace
	pool *concurrency.Pool

	mu       sync.RWMutex
	built    bool
	builtRev uint64

	vertices   []Vertex
	indexOf    map[Vertex]int
	callees    map[int][]int
	callers    map[int][]int
}

// New creates an unbuilt call graph over w. Callers must invoke Build
// before issuing queries.
func New(w *workspace.Workspace, pool *concurrency.Pool) *Graph {
	return &Graph{w: w, pool: pool, indexOf: make(map[Vertex]int)}
}

// Build analyzes every JVM class in the workspace and constructs the full
// vertex/edge set. Safe to call repeatedly; a no-op if already built at the
// workspace's current revision.
func (g *Graph) Build(ctx context.Context) error {
	g.mu.Lock()
	rev := g.w.Revision()
	if g.built && g.builtRev == rev {
		g.mu.Unlock()
		return nil
	}
	g.mu.Unlock()

	classes := g.w.AllClasses()
	analyses := make([]analysis.ClassAnalysis, len(classes))
	err := g.pool.Run(ctx, len(classes), func(ctx context.Context, i int) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		analyses[i] = analysis.Analyze(classes[i].Class)
		return nil
	})
	if err != nil {
		return err
	}

	vertices := make([]Vertex, 0)
	indexOf := make(map[Vertex]int)
	callees := make(map[int][]int)
	callers := make(map[int][]int)

	vertexIndex := func(v Vertex) int {
		if idx, ok := indexOf[v]; ok {
			return idx
		}
		idx := len(vertices)
		vertices = append(vertices, v)
		indexOf[v] = idx
		return idx
	}

	for i, ca := range analyses {
		owner := classes[i].Class.InternalName
		for _, ma := range ca.Methods {
			vertexIndex(Vertex{Owner: owner, Name: ma.Name, Desc: ma.Desc})
		}
	}
	for i, ca := range analyses {
		owner := classes[i].Class.InternalName
		for _, ma := range ca.Methods {
			src := vertexIndex(Vertex{Owner: owner, Name: ma.Name, Desc: ma.Desc})
			for _, ref := range ma.MethodRefs {
				dst := vertexIndex(Vertex{Owner: ref.Owner, Name: ref.Name, Desc: ref.Desc})
				callees[src] = append(callees[src], dst)
				callers[dst] = append(callers[dst], src)
			}
		}
	}

	g.mu.Lock()
	g.vertices = vertices
	g.indexOf = indexOf
	g.callees = callees
	g.callers = callers
	g.built = true
	g.builtRev = rev
	g.mu.Unlock()

	logging.CallgraphDebug("built call graph: %d vertices, revision=%d", len(vertices), rev)
	return nil
}

// Ready reports whether Build has completed at least once at the current revision.
func (g *Graph) Ready() bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.built && g.builtRev == g.w.Revision()
}

func (g *Graph) checkReady() *apierr.Error {
	if !g.Ready() {
		return apierr.State("call graph is not ready; call build() first")
	}
	return nil
}

// Callees returns the adjacency list of methods v definitely invokes.
func (g *Graph) Callees(v Vertex) ([]Vertex, *apierr.Error) {
	if err := g.checkReady(); err != nil {
		return nil, err
	}
	g.mu.RLock()
	defer g.mu.RUnlock()
	idx, ok := g.indexOf[v]
	if !ok {
		return nil, apierr.NotFound("method vertex not found", nil)
	}
	return g.resolveAll(g.callees[idx]), nil
}

// Callers returns the adjacency list of methods that definitely invoke v.
func (g *Graph) Callers(v Vertex) ([]Vertex, *apierr.Error) {
	if err := g.checkReady(); err != nil {
		return nil, err
	}
	g.mu.RLock()
	defer g.mu.RUnlock()
	idx, ok := g.indexOf[v]
	if !ok {
		return nil, apierr.NotFound("method vertex not found", nil)
	}
	return g.resolveAll(g.callers[idx]), nil
}

func (g *Graph) resolveAll(indices []int) []Vertex {
	out := make([]Vertex, len(indices))
	for i, idx := range indices {
		out[i] = g.vertices[idx]
	}
	return out
}

// PathResult is the outcome of a FindPath query.
type PathResult struct {
	Found bool
	Path  []Vertex
}

// FindPath runs a BFS over the callee direction from source to target,
// bounded by maxDepth (<=0 defaults to 20, capped at 100), reconstructing
// the shortest path as an ordered vertex list.
func (g *Graph) FindPath(source, target Vertex, maxDepth int) (PathResult, *apierr.Error) {
	if err := g.checkReady(); err != nil {
		return PathResult{}, err
	}
	if maxDepth <= 0 {
		maxDepth = defaultMaxDepth
	}
	if maxDepth > capMaxDepth {
		maxDepth = capMaxDepth
	}

	g.mu.RLock()
	defer g.mu.RUnlock()

	srcIdx, ok := g.indexOf[source]
	if !ok {
		return PathResult{}, apierr.NotFound("source method vertex not found", nil)
	}
	dstIdx, ok := g.indexOf[target]
	if !ok {
		return PathResult{}, apierr.NotFound("target method vertex not found", nil)
	}

	if srcIdx == dstIdx {
		return PathResult{Found: true, Path: []Vertex{g.vertices[srcIdx]}}, nil
	}

	visited := make(map[int]bool)
	visited[srcIdx] = true
	pred := make(map[int]int)
	queue := []int{srcIdx}
	depth := make(map[int]int)
	depth[srcIdx] = 0

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if depth[cur] >= maxDepth {
			continue
		}
		for _, next := range g.callees[cur] {
			if visited[next] {
				continue
			}
			visited[next] = true
			pred[next] = cur
			depth[next] = depth[cur] + 1
			if next == dstIdx {
				return PathResult{Found: true, Path: reconstructPath(pred, srcIdx, dstIdx, g.vertices)}, nil
			}
			queue = append(queue, next)
		}
	}

	return PathResult{Found: false}, nil
}

func reconstructPath(pred map[int]int, src, dst int, vertices []Vertex) []Vertex {
	var rev []int
	cur := dst
	for cur != src {
		rev = append(rev, cur)
		cur = pred[cur]
	}
	rev = append(rev, src)

	out := make([]Vertex, len(rev))
	for i, idx := range rev {
		out[len(rev)-1-i] = vertices[idx]
	}
	return out
}

// VertexCount returns the number of method vertices in the built graph.
func (g *Graph) VertexCount() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.vertices)
}
