package callgraph

import (
	"context"
	"testing"

	"github.com/tha23rd/recaf-mcp-sub000/internal/bytecode"
	"github.com/tha23rd/recaf-mcp-sub000/internal/concurrency"
	"github.com/tha23rd/recaf-mcp-sub000/internal/workspace"
)

// A -> B -> C, and A -> C directly, forming a diamond.
func buildDiamond(t *testing.T) *workspace.Workspace {
	t.Helper()
	w := workspace.Open("primary.jar")

	a := bytecode.Class{
		InternalName: "com/example/A",
		Methods: []bytecode.Method{
			{Name: "a", Desc: "()V", Instructions: []bytecode.Instruction{
				{Kind: bytecode.KindMethodRef, RefKind: bytecode.RefStatic, Owner: "com/example/B", Name: "b", Desc: "()V"},
				{Kind: bytecode.KindMethodRef, RefKind: bytecode.RefStatic, Owner: "com/example/C", Name: "c", Desc: "()V"},
			}},
		},
	}
	b := bytecode.Class{
		InternalName: "com/example/B",
		Methods: []bytecode.Method{
			{Name: "b", Desc: "()V", Instructions: []bytecode.Instruction{
				{Kind: bytecode.KindMethodRef, RefKind: bytecode.RefStatic, Owner: "com/example/C", Name: "c", Desc: "()V"},
			}},
		},
	}
	c := bytecode.Class{
		InternalName: "com/example/C",
		Methods: []bytecode.Method{
			{Name: "c", Desc: "()V"},
		},
	}

	for _, cls := range []bytecode.Class{a, b, c} {
		if err := w.PutClass(w.Primary(), cls); err != nil {
			t.Fatal(err)
		}
	}
	return w
}

func TestGraph_QueriesBeforeBuildReturnNotReady(t *testing.T) {
	w := buildDiamond(t)
	g := New(w, concurrency.NewPool(2))
	_, err := g.Callees(Vertex{Owner: "com/example/A", Name: "a", Desc: "()V"})
	if err == nil || err.Kind != "state" {
		t.Fatalf("expected state/not-ready error, got %v", err)
	}
}

func TestGraph_BuildCreatesVertexPerMethod(t *testing.T) {
	w := buildDiamond(t)
	g := New(w, concurrency.NewPool(2))
	if err := g.Build(context.Background()); err != nil {
		t.Fatal(err)
	}
	if g.VertexCount() != 3 {
		t.Fatalf("expected 3 vertices, got %d", g.VertexCount())
	}
	if !g.Ready() {
		t.Fatal("expected graph to be ready after build")
	}
}

func TestGraph_CalleesAndCallers(t *testing.T) {
	w := buildDiamond(t)
	g := New(w, concurrency.NewPool(2))
	if err := g.Build(context.Background()); err != nil {
		t.Fatal(err)
	}

	a := Vertex{Owner: "com/example/A", Name: "a", Desc: "()V"}
	callees, err := g.Callees(a)
	if err != nil {
		t.Fatal(err)
	}
	if len(callees) != 2 {
		t.Fatalf("expected 2 callees of a, got %d", len(callees))
	}

	c := Vertex{Owner: "com/example/C", Name: "c", Desc: "()V"}
	callers, err := g.Callers(c)
	if err != nil {
		t.Fatal(err)
	}
	if len(callers) != 2 {
		t.Fatalf("expected 2 callers of c (a and b), got %d", len(callers))
	}
}

func TestGraph_FindPathShortestDiamond(t *testing.T) {
	w := buildDiamond(t)
	g := New(w, concurrency.NewPool(2))
	if err := g.Build(context.Background()); err != nil {
		t.Fatal(err)
	}

	a := Vertex{Owner: "com/example/A", Name: "a", Desc: "()V"}
	c := Vertex{Owner: "com/example/C", Name: "c", Desc: "()V"}
	res, err := g.FindPath(a, c, 0)
	if err != nil {
		t.Fatal(err)
	}
	if !res.Found {
		t.Fatal("expected path to be found")
	}
	if len(res.Path) != 2 {
		t.Fatalf("expected direct shortest path of length 2 (a->c), got %d: %+v", len(res.Path), res.Path)
	}
}

func TestGraph_FindPathUnreachableReturnsNotFound(t *testing.T) {
	w := buildDiamond(t)
	g := New(w, concurrency.NewPool(2))
	if err := g.Build(context.Background()); err != nil {
		t.Fatal(err)
	}

	c := Vertex{Owner: "com/example/C", Name: "c", Desc: "()V"}
	a := Vertex{Owner: "com/example/A", Name: "a", Desc: "()V"}
	res, err := g.FindPath(c, a, 0)
	if err != nil {
		t.Fatal(err)
	}
	if res.Found {
		t.Fatal("expected no path from c back to a")
	}
}

func TestGraph_RebuildsAfterRevisionBump(t *testing.T) {
	w := buildDiamond(t)
	g := New(w, concurrency.NewPool(2))
	if err := g.Build(context.Background()); err != nil {
		t.Fatal(err)
	}
	before := g.VertexCount()

	d := bytecode.Class{InternalName: "com/example/D", Methods: []bytecode.Method{{Name: "d", Desc: "()V"}}}
	if err := w.PutClass(w.Primary(), d); err != nil {
		t.Fatal(err)
	}
	if g.Ready() {
		t.Fatal("expected graph to be stale after a revision bump")
	}
	if err := g.Build(context.Background()); err != nil {
		t.Fatal(err)
	}
	if g.VertexCount() != before+1 {
		t.Fatalf("expected vertex count to grow by 1, got %d -> %d", before, g.VertexCount())
	}
}
