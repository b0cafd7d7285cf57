package search

import (
	"context"
	"fmt"
	"testing"

	"github.com/tha23rd/recaf-mcp-sub000/internal/bytecode"
	"github.com/tha23rd/recaf-mcp-sub000/internal/concurrency"
	"github.com/tha23rd/recaf-mcp-sub000/internal/workspace"
)

func TestRunTextual_MatchesLinesAndReportsLineNumbers(t *testing.T) {
	w := workspace.Open("primary.jar")
	for i := 0; i < 3; i++ {
		c := bytecode.Class{InternalName: fmt.Sprintf("com/example/Class%d", i)}
		if err := w.PutClass(w.Primary(), c); err != nil {
			t.Fatal(err)
		}
	}

	decompile := func(ctx context.Context, c bytecode.Class) (string, error) {
		return "line one\nTODO fix this\nline three\n", nil
	}

	p, err := RegexPartial("TODO")
	if err != nil {
		t.Fatal(err)
	}

	matches, err := RunTextual(context.Background(), w, p, decompile, concurrency.NewPool(4), false, "", 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(matches) != 3 {
		t.Fatalf("expected 3 matches (one per class), got %d", len(matches))
	}
	for _, m := range matches {
		if m.LineNumber != 2 {
			t.Errorf("expected match on line 2, got %d", m.LineNumber)
		}
	}
}

func TestRunTextual_RespectsClassCap(t *testing.T) {
	w := workspace.Open("primary.jar")
	for i := 0; i < 10; i++ {
		c := bytecode.Class{InternalName: fmt.Sprintf("com/example/Class%d", i)}
		if err := w.PutClass(w.Primary(), c); err != nil {
			t.Fatal(err)
		}
	}
	decompile := func(ctx context.Context, c bytecode.Class) (string, error) { return "x", nil }
	p := Contains("x")

	matches, err := RunTextual(context.Background(), w, p, decompile, concurrency.NewPool(4), false, "", 3)
	if err != nil {
		t.Fatal(err)
	}
	if len(matches) != 3 {
		t.Fatalf("expected cap of 3 classes scanned, got %d", len(matches))
	}
}

func TestRunTextual_PackagePrefixFilter(t *testing.T) {
	w := workspace.Open("primary.jar")
	if err := w.PutClass(w.Primary(), bytecode.Class{InternalName: "com/example/a/Foo"}); err != nil {
		t.Fatal(err)
	}
	if err := w.PutClass(w.Primary(), bytecode.Class{InternalName: "com/other/Bar"}); err != nil {
		t.Fatal(err)
	}
	decompile := func(ctx context.Context, c bytecode.Class) (string, error) { return "match", nil }
	p := Contains("match")

	matches, err := RunTextual(context.Background(), w, p, decompile, concurrency.NewPool(4), false, "com/example/", 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(matches) != 1 || matches[0].ClassName != "com/example/a/Foo" {
		t.Fatalf("unexpected matches: %+v", matches)
	}
}
