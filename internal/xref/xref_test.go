package xref

import (
	"context"
	"testing"

	"github.com/tha23rd/recaf-mcp-sub000/internal/bytecode"
	"github.com/tha23rd/recaf-mcp-sub000/internal/concurrency"
	"github.com/tha23rd/recaf-mcp-sub000/internal/workspace"
)

func buildWorkspace(t *testing.T) *workspace.Workspace {
	t.Helper()
	w := workspace.Open("primary.jar")

	caller := bytecode.Class{
		InternalName: "com/example/Caller",
		Methods: []bytecode.Method{
			{
				Name: "run", Desc: "()V",
				Instructions: []bytecode.Instruction{
					{Index: 0, Kind: bytecode.KindMethodRef, Mnemonic: "invokevirtual", RefKind: bytecode.RefVirtual,
						Owner: "com/example/Target", Name: "doIt", Desc: "()V"},
				},
			},
		},
	}
	target := bytecode.Class{
		InternalName: "com/example/Target",
		Methods: []bytecode.Method{
			{
				Name: "doIt", Desc: "()V",
				Instructions: []bytecode.Instruction{
					{Index: 0, Kind: bytecode.KindFieldRef, Mnemonic: "getfield",
						Owner: "com/example/Target", Name: "state", Desc: "I"},
					{Index: 1, Kind: bytecode.KindSimpleOp, Mnemonic: "return"},
				},
			},
		},
	}

	if err := w.PutClass(w.Primary(), caller); err != nil {
		t.Fatal(err)
	}
	if err := w.PutClass(w.Primary(), target); err != nil {
		t.Fatal(err)
	}
	return w
}

func TestTo_FindsCallSite(t *testing.T) {
	w := buildWorkspace(t)
	name := "doIt"
	res, err := To(context.Background(), w, concurrency.NewPool(2), "com/example/Target", &name, nil, 0, 100)
	if err != nil {
		t.Fatal(err)
	}
	if res.Total != 1 || res.Hits[0].Class != "com/example/Caller" {
		t.Fatalf("unexpected result: %+v", res)
	}
}

func TestToCount_MatchesToTotal(t *testing.T) {
	w := buildWorkspace(t)
	name := "doIt"
	count, err := ToCount(context.Background(), w, concurrency.NewPool(2), "com/example/Target", &name, nil)
	if err != nil {
		t.Fatal(err)
	}
	if count != 1 {
		t.Errorf("expected count 1, got %d", count)
	}
}

func TestFrom_WholeClass(t *testing.T) {
	w := buildWorkspace(t)
	res, apierr := From(w, "com/example/Target", "", "")
	if apierr != nil {
		t.Fatal(apierr)
	}
	if len(res.FieldRefs) != 1 || res.FieldRefs[0].Name != "state" {
		t.Fatalf("unexpected field refs: %+v", res.FieldRefs)
	}
}

func TestFrom_SingleMethodFilter(t *testing.T) {
	w := buildWorkspace(t)
	res, apierr := From(w, "com/example/Caller", "run", "()V")
	if apierr != nil {
		t.Fatal(apierr)
	}
	if len(res.MethodRefs) != 1 || res.MethodRefs[0].Name != "doIt" {
		t.Fatalf("unexpected method refs: %+v", res.MethodRefs)
	}
}

func TestFrom_ClassNotFound(t *testing.T) {
	w := buildWorkspace(t)
	_, apierr := From(w, "com/example/Missing", "", "")
	if apierr == nil {
		t.Fatal("expected not-found error")
	}
}

func TestFrom_MethodNotFound(t *testing.T) {
	w := buildWorkspace(t)
	_, apierr := From(w, "com/example/Target", "missing", "()V")
	if apierr == nil {
		t.Fatal("expected not-found error")
	}
}
