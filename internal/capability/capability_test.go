package capability

import (
	"context"
	"testing"
	"time"

	"github.com/tha23rd/recaf-mcp-sub000/internal/apierr"
	"github.com/tha23rd/recaf-mcp-sub000/internal/bytecode"
	"github.com/tha23rd/recaf-mcp-sub000/internal/workspace"
)

type fakeDecompiler struct {
	delay time.Duration
	src   string
}

func (f fakeDecompiler) Decompile(ctx context.Context, w *workspace.Workspace, c bytecode.Class) Result[string] {
	select {
	case <-ctx.Done():
		return Fail[string](apierr.KindTimeout, "decompile deadline exceeded")
	case <-time.After(f.delay):
		return Ok(f.src)
	}
}

func TestResult_OkCarriesValue(t *testing.T) {
	r := Ok("hello")
	if !r.Ok || r.Value != "hello" {
		t.Fatalf("unexpected result: %+v", r)
	}
	if r.AsError() != nil {
		t.Fatal("expected nil error for successful result")
	}
}

func TestResult_FailAsErrorMapsKind(t *testing.T) {
	r := Fail[string](apierr.KindNotFound, "class not found")
	err := r.AsError()
	if err == nil || err.Kind != apierr.KindNotFound {
		t.Fatalf("expected not-found apierr, got %+v", err)
	}
}

func TestWithDefaultTimeout_AppliesWhenNoDeadline(t *testing.T) {
	ctx, cancel := WithDefaultTimeout(context.Background())
	defer cancel()
	deadline, ok := ctx.Deadline()
	if !ok {
		t.Fatal("expected a deadline to be applied")
	}
	if time.Until(deadline) > DefaultDecompileTimeout {
		t.Error("expected deadline within default timeout window")
	}
}

func TestWithDefaultTimeout_PreservesExistingDeadline(t *testing.T) {
	parent, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	ctx, cancel2 := WithDefaultTimeout(parent)
	defer cancel2()
	want, _ := parent.Deadline()
	got, _ := ctx.Deadline()
	if !want.Equal(got) {
		t.Error("expected existing deadline preserved, not overwritten")
	}
}

func TestDecompiler_CancellationSurfacesTimeoutKind(t *testing.T) {
	d := fakeDecompiler{delay: 50 * time.Millisecond, src: "class Foo {}"}
	ctx, cancel := context.WithTimeout(context.Background(), 1*time.Millisecond)
	defer cancel()

	r := d.Decompile(ctx, nil, bytecode.Class{InternalName: "com/example/Foo"})
	if r.Ok {
		t.Fatal("expected cancellation to fail the decompile")
	}
	if r.Kind != apierr.KindTimeout {
		t.Errorf("expected timeout kind, got %s", r.Kind)
	}
}

func TestDecompiler_SuccessfulCallReturnsSource(t *testing.T) {
	d := fakeDecompiler{delay: 0, src: "class Foo {}"}
	r := d.Decompile(context.Background(), nil, bytecode.Class{InternalName: "com/example/Foo"})
	if !r.Ok || r.Value != "class Foo {}" {
		t.Fatalf("unexpected decompile result: %+v", r)
	}
}
