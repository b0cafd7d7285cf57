package main

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/tha23rd/recaf-mcp-sub000/internal/apierr"
	"github.com/tha23rd/recaf-mcp-sub000/internal/dispatch"
)

func echoDispatcher() *dispatch.Dispatcher {
	d := dispatch.NewDispatcher()
	d.MustRegister(&dispatch.Operation{
		Name:   "echo",
		Schema: dispatch.Schema{Required: []string{"text"}},
		Handler: func(ctx context.Context, args dispatch.Args) (any, *apierr.Error) {
			return map[string]any{"echoed": args.String("text")}, nil
		},
	})
	return d
}

func TestServeLoop_DispatchesOneRequestPerLine(t *testing.T) {
	d := echoDispatcher()
	in := strings.NewReader(`{"operation":"echo","args":{"text":"hi"}}` + "\n")
	var out bytes.Buffer

	if err := serveLoop(in, &out, d); err != nil {
		t.Fatal(err)
	}

	var resp map[string]any
	if err := json.Unmarshal(out.Bytes(), &resp); err != nil {
		t.Fatalf("invalid response JSON: %v", err)
	}
	if resp["OperationName"] != "echo" {
		t.Errorf("unexpected response: %+v", resp)
	}
}

func TestServeLoop_MalformedLineReportsErrorAndContinues(t *testing.T) {
	d := echoDispatcher()
	in := strings.NewReader("not json\n" + `{"operation":"echo","args":{"text":"hi"}}` + "\n")
	var out bytes.Buffer

	if err := serveLoop(in, &out, d); err != nil {
		t.Fatal(err)
	}

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 output lines, got %d: %q", len(lines), out.String())
	}
	var first map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &first); err != nil {
		t.Fatal(err)
	}
	if _, ok := first["error"]; !ok {
		t.Errorf("expected first line to report a parse error, got %+v", first)
	}
}

func TestServeLoop_SkipsBlankLines(t *testing.T) {
	d := echoDispatcher()
	in := strings.NewReader("\n\n" + `{"operation":"echo","args":{"text":"hi"}}` + "\n")
	var out bytes.Buffer

	if err := serveLoop(in, &out, d); err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("expected exactly 1 output line, got %d", len(lines))
	}
}
