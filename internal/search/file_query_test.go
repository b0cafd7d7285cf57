package search

import (
	"context"
	"testing"

	"github.com/tha23rd/recaf-mcp-sub000/internal/concurrency"
	"github.com/tha23rd/recaf-mcp-sub000/internal/workspace"
)

func TestRunFileQuery_MatchesTextContent(t *testing.T) {
	w := workspace.Open("primary.jar")
	w.Primary().Bundle.PutFile(workspace.File{Name: "META-INF/MANIFEST.MF", Bytes: []byte("Manifest-Version: 1.0\nMain-Class: com.example.Main\n"), IsText: true})
	w.Primary().Bundle.PutFile(workspace.File{Name: "logo.png", Bytes: []byte{0, 1, 2, 3}, IsText: false})
	w.Bump()

	q := NewFileQuery(Contains("Main-Class"))
	page, err := RunFileQuery(context.Background(), w, q, concurrency.NewPool(2), 0, 100)
	if err != nil {
		t.Fatal(err)
	}
	if len(page.Results) != 1 {
		t.Fatalf("expected 1 result, got %d: %+v", len(page.Results), page.Results)
	}
	if page.Results[0].ClassName != "META-INF/MANIFEST.MF" {
		t.Errorf("unexpected file: %s", page.Results[0].ClassName)
	}
}

func TestRunFileQuery_SkipsContentMatchOnBinaryFiles(t *testing.T) {
	w := workspace.Open("primary.jar")
	w.Primary().Bundle.PutFile(workspace.File{Name: "data.bin", Bytes: []byte("secret"), IsText: false})
	w.Bump()

	q := NewFileQuery(Contains("secret"))
	page, err := RunFileQuery(context.Background(), w, q, concurrency.NewPool(2), 0, 100)
	if err != nil {
		t.Fatal(err)
	}
	if len(page.Results) != 0 {
		t.Errorf("expected binary file content not searched, got %+v", page.Results)
	}
}

func TestRunFileQuery_MatchesByName(t *testing.T) {
	w := workspace.Open("primary.jar")
	w.Primary().Bundle.PutFile(workspace.File{Name: "config.yaml", Bytes: []byte("a: 1"), IsText: true})
	w.Bump()

	q := NewFileQuery(Suffix(".yaml"))
	page, err := RunFileQuery(context.Background(), w, q, concurrency.NewPool(2), 0, 100)
	if err != nil {
		t.Fatal(err)
	}
	if len(page.Results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(page.Results))
	}
}
