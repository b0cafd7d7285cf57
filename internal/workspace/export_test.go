package workspace

import (
	"archive/zip"
	"os"
	"path/filepath"
	"testing"

	"github.com/tha23rd/recaf-mcp-sub000/internal/bytecode"
)

func buildExportWorkspace(t *testing.T) *Workspace {
	t.Helper()
	w := Open("primary.jar")
	if err := w.PutClass(w.Primary(), bytecode.Class{InternalName: "com/example/Foo", RawBytes: []byte("cafebabe-foo")}); err != nil {
		t.Fatal(err)
	}
	// No RawBytes: must be skipped, not fail the export.
	if err := w.PutClass(w.Primary(), bytecode.Class{InternalName: "com/example/Stripped"}); err != nil {
		t.Fatal(err)
	}
	w.Primary().Bundle.PutFile(File{Name: "META-INF/MANIFEST.MF", Bytes: []byte("Manifest-Version: 1.0\n"), IsText: true})
	return w
}

func TestExport_ArchiveContainsClassAndFileEntries(t *testing.T) {
	w := buildExportWorkspace(t)
	dest := filepath.Join(t.TempDir(), "out.jar")

	if err := w.Export(dest, ExportOptions{OutputType: OutputArchive, Compression: CompressionAlways}); err != nil {
		t.Fatal(err)
	}

	zr, err := zip.OpenReader(dest)
	if err != nil {
		t.Fatal(err)
	}
	defer zr.Close()

	names := make(map[string]bool)
	for _, f := range zr.File {
		names[f.Name] = true
	}
	if !names["com/example/Foo.class"] {
		t.Error("expected Foo.class entry in archive")
	}
	if names["com/example/Stripped.class"] {
		t.Error("expected Stripped.class (no raw bytes) to be skipped")
	}
	if !names["META-INF/MANIFEST.MF"] {
		t.Error("expected manifest entry in archive")
	}
}

func TestExport_DirectoryWritesFilesToDisk(t *testing.T) {
	w := buildExportWorkspace(t)
	dest := t.TempDir()

	if err := w.Export(dest, ExportOptions{OutputType: OutputDirectory}); err != nil {
		t.Fatal(err)
	}

	if _, err := os.Stat(filepath.Join(dest, "com/example/Foo.class")); err != nil {
		t.Errorf("expected Foo.class on disk: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dest, "com/example/Stripped.class")); err == nil {
		t.Error("expected Stripped.class to be absent")
	}
}

func TestCompressionMethodFor_NeverAlwaysAndSmart(t *testing.T) {
	if m := compressionMethodFor(CompressionNever, 10_000); m != zip.Store {
		t.Errorf("expected Store for never, got %d", m)
	}
	if m := compressionMethodFor(CompressionAlways, 1); m != zip.Deflate {
		t.Errorf("expected Deflate for always, got %d", m)
	}
	if m := compressionMethodFor(CompressionSmart, 10); m != zip.Store {
		t.Errorf("expected Store for small smart entry, got %d", m)
	}
	if m := compressionMethodFor(CompressionSmart, 10_000); m != zip.Deflate {
		t.Errorf("expected Deflate for large smart entry, got %d", m)
	}
}
