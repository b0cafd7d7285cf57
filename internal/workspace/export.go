package workspace

import (
	"archive/zip"
	"fmt"
	"os"
	"path/filepath"

	"github.com/tha23rd/recaf-mcp-sub000/internal/logging"
)

// OutputType selects whether Export produces a single compressed archive
// or an exploded directory tree.
type OutputType string

const (
	OutputArchive   OutputType = "archive"
	OutputDirectory OutputType = "directory"
)

// CompressionMode controls per-entry compression when OutputType is
// OutputArchive, per spec.md §6's enumerated modes.
type CompressionMode string

const (
	CompressionMatchOriginal CompressionMode = "match-original"
	CompressionSmart         CompressionMode = "smart"
	CompressionAlways        CompressionMode = "always"
	CompressionNever         CompressionMode = "never"
)

// smartCompressionThreshold is the size above which CompressionSmart
// deflates an entry instead of storing it uncompressed.
const smartCompressionThreshold = 256

// ExportOptions configures one Export call.
type ExportOptions struct {
	OutputType  OutputType
	Compression CompressionMode
}

// entry is one exportable (path, content) pair gathered from every
// resource's bundle, in resource-then-declaration order.
type entry struct {
	path    string
	content []byte
}

// Export writes every resource's classes, opaque classes, and files to
// destPath, as either a zip archive or an exploded directory, per opts.
// Classes without RawBytes (produced only by an assembler/compiler
// capability that has not yet re-serialized them) are skipped with a
// warning, since this package holds no class-file encoder of its own.
func (w *Workspace) Export(destPath string, opts ExportOptions) error {
	entries := w.collectEntries()

	switch opts.OutputType {
	case OutputDirectory:
		return exportDirectory(destPath, entries)
	default:
		return exportArchive(destPath, entries, opts.Compression)
	}
}

func (w *Workspace) collectEntries() []entry {
	var entries []entry
	for _, r := range w.Resources() {
		for _, c := range r.Bundle.Classes() {
			if len(c.RawBytes) == 0 {
				logging.WorkspaceWarn("export: skipping %s (no raw bytes available)", c.InternalName)
				continue
			}
			entries = append(entries, entry{path: c.InternalName + ".class", content: c.RawBytes})
		}
		for _, oc := range r.Bundle.OpaqueClasses() {
			entries = append(entries, entry{path: oc.Name, content: oc.Bytes})
		}
		for _, f := range r.Bundle.Files() {
			entries = append(entries, entry{path: f.Name, content: f.Bytes})
		}
	}
	return entries
}

func exportDirectory(destPath string, entries []entry) error {
	for _, e := range entries {
		full := filepath.Join(destPath, filepath.FromSlash(e.path))
		if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
			return fmt.Errorf("export: mkdir %s: %w", filepath.Dir(full), err)
		}
		if err := os.WriteFile(full, e.content, 0o644); err != nil {
			return fmt.Errorf("export: write %s: %w", full, err)
		}
	}
	return nil
}

func exportArchive(destPath string, entries []entry, mode CompressionMode) error {
	f, err := os.Create(destPath)
	if err != nil {
		return fmt.Errorf("export: create %s: %w", destPath, err)
	}
	defer f.Close()

	zw := zip.NewWriter(f)
	for _, e := range entries {
		method := compressionMethodFor(mode, len(e.content))
		w, err := zw.CreateHeader(&zip.FileHeader{Name: e.path, Method: method})
		if err != nil {
			zw.Close()
			return fmt.Errorf("export: add entry %s: %w", e.path, err)
		}
		if _, err := w.Write(e.content); err != nil {
			zw.Close()
			return fmt.Errorf("export: write entry %s: %w", e.path, err)
		}
	}
	return zw.Close()
}

// compressionMethodFor maps a CompressionMode to a zip storage method.
// match-original has no tracked original compression state in this
// workspace model, so it falls back to smart sizing like CompressionSmart.
func compressionMethodFor(mode CompressionMode, size int) uint16 {
	switch mode {
	case CompressionNever:
		return zip.Store
	case CompressionAlways:
		return zip.Deflate
	default: // CompressionSmart, CompressionMatchOriginal
		if size >= smartCompressionThreshold {
			return zip.Deflate
		}
		return zip.Store
	}
}
