// Package workspace implements the workspace and revision tracker (C2):
// an ordered list of resources (exactly one primary, zero or more
// supporting), each holding three resource bundles, with a process-wide
// monotonic identity and a per-workspace monotonic revision counter bumped
// by every mutation.
package workspace

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/tha23rd/recaf-mcp-sub000/internal/bytecode"
	"github.com/tha23rd/recaf-mcp-sub000/internal/logging"
)

// nextIdentity mints process-wide monotonically increasing workspace
// identities, never reused.
var nextIdentity uint64

// File is a non-class resource entry: raw bytes plus a text/binary
// classification.
type File struct {
	Name   string
	Bytes  []byte
	IsText bool
}

// OpaqueClass is a non-JVM class entry (e.g. Android DEX equivalents),
// kept opaque: identified by name, carrying only its raw bytes.
type OpaqueClass struct {
	Name  string
	Bytes []byte
}

// Bundle holds a resource's three logical collections, all guarded by the
// bundle's one lock, so that a write to one bundle does not block readers
// of another.
type Bundle struct {
	mu sync.RWMutex

	classes map[string]bytecode.Class
	classOrder []string

	opaque map[string]OpaqueClass
	opaqueOrder []string

	files map[string]File
	fileOrder []string
}

func newBundle() *Bundle {
	return &Bundle{
		classes: make(map[string]bytecode.Class),
		opaque:  make(map[string]OpaqueClass),
		files:   make(map[string]File),
	}
}

// Class looks up a JVM class by internal name.
func (b *Bundle) Class(name string) (bytecode.Class, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	c, ok := b.classes[name]
	return c, ok
}

// Classes returns all JVM classes in declaration order. The returned slice
// is a fresh copy safe for the caller to range over without holding a lock.
func (b *Bundle) Classes() []bytecode.Class {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make([]bytecode.Class, 0, len(b.classOrder))
	for _, name := range b.classOrder {
		out = append(out, b.classes[name])
	}
	return out
}

// PutClass inserts or replaces a JVM class, keyed by internal name, so no
// two classes in the same bundle share an internal name (§3 invariant). A
// class whose name is already present replaces the old entry in place; the
// returned error is always nil.
func (b *Bundle) PutClass(c bytecode.Class) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, exists := b.classes[c.InternalName]; !exists {
		b.classOrder = append(b.classOrder, c.InternalName)
	}
	b.classes[c.InternalName] = c
	return nil
}

// RemoveClass deletes a JVM class by internal name.
func (b *Bundle) RemoveClass(name string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.classes[name]; !ok {
		return false
	}
	delete(b.classes, name)
	for i, n := range b.classOrder {
		if n == name {
			b.classOrder = append(b.classOrder[:i], b.classOrder[i+1:]...)
			break
		}
	}
	return true
}

// Files returns all non-class files in declaration order.
func (b *Bundle) Files() []File {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make([]File, 0, len(b.fileOrder))
	for _, name := range b.fileOrder {
		out = append(out, b.files[name])
	}
	return out
}

// PutFile inserts or replaces a non-class file.
func (b *Bundle) PutFile(f File) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, exists := b.files[f.Name]; !exists {
		b.fileOrder = append(b.fileOrder, f.Name)
	}
	b.files[f.Name] = f
}

// OpaqueClasses returns all non-JVM classes in declaration order.
func (b *Bundle) OpaqueClasses() []OpaqueClass {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make([]OpaqueClass, 0, len(b.opaqueOrder))
	for _, name := range b.opaqueOrder {
		out = append(out, b.opaque[name])
	}
	return out
}

// PutOpaqueClass inserts or replaces a non-JVM class.
func (b *Bundle) PutOpaqueClass(c OpaqueClass) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, exists := b.opaque[c.Name]; !exists {
		b.opaqueOrder = append(b.opaqueOrder, c.Name)
	}
	b.opaque[c.Name] = c
}

// ResourceKind discriminates the primary opened artifact from supporting
// libraries and phantom stubs.
type ResourceKind int

const (
	ResourcePrimary ResourceKind = iota
	ResourceSupporting
)

// Resource is one entry in the workspace's ordered resource list.
type Resource struct {
	Name   string
	Kind   ResourceKind
	Bundle *Bundle
}

// Workspace is an ordered list of resources: exactly one primary and
// zero-or-more supporting, plus the revision tracker.
type Workspace struct {
	identity uint64
	revision uint64 // accessed only via atomic

	mu        sync.RWMutex
	resources []*Resource
}

// Open creates a new workspace with a single primary resource named
// primaryName, minting a fresh process-wide identity.
func Open(primaryName string) *Workspace {
	id := atomic.AddUint64(&nextIdentity, 1)
	w := &Workspace{
		identity: id,
		resources: []*Resource{
			{Name: primaryName, Kind: ResourcePrimary, Bundle: newBundle()},
		},
	}
	logging.WorkspaceDebug("opened workspace identity=%d primary=%s", id, primaryName)
	return w
}

// Identity returns the workspace's process-wide identity, stable for its lifetime.
func (w *Workspace) Identity() uint64 { return w.identity }

// Revision returns the current revision counter.
func (w *Workspace) Revision() uint64 { return atomic.LoadUint64(&w.revision) }

// bump increments the revision counter. Callers must invoke this after a
// mutating write is visible and before acknowledging the operation.
func (w *Workspace) bump() uint64 {
	r := atomic.AddUint64(&w.revision, 1)
	logging.WorkspaceDebug("workspace identity=%d bumped to revision=%d", w.identity, r)
	return r
}

// AddSupporting appends a supporting resource (library or phantom stub)
// and bumps the revision.
func (w *Workspace) AddSupporting(name string) *Resource {
	w.mu.Lock()
	r := &Resource{Name: name, Kind: ResourceSupporting, Bundle: newBundle()}
	w.resources = append(w.resources, r)
	w.mu.Unlock()
	w.bump()
	return r
}

// Primary returns the workspace's single primary resource.
func (w *Workspace) Primary() *Resource {
	w.mu.RLock()
	defer w.mu.RUnlock()
	for _, r := range w.resources {
		if r.Kind == ResourcePrimary {
			return r
		}
	}
	return nil
}

// Resources returns the ordered resource list: primary first, then
// supporting in declared order. The returned slice is a fresh copy.
func (w *Workspace) Resources() []*Resource {
	w.mu.RLock()
	defer w.mu.RUnlock()
	out := make([]*Resource, len(w.resources))
	copy(out, w.resources)
	return out
}

// LookupClass searches primary first, then supporting resources in
// declared order; the first hit shadows later ones.
func (w *Workspace) LookupClass(internalName string) (bytecode.Class, *Resource, bool) {
	for _, r := range w.Resources() {
		if c, ok := r.Bundle.Class(internalName); ok {
			return c, r, true
		}
	}
	return bytecode.Class{}, nil, false
}

// AllClasses streams every JVM class across all resources, in resource
// order, each paired with its containing resource.
func (w *Workspace) AllClasses() []ClassInResource {
	var out []ClassInResource
	for _, r := range w.Resources() {
		for _, c := range r.Bundle.Classes() {
			out = append(out, ClassInResource{Class: c, Resource: r})
		}
	}
	return out
}

// ClassInResource pairs a class with the resource that contains it.
type ClassInResource struct {
	Class    bytecode.Class
	Resource *Resource
}

// PutClass writes a class into the given resource's bundle and bumps the
// workspace revision after the write is visible.
func (w *Workspace) PutClass(r *Resource, c bytecode.Class) error {
	if r == nil {
		return fmt.Errorf("nil resource")
	}
	if err := r.Bundle.PutClass(c); err != nil {
		return err
	}
	w.bump()
	return nil
}

// RemoveClass deletes a class from the given resource's bundle and bumps
// the workspace revision if a class was actually removed.
func (w *Workspace) RemoveClass(r *Resource, name string) bool {
	if r == nil {
		return false
	}
	removed := r.Bundle.RemoveClass(name)
	if removed {
		w.bump()
	}
	return removed
}

// Bump is the public mutation hook: any caller that wrote into a bundle
// through means other than PutClass/RemoveClass (e.g. direct field/file
// mutation, mapping application) must call this after the write is visible
// and before acknowledging the operation.
func (w *Workspace) Bump() uint64 {
	return w.bump()
}

// Registry tracks open workspaces by identity so caches can purge entries
// whose identity is no longer observed.
type Registry struct {
	mu         sync.RWMutex
	workspaces map[uint64]*Workspace
}

// NewRegistry creates an empty workspace registry.
func NewRegistry() *Registry {
	return &Registry{workspaces: make(map[uint64]*Workspace)}
}

// Track registers a workspace as open.
func (reg *Registry) Track(w *Workspace) {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	reg.workspaces[w.Identity()] = w
}

// Close unregisters a workspace; its identity will no longer be observed by
// IsOpen, allowing cache purges to drop its entries.
func (reg *Registry) Close(w *Workspace) {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	delete(reg.workspaces, w.Identity())
	logging.WorkspaceDebug("closed workspace identity=%d", w.Identity())
}

// IsOpen reports whether a workspace identity is currently tracked.
func (reg *Registry) IsOpen(identity uint64) bool {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	_, ok := reg.workspaces[identity]
	return ok
}
