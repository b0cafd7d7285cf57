// Package inherit implements the inheritance service (C9): supertypes and
// subtypes over the declared super/interfaces edges, and lowest-common-
// ancestor over two classes' ordered supertype chains. The reverse subtype
// index is computed with github.com/google/mangle, evaluated to fixed
// point over the loaded corpus and invalidated on every revision bump.
package inherit

import (
	"bytes"
	"fmt"
	"sync"

	"github.com/google/mangle/analysis"
	"github.com/google/mangle/ast"
	_ "github.com/google/mangle/builtin"
	"github.com/google/mangle/engine"
	"github.com/google/mangle/factstore"
	"github.com/google/mangle/parse"

	"github.com/tha23rd/recaf-mcp-sub000/internal/apierr"
	"github.com/tha23rd/recaf-mcp-sub000/internal/logging"
	"github.com/tha23rd/recaf-mcp-sub000/internal/workspace"
)

// schema declares the EDB facts (super_of, implements) and the subtype_of
// IDB transitive closure over their union.
const schema = `
Decl super_of(Sub, Super).
Decl implements(Sub, Iface).

subtype_of(Sub, Super) :- super_of(Sub, Super).
subtype_of(Sub, Super) :- implements(Sub, Super).
subtype_of(Sub, Super) :- super_of(Sub, Mid), subtype_of(Mid, Super).
subtype_of(Sub, Super) :- implements(Sub, Mid), subtype_of(Mid, Super).
`

var subtypeOfSym = ast.PredicateSym{Symbol: "subtype_of", Arity: 2}

// Index is the lazily-(re)built reverse subtype index for one workspace.
type Index struct {
	w *workspace.Workspace

	mu        sync.RWMutex
	built     bool
	builtRev  uint64
	subtypesOf map[string][]string // Super -> direct+transitive Subs
}

// New creates an unbuilt index over w.
func New(w *workspace.Workspace) *Index {
	return &Index{w: w}
}

// ensureBuilt rebuilds the reverse index if it is stale (never built, or
// built at a revision older than the workspace's current one).
func (idx *Index) ensureBuilt() error {
	idx.mu.RLock()
	rev := idx.w.Revision()
	if idx.built && idx.builtRev == rev {
		idx.mu.RUnlock()
		return nil
	}
	idx.mu.RUnlock()

	unit, err := parse.Unit(bytes.NewReader([]byte(schema)))
	if err != nil {
		return fmt.Errorf("parse inheritance schema: %w", err)
	}
	programInfo, err := analysis.AnalyzeOneUnit(unit, nil)
	if err != nil {
		return fmt.Errorf("analyze inheritance schema: %w", err)
	}

	store := factstore.NewSimpleInMemoryStore()
	for _, cr := range idx.w.AllClasses() {
		c := cr.Class
		if c.SuperName != "" {
			store.Add(ast.NewAtom("super_of", ast.String(c.InternalName), ast.String(c.SuperName)))
		}
		for _, iface := range c.Interfaces {
			store.Add(ast.NewAtom("implements", ast.String(c.InternalName), ast.String(iface)))
		}
	}

	if _, err := engine.EvalProgramWithStats(programInfo, store); err != nil {
		return fmt.Errorf("evaluate inheritance program: %w", err)
	}

	subtypesOf := make(map[string][]string)
	err = store.GetFacts(ast.NewQuery(subtypeOfSym), func(atom ast.Atom) error {
		sub, ok1 := constantString(atom.Args[0])
		super, ok2 := constantString(atom.Args[1])
		if ok1 && ok2 {
			subtypesOf[super] = append(subtypesOf[super], sub)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("read subtype_of facts: %w", err)
	}

	idx.mu.Lock()
	idx.subtypesOf = subtypesOf
	idx.built = true
	idx.builtRev = rev
	idx.mu.Unlock()

	logging.InheritDebug("rebuilt reverse subtype index: %d supertypes, revision=%d", len(subtypesOf), rev)
	return nil
}

func constantString(t ast.BaseTerm) (string, bool) {
	c, ok := t.(ast.Constant)
	if !ok {
		return "", false
	}
	return c.Symbol, true
}

// Supertypes walks super + declared interfaces directly in the workspace,
// terminating at the root or at an unresolved external class.
func Supertypes(w *workspace.Workspace, className string) ([]string, *apierr.Error) {
	c, _, ok := w.LookupClass(className)
	if !ok {
		return nil, apierr.NotFound("class not found: "+className, nil)
	}

	var chain []string
	seen := map[string]bool{className: true}
	cur := c
	for cur.SuperName != "" && !seen[cur.SuperName] {
		chain = append(chain, cur.SuperName)
		seen[cur.SuperName] = true
		next, _, ok := w.LookupClass(cur.SuperName)
		if !ok {
			break // unresolved external
		}
		cur = next
	}
	for _, iface := range c.Interfaces {
		if !seen[iface] {
			chain = append(chain, iface)
			seen[iface] = true
		}
	}
	return chain, nil
}

// Subtypes returns the direct and transitive subtypes of className from the
// eagerly-built reverse index, rebuilding it first if stale.
func (idx *Index) Subtypes(className string) ([]string, *apierr.Error) {
	if err := idx.ensureBuilt(); err != nil {
		return nil, apierr.Internal(err)
	}
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return append([]string(nil), idx.subtypesOf[className]...), nil
}

// LowestCommonAncestor intersects the ordered supertype chains of a and b,
// returning the first common element in a's chain.
func LowestCommonAncestor(w *workspace.Workspace, a, b string) (string, *apierr.Error) {
	chainA, err := Supertypes(w, a)
	if err != nil {
		return "", err
	}
	chainB, err := Supertypes(w, b)
	if err != nil {
		return "", err
	}

	inB := make(map[string]bool, len(chainB))
	for _, t := range chainB {
		inB[t] = true
	}

	if a == b {
		return a, nil
	}
	for _, t := range chainA {
		if t == b || inB[t] {
			return t, nil
		}
	}
	return "", apierr.NotFound("no common ancestor found for "+a+" and "+b, nil)
}
