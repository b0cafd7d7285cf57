package inherit

import (
	"testing"

	"github.com/tha23rd/recaf-mcp-sub000/internal/bytecode"
	"github.com/tha23rd/recaf-mcp-sub000/internal/workspace"
)

// Animal <- Dog <- Puppy, Dog implements Barks.
func buildHierarchy(t *testing.T) *workspace.Workspace {
	t.Helper()
	w := workspace.Open("primary.jar")

	animal := bytecode.Class{InternalName: "com/example/Animal", SuperName: "java/lang/Object"}
	dog := bytecode.Class{InternalName: "com/example/Dog", SuperName: "com/example/Animal", Interfaces: []string{"com/example/Barks"}}
	puppy := bytecode.Class{InternalName: "com/example/Puppy", SuperName: "com/example/Dog"}
	barks := bytecode.Class{InternalName: "com/example/Barks", SuperName: ""}
	cat := bytecode.Class{InternalName: "com/example/Cat", SuperName: "com/example/Animal"}

	for _, c := range []bytecode.Class{animal, dog, puppy, barks, cat} {
		if err := w.PutClass(w.Primary(), c); err != nil {
			t.Fatal(err)
		}
	}
	return w
}

func TestSupertypes_WalksSuperAndInterfaces(t *testing.T) {
	w := buildHierarchy(t)
	chain, err := Supertypes(w, "com/example/Dog")
	if err != nil {
		t.Fatal(err)
	}
	want := map[string]bool{"com/example/Animal": true, "java/lang/Object": true, "com/example/Barks": true}
	for _, c := range chain {
		if !want[c] {
			t.Errorf("unexpected chain entry: %s", c)
		}
	}
	if len(chain) != len(want) {
		t.Errorf("expected %d entries, got %d: %v", len(want), len(chain), chain)
	}
}

func TestSupertypes_UnknownClass(t *testing.T) {
	w := buildHierarchy(t)
	_, err := Supertypes(w, "com/example/Missing")
	if err == nil {
		t.Fatal("expected not-found error")
	}
}

func TestIndex_SubtypesDirectAndTransitive(t *testing.T) {
	w := buildHierarchy(t)
	idx := New(w)
	subs, err := idx.Subtypes("com/example/Animal")
	if err != nil {
		t.Fatal(err)
	}
	found := map[string]bool{}
	for _, s := range subs {
		found[s] = true
	}
	if !found["com/example/Dog"] || !found["com/example/Puppy"] || !found["com/example/Cat"] {
		t.Errorf("expected Dog, Puppy, Cat as subtypes of Animal, got %v", subs)
	}
}

func TestIndex_SubtypesViaInterface(t *testing.T) {
	w := buildHierarchy(t)
	idx := New(w)
	subs, err := idx.Subtypes("com/example/Barks")
	if err != nil {
		t.Fatal(err)
	}
	found := map[string]bool{}
	for _, s := range subs {
		found[s] = true
	}
	if !found["com/example/Dog"] || !found["com/example/Puppy"] {
		t.Errorf("expected Dog and Puppy (via transitive super) as subtypes of Barks, got %v", subs)
	}
}

func TestIndex_InvalidatedOnRevisionBump(t *testing.T) {
	w := buildHierarchy(t)
	idx := New(w)
	if _, err := idx.Subtypes("com/example/Animal"); err != nil {
		t.Fatal(err)
	}
	builtRevBefore := idx.builtRev

	newClass := bytecode.Class{InternalName: "com/example/Wolf", SuperName: "com/example/Animal"}
	if err := w.PutClass(w.Primary(), newClass); err != nil {
		t.Fatal(err)
	}

	subs, err := idx.Subtypes("com/example/Animal")
	if err != nil {
		t.Fatal(err)
	}
	if idx.builtRev == builtRevBefore {
		t.Error("expected index to rebuild after revision bump")
	}
	found := false
	for _, s := range subs {
		if s == "com/example/Wolf" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected Wolf to appear after rebuild, got %v", subs)
	}
}

func TestLowestCommonAncestor_SiblingClasses(t *testing.T) {
	w := buildHierarchy(t)
	lca, err := LowestCommonAncestor(w, "com/example/Dog", "com/example/Cat")
	if err != nil {
		t.Fatal(err)
	}
	if lca != "com/example/Animal" {
		t.Errorf("expected Animal as LCA, got %s", lca)
	}
}

func TestLowestCommonAncestor_SameClass(t *testing.T) {
	w := buildHierarchy(t)
	lca, err := LowestCommonAncestor(w, "com/example/Dog", "com/example/Dog")
	if err != nil {
		t.Fatal(err)
	}
	if lca != "com/example/Dog" {
		t.Errorf("expected Dog as its own LCA, got %s", lca)
	}
}

func TestLowestCommonAncestor_AncestorDescendant(t *testing.T) {
	w := buildHierarchy(t)
	lca, err := LowestCommonAncestor(w, "com/example/Puppy", "com/example/Dog")
	if err != nil {
		t.Fatal(err)
	}
	if lca != "com/example/Dog" {
		t.Errorf("expected Dog as LCA (b is in a's chain), got %s", lca)
	}
}
