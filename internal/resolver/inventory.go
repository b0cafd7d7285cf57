package resolver

import (
	"sort"
	"strings"

	"github.com/tha23rd/recaf-mcp-sub000/internal/bytecode"
	"github.com/tha23rd/recaf-mcp-sub000/internal/workspace"
)

const defaultPackageLabel = "(default)"

// ClassSummary is one compact inventory entry per JVM class.
type ClassSummary struct {
	Name                string
	Super               string
	Access              bytecode.Access
	FieldCount          int
	MethodCount         int
	InstructionCountTotal int
}

// Inventory is the C3 output cached by C4: a compact class summary list,
// the set of unique package prefixes, and a simple-name index.
type Inventory struct {
	Classes         []ClassSummary
	Packages        []string          // sorted, unique; "(default)" appended last when applicable
	SimpleNameIndex map[string][]string // simple name -> internal names
}

// BuildInventory produces the C3 inventory snapshot for a workspace at its
// current (identity, revision). Cost is linear in the class count.
func BuildInventory(w *workspace.Workspace) Inventory {
	classesInResource := w.AllClasses()

	inv := Inventory{
		Classes:         make([]ClassSummary, 0, len(classesInResource)),
		SimpleNameIndex: make(map[string][]string),
	}

	packageSet := make(map[string]bool)
	hasDefault := false

	for _, cr := range classesInResource {
		c := cr.Class

		instrTotal := 0
		for _, m := range c.Methods {
			instrTotal += len(m.Instructions)
		}

		inv.Classes = append(inv.Classes, ClassSummary{
			Name:                  c.InternalName,
			Super:                 c.SuperName,
			Access:                c.Access,
			FieldCount:            len(c.Fields),
			MethodCount:           len(c.Methods),
			InstructionCountTotal: instrTotal,
		})

		simple := classSimpleName(c.InternalName)
		inv.SimpleNameIndex[simple] = append(inv.SimpleNameIndex[simple], c.InternalName)

		if idx := strings.LastIndexByte(c.InternalName, '/'); idx >= 0 {
			packageSet[c.InternalName[:idx]] = true
		} else {
			hasDefault = true
		}
	}

	for pkg := range packageSet {
		inv.Packages = append(inv.Packages, pkg)
	}
	sort.Strings(inv.Packages)
	if hasDefault {
		inv.Packages = append(inv.Packages, defaultPackageLabel)
	}

	return inv
}

// ClassCount returns the total number of JVM classes in the inventory.
func (inv Inventory) ClassCount() int {
	return len(inv.Classes)
}

// SearchByName filters the inventory's class list by a case-insensitive
// substring match against the internal name.
func (inv Inventory) SearchByName(substr string) []ClassSummary {
	lower := strings.ToLower(substr)
	var out []ClassSummary
	for _, c := range inv.Classes {
		if strings.Contains(strings.ToLower(c.Name), lower) {
			out = append(out, c)
		}
	}
	return out
}
