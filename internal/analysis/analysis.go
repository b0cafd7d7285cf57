// Package analysis implements the instruction analyzer (C5): for a given
// JVM class, produces an immutable per-method analysis of method/field/type
// references derived from the class's already-decoded instruction list.
package analysis

import (
	"sort"

	"github.com/tha23rd/recaf-mcp-sub000/internal/bytecode"
)

// MethodRefUse is one extracted method reference, with its owning
// instruction index inside the method.
type MethodRefUse struct {
	InstructionIndex int
	Owner            string
	Name             string
	Desc             string
	Kind             bytecode.MethodRefKind
}

// InvokeDynamicUse is one extracted invokedynamic call site.
type InvokeDynamicUse struct {
	InstructionIndex int
	Bootstrap        bytecode.BootstrapHandle
	BSMArgs          []string
	CallName         string
	CallDesc         string
}

// FieldRefUse is one extracted field reference.
type FieldRefUse struct {
	InstructionIndex int
	Owner            string
	Name             string
	Desc             string
}

// MethodAnalysis is the per-method slice of a ClassAnalysis.
type MethodAnalysis struct {
	Name   string
	Desc   string
	Access bytecode.Access

	Instructions []bytecode.Instruction

	MethodRefs  []MethodRefUse
	InvokeDynamicRefs []InvokeDynamicUse
	FieldRefs   []FieldRefUse
	TypeRefs    []string // sorted, unique
}

// ClassAnalysis is the immutable C5 output for one JVM class, cached by
// (identity, revision, name, content-hash).
type ClassAnalysis struct {
	ClassName string
	Methods   []MethodAnalysis
}

// Analyze parses a class's methods' already-decoded instruction lists into
// an immutable ClassAnalysis. Corrupt methods (per §3's CFG invariant) are
// excluded from the analysis, not from the class's own method listing.
func Analyze(c bytecode.Class) ClassAnalysis {
	out := ClassAnalysis{ClassName: c.InternalName}

	for _, m := range c.Methods {
		if m.Corrupt {
			continue
		}
		out.Methods = append(out.Methods, analyzeMethod(m))
	}

	return out
}

// MethodAnalysis looks up the analysis for a given (name, desc) pair.
func (ca ClassAnalysis) MethodAnalysis(name, desc string) (MethodAnalysis, bool) {
	for _, m := range ca.Methods {
		if m.Name == name && m.Desc == desc {
			return m, true
		}
	}
	return MethodAnalysis{}, false
}

func analyzeMethod(m bytecode.Method) MethodAnalysis {
	ma := MethodAnalysis{
		Name:         m.Name,
		Desc:         m.Desc,
		Access:       m.Access,
		Instructions: m.Instructions,
	}

	typeSet := make(map[string]bool)

	for idx, instr := range m.Instructions {
		switch instr.Kind {
		case bytecode.KindMethodRef:
			ma.MethodRefs = append(ma.MethodRefs, MethodRefUse{
				InstructionIndex: idx,
				Owner:            instr.Owner,
				Name:             instr.Name,
				Desc:             instr.Desc,
				Kind:             instr.RefKind,
			})
			typeSet[instr.Owner] = true
			addDescriptorTypes(typeSet, instr.Desc)
		case bytecode.KindFieldRef:
			ma.FieldRefs = append(ma.FieldRefs, FieldRefUse{
				InstructionIndex: idx,
				Owner:            instr.Owner,
				Name:             instr.Name,
				Desc:             instr.Desc,
			})
			typeSet[instr.Owner] = true
			addDescriptorTypes(typeSet, instr.Desc)
		case bytecode.KindInvokeDynamic:
			ma.InvokeDynamicRefs = append(ma.InvokeDynamicRefs, InvokeDynamicUse{
				InstructionIndex: idx,
				Bootstrap:        instr.Bootstrap,
				BSMArgs:          instr.BSMArgs,
				CallName:         instr.Name,
				CallDesc:         instr.Desc,
			})
			addDescriptorTypes(typeSet, instr.Desc)
		case bytecode.KindTypeOp:
			typeSet[instr.Owner] = true
		case bytecode.KindLdc:
			if instr.LdcIsClass {
				typeSet[instr.LdcLiteral] = true
			}
		}
	}

	ma.TypeRefs = make([]string, 0, len(typeSet))
	for t := range typeSet {
		ma.TypeRefs = append(ma.TypeRefs, t)
	}
	sort.Strings(ma.TypeRefs)

	return ma
}

// addDescriptorTypes extracts object-type internal names mentioned by a
// field or method descriptor into typeSet.
func addDescriptorTypes(typeSet map[string]bool, desc string) {
	if desc == "" {
		return
	}
	if desc[0] == '(' {
		md, err := bytecode.ParseMethodDescriptor(desc)
		if err != nil {
			return
		}
		for _, p := range md.Params {
			addTypeRef(typeSet, p)
		}
		addTypeRef(typeSet, md.Returns)
		return
	}
	t, err := bytecode.ParseFieldDescriptor(desc)
	if err != nil {
		return
	}
	addTypeRef(typeSet, t)
}

func addTypeRef(typeSet map[string]bool, t bytecode.Type) {
	switch t.Kind {
	case bytecode.TypeObject:
		typeSet[t.Internal] = true
	case bytecode.TypeArray:
		addTypeRef(typeSet, *t.Elem)
	}
}
