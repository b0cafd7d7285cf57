package mapping

import (
	"strings"

	"github.com/tha23rd/recaf-mcp-sub000/internal/bytecode"
)

// renameClassName applies the class-rename table to a single internal
// name, or returns it unchanged if absent from the table.
func renameClassName(name string, renames map[string]string) string {
	if name == "" {
		return name
	}
	if newName, ok := renames[name]; ok {
		return newName
	}
	return name
}

// renameDescriptor rewrites every "L<old>;" (and array-of) object-type
// token inside a field/method descriptor whose internal name appears in
// renames, leaving every other byte untouched.
func renameDescriptor(desc string, renames map[string]string) string {
	if len(renames) == 0 || !strings.ContainsRune(desc, 'L') {
		return desc
	}
	var b strings.Builder
	b.Grow(len(desc))
	for i := 0; i < len(desc); i++ {
		if desc[i] != 'L' {
			b.WriteByte(desc[i])
			continue
		}
		end := strings.IndexByte(desc[i:], ';')
		if end < 0 {
			b.WriteString(desc[i:])
			break
		}
		end += i
		internal := desc[i+1 : end]
		if newName, ok := renames[internal]; ok {
			b.WriteByte('L')
			b.WriteString(newName)
			b.WriteByte(';')
		} else {
			b.WriteString(desc[i : end+1])
		}
		i = end
	}
	return b.String()
}

// rewriteClass applies every applicable rename table entry to c, returning
// a new Class value. Field/method/variable lookups key off c's ORIGINAL
// internal name (and the instructions' original owner names) so that a
// rename batch computed against the pre-rename corpus stays consistent
// when applied across every class in one pass.
func rewriteClass(c bytecode.Class, m Mappings) bytecode.Class {
	origName := c.InternalName
	out := c
	out.InternalName = renameClassName(c.InternalName, m.ClassRename)
	out.SuperName = renameClassName(c.SuperName, m.ClassRename)

	if len(c.Interfaces) > 0 {
		ifaces := make([]string, len(c.Interfaces))
		for i, ifc := range c.Interfaces {
			ifaces[i] = renameClassName(ifc, m.ClassRename)
		}
		out.Interfaces = ifaces
	}

	if len(c.Fields) > 0 {
		fields := make([]bytecode.Field, len(c.Fields))
		for i, f := range c.Fields {
			nf := f
			key := FieldKey{Owner: origName, OldName: f.Name, Desc: f.Desc}
			if newName, ok := m.FieldRename[key]; ok {
				nf.Name = newName
			}
			nf.Desc = renameDescriptor(nf.Desc, m.ClassRename)
			fields[i] = nf
		}
		out.Fields = fields
	}

	if len(c.Methods) > 0 {
		methods := make([]bytecode.Method, len(c.Methods))
		for i, meth := range c.Methods {
			methods[i] = rewriteMethod(origName, meth, m)
		}
		out.Methods = methods
	}

	return out
}

func rewriteMethod(origOwner string, meth bytecode.Method, m Mappings) bytecode.Method {
	out := meth
	key := MethodKey{Owner: origOwner, OldName: meth.Name, Desc: meth.Desc}
	if newName, ok := m.MethodRename[key]; ok {
		out.Name = newName
	}
	out.Desc = renameDescriptor(meth.Desc, m.ClassRename)

	if len(meth.Instructions) > 0 {
		instrs := make([]bytecode.Instruction, len(meth.Instructions))
		for i, instr := range meth.Instructions {
			instrs[i] = rewriteInstruction(instr, m)
		}
		out.Instructions = instrs
	}

	if len(meth.LocalVars) > 0 {
		vars := make([]bytecode.LocalVariable, len(meth.LocalVars))
		for i, lv := range meth.LocalVars {
			nlv := lv
			vkey := VariableKey{
				Owner: origOwner, MethodName: meth.Name, MethodDesc: meth.Desc,
				Slot: lv.Slot, OldName: lv.Name, Desc: lv.Desc,
			}
			if newName, ok := m.VariableRename[vkey]; ok {
				nlv.Name = newName
			}
			nlv.Desc = renameDescriptor(nlv.Desc, m.ClassRename)
			vars[i] = nlv
		}
		out.LocalVars = vars
	}

	if len(meth.Handlers) > 0 {
		handlers := make([]bytecode.ExceptionHandler, len(meth.Handlers))
		for i, h := range meth.Handlers {
			nh := h
			nh.CatchType = renameClassName(h.CatchType, m.ClassRename)
			handlers[i] = nh
		}
		out.Handlers = handlers
	}

	return out
}

func rewriteInstruction(instr bytecode.Instruction, m Mappings) bytecode.Instruction {
	out := instr
	switch instr.Kind {
	case bytecode.KindMethodRef:
		key := MethodKey{Owner: instr.Owner, OldName: instr.Name, Desc: instr.Desc}
		if newName, ok := m.MethodRename[key]; ok {
			out.Name = newName
		}
		out.Owner = renameClassName(instr.Owner, m.ClassRename)
		out.Desc = renameDescriptor(instr.Desc, m.ClassRename)
	case bytecode.KindFieldRef:
		key := FieldKey{Owner: instr.Owner, OldName: instr.Name, Desc: instr.Desc}
		if newName, ok := m.FieldRename[key]; ok {
			out.Name = newName
		}
		out.Owner = renameClassName(instr.Owner, m.ClassRename)
		out.Desc = renameDescriptor(instr.Desc, m.ClassRename)
	case bytecode.KindTypeOp:
		out.Owner = renameClassName(instr.Owner, m.ClassRename)
	case bytecode.KindInvokeDynamic:
		out.Desc = renameDescriptor(instr.Desc, m.ClassRename)
		out.Bootstrap.OwnerInternal = renameClassName(instr.Bootstrap.OwnerInternal, m.ClassRename)
	case bytecode.KindLdc:
		if instr.LdcIsClass {
			out.LdcLiteral = renameClassName(instr.LdcLiteral, m.ClassRename)
		}
	}
	return out
}
