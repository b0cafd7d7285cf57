package bytecode

import (
	"fmt"
	"strconv"
	"strings"
)

// InstructionKind discriminates an instruction's tagged-union shape.
type InstructionKind int

const (
	KindSimpleOp InstructionKind = iota
	KindTypeOp
	KindFieldRef
	KindMethodRef
	KindInvokeDynamic
	KindJump
	KindIinc
	KindTableSwitch
	KindLookupSwitch
	KindLdc
	KindVarLoad
	KindVarStore
	KindIntPush
)

// MethodRefKind discriminates how a method reference is invoked.
type MethodRefKind int

const (
	RefVirtual MethodRefKind = iota
	RefStatic
	RefInterface
	RefSpecial
)

func (k MethodRefKind) String() string {
	switch k {
	case RefVirtual:
		return "invokevirtual"
	case RefStatic:
		return "invokestatic"
	case RefInterface:
		return "invokeinterface"
	case RefSpecial:
		return "invokespecial"
	default:
		return "invokeunknown"
	}
}

// BootstrapHandle identifies an invokedynamic call site's bootstrap method.
type BootstrapHandle struct {
	OwnerInternal string
	Name          string
	Desc          string
}

// SwitchCase is one (key, target-label) pair inside a lookupswitch, or an
// (index, target-label) pair inside a tableswitch.
type SwitchCase struct {
	Key    int32
	Target string
}

// Instruction is a single bytecode instruction in its decoded, tagged-union
// form. Only the fields relevant to Kind are populated.
type Instruction struct {
	Index int
	Kind  InstructionKind
	Mnemonic string

	// KindTypeOp, KindFieldRef, KindMethodRef
	Owner string

	// KindFieldRef, KindMethodRef, KindInvokeDynamic
	Name string
	Desc string

	// KindMethodRef
	RefKind MethodRefKind

	// KindInvokeDynamic
	Bootstrap BootstrapHandle
	BSMArgs   []string

	// KindJump
	Target string

	// KindIinc
	VarSlot int
	Delta   int

	// KindTableSwitch / KindLookupSwitch
	DefaultTarget string
	Low           int32 // tableswitch only
	High          int32 // tableswitch only
	Cases         []SwitchCase

	// KindLdc
	LdcIsClass  bool
	LdcIsString bool
	LdcLiteral  string

	// KindVarLoad / KindVarStore / KindIntPush
	IntValue int64
}

// NormalizedText renders the instruction's canonical textual form (lowercase
// mnemonic, then operands such as owners and labels in their original case),
// the sole matching surface for single- and multi-instruction regex search.
func (i Instruction) NormalizedText() string {
	mnemonic := strings.ToLower(i.Mnemonic)
	switch i.Kind {
	case KindMethodRef:
		return fmt.Sprintf("%s %s.%s %s", strings.ToLower(i.RefKind.String()), i.Owner, i.Name, i.Desc)
	case KindFieldRef:
		return fmt.Sprintf("%s %s.%s %s", mnemonic, i.Owner, i.Name, i.Desc)
	case KindInvokeDynamic:
		args := strings.Join(i.BSMArgs, ", ")
		return fmt.Sprintf("invokedynamic %s %s bsm=%s.%s%s args=[%s]",
			i.Name, i.Desc, i.Bootstrap.OwnerInternal, i.Bootstrap.Name, i.Bootstrap.Desc, args)
	case KindLdc:
		if i.LdcIsClass {
			return fmt.Sprintf("ldc class %s", i.LdcLiteral)
		}
		if i.LdcIsString {
			return fmt.Sprintf("ldc %q", i.LdcLiteral)
		}
		return fmt.Sprintf("ldc %s", i.LdcLiteral)
	case KindTypeOp:
		return fmt.Sprintf("%s %s", mnemonic, i.Owner)
	case KindJump:
		return fmt.Sprintf("%s %s", mnemonic, i.Target)
	case KindIinc:
		return fmt.Sprintf("iinc %d %d", i.VarSlot, i.Delta)
	case KindTableSwitch:
		return fmt.Sprintf("tableswitch [%d..%d] default=%s cases=%d", i.Low, i.High, i.DefaultTarget, len(i.Cases))
	case KindLookupSwitch:
		return fmt.Sprintf("lookupswitch default=%s cases=%d", i.DefaultTarget, len(i.Cases))
	case KindVarLoad, KindVarStore:
		return fmt.Sprintf("%s %d", mnemonic, i.VarSlot)
	case KindIntPush:
		return fmt.Sprintf("%s %s", mnemonic, strconv.FormatInt(i.IntValue, 10))
	default: // KindSimpleOp
		return mnemonic
	}
}

// Tag returns a short stable category tag for the instruction, used in
// analysis summaries and logs.
func (i Instruction) Tag() string {
	switch i.Kind {
	case KindSimpleOp:
		return "simple-op"
	case KindTypeOp:
		return "type-op"
	case KindFieldRef:
		return "field-ref"
	case KindMethodRef:
		return "method-ref"
	case KindInvokeDynamic:
		return "invokedynamic"
	case KindJump:
		return "jump"
	case KindIinc:
		return "iinc"
	case KindTableSwitch:
		return "tableswitch"
	case KindLookupSwitch:
		return "lookupswitch"
	case KindLdc:
		return "ldc"
	case KindVarLoad:
		return "var-load"
	case KindVarStore:
		return "var-store"
	case KindIntPush:
		return "int-push"
	default:
		return "unknown"
	}
}
