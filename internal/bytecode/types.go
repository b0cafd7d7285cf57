// Package bytecode defines the immutable value types for JVM classes,
// members, and instructions, plus descriptor parsing and the canonical
// normalized-instruction-text formatter every search and xref component
// matches against.
package bytecode

import (
	"fmt"
	"strings"
)

// TypeKind discriminates the shapes a parsed descriptor type can take.
type TypeKind int

const (
	TypeVoid TypeKind = iota
	TypeBoolean
	TypeByte
	TypeChar
	TypeShort
	TypeInt
	TypeLong
	TypeFloat
	TypeDouble
	TypeObject
	TypeArray
)

// Type is a parsed JVM type: a primitive kind, an object type (internal
// name), or an array of some element Type with a given dimension count.
type Type struct {
	Kind      TypeKind
	Internal  string // object internal name (slash-form), only for TypeObject
	Elem      *Type  // element type, only for TypeArray
	ArrayDims int    // dimension count, only for TypeArray
}

// String renders the type in slash-form Java syntax, e.g. "int", "java/lang/String", "int[][]".
func (t Type) String() string {
	switch t.Kind {
	case TypeVoid:
		return "void"
	case TypeBoolean:
		return "boolean"
	case TypeByte:
		return "byte"
	case TypeChar:
		return "char"
	case TypeShort:
		return "short"
	case TypeInt:
		return "int"
	case TypeLong:
		return "long"
	case TypeFloat:
		return "float"
	case TypeDouble:
		return "double"
	case TypeObject:
		return t.Internal
	case TypeArray:
		return t.Elem.String() + strings.Repeat("[]", t.ArrayDims)
	default:
		return "?"
	}
}

// Descriptor renders the type back to JVM descriptor form, e.g. "I", "Ljava/lang/String;", "[[I".
func (t Type) Descriptor() string {
	switch t.Kind {
	case TypeVoid:
		return "V"
	case TypeBoolean:
		return "Z"
	case TypeByte:
		return "B"
	case TypeChar:
		return "C"
	case TypeShort:
		return "S"
	case TypeInt:
		return "I"
	case TypeLong:
		return "J"
	case TypeFloat:
		return "F"
	case TypeDouble:
		return "D"
	case TypeObject:
		return "L" + t.Internal + ";"
	case TypeArray:
		return strings.Repeat("[", t.ArrayDims) + t.Elem.Descriptor()
	default:
		return ""
	}
}

// MethodDescriptor is the parsed form of a JVM method descriptor.
type MethodDescriptor struct {
	Params  []Type
	Returns Type
}

// ParseFieldDescriptor parses a single JVM field descriptor (e.g. "I",
// "Ljava/lang/String;", "[[I") into a structured Type.
func ParseFieldDescriptor(desc string) (Type, error) {
	t, rest, err := parseType(desc)
	if err != nil {
		return Type{}, err
	}
	if rest != "" {
		return Type{}, fmt.Errorf("trailing data in field descriptor %q", desc)
	}
	return t, nil
}

// ParseMethodDescriptor parses a JVM method descriptor (e.g.
// "(ILjava/lang/String;)V") into an ordered parameter-type list and a
// return type.
func ParseMethodDescriptor(desc string) (MethodDescriptor, error) {
	if len(desc) == 0 || desc[0] != '(' {
		return MethodDescriptor{}, fmt.Errorf("method descriptor %q must start with '('", desc)
	}
	rest := desc[1:]
	var params []Type
	for len(rest) > 0 && rest[0] != ')' {
		t, r, err := parseType(rest)
		if err != nil {
			return MethodDescriptor{}, err
		}
		params = append(params, t)
		rest = r
	}
	if len(rest) == 0 {
		return MethodDescriptor{}, fmt.Errorf("method descriptor %q missing ')'", desc)
	}
	rest = rest[1:] // consume ')'
	ret, rest, err := parseType(rest)
	if err != nil {
		return MethodDescriptor{}, err
	}
	if rest != "" {
		return MethodDescriptor{}, fmt.Errorf("trailing data in method descriptor %q", desc)
	}
	return MethodDescriptor{Params: params, Returns: ret}, nil
}

// parseType consumes exactly one type from the front of s, returning the
// parsed type and the unconsumed remainder.
func parseType(s string) (Type, string, error) {
	if s == "" {
		return Type{}, "", fmt.Errorf("empty descriptor")
	}

	dims := 0
	for len(s) > 0 && s[0] == '[' {
		dims++
		s = s[1:]
	}
	if s == "" {
		return Type{}, "", fmt.Errorf("truncated array descriptor")
	}

	var elem Type
	var rest string
	switch s[0] {
	case 'V':
		elem, rest = Type{Kind: TypeVoid}, s[1:]
	case 'Z':
		elem, rest = Type{Kind: TypeBoolean}, s[1:]
	case 'B':
		elem, rest = Type{Kind: TypeByte}, s[1:]
	case 'C':
		elem, rest = Type{Kind: TypeChar}, s[1:]
	case 'S':
		elem, rest = Type{Kind: TypeShort}, s[1:]
	case 'I':
		elem, rest = Type{Kind: TypeInt}, s[1:]
	case 'J':
		elem, rest = Type{Kind: TypeLong}, s[1:]
	case 'F':
		elem, rest = Type{Kind: TypeFloat}, s[1:]
	case 'D':
		elem, rest = Type{Kind: TypeDouble}, s[1:]
	case 'L':
		idx := strings.IndexByte(s, ';')
		if idx < 0 {
			return Type{}, "", fmt.Errorf("unterminated object descriptor %q", s)
		}
		elem, rest = Type{Kind: TypeObject, Internal: s[1:idx]}, s[idx+1:]
	default:
		return Type{}, "", fmt.Errorf("unrecognized descriptor char %q", s[0])
	}

	if dims == 0 {
		return elem, rest, nil
	}
	e := elem
	return Type{Kind: TypeArray, Elem: &e, ArrayDims: dims}, rest, nil
}

// ConstantKind discriminates a field's compile-time ConstantValue payload.
type ConstantKind int

const (
	ConstantNone ConstantKind = iota
	ConstantInt
	ConstantLong
	ConstantFloat
	ConstantDouble
	ConstantString
)

// ConstantValue is a field's optional compile-time constant.
type ConstantValue struct {
	Kind   ConstantKind
	Int    int32
	Long   int64
	Float  float32
	Double float64
	String string
}
