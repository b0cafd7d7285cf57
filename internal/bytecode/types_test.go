package bytecode

import "testing"

func TestParseFieldDescriptor_Primitives(t *testing.T) {
	cases := map[string]string{
		"I": "int",
		"J": "long",
		"Z": "boolean",
		"V": "void",
	}
	for desc, want := range cases {
		ty, err := ParseFieldDescriptor(desc)
		if err != nil {
			t.Fatalf("ParseFieldDescriptor(%q): %v", desc, err)
		}
		if got := ty.String(); got != want {
			t.Errorf("ParseFieldDescriptor(%q).String() = %q, want %q", desc, got, want)
		}
		if got := ty.Descriptor(); got != desc {
			t.Errorf("round-trip Descriptor() = %q, want %q", got, desc)
		}
	}
}

func TestParseFieldDescriptor_Object(t *testing.T) {
	ty, err := ParseFieldDescriptor("Ljava/lang/String;")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ty.Kind != TypeObject || ty.Internal != "java/lang/String" {
		t.Errorf("got %+v", ty)
	}
	if got, want := ty.String(), "java/lang/String"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestParseFieldDescriptor_Array(t *testing.T) {
	ty, err := ParseFieldDescriptor("[[I")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ty.Kind != TypeArray || ty.ArrayDims != 2 {
		t.Errorf("got %+v", ty)
	}
	if got, want := ty.String(), "int[][]"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
	if got, want := ty.Descriptor(), "[[I"; got != want {
		t.Errorf("Descriptor() = %q, want %q", got, want)
	}
}

func TestParseFieldDescriptor_ArrayOfObject(t *testing.T) {
	ty, err := ParseFieldDescriptor("[Ljava/lang/Object;")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got, want := ty.Descriptor(), "[Ljava/lang/Object;"; got != want {
		t.Errorf("Descriptor() = %q, want %q", got, want)
	}
}

func TestParseFieldDescriptor_Errors(t *testing.T) {
	for _, desc := range []string{"", "L", "Ljava/lang/String", "Q", "[["} {
		if _, err := ParseFieldDescriptor(desc); err == nil {
			t.Errorf("expected error parsing %q", desc)
		}
	}
}

func TestParseMethodDescriptor(t *testing.T) {
	md, err := ParseMethodDescriptor("(ILjava/lang/String;[B)V")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(md.Params) != 3 {
		t.Fatalf("expected 3 params, got %d", len(md.Params))
	}
	if md.Params[0].Kind != TypeInt {
		t.Errorf("param 0 = %+v, want int", md.Params[0])
	}
	if md.Params[1].Kind != TypeObject || md.Params[1].Internal != "java/lang/String" {
		t.Errorf("param 1 = %+v", md.Params[1])
	}
	if md.Params[2].Kind != TypeArray {
		t.Errorf("param 2 = %+v, want array", md.Params[2])
	}
	if md.Returns.Kind != TypeVoid {
		t.Errorf("returns = %+v, want void", md.Returns)
	}
}

func TestParseMethodDescriptor_NoParams(t *testing.T) {
	md, err := ParseMethodDescriptor("()Ljava/lang/Object;")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(md.Params) != 0 {
		t.Errorf("expected 0 params, got %d", len(md.Params))
	}
	if md.Returns.Internal != "java/lang/Object" {
		t.Errorf("returns = %+v", md.Returns)
	}
}

func TestParseMethodDescriptor_Errors(t *testing.T) {
	for _, desc := range []string{"", "ILjava/lang/String;)V", "(I"} {
		if _, err := ParseMethodDescriptor(desc); err == nil {
			t.Errorf("expected error parsing %q", desc)
		}
	}
}
