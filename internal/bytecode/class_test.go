package bytecode

import "testing"

func TestAccess_Visibility(t *testing.T) {
	cases := []struct {
		access Access
		want   string
	}{
		{AccPublic, "public"},
		{AccProtected, "protected"},
		{AccPrivate, "private"},
		{0, "package-private"},
	}
	for _, c := range cases {
		if got := c.access.Visibility(); got != c.want {
			t.Errorf("Visibility(%v) = %q, want %q", c.access, got, c.want)
		}
	}
}

func TestAccess_Predicates(t *testing.T) {
	a := AccPublic | AccStatic | AccFinal
	if !a.IsPublic() || !a.IsStatic() || !a.IsFinal() {
		t.Errorf("expected public+static+final, got %v", a)
	}
	if a.IsAbstract() {
		t.Error("did not expect abstract")
	}
}

func TestMethod_HasDebugInfo(t *testing.T) {
	withDebug := Method{LocalVars: []LocalVariable{{Slot: 0, Name: "this"}}}
	if !withDebug.HasDebugInfo() {
		t.Error("expected debug info present")
	}

	withoutDebug := Method{}
	if withoutDebug.HasDebugInfo() {
		t.Error("expected no debug info")
	}
}

func TestMethod_LocalVariableNamed(t *testing.T) {
	m := Method{LocalVars: []LocalVariable{
		{Slot: 0, Name: "this", Desc: "Lcom/example/Foo;"},
		{Slot: 1, Name: "count", Desc: "I"},
	}}

	lv, ok := m.LocalVariableNamed(1)
	if !ok || lv.Name != "count" {
		t.Errorf("got %+v, ok=%v", lv, ok)
	}

	_, ok = m.LocalVariableNamed(5)
	if ok {
		t.Error("expected no entry for slot 5")
	}
}

func TestClass_FieldAndMethodLookup(t *testing.T) {
	c := Class{
		InternalName: "com/example/Foo",
		Fields: []Field{
			{Name: "bar", Desc: "I"},
		},
		Methods: []Method{
			{Name: "baz", Desc: "()V"},
		},
	}

	if f, ok := c.FieldByName("bar"); !ok || f.Desc != "I" {
		t.Errorf("FieldByName failed: %+v, %v", f, ok)
	}
	if _, ok := c.FieldByName("missing"); ok {
		t.Error("expected no field named missing")
	}

	if m, ok := c.MethodByNameDesc("baz", "()V"); !ok || m.Name != "baz" {
		t.Errorf("MethodByNameDesc failed: %+v, %v", m, ok)
	}
	if _, ok := c.MethodByNameDesc("baz", "(I)V"); ok {
		t.Error("expected no match for mismatched descriptor")
	}
}
