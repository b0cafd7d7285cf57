package bytecode

import (
	"strings"
	"testing"
)

func TestNormalizedText_MethodRef(t *testing.T) {
	i := Instruction{
		Kind:    KindMethodRef,
		RefKind: RefVirtual,
		Owner:   "java/io/PrintStream",
		Name:    "println",
		Desc:    "(Ljava/lang/String;)V",
	}
	want := "invokevirtual java/io/PrintStream.println (Ljava/lang/String;)V"
	if got := i.NormalizedText(); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestNormalizedText_FieldRef(t *testing.T) {
	i := Instruction{
		Kind:     KindFieldRef,
		Mnemonic: "GETFIELD",
		Owner:    "com/example/Foo",
		Name:     "bar",
		Desc:     "I",
	}
	want := "getfield com/example/Foo.bar I"
	if got := i.NormalizedText(); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestNormalizedText_InvokeDynamic(t *testing.T) {
	i := Instruction{
		Kind: KindInvokeDynamic,
		Name: "run",
		Desc: "()Ljava/lang/Runnable;",
		Bootstrap: BootstrapHandle{
			OwnerInternal: "java/lang/invoke/LambdaMetafactory",
			Name:          "metafactory",
			Desc:          "(...)Ljava/lang/invoke/CallSite;",
		},
		BSMArgs: []string{"()V", "lambda$main$0"},
	}
	got := i.NormalizedText()
	want := "invokedynamic run ()Ljava/lang/Runnable; bsm=java/lang/invoke/LambdaMetafactory.metafactory(...)Ljava/lang/invoke/CallSite; args=[()V, lambda$main$0]"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestNormalizedText_LdcString(t *testing.T) {
	i := Instruction{Kind: KindLdc, LdcIsString: true, LdcLiteral: "hello"}
	want := `ldc "hello"`
	if got := i.NormalizedText(); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestNormalizedText_LdcClass(t *testing.T) {
	i := Instruction{Kind: KindLdc, LdcIsClass: true, LdcLiteral: "java/lang/String"}
	want := "ldc class java/lang/String"
	if got := i.NormalizedText(); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestNormalizedText_VarLoadStore(t *testing.T) {
	load := Instruction{Kind: KindVarLoad, Mnemonic: "ALOAD", VarSlot: 1}
	if got, want := load.NormalizedText(), "aload 1"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
	store := Instruction{Kind: KindVarStore, Mnemonic: "ISTORE", VarSlot: 2}
	if got, want := store.NormalizedText(), "istore 2"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestNormalizedText_IntPush(t *testing.T) {
	i := Instruction{Kind: KindIntPush, Mnemonic: "BIPUSH", IntValue: 42}
	if got, want := i.NormalizedText(), "bipush 42"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestNormalizedText_SimpleOp(t *testing.T) {
	i := Instruction{Kind: KindSimpleOp, Mnemonic: "RETURN"}
	if got, want := i.NormalizedText(), "return"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestNormalizedText_MnemonicIsLowercase(t *testing.T) {
	instructions := []Instruction{
		{Kind: KindSimpleOp, Mnemonic: "ATHROW"},
		{Kind: KindTypeOp, Mnemonic: "NEW", Owner: "java/util/ArrayList"},
		{Kind: KindJump, Mnemonic: "GOTO", Target: "L3"},
	}
	for _, inst := range instructions {
		text := inst.NormalizedText()
		mnemonic, _, _ := strings.Cut(text, " ")
		for _, r := range mnemonic {
			if r >= 'A' && r <= 'Z' {
				t.Errorf("normalized text %q contains uppercase", text)
				break
			}
		}
	}
}

func TestTag_MatchesKind(t *testing.T) {
	cases := map[InstructionKind]string{
		KindSimpleOp:      "simple-op",
		KindMethodRef:     "method-ref",
		KindInvokeDynamic: "invokedynamic",
		KindLdc:           "ldc",
		KindTableSwitch:   "tableswitch",
	}
	for kind, want := range cases {
		i := Instruction{Kind: kind}
		if got := i.Tag(); got != want {
			t.Errorf("Tag() for kind %d = %q, want %q", kind, got, want)
		}
	}
}
