package search

// Kind discriminates the six tagged query variants of §4.C6.
type Kind int

const (
	KindString Kind = iota
	KindNumber
	KindReference
	KindDeclaration
	KindInstruction
	KindFile
)

// Query is the idiomatic-Go rendering of the spec's tagged-union query
// variants: one struct, discriminated by Kind, with only the fields
// relevant to that Kind populated.
type Query struct {
	Kind Kind

	// KindString, KindNumber
	ValuePredicate Predicate

	// KindReference, KindDeclaration: nil means "match anything".
	OwnerPredicate *Predicate
	NamePredicate  *Predicate
	DescPredicate  *Predicate

	// KindInstruction: predicate j matches instruction i+j in a
	// sliding window of len(InstructionPredicates) consecutive instructions.
	InstructionPredicates []Predicate

	// KindFile
	FilePredicate Predicate
}

// NewStringQuery builds a StringQuery matching string constants.
func NewStringQuery(p Predicate) Query { return Query{Kind: KindString, ValuePredicate: p} }

// NewNumberQuery builds a NumberQuery matching numeric constants.
func NewNumberQuery(p Predicate) Query { return Query{Kind: KindNumber, ValuePredicate: p} }

// NewReferenceQuery builds a ReferenceQuery over method/field references and
// invokedynamic bootstrap references. A nil predicate slot matches anything.
func NewReferenceQuery(owner, name, desc *Predicate) Query {
	return Query{Kind: KindReference, OwnerPredicate: owner, NamePredicate: name, DescPredicate: desc}
}

// NewDeclarationQuery builds a DeclarationQuery over class/method/field
// declarations. A nil predicate slot matches anything.
func NewDeclarationQuery(owner, name, desc *Predicate) Query {
	return Query{Kind: KindDeclaration, OwnerPredicate: owner, NamePredicate: name, DescPredicate: desc}
}

// NewInstructionQuery builds a sliding-window InstructionQuery over k
// consecutive instructions, one predicate per window position.
func NewInstructionQuery(predicates []Predicate) Query {
	return Query{Kind: KindInstruction, InstructionPredicates: predicates}
}

// NewFileQuery builds a FileQuery over non-class file names and (for text
// files) content.
func NewFileQuery(p Predicate) Query { return Query{Kind: KindFile, FilePredicate: p} }
