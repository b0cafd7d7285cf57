// Package capability defines the external capability interfaces (C11):
// decompiler, assembler, compiler, and phantom generator. The core never
// implements these itself — it consumes each adapter's Result shape and
// translates it into the operation error policy (internal/apierr).
package capability

import (
	"context"
	"time"

	"github.com/tha23rd/recaf-mcp-sub000/internal/apierr"
	"github.com/tha23rd/recaf-mcp-sub000/internal/bytecode"
	"github.com/tha23rd/recaf-mcp-sub000/internal/workspace"
)

// DefaultDecompileTimeout is the caller-enforced deadline applied to a
// decompile call when the caller does not supply its own context deadline.
const DefaultDecompileTimeout = 10 * time.Second

// Result is the uniform outcome shape every adapter call returns, modeled
// on the teacher's MCPCallResult{Success, Output, Error, LatencyMs}: a
// boolean discriminant plus either a value or an apierr-shaped failure.
type Result[T any] struct {
	Ok      bool
	Value   T
	Kind    apierr.Kind
	Message string
}

// Ok builds a successful Result.
func Ok[T any](v T) Result[T] {
	return Result[T]{Ok: true, Value: v}
}

// Fail builds a failed Result carrying an apierr.Kind and message.
func Fail[T any](kind apierr.Kind, message string) Result[T] {
	return Result[T]{Ok: false, Kind: kind, Message: message}
}

// AsError converts a failed Result into an *apierr.Error, or nil if the
// Result was successful.
func (r Result[T]) AsError() *apierr.Error {
	if r.Ok {
		return nil
	}
	switch r.Kind {
	case apierr.KindBadRequest:
		return apierr.BadRequest("", r.Message)
	case apierr.KindNotFound:
		return apierr.NotFound(r.Message, nil)
	case apierr.KindTimeout:
		return apierr.Timeout(r.Message)
	case apierr.KindUnsupported:
		return apierr.Unsupported(r.Message)
	case apierr.KindBackendFailure:
		return apierr.BackendFailure(r.Message, nil)
	default:
		return apierr.BackendFailure(r.Message, nil)
	}
}

// Decompiler turns one class's bytecode into textual source. Implementations
// must be safe to invoke concurrently and must respect ctx cancellation;
// callers enforce DefaultDecompileTimeout when they have no tighter
// deadline of their own.
type Decompiler interface {
	Decompile(ctx context.Context, w *workspace.Workspace, class bytecode.Class) Result[string]
}

// AssembleContext carries whatever workspace/target information an
// assembler needs to resolve symbols while assembling a token stream.
type AssembleContext struct {
	Workspace *workspace.Workspace
	ClassName string
}

// Assembler exposes the disassemble/tokenize/parse/assemble round trip
// over one class's textual assembly representation.
type Assembler interface {
	Disassemble(ctx context.Context, w *workspace.Workspace, class bytecode.Class) Result[string]
	Tokenize(ctx context.Context, text string) Result[[]Token]
	Parse(ctx context.Context, tokens []Token) Result[AssemblyAST]
	AssembleAndWrap(ctx context.Context, ast AssemblyAST, actx AssembleContext) Result[bytecode.Class]
}

// Token is one lexical unit of assembler source text.
type Token struct {
	Kind Kind
	Text string
	Line int
}

// Kind discriminates a token's lexical category.
type Kind int

const (
	TokenDirective Kind = iota
	TokenMnemonic
	TokenIdentifier
	TokenLiteral
	TokenLabel
	TokenPunctuation
)

// AssemblyAST is the parsed form of one class's assembler source, opaque
// to the core beyond round-tripping it through AssembleAndWrap.
type AssemblyAST struct {
	ClassName string
	Nodes     []ASTNode
}

// ASTNode is one parsed assembler statement.
type ASTNode struct {
	Directive string
	Operands  []string
}

// CompileRequest is the input to a Compiler call: one class's full source
// plus any debug-info flags to keep in the resulting bytecode.
type CompileRequest struct {
	ClassName  string
	Source     string
	DebugFlags DebugFlags
}

// DebugFlags controls which debug info a compiler retains.
type DebugFlags struct {
	LineNumbers bool
	SourceFile  bool
	Variables   bool
}

// CompileDiagnostic is one compiler-reported issue.
type CompileDiagnostic struct {
	Line    int
	Col     int
	Message string
	Fatal   bool
}

// CompileOutput is a successful compile's class-map plus any non-fatal
// diagnostics (warnings) the compiler still wants surfaced.
type CompileOutput struct {
	Classes     map[string]bytecode.Class
	Diagnostics []CompileDiagnostic
}

// Compiler turns edited source text back into one or more classes (a
// single top-level class may compile to several, e.g. anonymous classes).
type Compiler interface {
	Compile(ctx context.Context, req CompileRequest, w *workspace.Workspace) Result[CompileOutput]
}

// PhantomGenerator synthesizes a supporting resource of stub ("phantom")
// classes for every externally-referenced symbol the workspace does not
// itself define, so that xref/callgraph/inheritance queries resolve
// without requiring every dependency jar to be attached.
type PhantomGenerator interface {
	CreatePhantomsForWorkspace(ctx context.Context, w *workspace.Workspace) Result[*workspace.Resource]
}

// WithDefaultTimeout returns ctx unchanged if it already carries a
// deadline, otherwise wraps it with DefaultDecompileTimeout.
func WithDefaultTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if _, ok := ctx.Deadline(); ok {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, DefaultDecompileTimeout)
}
