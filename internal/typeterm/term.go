// Package typeterm defines the sum-typed intermediate representation
// shared by the anchor extractor and the evaluator, and the union-type
// lattice built on top of it. A Term is a closed tagged union: every
// variant named by the analysis (fqn, class, func, import, var, dot,
// call, call_op, ellipsis, omitted, star, todo_*) is a Kind constant
// plus the subset of Term's fields that variant actually uses. Kind is
// a string enum, not an interface, so adding a node kind never forces a
// change to every function that only cares about a handful of existing
// kinds.
package typeterm

import (
	"fmt"
	"strings"

	"pykythego/internal/ir"
)

// EdgeKind distinguishes a binding-site dot access from a reference-site
// dot access; it mirrors the Kythe edge kinds it eventually produces.
type EdgeKind int

const (
	EdgeRef EdgeKind = iota
	EdgeDefinesBinding
)

func (k EdgeKind) String() string {
	if k == EdgeDefinesBinding {
		return "defines/binding"
	}
	return "ref"
}

// Kind discriminates the Term variants of the type-term sum type.
type Kind string

const (
	KindFQN      Kind = "fqn"
	KindClass    Kind = "class"
	KindFunc     Kind = "func"
	KindImport   Kind = "import"
	KindVar      Kind = "var"
	KindDot      Kind = "dot"
	KindCall     Kind = "call"
	KindCallOp   Kind = "call_op"
	KindEllipsis Kind = "ellipsis"
	KindOmitted  Kind = "omitted"
	KindStar     Kind = "star"
	KindTodo     Kind = "todo"
)

// Term is one value of the type-term sum type. Only the fields relevant
// to Kind are populated; the rest are zero. This mirrors the source's
// tagged-record approach without resorting to an interface per variant,
// which would make Union (a slice of Term) awkward to sort and compare.
type Term struct {
	Kind Kind

	FQN  string // fqn, class, func, import, var
	Path string // import: the resolved module path

	Bases  []Union // class: base-class unions, in declaration order
	Return Union   // func: return-type union

	Atom Union    // dot, call: the receiver/callee union
	Astn ir.Astn  // dot: the attribute-name token
	Edge EdgeKind // dot: ref or defines/binding

	Args []Union // call: one union per argument, in source order

	OpAstns []ir.Astn // call_op: operator tokens, kept opaque
	Args2   []Union   // call_op: operand unions, kept opaque

	Todo string // todo: the original node kind, for diagnostics only
}

// FQNTerm builds the fqn(F) variant.
func FQNTerm(f string) Term { return Term{Kind: KindFQN, FQN: f} }

// ClassTerm builds the class(F, Bases) variant.
func ClassTerm(f string, bases []Union) Term {
	return Term{Kind: KindClass, FQN: f, Bases: bases}
}

// FuncTerm builds the func(F, Return) variant.
func FuncTerm(f string, ret Union) Term {
	return Term{Kind: KindFunc, FQN: f, Return: ret}
}

// ImportTerm builds the import(F, Path) variant.
func ImportTerm(f, path string) Term {
	return Term{Kind: KindImport, FQN: f, Path: path}
}

// VarTerm builds the var(F) variant.
func VarTerm(f string) Term { return Term{Kind: KindVar, FQN: f} }

// DotTerm builds the dot(Atom, Astn, EdgeKind) variant.
func DotTerm(atom Union, a ir.Astn, ek EdgeKind) Term {
	return Term{Kind: KindDot, Atom: atom, Astn: a, Edge: ek}
}

// CallTerm builds the call(Atom, Args) variant; one union per argument.
func CallTerm(atom Union, args []Union) Term {
	return Term{Kind: KindCall, Atom: atom, Args: args}
}

// CallOpTerm builds the call_op(OpAstns, Args) variant, preserved opaque.
func CallOpTerm(ops []ir.Astn, args []Union) Term {
	return Term{Kind: KindCallOp, OpAstns: ops, Args2: args}
}

var (
	Ellipsis = Term{Kind: KindEllipsis}
	Omitted  = Term{Kind: KindOmitted}
	Star     = Term{Kind: KindStar}
)

// TodoTerm builds a catch-all todo_* placeholder carrying the original
// node kind for diagnostics; it always evaluates to the empty union.
func TodoTerm(originalKind string) Term {
	return Term{Kind: KindTodo, Todo: originalKind}
}

// key renders a Term into a canonical string used both to sort a Union
// and to detect structural duplicates. It must be injective enough that
// two semantically distinct terms never collide, and stable so that
// re-running the analysis produces byte-identical symbol-table snapshots.
func (t Term) key() string {
	var b strings.Builder
	b.WriteString(string(t.Kind))
	b.WriteByte('(')
	switch t.Kind {
	case KindFQN, KindVar:
		b.WriteString(t.FQN)
	case KindClass:
		b.WriteString(t.FQN)
		for _, base := range t.Bases {
			b.WriteByte(',')
			b.WriteString(base.key())
		}
	case KindFunc:
		b.WriteString(t.FQN)
		b.WriteByte(',')
		b.WriteString(t.Return.key())
	case KindImport:
		b.WriteString(t.FQN)
		b.WriteByte(',')
		b.WriteString(t.Path)
	case KindDot:
		b.WriteString(t.Atom.key())
		b.WriteByte(',')
		fmt.Fprintf(&b, "%d:%d:%s", t.Astn.Start, t.Astn.End, t.Astn.Value)
		b.WriteByte(',')
		b.WriteString(t.Edge.String())
	case KindCall:
		b.WriteString(t.Atom.key())
		for _, arg := range t.Args {
			b.WriteByte(',')
			b.WriteString(arg.key())
		}
	case KindCallOp:
		for _, op := range t.OpAstns {
			fmt.Fprintf(&b, "%d:%d:%s;", op.Start, op.End, op.Value)
		}
		for _, arg := range t.Args2 {
			b.WriteByte(',')
			b.WriteString(arg.key())
		}
	case KindTodo:
		b.WriteString(t.Todo)
	}
	b.WriteByte(')')
	return b.String()
}

// Equal reports whether two terms are structurally identical.
func (t Term) Equal(other Term) bool { return t.key() == other.key() }

// String renders a Term for human-facing output (the x-symtab snapshot,
// test failure messages). It need not be injective like key, only
// readable.
func (t Term) String() string {
	switch t.Kind {
	case KindFQN:
		return fmt.Sprintf("fqn(%s)", t.FQN)
	case KindClass:
		return fmt.Sprintf("class(%s, %v)", t.FQN, t.Bases)
	case KindFunc:
		return fmt.Sprintf("func(%s, %s)", t.FQN, t.Return)
	case KindImport:
		return fmt.Sprintf("import(%s, %s)", t.FQN, t.Path)
	case KindVar:
		return fmt.Sprintf("var(%s)", t.FQN)
	case KindDot:
		return fmt.Sprintf("dot(%s, %q, %s)", t.Atom, t.Astn.Value, t.Edge)
	case KindCall:
		return fmt.Sprintf("call(%s, %v)", t.Atom, t.Args)
	case KindCallOp:
		return fmt.Sprintf("call_op(%d ops, %v)", len(t.OpAstns), t.Args2)
	case KindTodo:
		return fmt.Sprintf("todo_%s", t.Todo)
	default:
		return string(t.Kind)
	}
}
