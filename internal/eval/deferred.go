// Package eval implements the Pass 2 evaluator: interpreting a
// deferred expression against the symbol table, producing Kythe edges
// for attribute/import references and proposing new symbol-table
// bindings for the fixpoint driver (internal/fixpoint) to reconcile.
package eval

import "pykythego/internal/typeterm"

// DeferredKind discriminates the deferred-expression variants.
type DeferredKind string

const (
	KindAssign     DeferredKind = "assign"
	KindExpr       DeferredKind = "expr"
	KindClassDecl  DeferredKind = "class_decl"
	KindFuncDecl   DeferredKind = "func_decl"
	KindImportFrom DeferredKind = "import_from"
)

// Deferred is one obligation accumulated by the anchor extractor (and,
// every pass, synthesized anew from the symbol table by the fixpoint
// driver) for the evaluator to resolve.
type Deferred struct {
	Kind DeferredKind

	Lhs typeterm.Union // assign
	Rhs typeterm.Union // assign, expr

	FQN   string         // class_decl, func_decl
	Bases []typeterm.Union // class_decl
	Ret   typeterm.Union // func_decl

	Path string // import_from: resolved module path
	// FQN above doubles as import_from's bound name.
}

// Assign builds the Assign(Lhs, Rhs) deferred expression.
func Assign(lhs, rhs typeterm.Union) Deferred {
	return Deferred{Kind: KindAssign, Lhs: lhs, Rhs: rhs}
}

// Expr builds the Expr(E) deferred expression, evaluated purely for its
// side effects (anchor/edge emission).
func Expr(e typeterm.Union) Deferred {
	return Deferred{Kind: KindExpr, Rhs: e}
}

// ClassDecl builds the ClassDecl(F, Bases) deferred expression.
func ClassDecl(fqn string, bases []typeterm.Union) Deferred {
	return Deferred{Kind: KindClassDecl, FQN: fqn, Bases: bases}
}

// FuncDecl builds the FuncDecl(F, Ret) deferred expression.
func FuncDecl(fqn string, ret typeterm.Union) Deferred {
	return Deferred{Kind: KindFuncDecl, FQN: fqn, Ret: ret}
}

// ImportFrom builds the ImportFrom(Path, F) deferred expression.
func ImportFrom(path, fqn string) Deferred {
	return Deferred{Kind: KindImportFrom, Path: path, FQN: fqn}
}

// Key renders a Deferred into a string unique enough to drive the
// fixpoint driver's deduplication of the combined obligation list
//.
func (d Deferred) Key() string {
	switch d.Kind {
	case KindAssign:
		return string(d.Kind) + "|" + d.Lhs.String() + "|" + d.Rhs.String()
	case KindExpr:
		return string(d.Kind) + "|" + d.Rhs.String()
	case KindClassDecl:
		return string(d.Kind) + "|" + d.FQN
	case KindFuncDecl:
		return string(d.Kind) + "|" + d.FQN + "|" + d.Ret.String()
	case KindImportFrom:
		return string(d.Kind) + "|" + d.Path + "|" + d.FQN
	default:
		return string(d.Kind)
	}
}
