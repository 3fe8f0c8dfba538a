// Package extract implements the anchor extractor (Pass 1): a
// structural recursion over the closed IR (internal/cooked) that, for
// each node, returns a type term describing the node's value and
// accumulates Kythe anchor/binding facts plus deferred expressions for
// the evaluator (Pass 2, internal/eval) to resolve.
package extract

import (
	"fmt"

	"pykythego/internal/cooked"
	"pykythego/internal/eval"
	"pykythego/internal/importpath"
	"pykythego/internal/ir"
	"pykythego/internal/kythe"
	"pykythego/internal/typeterm"
)

// Extractor owns the Kythe-fact accumulator and the running deferred
// list for one file's Pass 1 walk.
type Extractor struct {
	Stamp    eval.Stamp
	Store    *kythe.Store
	FileDir  string
	Deferred []eval.Deferred

	// classStack tracks the classes currently being walked, innermost
	// last, so a method's first parameter can be bound to its enclosing
	// class.
	classStack []classFrame
}

// classFrame is the enclosing-class context evalFunc needs to type a
// method's first parameter as an instance of the class it is defined in.
type classFrame struct {
	fqn   string
	bases []typeterm.Union
}

// New returns an Extractor ready to walk a file's cooked AST.
func New(stamp eval.Stamp, store *kythe.Store, fileDir string) *Extractor {
	return &Extractor{Stamp: stamp, Store: store, FileDir: fileDir}
}

// Eval dispatches on the node's kind, returning the type term it
// denotes and threading side effects (facts, deferred expressions)
// through the Extractor itself.
func (ex *Extractor) Eval(n cooked.Node) typeterm.Union {
	switch n.Kind {
	case "__list__":
		for _, item := range n.List {
			ex.Eval(item)
		}
		return typeterm.Empty

	case "NameBindsFqn":
		return ex.evalNameBindsFqn(n)
	case "NameRefFqn":
		return ex.evalNameRefFqn(n)
	case "Class":
		return ex.evalClass(n)
	case "Func":
		return ex.evalFunc(n)
	case "AtomDotNode":
		return ex.evalAtomDot(n)
	case "AtomCallNode":
		return ex.evalAtomCall(n)
	case "NumberNode":
		return typeterm.Single(typeterm.ClassTerm("builtin.Number", nil))
	case "StringNode":
		return typeterm.Single(typeterm.ClassTerm("builtin.str", nil))
	case "AssignExprStmt":
		return ex.evalAssignExprStmt(n)
	case "ExprStmt":
		ex.Deferred = append(ex.Deferred, eval.Expr(ex.Eval(n.Slot("expr"))))
		return typeterm.Empty
	case "EllipsisNode":
		return typeterm.Single(typeterm.Ellipsis)
	case "OmittedNode":
		return typeterm.Single(typeterm.Omitted)
	case "ImportFromStmt":
		return ex.evalImportFromStmt(n)

	// PassStmt and BreakStmt are kept as distinct tags here rather than
	// collapsed into one placeholder, since both are ignored downstream
	// either way and distinct tags cost nothing.
	case "PassStmt", "BreakStmt", "ContinueStmt":
		return typeterm.Empty

	default:
		return typeterm.Single(typeterm.TodoTerm(n.Kind))
	}
}

func (ex *Extractor) evalNameBindsFqn(n cooked.Node) typeterm.Union {
	fqn := n.Slot("fqn").Str
	astn, err := n.Slot("astn").Astn()
	if err == nil {
		ex.emitNode(astn, fqn, kythe.EdgeDefinesBinding, kythe.NodeKindVariable, "")
	}
	return typeterm.Single(typeterm.FQNTerm(fqn))
}

func (ex *Extractor) evalNameRefFqn(n cooked.Node) typeterm.Union {
	fqn := n.Slot("fqn").Str
	astn, err := n.Slot("astn").Astn()
	if err == nil {
		ex.emitNode(astn, fqn, kythe.EdgeRef, "", "")
	}
	return typeterm.Single(typeterm.FQNTerm(fqn))
}

func (ex *Extractor) evalClass(n cooked.Node) typeterm.Union {
	fqn := n.Slot("fqn").Str
	bases := make([]typeterm.Union, 0)
	for _, baseNode := range n.Slot("bases").Items() {
		bases = append(bases, ex.Eval(baseNode))
	}
	if astn, err := n.Slot("astn").Astn(); err == nil {
		ex.emitNode(astn, fqn, kythe.EdgeDefinesBinding, kythe.NodeKindRecord, kythe.SubkindClass)
	}
	ex.Deferred = append(ex.Deferred, eval.ClassDecl(fqn, bases))
	ex.classStack = append(ex.classStack, classFrame{fqn: fqn, bases: bases})
	ex.Eval(n.Slot("suite")) // walked for side effects (nested statements)
	ex.classStack = ex.classStack[:len(ex.classStack)-1]
	return typeterm.Single(typeterm.ClassTerm(fqn, bases))
}

func (ex *Extractor) evalFunc(n cooked.Node) typeterm.Union {
	fqn := n.Slot("fqn").Str
	params := n.Slot("params").Items()
	for i, param := range params {
		ex.Eval(param) // walked for side effects (parameter name bindings)
		if i == 0 && len(ex.classStack) > 0 {
			ex.bindSelfParam(param)
		}
	}
	ret := typeterm.Empty
	if r := n.Slot("return"); !r.IsZero() {
		ret = ex.Eval(r)
	}
	if astn, err := n.Slot("astn").Astn(); err == nil {
		ex.emitNode(astn, fqn, kythe.EdgeDefinesBinding, kythe.NodeKindFunction, "")
	}
	ex.Deferred = append(ex.Deferred, eval.FuncDecl(fqn, ret))
	ex.Eval(n.Slot("suite")) // walked for side effects (nested statements)
	return typeterm.Single(typeterm.FuncTerm(fqn, ret))
}

// bindSelfParam defers an assignment typing a method's first parameter
// as an instance of the class whose suite the method is defined in
// (self, in Python's own terms). Only NameBindsFqn params carry an fqn
// to bind; anything else (a tuple-unpack parameter, say) is skipped.
func (ex *Extractor) bindSelfParam(param cooked.Node) {
	if param.Kind != "NameBindsFqn" {
		return
	}
	fqn := param.Slot("fqn").Str
	if fqn == "" {
		return
	}
	enclosing := ex.classStack[len(ex.classStack)-1]
	ex.Deferred = append(ex.Deferred, eval.Assign(
		typeterm.Single(typeterm.FQNTerm(fqn)),
		typeterm.Single(typeterm.ClassTerm(enclosing.fqn, enclosing.bases)),
	))
}

func (ex *Extractor) evalAtomDot(n cooked.Node) typeterm.Union {
	atom := ex.Eval(n.Slot("atom"))
	astn, err := n.Slot("attr").Astn()
	if err != nil {
		return typeterm.Empty
	}
	ek := typeterm.EdgeRef
	if n.Slot("binds").Bool {
		ek = typeterm.EdgeDefinesBinding
	}
	return typeterm.Single(typeterm.DotTerm(atom, astn, ek))
}

func (ex *Extractor) evalAtomCall(n cooked.Node) typeterm.Union {
	atom := ex.Eval(n.Slot("atom"))
	argNodes := n.Slot("args").Items()
	args := make([]typeterm.Union, 0, len(argNodes))
	for _, a := range argNodes {
		args = append(args, ex.Eval(a))
	}
	return typeterm.Single(typeterm.CallTerm(atom, args))
}

// evalAssignExprStmt normalizes assignment: an omitted Lhs discards
// the assignment entirely; an omitted/ellipsis Rhs is recorded as
// "unknown" (the empty union) rather than propagating the placeholder
// term itself.
func (ex *Extractor) evalAssignExprStmt(n cooked.Node) typeterm.Union {
	lhs := ex.Eval(n.Slot("lhs"))
	rhs := ex.Eval(n.Slot("rhs"))

	if len(lhs) == 1 && lhs[0].Kind == typeterm.KindOmitted {
		return typeterm.Empty
	}
	if len(rhs) == 1 && (rhs[0].Kind == typeterm.KindOmitted || rhs[0].Kind == typeterm.KindEllipsis) {
		rhs = typeterm.Empty
	}
	ex.Deferred = append(ex.Deferred, eval.Assign(lhs, rhs))
	return typeterm.Empty
}

func (ex *Extractor) evalImportFromStmt(n cooked.Node) typeterm.Union {
	dots := int(n.Slot("dots").Int)
	module := n.Slot("module").Str
	importPath := importpath.NormalizeFromImport(dots, module, ex.FileDir)

	if n.Slot("star").Bool {
		if astn, err := n.Slot("star_astn").Astn(); err == nil {
			target := ex.Stamp.Node(importpath.StarPath(importPath))
			ex.emitAnchor(astn, kythe.EdgeRef, target, "")
		}
		return typeterm.Empty
	}

	for _, alias := range n.Slot("aliases").Items() {
		name := alias.Slot("name").Str
		bound := ex.Eval(alias.Slot("binds"))
		if len(bound) != 1 || bound[0].Kind != typeterm.KindFQN {
			continue
		}
		ex.Deferred = append(ex.Deferred, eval.ImportFrom(importpath.AliasPath(importPath, name), bound[0].FQN))
	}
	return typeterm.Empty
}

// emitNode writes the binding/ref anchor for a name token plus the
// target's node/kind (and, for classes, subkind) facts — the common
// shape shared by every kind of named declaration.
func (ex *Extractor) emitNode(astn ir.Astn, fqn string, edgeKind, nodeKind, subkind string) {
	target := ex.Stamp.Node(fqn)
	ex.emitAnchor(astn, edgeKind, target, "")
	if nodeKind != "" {
		if !ex.Store.HasFact(target, kythe.FactNodeKind) {
			ex.Store.AddStringFact(target, kythe.FactNodeKind, nodeKind)
			if subkind != "" {
				ex.Store.AddStringFact(target, kythe.FactSubkind, subkind)
			}
		}
	}
}

func (ex *Extractor) emitAnchor(astn ir.Astn, edgeKind string, target kythe.VName, _ string) {
	anchor := ex.Stamp.Anchor(astn.Start, astn.End)
	if !ex.Store.HasFact(anchor, kythe.FactNodeKind) {
		ex.Store.AddStringFact(anchor, kythe.FactNodeKind, kythe.NodeKindAnchor)
		ex.Store.AddStringFact(anchor, kythe.FactLocStart, fmt.Sprint(astn.Start))
		ex.Store.AddStringFact(anchor, kythe.FactLocEnd, fmt.Sprint(astn.End))
	}
	ex.Store.AddEdge(anchor, edgeKind, target)
}
