package eval

import (
	"strconv"

	"pykythego/internal/ir"
	"pykythego/internal/kythe"
	"pykythego/internal/symtab"
	"pykythego/internal/typeterm"
)

// Evaluator interprets deferred expressions against a symbol table,
// writing the facts and edges it discovers into a Store and collecting
// registration conflicts into Rejects for the fixpoint driver to merge
// at the pass boundary. One Evaluator is used per pass; the fixpoint
// driver constructs a fresh one, with a fresh Store, each time.
type Evaluator struct {
	Table   *symtab.Table
	Store   *kythe.Store
	Stamp   Stamp
	Rejects []symtab.Reject
}

// New returns an Evaluator bound to the given table, store and stamper.
func New(table *symtab.Table, store *kythe.Store, stamp Stamp) *Evaluator {
	return &Evaluator{Table: table, Store: store, Stamp: stamp}
}

// Run evaluates every deferred expression in source order and returns the rejects accumulated along the way.
func (e *Evaluator) Run(deferreds []Deferred) []symtab.Reject {
	e.Rejects = nil
	for _, d := range deferreds {
		e.runOne(d)
	}
	return e.Rejects
}

func (e *Evaluator) runOne(d Deferred) {
	switch d.Kind {
	case KindAssign:
		e.evalAssign(d)
	case KindExpr:
		e.evalUnionLookup(d.Rhs) // evaluated purely for side effects
	case KindClassDecl:
		e.register(d.FQN, typeterm.Single(typeterm.ClassTerm(d.FQN, d.Bases)))
	case KindFuncDecl:
		e.register(d.FQN, typeterm.Single(typeterm.FuncTerm(d.FQN, d.Ret)))
	case KindImportFrom:
		e.register(d.FQN, typeterm.Single(typeterm.ImportTerm(d.FQN, d.Path)))
	}
}

// evalAssign implements assignment semantics: Rhs resolves
// through lookup (every fqn it mentions gets chased against the symbol
// table), Lhs does not (so a bare binding name stays as fqn(F) and can
// be matched below).
func (e *Evaluator) evalAssign(d Deferred) {
	rhs := e.evalUnionLookup(d.Rhs)
	lhs := e.evalUnion(d.Lhs)
	if len(lhs) == 1 && lhs[0].Kind == typeterm.KindFQN {
		e.register(lhs[0].FQN, rhs)
	}
}

func (e *Evaluator) register(fqn string, u typeterm.Union) {
	if r := e.Table.Attempt(fqn, u); r != nil {
		e.Rejects = append(e.Rejects, *r)
	}
}

// evalLookup is eval_lookup: resolve fqn against the table, registering
// a provisional entry (subject to the same reject rules as any other
// registration) when it is seen for the first time.
func (e *Evaluator) evalLookup(fqn string) typeterm.Union {
	if u, ok := e.Table.Lookup(fqn); ok {
		return u
	}
	provisional := typeterm.Empty
	e.register(fqn, provisional)
	return provisional
}

// evalUnionLookup is eval_union_and_lookup: resolve every bare fqn
// member through the table, recursing structurally (evalSingle) into
// anything else.
func (e *Evaluator) evalUnionLookup(u typeterm.Union) typeterm.Union {
	contributions := make([]typeterm.Term, 0, len(u))
	for _, t := range u {
		if t.Kind == typeterm.KindFQN {
			contributions = append(contributions, e.evalLookup(t.FQN)...)
		} else {
			contributions = append(contributions, e.evalSingle(t)...)
		}
	}
	return typeterm.Make(contributions...)
}

// evalUnion applies evalSingle to every member, without ever resolving
// a bare fqn — this is the "without lookup" evaluation used for Lhs.
func (e *Evaluator) evalUnion(u typeterm.Union) typeterm.Union {
	contributions := make([]typeterm.Term, 0, len(u))
	for _, t := range u {
		contributions = append(contributions, e.evalSingle(t)...)
	}
	return typeterm.Make(contributions...)
}

// evalSingle is eval_single: the structural evaluation rules for
// one term, never resolving a bare fqn itself.
func (e *Evaluator) evalSingle(t typeterm.Term) typeterm.Union {
	switch t.Kind {
	case typeterm.KindFQN:
		return typeterm.Single(t)

	case typeterm.KindDot:
		return e.evalDot(t)

	case typeterm.KindCall:
		return e.evalCall(t)

	case typeterm.KindClass:
		bases := make([]typeterm.Union, len(t.Bases))
		for i, b := range t.Bases {
			bases[i] = e.evalUnion(b)
		}
		return typeterm.Single(typeterm.ClassTerm(t.FQN, bases))

	case typeterm.KindFunc:
		return typeterm.Single(typeterm.FuncTerm(t.FQN, e.evalUnion(t.Return)))

	case typeterm.KindImport, typeterm.KindVar:
		return typeterm.Single(t)

	default: // ellipsis, omitted, star, todo_*, call_op: empty union
		return typeterm.Empty
	}
}

// evalDot implements the dot(AtomU, astn(s,e,attr), ek) rule.
func (e *Evaluator) evalDot(t typeterm.Term) typeterm.Union {
	atom := e.evalUnionLookup(t.Atom)
	contributions := make([]typeterm.Term, 0, len(atom))
	for _, T := range atom {
		switch T.Kind {
		case typeterm.KindClass:
			attrFQN := T.FQN + "." + t.Astn.Value
			contributions = append(contributions, typeterm.FQNTerm(attrFQN))
			e.emitAnchorEdge(t.Astn, t.Edge, e.Stamp.Node(attrFQN))
		case typeterm.KindImport:
			e.emitAnchorEdge(t.Astn, t.Edge, e.Stamp.ImportTarget(T.Path, t.Astn.Value))
		}
	}
	return typeterm.Make(contributions...)
}

// evalCall implements the call(AtomU, ArgsU) rule.
func (e *Evaluator) evalCall(t typeterm.Term) typeterm.Union {
	atom := e.evalUnionLookup(t.Atom)
	args := make([]typeterm.Union, len(t.Args))
	for i, a := range t.Args {
		args[i] = e.evalUnionLookup(a)
	}

	contributions := make([]typeterm.Term, 0, len(atom))
	for _, T := range atom {
		switch T.Kind {
		case typeterm.KindClass:
			contributions = append(contributions, typeterm.ClassTerm(T.FQN, T.Bases))
		case typeterm.KindFunc:
			contributions = append(contributions, T.Return...)
		default:
			// Opaque application: the callee isn't a known class or
			// function, so the result is modeled the same way call_op
			// models an operator application — preserved, not resolved.
			contributions = append(contributions, typeterm.CallOpTerm(nil, args))
		}
	}
	return typeterm.Make(contributions...)
}

// emitAnchorEdge writes the anchor-node facts (once per span, via the
// store's first-write-wins de-duplication) and the ref/defines-binding
// edge from that anchor to target.
func (e *Evaluator) emitAnchorEdge(astn ir.Astn, ek typeterm.EdgeKind, target kythe.VName) {
	anchor := e.Stamp.Anchor(astn.Start, astn.End)
	if !e.Store.HasFact(anchor, kythe.FactNodeKind) {
		e.Store.AddStringFact(anchor, kythe.FactNodeKind, kythe.NodeKindAnchor)
		e.Store.AddStringFact(anchor, kythe.FactLocStart, strconv.Itoa(astn.Start))
		e.Store.AddStringFact(anchor, kythe.FactLocEnd, strconv.Itoa(astn.End))
	}
	kind := kythe.EdgeRef
	if ek == typeterm.EdgeDefinesBinding {
		kind = kythe.EdgeDefinesBinding
	}
	e.Store.AddEdge(anchor, kind, target)
}
