package eval

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pykythego/internal/ir"
	"pykythego/internal/kythe"
	"pykythego/internal/symtab"
	"pykythego/internal/typeterm"
)

func newEvaluator() (*Evaluator, *kythe.Store, *symtab.Table) {
	tab := symtab.New()
	store := kythe.NewStore()
	stamp := Stamp{Corpus: "c", Root: "r", Path: "mod.py", Language: "python"}
	return New(tab, store, stamp), store, tab
}

func TestAssignRegistersBareFqnLhs(t *testing.T) {
	e, _, tab := newEvaluator()
	d := Assign(
		typeterm.Single(typeterm.FQNTerm("mod.x")),
		typeterm.Single(typeterm.ClassTerm("builtin.str", nil)),
	)
	e.Run([]Deferred{d})

	u, ok := tab.Lookup("mod.x")
	require.True(t, ok)
	assert.True(t, u.Equal(typeterm.Single(typeterm.ClassTerm("builtin.str", nil))))
}

func TestDotOnClassEmitsAnchorAndEdgeAndResolves(t *testing.T) {
	e, store, tab := newEvaluator()
	tab.Attempt("mod.C", typeterm.Single(typeterm.ClassTerm("mod.C", nil)))

	astn := ir.Astn{Start: 10, End: 11, Value: "x"}
	dot := typeterm.DotTerm(typeterm.Single(typeterm.FQNTerm("mod.C")), astn, typeterm.EdgeRef)

	result := e.evalSingle(dot)
	require.Len(t, result, 1)
	assert.Equal(t, "mod.C.x", result[0].FQN)

	edges := store.Edges()
	require.Len(t, edges, 1)
	assert.Equal(t, kythe.EdgeRef, edges[0].Kind)
	assert.Equal(t, "mod.C.x", edges[0].Target.Signature)
}

func TestDuplicateDotAtIdenticalSpanEmitsOneEdge(t *testing.T) {
	e, store, tab := newEvaluator()
	tab.Attempt("mod.C", typeterm.Single(typeterm.ClassTerm("mod.C", nil)))

	astn := ir.Astn{Start: 10, End: 11, Value: "x"}
	dot := typeterm.DotTerm(typeterm.Single(typeterm.FQNTerm("mod.C")), astn, typeterm.EdgeRef)

	e.evalSingle(dot)
	e.evalSingle(dot)

	assert.Len(t, store.Edges(), 1)
	assert.Equal(t, 1, store.DuplicateEdgeAttempts())
}

func TestCallOnFuncYieldsReturnUnion(t *testing.T) {
	e, _, tab := newEvaluator()
	tab.Attempt("mod.f", typeterm.Single(typeterm.FuncTerm("mod.f", typeterm.Single(typeterm.ClassTerm("builtin.str", nil)))))

	call := typeterm.CallTerm(typeterm.Single(typeterm.FQNTerm("mod.f")), nil)
	result := e.evalSingle(call)
	assert.True(t, result.Equal(typeterm.Single(typeterm.ClassTerm("builtin.str", nil))))
}

func TestEvalLookupRegistersAbsentFqnAsEmpty(t *testing.T) {
	e, _, tab := newEvaluator()
	u := e.evalLookup("mod.unknown")
	assert.True(t, u.IsEmpty())

	stored, ok := tab.Lookup("mod.unknown")
	assert.True(t, ok)
	assert.True(t, stored.IsEmpty())
}
