package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pykythego/internal/cooked"
	"pykythego/internal/eval"
	"pykythego/internal/kythe"
	"pykythego/internal/typeterm"
)

func astnNode(start, end int, value string) cooked.Node {
	return cooked.Node{
		Kind: "Astn",
		Slots: map[string]cooked.Node{
			"start": {Kind: "int", IsLeafInt: true, Int: int64(start)},
			"end":   {Kind: "int", IsLeafInt: true, Int: int64(end)},
			"value": {Kind: "str", IsLeafStr: true, Str: value},
		},
	}
}

func leafStr(s string) cooked.Node {
	return cooked.Node{Kind: "str", IsLeafStr: true, Str: s}
}

func list(items ...cooked.Node) cooked.Node {
	return cooked.Node{Kind: "__list__", List: items}
}

func newExtractor() *Extractor {
	stamp := eval.Stamp{Corpus: "c", Root: "r", Path: "pkg/mod.py", Language: "python"}
	return New(stamp, kythe.NewStore(), "pkg")
}

func TestNameBindsFqnEmitsDefinesBindingAnchor(t *testing.T) {
	ex := newExtractor()
	n := cooked.Node{
		Kind: "NameBindsFqn",
		Slots: map[string]cooked.Node{
			"fqn":  leafStr("mod.x"),
			"astn": astnNode(0, 1, "x"),
		},
	}
	result := ex.Eval(n)

	require.Len(t, result, 1)
	assert.Equal(t, typeterm.KindFQN, result[0].Kind)
	assert.Equal(t, "mod.x", result[0].FQN)

	edges := ex.Store.Edges()
	require.Len(t, edges, 1)
	assert.Equal(t, kythe.EdgeDefinesBinding, edges[0].Kind)

	target := ex.Stamp.Node("mod.x")
	assert.True(t, ex.Store.HasFact(target, kythe.FactNodeKind))
}

func TestClassDeclDefersClassDeclAndEmitsRecordFacts(t *testing.T) {
	ex := newExtractor()
	n := cooked.Node{
		Kind: "Class",
		Slots: map[string]cooked.Node{
			"fqn":   leafStr("mod.C"),
			"astn":  astnNode(0, 1, "C"),
			"bases": list(),
		},
	}
	ex.Eval(n)

	require.Len(t, ex.Deferred, 1)
	assert.Equal(t, eval.KindClassDecl, ex.Deferred[0].Kind)
	assert.Equal(t, "mod.C", ex.Deferred[0].FQN)

	target := ex.Stamp.Node("mod.C")
	assert.True(t, ex.Store.HasFact(target, kythe.FactNodeKind))
	assert.True(t, ex.Store.HasFact(target, kythe.FactSubkind))
}

func TestFuncDeclDefersFuncDeclWithReturn(t *testing.T) {
	ex := newExtractor()
	n := cooked.Node{
		Kind: "Func",
		Slots: map[string]cooked.Node{
			"fqn":    leafStr("mod.f"),
			"astn":   astnNode(0, 1, "f"),
			"params": list(),
			"return": cooked.Node{
				Kind: "NameRefFqn",
				Slots: map[string]cooked.Node{
					"fqn":  leafStr("builtin.str"),
					"astn": astnNode(5, 6, "str"),
				},
			},
		},
	}
	ex.Eval(n)

	require.Len(t, ex.Deferred, 1)
	assert.Equal(t, eval.KindFuncDecl, ex.Deferred[0].Kind)
	assert.Equal(t, "mod.f", ex.Deferred[0].FQN)
	require.Len(t, ex.Deferred[0].Ret, 1)
	assert.Equal(t, "builtin.str", ex.Deferred[0].Ret[0].FQN)
}

func TestClassSuiteWalksNestedFuncAndBindsSelf(t *testing.T) {
	ex := newExtractor()
	selfParam := cooked.Node{
		Kind: "NameBindsFqn",
		Slots: map[string]cooked.Node{
			"fqn":  leafStr("mod.C.__init__.self"),
			"astn": astnNode(26, 30, "self"),
		},
	}
	assign := cooked.Node{
		Kind: "AssignExprStmt",
		Slots: map[string]cooked.Node{
			"lhs": cooked.Node{
				Kind: "AtomDotNode",
				Slots: map[string]cooked.Node{
					"atom": cooked.Node{
						Kind: "NameRefFqn",
						Slots: map[string]cooked.Node{
							"fqn":  leafStr("mod.C.__init__.self"),
							"astn": astnNode(44, 48, "self"),
						},
					},
					"attr":  astnNode(49, 50, "x"),
					"binds": {Kind: "bool", IsLeafBool: true, Bool: true},
				},
			},
			"rhs": cooked.Node{Kind: "StringNode"},
		},
	}
	initFunc := cooked.Node{
		Kind: "Func",
		Slots: map[string]cooked.Node{
			"fqn":    leafStr("mod.C.__init__"),
			"astn":   astnNode(17, 25, "__init__"),
			"params": list(selfParam),
			"suite":  list(assign),
		},
	}
	class := cooked.Node{
		Kind: "Class",
		Slots: map[string]cooked.Node{
			"fqn":   leafStr("mod.C"),
			"astn":  astnNode(6, 7, "C"),
			"bases": list(),
			"suite": list(initFunc),
		},
	}

	ex.Eval(class)

	require.Len(t, ex.Deferred, 4)
	assert.Equal(t, eval.KindClassDecl, ex.Deferred[0].Kind)
	assert.Equal(t, eval.KindAssign, ex.Deferred[1].Kind, "self param must be bound to the enclosing class")
	require.Len(t, ex.Deferred[1].Rhs, 1)
	assert.Equal(t, typeterm.KindClass, ex.Deferred[1].Rhs[0].Kind)
	assert.Equal(t, "mod.C", ex.Deferred[1].Rhs[0].FQN)
	assert.Equal(t, eval.KindFuncDecl, ex.Deferred[2].Kind)
	assert.Equal(t, eval.KindAssign, ex.Deferred[3].Kind, "self.x = 'a' must be reachable through the walked suite")
}

func TestAssignDiscardsOmittedLhs(t *testing.T) {
	ex := newExtractor()
	n := cooked.Node{
		Kind: "AssignExprStmt",
		Slots: map[string]cooked.Node{
			"lhs": {Kind: "OmittedNode"},
			"rhs": leafStr("ignored"),
		},
	}
	ex.Eval(n)
	assert.Empty(t, ex.Deferred)
}

func TestAssignNormalizesEllipsisRhsToEmpty(t *testing.T) {
	ex := newExtractor()
	n := cooked.Node{
		Kind: "AssignExprStmt",
		Slots: map[string]cooked.Node{
			"lhs": cooked.Node{
				Kind: "NameBindsFqn",
				Slots: map[string]cooked.Node{
					"fqn":  leafStr("mod.x"),
					"astn": astnNode(0, 1, "x"),
				},
			},
			"rhs": cooked.Node{Kind: "EllipsisNode"},
		},
	}
	ex.Eval(n)

	require.Len(t, ex.Deferred, 1)
	assert.True(t, ex.Deferred[0].Rhs.IsEmpty())
}

func TestImportFromStmtDefersImportFromWithJoinedPath(t *testing.T) {
	ex := newExtractor()
	n := cooked.Node{
		Kind: "ImportFromStmt",
		Slots: map[string]cooked.Node{
			"dots":   {Kind: "int", IsLeafInt: true, Int: 0},
			"module": leafStr("a.b"),
			"star":   {Kind: "bool", IsLeafBool: true, Bool: false},
			"aliases": list(cooked.Node{
				Slots: map[string]cooked.Node{
					"name": leafStr("f"),
					"binds": cooked.Node{
						Kind: "NameBindsFqn",
						Slots: map[string]cooked.Node{
							"fqn":  leafStr("mod.g"),
							"astn": astnNode(0, 1, "g"),
						},
					},
				},
			}),
		},
	}
	ex.Eval(n)

	require.Len(t, ex.Deferred, 1)
	got := ex.Deferred[0]
	assert.Equal(t, eval.KindImportFrom, got.Kind)
	assert.Equal(t, "$PYTHONPATH/a.b/f", got.Path)
	assert.Equal(t, "mod.g", got.FQN)
}

func TestImportFromStarEmitsAnchorWithoutDeferred(t *testing.T) {
	ex := newExtractor()
	n := cooked.Node{
		Kind: "ImportFromStmt",
		Slots: map[string]cooked.Node{
			"dots":      {Kind: "int", IsLeafInt: true, Int: 0},
			"module":    leafStr("a.b"),
			"star":      {Kind: "bool", IsLeafBool: true, Bool: true},
			"star_astn": astnNode(0, 1, "*"),
			"aliases":   list(),
		},
	}
	ex.Eval(n)

	assert.Empty(t, ex.Deferred)
	assert.Len(t, ex.Store.Edges(), 1)
}

func TestUnknownNodeKindBecomesTodoTerm(t *testing.T) {
	ex := newExtractor()
	result := ex.Eval(cooked.Node{Kind: "SomeUnmappedStmt"})

	require.Len(t, result, 1)
	assert.Equal(t, typeterm.KindTodo, result[0].Kind)
	assert.Equal(t, "SomeUnmappedStmt", result[0].Todo)
}

func TestAtomCallBuildsCallTermWithArgs(t *testing.T) {
	ex := newExtractor()
	n := cooked.Node{
		Kind: "AtomCallNode",
		Slots: map[string]cooked.Node{
			"atom": cooked.Node{
				Kind: "NameRefFqn",
				Slots: map[string]cooked.Node{
					"fqn":  leafStr("mod.f"),
					"astn": astnNode(0, 1, "f"),
				},
			},
			"args": list(leafStr("_"), leafStr("_")),
		},
	}
	result := ex.Eval(n)

	require.Len(t, result, 1)
	assert.Equal(t, typeterm.KindCall, result[0].Kind)
	assert.Len(t, result[0].Args, 2)
}
