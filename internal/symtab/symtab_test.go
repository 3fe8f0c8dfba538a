package symtab

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"pykythego/internal/typeterm"
)

func TestNewSeedsBuiltins(t *testing.T) {
	tab := New()
	u, ok := tab.Lookup("builtin.str")
	assert.True(t, ok)
	assert.False(t, u.IsEmpty())
}

func TestAttemptInsertsWhenAbsent(t *testing.T) {
	tab := New()
	r := tab.Attempt("mod.x", typeterm.Single(typeterm.FQNTerm("mod.y")))
	assert.Nil(t, r)
	u, ok := tab.Lookup("mod.x")
	assert.True(t, ok)
	assert.True(t, u.Equal(typeterm.Single(typeterm.FQNTerm("mod.y"))))
}

func TestAttemptNoChangeWhenEqual(t *testing.T) {
	tab := New()
	tab.Attempt("mod.x", typeterm.Single(typeterm.FQNTerm("mod.y")))
	r := tab.Attempt("mod.x", typeterm.Single(typeterm.FQNTerm("mod.y")))
	assert.Nil(t, r)
}

func TestAttemptNoChangeWhenSubset(t *testing.T) {
	tab := New()
	big := typeterm.Make(typeterm.FQNTerm("mod.y"), typeterm.FQNTerm("mod.z"))
	tab.Attempt("mod.x", big)
	r := tab.Attempt("mod.x", typeterm.Single(typeterm.FQNTerm("mod.y")))
	assert.Nil(t, r)
	u, _ := tab.Lookup("mod.x")
	assert.True(t, u.Equal(big))
}

func TestAttemptRejectsIncompatibleAndLeavesTableUnchanged(t *testing.T) {
	tab := New()
	tab.Attempt("mod.x", typeterm.Single(typeterm.FQNTerm("mod.y")))
	r := tab.Attempt("mod.x", typeterm.Single(typeterm.FQNTerm("mod.z")))
	assert.NotNil(t, r)
	assert.Equal(t, "mod.x", r.FQN)

	u, _ := tab.Lookup("mod.x")
	assert.True(t, u.Equal(typeterm.Single(typeterm.FQNTerm("mod.y"))), "table must be unchanged until merge")
}

func TestMergeRejectGrowsTableMonotonically(t *testing.T) {
	tab := New()
	tab.Attempt("mod.x", typeterm.Single(typeterm.FQNTerm("mod.y")))
	r := tab.Attempt("mod.x", typeterm.Single(typeterm.FQNTerm("mod.z")))
	tab.MergeReject(*r)

	u, _ := tab.Lookup("mod.x")
	assert.True(t, u.Contains(typeterm.FQNTerm("mod.y")))
	assert.True(t, u.Contains(typeterm.FQNTerm("mod.z")))
}

func TestKeysAreSorted(t *testing.T) {
	tab := New()
	tab.Attempt("mod.b", typeterm.Empty)
	tab.Attempt("mod.a", typeterm.Empty)
	keys := tab.Keys()
	for i := 1; i < len(keys); i++ {
		assert.True(t, keys[i-1] < keys[i])
	}
}
