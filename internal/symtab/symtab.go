// Package symtab implements the FQN-based symbol table: a total mapping
// from fully-qualified name to union type, seeded with built-ins and
// mutated only through the reject-driven registration rules the fixpoint
// driver relies on for monotonic growth.
package symtab

import (
	"sort"

	"pykythego/internal/typeterm"
)

// Reject records a registration attempt that conflicted with the table's
// current entry for FQN; the fixpoint driver merges these back into the
// table at the pass boundary via union, guaranteeing the table never
// shrinks.
type Reject struct {
	FQN  string
	Type typeterm.Union
}

// Table is the symbol table: FQN -> union type. It is not safe for
// concurrent use; the whole analysis is single-threaded by design, so
// no locking is attempted here.
type Table struct {
	entries map[string]typeterm.Union
}

// New returns a table seeded with the standard built-in classes str and
// Number. Typeshed-derived built-ins beyond those two are deliberately
// absent; references to them resolve to empty unions rather than
// erroring.
func New() *Table {
	t := &Table{entries: make(map[string]typeterm.Union)}
	t.entries["builtin.str"] = typeterm.Single(typeterm.ClassTerm("builtin.str", nil))
	t.entries["builtin.Number"] = typeterm.Single(typeterm.ClassTerm("builtin.Number", nil))
	return t
}

// Lookup returns the union currently bound to fqn, and whether an entry
// exists at all (an existing entry may legitimately be empty).
func (t *Table) Lookup(fqn string) (typeterm.Union, bool) {
	u, ok := t.entries[fqn]
	return u, ok
}

// Attempt implements the per-registration rule: absent keys and no-op
// registrations (equal or subset) are applied immediately
// because they can never un-learn information; anything else is handed
// back as a Reject for the caller to accumulate and merge at the pass
// boundary, never overwriting an existing entry in place.
func (t *Table) Attempt(fqn string, proposed typeterm.Union) *Reject {
	current, ok := t.entries[fqn]
	if !ok {
		t.entries[fqn] = proposed
		return nil
	}
	if proposed.Equal(current) {
		return nil
	}
	if proposed.Subset(current) {
		return nil
	}
	return &Reject{FQN: fqn, Type: proposed}
}

// MergeReject folds a reject back into the table by union. This is
// the only path by which an existing entry's value can grow beyond
// what Attempt already applied.
func (t *Table) MergeReject(r Reject) {
	t.entries[r.FQN] = typeterm.Merge(t.entries[r.FQN], r.Type)
}

// Keys returns every bound FQN in canonical sorted order, the order the
// fixpoint driver synthesizes Expr obligations in.
func (t *Table) Keys() []string {
	keys := make([]string, 0, len(t.entries))
	for k := range t.entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Snapshot returns an immutable copy of the table's current contents,
// used both for the /kythe/x-symtab debug fact and for the monotonicity
// tests that compare two passes' tables.
func (t *Table) Snapshot() map[string]typeterm.Union {
	out := make(map[string]typeterm.Union, len(t.entries))
	for k, v := range t.entries {
		out[k] = v
	}
	return out
}
