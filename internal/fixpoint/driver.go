// Package fixpoint drives a bounded fixpoint loop: repeated evaluator
// passes over the deferred-expression list plus symbol-table
// obligations synthesized fresh each pass, merging rejects into the
// table between passes until the reject set is empty or the pass
// budget is spent. Each pass reports its own before/after counts so
// callers can see convergence (or its absence) without instrumenting
// the evaluator itself.
package fixpoint

import (
	"sort"

	"pykythego/internal/eval"
	"pykythego/internal/kythe"
	"pykythego/internal/symtab"
)

// Budget is the bounded number of passes the driver allows before it
// terminates unconditionally, to guarantee finite runtime on
// pathological inputs.
const Budget = 5

// PassResult reports one pass's outcome: how many obligations went in,
// how many rejects came out, and how large the resulting fact/edge
// store grew.
type PassResult struct {
	Pass       int
	Deferred   int
	Rejects    int
	FactCount  int
	EdgeCount  int
	Terminated bool
}

// Driver owns the symbol table, the original deferred-expression list
// (from Pass 1), and the stamping/VName configuration the evaluator
// needs to construct a fresh Store each pass.
type Driver struct {
	Table    *symtab.Table
	Deferred []eval.Deferred
	Stamp    eval.Stamp
}

// New returns a Driver ready to run.
func New(table *symtab.Table, deferred []eval.Deferred, stamp eval.Stamp) *Driver {
	return &Driver{Table: table, Deferred: deferred, Stamp: stamp}
}

// Run executes the fixpoint loop and returns the final pass's Kythe
// store — only the last pass's facts/edges are ever kept — along with
// a PassResult per pass for diagnostics.
func (d *Driver) Run() (*kythe.Store, []PassResult) {
	var results []PassResult
	var lastStore *kythe.Store

	for pass := 1; pass <= Budget; pass++ {
		store := kythe.NewStore()
		evaluator := eval.New(d.Table, store, d.Stamp)

		obligations := d.synthesize()
		rejects := evaluator.Run(obligations)

		for _, r := range rejects {
			d.Table.MergeReject(r)
		}

		lastStore = store
		results = append(results, PassResult{
			Pass:      pass,
			Deferred:  len(obligations),
			Rejects:   len(rejects),
			FactCount: len(store.Facts()),
			EdgeCount: len(store.Edges()),
		})

		if len(rejects) == 0 {
			results[len(results)-1].Terminated = true
			break
		}
	}

	return lastStore, results
}

// synthesize turns every non-empty symbol-table entry into an Expr
// obligation, in canonical FQN order, concatenated after the original
// deferred list from Pass 1, then deduplicates by key.
func (d *Driver) synthesize() []eval.Deferred {
	snapshot := d.Table.Snapshot()
	keys := make([]string, 0, len(snapshot))
	for k, u := range snapshot {
		if !u.IsEmpty() {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	combined := make([]eval.Deferred, 0, len(d.Deferred)+len(keys))
	combined = append(combined, d.Deferred...)
	for _, k := range keys {
		combined = append(combined, eval.Expr(snapshot[k]))
	}

	seen := make(map[string]bool, len(combined))
	out := make([]eval.Deferred, 0, len(combined))
	for _, item := range combined {
		k := item.Key()
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, item)
	}
	return out
}
