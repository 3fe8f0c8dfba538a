// Package emit drains a completed run's Kythe store into the
// newline-delimited JSON wire form, and adds the file-level and
// symbol-table debug facts that round out a run: node kind, raw text,
// and line count for the file node itself, plus a pretty-printed
// snapshot of the final symbol table for inspection.
package emit

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"

	"github.com/davecgh/go-spew/spew"

	"pykythego/internal/eval"
	"pykythego/internal/ir"
	"pykythego/internal/kythe"
	"pykythego/internal/symtab"
)

// AddFileFacts writes the file node's own facts: node/kind
// = file, the raw source text, and the line count, all keyed off the
// file's own VName rather than any anchor.
func AddFileFacts(store *kythe.Store, stamp eval.Stamp, content []byte) {
	file := stamp.File()
	store.AddStringFact(file, kythe.FactNodeKind, kythe.NodeKindFile)
	store.AddFact(file, kythe.FactText, content)
	store.AddStringFact(file, kythe.FactNumLines, fmt.Sprint(ir.NumLines(content)))
}

// AddSymtabSnapshot writes the /kythe/x-symtab debug fact: the final
// symbol table, pretty-printed with go-spew so the snapshot is
// human-readable without hand-rolling a formatter, keyed on the file's
// own VName.
func AddSymtabSnapshot(store *kythe.Store, stamp eval.Stamp, table *symtab.Table) {
	file := stamp.File()
	dump := spew.Sdump(table.Snapshot())
	store.AddStringFact(file, kythe.FactSymtab, dump)
}

// WriteNDJSON drains store's facts and then its edges, in the Store's
// own insertion order, as one JSON object per line.
func WriteNDJSON(w io.Writer, store *kythe.Store) error {
	enc := json.NewEncoder(w)
	for _, f := range store.Facts() {
		if err := enc.Encode(kythe.FactEntry(f)); err != nil {
			return fmt.Errorf("emit: encoding fact: %w", err)
		}
	}
	for _, e := range store.Edges() {
		if err := enc.Encode(kythe.EdgeEntry(e)); err != nil {
			return fmt.Errorf("emit: encoding edge: %w", err)
		}
	}
	return nil
}

// Contents base64-decodes a Meta.contents_b64 field so internal/pipeline
// doesn't need its own encoding/base64 import.
func Contents(contentsB64 string) ([]byte, error) {
	return base64.StdEncoding.DecodeString(contentsB64)
}
