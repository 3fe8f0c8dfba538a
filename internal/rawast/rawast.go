// Package rawast decodes the upstream parser's output stream: a Meta record followed by one AST root, both JSON values written
// consecutively (not wrapped in an array) to the file named by
// --out_fqn_expr. This package only performs the decode; turning the
// AST root's generic JSON shape into the closed IR is internal/cooked's
// job.
package rawast

import (
	"encoding/json"
	"fmt"
	"io"
)

// Meta is the first JSON value in the parser's output stream:
// process-scoped stamping data consumed once and then held for the
// lifetime of the run to build every VName.
type Meta struct {
	KytheCorpus string `json:"kythe_corpus"`
	KytheRoot   string `json:"kythe_root"`
	Path        string `json:"path"`
	Language    string `json:"language"`
	ContentsB64 string `json:"contents_b64"`
}

// DecodeStream reads the Meta record and the raw AST root from r. It
// relies on encoding/json.Decoder's support for consecutive top-level
// values in a single stream; the parser is required to exit 0 and write
// exactly these two values — anything else is a parser error for
// the caller to report as such.
func DecodeStream(r io.Reader) (Meta, json.RawMessage, error) {
	dec := json.NewDecoder(r)

	var meta Meta
	if err := dec.Decode(&meta); err != nil {
		return Meta{}, nil, fmt.Errorf("rawast: decoding meta: %w", err)
	}

	var root json.RawMessage
	if err := dec.Decode(&root); err != nil {
		return Meta{}, nil, fmt.Errorf("rawast: decoding ast root: %w", err)
	}

	// A well-behaved parser writes exactly two values; a trailing third
	// value means the output format disagreement is the parser's fault.
	var extra json.RawMessage
	if err := dec.Decode(&extra); err != io.EOF {
		return Meta{}, nil, fmt.Errorf("rawast: expected exactly two JSON values, found trailing data")
	}

	return meta, root, nil
}
