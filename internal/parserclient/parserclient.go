// Package parserclient implements the subprocess protocol for invoking
// an external parser: running it with a fixed flag set, waiting for it
// to exit, and decoding its two-JSON-value output file. The output
// file is created with a scoped lifetime — removed on every exit path,
// whether the subprocess fails or the decode step does.
package parserclient

import (
	"encoding/json"
	"fmt"
	"os"
	"os/exec"

	"pykythego/internal/diag"
	"pykythego/internal/rawast"
)

// Request carries the values passed to the parser subprocess's flags.
type Request struct {
	ParseCmd      string
	KytheCorpus   string
	KytheRoot     string
	PythonVersion int
	Src           string
	Module        string
}

// Invoke spawns the parser subprocess, waits for it to exit, and decodes
// its output file into a Meta plus the raw AST root. The temp output
// file is created and removed here, regardless of how the subprocess or
// the decode step fails.
func Invoke(req Request) (rawast.Meta, json.RawMessage, error) {
	out, err := os.CreateTemp("", "pykythego-ast-*.json")
	if err != nil {
		return rawast.Meta{}, nil, diag.ParserError("failed to create parser output file", err)
	}
	outPath := out.Name()
	out.Close()
	defer os.Remove(outPath)

	cmd := exec.Command(req.ParseCmd,
		fmt.Sprintf("--kythe-corpus=%s", req.KytheCorpus),
		fmt.Sprintf("--kythe-root=%s", req.KytheRoot),
		fmt.Sprintf("--python_version=%d", req.PythonVersion),
		fmt.Sprintf("--src=%s", req.Src),
		fmt.Sprintf("--module=%s", req.Module),
		fmt.Sprintf("--out_fqn_expr=%s", outPath),
	)
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		return rawast.Meta{}, nil, diag.ParserError(
			fmt.Sprintf("parser command %q failed", req.ParseCmd), err)
	}

	f, err := os.Open(outPath)
	if err != nil {
		return rawast.Meta{}, nil, diag.ParserError("failed to open parser output file", err)
	}
	defer f.Close()

	meta, root, err := rawast.DecodeStream(f)
	if err != nil {
		return rawast.Meta{}, nil, diag.ParserError("malformed parser output", err)
	}
	return meta, root, nil
}
