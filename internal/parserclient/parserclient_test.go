package parserclient

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeParser writes a shell script that mimics the parser contract:
// parse its own --out_fqn_expr flag and write two concatenated JSON
// values there, then exit 0.
func fakeParser(t *testing.T, body string) string {
	dir := t.TempDir()
	path := filepath.Join(dir, "fakeparser.sh")
	script := "#!/bin/sh\nfor arg in \"$@\"; do\n  case \"$arg\" in\n    --out_fqn_expr=*) out=\"${arg#--out_fqn_expr=}\" ;;\n  esac\ndone\n" + body + "\n"
	require.NoError(t, os.WriteFile(path, []byte(script), 0o755))
	return path
}

func TestInvokeDecodesMetaAndRoot(t *testing.T) {
	parser := fakeParser(t, `printf '{"kythe_corpus":"c","kythe_root":"r","path":"mod.py","language":"python","contents_b64":"eA=="}{"kind":"Module","slots":{}}' > "$out"`)

	meta, root, err := Invoke(Request{
		ParseCmd:      parser,
		KytheCorpus:   "c",
		KytheRoot:     "r",
		PythonVersion: 3,
		Src:           "mod.py",
		Module:        "mod",
	})
	require.NoError(t, err)
	assert.Equal(t, "mod.py", meta.Path)
	assert.Equal(t, "python", meta.Language)
	assert.JSONEq(t, `{"kind":"Module","slots":{}}`, string(root))
}

func TestInvokeReportsNonzeroExitAsParserError(t *testing.T) {
	parser := fakeParser(t, "exit 1")

	_, _, err := Invoke(Request{ParseCmd: parser, Src: "mod.py", Module: "mod"})
	require.Error(t, err)
}

func TestInvokeReportsMalformedOutputAsParserError(t *testing.T) {
	parser := fakeParser(t, `printf 'not json' > "$out"`)

	_, _, err := Invoke(Request{ParseCmd: parser, Src: "mod.py", Module: "mod"})
	require.Error(t, err)
}
