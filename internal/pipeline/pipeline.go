// Package pipeline implements the control-flow orchestration of one
// analysis run: canonicalize the source path, invoke the parser,
// simplify and extract its AST, drive the fixpoint evaluator, and
// emit the resulting Kythe facts/edges. Each stage returns early on
// its own failure rather than pressing on with partial state.
package pipeline

import (
	"io"

	"pykythego/internal/cooked"
	"pykythego/internal/diag"
	"pykythego/internal/emit"
	"pykythego/internal/eval"
	"pykythego/internal/extract"
	"pykythego/internal/fixpoint"
	"pykythego/internal/importpath"
	"pykythego/internal/kythe"
	"pykythego/internal/parserclient"
	"pykythego/internal/symtab"
)

// Options is the resolved set of CLI inputs the pipeline needs, the
// single-file analogue of config.Options that also carries the
// already-parsed PythonPath/RootPath slices and python-version int.
type Options struct {
	ParseCmd      string
	KytheCorpus   string
	KytheRoot     string
	PythonPath    []string
	RootPath      []string
	PythonVersion int
	Src           string
}

// Run executes one full analysis of Opts.Src and writes its Kythe
// facts/edges as ndjson to w.
func Run(opts Options, w io.Writer) error {
	relSrc, ok := importpath.Canonicalize(opts.Src, opts.RootPath)
	if !ok {
		return diag.InvariantError("source path is not reachable under any --rootpath entry")
	}
	module := importpath.ModuleFromPath(relSrc)

	meta, root, err := parserclient.Invoke(parserclient.Request{
		ParseCmd:      opts.ParseCmd,
		KytheCorpus:   opts.KytheCorpus,
		KytheRoot:     opts.KytheRoot,
		PythonVersion: opts.PythonVersion,
		Src:           opts.Src,
		Module:        module,
	})
	if err != nil {
		return err
	}

	metaRelPath, ok := importpath.Canonicalize(meta.Path, opts.RootPath)
	if !ok {
		return diag.InvariantError("parser-reported Meta.path is not reachable under any --rootpath entry")
	}
	if derived := importpath.ModuleFromPath(metaRelPath); derived != module {
		return diag.InvariantError(
			"derived module FQN " + derived + " disagrees with requested module " + module)
	}

	node, err := cooked.Simplify(root)
	if err != nil {
		return diag.ParserError("malformed AST from parser", err)
	}

	content, err := emit.Contents(meta.ContentsB64)
	if err != nil {
		return diag.ParserError("malformed Meta.contents_b64", err)
	}

	stamp := eval.Stamp{
		Corpus:   meta.KytheCorpus,
		Root:     meta.KytheRoot,
		Path:     metaRelPath,
		Language: meta.Language,
	}

	fileDir := dirOf(metaRelPath)
	extractor := extract.New(stamp, kythe.NewStore(), fileDir)
	extractor.Eval(node)

	table := symtab.New()
	driver := fixpoint.New(table, extractor.Deferred, stamp)
	store, _ := driver.Run()

	// Pass 1's anchor/binding facts live in the extractor's own store;
	// fold them into the final pass's store so both are emitted.
	for _, f := range extractor.Store.Facts() {
		store.AddFact(f.Source, f.Name, f.Value)
	}
	for _, e := range extractor.Store.Edges() {
		store.AddEdge(e.Source, e.Kind, e.Target)
	}

	emit.AddFileFacts(store, stamp, content)
	emit.AddSymtabSnapshot(store, stamp, table)

	return emit.WriteNDJSON(w, store)
}

// dirOf returns the directory portion of a forward-slash path, or "" for
// a path with no directory component.
func dirOf(p string) string {
	for i := len(p) - 1; i >= 0; i-- {
		if p[i] == '/' {
			return p[:i]
		}
	}
	return ""
}
