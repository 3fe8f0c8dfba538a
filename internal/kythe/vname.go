// Package kythe models the Kythe fact/edge wire schema and provides
// the de-duplicating Store the rest of the pipeline accumulates into:
// map-indexed sets of fact and edge records, each kept in insertion
// order, built up
// incrementally as a file is walked and drained once at the end.
package kythe

import "strconv"

// VName is a Kythe node identifier tuple. Fields are omitted from the
// wire form when empty.
type VName struct {
	Corpus    string `json:"corpus,omitempty"`
	Root      string `json:"root,omitempty"`
	Path      string `json:"path,omitempty"`
	Language  string `json:"language,omitempty"`
	Signature string `json:"signature,omitempty"`
}

// File stamps a VName as the file node itself: no signature, no
// language, just the corpus/root/path triple.
func File(corpus, root, path string) VName {
	return VName{Corpus: corpus, Root: root, Path: path}
}

// Anchor stamps a VName for a source span using the "@start:end"
// signature convention.
func Anchor(corpus, root, path string, start, end int) VName {
	return VName{
		Corpus:    corpus,
		Root:      root,
		Path:      path,
		Signature: anchorSignature(start, end),
	}
}

// NodeVName stamps a VName for a named symbol: signature is the FQN,
// language is carried, path is omitted.
func NodeVName(corpus, root, language, fqn string) VName {
	return VName{Corpus: corpus, Root: root, Language: language, Signature: fqn}
}

func anchorSignature(start, end int) string {
	return "@" + strconv.Itoa(start) + ":" + strconv.Itoa(end)
}
