package eval

import "pykythego/internal/kythe"

// Stamp carries the process-scoped Meta fields needed to build
// every VName the evaluator and extractor emit.
type Stamp struct {
	Corpus   string
	Root     string
	Path     string
	Language string
}

// Anchor stamps a source-span VName.
func (s Stamp) Anchor(start, end int) kythe.VName {
	return kythe.Anchor(s.Corpus, s.Root, s.Path, start, end)
}

// Node stamps a named-symbol VName for fqn.
func (s Stamp) Node(fqn string) kythe.VName {
	return kythe.NodeVName(s.Corpus, s.Root, s.Language, fqn)
}

// ImportTarget stamps a VName for an attribute reached through an
// imported module path, using a "Path::attr" signature convention.
func (s Stamp) ImportTarget(path, attr string) kythe.VName {
	return kythe.NodeVName(s.Corpus, s.Root, s.Language, path+"::"+attr)
}

// File stamps the file's own VName.
func (s Stamp) File() kythe.VName {
	return kythe.File(s.Corpus, s.Root, s.Path)
}
