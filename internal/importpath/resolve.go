// Package importpath implements the import-resolution rules: normalizing
// relative and absolute `from` imports into a module path, and the
// candidate-file search order for turning a dotted module name into a
// source file. Probe is injected by the caller and consulted for a
// handful of candidate paths per import, since actual filesystem
// lookups are the caller's concern — this package specifies the
// candidate order, not the I/O.
package importpath

import (
	"path"
	"path/filepath"
	"strings"
)

// PythonPathPrefix is the placeholder root an absolute `from A.B
// import` resolves under: a non-relative "from A.B import ..." becomes
// "$PYTHONPATH/A.B". The real search roots (--pythonpath) are
// consulted only by ResolveModuleFile, not by this normalization step.
const PythonPathPrefix = "$PYTHONPATH"

// NormalizeFromImport implements the path-normalization rule for
// `from A.B import x` and `from . import x` / `from .. import x`. The
// dotted module name is never split into path segments — a non-relative
// "from a.b import ..." becomes literally "$PYTHONPATH/a.b", keeping
// the internal dot. Only directory navigation (leading relative dots
// and "..") uses slashes:
//
//   - dots == 0: "$PYTHONPATH/" + module, unmodified.
//   - dots >= 1: the first dot is the current file's own directory;
//     each additional dot appends one "/..", then the module name (if
//     any) is appended and the whole path is normalized, collapsing
//     "dir/..": "pkg/sub" + one extra dot -> "pkg/sub/.." -> "pkg".
//
// fileDir is the directory of the file being analyzed, expressed with
// forward slashes and no trailing slash.
func NormalizeFromImport(dots int, module, fileDir string) string {
	if dots == 0 {
		if module == "" {
			return PythonPathPrefix
		}
		return PythonPathPrefix + "/" + module
	}

	base := fileDir
	for i := 1; i < dots; i++ {
		base = base + "/.."
	}
	base = path.Clean(base)
	if module != "" {
		base = base + "/" + module
	}
	return base
}

// AliasPath implements "each x contributes Path/x as the resolved
// path": joining the normalized import path with the original
// (un-aliased) imported name.
func AliasPath(importPath, originalName string) string {
	return importPath + "/" + originalName
}

// StarPath implements "from M import *": a single path with target
// "*"; callers record an anchor to this path but never expand it
//.
func StarPath(importPath string) string {
	return importPath + "/*"
}

// Canonicalize implements the path-canonicalization rule: make inputPath
// absolute, then strip the first root in roots that prefixes it. The
// second return value is false when no root matches, which callers
// surface as a fatal invariant/argument error rather than proceeding
// with an uncanonicalized path.
func Canonicalize(inputPath string, roots []string) (string, bool) {
	abs, err := filepath.Abs(inputPath)
	if err != nil {
		return "", false
	}
	for _, root := range roots {
		absRoot, err := filepath.Abs(root)
		if err != nil {
			continue
		}
		if rel, ok := stripPrefix(abs, absRoot); ok {
			return rel, true
		}
	}
	return "", false
}

func stripPrefix(p, prefix string) (string, bool) {
	if p == prefix {
		return "", true
	}
	prefix = strings.TrimSuffix(prefix, "/")
	if !strings.HasPrefix(p, prefix+"/") {
		return "", false
	}
	return strings.TrimPrefix(p, prefix+"/"), true
}

// ModuleFromPath derives a dotted module FQN from a root-relative
// source path: slashes become dots and a trailing .py/.pyi suffix is
// dropped.
func ModuleFromPath(relPath string) string {
	relPath = strings.TrimSuffix(relPath, ".pyi")
	relPath = strings.TrimSuffix(relPath, ".py")
	return strings.ReplaceAll(relPath, "/", ".")
}

// Probe reports whether a candidate file path exists. Resolving a
// dotted module name into an actual source file requires filesystem
// lookups; ResolveModuleFile takes the probe as a parameter so the
// resolution *rules* stay independent of how existence is actually
// checked.
type Probe func(candidatePath string) bool

// candidateSuffixes is the fixed search order: bare-name forms before
// __init__ forms, and within each of those levels .pyi before .py, so
// a stub always wins over its same-level implementation.
var candidateSuffixes = []string{".pyi", ".py", "/__init__.pyi", "/__init__.py"}

// ResolveModuleFile searches each root in order, and within a root,
// tries each candidate suffix in priority order, returning the first
// path that probe reports as existing.
func ResolveModuleFile(modulePath string, roots []string, probe Probe) (string, bool) {
	for _, root := range roots {
		base := path.Join(root, modulePath)
		for _, suffix := range candidateSuffixes {
			candidate := base + suffix
			if probe(candidate) {
				return candidate, true
			}
		}
	}
	return "", false
}
