// Package ir holds the source-position primitives shared by every later
// stage of the pipeline: the simplifier, the extractor, the evaluator and
// the emitter all thread the same Astn value through without reinterpreting
// it.
package ir

// Astn is a source-position token: a byte-offset span into the original
// file plus the literal text the parser captured there. It is immutable
// once constructed and is compared by value.
type Astn struct {
	Start int    `json:"start"`
	End   int    `json:"end"`
	Value string `json:"value"`
}

// Position pairs the line/column an upstream parser may report instead of
// a byte span with the absolute byte offset it converts to (see
// LineOffsets). Most parser output already carries byte offsets; Position
// exists for parsers that don't.
type Position struct {
	Line       int
	Column     int
	ByteOffset int
}

// LineOffsets maps 1-based line numbers to the byte offset of that line's
// first character, mirroring the line_offsets table the upstream Python
// implementation builds once per file.
type LineOffsets []int

// ByteOffset converts a 1-based line/column pair into an absolute byte
// offset using the table built by BuildLineOffsets. Column is 0-based.
func (lo LineOffsets) ByteOffset(line, column int) int {
	if line < 1 || line > len(lo) {
		return -1
	}
	return lo[line-1] + column
}

// BuildLineOffsets scans content once and records the byte offset of the
// start of every line, including the implicit first line.
func BuildLineOffsets(content []byte) LineOffsets {
	offsets := LineOffsets{0}
	for i, b := range content {
		if b == '\n' {
			offsets = append(offsets, i+1)
		}
	}
	return offsets
}

// NumLines reports the line count used for the file node's
// /kythe/x-numlines fact, counting a trailing partial line.
func NumLines(content []byte) int {
	if len(content) == 0 {
		return 0
	}
	n := 1
	for _, b := range content {
		if b == '\n' {
			n++
		}
	}
	if content[len(content)-1] == '\n' {
		n--
	}
	return n
}
