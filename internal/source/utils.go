package source

import (
	"bytes"
	"path/filepath"
	"slices"
)

var (
	utf8BOM = []byte{0xEF, 0xBB, 0xBF}
	crlf    = []byte("\r\n")
	lf      = []byte("\n")
)

// normalizeCRLF turns every \r\n into \n; a lone \r is kept.
func normalizeCRLF(content []byte) ([]byte, bool) {
	if !bytes.Contains(content, crlf) {
		return content, false
	}
	return bytes.ReplaceAll(content, crlf, lf), true
}

func removeBOM(content []byte) ([]byte, bool) {
	if rest, ok := bytes.CutPrefix(content, utf8BOM); ok {
		return rest, true
	}
	return content, false
}

// buildLineIndex records the offset of every '\n'.
func buildLineIndex(content []byte) []uint32 {
	idx := make([]uint32, 0, bytes.Count(content, lf))
	for off := 0; ; {
		n := bytes.IndexByte(content[off:], '\n')
		if n < 0 {
			return idx
		}
		off += n
		idx = append(idx, uint32(off)) //nolint:gosec // bounded by FileSet.Add
		off++
	}
}

func toLineCol(lineIdx []uint32, off uint32) LineCol {
	// newlines strictly before off give the 0-based line
	line, _ := slices.BinarySearch(lineIdx, off)
	lineStart := uint32(0)
	if line > 0 {
		lineStart = lineIdx[line-1] + 1
	}
	return LineCol{Line: uint32(line) + 1, Col: off - lineStart + 1} //nolint:gosec
}

func normalizePath(p string) string {
	return filepath.ToSlash(filepath.Clean(p))
}
