package diag

import (
	"fmt"
	"strings"

	"ohdl/internal/source"
)

// FormatShort renders diagnostics one per line as
// `SEVERITY CODE path:line:col message`. Notes follow their diagnostic,
// indented, when includeNotes is set. Output order is the input order.
func FormatShort(diags []Diagnostic, fs *source.FileSet, includeNotes bool) string {
	if len(diags) == 0 {
		return ""
	}
	var b strings.Builder
	for i, d := range diags {
		if i > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "%s %s %s %s", d.Severity, d.Code.ID(), position(fs, d.Primary), d.Message)
		if !includeNotes {
			continue
		}
		for _, n := range d.Notes {
			fmt.Fprintf(&b, "\n  note %s %s", position(fs, n.Span), n.Msg)
		}
	}
	return b.String()
}

func position(fs *source.FileSet, sp source.Span) string {
	if fs == nil || fs.Get(sp.File) == nil {
		return sp.String()
	}
	start, _ := fs.Resolve(sp)
	return fmt.Sprintf("%s:%d:%d", fs.DisplayPath(sp.File), start.Line, start.Col)
}
