package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"ohdl/internal/diag"
	"ohdl/internal/source"
)

type palette struct {
	err, warn, info *color.Color
	note            *color.Color
	path            *color.Color
	gutter          *color.Color
	caret           *color.Color
}

func newPalette(enabled bool) palette {
	mk := func(attrs ...color.Attribute) *color.Color {
		c := color.New(attrs...)
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
		return c
	}
	return palette{
		err:    mk(color.FgRed, color.Bold),
		warn:   mk(color.FgYellow, color.Bold),
		info:   mk(color.FgCyan, color.Bold),
		note:   mk(color.FgBlue, color.Bold),
		path:   mk(color.Bold),
		gutter: mk(color.FgBlue),
		caret:  mk(color.FgGreen, color.Bold),
	}
}

func (p palette) severity(s diag.Severity) *color.Color {
	switch s {
	case diag.SevError:
		return p.err
	case diag.SevWarning:
		return p.warn
	default:
		return p.info
	}
}

// Pretty форматирует диагностики в человекочитаемый вид.
// Идёт по bag.Items() (ожидается bag.Sort() заранее).
// Для каждого diag печатает:
// <path>:<line>:<col>: <SEV> <CODE>: <Message>
// затем контекст строки с подчёркиванием ^~~~ по Span, затем Notes с аналогичным форматом.
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) {
	PrettyItems(w, bag.Items(), fs, opts)
}

// PrettyItems is Pretty over an explicit slice, e.g. one cached on disk.
func PrettyItems(w io.Writer, items []diag.Diagnostic, fs *source.FileSet, opts PrettyOpts) {
	pal := newPalette(opts.Color)
	for i, d := range items {
		if i > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintf(w, "%s: %s: %s\n",
			pal.path.Sprint(location(fs, d.Primary, opts.PathMode)),
			pal.severity(d.Severity).Sprintf("%s %s", d.Severity, d.Code.ID()),
			d.Message)
		writeSnippet(w, fs, d.Primary, int(opts.Context), pal, pal.caret)
		if !opts.ShowNotes {
			continue
		}
		for _, n := range d.Notes {
			fmt.Fprintf(w, "  %s %s: %s\n", pal.note.Sprint("note:"), pal.path.Sprint(location(fs, n.Span, opts.PathMode)), n.Msg)
			writeSnippet(w, fs, n.Span, 0, pal, pal.note)
		}
	}
}

func location(fs *source.FileSet, sp source.Span, mode PathMode) string {
	start, _ := fs.Resolve(sp)
	return fmt.Sprintf("%s:%d:%d", formatPath(fs, sp.File, mode), start.Line, start.Col)
}

func writeSnippet(w io.Writer, fs *source.FileSet, sp source.Span, context int, pal palette, caret *color.Color) {
	f := fs.Get(sp.File)
	if f == nil {
		return
	}
	start, end := fs.Resolve(sp)
	gutterWidth := len(fmt.Sprint(start.Line))
	first := max(int(start.Line)-context, 1)
	for n := first; n <= int(start.Line); n++ {
		fmt.Fprintf(w, "%s %s\n", pal.gutter.Sprintf("%*d |", gutterWidth, n), f.GetLine(uint32(n))) //nolint:gosec // n is a line number
	}

	line := f.GetLine(start.Line)
	from := clampCol(line, start.Col)
	to := len(line)
	if end.Line == start.Line {
		to = clampCol(line, end.Col)
	}
	pad, marks := underline(line, from, to)
	fmt.Fprintf(w, "%s %s%s\n", pal.gutter.Sprintf("%*s |", gutterWidth, ""), pad, caret.Sprint(marks))
}

// clampCol turns a 1-based byte column into an offset within line.
func clampCol(line string, col uint32) int {
	if col == 0 {
		return 0
	}
	return min(int(col)-1, len(line))
}

// underline builds the padding up to from and the ^~~ marks for [from, to).
// Widths are display cells, so wide runes keep the caret aligned.
func underline(line string, from, to int) (string, string) {
	var pad strings.Builder
	for _, r := range line[:from] {
		if r == '\t' {
			pad.WriteByte('\t')
			continue
		}
		pad.WriteString(strings.Repeat(" ", runewidth.RuneWidth(r)))
	}
	width := 1
	if to > from {
		width = max(runewidth.StringWidth(line[from:to]), 1)
	}
	return pad.String(), "^" + strings.Repeat("~", width-1)
}
