package irdump

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

type render func(string) string

type styles struct {
	module     render
	kind       render
	id         render
	unresolved render
}

func newStyles(w io.Writer, styled bool) styles {
	if !styled {
		plain := func(s string) string { return s }
		return styles{module: plain, kind: plain, id: plain, unresolved: plain}
	}
	r := lipgloss.NewRenderer(w)
	return styles{
		module:     with(r.NewStyle().Bold(true).Underline(true)),
		kind:       with(r.NewStyle().Foreground(lipgloss.Color("5"))),
		id:         with(r.NewStyle().Faint(true)),
		unresolved: with(r.NewStyle().Foreground(lipgloss.Color("1"))),
	}
}

func with(style lipgloss.Style) render {
	return func(s string) string { return style.Render(s) }
}

// Text writes a tree of modules and their declarations:
//
//	module #1 <root>
//	  record #2 Pixel
//	    c: Color -> #1 Color
func Text(w io.Writer, snap Snapshot, styled bool) error {
	st := newStyles(w, styled)
	names := make(map[uint32]string, len(snap.Types))
	for _, t := range snap.Types {
		names[t.ID] = t.Name
	}
	byModule := make(map[uint32][]TypeSnap)
	for _, t := range snap.Types {
		byModule[t.Module] = append(byModule[t.Module], t)
	}

	var b strings.Builder
	for _, m := range snap.Modules {
		fmt.Fprintf(&b, "%s %s", st.module("module"), st.id(fmt.Sprintf("#%d", m.ID)))
		fmt.Fprintf(&b, " %s", m.Name)
		if m.Parent != 0 {
			fmt.Fprintf(&b, " (in #%d)", m.Parent)
		}
		b.WriteByte('\n')
		for _, t := range byModule[m.ID] {
			fmt.Fprintf(&b, "  %s %s %s\n", st.kind(t.Kind), st.id(fmt.Sprintf("#%d", t.ID)), t.Name)
			for _, f := range t.Fields {
				b.WriteString("    ")
				if f.Dir != "" {
					b.WriteString(f.Dir + " ")
				}
				fmt.Fprintf(&b, "%s: %s -> ", f.Name, f.Type)
				if f.Target == 0 {
					b.WriteString(st.unresolved("unresolved"))
				} else {
					fmt.Fprintf(&b, "#%d %s", f.Target, names[f.Target])
				}
				b.WriteByte('\n')
			}
			if len(t.Variants) > 0 {
				fmt.Fprintf(&b, "    = %s\n", strings.Join(t.Variants, " | "))
			}
		}
	}
	_, err := io.WriteString(w, b.String())
	return err
}
