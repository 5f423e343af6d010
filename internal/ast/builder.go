package ast

import (
	"ohdl/internal/arena"
	"ohdl/internal/source"
)

type File struct {
	Span  source.Span
	Items []ItemID
}

// Builder owns the syntax tree of one compilation unit.
type Builder struct {
	Files   *arena.Registry[FileID, File]
	Items   *Items
	Strings *source.Interner
}

// NewBuilder creates an empty tree. If strings is nil a fresh interner is used.
func NewBuilder(strings *source.Interner) *Builder {
	if strings == nil {
		strings = source.NewInterner()
	}
	return &Builder{
		Files:   arena.New[FileID, File](1),
		Items:   NewItems(0),
		Strings: strings,
	}
}

func (b *Builder) NewFile(sp source.Span) FileID {
	return b.Files.Insert(File{Span: sp})
}

func (b *Builder) PushItem(file FileID, item ItemID) {
	f := b.Files.MustGet(file)
	f.Items = append(f.Items, item)
}

// Ident interns name at span; handy for building trees without a parser.
func (b *Builder) Ident(name string, span source.Span) source.Ident {
	return source.Ident{Name: b.Strings.Intern(name), Span: span}
}
