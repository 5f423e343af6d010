package testkit

import (
	"fmt"

	"fortio.org/safecast"

	"ohdl/internal/ast"
	"ohdl/internal/source"
)

// CheckSpanInvariants verifies the span structure of a parsed file:
// the file span lies within the content, every item is non-empty and
// inside its parent (the file or an enclosing mod), and every field and
// port lies inside its item.
func CheckSpanInvariants(b *ast.Builder, fileID ast.FileID, sf *source.File) error {
	if b == nil || sf == nil {
		return fmt.Errorf("nil builder or file")
	}
	f := b.Files.Get(fileID)
	if f == nil {
		return fmt.Errorf("file node %d not found", fileID)
	}
	if f.Span.File != sf.ID {
		return fmt.Errorf("file span points to different file id: got=%d want=%d", f.Span.File, sf.ID)
	}
	size, err := safecast.Conv[uint32](len(sf.Content))
	if err != nil {
		return fmt.Errorf("len content overflow: %w", err)
	}
	if f.Span.Start > f.Span.End || f.Span.End > size {
		return fmt.Errorf("file span %v outside content of %d bytes", f.Span, size)
	}
	return checkItems(b, f.Items, f.Span)
}

func checkItems(b *ast.Builder, ids []ast.ItemID, parent source.Span) error {
	for _, id := range ids {
		item := b.Items.Get(id)
		if item == nil {
			return fmt.Errorf("nil item for id=%d", id)
		}
		if item.Span.End <= item.Span.Start {
			return fmt.Errorf("empty %s span: %v", item.Kind, item.Span)
		}
		if !parent.Contains(item.Span) {
			return fmt.Errorf("%s span %v is outside %v", item.Kind, item.Span, parent)
		}
		if err := checkMembers(b, item); err != nil {
			return err
		}
	}
	return nil
}

func checkMembers(b *ast.Builder, item *ast.Item) error {
	var spans []source.Span
	switch item.Kind {
	case ast.ItemRecord:
		rec, _ := b.Items.Record(item)
		for _, fd := range rec.Fields {
			spans = append(spans, fd.Span)
		}
	case ast.ItemEntity:
		ent, _ := b.Items.Entity(item)
		for _, pd := range ent.Ports {
			spans = append(spans, pd.Span)
		}
	case ast.ItemEnum:
		en, _ := b.Items.Enum(item)
		for _, v := range en.Variants {
			spans = append(spans, v.Span)
		}
	case ast.ItemMod:
		mod, _ := b.Items.Mod(item)
		return checkItems(b, mod.Items, item.Span)
	}
	for _, sp := range spans {
		if !item.Span.Contains(sp) {
			return fmt.Errorf("member span %v is outside %s %v", sp, item.Kind, item.Span)
		}
	}
	return nil
}
