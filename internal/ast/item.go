package ast

import (
	"ohdl/internal/arena"
	"ohdl/internal/source"
)

type ItemKind uint8

const (
	ItemInvalid ItemKind = iota
	ItemRecord
	ItemEnum
	ItemEntity
	ItemMod
	ItemUse
)

func (k ItemKind) String() string {
	switch k {
	case ItemRecord:
		return "record"
	case ItemEnum:
		return "enum"
	case ItemEntity:
		return "entity"
	case ItemMod:
		return "mod"
	case ItemUse:
		return "use"
	default:
		return "invalid"
	}
}

// Item is a top-level or module-level declaration. Payload indexes the
// per-kind arena selected by Kind.
type Item struct {
	Kind    ItemKind
	Span    source.Span
	Payload PayloadID
}

// Path is a `::`-separated reference such as io::Bus.
type Path []source.Ident

type FieldDecl struct {
	Name source.Ident
	Type Path
	Span source.Span
}

type RecordItem struct {
	Name   source.Ident
	Fields []FieldDecl
}

type EnumItem struct {
	Name     source.Ident
	Variants []source.Ident
}

type PortDir uint8

const (
	PortIn PortDir = iota
	PortOut
	PortInOut
)

type PortDecl struct {
	Dir  PortDir
	Name source.Ident
	Type Path
	Span source.Span
}

type EntityItem struct {
	Name  source.Ident
	Ports []PortDecl
}

type ModItem struct {
	Name  source.Ident
	Items []ItemID
}

// UseItem imports Path under Alias, or under the last path segment when
// Alias is not set.
type UseItem struct {
	Path  Path
	Alias source.Ident
}

// Binding is the name the import introduces.
func (u *UseItem) Binding() source.Ident {
	if u.Alias.IsValid() {
		return u.Alias
	}
	if len(u.Path) == 0 {
		return source.Ident{}
	}
	return u.Path[len(u.Path)-1]
}

type Items struct {
	Arena    *arena.Registry[ItemID, Item]
	Records  *arena.Registry[PayloadID, RecordItem]
	Enums    *arena.Registry[PayloadID, EnumItem]
	Entities *arena.Registry[PayloadID, EntityItem]
	Mods     *arena.Registry[PayloadID, ModItem]
	Uses     *arena.Registry[PayloadID, UseItem]
}

// NewItems creates per-kind arenas; capHint 0 means 1<<6.
func NewItems(capHint uint) *Items {
	if capHint == 0 {
		capHint = 1 << 6
	}
	return &Items{
		Arena:    arena.New[ItemID, Item](capHint),
		Records:  arena.New[PayloadID, RecordItem](capHint),
		Enums:    arena.New[PayloadID, EnumItem](capHint),
		Entities: arena.New[PayloadID, EntityItem](capHint),
		Mods:     arena.New[PayloadID, ModItem](capHint / 4),
		Uses:     arena.New[PayloadID, UseItem](capHint / 4),
	}
}

func (i *Items) New(kind ItemKind, span source.Span, payload PayloadID) ItemID {
	return i.Arena.Insert(Item{Kind: kind, Span: span, Payload: payload})
}

func (i *Items) Get(id ItemID) *Item {
	return i.Arena.Get(id)
}

func (i *Items) NewRecord(name source.Ident, fields []FieldDecl, span source.Span) ItemID {
	payload := i.Records.Insert(RecordItem{Name: name, Fields: fields})
	return i.New(ItemRecord, span, payload)
}

func (i *Items) NewEnum(name source.Ident, variants []source.Ident, span source.Span) ItemID {
	payload := i.Enums.Insert(EnumItem{Name: name, Variants: variants})
	return i.New(ItemEnum, span, payload)
}

func (i *Items) NewEntity(name source.Ident, ports []PortDecl, span source.Span) ItemID {
	payload := i.Entities.Insert(EntityItem{Name: name, Ports: ports})
	return i.New(ItemEntity, span, payload)
}

func (i *Items) NewMod(name source.Ident, items []ItemID, span source.Span) ItemID {
	payload := i.Mods.Insert(ModItem{Name: name, Items: items})
	return i.New(ItemMod, span, payload)
}

func (i *Items) NewUse(path Path, alias source.Ident, span source.Span) ItemID {
	payload := i.Uses.Insert(UseItem{Path: path, Alias: alias})
	return i.New(ItemUse, span, payload)
}

func (i *Items) Record(item *Item) (*RecordItem, bool) {
	if item == nil || item.Kind != ItemRecord {
		return nil, false
	}
	return i.Records.Get(item.Payload), true
}

func (i *Items) Enum(item *Item) (*EnumItem, bool) {
	if item == nil || item.Kind != ItemEnum {
		return nil, false
	}
	return i.Enums.Get(item.Payload), true
}

func (i *Items) Entity(item *Item) (*EntityItem, bool) {
	if item == nil || item.Kind != ItemEntity {
		return nil, false
	}
	return i.Entities.Get(item.Payload), true
}

func (i *Items) Mod(item *Item) (*ModItem, bool) {
	if item == nil || item.Kind != ItemMod {
		return nil, false
	}
	return i.Mods.Get(item.Payload), true
}

func (i *Items) Use(item *Item) (*UseItem, bool) {
	if item == nil || item.Kind != ItemUse {
		return nil, false
	}
	return i.Uses.Get(item.Payload), true
}
