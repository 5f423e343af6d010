package source

import (
	"fmt"
	"strings"

	"fortio.org/safecast"
)

// StringID names an interned string. NoStringID is the empty string and
// doubles as "absent".
type StringID uint32

const NoStringID StringID = 0

// Interner de-duplicates identifier text. One interner belongs to one
// compilation unit; it is not safe for concurrent use.
type Interner struct {
	texts []string
	ids   map[string]StringID
}

func NewInterner() *Interner {
	return &Interner{
		texts: []string{""},
		ids:   map[string]StringID{"": NoStringID},
	}
}

// Intern returns the id of s, allocating one on first sight. The stored
// text is a copy so file buffers are not retained.
func (i *Interner) Intern(s string) StringID {
	if id, ok := i.ids[s]; ok {
		return id
	}
	next, err := safecast.Conv[uint32](len(i.texts))
	if err != nil {
		panic(fmt.Errorf("interner overflow: %w", err))
	}
	owned := strings.Clone(s)
	i.texts = append(i.texts, owned)
	i.ids[owned] = StringID(next)
	return StringID(next)
}

// Lookup returns the text for id, or false when id was not produced here.
func (i *Interner) Lookup(id StringID) (string, bool) {
	if int(id) >= len(i.texts) {
		return "", false
	}
	return i.texts[id], true
}

func (i *Interner) MustLookup(id StringID) string {
	s, ok := i.Lookup(id)
	if !ok {
		panic(fmt.Sprintf("string id %d not interned", id))
	}
	return s
}

func (i *Interner) Has(id StringID) bool {
	_, ok := i.Lookup(id)
	return ok
}

// Len counts NoStringID too, so it is never below 1.
func (i *Interner) Len() int { return len(i.texts) }
