package token

// Kind represents the category of a source token.
type Kind uint8

const (
	// Invalid indicates an erroneous token.
	Invalid Kind = iota
	// EOF marks the end of the source input.
	EOF
	// Ident represents an identifier token.
	Ident

	KwRecord // record
	KwEnum   // enum
	KwEntity // entity
	KwMod    // mod
	KwUse    // use
	KwAs     // as
	KwIn     // in
	KwOut    // out
	KwInOut  // inout

	LBrace     // {
	RBrace     // }
	Comma      // ,
	Colon      // :
	ColonColon // ::
	Semicolon  // ;
)

var kindNames = [...]string{
	Invalid:    "invalid",
	EOF:        "end of file",
	Ident:      "identifier",
	KwRecord:   "'record'",
	KwEnum:     "'enum'",
	KwEntity:   "'entity'",
	KwMod:      "'mod'",
	KwUse:      "'use'",
	KwAs:       "'as'",
	KwIn:       "'in'",
	KwOut:      "'out'",
	KwInOut:    "'inout'",
	LBrace:     "'{'",
	RBrace:     "'}'",
	Comma:      "','",
	Colon:      "':'",
	ColonColon: "'::'",
	Semicolon:  "';'",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// IsItemStart reports whether k may begin an item; the parser
// resynchronises on these.
func (k Kind) IsItemStart() bool {
	switch k {
	case KwRecord, KwEnum, KwEntity, KwMod, KwUse:
		return true
	default:
		return false
	}
}

// IsPortDir reports whether k is a port direction keyword.
func (k Kind) IsPortDir() bool {
	return k == KwIn || k == KwOut || k == KwInOut
}
