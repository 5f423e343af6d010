package token

import "ohdl/internal/source"

// Token is a significant lexeme. Comments and whitespace are dropped.
type Token struct {
	Kind Kind
	Span source.Span
	Text string
}

var keywords = map[string]Kind{
	"record": KwRecord,
	"enum":   KwEnum,
	"entity": KwEntity,
	"mod":    KwMod,
	"use":    KwUse,
	"as":     KwAs,
	"in":     KwIn,
	"out":    KwOut,
	"inout":  KwInOut,
}

// LookupKeyword maps identifier text to its keyword kind, or Ident.
func LookupKeyword(text string) Kind {
	if k, ok := keywords[text]; ok {
		return k
	}
	return Ident
}
