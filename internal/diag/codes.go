package diag

import (
	"fmt"
)

type Code uint16

const (
	// Неизвестная ошибка - на первое время
	UnknownCode Code = 0

	// Лексические
	LexInfo                     Code = 1000
	LexUnknownChar              Code = 1001
	LexUnterminatedBlockComment Code = 1002

	// Парсерные
	SynInfo             Code = 2000
	SynUnexpectedToken  Code = 2001
	SynExpectIdentifier Code = 2002
	SynExpectItem       Code = 2003
	SynExpectColon      Code = 2004
	SynExpectSemicolon  Code = 2005
	SynUnclosedBrace    Code = 2006

	// Семантические
	SemaInfo                 Code = 3000
	SemaDuplicateDeclaration Code = 3001
	SemaUnresolvedImport     Code = 3002
	SemaImportCycle          Code = 3003
	SemaUnknownType          Code = 3004

	// I/O
	IOLoadFileError Code = 4001
)

var codeDescription = map[Code]string{
	UnknownCode:                 "Unknown error",
	LexInfo:                     "Lexical information",
	LexUnknownChar:              "Unknown character",
	LexUnterminatedBlockComment: "Unterminated block comment",
	SynInfo:                     "Syntax information",
	SynUnexpectedToken:          "Unexpected token",
	SynExpectIdentifier:         "Expected identifier",
	SynExpectItem:               "Expected item",
	SynExpectColon:              "Expected ':'",
	SynExpectSemicolon:          "Expected ';'",
	SynUnclosedBrace:            "Unclosed brace",
	SemaInfo:                    "Semantic information",
	SemaDuplicateDeclaration:    "Name already in scope",
	SemaUnresolvedImport:        "Unresolved import",
	SemaImportCycle:             "Import cycle",
	SemaUnknownType:             "Unknown type",
	IOLoadFileError:             "I/O load file error",
}

// ID returns the stable short identifier, e.g. SEM3001.
func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("LEX%04d", ic)
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("SYN%04d", ic)
	case ic >= 3000 && ic < 4000:
		return fmt.Sprintf("SEM%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("IO%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[UnknownCode]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
