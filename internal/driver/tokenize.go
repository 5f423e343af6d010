package driver

import (
	"ohdl/internal/diag"
	"ohdl/internal/lexer"
	"ohdl/internal/source"
	"ohdl/internal/token"
)

// Tokenize lexes one loaded file; the EOF token is included.
func Tokenize(fs *source.FileSet, id source.FileID, maxDiagnostics int) ([]token.Token, *diag.Bag) {
	bag := diag.NewBag(maxDiagnostics)
	file := fs.Get(id)
	if file == nil {
		return nil, bag
	}
	lx := lexer.New(file, lexer.Options{Reporter: diag.BagReporter{Bag: bag}})
	return lx.All(), bag
}
