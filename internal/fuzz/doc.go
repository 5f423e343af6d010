// Package fuzztests holds native Go fuzz harnesses for the ohdl front end.
// Inputs flow through the lexer, the parser and the whole check pipeline;
// the harnesses only assert that nothing panics or hangs and that every
// diagnostic span stays inside the input.
package fuzztests
