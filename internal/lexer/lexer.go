package lexer

import (
	"fmt"
	"unicode"
	"unicode/utf8"

	"fortio.org/safecast"
	"golang.org/x/text/unicode/norm"

	"ohdl/internal/diag"
	"ohdl/internal/source"
	"ohdl/internal/token"
)

// Options configures a Lexer.
type Options struct {
	Reporter diag.Reporter
}

type Lexer struct {
	file *source.File
	off  int
	opts Options
	look *token.Token // 1 элементный буфер для токена
}

func New(file *source.File, opts Options) *Lexer {
	return &Lexer{file: file, opts: opts}
}

// Next возвращает следующий значимый токен. После EOF всегда возвращает EOF.
func (lx *Lexer) Next() token.Token {
	if lx.look != nil {
		tok := *lx.look
		lx.look = nil
		return tok
	}
	return lx.scan()
}

// Peek returns the next token without consuming it.
func (lx *Lexer) Peek() token.Token {
	if lx.look == nil {
		tok := lx.scan()
		lx.look = &tok
	}
	return *lx.look
}

// EmptySpan is a zero-length span at the start of the file.
func (lx *Lexer) EmptySpan() source.Span {
	return source.At(lx.file.ID, 0)
}

func (lx *Lexer) scan() token.Token {
	lx.skipTrivia()
	if lx.off >= len(lx.file.Content) {
		return token.Token{Kind: token.EOF, Span: lx.span(lx.off, lx.off)}
	}

	start := lx.off
	r, size := utf8.DecodeRune(lx.file.Content[lx.off:])
	switch {
	case isIdentStart(r):
		return lx.scanIdent()
	case r == ':':
		if lx.peekAt(1) == ':' {
			lx.off += 2
			return lx.tok(token.ColonColon, start)
		}
		lx.off++
		return lx.tok(token.Colon, start)
	}

	lx.off += size
	switch r {
	case '{':
		return lx.tok(token.LBrace, start)
	case '}':
		return lx.tok(token.RBrace, start)
	case ',':
		return lx.tok(token.Comma, start)
	case ';':
		return lx.tok(token.Semicolon, start)
	}
	lx.report(diag.LexUnknownChar, start, lx.off, fmt.Sprintf("unknown character %q", r))
	return lx.tok(token.Invalid, start)
}

// All scans the whole file, EOF token included.
func (lx *Lexer) All() []token.Token {
	var out []token.Token
	for {
		tok := lx.Next()
		out = append(out, tok)
		if tok.Kind == token.EOF {
			return out
		}
	}
}

func (lx *Lexer) scanIdent() token.Token {
	start := lx.off
	ascii := true
	for lx.off < len(lx.file.Content) {
		r, size := utf8.DecodeRune(lx.file.Content[lx.off:])
		if !isIdentContinue(r) {
			break
		}
		if r >= utf8.RuneSelf {
			ascii = false
		}
		lx.off += size
	}
	text := string(lx.file.Content[start:lx.off])
	if !ascii {
		// одно имя, одна форма: иначе интернер даст разные ID
		text = norm.NFC.String(text)
	}
	return token.Token{Kind: token.LookupKeyword(text), Span: lx.span(start, lx.off), Text: text}
}

func (lx *Lexer) skipTrivia() {
	content := lx.file.Content
	for lx.off < len(content) {
		c := content[lx.off]
		switch {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r':
			lx.off++
		case c == '/' && lx.peekAt(1) == '/':
			for lx.off < len(content) && content[lx.off] != '\n' {
				lx.off++
			}
		case c == '/' && lx.peekAt(1) == '*':
			start := lx.off
			lx.off += 2
			closed := false
			for lx.off+1 < len(content) {
				if content[lx.off] == '*' && content[lx.off+1] == '/' {
					lx.off += 2
					closed = true
					break
				}
				lx.off++
			}
			if !closed {
				lx.off = len(content)
				lx.report(diag.LexUnterminatedBlockComment, start, start+2, "unterminated block comment")
			}
		default:
			return
		}
	}
}

func (lx *Lexer) peekAt(n int) byte {
	if lx.off+n >= len(lx.file.Content) {
		return 0
	}
	return lx.file.Content[lx.off+n]
}

func (lx *Lexer) tok(kind token.Kind, start int) token.Token {
	return token.Token{
		Kind: kind,
		Span: lx.span(start, lx.off),
		Text: string(lx.file.Content[start:lx.off]),
	}
}

func (lx *Lexer) span(start, end int) source.Span {
	s, err := safecast.Conv[uint32](start)
	if err != nil {
		panic(fmt.Errorf("span start overflow: %w", err))
	}
	e, err := safecast.Conv[uint32](end)
	if err != nil {
		panic(fmt.Errorf("span end overflow: %w", err))
	}
	return source.Span{File: lx.file.ID, Start: s, End: e}
}

func (lx *Lexer) report(code diag.Code, start, end int, msg string) {
	if lx.opts.Reporter == nil {
		return
	}
	diag.ReportError(lx.opts.Reporter, code, lx.span(start, end), msg).Emit()
}

func isIdentStart(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}

func isIdentContinue(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.Is(unicode.Mn, r)
}
