package parser

import (
	"fmt"
	"slices"

	"ohdl/internal/ast"
	"ohdl/internal/diag"
	"ohdl/internal/lexer"
	"ohdl/internal/source"
	"ohdl/internal/token"
)

type Options struct {
	Reporter diag.Reporter
}

type Result struct {
	File   ast.FileID
	Errors int
}

// Parser holds the parsing state of one file.
type Parser struct {
	lx       *lexer.Lexer
	arenas   *ast.Builder
	file     ast.FileID
	opts     Options
	errors   int
	lastSpan source.Span // span последнего съеденного токена для лучшей диагностики
}

// ParseFile parses every item of the lexer's file into arenas.
func ParseFile(lx *lexer.Lexer, arenas *ast.Builder, opts Options) Result {
	p := Parser{
		lx:       lx,
		arenas:   arenas,
		file:     arenas.NewFile(lx.EmptySpan()),
		opts:     opts,
		lastSpan: lx.EmptySpan(),
	}
	start := p.lx.Peek().Span
	for _, item := range p.parseItems(false) {
		p.arenas.PushItem(p.file, item)
	}
	p.arenas.Files.MustGet(p.file).Span = start.Cover(p.lx.Peek().Span)
	return Result{File: p.file, Errors: p.errors}
}

func (p *Parser) at(k token.Kind) bool {
	return p.lx.Peek().Kind == k
}

func (p *Parser) atOr(kinds ...token.Kind) bool {
	return slices.Contains(kinds, p.lx.Peek().Kind)
}

func (p *Parser) advance() token.Token {
	tok := p.lx.Next()
	if tok.Kind != token.EOF {
		p.lastSpan = tok.Span
	}
	return tok
}

// diagSpan: на EOF указываем сразу за последним токеном
func (p *Parser) diagSpan() source.Span {
	peek := p.lx.Peek()
	if peek.Kind == token.EOF {
		return source.At(p.lastSpan.File, p.lastSpan.End)
	}
	return peek.Span
}

func (p *Parser) expect(k token.Kind, code diag.Code, msg string) (token.Token, bool) {
	if p.at(k) {
		return p.advance(), true
	}
	p.err(code, fmt.Sprintf("%s, found %s", msg, p.lx.Peek().Kind))
	return token.Token{Kind: token.Invalid, Span: p.diagSpan()}, false
}

func (p *Parser) err(code diag.Code, msg string) {
	p.errors++
	if p.opts.Reporter == nil {
		return
	}
	diag.ReportError(p.opts.Reporter, code, p.diagSpan(), msg).Emit()
}

func (p *Parser) ident(what string) (source.Ident, bool) {
	tok, ok := p.expect(token.Ident, diag.SynExpectIdentifier, "expected "+what)
	if !ok {
		return source.Ident{}, false
	}
	return source.Ident{Name: p.arenas.Strings.Intern(tok.Text), Span: tok.Span}, true
}

// parseItems reads items until EOF, or until '}' when nested.
func (p *Parser) parseItems(nested bool) []ast.ItemID {
	var items []ast.ItemID
	for !p.at(token.EOF) && !(nested && p.at(token.RBrace)) {
		if id, ok := p.parseItem(); ok {
			items = append(items, id)
			continue
		}
		p.resyncItem(nested)
	}
	return items
}

// parseItem выбирает распознаватель по первому токену.
func (p *Parser) parseItem() (ast.ItemID, bool) {
	switch p.lx.Peek().Kind {
	case token.KwRecord:
		return p.parseRecord()
	case token.KwEnum:
		return p.parseEnum()
	case token.KwEntity:
		return p.parseEntity()
	case token.KwMod:
		return p.parseMod()
	case token.KwUse:
		return p.parseUse()
	default:
		p.err(diag.SynExpectItem, fmt.Sprintf("expected item, found %s", p.lx.Peek().Kind))
		return ast.NoItemID, false
	}
}

// resyncItem skips to the next token that can start an item. The
// offending token is always consumed so the loop makes progress.
func (p *Parser) resyncItem(nested bool) {
	if p.at(token.EOF) {
		return
	}
	if !p.lx.Peek().Kind.IsItemStart() {
		p.advance()
	}
	for !p.at(token.EOF) && !p.lx.Peek().Kind.IsItemStart() {
		if nested && p.at(token.RBrace) {
			return
		}
		p.advance()
	}
}

// skipElem drops tokens up to the next ',' or '}' of the current list.
func (p *Parser) skipElem() {
	for !p.atOr(token.EOF, token.Comma, token.RBrace) && !p.lx.Peek().Kind.IsItemStart() {
		p.advance()
	}
}

// parseBraced parses `{ elem (, elem)* ,? }` and returns the closing span.
func (p *Parser) parseBraced(what string, elem func() bool) (source.Span, bool) {
	if _, ok := p.expect(token.LBrace, diag.SynUnexpectedToken, "expected '{' after "+what); !ok {
		return p.diagSpan(), false
	}
	for !p.atOr(token.RBrace, token.EOF) && !p.lx.Peek().Kind.IsItemStart() {
		if !elem() {
			p.skipElem()
		}
		if p.at(token.Comma) {
			p.advance()
			continue
		}
		if !p.at(token.RBrace) && !p.at(token.EOF) && !p.lx.Peek().Kind.IsItemStart() {
			p.err(diag.SynUnexpectedToken, fmt.Sprintf("expected ',' or '}' in %s, found %s", what, p.lx.Peek().Kind))
			p.skipElem()
			if p.at(token.Comma) {
				p.advance()
			}
		}
	}
	closing, ok := p.expect(token.RBrace, diag.SynUnclosedBrace, "expected '}' to close "+what)
	return closing.Span, ok
}

func (p *Parser) parsePath() (ast.Path, bool) {
	head, ok := p.ident("path segment")
	if !ok {
		return nil, false
	}
	path := ast.Path{head}
	for p.at(token.ColonColon) {
		p.advance()
		seg, ok := p.ident("path segment after '::'")
		if !ok {
			return path, false
		}
		path = append(path, seg)
	}
	return path, true
}

func (p *Parser) parseRecord() (ast.ItemID, bool) {
	kw := p.advance()
	name, ok := p.ident("record name")
	if !ok {
		return ast.NoItemID, false
	}
	var fields []ast.FieldDecl
	end, _ := p.parseBraced("record body", func() bool {
		f, ok := p.parseTypedName("field name")
		if ok {
			fields = append(fields, ast.FieldDecl{Name: f.name, Type: f.path, Span: f.span})
		}
		return ok
	})
	return p.arenas.Items.NewRecord(name, fields, kw.Span.Cover(end)), true
}

func (p *Parser) parseEnum() (ast.ItemID, bool) {
	kw := p.advance()
	name, ok := p.ident("enum name")
	if !ok {
		return ast.NoItemID, false
	}
	var variants []source.Ident
	end, _ := p.parseBraced("enum body", func() bool {
		v, ok := p.ident("variant name")
		if ok {
			variants = append(variants, v)
		}
		return ok
	})
	return p.arenas.Items.NewEnum(name, variants, kw.Span.Cover(end)), true
}

func (p *Parser) parseEntity() (ast.ItemID, bool) {
	kw := p.advance()
	name, ok := p.ident("entity name")
	if !ok {
		return ast.NoItemID, false
	}
	var ports []ast.PortDecl
	end, _ := p.parseBraced("entity body", func() bool {
		dirTok := p.lx.Peek()
		var dir ast.PortDir
		switch dirTok.Kind {
		case token.KwIn:
			dir = ast.PortIn
		case token.KwOut:
			dir = ast.PortOut
		case token.KwInOut:
			dir = ast.PortInOut
		default:
			p.err(diag.SynUnexpectedToken, fmt.Sprintf("expected port direction (in, out, inout), found %s", dirTok.Kind))
			return false
		}
		p.advance()
		f, ok := p.parseTypedName("port name")
		if ok {
			ports = append(ports, ast.PortDecl{Dir: dir, Name: f.name, Type: f.path, Span: dirTok.Span.Cover(f.span)})
		}
		return ok
	})
	return p.arenas.Items.NewEntity(name, ports, kw.Span.Cover(end)), true
}

type typedName struct {
	name source.Ident
	path ast.Path
	span source.Span
}

// parseTypedName parses `name: path`.
func (p *Parser) parseTypedName(what string) (typedName, bool) {
	name, ok := p.ident(what)
	if !ok {
		return typedName{}, false
	}
	if _, ok := p.expect(token.Colon, diag.SynExpectColon, "expected ':' after "+what); !ok {
		return typedName{}, false
	}
	path, ok := p.parsePath()
	if !ok {
		return typedName{}, false
	}
	return typedName{name: name, path: path, span: name.Span.Cover(source.PathSpan(path))}, true
}

func (p *Parser) parseMod() (ast.ItemID, bool) {
	kw := p.advance()
	name, ok := p.ident("module name")
	if !ok {
		return ast.NoItemID, false
	}
	if _, ok := p.expect(token.LBrace, diag.SynUnexpectedToken, "expected '{' after module name"); !ok {
		return ast.NoItemID, false
	}
	items := p.parseItems(true)
	closing, _ := p.expect(token.RBrace, diag.SynUnclosedBrace, "expected '}' to close module")
	return p.arenas.Items.NewMod(name, items, kw.Span.Cover(closing.Span)), true
}

func (p *Parser) parseUse() (ast.ItemID, bool) {
	kw := p.advance()
	path, ok := p.parsePath()
	if !ok {
		return ast.NoItemID, false
	}
	var alias source.Ident
	if p.at(token.KwAs) {
		p.advance()
		if alias, ok = p.ident("alias after 'as'"); !ok {
			return ast.NoItemID, false
		}
	}
	semi, ok := p.expect(token.Semicolon, diag.SynExpectSemicolon, "expected ';' after use")
	end := semi.Span
	if !ok {
		end = p.lastSpan
	}
	return p.arenas.Items.NewUse(path, alias, kw.Span.Cover(end)), true
}
