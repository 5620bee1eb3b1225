// Package parser turns a lexer token stream into the flat post-order node
// array described in package ast.
//
// The parser never recurses. It keeps an explicit stack of Rule values and
// one focus rule, and repeats a single step: a terminal focus is matched
// against the lookahead token, an introducer pushes the right-hand side of
// its production in reverse, a closer emits a composite node whose subtree
// size is the node-array growth since its mark, and a non-terminal expands
// into concrete rules. Choice rules that do not match fall through to the
// next alternative; any other mismatch ends the parse with an *Error.
package parser

import (
	"fmt"

	"fortio.org/safecast"

	"funlang/internal/ast"
	"funlang/internal/buffer"
	"funlang/internal/lexer"
	"funlang/internal/source"
	"funlang/internal/token"
)

// Entry selects the production a Parse call starts from.
type Entry uint8

const (
	// EntryFile parses a sequence of function definitions.
	EntryFile Entry = iota
	// EntryBlock parses a statement sequence without braces.
	EntryBlock
	// EntryExpr parses a single expression terminated by ';'.
	EntryExpr
)

func (e Entry) String() string {
	switch e {
	case EntryFile:
		return "file"
	case EntryBlock:
		return "block"
	case EntryExpr:
		return "expr"
	default:
		return fmt.Sprintf("Entry(%d)", uint8(e))
	}
}

type Options struct {
	Entry Entry
	// Names receives every identifier the parser keeps. nil creates a fresh set;
	// passing one set to several Parse calls shares views across files.
	Names *source.StringSet
	// NodeCapHint preallocates the node array.
	NodeCapHint uint32
}

// Result is the parse output. Node payloads of kind BindName, BindUse and
// BindTyUse are views into Names.
type Result struct {
	Nodes []ast.Node
	Names *source.StringSet
}

// Parser: состояние одного прохода по потоку токенов
type Parser struct {
	lx    *lexer.Result
	toks  []token.Token
	cur   uint32
	end   uint32
	stack buffer.Buffer[Rule]
	nodes buffer.Buffer[ast.Node]
	names *source.StringSet
	opts  Options
}

// Parse runs the rule machine over lx. lx is only read: names are copied
// into the result's set, so lx may be released afterwards.
func Parse(lx *lexer.Result, opts Options) (*Result, error) {
	p := newParser(lx, opts)
	if err := p.run(); err != nil {
		return nil, err
	}
	return &Result{Nodes: p.nodes.Slice(), Names: p.names}, nil
}

func newParser(lx *lexer.Result, opts Options) *Parser {
	end, err := safecast.Conv[uint32](len(lx.Tokens))
	if err != nil {
		panic(fmt.Errorf("token count overflow: %w", err))
	}
	names := opts.Names
	if names == nil {
		names = source.NewStringSet(0)
	}
	capHint := opts.NodeCapHint
	if capHint == 0 {
		// узлов обычно меньше, чем токенов
		capHint = end/2 + 1
	}
	p := &Parser{
		lx:    lx,
		toks:  lx.Tokens,
		end:   end,
		names: names,
		opts:  opts,
	}
	p.nodes = *buffer.New[ast.Node](capHint)
	p.stack = *buffer.New[Rule](32)

	switch opts.Entry {
	case EntryBlock:
		p.push(rule(rStmtSeq))
	case EntryExpr:
		p.push(rule(rSemi))
		p.push(exprRule(bpNone))
	default:
		p.push(rule(rItems))
	}
	return p
}

func (p *Parser) run() error {
	for p.stack.Len() > 0 {
		focus := p.stack.Pop()
		switch {
		case focus.Flags.has(FlagTerminal):
			tok, ok := p.peek()
			if ok && p.matches(focus, tok) {
				if err := p.step(focus, tok); err != nil {
					return err
				}
				continue
			}
			if focus.Flags.has(FlagChoice) {
				continue
			}
			if !ok {
				return p.fail(ErrUnexpectedEOF, focus)
			}
			return p.fail(ErrUnexpectedToken, focus)
		case focus.Flags.has(FlagCloser):
			p.emit(ast.Composite(focus.Node, focus.Pos, p.nodes.Len()-focus.Mark))
		default:
			p.expand(focus)
		}
	}
	if p.cur < p.end {
		if p.opts.Entry == EntryFile {
			return p.fail(ErrTopLevel, rule(rItems))
		}
		return p.fail(ErrUnexpectedToken, Rule{})
	}
	return nil
}

// step consumes tok for the matched terminal r.
func (p *Parser) step(r Rule, tok token.Token) error {
	mark := p.nodes.Len()
	idx := p.cur
	if err := p.consume(r, tok); err != nil {
		return err
	}
	if r.Flags&(FlagChoice|FlagChoiceEnd) == FlagChoice {
		p.dropAlternatives()
	}
	if r.Flags.has(FlagIntroducer) {
		return p.introduce(r, tok, idx, mark)
	}
	return nil
}

func (p *Parser) matches(r Rule, tok token.Token) bool {
	k := tok.Kind()
	switch r.Kind {
	case rBuiltinTy:
		return k.IsBuiltinType()
	case rExprCont:
		op, ok := infixBindingPower(k)
		return ok && op.lbp >= r.MinBP
	default:
		return k == rules[r.Kind].tok
	}
}

func (p *Parser) consume(r Rule, tok token.Token) error {
	k := tok.Kind()
	switch {
	case k.IsOpener():
		if !tok.Matched() {
			return p.fail(ErrUnmatchedDelimiter, r)
		}
	case k.IsCloser():
		if !p.pairs(r.Open, p.cur) {
			return p.fail(ErrUnmatchedDelimiter, r)
		}
	}
	p.cur++

	switch {
	case r.Node == ast.Invalid:
	case r.Flags.has(FlagStr):
		p.emit(ast.Name(r.Node, tok.Pos, p.names.Insert(p.lx.Text(tok))))
	case r.Flags.has(FlagLit):
		p.emit(ast.Literal(tok.Pos, p.lx.Literal(tok)))
	case r.Flags.has(FlagCloser):
		p.emit(ast.Composite(r.Node, tok.Pos, p.nodes.Len()-r.Mark))
	case r.Kind == rBuiltinTy:
		p.emit(ast.Builtin(tok.Pos, k))
	}
	return nil
}

// pairs reports whether the bracket tokens at open and closeIdx point at each other.
func (p *Parser) pairs(open, closeIdx uint32) bool {
	if open >= p.end || closeIdx >= p.end {
		return false
	}
	o, c := p.toks[open], p.toks[closeIdx]
	if !o.Matched() || !c.Matched() || o.Kind().Closing() != c.Kind() {
		return false
	}
	return int64(open)+int64(o.Displacement()) == int64(closeIdx) &&
		int64(closeIdx)+int64(c.Displacement()) == int64(open)
}

// dropAlternatives pops the rest of the choice group the focus belonged to.
func (p *Parser) dropAlternatives() {
	for p.stack.Len() > 0 {
		if p.stack.Pop().Flags.has(FlagChoiceEnd) {
			return
		}
	}
}

func (p *Parser) peek() (token.Token, bool) {
	if p.cur >= p.end {
		return token.Token{}, false
	}
	return p.toks[p.cur], true
}

// lookPos is the source position of the lookahead, or of the last token at EOF.
func (p *Parser) lookPos() uint32 {
	switch {
	case p.cur < p.end:
		return p.toks[p.cur].Pos
	case p.end > 0:
		return p.toks[p.end-1].Pos
	default:
		return 0
	}
}

func (p *Parser) push(r Rule) { p.stack.Push(r) }

func (p *Parser) emit(n ast.Node) { p.nodes.Push(n) }

func (p *Parser) fail(err error, expected Rule) *Error {
	e := &Error{
		Err:   err,
		Code:  codeFor(err),
		Index: p.cur,
		Pos:   p.lookPos(),
	}
	if tok, ok := p.peek(); ok {
		e.Tok = tok
	}
	if expected.Kind != rInvalid {
		e.Expected = expected.String()
	}
	return e
}
