// Package lexer turns source bytes into the compact token stream, the
// literal table and the lexer-local intern buffer consumed by the parser.
package lexer

import (
	"funlang/internal/buffer"
	"funlang/internal/source"
	"funlang/internal/token"
)

// Result owns everything one Lex call produced.
type Result struct {
	Tokens []token.Token
	Lits   []uint64
	Intern []byte
}

// Text returns the interned bytes of a ValID, TypeID or LitStr token.
func (r *Result) Text(tok token.Token) []byte {
	h := tok.Intern()
	return r.Intern[h.Off : int(h.Off)+int(h.Len)]
}

// Literal returns the literal-table value of a LitInt token.
func (r *Result) Literal(tok token.Token) uint64 {
	return r.Lits[tok.LitIndex()]
}

// Lexer scans one source file; use it once via Run.
type Lexer struct {
	file   *source.File
	cursor Cursor
	opts   Options

	tokens buffer.Buffer[token.Token]
	lits   buffer.Buffer[uint64]
	intern buffer.Buffer[byte]
	scopes scopeStacks
}

// New prepares a Lexer positioned at the start of file.
func New(file *source.File, opts Options) *Lexer {
	return &Lexer{
		file:   file,
		cursor: NewCursor(file),
		opts:   opts,
	}
}

// Lex scans the whole file. It never fails: malformed input is reported
// through opts.Reporter and scanning continues.
func Lex(file *source.File, opts Options) *Result {
	return New(file, opts).Run()
}

// LexBytes scans src as an anonymous in-memory file.
func LexBytes(src []byte, opts Options) *Result {
	return Lex(&source.File{Content: src, Flags: source.FileVirtual}, opts)
}

// Run drives the scanner to the end of input. A Lexer is single-use.
func (lx *Lexer) Run() *Result {
	for {
		lx.skipTrivia()
		if lx.cursor.EOF() {
			break
		}

		ch := lx.cursor.Peek()
		switch {
		case isDec(ch):
			lx.scanNumber()
		case isLower(ch):
			lx.scanValueIdent()
		case isUpper(ch):
			lx.scanTypeIdent()
		case ch == '"':
			lx.scanString()
		case ch == '(' || ch == '[' || ch == '{':
			lx.scanOpener()
		case ch == ')' || ch == ']' || ch == '}':
			lx.scanCloser()
		case isPunct(ch):
			lx.scanPunct()
		default:
			// управляющие и не-ASCII байты молча пропускаем
			lx.cursor.Bump()
		}
	}
	lx.reportUnclosed()

	return &Result{
		Tokens: lx.tokens.Slice(),
		Lits:   lx.lits.Slice(),
		Intern: lx.intern.Slice(),
	}
}

func (lx *Lexer) push(tok token.Token) uint32 {
	return lx.tokens.Push(tok)
}

func (lx *Lexer) spanAt(off, n uint32) source.Span {
	return source.At(lx.file.ID, off, n)
}
