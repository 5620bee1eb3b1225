package lexer

import (
	"fmt"

	"funlang/internal/diag"
	"funlang/internal/token"
)

// scanString декодирует литерал побайтно прямо в intern-буфер.
// Переводы строк внутри литерала допустимы.
func (lx *Lexer) scanString() {
	start := lx.cursor.Mark()
	pos := uint32(start)
	lx.cursor.Bump() // opening '"'

	off, ok := lx.internMark(pos, 1)
	n, closed := 0, false
	for !lx.cursor.EOF() {
		b := lx.cursor.Bump()
		if b == '"' {
			closed = true
			break
		}
		if b == '\\' {
			if lx.cursor.EOF() {
				break
			}
			b = lx.unescape()
		}
		if ok && n < token.MaxInternLen {
			lx.intern.Push(b)
		}
		n++
	}

	sp := lx.cursor.SpanFrom(start)
	if !closed {
		lx.errLex(diag.LexUnterminatedString, sp, "unterminated string literal")
	}
	if !ok {
		lx.push(token.Make(token.Invalid, pos))
		return
	}
	if n > token.MaxInternLen {
		diag.ReportInfo(lx.opts.Reporter, diag.LexIdentTruncated, sp,
			fmt.Sprintf("%d-byte string truncated to %d bytes", n, token.MaxInternLen)).Emit()
		n = token.MaxInternLen
	}
	lx.push(token.WithIntern(token.LitStr, pos, token.Intern{Off: off, Len: uint8(n)})) // #nosec G115 -- n <= 255
}

// unescape decodes the escape whose first byte is under the cursor.
func (lx *Lexer) unescape() byte {
	c := lx.cursor.Peek()
	if isDec(c) {
		v, _ := lx.parseInteger()
		return byte(v) // #nosec G115 -- low byte, as a C char cast
	}
	start := lx.cursor.Mark()
	lx.cursor.Bump()
	switch c {
	case 'a':
		return 0x07
	case 'b':
		return 0x08
	case 't':
		return '\t'
	case 'n':
		return '\n'
	case 'v':
		return 0x0b
	case 'f':
		return 0x0c
	case 'r':
		return '\r'
	case 'e':
		return 0x1b
	case '\\':
		return '\\'
	case '"':
		return '"'
	}
	sp := lx.cursor.SpanFrom(start)
	sp.Start--
	lx.warn(diag.LexUnknownEscape, sp, fmt.Sprintf("unknown escape '\\%c' decodes to 0", c))
	return 0
}
