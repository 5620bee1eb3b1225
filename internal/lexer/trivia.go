package lexer

import (
	"bytes"

	"funlang/internal/diag"
)

// skipTrivia пропускает пробелы и комментарии перед очередным токеном.
// "//" съедает всё до конца строки вместе с \n; "/* */" не вкладываются.
func (lx *Lexer) skipTrivia() {
	for !lx.cursor.EOF() {
		b := lx.cursor.Peek()
		switch {
		case isSpace(b):
			lx.cursor.Bump()
		case b == '/' && lx.cursor.PeekAt(1) == '/':
			for !lx.cursor.EOF() && lx.cursor.Bump() != '\n' {
			}
		case b == '/' && lx.cursor.PeekAt(1) == '*':
			lx.skipBlockComment()
		default:
			return
		}
	}
}

func (lx *Lexer) skipBlockComment() {
	start := lx.cursor.Mark()
	lx.cursor.Off += 2
	if end := bytes.Index(lx.cursor.Rest(), []byte("*/")); end >= 0 {
		lx.cursor.Off += uint32(end) + 2 // #nosec G115 -- bounded by Limit
		return
	}
	lx.cursor.Off = lx.cursor.Limit
	lx.errLex(diag.LexUnterminatedBlockComment, lx.cursor.SpanFrom(start), "unterminated block comment")
}
