package lexer

import (
	"fmt"

	"funlang/internal/diag"
	"funlang/internal/token"
)

// scanRun съедает [A-Za-z0-9_]* начиная с текущего байта.
func (lx *Lexer) scanRun() (start uint32, run []byte) {
	start = lx.cursor.Off
	for isIdentContinue(lx.cursor.Peek()) {
		lx.cursor.Bump()
	}
	return start, lx.file.Content[start:lx.cursor.Off]
}

// scanValueIdent: строчная буква: ключевое слово или ValID.
func (lx *Lexer) scanValueIdent() {
	start, run := lx.scanRun()
	kind := token.LookupKeyword(run)
	if kind != token.ValID {
		lx.push(token.Make(kind, start))
		return
	}
	lx.pushInterned(token.ValID, start, run)
}

// scanTypeIdent: заглавная буква: всегда TypeID.
func (lx *Lexer) scanTypeIdent() {
	start, run := lx.scanRun()
	lx.pushInterned(token.TypeID, start, run)
}

func (lx *Lexer) pushInterned(kind token.Kind, pos uint32, text []byte) {
	h, ok := lx.internBytes(pos, text)
	if !ok {
		lx.push(token.Make(token.Invalid, pos))
		return
	}
	lx.push(token.WithIntern(kind, pos, h))
}

// internBytes copies at most MaxInternLen bytes of text into the intern
// buffer. ok is false when the start offset no longer fits the handle.
func (lx *Lexer) internBytes(pos uint32, text []byte) (h token.Intern, ok bool) {
	off, ok := lx.internMark(pos, uint32(len(text))) // #nosec G115 -- len(text) <= file size
	if !ok {
		return token.Intern{}, false
	}
	n := min(len(text), token.MaxInternLen)
	if len(text) > n {
		diag.ReportInfo(lx.opts.Reporter, diag.LexIdentTruncated, lx.spanAt(pos, uint32(len(text))), // #nosec G115 -- see above
			fmt.Sprintf("%d-byte text truncated to %d bytes", len(text), n)).Emit()
	}
	lx.intern.Append(text[:n])
	return token.Intern{Off: off, Len: uint8(n)}, true // #nosec G115 -- n <= 255
}

// internMark returns the offset the next interned text will start at.
func (lx *Lexer) internMark(pos, n uint32) (uint16, bool) {
	off := lx.intern.Len()
	if off > token.MaxInternOff {
		lx.errLex(diag.LexPayloadOverflow, lx.spanAt(pos, n),
			fmt.Sprintf("intern buffer offset %d does not fit in 16 bits", off))
		return 0, false
	}
	return uint16(off), true
}
