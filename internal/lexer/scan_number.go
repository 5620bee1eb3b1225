package lexer

import (
	"fmt"
	"math"

	"funlang/internal/diag"
	"funlang/internal/token"
)

// scanNumber кладёт значение в таблицу литералов; токен хранит индекс.
func (lx *Lexer) scanNumber() {
	start := lx.cursor.Mark()
	v, overflow := lx.parseInteger()
	sp := lx.cursor.SpanFrom(start)
	if overflow {
		lx.warn(diag.LexNumberOverflow, sp,
			fmt.Sprintf("integer literal %q saturated to %d", lx.file.Content[sp.Start:sp.End], uint64(math.MaxInt64)))
	}

	idx := lx.lits.Push(v)
	tok, ok := token.WithLit(token.LitInt, sp.Start, idx)
	if !ok {
		lx.errLex(diag.LexPayloadOverflow, sp, fmt.Sprintf("literal index %d does not fit in 24 bits", idx))
	}
	lx.push(tok)
}

// parseInteger reads the longest valid prefix the way strtoll with base 0
// does: "0x" followed by a hex digit selects base 16, a leading '0' base 8,
// anything else base 10. The result saturates at MaxInt64.
func (lx *Lexer) parseInteger() (v uint64, overflow bool) {
	base := uint64(10)
	if lx.cursor.Peek() == '0' {
		base = 8
		if x := lx.cursor.PeekAt(1); (x == 'x' || x == 'X') && isHex(lx.cursor.PeekAt(2)) {
			base = 16
			lx.cursor.Off += 2
		}
	}

	const limit = uint64(math.MaxInt64)
	for !lx.cursor.EOF() {
		d := digitVal(lx.cursor.Peek())
		if d >= base {
			break
		}
		lx.cursor.Bump()
		if overflow {
			continue
		}
		if v > (limit-d)/base {
			v, overflow = limit, true
			continue
		}
		v = v*base + d
	}
	return v, overflow
}
