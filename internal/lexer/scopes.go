package lexer

import (
	"fmt"

	"funlang/internal/diag"
	"funlang/internal/token"
)

// MaxScopeDepth is how many nested brackets of one kind get a partner
// annotation. Deeper brackets are still emitted, without one.
const MaxScopeDepth = 10

// scopeStacks хранит индексы открывающих скобок по трём видам.
// depth считает без ограничения, записывается только первые MaxScopeDepth уровней.
type scopeStacks struct {
	open  [3][MaxScopeDepth]uint32
	depth [3]uint32
}

// openerSlot maps '(' '[' '{' to 0 1 2 from the byte value alone.
func openerSlot(c byte) int { return int(((c&0xf)+(c>>4))-10) >> 2 }

// closerSlot maps ')' ']' '}' to 0 1 2.
func closerSlot(c byte) int { return int(((c&0xf)+(c>>4))-11) >> 2 }

func (lx *Lexer) scanOpener() {
	pos := lx.cursor.Off
	c := lx.cursor.Bump()
	slot := openerSlot(c)

	d := lx.scopes.depth[slot]
	lx.scopes.depth[slot]++
	idx := lx.push(token.Make(token.Kind(c), pos))
	if d >= MaxScopeDepth {
		lx.warn(diag.LexScopeTooDeep, lx.spanAt(pos, 1),
			fmt.Sprintf("'%c' nested deeper than %d levels is not matched", c, MaxScopeDepth))
		return
	}
	lx.scopes.open[slot][d] = idx
}

func (lx *Lexer) scanCloser() {
	pos := lx.cursor.Off
	c := lx.cursor.Bump()
	slot := closerSlot(c)
	kind := token.Kind(c)

	if lx.scopes.depth[slot] == 0 {
		lx.push(token.Make(kind, pos))
		lx.warn(diag.LexUnmatchedCloser, lx.spanAt(pos, 1), fmt.Sprintf("unmatched '%c'", c))
		return
	}
	lx.scopes.depth[slot]--
	d := lx.scopes.depth[slot]
	if d >= MaxScopeDepth {
		// пара к слишком глубокой скобке, о ней уже сообщили
		lx.push(token.Make(kind, pos))
		return
	}

	opener := lx.scopes.open[slot][d]
	closer := lx.tokens.Len()
	disp := int64(closer) - int64(opener)
	if disp > token.MaxDisplacement {
		lx.push(token.Make(kind, pos))
		lx.errLex(diag.LexPayloadOverflow, lx.spanAt(pos, 1),
			fmt.Sprintf("bracket pair spans %d tokens, more than the payload can encode", disp))
		return
	}
	lx.tokens.At(opener).SetDisplacement(int32(disp))         // #nosec G115 -- checked above
	tok, _ := token.WithDisplacement(kind, pos, int32(-disp)) // #nosec G115 -- checked above
	lx.push(tok)
}

// reportUnclosed warns about every recorded opener left open at end of input.
func (lx *Lexer) reportUnclosed() {
	for slot := range lx.scopes.depth {
		open := min(lx.scopes.depth[slot], MaxScopeDepth)
		for d := range open {
			tok := lx.tokens.At(lx.scopes.open[slot][d])
			lx.warn(diag.LexUnclosedOpener, lx.spanAt(tok.Pos, 1),
				fmt.Sprintf("'%s' is never closed", tok.Kind()))
		}
	}
}
