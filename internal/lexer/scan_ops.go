package lexer

import (
	"funlang/internal/token"
)

// scanPunct: один ASCII-знак = один токен, кроме "->" и "<:".
func (lx *Lexer) scanPunct() {
	pos := lx.cursor.Off
	switch {
	case lx.cursor.Eat2('-', '>'):
		lx.push(token.Make(token.Arrow, pos))
	case lx.cursor.Eat2('<', ':'):
		lx.push(token.Make(token.SubTy, pos))
	default:
		lx.push(token.Make(token.Kind(lx.cursor.Bump()), pos))
	}
}
