package token

import (
	"fmt"
)

// Limits of the 24-bit auxiliary field.
const (
	MaxAux          = 1<<24 - 1
	MinDisplacement = -(1 << 23)
	MaxDisplacement = 1<<23 - 1
	MaxInternLen    = 0xff
	MaxInternOff    = 0xffff
)

// Token is a source position plus a tagged 32-bit payload.
type Token struct {
	Pos     uint32 // байтовое смещение начала токена
	Payload uint32
}

// Intern references Len bytes at Off inside the lexer's intern buffer.
type Intern struct {
	Off uint16
	Len uint8
}

// Make builds a token without auxiliary data.
func Make(kind Kind, pos uint32) Token {
	return Token{Pos: pos, Payload: uint32(kind)}
}

// WithLit builds a token whose aux field is a literal-table index.
// ok is false when idx does not fit in 24 bits.
func WithLit(kind Kind, pos, idx uint32) (tok Token, ok bool) {
	if idx > MaxAux {
		return Make(Invalid, pos), false
	}
	return Token{Pos: pos, Payload: uint32(kind) | idx<<8}, true
}

// WithDisplacement builds a bracket token pointing disp tokens away.
func WithDisplacement(kind Kind, pos uint32, disp int32) (tok Token, ok bool) {
	if disp < MinDisplacement || disp > MaxDisplacement {
		return Make(kind, pos), false
	}
	return Token{Pos: pos, Payload: uint32(kind) | uint32(disp)<<8}, true // #nosec G115 -- two's complement packing
}

// WithIntern builds an identifier or string token referencing h.
func WithIntern(kind Kind, pos uint32, h Intern) Token {
	return Token{Pos: pos, Payload: uint32(kind) | uint32(h.Len)<<8 | uint32(h.Off)<<16}
}

// Kind returns the low byte of the payload.
func (t Token) Kind() Kind { return Kind(t.Payload & 0xff) } // #nosec G115 -- masked

// Aux returns the raw 24-bit auxiliary field.
func (t Token) Aux() uint32 { return t.Payload >> 8 }

// LitIndex returns the literal-table index of a LitInt token.
func (t Token) LitIndex() uint32 { return t.Aux() }

// Displacement returns the signed distance from a bracket to its partner.
func (t Token) Displacement() int32 {
	return int32(t.Payload) >> 8 // #nosec G115 -- arithmetic shift restores the sign
}

// Matched reports whether a bracket token carries a partner annotation.
func (t Token) Matched() bool { return t.Kind().IsBracket() && t.Displacement() != 0 }

// Intern returns the intern handle of a ValID, TypeID or LitStr token.
func (t Token) Intern() Intern {
	return Intern{
		Off: uint16(t.Payload >> 16),        // #nosec G115 -- upper 16 bits
		Len: uint8((t.Payload >> 8) & 0xff), // #nosec G115 -- masked
	}
}

// SetDisplacement rewrites the aux field of a bracket token in place.
func (t *Token) SetDisplacement(disp int32) bool {
	nt, ok := WithDisplacement(t.Kind(), t.Pos, disp)
	if ok {
		*t = nt
	}
	return ok
}

func (t Token) String() string {
	k := t.Kind()
	switch {
	case k == LitInt:
		return fmt.Sprintf("%s#%d@%d", k, t.LitIndex(), t.Pos)
	case k.HasIntern():
		h := t.Intern()
		return fmt.Sprintf("%s[%d:%d]@%d", k, h.Off, h.Len, t.Pos)
	case k.IsBracket():
		return fmt.Sprintf("%s%+d@%d", k, t.Displacement(), t.Pos)
	default:
		return fmt.Sprintf("%s@%d", k, t.Pos)
	}
}
