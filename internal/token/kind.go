package token

import "fmt"

// Kind is the low byte of a token payload.
type Kind uint8

const (
	// Invalid indicates an erroneous token.
	Invalid Kind = 0x00

	// LitInt is an integer literal; aux is an index into the literal table.
	LitInt Kind = 0x02
	// LitStr is a string literal; aux is an Intern handle.
	LitStr Kind = 0x03
	// ValID is a lowercase value identifier; aux is an Intern handle.
	ValID Kind = 0x08
	// TypeID is an uppercase type identifier; aux is an Intern handle.
	TypeID Kind = 0x09
)

// Punctuation kinds equal their ASCII byte.
const (
	Bang      Kind = '!'
	Hash      Kind = '#'
	Percent   Kind = '%'
	Amp       Kind = '&'
	LParen    Kind = '('
	RParen    Kind = ')'
	Star      Kind = '*'
	Plus      Kind = '+'
	Comma     Kind = ','
	Minus     Kind = '-'
	Dot       Kind = '.'
	Slash     Kind = '/'
	Colon     Kind = ':'
	Semicolon Kind = ';'
	Lt        Kind = '<'
	Assign    Kind = '='
	Gt        Kind = '>'
	Question  Kind = '?'
	At        Kind = '@'
	LBracket  Kind = '['
	RBracket  Kind = ']'
	Caret     Kind = '^'
	LBrace    Kind = '{'
	Pipe      Kind = '|'
	RBrace    Kind = '}'
	Tilde     Kind = '~'
)

// Keyword kinds. The high nibble groups them by spelling length.
const (
	keywordBit Kind = 0x80

	KwFn  Kind = 0x81 // fn
	KwU8  Kind = 0x82 // u8
	KwS8  Kind = 0x83 // s8
	Arrow Kind = 0x86 // ->
	SubTy Kind = 0x87 // <:

	KwAss Kind = 0x90 // ass
	KwAsu Kind = 0x91 // asu
	KwLet Kind = 0x92 // let
	KwU16 Kind = 0x93 // u16
	KwU32 Kind = 0x94 // u32
	KwU64 Kind = 0x95 // u64
	KwS16 Kind = 0x96 // s16
	KwS32 Kind = 0x97 // s32
	KwS64 Kind = 0x98 // s64

	KwHole Kind = 0xa0 // hole

	KwReturn Kind = 0xb0 // return
)

var keywordText = map[Kind]string{
	KwFn:     "fn",
	KwU8:     "u8",
	KwS8:     "s8",
	Arrow:    "->",
	SubTy:    "<:",
	KwAss:    "ass",
	KwAsu:    "asu",
	KwLet:    "let",
	KwU16:    "u16",
	KwU32:    "u32",
	KwU64:    "u64",
	KwS16:    "s16",
	KwS32:    "s32",
	KwS64:    "s64",
	KwHole:   "hole",
	KwReturn: "return",
}

// IsKeyword reports whether k has the keyword bit set.
func (k Kind) IsKeyword() bool { return k&keywordBit != 0 }

// IsPunct reports whether k is a single ASCII punctuation character.
func (k Kind) IsPunct() bool {
	return k > ' ' && k < 0x7f && !(k >= '0' && k <= '9') &&
		!(k >= 'A' && k <= 'Z') && !(k >= 'a' && k <= 'z')
}

// IsBuiltinType reports whether k names one of the fixed integer types.
func (k Kind) IsBuiltinType() bool {
	switch k {
	case KwU8, KwU16, KwU32, KwU64, KwS8, KwS16, KwS32, KwS64:
		return true
	default:
		return false
	}
}

// IsOpener reports whether k is '(', '[' or '{'.
func (k Kind) IsOpener() bool { return k == LParen || k == LBracket || k == LBrace }

// IsCloser reports whether k is ')', ']' or '}'.
func (k Kind) IsCloser() bool { return k == RParen || k == RBracket || k == RBrace }

// IsBracket reports whether k is any of the six bracket characters.
func (k Kind) IsBracket() bool { return k.IsOpener() || k.IsCloser() }

// HasIntern reports whether the auxiliary field of k is an Intern handle.
func (k Kind) HasIntern() bool { return k == ValID || k == TypeID || k == LitStr }

// Closing returns the closer matching opener k, or Invalid.
func (k Kind) Closing() Kind {
	switch k {
	case LParen:
		return RParen
	case LBracket:
		return RBracket
	case LBrace:
		return RBrace
	default:
		return Invalid
	}
}

func (k Kind) String() string {
	switch k {
	case Invalid:
		return "Invalid"
	case LitInt:
		return "LitInt"
	case LitStr:
		return "LitStr"
	case ValID:
		return "ValID"
	case TypeID:
		return "TypeID"
	}
	if s, ok := keywordText[k]; ok {
		return s
	}
	if k.IsPunct() {
		return string(rune(k))
	}
	return fmt.Sprintf("Kind(%#02x)", uint8(k))
}
