package ast

import "fmt"

// Kind identifies a node of the flat parse tree.
type Kind uint8

const (
	Invalid Kind = iota
	FunIntro
	FunArrow
	FunEnd
	ExpArgListEnd
	BindName
	BindTyJudge
	BindUse
	BindTyUse
	LiteralInt
	PrefixMinus
	InfixPlus
	StmtReturn
	StmtLetBind
	BuiltinTy

	kindCount
)

// Payload says how Node.Data is interpreted.
type Payload uint8

const (
	PayloadNone Payload = iota
	PayloadSize
	PayloadLit
	PayloadStr
	PayloadKeyword
)

var kindInfo = [kindCount]struct {
	name    string
	payload Payload
}{
	Invalid:       {"Invalid", PayloadNone},
	FunIntro:      {"FunIntro", PayloadSize},
	FunArrow:      {"FunArrow", PayloadSize},
	FunEnd:        {"FunEnd", PayloadSize},
	ExpArgListEnd: {"ExpArgListEnd", PayloadSize},
	BindName:      {"BindName", PayloadStr},
	BindTyJudge:   {"BindTyJudge", PayloadSize},
	BindUse:       {"BindUse", PayloadStr},
	BindTyUse:     {"BindTyUse", PayloadStr},
	LiteralInt:    {"LiteralInt", PayloadLit},
	PrefixMinus:   {"PrefixMinus", PayloadSize},
	InfixPlus:     {"InfixPlus", PayloadSize},
	StmtReturn:    {"StmtReturn", PayloadSize},
	StmtLetBind:   {"StmtLetBind", PayloadSize},
	BuiltinTy:     {"BuiltinTy", PayloadKeyword},
}

// Payload returns the payload variant nodes of kind k carry.
func (k Kind) Payload() Payload {
	if k >= kindCount {
		return PayloadNone
	}
	return kindInfo[k].payload
}

// IsComposite reports whether nodes of kind k own a subtree.
func (k Kind) IsComposite() bool { return k.Payload() == PayloadSize }

func (k Kind) String() string {
	if k >= kindCount {
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
	return kindInfo[k].name
}

// ParseKind is the inverse of Kind.String.
func ParseKind(s string) (Kind, bool) {
	for k := range kindCount {
		if kindInfo[k].name == s {
			return k, true
		}
	}
	return Invalid, false
}
