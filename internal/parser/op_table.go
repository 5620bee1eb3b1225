package parser

import (
	"funlang/internal/ast"
	"funlang/internal/token"
)

// Силы связывания. Инфиксный оператор продолжает свёртку, только если его
// левая сила не меньше текущего порога; правый операнд разбирается с правой
// силой оператора. lbp < rbp даёт левую ассоциативность.
const (
	bpNone     uint8 = 0
	bpAdditive uint8 = 3
	bpPrefix   uint8 = 5
)

type infixOp struct {
	lbp, rbp uint8
	node     ast.Kind
}

var infixOps = map[token.Kind]infixOp{
	token.Plus: {lbp: bpAdditive, rbp: bpAdditive + 1, node: ast.InfixPlus},
}

// infixBindingPower returns the operator entry of k and whether k is an infix operator at all.
func infixBindingPower(k token.Kind) (infixOp, bool) {
	op, ok := infixOps[k]
	return op, ok
}
