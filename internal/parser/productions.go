package parser

import (
	"funlang/internal/token"
)

// Правые части продукций кладутся на стек в обратном порядке:
// последним кладётся то, что должно разбираться первым.

func exprRule(minBP uint8) Rule {
	r := rule(rExpr)
	r.MinBP = minBP
	return r
}

// expand replaces a non-terminal focus with its production.
func (p *Parser) expand(r Rule) {
	switch r.Kind {
	case rItems:
		p.push(rule(rFn).optional())

	case rType:
		p.push(rule(rTypeName).last())
		p.push(rule(rBuiltinTy).alt())

	case rStmtSeq:
		p.push(rule(rReturn).optional())
		p.push(rule(rLet).alt())

	case rExpr:
		cont := rule(rExprCont).optional()
		cont.MinBP = r.MinBP
		cont.Mark = p.nodes.Len()
		p.push(cont)
		p.push(rule(rParen).last())
		p.push(rule(rUse).alt())
		p.push(rule(rLit).alt())
		p.push(rule(rNeg).alt())

	default:
		panic("parser: no production for " + r.Kind.String())
	}
}

// introduce schedules the right-hand side of a matched introducer.
// idx is the index of the consumed token, mark the node count before it.
func (p *Parser) introduce(r Rule, tok token.Token, idx, mark uint32) error {
	switch r.Kind {
	case rFn:
		// fn name [implicit] (args) [-> type] { stmts }
		p.push(rule(rItems))
		p.push(closer(rFunClose, mark, tok.Pos))
		p.push(rule(rBlock))
		p.push(rule(rOptArrow).optional())
		p.push(rule(rArgList))
		p.push(rule(rOptImplicit).optional())
		p.push(rule(rBindName))

	case rOptImplicit:
		p.cur = idx
		return p.fail(ErrNotImplemented, r)

	case rArgList:
		end := closer(rArgListEnd, mark, 0)
		end.Open = idx
		p.push(end)
		p.push(rule(rArgSeq).optional())

	case rArgSeq:
		// name : type [, ...]
		p.push(rule(rArgTail).optional())
		p.push(closer(rJudgeClose, mark, p.lookPos()))
		p.push(rule(rType))
		p.push(rule(rColon))

	case rArgTail:
		p.push(rule(rArgSeq).optional())

	case rOptArrow:
		p.push(closer(rArrowClose, mark, tok.Pos))
		p.push(rule(rType))

	case rBlock:
		end := closer(rBlockEnd, mark, 0)
		end.Open = idx
		p.push(end)
		p.push(rule(rStmtSeq))

	case rLet:
		// let name [: type] = expr ;
		p.push(rule(rStmtSeq))
		p.push(closer(rLetClose, mark, tok.Pos))
		p.push(rule(rSemi))
		p.push(exprRule(bpNone))
		p.push(rule(rAssign))
		judge := rule(rOptTyJudge).optional()
		judge.Mark = mark
		p.push(judge)
		p.push(rule(rBindName))

	case rOptTyJudge:
		p.push(closer(rJudgeClose, r.Mark, tok.Pos))
		p.push(rule(rType))

	case rReturn:
		p.push(rule(rStmtSeq))
		p.push(closer(rReturnClose, mark, tok.Pos))
		p.push(rule(rSemi))
		p.push(exprRule(bpNone))

	case rNeg:
		p.push(closer(rNegClose, mark, tok.Pos))
		p.push(exprRule(bpPrefix))

	case rParen:
		// скобки узла не дают
		end := rule(rParenEnd)
		end.Open = idx
		p.push(end)
		p.push(exprRule(bpNone))

	case rExprCont:
		op, _ := infixBindingPower(tok.Kind())
		p.push(r)
		fold := closer(rInfixClose, r.Mark, tok.Pos)
		fold.Node = op.node
		p.push(fold)
		p.push(exprRule(op.rbp))
	}
	return nil
}
