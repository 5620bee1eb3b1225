package parser

import (
	"funlang/internal/ast"
	"funlang/internal/token"
)

// Flag describes how the machine treats a rule when it becomes the focus.
type Flag uint8

const (
	// FlagTerminal rules are matched against the lookahead token.
	FlagTerminal Flag = 1 << iota
	// FlagIntroducer rules push the right-hand side of their production after a match.
	FlagIntroducer
	// FlagCloser rules emit a composite node covering everything since Mark.
	FlagCloser
	// FlagChoice rules may fail without consuming input.
	FlagChoice
	// FlagChoiceEnd marks the last alternative of a choice group.
	FlagChoiceEnd
	// FlagStr rules copy the token's interned text into the name set.
	FlagStr
	// FlagLit rules carry the token's literal-table value.
	FlagLit
)

func (f Flag) has(mask Flag) bool { return f&mask == mask }

type ruleKind uint8

const (
	rInvalid ruleKind = iota

	// функции
	rItems
	rFn
	rBindName
	rOptImplicit
	rArgList
	rArgSeq
	rArgTail
	rArgListEnd
	rColon
	rOptArrow
	rArrowClose
	rBlock
	rBlockEnd
	rFunClose

	// типы
	rType
	rBuiltinTy
	rTypeName
	rJudgeClose

	// инструкции
	rStmtSeq
	rLet
	rOptTyJudge
	rAssign
	rSemi
	rLetClose
	rReturn
	rReturnClose

	// выражения
	rExpr
	rNeg
	rLit
	rUse
	rParen
	rParenEnd
	rNegClose
	rExprCont
	rInfixClose

	ruleCount
)

type ruleInfo struct {
	name  string // что ожидалось, для сообщений об ошибках
	flags Flag
	tok   token.Kind
	node  ast.Kind
}

const (
	fTerm  = FlagTerminal
	fIntro = FlagTerminal | FlagIntroducer
	fClose = FlagCloser
)

var rules = [ruleCount]ruleInfo{
	rInvalid: {name: "<invalid>"},

	rItems:       {name: "function definition"},
	rFn:          {name: "'fn'", flags: fIntro, tok: token.KwFn},
	rBindName:    {name: "identifier", flags: fTerm | FlagStr, tok: token.ValID, node: ast.BindName},
	rOptImplicit: {name: "'['", flags: fIntro, tok: token.LBracket},
	rArgList:     {name: "'('", flags: fIntro, tok: token.LParen},
	rArgSeq:      {name: "argument name", flags: fIntro | FlagStr, tok: token.ValID, node: ast.BindName},
	rArgTail:     {name: "','", flags: fIntro, tok: token.Comma},
	rArgListEnd:  {name: "')'", flags: fTerm | fClose, tok: token.RParen, node: ast.ExpArgListEnd},
	rColon:       {name: "':'", flags: fTerm, tok: token.Colon},
	rOptArrow:    {name: "'->'", flags: fIntro, tok: token.Arrow},
	rArrowClose:  {name: "return type", flags: fClose, node: ast.FunArrow},
	rBlock:       {name: "'{'", flags: fIntro, tok: token.LBrace},
	rBlockEnd:    {name: "'}'", flags: fTerm | fClose, tok: token.RBrace, node: ast.FunEnd},
	rFunClose:    {name: "function", flags: fClose, node: ast.FunIntro},

	rType:       {name: "type"},
	rBuiltinTy:  {name: "builtin type", flags: fTerm, node: ast.BuiltinTy},
	rTypeName:   {name: "type", flags: fTerm | FlagStr, tok: token.TypeID, node: ast.BindTyUse},
	rJudgeClose: {name: "type judgement", flags: fClose, node: ast.BindTyJudge},

	rStmtSeq:     {name: "statement"},
	rLet:         {name: "'let'", flags: fIntro, tok: token.KwLet},
	rOptTyJudge:  {name: "':'", flags: fIntro, tok: token.Colon},
	rAssign:      {name: "'='", flags: fTerm, tok: token.Assign},
	rSemi:        {name: "';'", flags: fTerm, tok: token.Semicolon},
	rLetClose:    {name: "let binding", flags: fClose, node: ast.StmtLetBind},
	rReturn:      {name: "'return'", flags: fIntro, tok: token.KwReturn},
	rReturnClose: {name: "return statement", flags: fClose, node: ast.StmtReturn},

	rExpr:       {name: "expression"},
	rNeg:        {name: "'-'", flags: fIntro, tok: token.Minus},
	rLit:        {name: "integer literal", flags: fTerm | FlagLit, tok: token.LitInt, node: ast.LiteralInt},
	rUse:        {name: "identifier", flags: fTerm | FlagStr, tok: token.ValID, node: ast.BindUse},
	rParen:      {name: "expression", flags: fIntro, tok: token.LParen},
	rParenEnd:   {name: "')'", flags: fTerm, tok: token.RParen},
	rNegClose:   {name: "prefix operand", flags: fClose, node: ast.PrefixMinus},
	rExprCont:   {name: "operator", flags: fIntro},
	rInfixClose: {name: "infix operand", flags: fClose},
}

func (k ruleKind) String() string {
	if k < ruleCount {
		return rules[k].name
	}
	return rules[rInvalid].name
}

// Rule is one entry of the parser state stack.
type Rule struct {
	Kind  ruleKind
	Flags Flag
	MinBP uint8    // порог связывания для rExpr и rExprCont
	Node  ast.Kind // узел, который создаст закрывающее правило
	Mark  uint32   // длина массива узлов, когда поддерево началось
	Pos   uint32   // позиция в исходнике для синтезированного узла
	Open  uint32   // индекс токена-открывашки, к которому относится закрывашка
}

func rule(k ruleKind) Rule {
	return Rule{Kind: k, Flags: rules[k].flags, Node: rules[k].node}
}

// optional makes r a choice group of its own.
func (r Rule) optional() Rule {
	r.Flags |= FlagChoice | FlagChoiceEnd
	return r
}

// alt makes r a non-final alternative of a choice group.
func (r Rule) alt() Rule {
	r.Flags |= FlagChoice
	return r
}

// last makes r the mandatory final alternative of a choice group.
func (r Rule) last() Rule {
	r.Flags |= FlagChoiceEnd
	return r
}

func closer(k ruleKind, mark, pos uint32) Rule {
	r := rule(k)
	r.Mark = mark
	r.Pos = pos
	return r
}

func (r Rule) String() string { return r.Kind.String() }
