package parser_test

import (
	"errors"
	"strings"
	"testing"

	"funlang/internal/ast"
	"funlang/internal/diag"
	"funlang/internal/lexer"
	"funlang/internal/parser"
	"funlang/internal/source"
	"funlang/internal/testkit"
	"funlang/internal/token"
)

func parseString(t *testing.T, input string, entry parser.Entry) (*parser.Result, error) {
	t.Helper()
	lx := lexer.LexBytes([]byte(input), lexer.Options{})
	return parser.Parse(lx, parser.Options{Entry: entry})
}

func mustParse(t *testing.T, input string, entry parser.Entry) *parser.Result {
	t.Helper()
	res, err := parseString(t, input, entry)
	if err != nil {
		t.Fatalf("parse %q: %v", input, err)
	}
	if err := testkit.CheckNodeInvariants(res.Nodes, res.Names, []byte(input)); err != nil {
		t.Fatalf("parse %q produced a malformed tree: %v\n%s", input, err, ast.Flat(res.Nodes, res.Names))
	}
	return res
}

func TestParseLetBinding(t *testing.T) {
	res := mustParse(t, "let x = 1;", parser.EntryBlock)
	want := "BindName(x) LiteralInt(1) StmtLetBind[2]"
	if got := ast.Flat(res.Nodes, res.Names); got != want {
		t.Fatalf("got  %s\nwant %s", got, want)
	}
}

func TestParseFunctionLayout(t *testing.T) {
	res := mustParse(t, "fn f(a: u32) -> u32 { return a; }", parser.EntryFile)

	want := []struct {
		kind ast.Kind
		pos  uint32
		text string
	}{
		{ast.BindName, 3, "BindName(f)"},
		{ast.BindName, 5, "BindName(a)"},
		{ast.BuiltinTy, 8, "BuiltinTy(u32)"},
		{ast.BindTyJudge, 6, "BindTyJudge[2]"},
		{ast.ExpArgListEnd, 11, "ExpArgListEnd[3]"},
		{ast.BuiltinTy, 16, "BuiltinTy(u32)"},
		{ast.FunArrow, 13, "FunArrow[1]"},
		{ast.BindUse, 29, "BindUse(a)"},
		{ast.StmtReturn, 22, "StmtReturn[1]"},
		{ast.FunEnd, 32, "FunEnd[2]"},
		{ast.FunIntro, 0, "FunIntro[10]"},
	}
	if len(res.Nodes) != len(want) {
		t.Fatalf("got %d nodes, want %d: %s", len(res.Nodes), len(want), ast.Flat(res.Nodes, res.Names))
	}
	for i, w := range want {
		n := res.Nodes[i]
		if n.Kind != w.kind || n.Pos != w.pos || n.Format(res.Names) != w.text {
			t.Errorf("node %d = %s@%d, want %s@%d", i, n.Format(res.Names), n.Pos, w.text, w.pos)
		}
	}

	// a используется дважды, а хранится один раз
	if res.Nodes[1].Str() != res.Nodes[7].Str() {
		t.Errorf("BindName(a) and BindUse(a) got different views: %+v %+v", res.Nodes[1].Str(), res.Nodes[7].Str())
	}
	if res.Names.Len() != 2 {
		t.Errorf("name set holds %d strings, want 2", res.Names.Len())
	}
	if got := ast.Children(res.Nodes, 10); len(got) != 4 {
		t.Errorf("FunIntro children = %v, want 4", got)
	}
}

func TestParseExpressions(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"prefix binds tighter", "-1+2;", "LiteralInt(1) PrefixMinus[1] LiteralInt(2) InfixPlus[3]"},
		{"left assoc", "1+2+3;", "LiteralInt(1) LiteralInt(2) InfixPlus[2] LiteralInt(3) InfixPlus[4]"},
		{"parens group right", "1+(2+3);", "LiteralInt(1) LiteralInt(2) LiteralInt(3) InfixPlus[2] InfixPlus[4]"},
		{"negated group", "-(a+b);", "BindUse(a) BindUse(b) InfixPlus[2] PrefixMinus[3]"},
		{"double negation", "--1;", "LiteralInt(1) PrefixMinus[1] PrefixMinus[2]"},
		{"plus negative", "a+-b;", "BindUse(a) BindUse(b) PrefixMinus[1] InfixPlus[3]"},
		{"hex literal", "0x10;", "LiteralInt(16)"},
		{"redundant parens", "((x));", "BindUse(x)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := mustParse(t, tt.input, parser.EntryExpr)
			if err := testkit.CheckFlatSizes(tt.want); err != nil {
				t.Fatalf("expected layout is inconsistent: %v", err)
			}
			if got := ast.Flat(res.Nodes, res.Names); got != tt.want {
				t.Errorf("got  %s\nwant %s", got, tt.want)
			}
		})
	}
}

func TestParseStatements(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"empty", "", ""},
		{"typed let", "let x: u32 = y;", "BindName(x) BuiltinTy(u32) BindTyJudge[2] BindUse(y) StmtLetBind[4]"},
		{"named type", "let p: Point = q;", "BindName(p) BindTyUse(Point) BindTyJudge[2] BindUse(q) StmtLetBind[4]"},
		{"sequence", "let x = 1; return x;", "BindName(x) LiteralInt(1) StmtLetBind[2] BindUse(x) StmtReturn[1]"},
		{"return sum", "return a + 1;", "BindUse(a) LiteralInt(1) InfixPlus[2] StmtReturn[3]"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := mustParse(t, tt.input, parser.EntryBlock)
			if err := testkit.CheckFlatSizes(tt.want); err != nil {
				t.Fatalf("expected layout is inconsistent: %v", err)
			}
			if got := ast.Flat(res.Nodes, res.Names); got != tt.want {
				t.Errorf("got  %s\nwant %s", got, tt.want)
			}
		})
	}
}

// rootSpans checks that top-level nodes tile the array: each root's
// SubtreeSize reaches back exactly to the slot after the previous root.
func rootSpans(t *testing.T, nodes []ast.Node) {
	t.Helper()
	next := 0
	for i, n := range nodes {
		if int(n.SubtreeSize()) > i {
			t.Fatalf("node %d (%s) claims %d slots, only %d precede it", i, n.Kind, n.SubtreeSize(), i)
		}
	}
	for _, r := range ast.Roots(nodes) {
		if got := r - int(nodes[r].SubtreeSize()); got != next {
			t.Fatalf("root %d (%s) spans from %d, want %d", r, nodes[r].Kind, got, next)
		}
		next = r + 1
	}
	if next != len(nodes) {
		t.Fatalf("roots cover %d of %d nodes", next, len(nodes))
	}
}

func TestParseFiles(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"empty file", "", ""},
		{"comments only", "// nothing\n/* here */", ""},
		{"no args", "fn main() {}", "BindName(main) ExpArgListEnd[0] FunEnd[0] FunIntro[3]"},
		{
			"two args",
			"fn f(a: u8, b: s64) {}",
			"BindName(f) BindName(a) BuiltinTy(u8) BindTyJudge[2] BindName(b) BuiltinTy(s64) BindTyJudge[2] " +
				"ExpArgListEnd[6] FunEnd[0] FunIntro[9]",
		},
		{
			"two functions",
			"fn a() {}\nfn b() -> T { return 0; }",
			"BindName(a) ExpArgListEnd[0] FunEnd[0] FunIntro[3] " +
				"BindName(b) ExpArgListEnd[0] BindTyUse(T) FunArrow[1] LiteralInt(0) StmtReturn[1] FunEnd[2] FunIntro[7]",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := mustParse(t, tt.input, parser.EntryFile)
			rootSpans(t, res.Nodes)
			if err := testkit.CheckFlatSizes(tt.want); err != nil {
				t.Fatalf("expected layout is inconsistent: %v", err)
			}
			if got := ast.Flat(res.Nodes, res.Names); got != tt.want {
				t.Errorf("got  %s\nwant %s", got, tt.want)
			}
		})
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		entry    parser.Entry
		want     error
		code     diag.Code
		expected string
	}{
		{"stray closer", "fn f()) {}", parser.EntryFile, parser.ErrUnexpectedToken, diag.SynUnexpectedToken, "'{'"},
		{"unclosed paren", "fn f(a: u32 { return a; }", parser.EntryFile, parser.ErrUnmatchedDelimiter, diag.SynUnmatchedDelimiter, "'('"},
		{"unclosed group", "return (1;", parser.EntryBlock, parser.ErrUnmatchedDelimiter, diag.SynUnmatchedDelimiter, "expression"},
		{"statement at top level", "let x = 1;", parser.EntryFile, parser.ErrTopLevel, diag.SynUnexpectedTopLevel, "function definition"},
		{"implicit args", "fn f[T](a: T) {}", parser.EntryFile, parser.ErrNotImplemented, diag.SynNotImplemented, "'['"},
		{"truncated header", "fn f(", parser.EntryFile, parser.ErrUnmatchedDelimiter, diag.SynUnmatchedDelimiter, "'('"},
		{"missing name", "fn (a: u32) {}", parser.EntryFile, parser.ErrUnexpectedToken, diag.SynUnexpectedToken, "identifier"},
		{"eof in let", "let x =", parser.EntryBlock, parser.ErrUnexpectedEOF, diag.SynUnexpectedEOF, "expression"},
		{"missing semicolon", "return 1", parser.EntryBlock, parser.ErrUnexpectedEOF, diag.SynUnexpectedEOF, "';'"},
		{"missing operand", "1 + ;", parser.EntryExpr, parser.ErrUnexpectedToken, diag.SynUnexpectedToken, "expression"},
		{"bad type", "let x: 1 = 2;", parser.EntryBlock, parser.ErrUnexpectedToken, diag.SynUnexpectedToken, "type"},
		{"trailing tokens", "1; 2", parser.EntryExpr, parser.ErrUnexpectedToken, diag.SynUnexpectedToken, ""},
		{"string is not an expression", `"s";`, parser.EntryExpr, parser.ErrUnexpectedToken, diag.SynUnexpectedToken, "expression"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := parseString(t, tt.input, tt.entry)
			if err == nil {
				t.Fatalf("expected error, got %s", ast.Flat(res.Nodes, res.Names))
			}
			if res != nil {
				t.Errorf("partial result returned alongside %v", err)
			}
			if !errors.Is(err, tt.want) {
				t.Fatalf("err = %v, want %v", err, tt.want)
			}
			var perr *parser.Error
			if !errors.As(err, &perr) {
				t.Fatalf("err %T is not *parser.Error", err)
			}
			if perr.Code != tt.code {
				t.Errorf("code = %s, want %s", perr.Code.ID(), tt.code.ID())
			}
			if perr.Expected != tt.expected {
				t.Errorf("expected = %q, want %q", perr.Expected, tt.expected)
			}
		})
	}
}

func TestParseErrorPointsAtToken(t *testing.T) {
	_, err := parseString(t, "fn f()) {}", parser.EntryFile)
	var perr *parser.Error
	if !errors.As(err, &perr) {
		t.Fatalf("err = %v", err)
	}
	if perr.Tok.Kind() != token.RParen || perr.Pos != 6 || perr.Index != 4 {
		t.Errorf("error at %s pos %d index %d, want ')' pos 6 index 4", perr.Tok.Kind(), perr.Pos, perr.Index)
	}
	if !strings.Contains(err.Error(), "expected '{'") {
		t.Errorf("message %q does not name the expected rule", err.Error())
	}

	_, err = parseString(t, "fn f[T]() {}", parser.EntryFile)
	if !errors.As(err, &perr) || perr.Tok.Kind() != token.LBracket || perr.Pos != 4 {
		t.Errorf("implicit-args error must point at '[': %v", err)
	}
}

func TestParseDoesNotMutateLexResult(t *testing.T) {
	lx := lexer.LexBytes([]byte("fn f(a: u32) -> u32 { return a; }"), lexer.Options{})
	toks := append([]token.Token(nil), lx.Tokens...)
	intern := string(lx.Intern)

	if _, err := parser.Parse(lx, parser.Options{}); err != nil {
		t.Fatal(err)
	}
	for i := range toks {
		if toks[i] != lx.Tokens[i] {
			t.Fatalf("token %d changed: %s -> %s", i, toks[i], lx.Tokens[i])
		}
	}
	if string(lx.Intern) != intern {
		t.Fatal("lexer intern buffer changed")
	}
}

func TestParseSharedNames(t *testing.T) {
	names := source.NewStringSet(0)
	var views []source.StringView
	for _, src := range []string{"fn main() {}", "fn helper() { return main; }"} {
		lx := lexer.LexBytes([]byte(src), lexer.Options{})
		res, err := parser.Parse(lx, parser.Options{Names: names})
		if err != nil {
			t.Fatal(err)
		}
		if res.Names != names {
			t.Fatal("result does not use the shared name set")
		}
		for _, n := range res.Nodes {
			if n.Kind.Payload() == ast.PayloadStr && names.String(n.Str()) == "main" {
				views = append(views, n.Str())
			}
		}
	}
	if len(views) != 2 || views[0] != views[1] {
		t.Fatalf("main views across files = %+v", views)
	}
}

func TestParseDeepNesting(t *testing.T) {
	// префиксные минусы не расходуют стек вызовов
	const depth = 100000
	input := strings.Repeat("-", depth) + "1;"
	res := mustParse(t, input, parser.EntryExpr)
	if len(res.Nodes) != depth+1 {
		t.Fatalf("got %d nodes", len(res.Nodes))
	}
	if root := res.Nodes[len(res.Nodes)-1]; root.SubtreeSize() != depth {
		t.Fatalf("root covers %d nodes, want %d", root.SubtreeSize(), depth)
	}
}

func TestParseBracketDepthLimit(t *testing.T) {
	// одиннадцатую пару лексер не размечает, парсер обязан это заметить
	input := strings.Repeat("(", 11) + "1" + strings.Repeat(")", 11) + ";"
	_, err := parseString(t, input, parser.EntryExpr)
	if !errors.Is(err, parser.ErrUnmatchedDelimiter) {
		t.Fatalf("err = %v, want ErrUnmatchedDelimiter", err)
	}

	input = strings.Repeat("(", 10) + "1" + strings.Repeat(")", 10) + ";"
	mustParse(t, input, parser.EntryExpr)
}

func BenchmarkParse(b *testing.B) {
	var sb strings.Builder
	for i := range 200 {
		sb.WriteString("fn f")
		sb.WriteString(strings.Repeat("x", i%7+1))
		sb.WriteString("(a: u32, b: Point) -> u64 {\n")
		sb.WriteString("  let c: s32 = -a + (b + 1);\n  return c + a + 2;\n}\n")
	}
	lx := lexer.LexBytes([]byte(sb.String()), lexer.Options{})
	b.ReportAllocs()
	for b.Loop() {
		if _, err := parser.Parse(lx, parser.Options{}); err != nil {
			b.Fatal(err)
		}
	}
}
