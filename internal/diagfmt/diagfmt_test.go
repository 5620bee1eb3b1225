package diagfmt

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"funlang/internal/ast"
	"funlang/internal/diag"
	"funlang/internal/lexer"
	"funlang/internal/parser"
	"funlang/internal/source"
)

func TestPathModes(t *testing.T) {
	tests := []struct {
		name string
		mode PathMode
		base string
		want string
	}{
		{"basename", PathModeBasename, "", "test.fl"},
		{"relative", PathModeRelative, "/home/user/project", "src/test.fl"},
		{"auto inside base", PathModeAuto, "/home/user/project", "src/test.fl"},
		{"auto outside base", PathModeAuto, "/srv", "/home/user/project/src/test.fl"},
		{"auto without base", PathModeAuto, "", "/home/user/project/src/test.fl"},
		{"absolute", PathModeAbsolute, "", "/home/user/project/src/test.fl"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatPath("/home/user/project/src/test.fl", tt.mode, tt.base); got != tt.want {
				t.Errorf("FormatPath = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestPrettyDiagnostic(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("src/test.fl", []byte("fn main() {\n  let x = \"open\n}\n"))
	bag := diag.NewBag(10)
	bag.Add(diag.NewError(diag.LexUnterminatedString, source.Span{File: id, Start: 22, End: 28}, "unterminated string literal").
		WithNote(source.Span{File: id, Start: 14, End: 17}, "in this let"))

	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{Context: 1, ShowNotes: true})
	out := buf.String()

	for _, want := range []string{
		"src/test.fl:2:11: ERROR LEX1002: unterminated string literal",
		" 1 | fn main() {",
		` 2 |   let x = "open`,
		"   |           ^~~~~",
		"note: src/test.fl:2:3: in this let",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output lacks %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "\x1b[") {
		t.Error("color escapes with Color=false")
	}
}

func TestPrettyColorAndOverflow(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("a.fl", []byte("x"))
	bag := diag.NewBag(1)
	bag.Add(diag.New(diag.SevWarning, diag.LexScopeTooDeep, source.At(id, 0, 1), "deep"))
	bag.Add(diag.New(diag.SevWarning, diag.LexScopeTooDeep, source.At(id, 0, 1), "deeper"))

	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{Color: true})
	out := buf.String()
	if !strings.Contains(out, "\x1b[") {
		t.Errorf("expected ANSI escapes:\n%q", out)
	}
	if !strings.Contains(out, "1 more diagnostics not shown") {
		t.Errorf("dropped diagnostics not mentioned:\n%s", out)
	}
}

func TestJSONDiagnostics(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("a.fl", []byte("let\nx"))
	bag := diag.NewBag(10)
	bag.Add(diag.NewError(diag.SynUnexpectedToken, source.At(id, 4, 1), "unexpected x"))
	bag.Add(diag.New(diag.SevInfo, diag.LexIdentTruncated, source.At(id, 0, 3), "cut").WithNote(source.At(id, 0, 1), "here"))

	var buf bytes.Buffer
	if err := JSON(&buf, bag, fs, JSONOpts{IncludePositions: true, Max: 1}); err != nil {
		t.Fatal(err)
	}
	var out DiagnosticsOutput
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatal(err)
	}
	if out.Count != 1 || out.Dropped != 1 {
		t.Fatalf("count=%d dropped=%d", out.Count, out.Dropped)
	}
	d := out.Diagnostics[0]
	if d.Code != "SYN2001" || d.Severity != "ERROR" || d.Location.StartLine != 2 || d.Location.StartCol != 1 {
		t.Errorf("diagnostic = %+v", d)
	}
}

func TestTokensOutput(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("t.fl", []byte("f(x) 42"))
	res := lexer.Lex(fs.Get(id), lexer.Options{})

	var pretty bytes.Buffer
	if err := FormatTokensPretty(&pretty, res, fs, id, NodeOpts{}); err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(pretty.String()), "\n")
	if len(lines) != 5 {
		t.Fatalf("got %d lines:\n%s", len(lines), pretty.String())
	}
	if !strings.Contains(lines[1], "-> #3") || !strings.Contains(lines[0], `"f"`) || !strings.HasSuffix(lines[4], "42") {
		t.Errorf("unexpected pretty tokens:\n%s", pretty.String())
	}

	var js bytes.Buffer
	if err := FormatTokensJSON(&js, res, fs, id); err != nil {
		t.Fatal(err)
	}
	var toks []TokenOutput
	if err := json.Unmarshal(js.Bytes(), &toks); err != nil {
		t.Fatal(err)
	}
	if toks[3].Match == nil || *toks[3].Match != 1 || toks[4].Value != 42 || toks[2].Text != "x" {
		t.Errorf("json tokens = %+v", toks)
	}
}

func parseFile(t *testing.T, src string) (*source.FileSet, source.FileID, *parser.Result) {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.AddVirtual("p.fl", []byte(src))
	res, err := parser.Parse(lexer.Lex(fs.Get(id), lexer.Options{}), parser.Options{})
	if err != nil {
		t.Fatal(err)
	}
	return fs, id, res
}

func TestNodesTreeAndPretty(t *testing.T) {
	fs, id, res := parseFile(t, "fn f(a: u32) -> u32 { return a + 0; }")

	var tree bytes.Buffer
	if err := FormatNodesTree(&tree, res.Nodes, res.Names, NodeOpts{}); err != nil {
		t.Fatal(err)
	}
	want := strings.Join([]string{
		"FunIntro[12]",
		"  BindName(f)",
		"  ExpArgListEnd[3]",
		"    BindTyJudge[2]",
		"      BindName(a)",
		"      BuiltinTy(u32)",
		"  FunArrow[1]",
		"    BuiltinTy(u32)",
		"  FunEnd[4]",
		"    StmtReturn[3]",
		"      InfixPlus[2]",
		"        BindUse(a)",
		"        LiteralInt(0)",
	}, "\n") + "\n"
	if tree.String() != want {
		t.Errorf("tree:\n%s\nwant:\n%s", tree.String(), want)
	}

	var pretty bytes.Buffer
	if err := FormatNodesPretty(&pretty, res.Nodes, res.Names, fs, id, NodeOpts{}); err != nil {
		t.Fatal(err)
	}
	out := pretty.String()
	for _, want := range []string{"BindName", "[0..11]", "   0  BindName", " a\n", " 0\n"} {
		if !strings.Contains(out, want) {
			t.Errorf("pretty nodes lack %q:\n%s", want, out)
		}
	}
}

func TestNodesJSON(t *testing.T) {
	fs, id, res := parseFile(t, "fn f() { return 0; }")
	var buf bytes.Buffer
	if err := FormatNodesJSON(&buf, res.Nodes, res.Names, fs, id, NodeOpts{}); err != nil {
		t.Fatal(err)
	}
	var out NodesOutput
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatal(err)
	}
	if out.File != "p.fl" || out.Names != 1 || len(out.Nodes) != len(res.Nodes) {
		t.Fatalf("header = %+v", out)
	}
	lit := out.Nodes[2]
	if lit.Kind != "LiteralInt" || lit.Value == nil || *lit.Value != 0 {
		t.Errorf("literal zero lost its value: %+v", lit)
	}
}

func TestNodesMsgpackRoundTrip(t *testing.T) {
	_, _, res := parseFile(t, "fn f(a: Point) { let b = a; return b; }")
	var buf bytes.Buffer
	if err := FormatNodesMsgpack(&buf, res.Nodes, res.Names); err != nil {
		t.Fatal(err)
	}
	nodes, names, err := DecodeNodesMsgpack(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if got, want := ast.Flat(nodes, names), ast.Flat(res.Nodes, res.Names); got != want {
		t.Fatalf("round trip:\n%s\nwant\n%s", got, want)
	}
}
