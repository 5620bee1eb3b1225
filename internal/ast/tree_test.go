package ast

import (
	"errors"
	"slices"
	"strings"
	"testing"

	"funlang/internal/source"
	"funlang/internal/token"
)

// fnTree is the post-order layout of `fn f(a: u32) -> u32 { return a; }`.
func fnTree(names *source.StringSet) []Node {
	f := names.InsertString("f")
	a := names.InsertString("a")
	return []Node{
		Name(BindName, 3, f),
		Name(BindName, 5, a),
		Builtin(8, token.KwU32),
		Composite(BindTyJudge, 6, 2),
		Composite(ExpArgListEnd, 11, 3),
		Builtin(16, token.KwU32),
		Composite(FunArrow, 13, 1),
		Name(BindUse, 29, a),
		Composite(StmtReturn, 22, 1),
		Composite(FunEnd, 32, 2),
		Composite(FunIntro, 0, 10),
	}
}

func TestChildren(t *testing.T) {
	names := source.NewStringSet(0)
	nodes := fnTree(names)

	tests := []struct {
		idx  int
		want []int
	}{
		{10, []int{0, 4, 6, 9}},
		{4, []int{3}},
		{3, []int{1, 2}},
		{6, []int{5}},
		{9, []int{8}},
		{8, []int{7}},
		{0, nil},
	}
	for _, tt := range tests {
		if got := Children(nodes, tt.idx); !slices.Equal(got, tt.want) {
			t.Errorf("Children(%d) = %v, want %v", tt.idx, got, tt.want)
		}
	}
	if got := Roots(nodes); !slices.Equal(got, []int{10}) {
		t.Errorf("Roots = %v", got)
	}
	if err := Validate(nodes); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}

func TestRootsOfSequence(t *testing.T) {
	nodes := []Node{
		Name(BindName, 4, source.StringView{Off: 1, Len: 1}),
		Literal(8, 1),
		Composite(StmtLetBind, 0, 2),
		Literal(18, 7),
		Composite(StmtReturn, 11, 1),
	}
	if got := Roots(nodes); !slices.Equal(got, []int{2, 4}) {
		t.Fatalf("Roots = %v", got)
	}
	if err := Validate(nodes); err != nil {
		t.Fatal(err)
	}
}

func TestWalkPreOrder(t *testing.T) {
	names := source.NewStringSet(0)
	nodes := fnTree(names)

	var order []int
	var depths []int
	Walk(nodes, func(i, depth int) bool {
		order = append(order, i)
		depths = append(depths, depth)
		return nodes[i].Kind != FunArrow
	})
	wantOrder := []int{10, 0, 4, 3, 1, 2, 6, 9, 8, 7}
	wantDepth := []int{0, 1, 1, 2, 3, 3, 1, 1, 2, 3}
	if !slices.Equal(order, wantOrder) || !slices.Equal(depths, wantDepth) {
		t.Fatalf("walk order %v depths %v", order, depths)
	}
}

func TestValidateRejectsOverlap(t *testing.T) {
	nodes := []Node{
		Literal(0, 1),
		Composite(PrefixMinus, 0, 1),
		Literal(2, 2),
		Composite(InfixPlus, 1, 5), // reaches past the array start
	}
	if err := Validate(nodes); !errors.Is(err, ErrMalformed) {
		t.Fatalf("expected ErrMalformed, got %v", err)
	}

	straddle := []Node{
		Literal(0, 1),
		Literal(1, 2),
		Composite(PrefixMinus, 0, 1),
		Composite(InfixPlus, 0, 1), // swallows only half of the minus subtree
	}
	if err := Validate(straddle); !errors.Is(err, ErrMalformed) {
		t.Fatalf("expected ErrMalformed for straddling subtree, got %v", err)
	}
}

func TestNodePayloads(t *testing.T) {
	names := source.NewStringSet(0)
	v := names.InsertString("value")
	n := Name(BindUse, 3, v)
	if n.Str() != v || n.SubtreeSize() != 0 {
		t.Fatalf("name node = %+v", n)
	}
	if got := n.Format(names); got != "BindUse(value)" {
		t.Fatalf("Format = %q", got)
	}
	lit := Literal(0, 1<<63)
	if lit.Literal() != 1<<63 || lit.Format(nil) != "LiteralInt(9223372036854775808)" {
		t.Fatalf("literal = %s", lit.Format(nil))
	}
	if b := Builtin(0, token.KwS16); b.Builtin() != token.KwS16 || b.Format(nil) != "BuiltinTy(s16)" {
		t.Fatalf("builtin = %s", b.Format(nil))
	}
	if c := Composite(StmtLetBind, 0, 2); c.Format(nil) != "StmtLetBind[2]" {
		t.Fatalf("composite = %s", c.Format(nil))
	}
}

func TestKindRoundTrip(t *testing.T) {
	for k := Invalid; k < kindCount; k++ {
		got, ok := ParseKind(k.String())
		if !ok || got != k {
			t.Errorf("ParseKind(%q) = %v, %v", k.String(), got, ok)
		}
	}
	if _, ok := ParseKind("Nope"); ok {
		t.Error("ParseKind accepted an unknown name")
	}
}

func TestDump(t *testing.T) {
	names := source.NewStringSet(0)
	got := Dump(fnTree(names), names)
	want := strings.Join([]string{
		"FunIntro[10]",
		"  BindName(f)",
		"  ExpArgListEnd[3]",
		"    BindTyJudge[2]",
		"      BindName(a)",
		"      BuiltinTy(u32)",
		"  FunArrow[1]",
		"    BuiltinTy(u32)",
		"  FunEnd[2]",
		"    StmtReturn[1]",
		"      BindUse(a)",
		"",
	}, "\n")
	if got != want {
		t.Fatalf("Dump:\n%s\nwant:\n%s", got, want)
	}
}
