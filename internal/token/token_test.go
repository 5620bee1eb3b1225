package token_test

import (
	"testing"
	"unsafe"

	"funlang/internal/token"
)

func TestTokenIsEightBytes(t *testing.T) {
	if sz := unsafe.Sizeof(token.Token{}); sz != 8 {
		t.Fatalf("Token size = %d, want 8", sz)
	}
}

func TestDisplacementSign(t *testing.T) {
	tests := []int32{1, -1, 5, -5, token.MaxDisplacement, token.MinDisplacement}
	for _, disp := range tests {
		tok, ok := token.WithDisplacement(token.RParen, 10, disp)
		if !ok {
			t.Fatalf("displacement %d rejected", disp)
		}
		if tok.Kind() != token.RParen {
			t.Fatalf("kind clobbered by displacement %d: %v", disp, tok.Kind())
		}
		if got := tok.Displacement(); got != disp {
			t.Fatalf("Displacement() = %d, want %d", got, disp)
		}
		if !tok.Matched() {
			t.Fatalf("token with displacement %d must be matched", disp)
		}
	}
	if _, ok := token.WithDisplacement(token.LParen, 0, token.MaxDisplacement+1); ok {
		t.Fatal("out of range displacement accepted")
	}
}

func TestUnmatchedBracket(t *testing.T) {
	tok := token.Make(token.RParen, 3)
	if tok.Matched() {
		t.Fatal("bare bracket reported as matched")
	}
	if !tok.SetDisplacement(-2) || tok.Displacement() != -2 || tok.Pos != 3 {
		t.Fatalf("SetDisplacement produced %v", tok)
	}
}

func TestLiteralIndex(t *testing.T) {
	tok, ok := token.WithLit(token.LitInt, 7, 1234)
	if !ok || tok.Kind() != token.LitInt || tok.LitIndex() != 1234 {
		t.Fatalf("got %v ok=%v", tok, ok)
	}
	if _, ok := token.WithLit(token.LitInt, 0, token.MaxAux+1); ok {
		t.Fatal("index past 24 bits accepted")
	}
}

func TestInternHandle(t *testing.T) {
	h := token.Intern{Off: 0xbeef, Len: 255}
	tok := token.WithIntern(token.ValID, 0, h)
	if tok.Kind() != token.ValID {
		t.Fatalf("kind = %v", tok.Kind())
	}
	if tok.Intern() != h {
		t.Fatalf("Intern() = %+v, want %+v", tok.Intern(), h)
	}
}

func TestKindClasses(t *testing.T) {
	for _, k := range []token.Kind{token.KwFn, token.KwLet, token.KwReturn, token.Arrow, token.SubTy, token.KwHole} {
		if !k.IsKeyword() {
			t.Errorf("%v should be a keyword", k)
		}
	}
	for _, k := range []token.Kind{token.ValID, token.TypeID, token.LitInt, token.Plus, token.LParen} {
		if k.IsKeyword() {
			t.Errorf("%v must not be a keyword", k)
		}
	}
	builtins := []token.Kind{token.KwU8, token.KwU16, token.KwU32, token.KwU64, token.KwS8, token.KwS16, token.KwS32, token.KwS64}
	for _, k := range builtins {
		if !k.IsBuiltinType() {
			t.Errorf("%v should be a builtin type", k)
		}
	}
	if token.KwLet.IsBuiltinType() || token.KwAss.IsBuiltinType() {
		t.Error("let/ass are not types")
	}
	if token.LBrace.Closing() != token.RBrace || token.Plus.Closing() != token.Invalid {
		t.Error("Closing mapping broken")
	}
}

func TestKindString(t *testing.T) {
	cases := map[token.Kind]string{
		token.Invalid:    "Invalid",
		token.ValID:      "ValID",
		token.Semicolon:  ";",
		token.KwReturn:   "return",
		token.Arrow:      "->",
		token.Kind(0x7f): "Kind(0x7f)",
	}
	for k, want := range cases {
		if got := k.String(); got != want {
			t.Errorf("Kind(%d).String() = %q, want %q", uint8(k), got, want)
		}
	}
}
