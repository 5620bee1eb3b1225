// Package testkit holds invariant checks shared by parser tests and fuzz harnesses.
package testkit

import (
	"fmt"
	"strconv"
	"strings"

	"fortio.org/safecast"

	"funlang/internal/ast"
	"funlang/internal/lexer"
	"funlang/internal/source"
	"funlang/internal/token"
)

// CheckNodeInvariants runs the structural checks on a parse result:
// 1) ast.Validate accepts the array
// 2) every node position lies inside the source content
// 3) leaf nodes appear in source order
// 4) every string payload resolves to a live view in names
func CheckNodeInvariants(nodes []ast.Node, names *source.StringSet, content []byte) error {
	if err := ast.Validate(nodes); err != nil {
		return err
	}
	lenContent, err := safecast.Conv[uint32](len(content))
	if err != nil {
		return fmt.Errorf("len content overflow: %w", err)
	}
	var lastLeaf uint32
	for i, n := range nodes {
		if n.Pos >= lenContent && lenContent > 0 {
			return fmt.Errorf("node %d (%s) at %d is past the end of %d bytes", i, n.Kind, n.Pos, lenContent)
		}
		switch n.Kind.Payload() {
		case ast.PayloadStr:
			v := n.Str()
			if names == nil {
				return fmt.Errorf("node %d carries a name but no name set was given", i)
			}
			if got, ok := names.Lookup(names.Bytes(v)); !ok || got != v {
				return fmt.Errorf("node %d name view %d:%d is not canonical in the set", i, v.Off, v.Len)
			}
		case ast.PayloadKeyword:
			if !n.Builtin().IsBuiltinType() {
				return fmt.Errorf("node %d builtin payload %s is not a builtin type", i, n.Builtin())
			}
		}
		if !n.Kind.IsComposite() {
			if n.Pos < lastLeaf {
				return fmt.Errorf("leaf %d at %d precedes an earlier leaf at %d", i, n.Pos, lastLeaf)
			}
			lastLeaf = n.Pos
		}
	}
	return nil
}

// CheckTokenInvariants verifies the lexer output: positions strictly
// increase, every bracket annotation points at a bracket of the matching
// kind that points back, and literal and intern payloads are in range.
func CheckTokenInvariants(res *lexer.Result, content []byte) error {
	n := len(res.Tokens)
	for i, tok := range res.Tokens {
		if i > 0 && tok.Pos <= res.Tokens[i-1].Pos {
			return fmt.Errorf("token %d at %d does not follow token %d at %d", i, tok.Pos, i-1, res.Tokens[i-1].Pos)
		}
		if int(tok.Pos) >= len(content) {
			return fmt.Errorf("token %d at %d is past the end of %d bytes", i, tok.Pos, len(content))
		}
		k := tok.Kind()
		switch {
		case k == token.LitInt:
			if int(tok.LitIndex()) >= len(res.Lits) {
				return fmt.Errorf("token %d literal index %d out of %d", i, tok.LitIndex(), len(res.Lits))
			}
		case k.HasIntern():
			h := tok.Intern()
			if int(h.Off)+int(h.Len) > len(res.Intern) {
				return fmt.Errorf("token %d intern %d:%d past %d bytes", i, h.Off, h.Len, len(res.Intern))
			}
		case tok.Matched():
			j := i + int(tok.Displacement())
			if j < 0 || j >= n {
				return fmt.Errorf("token %d bracket points outside the stream (%d)", i, j)
			}
			other := res.Tokens[j]
			if j+int(other.Displacement()) != i {
				return fmt.Errorf("bracket %d points at %d which points elsewhere", i, j)
			}
			open, closer := k, other.Kind()
			if j < i {
				open, closer = closer, k
			}
			if open.Closing() != closer {
				return fmt.Errorf("bracket %d (%s) paired with %d (%s)", i, k, j, other.Kind())
			}
		}
	}
	return nil
}

// CheckFlatSizes checks an ast.Flat rendering on its own: every "Kind[n]"
// entry must close over exactly n preceding slots made of whole subtrees.
func CheckFlatSizes(flat string) error {
	var stack []int // размеры поддеревьев вместе с корнем
	for i, entry := range strings.Fields(flat) {
		open := strings.IndexByte(entry, '[')
		if open < 0 || !strings.HasSuffix(entry, "]") {
			stack = append(stack, 1)
			continue
		}
		size, err := strconv.Atoi(entry[open+1 : len(entry)-1])
		if err != nil {
			return fmt.Errorf("entry %d %q: %w", i, entry, err)
		}
		covered := 0
		for covered < size && len(stack) > 0 {
			covered += stack[len(stack)-1]
			stack = stack[:len(stack)-1]
		}
		if covered != size {
			return fmt.Errorf("entry %d %q: preceding subtrees cover %d slots, not %d", i, entry, covered, size)
		}
		stack = append(stack, size+1)
	}
	return nil
}
