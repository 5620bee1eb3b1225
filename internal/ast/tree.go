package ast

import (
	"errors"
	"fmt"
	"strings"

	"funlang/internal/source"
)

// ErrMalformed reports a node array whose subtree sizes do not nest.
var ErrMalformed = errors.New("malformed flat tree")

// SubtreeStart returns the index of the first descendant of nodes[i]
// (i itself for leaves).
func SubtreeStart(nodes []Node, i int) int {
	return i - int(nodes[i].SubtreeSize())
}

// Children returns the indices of the direct children of nodes[i] in source
// order. It walks backwards from the last child, skipping whole subtrees.
func Children(nodes []Node, i int) []int {
	return siblings(nodes, SubtreeStart(nodes, i), i-1)
}

// Roots returns the indices of the top-level nodes in source order.
func Roots(nodes []Node) []int {
	return siblings(nodes, 0, len(nodes)-1)
}

func siblings(nodes []Node, start, last int) []int {
	var out []int
	for j := last; j >= start; j = SubtreeStart(nodes, j) - 1 {
		out = append(out, j)
	}
	for l, r := 0, len(out)-1; l < r; l, r = l+1, r-1 {
		out[l], out[r] = out[r], out[l]
	}
	return out
}

// Walk visits every node in pre-order (parent before children, children in
// source order). Returning false from fn skips the node's subtree.
func Walk(nodes []Node, fn func(i, depth int) bool) {
	type frame struct{ idx, depth int }
	roots := Roots(nodes)
	stack := make([]frame, 0, len(roots))
	for k := len(roots) - 1; k >= 0; k-- {
		stack = append(stack, frame{roots[k], 0})
	}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if !fn(f.idx, f.depth) {
			continue
		}
		kids := Children(nodes, f.idx)
		for k := len(kids) - 1; k >= 0; k-- {
			stack = append(stack, frame{kids[k], f.depth + 1})
		}
	}
}

// Validate checks that every composite node's range [i-size, i-1] is
// exactly covered by the subtrees of its children and that the top-level
// subtrees cover the whole array.
func Validate(nodes []Node) error {
	type span struct{ first, last int }
	stack := []span{{0, len(nodes) - 1}}
	for len(stack) > 0 {
		s := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for j := s.last; j >= s.first; {
			n := nodes[j]
			if n.Kind == Invalid || n.Kind >= kindCount {
				return fmt.Errorf("%w: node %d has kind %s", ErrMalformed, j, n.Kind)
			}
			start := SubtreeStart(nodes, j)
			if start < s.first {
				return fmt.Errorf("%w: node %d (%s) reaches %d, outside its parent range [%d,%d]",
					ErrMalformed, j, n.Format(nil), start, s.first, s.last)
			}
			if start < j {
				stack = append(stack, span{start, j - 1})
			}
			j = start - 1
		}
	}
	return nil
}

// Dump renders one node per line, indented by depth.
func Dump(nodes []Node, names *source.StringSet) string {
	var sb strings.Builder
	Walk(nodes, func(i, depth int) bool {
		sb.WriteString(strings.Repeat("  ", depth))
		sb.WriteString(nodes[i].Format(names))
		sb.WriteByte('\n')
		return true
	})
	return sb.String()
}

// Flat renders the array in storage order on one line.
func Flat(nodes []Node, names *source.StringSet) string {
	parts := make([]string, len(nodes))
	for i, n := range nodes {
		parts[i] = n.Format(names)
	}
	return strings.Join(parts, " ")
}
