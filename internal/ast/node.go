package ast

import (
	"fmt"

	"funlang/internal/source"
	"funlang/internal/token"
)

// Node is one slot of the post-order tree. Data holds the subtree size, the
// literal value, a packed StringView or a builtin token kind, depending on
// Kind.Payload.
type Node struct {
	Kind Kind   `msgpack:"k" json:"kind"`
	Pos  uint32 `msgpack:"p" json:"pos"`
	Data uint64 `msgpack:"d" json:"data"`
}

// Composite builds a node that owns the size slots right before it.
func Composite(kind Kind, pos, size uint32) Node {
	return Node{Kind: kind, Pos: pos, Data: uint64(size)}
}

// Literal builds a LiteralInt node.
func Literal(pos uint32, v uint64) Node {
	return Node{Kind: LiteralInt, Pos: pos, Data: v}
}

// Name builds a BindName, BindUse or BindTyUse node.
func Name(kind Kind, pos uint32, v source.StringView) Node {
	return Node{Kind: kind, Pos: pos, Data: uint64(v.Off)<<32 | uint64(v.Len)}
}

// Builtin builds a BuiltinTy node for a builtin type keyword.
func Builtin(pos uint32, kw token.Kind) Node {
	return Node{Kind: BuiltinTy, Pos: pos, Data: uint64(kw)}
}

// SubtreeSize returns the number of descendants, 0 for leaves.
func (n Node) SubtreeSize() uint32 {
	if !n.Kind.IsComposite() {
		return 0
	}
	return uint32(n.Data) // #nosec G115 -- Composite stores a uint32
}

func (n Node) Literal() uint64 { return n.Data }

func (n Node) Str() source.StringView {
	return source.StringView{Off: uint32(n.Data >> 32), Len: uint32(n.Data)} // #nosec G115 -- unpacking
}

func (n Node) Builtin() token.Kind { return token.Kind(n.Data) } // #nosec G115 -- Builtin stores one byte

// Format renders the node payload; names resolves Str payloads and may be nil.
func (n Node) Format(names *source.StringSet) string {
	switch n.Kind.Payload() {
	case PayloadSize:
		return fmt.Sprintf("%s[%d]", n.Kind, n.SubtreeSize())
	case PayloadLit:
		return fmt.Sprintf("%s(%d)", n.Kind, n.Literal())
	case PayloadStr:
		if names == nil {
			v := n.Str()
			return fmt.Sprintf("%s(@%d:%d)", n.Kind, v.Off, v.Len)
		}
		return fmt.Sprintf("%s(%s)", n.Kind, names.String(n.Str()))
	case PayloadKeyword:
		return fmt.Sprintf("%s(%s)", n.Kind, n.Builtin())
	default:
		return n.Kind.String()
	}
}
