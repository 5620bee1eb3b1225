package diagfmt

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/vmihailenco/msgpack/v5"

	"funlang/internal/ast"
	"funlang/internal/source"
)

type NodeOutput struct {
	Index int     `json:"index"`
	Kind  string  `json:"kind"`
	Pos   uint32  `json:"pos"`
	Line  uint32  `json:"line,omitempty"`
	Col   uint32  `json:"col,omitempty"`
	Size  *uint32 `json:"size,omitempty"`
	Value *uint64 `json:"value,omitempty"`
	Name  string  `json:"name,omitempty"`
	Type  string  `json:"type,omitempty"`
}

type NodesOutput struct {
	File  string       `json:"file,omitempty"`
	Nodes []NodeOutput `json:"nodes"`
	Names uint32       `json:"names"`
}

// NodeDump is the msgpack form of a parse result. Views stored in node
// payloads index into Names.
type NodeDump struct {
	Nodes []ast.Node          `msgpack:"nodes"`
	Names []byte              `msgpack:"names"`
	Views []source.StringView `msgpack:"views"`
}

const nodeKindColumn = 14

func nodeOutput(nodes []ast.Node, names *source.StringSet, fs *source.FileSet, file source.FileID, i int) NodeOutput {
	n := nodes[i]
	out := NodeOutput{Index: i, Kind: n.Kind.String(), Pos: n.Pos}
	if fs != nil && int(file) < fs.Len() {
		lc, _ := fs.Resolve(source.Span{File: file, Start: n.Pos, End: n.Pos})
		out.Line, out.Col = lc.Line, lc.Col
	}
	switch n.Kind.Payload() {
	case ast.PayloadSize:
		size := n.SubtreeSize()
		out.Size = &size
	case ast.PayloadLit:
		v := n.Literal()
		out.Value = &v
	case ast.PayloadStr:
		if names != nil {
			out.Name = names.String(n.Str())
		}
	case ast.PayloadKeyword:
		out.Type = n.Builtin().String()
	}
	return out
}

func payloadText(o NodeOutput) string {
	switch {
	case o.Size != nil:
		if *o.Size == 0 {
			return "[]"
		}
		return fmt.Sprintf("[%d..%d]", o.Index-int(*o.Size), o.Index-1)
	case o.Value != nil:
		return strconv.FormatUint(*o.Value, 10)
	case o.Name != "":
		return o.Name
	default:
		return o.Type
	}
}

// FormatNodesPretty prints the flat array in storage order, one node per line.
// Composite nodes show the index range of their subtree.
func FormatNodesPretty(w io.Writer, nodes []ast.Node, names *source.StringSet, fs *source.FileSet, file source.FileID, opts NodeOpts) error {
	pal := newPalette(opts.Color)
	for i := range nodes {
		o := nodeOutput(nodes, names, fs, file, i)
		kind := runewidth.FillRight(o.Kind, nodeKindColumn)
		if _, err := fmt.Fprintf(w, "%4d  %s %4d:%-4d %s\n", i, pal.kind.Sprint(kind), o.Line, o.Col, payloadText(o)); err != nil {
			return err
		}
	}
	return nil
}

// FormatNodesTree prints the nodes as an indented tree, parents before children.
func FormatNodesTree(w io.Writer, nodes []ast.Node, names *source.StringSet, opts NodeOpts) error {
	pal := newPalette(opts.Color)
	var sb strings.Builder
	ast.Walk(nodes, func(i, depth int) bool {
		n := nodes[i]
		sb.WriteString(strings.Repeat("  ", depth))
		sb.WriteString(pal.kind.Sprint(n.Kind.String()))
		if s := strings.TrimPrefix(n.Format(names), n.Kind.String()); s != "" {
			sb.WriteString(s)
		}
		sb.WriteByte('\n')
		return true
	})
	_, err := io.WriteString(w, sb.String())
	return err
}

// BuildNodesOutput resolves names and positions of every node.
func BuildNodesOutput(nodes []ast.Node, names *source.StringSet, fs *source.FileSet, file source.FileID, opts NodeOpts) NodesOutput {
	out := NodesOutput{Nodes: make([]NodeOutput, len(nodes))}
	if fs != nil && int(file) < fs.Len() {
		out.File = FormatPath(fs.Get(file).Path, opts.PathMode, opts.BaseDir)
	}
	if names != nil {
		out.Names = names.Len()
	}
	for i := range nodes {
		out.Nodes[i] = nodeOutput(nodes, names, fs, file, i)
	}
	return out
}

// FormatNodesJSON writes BuildNodesOutput as indented JSON.
func FormatNodesJSON(w io.Writer, nodes []ast.Node, names *source.StringSet, fs *source.FileSet, file source.FileID, opts NodeOpts) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(BuildNodesOutput(nodes, names, fs, file, opts))
}

// FormatNodesMsgpack writes a NodeDump.
func FormatNodesMsgpack(w io.Writer, nodes []ast.Node, names *source.StringSet) error {
	dump := NodeDump{Nodes: nodes}
	if names != nil {
		dump.Names = names.Backing()
		dump.Views = names.Views()
	}
	return msgpack.NewEncoder(w).Encode(&dump)
}

// DecodeNodesMsgpack reads a NodeDump and rebuilds its name set.
func DecodeNodesMsgpack(r io.Reader) ([]ast.Node, *source.StringSet, error) {
	var dump NodeDump
	if err := msgpack.NewDecoder(r).Decode(&dump); err != nil {
		return nil, nil, fmt.Errorf("decode node dump: %w", err)
	}
	names, err := source.RestoreStringSet(dump.Names, dump.Views)
	if err != nil {
		return nil, nil, err
	}
	return dump.Nodes, names, nil
}
