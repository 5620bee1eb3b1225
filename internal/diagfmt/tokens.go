package diagfmt

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/mattn/go-runewidth"

	"funlang/internal/lexer"
	"funlang/internal/source"
	"funlang/internal/token"
)

type TokenOutput struct {
	Index int    `json:"index"`
	Kind  string `json:"kind"`
	Pos   uint32 `json:"pos"`
	Line  uint32 `json:"line,omitempty"`
	Col   uint32 `json:"col,omitempty"`
	Text  string `json:"text,omitempty"`
	Value uint64 `json:"value,omitempty"`
	Match *int   `json:"match,omitempty"` // индекс парной скобки
}

const kindColumn = 8

func tokenOutput(res *lexer.Result, fs *source.FileSet, file source.FileID, i int) TokenOutput {
	tok := res.Tokens[i]
	k := tok.Kind()
	out := TokenOutput{Index: i, Kind: k.String(), Pos: tok.Pos}
	if fs != nil && int(file) < fs.Len() {
		lc, _ := fs.Resolve(source.Span{File: file, Start: tok.Pos, End: tok.Pos})
		out.Line, out.Col = lc.Line, lc.Col
	}
	switch {
	case k == token.LitInt:
		out.Value = res.Literal(tok)
	case k.HasIntern():
		out.Text = string(res.Text(tok))
	case tok.Matched():
		m := i + int(tok.Displacement())
		out.Match = &m
	}
	return out
}

// FormatTokensPretty prints one token per line: index, kind, line:col and payload.
func FormatTokensPretty(w io.Writer, res *lexer.Result, fs *source.FileSet, file source.FileID, opts NodeOpts) error {
	pal := newPalette(opts.Color)
	for i := range res.Tokens {
		t := tokenOutput(res, fs, file, i)
		detail := ""
		switch k := res.Tokens[i].Kind(); {
		case k == token.LitInt:
			detail = strconv.FormatUint(t.Value, 10)
		case k.HasIntern():
			detail = strconv.Quote(t.Text)
		case t.Match != nil:
			detail = fmt.Sprintf("-> #%d", *t.Match)
		case k.IsBracket():
			detail = "unmatched"
		}
		kind := runewidth.FillRight(t.Kind, kindColumn)
		if _, err := fmt.Fprintf(w, "%4d  %s  %4d:%-4d %s\n", i, pal.kind.Sprint(kind), t.Line, t.Col, detail); err != nil {
			return err
		}
	}
	return nil
}

// FormatTokensJSON writes the token stream as a JSON array.
func FormatTokensJSON(w io.Writer, res *lexer.Result, fs *source.FileSet, file source.FileID) error {
	output := make([]TokenOutput, len(res.Tokens))
	for i := range res.Tokens {
		output[i] = tokenOutput(res, fs, file, i)
	}
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(output)
}
