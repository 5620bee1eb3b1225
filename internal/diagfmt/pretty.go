package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"funlang/internal/diag"
	"funlang/internal/source"
)

type palette struct {
	err, warn, info *color.Color
	code, path      *color.Color
	gutter, caret   *color.Color
	note, kind      *color.Color
}

func newPalette(enabled bool) palette {
	mk := func(attrs ...color.Attribute) *color.Color {
		c := color.New(attrs...)
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
		return c
	}
	return palette{
		err:    mk(color.FgRed, color.Bold),
		warn:   mk(color.FgYellow, color.Bold),
		info:   mk(color.FgCyan, color.Bold),
		code:   mk(color.Bold),
		path:   mk(color.FgWhite, color.Bold),
		gutter: mk(color.FgBlue),
		caret:  mk(color.FgGreen, color.Bold),
		note:   mk(color.FgCyan),
		kind:   mk(color.FgMagenta),
	}
}

func (p palette) severity(s diag.Severity) *color.Color {
	switch s {
	case diag.SevError:
		return p.err
	case diag.SevWarning:
		return p.warn
	default:
		return p.info
	}
}

// Pretty форматирует диагностики в человекочитаемый вид.
// Идёт по bag.Items() (ожидается bag.Sort() заранее).
// Для каждой диагностики печатает
//
//	<path>:<line>:<col>: <SEV> <CODE>: <Message>
//
// затем строку исходника с подчёркиванием ^~~~ по Span и, если включено, заметки.
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) {
	if bag == nil {
		return
	}
	pal := newPalette(opts.Color)
	for _, d := range bag.Items() {
		writeDiagnostic(w, d, fs, opts, pal)
	}
	if n := bag.Dropped(); n > 0 {
		fmt.Fprintf(w, "... %d more diagnostics not shown\n", n)
	}
}

func writeDiagnostic(w io.Writer, d diag.Diagnostic, fs *source.FileSet, opts PrettyOpts, pal palette) {
	loc := "<unknown>"
	known := fs != nil && int(d.Primary.File) < fs.Len()
	if known {
		loc = location(fs, d.Primary, opts.PathMode, opts.BaseDir)
	}
	fmt.Fprintf(w, "%s: %s %s: %s\n",
		pal.path.Sprint(loc),
		pal.severity(d.Severity).Sprint(d.Severity.String()),
		pal.code.Sprint(d.Code.ID()),
		d.Message)
	if known && d.Code != diag.ObsTimings {
		writeSnippet(w, fs, d.Primary, opts.Context, pal)
	}
	if !opts.ShowNotes {
		return
	}
	for _, n := range d.Notes {
		noteLoc := "<unknown>"
		if fs != nil && int(n.Span.File) < fs.Len() {
			noteLoc = location(fs, n.Span, opts.PathMode, opts.BaseDir)
		}
		fmt.Fprintf(w, "  %s %s: %s\n", pal.note.Sprint("note:"), noteLoc, n.Msg)
	}
}

func location(fs *source.FileSet, sp source.Span, mode PathMode, baseDir string) string {
	f := fs.Get(sp.File)
	start, _ := fs.Resolve(sp)
	return fmt.Sprintf("%s:%d:%d", FormatPath(f.Path, mode, baseDir), start.Line, start.Col)
}

// writeSnippet prints the context lines and the primary line of sp with a
// caret line under the span. Columns are measured in display cells.
func writeSnippet(w io.Writer, fs *source.FileSet, sp source.Span, context uint8, pal palette) {
	f := fs.Get(sp.File)
	start, end := fs.Resolve(sp)
	if start.Line == 0 {
		return
	}
	first := start.Line
	if uint32(context) < first {
		first -= uint32(context)
	} else {
		first = 1
	}
	width := len(fmt.Sprint(start.Line))

	for ln := first; ln <= start.Line; ln++ {
		fmt.Fprintf(w, " %s %s\n", pal.gutter.Sprintf("%*d |", width, ln), f.GetLine(ln))
	}

	line := f.GetLine(start.Line)
	col := int(start.Col) - 1
	col = min(max(col, 0), len(line))
	stop := len(line)
	if end.Line == start.Line {
		stop = min(max(int(end.Col)-1, col), len(line))
	}

	var marker strings.Builder
	for _, r := range line[:col] {
		if r == '\t' {
			marker.WriteByte('\t')
			continue
		}
		marker.WriteString(strings.Repeat(" ", runewidth.RuneWidth(r)))
	}
	span := max(runewidth.StringWidth(line[col:stop]), 1)
	caret := "^" + strings.Repeat("~", span-1)

	fmt.Fprintf(w, " %s %s%s\n", pal.gutter.Sprintf("%*s |", width, ""), marker.String(), pal.caret.Sprint(caret))
}
