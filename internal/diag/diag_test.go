package diag

import (
	"testing"

	"funlang/internal/source"
)

func TestCodeID(t *testing.T) {
	cases := map[Code]string{
		LexScopeTooDeep:       "LEX1007",
		SynUnexpectedToken:    "SYN2001",
		IOLoadFileError:       "IO4001",
		ProjManifestInvalid:   "PRJ5001",
		ObsTimings:            "OBS6001",
		Code(9999):            "E0000",
		SynUnmatchedDelimiter: "SYN2004",
	}
	for c, want := range cases {
		if got := c.ID(); got != want {
			t.Errorf("Code(%d).ID() = %q, want %q", c, got, want)
		}
	}
	if Code(1999).Title() != "Unknown error" {
		t.Errorf("unknown code title = %q", Code(1999).Title())
	}
}

func TestBagLimitAndSort(t *testing.T) {
	b := NewBag(3)
	sp := func(start uint32) source.Span { return source.Span{Start: start, End: start + 1} }

	b.Add(New(SevWarning, LexUnmatchedCloser, sp(9), "late"))
	b.Add(New(SevInfo, LexIdentTruncated, sp(2), "info"))
	b.Add(NewError(LexUnterminatedString, sp(2), "err"))
	if b.Add(NewError(LexPayloadOverflow, sp(0), "dropped")) {
		t.Fatal("Add past the limit must fail")
	}
	if b.Dropped() != 1 {
		t.Fatalf("Dropped = %d", b.Dropped())
	}

	b.Sort()
	got := []Code{b.Items()[0].Code, b.Items()[1].Code, b.Items()[2].Code}
	want := []Code{LexUnterminatedString, LexIdentTruncated, LexUnmatchedCloser}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("sorted codes = %v, want %v", got, want)
		}
	}
	if !b.HasErrors() || !b.HasWarnings() {
		t.Fatal("HasErrors/HasWarnings mismatch")
	}
	if b.Count(SevInfo) != 1 {
		t.Fatalf("Count(info) = %d", b.Count(SevInfo))
	}

	b.Push(NewError(SynUnexpectedToken, sp(4), "forced"))
	if b.Len() != 4 || b.Cap() != 4 || b.Dropped() != 1 {
		t.Fatalf("after Push: len %d cap %d dropped %d", b.Len(), b.Cap(), b.Dropped())
	}
}

func TestBagDedupAndMerge(t *testing.T) {
	a := NewBag(10)
	a.Add(NewError(SynUnexpectedToken, source.Span{Start: 1, End: 2}, "x"))
	a.Add(NewError(SynUnexpectedToken, source.Span{Start: 1, End: 2}, "x again"))
	a.Dedup()
	if a.Len() != 1 {
		t.Fatalf("Len after Dedup = %d", a.Len())
	}

	other := NewBag(20)
	for i := range 15 {
		other.Add(New(SevWarning, LexUnknownEscape, source.Span{Start: uint32(i)}, "w"))
	}
	a.Merge(other)
	if a.Len() != 16 || a.Cap() != 16 {
		t.Fatalf("after merge len=%d cap=%d", a.Len(), a.Cap())
	}
}

func TestReportBuilder(t *testing.T) {
	bag := NewBag(10)
	rep := BagReporter{Bag: bag}

	span := source.Span{Start: 4, End: 5}
	for range 3 {
		ReportWarning(rep, LexUnmatchedCloser, span, "unmatched ')'").
			WithNote(source.Span{Start: 0, End: 1}, "scope opened here").
			Emit()
	}
	bag.Dedup()
	if bag.Len() != 1 {
		t.Fatalf("dedup let %d diagnostics through", bag.Len())
	}
	if len(bag.Items()[0].Notes) != 1 {
		t.Fatalf("notes = %v", bag.Items()[0].Notes)
	}

	// nil reporter: builder is nil and every call is a no-op
	ReportError(nil, SynUnexpectedToken, span, "ignored").WithNote(span, "n").Emit()
}

func TestMultiReporter(t *testing.T) {
	a, b := NewBag(4), NewBag(4)
	MultiReporter{BagReporter{Bag: a}, nil, BagReporter{Bag: b}}.
		Report(LexInfo, SevInfo, source.Span{}, "x", nil)
	if a.Len() != 1 || b.Len() != 1 {
		t.Fatalf("fan-out failed: %d %d", a.Len(), b.Len())
	}
}

func TestFormatShort(t *testing.T) {
	fs := source.NewFileSet()
	file := fs.Add("./testdata/sample.fl", []byte("a\nb\n"), 0)

	diags := []Diagnostic{
		{
			Severity: SevError,
			Code:     SynUnexpectedToken,
			Message:  "first line\nsecond",
			Primary:  source.Span{File: file, Start: 0, End: 1},
			Notes: []Note{
				{Span: source.Span{File: file, Start: 2, End: 3}, Msg: "note line"},
			},
		},
		{
			Severity: SevWarning,
			Code:     LexUnmatchedCloser,
			Message:  "another",
			Primary:  source.Span{File: file, Start: 2, End: 3},
		},
	}

	want := "error SYN2001 testdata/sample.fl:1:1 first line second\n" +
		"note SYN2001 testdata/sample.fl:2:1 note line\n" +
		"warning LEX1008 testdata/sample.fl:2:1 another"
	if got := FormatShort(diags, fs, true); got != want {
		t.Fatalf("unexpected output:\nwant:\n%s\n\ngot:\n%s", want, got)
	}
}
