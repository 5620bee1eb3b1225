package diag

import (
	"fmt"
)

type Code uint16

const (
	UnknownCode Code = 0

	// Лексические
	LexInfo                     Code = 1000
	LexUnterminatedString       Code = 1002
	LexUnterminatedBlockComment Code = 1003
	LexNumberOverflow           Code = 1004
	LexIdentTruncated           Code = 1005
	LexUnknownEscape            Code = 1006
	LexScopeTooDeep             Code = 1007
	LexUnmatchedCloser          Code = 1008
	LexUnclosedOpener           Code = 1009
	LexPayloadOverflow          Code = 1010

	// Синтаксические
	SynInfo               Code = 2000
	SynUnexpectedToken    Code = 2001
	SynUnexpectedEOF      Code = 2002
	SynUnexpectedTopLevel Code = 2003
	SynUnmatchedDelimiter Code = 2004
	SynNotImplemented     Code = 2005

	IOLoadFileError Code = 4001

	ProjInfo            Code = 5000
	ProjManifestInvalid Code = 5001

	ObsInfo    Code = 6000
	ObsTimings Code = 6001
)

var codeDescription = map[Code]string{
	UnknownCode:                 "Unknown error",
	LexInfo:                     "Lexical information",
	LexUnterminatedString:       "Unterminated string literal",
	LexUnterminatedBlockComment: "Unterminated block comment",
	LexNumberOverflow:           "Integer literal overflows 64 bits",
	LexIdentTruncated:           "Identifier truncated to 255 bytes",
	LexUnknownEscape:            "Unknown escape sequence",
	LexScopeTooDeep:             "Bracket nesting too deep",
	LexUnmatchedCloser:          "Unmatched closing bracket",
	LexUnclosedOpener:           "Unclosed opening bracket",
	LexPayloadOverflow:          "Token payload overflow",
	SynInfo:                     "Syntax information",
	SynUnexpectedToken:          "Unexpected token",
	SynUnexpectedEOF:            "Unexpected end of input",
	SynUnexpectedTopLevel:       "Unexpected token at top level",
	SynUnmatchedDelimiter:       "Unmatched delimiter",
	SynNotImplemented:           "Construct not implemented",
	IOLoadFileError:             "I/O load file error",
	ProjInfo:                    "Project information",
	ProjManifestInvalid:         "Invalid project manifest",
	ObsInfo:                     "Observability information",
	ObsTimings:                  "Pipeline timings",
}

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("LEX%04d", ic)
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("SYN%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("IO%04d", ic)
	case ic >= 5000 && ic < 6000:
		return fmt.Sprintf("PRJ%04d", ic)
	case ic >= 6000 && ic < 7000:
		return fmt.Sprintf("OBS%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[UnknownCode]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
