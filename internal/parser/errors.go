package parser

import (
	"errors"
	"fmt"

	"funlang/internal/diag"
	"funlang/internal/token"
)

var (
	ErrUnexpectedToken    = errors.New("unexpected token")
	ErrUnexpectedEOF      = errors.New("unexpected end of input")
	ErrTopLevel           = errors.New("unexpected token at top level")
	ErrUnmatchedDelimiter = errors.New("unmatched delimiter")
	ErrNotImplemented     = errors.New("not implemented")
)

// Error is the single fatal error a Parse call can end with.
type Error struct {
	Err      error // один из Err* выше
	Code     diag.Code
	Tok      token.Token // нулевой на конце ввода
	Index    uint32      // индекс токена в потоке
	Pos      uint32      // смещение в исходнике
	Expected string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%d: %s", e.Pos, e.Message())
}

// Message describes the error without its position.
func (e *Error) Message() string {
	switch {
	case e.Expected == "":
		return fmt.Sprintf("%v %s", e.Err, e.Tok.Kind())
	case errors.Is(e.Err, ErrUnexpectedEOF):
		return fmt.Sprintf("%v, expected %s", e.Err, e.Expected)
	default:
		return fmt.Sprintf("%v %s, expected %s", e.Err, e.Tok.Kind(), e.Expected)
	}
}

func (e *Error) Unwrap() error { return e.Err }

func codeFor(err error) diag.Code {
	switch {
	case errors.Is(err, ErrUnexpectedEOF):
		return diag.SynUnexpectedEOF
	case errors.Is(err, ErrTopLevel):
		return diag.SynUnexpectedTopLevel
	case errors.Is(err, ErrUnmatchedDelimiter):
		return diag.SynUnmatchedDelimiter
	case errors.Is(err, ErrNotImplemented):
		return diag.SynNotImplemented
	default:
		return diag.SynUnexpectedToken
	}
}
