package lexer

import (
	"funlang/internal/diag"
	"funlang/internal/source"
)

// Options configure a Lexer.
type Options struct {
	Reporter diag.Reporter // может быть nil: тогда находки игнорируем, но продолжаем лексить
}

func (lx *Lexer) report(code diag.Code, sev diag.Severity, sp source.Span, msg string) *diag.ReportBuilder {
	return diag.NewReportBuilder(lx.opts.Reporter, sev, code, sp, msg)
}

func (lx *Lexer) warn(code diag.Code, sp source.Span, msg string) {
	lx.report(code, diag.SevWarning, sp, msg).Emit()
}

func (lx *Lexer) errLex(code diag.Code, sp source.Span, msg string) {
	lx.report(code, diag.SevError, sp, msg).Emit()
}
