// Package diag defines the diagnostic model shared by the lexer, the parser
// and the driver.
//
// A Diagnostic carries a Severity, a stable numeric Code, a short message and
// the primary source.Span it refers to; Notes add secondary locations.
// Producers emit through a Reporter so they never depend on storage; the
// driver usually plugs in a BagReporter and renders the Bag afterwards with
// internal/diagfmt.
//
// Lexical findings are never fatal: the lexer reports them and keeps
// scanning. Syntax errors abort the parse; the driver converts the returned
// error into a single SYN diagnostic.
package diag
