// Package token defines the compact token encoding produced by the lexer.
// Invariants:
//   - A Token is 8 bytes: a source byte offset and a 32-bit payload.
//   - The low 8 bits of the payload are the Kind; bits 8..31 are the
//     kind-specific auxiliary field (literal index, bracket displacement or
//     Intern handle).
//   - Punctuation kinds are the ASCII byte of the character itself.
//   - Keyword kinds have the top bit set; built-in integer type names are
//     keywords, not identifiers.
//   - Bracket tokens store the signed distance to their partner; 0 means
//     the token has no partner.
package token
