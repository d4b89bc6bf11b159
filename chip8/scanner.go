/* Copyright (c) 2017 Jeffrey Massung
 *
 * This software is provided 'as-is', without any express or implied
 * warranty.  In no event will the authors be held liable for any damages
 * arising from the use of this software.
 *
 * Permission is granted to anyone to use this software for any purpose,
 * including commercial applications, and to alter it and redistribute it
 * freely, subject to the following restrictions:
 *
 * 1. The origin of this software must not be misrepresented; you must not
 *    claim that you wrote the original software. If you use this software
 *    in a product, an acknowledgment in the product documentation would be
 *    appreciated but is not required.
 *
 * 2. Altered source versions must be plainly marked as such, and must not be
 *    misrepresented as being the original software.
 *
 * 3. This notice may not be removed or altered from any source distribution.
 */

package chip8

import (
	"errors"
	"strconv"
)

/// tokenScanner splits a single source line into whitespace separated
/// fields, stopping at a % comment.
///
type tokenScanner struct {
	bytes []byte

	// scan position
	pos int
}

/// isSpace is true for blanks, control characters and the optional
/// operand separator.
///
func isSpace(c byte) bool {
	return c < 33 || c == ','
}

/// scanToken returns the next field, or false at the end of the line.
///
func (s *tokenScanner) scanToken() (string, bool) {
	for s.pos < len(s.bytes) && isSpace(s.bytes[s.pos]) {
		s.pos++
	}

	// end of line or start of a trailing comment
	if s.pos >= len(s.bytes) || s.bytes[s.pos] == '%' {
		s.pos = len(s.bytes)
		return "", false
	}

	i := s.pos

	// advance to the end of the field
	for s.pos < len(s.bytes) && !isSpace(s.bytes[s.pos]) && s.bytes[s.pos] != '%' {
		s.pos++
	}

	return string(s.bytes[i:s.pos]), true
}

/// scanOperands returns every remaining field on the line.
///
func (s *tokenScanner) scanOperands() []string {
	tokens := make([]string, 0, 3)

	for t, ok := s.scanToken(); ok; t, ok = s.scanToken() {
		tokens = append(tokens, t)
	}

	return tokens
}

var errEmptyLiteral = errors.New("empty literal")

/// parseHex converts a hexadecimal literal with no prefix.
///
func parseHex(s string) (uint64, error) {
	if s == "" {
		return 0, errEmptyLiteral
	}

	return strconv.ParseUint(s, 16, 16)
}
