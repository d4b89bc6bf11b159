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
	"bufio"
	"bytes"
	"fmt"
	"io"
)

/// Assembly is a completely assembled source file.
///
type Assembly struct {
	/// ROM is the final, assembled bytes to load at 0x200.
	///
	ROM []byte

	/// Lines maps each instruction's ROM offset to its source line.
	///
	Lines map[int]int
}

/// Assemble an input CHIP-8 source file. Each line holds one mnemonic
/// and its hexadecimal operands; lines beginning with % are comments.
///
func Assemble(src io.Reader) (*Assembly, error) {
	out := &Assembly{
		ROM:   make([]byte, 0, MaxROMSize),
		Lines: make(map[int]int),
	}

	scanner := bufio.NewScanner(src)

	// parse and assemble
	for line := 1; scanner.Scan(); line++ {
		text := scanner.Bytes()

		if err := out.assemble(line, text); err != nil {
			return nil, err
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrResourceUnavailable, err)
	}

	return out, nil
}

/// AssembleBytes is Assemble over an in-memory source file.
///
func AssembleBytes(program []byte) (*Assembly, error) {
	return Assemble(bytes.NewReader(program))
}

/// Compile a single line into the assembly.
///
func (a *Assembly) assemble(line int, text []byte) error {
	if len(text) > 0 && text[0] == '%' {
		return nil
	}

	s := &tokenScanner{bytes: text}

	mnemonic, ok := s.scanToken()
	if !ok {
		return nil
	}

	op, ok := Find(mnemonic)
	if !ok {
		return a.fail(line, text, "invalid mnemonic")
	}

	tokens := s.scanOperands()
	kinds := op.kinds()

	if len(tokens) != len(kinds) {
		return a.fail(line, text, fmt.Sprintf("%s takes %d operands", op.Mnemonic, len(kinds)))
	}

	// parse and range check each operand by position
	args := make([]uint16, len(tokens))
	for i, t := range tokens {
		v, err := parseOperand(t, kinds[i])
		if err != nil {
			return a.fail(line, text, err.Error())
		}
		args[i] = v
	}

	inst, err := op.Encode(args)
	if err != nil {
		return a.fail(line, text, err.Error())
	}

	if len(a.ROM)+2 > MaxROMSize {
		return a.fail(line, text, ErrROMTooLarge.Error())
	}

	// record where the instruction came from
	a.Lines[len(a.ROM)] = line
	a.ROM = append(a.ROM, byte(inst>>8), byte(inst&0xFF))

	return nil
}

/// fail builds the error for an unassemblable line.
///
func (a *Assembly) fail(line int, text []byte, reason string) error {
	return &SourceError{
		Line:   line,
		Text:   string(bytes.TrimSpace(text)),
		Reason: reason,
	}
}

/// Words returns the assembled instructions in order.
///
func (a *Assembly) Words() []uint16 {
	words := make([]uint16, 0, len(a.ROM)/2)

	for i := 0; i+1 < len(a.ROM); i += 2 {
		words = append(words, uint16(a.ROM[i])<<8|uint16(a.ROM[i+1]))
	}

	return words
}
