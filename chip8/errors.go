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
	"fmt"
)

var (
	/// ErrInvalidInstruction is returned for an opcode that does not match
	/// any CHIP-8 encoding. Once seen, the program counter can't be trusted.
	///
	ErrInvalidInstruction = errors.New("invalid instruction")

	/// ErrUnsupportedInstruction is returned for an encoding that exists in
	/// the instruction set but is intentionally not emulated (SYS NNN).
	///
	ErrUnsupportedInstruction = errors.New("unsupported instruction")

	/// ErrResourceUnavailable is returned when a ROM or source file can't be
	/// opened or read.
	///
	ErrResourceUnavailable = errors.New("resource unavailable")

	/// ErrROMTooLarge is returned when a program doesn't fit in 0x200-0xFFF.
	///
	ErrROMTooLarge = errors.New("program too large to fit in memory")

	/// ErrMalformedSource is returned by the assembler for lines it can't
	/// encode.
	///
	ErrMalformedSource = errors.New("malformed source")
)

/// InstructionError locates a decode or execute failure.
///
type InstructionError struct {
	PC     uint16
	Opcode uint16
	Err    error
}

func (e *InstructionError) Error() string {
	return fmt.Sprintf("%v 0x%04x at address 0x%03x", e.Err, e.Opcode, e.PC)
}

func (e *InstructionError) Unwrap() error {
	return e.Err
}

/// SourceError locates an assembler failure by line.
///
type SourceError struct {
	Line   int
	Text   string
	Reason string
}

func (e *SourceError) Error() string {
	return fmt.Sprintf("line %d - %s: %s", e.Line, e.Reason, e.Text)
}

func (e *SourceError) Unwrap() error {
	return ErrMalformedSource
}
