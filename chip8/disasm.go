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
	"fmt"
	"io"
)

/// DisasmOptions controls the disassembler output.
///
type DisasmOptions struct {
	/// Offset from 0x200 to begin disassembling at. Useful to restart
	/// after a block of data.
	///
	Offset int

	/// Addresses prefixes every line with its address. The output no
	/// longer re-assembles.
	///
	Addresses bool

	/// Annotate appends the standard mnemonic as a % comment.
	///
	Annotate bool
}

/// Disassemble writes one mnemonic per line for every word of rom from
/// 0x200+Offset to the end of the program.
///
func Disassemble(w io.Writer, rom []byte, opts DisasmOptions) error {
	if opts.Offset < 0 {
		return fmt.Errorf("negative offset %d", opts.Offset)
	}
	if len(rom) > MaxROMSize {
		rom = rom[:MaxROMSize]
	}

	buf := bufio.NewWriter(w)

	fmt.Fprintf(buf, "%% 0x000 - 0x1ff: intended to be reserved\n")
	fmt.Fprintf(buf, "%% offset from 0x200 is: %03x\n", opts.Offset)

	for i := opts.Offset; i < len(rom); i += 2 {
		address := uint16(ProgramStart + i)

		// odd sized roms end with a lone byte
		if i+1 >= len(rom) {
			fmt.Fprintf(buf, "%% trailing byte $%02x\n", rom[i])
			break
		}

		inst := uint16(rom[i])<<8 | uint16(rom[i+1])

		line, ok := Mnemonic(inst)
		if !ok {
			_ = buf.Flush()
			return &InstructionError{PC: address, Opcode: inst, Err: ErrInvalidInstruction}
		}

		if opts.Annotate {
			if name, ok := StandardName(inst); ok {
				line = fmt.Sprintf("%-16s %% %s", line, name)
			}
		}

		if opts.Addresses {
			fmt.Fprintf(buf, "%03x: %s\n", address, line)
		} else {
			fmt.Fprintln(buf, line)
		}
	}

	return buf.Flush()
}

/// Mnemonic renders a single instruction, or false if it isn't one.
///
func Mnemonic(inst uint16) (string, bool) {
	op, ok := Lookup(inst)
	if !ok {
		return "", false
	}

	return op.Format(inst), true
}

/// Disassemble the CHIP-8 instruction in memory at address i.
///
func (vm *VM) Disassemble(i uint16) string {
	inst := vm.word(i)

	if s, ok := Mnemonic(inst); ok {
		return fmt.Sprintf("%03X - %s", i&0xFFF, s)
	}

	// unknown instruction
	return fmt.Sprintf("%03X - ?? %04X", i&0xFFF, inst)
}
