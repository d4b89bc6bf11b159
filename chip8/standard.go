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
	"strings"

	chip8cpu "github.com/retroenv/retrogolib/arch/cpu/chip8"
)

/// StandardName returns the conventional (Cowgod) mnemonic for inst from
/// the retrogolib CHIP-8 opcode table, upper cased.
///
func StandardName(inst uint16) (string, bool) {
	firstNibble := (inst & 0xF000) >> 12

	for _, op := range chip8cpu.Opcodes[int(firstNibble)] {
		if op.Info.Mask&inst == op.Info.Value && op.Instruction != nil {
			return strings.ToUpper(op.Instruction.Name), true
		}
	}

	return "", false
}
