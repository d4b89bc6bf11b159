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

/// DumpMemory writes all of memory, 16 bytes per row, each row prefixed
/// with its address.
///
func (vm *VM) DumpMemory(w io.Writer) error {
	buf := bufio.NewWriter(w)

	for row := 0; row < MemorySize/16; row++ {
		fmt.Fprintf(buf, "%03x: ", row*16)

		for _, b := range vm.Memory[row*16 : row*16+16] {
			fmt.Fprintf(buf, "%02x ", b)
		}

		fmt.Fprintln(buf)
	}

	return buf.Flush()
}

/// DumpState writes the registers, timers and call ring.
///
func (vm *VM) DumpState(w io.Writer) error {
	buf := bufio.NewWriter(w)

	fmt.Fprintf(buf, "opcode: %04x  pc: %03x  i: %03x  sp: %x\n", vm.Opcode, vm.PC, vm.I, vm.SP)
	fmt.Fprintf(buf, "dt: %02x  st: %02x  cycles: %d\n", vm.DT, vm.ST, vm.Cycles)

	for i, v := range vm.V {
		fmt.Fprintf(buf, "v%x: %02x", i, v)

		if i%8 == 7 {
			fmt.Fprintln(buf)
		} else {
			fmt.Fprint(buf, "  ")
		}
	}

	fmt.Fprint(buf, "stack:")
	for i, a := range vm.Stack {
		if uint8(i) == vm.SP {
			fmt.Fprintf(buf, " [%03x]", a)
		} else {
			fmt.Fprintf(buf, " %03x", a)
		}
	}
	fmt.Fprintln(buf)

	return buf.Flush()
}
