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

package runner

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/chip8vm/chip8vm/chip8"
	"github.com/retroenv/retrogolib/log"
)

/// stateLines renders the registers, timers and call ring of the VM as
/// the lines of its state dump.
///
func stateLines(vm *chip8.VM) []string {
	var buf bytes.Buffer

	// writing to memory can't fail
	_ = vm.DumpState(&buf)

	return strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
}

/// logState shows the current value of all the CHIP-8 registers.
///
func logState(logger *log.Logger, vm *chip8.VM) {
	for _, line := range stateLines(vm) {
		logger.Info("Machine state", log.String("dump", line))
	}
}

/// logFault reports a failed instruction with the registers and the
/// instructions that led up to it.
///
func logFault(logger *log.Logger, vm *chip8.VM, trace *Trace, err error) {
	logger.Error("Execution failed",
		log.Err(err),
		log.String("pc", fmt.Sprintf("0x%03X", vm.PC)),
		log.String("opcode", fmt.Sprintf("0x%04X", vm.Opcode)),
	)

	for _, line := range stateLines(vm) {
		logger.Error("Machine state", log.String("dump", line))
	}

	for _, line := range trace.Window(trace.Len()) {
		logger.Error("Trace", log.String("instruction", line))
	}
}
