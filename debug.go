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

package main

import (
	"fmt"

	"github.com/chip8vm/chip8vm/chip8"
	"github.com/retroenv/retrogolib/log"
	"github.com/veandco/go-sdl2/sdl"
)

/// Number of instructions shown by DebugAssembly.
///
const debugWords = 8

/// Show the HELP text in the log.
///
func DebugHelp(logger *log.Logger) {
	logger.Info("Virtual keys", log.String("layout", "1-2-3-4 Q-W-E-R A-S-D-F Z-X-C-V"))
	logger.Info("Emulation keys",
		log.String("ESC", "quit"),
		log.String("BS", "reset"),
		log.String("F5/SPACE", "pause"),
		log.String("F6", "step"),
		log.String("F8", "dump state"),
	)
}

/// DebugRegisters shows the current value of all the CHIP-8 registers:
/// the index of each V register above its value, then PC, I, SP, DT and
/// ST in that order.
///
func (w *Window) DebugRegisters(vm *chip8.VM, x, y int32) {
	for i, v := range vm.V {
		cx := x + int32(i)*15

		_ = w.renderer.SetDrawColor(95, 112, 120, 255)
		w.DrawText(fmt.Sprintf("%X", i), cx+2, y)

		_ = w.renderer.SetDrawColor(220, 220, 210, 255)
		w.DrawText(fmt.Sprintf("%02X", v), cx, y+charHeight)
	}

	// the address registers, timers and stack pointer
	y += charHeight * 2

	_ = w.renderer.SetDrawColor(240, 200, 90, 255)
	w.DrawText(fmt.Sprintf("%03X  %03X  %X  %02X %02X", vm.PC, vm.I, vm.SP, vm.DT, vm.ST), x, y)
}

/// DebugAssembly renders the instruction words around the CHIP-8 program
/// counter, with the current one highlighted.
///
func (w *Window) DebugAssembly(vm *chip8.VM, x, y int32) {
	if vm.PC < w.Address || vm.PC >= w.Address+debugWords*2 || (w.Address^vm.PC)&1 == 1 {
		w.Address = vm.PC
		if w.Address >= 2 {
			w.Address -= 2
		}
	}

	// show the instruction words
	for i := uint16(0); i < debugWords; i++ {
		address := w.Address + i*2
		cx := x + int32(i)*30

		if address == vm.PC {
			if w.Paused {
				_ = w.renderer.SetDrawColor(176, 32, 57, 255)
			} else {
				_ = w.renderer.SetDrawColor(57, 102, 176, 255)
			}

			// highlight the current instruction
			_ = w.renderer.FillRect(&sdl.Rect{X: cx - 1, Y: y - 1, W: 21, H: 7})
		}

		_ = w.renderer.SetDrawColor(220, 220, 210, 255)
		w.DrawText(fmt.Sprintf("%02X%02X", vm.Memory[address&0xFFF], vm.Memory[(address+1)&0xFFF]), cx, y)
	}

	// address of the first word shown
	_ = w.renderer.SetDrawColor(95, 112, 120, 255)
	w.DrawText(fmt.Sprintf("%03X", w.Address&0xFFF), x, y+charHeight+1)
}
