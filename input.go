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
	"github.com/chip8vm/chip8vm/internal/runner"
	"github.com/veandco/go-sdl2/sdl"
)

var (
	/// Mapping of modern keyboard to CHIP-8 keys.
	///
	KeyMap = map[sdl.Scancode]uint8{
		sdl.SCANCODE_X: 0x0,
		sdl.SCANCODE_1: 0x1,
		sdl.SCANCODE_2: 0x2,
		sdl.SCANCODE_3: 0x3,
		sdl.SCANCODE_Q: 0x4,
		sdl.SCANCODE_W: 0x5,
		sdl.SCANCODE_E: 0x6,
		sdl.SCANCODE_A: 0x7,
		sdl.SCANCODE_S: 0x8,
		sdl.SCANCODE_D: 0x9,
		sdl.SCANCODE_Z: 0xA,
		sdl.SCANCODE_C: 0xB,
		sdl.SCANCODE_4: 0xC,
		sdl.SCANCODE_R: 0xD,
		sdl.SCANCODE_F: 0xE,
		sdl.SCANCODE_V: 0xF,
	}

	/// Emulation keys.
	///
	ActionMap = map[sdl.Scancode]runner.Action{
		sdl.SCANCODE_ESCAPE:    runner.Quit,
		sdl.SCANCODE_BACKSPACE: runner.Reset,
		sdl.SCANCODE_F5:        runner.Pause,
		sdl.SCANCODE_SPACE:     runner.Pause,
		sdl.SCANCODE_F6:        runner.Step,
		sdl.SCANCODE_F10:       runner.Step,
		sdl.SCANCODE_F8:        runner.Dump,
	}
)

/// Poll processes events from SDL and maps keys to the CHIP-8 keypad.
/// Events after an emulation key stay queued for the next poll.
///
func (w *Window) Poll(keys runner.Keypad) runner.Action {
	for e := sdl.PollEvent(); e != nil; e = sdl.PollEvent() {
		switch ev := e.(type) {
		case *sdl.QuitEvent:
			return runner.Quit

		case *sdl.KeyboardEvent:
			if key, ok := KeyMap[ev.Keysym.Scancode]; ok {
				if ev.Type == sdl.KEYDOWN {
					keys.PressKey(key)
				} else {
					keys.ReleaseKey(key)
				}
				continue
			}

			// emulation keys act once per press
			if ev.Type != sdl.KEYDOWN || ev.Repeat != 0 {
				continue
			}

			if action, ok := ActionMap[ev.Keysym.Scancode]; ok {
				if action == runner.Pause {
					w.Paused = !w.Paused
				}
				return action
			}
		}
	}

	return runner.None
}
