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
	"os"
	"time"

	"github.com/chip8vm/chip8vm/chip8"
	"github.com/chip8vm/chip8vm/internal/runner"
	"github.com/nsf/termbox-go"
)

/// Terminals only report key presses, so a key counts as held this long.
///
const keyHold = 150 * time.Millisecond

var (
	/// Mapping of terminal characters to CHIP-8 keys.
	///
	RuneMap = map[rune]uint8{
		'x': 0x0, '1': 0x1, '2': 0x2, '3': 0x3,
		'q': 0x4, 'w': 0x5, 'e': 0x6, 'a': 0x7,
		's': 0x8, 'd': 0x9, 'z': 0xA, 'c': 0xB,
		'4': 0xC, 'r': 0xD, 'f': 0xE, 'v': 0xF,
	}

	/// Emulation keys in the terminal.
	///
	TermActionMap = map[termbox.Key]runner.Action{
		termbox.KeyEsc:        runner.Quit,
		termbox.KeyCtrlC:      runner.Quit,
		termbox.KeyBackspace:  runner.Reset,
		termbox.KeyBackspace2: runner.Reset,
		termbox.KeyF5:         runner.Pause,
		termbox.KeySpace:      runner.Pause,
		termbox.KeyF6:         runner.Step,
		termbox.KeyF8:         runner.Dump,
	}
)

/// Terminal is the termbox frontend. Two CHIP-8 rows share a character
/// cell using a half block, so the display needs 64x16 cells.
///
type Terminal struct {
	events  chan termbox.Event
	release [16]time.Time
	beeping bool
}

/// OpenTerminal takes over the terminal and starts reading its events.
///
func OpenTerminal() (*Terminal, error) {
	if err := termbox.Init(); err != nil {
		return nil, fmt.Errorf("initializing terminal: %w", err)
	}
	termbox.SetInputMode(termbox.InputEsc)

	t := &Terminal{
		events: make(chan termbox.Event, 16),
	}

	// PollEvent blocks, so pump it into a queue
	go func() {
		for {
			ev := termbox.PollEvent()
			if ev.Type == termbox.EventInterrupt {
				close(t.events)
				return
			}
			t.events <- ev
		}
	}()

	return t, nil
}

/// Close gives the terminal back.
///
func (t *Terminal) Close() {
	termbox.Interrupt()

	// drain until the reader is gone
	for range t.events {
	}

	termbox.Close()
}

/// Poll drains queued terminal events, pressing CHIP-8 keys and releasing
/// the ones held long enough.
///
func (t *Terminal) Poll(keys runner.Keypad) runner.Action {
	now := time.Now()

	for key, at := range t.release {
		if !at.IsZero() && now.After(at) {
			keys.ReleaseKey(uint8(key))
			t.release[key] = time.Time{}
		}
	}

	for {
		select {
		case ev, ok := <-t.events:
			if !ok {
				return runner.Quit
			}
			if ev.Type != termbox.EventKey {
				continue
			}

			if key, ok := RuneMap[ev.Ch]; ok && ev.Ch != 0 {
				keys.PressKey(key)
				t.release[key] = now.Add(keyHold)
				continue
			}

			if action, ok := TermActionMap[ev.Key]; ok && ev.Ch == 0 {
				return action
			}

		default:
			return runner.None
		}
	}
}

/// Present draws the video memory with half blocks: the foreground is the
/// upper pixel and the background the lower one.
///
func (t *Terminal) Present(vm *chip8.VM) error {
	if err := termbox.Clear(termbox.ColorDefault, termbox.ColorDefault); err != nil {
		return err
	}

	for y := 0; y < chip8.ScreenHeight; y += 2 {
		for x := 0; x < chip8.ScreenWidth; x++ {
			termbox.SetCell(x, y/2, '▀', pixelColor(vm.Pixel(x, y)), pixelColor(vm.Pixel(x, y+1)))
		}
	}

	return termbox.Flush()
}

/// Beep rings the terminal bell when the tone starts.
///
func (t *Terminal) Beep(on bool) {
	if on && !t.beeping {
		_, _ = os.Stdout.WriteString("\a")
	}
	t.beeping = on
}

func pixelColor(lit bool) termbox.Attribute {
	if lit {
		return termbox.ColorWhite
	}
	return termbox.ColorBlack
}
