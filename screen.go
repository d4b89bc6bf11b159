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
	"path/filepath"

	"github.com/chip8vm/chip8vm/chip8"
	"github.com/retroenv/retrogolib/log"
	"github.com/veandco/go-sdl2/sdl"
)

const (
	/// Logical size of a CHIP-8 pixel. The renderer scales the logical
	/// canvas to the window.
	///
	pixelSize = 4

	/// Logical size of the screen and of the debug panel below it.
	///
	screenWidth  = chip8.ScreenWidth * pixelSize
	screenHeight = chip8.ScreenHeight * pixelSize
	panelHeight  = 48
)

/// Window is the SDL frontend: the CHIP-8 display with a debug panel
/// underneath, the keyboard and the beeper.
///
type Window struct {
	window   *sdl.Window
	renderer *sdl.Renderer
	audio    *Beeper
	logger   *log.Logger

	/// Paused is mirrored from pause requests so the panel can show it.
	///
	Paused bool

	/// Address is the first instruction shown in the debug panel.
	///
	Address uint16
}

/// OpenWindow initializes SDL and creates the main window and renderer.
/// Scale is how many window pixels a CHIP-8 pixel covers.
///
func OpenWindow(logger *log.Logger, rom string, scale int32) (*Window, error) {
	if err := sdl.Init(sdl.INIT_VIDEO | sdl.INIT_AUDIO); err != nil {
		return nil, fmt.Errorf("initializing SDL: %w", err)
	}

	w := &Window{logger: logger}

	// create the main window and renderer
	title := fmt.Sprintf("CHIP-8 - %s", filepath.Base(rom))
	width := chip8.ScreenWidth * scale
	height := (screenHeight + panelHeight) * scale / pixelSize

	var err error
	if w.window, err = sdl.CreateWindow(title, sdl.WINDOWPOS_CENTERED, sdl.WINDOWPOS_CENTERED, width, height, sdl.WINDOW_SHOWN); err != nil {
		sdl.Quit()
		return nil, fmt.Errorf("creating window: %w", err)
	}

	if w.renderer, err = sdl.CreateRenderer(w.window, -1, sdl.RENDERER_ACCELERATED); err != nil {
		w.Close()
		return nil, fmt.Errorf("creating renderer: %w", err)
	}

	if err = w.renderer.SetLogicalSize(screenWidth, screenHeight+panelHeight); err != nil {
		w.Close()
		return nil, fmt.Errorf("sizing renderer: %w", err)
	}

	// a missing audio device only costs the tone
	if w.audio, err = OpenBeeper(); err != nil {
		logger.Error("Audio unavailable", log.Err(err))
	}

	return w, nil
}

/// Close releases the audio device, renderer and window, then SDL.
///
func (w *Window) Close() {
	if w.audio != nil {
		w.audio.Close()
	}
	if w.renderer != nil {
		_ = w.renderer.Destroy()
	}
	if w.window != nil {
		_ = w.window.Destroy()
	}

	sdl.Quit()
}

/// Present redraws the CHIP-8 video memory and the debug panel.
///
func (w *Window) Present(vm *chip8.VM) error {
	if err := w.renderer.SetDrawColor(32, 42, 53, 255); err != nil {
		return err
	}
	if err := w.renderer.Clear(); err != nil {
		return err
	}

	if err := w.RefreshScreen(vm); err != nil {
		return err
	}

	// debug assembly and virtual registers
	w.DebugRegisters(vm, 4, screenHeight+4)
	w.DebugAssembly(vm, 4, screenHeight+26)

	// show the new frame
	w.renderer.Present()

	return nil
}

/// RefreshScreen draws the CHIP-8 video memory.
///
func (w *Window) RefreshScreen(vm *chip8.VM) error {
	// the background color for the screen
	if err := w.renderer.SetDrawColor(143, 145, 133, 255); err != nil {
		return err
	}
	if err := w.renderer.FillRect(&sdl.Rect{W: screenWidth, H: screenHeight}); err != nil {
		return err
	}

	// set the pixel color
	if err := w.renderer.SetDrawColor(17, 29, 43, 255); err != nil {
		return err
	}

	// draw all the lit pixels
	for y := 0; y < chip8.ScreenHeight; y++ {
		for x := 0; x < chip8.ScreenWidth; x++ {
			if !vm.Pixel(x, y) {
				continue
			}

			rect := sdl.Rect{
				X: int32(x * pixelSize),
				Y: int32(y * pixelSize),
				W: pixelSize,
				H: pixelSize,
			}
			if err := w.renderer.FillRect(&rect); err != nil {
				return err
			}
		}
	}

	return nil
}

/// Beep turns the sound timer tone on or off.
///
func (w *Window) Beep(on bool) {
	if w.audio != nil {
		w.audio.Beep(on)
	}
}
