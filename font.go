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
	"github.com/chip8vm/chip8vm/chip8"
	"github.com/veandco/go-sdl2/sdl"
)

/// Advance between characters drawn with the CHIP-8 hex font. Glyphs are
/// 4 pixels wide and 5 high.
///
const (
	charWidth  = 5
	charHeight = 7
)

/// DrawText draws the hexadecimal digits of s using the built-in CHIP-8
/// font sprites. Any other character is left blank.
///
func (w *Window) DrawText(s string, x, y int32) {
	for _, c := range s {
		if digit, ok := hexDigit(c); ok {
			w.drawGlyph(digit, x, y)
		}

		// advance to the next character
		x += charWidth
	}
}

/// drawGlyph renders one 4x5 font sprite, a pixel per bit.
///
func (w *Window) drawGlyph(digit int, x, y int32) {
	glyph := chip8.Font[digit*chip8.GlyphSize : (digit+1)*chip8.GlyphSize]

	for row, bits := range glyph {
		for col := int32(0); col < 4; col++ {
			if bits&(0x80>>uint(col)) != 0 {
				_ = w.renderer.FillRect(&sdl.Rect{X: x + col, Y: y + int32(row), W: 1, H: 1})
			}
		}
	}
}

/// hexDigit converts an upper or lower case hex character.
///
func hexDigit(c rune) (int, bool) {
	switch {
	case c >= '0' && c <= '9':
		return int(c - '0'), true
	case c >= 'A' && c <= 'F':
		return int(c-'A') + 10, true
	case c >= 'a' && c <= 'f':
		return int(c-'a') + 10, true
	}
	return 0, false
}
