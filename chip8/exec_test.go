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
	"math/rand"
	"testing"

	"github.com/retroenv/retrogolib/assert"
)

func newTestVM() *VM {
	vm := New()
	vm.Rand = rand.New(rand.NewSource(1))
	return vm
}

func execute(t *testing.T, vm *VM, inst uint16) Status {
	t.Helper()

	vm.Opcode = inst
	status, err := vm.Execute()
	assert.NoError(t, err)
	return status
}

func TestExecute_LoadImmediate(t *testing.T) {
	vm := newTestVM()

	for x := uint16(0); x < 16; x++ {
		for _, nn := range []uint16{0x00, 0x01, 0x7F, 0xEF, 0xFF} {
			vm.V[x] = 0xA5
			status := execute(t, vm, 0x6000|x<<8|nn)

			assert.Equal(t, Advance, status)
			assert.Equal(t, byte(nn), vm.V[x])
		}
	}
}

func TestExecute_AddImmediate(t *testing.T) {
	tests := []struct {
		name     string
		initial  byte
		inst     uint16
		expected byte
	}{
		{"standard", 0xCF, 0x7301, 0xD0},
		{"overflow", 0xFF, 0x7301, 0x00},
		{"add zero", 0xFF, 0x7300, 0xFF},
		{"add ff", 0xFF, 0x73FF, 0xFE},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			vm := newTestVM()
			vm.V[3] = tt.initial
			vm.V[0xF] = 0x55

			execute(t, vm, tt.inst)
			assert.Equal(t, tt.expected, vm.V[3])
			assert.Equal(t, byte(0x55), vm.V[0xF])
		})
	}
}

func TestExecute_Logic(t *testing.T) {
	tests := []struct {
		name     string
		inst     uint16
		vx, vy   byte
		expected byte
	}{
		{"mov", 0x8690, 0x00, 0xBB, 0xBB},
		{"or ff", 0x8691, 0x29, 0xFF, 0xFF},
		{"or 00", 0x8691, 0x29, 0x00, 0x29},
		{"or 57", 0x8691, 0x29, 0x57, 0x7F},
		{"and ff", 0x8692, 0x29, 0xFF, 0x29},
		{"and 00", 0x8692, 0x29, 0x00, 0x00},
		{"and 57", 0x8692, 0x29, 0x57, 0x01},
		{"xor ff", 0x8693, 0x29, 0xFF, 0xD6},
		{"xor 00", 0x8693, 0x29, 0x00, 0x29},
		{"xor 57", 0x8693, 0x29, 0x57, 0x7E},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			vm := newTestVM()
			vm.V[6] = tt.vx
			vm.V[9] = tt.vy

			execute(t, vm, tt.inst)
			assert.Equal(t, tt.expected, vm.V[6])
			assert.Equal(t, tt.vy, vm.V[9])
		})
	}
}

func TestExecute_Arithmetic(t *testing.T) {
	tests := []struct {
		name     string
		inst     uint16
		v0, v1   byte
		dest     int
		expected byte
		flag     byte
	}{
		{"add", 0x8104, 0x10, 0x32, 1, 0x42, 0},
		{"add with carry", 0x8104, 0xFF, 0x43, 1, 0x42, 1},
		{"add to ff", 0x8104, 0x01, 0xFF, 1, 0x00, 1},
		{"sub", 0x8105, 0x10, 0x32, 1, 0x22, 1},
		{"sub with borrow", 0x8105, 0xFF, 0x43, 1, 0x44, 0},
		{"sub equal", 0x8105, 0x43, 0x43, 1, 0x00, 1},
		{"subn", 0x8017, 0x10, 0x32, 0, 0x22, 1},
		{"subn with borrow", 0x8017, 0xFF, 0x43, 0, 0x44, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			vm := newTestVM()
			vm.V[0] = tt.v0
			vm.V[1] = tt.v1

			execute(t, vm, tt.inst)
			assert.Equal(t, tt.expected, vm.V[tt.dest])
			assert.Equal(t, tt.flag, vm.V[0xF])
		})
	}
}

func TestExecute_FlagRegisterAsDestination(t *testing.T) {
	vm := newTestVM()
	vm.V[0xF] = 0xFF
	vm.V[1] = 0x02

	// VF ends holding the carry, not the sum
	execute(t, vm, 0x8F14)
	assert.Equal(t, byte(1), vm.V[0xF])
}

func TestExecute_Shift(t *testing.T) {
	tests := []struct {
		name     string
		inst     uint16
		vy       byte
		expected byte
		flag     byte
	}{
		{"shr even", 0x8106, 0xDA, 0x6D, 0},
		{"shr odd", 0x8106, 0xDB, 0x6D, 1},
		{"shr ff", 0x8106, 0xFF, 0x7F, 1},
		{"shl msb set", 0x810E, 0xDA, 0xB4, 1},
		{"shl msb clear", 0x810E, 0x2B, 0x56, 0},
		{"shl ff", 0x810E, 0xFF, 0xFE, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			vm := newTestVM()
			vm.V[0] = tt.vy
			vm.V[1] = 0x11

			execute(t, vm, tt.inst)
			assert.Equal(t, tt.expected, vm.V[1])
			assert.Equal(t, tt.flag, vm.V[0xF])
			assert.Equal(t, tt.vy, vm.V[0])
		})
	}
}

func TestExecute_Skip(t *testing.T) {
	tests := []struct {
		name   string
		inst   uint16
		setup  func(vm *VM)
		expect uint16
	}{
		{"teq.i taken", 0x321A, func(vm *VM) { vm.V[2] = 0x1A }, 0x202},
		{"teq.i not taken", 0x321B, func(vm *VM) { vm.V[2] = 0x1A }, 0x200},
		{"tne.i taken", 0x441A, func(vm *VM) { vm.V[4] = 0x1B }, 0x202},
		{"tne.i not taken", 0x441B, func(vm *VM) { vm.V[4] = 0x1B }, 0x200},
		{"teq taken", 0x5AB0, func(vm *VM) { vm.V[0xA], vm.V[0xB] = 0x24, 0x24 }, 0x202},
		{"teq not taken", 0x5FA0, func(vm *VM) { vm.V[0xA], vm.V[0xF] = 0x06, 0x09 }, 0x200},
		{"tne taken", 0x9AB0, func(vm *VM) { vm.V[0xA], vm.V[0xB] = 0x44, 0x24 }, 0x202},
		{"tne not taken", 0x9FA0, func(vm *VM) { vm.V[0xA], vm.V[0xF] = 0x09, 0x09 }, 0x200},
		{"tkey taken", 0xE39E, func(vm *VM) { vm.V[3], vm.Keys[7] = 7, true }, 0x202},
		{"tkey not taken", 0xE39E, func(vm *VM) { vm.V[3] = 7 }, 0x200},
		{"tnkey taken", 0xE3A1, func(vm *VM) { vm.V[3] = 7 }, 0x202},
		{"tnkey not taken", 0xE3A1, func(vm *VM) { vm.V[3], vm.Keys[7] = 7, true }, 0x200},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			vm := newTestVM()
			vm.PC = 0x200
			tt.setup(vm)

			status := execute(t, vm, tt.inst)
			assert.Equal(t, Advance, status)
			assert.Equal(t, tt.expect, vm.PC)
		})
	}
}

func TestStep_SkipAddsToNormalAdvance(t *testing.T) {
	vm := newTestVM()
	vm.Memory[0x200] = 0x30
	vm.Memory[0x201] = 0x00

	_, err := vm.Step()
	assert.NoError(t, err)
	assert.Equal(t, uint16(0x204), vm.PC)

	vm.PC = 0x200
	vm.V[0] = 1

	_, err = vm.Step()
	assert.NoError(t, err)
	assert.Equal(t, uint16(0x202), vm.PC)
}

func TestExecute_Jump(t *testing.T) {
	tests := []struct {
		name   string
		inst   uint16
		v0     byte
		expect uint16
	}{
		{"goto", 0x1234, 0, 0x234},
		{"goto fff", 0x1FFF, 0, 0xFFF},
		{"jmpoff", 0xB100, 0x11, 0x111},
		{"jmpoff wraps", 0xBFFF, 0x11, 0x010},
		{"jmpoff large v0", 0xBFFF, 0xFF, 0x0FE},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			vm := newTestVM()
			vm.PC = 0
			vm.V[0] = tt.v0

			status := execute(t, vm, tt.inst)
			assert.Equal(t, Jumped, status)
			assert.Equal(t, tt.expect, vm.PC)
		})
	}
}

func TestExecute_CallReturn(t *testing.T) {
	t.Run("call", func(t *testing.T) {
		vm := newTestVM()
		vm.PC = 0x200
		vm.SP = 0xF

		status := execute(t, vm, 0x2145)
		assert.Equal(t, Jumped, status)
		assert.Equal(t, uint16(0x145), vm.PC)
		assert.Equal(t, uint8(0xE), vm.SP)
		assert.Equal(t, uint16(0x200), vm.Stack[0xE])
	})

	t.Run("call wraps stack pointer", func(t *testing.T) {
		vm := newTestVM()
		vm.PC = 0x300
		vm.SP = 0
		vm.Stack[0xF] = 0x202

		execute(t, vm, 0x2354)
		assert.Equal(t, uint16(0x354), vm.PC)
		assert.Equal(t, uint8(0xF), vm.SP)
		assert.Equal(t, uint16(0x300), vm.Stack[0xF])
	})

	t.Run("return", func(t *testing.T) {
		vm := newTestVM()
		vm.SP = 4
		vm.Stack[4] = 0x391
		vm.PC = 0x500

		status := execute(t, vm, 0x00EE)
		assert.Equal(t, Advance, status)
		assert.Equal(t, uint16(0x391), vm.PC)
		assert.Equal(t, uint8(5), vm.SP)
	})

	t.Run("return wraps stack pointer", func(t *testing.T) {
		vm := newTestVM()
		vm.SP = 0xF
		vm.Stack[0xF] = 0x393

		execute(t, vm, 0x00EE)
		assert.Equal(t, uint16(0x393), vm.PC)
		assert.Equal(t, uint8(0), vm.SP)
	})

	t.Run("round trip", func(t *testing.T) {
		for sp := uint8(0); sp < StackDepth; sp++ {
			vm := newTestVM()
			vm.PC = 0x302
			vm.SP = sp

			execute(t, vm, 0x2356)
			execute(t, vm, 0x00EE)
			assert.Equal(t, uint16(0x302), vm.PC)
			assert.Equal(t, sp, vm.SP)
		}
	})

	t.Run("overflow overwrites oldest", func(t *testing.T) {
		vm := newTestVM()

		for i := uint16(0); i < StackDepth+1; i++ {
			vm.PC = 0x200 + i*2
			execute(t, vm, 0x2400)
		}

		assert.Equal(t, uint8(0xF), vm.SP)
		assert.Equal(t, uint16(0x220), vm.Stack[0xF])
	})
}

func TestStep_CallReturn(t *testing.T) {
	vm := newTestVM()

	// 200: CALL 206, 202: MOV.I V1 $01, 206: MOV.I V0 $aa, 208: RET
	copy(vm.Memory[0x200:], []byte{0x22, 0x06, 0x61, 0x01, 0x00, 0x00, 0x60, 0xAA, 0x00, 0xEE})

	for range 4 {
		_, err := vm.Step()
		assert.NoError(t, err)
	}

	assert.Equal(t, byte(0xAA), vm.V[0])
	assert.Equal(t, byte(0x01), vm.V[1])
	assert.Equal(t, uint16(0x204), vm.PC)
	assert.Equal(t, uint8(0), vm.SP)
}

func TestExecute_IndexRegister(t *testing.T) {
	t.Run("index", func(t *testing.T) {
		vm := newTestVM()
		execute(t, vm, 0xAF34)
		assert.Equal(t, uint16(0xF34), vm.I)
	})

	t.Run("iadd", func(t *testing.T) {
		vm := newTestVM()
		vm.V[2] = 0x40
		vm.V[0xF] = 1
		vm.I = 0x002

		execute(t, vm, 0xF21E)
		assert.Equal(t, uint16(0x042), vm.I)
		assert.Equal(t, byte(0), vm.V[0xF])
	})

	t.Run("iadd overflow", func(t *testing.T) {
		vm := newTestVM()
		vm.V[2] = 0x40
		vm.I = 0xFFF

		execute(t, vm, 0xF21E)
		assert.Equal(t, uint16(0x03F), vm.I)
		assert.Equal(t, byte(1), vm.V[0xF])
	})

	t.Run("font", func(t *testing.T) {
		vm := newTestVM()

		vm.V[4] = 0
		execute(t, vm, 0xF429)
		assert.Equal(t, uint16(0x050), vm.I)

		vm.V[4] = 0xE
		execute(t, vm, 0xF429)
		assert.Equal(t, uint16(0x096), vm.I)
		assert.Equal(t, Font[0xE*GlyphSize:0xF*GlyphSize], vm.Memory[vm.I:vm.I+GlyphSize])
	})
}

func TestExecute_Timers(t *testing.T) {
	vm := newTestVM()

	vm.V[2] = 0xFF
	vm.DT = 0x40
	execute(t, vm, 0xF207)
	assert.Equal(t, byte(0x40), vm.V[2])

	vm.V[2] = 0x30
	execute(t, vm, 0xF215)
	assert.Equal(t, byte(0x30), vm.DT)

	vm.V[2] = 0x02
	execute(t, vm, 0xF218)
	assert.Equal(t, byte(0x02), vm.ST)
	assert.True(t, vm.Sound())

	vm.Tick()
	vm.Tick()
	vm.Tick()
	assert.Equal(t, byte(0x2D), vm.DT)
	assert.Equal(t, byte(0), vm.ST)
	assert.False(t, vm.Sound())
}

func TestExecute_BCD(t *testing.T) {
	tests := []struct {
		value    byte
		expected []byte
	}{
		{132, []byte{1, 3, 2}},
		{0, []byte{0, 0, 0}},
		{255, []byte{2, 5, 5}},
		{7, []byte{0, 0, 7}},
		{40, []byte{0, 4, 0}},
	}

	for _, tt := range tests {
		vm := newTestVM()
		vm.I = 0x300
		vm.V[5] = tt.value

		execute(t, vm, 0xF533)
		assert.Equal(t, tt.expected, vm.Memory[0x300:0x303])

		// the source register is not consumed by the conversion
		assert.Equal(t, tt.value, vm.V[5])
	}
}

func TestExecute_StoreLoad(t *testing.T) {
	vm := newTestVM()
	vm.I = 0x400

	for i := range vm.V {
		vm.V[i] = byte(0x10 + i)
	}
	vm.Memory[0x3FF] = 0xEE
	vm.Memory[0x407] = 0xEE

	execute(t, vm, 0xF655)
	assert.Equal(t, []byte{0x10, 0x11, 0x12, 0x13, 0x14, 0x15, 0x16}, vm.Memory[0x400:0x407])
	assert.Equal(t, byte(0xEE), vm.Memory[0x3FF])
	assert.Equal(t, byte(0xEE), vm.Memory[0x407])
	assert.Equal(t, uint16(0x400), vm.I)

	vm.V = [16]byte{}

	execute(t, vm, 0xF665)
	for i := 0; i <= 6; i++ {
		assert.Equal(t, byte(0x10+i), vm.V[i])
	}
	assert.Equal(t, byte(0), vm.V[7])
	assert.Equal(t, uint16(0x400), vm.I)
}

func TestExecute_Random(t *testing.T) {
	vm := newTestVM()

	for range 64 {
		execute(t, vm, 0xC300)
		assert.Equal(t, byte(0), vm.V[3])

		execute(t, vm, 0xC30F)
		assert.True(t, vm.V[3] < 0x10)
	}
}

func TestExecute_ClearScreen(t *testing.T) {
	vm := newTestVM()
	vm.Video[10] = PixelOn
	vm.Dirty = false

	execute(t, vm, 0x00E0)
	assert.Equal(t, [ScreenWidth * ScreenHeight]byte{}, vm.Video)
	assert.True(t, vm.Dirty)
}

func TestExecute_Draw(t *testing.T) {
	t.Run("collision", func(t *testing.T) {
		vm := newTestVM()
		vm.I = 0x300
		vm.Memory[0x300] = 0xF0
		vm.Memory[0x301] = 0x90
		vm.V[1], vm.V[2] = 10, 5
		vm.Dirty = false

		execute(t, vm, 0xD122)
		assert.Equal(t, byte(0), vm.V[0xF])
		assert.True(t, vm.Dirty)
		assert.True(t, vm.Pixel(10, 5))
		assert.True(t, vm.Pixel(13, 5))
		assert.False(t, vm.Pixel(14, 5))
		assert.True(t, vm.Pixel(10, 6))
		assert.False(t, vm.Pixel(11, 6))
		assert.True(t, vm.Pixel(13, 6))

		execute(t, vm, 0xD122)
		assert.Equal(t, byte(1), vm.V[0xF])
		assert.Equal(t, [ScreenWidth * ScreenHeight]byte{}, vm.Video)
	})

	t.Run("wraps at edges", func(t *testing.T) {
		vm := newTestVM()
		vm.I = 0x300
		vm.Memory[0x300] = 0xFF
		vm.Memory[0x301] = 0x81
		vm.V[1], vm.V[2] = 60, 31

		execute(t, vm, 0xD122)
		assert.True(t, vm.Pixel(60, 31))
		assert.True(t, vm.Pixel(63, 31))
		assert.True(t, vm.Pixel(0, 31))
		assert.True(t, vm.Pixel(3, 31))
		assert.False(t, vm.Pixel(4, 31))
		assert.True(t, vm.Pixel(60, 0))
		assert.True(t, vm.Pixel(3, 0))
		assert.False(t, vm.Pixel(61, 0))
	})

	t.Run("origin wraps", func(t *testing.T) {
		vm := newTestVM()
		vm.I = 0x300
		vm.Memory[0x300] = 0x80
		vm.V[1], vm.V[2] = 64+2, 32+1

		execute(t, vm, 0xD121)
		assert.True(t, vm.Pixel(2, 1))
	})

	t.Run("font glyph", func(t *testing.T) {
		vm := newTestVM()
		vm.V[0] = 0x0
		execute(t, vm, 0xF029)
		execute(t, vm, 0xD005)

		lit := 0
		for _, p := range vm.Video {
			if p == PixelOn {
				lit++
			}
		}
		assert.Equal(t, 14, lit)
	})
}

func TestExecute_GetKey(t *testing.T) {
	vm := newTestVM()
	vm.Memory[0x200] = 0xF4
	vm.Memory[0x201] = 0x0A

	status, err := vm.Step()
	assert.NoError(t, err)
	assert.Equal(t, WaitKey, status)
	assert.True(t, vm.Waiting())
	assert.Equal(t, uint16(0x200), vm.PC)

	// still suspended, nothing fetched
	status, err = vm.Step()
	assert.NoError(t, err)
	assert.Equal(t, WaitKey, status)

	vm.PressKey(0xB)
	assert.False(t, vm.Waiting())
	assert.Equal(t, byte(0xB), vm.V[4])
	assert.Equal(t, uint16(0x202), vm.PC)
	assert.True(t, vm.Keys[0xB])

	vm.ReleaseKey(0xB)
	assert.False(t, vm.Keys[0xB])
}

func TestExecute_Invalid(t *testing.T) {
	tests := []struct {
		name string
		inst uint16
		err  error
	}{
		{"teq low nibble", 0x5121, ErrInvalidInstruction},
		{"tne low nibble", 0x9011, ErrInvalidInstruction},
		{"alu 8", 0x8128, ErrInvalidInstruction},
		{"alu f", 0x812F, ErrInvalidInstruction},
		{"key 00", 0xE100, ErrInvalidInstruction},
		{"misc 00", 0xF100, ErrInvalidInstruction},
		{"misc 56", 0xF156, ErrInvalidInstruction},
		{"sys", 0x0123, ErrUnsupportedInstruction},
		{"sys zero", 0x0000, ErrUnsupportedInstruction},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			vm := newTestVM()
			vm.PC = 0x240
			vm.Opcode = tt.inst

			_, err := vm.Execute()
			assert.Error(t, err)
			assert.True(t, errors.Is(err, tt.err))

			var instErr *InstructionError
			assert.True(t, errors.As(err, &instErr))
			assert.Equal(t, uint16(0x240), instErr.PC)
			assert.Equal(t, tt.inst, instErr.Opcode)
		})
	}
}

func TestStep_FaultLeavesPC(t *testing.T) {
	vm := newTestVM()
	vm.Memory[0x200] = 0x51
	vm.Memory[0x201] = 0x21

	_, err := vm.Step()
	assert.ErrorContains(t, err, "invalid instruction 0x5121 at address 0x200")
	assert.Equal(t, uint16(0x200), vm.PC)
	assert.Equal(t, uint16(0x5121), vm.Opcode)

	// a host may continue past the fault
	vm.Skip()
	assert.Equal(t, uint16(0x202), vm.PC)
}
