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

/// Execute applies the instruction in vm.Opcode to the machine. The
/// program counter is only changed by control flow instructions; for
/// every other instruction the returned status is Advance and the caller
/// moves PC past it.
///
func (vm *VM) Execute() (Status, error) {
	inst := vm.Opcode

	// 12-bit address operand
	a := inst & 0xFFF

	// byte and nibble operands
	b := byte(inst & 0xFF)
	n := byte(inst & 0xF)

	// x and y register operands
	x := uint8(inst >> 8 & 0xF)
	y := uint8(inst >> 4 & 0xF)

	switch inst >> 12 {
	case 0x0:
		switch inst {
		case 0x00E0:
			vm.cls()
		case 0x00EE:
			vm.ret()
		default:
			return Advance, vm.fault(ErrUnsupportedInstruction)
		}
	case 0x1:
		vm.jump(a)
		return Jumped, nil
	case 0x2:
		vm.call(a)
		return Jumped, nil
	case 0x3:
		vm.skipIf(x, b)
	case 0x4:
		vm.skipIfNot(x, b)
	case 0x5:
		if n != 0 {
			return Advance, vm.fault(ErrInvalidInstruction)
		}
		vm.skipIfXY(x, y)
	case 0x6:
		vm.loadX(x, b)
	case 0x7:
		vm.addX(x, b)
	case 0x8:
		return vm.executeALU(x, y, n)
	case 0x9:
		if n != 0 {
			return Advance, vm.fault(ErrInvalidInstruction)
		}
		vm.skipIfNotXY(x, y)
	case 0xA:
		vm.loadI(a)
	case 0xB:
		vm.jumpV0(a)
		return Jumped, nil
	case 0xC:
		vm.rnd(x, b)
	case 0xD:
		vm.drw(x, y, n)
	case 0xE:
		switch b {
		case 0x9E:
			vm.skipIfPressed(x)
		case 0xA1:
			vm.skipIfNotPressed(x)
		default:
			return Advance, vm.fault(ErrInvalidInstruction)
		}
	case 0xF:
		return vm.executeMisc(x, b)
	}

	return Advance, nil
}

/// executeALU decodes the 8XYN register arithmetic group.
///
func (vm *VM) executeALU(x, y uint8, n byte) (Status, error) {
	switch n {
	case 0x0:
		vm.loadXY(x, y)
	case 0x1:
		vm.or(x, y)
	case 0x2:
		vm.and(x, y)
	case 0x3:
		vm.xor(x, y)
	case 0x4:
		vm.addXY(x, y)
	case 0x5:
		vm.subXY(x, y)
	case 0x6:
		vm.shr(x, y)
	case 0x7:
		vm.subYX(x, y)
	case 0xE:
		vm.shl(x, y)
	default:
		return Advance, vm.fault(ErrInvalidInstruction)
	}

	return Advance, nil
}

/// executeMisc decodes the FXNN timer, key and memory group.
///
func (vm *VM) executeMisc(x uint8, b byte) (Status, error) {
	switch b {
	case 0x07:
		vm.loadXDT(x)
	case 0x0A:
		vm.loadXK(x)
		return WaitKey, nil
	case 0x15:
		vm.loadDTX(x)
	case 0x18:
		vm.loadSTX(x)
	case 0x1E:
		vm.addIX(x)
	case 0x29:
		vm.loadF(x)
	case 0x33:
		vm.loadB(x)
	case 0x55:
		vm.saveRegs(x)
	case 0x65:
		vm.loadRegs(x)
	default:
		return Advance, vm.fault(ErrInvalidInstruction)
	}

	return Advance, nil
}

/// fault wraps err with the location of the current instruction.
///
func (vm *VM) fault(err error) error {
	return &InstructionError{PC: vm.PC, Opcode: vm.Opcode, Err: err}
}

/// Clear the video display memory.
///
func (vm *VM) cls() {
	for i := range vm.Video {
		vm.Video[i] = PixelOff
	}

	vm.Dirty = true
}

/// call a subroutine at address. The address of the CALL is pushed, so
/// RET followed by the usual advance resumes after it.
///
func (vm *VM) call(address uint16) {
	vm.SP = (vm.SP - 1) & (StackDepth - 1)
	vm.Stack[vm.SP] = vm.PC

	// jump to address
	vm.PC = address
}

/// return from subroutine.
///
func (vm *VM) ret() {
	vm.PC = vm.Stack[vm.SP]
	vm.SP = (vm.SP + 1) & (StackDepth - 1)
}

/// jump to address.
///
func (vm *VM) jump(address uint16) {
	vm.PC = address
}

/// jump to address + v0.
///
func (vm *VM) jumpV0(address uint16) {
	vm.PC = (address + uint16(vm.V[0])) & 0xFFF
}

/// skip next instruction if vx == n.
///
func (vm *VM) skipIf(x uint8, b byte) {
	if vm.V[x] == b {
		vm.PC += 2
	}
}

/// skip next instruction if vx != n.
///
func (vm *VM) skipIfNot(x uint8, b byte) {
	if vm.V[x] != b {
		vm.PC += 2
	}
}

/// skip next instruction if vx == vy.
///
func (vm *VM) skipIfXY(x, y uint8) {
	if vm.V[x] == vm.V[y] {
		vm.PC += 2
	}
}

/// skip next instruction if vx != vy.
///
func (vm *VM) skipIfNotXY(x, y uint8) {
	if vm.V[x] != vm.V[y] {
		vm.PC += 2
	}
}

/// skip next instruction if key(vx) is pressed.
///
func (vm *VM) skipIfPressed(x uint8) {
	if vm.Keys[vm.V[x]&0xF] {
		vm.PC += 2
	}
}

/// skip next instruction if key(vx) is not pressed.
///
func (vm *VM) skipIfNotPressed(x uint8) {
	if !vm.Keys[vm.V[x]&0xF] {
		vm.PC += 2
	}
}

/// load n into vx.
///
func (vm *VM) loadX(x uint8, b byte) {
	vm.V[x] = b
}

/// load y into vx.
///
func (vm *VM) loadXY(x, y uint8) {
	vm.V[x] = vm.V[y]
}

/// load delay timer into vx.
///
func (vm *VM) loadXDT(x uint8) {
	vm.V[x] = vm.DT
}

/// load vx into delay timer.
///
func (vm *VM) loadDTX(x uint8) {
	vm.DT = vm.V[x]
}

/// load vx into sound timer.
///
func (vm *VM) loadSTX(x uint8) {
	vm.ST = vm.V[x]
}

/// load vx with next key hit. Execution is suspended until PressKey.
///
func (vm *VM) loadXK(x uint8) {
	vm.waiting = true
	vm.w = x
}

/// load address register.
///
func (vm *VM) loadI(address uint16) {
	vm.I = address
}

/// load address with BCD of vx. vx is left untouched.
///
func (vm *VM) loadB(x uint8) {
	n := vm.V[x]

	vm.Memory[vm.I&0xFFF] = n / 100
	vm.Memory[(vm.I+1)&0xFFF] = n / 10 % 10
	vm.Memory[(vm.I+2)&0xFFF] = n % 10
}

/// load font sprite for vx into I.
///
func (vm *VM) loadF(x uint8) {
	vm.I = FontAddress + GlyphSize*uint16(vm.V[x])
}

/// or vx with vy into vx.
///
func (vm *VM) or(x, y uint8) {
	vm.V[x] |= vm.V[y]
}

/// and vx with vy into vx.
///
func (vm *VM) and(x, y uint8) {
	vm.V[x] &= vm.V[y]
}

/// xor vx with vy into vx.
///
func (vm *VM) xor(x, y uint8) {
	vm.V[x] ^= vm.V[y]
}

/// shl vy 1 bit into vx, set carry to MSB of vy before shift.
///
func (vm *VM) shl(x, y uint8) {
	s := vm.V[y]

	vm.V[x] = s << 1
	vm.V[0xF] = s >> 7
}

/// shr vy 1 bit into vx, set carry to LSB of vy before shift.
///
func (vm *VM) shr(x, y uint8) {
	s := vm.V[y]

	vm.V[x] = s >> 1
	vm.V[0xF] = s & 1
}

/// add n to vx.
///
func (vm *VM) addX(x uint8, b byte) {
	vm.V[x] += b
}

/// add vy to vx and set carry.
///
func (vm *VM) addXY(x, y uint8) {
	sum := uint16(vm.V[x]) + uint16(vm.V[y])

	vm.V[x] = byte(sum)
	vm.V[0xF] = byte(sum >> 8)
}

/// add vx to i, set carry if it leaves the 12-bit address space.
///
func (vm *VM) addIX(x uint8) {
	sum := vm.I + uint16(vm.V[x])

	vm.I = sum & 0xFFF

	if sum > 0xFFF {
		vm.V[0xF] = 1
	} else {
		vm.V[0xF] = 0
	}
}

/// subtract vy from vx, set carry if no borrow.
///
func (vm *VM) subXY(x, y uint8) {
	vx, vy := vm.V[x], vm.V[y]

	vm.V[x] = vx - vy

	if vx >= vy {
		vm.V[0xF] = 1
	} else {
		vm.V[0xF] = 0
	}
}

/// subtract vx from vy and store in vx, set carry if no borrow.
///
func (vm *VM) subYX(x, y uint8) {
	vx, vy := vm.V[x], vm.V[y]

	vm.V[x] = vy - vx

	if vy >= vx {
		vm.V[0xF] = 1
	} else {
		vm.V[0xF] = 0
	}
}

/// load a random number & n into vx.
///
func (vm *VM) rnd(x uint8, b byte) {
	vm.V[x] = byte(vm.Rand.Intn(256)) & b
}

/// draw a sprite at I to video memory at vx, vy. Pixels that fall off an
/// edge wrap around to the opposite edge.
///
func (vm *VM) drw(x, y uint8, n byte) {
	c := byte(0)

	// origin wraps onto the screen
	ox := int(vm.V[x]) % ScreenWidth
	oy := int(vm.V[y]) % ScreenHeight

	// draw each row of the sprite
	for row := 0; row < int(n); row++ {
		s := vm.Memory[(vm.I+uint16(row))&0xFFF]
		py := (oy + row) % ScreenHeight

		for bit := 0; bit < 8; bit++ {
			if s&(0x80>>uint(bit)) == 0 {
				continue
			}

			p := py*ScreenWidth + (ox+bit)%ScreenWidth

			// was a lit pixel turned off?
			if vm.Video[p] == PixelOn {
				c = 1
			}

			vm.Video[p] ^= PixelOn
		}
	}

	// set carry flag if any collision occurred
	vm.V[0xF] = c
	vm.Dirty = true
}

/// save registers v0..vx to I.
///
func (vm *VM) saveRegs(x uint8) {
	for i := uint16(0); i <= uint16(x); i++ {
		vm.Memory[(vm.I+i)&0xFFF] = vm.V[i]
	}
}

/// load registers v0..vx from I.
///
func (vm *VM) loadRegs(x uint8) {
	for i := uint16(0); i <= uint16(x); i++ {
		vm.V[i] = vm.Memory[(vm.I+i)&0xFFF]
	}
}
