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
	"fmt"
	"math/rand"
	"os"
	"time"
)

const (
	/// ProgramStart is where every ROM is loaded and execution begins.
	///
	ProgramStart = 0x200

	/// MemorySize is the size of the CHIP-8 address space.
	///
	MemorySize = 0x1000

	/// MaxROMSize is the largest program that fits above the reserved area.
	///
	MaxROMSize = MemorySize - ProgramStart

	/// ScreenWidth and ScreenHeight are the display resolution in pixels.
	///
	ScreenWidth  = 64
	ScreenHeight = 32

	/// StackDepth is the number of return addresses in the call ring.
	///
	StackDepth = 16

	/// PixelOn and PixelOff are the only values a Video cell takes.
	///
	PixelOn  = 0xFF
	PixelOff = 0x00
)

/// Status tells the fetch loop what to do with the program counter after
/// an instruction executed.
///
type Status int

const (
	/// Advance means PC must move past the instruction (+2).
	///
	Advance Status = iota

	/// Jumped means the instruction left PC in its final form.
	///
	Jumped

	/// WaitKey means the machine is suspended until a key is pressed.
	///
	WaitKey
)

func (s Status) String() string {
	switch s {
	case Advance:
		return "advance"
	case Jumped:
		return "jumped"
	case WaitKey:
		return "wait-key"
	}
	return fmt.Sprintf("status(%d)", int(s))
}

/// VM is the CHIP-8 virtual machine state. It is owned by a single run
/// loop; nothing in it is safe for concurrent use.
///
type VM struct {
	/// ROM is the program image loaded at 0x200. Reset copies it back
	/// into a fresh memory.
	///
	ROM []byte

	/// Memory addressable by CHIP-8. The first 512 bytes are reserved,
	/// with the font sprites at 0x050-0x09F.
	///
	Memory [MemorySize]byte

	/// Video memory, one byte per pixel (PixelOn or PixelOff), row major.
	///
	Video [ScreenWidth * ScreenHeight]byte

	/// V are the 16 virtual registers. VF doubles as the flag register.
	///
	V [16]byte

	/// I is the address register (12 bits significant).
	///
	I uint16

	/// PC is the program counter. All programs begin at 0x200.
	///
	PC uint16

	/// Stack is a ring of return addresses. SP wraps modulo 16, so an
	/// overflow silently overwrites the oldest entry.
	///
	Stack [StackDepth]uint16

	/// SP is the stack pointer, always 0..15. CALL pre-decrements and
	/// RET post-increments.
	///
	SP uint8

	/// DT and ST are the delay and sound timers, decremented by Tick.
	///
	DT byte
	ST byte

	/// Keys hold the current state for the 16-key pad keys.
	///
	Keys [16]bool

	/// Opcode is the most recently fetched instruction.
	///
	Opcode uint16

	/// Dirty is set by CLRS and DRAW. The host clears it after presenting.
	///
	Dirty bool

	/// Cycles is how many instructions have been executed.
	///
	Cycles uint64

	/// Rand is the source for RAND.
	///
	Rand *rand.Rand

	// waiting is set while GETKEY is suspended, w is its target register.
	waiting bool
	w       uint8
}

/// New returns a powered-on CHIP-8 with no program loaded.
///
func New() *VM {
	vm := &VM{
		Rand: rand.New(rand.NewSource(time.Now().UTC().UnixNano())),
	}

	vm.Reset()

	return vm
}

/// LoadROM creates a new CHIP-8 virtual machine with program at 0x200.
///
func LoadROM(program []byte) (*VM, error) {
	if len(program) > MaxROMSize {
		return nil, fmt.Errorf("%w: %d bytes, limit is %d", ErrROMTooLarge, len(program), MaxROMSize)
	}

	vm := New()

	// keep a pristine copy for resets
	vm.ROM = append([]byte(nil), program...)
	vm.Reset()

	return vm, nil
}

/// LoadFile reads a ROM file and returns a new CHIP-8 virtual machine.
///
func LoadFile(file string) (*VM, error) {
	program, err := os.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrResourceUnavailable, err)
	}

	vm, err := LoadROM(program)
	if err != nil {
		return nil, fmt.Errorf("loading '%s': %w", file, err)
	}

	return vm, nil
}

/// Reset the CHIP-8 virtual machine to the state just after loading.
///
func (vm *VM) Reset() {
	vm.Memory = [MemorySize]byte{}

	// font sprites live in the reserved area
	copy(vm.Memory[FontAddress:], Font[:])

	// the program, zero filled after it
	copy(vm.Memory[ProgramStart:], vm.ROM)

	// reset video memory and keys
	vm.Video = [ScreenWidth * ScreenHeight]byte{}
	vm.Keys = [16]bool{}

	// reset program counter and the call ring
	vm.PC = ProgramStart
	vm.SP = 0
	vm.Stack = [StackDepth]uint16{}

	// reset address and virtual registers
	vm.I = 0
	vm.V = [16]byte{}

	// reset timer registers
	vm.DT = 0
	vm.ST = 0

	vm.Opcode = 0
	vm.Cycles = 0
	vm.Dirty = true

	// not waiting for a key
	vm.waiting = false
	vm.w = 0
}

/// PressKey emulates a CHIP-8 key being pressed. If GETKEY is waiting,
/// the key is stored and execution resumes at the next instruction.
///
func (vm *VM) PressKey(key uint8) {
	if key >= 16 {
		return
	}

	vm.Keys[key] = true

	if vm.waiting {
		vm.V[vm.w] = key

		// clear wait flag and move past the GETKEY
		vm.waiting = false
		vm.PC = (vm.PC + 2) & 0xFFF
	}
}

/// ReleaseKey emulates a CHIP-8 key being released.
///
func (vm *VM) ReleaseKey(key uint8) {
	if key < 16 {
		vm.Keys[key] = false
	}
}

/// Waiting is true while a GETKEY instruction is suspended.
///
func (vm *VM) Waiting() bool {
	return vm.waiting
}

/// Tick decrements the delay and sound timers. Call it at 60 Hz, between
/// instruction steps.
///
func (vm *VM) Tick() {
	if vm.DT > 0 {
		vm.DT--
	}
	if vm.ST > 0 {
		vm.ST--
	}
}

/// Sound is true while the sound timer is running.
///
func (vm *VM) Sound() bool {
	return vm.ST > 0
}

/// Pixel reports whether the pixel at <x,y> is lit.
///
func (vm *VM) Pixel(x, y int) bool {
	return vm.Video[y*ScreenWidth+x] == PixelOn
}

/// Step the CHIP-8 virtual machine a single instruction: fetch, execute
/// and advance the program counter unless the instruction moved it.
///
func (vm *VM) Step() (Status, error) {
	if vm.waiting {
		return WaitKey, nil
	}

	vm.Opcode = vm.fetch()

	status, err := vm.Execute()
	if err != nil {
		return status, err
	}

	if status == Advance {
		vm.PC = (vm.PC + 2) & 0xFFF
	}

	// increment the cycle count
	vm.Cycles++

	return status, nil
}

/// Skip moves past the instruction at PC without executing it. Hosts use
/// it to continue after a fault.
///
func (vm *VM) Skip() {
	vm.waiting = false
	vm.PC = (vm.PC + 2) & 0xFFF
}

/// Fetch the 16-bit instruction at PC. The program counter isn't moved.
///
func (vm *VM) fetch() uint16 {
	return vm.word(vm.PC)
}

/// word reads the big-endian instruction at address.
///
func (vm *VM) word(address uint16) uint16 {
	hi := vm.Memory[address&0xFFF]
	lo := vm.Memory[(address+1)&0xFFF]

	return uint16(hi)<<8 | uint16(lo)
}
