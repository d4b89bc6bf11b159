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
	"fmt"
	"strings"
)

/// Shape is the operand layout of an instruction.
///
type Shape int

const (
	/// ShapeNone takes no operands: CLRS.
	///
	ShapeNone Shape = iota

	/// ShapeAddr takes a 12-bit address: GOTO $nnn.
	///
	ShapeAddr

	/// ShapeRegByte takes a register and a byte: MOV.I Vx $nn.
	///
	ShapeRegByte

	/// ShapeRegReg takes two registers: MOV.V Vx Vy.
	///
	ShapeRegReg

	/// ShapeReg takes a single register: BCD Vx.
	///
	ShapeReg

	/// ShapeDraw takes two registers and a nibble: DRAW Vx Vy n.
	///
	ShapeDraw
)

/// Opcode is one row of the instruction table shared by the assembler
/// and the disassembler.
///
type Opcode struct {
	Mnemonic string
	Value    uint16
	Mask     uint16
	Shape    Shape
}

/// Opcodes is every CHIP-8 instruction. Order matters: exact encodings
/// come before the SYS catch-all they overlap with.
///
var Opcodes = []Opcode{
	{"CLRS", 0x00E0, 0xFFFF, ShapeNone},
	{"RET", 0x00EE, 0xFFFF, ShapeNone},
	{"CALLPROG", 0x0000, 0xF000, ShapeAddr},
	{"GOTO", 0x1000, 0xF000, ShapeAddr},
	{"CALL", 0x2000, 0xF000, ShapeAddr},
	{"TEQ.I", 0x3000, 0xF000, ShapeRegByte},
	{"TNE.I", 0x4000, 0xF000, ShapeRegByte},
	{"TEQ", 0x5000, 0xF00F, ShapeRegReg},
	{"MOV.I", 0x6000, 0xF000, ShapeRegByte},
	{"INC.I", 0x7000, 0xF000, ShapeRegByte},
	{"MOV.V", 0x8000, 0xF00F, ShapeRegReg},
	{"OR", 0x8001, 0xF00F, ShapeRegReg},
	{"AND", 0x8002, 0xF00F, ShapeRegReg},
	{"XOR", 0x8003, 0xF00F, ShapeRegReg},
	{"INC.V", 0x8004, 0xF00F, ShapeRegReg},
	{"SUB", 0x8005, 0xF00F, ShapeRegReg},
	{"SHR", 0x8006, 0xF00F, ShapeRegReg},
	{"LESS", 0x8007, 0xF00F, ShapeRegReg},
	{"SHL", 0x800E, 0xF00F, ShapeRegReg},
	{"TNE", 0x9000, 0xF00F, ShapeRegReg},
	{"INDEX", 0xA000, 0xF000, ShapeAddr},
	{"JMPOFF", 0xB000, 0xF000, ShapeAddr},
	{"RAND", 0xC000, 0xF000, ShapeRegByte},
	{"DRAW", 0xD000, 0xF000, ShapeDraw},
	{"TKEY", 0xE09E, 0xF0FF, ShapeReg},
	{"TNKEY", 0xE0A1, 0xF0FF, ShapeReg},
	{"SET.DT", 0xF007, 0xF0FF, ShapeReg},
	{"GETKEY", 0xF00A, 0xF0FF, ShapeReg},
	{"GET.DT", 0xF015, 0xF0FF, ShapeReg},
	{"SET.ST", 0xF018, 0xF0FF, ShapeReg},
	{"IADD", 0xF01E, 0xF0FF, ShapeReg},
	{"FONT", 0xF029, 0xF0FF, ShapeReg},
	{"BCD", 0xF033, 0xF0FF, ShapeReg},
	{"STORE", 0xF055, 0xF0FF, ShapeReg},
	{"LOAD", 0xF065, 0xF0FF, ShapeReg},
}

var mnemonics = make(map[string]Opcode, len(Opcodes))

func init() {
	for _, op := range Opcodes {
		mnemonics[op.Mnemonic] = op
	}
}

/// Lookup finds the table row that encodes inst.
///
func Lookup(inst uint16) (Opcode, bool) {
	for _, op := range Opcodes {
		if inst&op.Mask == op.Value {
			return op, true
		}
	}

	return Opcode{}, false
}

/// Find returns the table row for a mnemonic. Mnemonics are case-sensitive.
///
func Find(mnemonic string) (Opcode, bool) {
	op, ok := mnemonics[mnemonic]
	return op, ok
}

/// Operands is the number of operands the instruction takes.
///
func (o Opcode) Operands() int {
	switch o.Shape {
	case ShapeAddr, ShapeReg:
		return 1
	case ShapeRegByte, ShapeRegReg:
		return 2
	case ShapeDraw:
		return 3
	}
	return 0
}

/// Format renders inst with this row's mnemonic and operands.
///
func (o Opcode) Format(inst uint16) string {
	x := inst >> 8 & 0xF
	y := inst >> 4 & 0xF

	switch o.Shape {
	case ShapeAddr:
		return fmt.Sprintf("%s $%03x", o.Mnemonic, inst&0xFFF)
	case ShapeRegByte:
		return fmt.Sprintf("%s V%x $%02x", o.Mnemonic, x, inst&0xFF)
	case ShapeRegReg:
		return fmt.Sprintf("%s V%x V%x", o.Mnemonic, x, y)
	case ShapeReg:
		return fmt.Sprintf("%s V%x", o.Mnemonic, x)
	case ShapeDraw:
		return fmt.Sprintf("%s V%x V%x %x", o.Mnemonic, x, y, inst&0xF)
	}

	return o.Mnemonic
}

/// Encode builds the instruction from its operand values, which must
/// already be range checked by position: registers and nibbles < 0x10,
/// bytes < 0x100, addresses < 0x1000.
///
func (o Opcode) Encode(args []uint16) (uint16, error) {
	if len(args) != o.Operands() {
		return 0, fmt.Errorf("%s takes %d operands, got %d", o.Mnemonic, o.Operands(), len(args))
	}

	inst := o.Value

	switch o.Shape {
	case ShapeAddr:
		inst |= args[0]
	case ShapeRegByte:
		inst |= args[0]<<8 | args[1]
	case ShapeRegReg:
		inst |= args[0]<<8 | args[1]<<4
	case ShapeReg:
		inst |= args[0] << 8
	case ShapeDraw:
		inst |= args[0]<<8 | args[1]<<4 | args[2]
	}

	return inst, nil
}

/// operand kinds by position, used to parse and range check source text.
///
type operandKind int

const (
	kindReg operandKind = iota
	kindByte
	kindAddr
	kindNibble
)

/// kinds returns the kind of each operand position.
///
func (o Opcode) kinds() []operandKind {
	switch o.Shape {
	case ShapeAddr:
		return []operandKind{kindAddr}
	case ShapeRegByte:
		return []operandKind{kindReg, kindByte}
	case ShapeRegReg:
		return []operandKind{kindReg, kindReg}
	case ShapeReg:
		return []operandKind{kindReg}
	case ShapeDraw:
		return []operandKind{kindReg, kindReg, kindNibble}
	}
	return nil
}

var errOperand = errors.New("bad operand")

/// parseOperand reads one hexadecimal operand of the given kind.
///
func parseOperand(s string, kind operandKind) (uint16, error) {
	limit := uint64(0x10)

	switch kind {
	case kindReg:
		if !strings.HasPrefix(s, "V") && !strings.HasPrefix(s, "v") {
			return 0, fmt.Errorf("%w: expected register, got %q", errOperand, s)
		}
		s = s[1:]
	case kindByte:
		s = strings.TrimPrefix(s, "$")
		limit = 0x100
	case kindAddr:
		s = strings.TrimPrefix(s, "$")
		limit = 0x1000
	case kindNibble:
		s = strings.TrimPrefix(s, "$")
	}

	v, err := parseHex(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not hexadecimal", errOperand, s)
	}
	if v >= limit {
		return 0, fmt.Errorf("%w: %q out of range", errOperand, s)
	}

	return uint16(v), nil
}
