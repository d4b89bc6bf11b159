package main

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/chip8vm/chip8vm/chip8"
	"github.com/chip8vm/chip8vm/internal/options"
	"github.com/retroenv/retrogolib/assert"
	"github.com/retroenv/retrogolib/log"
)

func TestDisasmFile(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "prog.ch8")
	output := filepath.Join(dir, "prog.src")
	assert.NoError(t, os.WriteFile(input, []byte{0x61, 0x20, 0x12, 0x02}, 0o600))

	opts := options.Disassembler{Input: input, Output: output}
	assert.NoError(t, disasmFile(log.NewTestLogger(t), opts))

	listing, err := os.ReadFile(output)
	assert.NoError(t, err)
	assert.True(t, strings.HasSuffix(string(listing), "MOV.I V1 $20\nGOTO $202\n"))

	// the listing assembles back into the same program
	asm, err := chip8.AssembleBytes(listing)
	assert.NoError(t, err)
	assert.Equal(t, []byte{0x61, 0x20, 0x12, 0x02}, asm.ROM)
}

func TestDisasmFile_Invalid(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "data.ch8")
	assert.NoError(t, os.WriteFile(input, []byte{0x00, 0xE0, 0xFF, 0xFF}, 0o600))

	opts := options.Disassembler{Input: input, Output: filepath.Join(dir, "data.src")}
	err := disasmFile(log.NewTestLogger(t), opts)
	assert.True(t, errors.Is(err, chip8.ErrInvalidInstruction))
	assert.ErrorContains(t, err, "0x202")

	opts.Input = filepath.Join(dir, "missing.ch8")
	err = disasmFile(log.NewTestLogger(t), opts)
	assert.ErrorContains(t, err, "opening file")
}
