// Package options contains the program options of the interpreter, the
// assembler and the disassembler, and parses them from the command line.
package options

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// Frontends selectable with -ui.
const (
	UISDL  = "sdl"
	UITerm = "term"
)

// Defaults.
const (
	DefaultSpeed  = 500
	DefaultScale  = 10
	DefaultOutput = "out.ch8"
)

// Interpreter options of chip8vm.
type Interpreter struct {
	ROM      string // program to run, asked for with a dialog if empty
	UI       string // frontend: sdl or term
	Speed    int    // instructions per second
	Scale    int    // window pixels per CHIP-8 pixel
	Continue bool   // skip faulting instructions instead of stopping
	Dump     bool   // print the memory dump after loading
	Debug    bool
	Quiet    bool
}

// Assembler options of chip8asm.
type Assembler struct {
	Input  string
	Output string
	Debug  bool
	Quiet  bool
}

// Disassembler options of chip8disasm.
type Disassembler struct {
	Input     string
	Output    string // printed on console if empty
	Offset    int    // from 0x200, given in hex
	Addresses bool
	Standard  bool // annotate with the standard mnemonics
	Debug     bool
	Quiet     bool
}

// UsageError represents an error that should show usage information.
type UsageError struct {
	flags *flag.FlagSet
	usage string
	msg   string
}

func (e *UsageError) Error() string {
	return e.msg
}

// ShowUsage prints the usage line and the flag defaults.
func (e *UsageError) ShowUsage() {
	fmt.Printf("usage: %s\n\n", e.usage)
	e.flags.SetOutput(os.Stdout)
	e.flags.PrintDefaults()
	fmt.Println()
}

// ParseInterpreter parses the chip8vm command line, excluding the
// program name.
func ParseInterpreter(args []string) (Interpreter, error) {
	flags := newFlagSet("chip8vm")
	opts := Interpreter{}
	usage := "chip8vm [options] [file to run]"

	flags.StringVar(&opts.UI, "ui", UISDL, "frontend to use (sdl/term)")
	flags.IntVar(&opts.Speed, "speed", DefaultSpeed, "instructions executed per second")
	flags.IntVar(&opts.Scale, "scale", DefaultScale, "window pixels per CHIP-8 pixel")
	flags.BoolVar(&opts.Continue, "continue", false, "skip invalid instructions instead of stopping")
	flags.BoolVar(&opts.Dump, "dump", false, "print a memory dump of the loaded program")
	flags.BoolVar(&opts.Debug, "debug", false, "enable debugging options for extended logging")
	flags.BoolVar(&opts.Quiet, "q", false, "perform operations quietly")

	rest, err := parse(flags, usage, args, 1)
	if err != nil {
		return opts, err
	}
	if len(rest) > 0 {
		opts.ROM = rest[0]
	}

	opts.UI = strings.ToLower(opts.UI)
	switch opts.UI {
	case UISDL:
	case UITerm:
		if opts.ROM == "" {
			return opts, &UsageError{flags: flags, usage: usage, msg: "the terminal frontend needs a file to run"}
		}
	default:
		return opts, fmt.Errorf("unsupported frontend: %s. Valid options: %s, %s", opts.UI, UISDL, UITerm)
	}

	if opts.Speed <= 0 {
		return opts, fmt.Errorf("invalid speed %d", opts.Speed)
	}
	if opts.Scale <= 0 {
		return opts, fmt.Errorf("invalid scale %d", opts.Scale)
	}

	return opts, nil
}

// ParseAssembler parses the chip8asm command line, excluding the program
// name.
func ParseAssembler(args []string) (Assembler, error) {
	flags := newFlagSet("chip8asm")
	opts := Assembler{}
	usage := "chip8asm [options] <file to assemble>"

	flags.StringVar(&opts.Output, "o", DefaultOutput, "name of the output ROM file")
	flags.BoolVar(&opts.Debug, "debug", false, "enable debugging options for extended logging")
	flags.BoolVar(&opts.Quiet, "q", false, "perform operations quietly")

	rest, err := parse(flags, usage, args, 1)
	if err != nil {
		return opts, err
	}
	if len(rest) == 0 {
		return opts, &UsageError{flags: flags, usage: usage, msg: "missing file to assemble"}
	}
	opts.Input = rest[0]

	return opts, nil
}

// ParseDisassembler parses the chip8disasm command line, excluding the
// program name. An optional hexadecimal offset may follow the file.
func ParseDisassembler(args []string) (Disassembler, error) {
	flags := newFlagSet("chip8disasm")
	opts := Disassembler{}
	usage := "chip8disasm [options] <file to disassemble> [hex offset]"

	flags.StringVar(&opts.Output, "o", "", "name of the output source file, printed on console if no name given")
	flags.BoolVar(&opts.Addresses, "addr", false, "prefix every line with its address")
	flags.BoolVar(&opts.Standard, "std", false, "annotate every line with the standard mnemonic")
	flags.BoolVar(&opts.Debug, "debug", false, "enable debugging options for extended logging")
	flags.BoolVar(&opts.Quiet, "q", false, "perform operations quietly")

	rest, err := parse(flags, usage, args, 2)
	if err != nil {
		return opts, err
	}
	if len(rest) == 0 {
		return opts, &UsageError{flags: flags, usage: usage, msg: "missing file to disassemble"}
	}
	opts.Input = rest[0]

	if len(rest) > 1 {
		offset, err := ParseOffset(rest[1])
		if err != nil {
			return opts, err
		}
		opts.Offset = offset
	}

	return opts, nil
}

// ParseOffset reads a hexadecimal offset, with or without a 0x or $ prefix.
func ParseOffset(s string) (int, error) {
	digits := strings.TrimPrefix(strings.TrimPrefix(strings.ToLower(s), "0x"), "$")

	offset, err := strconv.ParseUint(digits, 16, 12)
	if err != nil {
		return 0, fmt.Errorf("invalid offset '%s': %w", s, err)
	}
	return int(offset), nil
}

func newFlagSet(name string) *flag.FlagSet {
	flags := flag.NewFlagSet(name, flag.ContinueOnError)
	flags.SetOutput(io.Discard)
	return flags
}

// parse runs the flag set and checks the positional arguments that
// remain.
func parse(flags *flag.FlagSet, usage string, args []string, maxPositional int) ([]string, error) {
	if err := flags.Parse(args); err != nil {
		msg := err.Error()
		if errors.Is(err, flag.ErrHelp) {
			msg = ""
		}
		return nil, &UsageError{flags: flags, usage: usage, msg: msg}
	}

	rest := flags.Args()
	for i, arg := range rest {
		if i > 0 && strings.HasPrefix(arg, "-") {
			return nil, &UsageError{
				flags: flags,
				usage: usage,
				msg:   fmt.Sprintf("Potential argument %s found after file, please pass the file as last argument", arg),
			}
		}
	}
	if len(rest) > maxPositional {
		return nil, &UsageError{flags: flags, usage: usage, msg: fmt.Sprintf("unexpected argument %s", rest[maxPositional])}
	}

	return rest, nil
}
