// Package main implements chip8disasm, the CHIP-8 disassembler.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/chip8vm/chip8vm/chip8"
	"github.com/chip8vm/chip8vm/internal/config"
	"github.com/chip8vm/chip8vm/internal/options"
	"github.com/retroenv/retrogolib/log"
)

var (
	version = "dev"
	commit  = ""
	date    = ""
)

func main() {
	opts, err := options.ParseDisassembler(os.Args[1:])
	if err != nil {
		logger := config.CreateLogger(opts.Debug, opts.Quiet)
		var usageErr *options.UsageError
		if errors.As(err, &usageErr) {
			config.PrintBanner(logger, "chip8disasm", opts.Quiet, version, commit, date)
			if usageErr.Error() != "" {
				logger.Error(usageErr.Error())
			}
			usageErr.ShowUsage()
		} else {
			logger.Error(err.Error())
		}
		os.Exit(1)
	}

	// console output is the listing itself
	quiet := opts.Quiet || opts.Output == ""
	logger := config.CreateLogger(opts.Debug, quiet)
	config.PrintBanner(logger, "chip8disasm", quiet, version, commit, date)

	if err := disasmFile(logger, opts); err != nil {
		logger.Error("Disassembling failed", log.Err(err))
		os.Exit(1)
	}
}

func disasmFile(logger *log.Logger, opts options.Disassembler) error {
	rom, err := os.ReadFile(opts.Input)
	if err != nil {
		return fmt.Errorf("opening file '%s': %w", opts.Input, err)
	}

	logger.Info("Processing CHIP-8 ROM",
		log.String("file", opts.Input),
		log.Int("size", len(rom)),
		log.String("offset", fmt.Sprintf("0x%03X", opts.Offset)),
	)

	var outputFile io.WriteCloser
	if opts.Output == "" {
		outputFile = nopCloser{os.Stdout}
	} else {
		outputFile, err = os.Create(opts.Output)
		if err != nil {
			return fmt.Errorf("creating file '%s': %w", opts.Output, err)
		}
	}

	err = chip8.Disassemble(outputFile, rom, chip8.DisasmOptions{
		Offset:    opts.Offset,
		Addresses: opts.Addresses,
		Annotate:  opts.Standard,
	})

	// the listing up to the bad word is kept
	if closeErr := outputFile.Close(); err == nil && closeErr != nil {
		return fmt.Errorf("closing file: %w", closeErr)
	}
	if err != nil {
		return fmt.Errorf("processing file: %w", err)
	}

	return nil
}

// nopCloser wraps an io.Writer to add a no-op Close method.
type nopCloser struct {
	io.Writer
}

func (nopCloser) Close() error {
	return nil
}
